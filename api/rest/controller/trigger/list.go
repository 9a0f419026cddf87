package trigger

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/caesium-cloud/relay/api/rest/middleware"
	"github.com/caesium-cloud/relay/api/rest/service/trigger"
	"github.com/labstack/echo/v4"
)

func (ctrl *Controller) List(c echo.Context) error {
	req, err := parseListRequest(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "400 Bad request").WithInternal(err)
	}

	svc := ctrl.service(c)

	triggers, err := svc.List(req)
	if err != nil {
		return translate(err)
	}

	total, err := svc.Count(req.ProjectID)
	if err != nil {
		return translate(err)
	}

	paginate(c, req, total)

	resp, err := ctrl.render(c, middleware.User(c), triggers...)
	if err != nil {
		return translate(err)
	}

	return c.JSON(http.StatusOK, resp)
}

func parseListRequest(c echo.Context) (req *trigger.ListRequest, err error) {
	req = &trigger.ListRequest{ProjectID: middleware.CurrentProject(c).ID}

	if page := c.QueryParam("page"); page != "" {
		if req.Page, err = strconv.Atoi(page); err != nil {
			return nil, err
		}
	}

	if perPage := c.QueryParam("per_page"); perPage != "" {
		if req.PerPage, err = strconv.Atoi(perPage); err != nil {
			return nil, err
		}
	}

	req.Normalize()

	return
}

// paginate sets the pagination headers describing req within total.
func paginate(c echo.Context, req *trigger.ListRequest, total int64) {
	pages := int((total + int64(req.PerPage) - 1) / int64(req.PerPage))
	if pages == 0 {
		pages = 1
	}

	h := c.Response().Header()
	h.Set("X-Page", strconv.Itoa(req.Page))
	h.Set("X-Per-Page", strconv.Itoa(req.PerPage))
	h.Set("X-Total", strconv.FormatInt(total, 10))
	h.Set("X-Total-Pages", strconv.Itoa(pages))

	links := []string{}
	if req.Page < pages {
		h.Set("X-Next-Page", strconv.Itoa(req.Page+1))
		links = append(links, link(c, req.Page+1, req.PerPage, "next"))
	}
	if req.Page > 1 {
		h.Set("X-Prev-Page", strconv.Itoa(req.Page-1))
		links = append(links, link(c, req.Page-1, req.PerPage, "prev"))
	}
	links = append(links,
		link(c, 1, req.PerPage, "first"),
		link(c, pages, req.PerPage, "last"),
	)

	h.Set("Link", strings.Join(links, ", "))
}

func link(c echo.Context, page, perPage int, rel string) string {
	u := url.URL{
		Scheme: c.Scheme(),
		Host:   c.Request().Host,
		Path:   c.Request().URL.Path,
	}

	q := c.Request().URL.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	u.RawQuery = q.Encode()

	return fmt.Sprintf("<%s>; rel=%q", u.String(), rel)
}
