package pipeline

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/caesium-cloud/relay/internal/fire"
	"github.com/caesium-cloud/relay/pkg/log"
	"github.com/labstack/echo/v4"
)

// FireRequest is the JSON body of a pipeline trigger call.
type FireRequest struct {
	Token     string          `json:"token"`
	Ref       string          `json:"ref"`
	Variables json.RawMessage `json:"variables"`
}

// Fire serves both the generic and the ref scoped trigger endpoints.
// Every failure is rendered from its classified outcome.
func (ctrl *Controller) Fire(c echo.Context) error {
	req, err := parseFireRequest(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "400 Bad request"})
	}

	pipeline, err := ctrl.fire.Fire(c.Request().Context(), req)

	outcome := fire.Classify(err)
	switch outcome.Kind {
	case fire.KindCreated:
		return c.JSON(http.StatusCreated, NewResponse(pipeline, false))
	case fire.KindInternal:
		log.Error("pipeline trigger failure", "project_id", req.ProjectID, "error", err)
	}

	return c.JSON(outcome.Status, outcome.Body)
}

func parseFireRequest(c echo.Context) (*fire.Request, error) {
	// echo has already unescaped the ref once
	req := &fire.Request{
		ProjectID: c.Param("id"),
		PathRef:   c.Param("ref"),
	}

	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		body := &FireRequest{}

		raw, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return nil, err
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, body); err != nil {
				return nil, err
			}
		}

		req.Token, req.BodyRef, req.Variables = body.Token, body.Ref, body.Variables
	} else {
		form, err := c.FormParams()
		if err != nil {
			return nil, err
		}

		req.Token, req.BodyRef, req.Form = form.Get("token"), form.Get("ref"), form
	}

	if req.Token == "" {
		req.Token = c.QueryParam("token")
	}

	return req, nil
}
