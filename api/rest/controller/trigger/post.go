package trigger

import (
	"net/http"

	"github.com/caesium-cloud/relay/api/rest/middleware"
	"github.com/caesium-cloud/relay/api/rest/service/trigger"
	"github.com/caesium-cloud/relay/pkg/log"
	"github.com/labstack/echo/v4"
)

func (ctrl *Controller) Post(c echo.Context) error {
	var (
		req     = &trigger.CreateRequest{}
		user    = middleware.User(c)
		project = middleware.CurrentProject(c)
	)

	if err := c.Bind(req); err != nil {
		return err
	}

	req.ProjectID, req.OwnerID = project.ID, user.ID

	log.Info("creating trigger", "project_id", project.ID, "owner_id", user.ID)

	t, err := ctrl.service(c).Create(req)
	if err != nil {
		return translate(err)
	}

	return ctrl.renderOne(c, http.StatusCreated, user, t)
}
