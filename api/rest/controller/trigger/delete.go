package trigger

import (
	"net/http"

	"github.com/caesium-cloud/relay/api/rest/middleware"
	"github.com/caesium-cloud/relay/pkg/log"
	"github.com/labstack/echo/v4"
)

func (ctrl *Controller) Delete(c echo.Context) error {
	id, err := triggerID(c)
	if err != nil {
		return err
	}

	project := middleware.CurrentProject(c)

	if err := ctrl.service(c).Delete(project.ID, id); err != nil {
		return translate(err)
	}

	log.Info("trigger deleted", "project_id", project.ID, "trigger_id", id)

	return c.NoContent(http.StatusNoContent)
}
