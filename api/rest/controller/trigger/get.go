package trigger

import (
	"net/http"

	"github.com/caesium-cloud/relay/api/rest/middleware"
	"github.com/labstack/echo/v4"
)

func (ctrl *Controller) Get(c echo.Context) error {
	id, err := triggerID(c)
	if err != nil {
		return err
	}

	t, err := ctrl.service(c).Get(middleware.CurrentProject(c).ID, id)
	if err != nil {
		return translate(err)
	}

	return ctrl.renderOne(c, http.StatusOK, middleware.User(c), t)
}
