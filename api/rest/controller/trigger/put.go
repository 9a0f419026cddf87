package trigger

import (
	"net/http"

	"github.com/caesium-cloud/relay/api/rest/middleware"
	"github.com/caesium-cloud/relay/api/rest/service/trigger"
	"github.com/labstack/echo/v4"
)

func (ctrl *Controller) Put(c echo.Context) error {
	id, err := triggerID(c)
	if err != nil {
		return err
	}

	req := &trigger.UpdateRequest{}
	if err := c.Bind(req); err != nil {
		return err
	}

	t, err := ctrl.service(c).Update(middleware.CurrentProject(c).ID, id, req)
	if err != nil {
		return translate(err)
	}

	return ctrl.renderOne(c, http.StatusOK, middleware.User(c), t)
}

func (ctrl *Controller) TakeOwnership(c echo.Context) error {
	id, err := triggerID(c)
	if err != nil {
		return err
	}

	user := middleware.User(c)

	t, err := ctrl.service(c).TakeOwnership(middleware.CurrentProject(c).ID, id, user.ID)
	if err != nil {
		return translate(err)
	}

	return ctrl.renderOne(c, http.StatusOK, user, t)
}
