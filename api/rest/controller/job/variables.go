package job

import (
	"errors"
	"net/http"

	"github.com/caesium-cloud/relay/internal/credential"
	"github.com/caesium-cloud/relay/internal/dispatch"
	"github.com/labstack/echo/v4"
)

const HeaderJobToken = "JOB-TOKEN"

type Controller struct {
	resolver   credential.Resolver
	dispatcher *dispatch.Dispatcher
}

func New(resolver credential.Resolver, dispatcher *dispatch.Dispatcher) *Controller {
	return &Controller{resolver: resolver, dispatcher: dispatcher}
}

// Variables returns the runtime environment of the running job
// identified by the JOB-TOKEN header.
func (ctrl *Controller) Variables(c echo.Context) error {
	ctx := c.Request().Context()

	token := c.Request().Header.Get(HeaderJobToken)
	if token == "" {
		token = c.QueryParam("job_token")
	}

	id, err := ctrl.resolver.Resolve(ctx, token)
	switch {
	case errors.Is(err, credential.ErrTokenInvalid):
		return echo.NewHTTPError(http.StatusUnauthorized, "401 Unauthorized")
	case err != nil:
		return echo.ErrInternalServerError.WithInternal(err)
	case id.Kind != credential.KindJob || !id.Job.Running():
		return echo.NewHTTPError(http.StatusUnauthorized, "401 Unauthorized")
	}

	vars, err := ctrl.dispatcher.RuntimeVariables(ctx, id.Job.ID)
	if err != nil {
		return echo.ErrInternalServerError.WithInternal(err)
	}

	return c.JSON(http.StatusOK, vars)
}
