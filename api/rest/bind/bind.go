package bind

import (
	"github.com/caesium-cloud/relay/api/rest/controller/event"
	"github.com/caesium-cloud/relay/api/rest/controller/job"
	"github.com/caesium-cloud/relay/api/rest/controller/pipeline"
	"github.com/caesium-cloud/relay/api/rest/controller/trigger"
	"github.com/caesium-cloud/relay/api/rest/middleware"
	"github.com/caesium-cloud/relay/internal/access"
	"github.com/caesium-cloud/relay/internal/credential"
	"github.com/caesium-cloud/relay/internal/dispatch"
	ievent "github.com/caesium-cloud/relay/internal/event"
	"github.com/caesium-cloud/relay/internal/fire"
	"github.com/caesium-cloud/relay/internal/models"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// Dependencies are the collaborators the REST controllers share.
type Dependencies struct {
	DB         *gorm.DB
	Bus        ievent.Bus
	Oracle     access.Oracle
	Resolver   credential.Resolver
	Dispatcher *dispatch.Dispatcher
	Fire       *fire.Service
	Secret     []byte
}

func All(g *echo.Group, deps *Dependencies) {
	Public(g, deps)
	Authenticated(g, deps)
}

// Public routes authenticate with trigger or job tokens only.
func Public(g *echo.Group, deps *Dependencies) {
	pipelines := pipeline.New(deps.DB, deps.Fire)
	jobs := job.New(deps.Resolver, deps.Dispatcher)

	g.POST("/projects/:id/trigger/pipeline", pipelines.Fire)
	g.POST("/projects/:id/ref/:ref/trigger/pipeline", pipelines.Fire)
	g.GET("/job/variables", jobs.Variables)
}

// Authenticated routes require a bearer token and project access.
func Authenticated(g *echo.Group, deps *Dependencies) {
	project := g.Group(
		"/projects/:id",
		middleware.Authenticate(deps.DB, deps.Secret),
		middleware.Project(deps.DB),
	)

	maintainer := middleware.RequireAccess(deps.Oracle, models.AccessMaintainer)
	reporter := middleware.RequireAccess(deps.Oracle, models.AccessReporter)

	// triggers
	{
		triggers := trigger.New(deps.DB, deps.Bus)

		project.GET("/triggers", triggers.List, maintainer)
		project.POST("/triggers", triggers.Post, maintainer)
		project.GET("/triggers/:trigger_id", triggers.Get, maintainer)
		project.PUT("/triggers/:trigger_id", triggers.Put, maintainer)
		project.DELETE("/triggers/:trigger_id", triggers.Delete, maintainer)
		project.POST("/triggers/:trigger_id/take_ownership", triggers.TakeOwnership, maintainer)
	}

	// pipelines
	{
		pipelines := pipeline.New(deps.DB, deps.Fire)

		project.GET("/pipelines/:pipeline_id", pipelines.Get, reporter)
	}

	// events
	{
		events := event.New(deps.Bus)

		project.GET("/events", events.Stream, maintainer)
	}
}
