package dispatch

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/caesium-cloud/relay/internal/ciconfig"
	"github.com/caesium-cloud/relay/internal/credential"
	"github.com/caesium-cloud/relay/internal/event"
	"github.com/caesium-cloud/relay/internal/metrics"
	"github.com/caesium-cloud/relay/internal/models"
	"github.com/caesium-cloud/relay/internal/repository"
	"github.com/caesium-cloud/relay/pkg/jsonmap"
	"github.com/caesium-cloud/relay/pkg/log"
	"github.com/google/uuid"
	perrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// ErrNoPipelineCreated is returned when the ref does not resolve or
// the configuration yields no jobs. Nothing is persisted.
var ErrNoPipelineCreated = errors.New("no pipeline created")

// CommitResolver maps a ref onto a commit of a project's repository.
type CommitResolver interface {
	Resolve(ctx context.Context, project *models.Project, ref string) (*repository.Commit, error)
}

// ConfigEvaluator produces the build graph of a project for a commit.
type ConfigEvaluator interface {
	Evaluate(ctx context.Context, project *models.Project, commit *repository.Commit) ([]*ciconfig.Build, error)
}

// CreateRequest describes a pipeline to create. Trigger is set only
// for trigger token firings and causes a TriggerRequest to be stored.
type CreateRequest struct {
	Project               *models.Project
	Ref                   string
	Source                models.PipelineSource
	UserID                *uuid.UUID
	TriggeredByPipelineID *uuid.UUID
	Trigger               *models.Trigger
	Variables             map[string]string
}

// Dispatcher creates pipelines and their jobs.
type Dispatcher struct {
	db      *gorm.DB
	commits CommitResolver
	config  ConfigEvaluator
	bus     event.Bus
}

func New(db *gorm.DB, commits CommitResolver, config ConfigEvaluator) *Dispatcher {
	return &Dispatcher{db: db, commits: commits, config: config}
}

// WithBus publishes pipeline events to bus after each creation.
func (d *Dispatcher) WithBus(bus event.Bus) *Dispatcher {
	d.bus = bus
	return d
}

// EffectiveRef returns the ref a request targets. A ref given in the
// request path always takes precedence over one given in the body.
func EffectiveRef(pathRef, bodyRef string) string {
	if ref := strings.TrimSpace(pathRef); ref != "" {
		return ref
	}
	return strings.TrimSpace(bodyRef)
}

// Create resolves the ref, evaluates the project's configuration and
// persists the pipeline, its jobs and the trigger request in a single
// transaction.
func (d *Dispatcher) Create(ctx context.Context, req *CreateRequest) (*models.Pipeline, error) {
	start := time.Now()

	commit, err := d.commits.Resolve(ctx, req.Project, req.Ref)
	switch {
	case errors.Is(err, repository.ErrRefNotFound):
		log.Debug("ref not found", "project_id", req.Project.ID, "ref", req.Ref)
		return nil, ErrNoPipelineCreated
	case err != nil:
		return nil, err
	}

	builds, err := d.config.Evaluate(ctx, req.Project, commit)
	if err != nil {
		return nil, err
	}
	if len(builds) == 0 {
		log.Debug("configuration yields no jobs", "project_id", req.Project.ID, "ref", commit.Ref)
		return nil, ErrNoPipelineCreated
	}

	pipeline := &models.Pipeline{
		ID:                    uuid.New(),
		ProjectID:             req.Project.ID,
		Ref:                   commit.Ref,
		Tag:                   commit.Tag,
		SHA:                   commit.SHA,
		Source:                req.Source,
		Status:                models.PipelineStatusPending,
		UserID:                req.UserID,
		TriggeredByPipelineID: req.TriggeredByPipelineID,
	}

	var jobs models.Jobs

	err = d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(pipeline).Error; err != nil {
			return perrors.Wrap(err, "failed to create pipeline")
		}

		var requestID *uuid.UUID
		if req.Trigger != nil {
			request := &models.TriggerRequest{
				ID:         uuid.New(),
				TriggerID:  req.Trigger.ID,
				PipelineID: &pipeline.ID,
				Variables:  jsonmap.FromStringMap(req.Variables),
			}
			if err := tx.Create(request).Error; err != nil {
				return perrors.Wrap(err, "failed to create trigger request")
			}
			requestID = &request.ID
		}

		jobs = buildJobs(pipeline, builds, requestID)
		if err := tx.Create(&jobs).Error; err != nil {
			return perrors.Wrap(err, "failed to create jobs")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	pipeline.Jobs = jobs

	metrics.PipelinesCreatedTotal.WithLabelValues(string(pipeline.Source)).Inc()
	for _, job := range jobs {
		metrics.JobsCreatedTotal.WithLabelValues(string(job.Status)).Inc()
	}
	metrics.DispatchDurationSeconds.WithLabelValues(string(pipeline.Source)).Observe(time.Since(start).Seconds())

	if d.bus != nil {
		d.bus.Publish(event.Event{
			Type:       event.TypePipelineCreated,
			ProjectID:  pipeline.ProjectID,
			PipelineID: pipeline.ID,
			Payload:    event.Payload(pipeline),
		})
	}

	log.Info(
		"pipeline created",
		"pipeline_id", pipeline.ID,
		"project_id", pipeline.ProjectID,
		"ref", pipeline.Ref,
		"source", pipeline.Source,
		"jobs", len(jobs),
	)

	return pipeline, nil
}

func buildJobs(pipeline *models.Pipeline, builds []*ciconfig.Build, requestID *uuid.UUID) models.Jobs {
	first := builds[0].StageIndex
	for _, b := range builds[1:] {
		first = min(first, b.StageIndex)
	}

	jobs := make(models.Jobs, 0, len(builds))
	for _, b := range builds {
		status := models.JobStatusCreated
		switch {
		case b.When == models.WhenManual:
			status = models.JobStatusManual
		case b.StageIndex == first:
			status = models.JobStatusPending
		}

		jobs = append(jobs, &models.Job{
			ID:               uuid.New(),
			Token:            credential.NewJobToken(),
			Name:             b.Name,
			Stage:            b.Stage,
			StageIndex:       b.StageIndex,
			Status:           status,
			ProjectID:        pipeline.ProjectID,
			PipelineID:       pipeline.ID,
			UserID:           pipeline.UserID,
			TriggerRequestID: requestID,
		})
	}

	return jobs
}
