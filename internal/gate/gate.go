package gate

import (
	"context"
	"errors"
	"fmt"

	"github.com/caesium-cloud/relay/internal/access"
	"github.com/caesium-cloud/relay/internal/credential"
	"github.com/caesium-cloud/relay/internal/models"
	"github.com/google/uuid"
)

var (
	// ErrProjectMissing is returned when the target project does not exist.
	ErrProjectMissing = errors.New("project missing")
	// ErrProjectMismatch is returned when a resolved credential does
	// not belong to the target project.
	ErrProjectMismatch = errors.New("project mismatch")
	// ErrJobNotRunning is returned for job tokens of finished or
	// not yet started jobs.
	ErrJobNotRunning = errors.New("job has to be running")
	// ErrVariablesNotSupported is returned when a job token carries
	// variables.
	ErrVariablesNotSupported = errors.New("variables not supported")
)

// PermissionError reports insufficient permissions on a project whose
// existence has already been established, keyed by the offending field.
type PermissionError struct {
	Field   string
	Message string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("%v: %v", e.Field, e.Message)
}

// ErrInsufficientPermissions is the permission failure for pipeline
// creation through a job token.
var ErrInsufficientPermissions = &PermissionError{
	Field:   "base",
	Message: "Insufficient permissions to create a new pipeline",
}

// Decision is the outcome of a successful authorization.
type Decision struct {
	Source                models.PipelineSource
	TriggeredByPipelineID *uuid.UUID
	ActingUserID          *uuid.UUID
	Trigger               *models.Trigger
	Job                   *models.Job
}

// Gate decides whether a resolved credential may create a pipeline.
type Gate struct {
	oracle access.Oracle
}

func New(oracle access.Oracle) *Gate {
	return &Gate{oracle: oracle}
}

// Authorize applies the rules in a fixed order: credential resolved,
// project exists, credential belongs to project, job running,
// variables supported, permission.
func (g *Gate) Authorize(ctx context.Context, id credential.Identity, project *models.Project, hasVariables bool) (*Decision, error) {
	if id.Kind == credential.KindAbsent {
		return nil, credential.ErrTokenInvalid
	}

	if project == nil {
		return nil, ErrProjectMissing
	}

	switch id.Kind {
	case credential.KindTrigger:
		return g.authorizeTrigger(id, project)
	case credential.KindJob:
		return g.authorizeJob(ctx, id, project, hasVariables)
	default:
		return nil, fmt.Errorf("unknown credential kind: %v", id.Kind)
	}
}

func (g *Gate) authorizeTrigger(id credential.Identity, project *models.Project) (*Decision, error) {
	if id.Trigger.ProjectID != project.ID {
		return nil, ErrProjectMismatch
	}

	return &Decision{
		Source:       models.PipelineSourceTrigger,
		ActingUserID: id.ActingUserID,
		Trigger:      id.Trigger,
	}, nil
}

func (g *Gate) authorizeJob(ctx context.Context, id credential.Identity, project *models.Project, hasVariables bool) (*Decision, error) {
	job := id.Job

	belongs, err := g.jobBelongs(ctx, id, project)
	if err != nil {
		return nil, err
	}
	if !belongs {
		return nil, ErrProjectMismatch
	}

	if !job.Running() {
		return nil, ErrJobNotRunning
	}

	if hasVariables {
		return nil, ErrVariablesNotSupported
	}

	allowed, err := access.AtLeast(ctx, g.oracle, project.ID, id.ActingUserID, models.AccessDeveloper)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrInsufficientPermissions
	}

	pipelineID := job.PipelineID

	return &Decision{
		Source:                models.PipelineSourcePipeline,
		TriggeredByPipelineID: &pipelineID,
		ActingUserID:          id.ActingUserID,
		Job:                   job,
	}, nil
}

// jobBelongs reports whether a job token may address the project:
// either the job runs in it, or the job's user is a member of it.
func (g *Gate) jobBelongs(ctx context.Context, id credential.Identity, project *models.Project) (bool, error) {
	if id.Job.ProjectID == project.ID {
		return true, nil
	}

	return access.AtLeast(ctx, g.oracle, project.ID, id.ActingUserID, models.AccessGuest)
}
