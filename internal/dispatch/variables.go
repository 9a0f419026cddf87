package dispatch

import (
	"context"

	"github.com/caesium-cloud/relay/internal/models"
	"github.com/caesium-cloud/relay/pkg/jsonmap"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// RuntimeVariables returns the environment a job runs with: the
// predefined CI variables overlaid by the variables of the trigger
// request that created it.
func (d *Dispatcher) RuntimeVariables(ctx context.Context, jobID uuid.UUID) (map[string]string, error) {
	db := d.db.WithContext(ctx)

	var job models.Job
	if err := db.First(&job, "id = ?", jobID).Error; err != nil {
		return nil, err
	}

	var pipeline models.Pipeline
	if err := db.First(&pipeline, "id = ?", job.PipelineID).Error; err != nil {
		return nil, errors.Wrap(err, "failed to load pipeline")
	}

	predefined := map[string]string{
		"CI":                 "true",
		"CI_JOB_ID":          job.ID.String(),
		"CI_JOB_NAME":        job.Name,
		"CI_JOB_STAGE":       job.Stage,
		"CI_PIPELINE_ID":     pipeline.ID.String(),
		"CI_PIPELINE_SOURCE": string(pipeline.Source),
		"CI_COMMIT_REF_NAME": pipeline.Ref,
		"CI_COMMIT_SHA":      pipeline.SHA,
		"CI_PROJECT_ID":      pipeline.ProjectID.String(),
	}
	if pipeline.Tag {
		predefined["CI_COMMIT_TAG"] = pipeline.Ref
	}

	if job.TriggerRequestID == nil {
		return predefined, nil
	}

	var request models.TriggerRequest
	if err := db.First(&request, "id = ?", *job.TriggerRequestID).Error; err != nil {
		return nil, errors.Wrap(err, "failed to load trigger request")
	}

	predefined["CI_PIPELINE_TRIGGERED"] = "true"

	return jsonmap.Merge(predefined, jsonmap.ToStringMap(request.Variables)), nil
}
