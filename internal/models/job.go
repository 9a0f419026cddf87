package models

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusCreated  JobStatus = "created"
	JobStatusPending  JobStatus = "pending"
	JobStatusRunning  JobStatus = "running"
	JobStatusSuccess  JobStatus = "success"
	JobStatusFailed   JobStatus = "failed"
	JobStatusCanceled JobStatus = "canceled"
	JobStatusSkipped  JobStatus = "skipped"
	JobStatusManual   JobStatus = "manual"
)

// Job is a single build belonging to a pipeline. While running,
// its token may itself be used to trigger a child pipeline.
type Job struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Token            string     `gorm:"uniqueIndex;not null" json:"-"`
	Name             string     `gorm:"not null" json:"name"`
	Stage            string     `gorm:"not null" json:"stage"`
	StageIndex       int        `gorm:"not null" json:"stage_index"`
	Status           JobStatus  `gorm:"type:text;index;not null" json:"status"`
	ProjectID        uuid.UUID  `gorm:"type:uuid;index;not null" json:"project_id"`
	PipelineID       uuid.UUID  `gorm:"type:uuid;index;not null" json:"pipeline_id"`
	UserID           *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	TriggerRequestID *uuid.UUID `gorm:"type:uuid;index" json:"trigger_request_id"`
	CreatedAt        time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"not null" json:"updated_at"`
}

// Running reports whether the job's token is currently usable
// as a trigger credential.
func (j *Job) Running() bool {
	return j != nil && j.Status == JobStatusRunning
}

type Jobs []*Job
