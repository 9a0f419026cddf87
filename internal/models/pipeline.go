package models

import (
	"time"

	"github.com/google/uuid"
)

// PipelineSource classifies what caused a pipeline to be created.
type PipelineSource string

const (
	PipelineSourcePush     PipelineSource = "push"
	PipelineSourceWeb      PipelineSource = "web"
	PipelineSourceTrigger  PipelineSource = "trigger"
	PipelineSourceSchedule PipelineSource = "schedule"
	PipelineSourcePipeline PipelineSource = "pipeline"
	PipelineSourceAPI      PipelineSource = "api"
)

type PipelineStatus string

const (
	PipelineStatusPending  PipelineStatus = "pending"
	PipelineStatusRunning  PipelineStatus = "running"
	PipelineStatusSuccess  PipelineStatus = "success"
	PipelineStatusFailed   PipelineStatus = "failed"
	PipelineStatusCanceled PipelineStatus = "canceled"
)

// Pipeline is a run of a project's CI configuration against one
// commit. TriggeredByPipelineID is a lookup reference only.
type Pipeline struct {
	ID                    uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID             uuid.UUID      `gorm:"type:uuid;index;not null" json:"project_id"`
	Ref                   string         `gorm:"index;not null" json:"ref"`
	Tag                   bool           `gorm:"not null;default:false" json:"tag"`
	SHA                   string         `gorm:"not null" json:"sha"`
	Source                PipelineSource `gorm:"type:text;index;not null" json:"source"`
	Status                PipelineStatus `gorm:"type:text;index;not null" json:"status"`
	UserID                *uuid.UUID     `gorm:"type:uuid;index" json:"user_id"`
	TriggeredByPipelineID *uuid.UUID     `gorm:"type:uuid;index" json:"triggered_by_pipeline_id"`
	CreatedAt             time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt             time.Time      `gorm:"not null" json:"updated_at"`
	Jobs                  []*Job         `gorm:"foreignKey:PipelineID;constraint:OnDelete:CASCADE" json:"jobs,omitempty"`
}

type Pipelines []*Pipeline
