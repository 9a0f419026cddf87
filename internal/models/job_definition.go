package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type When string

const (
	WhenOnSuccess When = "on_success"
	WhenManual    When = "manual"
)

// JobDefinition is one configured job of a project's CI
// configuration. Only and Except hold ref glob patterns.
type JobDefinition struct {
	ID         uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID  uuid.UUID                   `gorm:"type:uuid;uniqueIndex:idx_job_definitions_project_name;not null" json:"project_id"`
	Name       string                      `gorm:"uniqueIndex:idx_job_definitions_project_name;not null" json:"name"`
	Stage      string                      `gorm:"not null" json:"stage"`
	StageIndex int                         `gorm:"not null" json:"stage_index"`
	Only       datatypes.JSONSlice[string] `gorm:"type:json" json:"only,omitempty"`
	Except     datatypes.JSONSlice[string] `gorm:"type:json" json:"except,omitempty"`
	When       When                        `gorm:"type:text;not null;default:'on_success'" json:"when"`
	CreatedAt  time.Time                   `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time                   `gorm:"not null" json:"updated_at"`
}

type JobDefinitions []*JobDefinition
