package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Trigger is a long-lived project credential that may request
// pipeline creation without personal authentication.
type Trigger struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Token       string     `gorm:"uniqueIndex;not null" json:"token"`
	ProjectID   uuid.UUID  `gorm:"type:uuid;index;not null" json:"project_id"`
	OwnerID     *uuid.UUID `gorm:"type:uuid;index" json:"owner_id"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

type Triggers []*Trigger

// TriggerRequest records one trigger firing and the variables it
// carried. PipelineID stays nil when creation failed.
type TriggerRequest struct {
	ID         uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	TriggerID  uuid.UUID         `gorm:"type:uuid;index;not null" json:"trigger_id"`
	PipelineID *uuid.UUID        `gorm:"type:uuid;index" json:"pipeline_id"`
	Variables  datatypes.JSONMap `gorm:"type:json" json:"variables"`
	CreatedAt  time.Time         `gorm:"not null" json:"created_at"`
}
