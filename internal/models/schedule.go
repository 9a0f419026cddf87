package models

import (
	"time"

	"github.com/google/uuid"
)

// PipelineSchedule creates pipelines for Ref on a cron schedule,
// acting as OwnerID.
type PipelineSchedule struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID   uuid.UUID  `gorm:"type:uuid;index;not null" json:"project_id"`
	OwnerID     *uuid.UUID `gorm:"type:uuid;index" json:"owner_id"`
	Description string     `json:"description"`
	Ref         string     `gorm:"not null" json:"ref"`
	Cron        string     `gorm:"not null" json:"cron"`
	Timezone    string     `json:"timezone"`
	Active      bool       `gorm:"index;not null" json:"active"`
	NextRunAt   *time.Time `gorm:"index" json:"next_run_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

type PipelineSchedules []*PipelineSchedule
