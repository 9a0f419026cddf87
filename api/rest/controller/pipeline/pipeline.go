package pipeline

import (
	"time"

	"github.com/caesium-cloud/relay/internal/fire"
	"github.com/caesium-cloud/relay/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Controller struct {
	db   *gorm.DB
	fire *fire.Service
}

func New(db *gorm.DB, svc *fire.Service) *Controller {
	return &Controller{db: db, fire: svc}
}

// Response is the public representation of a pipeline.
type Response struct {
	ID                    uuid.UUID             `json:"id"`
	ProjectID             uuid.UUID             `json:"project_id"`
	Ref                   string                `json:"ref"`
	Tag                   bool                  `json:"tag"`
	SHA                   string                `json:"sha"`
	Source                models.PipelineSource `json:"source"`
	Status                models.PipelineStatus `json:"status"`
	UserID                *uuid.UUID            `json:"user_id"`
	TriggeredByPipelineID *uuid.UUID            `json:"triggered_by_pipeline_id"`
	CreatedAt             time.Time             `json:"created_at"`
	Jobs                  []*JobResponse        `json:"jobs,omitempty"`
}

type JobResponse struct {
	ID         uuid.UUID        `json:"id"`
	Name       string           `json:"name"`
	Stage      string           `json:"stage"`
	StageIndex int              `json:"stage_index"`
	Status     models.JobStatus `json:"status"`
}

func NewResponse(p *models.Pipeline, withJobs bool) *Response {
	resp := &Response{
		ID:                    p.ID,
		ProjectID:             p.ProjectID,
		Ref:                   p.Ref,
		Tag:                   p.Tag,
		SHA:                   p.SHA,
		Source:                p.Source,
		Status:                p.Status,
		UserID:                p.UserID,
		TriggeredByPipelineID: p.TriggeredByPipelineID,
		CreatedAt:             p.CreatedAt,
	}

	if withJobs {
		for _, j := range p.Jobs {
			resp.Jobs = append(resp.Jobs, &JobResponse{
				ID:         j.ID,
				Name:       j.Name,
				Stage:      j.Stage,
				StageIndex: j.StageIndex,
				Status:     j.Status,
			})
		}
	}

	return resp
}
