package trigger

import (
	"context"
	"errors"
	"strings"

	"github.com/caesium-cloud/relay/internal/credential"
	"github.com/caesium-cloud/relay/internal/event"
	"github.com/caesium-cloud/relay/internal/metrics"
	"github.com/caesium-cloud/relay/internal/models"
	"github.com/caesium-cloud/relay/pkg/db"
	"github.com/caesium-cloud/relay/pkg/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// ErrDescriptionRequired is returned when a trigger is created
// without a description.
var ErrDescriptionRequired = errors.New("description is missing")

type Trigger interface {
	WithDatabase(*gorm.DB) Trigger
	WithBus(event.Bus) Trigger
	List(*ListRequest) (models.Triggers, error)
	Count(projectID uuid.UUID) (int64, error)
	Get(projectID, id uuid.UUID) (*models.Trigger, error)
	Create(*CreateRequest) (*models.Trigger, error)
	Update(projectID, id uuid.UUID, req *UpdateRequest) (*models.Trigger, error)
	Delete(projectID, id uuid.UUID) error
	TakeOwnership(projectID, id, userID uuid.UUID) (*models.Trigger, error)
}

type triggerService struct {
	ctx context.Context
	db  *gorm.DB
	bus event.Bus
}

// Service returns a trigger service bound to ctx. Without
// WithDatabase it uses the process-wide connection.
func Service(ctx context.Context) Trigger {
	return &triggerService{ctx: ctx}
}

func (t *triggerService) conn() *gorm.DB {
	if t.db == nil {
		t.db = db.Connection()
	}
	return t.db.WithContext(t.ctx)
}

func (t *triggerService) WithDatabase(conn *gorm.DB) Trigger {
	t.db = conn
	return t
}

func (t *triggerService) WithBus(bus event.Bus) Trigger {
	t.bus = bus
	return t
}

type ListRequest struct {
	ProjectID uuid.UUID
	Page      int
	PerPage   int
}

// Normalize clamps the pagination parameters to their accepted range.
func (r *ListRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}

	switch {
	case r.PerPage < 1:
		r.PerPage = DefaultPerPage
	case r.PerPage > MaxPerPage:
		r.PerPage = MaxPerPage
	}
}

func (t *triggerService) List(req *ListRequest) (models.Triggers, error) {
	req.Normalize()

	triggers := make(models.Triggers, 0)

	err := t.conn().
		Where("project_id = ?", req.ProjectID).
		Order("created_at asc").
		Order("id asc").
		Limit(req.PerPage).
		Offset((req.Page - 1) * req.PerPage).
		Find(&triggers).Error

	return triggers, err
}

func (t *triggerService) Count(projectID uuid.UUID) (int64, error) {
	var count int64

	err := t.conn().
		Model(&models.Trigger{}).
		Where("project_id = ?", projectID).
		Count(&count).Error

	return count, err
}

func (t *triggerService) Get(projectID, id uuid.UUID) (*models.Trigger, error) {
	trigger := &models.Trigger{}

	err := t.conn().
		Where("project_id = ? AND id = ?", projectID, id).
		First(trigger).Error
	if err != nil {
		return nil, err
	}

	return trigger, nil
}

type CreateRequest struct {
	ProjectID   uuid.UUID `json:"-"`
	OwnerID     uuid.UUID `json:"-"`
	Description string    `json:"description" form:"description"`
}

func (t *triggerService) Create(req *CreateRequest) (*models.Trigger, error) {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, ErrDescriptionRequired
	}

	owner := req.OwnerID
	trigger := &models.Trigger{
		ID:          uuid.New(),
		Token:       credential.NewTriggerToken(),
		ProjectID:   req.ProjectID,
		OwnerID:     &owner,
		Description: description,
	}

	if err := t.conn().Create(trigger).Error; err != nil {
		log.Error("create trigger failure", "project_id", req.ProjectID, "error", err)
		return nil, err
	}

	t.publish(event.TypeTriggerCreated, trigger)
	metrics.TriggerRegistryOperationsTotal.WithLabelValues("create").Inc()

	return trigger, nil
}

type UpdateRequest struct {
	Description *string `json:"description" form:"description"`
}

func (t *triggerService) Update(projectID, id uuid.UUID, req *UpdateRequest) (*models.Trigger, error) {
	trigger, err := t.Get(projectID, id)
	if err != nil {
		return nil, err
	}

	if req.Description == nil {
		return trigger, nil
	}

	trigger.Description = strings.TrimSpace(*req.Description)
	if err := t.conn().Model(trigger).Update("description", trigger.Description).Error; err != nil {
		return nil, err
	}

	t.publish(event.TypeTriggerUpdated, trigger)
	metrics.TriggerRegistryOperationsTotal.WithLabelValues("update").Inc()

	return trigger, nil
}

// Delete permanently removes the trigger.
func (t *triggerService) Delete(projectID, id uuid.UUID) error {
	trigger, err := t.Get(projectID, id)
	if err != nil {
		return err
	}

	res := t.conn().
		Where("project_id = ?", projectID).
		Delete(&models.Trigger{}, "id = ?", id)
	switch {
	case res.Error != nil:
		return res.Error
	case res.RowsAffected == 0:
		return gorm.ErrRecordNotFound
	}

	t.publish(event.TypeTriggerDeleted, trigger)
	metrics.TriggerRegistryOperationsTotal.WithLabelValues("delete").Inc()

	return nil
}

// TakeOwnership makes userID the owner of the trigger regardless of
// who owned it before.
func (t *triggerService) TakeOwnership(projectID, id, userID uuid.UUID) (*models.Trigger, error) {
	trigger, err := t.Get(projectID, id)
	if err != nil {
		return nil, err
	}

	trigger.OwnerID = &userID
	if err := t.conn().Model(trigger).Update("owner_id", userID).Error; err != nil {
		return nil, err
	}

	t.publish(event.TypeTriggerUpdated, trigger)
	metrics.TriggerRegistryOperationsTotal.WithLabelValues("take_ownership").Inc()

	return trigger, nil
}

// publish omits the token from event payloads.
func (t *triggerService) publish(typ event.Type, trigger *models.Trigger) {
	if t.bus == nil {
		return
	}

	t.bus.Publish(event.Event{
		Type:      typ,
		ProjectID: trigger.ProjectID,
		TriggerID: trigger.ID,
		Payload: event.Payload(map[string]any{
			"id":          trigger.ID,
			"description": trigger.Description,
			"owner_id":    trigger.OwnerID,
		}),
	})
}
