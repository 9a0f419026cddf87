package trigger

import (
	"errors"
	"net/http"
	"time"

	"github.com/caesium-cloud/relay/api/rest/service/trigger"
	"github.com/caesium-cloud/relay/internal/event"
	"github.com/caesium-cloud/relay/internal/models"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

var errTriggerNotFound = echo.NewHTTPError(http.StatusNotFound, "404 Trigger Not Found")

type Controller struct {
	db  *gorm.DB
	bus event.Bus
}

func New(db *gorm.DB, bus event.Bus) *Controller {
	return &Controller{db: db, bus: bus}
}

func (ctrl *Controller) service(c echo.Context) trigger.Trigger {
	return trigger.Service(c.Request().Context()).
		WithDatabase(ctrl.db).
		WithBus(ctrl.bus)
}

// Response is the public representation of a trigger. The full
// token is only revealed to the trigger's owner.
type Response struct {
	ID          uuid.UUID  `json:"id"`
	Token       string     `json:"token"`
	Description string     `json:"description"`
	OwnerID     *uuid.UUID `json:"owner_id"`
	Owner       *Owner     `json:"owner"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Owner struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// NewResponse renders t for viewer. owner is the user t.OwnerID
// refers to, or nil when the trigger is ownerless or the user is gone.
func NewResponse(t *models.Trigger, viewer, owner *models.User) *Response {
	token := t.Token
	if viewer == nil || t.OwnerID == nil || *t.OwnerID != viewer.ID {
		token = shortToken(t.Token)
	}

	resp := &Response{
		ID:          t.ID,
		Token:       token,
		Description: t.Description,
		OwnerID:     t.OwnerID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if owner != nil {
		resp.Owner = &Owner{ID: owner.ID, Username: owner.Username}
	}

	return resp
}

// render builds responses for triggers, loading their owners in one
// query.
func (ctrl *Controller) render(c echo.Context, viewer *models.User, triggers ...*models.Trigger) ([]*Response, error) {
	ids := []uuid.UUID{}
	for _, t := range triggers {
		if t.OwnerID != nil {
			ids = append(ids, *t.OwnerID)
		}
	}

	owners := map[uuid.UUID]*models.User{}
	if len(ids) > 0 {
		var users []*models.User
		err := ctrl.db.WithContext(c.Request().Context()).
			Where("id IN ?", ids).
			Find(&users).Error
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			owners[u.ID] = u
		}
	}

	resp := make([]*Response, 0, len(triggers))
	for _, t := range triggers {
		var owner *models.User
		if t.OwnerID != nil {
			owner = owners[*t.OwnerID]
		}
		resp = append(resp, NewResponse(t, viewer, owner))
	}

	return resp, nil
}

// renderOne writes a single trigger with status.
func (ctrl *Controller) renderOne(c echo.Context, status int, viewer *models.User, t *models.Trigger) error {
	resp, err := ctrl.render(c, viewer, t)
	if err != nil {
		return echo.ErrInternalServerError.WithInternal(err)
	}
	return c.JSON(status, resp[0])
}

func shortToken(token string) string {
	const visible = 8
	if len(token) <= visible {
		return token
	}
	return token[:visible]
}

func triggerID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("trigger_id"))
	if err != nil {
		return uuid.Nil, errTriggerNotFound
	}
	return id, nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errTriggerNotFound
	case errors.Is(err, trigger.ErrDescriptionRequired):
		return echo.NewHTTPError(http.StatusBadRequest, "description is missing")
	default:
		return echo.ErrInternalServerError.WithInternal(err)
	}
}
