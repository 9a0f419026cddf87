package access

import (
	"context"
	"errors"

	"github.com/caesium-cloud/relay/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Oracle answers project membership questions.
type Oracle interface {
	Level(ctx context.Context, projectID, userID uuid.UUID) (models.AccessLevel, error)
}

type oracle struct {
	db *gorm.DB
}

// New returns an Oracle backed by the project_members table.
func New(db *gorm.DB) Oracle {
	return &oracle{db: db}
}

// Level returns the user's access level on the project, or
// AccessNone when the user is not a member.
func (o *oracle) Level(ctx context.Context, projectID, userID uuid.UUID) (models.AccessLevel, error) {
	var member models.ProjectMember

	err := o.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.AccessNone, nil
	case err != nil:
		return models.AccessNone, err
	default:
		return member.AccessLevel, nil
	}
}

// AtLeast reports whether the optional user holds at least the
// given level on the project. A nil user never does.
func AtLeast(ctx context.Context, o Oracle, projectID uuid.UUID, userID *uuid.UUID, level models.AccessLevel) (bool, error) {
	if userID == nil {
		return false, nil
	}

	actual, err := o.Level(ctx, projectID, *userID)
	if err != nil {
		return false, err
	}

	return actual >= level, nil
}
