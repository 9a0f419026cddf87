package credential

import (
	"context"
	"errors"
	"strings"

	"github.com/caesium-cloud/relay/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrTokenInvalid is returned when a token matches neither a
// trigger nor a job.
var ErrTokenInvalid = errors.New("token invalid")

const (
	// TriggerTokenPrefix marks tokens issued to triggers.
	TriggerTokenPrefix = "trg-"
	// JobTokenPrefix marks tokens issued to jobs.
	JobTokenPrefix = "job-"
)

// Kind tags which credential realm a token resolved in.
type Kind int

const (
	KindAbsent Kind = iota
	KindTrigger
	KindJob
)

func (k Kind) String() string {
	switch k {
	case KindTrigger:
		return "trigger"
	case KindJob:
		return "job"
	default:
		return "absent"
	}
}

// Identity is the result of resolving a token. Exactly one of
// Trigger or Job is set, according to Kind.
type Identity struct {
	Kind         Kind
	Trigger      *models.Trigger
	Job          *models.Job
	ActingUserID *uuid.UUID
}

// Absent is the identity of an unresolved token.
var Absent = Identity{Kind: KindAbsent}

// ProjectID returns the project the credential was issued in.
func (i Identity) ProjectID() (uuid.UUID, bool) {
	switch i.Kind {
	case KindTrigger:
		return i.Trigger.ProjectID, true
	case KindJob:
		return i.Job.ProjectID, true
	default:
		return uuid.Nil, false
	}
}

// Resolver maps token strings onto identities.
type Resolver interface {
	Resolve(ctx context.Context, token string) (Identity, error)
}

type resolver struct {
	db *gorm.DB
}

// NewResolver returns a Resolver backed by the triggers and jobs tables.
func NewResolver(db *gorm.DB) Resolver {
	return &resolver{db: db}
}

// Resolve looks the token up in both realms. Both lookups always
// run so the outcome does not depend on which realm is searched first.
func (r *resolver) Resolve(ctx context.Context, token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Absent, ErrTokenInvalid
	}

	trigger, err := r.trigger(ctx, token)
	if err != nil {
		return Absent, err
	}

	job, err := r.job(ctx, token)
	if err != nil {
		return Absent, err
	}

	switch {
	case trigger != nil && job != nil:
		// a token shared by both realms is never honoured
		return Absent, ErrTokenInvalid
	case trigger != nil:
		return Identity{Kind: KindTrigger, Trigger: trigger, ActingUserID: trigger.OwnerID}, nil
	case job != nil:
		return Identity{Kind: KindJob, Job: job, ActingUserID: job.UserID}, nil
	default:
		return Absent, ErrTokenInvalid
	}
}

func (r *resolver) trigger(ctx context.Context, token string) (*models.Trigger, error) {
	var trigger models.Trigger

	err := r.db.WithContext(ctx).Where("token = ?", token).First(&trigger).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	case err != nil:
		return nil, err
	default:
		return &trigger, nil
	}
}

func (r *resolver) job(ctx context.Context, token string) (*models.Job, error) {
	var job models.Job

	err := r.db.WithContext(ctx).Where("token = ?", token).First(&job).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	case err != nil:
		return nil, err
	default:
		return &job, nil
	}
}

// NewTriggerToken returns a fresh opaque trigger token.
func NewTriggerToken() string {
	return TriggerTokenPrefix + randomHex()
}

// NewJobToken returns a fresh opaque job token.
func NewJobToken() string {
	return JobTokenPrefix + randomHex()
}

func randomHex() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "") + strings.ReplaceAll(uuid.NewString(), "-", "")
}
