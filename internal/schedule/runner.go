package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/caesium-cloud/relay/internal/access"
	"github.com/caesium-cloud/relay/internal/dispatch"
	"github.com/caesium-cloud/relay/internal/metrics"
	"github.com/caesium-cloud/relay/internal/models"
	"github.com/caesium-cloud/relay/pkg/log"
	"gorm.io/gorm"
)

// ErrOwnerNotPermitted is returned when a schedule's owner may no
// longer create pipelines in the project.
var ErrOwnerNotPermitted = errors.New("schedule owner lacks permission to create pipelines")

// Dispatcher creates pipelines for due schedules.
type Dispatcher interface {
	Create(ctx context.Context, req *dispatch.CreateRequest) (*models.Pipeline, error)
}

// Runner periodically fires due pipeline schedules.
type Runner struct {
	db         *gorm.DB
	oracle     access.Oracle
	dispatcher Dispatcher
	interval   time.Duration
	now        func() time.Time
}

func NewRunner(db *gorm.DB, oracle access.Oracle, dispatcher Dispatcher, interval time.Duration) *Runner {
	return &Runner{
		db:         db,
		oracle:     oracle,
		dispatcher: dispatcher,
		interval:   interval,
		now:        time.Now,
	}
}

// Run ticks until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) {
	log.Info("schedule runner listening", "interval", r.interval)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		if err := r.Tick(ctx); err != nil {
			log.Error("schedule tick failure", "error", err)
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}

// Tick fires every active schedule whose next run is due and moves
// it to its following activation. Schedules that were never planned
// are planned without firing.
func (r *Runner) Tick(ctx context.Context) error {
	now := r.now().UTC()

	var due models.PipelineSchedules
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Where("next_run_at IS NULL OR next_run_at <= ?", now).
		Find(&due).Error
	if err != nil {
		return err
	}

	for _, s := range due {
		if s.NextRunAt != nil {
			if err := r.fire(ctx, s); err != nil {
				log.Warn("schedule fire failure", "id", s.ID, "project_id", s.ProjectID, "error", err)
			}
		}

		if err := r.advance(ctx, s, now); err != nil {
			log.Error("schedule advance failure", "id", s.ID, "error", err)
		}
	}

	return nil
}

func (r *Runner) fire(ctx context.Context, s *models.PipelineSchedule) (err error) {
	defer func() {
		metrics.ScheduleRunsTotal.WithLabelValues(outcome(err)).Inc()
	}()

	log.Info("schedule firing", "id", s.ID, "project_id", s.ProjectID, "ref", s.Ref)

	allowed, err := access.AtLeast(ctx, r.oracle, s.ProjectID, s.OwnerID, models.AccessDeveloper)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrOwnerNotPermitted
	}

	var project models.Project
	if err = r.db.WithContext(ctx).First(&project, "id = ?", s.ProjectID).Error; err != nil {
		return err
	}

	_, err = r.dispatcher.Create(ctx, &dispatch.CreateRequest{
		Project: &project,
		Ref:     s.Ref,
		Source:  models.PipelineSourceSchedule,
		UserID:  s.OwnerID,
	})

	return err
}

func (r *Runner) advance(ctx context.Context, s *models.PipelineSchedule, now time.Time) error {
	next, err := NextRun(s, now)
	if err != nil {
		// an unparsable schedule would otherwise be due forever
		return r.db.WithContext(ctx).Model(s).Update("active", false).Error
	}

	s.NextRunAt = &next
	return r.db.WithContext(ctx).Model(s).Update("next_run_at", next).Error
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "created"
	case errors.Is(err, ErrOwnerNotPermitted):
		return "forbidden"
	case errors.Is(err, dispatch.ErrNoPipelineCreated):
		return "no_pipeline"
	default:
		return "error"
	}
}
