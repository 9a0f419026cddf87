package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/caesium-cloud/relay/internal/models"
	"github.com/robfig/cron"
)

var parser = cron.NewParser(
	cron.Minute |
		cron.Hour |
		cron.Dom |
		cron.Month |
		cron.Dow |
		cron.Descriptor,
)

// Validate checks a cron expression and timezone pair.
func Validate(expr, timezone string) error {
	_, _, err := parse(expr, timezone)
	return err
}

// NextRun returns the first activation of s strictly after after.
func NextRun(s *models.PipelineSchedule, after time.Time) (time.Time, error) {
	sched, loc, err := parse(s.Cron, s.Timezone)
	if err != nil {
		return time.Time{}, err
	}

	if loc != nil {
		after = after.In(loc)
	}

	return sched.Next(after).UTC(), nil
}

func parse(expr, timezone string) (cron.Schedule, *time.Location, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, nil, fmt.Errorf("schedule missing cron expression")
	}

	sched, err := parser.Parse(expr)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}

	loc, err := location(timezone)
	if err != nil {
		return nil, nil, err
	}

	return sched, loc, nil
}

func location(tz string) (*time.Location, error) {
	if strings.TrimSpace(tz) == "" {
		return nil, nil
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}

	return loc, nil
}
