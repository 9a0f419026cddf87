package admin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/caesium-cloud/relay/internal/models"
	"github.com/caesium-cloud/relay/internal/schedule"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	scheduleRef         string
	scheduleCron        string
	scheduleTimezone    string
	scheduleOwner       string
	scheduleDescription string
)

var scheduleCmd = &cobra.Command{
	Use:     "schedule <project>",
	Short:   "Create a pipeline schedule",
	Example: "relay admin schedule web --ref master --cron '0 3 * * *' --owner alice",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := createSchedule(cmd.Context(), conn(), args[0], scheduleOwner, &models.PipelineSchedule{
			Description: scheduleDescription,
			Ref:         scheduleRef,
			Cron:        scheduleCron,
			Timezone:    scheduleTimezone,
		}, time.Now())
		if err != nil {
			return err
		}
		return render(cmd, s, fmt.Sprintf("Scheduled %s on %s, next run %s", s.Ref, s.Cron, s.NextRunAt.Format(time.RFC3339)))
	},
}

func init() {
	scheduleCmd.Flags().StringVar(&scheduleRef, "ref", "master", "Ref to build")
	scheduleCmd.Flags().StringVar(&scheduleCron, "cron", "", "Cron expression")
	scheduleCmd.Flags().StringVar(&scheduleTimezone, "timezone", "", "IANA timezone the cron expression is evaluated in")
	scheduleCmd.Flags().StringVar(&scheduleOwner, "owner", "", "Username the schedule acts as")
	scheduleCmd.Flags().StringVar(&scheduleDescription, "description", "", "Schedule description")
	_ = scheduleCmd.MarkFlagRequired("cron")
	_ = scheduleCmd.MarkFlagRequired("owner")
}

func createSchedule(ctx context.Context, gdb *gorm.DB, projectName, owner string, s *models.PipelineSchedule, now time.Time) (*models.PipelineSchedule, error) {
	s.Ref = strings.TrimSpace(s.Ref)
	if s.Ref == "" {
		return nil, errors.New("ref is required")
	}

	if err := schedule.Validate(s.Cron, s.Timezone); err != nil {
		return nil, err
	}

	project, err := findProject(ctx, gdb, projectName)
	if err != nil {
		return nil, err
	}

	user, err := findUser(ctx, gdb, owner)
	if err != nil {
		return nil, err
	}

	next, err := schedule.NextRun(s, now)
	if err != nil {
		return nil, err
	}

	s.ID = uuid.New()
	s.ProjectID = project.ID
	s.OwnerID = &user.ID
	s.Active = true
	s.NextRunAt = &next

	if err := gdb.WithContext(ctx).Create(s).Error; err != nil {
		return nil, errors.Wrap(err, "failed to create schedule")
	}
	return s, nil
}
