package admin

import (
	"context"
	"fmt"

	"github.com/caesium-cloud/relay/internal/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var memberLevel string

var memberCmd = &cobra.Command{
	Use:     "member <project> <username>",
	Short:   "Grant a user access to a project",
	Example: "relay admin member web alice --level maintainer",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		member, err := addMember(cmd.Context(), conn(), args[0], args[1], memberLevel)
		if err != nil {
			return err
		}
		return render(cmd, member, fmt.Sprintf("Granted %s %s access to %s", args[1], member.AccessLevel, args[0]))
	},
}

func init() {
	memberCmd.Flags().StringVarP(&memberLevel, "level", "l", "developer", "Access level: guest, reporter, developer, maintainer or owner")
}

// addMember grants or replaces a user's access level on a project.
func addMember(ctx context.Context, gdb *gorm.DB, projectName, username, levelName string) (*models.ProjectMember, error) {
	level, ok := models.ParseAccessLevel(levelName)
	if !ok || level == models.AccessNone {
		return nil, fmt.Errorf("invalid access level %q", levelName)
	}

	project, err := findProject(ctx, gdb, projectName)
	if err != nil {
		return nil, err
	}

	user, err := findUser(ctx, gdb, username)
	if err != nil {
		return nil, err
	}

	member := &models.ProjectMember{
		ID:          uuid.New(),
		ProjectID:   project.ID,
		UserID:      user.ID,
		AccessLevel: level,
	}

	err = gdb.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"access_level", "updated_at"}),
	}).Create(member).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to add member")
	}

	return member, nil
}
