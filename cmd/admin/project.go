package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/caesium-cloud/relay/internal/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var projectRepository string

var projectCmd = &cobra.Command{
	Use:     "project <name>",
	Short:   "Create a project backed by a git repository",
	Example: "relay admin project web --repository web.git",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		project, err := createProject(cmd.Context(), conn(), args[0], projectRepository)
		if err != nil {
			return err
		}
		return render(cmd, project, fmt.Sprintf("Created project %s (%s)", project.Name, project.ID))
	},
}

func init() {
	projectCmd.Flags().StringVarP(&projectRepository, "repository", "r", "", "Repository path, absolute or relative to RELAY_REPOSITORY_ROOT")
}

func createProject(ctx context.Context, gdb *gorm.DB, name, repository string) (*models.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("project name is required")
	}

	project := &models.Project{
		ID:             uuid.New(),
		Name:           name,
		RepositoryPath: strings.TrimSpace(repository),
	}
	if err := gdb.WithContext(ctx).Create(project).Error; err != nil {
		return nil, errors.Wrap(err, "failed to create project")
	}
	return project, nil
}
