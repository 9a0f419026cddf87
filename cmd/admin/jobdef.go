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

var (
	jobdefStage      string
	jobdefStageIndex int
	jobdefOnly       []string
	jobdefExcept     []string
	jobdefWhen       string
)

var jobdefCmd = &cobra.Command{
	Use:     "jobdef <project> <name>",
	Short:   "Add a job to a project's CI configuration",
	Example: "relay admin jobdef web rspec --stage test --stage-index 1 --only branches --except 'release/*'",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := defineJob(cmd.Context(), conn(), args[0], &models.JobDefinition{
			Name:       args[1],
			Stage:      jobdefStage,
			StageIndex: jobdefStageIndex,
			Only:       jobdefOnly,
			Except:     jobdefExcept,
			When:       models.When(jobdefWhen),
		})
		if err != nil {
			return err
		}
		return render(cmd, def, fmt.Sprintf("Defined job %s in stage %s (%d)", def.Name, def.Stage, def.StageIndex))
	},
}

func init() {
	jobdefCmd.Flags().StringVar(&jobdefStage, "stage", "test", "Stage name")
	jobdefCmd.Flags().IntVar(&jobdefStageIndex, "stage-index", 0, "Position of the stage in the pipeline")
	jobdefCmd.Flags().StringSliceVar(&jobdefOnly, "only", nil, "Ref patterns the job runs for (branches, tags or globs)")
	jobdefCmd.Flags().StringSliceVar(&jobdefExcept, "except", nil, "Ref patterns the job never runs for")
	jobdefCmd.Flags().StringVar(&jobdefWhen, "when", string(models.WhenOnSuccess), "on_success or manual")
}

func defineJob(ctx context.Context, gdb *gorm.DB, projectName string, def *models.JobDefinition) (*models.JobDefinition, error) {
	def.Name = strings.TrimSpace(def.Name)
	def.Stage = strings.TrimSpace(def.Stage)
	if def.Name == "" || def.Stage == "" {
		return nil, errors.New("job name and stage are required")
	}
	if def.StageIndex < 0 {
		return nil, errors.New("stage index must not be negative")
	}

	switch def.When {
	case "":
		def.When = models.WhenOnSuccess
	case models.WhenOnSuccess, models.WhenManual:
	default:
		return nil, fmt.Errorf("invalid when %q", def.When)
	}

	project, err := findProject(ctx, gdb, projectName)
	if err != nil {
		return nil, err
	}

	def.ID = uuid.New()
	def.ProjectID = project.ID

	if err := gdb.WithContext(ctx).Create(def).Error; err != nil {
		return nil, errors.Wrap(err, "failed to define job")
	}
	return def, nil
}
