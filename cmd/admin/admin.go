package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/caesium-cloud/relay/internal/models"
	"github.com/caesium-cloud/relay/pkg/db"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Cmd is the admin command. Its subcommands write directly to the
// configured database.
var Cmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage relay users, projects and CI configuration",
}

var (
	output string

	// conn is swapped out in tests.
	conn = db.Connection
)

func init() {
	Cmd.PersistentFlags().StringVarP(&output, "output", "o", "text", "Output format: text, yaml or json")
	Cmd.AddCommand(userCmd, projectCmd, memberCmd, jobdefCmd, scheduleCmd, tokenCmd)
}

func writeCmdOut(cmd *cobra.Command, format string, args ...any) error {
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), format, args...); err != nil {
		cmd.PrintErrf("write output: %v\n", err)
		return err
	}
	return nil
}

// render prints v in the selected output format, falling back to
// text for the default format.
func render(cmd *cobra.Command, v any, text string) error {
	switch strings.ToLower(output) {
	case "yaml", "yml":
		buf, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		return writeCmdOut(cmd, "%s", buf)
	case "json":
		buf, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		return writeCmdOut(cmd, "%s\n", buf)
	case "text", "":
		return writeCmdOut(cmd, "%s\n", text)
	default:
		return fmt.Errorf("unsupported output format %q", output)
	}
}

func findProject(ctx context.Context, gdb *gorm.DB, name string) (*models.Project, error) {
	project := &models.Project{}
	if err := gdb.WithContext(ctx).Where("name = ?", name).First(project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("project %q not found", name)
		}
		return nil, errors.Wrap(err, "failed to look up project")
	}
	return project, nil
}

func findUser(ctx context.Context, gdb *gorm.DB, username string) (*models.User, error) {
	user := &models.User{}
	if err := gdb.WithContext(ctx).Where("username = ?", username).First(user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %q not found", username)
		}
		return nil, errors.Wrap(err, "failed to look up user")
	}
	return user, nil
}
