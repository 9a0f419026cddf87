package trigger

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	listPage    int
	listPerPage int
)

var listCmd = &cobra.Command{
	Use:   "list <project-id>",
	Short: "List a project's pipeline triggers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		triggers, err := relay().ListTriggers(cmd.Context(), args[0], listPage, listPerPage)
		if err != nil {
			return err
		}

		var b strings.Builder
		for _, t := range triggers {
			fmt.Fprintf(&b, "%s\t%s\t%s\n", t.ID, t.Token, t.Description)
		}
		return render(cmd, triggers, strings.TrimSuffix(b.String(), "\n"))
	},
}

var createCmd = &cobra.Command{
	Use:   "create <project-id> <description>",
	Short: "Create a pipeline trigger owned by the caller",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		trigger, err := relay().CreateTrigger(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		return render(cmd, trigger, fmt.Sprintf("Created trigger %s with token %s", trigger.ID, trigger.Token))
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <project-id> <trigger-id>",
	Short: "Delete a pipeline trigger",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := relay().DeleteTrigger(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		return writeCmdOut(cmd, "Deleted trigger %s\n", args[1])
	},
}

func init() {
	listCmd.Flags().IntVar(&listPage, "page", 0, "Page number")
	listCmd.Flags().IntVar(&listPerPage, "per-page", 0, "Triggers per page")
}
