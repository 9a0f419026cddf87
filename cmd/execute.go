package cmd

import (
	"github.com/caesium-cloud/relay/cmd/admin"
	"github.com/caesium-cloud/relay/cmd/start"
	"github.com/caesium-cloud/relay/cmd/trigger"
	"github.com/spf13/cobra"
)

var cmds = []*cobra.Command{
	start.Cmd,
	admin.Cmd,
	trigger.Cmd,
}

// Execute builds the command tree and executes commands.
func Execute() error {
	command := &cobra.Command{
		Use:          "relay",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Usage()
		},
	}

	for _, c := range cmds {
		command.AddCommand(c)
	}

	return command.Execute()
}
