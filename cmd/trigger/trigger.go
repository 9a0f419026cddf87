package trigger

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/caesium-cloud/relay/pkg/client"
	"github.com/caesium-cloud/relay/pkg/env"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Cmd is the trigger command. Its subcommands talk to a running
// relay server.
var Cmd = &cobra.Command{
	Use:   "trigger",
	Short: "Fire pipelines and manage pipeline triggers",
}

var (
	server       string
	privateToken string
	output       string

	// newClient is swapped out in tests.
	newClient = client.Client
)

func init() {
	Cmd.PersistentFlags().StringVar(&server, "server", "", "Relay server base URL (default: RELAY_SERVER)")
	Cmd.PersistentFlags().StringVar(&privateToken, "private-token", "", "Bearer token for trigger registry calls")
	Cmd.PersistentFlags().StringVarP(&output, "output", "o", "text", "Output format: text, yaml or json")
	Cmd.AddCommand(fireCmd, listCmd, createCmd, deleteCmd)
}

func relay() client.Relay {
	base := server
	if base == "" {
		base = env.Variables().Server
	}
	return newClient(base, privateToken)
}

func writeCmdOut(cmd *cobra.Command, format string, args ...any) error {
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), format, args...); err != nil {
		cmd.PrintErrf("write output: %v\n", err)
		return err
	}
	return nil
}

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
