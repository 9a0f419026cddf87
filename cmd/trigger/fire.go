package trigger

import (
	"fmt"
	"strings"

	"github.com/caesium-cloud/relay/pkg/client"
	"github.com/spf13/cobra"
)

var (
	fireToken     string
	fireRef       string
	fireScopedRef string
	fireVariables []string
)

var fireCmd = &cobra.Command{
	Use:   "fire <project-id>",
	Short: "Create a pipeline with a trigger or job token",
	Example: `relay trigger fire 6f1c... --token trg-... --ref master
relay trigger fire 6f1c... --token trg-... --scoped-ref feature/login --var DEPLOY=staging`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vars, err := parseVariables(fireVariables)
		if err != nil {
			return err
		}

		pipeline, err := relay().Fire(cmd.Context(), &client.FireRequest{
			ProjectID: args[0],
			Token:     fireToken,
			Ref:       fireRef,
			ScopedRef: fireScopedRef,
			Variables: vars,
		})
		if err != nil {
			return err
		}

		return render(cmd, pipeline, fmt.Sprintf("Created pipeline %s for %s (%s)", pipeline.ID, pipeline.Ref, pipeline.Status))
	},
}

func init() {
	fireCmd.Flags().StringVar(&fireToken, "token", "", "Trigger or job token")
	fireCmd.Flags().StringVar(&fireRef, "ref", "", "Branch or tag to build")
	fireCmd.Flags().StringVar(&fireScopedRef, "scoped-ref", "", "Ref placed in the request path; overrides --ref")
	fireCmd.Flags().StringArrayVar(&fireVariables, "var", nil, "Pipeline variable as KEY=VALUE (repeatable)")
	_ = fireCmd.MarkFlagRequired("token")
}

func parseVariables(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	vars := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("variable %q must be KEY=VALUE", pair)
		}
		vars[key] = value
	}
	return vars, nil
}
