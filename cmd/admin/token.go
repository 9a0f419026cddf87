package admin

import (
	"github.com/caesium-cloud/relay/pkg/auth"
	"github.com/caesium-cloud/relay/pkg/env"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:     "token <username>",
	Short:   "Issue a bearer token for the trigger registry API",
	Example: "relay admin token alice",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := findUser(cmd.Context(), conn(), args[0])
		if err != nil {
			return err
		}

		vars := env.Variables()
		token, err := auth.GenerateToken(user.ID, []byte(vars.AuthSecret), vars.AuthTokenTTL)
		if err != nil {
			return err
		}

		return render(cmd, map[string]string{"user": user.Username, "token": token}, token)
	},
}
