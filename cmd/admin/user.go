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

var userCmd = &cobra.Command{
	Use:     "user <username>",
	Short:   "Create a user",
	Example: "relay admin user alice",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := createUser(cmd.Context(), conn(), args[0])
		if err != nil {
			return err
		}
		return render(cmd, user, fmt.Sprintf("Created user %s (%s)", user.Username, user.ID))
	},
}

func createUser(ctx context.Context, gdb *gorm.DB, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.New("username is required")
	}

	user := &models.User{ID: uuid.New(), Username: username}
	if err := gdb.WithContext(ctx).Create(user).Error; err != nil {
		return nil, errors.Wrap(err, "failed to create user")
	}
	return user, nil
}
