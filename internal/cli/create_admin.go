package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/auth"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/config"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/entrypoint"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/entities"
)

func newCreateAdminCommand(cfg **config.Config) *cobra.Command {
	var username, password, role string

	cmd := &cobra.Command{
		Use:     "create-user --username <name> --password <password>",
		Aliases: []string{"create-admin"},
		Short:   "Create a user for the web UI",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := entrypoint.Build(cmd.Context(), *cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			user, err := app.Auth.CreateUser(username, password, entities.UserRole(role))
			if err != nil {
				if errors.Is(err, auth.ErrUserExists) {
					return fmt.Errorf("user %q already exists", username)
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s %q (id %d)\n", user.Role, user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Login name (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password, at least 12 characters (required)")
	cmd.Flags().StringVar(&role, "role", string(entities.UserRoleAdmin), "One of admin, editor, viewer")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
