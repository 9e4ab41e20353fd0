package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eventplanner/backend/internal/auth"
	"github.com/eventplanner/backend/internal/logger"
	"github.com/eventplanner/backend/internal/models"
	"github.com/eventplanner/backend/internal/repositories"
	"github.com/eventplanner/backend/internal/services"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newCreateAdminCommand() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create a user with the Admin role",
		Long: `Create a user with the Admin role.

Signup over HTTP always creates regular users; admins are created here.

Examples:
  eventplanner create-admin --name "Ops" --email ops@example.com --password 's3cret!'`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if name == "" || email == "" || password == "" {
				return errors.New("--name, --email and --password are required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer db.Close()

			userRepo := repositories.NewUserRepository(db, logger.Logger)
			tokenGenerator := auth.NewTokenGenerator(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
			authService := services.NewAuthService(userRepo, tokenGenerator, logger.Logger)

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			user, err := authService.CreateAdmin(ctx, &models.SignupRequest{
				Name:     name,
				Email:    email,
				Password: password,
			})
			if err != nil {
				return fmt.Errorf("create admin: %w", err)
			}

			logger.Logger.Info("Admin created", zap.Int("user_id", user.ID), zap.String("email", user.Email))
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %d <%s>\n", user.ID, user.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "login password (at least 6 characters)")

	return cmd
}
