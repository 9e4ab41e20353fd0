package cmd

import (
	"context"
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

// seedIdentity acts as an admin without a user row behind it
var seedIdentity = auth.Identity{UserID: 0, Role: models.RoleAdmin}

func newSeedDemoCommand() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "seed-demo",
		Short: "Insert a sample event",
		Long: `Insert a sample Diwali event so a fresh install has something to RSVP to.

Examples:
  # Event 30 days from today
  eventplanner seed-demo

  # Event on a given date
  eventplanner seed-demo --date 2026-11-08`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer db.Close()

			if date == "" {
				date = time.Now().In(cfg.Location).AddDate(0, 0, 30).Format("2006-01-02")
			}

			eventRepo := repositories.NewEventRepository(db, logger.Logger)
			rsvpRepo := repositories.NewRSVPRepository(db, logger.Logger)
			eventService := services.NewEventService(eventRepo, rsvpRepo, logger.Logger)

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			event, err := eventService.Create(ctx, seedIdentity, demoEvent(date))
			if err != nil {
				return fmt.Errorf("seed demo event: %w", err)
			}

			logger.Logger.Info("Demo event created", zap.Int("event_id", event.ID))
			fmt.Fprintf(cmd.OutOrStdout(), "created event %d %q on %s\n", event.ID, event.Title, event.Date)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "event date YYYY-MM-DD (default: 30 days from today)")

	return cmd
}

func demoEvent(date string) *models.CreateEventRequest {
	imageURL := "https://images.unsplash.com/photo-1605810230434-7631ac76ec81"
	return &models.CreateEventRequest{
		Title:       "Diwali Celebration",
		Description: "Join us for lights, sweets, and joy!",
		Date:        date,
		StartTime:   "18:00",
		EndTime:     "21:00",
		Location:    "Community Hall, Delhi",
		ImageURL:    &imageURL,
	}
}
