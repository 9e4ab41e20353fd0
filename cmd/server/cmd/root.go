// Package cmd implements the eventplanner command line
package cmd

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/eventplanner/backend/internal/config"
	"github.com/eventplanner/backend/internal/logger"
	_ "github.com/go-sql-driver/mysql"
	"github.com/spf13/cobra"
)

// newRootCommand builds the command tree. Running without a subcommand serves the API.
func newRootCommand() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "eventplanner",
		Short: "Event planner API server - events, RSVPs and role-based access",
		Long: `Event planner API server.

Admins publish events; authenticated users RSVP Going, Maybe or Decline
until the event date has passed.

Configuration comes from environment variables (optionally a .env file).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logLevel != "" {
				return os.Setenv("LOG_LEVEL", logLevel)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error) (default: info)")

	serve := newServeCommand()
	root.RunE = serve.RunE

	root.AddCommand(serve)
	root.AddCommand(newMigrateCommand())
	root.AddCommand(newCreateAdminCommand())
	root.AddCommand(newSeedDemoCommand())

	return root
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap loads configuration, initializes the logger and connects to the database
func bootstrap() (*config.Config, *sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(cfg.Logging.Level); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := connectDB(cfg.DSN())
	if err != nil {
		return nil, nil, err
	}

	return cfg, db, nil
}

// connectDB connects to the database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
