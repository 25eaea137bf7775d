package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	gmailapi "google.golang.org/api/gmail/v1"

	"github.com/harbourwatch/scheduler/cmd/cli/commands"
	"github.com/harbourwatch/scheduler/internal/config"
	"github.com/harbourwatch/scheduler/pkg/core/model"
	"github.com/harbourwatch/scheduler/pkg/memstore"
	"github.com/harbourwatch/scheduler/pkg/notify"
	"github.com/harbourwatch/scheduler/pkg/postgres"
	"github.com/harbourwatch/scheduler/pkg/utils/logging"
)

var (
	env         string
	demo        bool
	userID      string
	coordinator bool

	app *commands.AppContext
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "scheduler",
		Short: "Harbourwatch Scheduler CLI - Manage volunteer shifts and sign-ups",
		Long:  `A CLI tool for managing volunteer shifts, RSVPs, zone leads, and attendance.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "test", "Environment (test, prod, etc.)")
	rootCmd.PersistentFlags().BoolVar(&demo, "demo", false, "Run against an in-memory store with seeded demo data")
	rootCmd.PersistentFlags().StringVarP(&userID, "user", "u", "", "Acting user id (required)")
	rootCmd.PersistentFlags().BoolVar(&coordinator, "coordinator", false, "Act with coordinator capability")
	rootCmd.MarkPersistentFlagRequired("user")

	app = &commands.AppContext{}

	rootCmd.AddCommand(commands.CreateShiftCmd(app))
	rootCmd.AddCommand(commands.CreateSeriesCmd(app))
	rootCmd.AddCommand(commands.UpdateShiftCmd(app))
	rootCmd.AddCommand(commands.PublishShiftCmd(app))
	rootCmd.AddCommand(commands.StartShiftCmd(app))
	rootCmd.AddCommand(commands.CompleteShiftCmd(app))
	rootCmd.AddCommand(commands.CancelShiftCmd(app))
	rootCmd.AddCommand(commands.ListShiftsCmd(app))
	rootCmd.AddCommand(commands.CountsCmd(app))
	rootCmd.AddCommand(commands.SignUpCmd(app))
	rootCmd.AddCommand(commands.CancelSignUpCmd(app))
	rootCmd.AddCommand(commands.ConfirmCmd(app))
	rootCmd.AddCommand(commands.SetZoneLeadCmd(app))
	rootCmd.AddCommand(commands.CheckInCmd(app))
	rootCmd.AddCommand(commands.CheckOutCmd(app))
	rootCmd.AddCommand(commands.MarkNoShowCmd(app))
	rootCmd.AddCommand(commands.BulkCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up the logger, config, store, and notification dispatcher
func initApp() error {
	var err error
	app.Ctx = context.Background()
	app.Actor = model.Actor{UserID: userID, Coordinator: coordinator}

	app.Logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application",
		zap.String("environment", env),
		zap.String("user_id", userID),
		zap.Bool("coordinator", coordinator))

	if demo {
		return initDemo()
	}

	app.Logger.Info("Loading configuration")
	app.Cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully")

	app.Logger.Info("Connecting to database")
	database, err := postgres.NewDB(app.Ctx, app.Cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.RunMigrations(app.Ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	app.Store = database
	app.Catalog = database
	app.Logger.Info("Database initialized successfully")

	if app.Cfg.Gmail != nil {
		app.Logger.Info("Initializing gmail dispatcher", zap.String("sender", app.Cfg.Gmail.Sender))
		tokenSource, err := google.DefaultTokenSource(app.Ctx, gmailapi.GmailSendScope)
		if err != nil {
			return fmt.Errorf("failed to create gmail token source: %w", err)
		}
		dispatcher, err := notify.NewGmailDispatcher(
			app.Ctx,
			tokenSource,
			app.Cfg.Gmail.Sender,
			notify.StaticDirectory(app.Cfg.Gmail.Users),
			app.Logger,
		)
		if err != nil {
			return fmt.Errorf("failed to create gmail dispatcher: %w", err)
		}
		app.Dispatcher = dispatcher
	} else {
		app.Dispatcher = &notify.LogDispatcher{Logger: app.Logger}
	}

	return nil
}

// initDemo wires the in-memory store with a small seeded catalog so the CLI
// can be exercised without Postgres or a config file.
func initDemo() error {
	store := memstore.New()
	store.SeedZone(model.Zone{ID: "main-hall", Name: "Main Hall"})
	store.SeedZone(model.Zone{ID: "kitchen", Name: "Kitchen"})
	store.SeedShiftType(model.ShiftType{ID: "evening", Name: "Evening Session"})
	store.SeedShiftType(model.ShiftType{ID: "morning", Name: "Morning Session"})
	store.SeedQualifiedRole(model.QualifiedRole{ID: "steward", Slug: "steward", CountsTowardMinimum: true})
	store.SeedQualifiedRole(model.QualifiedRole{ID: "trainee", Slug: "trainee", CountsTowardMinimum: false})

	app.Store = store
	app.Catalog = store
	app.Dispatcher = &notify.LogDispatcher{Logger: app.Logger}
	app.Logger.Info("Running in demo mode with in-memory store")
	return nil
}
