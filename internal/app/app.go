// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package app

import (
	"context"
	"fmt"

	"github.com/AccelByte/extend-daily-progression/internal/bootstrap"
	"github.com/AccelByte/extend-daily-progression/internal/config"
	"github.com/AccelByte/extend-daily-progression/internal/server"
	"github.com/AccelByte/extend-daily-progression/pkg/calendar"
	"github.com/AccelByte/extend-daily-progression/pkg/mission"
	"github.com/AccelByte/extend-daily-progression/pkg/profile"
	"github.com/sirupsen/logrus"
)

// App holds all application dependencies and manages the application lifecycle.
type App struct {
	cfg               *config.Config
	clock             calendar.Clock
	storage           *Storage
	repo              *profile.Repository
	controller        *mission.Controller
	httpServer        *server.HTTPServer
	closeEvents       func() error
	shutdownTelemetry func(context.Context) error
}

// New creates and initializes a new application instance.
//
// ============================================================
// DEVELOPER: Application initialization order
// ============================================================
// Components are initialized in dependency order:
// 1. Clock (the local day boundary)
// 2. Document store (relational / redis primary, file fallback)
// 3. Profile repository
// 4. Reward configuration and executor
// 5. Task bank and event sink
// 6. Mission controller
// 7. HTTP server
// 8. Telemetry (OpenTelemetry tracing, optional)
//
// If you add new external dependencies, initialize them before
// the mission controller and pass them in.
// ============================================================
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logrus.Info("initializing application...")

	app := &App{cfg: cfg}

	// ============================================================
	// Step 1: Resolve the local clock
	// ============================================================
	clock, err := calendar.LoadClock(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %s: %w", cfg.Timezone, err)
	}
	app.clock = clock

	// ============================================================
	// Step 2: Open the document store
	// ============================================================
	storage, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open document store: %w", err)
	}
	app.storage = storage

	// ============================================================
	// Step 3: Profile repository
	// ============================================================
	app.repo = profile.NewRepository(storage.Store, clock)

	// ============================================================
	// Step 4: Load reward configuration
	// ============================================================
	rewardConfig, err := bootstrap.LoadRewardConfig(cfg.ProgressionConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to load progression config from %s: %w", cfg.ProgressionConfig, err)
	}

	executor, _, err := bootstrap.InitRewardExecutor(rewardConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to init reward executor: %w", err)
	}

	// ============================================================
	// Step 5: Task bank and event sink
	// ============================================================
	// DEVELOPER: Add custom external service initialization here.
	// Examples:
	// - analyticsClient := app.initAnalyticsClient()
	// - notifier := app.initNotifier()
	// ============================================================
	bank := bootstrap.InitTaskBank(ctx, storage.Store, cfg.TasksPath)
	sink, closeEvents := bootstrap.InitEventSink(cfg.KafkaBrokers, cfg.KafkaTopic)
	app.closeEvents = closeEvents

	// ============================================================
	// Step 6: Mission controller
	// ============================================================
	app.controller = mission.NewController(executor, bank, sink)

	// ============================================================
	// Step 7: Setup HTTP server
	// ============================================================
	app.httpServer = server.NewHTTPServer(cfg.HTTPPort, server.Dependencies{
		Controller: app.controller,
		Repo:       app.repo,
		Clock:      clock,
		Store:      storage.Store,
		Cleanup:    app.CleanupGuests,
	})
	if err := app.httpServer.Setup(); err != nil {
		return nil, fmt.Errorf("failed to setup http server: %w", err)
	}

	// ============================================================
	// Step 8: Setup telemetry
	// ============================================================
	if cfg.OtelEnabled {
		shutdownTelemetry, err := server.SetupTelemetry(ctx, cfg.ServiceName, cfg.Environment, cfg.OtelEndpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to setup telemetry: %w", err)
		}
		app.shutdownTelemetry = shutdownTelemetry
	}

	logrus.Info("application initialized successfully")

	return app, nil
}

// Repository returns the profile repository.
func (a *App) Repository() *profile.Repository {
	return a.repo
}

// Storage returns the document store and its connections.
func (a *App) Storage() *Storage {
	return a.storage
}

// CleanupGuests removes guest profiles at most once per local day.
func (a *App) CleanupGuests(ctx context.Context) (bool, int, error) {
	ran, removed, err := a.repo.RunDailyGuestCleanup(ctx, a.clock.Today())
	if err != nil {
		return false, 0, fmt.Errorf("failed to clean up guests: %w", err)
	}
	if ran {
		logrus.Infof("guest cleanup removed %d profile(s)", removed)
	}
	return ran, removed, nil
}
