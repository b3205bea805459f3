// Package app provides application-level orchestration and dependency injection.
// This package wires together all components and manages the application lifecycle.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"github.com/tejashwikalptaru/goslide/internal/adapter/clock"
	"github.com/tejashwikalptaru/goslide/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/goslide/internal/adapter/repository/memory"
	"github.com/tejashwikalptaru/goslide/internal/adapter/source"
	fyneui "github.com/tejashwikalptaru/goslide/internal/adapter/ui/fyne"
	"github.com/tejashwikalptaru/goslide/internal/logger"
	"github.com/tejashwikalptaru/goslide/internal/ports"
	"github.com/tejashwikalptaru/goslide/internal/service"
)

// Application is the root application structure that holds all dependencies.
// It follows the Dependency Injection pattern with constructor-based injection.
//
// The Application struct is responsible for:
// - Creating and wiring all dependencies
// - Opening the initial slideshow
// - Managing the application lifecycle (startup, shutdown)
type Application struct {
	// Core dependencies
	logger  *slog.Logger
	fyneApp fyne.App

	// Infrastructure
	eventBus *eventbus.SyncEventBus
	clock    ports.Clock
	resolver *source.Resolver
	surface  *fyneui.Surface

	// Repositories
	historyRepo     ports.HistoryRepository
	preferencesRepo ports.PreferencesRepository

	// Services
	slideshowService  *service.SlideshowService
	preferenceService *service.PreferenceService

	// UI
	presenter *fyneui.Presenter
	window    *fyneui.SlideshowWindow

	shutdownOnce sync.Once
}

// Config holds application configuration.
type Config struct {
	// AppID is the unique application identifier
	AppID string

	// AppName is the display name
	AppName string

	// Source is the folder or deck to show at startup ("" for none)
	Source string

	// Resume reopens the last source when Source is empty
	Resume bool

	// OpenTimeout bounds resolving the initial source
	OpenTimeout time.Duration

	// LogLevel controls logging verbosity
	LogLevel slog.Level

	// LogFormat is "text" or "json"
	LogFormat string

	// LogOutput receives log records (nil for stderr)
	LogOutput io.Writer

	// Clock drives rotation (nil for the wall clock)
	Clock ports.Clock

	// TestFyneApp allows injecting a test Fyne app for testing (nil for production)
	TestFyneApp fyne.App
}

// DefaultConfig returns the default application configuration.
func DefaultConfig() Config {
	loggerCfg := logger.DefaultConfig()
	return Config{
		AppID:       "com.goslide.app",
		AppName:     fyneui.AppName,
		Resume:      true,
		OpenTimeout: 30 * time.Second,
		LogLevel:    loggerCfg.Level,
		LogFormat:   loggerCfg.Format,
	}
}

// NewApplication creates a new application with all dependencies wired.
// This is the main dependency injection function.
//
// An explicit Source that cannot be opened is an error. A remembered source
// that cannot be opened falls back to the welcome deck.
func NewApplication(config Config) (*Application, error) {
	app := &Application{}

	// Step 1: Create Fyne application
	if config.TestFyneApp != nil {
		app.fyneApp = config.TestFyneApp
	} else {
		app.fyneApp = fyneapp.NewWithID(config.AppID)
	}

	// Step 1.5: Create logger
	app.logger = logger.NewLogger(logger.Config{
		Level:  config.LogLevel,
		Format: config.LogFormat,
		Output: config.LogOutput,
	})
	app.logger.Info("initializing application",
		slog.String("app_id", config.AppID),
		slog.String("app_name", config.AppName),
		slog.String("version", GetVersionInfo().FullString()))

	// Step 2: Create an event bus
	app.eventBus = eventbus.NewSyncEventBus()
	app.eventBus.SetLogger(app.logger.With(slog.String("component", "eventbus")))

	// Step 3: Create the clock, source resolver and display surface
	app.clock = config.Clock
	if app.clock == nil {
		app.clock = clock.NewSystem()
	}
	app.resolver = source.NewResolver(app.logger.With(slog.String("component", "source")))
	app.surface = fyneui.NewSurface(app.logger.With(slog.String("component", "surface")))

	// Step 4: Create repositories
	prefs := app.fyneApp.Preferences()
	app.historyRepo = memory.NewHistoryRepository(prefs)
	app.preferencesRepo = memory.NewPreferencesRepository(prefs)

	// Step 5: Create services (with dependency injection)
	app.preferenceService = service.NewPreferenceService(
		app.logger.With(slog.String("service", "preference")),
		app.preferencesRepo,
		app.historyRepo,
		app.eventBus,
	)

	app.slideshowService = service.NewSlideshowService(
		app.logger.With(slog.String("service", "slideshow")),
		app.resolver.Resolve,
		app.surface,
		app.eventBus,
		app.clock,
		app.preferenceService,
	)

	// Step 6: Open the initial slideshow
	if err := app.openInitialSource(config); err != nil {
		app.Shutdown()
		return nil, err
	}

	// Step 7: Create UI
	app.window = fyneui.NewSlideshowWindow(app.fyneApp, app.surface, app.logger.With(slog.String("component", "window")))
	app.window.SetVersion(GetVersionInfo().FullString())

	// Step 8: Create Presenter and wire with UI
	app.presenter = fyneui.NewPresenter(
		app.logger.With(slog.String("component", "presenter")),
		app.slideshowService,
		app.preferenceService,
		app.eventBus,
		app.window,
	)

	// Connect presenter to the window
	app.window.SetPresenter(app.presenter)

	// Stop view updates before the window goes away
	// This also covers quitting via Cmd+Q or the window close button
	app.window.SetOnBeforeClose(func() {
		app.presenter.Shutdown()
	})

	return app, nil
}

// openInitialSource shows the configured source, the last one, or the welcome deck.
func (a *Application) openInitialSource(config Config) error {
	timeout := config.OpenTimeout
	if timeout <= 0 {
		timeout = DefaultConfig().OpenTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if config.Source != "" {
		if err := a.slideshowService.Open(ctx, config.Source); err != nil {
			return fmt.Errorf("failed to open %s: %w", config.Source, err)
		}
		return nil
	}

	if config.Resume {
		if last := a.preferenceService.LastSource(); last != "" {
			err := a.slideshowService.Open(ctx, last)
			if err == nil {
				return nil
			}
			a.logger.Warn("cannot resume last source, showing welcome deck",
				slog.String("source", last),
				slog.Any("error", err))
		}
	}

	if err := a.slideshowService.Open(ctx, ""); err != nil {
		return fmt.Errorf("failed to open welcome deck: %w", err)
	}
	return nil
}

// Run starts the application.
// This is called from main.go after the application is created.
func (a *Application) Run() {
	a.logger.Info("GoSlide started", slog.String("source", a.slideshowService.Name()))

	// Show and run UI (blocks until the window is closed)
	a.window.ShowAndRun()
}

// Shutdown gracefully shuts down the application.
// It's safe to call multiple times (idempotent).
func (a *Application) Shutdown() {
	a.shutdownOnce.Do(func() {
		a.logger.Info("shutting down application")

		// Shutdown UI and presenter
		if a.presenter != nil {
			a.presenter.Shutdown()
		}

		// Shutdown services (in reverse order of creation)
		if a.slideshowService != nil {
			if err := a.slideshowService.Shutdown(); err != nil {
				a.logger.Warn("failed to shutdown slideshow service", slog.Any("error", err))
			}
		}

		if a.preferenceService != nil {
			if err := a.preferenceService.Shutdown(); err != nil {
				a.logger.Warn("failed to shutdown preference service", slog.Any("error", err))
			}
		}

		// Stop running fades
		if a.surface != nil {
			a.surface.Release()
		}

		if a.eventBus != nil {
			if err := a.eventBus.Close(); err != nil {
				a.logger.Warn("failed to close event bus", slog.Any("error", err))
			}
		}

		a.logger.Info("application shutdown complete")
	})
}

// GetServices returns the application services.
func (a *Application) GetServices() (*service.SlideshowService, *service.PreferenceService) {
	return a.slideshowService, a.preferenceService
}

// GetEventBus returns the event bus.
func (a *Application) GetEventBus() ports.EventBus {
	return a.eventBus
}

// GetFyneApp returns the Fyne application.
func (a *Application) GetFyneApp() fyne.App {
	return a.fyneApp
}

// GetWindow returns the slideshow window, nil if startup failed before it was built.
func (a *Application) GetWindow() *fyneui.SlideshowWindow {
	return a.window
}
