// Package main is the production entry point for GoSlide.
//
// GoSlide shows a fixed sequence of slides one at a time, fading to the next
// slide every five seconds:
// - Event-driven communication between services and UI
// - Dependency injection for testability
// - MVP pattern for UI decoupling
// - Repository pattern for data persistence
//
// Build:
//
//	go build -o build/goslide ./cmd
//
// Run:
//
//	./build/goslide [folder|deck.yaml]
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tejashwikalptaru/goslide/internal/adapter/source/filesystem"
	"github.com/tejashwikalptaru/goslide/internal/app"
	"github.com/tejashwikalptaru/goslide/internal/logger"
)

// options holds the root command flags.
type options struct {
	logLevel  string
	logFormat string
	noResume  bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "goslide [folder|deck.yaml]",
		Short: "Fading slideshow for folders and YAML decks",
		Long: fmt.Sprintf(`GoSlide shows pictures from a folder, or the slides of a YAML deck,
one at a time. Every five seconds the current slide fades out and the
next one fades in; after the last slide it starts over.

Folders are scanned recursively for files ending in:
  %s
Audio files contribute their embedded cover art.

Without an argument the last opened source is shown again, or the
built-in welcome deck on first start.`, strings.Join(filesystem.SupportedFormats(), " ")),
		Args:          cobra.MaximumNArgs(1),
		Version:       app.GetVersionInfo().FullString(),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := opts.config(args)
			if err != nil {
				return err
			}
			return run(config)
		},
	}
	cmd.SetVersionTemplate("{{.Version}}\n")

	defaults := logger.DefaultConfig()
	cmd.Flags().StringVar(&opts.logLevel, "log-level", defaults.Level.String(), "log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&opts.logFormat, "log-format", defaults.Format, "log format (text, json)")
	cmd.Flags().BoolVar(&opts.noResume, "no-resume", false, "start with the welcome deck instead of the last source")

	cmd.AddCommand(newDeckCmd())

	return cmd
}

// config builds the application configuration from flags and arguments.
func (o *options) config(args []string) (app.Config, error) {
	config := app.DefaultConfig()

	level, err := logger.ParseLevel(o.logLevel)
	if err != nil {
		return config, err
	}
	format, err := logger.ParseFormat(o.logFormat)
	if err != nil {
		return config, err
	}

	config.LogLevel = level
	config.LogFormat = format
	config.Resume = !o.noResume

	if len(args) == 1 {
		// Remembered sources must survive a change of working directory
		source, err := filepath.Abs(args[0])
		if err != nil {
			return config, fmt.Errorf("invalid source %q: %w", args[0], err)
		}
		config.Source = source
	}

	return config, nil
}

func run(config app.Config) error {
	// Create the application with dependency injection
	application, err := app.NewApplication(config)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	// Ensure a graceful shutdown
	defer application.Shutdown()

	// Run application (blocks until the window closed)
	application.Run()
	return nil
}
