package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tejashwikalptaru/goslide/internal/adapter/source/filesystem"
	"github.com/tejashwikalptaru/goslide/internal/adapter/source/manifest"
	"github.com/tejashwikalptaru/goslide/internal/logger"
)

func newDeckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deck",
		Short: "Work with YAML deck files",
	}
	cmd.AddCommand(newDeckInitCmd(), newDeckCheckCmd())
	return cmd
}

func newDeckInitCmd() *cobra.Command {
	var (
		output string
		title  string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init FOLDER",
		Short: "Write a deck listing the pictures of a folder",
		Long: `Scans FOLDER like the slideshow does and writes a deck file that lists
every picture in display order. Edit the file to reorder slides, add
captions or insert text slides.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			if output == "" {
				output = filepath.Join(folder, "deck.yaml")
			}
			if !manifest.IsDeckFile(output) {
				return fmt.Errorf("deck file %q must end in .yaml or .yml", output)
			}
			return initDeck(cmd.Context(), folder, output, title, force)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "deck file to write (default FOLDER/deck.yaml)")
	cmd.Flags().StringVarP(&title, "title", "t", "", "deck title (default folder name)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing deck file")

	return cmd
}

func initDeck(ctx context.Context, folder, output, title string, force bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	provider := filesystem.New(folder, logger.NewLogger(logger.DefaultConfig()))
	slides, err := provider.Slides(ctx)
	if err != nil {
		return err
	}
	if title == "" {
		title = provider.Name()
	}

	outputDir, err := filepath.Abs(filepath.Dir(output))
	if err != nil {
		return err
	}
	deck := manifest.FromSlides(title, outputDir, slides)
	if len(deck.Slides) == 0 {
		return fmt.Errorf("no pictures found in %s", folder)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(output, flags, 0o644)
	if err != nil {
		return fmt.Errorf("cannot write deck: %w", err)
	}

	if err := deck.Encode(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("cannot write deck: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("cannot write deck: %w", err)
	}

	fmt.Printf("wrote %d slides to %s\n", len(deck.Slides), output)
	return nil
}

func newDeckCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check DECK",
		Short: "Validate a deck file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			provider := manifest.New(args[0], logger.NewLogger(logger.DefaultConfig()))
			slides, err := provider.Slides(ctx)
			if err != nil {
				return err
			}
			if len(slides) == 0 {
				return fmt.Errorf("%s has no slides", args[0])
			}

			fmt.Printf("%s: %d slides\n", provider.Name(), len(slides))
			return nil
		},
	}
}
