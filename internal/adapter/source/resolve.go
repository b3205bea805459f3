// Package source picks the SequenceProvider for a location.
package source

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tejashwikalptaru/goslide/internal/adapter/source/filesystem"
	"github.com/tejashwikalptaru/goslide/internal/adapter/source/manifest"
	"github.com/tejashwikalptaru/goslide/internal/adapter/source/static"
	"github.com/tejashwikalptaru/goslide/internal/domain"
	"github.com/tejashwikalptaru/goslide/internal/ports"
)

// Resolver turns source locations into providers.
// Its Resolve method satisfies ports.ProviderFactory.
type Resolver struct {
	logger *slog.Logger
}

// NewResolver creates a resolver whose providers log through logger.
func NewResolver(logger *slog.Logger) *Resolver {
	return &Resolver{logger: logger}
}

// Resolve selects a provider:
//   - "" selects the built-in welcome deck
//   - *.yaml and *.yml files are deck manifests
//   - directories are scanned for pictures
//
// Anything else fails with domain.ErrUnsupportedSource.
func (r *Resolver) Resolve(location string) (ports.SequenceProvider, error) {
	if location == "" {
		return static.Welcome(), nil
	}

	path, err := filepath.Abs(location)
	if err != nil {
		return nil, domain.NewSourceError("open", location, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NewSourceError("open", path, domain.ErrSourceNotFound)
		}
		return nil, domain.NewSourceError("open", path, err)
	}

	switch {
	case info.IsDir():
		r.logger.Debug("resolved folder source", slog.String("path", path))
		return filesystem.New(path, r.logger), nil
	case manifest.IsDeckFile(path):
		r.logger.Debug("resolved deck source", slog.String("path", path))
		return manifest.New(path, r.logger), nil
	default:
		return nil, domain.NewSourceError("open", path, domain.ErrUnsupportedSource)
	}
}

var _ ports.ProviderFactory = (*Resolver)(nil).Resolve
