// Package ports define the slide source interfaces.
package ports

import (
	"context"

	"github.com/tejashwikalptaru/goslide/internal/domain"
)

// SequenceProvider resolves an ordered, fixed set of slides.
// The rotator calls Slides exactly once; later changes in the backing source are not observed.
type SequenceProvider interface {
	// Slides returns the slides in display order.
	// An empty result is not an error at this level; the rotator rejects it.
	Slides(ctx context.Context) ([]domain.Slide, error)

	// Name returns a human-readable name for the source (folder name, deck title).
	Name() string
}

// ProviderFactory builds a SequenceProvider for a source location.
// An empty location selects the built-in welcome deck.
type ProviderFactory func(location string) (SequenceProvider, error)
