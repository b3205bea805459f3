// Package ports define the display surface interface for view abstraction.
// This interface allows services to drive the slideshow without depending on Fyne directly.
package ports

import (
	"github.com/tejashwikalptaru/goslide/internal/domain"
)

// SlideSurface is a TransitionSink that can also lay out a slide sequence.
//
// Mount replaces whatever the surface currently shows with the given slides, making
// the first one visible and every other one hidden. Indexes in later transition
// requests refer to positions in the mounted slice.
//
// Thread-safety: all methods may be called from any goroutine. Implementations
// schedule drawing on their UI goroutine themselves.
type SlideSurface interface {
	TransitionSink

	// Mount lays out a new slide sequence.
	//
	// Returns an error if the sequence is empty or cannot be rendered.
	Mount(slides []domain.Slide) error
}
