// Package ports define interfaces for dependency inversion.
// These interfaces allow the core business logic to remain independent of external frameworks.
package ports

import (
	"github.com/tejashwikalptaru/goslide/internal/domain"
)

// TransitionSink is the host's visual-effects capability.
// The rotator issues exactly two requests per tick: a fade out of the slide that was
// current and a fade in of the slide that became current.
//
// Both methods must return quickly. They start a transition and do not wait for it to
// finish, so a fade out and a fade in may be in flight at the same time.
// Implementations must be safe to call from a goroutine other than the UI goroutine.
type TransitionSink interface {
	// FadeOut gradually hides the referenced slide.
	//
	// Returns an error if the request could not be issued.
	FadeOut(target domain.SlideRef, speed domain.FadeSpeed) error

	// FadeIn gradually shows the referenced slide.
	//
	// Returns an error if the request could not be issued.
	FadeIn(target domain.SlideRef, speed domain.FadeSpeed) error
}
