// Package domain contains core business models and logic with no external dependencies.
// This package defines the fundamental entities of the GoSlide slideshow.
package domain

import (
	"fmt"
	"time"
)

// RotationPeriod is the fixed interval between two rotation ticks.
const RotationPeriod = 5 * time.Second

// SlideKind tells the display surface how to render a slide.
type SlideKind int

const (
	// SlideImage is a still picture (PNG, JPEG, BMP, SVG or embedded cover art).
	SlideImage SlideKind = iota

	// SlideAnimation is an animated GIF.
	SlideAnimation

	// SlideText is a Markdown text card.
	SlideText
)

// String returns a string representation of the slide kind.
func (k SlideKind) String() string {
	switch k {
	case SlideImage:
		return "image"
	case SlideAnimation:
		return "animation"
	case SlideText:
		return "text"
	default:
		return "unknown"
	}
}

// Slide is a single display item of a slideshow.
type Slide struct {
	// ID identifies the slide within its source (relative path or manifest key)
	ID string

	// Title is a short name shown in the caption bar
	Title string

	// Caption is optional secondary text; for text slides it holds the Markdown body
	Caption string

	// Kind selects the renderer
	Kind SlideKind

	// Path is the absolute path of the backing file, empty for text slides
	Path string

	// Data holds in-memory content (embedded cover art), nil when Path is enough
	Data []byte

	// MIMEType describes Data, e.g. "image/jpeg"
	MIMEType string
}

// DisplayName returns the title, falling back to the ID.
func (s Slide) DisplayName() string {
	if s.Title != "" {
		return s.Title
	}
	return s.ID
}

// SlideRef addresses one element of a resolved slide sequence.
type SlideRef struct {
	Index int
	Slide Slide
}

// String returns a short representation used in logs.
func (r SlideRef) String() string {
	return fmt.Sprintf("#%d(%s)", r.Index, r.Slide.DisplayName())
}

// FadeSpeed is a named transition speed preset.
type FadeSpeed string

// FadeSlow is the speed of every rotation transition.
const FadeSlow FadeSpeed = "slow"

// Duration returns the wall time of a fade at this speed.
// Unknown presets take 400ms.
func (s FadeSpeed) Duration() time.Duration {
	if s == FadeSlow {
		return 600 * time.Millisecond
	}
	return 400 * time.Millisecond
}

// RotationState is a point-in-time snapshot of a rotator.
type RotationState struct {
	// RunID identifies the rotator instance in logs and events
	RunID string

	// Source is the display name of the sequence provider
	Source string

	// Current is the slide presently visible
	Current SlideRef

	// Total is the number of slides in the sequence
	Total int

	// Ticks counts completed rotation ticks
	Ticks uint64

	// Running is true between Start and Stop
	Running bool
}
