// Package mock provides a recording implementation of the SlideSurface interface.
// This is used for testing services without a real display.
package mock

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/tejashwikalptaru/goslide/internal/domain"
	"github.com/tejashwikalptaru/goslide/internal/ports"
)

// Op names a transition request.
type Op string

const (
	OpFadeOut Op = "fade-out"
	OpFadeIn  Op = "fade-in"
)

// Transition is one recorded request.
type Transition struct {
	Op    Op
	Index int
	ID    string
	Speed domain.FadeSpeed
}

// String returns a compact form such as "fade-out #0(a)".
func (t Transition) String() string {
	return fmt.Sprintf("%s #%d(%s)", t.Op, t.Index, t.ID)
}

// Surface records every Mount and transition request instead of drawing anything.
// It also tracks which slides would be visible once all fades completed.
//
// Thread-safety: This implementation is thread-safe.
type Surface struct {
	logger *slog.Logger

	mu          sync.RWMutex
	slides      []domain.Slide
	visible     []bool
	transitions []Transition
	mounts      int

	// Behavior configuration (for testing error scenarios)
	failMount      bool
	failFadeOut    bool
	failFadeIn     bool
	onTransitioned func(Transition)
}

// NewSurface creates an empty recording surface.
func NewSurface() *Surface {
	return &Surface{}
}

// SetLogger sets the logger for this surface.
func (s *Surface) SetLogger(logger *slog.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = logger
}

// SetFailMount configures the surface to reject Mount calls.
func (s *Surface) SetFailMount(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failMount = fail
}

// SetFailFadeOut configures the surface to reject fade out requests.
func (s *Surface) SetFailFadeOut(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failFadeOut = fail
}

// SetFailFadeIn configures the surface to reject fade in requests.
func (s *Surface) SetFailFadeIn(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failFadeIn = fail
}

// OnTransition registers a hook called after each recorded request, outside the lock.
func (s *Surface) OnTransition(fn func(Transition)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onTransitioned = fn
}

// Mount records a new slide sequence, first slide visible.
func (s *Surface) Mount(slides []domain.Slide) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failMount {
		return domain.ErrSurfaceUnavailable
	}
	if len(slides) == 0 {
		return domain.ErrEmptySequence
	}

	s.slides = append([]domain.Slide(nil), slides...)
	s.visible = make([]bool, len(slides))
	s.visible[0] = true
	s.transitions = nil
	s.mounts++

	if s.logger != nil {
		s.logger.Debug("slides mounted", slog.Int("count", len(slides)))
	}
	return nil
}

// FadeOut records a fade out request.
func (s *Surface) FadeOut(target domain.SlideRef, speed domain.FadeSpeed) error {
	return s.record(OpFadeOut, target, speed)
}

// FadeIn records a fade in request.
func (s *Surface) FadeIn(target domain.SlideRef, speed domain.FadeSpeed) error {
	return s.record(OpFadeIn, target, speed)
}

func (s *Surface) record(op Op, target domain.SlideRef, speed domain.FadeSpeed) error {
	s.mu.Lock()

	if (op == OpFadeOut && s.failFadeOut) || (op == OpFadeIn && s.failFadeIn) {
		s.mu.Unlock()
		return fmt.Errorf("mock surface: %s rejected", op)
	}
	if s.slides == nil {
		s.mu.Unlock()
		return domain.ErrNotMounted
	}
	if target.Index < 0 || target.Index >= len(s.slides) {
		s.mu.Unlock()
		return domain.ErrInvalidIndex
	}

	tr := Transition{Op: op, Index: target.Index, ID: target.Slide.ID, Speed: speed}
	s.transitions = append(s.transitions, tr)
	s.visible[target.Index] = op == OpFadeIn
	hook := s.onTransitioned
	s.mu.Unlock()

	if hook != nil {
		hook(tr)
	}
	return nil
}

// Transitions returns a copy of the recorded requests since the last Mount.
func (s *Surface) Transitions() []Transition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Transition(nil), s.transitions...)
}

// TransitionCount returns the number of recorded requests since the last Mount.
func (s *Surface) TransitionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.transitions)
}

// Visible returns the indexes that would be visible once all fades completed.
func (s *Surface) Visible() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []int
	for i, v := range s.visible {
		if v {
			out = append(out, i)
		}
	}
	return out
}

// Mounted returns a copy of the mounted slides.
func (s *Surface) Mounted() []domain.Slide {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Slide(nil), s.slides...)
}

// MountCount returns how many times Mount succeeded.
func (s *Surface) MountCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mounts
}

var _ ports.SlideSurface = (*Surface)(nil)
