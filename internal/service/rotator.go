// Package service provides business logic for the GoSlide application.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/tejashwikalptaru/goslide/internal/domain"
	"github.com/tejashwikalptaru/goslide/internal/ports"
)

// Rotator cycles through a fixed slide sequence.
// Every domain.RotationPeriod the current slide is faded out and its circular
// successor is faded in. The sequence is resolved once in NewRotator and never changes.
//
// Ticks run on a single goroutine owned by the rotator, so the current pointer
// is only written by one tick at a time. Readers are safe from any goroutine.
type Rotator struct {
	// Dependencies (injected)
	logger *slog.Logger
	sink   ports.TransitionSink
	bus    ports.EventBus
	clock  ports.Clock

	// Fixed at construction
	runID  string
	source string
	slides []domain.Slide

	// State
	current int
	ticks   uint64

	// Concurrency control
	mu      sync.RWMutex
	tickMu  sync.Mutex // serializes Advance
	stop    chan struct{}
	running bool
	stopped bool
	wg      sync.WaitGroup // waits for the tick goroutine to exit
}

// NewRotator resolves the slide sequence from provider and points at its first slide.
//
// It fails fast: a provider error is returned as a ServiceError wrapping
// domain.ErrSurfaceUnavailable and an empty sequence as domain.ErrEmptySequence.
// The rotator does not tick until Start is called.
func NewRotator(
	ctx context.Context,
	logger *slog.Logger,
	provider ports.SequenceProvider,
	sink ports.TransitionSink,
	bus ports.EventBus,
	clock ports.Clock,
) (*Rotator, error) {
	if provider == nil || sink == nil {
		return nil, domain.NewServiceError("Rotator", "New", "missing provider or sink", domain.ErrSurfaceUnavailable)
	}

	runID := uuid.NewString()
	logger = logger.With(slog.String("run_id", runID))

	slides, err := provider.Slides(ctx)
	if err != nil {
		logger.Error("failed to resolve slides", slog.String("source", provider.Name()), slog.Any("error", err))
		return nil, domain.NewServiceError("Rotator", "New", "cannot resolve slides",
			fmt.Errorf("%w: %w", domain.ErrSurfaceUnavailable, err))
	}
	if len(slides) == 0 {
		logger.Error("slide sequence is empty", slog.String("source", provider.Name()))
		return nil, domain.ErrEmptySequence
	}

	// Some providers only know their display name once resolved
	logger = logger.With(slog.String("source", provider.Name()))

	r := &Rotator{
		logger: logger,
		sink:   sink,
		bus:    bus,
		clock:  clock,
		runID:  runID,
		source: provider.Name(),
		slides: append([]domain.Slide(nil), slides...),
		stop:   make(chan struct{}),
	}

	logger.Debug("rotator initialized", slog.Int("slides", len(slides)))
	return r, nil
}

// Start registers the repeating tick. The first tick happens one period after Start.
func (r *Rotator) Start() error {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return domain.ErrRotatorStopped
	}
	if r.running {
		r.mu.Unlock()
		return domain.ErrRotatorRunning
	}

	// Create the ticker before returning so the period is measured from Start
	ticker := r.clock.NewTicker(domain.RotationPeriod)
	r.running = true
	r.wg.Add(1)
	current := r.refLocked(r.current)
	r.mu.Unlock()

	r.logger.Info("rotation started",
		slog.Int("slides", len(r.slides)),
		slog.Duration("period", domain.RotationPeriod))
	r.publish(domain.NewRotationStartedEvent(r.runID, r.source, current, len(r.slides)))

	go func() {
		defer r.wg.Done()
		defer ticker.Stop()

		for {
			select {
			case <-r.stop:
				return

			case <-ticker.C():
				r.Advance()
			}
		}
	}()

	return nil
}

// Advance performs one tick: fade out the current slide, move to its
// circular successor, fade that one in.
//
// The tick does not wait for transitions to finish. Sink errors are logged and
// not retried; the pointer advances regardless. Advance on a stopped rotator is a no-op.
func (r *Rotator) Advance() {
	r.tickMu.Lock()
	defer r.tickMu.Unlock()

	r.mu.RLock()
	if r.stopped {
		r.mu.RUnlock()
		return
	}
	previous := r.refLocked(r.current)
	r.mu.RUnlock()

	if err := r.sink.FadeOut(previous, domain.FadeSlow); err != nil {
		r.logger.Warn("fade out failed", slog.String("slide", previous.String()), slog.Any("error", err))
	}

	r.mu.Lock()
	r.current = (r.current + 1) % len(r.slides)
	r.ticks++
	current := r.refLocked(r.current)
	tick := r.ticks
	r.mu.Unlock()

	if err := r.sink.FadeIn(current, domain.FadeSlow); err != nil {
		r.logger.Warn("fade in failed", slog.String("slide", current.String()), slog.Any("error", err))
	}

	r.logger.Debug("slide changed",
		slog.String("previous", previous.String()),
		slog.String("current", current.String()),
		slog.Uint64("tick", tick))
	r.publish(domain.NewSlideChangedEvent(r.runID, previous, current, len(r.slides), tick))
}

// Stop cancels the repeating tick and waits for the tick goroutine to exit.
// It is idempotent. A stopped rotator cannot be restarted.
//
// Stop must not be called from an event handler running on the tick goroutine.
func (r *Rotator) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	wasRunning := r.running
	if r.running {
		close(r.stop)
		r.running = false
	}

	// Release lock before waiting for goroutine to exit (to avoid deadlock)
	r.mu.Unlock()

	r.wg.Wait()

	r.mu.RLock()
	ticks := r.ticks
	r.mu.RUnlock()

	if wasRunning {
		r.logger.Info("rotation stopped", slog.Uint64("ticks", ticks))
		r.publish(domain.NewRotationStoppedEvent(r.runID, ticks))
	}
}

// Current returns the slide that is currently visible.
func (r *Rotator) Current() domain.SlideRef {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.refLocked(r.current)
}

// Index returns the position of the current slide.
func (r *Rotator) Index() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Slides returns a copy of the resolved sequence.
func (r *Rotator) Slides() []domain.Slide {
	return append([]domain.Slide(nil), r.slides...)
}

// RunID returns the identifier used in logs and events for this rotator.
func (r *Rotator) RunID() string {
	return r.runID
}

// State returns a snapshot of the rotator.
func (r *Rotator) State() domain.RotationState {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return domain.RotationState{
		RunID:   r.runID,
		Source:  r.source,
		Current: r.refLocked(r.current),
		Total:   len(r.slides),
		Ticks:   r.ticks,
		Running: r.running,
	}
}

// refLocked builds the reference for index i. Callers hold mu.
func (r *Rotator) refLocked(i int) domain.SlideRef {
	return domain.SlideRef{Index: i, Slide: r.slides[i]}
}

func (r *Rotator) publish(event domain.Event) {
	if r.bus != nil {
		r.bus.Publish(event)
	}
}
