package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/tejashwikalptaru/goslide/internal/domain"
	"github.com/tejashwikalptaru/goslide/internal/ports"
)

// SlideshowService owns the running rotator and swaps it when a new source is opened.
// All operations are thread-safe.
type SlideshowService struct {
	// Dependencies (injected)
	logger      *slog.Logger
	resolve     ports.ProviderFactory
	surface     ports.SlideSurface
	bus         ports.EventBus
	clock       ports.Clock
	preferences *PreferenceService

	// State
	rotator *Rotator
	source  string
	name    string
	closed  bool

	// Concurrency control
	openMu sync.Mutex   // serializes Open and Shutdown
	mu     sync.RWMutex // protects state
}

// NewSlideshowService creates a new slideshow service. preferences may be nil.
func NewSlideshowService(
	logger *slog.Logger,
	resolve ports.ProviderFactory,
	surface ports.SlideSurface,
	bus ports.EventBus,
	clock ports.Clock,
	preferences *PreferenceService,
) *SlideshowService {
	logger.Debug("slideshow service initialized")

	return &SlideshowService{
		logger:      logger,
		resolve:     resolve,
		surface:     surface,
		bus:         bus,
		clock:       clock,
		preferences: preferences,
	}
}

// Open resolves source and replaces the running slideshow with it.
// An empty source opens the welcome deck.
//
// The new sequence is resolved before the old rotator is stopped, so a source
// that cannot be opened leaves the current slideshow running.
func (s *SlideshowService) Open(ctx context.Context, source string) error {
	s.openMu.Lock()
	defer s.openMu.Unlock()

	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return domain.NewServiceError("SlideshowService", "Open", "service is shut down", nil)
	}

	s.logger.Debug("opening source", slog.String("source", source))

	provider, err := s.resolve(source)
	if err != nil {
		return s.fail(source, err)
	}

	rotator, err := NewRotator(ctx, s.logger, provider, s.surface, s.bus, s.clock)
	if err != nil {
		return s.fail(source, err)
	}

	s.mu.Lock()
	previous := s.rotator
	s.rotator = nil
	s.mu.Unlock()

	// Stop outside the state lock; Stop waits for an in-flight tick
	if previous != nil {
		previous.Stop()
	}

	if err := s.surface.Mount(rotator.Slides()); err != nil {
		rotator.Stop()
		s.mu.Lock()
		s.source = ""
		s.name = ""
		s.mu.Unlock()
		return s.fail(source, domain.NewServiceError("SlideshowService", "Open", "cannot mount slides", err))
	}

	if err := rotator.Start(); err != nil {
		return s.fail(source, err)
	}

	s.mu.Lock()
	s.rotator = rotator
	s.source = source
	s.name = provider.Name()
	s.mu.Unlock()

	s.logger.Info("source opened",
		slog.String("source", source),
		slog.String("name", provider.Name()),
		slog.Int("slides", len(rotator.Slides())))

	s.remember(source)
	s.publish(domain.NewSourceLoadedEvent(source, provider.Name(), rotator.Slides()))

	return nil
}

// fail logs and publishes a failed open and returns err.
func (s *SlideshowService) fail(source string, err error) error {
	s.logger.Warn("failed to open source", slog.String("source", source), slog.Any("error", err))
	s.publish(domain.NewSourceFailedEvent(source, err))
	return err
}

// remember records source in the preferences. Failures are logged only.
func (s *SlideshowService) remember(source string) {
	if s.preferences == nil {
		return
	}
	if err := s.preferences.SetLastSource(source); err != nil {
		s.logger.Warn("failed to save last source", slog.Any("error", err))
	}
	if err := s.preferences.AddRecentSource(source); err != nil {
		s.logger.Warn("failed to save recent sources", slog.Any("error", err))
	}
}

// Current returns a snapshot of the running rotator.
// The second result is false when nothing is showing.
func (s *SlideshowService) Current() (domain.RotationState, bool) {
	s.mu.RLock()
	rotator := s.rotator
	s.mu.RUnlock()

	if rotator == nil {
		return domain.RotationState{}, false
	}
	return rotator.State(), true
}

// Source returns the location of the running slideshow, "" for the welcome deck.
func (s *SlideshowService) Source() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

// Name returns the display name of the running slideshow.
func (s *SlideshowService) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

// Shutdown stops the running rotator. It is idempotent.
func (s *SlideshowService) Shutdown() error {
	s.openMu.Lock()
	defer s.openMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	rotator := s.rotator
	s.rotator = nil
	s.mu.Unlock()

	if rotator != nil {
		rotator.Stop()
	}

	s.logger.Debug("slideshow service shut down")
	return nil
}

func (s *SlideshowService) publish(event domain.Event) {
	if s.bus != nil {
		s.bus.Publish(event)
	}
}

// Verify that SlideshowService implements the expected interface patterns
var _ interface {
	Open(context.Context, string) error
	Current() (domain.RotationState, bool)
	Source() string
	Name() string
	Shutdown() error
} = (*SlideshowService)(nil)
