package service

import (
	"log/slog"
	"sync"

	"github.com/tejashwikalptaru/goslide/internal/domain"
	"github.com/tejashwikalptaru/goslide/internal/ports"
)

// MaxRecentSources bounds the recent source list.
const MaxRecentSources = 10

// PreferenceService manages the remembered source, the recent source list
// and the window preferences.
// All operations are thread-safe via sync.RWMutex.
type PreferenceService struct {
	// Dependencies (injected)
	logger      *slog.Logger
	preferences ports.PreferencesRepository
	history     ports.HistoryRepository
	bus         ports.EventBus

	// Cached preferences (for performance)
	lastSource string
	recent     []string
	fullScreen bool

	// Concurrency control
	mu sync.RWMutex
}

// NewPreferenceService creates a new preference service.
func NewPreferenceService(
	logger *slog.Logger,
	preferences ports.PreferencesRepository,
	history ports.HistoryRepository,
	bus ports.EventBus,
) *PreferenceService {
	service := &PreferenceService{
		logger:      logger,
		preferences: preferences,
		history:     history,
		bus:         bus,
	}

	logger.Debug("preference service initialized")

	// Load preferences from the repositories
	service.loadPreferences()

	return service
}

// loadPreferences loads all preferences from the repositories into cache.
// Load failures keep the defaults.
func (s *PreferenceService) loadPreferences() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if source, err := s.preferences.LoadLastSource(); err == nil {
		s.lastSource = source
	} else {
		s.logger.Warn("failed to load last source", slog.Any("error", err))
	}

	if fullScreen, err := s.preferences.LoadFullScreen(); err == nil {
		s.fullScreen = fullScreen
	} else {
		s.logger.Warn("failed to load full screen preference", slog.Any("error", err))
	}

	if recent, err := s.history.LoadRecentSources(); err == nil {
		s.recent = normalizeRecent(recent)
	} else {
		s.logger.Warn("failed to load recent sources", slog.Any("error", err))
	}
}

// LastSource returns the source that was showing last, "" for the welcome deck.
func (s *PreferenceService) LastSource() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSource
}

// SetLastSource remembers the source that is showing now.
func (s *PreferenceService) SetLastSource(source string) error {
	s.mu.Lock()
	s.lastSource = source
	s.mu.Unlock()

	return s.preferences.SaveLastSource(source)
}

// RecentSources returns a copy of the recent source list, most recent first.
func (s *PreferenceService) RecentSources() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.recent...)
}

// AddRecentSource moves source to the front of the recent list.
// The welcome deck ("") is never recorded.
func (s *PreferenceService) AddRecentSource(source string) error {
	if source == "" {
		return nil
	}

	s.mu.Lock()
	recent := normalizeRecent(append([]string{source}, s.recent...))
	s.recent = recent
	s.mu.Unlock()

	if err := s.history.SaveRecentSources(recent); err != nil {
		return err
	}

	s.publishRecent(recent)
	return nil
}

// ClearRecentSources empties the recent list.
func (s *PreferenceService) ClearRecentSources() error {
	s.mu.Lock()
	s.recent = nil
	s.mu.Unlock()

	if err := s.history.Clear(); err != nil {
		return err
	}

	s.publishRecent(nil)
	return nil
}

// FullScreen returns the saved full screen preference.
func (s *PreferenceService) FullScreen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fullScreen
}

// SetFullScreen saves the full screen preference.
func (s *PreferenceService) SetFullScreen(enabled bool) error {
	s.mu.Lock()
	s.fullScreen = enabled
	s.mu.Unlock()

	return s.preferences.SaveFullScreen(enabled)
}

// ResetToDefaults forgets every preference and the recent list.
func (s *PreferenceService) ResetToDefaults() error {
	s.mu.Lock()
	s.lastSource = ""
	s.fullScreen = false
	s.recent = nil
	s.mu.Unlock()

	if err := s.preferences.Clear(); err != nil {
		return err
	}
	if err := s.history.Clear(); err != nil {
		return err
	}

	s.publishRecent(nil)
	return nil
}

// Shutdown cleans up resources.
func (s *PreferenceService) Shutdown() error {
	// No cleanup needed for preference service
	return nil
}

func (s *PreferenceService) publishRecent(recent []string) {
	if s.bus != nil {
		s.bus.Publish(domain.NewRecentSourcesChangedEvent(append([]string(nil), recent...)))
	}
}

// normalizeRecent drops blanks and duplicates, keeping the first occurrence,
// and caps the list at MaxRecentSources.
func normalizeRecent(sources []string) []string {
	seen := make(map[string]bool, len(sources))
	out := make([]string, 0, len(sources))

	for _, source := range sources {
		if source == "" || seen[source] {
			continue
		}
		seen[source] = true
		out = append(out, source)
		if len(out) == MaxRecentSources {
			break
		}
	}
	return out
}

// Verify that PreferenceService implements the expected interface patterns
var _ interface {
	LastSource() string
	SetLastSource(string) error
	RecentSources() []string
	AddRecentSource(string) error
	ClearRecentSources() error
	FullScreen() bool
	SetFullScreen(bool) error
	ResetToDefaults() error
	Shutdown() error
} = (*PreferenceService)(nil)
