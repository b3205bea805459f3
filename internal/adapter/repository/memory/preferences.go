package memory

import (
	"sync"

	"fyne.io/fyne/v2"
	"github.com/tejashwikalptaru/goslide/internal/ports"
)

const (
	keyLastSource = "preferences.last_source"
	keyFullScreen = "preferences.full_screen"
)

// PreferencesRepository implements ports.PreferencesRepository using Fyne preferences.
// This provides a thin wrapper around Fyne's preferences system.
//
// Thread-safe: All operations protected by sync.RWMutex.
type PreferencesRepository struct {
	prefs fyne.Preferences
	mu    sync.RWMutex
}

// NewPreferencesRepository creates a new preferences' repository.
// The preferences parameter should be obtained from fyne.App.Preferences().
func NewPreferencesRepository(prefs fyne.Preferences) *PreferencesRepository {
	return &PreferencesRepository{
		prefs: prefs,
	}
}

// SaveLastSource persists the source that was last shown.
func (r *PreferencesRepository) SaveLastSource(source string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.SetString(keyLastSource, source)
	return nil
}

// LoadLastSource retrieves the source that was last shown.
func (r *PreferencesRepository) LoadLastSource() (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.prefs.String(keyLastSource), nil
}

// SaveFullScreen persists the full screen state.
func (r *PreferencesRepository) SaveFullScreen(enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.SetBool(keyFullScreen, enabled)
	return nil
}

// LoadFullScreen retrieves the full screen state.
func (r *PreferencesRepository) LoadFullScreen() (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.prefs.BoolWithFallback(keyFullScreen, false), nil
}

// Clear removes all saved preferences.
func (r *PreferencesRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.RemoveValue(keyLastSource)
	r.prefs.RemoveValue(keyFullScreen)

	return nil
}

// Verify interface implementation
var _ ports.PreferencesRepository = (*PreferencesRepository)(nil)
