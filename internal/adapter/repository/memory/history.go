// Package memory provides repository implementations backed by Fyne preferences.
package memory

import (
	"encoding/json"
	"sync"

	"fyne.io/fyne/v2"
	"github.com/tejashwikalptaru/goslide/internal/domain"
	"github.com/tejashwikalptaru/goslide/internal/ports"
)

const keyRecentSources = "history.recent_sources"

// HistoryRepository implements ports.HistoryRepository using Fyne preferences.
//
// Fyne preferences automatically use OS-specific app data directories:
// - macOS: ~/Library/Preferences/com.goslide.app.plist
// - Linux: ~/.config/fyne/com.goslide.app/
// - Windows: %APPDATA%\fyne\com.goslide.app\
//
// Thread-safe: All operations protected by sync.RWMutex.
type HistoryRepository struct {
	prefs fyne.Preferences
	mu    sync.RWMutex
}

// NewHistoryRepository creates a new history repository.
// The preferences parameter should be obtained from fyne.App.Preferences().
func NewHistoryRepository(prefs fyne.Preferences) *HistoryRepository {
	return &HistoryRepository{
		prefs: prefs,
	}
}

// SaveRecentSources persists the recent source list.
func (r *HistoryRepository) SaveRecentSources(sources []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(sources)
	if err != nil {
		return domain.NewRepositoryError("save", "history", "failed to marshal recent sources", err)
	}

	r.prefs.SetString(keyRecentSources, string(data))
	return nil
}

// LoadRecentSources retrieves the recent source list.
func (r *HistoryRepository) LoadRecentSources() ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data := r.prefs.String(keyRecentSources)
	if data == "" {
		return []string{}, nil
	}

	var sources []string
	if err := json.Unmarshal([]byte(data), &sources); err != nil {
		return nil, domain.NewRepositoryError("load", "history", "failed to unmarshal recent sources", err)
	}

	return sources, nil
}

// Clear removes all saved history data.
func (r *HistoryRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.RemoveValue(keyRecentSources)
	return nil
}

// Verify interface implementation
var _ ports.HistoryRepository = (*HistoryRepository)(nil)
