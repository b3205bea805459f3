// Package ports define repository interfaces for data persistence abstraction.
// These interfaces enable the repository pattern and allow swapping persistence mechanisms.
package ports

// HistoryRepository handles the persistence of recently opened slide sources.
//
// Thread-safety: Implementations must be thread-safe.
type HistoryRepository interface {
	// SaveRecentSources persists the recent source list, most recent first.
	//
	// Returns an error if saving fails.
	SaveRecentSources(sources []string) error

	// LoadRecentSources retrieves the recent source list.
	// If nothing was saved, returns an empty slice (not an error).
	//
	// Returns the list or an error if loading fails.
	LoadRecentSources() ([]string, error)

	// Clear removes all saved history data.
	//
	// Returns an error if clearing fails.
	Clear() error
}

// PreferencesRepository handles the persistence of user preferences.
// This abstracts the Fyne preferences storage.
//
// Thread-safety: Implementations must be thread-safe.
type PreferencesRepository interface {
	// SaveLastSource persists the source that was showing when the app closed.
	//
	// Returns an error if saving fails.
	SaveLastSource(source string) error

	// LoadLastSource retrieves the saved source.
	// If no source was saved, returns "" (the welcome deck).
	//
	// Returns the source or an error if loading fails.
	LoadLastSource() (string, error)

	// SaveFullScreen persists whether the slideshow window was full screen.
	//
	// Returns an error if saving fails.
	SaveFullScreen(enabled bool) error

	// LoadFullScreen retrieves the saved full screen state, false by default.
	//
	// Returns the state or an error if loading fails.
	LoadFullScreen() (bool, error)

	// Clear removes all saved preferences.
	//
	// Returns an error if clearing fails.
	Clear() error
}
