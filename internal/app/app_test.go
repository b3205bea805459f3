package app

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejashwikalptaru/goslide/internal/adapter/clock"
	"github.com/tejashwikalptaru/goslide/internal/adapter/source/static"
	"github.com/tejashwikalptaru/goslide/internal/domain"
	"github.com/tejashwikalptaru/goslide/internal/testutil"
)

// testConfig returns a config that runs headless on a manual clock.
func testConfig() Config {
	config := DefaultConfig()
	config.TestFyneApp = test.NewApp()
	config.Clock = clock.NewManual(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	config.LogOutput = io.Discard
	return config
}

// writeDeck creates a deck manifest with text slides.
func writeDeck(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "talk.yaml")
	deck := "title: Talk\nslides:\n  - text: \"# One\"\n  - text: \"# Two\"\n  - text: \"# Three\"\n"
	require.NoError(t, os.WriteFile(path, []byte(deck), 0o644))
	return path
}

func TestNewApplication(t *testing.T) {
	defer testutil.VerifyNoLeaks(t, testutil.IgnoreFyneGoroutines()...)

	app, err := NewApplication(testConfig())
	require.NoError(t, err)
	require.NotNil(t, app)
	defer app.Shutdown()

	// Verify all services were created
	slideshow, preference := app.GetServices()
	assert.NotNil(t, slideshow)
	assert.NotNil(t, preference)

	// Verify infrastructure was created
	assert.NotNil(t, app.GetEventBus())
	assert.NotNil(t, app.GetFyneApp())
	assert.NotNil(t, app.GetWindow())

	// Welcome deck is showing
	assert.Equal(t, static.WelcomeName, slideshow.Name())
	state, ok := slideshow.Current()
	require.True(t, ok)
	assert.True(t, state.Running)
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "com.goslide.app", config.AppID)
	assert.Equal(t, "GoSlide", config.AppName)
	assert.True(t, config.Resume)
	assert.Empty(t, config.Source)
	assert.Equal(t, "text", config.LogFormat)
	assert.Positive(t, config.OpenTimeout)
}

func TestApplicationLifecycle(t *testing.T) {
	defer testutil.VerifyNoLeaks(t, testutil.IgnoreFyneGoroutines()...)

	config := testConfig()
	manual := config.Clock.(*clock.Manual)

	// Create
	app, err := NewApplication(config)
	require.NoError(t, err)
	assert.Equal(t, 1, manual.ActiveTickers())

	// Run would normally block, but we're not calling it in test

	// Shutdown
	app.Shutdown()
	assert.Zero(t, manual.ActiveTickers())

	// Shutdown again should not panic
	app.Shutdown()
}

func TestApplicationOpensSource(t *testing.T) {
	defer testutil.VerifyNoLeaks(t, testutil.IgnoreFyneGoroutines()...)

	config := testConfig()
	config.Source = writeDeck(t, t.TempDir())

	app, err := NewApplication(config)
	require.NoError(t, err)
	defer app.Shutdown()

	slideshow, preference := app.GetServices()
	assert.Equal(t, "Talk", slideshow.Name())
	assert.Equal(t, config.Source, preference.LastSource())
	assert.Equal(t, []string{config.Source}, preference.RecentSources())

	state, ok := slideshow.Current()
	require.True(t, ok)
	assert.Equal(t, 3, state.Total)
	assert.Equal(t, 0, state.Current.Index)
}

func TestApplicationRotates(t *testing.T) {
	defer testutil.VerifyNoLeaks(t, testutil.IgnoreFyneGoroutines()...)

	config := testConfig()
	config.Source = writeDeck(t, t.TempDir())
	manual := config.Clock.(*clock.Manual)

	app, err := NewApplication(config)
	require.NoError(t, err)
	defer app.Shutdown()

	slideshow, _ := app.GetServices()

	manual.Advance(domain.RotationPeriod)
	testutil.WaitFor(t, func() bool {
		state, _ := slideshow.Current()
		return state.Current.Index == 1
	})
}

func TestApplicationExplicitSourceMustOpen(t *testing.T) {
	defer testutil.VerifyNoLeaks(t, testutil.IgnoreFyneGoroutines()...)

	config := testConfig()
	config.Source = filepath.Join(t.TempDir(), "missing")

	app, err := NewApplication(config)
	assert.Nil(t, app)
	assert.ErrorIs(t, err, domain.ErrSourceNotFound)
}

func TestApplicationResume(t *testing.T) {
	defer testutil.VerifyNoLeaks(t, testutil.IgnoreFyneGoroutines()...)

	deck := writeDeck(t, t.TempDir())

	config := testConfig()
	config.TestFyneApp.Preferences().SetString("preferences.last_source", deck)

	app, err := NewApplication(config)
	require.NoError(t, err)
	defer app.Shutdown()

	slideshow, _ := app.GetServices()
	assert.Equal(t, "Talk", slideshow.Name())
	assert.Equal(t, deck, slideshow.Source())
}

func TestApplicationResumeFallsBackToWelcome(t *testing.T) {
	defer testutil.VerifyNoLeaks(t, testutil.IgnoreFyneGoroutines()...)

	config := testConfig()
	config.TestFyneApp.Preferences().SetString("preferences.last_source", filepath.Join(t.TempDir(), "gone"))

	app, err := NewApplication(config)
	require.NoError(t, err)
	defer app.Shutdown()

	slideshow, _ := app.GetServices()
	assert.Equal(t, static.WelcomeName, slideshow.Name())
}

func TestApplicationNoResume(t *testing.T) {
	defer testutil.VerifyNoLeaks(t, testutil.IgnoreFyneGoroutines()...)

	config := testConfig()
	config.Resume = false
	config.TestFyneApp.Preferences().SetString("preferences.last_source", writeDeck(t, t.TempDir()))

	app, err := NewApplication(config)
	require.NoError(t, err)
	defer app.Shutdown()

	slideshow, _ := app.GetServices()
	assert.Equal(t, static.WelcomeName, slideshow.Name())
}
