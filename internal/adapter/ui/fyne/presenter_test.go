package fyne

import (
	"context"
	"sync"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejashwikalptaru/goslide/internal/adapter/clock"
	"github.com/tejashwikalptaru/goslide/internal/adapter/effects/mock"
	"github.com/tejashwikalptaru/goslide/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/goslide/internal/adapter/repository/memory"
	"github.com/tejashwikalptaru/goslide/internal/adapter/source/static"
	"github.com/tejashwikalptaru/goslide/internal/domain"
	"github.com/tejashwikalptaru/goslide/internal/logger"
	"github.com/tejashwikalptaru/goslide/internal/ports"
	"github.com/tejashwikalptaru/goslide/internal/service"
	"github.com/tejashwikalptaru/goslide/internal/testutil"
)

// fakeView records what the presenter shows.
type fakeView struct {
	mu         sync.Mutex
	sourceName string
	title      string
	caption    string
	index      int
	total      int
	recent     []string
	fullScreen bool
	errors     []string
}

func (v *fakeView) SetSourceName(name string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sourceName = name
}

func (v *fakeView) SetCaption(title, caption string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.title = title
	v.caption = caption
}

func (v *fakeView) SetPosition(index, total int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.index = index
	v.total = total
}

func (v *fakeView) SetRecentSources(sources []string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.recent = append([]string(nil), sources...)
}

func (v *fakeView) SetFullScreen(enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.fullScreen = enabled
}

func (v *fakeView) ShowError(title string, _ error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errors = append(v.errors, title)
}

func (v *fakeView) snapshot() fakeView {
	v.mu.Lock()
	defer v.mu.Unlock()
	return fakeView{
		sourceName: v.sourceName,
		title:      v.title,
		caption:    v.caption,
		index:      v.index,
		total:      v.total,
		recent:     append([]string(nil), v.recent...),
		fullScreen: v.fullScreen,
		errors:     append([]string(nil), v.errors...),
	}
}

type presenterFixture struct {
	presenter *Presenter
	view      *fakeView
	slideshow *service.SlideshowService
	prefs     *service.PreferenceService
	bus       *eventbus.SyncEventBus
	clock     *clock.Manual
}

func newTestPresenter(t *testing.T, initial string) *presenterFixture {
	t.Helper()

	providers := map[string]ports.SequenceProvider{
		"":                 static.Welcome(),
		"/abc":             static.New("abc", static.Text("a", "b", "c")...),
		"/xy":              static.New("xy", static.Text("x", "y")...),
		"/decks/talk.yaml": static.New("Talk", static.Text("t1", "t2")...),
	}
	resolve := func(location string) (ports.SequenceProvider, error) {
		p, ok := providers[location]
		if !ok {
			return nil, domain.NewSourceError("open", location, domain.ErrSourceNotFound)
		}
		return p, nil
	}

	prefsStore := test.NewApp().Preferences()
	log := logger.NewTestLogger()

	f := &presenterFixture{
		view:  &fakeView{},
		bus:   eventbus.NewSyncEventBus(),
		clock: clock.NewManual(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	}
	f.prefs = service.NewPreferenceService(log,
		memory.NewPreferencesRepository(prefsStore),
		memory.NewHistoryRepository(prefsStore),
		f.bus)
	f.slideshow = service.NewSlideshowService(log, resolve, mock.NewSurface(), f.bus, f.clock, f.prefs)

	require.NoError(t, f.slideshow.Open(context.Background(), initial))

	f.presenter = newPresenter(log, f.slideshow, f.prefs, f.bus, f.view, runNow)
	t.Cleanup(func() {
		f.presenter.Shutdown()
		_ = f.slideshow.Shutdown()
	})
	return f
}

func TestPresenter_SyncsInitialState(t *testing.T) {
	f := newTestPresenter(t, "/abc")

	view := f.view.snapshot()
	assert.Equal(t, "abc", view.sourceName)
	assert.Equal(t, "a", view.title)
	assert.Empty(t, view.caption, "text slide body is not repeated in the caption")
	assert.Equal(t, 0, view.index)
	assert.Equal(t, 3, view.total)
	assert.Equal(t, []string{"/abc"}, view.recent)
	assert.False(t, view.fullScreen)
}

func TestPresenter_FollowsRotation(t *testing.T) {
	f := newTestPresenter(t, "/abc")

	f.clock.Advance(domain.RotationPeriod)

	testutil.WaitFor(t, func() bool {
		v := f.view.snapshot()
		return v.index == 1 && v.title == "b"
	})
}

func TestPresenter_IgnoresOtherRuns(t *testing.T) {
	f := newTestPresenter(t, "/abc")

	stale := domain.SlideRef{Index: 1, Slide: domain.Slide{ID: "zz", Title: "zz"}}
	f.bus.Publish(domain.NewSlideChangedEvent("old-run", domain.SlideRef{}, stale, 9, 1))

	view := f.view.snapshot()
	assert.Equal(t, "a", view.title)
	assert.Equal(t, 3, view.total)
}

func TestPresenter_OpenRequested(t *testing.T) {
	f := newTestPresenter(t, "/abc")

	f.presenter.OnOpenRequested("/xy")

	testutil.WaitFor(t, func() bool {
		v := f.view.snapshot()
		return v.sourceName == "xy" && v.title == "x" && v.total == 2
	})
	testutil.WaitFor(t, func() bool {
		v := f.view.snapshot()
		return len(v.recent) == 2 && v.recent[0] == "/xy"
	})
	assert.Equal(t, "/xy", f.presenter.CurrentSource())
}

func TestPresenter_OpenFailureShowsError(t *testing.T) {
	f := newTestPresenter(t, "/abc")

	f.presenter.OnOpenRequested("/missing")

	testutil.WaitFor(t, func() bool {
		return len(f.view.snapshot().errors) == 1
	})

	view := f.view.snapshot()
	assert.Equal(t, "Cannot open missing", view.errors[0])
	assert.Equal(t, "abc", view.sourceName, "running slideshow is kept")
	assert.Equal(t, "/abc", f.presenter.CurrentSource())
}

func TestPresenter_ClearRecent(t *testing.T) {
	f := newTestPresenter(t, "/abc")

	f.presenter.OnClearRecentRequested()

	assert.Empty(t, f.view.snapshot().recent)
	assert.Empty(t, f.prefs.RecentSources())
}

func TestPresenter_FullScreenRemembered(t *testing.T) {
	f := newTestPresenter(t, "/abc")

	f.presenter.OnFullScreenChanged(true)
	assert.True(t, f.prefs.FullScreen())

	f.presenter.OnFullScreenChanged(false)
	assert.False(t, f.prefs.FullScreen())
}

func TestPresenter_ResetPreferences(t *testing.T) {
	f := newTestPresenter(t, "/abc")
	f.presenter.OnFullScreenChanged(true)
	f.view.SetFullScreen(true)

	f.presenter.OnResetPreferencesRequested()

	view := f.view.snapshot()
	assert.Empty(t, view.recent)
	assert.False(t, view.fullScreen)
	assert.Empty(t, f.prefs.RecentSources())
	assert.Empty(t, f.prefs.LastSource())
	assert.False(t, f.prefs.FullScreen())
	assert.Equal(t, "abc", view.sourceName, "running slideshow is kept")
}

func TestPresenter_BrowseLocation(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"", ""},
		{"/abc", "/abc"},
		{"/decks/talk.yaml", "/decks"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			f := newTestPresenter(t, tt.source)
			assert.Equal(t, tt.want, f.presenter.BrowseLocation())
		})
	}
}

func TestPresenter_WelcomeDeck(t *testing.T) {
	f := newTestPresenter(t, "")

	view := f.view.snapshot()
	assert.Equal(t, static.WelcomeName, view.sourceName)
	assert.Empty(t, view.recent)
	assert.NotEmpty(t, view.title)
}

func TestPresenter_Shutdown(t *testing.T) {
	f := newTestPresenter(t, "/abc")

	f.presenter.Shutdown()
	f.presenter.Shutdown()

	// Requests after shutdown are dropped
	f.presenter.OnOpenRequested("/xy")
	assert.Equal(t, "/abc", f.slideshow.Source())

	// No longer subscribed
	f.clock.Advance(domain.RotationPeriod)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, f.view.snapshot().index)
}
