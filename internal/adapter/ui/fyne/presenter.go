// Package fyne provides Fyne UI adapter implementations.
// This package implements the UI layer using the Fyne toolkit.
package fyne

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"

	fyneapp "fyne.io/fyne/v2"

	"github.com/tejashwikalptaru/goslide/internal/adapter/source/manifest"
	"github.com/tejashwikalptaru/goslide/internal/domain"
	"github.com/tejashwikalptaru/goslide/internal/ports"
	"github.com/tejashwikalptaru/goslide/internal/service"
)

// SlideshowView defines the interface for UI updates.
// The actual UI implementation (SlideshowWindow) must implement this interface.
// All methods are called on the Fyne goroutine.
type SlideshowView interface {
	// SetSourceName shows the name of the running slideshow.
	SetSourceName(name string)

	// SetCaption shows the title and optional caption of the current slide.
	SetCaption(title, caption string)

	// SetPosition shows the 0-based index of the current slide out of total.
	SetPosition(index, total int)

	// SetRecentSources rebuilds the recent source menu.
	SetRecentSources(sources []string)

	// SetFullScreen switches full screen on or off.
	SetFullScreen(enabled bool)

	// ShowError reports a failed user action.
	ShowError(title string, err error)
}

// Presenter implements the Presenter pattern (MVP architecture).
// It coordinates between services and the UI, handling all event-driven updates.
//
// Responsibilities:
// - Subscribe to events from the event bus
// - Map domain events to UI updates
// - Translate UI commands to service method calls
// - Maintain presentation state
//
// Rotation events arrive on the rotator goroutine; every view update is
// scheduled on the Fyne goroutine.
type Presenter struct {
	// Dependencies
	logger *slog.Logger
	do     func(func())

	// Services (injected)
	slideshowService  *service.SlideshowService
	preferenceService *service.PreferenceService

	// Event bus for subscriptions
	bus ports.FilteringEventBus

	// UI view
	view SlideshowView

	// Presentation state
	runID         string
	subscriptions []domain.SubscriptionID

	// Pending opens
	ctx    context.Context
	cancel context.CancelFunc
	opens  sync.WaitGroup

	// Concurrency control
	mu           sync.RWMutex
	shutdownOnce sync.Once
}

// NewPresenter creates a new presenter.
func NewPresenter(
	logger *slog.Logger,
	slideshowService *service.SlideshowService,
	preferenceService *service.PreferenceService,
	bus ports.FilteringEventBus,
	view SlideshowView,
) *Presenter {
	return newPresenter(logger, slideshowService, preferenceService, bus, view, fyneapp.Do)
}

func newPresenter(
	logger *slog.Logger,
	slideshowService *service.SlideshowService,
	preferenceService *service.PreferenceService,
	bus ports.FilteringEventBus,
	view SlideshowView,
	do func(func()),
) *Presenter {
	ctx, cancel := context.WithCancel(context.Background())

	p := &Presenter{
		logger:            logger,
		do:                do,
		slideshowService:  slideshowService,
		preferenceService: preferenceService,
		bus:               bus,
		view:              view,
		ctx:               ctx,
		cancel:            cancel,
	}

	// Subscribe to events
	p.subscribeToEvents()

	// Sync UI with current state
	p.syncInitialState()

	return p
}

// subscribeToEvents subscribes to all relevant events from the event bus.
func (p *Presenter) subscribeToEvents() {
	subscriptions := map[domain.EventType]domain.EventHandler{
		domain.EventRotationStarted:      p.onRotationStarted,
		domain.EventSourceLoaded:         p.onSourceLoaded,
		domain.EventSourceFailed:         p.onSourceFailed,
		domain.EventRecentSourcesChanged: p.onRecentSourcesChanged,
	}

	ids := make([]domain.SubscriptionID, 0, len(subscriptions)+1)
	for eventType, handler := range subscriptions {
		ids = append(ids, p.bus.Subscribe(eventType, handler))
	}

	// Ticks of a replaced rotator are ignored
	ids = append(ids, p.bus.SubscribeFiltered(domain.EventSlideChanged, p.isCurrentRun, p.onSlideChanged))

	p.mu.Lock()
	p.subscriptions = ids
	p.mu.Unlock()
}

// syncInitialState synchronizes the UI with the current application state.
// The initial source is opened before the presenter exists, so its start
// event has already been published.
func (p *Presenter) syncInitialState() {
	recent := p.preferenceService.RecentSources()
	fullScreen := p.preferenceService.FullScreen()

	state, ok := p.slideshowService.Current()
	name := p.slideshowService.Name()
	if ok {
		p.mu.Lock()
		p.runID = state.RunID
		p.mu.Unlock()
	}

	p.do(func() {
		p.view.SetRecentSources(recent)
		p.view.SetFullScreen(fullScreen)
		if ok {
			p.view.SetSourceName(name)
			p.showSlide(state.Current, state.Total)
		}
	})
}

func (p *Presenter) isCurrentRun(event domain.Event) bool {
	e, ok := event.(domain.SlideChangedEvent)
	if !ok {
		return false
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	return e.RunID == p.runID
}

// Event handlers

func (p *Presenter) onRotationStarted(event domain.Event) {
	e, ok := event.(domain.RotationStartedEvent)
	if !ok {
		return
	}

	p.mu.Lock()
	p.runID = e.RunID
	p.mu.Unlock()

	p.do(func() {
		p.showSlide(e.Current, e.Total)
	})
}

func (p *Presenter) onSlideChanged(event domain.Event) {
	e, ok := event.(domain.SlideChangedEvent)
	if !ok {
		return
	}

	p.do(func() {
		p.showSlide(e.Current, e.Total)
	})
}

func (p *Presenter) onSourceLoaded(event domain.Event) {
	e, ok := event.(domain.SourceLoadedEvent)
	if !ok {
		return
	}

	p.do(func() {
		p.view.SetSourceName(e.Name)
	})
}

func (p *Presenter) onSourceFailed(event domain.Event) {
	e, ok := event.(domain.SourceFailedEvent)
	if !ok {
		return
	}

	p.do(func() {
		p.view.ShowError("Cannot open "+displaySource(e.Source), e.Error)
	})
}

func (p *Presenter) onRecentSourcesChanged(event domain.Event) {
	e, ok := event.(domain.RecentSourcesChangedEvent)
	if !ok {
		return
	}

	p.do(func() {
		p.view.SetRecentSources(e.Sources)
	})
}

// showSlide must run on the Fyne goroutine.
func (p *Presenter) showSlide(current domain.SlideRef, total int) {
	caption := current.Slide.Caption
	if current.Slide.Kind == domain.SlideText {
		// The body is already on screen
		caption = ""
	}
	p.view.SetCaption(current.Slide.DisplayName(), caption)
	p.view.SetPosition(current.Index, total)
}

// UI Command handlers (called by UI)

// OnOpenRequested opens source in the background. Failures reach the view
// through the SourceFailed event.
func (p *Presenter) OnOpenRequested(source string) {
	// Register under the lock so Shutdown cannot miss a pending open
	p.mu.RLock()
	ctx := p.ctx
	if ctx.Err() != nil {
		p.mu.RUnlock()
		return
	}
	p.opens.Add(1)
	p.mu.RUnlock()

	p.logger.Debug("open requested", slog.String("source", source))

	go func() {
		defer p.opens.Done()
		if err := p.slideshowService.Open(ctx, source); err != nil {
			p.logger.Debug("open failed", slog.String("source", source), slog.Any("error", err))
		}
	}()
}

// OnClearRecentRequested empties the recent source list.
func (p *Presenter) OnClearRecentRequested() {
	if err := p.preferenceService.ClearRecentSources(); err != nil {
		p.logger.Error("clear recent sources failed", slog.Any("error", err))
		p.view.ShowError("Cannot clear recent sources", err)
	}
}

// OnResetPreferencesRequested forgets the recent sources and window settings.
// The running slideshow keeps going.
func (p *Presenter) OnResetPreferencesRequested() {
	if err := p.preferenceService.ResetToDefaults(); err != nil {
		p.logger.Error("reset preferences failed", slog.Any("error", err))
		p.view.ShowError("Cannot reset preferences", err)
		return
	}

	p.logger.Info("preferences reset")
	p.view.SetFullScreen(false)
}

// OnFullScreenChanged remembers the full screen state.
func (p *Presenter) OnFullScreenChanged(enabled bool) {
	if err := p.preferenceService.SetFullScreen(enabled); err != nil {
		p.logger.Warn("failed to save full screen preference", slog.Any("error", err))
	}
}

// CurrentSource returns the location of the running slideshow.
func (p *Presenter) CurrentSource() string {
	return p.slideshowService.Source()
}

// BrowseLocation returns the directory dialogs should start in.
func (p *Presenter) BrowseLocation() string {
	source := p.slideshowService.Source()
	if source == "" {
		return ""
	}
	if manifest.IsDeckFile(source) {
		return filepath.Dir(source)
	}
	return source
}

// Shutdown cancels pending opens and unsubscribes from the event bus.
// It's safe to call multiple times (idempotent).
func (p *Presenter) Shutdown() {
	p.shutdownOnce.Do(func() {
		p.mu.Lock()
		p.cancel()
		ids := p.subscriptions
		p.subscriptions = nil
		p.mu.Unlock()

		p.opens.Wait()

		for _, id := range ids {
			p.bus.Unsubscribe(id)
		}
	})
}

// displaySource names a source for dialogs.
func displaySource(source string) string {
	if source == "" {
		return "welcome deck"
	}
	return filepath.Base(source)
}
