package fyne

import (
	"fmt"
	"log/slog"
	"sync"

	fyneapp "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/tejashwikalptaru/goslide/internal/adapter/ui/fyne/widgets"
	"github.com/tejashwikalptaru/goslide/res"
)

// Window defaults.
const (
	AppName       = "GoSlide"
	DefaultWidth  = 960
	DefaultHeight = 640
)

// SlideshowWindow is the main UI window implementing the SlideshowView interface.
// It shows the slide surface above a caption bar.
//
// The SlideshowWindow follows the MVP pattern:
// - It's a "dumb view" that just displays data
// - All business logic is in the Presenter
// - User interactions are forwarded to the Presenter
type SlideshowWindow struct {
	app    fyneapp.App
	window fyneapp.Window
	logger *slog.Logger

	// UI components
	surface    *Surface
	slideArea  *widgets.TappableStack
	caption    *widget.Label
	counter    *widget.Label
	mainMenu   *fyneapp.MainMenu
	recentMenu *fyneapp.MenuItem

	// State
	recent    []string
	aboutText string

	// Lifecycle management
	closeOnce     sync.Once
	onBeforeClose func()

	// Presenter (set after construction)
	presenter *Presenter
}

// NewSlideshowWindow creates a new slideshow window around surface.
func NewSlideshowWindow(app fyneapp.App, surface *Surface, logger *slog.Logger) *SlideshowWindow {
	w := &SlideshowWindow{
		app:       app,
		logger:    logger,
		surface:   surface,
		aboutText: res.AboutContent,
	}

	// Create a window
	w.window = app.NewWindow(AppName)

	// Build UI
	w.buildUI()

	// Set window properties
	w.window.Resize(fyneapp.NewSize(DefaultWidth, DefaultHeight))
	w.window.SetCloseIntercept(func() {
		w.Close()
	})

	return w
}

// SetPresenter connects the presenter to this view.
// This must be called before showing the window.
func (w *SlideshowWindow) SetPresenter(presenter *Presenter) {
	w.presenter = presenter
	w.addShortcuts()
}

// SetOnBeforeClose registers fn to run once before the window closes.
func (w *SlideshowWindow) SetOnBeforeClose(fn func()) {
	w.onBeforeClose = fn
}

// SetVersion appends the version line to the About dialog.
func (w *SlideshowWindow) SetVersion(version string) {
	w.aboutText = res.AboutContent + "\n\n*" + version + "*"
}

// buildUI constructs the UI components.
func (w *SlideshowWindow) buildUI() {
	w.slideArea = widgets.NewTappableStack(w.surface.Object(), w.showContextMenu, w.toggleFullScreen)

	// Caption bar
	w.caption = widget.NewLabel("")
	w.caption.Truncation = fyneapp.TextTruncateEllipsis
	w.caption.TextStyle = fyneapp.TextStyle{Bold: true}
	w.counter = widget.NewLabel("")
	captionBar := container.NewBorder(nil, nil, nil, w.counter, w.caption)

	// Main layout
	w.window.SetContent(container.NewBorder(nil, captionBar, nil, nil, w.slideArea))

	// Menu
	w.mainMenu = fyneapp.NewMainMenu(w.createMenu()...)
	w.window.SetMainMenu(w.mainMenu)
}

// createMenu creates the application menu.
func (w *SlideshowWindow) createMenu() []*fyneapp.Menu {
	w.recentMenu = fyneapp.NewMenuItem("Recent", nil)
	w.recentMenu.ChildMenu = fyneapp.NewMenu("")
	w.fillRecentMenu()

	exitMenu := fyneapp.NewMenuItem("Exit", func() {
		w.Close()
	})
	exitMenu.IsQuit = true

	fileMenu := fyneapp.NewMenu("File", append(w.openItems(),
		w.recentMenu,
		fyneapp.NewMenuItemSeparator(),
		fyneapp.NewMenuItem("Reset Preferences…", w.confirmReset),
		fyneapp.NewMenuItemSeparator(),
		exitMenu,
	)...)

	helpMenu := fyneapp.NewMenu("Help",
		fyneapp.NewMenuItem("About", w.showAbout),
	)

	return []*fyneapp.Menu{fileMenu, helpMenu}
}

// openItems are shared by the File menu and the context menu.
func (w *SlideshowWindow) openItems() []*fyneapp.MenuItem {
	return []*fyneapp.MenuItem{
		fyneapp.NewMenuItem("Open Folder…", w.handleOpenFolder),
		fyneapp.NewMenuItem("Open Deck…", w.handleOpenDeck),
		fyneapp.NewMenuItem("Welcome Deck", func() { w.open("") }),
	}
}

// fillRecentMenu rebuilds the Recent submenu from w.recent.
func (w *SlideshowWindow) fillRecentMenu() {
	items := make([]*fyneapp.MenuItem, 0, len(w.recent)+2)
	for _, source := range w.recent {
		items = append(items, fyneapp.NewMenuItem(source, func() { w.open(source) }))
	}

	if len(items) == 0 {
		empty := fyneapp.NewMenuItem("No recent sources", nil)
		empty.Disabled = true
		items = append(items, empty)
	} else {
		items = append(items,
			fyneapp.NewMenuItemSeparator(),
			fyneapp.NewMenuItem("Clear Recent", func() {
				if w.presenter != nil {
					w.presenter.OnClearRecentRequested()
				}
			}),
		)
	}

	w.recentMenu.ChildMenu.Items = items
	w.recentMenu.Disabled = len(w.recent) == 0
}

// showContextMenu opens the slide area context menu at the tap position.
func (w *SlideshowWindow) showContextMenu(pe *fyneapp.PointEvent) {
	fullScreen := fyneapp.NewMenuItem("Full Screen", w.toggleFullScreen)
	fullScreen.Checked = w.window.FullScreen()

	items := append(w.openItems(),
		fyneapp.NewMenuItemSeparator(),
		fullScreen,
		fyneapp.NewMenuItem("About", w.showAbout),
	)

	widget.ShowPopUpMenuAtPosition(fyneapp.NewMenu("", items...), w.window.Canvas(), pe.AbsolutePosition)
}

// handleOpenFolder handles the "Open Folder" menu action.
func (w *SlideshowWindow) handleOpenFolder() {
	if w.presenter == nil {
		return
	}

	NewFolderDialog(w.window, w.open, w.logger).
		WithLocation(w.presenter.BrowseLocation()).
		Show()
}

// handleOpenDeck handles the "Open Deck" menu action.
func (w *SlideshowWindow) handleOpenDeck() {
	if w.presenter == nil {
		return
	}

	NewDeckDialog(w.window, w.open, w.logger).
		WithLocation(w.presenter.BrowseLocation()).
		Show()
}

func (w *SlideshowWindow) open(source string) {
	if w.presenter != nil {
		w.presenter.OnOpenRequested(source)
	}
}

func (w *SlideshowWindow) confirmReset() {
	dialog.ShowConfirm("Reset Preferences",
		"Forget recent sources and window settings?",
		func(ok bool) {
			if ok && w.presenter != nil {
				w.presenter.OnResetPreferencesRequested()
			}
		}, w.window)
}

func (w *SlideshowWindow) showAbout() {
	about := widget.NewRichTextFromMarkdown(w.aboutText)
	about.Wrapping = fyneapp.TextWrapWord
	dialog.ShowCustom("About "+AppName, "Close", about, w.window)
}

func (w *SlideshowWindow) toggleFullScreen() {
	w.SetFullScreen(!w.window.FullScreen())
	if w.presenter != nil {
		w.presenter.OnFullScreenChanged(w.window.FullScreen())
	}
}

// addShortcuts adds keyboard shortcuts.
func (w *SlideshowWindow) addShortcuts() {
	w.window.Canvas().SetOnTypedKey(func(key *fyneapp.KeyEvent) {
		switch key.Name {
		case fyneapp.KeyEscape:
			if w.window.FullScreen() {
				w.toggleFullScreen()
			}
		case fyneapp.KeyF11:
			w.toggleFullScreen()
		}
	})
}

// ShowAndRun shows the window and runs the application.
func (w *SlideshowWindow) ShowAndRun() {
	w.window.ShowAndRun()
}

// Close runs the before-close hook and closes the window.
// It's safe to call multiple times (idempotent).
func (w *SlideshowWindow) Close() {
	w.closeOnce.Do(func() {
		if w.onBeforeClose != nil {
			w.onBeforeClose()
		}
		w.window.Close()
	})
}

// GetWindow returns the underlying Fyne window.
func (w *SlideshowWindow) GetWindow() fyneapp.Window {
	return w.window
}

// SlideshowView interface implementation

// SetSourceName updates the window title.
func (w *SlideshowWindow) SetSourceName(name string) {
	if name == "" {
		w.window.SetTitle(AppName)
		return
	}
	w.window.SetTitle(fmt.Sprintf("%s – %s", name, AppName))
}

// SetCaption updates the caption bar.
func (w *SlideshowWindow) SetCaption(title, caption string) {
	text := title
	if caption != "" {
		text = fmt.Sprintf("%s · %s", title, caption)
	}
	w.caption.SetText(text)
}

// SetPosition updates the "2 / 5" counter.
func (w *SlideshowWindow) SetPosition(index, total int) {
	if total <= 0 {
		w.counter.SetText("")
		return
	}
	w.counter.SetText(fmt.Sprintf("%d / %d", index+1, total))
}

// SetRecentSources rebuilds the Recent submenu.
func (w *SlideshowWindow) SetRecentSources(sources []string) {
	w.recent = append([]string(nil), sources...)
	w.fillRecentMenu()
	w.mainMenu.Refresh()
}

// SetFullScreen switches full screen on or off.
// The pointer is hidden over the slides while in full screen.
func (w *SlideshowWindow) SetFullScreen(enabled bool) {
	w.window.SetFullScreen(enabled)
	w.slideArea.SetCursorHidden(enabled)
}

// ShowError shows err in a dialog.
func (w *SlideshowWindow) ShowError(title string, err error) {
	w.logger.Debug("showing error", slog.String("title", title), slog.Any("error", err))
	dialog.ShowError(fmt.Errorf("%s: %w", title, err), w.window)
}

// Verify SlideshowView implementation
var _ SlideshowView = (*SlideshowWindow)(nil)
