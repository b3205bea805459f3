// Package widgets provides custom Fyne widgets for the GoSlide application.
package widgets

import (
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// TappableStack is a container that wraps content and responds to secondary
// (right-click) taps and double taps.
// It covers the slide area: a secondary tap opens the context menu, a double tap
// toggles full screen. The mouse pointer can be hidden while it is over the slides.
type TappableStack struct {
	widget.BaseWidget

	content        fyne.CanvasObject
	onSecondaryTap func(*fyne.PointEvent)
	onDoubleTap    func()
	cursorHidden   atomic.Bool
}

// NewTappableStack creates a new tappable stack with the given content.
func NewTappableStack(content fyne.CanvasObject, onSecondaryTap func(*fyne.PointEvent), onDoubleTap func()) *TappableStack {
	t := &TappableStack{
		content:        content,
		onSecondaryTap: onSecondaryTap,
		onDoubleTap:    onDoubleTap,
	}
	t.ExtendBaseWidget(t)
	return t
}

// CreateRenderer implements fyne.Widget.
func (t *TappableStack) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(t.content)
}

// Tapped implements fyne.Tappable (primary tap - left click).
// We don't do anything on primary tap.
func (t *TappableStack) Tapped(*fyne.PointEvent) {
	// No action on the primary tap
}

// TappedSecondary implements fyne.SecondaryTappable (right-click).
func (t *TappableStack) TappedSecondary(pe *fyne.PointEvent) {
	if t.onSecondaryTap != nil {
		t.onSecondaryTap(pe)
	}
}

// DoubleTapped implements fyne.DoubleTappable.
func (t *TappableStack) DoubleTapped(*fyne.PointEvent) {
	if t.onDoubleTap != nil {
		t.onDoubleTap()
	}
}

// SetCursorHidden hides or shows the mouse pointer over the stack.
func (t *TappableStack) SetCursorHidden(hidden bool) {
	t.cursorHidden.Store(hidden)
}

// Cursor implements desktop.Cursorable.
func (t *TappableStack) Cursor() desktop.Cursor {
	if t.cursorHidden.Load() {
		return desktop.HiddenCursor
	}
	return desktop.DefaultCursor
}

// Ensure TappableStack implements the required interfaces
var _ fyne.Tappable = (*TappableStack)(nil)
var _ desktop.Cursorable = (*TappableStack)(nil)
var _ fyne.SecondaryTappable = (*TappableStack)(nil)
var _ fyne.DoubleTappable = (*TappableStack)(nil)
