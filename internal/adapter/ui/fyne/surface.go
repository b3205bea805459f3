package fyne

import (
	"bytes"
	"image/color"
	"log/slog"
	"sync"

	fyneapp "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	xwidget "fyne.io/x/fyne/widget"

	"github.com/tejashwikalptaru/goslide/internal/domain"
	"github.com/tejashwikalptaru/goslide/internal/ports"
)

// Surface renders a slide sequence as a stack of frames and cross-fades them.
//
// Every frame carries an opacity. Pictures fade through canvas.Image translucency,
// text fades through a theme override that scales colour alpha. A frame that starts
// fading in is raised to the top of the stack, so the frame fading out stays visible
// underneath until it is hidden. Requests may come from any goroutine; drawing is
// scheduled on the Fyne goroutine.
type Surface struct {
	logger *slog.Logger
	do     func(func())
	start  func(*fyneapp.Animation)

	stack *fyneapp.Container

	mu     sync.RWMutex
	frames []*slideFrame
}

// NewSurface creates an empty surface.
func NewSurface(logger *slog.Logger) *Surface {
	return newSurface(logger, fyneapp.Do)
}

// newSurface allows tests to run UI work synchronously.
func newSurface(logger *slog.Logger, do func(func())) *Surface {
	return &Surface{
		logger: logger,
		do:     do,
		start:  (*fyneapp.Animation).Start,
		stack:  container.NewStack(),
	}
}

// Object returns the canvas object to place in a window.
func (s *Surface) Object() fyneapp.CanvasObject {
	return s.stack
}

// Mount replaces the displayed sequence. The first slide is shown at once, all
// others start hidden and fully transparent.
func (s *Surface) Mount(slides []domain.Slide) error {
	if len(slides) == 0 {
		return domain.ErrEmptySequence
	}

	frames := make([]*slideFrame, len(slides))
	objects := make([]fyneapp.CanvasObject, len(slides))
	for i, slide := range slides {
		frames[i] = s.newFrame(slide)
		objects[i] = frames[i].root
	}

	s.mu.Lock()
	old := s.frames
	s.frames = frames
	frames[0].shown = true
	s.mu.Unlock()

	s.do(func() {
		for _, f := range old {
			f.release()
		}
		for i, f := range frames {
			if i == 0 {
				f.setOpacity(1)
				f.root.Show()
				f.startGif()
			} else {
				f.setOpacity(0)
				f.root.Hide()
			}
		}
		s.stack.Objects = objects
		s.stack.Refresh()
	})

	s.logger.Debug("slides mounted", slog.Int("count", len(slides)))
	return nil
}

// FadeOut starts fading the target slide out.
func (s *Surface) FadeOut(target domain.SlideRef, speed domain.FadeSpeed) error {
	frame, err := s.frame(target, false)
	if err != nil {
		return err
	}

	s.do(func() { frame.fadeOut(speed) })
	return nil
}

// FadeIn raises the target slide to the top and starts fading it in.
func (s *Surface) FadeIn(target domain.SlideRef, speed domain.FadeSpeed) error {
	frame, err := s.frame(target, true)
	if err != nil {
		return err
	}

	s.do(func() {
		s.raise(frame)
		frame.fadeIn(speed)
	})
	return nil
}

// raise moves the frame to the top of the stack. Must run on the Fyne goroutine.
func (s *Surface) raise(frame *slideFrame) {
	objects := s.stack.Objects
	for i, obj := range objects {
		if obj != frame.root {
			continue
		}
		if i == len(objects)-1 {
			return
		}
		copy(objects[i:], objects[i+1:])
		objects[len(objects)-1] = frame.root
		s.stack.Refresh()
		return
	}
}

// frame looks up the target frame and records its target visibility.
func (s *Surface) frame(target domain.SlideRef, shown bool) (*slideFrame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.frames == nil {
		return nil, domain.ErrNotMounted
	}
	if target.Index < 0 || target.Index >= len(s.frames) {
		return nil, domain.ErrInvalidIndex
	}

	f := s.frames[target.Index]
	f.shown = shown
	return f, nil
}

// Visible returns the indexes whose last request was a fade in.
func (s *Surface) Visible() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []int
	for i, f := range s.frames {
		if f.shown {
			out = append(out, i)
		}
	}
	return out
}

// Len returns the number of mounted slides.
func (s *Surface) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.frames)
}

// Release stops every running animation. The surface can be mounted again afterwards.
func (s *Surface) Release() {
	s.mu.Lock()
	frames := s.frames
	s.frames = nil
	s.mu.Unlock()

	s.do(func() {
		for _, f := range frames {
			f.release()
		}
		s.stack.Objects = nil
		s.stack.Refresh()
	})
}

// newFrame builds the content for one slide.
func (s *Surface) newFrame(slide domain.Slide) *slideFrame {
	f := &slideFrame{slide: slide, start: s.start}

	switch slide.Kind {
	case domain.SlideText:
		text := widget.NewRichTextFromMarkdown(slide.Caption)
		text.Wrapping = fyneapp.TextWrapWord
		f.tint = &fadeTheme{Theme: theme.Current(), opacity: 1}
		f.override = container.NewThemeOverride(container.NewPadded(text), f.tint)
		f.root = container.NewStack(f.override)

	case domain.SlideAnimation:
		f.image = newImage(slide)
		gif, err := xwidget.NewAnimatedGif(storage.NewFileURI(slide.Path))
		if err != nil {
			s.logger.Warn("cannot load animation, showing first frame",
				slog.String("path", slide.Path), slog.Any("error", err))
			f.root = container.NewStack(f.image)
			break
		}
		gif.Hide()
		f.gif = gif
		f.root = container.NewStack(f.image, gif)

	default:
		f.image = newImage(slide)
		f.root = container.NewStack(f.image)
	}

	return f
}

// newImage renders a still picture from memory or disk.
func newImage(slide domain.Slide) *canvas.Image {
	var img *canvas.Image
	if len(slide.Data) > 0 {
		img = canvas.NewImageFromReader(bytes.NewReader(slide.Data), slide.ID)
	} else {
		img = canvas.NewImageFromFile(slide.Path)
	}
	img.FillMode = canvas.ImageFillContain
	return img
}

// fadeTheme is the current theme with every colour scaled by opacity.
type fadeTheme struct {
	fyneapp.Theme
	opacity float32
}

func (t *fadeTheme) Color(name fyneapp.ThemeColorName, variant fyneapp.ThemeVariant) color.Color {
	c := color.NRGBAModel.Convert(t.Theme.Color(name, variant)).(color.NRGBA)
	c.A = uint8(float32(c.A) * t.opacity)
	return c
}

// slideFrame is one slide on the surface.
// All fields except shown are only touched on the Fyne goroutine.
type slideFrame struct {
	slide domain.Slide
	root  *fyneapp.Container
	start func(*fyneapp.Animation)

	// image is the picture, or the still first frame of an animation
	image *canvas.Image
	gif   *xwidget.AnimatedGif

	tint     *fadeTheme
	override *container.ThemeOverride

	opacity float32
	anim    *fyneapp.Animation

	// shown is the visibility requested last, guarded by Surface.mu
	shown bool
}

func (f *slideFrame) setOpacity(opacity float32) {
	f.opacity = opacity
	if f.image != nil {
		f.image.Translucency = float64(1 - opacity)
		f.image.Refresh()
	}
	if f.tint != nil {
		f.tint.opacity = opacity
		f.override.Refresh()
	}
}

// animateTo moves the frame from its current opacity to target.
// done runs once the animation reaches its end.
func (f *slideFrame) animateTo(target float32, speed domain.FadeSpeed, done func()) {
	if f.anim != nil {
		f.anim.Stop()
	}

	from := f.opacity
	delta := target - from

	f.anim = fyneapp.NewAnimation(speed.Duration(), func(progress float32) {
		f.setOpacity(from + delta*progress)
		if progress >= 1 && done != nil {
			done()
		}
	})
	f.anim.Curve = fyneapp.AnimationEaseInOut
	f.start(f.anim)
}

func (f *slideFrame) fadeOut(speed domain.FadeSpeed) {
	f.stopGif()
	f.animateTo(0, speed, func() {
		f.root.Hide()
	})
}

func (f *slideFrame) fadeIn(speed domain.FadeSpeed) {
	f.root.Show()
	f.animateTo(1, speed, f.startGif)
}

// startGif swaps the still first frame for the running animation.
func (f *slideFrame) startGif() {
	if f.gif == nil {
		return
	}
	f.image.Hide()
	f.gif.Show()
	f.gif.Start()
}

// stopGif swaps the animation back to its still first frame so it can fade.
func (f *slideFrame) stopGif() {
	if f.gif == nil {
		return
	}
	f.gif.Stop()
	f.gif.Hide()
	f.image.Show()
}

// release stops the animation and any running GIF.
func (f *slideFrame) release() {
	if f.anim != nil {
		f.anim.Stop()
	}
	if f.gif != nil {
		f.gif.Stop()
	}
}

var _ ports.SlideSurface = (*Surface)(nil)
