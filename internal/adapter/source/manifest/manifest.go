// Package manifest provides a SequenceProvider backed by a YAML deck file.
//
// A deck lists slides in display order:
//
//	title: Holiday
//	slides:
//	  - title: Beach
//	    caption: Day one
//	    image: photos/beach.jpg
//	  - title: Thanks
//	    text: "**See you next year**"
//
// Image paths are relative to the deck file. Each slide has either an image or a text body.
package manifest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/tejashwikalptaru/goslide/internal/adapter/source/filesystem"
	"github.com/tejashwikalptaru/goslide/internal/domain"
	"github.com/tejashwikalptaru/goslide/internal/ports"
)

// Deck is the on-disk layout of a deck file.
type Deck struct {
	Title  string      `yaml:"title"`
	Slides []DeckSlide `yaml:"slides"`
}

// DeckSlide is one entry of a deck file.
type DeckSlide struct {
	Title   string `yaml:"title,omitempty"`
	Caption string `yaml:"caption,omitempty"`
	Image   string `yaml:"image,omitempty"`
	Text    string `yaml:"text,omitempty"`
}

// IsDeckFile reports whether path has a deck file extension.
func IsDeckFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// Parse decodes a deck. Unknown keys are rejected so typos surface early.
func Parse(r io.Reader) (*Deck, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var deck Deck
	if err := dec.Decode(&deck); err != nil {
		if errors.Is(err, io.EOF) {
			return &deck, nil
		}
		return nil, err
	}
	return &deck, nil
}

// Validate checks every slide entry. baseDir resolves relative image paths.
func (d *Deck) Validate(baseDir string) error {
	for i, s := range d.Slides {
		field := fmt.Sprintf("slides[%d]", i)

		switch {
		case s.Image == "" && strings.TrimSpace(s.Text) == "":
			return domain.NewValidationError(field, s.Title, "slide needs an image or a text")
		case s.Image != "" && s.Text != "":
			return domain.NewValidationError(field, s.Title, "slide cannot have both image and text")
		case s.Image != "":
			if _, ok := filesystem.KindOf(s.Image); !ok {
				return domain.NewValidationError(field+".image", s.Image, "unsupported image format")
			}
			if _, err := os.Stat(resolvePath(baseDir, s.Image)); err != nil {
				return domain.NewValidationError(field+".image", s.Image, "image not found")
			}
		}
	}
	return nil
}

// Encode writes the deck as YAML.
func (d *Deck) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return err
	}
	return enc.Close()
}

// FromSlides builds a deck listing the file backed slides. Image paths are
// written relative to baseDir when possible. Slides without a file, such as
// cover art, have no deck form and are skipped.
func FromSlides(title, baseDir string, slides []domain.Slide) *Deck {
	deck := &Deck{Title: title}
	for _, slide := range slides {
		if slide.Path == "" || len(slide.Data) > 0 {
			continue
		}
		if _, ok := filesystem.KindOf(slide.Path); !ok {
			continue
		}

		image := slide.Path
		if rel, err := filepath.Rel(baseDir, slide.Path); err == nil && !strings.HasPrefix(rel, "..") {
			image = filepath.ToSlash(rel)
		}
		deck.Slides = append(deck.Slides, DeckSlide{
			Title:   slide.Title,
			Caption: slide.Caption,
			Image:   image,
		})
	}
	return deck
}

// Provider reads a deck file.
//
// Thread-safety: This implementation is thread-safe.
type Provider struct {
	path   string
	logger *slog.Logger

	mu    sync.RWMutex
	title string
}

// New creates a provider for the deck file at path.
func New(path string, logger *slog.Logger) *Provider {
	return &Provider{
		path:   filepath.Clean(path),
		logger: logger.With(slog.String("component", "manifest_source")),
	}
}

// Name returns the deck title once loaded, else the file name without extension.
func (p *Provider) Name() string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.title != "" {
		return p.title
	}
	return strings.TrimSuffix(filepath.Base(p.path), filepath.Ext(p.path))
}

// Path returns the deck file path.
func (p *Provider) Path() string {
	return p.path
}

// Slides loads, validates and converts the deck.
func (p *Provider) Slides(ctx context.Context) ([]domain.Slide, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewSourceError("read", p.path, fmt.Errorf("%w: %w", domain.ErrScanCancelled, err))
	}

	data, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NewSourceError("read", p.path, domain.ErrSourceNotFound)
		}
		return nil, domain.NewSourceError("read", p.path, err)
	}

	deck, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, domain.NewSourceError("parse", p.path, err)
	}

	baseDir := filepath.Dir(p.path)
	if err := deck.Validate(baseDir); err != nil {
		return nil, domain.NewSourceError("validate", p.path, err)
	}

	slides := make([]domain.Slide, 0, len(deck.Slides))
	for i, s := range deck.Slides {
		slides = append(slides, toSlide(baseDir, i, s))
	}

	p.mu.Lock()
	p.title = strings.TrimSpace(deck.Title)
	p.mu.Unlock()

	p.logger.Debug("deck loaded",
		slog.String("path", p.path),
		slog.String("title", deck.Title),
		slog.Int("slides", len(slides)))

	return slides, nil
}

func toSlide(baseDir string, i int, s DeckSlide) domain.Slide {
	slide := domain.Slide{
		ID:    fmt.Sprintf("slide-%d", i+1),
		Title: strings.TrimSpace(s.Title),
	}

	if s.Image != "" {
		kind, _ := filesystem.KindOf(s.Image)
		slide.Kind = kind
		slide.Path = resolvePath(baseDir, s.Image)
		slide.Caption = s.Caption
		if slide.Title == "" {
			slide.Title = strings.TrimSuffix(filepath.Base(s.Image), filepath.Ext(s.Image))
		}
		return slide
	}

	slide.Kind = domain.SlideText
	slide.Caption = s.Text
	if slide.Title == "" {
		slide.Title = fmt.Sprintf("Slide %d", i+1)
	}
	return slide
}

func resolvePath(baseDir, p string) string {
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}

var _ ports.SequenceProvider = (*Provider)(nil)
