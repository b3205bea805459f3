// Package static provides an in-memory SequenceProvider.
// It backs the built-in welcome deck and tests.
package static

import (
	"context"
	"fmt"

	"github.com/tejashwikalptaru/goslide/internal/domain"
	"github.com/tejashwikalptaru/goslide/internal/ports"
	"github.com/tejashwikalptaru/goslide/res"
)

// WelcomeName is the source name of the built-in deck.
const WelcomeName = "Welcome"

// Provider serves a fixed list of slides.
type Provider struct {
	name   string
	slides []domain.Slide
	err    error
}

// New creates a provider serving slides in the given order.
func New(name string, slides ...domain.Slide) *Provider {
	return &Provider{
		name:   name,
		slides: append([]domain.Slide(nil), slides...),
	}
}

// Failing creates a provider whose Slides call always returns err.
func Failing(name string, err error) *Provider {
	return &Provider{name: name, err: err}
}

// Welcome returns the built-in welcome deck.
func Welcome() *Provider {
	slides := make([]domain.Slide, 0, len(res.WelcomeDeck))
	for i, card := range res.WelcomeDeck {
		slides = append(slides, domain.Slide{
			ID:      fmt.Sprintf("welcome-%d", i+1),
			Title:   card.Title,
			Caption: card.Body,
			Kind:    domain.SlideText,
		})
	}
	return New(WelcomeName, slides...)
}

// Text builds one text slide per id, using the id as title and body.
func Text(ids ...string) []domain.Slide {
	slides := make([]domain.Slide, len(ids))
	for i, id := range ids {
		slides[i] = domain.Slide{
			ID:      id,
			Title:   id,
			Caption: id,
			Kind:    domain.SlideText,
		}
	}
	return slides
}

// Slides returns a copy of the slides.
func (p *Provider) Slides(ctx context.Context) ([]domain.Slide, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewSourceError("load", p.name, fmt.Errorf("%w: %w", domain.ErrScanCancelled, err))
	}
	if p.err != nil {
		return nil, p.err
	}
	return append([]domain.Slide(nil), p.slides...), nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return p.name
}

var _ ports.SequenceProvider = (*Provider)(nil)
