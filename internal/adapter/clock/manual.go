package clock

import (
	"sync"
	"time"

	"github.com/tejashwikalptaru/goslide/internal/ports"
)

// Manual is a deterministic clock for tests. Time only moves when Advance is called.
//
// Tickers behave like time.Ticker: each holds at most one pending tick and drops
// ticks the reader has not consumed yet.
//
// Thread-safety: This implementation is thread-safe.
type Manual struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*manualTicker
}

// NewManual creates a manual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the current manual time.
func (c *Manual) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// NewTicker registers a ticker that fires every d of manual time.
// It panics if d <= 0, like time.NewTicker.
func (c *Manual) NewTicker(d time.Duration) ports.Ticker {
	if d <= 0 {
		panic("non-positive interval for Manual.NewTicker")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	t := &manualTicker{
		clock:  c,
		c:      make(chan time.Time, 1),
		period: d,
		next:   c.now.Add(d),
	}
	c.tickers = append(c.tickers, t)
	return t
}

// Advance moves the clock forward by d and fires every ticker that became due.
func (c *Manual) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
	for _, t := range c.tickers {
		for !t.next.After(c.now) {
			select {
			case t.c <- t.next:
			default:
				// Reader is behind; drop like time.Ticker does
			}
			t.next = t.next.Add(t.period)
		}
	}
}

// ActiveTickers returns the number of tickers that have not been stopped.
func (c *Manual) ActiveTickers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tickers)
}

func (c *Manual) remove(t *manualTicker) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, candidate := range c.tickers {
		if candidate == t {
			c.tickers = append(c.tickers[:i], c.tickers[i+1:]...)
			return
		}
	}
}

type manualTicker struct {
	clock  *Manual
	c      chan time.Time
	period time.Duration

	// next is guarded by clock.mu
	next time.Time
}

func (t *manualTicker) C() <-chan time.Time {
	return t.c
}

func (t *manualTicker) Stop() {
	t.clock.remove(t)
}

var _ ports.Clock = (*Manual)(nil)
