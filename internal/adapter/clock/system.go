// Package clock provides implementations of the Clock port.
package clock

import (
	"time"

	"github.com/tejashwikalptaru/goslide/internal/ports"
)

// System is the wall clock backed by the time package.
type System struct{}

// NewSystem creates a wall clock.
func NewSystem() System {
	return System{}
}

// Now returns the current local time.
func (System) Now() time.Time {
	return time.Now()
}

// NewTicker returns a ticker backed by time.Ticker.
func (System) NewTicker(d time.Duration) ports.Ticker {
	return systemTicker{t: time.NewTicker(d)}
}

type systemTicker struct {
	t *time.Ticker
}

func (s systemTicker) C() <-chan time.Time {
	return s.t.C
}

func (s systemTicker) Stop() {
	s.t.Stop()
}

var _ ports.Clock = System{}
