// Package clock abstracts time measurement and sleeping so that the engine's
// polling and drain loops can be driven deterministically in tests.
package clock

import (
	"time"

	"go.uber.org/fx"
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// Clock abstracts the time operations used by the engine.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
	// Sleep pauses the current goroutine for at least the duration d.
	Sleep(d time.Duration)
}

type clock struct{}

// New creates a new Clock backed by the wall clock.
func New() Clock {
	return clock{}
}

func (clock) Now() time.Time { return time.Now() }

func (clock) Sleep(d time.Duration) { time.Sleep(d) }
