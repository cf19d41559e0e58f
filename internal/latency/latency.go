// Package latency simulates the round trip of a remote store.
package latency

import (
	"context"
	"math/rand/v2"
	"time"
)

// Simulator sleeps for a random duration in [Min, Max] before each store call.
// The zero value does not sleep.
type Simulator struct {
	Min time.Duration
	Max time.Duration
}

// None is a Simulator that never waits.
var None = Simulator{}

func New(min, max time.Duration) Simulator {
	if min < 0 {
		min = 0
	}
	if max < min {
		max = min
	}
	return Simulator{Min: min, Max: max}
}

// Wait blocks for the simulated latency or until ctx is done.
func (s Simulator) Wait(ctx context.Context) error {
	d := s.next()
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s Simulator) next() time.Duration {
	if s.Max <= s.Min {
		return s.Min
	}
	return s.Min + rand.N(s.Max-s.Min+1)
}
