// Package geoloc defines the position-provider contract the scheduler
// consumes, plus the providers shipped with the binary. A provider is a
// push-based stream: it emits position updates (or failures) on its own
// cadence until the context is cancelled.
package geoloc

import (
	"context"
	"time"

	"railmap/internal/geo"
)

// Update is one position report from a provider. Err is non-nil for
// provider failures (permission denied, unreadable source); in that case the
// other fields are meaningless.
type Update struct {
	Pos      geo.Point
	Accuracy float64 // meters, 0 when unknown
	At       time.Time
	Err      error
}

// Provider is a continuous stream of position updates.
type Provider interface {
	// Watch starts the stream. The channel is closed when ctx is done.
	Watch(ctx context.Context) <-chan Update
}

// Fixed reports a single constant position, then stays quiet. Used when no
// real geolocation source is configured, and in tests.
type Fixed struct {
	Pos geo.Point
}

func (f Fixed) Watch(ctx context.Context) <-chan Update {
	out := make(chan Update, 1)
	go func() {
		defer close(out)
		select {
		case out <- Update{Pos: f.Pos, At: time.Now()}:
		case <-ctx.Done():
			return
		}
		<-ctx.Done()
	}()
	return out
}
