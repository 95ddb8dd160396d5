// Package feed wraps external HTTP feeds as data sources: each source owns
// its fetch lifecycle, last good value, and most recent failure, and
// publishes a snapshot event after every settled fetch.
package feed

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"railmap/internal/event"
	"railmap/internal/transport"
)

// State classifies a source with respect to its most recent fetch. The three
// values are deliberately distinct: callers can tell "never fetched" from
// "last fetch failed" from "has data".
type State int

const (
	StateNeverFetched State = iota
	StateFailed
	StateReady
)

func (s State) String() string {
	switch s {
	case StateFailed:
		return "failed"
	case StateReady:
		return "ready"
	default:
		return "never-fetched"
	}
}

// BusyPolicy controls what Fetch does while a fetch is already in flight.
type BusyPolicy string

const (
	// BusyDrop ignores the call.
	BusyDrop BusyPolicy = "drop"
	// BusyQueue coalesces calls into at most one follow-up fetch that runs
	// after the in-flight one settles.
	BusyQueue BusyPolicy = "queue"
)

// DecodeFunc normalizes a response envelope into the source's cached value.
type DecodeFunc func(*transport.Response) (any, error)

// Config describes one data source.
type Config struct {
	URL       string
	Interpret transport.Interpretation
	AutoStart bool       // issue one fetch at registration
	OnBusy    BusyPolicy // defaults to BusyDrop
	Decode    DecodeFunc // defaults to the envelope's interpreted body
}

// Snapshot is a point-in-time read of a source. Value holds the last
// successfully decoded body and survives later failures; Err holds the most
// recent failure and is cleared by the next success.
type Snapshot struct {
	Name      string
	State     State
	Value     any
	Err       error
	FetchedAt time.Time
}

// Source is one polled or one-shot external feed. Its cached state is
// mutated only by its own fetch completion path.
type Source struct {
	name   string
	cfg    Config
	client *transport.Client
	bus    *event.Bus
	logger *slog.Logger

	mu        sync.Mutex
	busy      bool
	pending   bool
	state     State
	value     any
	err       error
	fetchedAt time.Time
}

func newSource(name string, cfg Config, client *transport.Client, bus *event.Bus, logger *slog.Logger) *Source {
	if cfg.OnBusy == "" {
		cfg.OnBusy = BusyDrop
	}
	return &Source{
		name:   name,
		cfg:    cfg,
		client: client,
		bus:    bus,
		logger: logger,
	}
}

// Name returns the registry name of this source.
func (s *Source) Name() string { return s.name }

// Topic returns the bus topic this source publishes snapshots on.
func (s *Source) Topic() string { return "source:" + s.name }

// Snapshot returns the source's current readable state.
func (s *Source) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Source) snapshotLocked() Snapshot {
	return Snapshot{
		Name:      s.name,
		State:     s.state,
		Value:     s.value,
		Err:       s.err,
		FetchedAt: s.fetchedAt,
	}
}

// Fetch issues one fetch in the background and returns immediately. It never
// reports an error: failures are recorded on the source and published on its
// topic. While a fetch is in flight, further calls are dropped or queued per
// the source's busy policy.
func (s *Source) Fetch(ctx context.Context) {
	s.mu.Lock()
	if s.busy {
		if s.cfg.OnBusy == BusyQueue {
			s.pending = true
		}
		s.mu.Unlock()
		return
	}
	s.busy = true
	s.mu.Unlock()

	go s.run(ctx)
}

func (s *Source) run(ctx context.Context) {
	for {
		value, err := s.fetchOnce(ctx)
		snap := s.settle(value, err)
		if err != nil {
			s.logger.Warn("feed fetch failed", "source", s.name, "error", err)
		}
		s.bus.Emit(s.Topic(), snap)

		s.mu.Lock()
		// A new Fetch may have claimed the source between settling and
		// here; if so, it owns the follow-up.
		rerun := s.pending && !s.busy && ctx.Err() == nil
		s.pending = false
		if !rerun {
			s.mu.Unlock()
			return
		}
		s.busy = true
		s.mu.Unlock()
	}
}

func (s *Source) fetchOnce(ctx context.Context) (any, error) {
	resp, err := s.client.Fetch(ctx, transport.Request{
		URL:       s.cfg.URL,
		Interpret: s.cfg.Interpret,
	})
	if err != nil {
		return nil, err
	}
	if s.cfg.Decode != nil {
		return s.cfg.Decode(resp)
	}
	return resp.Parsed, nil
}

// Store records a successful value pushed from outside the transport path,
// for sources backed by push-based collaborators (the user-position stream).
// It emits a snapshot event like a settled fetch would.
func (s *Source) Store(value any) {
	s.bus.Emit(s.Topic(), s.settle(value, nil))
}

// Fail records a failure pushed from outside the transport path and emits a
// snapshot event. The last good value is retained.
func (s *Source) Fail(err error) {
	snap := s.settle(nil, err)
	s.logger.Warn("feed reported failure", "source", s.name, "error", err)
	s.bus.Emit(s.Topic(), snap)
}

// settle applies one fetch outcome. A failure keeps the previous value so
// consumers can degrade to the last known data; a success clears the
// previous failure.
func (s *Source) settle(value any, err error) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if err != nil {
		s.state = StateFailed
		s.err = err
	} else {
		s.state = StateReady
		s.value = value
		s.err = nil
		s.fetchedAt = time.Now()
	}
	return s.snapshotLocked()
}
