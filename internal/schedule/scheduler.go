// Package schedule drives periodic re-fetch and re-correlation. Two
// independent producers — a wall-clock ticker for vehicle positions and the
// geolocation provider's push stream — feed a single dispatcher through a
// message channel, so no ordering between their ticks is ever assumed.
package schedule

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"railmap/internal/correlate"
	"railmap/internal/event"
	"railmap/internal/feed"
	"railmap/internal/geoloc"
	"railmap/internal/track"
)

// TopicNearest is the bus topic carrying a correlate.Result after each
// user-position update.
const TopicNearest = "nearest"

// StationsFunc supplies the current station collection, usually backed by
// the stations data source's snapshot.
type StationsFunc func() ([]track.Station, error)

type msgKind int

const (
	msgVehicleTick msgKind = iota
	msgPosition
)

type message struct {
	kind     msgKind
	position geoloc.Update
}

// Scheduler owns the two update loops. A failure in either loop is recorded
// on its data source and published, and never halts the other loop.
type Scheduler struct {
	vehicles *feed.Source
	position *feed.Source
	stations StationsFunc
	provider geoloc.Provider
	bus      *event.Bus
	interval time.Duration
	logger   *slog.Logger
}

// New creates a scheduler polling the vehicles source every interval and
// correlating on every update from provider.
func New(vehicles, position *feed.Source, stations StationsFunc, provider geoloc.Provider, bus *event.Bus, interval time.Duration, logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Scheduler{
		vehicles: vehicles,
		position: position,
		stations: stations,
		provider: provider,
		bus:      bus,
		interval: interval,
		logger:   logger,
	}
}

// Run blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	msgs := make(chan message, 16)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.produceVehicleTicks(ctx, msgs)
		return nil
	})
	g.Go(func() error {
		s.producePositions(ctx, msgs)
		return nil
	})
	g.Go(func() error {
		s.dispatch(ctx, msgs)
		return nil
	})
	err := g.Wait()
	s.logger.Info("scheduler stopped")
	return err
}

// produceVehicleTicks fetches immediately, then on every interval tick.
func (s *Scheduler) produceVehicleTicks(ctx context.Context, msgs chan<- message) {
	send := func() bool {
		select {
		case msgs <- message{kind: msgVehicleTick}:
			return true
		case <-ctx.Done():
			return false
		}
	}

	if !send() {
		return
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if !send() {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) producePositions(ctx context.Context, msgs chan<- message) {
	for upd := range s.provider.Watch(ctx) {
		select {
		case msgs <- message{kind: msgPosition, position: upd}:
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) dispatch(ctx context.Context, msgs <-chan message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-msgs:
			switch msg.kind {
			case msgVehicleTick:
				s.vehicles.Fetch(ctx)
			case msgPosition:
				s.handlePosition(msg.position)
			}
		}
	}
}

func (s *Scheduler) handlePosition(upd geoloc.Update) {
	if upd.Err != nil {
		s.position.Fail(upd.Err)
		return
	}
	s.position.Store(upd)

	stations, err := s.stations()
	if err != nil {
		s.logger.Warn("stations unavailable, skipping correlation", "error", err)
		return
	}
	res, err := correlate.Nearest(upd.Pos, stations)
	if err != nil {
		// Station feed not loaded yet; the next position update retries.
		s.logger.Warn("correlation skipped", "error", err)
		return
	}
	s.logger.Debug("nearest station",
		"station", res.Station.ID, "meters", int(res.DistanceMeters))
	s.bus.Emit(TopicNearest, res)
}
