package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"railmap/internal/config"
	"railmap/internal/correlate"
	"railmap/internal/event"
	"railmap/internal/feed"
	"railmap/internal/geo"
	"railmap/internal/geoloc"
	"railmap/internal/schedule"
	"railmap/internal/track"
	"railmap/internal/transport"
	"railmap/internal/vehicle"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (default $RAILMAP_CONFIG)")
	logLevel := flag.String("log-level", "", "Override log level (debug|info|warn|error)")
	vehicleInterval := flag.Int("vehicle-interval", 0, "Override vehicle poll interval in seconds")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *vehicleInterval > 0 {
		cfg.VehicleIntervalSec = *vehicleInterval
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := event.NewBus()
	client := transport.NewClient(cfg.HTTPTimeout(), logger)
	reg := feed.NewRegistry(client, bus, logger)

	// Static feeds fetch once at registration; the scheduler never polls
	// them again.
	_, err = reg.Add(ctx, "track", feed.Config{
		URL:       cfg.TrackURL,
		Interpret: transport.InterpretXML,
		AutoStart: true,
		Decode: func(resp *transport.Response) (any, error) {
			return track.Segments(resp.Raw)
		},
	})
	if err != nil {
		logger.Error("register track source", "error", err)
		os.Exit(1)
	}
	_, err = reg.Add(ctx, "stations", feed.Config{
		URL:       cfg.StationsURL,
		Interpret: transport.InterpretXML,
		AutoStart: true,
		Decode: func(resp *transport.Response) (any, error) {
			return track.Stations(resp.Raw)
		},
	})
	if err != nil {
		logger.Error("register stations source", "error", err)
		os.Exit(1)
	}

	format := vehicle.Format(cfg.VehicleFormat)
	vehicles, err := reg.Add(ctx, "vehicles", feed.Config{
		URL:    cfg.VehiclesURL,
		OnBusy: feed.BusyPolicy(cfg.OnBusy),
		Decode: func(resp *transport.Response) (any, error) {
			return vehicle.Decode(format, resp.Raw)
		},
	})
	if err != nil {
		logger.Error("register vehicles source", "error", err)
		os.Exit(1)
	}

	// The user position is push-based: the scheduler stores provider
	// updates on this source instead of fetching.
	position, err := reg.Add(ctx, "position", feed.Config{})
	if err != nil {
		logger.Error("register position source", "error", err)
		os.Exit(1)
	}

	stationsFn := func() ([]track.Station, error) {
		snap, err := reg.Get("stations")
		if err != nil {
			return nil, err
		}
		stations, _ := snap.Value.([]track.Station)
		return stations, nil
	}

	// The map collaborator subscribes where these log handlers do.
	bus.On(schedule.TopicNearest, func(args ...any) {
		res := args[0].(correlate.Result)
		logger.Info("nearest station",
			"station", res.Station.Name,
			"miles", fmt.Sprintf("%.2f", geo.MetersToMiles(res.DistanceMeters)),
			"center_lat", res.Window.Center.Lat,
			"center_lon", res.Window.Center.Lon,
		)
	})
	bus.On(vehicles.Topic(), func(args ...any) {
		snap := args[0].(feed.Snapshot)
		if snap.State != feed.StateReady {
			return
		}
		if vs, ok := snap.Value.([]vehicle.Vehicle); ok {
			logger.Info("vehicle positions updated", "count", len(vs))
		}
	})

	sched := schedule.New(vehicles, position, stationsFn, buildProvider(cfg), bus,
		cfg.VehicleInterval(), logger)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutting down")
		cancel()
	}()

	logger.Info("railmap started", "sources", reg.Names(), "vehicle_interval", cfg.VehicleInterval())
	if err := sched.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}
}

func buildProvider(cfg *config.Config) geoloc.Provider {
	if cfg.PositionFile != "" {
		return &geoloc.FileProvider{
			Path:     cfg.PositionFile,
			Interval: cfg.PositionInterval(),
		}
	}
	return geoloc.Fixed{Pos: geo.Point{Lat: cfg.FixedLat, Lon: cfg.FixedLon}}
}
