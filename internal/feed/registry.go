package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"railmap/internal/event"
	"railmap/internal/transport"
)

// ErrDuplicateSource is returned by Add when the name is already taken.
// Registration happens once at startup, so a duplicate is a wiring bug, not
// something to paper over by replacing the existing source.
var ErrDuplicateSource = errors.New("feed: source name already registered")

// NotFoundError reports a lookup of an unregistered source name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("feed: no source named %q", e.Name)
}

// Registry is the named, append-only collection of data sources. All
// registration happens during startup; lookups are safe from any goroutine.
type Registry struct {
	client *transport.Client
	bus    *event.Bus
	logger *slog.Logger

	mu      sync.RWMutex
	sources map[string]*Source
	names   []string
}

// NewRegistry creates an empty registry whose sources fetch through client
// and publish on bus.
func NewRegistry(client *transport.Client, bus *event.Bus, logger *slog.Logger) *Registry {
	return &Registry{
		client:  client,
		bus:     bus,
		logger:  logger,
		sources: make(map[string]*Source),
	}
}

// Add constructs and stores a source under name, issuing its auto-start
// fetch when configured. Names are unique; reuse fails with
// ErrDuplicateSource.
func (r *Registry) Add(ctx context.Context, name string, cfg Config) (*Source, error) {
	r.mu.Lock()
	if _, exists := r.sources[name]; exists {
		r.mu.Unlock()
		return nil, fmt.Errorf("add %q: %w", name, ErrDuplicateSource)
	}
	src := newSource(name, cfg, r.client, r.bus, r.logger)
	r.sources[name] = src
	r.names = append(r.names, name)
	r.mu.Unlock()

	if cfg.AutoStart {
		src.Fetch(ctx)
	}
	return src, nil
}

// Get returns the named source's current snapshot, or a *NotFoundError.
func (r *Registry) Get(name string) (Snapshot, error) {
	src, err := r.Source(name)
	if err != nil {
		return Snapshot{}, err
	}
	return src.Snapshot(), nil
}

// Source returns the named source itself, for wiring.
func (r *Registry) Source(name string) (*Source, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	src, ok := r.sources[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	return src, nil
}

// Names returns the registered source names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}
