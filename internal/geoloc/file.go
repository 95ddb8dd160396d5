package geoloc

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"railmap/internal/geo"
)

// FileProvider polls a small text file for the current position: latitude on
// the first line, longitude on the second, optional accuracy in meters on
// the third. An update is emitted only when the values change. Read or parse
// failures are reported once per failure streak, not on every poll.
type FileProvider struct {
	Path     string
	Interval time.Duration
}

func (p *FileProvider) Watch(ctx context.Context) <-chan Update {
	interval := p.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}

	out := make(chan Update)
	go func() {
		defer close(out)

		var (
			last     Update
			haveLast bool
			inError  bool
		)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			upd, err := p.read()
			switch {
			case err != nil:
				if !inError {
					inError = true
					select {
					case out <- Update{Err: err, At: time.Now()}:
					case <-ctx.Done():
						return
					}
				}
			case !haveLast || upd.Pos != last.Pos || upd.Accuracy != last.Accuracy:
				last = upd
				haveLast = true
				inError = false
				select {
				case out <- upd:
				case <-ctx.Done():
					return
				}
			default:
				inError = false
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return out
}

func (p *FileProvider) read() (Update, error) {
	f, err := os.Open(p.Path)
	if err != nil {
		return Update{}, fmt.Errorf("geoloc: open %s: %w", p.Path, err)
	}
	defer f.Close()

	var values []float64
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return Update{}, fmt.Errorf("geoloc: parse %s: %w", p.Path, err)
		}
		values = append(values, v)
	}
	if err := scanner.Err(); err != nil {
		return Update{}, fmt.Errorf("geoloc: read %s: %w", p.Path, err)
	}
	if len(values) < 2 {
		return Update{}, fmt.Errorf("geoloc: %s: need lat and lon lines, got %d values", p.Path, len(values))
	}

	upd := Update{
		Pos: geo.Point{Lat: values[0], Lon: values[1]},
		At:  time.Now(),
	}
	if len(values) >= 3 {
		upd.Accuracy = values[2]
	}
	return upd, nil
}
