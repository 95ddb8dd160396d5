// Package correlate computes the nearest station to a position and the
// map-centering window derived from it.
package correlate

import (
	"errors"

	"railmap/internal/geo"
	"railmap/internal/track"
)

// ErrInsufficientData is returned when there are no stations to correlate
// against — typically because the track-layout feed has not loaded yet.
var ErrInsufficientData = errors.New("correlate: no stations available")

// Window gives the map collaborator its centering inputs: the two raw
// points, their midpoint, and a box covering both. Margin and zoom math stay
// on the rendering side.
type Window struct {
	User    geo.Point
	Station geo.Point
	Center  geo.Point
	Bounds  geo.Bounds
}

// Result is the outcome of one nearest-station computation. It is always a
// function of the latest inputs, never cached across position updates.
type Result struct {
	Station        track.Station
	DistanceMeters float64
	Window         Window
}

// Nearest returns the station with minimal great-circle distance to pos.
// Ties go to the earliest station in the slice, so results are deterministic
// for a fixed station order. Linear in the number of stations, which is tens
// at most.
func Nearest(pos geo.Point, stations []track.Station) (Result, error) {
	if len(stations) == 0 {
		return Result{}, ErrInsufficientData
	}

	best := stations[0]
	bestDist := geo.Haversine(pos, best.Pos)
	for _, st := range stations[1:] {
		if d := geo.Haversine(pos, st.Pos); d < bestDist {
			best = st
			bestDist = d
		}
	}

	return Result{
		Station:        best,
		DistanceMeters: bestDist,
		Window: Window{
			User:    pos,
			Station: best.Pos,
			Center:  geo.Midpoint(pos, best.Pos),
			Bounds:  geo.NewBounds(pos).Extend(best.Pos),
		},
	}, nil
}
