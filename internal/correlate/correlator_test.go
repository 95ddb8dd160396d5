package correlate

import (
	"errors"
	"math"
	"testing"

	"railmap/internal/geo"
	"railmap/internal/track"
)

func TestNearest_PicksClosestStation(t *testing.T) {
	stations := []track.Station{
		{ID: "A", Pos: geo.Point{Lat: 39.30, Lon: -76.61}},
		{ID: "B", Pos: geo.Point{Lat: 39.40, Lon: -76.50}},
	}
	user := geo.Point{Lat: 39.31, Lon: -76.60}

	res, err := Nearest(user, stations)
	if err != nil {
		t.Fatalf("Nearest() error = %v", err)
	}
	if res.Station.ID != "A" {
		t.Errorf("nearest = %q, want A", res.Station.ID)
	}
	if want := geo.Haversine(user, stations[0].Pos); res.DistanceMeters != want {
		t.Errorf("DistanceMeters = %f, want %f", res.DistanceMeters, want)
	}
}

func TestNearest_EmptyStationsIsInsufficientData(t *testing.T) {
	_, err := Nearest(geo.Point{Lat: 39.31, Lon: -76.60}, nil)
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("error = %v, want ErrInsufficientData", err)
	}
}

func TestNearest_TieGoesToFirstEncountered(t *testing.T) {
	// Two stations at the exact same position: the first in the slice wins.
	pos := geo.Point{Lat: 39.30, Lon: -76.61}
	stations := []track.Station{
		{ID: "first", Pos: pos},
		{ID: "second", Pos: pos},
	}

	res, err := Nearest(geo.Point{Lat: 39.31, Lon: -76.60}, stations)
	if err != nil {
		t.Fatalf("Nearest() error = %v", err)
	}
	if res.Station.ID != "first" {
		t.Errorf("tie broken to %q, want 'first'", res.Station.ID)
	}
}

func TestNearest_SingleStation(t *testing.T) {
	stations := []track.Station{
		{ID: "only", Pos: geo.Point{Lat: 39.28, Lon: -76.62}},
	}
	res, err := Nearest(geo.Point{Lat: 39.31, Lon: -76.60}, stations)
	if err != nil {
		t.Fatalf("Nearest() error = %v", err)
	}
	if res.Station.ID != "only" {
		t.Errorf("nearest = %q", res.Station.ID)
	}
}

func TestNearest_WindowGeometry(t *testing.T) {
	user := geo.Point{Lat: 39.31, Lon: -76.60}
	stations := []track.Station{
		{ID: "A", Pos: geo.Point{Lat: 39.30, Lon: -76.61}},
	}

	res, err := Nearest(user, stations)
	if err != nil {
		t.Fatalf("Nearest() error = %v", err)
	}

	w := res.Window
	if w.User != user {
		t.Errorf("Window.User = %+v, want %+v", w.User, user)
	}
	if w.Station != stations[0].Pos {
		t.Errorf("Window.Station = %+v, want %+v", w.Station, stations[0].Pos)
	}
	if !w.Bounds.Contains(user) || !w.Bounds.Contains(stations[0].Pos) {
		t.Errorf("Window.Bounds %+v must cover both points", w.Bounds)
	}
	// Center is the spherical midpoint: equidistant from both endpoints.
	du := geo.Haversine(user, w.Center)
	ds := geo.Haversine(stations[0].Pos, w.Center)
	if math.Abs(du-ds) > 0.5 {
		t.Errorf("Center not equidistant: %.2f m vs %.2f m", du, ds)
	}
}
