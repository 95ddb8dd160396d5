package track

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"railmap/internal/geo"
)

const sampleLayout = `<?xml version="1.0" encoding="UTF-8"?>
<network>
  <line name="Light Rail">
    <segment>
      <point lat="39.3088" lon="-76.6155"/>
      <point lat="39.3074" lon="-76.6162"/>
      <point lat="39.3057" lon="-76.6170"/>
    </segment>
    <segment>
      <point lat="39.3057" lon="-76.6170"/>
      <point lat="39.2839" lon="-76.6208"/>
    </segment>
  </line>
  <station id="cultural-center" name="Cultural Center" lat="39.3074" lon="-76.6162"/>
  <station id="centre-street" name="Centre Street" lat="39.2967" lon="-76.6155"/>
  <station id="camden-yards" name="Camden Yards" lat="39.2839" lon="-76.6208"/>
</network>`

func TestDecodeLayout(t *testing.T) {
	layout, err := DecodeLayout([]byte(sampleLayout))
	if err != nil {
		t.Fatalf("DecodeLayout() error = %v", err)
	}

	wantSegments := [][]geo.Point{
		{
			{Lat: 39.3088, Lon: -76.6155},
			{Lat: 39.3074, Lon: -76.6162},
			{Lat: 39.3057, Lon: -76.6170},
		},
		{
			{Lat: 39.3057, Lon: -76.6170},
			{Lat: 39.2839, Lon: -76.6208},
		},
	}
	if diff := cmp.Diff(wantSegments, layout.Segments); diff != "" {
		t.Errorf("segments mismatch (-want +got):\n%s", diff)
	}

	wantStations := []Station{
		{ID: "cultural-center", Name: "Cultural Center", Pos: geo.Point{Lat: 39.3074, Lon: -76.6162}},
		{ID: "centre-street", Name: "Centre Street", Pos: geo.Point{Lat: 39.2967, Lon: -76.6155}},
		{ID: "camden-yards", Name: "Camden Yards", Pos: geo.Point{Lat: 39.2839, Lon: -76.6208}},
	}
	if diff := cmp.Diff(wantStations, layout.Stations); diff != "" {
		t.Errorf("stations mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeLayout_StationOrderPreserved(t *testing.T) {
	stations, err := Stations([]byte(sampleLayout))
	if err != nil {
		t.Fatalf("Stations() error = %v", err)
	}
	ids := make([]string, len(stations))
	for i, s := range stations {
		ids[i] = s.ID
	}
	want := []string{"cultural-center", "centre-street", "camden-yards"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("station order mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeLayout_SkipsStationsWithoutID(t *testing.T) {
	doc := `<network>
  <station name="Anonymous" lat="39.30" lon="-76.61"/>
  <station id="real" name="Real" lat="39.31" lon="-76.62"/>
</network>`
	stations, err := Stations([]byte(doc))
	if err != nil {
		t.Fatalf("Stations() error = %v", err)
	}
	if len(stations) != 1 || stations[0].ID != "real" {
		t.Errorf("stations = %+v, want only 'real'", stations)
	}
}

func TestDecodeLayout_MalformedXML(t *testing.T) {
	if _, err := DecodeLayout([]byte("<network><line>")); err == nil {
		t.Error("DecodeLayout() should fail on truncated XML")
	}
}

func TestSegments(t *testing.T) {
	segments, err := Segments([]byte(sampleLayout))
	if err != nil {
		t.Fatalf("Segments() error = %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(segments))
	}
	if len(segments[0]) != 3 || len(segments[1]) != 2 {
		t.Errorf("segment lengths = %d, %d; want 3, 2", len(segments[0]), len(segments[1]))
	}
}
