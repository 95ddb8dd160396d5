// Package vehicle decodes live vehicle-position feeds. Two wire formats are
// supported — a plain JSON list and GTFS-RT protobuf — both normalized to
// the same Vehicle model.
package vehicle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	gtfs "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"railmap/internal/geo"
)

// Vehicle is one currently-active vehicle with a known position.
type Vehicle struct {
	ID        string
	Label     string
	Pos       geo.Point
	Timestamp time.Time // zero when the feed carries none
}

// Format selects the wire format of a vehicle-position feed.
type Format string

const (
	FormatJSON   Format = "json"
	FormatGTFSRT Format = "gtfsrt"
)

// Decode parses raw feed bytes in the given format.
func Decode(format Format, raw []byte) ([]Vehicle, error) {
	switch format {
	case FormatGTFSRT:
		return DecodeGTFSRT(raw)
	case FormatJSON, "":
		return DecodeJSON(raw)
	default:
		return nil, fmt.Errorf("vehicle: unknown feed format %q", format)
	}
}

type jsonVehicle struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Timestamp int64   `json:"timestamp"` // unix seconds, optional
}

type jsonFeed struct {
	Vehicles []jsonVehicle `json:"vehicles"`
}

// DecodeJSON parses the JSON vehicle feed. Both a bare array and a
// {"vehicles": [...]} wrapper are accepted; entries without an id are
// skipped.
func DecodeJSON(raw []byte) ([]Vehicle, error) {
	var entries []jsonVehicle
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, fmt.Errorf("vehicle: decode json feed: %w", err)
		}
	} else {
		var feed jsonFeed
		if err := json.Unmarshal(trimmed, &feed); err != nil {
			return nil, fmt.Errorf("vehicle: decode json feed: %w", err)
		}
		entries = feed.Vehicles
	}

	vehicles := make([]Vehicle, 0, len(entries))
	for _, e := range entries {
		if e.ID == "" {
			continue
		}
		v := Vehicle{
			ID:    e.ID,
			Label: e.Label,
			Pos:   geo.Point{Lat: e.Lat, Lon: e.Lon},
		}
		if e.Timestamp > 0 {
			v.Timestamp = time.Unix(e.Timestamp, 0).UTC()
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, nil
}

// DecodeGTFSRT parses a GTFS-RT FeedMessage and extracts vehicle positions.
// Entities without a vehicle id or position are skipped.
func DecodeGTFSRT(raw []byte) ([]Vehicle, error) {
	feed := &gtfs.FeedMessage{}
	if err := proto.Unmarshal(raw, feed); err != nil {
		return nil, fmt.Errorf("vehicle: decode gtfs-rt feed: %w", err)
	}

	vehicles := make([]Vehicle, 0, len(feed.GetEntity()))
	for _, entity := range feed.GetEntity() {
		vp := entity.GetVehicle()
		if vp == nil {
			continue
		}
		id := vp.GetVehicle().GetId()
		pos := vp.GetPosition()
		if id == "" || pos == nil {
			continue
		}
		v := Vehicle{
			ID:    id,
			Label: vp.GetVehicle().GetLabel(),
			Pos: geo.Point{
				Lat: float64(pos.GetLatitude()),
				Lon: float64(pos.GetLongitude()),
			},
		}
		if ts := vp.GetTimestamp(); ts > 0 {
			v.Timestamp = time.Unix(int64(ts), 0).UTC()
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, nil
}
