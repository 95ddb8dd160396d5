// Package track decodes the fixed-schema track-layout XML feed into line
// geometry and station records.
package track

import (
	"encoding/xml"
	"fmt"

	"railmap/internal/geo"
)

// Station is one stop on the network. Immutable once decoded.
type Station struct {
	ID   string
	Name string
	Pos  geo.Point
}

// Layout is the decoded track-layout document: the polyline segments making
// up each line, and the stations in document order. Document order matters —
// nearest-station ties resolve to the earliest station.
type Layout struct {
	Segments [][]geo.Point
	Stations []Station
}

type xmlNetwork struct {
	XMLName  xml.Name     `xml:"network"`
	Lines    []xmlLine    `xml:"line"`
	Stations []xmlStation `xml:"station"`
}

type xmlLine struct {
	Name     string       `xml:"name,attr"`
	Segments []xmlSegment `xml:"segment"`
}

type xmlSegment struct {
	Points []xmlPoint `xml:"point"`
}

type xmlPoint struct {
	Lat float64 `xml:"lat,attr"`
	Lon float64 `xml:"lon,attr"`
}

type xmlStation struct {
	ID   string  `xml:"id,attr"`
	Name string  `xml:"name,attr"`
	Lat  float64 `xml:"lat,attr"`
	Lon  float64 `xml:"lon,attr"`
}

// DecodeLayout parses a track-layout document.
func DecodeLayout(raw []byte) (*Layout, error) {
	var doc xmlNetwork
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("track: decode layout: %w", err)
	}

	layout := &Layout{}
	for _, line := range doc.Lines {
		for _, seg := range line.Segments {
			points := make([]geo.Point, 0, len(seg.Points))
			for _, p := range seg.Points {
				points = append(points, geo.Point{Lat: p.Lat, Lon: p.Lon})
			}
			layout.Segments = append(layout.Segments, points)
		}
	}
	for _, st := range doc.Stations {
		if st.ID == "" {
			continue
		}
		layout.Stations = append(layout.Stations, Station{
			ID:   st.ID,
			Name: st.Name,
			Pos:  geo.Point{Lat: st.Lat, Lon: st.Lon},
		})
	}
	return layout, nil
}

// Stations decodes only the station records, in document order.
func Stations(raw []byte) ([]Station, error) {
	layout, err := DecodeLayout(raw)
	if err != nil {
		return nil, err
	}
	return layout.Stations, nil
}

// Segments decodes only the line geometry.
func Segments(raw []byte) ([][]geo.Point, error) {
	layout, err := DecodeLayout(raw)
	if err != nil {
		return nil, err
	}
	return layout.Segments, nil
}
