package geo

import (
	"math"
	"testing"
)

func TestHaversine_KnownDistances(t *testing.T) {
	tests := []struct {
		name       string
		a, b       Point
		wantMeters float64
		tolerance  float64 // allowed error in meters
	}{
		{
			name:       "downtown Baltimore to Towson (~11 km)",
			a:          Point{Lat: 39.2904, Lon: -76.6122},
			b:          Point{Lat: 39.4015, Lon: -76.6019},
			wantMeters: 12_380,
			tolerance:  100,
		},
		{
			name:       "same point returns zero",
			a:          Point{Lat: 39.2904, Lon: -76.6122},
			b:          Point{Lat: 39.2904, Lon: -76.6122},
			wantMeters: 0,
			tolerance:  0.001,
		},
		{
			name:       "across a street (~110m)",
			a:          Point{Lat: 39.29040, Lon: -76.61220},
			b:          Point{Lat: 39.29040, Lon: -76.61090},
			wantMeters: 112,
			tolerance:  15,
		},
		{
			name:       "north pole to south pole",
			a:          Point{Lat: 90, Lon: 0},
			b:          Point{Lat: -90, Lon: 0},
			wantMeters: math.Pi * earthRadiusMeters,
			tolerance:  1,
		},
		{
			name:       "equator quarter circumference",
			a:          Point{Lat: 0, Lon: 0},
			b:          Point{Lat: 0, Lon: 90},
			wantMeters: math.Pi / 2 * earthRadiusMeters,
			tolerance:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Haversine(tt.a, tt.b)
			if math.Abs(got-tt.wantMeters) > tt.tolerance {
				t.Errorf("Haversine() = %.1f m, want %.1f m (±%.0f)", got, tt.wantMeters, tt.tolerance)
			}
		})
	}
}

func TestHaversine_Symmetry(t *testing.T) {
	p := Point{Lat: 39.2904, Lon: -76.6122}
	q := Point{Lat: 39.4015, Lon: -76.6019}
	a := Haversine(p, q)
	b := Haversine(q, p)
	if a != b {
		t.Errorf("Haversine not symmetric: %f != %f", a, b)
	}
}

func TestMidpoint(t *testing.T) {
	tests := []struct {
		name      string
		a, b      Point
		want      Point
		tolerance float64 // degrees
	}{
		{
			name:      "same point is its own midpoint",
			a:         Point{Lat: 39.3, Lon: -76.6},
			b:         Point{Lat: 39.3, Lon: -76.6},
			want:      Point{Lat: 39.3, Lon: -76.6},
			tolerance: 1e-9,
		},
		{
			name:      "equator east-west",
			a:         Point{Lat: 0, Lon: 0},
			b:         Point{Lat: 0, Lon: 10},
			want:      Point{Lat: 0, Lon: 5},
			tolerance: 1e-6,
		},
		{
			name:      "same meridian north-south",
			a:         Point{Lat: 39.0, Lon: -76.6},
			b:         Point{Lat: 39.4, Lon: -76.6},
			want:      Point{Lat: 39.2, Lon: -76.6},
			tolerance: 1e-4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Midpoint(tt.a, tt.b)
			if math.Abs(got.Lat-tt.want.Lat) > tt.tolerance || math.Abs(got.Lon-tt.want.Lon) > tt.tolerance {
				t.Errorf("Midpoint() = %+v, want %+v (±%g°)", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestMidpoint_EquidistantFromEndpoints(t *testing.T) {
	a := Point{Lat: 39.2904, Lon: -76.6122}
	b := Point{Lat: 39.3108, Lon: -76.6154}
	m := Midpoint(a, b)
	da := Haversine(a, m)
	db := Haversine(b, m)
	if math.Abs(da-db) > 0.5 {
		t.Errorf("midpoint not equidistant: %.2f m vs %.2f m", da, db)
	}
}

func TestBoundingBoxRadius(t *testing.T) {
	// At the equator, 1 degree lat ≈ 111km and 1 degree lon ≈ 111km
	latDeg, lonDeg := BoundingBoxRadius(0, 111_000)
	if math.Abs(latDeg-1.0) > 0.01 {
		t.Errorf("latDeg at equator for 111km = %f, want ~1.0", latDeg)
	}
	if math.Abs(lonDeg-1.0) > 0.01 {
		t.Errorf("lonDeg at equator for 111km = %f, want ~1.0", lonDeg)
	}

	// At 45° the longitude offset stretches by 1/cos(45°)
	latDeg45, lonDeg45 := BoundingBoxRadius(45, 1000)
	if lonDeg45 <= latDeg45 {
		t.Errorf("at lat 45°, lonDeg (%f) should be > latDeg (%f)", lonDeg45, latDeg45)
	}
	ratio := lonDeg45 / latDeg45
	if math.Abs(ratio-math.Sqrt(2)) > 0.01 {
		t.Errorf("lonDeg/latDeg ratio at 45° = %f, want ~1.414", ratio)
	}
}

func TestMetersToMiles(t *testing.T) {
	tests := []struct {
		meters float64
		want   float64
	}{
		{0, 0},
		{1609.344, 1.0},
		{3218.688, 2.0},
	}
	for _, tt := range tests {
		got := MetersToMiles(tt.meters)
		if math.Abs(got-tt.want) > 0.0001 {
			t.Errorf("MetersToMiles(%f) = %f, want %f", tt.meters, got, tt.want)
		}
	}
}
