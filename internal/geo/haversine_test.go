// Skytally - Flight Data Ingestion and Enrichment API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skytally

package geo

import (
	"math"
	"testing"
)

func TestHaversineKm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
		tolerance              float64
	}{
		{"same point", 0, 0, 0, 0, 0, 1e-9},
		{"quarter equator", 0, 0, 0, 90, 10007.543, 0.1},
		{"antipodal on equator", 0, 0, 0, 180, math.Pi * EarthRadiusKm, 0.1},
		{"antipodal poles", 90, 0, -90, 0, 20015.1, 0.1},
		{"YVR to LHR", 49.1967, -123.1815, 51.4700, -0.4543, 7578.59, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := HaversineKm(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("HaversineKm() = %.4f, want %.4f (±%.4f)", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestHaversineKm_Symmetric(t *testing.T) {
	t.Parallel()

	pairs := [][4]float64{
		{10, 20, -30, 40},
		{-33.9399, 151.1753, 35.7720, 140.3929},
		{0.5, -179.5, -0.5, 179.5},
	}

	for _, p := range pairs {
		ab := HaversineKm(p[0], p[1], p[2], p[3])
		ba := HaversineKm(p[2], p[3], p[0], p[1])
		if ab != ba {
			t.Errorf("distance not symmetric: %v vs %v for %v", ab, ba, p)
		}
	}
}
