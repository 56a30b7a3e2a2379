package geomath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestHaversineScenarios(t *testing.T) {
	assert.InDelta(t, 90.0, Haversine(0, 0, 0, 90), 1e-9)
	assert.InDelta(t, 0.0, Haversine(12.5, -4.0, 12.5, -4.0), 1e-9)
}

func TestAzimuthScenarios(t *testing.T) {
	assert.InDelta(t, 0.0, Azimuth(0, 0, 0, 90), 1e-9)
	assert.InDelta(t, 90.0, Azimuth(0, 0, 90, 0), 1e-9)
}

func TestPointToGCPScenario(t *testing.T) {
	d := PointToGCP(0, 1, 0, 0, 90, 0)
	assert.InDelta(t, 1.0, d, 1e-6)
}

func TestPointToGCPCoincidentIsZero(t *testing.T) {
	require.Equal(t, 0.0, PointToGCP(10, 20, 5, 5, 5.000001, 5.000001))
}

// TestHaversineSymmetric checks invariant 7's sibling property: Haversine is
// symmetric in its two points, for arbitrary coordinates.
func TestHaversineSymmetric(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		lon1 := rapid.Float64Range(-180, 180).Draw(rt, "lon1")
		lat1 := rapid.Float64Range(-89, 89).Draw(rt, "lat1")
		lon2 := rapid.Float64Range(-180, 180).Draw(rt, "lon2")
		lat2 := rapid.Float64Range(-89, 89).Draw(rt, "lat2")

		fwd := Haversine(lon1, lat1, lon2, lat2)
		rev := Haversine(lon2, lat2, lon1, lat1)
		if math.Abs(fwd-rev) > 1e-9 {
			rt.Fatalf("haversine not symmetric: %v vs %v", fwd, rev)
		}
	})
}

// TestPointToGCPAntisymmetric checks invariant 7: point_to_gcp(p,A,B) ==
// -point_to_gcp(p,B,A) for non-coincident A,B.
func TestPointToGCPAntisymmetric(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		lon := rapid.Float64Range(-180, 180).Draw(rt, "lon")
		lat := rapid.Float64Range(-80, 80).Draw(rt, "lat")
		lon1 := rapid.Float64Range(-180, 180).Draw(rt, "lon1")
		lat1 := rapid.Float64Range(-80, 80).Draw(rt, "lat1")
		lon2 := rapid.Float64Range(-180, 180).Draw(rt, "lon2")
		lat2 := rapid.Float64Range(-80, 80).Draw(rt, "lat2")

		if math.Abs(lon1-lon2) < 1e-2 && math.Abs(lat1-lat2) < 1e-2 {
			return // too close to the coincident special case to be meaningful
		}

		fwd := PointToGCP(lon, lat, lon1, lat1, lon2, lat2)
		rev := PointToGCP(lon, lat, lon2, lat2, lon1, lat1)
		if math.Abs(fwd+rev) > 1e-6 {
			rt.Fatalf("point_to_gcp not antisymmetric: %v vs %v", fwd, rev)
		}
	})
}

func TestGCPCenterPoleHasPositiveLatitude(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		lon1 := rapid.Float64Range(-180, 180).Draw(rt, "lon1")
		lat1 := rapid.Float64Range(-80, 80).Draw(rt, "lat1")
		lon2 := rapid.Float64Range(-180, 180).Draw(rt, "lon2")
		lat2 := rapid.Float64Range(-80, 80).Draw(rt, "lat2")
		if math.Abs(lon1-lon2) < 1e-2 && math.Abs(lat1-lat2) < 1e-2 {
			return
		}

		p, anti := GCPCenter(lon1, lat1, lon2, lat2)
		if p.Lat < 0 {
			rt.Fatalf("expected non-negative pole latitude, got %v", p.Lat)
		}
		if math.Abs(p.Lat+anti.Lat) > 1e-6 {
			rt.Fatalf("poles not antipodal in latitude: %v vs %v", p.Lat, anti.Lat)
		}
	})
}
