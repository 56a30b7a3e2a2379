// Package geomath implements the spherical geometry primitives the stack
// pipeline needs: great-circle distance, initial bearing, the pole of the
// great-circle plane through two points, and the signed distance of a third
// point from that plane. All angles are degrees in and out; trigonometry is
// done in radians internally.
package geomath

import (
	"math"

	"github.com/golang/geo/r3"
)

// coincidentTol is the longitude/latitude tolerance below which two points
// are treated as the same station.
const coincidentTol = 1.0e-4

// Haversine returns the great-circle central angle in degrees between
// (lon1,lat1) and (lon2,lat2), in [0,180]. Symmetric; Haversine(p,p) == 0.
func Haversine(lon1, lat1, lon2, lat2 float64) float64 {
	r1, r2 := radians(lat1), radians(lat2)
	dlon := radians(lon2 - lon1)
	dlat := radians(lat2 - lat1)
	s1 := math.Sin(dlat * 0.5)
	s2 := math.Sin(dlon * 0.5)
	a := s1*s1 + math.Cos(r1)*math.Cos(r2)*s2*s2
	return degrees(2.0 * math.Asin(math.Sqrt(a)))
}

// Azimuth returns the initial bearing in degrees, in [0,360), from
// (lonSrc,latSrc) to (lonDst,latDst). Discontinuous at the poles; callers
// must not rely on its value there.
func Azimuth(lonSrc, latSrc, lonDst, latDst float64) float64 {
	phi1, phi2 := radians(latSrc), radians(latDst)
	dlambda := radians(lonDst - lonSrc)
	a := math.Atan2(
		math.Cos(phi2)*math.Sin(dlambda),
		math.Cos(phi1)*math.Sin(phi2)-math.Sin(phi1)*math.Cos(phi2)*math.Cos(dlambda),
	)
	deg := math.Mod(degrees(a), 360.0)
	if deg < 0 {
		deg += 360.0
	}
	return deg
}

// Point is a (longitude, latitude) pair in degrees.
type Point struct {
	Lon, Lat float64
}

// Antipode returns the point diametrically opposite p.
func Antipode(p Point) Point {
	lon := math.Mod(p.Lon+180.0, 360.0)
	if lon < 0 {
		lon += 360.0
	}
	return Point{Lon: lon, Lat: -p.Lat}
}

func unitVector(lon, lat float64) r3.Vector {
	lam, phi := radians(lon), radians(lat)
	return r3.Vector{
		X: math.Cos(phi) * math.Cos(lam),
		Y: math.Cos(phi) * math.Sin(lam),
		Z: math.Sin(phi),
	}
}

func vectorToPoint(v r3.Vector) Point {
	lon := math.Mod(degrees(math.Atan2(v.Y, v.X)), 360.0)
	if lon < 0 {
		lon += 360.0
	}
	lat := degrees(math.Atan2(v.Z, math.Sqrt(v.X*v.X+v.Y*v.Y)))
	return Point{Lon: lon, Lat: lat}
}

// coincident reports whether the two points match within coincidentTol
// degrees in both longitude and latitude.
func coincident(lon1, lat1, lon2, lat2 float64) bool {
	return math.Abs(lon1-lon2) < coincidentTol && math.Abs(lat1-lat2) < coincidentTol
}

// GCPCenter returns the two antipodal poles of the great-circle plane
// through (lon1,lat1) and (lon2,lat2). The first returned pole always has
// non-negative latitude; the second is its antipode. If the two input
// points coincide within tolerance the cross product is degenerate and the
// result is undefined — callers must use GCPCenterTriple with a third,
// non-coincident point instead.
func GCPCenter(lon1, lat1, lon2, lat2 float64) (Point, Point) {
	p1 := unitVector(lon1, lat1)
	p2 := unitVector(lon2, lat2)
	return centerFromNormal(p1.Cross(p2))
}

// GCPCenterTriple behaves like GCPCenter, but substitutes a third point
// (ptLon,ptLat) for the second point whenever the first two points coincide
// within tolerance — the case spec.md's pair accumulator hits when the two
// stations of a pair are the same station (it then uses the event location
// as the third point).
func GCPCenterTriple(lon1, lat1, lon2, lat2, ptLon, ptLat float64) (Point, Point) {
	return GCPCenterTripleTol(lon1, lat1, lon2, lat2, ptLon, ptLat, coincidentTol)
}

// GCPCenterTripleTol is GCPCenterTriple with an explicit coincidence
// tolerance (degrees), for call sites that compare stations with a coarser
// threshold than the package default.
func GCPCenterTripleTol(lon1, lat1, lon2, lat2, ptLon, ptLat, tol float64) (Point, Point) {
	p1 := unitVector(lon1, lat1)
	var p2 r3.Vector
	if math.Abs(lon1-lon2) < tol && math.Abs(lat1-lat2) < tol {
		p2 = unitVector(ptLon, ptLat)
	} else {
		p2 = unitVector(lon2, lat2)
	}
	return centerFromNormal(p1.Cross(p2))
}

func centerFromNormal(normal r3.Vector) (Point, Point) {
	p := vectorToPoint(normal)
	anti := Antipode(p)
	if p.Lat > 0.0 {
		return p, anti
	}
	return anti, p
}

// PointToGCP returns the signed angular distance, in degrees and in
// [-90,90], from (lon,lat) to the great-circle plane defined by
// (lon1,lat1) and (lon2,lat2). Returns 0 if the two defining points
// coincide within tolerance. Antisymmetric in the defining pair:
// PointToGCP(p,A,B) == -PointToGCP(p,B,A).
func PointToGCP(lon, lat, lon1, lat1, lon2, lat2 float64) float64 {
	if coincident(lon1, lat1, lon2, lat2) {
		return 0.0
	}
	d13 := radians(Haversine(lon1, lat1, lon, lat))
	a13 := radians(Azimuth(lon1, lat1, lon, lat))
	a12 := radians(Azimuth(lon1, lat1, lon2, lat2))
	return degrees(math.Asin(math.Sin(d13) * math.Sin(a13-a12)))
}

func radians(deg float64) float64 { return deg * math.Pi / 180.0 }
func degrees(rad float64) float64 { return rad * 180.0 / math.Pi }
