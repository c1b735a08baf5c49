package geo

import "math"

// WGS84 ellipsoid constants, as used by Cesium's quantized-mesh tooling.
// See https://cesiumjs.org/2013/04/25/Horizon-culling/
const (
	RadiusX = 6378137.0
	RadiusY = 6378137.0
	RadiusZ = 6356752.3142451793

	wgs84A  = RadiusX
	wgs84B  = RadiusZ
	wgs84E2 = 0.00669437999019758
)

// LLHToECEF converts a geographic coordinate (longitude, latitude in
// degrees, height in meters above the ellipsoid) to earth-centered,
// earth-fixed Cartesian coordinates.
func LLHToECEF(lonDeg, latDeg, height float64) Vec3 {
	lat := latDeg * math.Pi / 180.0
	lon := lonDeg * math.Pi / 180.0

	sinLat := math.Sin(lat)
	n := wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)

	x := (n + height) * math.Cos(lat) * math.Cos(lon)
	y := (n + height) * math.Cos(lat) * math.Sin(lon)
	z := (n*(1-wgs84E2) + height) * sinLat

	return Vec3{x, y, z}
}

// ECEFToLLH is the inverse of LLHToECEF: it returns longitude, latitude
// (degrees) and height (meters).
func ECEFToLLH(p Vec3) (lonDeg, latDeg, height float64) {
	x, y, z := p[0], p[1], p[2]

	wgs84A2 := wgs84A * wgs84A
	wgs84B2 := wgs84B * wgs84B
	ep := math.Sqrt((wgs84A2 - wgs84B2) / wgs84B2)
	p2 := math.Sqrt(x*x + y*y)
	th := math.Atan2(wgs84A*z, wgs84B*p2)
	lon := math.Atan2(y, x)
	lat := math.Atan2(
		z+ep*ep*wgs84B*math.Pow(math.Sin(th), 3),
		p2-wgs84E2*wgs84A*math.Pow(math.Cos(th), 3),
	)
	n := wgs84A / math.Sqrt(1-wgs84E2*math.Sin(lat)*math.Sin(lat))
	alt := p2/math.Cos(lat) - n

	return lon * 180.0 / math.Pi, lat * 180.0 / math.Pi, alt
}
