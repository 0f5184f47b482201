// Package geodesy implements the ECEF<->LLH conversions, local ENU
// frame, line-of-sight/azimuth-elevation, and Sagnac-corrected range
// primitives that spec.md §1 treats as "assumed available as pure
// functions" from an external collaborator. Since the retrieved pack
// contains no standalone geodesy library, this is grounded directly on
// the teacher's src/common.go (Ecef2Pos, Pos2Ecef, XYZ2Enu, Ecef2Enu,
// GeoDist, SatAzel), generalized from flat []float64 triples to a
// small ECEF/LLH value-type API.
package geodesy

import (
	"math"

	"gpssim/internal/constants"
)

// ECEF is an Earth-Centered Earth-Fixed Cartesian position or vector,
// in meters.
type ECEF struct {
	X, Y, Z float64
}

// LLH is a geodetic position: latitude and longitude in radians,
// height in meters above the WGS-84 ellipsoid.
type LLH struct {
	Lat, Lon, H float64
}

// Sub returns a-b.
func (a ECEF) Sub(b ECEF) ECEF { return ECEF{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }

// Norm returns the Euclidean length.
func (a ECEF) Norm() float64 { return math.Sqrt(a.X*a.X + a.Y*a.Y + a.Z*a.Z) }

// Scale returns a scaled by k.
func (a ECEF) Scale(k float64) ECEF { return ECEF{a.X * k, a.Y * k, a.Z * k} }

// Dot returns the dot product of a and b.
func (a ECEF) Dot(b ECEF) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

// ToLLH converts ECEF to geodetic LLH, iterating the WGS-84 ellipsoid
// height correction exactly as Ecef2Pos does.
func (r ECEF) ToLLH() LLH {
	e2 := constants.FEWGS84 * (2.0 - constants.FEWGS84)
	r2 := r.X*r.X + r.Y*r.Y

	var z, zk, sinp float64
	v := constants.REWGS84
	z = r.Z
	for math.Abs(z-zk) >= 1e-4 {
		zk = z
		sinp = z / math.Sqrt(r2+z*z)
		v = constants.REWGS84 / math.Sqrt(1.0-e2*sinp*sinp)
		z = r.Z + v*e2*sinp
	}

	var pos LLH
	switch {
	case r2 > 1e-12:
		pos.Lat = math.Atan(z / math.Sqrt(r2))
		pos.Lon = math.Atan2(r.Y, r.X)
	case r.Z > 0.0:
		pos.Lat = math.Pi / 2.0
	default:
		pos.Lat = -math.Pi / 2.0
	}
	pos.H = math.Sqrt(r2+z*z) - v
	return pos
}

// ToECEF converts geodetic LLH to ECEF.
func (pos LLH) ToECEF() ECEF {
	sinp, cosp := math.Sincos(pos.Lat)
	sinl, cosl := math.Sincos(pos.Lon)
	e2 := constants.FEWGS84 * (2.0 - constants.FEWGS84)
	v := constants.REWGS84 / math.Sqrt(1.0-e2*sinp*sinp)

	return ECEF{
		X: (v + pos.H) * cosp * cosl,
		Y: (v + pos.H) * cosp * sinl,
		Z: (v*(1.0-e2) + pos.H) * sinp,
	}
}

// enuBasis returns the ECEF->ENU rotation as its three row vectors,
// matching XYZ2Enu's column-major 3x3 laid out as row accessors.
func enuBasis(pos LLH) (e, n, u ECEF) {
	sinp, cosp := math.Sincos(pos.Lat)
	sinl, cosl := math.Sincos(pos.Lon)

	e = ECEF{-sinl, cosl, 0}
	n = ECEF{-sinp * cosl, -sinp * sinl, cosp}
	u = ECEF{cosp * cosl, cosp * sinl, sinp}
	return
}

// ToENU rotates an ECEF vector v into the local tangent frame at pos.
func ToENU(pos LLH, v ECEF) ECEF {
	e, n, u := enuBasis(pos)
	return ECEF{e.Dot(v), n.Dot(v), u.Dot(v)}
}

// GeoDist returns the Sagnac-corrected geometric range from satellite
// position rs (ECEF at transmission) to receiver position rr (ECEF at
// reception), and the unit line-of-sight vector from receiver to
// satellite.
func GeoDist(rs, rr ECEF) (rangeM float64, los ECEF) {
	diff := rs.Sub(rr)
	r := diff.Norm()
	if r == 0 {
		return 0, ECEF{}
	}
	los = diff.Scale(1.0 / r)
	sagnac := constants.OMGE * (rs.X*rr.Y - rs.Y*rr.X) / constants.CLIGHT
	return r + sagnac, los
}

// AzEl returns the azimuth (0..2pi, measured from north) and elevation
// (-pi/2..pi/2) of the receiver-to-satellite unit vector los, observed
// from geodetic position pos.
func AzEl(pos LLH, los ECEF) (az, el float64) {
	enu := ToENU(pos, los)
	if enu.X*enu.X+enu.Y*enu.Y < 1e-12 {
		az = 0.0
	} else {
		az = math.Atan2(enu.X, enu.Y)
	}
	if az < 0 {
		az += 2 * math.Pi
	}
	el = math.Asin(clamp(enu.Z, -1, 1))
	return
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
