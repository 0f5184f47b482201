// Package ephemeris implements spec.md §4.1 (sv_position, compute_range,
// ionospheric_delay, tropospheric_delay) and the Ephemeris/IonoUtc/
// EphemerisTable data model of §3, grounded on the teacher's
// src/ephemeris.go (Eph2Pos, Eph2Clk) and src/types.go (Eph, the
// Ion_gps/Utc_gps fields of Nav), specialized to GPS L1 C/A only
// (the teacher's GAL/CMP/GLONASS branches in Eph2Pos are dropped per
// spec.md's non-goal of multi-constellation support).
package ephemeris

import (
	"gpssim/internal/constants"
	"gpssim/internal/gtime"
)

// Ephemeris holds one GPS broadcast ephemeris set for a single
// satellite, per spec.md §3.
type Ephemeris struct {
	Valid bool // vflg: whether this slot holds broadcast data

	PRN  int
	IODC int
	IODE int

	TOC gtime.GpsTime // clock reference time
	TOE gtime.GpsTime // ephemeris reference time

	// Keplerian elements
	SqrtA float64 // sqrt(semi-major axis) (sqrt(m))
	E     float64 // eccentricity
	I0    float64 // inclination at reference time (rad)
	OMG0  float64 // longitude of ascending node at weekly epoch (rad)
	Omega float64 // argument of perigee (rad)
	M0    float64 // mean anomaly at reference time (rad)

	// Rate corrections
	DeltaN float64 // mean motion difference (rad/s)
	OMGDot float64 // rate of right ascension (rad/s)
	IDot   float64 // rate of inclination (rad/s)

	// Harmonic corrections
	Cuc, Cus float64
	Crc, Crs float64
	Cic, Cis float64

	// Clock polynomial
	F0, F1, F2 float64
	Tgd        float64 // group delay (s)

	CodeOnL2    int
	L2PDataFlag bool
	FitInterval bool
	URA         int // SV accuracy index
	Week        int // subframe-1 week number
	Health      int // SV health
}

// A returns the semi-major axis.
func (e *Ephemeris) A() float64 { return e.SqrtA * e.SqrtA }

// IonoUtc holds the Klobuchar ionospheric coefficients and the UTC/leap
// -second parameters broadcast in subframe 4 page 18, per spec.md §3.
type IonoUtc struct {
	Alpha [4]float64 // Klobuchar alpha coefficients
	Beta  [4]float64 // Klobuchar beta coefficients

	A0, A1  float64 // UTC polynomial
	Tot     int     // UTC reference time of week (s)
	WeekNum int     // UTC reference week number

	WNlsf  int     // week number of leap second effectivity
	DN     int     // day number of leap second effectivity
	DtLSF  float64 // future delta-UTC leap seconds
	DtLS   float64 // current delta-UTC leap seconds
	LeapEn bool    // leap-second parameters have been set

	Enable bool // iono correction enabled
	Valid  bool // this IonoUtc set is valid
}

// EphemerisTable is a fixed-size, two-dimensional ephemeris store
// indexed by [set][sv], per spec.md §3. PRNs are 1-indexed; slot 0 of
// the SV axis is unused.
type EphemerisTable struct {
	Sets  [constants.EphemArraySize][constants.MaxSat]Ephemeris
	Count int // number of contiguously populated sets
}

// FirstValid returns the first valid ephemeris in set index `set`,
// scanning PRNs 1..MaxSat-1, and whether one was found.
func (t *EphemerisTable) FirstValid(set int) (*Ephemeris, bool) {
	for sv := 1; sv < constants.MaxSat; sv++ {
		if t.Sets[set][sv].Valid {
			return &t.Sets[set][sv], true
		}
	}
	return nil, false
}
