// Package constants holds the process-wide immutable constants shared by
// every stage of the signal-synthesis pipeline. None of them have an
// initialization order dependency; they are plain typed consts.
package constants

import "math"

const (
	// CLIGHT is the speed of light in vacuum (m/s).
	CLIGHT = 299792458.0
	// OMGE is the Earth rotation rate used by the GPS ICD (rad/s).
	OMGE = 7.2921151467e-5
	// MuGPS is the WGS-84 Earth gravitational constant for GPS (m^3/s^2).
	MuGPS = 3.9860050e14
	// REWGS84 is the WGS-84 semi-major axis (m).
	REWGS84 = 6378137.0
	// FEWGS84 is the WGS-84 flattening.
	FEWGS84 = 1.0 / 298.257223563

	// D2R / R2D convert between degrees and radians.
	D2R = math.Pi / 180.0
	R2D = 180.0 / math.Pi

	// SecondsInWeek is the number of seconds in a GPS week.
	SecondsInWeek = 604800.0
	// SecondsInHour bounds the ephemeris-selection window of C6.
	SecondsInHour = 3600.0

	// RtolKepler and MaxIterKepler bound the Newton solve of Kepler's
	// equation in sv_position.
	RtolKepler    = 1e-8
	MaxIterKepler = 10

	// EphemArraySize is the number of ephemeris sets the table holds.
	EphemArraySize = 13
	// MaxSat is 1 + the number of usable GPS PRNs (index 0 unused).
	MaxSat = 33
	// MaxChan is the number of simultaneously trackable channels.
	MaxChan = 16

	// CAChipRate is the C/A code chipping rate (chips/s).
	CAChipRate = 1.023e6
	// CACodeLength is the number of chips in one C/A code period.
	CACodeLength = 1023
	// CarrierFreqL1 is the GPS L1 carrier frequency (Hz).
	CarrierFreqL1 = 1.57542e9

	// NavBitDurationSec is the duration of one LNAV data bit (20 ms).
	NavBitDurationSec = 0.02
	// ChipsPerBit is the number of C/A chips spanned by one nav bit
	// (20 ms at 1.023 Mcps = 20460 chips).
	ChipsPerBit = 20460

	// CarrierTableBits sizes the sin/cos lookup table: 2^CarrierTableBits
	// entries, indexed by the top bits of the 32-bit NCO accumulator.
	CarrierTableBits = 10
	CarrierTableSize = 1 << CarrierTableBits

	// DefaultSampleFreqHz is the builder's default RF sample rate.
	DefaultSampleFreqHz = 2_600_000.0
	// MinSampleFreqHz is the minimum accepted sample rate.
	MinSampleFreqHz = 1_000_000.0
	// DefaultPositionSampleRate is the default position-epoch interval (s).
	DefaultPositionSampleRate = 0.1

	// TOWRollover is the TOW count rollover, in units of 6s subframes
	// (100800 = 604800 / 6).
	TOWRollover = 100800

	// IonosphereHeightM is the thin-shell ionosphere height of the
	// Klobuchar model (m). IonosphericDelay does not reference it.
	IonosphereHeightM = 350000.0
)
