// Package channel implements spec.md §4.2: per-satellite channel
// state, the code/carrier NCOs, C/A code chipping, and the gain model.
// Grounded on the teacher's flat, plain-struct-per-satellite style
// (src/types.go's Eph) and on original_source/crates/gps/tests/
// test-generator.rs for the channel lifecycle (init on acquisition,
// steady-state refresh, release).
package channel

import (
	"math"

	"gpssim/internal/constants"
	"gpssim/internal/gtime"
)

// Channel is one MAX_CHAN slot: a satellite currently being tracked.
type Channel struct {
	Active bool
	PRN    int

	code      *[constants.CACodeLength]int8
	CodePhase float64 // chips, [0, 1023)
	CodeFreq  float64 // chips/s

	CarrierPhase uint32  // 32-bit NCO accumulator
	CarrierFreq  float64 // Hz, includes Doppler

	Range     float64
	RangeRate float64
	Azimuth   float64
	Elevation float64
	Gain      float64

	// Navigation message bit stream: 5 subframes x 10 words x 30 bits,
	// packed one bit per byte for simplicity of indexing (matches
	// spec.md's "5 subframes x 10 words x 30 bits" buffer).
	Subframes    [5][10][30]uint8
	NextSubframe int
	bitIndex     int  // bit index within the 1500-bit (5 x 300) frame; not read or set anywhere
	DataBit      int8 // +1/-1 polarity of the bit currently being transmitted

	LastUpdate gtime.GpsTime
}

// NewChannel allocates a channel for prn, loading its precomputed Gold
// code.
func NewChannel(prn int) *Channel {
	return &Channel{PRN: prn, code: CACode(prn), DataBit: 1}
}

// CodeChip returns the C/A chip at the current code phase, XORed with
// the current nav data bit polarity (±1 domain: multiplication).
func (c *Channel) CodeChip() int8 {
	idx := int(c.CodePhase)
	if idx < 0 {
		idx = 0
	}
	if idx >= constants.CACodeLength {
		idx %= constants.CACodeLength
	}
	return c.code[idx] * c.DataBit
}

// AdvanceSample advances the code and carrier NCOs by one RF sample
// period (1/fs) and returns the chip value (already XORed with the
// data bit) and the carrier table lookups for that sample, per
// spec.md §4.2's per-sample loop.
func (c *Channel) AdvanceSample(fs float64) (chip int8, cosv, sinv int16) {
	chip = c.CodeChip()
	cosv = CarrierCos(c.CarrierPhase)
	sinv = CarrierSin(c.CarrierPhase)

	c.CodePhase += c.CodeFreq / fs
	for c.CodePhase >= constants.CACodeLength {
		c.CodePhase -= constants.CACodeLength
	}
	for c.CodePhase < 0 {
		c.CodePhase += constants.CACodeLength
	}

	inc := uint32(int64(math.Round((c.CarrierFreq / fs) * 4294967296.0)))
	c.CarrierPhase += inc // wraps by uint32 overflow, defining 2pi
	return
}

// SetRates sets the code and carrier frequencies for the upcoming
// epoch, per spec.md's "code frequency 1023kHz*(1+fd/f_L1)" and
// "carrier freq = fIF + Doppler".
func (c *Channel) SetRates(rangeRate float64) {
	c.CodeFreq = constants.CAChipRate * (1.0 - rangeRate/constants.CLIGHT)
	c.CarrierFreq = -constants.CarrierFreqL1 * (rangeRate / constants.CLIGHT)
}

// SyncCodePhase aligns the code phase so the chip transmitted at
// t-tau arrives at the receiver at t, per the acquisition admission
// rule of spec.md §4.4. fracChip is the C/A-code phase at transmission
// time in chips, of any magnitude; it is reduced modulo one code
// period (1023 chips) here.
func (c *Channel) SyncCodePhase(fracChip float64) {
	c.CodePhase = math.Mod(fracChip, constants.CACodeLength)
	if c.CodePhase < 0 {
		c.CodePhase += constants.CACodeLength
	}
}
