// Package navmsg implements spec.md §4.3: assembly of LNAV subframes
// 1-5 from ephemeris/iono-utc data, IS-GPS-200 parity encoding, and
// TOW/HOW bookkeeping. The pack contains no transmit-side LNAV
// encoder to copy from (the teacher and the rest of the pack only
// *decode* already-demodulated RTCM/receiver messages); the bit
// layouts below follow IS-GPS-200 directly, reusing the teacher's
// explicit bit-shifting-over-fields style seen throughout
// bramburn-gnssgo/pkg/gnssgo/rtcm/ephemeris.go's decoders, run in
// reverse (pack instead of unpack).
package navmsg

// equations lists, for each of the six parity bits D25..D30, the
// 1-indexed source data bits (d1..d24) XORed together, per
// IS-GPS-200 Table 20-XIV. The previous word's D29*/D30* seed is not
// in these lists; usesD29 below says which one each bit folds in.
var equations = [6][]int{
	{1, 2, 3, 5, 6, 10, 11, 12, 13, 14, 17, 18, 20, 23}, // D25, uses D29*
	{2, 3, 4, 6, 7, 11, 12, 13, 14, 15, 18, 19, 21, 24}, // D26, uses D30*
	{1, 3, 4, 5, 7, 8, 12, 13, 14, 15, 16, 19, 20, 22},  // D27, uses D29*
	{2, 4, 5, 6, 8, 9, 13, 14, 15, 16, 17, 20, 21, 23},  // D28, uses D30*
	{1, 3, 5, 6, 7, 9, 10, 14, 15, 16, 17, 18, 21, 22, 24}, // D29, uses D30*
	{3, 5, 6, 8, 9, 10, 11, 13, 15, 19, 22, 23, 24},     // D30, uses D29*
}

// usesD29 says whether parity bit i (0-indexed, D25..D30) is seeded
// with the previous word's D29* (true) or D30* (false).
var usesD29 = [6]bool{true, false, true, false, false, true}

// Word is one 30-bit GPS LNAV word: 24 data bits (index 0 = d1, MSB
// first) plus the 6 trailing parity bits actually transmitted.
type Word struct {
	Data   [24]bool
	Parity [6]bool
}

// Pack encodes data as an IS-GPS-200 word, given the previous word's
// last two bits D29*, D30*. It returns the transmitted word (with the
// D30* bit-inversion already applied to the data field, matching what
// a receiver would decode) and this word's own D29/D30 to chain into
// the next.
func Pack(data [24]bool, prevD29, prevD30 bool) (w Word, d29, d30 bool) {
	// Transmitted data bits are the source bits inverted when the
	// previous word's D30* was 1.
	var d [24]bool
	for i, b := range data {
		d[i] = b != prevD30
	}
	w.Data = d

	for i, eq := range equations {
		sum := false
		for _, bit := range eq {
			sum = sum != data[bit-1]
		}
		if usesD29[i] {
			sum = sum != prevD29
		} else {
			sum = sum != prevD30
		}
		w.Parity[i] = sum
	}

	d29 = w.Parity[4]
	d30 = w.Parity[5]
	return
}

// Uint32 packs the word's 30 bits MSB-first into the low 30 bits of a
// uint32, for compact storage/transmission.
func (w Word) Uint32() uint32 {
	var v uint32
	for _, b := range w.Data {
		v <<= 1
		if b {
			v |= 1
		}
	}
	for _, b := range w.Parity {
		v <<= 1
		if b {
			v |= 1
		}
	}
	return v
}

// Bits returns the word as a flat 30-bit slice, data then parity.
func (w Word) Bits() [30]bool {
	var out [30]bool
	copy(out[:24], w.Data[:])
	copy(out[24:], w.Parity[:])
	return out
}

// bitsFromUint packs the low n bits of v (MSB-first) into dst starting
// at offset off.
func bitsFromUint(dst *[24]bool, off, n int, v uint32) {
	for i := 0; i < n; i++ {
		bit := (v >> uint(n-1-i)) & 1
		dst[off+i] = bit != 0
	}
}

// uintFromBits is the inverse of bitsFromUint, used by tests to
// round-trip field packing.
func uintFromBits(src [24]bool, off, n int) uint32 {
	var v uint32
	for i := 0; i < n; i++ {
		v <<= 1
		if src[off+i] {
			v |= 1
		}
	}
	return v
}
