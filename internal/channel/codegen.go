package channel

import "gpssim/internal/constants"

// g2Delay is the per-PRN G2 shift register delay (ICD-GPS-200 Table
// 3-Ia), index 0 unused so PRN indexes directly.
var g2Delay = [33]int{
	0,
	5, 6, 7, 8, 17, 18, 139, 140, 141, 251,
	252, 254, 255, 256, 257, 258, 469, 470, 471, 472,
	473, 474, 509, 512, 513, 514, 515, 516, 859, 860,
	861, 862,
}

// GenerateCACode precomputes the 1023-chip ±1 Gold code for the given
// GPS PRN (1..32), using the standard G1/G2 maximal-length shift
// register construction. Matches the reference C implementation's
// codegen() bit-exactly.
func GenerateCACode(prn int) [constants.CACodeLength]int8 {
	var code [constants.CACodeLength]int8
	if prn < 1 || prn >= len(g2Delay) {
		return code
	}

	const n = constants.CACodeLength
	var g1, g2 [n]int8
	var r1, r2 [10]int8
	for i := range r1 {
		r1[i] = -1
		r2[i] = -1
	}

	for i := 0; i < n; i++ {
		g1[i] = r1[9]
		g2[i] = r2[9]

		c1 := r1[2] * r1[9]
		c2 := r2[1] * r2[2] * r2[5] * r2[7] * r2[8] * r2[9]

		for j := 9; j > 0; j-- {
			r1[j] = r1[j-1]
			r2[j] = r2[j-1]
		}
		r1[0] = c1
		r2[0] = c2
	}

	delay := g2Delay[prn]
	for i, j := 0, n-delay; i < n; i, j = i+1, j+1 {
		code[i] = -g1[i] * g2[j%n]
	}
	return code
}

// caCodeCache memoizes generated codes across the process, since the
// same PRN set is reused by every channel.
var caCodeCache [33]*[constants.CACodeLength]int8

// CACode returns the memoized Gold code for prn, generating it on
// first use. This is the "precomputed once at startup" store of
// spec.md §4.2, made lazy rather than eager (§9 design note:
// precomputation happens on first engine construction).
func CACode(prn int) *[constants.CACodeLength]int8 {
	if prn < 1 || prn >= len(caCodeCache) {
		return nil
	}
	if caCodeCache[prn] == nil {
		code := GenerateCACode(prn)
		caCodeCache[prn] = &code
	}
	return caCodeCache[prn]
}
