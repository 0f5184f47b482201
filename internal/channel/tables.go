package channel

import (
	"math"
	"sync"

	"gpssim/internal/constants"
)

var (
	carrierOnce sync.Once
	cosTable    [constants.CarrierTableSize]int16
	sinTable    [constants.CarrierTableSize]int16
)

// initCarrierTables lazily fills the process-wide cos/sin lookup
// tables used by the carrier NCO, scaled to int16 so the per-sample
// inner loop stays in integer arithmetic.
func initCarrierTables() {
	carrierOnce.Do(func() {
		for i := 0; i < constants.CarrierTableSize; i++ {
			theta := 2.0 * math.Pi * float64(i) / float64(constants.CarrierTableSize)
			cosTable[i] = int16(math.Round(127.0 * math.Cos(theta)))
			sinTable[i] = int16(math.Round(127.0 * math.Sin(theta)))
		}
	})
}

// CarrierCos looks up cos(phase) from the accumulator's top bits.
func CarrierCos(phase uint32) int16 {
	initCarrierTables()
	idx := phase >> (32 - constants.CarrierTableBits)
	return cosTable[idx]
}

// CarrierSin looks up sin(phase) from the accumulator's top bits.
func CarrierSin(phase uint32) int16 {
	initCarrierTables()
	idx := phase >> (32 - constants.CarrierTableBits)
	return sinTable[idx]
}
