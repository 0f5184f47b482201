package channel

import (
	"testing"

	"gpssim/internal/constants"

	"github.com/stretchr/testify/assert"
)

func TestCodePhaseStaysInRange(t *testing.T) {
	c := NewChannel(1)
	c.SetRates(-2000.0) // approaching receiver, positive Doppler
	for i := 0; i < 1_000_000; i++ {
		c.AdvanceSample(constants.DefaultSampleFreqHz)
		assert.GreaterOrEqual(t, c.CodePhase, 0.0)
		assert.Less(t, c.CodePhase, float64(constants.CACodeLength))
	}
}

func TestCarrierPhaseWrapsByOverflow(t *testing.T) {
	c := NewChannel(1)
	c.CarrierFreq = constants.DefaultSampleFreqHz / 2 // large step per sample
	c.SetRates(0)
	c.CarrierFreq = constants.DefaultSampleFreqHz / 2
	var last uint32
	wrapped := false
	for i := 0; i < 8; i++ {
		_, _, _ = c.AdvanceSample(constants.DefaultSampleFreqHz)
		if c.CarrierPhase < last {
			wrapped = true
		}
		last = c.CarrierPhase
	}
	assert.True(t, wrapped, "expected the uint32 NCO accumulator to wrap")
}

func TestSyncCodePhaseNormalizes(t *testing.T) {
	c := NewChannel(1)
	c.SyncCodePhase(-1.5)
	assert.GreaterOrEqual(t, c.CodePhase, 0.0)
	assert.Less(t, c.CodePhase, float64(constants.CACodeLength))

	c.SyncCodePhase(2000.25)
	assert.GreaterOrEqual(t, c.CodePhase, 0.0)
	assert.Less(t, c.CodePhase, float64(constants.CACodeLength))
}

func TestCodeChipSignConvention(t *testing.T) {
	c := NewChannel(1)
	c.DataBit = 1
	chipUp := c.CodeChip()
	c.DataBit = -1
	chipDown := c.CodeChip()
	assert.Equal(t, -chipUp, chipDown)
}
