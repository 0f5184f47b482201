package motion

import (
	"testing"

	"gpssim/internal/geodesy"

	"github.com/stretchr/testify/assert"
)

func TestStaticMotionSinglePosition(t *testing.T) {
	pos := geodesy.ECEF{X: 1, Y: 2, Z: 3}
	m := NewStatic(pos)
	assert.Equal(t, 1, m.Len())
	got, ok := m.At(0)
	assert.True(t, ok)
	assert.Equal(t, pos, got)
	assert.Equal(t, geodesy.ECEF{}, m.VelocityAt(0))
}

func TestDynamicMotionVelocityAtMidpoint(t *testing.T) {
	positions := []geodesy.ECEF{
		{X: 0, Y: 0, Z: 0},
		{X: 10, Y: 0, Z: 0},
		{X: 20, Y: 0, Z: 0},
	}
	m := NewDynamic(positions, 1.0)
	v := m.VelocityAt(1)
	assert.InDelta(t, 10.0, v.X, 1e-9)
}

func TestDynamicMotionVelocityAtBoundary(t *testing.T) {
	positions := []geodesy.ECEF{
		{X: 0, Y: 0, Z: 0},
		{X: 5, Y: 0, Z: 0},
	}
	m := NewDynamic(positions, 0.5)
	v0 := m.VelocityAt(0)
	v1 := m.VelocityAt(1)
	assert.InDelta(t, 10.0, v0.X, 1e-9)
	assert.InDelta(t, 10.0, v1.X, 1e-9)
}

func TestMotionAtOutOfRange(t *testing.T) {
	m := NewStatic(geodesy.ECEF{})
	_, ok := m.At(5)
	assert.False(t, ok)
}

func TestSampleRateOrDefault(t *testing.T) {
	m := NewStatic(geodesy.ECEF{})
	assert.Equal(t, defaultPositionSampleRate, m.SampleRateOrDefault())

	m2 := NewDynamic(nil, 0.25)
	assert.Equal(t, 0.25, m2.SampleRateOrDefault())
}
