package ephemeris

import (
	"math"
	"testing"

	"gpssim/internal/gtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEphemeris() *Ephemeris {
	return &Ephemeris{
		Valid: true,
		PRN:   1,
		TOC:   gtime.GpsTime{Week: 2200, Sec: 100800},
		TOE:   gtime.GpsTime{Week: 2200, Sec: 100800},
		SqrtA: 5153.7,
		E:     0.01,
		I0:    0.95,
		OMG0:  1.2,
		Omega: 0.5,
		M0:    0.3,
		DeltaN: 4.5e-9,
		OMGDot: -8e-9,
		IDot:   1e-10,
		F0:     1e-5,
		F1:     1e-12,
	}
}

func TestSvPositionFinite(t *testing.T) {
	eph := sampleEphemeris()
	st := SvPosition(eph, gtime.GpsTime{Week: 2200, Sec: 101800})

	require.False(t, math.IsNaN(st.Pos.X) || math.IsNaN(st.Pos.Y) || math.IsNaN(st.Pos.Z))
	require.False(t, math.IsInf(st.Pos.Norm(), 0))

	altitude := st.Pos.Norm()
	assert.Greater(t, altitude, 2.5e7)
	assert.Less(t, altitude, 2.7e7)
}

func TestSvPositionVelocityFinite(t *testing.T) {
	eph := sampleEphemeris()
	st := SvPosition(eph, gtime.GpsTime{Week: 2200, Sec: 101800})
	assert.False(t, math.IsNaN(st.Vel.Norm()))
	assert.Greater(t, st.Vel.Norm(), 0.0)
}

func TestClockBiasFinite(t *testing.T) {
	eph := sampleEphemeris()
	b := ClockBias(eph, gtime.GpsTime{Week: 2200, Sec: 101800})
	assert.False(t, math.IsNaN(b))
}
