package geodesy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEcefLlhRoundTrip(t *testing.T) {
	llh := LLH{Lat: 0.6, Lon: -1.2, H: 150}
	ecef := llh.ToECEF()
	back := ecef.ToLLH()

	assert.InDelta(t, llh.Lat, back.Lat, 1e-9)
	assert.InDelta(t, llh.Lon, back.Lon, 1e-9)
	assert.InDelta(t, llh.H, back.H, 1e-6)
}

func TestEcefLlhRoundTripAtPole(t *testing.T) {
	llh := LLH{Lat: math.Pi / 2, Lon: 0, H: 10}
	ecef := llh.ToECEF()
	back := ecef.ToLLH()
	assert.InDelta(t, math.Pi/2, back.Lat, 1e-6)
}

func TestAzElZenith(t *testing.T) {
	pos := LLH{Lat: 0.5, Lon: 1.0, H: 0}
	_, _, u := enuBasis(pos)
	_, el := AzEl(pos, u)
	assert.InDelta(t, math.Pi/2, el, 1e-9)
}

func TestAzElHorizon(t *testing.T) {
	pos := LLH{Lat: 0, Lon: 0, H: 0}
	e, _, _ := enuBasis(pos)
	_, el := AzEl(pos, e)
	assert.InDelta(t, 0.0, el, 1e-9)
}

func TestGeoDistMatchesDirectDistanceApprox(t *testing.T) {
	rs := ECEF{X: 20000000, Y: 0, Z: 0}
	rr := ECEF{X: 6378137, Y: 0, Z: 0}
	rangeM, los := GeoDist(rs, rr)
	assert.InDelta(t, rs.X-rr.X, rangeM, 1.0) // sagnac correction is tiny here
	assert.InDelta(t, 1.0, los.X, 1e-9)
}

func TestGeoDistZeroSeparation(t *testing.T) {
	p := ECEF{X: 1, Y: 2, Z: 3}
	r, los := GeoDist(p, p)
	assert.Equal(t, 0.0, r)
	assert.Equal(t, ECEF{}, los)
}

func TestVectorOps(t *testing.T) {
	a := ECEF{X: 3, Y: 4, Z: 0}
	assert.InDelta(t, 5.0, a.Norm(), 1e-9)
	b := a.Scale(2)
	assert.Equal(t, ECEF{X: 6, Y: 8, Z: 0}, b)
	assert.InDelta(t, 25.0, a.Dot(a), 1e-9)
	assert.Equal(t, ECEF{X: 0, Y: 0, Z: 0}, a.Sub(a))
}
