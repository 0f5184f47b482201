package navmsg

import (
	"math"
	"testing"

	"gpssim/internal/ephemeris"
	"gpssim/internal/gtime"

	"github.com/stretchr/testify/assert"
)

func sampleEph() *ephemeris.Ephemeris {
	return &ephemeris.Ephemeris{
		Valid:   true,
		PRN:     5,
		Week:    2200,
		URA:     2,
		Health:  0,
		IODC:    0x123,
		IODE:    0x23,
		Tgd:     -1.2e-8,
		TOC:     gtime.GpsTime{Week: 2200, Sec: 100800},
		TOE:     gtime.GpsTime{Week: 2200, Sec: 100800},
		F0:      1.1e-5,
		F1:      2.2e-12,
		F2:      0,
		Crs:     12.3,
		DeltaN:  1e-9,
		M0:      1.5,
		Cuc:     1e-6,
		E:       0.01,
		Cus:     2e-6,
		SqrtA:   5153.7,
		Cic:     -1e-7,
		OMG0:    -2.1,
		Cis:     2e-7,
		I0:      0.95,
		Crc:     300.0,
		Omega:   0.7,
		OMGDot:  -8e-9,
		IDot:    1e-10,
	}
}

func TestSubframe1FieldsRoundTrip(t *testing.T) {
	eph := sampleEph()
	w := subframe1Words(eph)

	week := uintFromBits(w[2], 0, 10)
	assert.Equal(t, uint32(eph.Week)&0x3FF, week)

	ura := uintFromBits(w[2], 12, 4)
	assert.Equal(t, uint32(eph.URA), ura)

	health := uintFromBits(w[2], 16, 6)
	assert.Equal(t, uint32(eph.Health), health)

	iodcHi := uintFromBits(w[2], 22, 2)
	iodcLo := uintFromBits(w[7], 0, 8)
	iodc := (iodcHi << 8) | iodcLo
	assert.Equal(t, uint32(eph.IODC)&0x3FF, iodc)

	tgdRaw := int8(uintFromBits(w[6], 16, 8))
	assert.InDelta(t, eph.Tgd, float64(tgdRaw)*math.Pow(2, -31), math.Pow(2, -32))
}

func TestSubframe2FieldsRoundTrip(t *testing.T) {
	eph := sampleEph()
	w := subframe2Words(eph)

	iode := uintFromBits(w[2], 0, 8)
	assert.Equal(t, uint32(eph.IODE)&0xFF, iode)

	m0Hi := uintFromBits(w[3], 16, 8)
	m0Lo := uintFromBits(w[4], 0, 24)
	m0raw := int32((m0Hi << 24) | m0Lo)
	gotM0 := float64(m0raw) * math.Pow(2, -31) * scaleSemicircle
	assert.InDelta(t, eph.M0, gotM0, 1e-6)

	eHi := uintFromBits(w[5], 16, 8)
	eLo := uintFromBits(w[6], 0, 24)
	eraw := (eHi << 24) | eLo
	gotE := float64(eraw) * math.Pow(2, -33)
	assert.InDelta(t, eph.E, gotE, 1e-9)

	toeRaw := uintFromBits(w[9], 0, 16)
	gotToe := float64(toeRaw) * math.Pow(2, 4)
	assert.InDelta(t, eph.TOE.Sec, gotToe, 16.0)
}

func TestSubframe3FieldsRoundTrip(t *testing.T) {
	eph := sampleEph()
	w := subframe3Words(eph)

	idode := uintFromBits(w[9], 0, 8)
	assert.Equal(t, uint32(eph.IODE)&0xFF, idode)

	omg0Hi := uintFromBits(w[2], 16, 8)
	omg0Lo := uintFromBits(w[3], 0, 24)
	raw := int32((omg0Hi << 24) | omg0Lo)
	gotOmg0 := float64(raw) * math.Pow(2, -31) * scaleSemicircle
	assert.InDelta(t, eph.OMG0, gotOmg0, 1e-6)
}

func TestSubframe4RequiresValidIono(t *testing.T) {
	w := subframe4Words(nil)
	for _, word := range w {
		assert.Equal(t, [24]bool{}, word)
	}

	w2 := subframe4Words(&ephemeris.IonoUtc{Valid: false})
	for _, word := range w2 {
		assert.Equal(t, [24]bool{}, word)
	}
}

func TestSubframe4FieldsRoundTrip(t *testing.T) {
	iono := &ephemeris.IonoUtc{
		Valid:   true,
		Alpha:   [4]float64{1e-8, 1e-7, -1e-6, 1e-6},
		Beta:    [4]float64{9e4, 1e5, -1e5, -2e5},
		A0:      1e-9,
		A1:      1e-12,
		Tot:     61440,
		WeekNum: 100,
		DtLS:    18,
		WNlsf:   50,
		DN:      7,
		DtLSF:   18,
	}
	w := subframe4Words(iono)

	dtls := int8(uintFromBits(w[8], 0, 8))
	assert.Equal(t, int(iono.DtLS), int(dtls))

	wnlsf := uintFromBits(w[8], 8, 8)
	assert.Equal(t, uint32(iono.WNlsf)&0xFF, wnlsf)

	dn := uintFromBits(w[8], 16, 8)
	assert.Equal(t, uint32(iono.DN)&0xFF, dn)
}

func TestBuildAllWordsFitIn30Bits(t *testing.T) {
	eph := sampleEph()
	iono := &ephemeris.IonoUtc{Valid: true}
	var b Builder
	frames := BuildAll(eph, iono, 0, &b)

	for sf := 0; sf < 5; sf++ {
		for word := 0; word < 10; word++ {
			v := frames[sf][word]
			assert.Equal(t, uint32(0), v>>30, "word must fit in 30 bits")
		}
	}
}

func TestBuildAllTlmPreambleFixed(t *testing.T) {
	eph := sampleEph()
	iono := &ephemeris.IonoUtc{}
	var b Builder
	frames := BuildAll(eph, iono, 0, &b)

	for sf := 0; sf < 5; sf++ {
		tlm := frames[sf][0]
		preambleBits := (tlm >> 22) & 0xFF
		assert.Equal(t, uint32(preamble), preambleBits)
	}
}

func TestBuilderResetClearsParityChain(t *testing.T) {
	var b Builder
	b.prevD29 = true
	b.prevD30 = true
	b.Reset()
	assert.False(t, b.prevD29)
	assert.False(t, b.prevD30)
}

func TestTowCountScales(t *testing.T) {
	assert.Equal(t, uint32(0), TowCount(0))
	assert.Equal(t, uint32(100), TowCount(600))
	assert.Equal(t, uint32(100800/6), TowCount(100800))
}
