package scheduler

import (
	"bytes"
	"context"
	"testing"

	"gpssim/internal/ephemeris"
	"gpssim/internal/format"
	"gpssim/internal/geodesy"
	"gpssim/internal/gtime"
	"gpssim/internal/motion"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singleSvTable() (*ephemeris.EphemerisTable, *ephemeris.IonoUtc) {
	table := &ephemeris.EphemerisTable{Count: 1}
	table.Sets[0][5] = ephemeris.Ephemeris{
		Valid: true,
		PRN:   5,
		TOC:   gtime.GpsTime{Week: 2200, Sec: 100800},
		TOE:   gtime.GpsTime{Week: 2200, Sec: 100800},
		SqrtA: 5153.7,
		E:     0.01,
		I0:    0.95,
		OMG0:  1.1,
		Omega: 0.4,
		M0:    0.2,
	}
	return table, &ephemeris.IonoUtc{}
}

func TestSchedulerEmitsExactSampleCount(t *testing.T) {
	table, iono := singleSvTable()
	mot := motion.NewStatic(geodesy.LLH{Lat: 0.6, Lon: 2.1, H: 10}.ToECEF())

	dur := 0.1
	sampleFreq := 10000.0
	s := New(Config{
		Table:        table,
		Iono:         iono,
		CurrentSet:   0,
		StartTime:    gtime.GpsTime{Week: 2200, Sec: 101000},
		Motion:       mot,
		SampleFreqHz: sampleFreq,
		DataFormat:   format.Bits8,
		DurationSec:  &dur,
	})

	var buf bytes.Buffer
	w, err := format.NewWriter(&buf, format.Bits8)
	require.NoError(t, err)

	n, err := s.Run(context.Background(), w)
	require.NoError(t, err)

	expected := int64(dur * sampleFreq)
	assert.Equal(t, expected, n)
	assert.Equal(t, int(expected)*2, buf.Len())
}

func TestSchedulerRespectsContextCancellation(t *testing.T) {
	table, iono := singleSvTable()
	mot := motion.NewStatic(geodesy.LLH{Lat: 0.6, Lon: 2.1, H: 10}.ToECEF())

	dur := 1.0
	s := New(Config{
		Table:        table,
		Iono:         iono,
		CurrentSet:   0,
		StartTime:    gtime.GpsTime{Week: 2200, Sec: 101000},
		Motion:       mot,
		SampleFreqHz: 1000.0,
		DataFormat:   format.Bits8,
		DurationSec:  &dur,
	})

	var buf bytes.Buffer
	w, err := format.NewWriter(&buf, format.Bits8)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, err := s.Run(ctx, w)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}
