package align

import (
	"testing"

	"gpssim/internal/ephemeris"
	"gpssim/internal/gtime"
	"gpssim/internal/simerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableWithOneSV(toc gtime.GpsTime) *ephemeris.EphemerisTable {
	table := &ephemeris.EphemerisTable{Count: 1}
	table.Sets[0][1] = ephemeris.Ephemeris{Valid: true, PRN: 1, TOC: toc, TOE: toc}
	return table
}

func TestAlignDefaultsToEarliestTOC(t *testing.T) {
	toc := gtime.GpsTime{Week: 2200, Sec: 100800}
	table := tableWithOneSV(toc)
	iono := &ephemeris.IonoUtc{}

	res, err := Align(table, iono, nil, false)
	require.NoError(t, err)
	assert.Equal(t, toc, res.StartTime)
	assert.Equal(t, 0, res.CurrentSet)
}

func TestAlignRejectsOutOfWindowStart(t *testing.T) {
	toc := gtime.GpsTime{Week: 2200, Sec: 100800}
	table := tableWithOneSV(toc)
	iono := &ephemeris.IonoUtc{}

	farStart := gtime.GpsTime{Week: 2200, Sec: 100800 + 100000}
	_, err := Align(table, iono, &farStart, false)
	assert.ErrorIs(t, err, simerrors.ErrInvalidStartTime)
}

func TestAlignTimeOverrideShiftsEphemerides(t *testing.T) {
	toc := gtime.GpsTime{Week: 2200, Sec: 100800}
	table := tableWithOneSV(toc)
	iono := &ephemeris.IonoUtc{}

	newStart := gtime.GpsTime{Week: 2201, Sec: 3600}
	res, err := Align(table, iono, &newStart, true)
	require.NoError(t, err)
	assert.Equal(t, 0, res.CurrentSet)

	shifted := table.Sets[0][1].TOC
	assert.InDelta(t, 0.0, gtime.Diff(shifted, gtime.GpsTime{Week: 2201, Sec: 0}), 1e-6)
}

func TestAlignNoEphemerisIsError(t *testing.T) {
	table := &ephemeris.EphemerisTable{Count: 1}
	iono := &ephemeris.IonoUtc{}
	_, err := Align(table, iono, nil, false)
	assert.ErrorIs(t, err, simerrors.ErrNoCurrentEphemerides)
}
