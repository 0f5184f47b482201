// Package align implements spec.md §4.6: ephemeris-set selection and
// the time_override shift-all-TOC/TOE mode, grounded directly on
// original_source/crates/gps/src/generator/builder.rs's build()
// (the min/max time scan, the 2-hour snap, the per-SV TOC/TOE shift,
// and the +/-1h current-set search with its time_override fallback).
package align

import (
	"math"

	"gpssim/internal/constants"
	"gpssim/internal/ephemeris"
	"gpssim/internal/gtime"
	"gpssim/internal/simerrors"
	"gpssim/internal/trace"
)

// Result is the outcome of aligning an ephemeris table to a
// simulation start time.
type Result struct {
	StartTime  gtime.GpsTime
	CurrentSet int
}

// Align performs the full §4.6 algorithm in place on table and iono:
// computes g_min/g_max, resolves g0 (defaulting to g_min), applies
// the time_override shift when requested, and selects the current
// ephemeris set index.
func Align(table *ephemeris.EphemerisTable, iono *ephemeris.IonoUtc, g0 *gtime.GpsTime, timeOverride bool) (Result, error) {
	gMin, ok := firstTOC(table, 0)
	if !ok {
		return Result{}, simerrors.ErrNoCurrentEphemerides
	}
	gMax, ok := firstTOC(table, table.Count-1)
	if !ok {
		return Result{}, simerrors.ErrNoCurrentEphemerides
	}

	start := gMin
	if g0 != nil {
		start = *g0
	}

	if timeOverride {
		shiftEphemerides(table, iono, start, gMin)
	} else if g0 != nil {
		if gtime.Diff(start, gMin) < 0.0 || gtime.Diff(gMax, start) < 0.0 {
			return Result{}, simerrors.ErrInvalidStartTime
		}
	}

	idx, ok := selectCurrentSet(table, start)
	if !ok {
		if timeOverride {
			trace.Trace(1, "align: no ephemeris within +-1h of %s after shift, falling back to set 0\n", start)
			idx = 0
		} else {
			return Result{}, simerrors.ErrNoCurrentEphemerides
		}
	}

	return Result{StartTime: start, CurrentSet: idx}, nil
}

func firstTOC(table *ephemeris.EphemerisTable, set int) (gtime.GpsTime, bool) {
	if set < 0 || set >= constants.EphemArraySize {
		return gtime.GpsTime{}, false
	}
	eph, ok := table.FirstValid(set)
	if !ok {
		return gtime.GpsTime{}, false
	}
	return eph.TOC, true
}

// shiftEphemerides snaps g0 to the nearest 2-hour boundary below,
// computes the delta from g_min, and shifts every valid SV's TOC/TOE
// by that delta, per spec.md §4.6 step 3.
func shiftEphemerides(table *ephemeris.EphemerisTable, iono *ephemeris.IonoUtc, g0, gMin gtime.GpsTime) {
	gtmp := gtime.GpsTime{
		Week: g0.Week,
		Sec:  math.Floor(g0.Sec/7200.0) * 7200.0,
	}
	delta := gtime.Diff(gtmp, gMin)

	iono.WeekNum = gtmp.Week
	iono.Tot = int(math.Floor(gtmp.Sec))

	for s := 0; s < table.Count; s++ {
		for sv := 1; sv < constants.MaxSat; sv++ {
			e := &table.Sets[s][sv]
			if !e.Valid {
				continue
			}
			e.TOC = gtime.Add(e.TOC, delta)
			e.TOE = gtime.Add(e.TOE, delta)
		}
	}
}

// selectCurrentSet picks the smallest set index holding an SV whose
// TOC lies within +-1h of g0, per spec.md §4.6 step 5.
func selectCurrentSet(table *ephemeris.EphemerisTable, g0 gtime.GpsTime) (int, bool) {
	for s := 0; s < table.Count; s++ {
		for sv := 1; sv < constants.MaxSat; sv++ {
			e := &table.Sets[s][sv]
			if !e.Valid {
				continue
			}
			if math.Abs(gtime.Diff(g0, e.TOC)) < constants.SecondsInHour {
				return s, true
			}
		}
	}
	return 0, false
}
