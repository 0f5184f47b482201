// Package acquisition implements spec.md §4.4: per-epoch visibility
// selection and channel-table management, grounded on the teacher's
// compact-array bookkeeping style (src/rtkpos.go's satellite-slot
// reuse) and on original_source/crates/gps/src/generator/mod.rs's
// channel-allocation loop.
package acquisition

import (
	"gpssim/internal/channel"
	"gpssim/internal/constants"
	"gpssim/internal/ephemeris"
	"gpssim/internal/geodesy"
	"gpssim/internal/gtime"
	"gpssim/internal/metrics"
	"gpssim/internal/trace"
)

// Table is the compact MAX_CHAN-slot channel array: used slots are
// kept at the front so the per-sample inner loop iterates
// contiguously, per spec.md §4.4.
type Table struct {
	Channels     [constants.MaxChan]*channel.Channel
	ElevationMaskRad float64
}

// NewTable builds an empty channel table with the given elevation
// mask, supplied in degrees and stored internally in radians to match
// geodesy.AzEl's output.
func NewTable(elevationMaskDeg float64) *Table {
	return &Table{ElevationMaskRad: elevationMaskDeg * constants.D2R}
}

// Len returns the number of occupied slots.
func (t *Table) Len() int {
	n := 0
	for _, c := range t.Channels {
		if c != nil {
			n++
		}
	}
	return n
}

// find returns the index of the channel tracking prn, or -1.
func (t *Table) find(prn int) int {
	for i, c := range t.Channels {
		if c != nil && c.PRN == prn {
			return i
		}
	}
	return -1
}

// lowestElevation returns the slot index holding the currently
// lowest-elevation channel, or -1 if the table is empty.
func (t *Table) lowestElevation() int {
	worst := -1
	for i, c := range t.Channels {
		if c == nil {
			continue
		}
		if worst == -1 || c.Elevation < t.Channels[worst].Elevation {
			worst = i
		}
	}
	return worst
}

// firstFree returns the index of the first empty slot, or -1.
func (t *Table) firstFree() int {
	for i, c := range t.Channels {
		if c == nil {
			return i
		}
	}
	return -1
}

// Candidate is one visible-or-not PRN evaluated for a given epoch.
type Candidate struct {
	PRN       int
	Elevation float64
	Azimuth   float64
	Obs       ephemeris.Observables
	SvState   ephemeris.State
}

// Evaluate computes the observables for every valid PRN in the
// current ephemeris set at time t, for user position userPos/userECEF.
// Candidates are returned in PRN order so admission's tie-break
// (lower PRN wins) can be applied by stable iteration.
func Evaluate(set *[constants.MaxSat]ephemeris.Ephemeris, t gtime.GpsTime, userPos geodesy.LLH, userECEF geodesy.ECEF) []Candidate {
	var out []Candidate
	for prn := 1; prn < constants.MaxSat; prn++ {
		eph := &set[prn]
		if !eph.Valid {
			continue
		}
		sv := ephemeris.SvPosition(eph, t)
		obs := ephemeris.ComputeRange(eph, t, userPos, userECEF)
		out = append(out, Candidate{PRN: prn, Elevation: obs.Elevation, Azimuth: obs.Azimuth, Obs: obs, SvState: sv})
	}
	return out
}

// Update admits/evicts channels for this epoch's candidate list,
// applying the elevation-mask admission rule and least-elevation
// displacement policy of spec.md §4.4, and refreshes the rates/az-el
// of every channel that remains tracked. userVel is the receiver's
// own ECEF velocity (zero in static mode), folded into range-rate per
// spec.md §4.1. Update returns the PRNs newly admitted this call, so
// the caller can reset their nav-message builders.
func (t *Table) Update(candidates []Candidate, tow float64, userVel geodesy.ECEF) []int {
	byPRN := make(map[int]Candidate, len(candidates))
	for _, c := range candidates {
		byPRN[c.PRN] = c
	}

	// Evict channels whose SV dropped out of the candidate set
	// entirely (no longer broadcast in the current ephemeris set).
	for i, ch := range t.Channels {
		if ch == nil {
			continue
		}
		if _, ok := byPRN[ch.PRN]; !ok {
			trace.Trace(3, "acquisition: evict prn %d (no longer broadcast)\n", ch.PRN)
			t.Channels[i] = nil
			metrics.Get().ChannelEvictions.Inc()
		}
	}

	var admitted []int
	for _, c := range candidates {
		if idx := t.find(c.PRN); idx >= 0 {
			if c.Elevation < t.ElevationMaskRad {
				trace.Trace(3, "acquisition: evict prn %d (below elevation mask)\n", c.PRN)
				t.Channels[idx] = nil
				metrics.Get().ChannelEvictions.Inc()
				continue
			}
			t.refresh(t.Channels[idx], c, userVel)
			continue
		}
		if c.Elevation < t.ElevationMaskRad {
			continue
		}
		if free := t.firstFree(); free >= 0 {
			t.admit(free, c, tow, userVel)
			admitted = append(admitted, c.PRN)
			metrics.Get().ChannelAdmits.Inc()
			continue
		}
		worst := t.lowestElevation()
		if worst >= 0 && t.Channels[worst].Elevation < c.Elevation {
			trace.Trace(3, "acquisition: displace prn %d (el %.2f) for prn %d (el %.2f)\n",
				t.Channels[worst].PRN, t.Channels[worst].Elevation, c.PRN, c.Elevation)
			metrics.Get().ChannelEvictions.Inc()
			t.admit(worst, c, tow, userVel)
			admitted = append(admitted, c.PRN)
			metrics.Get().ChannelAdmits.Inc()
		}
	}

	t.compact()
	metrics.Get().ChannelsActive.Set(float64(t.Len()))
	return admitted
}

// admit initializes slot idx for candidate c: code phase synced so
// the chip transmitted at t-tau reaches the user at t, nav-bit
// pointer aligned to TOW.
func (t *Table) admit(idx int, c Candidate, tow float64, userVel geodesy.ECEF) {
	ch := channel.NewChannel(c.PRN)
	t.refresh(ch, c, userVel)
	fracChip := (tow - c.Obs.Range/constants.CLIGHT) * constants.CAChipRate
	ch.SyncCodePhase(fracChip)
	t.Channels[idx] = ch
}

func (t *Table) refresh(ch *channel.Channel, c Candidate, userVel geodesy.ECEF) {
	ch.Range = c.Obs.Range
	ch.RangeRate = ephemeris.ComputeRangeRate(c.Obs, c.SvState.Vel, userVel)
	ch.Azimuth = c.Azimuth
	ch.Elevation = c.Elevation
	ch.SetRates(ch.RangeRate)
}

// compact shifts occupied slots to the front, preserving relative
// order, per spec.md §4.4's "used slots at the front" requirement.
func (t *Table) compact() {
	var packed [constants.MaxChan]*channel.Channel
	i := 0
	for _, c := range t.Channels {
		if c != nil {
			packed[i] = c
			i++
		}
	}
	t.Channels = packed
}
