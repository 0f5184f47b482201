// Package motion holds the UserMotion data model of spec.md §3: an
// ordered sequence of receiver ECEF positions sampled at
// position-sample-rate. Parsing NMEA/ECEF/LLH motion files is an
// external collaborator's job per spec.md §1; this package only
// stores the already-parsed sequence and derives per-epoch velocity,
// grounded on the teacher's plain-slice-of-records style (src/types.go's
// Sol history arrays).
package motion

import (
	"gpssim/internal/constants"
	"gpssim/internal/geodesy"
)

const defaultPositionSampleRate = constants.DefaultPositionSampleRate

// Mode tags how the receiver moves through a scenario.
type Mode int

const (
	Static Mode = iota
	Dynamic
)

// Motion is the ordered ECEF position sequence driving the scheduler,
// one entry per position epoch.
type Motion struct {
	Mode      Mode
	Positions []geodesy.ECEF
	SampleRate float64 // seconds between entries (0.1 default)
}

// Len returns the number of position samples.
func (m *Motion) Len() int { return len(m.Positions) }

// SampleRateOrDefault returns the configured sample rate, or the
// spec's default position-sample interval when unset (static mode
// leaves SampleRate at zero since there is only one position).
func (m *Motion) SampleRateOrDefault() float64 {
	if m.SampleRate > 0 {
		return m.SampleRate
	}
	return defaultPositionSampleRate
}

// At returns the position at epoch k and whether k is in range.
func (m *Motion) At(k int) (geodesy.ECEF, bool) {
	if k < 0 || k >= len(m.Positions) {
		return geodesy.ECEF{}, false
	}
	return m.Positions[k], true
}

// VelocityAt estimates the receiver's ECEF velocity at epoch k via
// central (or, at the boundaries, one-sided) finite difference over
// the position sequence; zero for static mode.
func (m *Motion) VelocityAt(k int) geodesy.ECEF {
	if m.Mode == Static || m.SampleRate <= 0 || len(m.Positions) < 2 {
		return geodesy.ECEF{}
	}
	switch {
	case k <= 0:
		return diffScaled(m.Positions[1], m.Positions[0], m.SampleRate)
	case k >= len(m.Positions)-1:
		n := len(m.Positions) - 1
		return diffScaled(m.Positions[n], m.Positions[n-1], m.SampleRate)
	default:
		return diffScaled(m.Positions[k+1], m.Positions[k-1], 2*m.SampleRate)
	}
}

func diffScaled(a, b geodesy.ECEF, dt float64) geodesy.ECEF {
	return a.Sub(b).Scale(1.0 / dt)
}

// NewStatic builds a single-position static Motion.
func NewStatic(pos geodesy.ECEF) *Motion {
	return &Motion{Mode: Static, Positions: []geodesy.ECEF{pos}, SampleRate: 0}
}

// NewDynamic builds a Motion over a pre-parsed position sequence
// sampled at sampleRate seconds apart.
func NewDynamic(positions []geodesy.ECEF, sampleRate float64) *Motion {
	return &Motion{Mode: Dynamic, Positions: positions, SampleRate: sampleRate}
}
