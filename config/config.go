// Package config implements the configuration builder of spec.md §6
// and §9's "Builder with many optional fields" design note: a plain
// record with chainable With* setters and validation concentrated in
// a single Finalize step. Grounded on
// original_source/crates/gps/src/generator/builder.rs's
// SignalGeneratorBuilder, translated from Rust's consuming `self`
// chain into Go's pointer-receiver chain (the idiom the teacher uses
// for its own option structs, e.g. src/options.go's PrcOpt).
package config

import (
	"context"
	"io"

	"gpssim/internal/align"
	"gpssim/internal/constants"
	"gpssim/internal/ephemeris"
	"gpssim/internal/format"
	"gpssim/internal/geodesy"
	"gpssim/internal/gtime"
	"gpssim/internal/motion"
	"gpssim/internal/scheduler"
	"gpssim/internal/simerrors"

	"github.com/sirupsen/logrus"
)

// PositionMode tags which of the mutually exclusive positioning
// inputs was supplied, per spec.md §6's "exactly one of" rule.
type PositionMode int

const (
	positionNone PositionMode = iota
	PositionStaticECEF
	PositionStaticLLH
	PositionMotionECEF
	PositionMotionLLH
)

// Builder accumulates optional engine configuration through chained
// With* calls; nothing is validated until Finalize.
type Builder struct {
	table *ephemeris.EphemerisTable
	iono  *ephemeris.IonoUtc
	navigationSet bool

	positionMode PositionMode
	positions    []geodesy.ECEF
	motionRate   float64

	startTime    *gtime.GpsTime
	timeOverride bool

	durationSec *float64
	sampleFreq  float64
	dataFormat  *format.Kind

	leapSet bool
	wnlsf, dn int
	dtlsf     float64

	ionosphericDisable bool
	fixedGainDB        *int
	elevationMaskDeg   float64

	sink io.Writer

	log *logrus.Logger
}

// New returns an empty Builder with the spec's documented defaults
// (elevation mask 0deg, sample rate 2.6MHz, iono enabled).
func New() *Builder {
	return &Builder{
		sampleFreq:       constants.DefaultSampleFreqHz,
		elevationMaskDeg: 0,
		motionRate:       constants.DefaultPositionSampleRate,
		log:              logrus.StandardLogger(),
	}
}

// WithLogger overrides the logrus logger used for build-time warnings.
func (b *Builder) WithLogger(log *logrus.Logger) *Builder {
	b.log = log
	return b
}

// WithNavigation supplies an already-parsed ephemeris table and
// iono/UTC set (RINEX parsing is an external collaborator per
// spec.md §1). Returns ErrNoEphemeris immediately if count == 0.
func (b *Builder) WithNavigation(table *ephemeris.EphemerisTable, iono *ephemeris.IonoUtc) (*Builder, error) {
	if table.Count == 0 {
		return b, simerrors.ErrNoEphemeris
	}
	b.table = table
	b.iono = iono
	b.navigationSet = true
	return b, nil
}

func (b *Builder) setPositionMode(mode PositionMode) error {
	if b.positionMode != positionNone {
		return simerrors.ErrDuplicatePosition
	}
	b.positionMode = mode
	return nil
}

// WithStaticECEF sets a single fixed receiver position in ECEF meters.
func (b *Builder) WithStaticECEF(pos geodesy.ECEF) (*Builder, error) {
	if err := b.setPositionMode(PositionStaticECEF); err != nil {
		return b, err
	}
	b.positions = []geodesy.ECEF{pos}
	return b, nil
}

// WithStaticLLH sets a single fixed receiver position in geodetic
// degrees/meters, converted to ECEF internally.
func (b *Builder) WithStaticLLH(latDeg, lonDeg, heightM float64) (*Builder, error) {
	if err := b.setPositionMode(PositionStaticLLH); err != nil {
		return b, err
	}
	llh := geodesy.LLH{Lat: latDeg * constants.D2R, Lon: lonDeg * constants.D2R, H: heightM}
	b.positions = []geodesy.ECEF{llh.ToECEF()}
	return b, nil
}

// WithMotionECEF sets an ordered dynamic-mode ECEF position sequence
// sampled every sampleRate seconds.
func (b *Builder) WithMotionECEF(positions []geodesy.ECEF, sampleRate float64) (*Builder, error) {
	if err := b.setPositionMode(PositionMotionECEF); err != nil {
		return b, err
	}
	b.positions = positions
	b.motionRate = sampleRate
	return b, nil
}

// WithMotionLLH is WithMotionECEF for geodetic degrees/meters input.
func (b *Builder) WithMotionLLH(positions []geodesy.LLH, sampleRate float64) (*Builder, error) {
	if err := b.setPositionMode(PositionMotionLLH); err != nil {
		return b, err
	}
	ecef := make([]geodesy.ECEF, len(positions))
	for i, p := range positions {
		ecef[i] = geodesy.LLH{Lat: p.Lat * constants.D2R, Lon: p.Lon * constants.D2R, H: p.H}.ToECEF()
	}
	b.positions = ecef
	b.motionRate = sampleRate
	return b, nil
}

// WithStartTime sets the simulation's GPS start time explicitly;
// without a call to this, Finalize defaults to the ephemeris table's
// earliest TOC.
func (b *Builder) WithStartTime(t gtime.GpsTime) *Builder {
	b.startTime = &t
	return b
}

// WithTimeOverride enables the shift-all-TOC/TOE mode of spec.md §4.6.
func (b *Builder) WithTimeOverride(enable bool) *Builder {
	b.timeOverride = enable
	return b
}

// WithDuration sets the simulation duration in seconds.
func (b *Builder) WithDuration(sec float64) *Builder {
	b.durationSec = &sec
	return b
}

// WithSampleFrequency sets the RF sample rate in Hz (must be >= 1MHz,
// checked at Finalize).
func (b *Builder) WithSampleFrequency(hz float64) *Builder {
	b.sampleFreq = hz
	return b
}

// WithDataFormat selects the output packing: 1, 8, or 16 bits.
func (b *Builder) WithDataFormat(bits int) (*Builder, error) {
	switch bits {
	case 1:
		k := format.Bits1
		b.dataFormat = &k
	case 8:
		k := format.Bits8
		b.dataFormat = &k
	case 16:
		k := format.Bits16
		b.dataFormat = &k
	default:
		return b, simerrors.ErrInvalidDataFormat
	}
	return b, nil
}

// WithLeap sets the leap-second override triple (WNlsf, DN, dtLSF).
// Out-of-range values are warned here (non-fatal) and rejected again,
// fatally, at Finalize, per spec.md §7's "defense in depth".
func (b *Builder) WithLeap(wnlsf, dn int, dtlsf float64) *Builder {
	b.leapSet = true
	b.wnlsf, b.dn, b.dtlsf = wnlsf, dn, dtlsf
	if wnlsf < 0 {
		b.log.Warnf("invalid GPS week number for leap second: %d", wnlsf)
	}
	if dn < 1 || dn > 7 {
		b.log.Warnf("invalid GPS day number for leap second: %d", dn)
	}
	if dtlsf < -128 || dtlsf > 127 {
		b.log.Warnf("invalid delta leap second: %v", dtlsf)
	}
	return b
}

// WithIonosphericDisable disables the Klobuchar correction entirely.
func (b *Builder) WithIonosphericDisable(disable bool) *Builder {
	b.ionosphericDisable = disable
	return b
}

// WithFixedGain overrides the path-loss model with a constant gain.
func (b *Builder) WithFixedGain(gainDB int) *Builder {
	b.fixedGainDB = &gainDB
	return b
}

// WithElevationMask sets the admission elevation mask in degrees.
func (b *Builder) WithElevationMask(deg float64) *Builder {
	b.elevationMaskDeg = deg
	return b
}

// WithOutput sets the writable byte sink samples are written to.
func (b *Builder) WithOutput(sink io.Writer) *Builder {
	b.sink = sink
	return b
}

// Engine is a fully validated, ready-to-run signal generator.
type Engine struct {
	sched *scheduler.Scheduler
	out   *format.Writer
}

// Finalize validates the accumulated configuration and either returns
// a ready Engine or a typed error, per spec.md §7/§9.
func (b *Builder) Finalize() (*Engine, error) {
	if !b.navigationSet {
		return nil, simerrors.ErrNavigationNotSet
	}

	if b.leapSet {
		b.iono.LeapEn = true
		b.iono.WNlsf = b.wnlsf
		b.iono.DN = b.dn
		b.iono.DtLSF = b.dtlsf
		if b.dn < 1 || b.dn > 7 {
			return nil, simerrors.ErrInvalidGpsDay
		}
		if b.wnlsf < 0 {
			return nil, simerrors.ErrInvalidGpsWeek
		}
		if b.dtlsf < -128 || b.dtlsf > 127 {
			return nil, simerrors.ErrInvalidDeltaLeapSecond
		}
	}

	dynamicRequested := b.positionMode == PositionMotionECEF || b.positionMode == PositionMotionLLH
	if dynamicRequested && len(b.positions) == 0 {
		return nil, simerrors.ErrWrongPositions
	}

	var mot *motion.Motion
	switch {
	case len(b.positions) == 0:
		llh := geodesy.LLH{Lat: 35.681298 * constants.D2R, Lon: 139.766247 * constants.D2R, H: 10.0}
		mot = motion.NewStatic(llh.ToECEF())
	case len(b.positions) == 1:
		mot = motion.NewStatic(b.positions[0])
	default:
		mot = motion.NewDynamic(b.positions, b.motionRate)
	}

	if b.durationSec != nil && *b.durationSec < 0 {
		return nil, simerrors.ErrInvalidDuration
	}
	if b.sampleFreq < constants.MinSampleFreqHz {
		return nil, simerrors.ErrInvalidSamplingFrequency
	}
	if b.dataFormat == nil {
		return nil, simerrors.ErrDataFormatNotSet
	}
	if b.sink == nil {
		return nil, simerrors.ErrIoError
	}

	result, err := align.Align(b.table, b.iono, b.startTime, b.timeOverride)
	if err != nil {
		return nil, err
	}

	b.iono.Enable = !b.ionosphericDisable

	writer, err := format.NewWriter(b.sink, *b.dataFormat)
	if err != nil {
		return nil, err
	}

	sched := scheduler.New(scheduler.Config{
		Table:            b.table,
		Iono:             b.iono,
		CurrentSet:       result.CurrentSet,
		StartTime:        result.StartTime,
		Motion:           mot,
		SampleFreqHz:     b.sampleFreq,
		DataFormat:       *b.dataFormat,
		ElevationMaskDeg: b.elevationMaskDeg,
		FixedGainDB:      b.fixedGainDB,
		DurationSec:      b.durationSec,
		Log:              b.log,
	})

	return &Engine{sched: sched, out: writer}, nil
}

// Run drives the engine to completion, writing the packed I/Q stream
// to the configured output sink. ctx is polled once per position
// epoch for cooperative cancellation, per spec.md §5.
func (e *Engine) Run(ctx context.Context) (int64, error) {
	return e.sched.Run(ctx, e.out)
}
