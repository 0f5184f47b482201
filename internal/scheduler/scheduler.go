// Package scheduler implements spec.md §4.5: the fixed-rate loop
// driving epochs at the position sample rate, updating per-channel
// observables and nav-message bits, then emitting I/Q samples at the
// RF sample rate. Grounded on the teacher's single-threaded,
// epoch-then-inner-loop structure (src/rtksvr.go's server tick /
// process-then-drain-buffer pattern), generalized from RTK solution
// epochs to signal-synthesis sample epochs.
package scheduler

import (
	"context"
	"math"

	"gpssim/internal/acquisition"
	"gpssim/internal/constants"
	"gpssim/internal/ephemeris"
	"gpssim/internal/format"
	"gpssim/internal/geodesy"
	"gpssim/internal/gtime"
	"gpssim/internal/metrics"
	"gpssim/internal/motion"
	"gpssim/internal/navmsg"
	"gpssim/internal/trace"

	"github.com/sirupsen/logrus"
)

// Config bundles everything the scheduler needs that is fixed for
// the whole run, separate from the mutable SimulationState it owns.
type Config struct {
	Table        *ephemeris.EphemerisTable
	Iono         *ephemeris.IonoUtc
	CurrentSet   int
	StartTime    gtime.GpsTime
	Motion       *motion.Motion
	SampleFreqHz float64
	DataFormat   format.Kind
	ElevationMaskDeg float64
	FixedGainDB  *int
	DurationSec  *float64
	Log          *logrus.Logger
}

// gain scale constants, chosen so MAX_CHAN simultaneously active
// signals summed at max gain don't clip the accumulator before
// format.Writer's per-format saturation, per spec.md §4.2's gain note.
const (
	gainScaleBits8  = 16.0
	gainScaleBits16 = 4096.0
	rangeRefMeters  = 20200000.0 // nominal GPS orbital range
)

// Scheduler owns the SimulationState and channel table exclusively,
// per spec.md §5's ownership rule.
type Scheduler struct {
	cfg Config

	channels *acquisition.Table
	builders [constants.MaxChan]navmsg.Builder
	lastBitPos [constants.MaxChan]int

	currentTime gtime.GpsTime
	sampleCount int64

	gainScale float64
}

// New constructs a Scheduler from cfg, allocating the initial channel
// table from the aligned ephemeris set.
func New(cfg Config) *Scheduler {
	s := &Scheduler{
		cfg:         cfg,
		channels:    acquisition.NewTable(cfg.ElevationMaskDeg),
		currentTime: cfg.StartTime,
	}
	for i := range s.lastBitPos {
		s.lastBitPos[i] = -1
	}
	switch cfg.DataFormat {
	case format.Bits8:
		s.gainScale = gainScaleBits8
	case format.Bits16:
		s.gainScale = gainScaleBits16
	default:
		s.gainScale = gainScaleBits8
	}
	return s
}

// totalEpochs computes N, the number of position epochs to run, per
// spec.md §4.5 step 1 and the builder's duration/motion-length rules.
func (s *Scheduler) totalEpochs() int {
	n := s.cfg.Motion.Len()
	if s.cfg.DurationSec != nil {
		durationCount := int(*s.cfg.DurationSec/s.cfg.Motion.SampleRateOrDefault() + 0.5)
		if s.cfg.Motion.Mode == motion.Static {
			n = durationCount
		} else if durationCount < n {
			n = durationCount
		}
	}
	return n
}

// Run drives the full simulation, writing packed samples to w. It
// returns the number of (I,Q) pairs emitted and any error encountered;
// ctx cancellation is polled once per epoch, per spec.md §5.
func (s *Scheduler) Run(ctx context.Context, w *format.Writer) (int64, error) {
	dt := s.cfg.Motion.SampleRateOrDefault()
	samplesPerEpoch := int(s.cfg.SampleFreqHz*dt + 0.5)
	epochs := s.totalEpochs()

	for k := 0; k < epochs; k++ {
		select {
		case <-ctx.Done():
			trace.Trace(1, "scheduler: cancelled at epoch %d\n", k)
			return s.sampleCount, w.Flush()
		default:
		}

		userECEF, ok := s.cfg.Motion.At(k)
		if !ok {
			break
		}
		userVel := s.cfg.Motion.VelocityAt(k)
		userPos := userECEF.ToLLH()

		epochTime := gtime.Add(s.cfg.StartTime, float64(k)*dt)
		s.currentTime = epochTime

		set := &s.cfg.Table.Sets[s.cfg.CurrentSet]
		candidates := acquisition.Evaluate(set, epochTime, userPos, userECEF)
		admitted := s.channels.Update(candidates, epochTime.Sec, userVel)
		for _, prn := range admitted {
			if idx := s.slotOf(prn); idx >= 0 {
				s.builders[idx].Reset()
				s.lastBitPos[idx] = -1
			}
		}

		s.applyDelaysAndGain(userPos)
		s.refreshNavBits(epochTime)

		if err := s.emitEpochSamples(samplesPerEpoch, w); err != nil {
			return s.sampleCount, err
		}
		metrics.Get().EpochsProcessed.Inc()
	}

	return s.sampleCount, w.Flush()
}

func (s *Scheduler) slotOf(prn int) int {
	for i, ch := range s.channels.Channels {
		if ch != nil && ch.PRN == prn {
			return i
		}
	}
	return -1
}

// applyDelaysAndGain adds ionospheric/tropospheric delay to each
// channel's Range and computes this epoch's gain from it, per
// spec.md §4.1/§4.2. The delays enter only the path-loss gain; the
// code and carrier rates are left unchanged.
func (s *Scheduler) applyDelaysAndGain(userPos geodesy.LLH) {
	for _, ch := range s.channels.Channels {
		if ch == nil {
			continue
		}
		ionoDelay := ephemeris.IonosphericDelay(s.cfg.Iono, userPos, ch.Azimuth, ch.Elevation, s.currentTime)
		tropoDelay := ephemeris.TroposphericDelay(userPos.Lat, ch.Elevation, userPos.H)
		ch.Range += ionoDelay + tropoDelay

		if s.cfg.FixedGainDB != nil {
			ch.Gain = math.Pow(10.0, float64(*s.cfg.FixedGainDB)/20.0)
			continue
		}
		pathLossDB := 20.0 * math.Log10(ch.Range/rangeRefMeters)
		ch.Gain = math.Floor(s.gainScale * math.Pow(10.0, -pathLossDB/20.0))
		if ch.Gain < 1 {
			ch.Gain = 1
		}
	}
}

// lnavFrameSec is the duration of a full 5-subframe LNAV frame
// (5 * 300 bits / 50 bps = 30 s), after which a fresh set of
// subframes must be built with the next TOW count.
const lnavFrameSec = 30.0

// refreshNavBits advances each channel's data-bit pointer to the bit
// addressed by the current time within the 30s LNAV frame, rebuilding
// the frame's subframes whenever time wraps into a new frame (or on
// first admission), per spec.md §4.3/§4.5.
func (s *Scheduler) refreshNavBits(t gtime.GpsTime) {
	frameSec := math.Mod(t.Sec, lnavFrameSec)
	bitPos := int(frameSec / constants.NavBitDurationSec)
	if bitPos >= 1500 {
		bitPos = 1499
	}

	for i, ch := range s.channels.Channels {
		if ch == nil {
			continue
		}
		if s.lastBitPos[i] < 0 || bitPos < s.lastBitPos[i] {
			frameStart := t.Sec - frameSec
			towCount := navmsg.TowCount(frameStart)
			set := &s.cfg.Table.Sets[s.cfg.CurrentSet][ch.PRN]
			subframes := navmsg.BuildAll(set, s.cfg.Iono, towCount, &s.builders[i])
			for sf := 0; sf < 5; sf++ {
				for word := 0; word < 10; word++ {
					writeWordBits(&ch.Subframes[sf][word], subframes[sf][word])
				}
			}
			ch.NextSubframe = 1
		}
		s.lastBitPos[i] = bitPos

		sf := bitPos / 300
		within := bitPos % 300
		word := within / 30
		bit := within % 30
		if ch.Subframes[sf][word][bit] == 0 {
			ch.DataBit = 1
		} else {
			ch.DataBit = -1
		}
	}
}

func writeWordBits(dst *[30]uint8, word uint32) {
	for i := 0; i < 30; i++ {
		bit := (word >> uint(29-i)) & 1
		dst[i] = uint8(bit)
	}
}

// emitEpochSamples runs the per-sample inner loop for one epoch,
// summing gain*chip*carrier across active channels and writing each
// (I,Q) pair, per spec.md §4.5 step 4.
func (s *Scheduler) emitEpochSamples(n int, w *format.Writer) error {
	for i := 0; i < n; i++ {
		var isum, qsum int32
		for _, ch := range s.channels.Channels {
			if ch == nil {
				continue
			}
			chip, cosv, sinv := ch.AdvanceSample(s.cfg.SampleFreqHz)
			g := int32(ch.Gain)
			bit := int32(chip)
			isum += g * bit * int32(cosv)
			qsum += g * bit * int32(sinv)
		}
		if err := w.WritePair(isum, qsum); err != nil {
			return err
		}
		s.sampleCount++
	}
	metrics.Get().SamplesEmitted.Add(float64(n))
	return nil
}
