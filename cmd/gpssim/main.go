// Command gpssim synthesizes a GPS L1 C/A baseband IQ sample stream
// from a RINEX navigation file and a receiver trajectory, per spec.md.
// Its command-line surface is grounded on the teacher's
// app/convbin/convbin.go driver: stdlib flag with a handful of custom
// flag.Value implementations, a searchable help array, and a
// parse-then-validate-then-run main body.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"gpssim/config"
	"gpssim/internal/constants"
	"gpssim/internal/format"
	"gpssim/internal/geodesy"
	"gpssim/internal/gtime"
	"gpssim/internal/navload"
	"gpssim/internal/trace"

	"github.com/sirupsen/logrus"
)

const prgName = "gpssim"

var help = []string{
	"",
	" Synopsys",
	"",
	" gpssim [option ...] -e nav.rnx",
	"",
	" Description",
	"",
	" Generate a GPS L1 C/A baseband IQ sample stream from a RINEX",
	" navigation file and a static receiver position (-l or -x).",
	"",
	" Options",
	"",
	" -e file     input RINEX navigation file (required)",
	" -o file     output sample file (default: stdout)",
	" -l lat,lon,height  static receiver position, WGS-84 degrees/meters",
	" -x X,Y,Z    static receiver position, ECEF meters",
	" -t y/m/d,h:m:s  simulation start time (UTC); default: earliest TOC",
	" -T          enable time-override (shift ephemerides to -t)",
	" -d sec      simulation duration in seconds",
	" -s hz       RF sample frequency in Hz (default 2.6e6)",
	" -b bits     output format: 1, 8 or 16 (default 8)",
	" -m deg      elevation mask in degrees (default 0)",
	" -g db       fixed path gain in dB (disables the path-loss model)",
	" -leap wnlsf,dn,dtlsf  leap-second override triple",
	" -noion      disable the ionospheric correction",
	" -trace n    diagnostic trace level (0 disables)",
	"",
}

func searchHelp(key string) string {
	for _, v := range help {
		if strings.Contains(v, key) {
			return v
		}
	}
	return "no supported argument"
}

// timeFlag parses "y/m/d,h:m:s" into a gtime.GpsTime via flag.Value.
type timeFlag struct {
	out        *gtime.GpsTime
	configured bool
}

func (f *timeFlag) Set(s string) error {
	var d gtime.DateTime
	n, err := fmt.Sscanf(s, "%d/%d/%d,%d:%d:%f", &d.Year, &d.Month, &d.Day, &d.Hour, &d.Minute, &d.Sec)
	if err != nil || n < 6 {
		return fmt.Errorf("expected y/m/d,h:m:s, got %q", s)
	}
	*f.out = d.ToGpsTime()
	f.configured = true
	return nil
}

func (f *timeFlag) String() string { return "2000/1/1,0:0:0" }

func newTimeFlag(out *gtime.GpsTime) *timeFlag { return &timeFlag{out: out} }

// triadFlag parses "a,b,c" into three float64s via flag.Value.
type triadFlag struct {
	out        *[3]float64
	configured bool
}

func (f *triadFlag) Set(s string) error {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return fmt.Errorf("expected a,b,c, got %q", s)
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return fmt.Errorf("bad component %q: %w", p, err)
		}
		f.out[i] = v
	}
	f.configured = true
	return nil
}

func (f *triadFlag) String() string { return "0,0,0" }

func newTriadFlag(out *[3]float64) *triadFlag { return &triadFlag{out: out} }

// leapFlag parses "wnlsf,dn,dtlsf".
type leapFlag struct {
	wnlsf, dn  int
	dtlsf      float64
	configured bool
}

func (f *leapFlag) Set(s string) error {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return fmt.Errorf("expected wnlsf,dn,dtlsf, got %q", s)
	}
	wnlsf, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	dn, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	dtlsf, err3 := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return fmt.Errorf("bad leap triple %q", s)
	}
	f.wnlsf, f.dn, f.dtlsf = wnlsf, dn, dtlsf
	f.configured = true
	return nil
}

func (f *leapFlag) String() string { return "0,0,0" }

// cliOptions bundles every parsed flag value.
type cliOptions struct {
	navFile    string
	outFile    string
	llh        [3]float64
	llhFlag    *triadFlag
	ecef       [3]float64
	ecefFlag   *triadFlag
	start      gtime.GpsTime
	startFlag  *timeFlag
	override   bool
	duration   float64
	durationSet bool
	sampleFreq float64
	dataBits   int
	elevMask   float64
	fixedGain  int
	gainSet    bool
	leap       *leapFlag
	noIon      bool
	traceLevel int
}

func parseArgs(args []string) (*cliOptions, error) {
	fs := flag.NewFlagSet(prgName, flag.ContinueOnError)
	opt := &cliOptions{sampleFreq: constants.DefaultSampleFreqHz, dataBits: 8}

	fs.StringVar(&opt.navFile, "e", "", searchHelp("-e file"))
	fs.StringVar(&opt.outFile, "o", "", searchHelp("-o file"))

	opt.llhFlag = newTriadFlag(&opt.llh)
	fs.Var(opt.llhFlag, "l", searchHelp("-l lat"))

	opt.ecefFlag = newTriadFlag(&opt.ecef)
	fs.Var(opt.ecefFlag, "x", searchHelp("-x X,Y,Z"))

	opt.startFlag = newTimeFlag(&opt.start)
	fs.Var(opt.startFlag, "t", searchHelp("-t y/m/d"))

	fs.BoolVar(&opt.override, "T", false, searchHelp("-T "))
	fs.Float64Var(&opt.duration, "d", 0, searchHelp("-d sec"))
	fs.Float64Var(&opt.sampleFreq, "s", opt.sampleFreq, searchHelp("-s hz"))
	fs.IntVar(&opt.dataBits, "b", opt.dataBits, searchHelp("-b bits"))
	fs.Float64Var(&opt.elevMask, "m", 0, searchHelp("-m deg"))
	fs.IntVar(&opt.fixedGain, "g", 0, searchHelp("-g db"))

	opt.leap = &leapFlag{}
	fs.Var(opt.leap, "leap", searchHelp("-leap wnlsf"))

	fs.BoolVar(&opt.noIon, "noion", false, searchHelp("-noion"))
	fs.IntVar(&opt.traceLevel, "trace", 0, searchHelp("-trace n"))

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	opt.durationSet = durationFlagSet(fs)
	opt.gainSet = gainFlagSet(fs)
	return opt, nil
}

func durationFlagSet(fs *flag.FlagSet) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "d" {
			found = true
		}
	})
	return found
}

func gainFlagSet(fs *flag.FlagSet) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "g" {
			found = true
		}
	})
	return found
}

func run(opt *cliOptions) error {
	if opt.navFile == "" {
		return fmt.Errorf("no input navigation file (-e)")
	}

	table, iono, err := navload.LoadRinexNav(opt.navFile)
	if err != nil {
		return err
	}

	sink := os.Stdout
	var out *os.File
	if opt.outFile != "" {
		f, err := os.Create(opt.outFile)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	} else {
		out = sink
	}

	b, err := config.New().WithNavigation(table, iono)
	if err != nil {
		return err
	}

	switch {
	case opt.ecefFlag.configured:
		b, err = b.WithStaticECEF(geodesy.ECEF{X: opt.ecef[0], Y: opt.ecef[1], Z: opt.ecef[2]})
	case opt.llhFlag.configured:
		b, err = b.WithStaticLLH(opt.llh[0], opt.llh[1], opt.llh[2])
	}
	if err != nil {
		return err
	}

	if opt.startFlag.configured {
		b = b.WithStartTime(opt.start)
	}
	b = b.WithTimeOverride(opt.override)
	if opt.durationSet {
		b = b.WithDuration(opt.duration)
	}
	b = b.WithSampleFrequency(opt.sampleFreq)
	if b, err = b.WithDataFormat(opt.dataBits); err != nil {
		return err
	}
	if opt.leap.configured {
		b = b.WithLeap(opt.leap.wnlsf, opt.leap.dn, opt.leap.dtlsf)
	}
	b = b.WithIonosphericDisable(opt.noIon)
	if opt.gainSet {
		b = b.WithFixedGain(opt.fixedGain)
	}
	b = b.WithElevationMask(opt.elevMask)
	b = b.WithOutput(out)

	engine, err := b.Finalize()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	n, err := engine.Run(ctx)
	if err != nil {
		return err
	}
	logrus.Infof("wrote %d sample pairs (%d bytes)", n, int64(float64(n)*format.BytesPerPair(format.Kind(opt.dataBits))))
	return nil
}

func main() {
	opt, err := parseArgs(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	if opt.traceLevel > 0 {
		trace.Open("", opt.traceLevel)
		defer trace.Close()
	}

	if err := run(opt); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", prgName, err)
		os.Exit(1)
	}
}
