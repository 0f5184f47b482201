// Package navload reads RINEX navigation files directly into
// ephemeris.EphemerisTable/ephemeris.IonoUtc, GPS L1 C/A records only.
// RINEX parsing is an external collaborator's job per spec.md §1 ("the
// numeric core receives already-parsed ephemeris data"), so this
// package is deliberately thin: it understands exactly the GPS NAV
// header/body fields the numeric core consumes (version 2.xx and
// 3.xx), not the teacher's full multi-constellation obs+nav reader.
// The fixed-width field layout and the whitespace-tokenized epoch
// parsing are grounded on the teacher's src/renix.go decoders
// (ReadRnxNavBody, DecodeEph, DecodeNavHeader, Str2Num/Str2Time),
// reduced to the one constellation and one record type this module
// needs.
package navload

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gpssim/internal/ephemeris"
	"gpssim/internal/gtime"
)

// uraEph maps a GPS URA index (0-15) to its upper-bound nominal value
// in meters, per ICD-GPS-200 Table 20-XII, reused in reverse by
// uraIndex below. Grounded on the teacher's ura_eph table.
var uraEph = [15]float64{
	2.4, 3.4, 4.85, 6.85, 9.65, 13.65, 24.0, 48.0, 96.0, 192.0, 384.0, 768.0, 1536.0,
	3072.0, 6144.0,
}

// uraIndex converts a URA value in meters to its broadcast index.
func uraIndex(value float64) int {
	for i, bound := range uraEph {
		if bound >= value {
			return i
		}
	}
	return 15
}

// LoadRinexNav reads a RINEX navigation file at path and returns a
// populated EphemerisTable (a single set, at index 0) plus the
// broadcast iono/UTC parameters. Only GPS records are kept; GLONASS,
// Galileo, BeiDou, QZSS, SBAS, and IRNSS records are skipped.
func LoadRinexNav(path string) (*ephemeris.EphemerisTable, *ephemeris.IonoUtc, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("navload: open %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 256), 1<<20)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("navload: read %s: %w", path, err)
	}

	p := &navParser{lines: lines}
	if err := p.readHeader(); err != nil {
		return nil, nil, fmt.Errorf("navload: %s: %w", path, err)
	}

	table := &ephemeris.EphemerisTable{Count: 1}
	n := 0
	for {
		eph, prn, ok, err := p.readRecord()
		if err != nil {
			return nil, nil, fmt.Errorf("navload: %s: %w", path, err)
		}
		if !ok {
			break
		}
		if prn <= 0 || prn >= len(table.Sets[0]) {
			continue
		}
		table.Sets[0][prn] = eph
		n++
	}
	if n == 0 {
		return nil, nil, fmt.Errorf("navload: no GPS navigation records found in %s", path)
	}

	p.iono.Enable = true
	p.iono.Valid = true
	p.iono.LeapEn = p.iono.WNlsf != 0 || p.iono.DtLSF != 0
	return table, &p.iono, nil
}

// navParser walks the line-buffered file once: readHeader consumes
// through "END OF HEADER", then readRecord is called repeatedly to
// pull one GPS ephemeris per call.
type navParser struct {
	lines []string
	pos   int
	ver   float64
	iono  ephemeris.IonoUtc
}

func field(s string, start, width int) string {
	if start < 0 || start >= len(s) {
		return ""
	}
	end := start + width
	if end > len(s) {
		end = len(s)
	}
	return s[start:end]
}

// parseFixed parses a RINEX fixed-width numeric field, tolerating the
// Fortran D-exponent notation and short/blank fields.
func parseFixed(s string, start, width int) float64 {
	raw := strings.TrimSpace(field(s, start, width))
	if raw == "" {
		return 0
	}
	raw = strings.ReplaceAll(raw, "D", "E")
	raw = strings.ReplaceAll(raw, "d", "e")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

func (p *navParser) readHeader() error {
	if len(p.lines) == 0 {
		return fmt.Errorf("empty file")
	}
	p.ver = parseFixed(p.lines[0], 0, 9)
	if p.ver == 0 {
		return fmt.Errorf("unrecognized RINEX version line %q", p.lines[0])
	}
	p.pos = 1

	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		p.pos++
		label := field(line, 60, 20)

		switch {
		case strings.Contains(label, "END OF HEADER"):
			return nil
		case strings.Contains(label, "ION ALPHA"):
			for i, j := 0, 2; i < 4; i, j = i+1, j+12 {
				p.iono.Alpha[i] = parseFixed(line, j, 12)
			}
		case strings.Contains(label, "ION BETA"):
			for i, j := 0, 2; i < 4; i, j = i+1, j+12 {
				p.iono.Beta[i] = parseFixed(line, j, 12)
			}
		case strings.Contains(label, "DELTA-UTC"):
			p.iono.A0 = parseFixed(line, 3, 19)
			p.iono.A1 = parseFixed(line, 22, 19)
			p.iono.Tot = int(parseFixed(line, 41, 9))
			p.iono.WeekNum = int(parseFixed(line, 50, 9))
		case strings.Contains(label, "IONOSPHERIC CORR"):
			switch field(line, 0, 4) {
			case "GPSA":
				for i, j := 0, 5; i < 4; i, j = i+1, j+12 {
					p.iono.Alpha[i] = parseFixed(line, j, 12)
				}
			case "GPSB":
				for i, j := 0, 5; i < 4; i, j = i+1, j+12 {
					p.iono.Beta[i] = parseFixed(line, j, 12)
				}
			}
		case strings.Contains(label, "TIME SYSTEM CORR"):
			if field(line, 0, 4) == "GPUT" {
				p.iono.A0 = parseFixed(line, 5, 17)
				p.iono.A1 = parseFixed(line, 22, 16)
				p.iono.Tot = int(parseFixed(line, 38, 7))
				p.iono.WeekNum = int(parseFixed(line, 45, 5))
			}
		case strings.Contains(label, "LEAP SECONDS"):
			p.iono.DtLS = parseFixed(line, 0, 6)
			p.iono.DtLSF = parseFixed(line, 6, 6)
			p.iono.WNlsf = int(parseFixed(line, 12, 6))
			p.iono.DN = int(parseFixed(line, 18, 6))
		}
	}
	return fmt.Errorf("missing END OF HEADER")
}

// parseEpoch reads the 6 whitespace-separated day/time tokens in the
// given field and applies RINEX2's 2-digit-year convention, matching
// the teacher's Str2Time exactly.
func parseEpoch(s string) (gtime.GpsTime, error) {
	var year, month, day, hour, minute, sec float64
	n, err := fmt.Sscanf(s, "%f %f %f %f %f %f",
		&year, &month, &day, &hour, &minute, &sec)
	if err != nil || n < 6 {
		return gtime.GpsTime{}, fmt.Errorf("bad epoch field %q", s)
	}
	if year < 100 {
		if year < 80 {
			year += 2000
		} else {
			year += 1900
		}
	}
	d := gtime.DateTime{
		Year: int(year), Month: int(month), Day: int(day),
		Hour: int(hour), Minute: int(minute), Sec: sec,
	}
	return d.ToGpsTime(), nil
}

// readRecord returns the next GPS ephemeris record, skipping records
// for other constellations (consuming and discarding their
// continuation lines so the line cursor stays in sync).
func (p *navParser) readRecord() (ephemeris.Ephemeris, int, bool, error) {
	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		p.pos++
		if strings.TrimSpace(line) == "" {
			continue
		}

		sp := 3
		isGPS := true
		var prn int
		if p.ver >= 3.0 {
			sp = 4
			sysCh := field(line, 0, 1)
			prn, _ = strconv.Atoi(strings.TrimSpace(field(line, 1, 2)))
			isGPS = sysCh == "G"
		} else {
			prn, _ = strconv.Atoi(strings.TrimSpace(field(line, 0, 2)))
		}

		toc, err := parseEpoch(field(line, sp, 19))
		if err != nil {
			return ephemeris.Ephemeris{}, 0, false, err
		}

		var data [31]float64
		for i, j := 0, sp+19; i < 3; i, j = i+1, j+19 {
			data[i] = parseFixed(line, j, 19)
		}
		for k := 0; k < 7; k++ {
			if p.pos >= len(p.lines) {
				return ephemeris.Ephemeris{}, 0, false, fmt.Errorf("truncated ephemeris record")
			}
			cont := p.lines[p.pos]
			p.pos++
			for i, j := 0, sp; i < 4; i, j = i+1, j+19 {
				data[3+k*4+i] = parseFixed(cont, j, 19)
			}
		}

		if !isGPS {
			continue
		}
		return buildEphemeris(prn, toc, data), prn, true, nil
	}
	return ephemeris.Ephemeris{}, 0, false, nil
}

// buildEphemeris maps the 31 broadcast orbit/clock fields of a GPS
// RINEX NAV record into an Ephemeris, field-for-field per the
// teacher's DecodeEph GPS branch.
func buildEphemeris(prn int, toc gtime.GpsTime, data [31]float64) ephemeris.Ephemeris {
	week := int(data[21])
	return ephemeris.Ephemeris{
		Valid: true,
		PRN:   prn,
		IODC:  int(data[26]),
		IODE:  int(data[3]),

		TOC: toc,
		TOE: gtime.GpsTime{Week: week, Sec: data[11]},

		SqrtA: data[10],
		E:     data[8],
		I0:    data[15],
		OMG0:  data[13],
		Omega: data[17],
		M0:    data[6],

		DeltaN: data[5],
		OMGDot: data[18],
		IDot:   data[19],

		Cuc: data[7],
		Cus: data[9],
		Crc: data[16],
		Crs: data[4],
		Cic: data[12],
		Cis: data[14],

		F0:  data[0],
		F1:  data[1],
		F2:  data[2],
		Tgd: data[25],

		CodeOnL2:    int(data[20]),
		L2PDataFlag: data[22] != 0,
		FitInterval: data[28] > 4.0,
		URA:         uraIndex(data[23]),
		Week:        week,
		Health:      int(data[24]),
	}
}
