// Package gtime implements the civil DateTime / GpsTime data model and
// arithmetic of spec.md §3 and §4.1's gps_time_diff, grounded on the
// day-counting and GPS-epoch arithmetic in the teacher's
// src/common.go (Epoch2Time, Utc2GpsT, Time2GpsT, TimeDiff, TimeAdd),
// generalized from the teacher's (unix-seconds, frac) representation
// to the (week, sec-of-week) representation spec.md's data model calls
// for.
package gtime

import (
	"fmt"
	"time"

	"gpssim/internal/constants"
)

// gpsEpoch is 1980-01-06 00:00:00 UTC, the GPS time origin.
var gpsEpoch = time.Date(1980, time.January, 6, 0, 0, 0, 0, time.UTC)

// DateTime is a civil date/time: year, month, day, hour, minute and
// fractional seconds.
type DateTime struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Sec    float64 // fractional seconds, [0, 60)
}

// GpsTime is (week, sec) with sec in [0, 604800).
type GpsTime struct {
	Week int
	Sec  float64
}

// Now returns the current instant as a DateTime in UTC.
func Now() DateTime {
	t := time.Now().UTC()
	return DateTime{
		Year:   t.Year(),
		Month:  int(t.Month()),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Sec:    float64(t.Second()) + float64(t.Nanosecond())/1e9,
	}
}

// ToGpsTime converts a civil DateTime to GpsTime, bijective modulo the
// leap-second policy applied by the caller (this engine, like the
// reference C implementation, treats broadcast GPS time as already
// leap-second-free; UTC-GPS leap handling lives in IonoUtc, not here).
func (d DateTime) ToGpsTime() GpsTime {
	t := time.Date(d.Year, time.Month(d.Month), d.Day, d.Hour, d.Minute, 0, 0, time.UTC)
	whole := t.Sub(gpsEpoch).Seconds()
	total := whole + d.Sec

	week := int(total / constants.SecondsInWeek)
	sec := total - float64(week)*constants.SecondsInWeek
	return GpsTime{Week: week, Sec: sec}
}

// ToDateTime converts a GpsTime back to a civil DateTime.
func (g GpsTime) ToDateTime() DateTime {
	total := float64(g.Week)*constants.SecondsInWeek + g.Sec
	whole := int64(total)
	frac := total - float64(whole)

	t := gpsEpoch.Add(time.Duration(whole) * time.Second)
	return DateTime{
		Year:   t.Year(),
		Month:  int(t.Month()),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Sec:    float64(t.Second()) + frac,
	}
}

// Diff implements gps_time_diff(a, b): (a.week-b.week)*604800 +
// (a.sec-b.sec), exact in floating point for sub-week intervals.
func Diff(a, b GpsTime) float64 {
	return float64(a.Week-b.Week)*constants.SecondsInWeek + (a.Sec - b.Sec)
}

// Add returns t shifted by delta seconds, renormalizing week/sec so
// Sec stays within [0, 604800).
func Add(t GpsTime, delta float64) GpsTime {
	sec := t.Sec + delta
	week := t.Week

	for sec >= constants.SecondsInWeek {
		sec -= constants.SecondsInWeek
		week++
	}
	for sec < 0 {
		sec += constants.SecondsInWeek
		week--
	}
	return GpsTime{Week: week, Sec: sec}
}

// WrapToWeekHalf corrects tk (typically t - TOE) for week rollover so
// that |tk| <= 302400, per the GPS ICD's orbit-model time argument.
func WrapToWeekHalf(tk float64) float64 {
	switch {
	case tk > constants.SecondsInWeek/2:
		return tk - constants.SecondsInWeek
	case tk < -constants.SecondsInWeek/2:
		return tk + constants.SecondsInWeek
	default:
		return tk
	}
}

// String renders the GpsTime as "week:sec" for logging.
func (g GpsTime) String() string {
	return fmt.Sprintf("%d:%.3f", g.Week, g.Sec)
}
