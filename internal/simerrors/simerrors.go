// Package simerrors defines the typed error taxonomy of spec.md §7.
// Grounded on the teacher's practice of typed sentinel values (see
// src/rtklib.go's error string constants returned by its parsers)
// rather than ad hoc fmt.Errorf call sites: every fatal-at-build or
// fatal-at-run condition is a distinct, comparable value.
package simerrors

// Error is a typed, comparable error value; each named constant below
// corresponds to one row of the error taxonomy.
type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrNoEphemeris               Error = "no valid ephemeris sets in navigation data"
	ErrNavigationNotSet          Error = "no navigation/ephemeris source supplied"
	ErrDuplicatePosition         Error = "multiple positioning inputs supplied"
	ErrWrongPositions            Error = "positions sequence is empty"
	ErrInvalidDuration           Error = "duration must be non-negative"
	ErrInvalidSamplingFrequency  Error = "sample frequency below 1,000,000 Hz"
	ErrInvalidDataFormat         Error = "data format must be 1, 8, or 16 bits"
	ErrDataFormatNotSet          Error = "data format not set"
	ErrInvalidGpsWeek            Error = "invalid GPS week number for leap second"
	ErrInvalidGpsDay             Error = "invalid GPS day number, must be in [1,7]"
	ErrInvalidDeltaLeapSecond    Error = "invalid delta leap second, must be in [-128,127]"
	ErrInvalidStartTime          Error = "start time outside ephemeris validity window"
	ErrNoCurrentEphemerides      Error = "no ephemeris set within +/-1h of start time"
	ErrParsingError              Error = "upstream navigation/motion parse failed"
	ErrIoError                   Error = "output sink write failed"
)
