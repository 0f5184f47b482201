// Package trace provides the leveled diagnostic logger used by the
// numeric core, in the same spirit as the teacher's Trace/Tracet
// functions: a process-wide, file-backed, leveled printf sink that the
// hot paths call into at low frequency (Kepler non-convergence,
// ephemeris-selection misses, channel churn). It is distinct from the
// CLI's operator-facing logrus logger; this one is opt-in and mirrors a
// C-style "-x tracelevel" debug dump.
package trace

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu    sync.Mutex
	out   io.Writer
	level int
)

// Open directs trace output to path at the given level (0 disables).
// An empty path sends output to stderr.
func Open(path string, lvl int) error {
	mu.Lock()
	defer mu.Unlock()

	level = lvl
	if lvl <= 0 {
		out = nil
		return nil
	}
	if path == "" {
		out = os.Stderr
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	out = f
	return nil
}

// Close releases any open trace file.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if c, ok := out.(io.Closer); ok {
		c.Close()
	}
	out = nil
}

// Trace writes a leveled diagnostic line if lvl is within the
// configured verbosity.
func Trace(lvl int, format string, args ...interface{}) {
	mu.Lock()
	w, enabled := out, lvl <= level
	mu.Unlock()

	if !enabled || w == nil {
		return
	}
	fmt.Fprintf(w, "%d "+format, append([]interface{}{lvl}, args...)...)
}
