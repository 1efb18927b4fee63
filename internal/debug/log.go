// Package debug provides the switchable debug logger of the gateway service.
//
// Debug output is off unless enabled in the config (debug: true or
// MAPGW_DEBUG). It goes to the standard logger's writer, or appends to
// debug_file when one is configured, so engine traces can be kept apart
// from the server log.
package debug

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// Prefix starts every debug line.
const Prefix = "mapgw [DEBUG] "

// Logger interface for debug logging.
//
// Example usage:
//
//	logger := debug.GetLogger()
//	logger.Debugf("dispatching GetCapabilities for %s", m.Name())
//	logger.Debug("engine probe succeeded")
type Logger interface {
	// Debugf logs a formatted debug message
	Debugf(format string, args ...any)
	// Debug logs debug arguments
	Debug(args ...any)
}

// Options selects whether and where debug output is written.
type Options struct {
	// Enabled turns debug output on.
	Enabled bool
	// File, when set, receives debug output (appended) instead of the
	// standard logger's writer.
	File string
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Debug(...any)          {}

type stdLogger struct {
	out *log.Logger
}

func newStdLogger(w io.Writer) *stdLogger {
	return &stdLogger{out: log.New(w, Prefix, log.LstdFlags|log.Lmicroseconds|log.Lmsgprefix)}
}

func (s *stdLogger) Debugf(format string, args ...any) {
	s.out.Printf(format, args...)
}

func (s *stdLogger) Debug(args ...any) {
	s.out.Print(fmt.Sprint(args...))
}

var (
	// l is the private global debug logger (use GetLogger() to access)
	l    Logger = nopLogger{}
	once sync.Once
)

// GetLogger returns the configured debug logger.
// Always use this function to access the logger instead of storing a reference.
func GetLogger() Logger {
	return l
}

// InitLogger configures debug output from opts. Only the first call has an
// effect, even in concurrent environments. A debug file that cannot be
// opened is reported on the standard logger and debug output falls back to it.
func InitLogger(opts Options) {
	once.Do(func() {
		if !opts.Enabled {
			return
		}
		w := log.Writer()
		if opts.File != "" {
			f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) // #nosec G304 - path comes from the operator's config
			if err != nil {
				log.Printf("debug file %s unavailable, using standard log: %v", opts.File, err)
			} else {
				w = f
			}
		}
		l = newStdLogger(w)
		l.Debug("Debug logging enabled")
	})
}
