// Package logger owns the process-wide zerolog logger.
//
// Call Init once from main; everything else asks for Get or Component.
// Levels accepted by Options.Level, from most to least verbose:
//
//	trace, debug, info (default), warn, error
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options controls how the root logger is built.
type Options struct {
	// Level is the minimum level. Unknown or empty values mean info.
	Level string
	// Pretty switches from JSON lines to the coloured console writer.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
	// Service, when set, is stamped on every entry.
	Service string
}

var (
	mu   sync.Mutex
	root *zerolog.Logger
)

// New builds a logger from opts without touching the shared instance.
func New(opts Options) zerolog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	fields := zerolog.New(out).
		Level(parseLevel(opts.Level)).
		With().
		Timestamp().
		Caller()
	if opts.Service != "" {
		fields = fields.Str("service", opts.Service)
	}
	return fields.Logger()
}

// Init installs the shared logger. Only the first call has an effect until
// Reset is called; later calls return the logger already installed.
func Init(opts Options) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()

	if root == nil {
		zerolog.TimeFieldFormat = time.RFC3339Nano
		l := New(opts)
		root = &l
	}
	return *root
}

// Get returns the shared logger. It panics when Init has not run.
func Get() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()

	if root == nil {
		panic("logger: Get() called before Init()")
	}
	return *root
}

// Component returns a child of the shared logger tagged with name.
func Component(name string) zerolog.Logger {
	return Get().With().Str("component", name).Logger()
}

// Reset drops the shared logger so the next Init rebuilds it. Tests only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	root = nil
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
