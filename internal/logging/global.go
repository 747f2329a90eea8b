package logging

import (
	"os"
	"sync"
)

var (
	defaultMu     sync.RWMutex
	defaultLogger = New(LevelWarn, NewWriterOutput(os.Stderr, FormatText))
)

// Options configures Init.
type Options struct {
	Level  string
	Format string
	File   string
	// Console also writes to stderr when File is set.
	Console bool
}

// Init builds a logger from opts and installs it as the default.
func Init(opts Options) (*Logger, error) {
	format := FormatText
	if Format(opts.Format) == FormatJSON {
		format = FormatJSON
	}

	l := New(ParseLevel(opts.Level))
	if opts.File == "" || opts.Console {
		l.AddOutput(NewWriterOutput(os.Stderr, format))
	}
	if opts.File != "" {
		out, err := NewFileOutput(opts.File, format)
		if err != nil {
			return nil, err
		}
		l.AddOutput(out)
	}

	SetDefault(l)
	return l, nil
}

// Default returns the package-level logger.
func Default() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault replaces the package-level logger.
func SetDefault(l *Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}
