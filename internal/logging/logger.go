// Package logging is a small leveled, structured logger with text and JSON
// outputs.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
)

// Level is a logging severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Format selects how entries are rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Field is one structured key-value pair.
type Field struct {
	Key   string
	Value any
}

// F builds a Field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Entry is a single rendered log record.
type Entry struct {
	Timestamp time.Time      `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// Output is a log destination.
type Output interface {
	Write(e Entry) error
	Close() error
}

// ParseLevel maps a level name to a Level, defaulting to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger fans entries out to its outputs.
type Logger struct {
	mu      *sync.RWMutex
	level   *Level
	outputs *[]Output
	fields  map[string]any
	now     func() time.Time
}

// New returns a logger at level with the given outputs.
func New(level Level, outputs ...Output) *Logger {
	return &Logger{
		mu:      &sync.RWMutex{},
		level:   &level,
		outputs: &outputs,
		fields:  map[string]any{},
		now:     time.Now,
	}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(LevelError + 1)
}

func (l *Logger) log(level Level, msg string, fields []Field) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if level < *l.level {
		return
	}

	e := Entry{
		Timestamp: l.now(),
		Level:     level.String(),
		Message:   msg,
		Fields:    make(map[string]any, len(l.fields)+len(fields)),
	}
	for k, v := range l.fields {
		e.Fields[k] = v
	}
	for _, f := range fields {
		e.Fields[f.Key] = f.Value
	}

	for _, out := range *l.outputs {
		if err := out.Write(e); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "log output failed: %v\n", err)
		}
	}
}

func (l *Logger) Debug(msg string, fields ...Field) { l.log(LevelDebug, msg, fields) }
func (l *Logger) Info(msg string, fields ...Field)  { l.log(LevelInfo, msg, fields) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.log(LevelWarn, msg, fields) }
func (l *Logger) Error(msg string, fields ...Field) { l.log(LevelError, msg, fields) }

// Infof logs a formatted message at info level.
func (l *Logger) Infof(format string, args ...any) {
	l.log(LevelInfo, fmt.Sprintf(format, args...), nil)
}

// Debugf logs a formatted message at debug level.
func (l *Logger) Debugf(format string, args ...any) {
	l.log(LevelDebug, fmt.Sprintf(format, args...), nil)
}

// With returns a child logger that adds fields to every entry. The child
// shares level and outputs with its parent.
func (l *Logger) With(fields ...Field) *Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()

	merged := make(map[string]any, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for _, f := range fields {
		merged[f.Key] = f.Value
	}
	return &Logger{mu: l.mu, level: l.level, outputs: l.outputs, fields: merged, now: l.now}
}

// SetLevel changes the minimum level.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.level = level
}

// AddOutput registers another destination.
func (l *Logger) AddOutput(out Output) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.outputs = append(*l.outputs, out)
}

// Close closes every output.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	var first error
	for _, out := range *l.outputs {
		if err := out.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type ctxKey struct{}

// NewContext returns ctx carrying l.
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger stored in ctx, or the default logger.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return Default()
}

// WriterOutput renders entries to an io.Writer.
type WriterOutput struct {
	w      io.Writer
	c      io.Closer
	format Format
	mu     sync.Mutex
}

// NewWriterOutput writes entries to w in format.
func NewWriterOutput(w io.Writer, format Format) *WriterOutput {
	return &WriterOutput{w: w, format: format}
}

// NewFileOutput appends entries to the file at path.
func NewFileOutput(path string, format Format) (*WriterOutput, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return &WriterOutput{w: f, c: f, format: format}, nil
}

// Write renders e as one line.
func (o *WriterOutput) Write(e Entry) error {
	line, err := render(e, o.format)
	if err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	_, err = fmt.Fprintln(o.w, line)
	return err
}

// Close closes the underlying file, if any.
func (o *WriterOutput) Close() error {
	if o.c == nil {
		return nil
	}
	return o.c.Close()
}

func render(e Entry, format Format) (string, error) {
	if format == FormatJSON {
		data, err := sonic.Marshal(e)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	var b strings.Builder
	b.WriteString(e.Timestamp.Format("2006/01/02 15:04:05"))
	b.WriteString(" [")
	b.WriteString(e.Level)
	b.WriteString("] ")
	b.WriteString(e.Message)

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.Fields[k])
	}
	return b.String(), nil
}
