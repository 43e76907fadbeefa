// Package logging provides the structured logger used across the service.
// Output is JSON lines by default; the text format adds terminal colors for
// local development.
package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// LogLevel orders log severities from DEBUG up to FATAL
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR", "FATAL"}

func (l LogLevel) String() string {
	if l < DEBUG || l > FATAL {
		return "INFO"
	}
	return levelNames[l]
}

var levelColors = [...]*color.Color{
	DEBUG: color.New(color.FgCyan),
	INFO:  color.New(color.FgGreen),
	WARN:  color.New(color.FgYellow),
	ERROR: color.New(color.FgRed),
	FATAL: color.New(color.FgRed, color.Bold),
}

// Logger is the structured logging interface used across the service
type Logger interface {
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Fatal(msg string, fields ...interface{})

	// Context-aware variants pick up the trace ID stored on the context
	InfoContext(ctx context.Context, msg string, fields ...interface{})
	WarnContext(ctx context.Context, msg string, fields ...interface{})
	ErrorContext(ctx context.Context, msg string, fields ...interface{})
	DebugContext(ctx context.Context, msg string, fields ...interface{})

	WithTraceID(traceID string) Logger
	WithComponent(component string) Logger
}

type contextKey string

const traceIDKey contextKey = "trace_id"

// entry is one structured log record
type entry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	TraceID   string                 `json:"trace_id,omitempty"`
	Component string                 `json:"component,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// StructuredLogger writes leveled entries as JSON lines or colorized text
type StructuredLogger struct {
	out       io.Writer
	level     LogLevel
	traceID   string
	component string
	textMode  bool
}

// NewLogger creates a JSON logger at the given level
func NewLogger(level LogLevel) Logger {
	return NewLoggerWithFormat(level, "json")
}

// NewLoggerWithFormat creates a logger with an explicit output format,
// "json" or "text"
func NewLoggerWithFormat(level LogLevel, format string) Logger {
	return &StructuredLogger{
		out:      os.Stdout,
		level:    level,
		textMode: format == "text",
	}
}

func (l *StructuredLogger) clone() *StructuredLogger {
	c := *l
	return &c
}

// WithTraceID returns a copy of the logger bound to a trace ID
func (l *StructuredLogger) WithTraceID(traceID string) Logger {
	c := l.clone()
	c.traceID = traceID
	return c
}

// WithComponent returns a copy of the logger bound to a component name
func (l *StructuredLogger) WithComponent(component string) Logger {
	c := l.clone()
	c.component = component
	return c
}

func (l *StructuredLogger) Info(msg string, fields ...interface{}) {
	l.emit(INFO, "", msg, fields)
}

func (l *StructuredLogger) Warn(msg string, fields ...interface{}) {
	l.emit(WARN, "", msg, fields)
}

func (l *StructuredLogger) Error(msg string, fields ...interface{}) {
	l.emit(ERROR, "", msg, fields)
}

func (l *StructuredLogger) Debug(msg string, fields ...interface{}) {
	l.emit(DEBUG, "", msg, fields)
}

// Fatal logs the entry and exits the process
func (l *StructuredLogger) Fatal(msg string, fields ...interface{}) {
	l.emit(FATAL, "", msg, fields)
	os.Exit(1)
}

func (l *StructuredLogger) InfoContext(ctx context.Context, msg string, fields ...interface{}) {
	l.emit(INFO, GetTraceID(ctx), msg, fields)
}

func (l *StructuredLogger) WarnContext(ctx context.Context, msg string, fields ...interface{}) {
	l.emit(WARN, GetTraceID(ctx), msg, fields)
}

func (l *StructuredLogger) ErrorContext(ctx context.Context, msg string, fields ...interface{}) {
	l.emit(ERROR, GetTraceID(ctx), msg, fields)
}

func (l *StructuredLogger) DebugContext(ctx context.Context, msg string, fields ...interface{}) {
	l.emit(DEBUG, GetTraceID(ctx), msg, fields)
}

func (l *StructuredLogger) emit(level LogLevel, ctxTraceID, msg string, kv []interface{}) {
	if level < l.level {
		return
	}

	// Context trace ID takes precedence over the logger's own.
	traceID := l.traceID
	if ctxTraceID != "" {
		traceID = ctxTraceID
	}

	e := entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level.String(),
		Message:   msg,
		TraceID:   traceID,
		Component: l.component,
		Fields:    pairFields(kv),
	}

	if l.textMode {
		l.writeText(e, level)
	} else {
		l.writeJSON(e)
	}
}

// pairFields folds a variadic key/value list into a map; a trailing
// unpaired value is kept under a positional key rather than dropped
func pairFields(kv []interface{}) map[string]interface{} {
	if len(kv) == 0 {
		return nil
	}
	m := make(map[string]interface{}, (len(kv)+1)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[fmt.Sprint(kv[i])] = kv[i+1]
	}
	if len(kv)%2 != 0 {
		m[fmt.Sprintf("arg_%d", len(kv)-1)] = kv[len(kv)-1]
	}
	return m
}

func (l *StructuredLogger) writeJSON(e entry) {
	data, err := json.Marshal(e)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: marshal failed: %v\n", err)
		return
	}
	fmt.Fprintln(l.out, string(data))
}

func (l *StructuredLogger) writeText(e entry, level LogLevel) {
	parts := []string{e.Timestamp, levelColors[level].Sprintf("[%s]", e.Level)}
	if e.TraceID != "" {
		parts = append(parts, "trace:"+shortID(e.TraceID))
	}
	if e.Component != "" {
		parts = append(parts, "component:"+e.Component)
	}
	parts = append(parts, e.Message)
	for k, v := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	fmt.Fprintln(l.out, strings.Join(parts, " "))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

var defaultLogger = NewLogger(INFO)

// SetDefaultLogger replaces the package-level logger
func SetDefaultLogger(logger Logger) {
	defaultLogger = logger
}

// Package-level helpers on the default logger
func Info(msg string, fields ...interface{})  { defaultLogger.Info(msg, fields...) }
func Warn(msg string, fields ...interface{})  { defaultLogger.Warn(msg, fields...) }
func Error(msg string, fields ...interface{}) { defaultLogger.Error(msg, fields...) }
func Debug(msg string, fields ...interface{}) { defaultLogger.Debug(msg, fields...) }
func Fatal(msg string, fields ...interface{}) { defaultLogger.Fatal(msg, fields...) }

func InfoContext(ctx context.Context, msg string, fields ...interface{}) {
	defaultLogger.InfoContext(ctx, msg, fields...)
}

func WarnContext(ctx context.Context, msg string, fields ...interface{}) {
	defaultLogger.WarnContext(ctx, msg, fields...)
}

func ErrorContext(ctx context.Context, msg string, fields ...interface{}) {
	defaultLogger.ErrorContext(ctx, msg, fields...)
}

func DebugContext(ctx context.Context, msg string, fields ...interface{}) {
	defaultLogger.DebugContext(ctx, msg, fields...)
}

// WithComponent returns a component-scoped logger off the default instance
func WithComponent(component string) Logger {
	return defaultLogger.WithComponent(component)
}

// GenerateTraceID returns a new random trace ID
func GenerateTraceID() string {
	return uuid.New().String()
}

// WithTraceID stores a trace ID on the context, generating one when empty
func WithTraceID(ctx context.Context, traceID string) context.Context {
	if traceID == "" {
		traceID = GenerateTraceID()
	}
	return context.WithValue(ctx, traceIDKey, traceID)
}

// GetTraceID extracts the trace ID from a context, if any
func GetTraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if traceID, ok := ctx.Value(traceIDKey).(string); ok {
		return traceID
	}
	return ""
}

// ParseLogLevel converts a level name into a LogLevel, defaulting to INFO
func ParseLogLevel(level string) LogLevel {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return DEBUG
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	case "FATAL":
		return FATAL
	default:
		return INFO
	}
}
