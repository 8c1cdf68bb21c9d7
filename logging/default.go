package logging

import (
	"context"
	"fmt"
	"log"
	"maps"
	"os"
	"sort"
	"strings"
)

// DefaultLogger writes leveled lines through Go's standard log package.
// Fields render as sorted key=value pairs so identical analysis runs
// produce identical log output.
// Debug/Info -> stdout (no color)
// Warn -> stderr (yellow)
// Error -> stderr (red)
// Fatal -> stderr (bold red)
type DefaultLogger struct {
	stdoutLogger *log.Logger
	stderrLogger *log.Logger
	level        Level
	fields       Fields
	useColors    bool
}

// NewDefaultLogger creates a default logger; colors are enabled when
// stdout looks like a terminal.
func NewDefaultLogger() *DefaultLogger {
	return NewDefaultLoggerAtLevel(InfoLevel)
}

// NewDefaultLoggerAtLevel creates a default logger with an explicit
// minimum level. The analyzer's per-stage output is at Debug; pass
// DebugLevel to see it.
func NewDefaultLoggerAtLevel(level Level) *DefaultLogger {
	return &DefaultLogger{
		stdoutLogger: log.New(os.Stdout, "", log.LstdFlags),
		stderrLogger: log.New(os.Stderr, "", log.LstdFlags),
		level:        level,
		fields:       make(Fields),
		useColors:    isTerminal(),
	}
}

// NewDefaultLoggerNoColor creates a default logger without colored output
func NewDefaultLoggerNoColor() *DefaultLogger {
	logger := NewDefaultLoggerAtLevel(InfoLevel)
	logger.useColors = false
	return logger
}

func isTerminal() bool {
	if fileInfo, _ := os.Stdout.Stat(); fileInfo != nil {
		return (fileInfo.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

// renderFields flattens preset and call-site fields into a sorted
// "k=v k=v" string. An error is folded in under the key "error".
func (d *DefaultLogger) renderFields(err error, fields ...Fields) string {
	merged := make(Fields, len(d.fields)+1)
	maps.Copy(merged, d.fields)
	for _, f := range fields {
		maps.Copy(merged, f)
	}
	if err != nil {
		merged["error"] = err.Error()
	}
	if len(merged) == 0 {
		return ""
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, merged[k])
	}
	return b.String()
}

func (d *DefaultLogger) colorize(level Level, line string) string {
	if !d.useColors {
		return line
	}
	switch level {
	case WarnLevel:
		return ColorYellow + line + ColorReset
	case ErrorLevel:
		return ColorRed + line + ColorReset
	case FatalLevel:
		return ColorBold + ColorRed + line + ColorReset
	default:
		return line
	}
}

func (d *DefaultLogger) writerFor(level Level) *log.Logger {
	if level >= WarnLevel {
		return d.stderrLogger
	}
	return d.stdoutLogger
}

func (d *DefaultLogger) log(level Level, err error, msg string, fields ...Fields) {
	if level < d.level {
		return
	}

	line := fmt.Sprintf("[%s] %s%s", level.String(), msg, d.renderFields(err, fields...))
	d.writerFor(level).Println(d.colorize(level, line))

	if level == FatalLevel {
		os.Exit(1)
	}
}

func (d *DefaultLogger) Debug(msg string, fields ...Fields) {
	d.log(DebugLevel, nil, msg, fields...)
}

func (d *DefaultLogger) Info(msg string, fields ...Fields) {
	d.log(InfoLevel, nil, msg, fields...)
}

func (d *DefaultLogger) Warn(msg string, fields ...Fields) {
	d.log(WarnLevel, nil, msg, fields...)
}

func (d *DefaultLogger) Error(err error, msg string, fields ...Fields) {
	d.log(ErrorLevel, err, msg, fields...)
}

func (d *DefaultLogger) Fatal(err error, msg string, fields ...Fields) {
	d.log(FatalLevel, err, msg, fields...)
}

func (d *DefaultLogger) WithFields(fields Fields) Logger {
	newFields := make(Fields, len(d.fields)+len(fields))
	maps.Copy(newFields, d.fields)
	maps.Copy(newFields, fields)

	return &DefaultLogger{
		stdoutLogger: d.stdoutLogger,
		stderrLogger: d.stderrLogger,
		level:        d.level,
		fields:       newFields,
		useColors:    d.useColors,
	}
}

func (d *DefaultLogger) WithContext(ctx context.Context) Logger {
	if fields, ok := FieldsFromContext(ctx); ok {
		return d.WithFields(fields)
	}
	return d
}

func (d *DefaultLogger) SetLevel(level Level) {
	d.level = level
}

// NoOpLogger discards everything; used when logging is disabled
type NoOpLogger struct{}

func (n *NoOpLogger) Debug(msg string, fields ...Fields)            {}
func (n *NoOpLogger) Info(msg string, fields ...Fields)             {}
func (n *NoOpLogger) Warn(msg string, fields ...Fields)             {}
func (n *NoOpLogger) Error(err error, msg string, fields ...Fields) {}
func (n *NoOpLogger) Fatal(err error, msg string, fields ...Fields) {}
func (n *NoOpLogger) WithFields(fields Fields) Logger               { return n }
func (n *NoOpLogger) WithContext(ctx context.Context) Logger        { return n }
func (n *NoOpLogger) SetLevel(level Level)                          {}
