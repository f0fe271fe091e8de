// Package logger is the process-wide structured logger.
//
// Records carry the rank and lifecycle phase of the process when logged
// through the *Ctx functions with a LogContext attached. Text output marks
// them with a [rank r/n] tag; JSON output carries them as fields.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Config holds logger configuration
type Config struct {
	Level  string // DEBUG, INFO, WARN, ERROR
	Format string // text, json
	Output string // stdout, stderr, or file path
}

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// level is shared by every handler, so level changes need no rebuild.
var level = new(slog.LevelVar)

var (
	mu       sync.RWMutex
	format   string
	output   io.Writer
	logFile  *os.File // non-nil when Init opened the output itself
	useColor bool
	slogger  *slog.Logger
)

func init() {
	mu.Lock()
	defer mu.Unlock()
	format = FormatText
	output = os.Stderr
	useColor = isTerminal(os.Stderr.Fd())
	rebuild()
}

// rebuild replaces the logger after the format or destination changed.
// Callers hold mu.
func rebuild() {
	opts := &slog.HandlerOptions{Level: level}
	if format == FormatJSON {
		slogger = slog.New(slog.NewJSONHandler(output, opts))
		return
	}
	slogger = slog.New(NewColorTextHandler(output, opts, useColor))
}

// ParseLevel maps DEBUG, INFO, WARN or ERROR, in any letter case, to a
// slog level.
func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug, true
	case "INFO":
		return slog.LevelInfo, true
	case "WARN":
		return slog.LevelWarn, true
	case "ERROR":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// Init configures the logger. Empty fields keep their current setting.
// A file output is opened for appending; a file opened by an earlier Init
// is closed when the output moves elsewhere.
func Init(cfg Config) error {
	switch strings.ToLower(cfg.Output) {
	case "":
	case "stdout":
		setOutput(os.Stdout, isTerminal(os.Stdout.Fd()), nil)
	case "stderr":
		setOutput(os.Stderr, isTerminal(os.Stderr.Fd()), nil)
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file %q: %w", cfg.Output, err)
		}
		setOutput(f, false, f)
	}

	SetLevel(cfg.Level)
	SetFormat(cfg.Format)
	return nil
}

// InitWithWriter sends log output to w. Used by tests.
func InitWithWriter(w io.Writer, lvl, fmtName string, enableColor bool) {
	setOutput(w, enableColor, nil)
	SetLevel(lvl)
	SetFormat(fmtName)
}

func setOutput(w io.Writer, color bool, f *os.File) {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil && logFile != f {
		_ = logFile.Close()
	}
	output, useColor, logFile = w, color, f
	rebuild()
}

// SetLevel sets the minimum log level. Unknown names are ignored.
func SetLevel(name string) {
	if l, ok := ParseLevel(name); ok {
		level.Set(l)
	}
}

// SetFormat switches between text and json. Unknown formats are ignored.
func SetFormat(name string) {
	name = strings.ToLower(name)
	if name != FormatText && name != FormatJSON {
		return
	}

	mu.Lock()
	defer mu.Unlock()
	if format != name {
		format = name
		rebuild()
	}
}

func getLogger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return slogger
}

// log writes one record, prefixed with the LogContext fields found in ctx.
func log(ctx context.Context, lvl slog.Level, msg string, args []any) {
	if ctx == nil {
		ctx = context.Background()
	}
	l := getLogger()
	if !l.Enabled(ctx, lvl) {
		return
	}
	l.Log(ctx, lvl, msg, appendContextFields(ctx, args)...)
}

// Debug logs at debug level: Debug("message", "key1", value1, ...)
func Debug(msg string, args ...any) { log(context.Background(), slog.LevelDebug, msg, args) }

// Info logs at info level.
func Info(msg string, args ...any) { log(context.Background(), slog.LevelInfo, msg, args) }

// Warn logs at warn level.
func Warn(msg string, args ...any) { log(context.Background(), slog.LevelWarn, msg, args) }

// Error logs at error level.
func Error(msg string, args ...any) { log(context.Background(), slog.LevelError, msg, args) }

// DebugCtx logs at debug level with the LogContext of ctx.
func DebugCtx(ctx context.Context, msg string, args ...any) {
	log(ctx, slog.LevelDebug, msg, args)
}

// InfoCtx logs at info level with the LogContext of ctx.
func InfoCtx(ctx context.Context, msg string, args ...any) {
	log(ctx, slog.LevelInfo, msg, args)
}

// WarnCtx logs at warn level with the LogContext of ctx.
func WarnCtx(ctx context.Context, msg string, args ...any) {
	log(ctx, slog.LevelWarn, msg, args)
}

// ErrorCtx logs at error level with the LogContext of ctx.
func ErrorCtx(ctx context.Context, msg string, args ...any) {
	log(ctx, slog.LevelError, msg, args)
}

// appendContextFields puts the LogContext fields ahead of args. Rank and
// world size are only added once the world size is known.
func appendContextFields(ctx context.Context, args []any) []any {
	lc := FromContext(ctx)
	if lc == nil {
		return args
	}

	fields := make([]any, 0, 10+len(args))
	if lc.TraceID != "" {
		fields = append(fields, KeyTraceID, lc.TraceID)
	}
	if lc.SpanID != "" {
		fields = append(fields, KeySpanID, lc.SpanID)
	}
	if lc.WorldSize > 0 {
		fields = append(fields, KeyRank, lc.Rank, KeyWorldSize, lc.WorldSize)
	}
	if lc.Phase != "" {
		fields = append(fields, KeyPhase, lc.Phase)
	}
	if lc.Host != "" {
		fields = append(fields, KeyHost, lc.Host)
	}
	return append(fields, args...)
}
