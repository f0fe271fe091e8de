package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Level and key colors. Each is forced on; whether it is applied at all is
// decided per handler by useColor.
var (
	colorDebug = forced(color.FgHiBlack)
	colorInfo  = forced(color.FgGreen)
	colorWarn  = forced(color.FgYellow)
	colorError = forced(color.FgRed)
	colorKey   = forced(color.FgCyan)
	colorRank  = forced(color.FgMagenta)
)

func forced(attr color.Attribute) *color.Color {
	c := color.New(attr)
	c.EnableColor()
	return c
}

// ColorTextHandler implements slog.Handler with colored text output.
//
// Lines look like:
//
//	[2026-01-02 15:04:05] [INFO] [rank 1/4] message key=value
//
// The rank tag is printed when both rank and world_size attributes are
// present, and those two attributes are then left out of the key=value list.
type ColorTextHandler struct {
	opts     *slog.HandlerOptions
	w        io.Writer
	mu       *sync.Mutex
	attrs    []slog.Attr
	groups   []string
	useColor bool
}

// NewColorTextHandler creates a new ColorTextHandler
func NewColorTextHandler(w io.Writer, opts *slog.HandlerOptions, useColor bool) *ColorTextHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}

	return &ColorTextHandler{
		opts:     opts,
		w:        w,
		mu:       &sync.Mutex{},
		useColor: useColor,
	}
}

// Enabled reports whether the handler handles records at the given level
func (h *ColorTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

// Handle formats and writes a log record
func (h *ColorTextHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	attrs = append(attrs, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})

	var buf []byte
	buf = fmt.Appendf(buf, "[%s] [%s]", r.Time.Format("2006-01-02 15:04:05"), h.formatLevel(r.Level))

	rank, size, hasRank := rankOf(attrs)
	if hasRank {
		buf = fmt.Appendf(buf, " [%s]", h.paint(colorRank, fmt.Sprintf("rank %d/%d", rank, size)))
	}
	buf = fmt.Appendf(buf, " %s", r.Message)

	for _, attr := range attrs {
		if hasRank && (attr.Key == KeyRank || attr.Key == KeyWorldSize) {
			continue
		}
		buf = h.appendAttr(buf, attr)
	}
	buf = append(buf, '\n')

	// Only lock for the actual write
	h.mu.Lock()
	_, err := h.w.Write(buf)
	h.mu.Unlock()
	return err
}

// rankOf extracts the last rank and world_size attributes.
func rankOf(attrs []slog.Attr) (rank, size int64, ok bool) {
	var haveRank, haveSize bool
	for _, a := range attrs {
		v := a.Value.Resolve()
		if v.Kind() != slog.KindInt64 {
			continue
		}
		switch a.Key {
		case KeyRank:
			rank, haveRank = v.Int64(), true
		case KeyWorldSize:
			size, haveSize = v.Int64(), true
		}
	}
	return rank, size, haveRank && haveSize
}

// formatLevel returns the level string with optional color
func (h *ColorTextHandler) formatLevel(level slog.Level) string {
	switch {
	case level < slog.LevelInfo:
		return h.paint(colorDebug, "DEBUG")
	case level < slog.LevelWarn:
		return h.paint(colorInfo, "INFO")
	case level < slog.LevelError:
		return h.paint(colorWarn, "WARN")
	default:
		return h.paint(colorError, "ERROR")
	}
}

func (h *ColorTextHandler) paint(c *color.Color, s string) string {
	if !h.useColor {
		return s
	}
	return c.Sprint(s)
}

// appendAttr formats and appends an attribute
func (h *ColorTextHandler) appendAttr(buf []byte, a slog.Attr) []byte {
	if a.Equal(slog.Attr{}) {
		return buf
	}

	a.Value = a.Value.Resolve()
	return fmt.Appendf(buf, " %s=%s", h.paint(colorKey, a.Key), formatValue(a.Value))
}

// formatValue formats a slog.Value for text output
func formatValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindInt64:
		return fmt.Sprintf("%d", v.Int64())
	case slog.KindUint64:
		return fmt.Sprintf("%d", v.Uint64())
	case slog.KindFloat64:
		return fmt.Sprintf("%.3f", v.Float64())
	case slog.KindBool:
		return fmt.Sprintf("%t", v.Bool())
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindAny:
		return fmt.Sprintf("%v", v.Any())
	default:
		return v.String()
	}
}

// WithAttrs returns a new handler with additional attrs
func (h *ColorTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ColorTextHandler{
		opts:     h.opts,
		w:        h.w,
		mu:       h.mu, // shared with parent
		attrs:    append(append([]slog.Attr{}, h.attrs...), attrs...),
		groups:   append([]string{}, h.groups...),
		useColor: h.useColor,
	}
}

// WithGroup returns a new handler with a group name
func (h *ColorTextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &ColorTextHandler{
		opts:     h.opts,
		w:        h.w,
		mu:       h.mu,
		attrs:    append([]slog.Attr{}, h.attrs...),
		groups:   append(append([]string{}, h.groups...), name),
		useColor: h.useColor,
	}
}
