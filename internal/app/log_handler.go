package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/fathom/internal/msg"
)

// logBuffer is the number of records queued for the loop before new ones
// are dropped.
const logBuffer = 256

// LogHandler is a slog.Handler that routes records into the bubbletea
// program as msg.LogRecordMsg, for the debug pane. Handle never blocks:
// records are queued and Forward delivers them, because logging also
// happens on the loop goroutine itself, where a direct Program.Send
// would deadlock.
//
// Handlers derived with WithAttrs/WithGroup share the queue.
type LogHandler struct {
	level  slog.Leveler
	queue  *logQueue
	attrs  []slog.Attr
	groups []string
}

type logQueue struct {
	ch      chan msg.LogRecordMsg
	mu      sync.Mutex
	dropped int
}

// NewLogHandler creates a handler for records at or above level.
func NewLogHandler(level slog.Leveler) *LogHandler {
	return &LogHandler{
		level: level,
		queue: &logQueue{ch: make(chan msg.LogRecordMsg, logBuffer)},
	}
}

// Enabled implements slog.Handler.
func (h *LogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle implements slog.Handler.
func (h *LogHandler) Handle(_ context.Context, record slog.Record) error {
	var parts []string
	prefix := ""
	if len(h.groups) > 0 {
		prefix = strings.Join(h.groups, ".") + "."
	}
	for _, a := range h.attrs {
		parts = append(parts, fmt.Sprintf("%s=%s", a.Key, a.Value))
	}
	record.Attrs(func(a slog.Attr) bool {
		parts = append(parts, fmt.Sprintf("%s%s=%s", prefix, a.Key, a.Value))
		return true
	})

	m := msg.LogRecordMsg{
		Time:    record.Time,
		Level:   record.Level,
		Message: record.Message,
		Attrs:   strings.Join(parts, " "),
	}
	select {
	case h.queue.ch <- m:
	default:
		h.queue.mu.Lock()
		h.queue.dropped++
		h.queue.mu.Unlock()
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LogHandler{
		level:  h.level,
		queue:  h.queue,
		attrs:  append(sliceClone(h.attrs), attrs...),
		groups: sliceClone(h.groups),
	}
}

// WithGroup implements slog.Handler.
func (h *LogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &LogHandler{
		level:  h.level,
		queue:  h.queue,
		attrs:  sliceClone(h.attrs),
		groups: append(sliceClone(h.groups), name),
	}
}

// Dropped returns the number of records discarded because the queue was
// full.
func (h *LogHandler) Dropped() int {
	h.queue.mu.Lock()
	defer h.queue.mu.Unlock()
	return h.queue.dropped
}

// Forward delivers queued records to send until ctx is done.
func (h *LogHandler) Forward(ctx context.Context, send func(tea.Msg)) {
	for {
		select {
		case <-ctx.Done():
			return
		case m := <-h.queue.ch:
			send(m)
		}
	}
}

func sliceClone[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

// FormatRecord renders a log record as one debug pane line.
func FormatRecord(m msg.LogRecordMsg) string {
	line := fmt.Sprintf("%s %-5s %s", m.Time.Format("15:04:05.000"), m.Level.String(), m.Message)
	if m.Attrs != "" {
		line += " " + m.Attrs
	}
	return line
}

// FanoutHandler sends every record to all of its handlers.
type FanoutHandler []slog.Handler

// Enabled implements slog.Handler.
func (f FanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle implements slog.Handler.
func (f FanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	var first error
	for _, h := range f {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		if err := h.Handle(ctx, record.Clone()); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// WithAttrs implements slog.Handler.
func (f FanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(FanoutHandler, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

// WithGroup implements slog.Handler.
func (f FanoutHandler) WithGroup(name string) slog.Handler {
	out := make(FanoutHandler, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
