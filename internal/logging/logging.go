// Package logging configures log/slog for lightpanel.
//
// The TUI owns stdout, so records go to a text log file. A small ring
// handler keeps the most recent warnings in memory so the status line can
// show what went wrong without the user opening the file.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const defaultRingSize = 64

// ParseLevel maps a config string to a slog level. Unknown values are info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup opens path for appending and returns a logger writing text records
// to it, the ring of recent warnings, and a close func. An empty path
// discards the text output but keeps the ring.
func Setup(path, level string) (*slog.Logger, *Ring, func() error, error) {
	var (
		w       io.Writer = io.Discard
		closeFn           = func() error { return nil }
	)
	if p := strings.TrimSpace(path); p != "" {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return nil, nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = f.Close
	}

	lvl := ParseLevel(level)
	ring := NewRing(defaultRingSize, slog.LevelWarn)
	base := slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	return slog.New(&teeHandler{next: base, ring: ring}), ring, closeFn, nil
}

// Entry is one record retained by Ring.
type Entry struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Attrs   []slog.Attr
}

// String renders the entry as "message key=value ...".
func (e Entry) String() string {
	var b strings.Builder
	b.WriteString(e.Message)
	for _, a := range e.Attrs {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
	}
	return b.String()
}

// Ring keeps the last records at or above a level. Safe for concurrent use.
type Ring struct {
	level    slog.Level
	capacity int

	mu      sync.RWMutex
	entries []Entry
}

// NewRing returns a ring holding up to capacity entries (64 if capacity is
// not positive).
func NewRing(capacity int, level slog.Level) *Ring {
	if capacity <= 0 {
		capacity = defaultRingSize
	}
	return &Ring{level: level, capacity: capacity, entries: make([]Entry, 0, capacity)}
}

func (r *Ring) add(e Entry) {
	if e.Level < r.level {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) == r.capacity {
		copy(r.entries, r.entries[1:])
		r.entries = r.entries[:r.capacity-1]
	}
	r.entries = append(r.entries, e)
}

// Entries returns a copy of the retained entries, oldest first.
func (r *Ring) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Last returns the newest entry.
func (r *Ring) Last() (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.entries) == 0 {
		return Entry{}, false
	}
	return r.entries[len(r.entries)-1], true
}

// teeHandler forwards to next and copies qualifying records into ring.
// Attributes bound with WithAttrs are carried so ring entries keep them.
type teeHandler struct {
	next  slog.Handler
	ring  *Ring
	attrs []slog.Attr
}

func (h *teeHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return lvl >= h.ring.level || h.next.Enabled(ctx, lvl)
}

func (h *teeHandler) Handle(ctx context.Context, rec slog.Record) error {
	var err error
	if h.next.Enabled(ctx, rec.Level) {
		err = h.next.Handle(ctx, rec)
	}
	if rec.Level >= h.ring.level {
		entry := Entry{Time: rec.Time, Level: rec.Level, Message: rec.Message}
		entry.Attrs = append(entry.Attrs, h.attrs...)
		rec.Attrs(func(a slog.Attr) bool {
			entry.Attrs = append(entry.Attrs, a)
			return true
		})
		h.ring.add(entry)
	}
	return err
}

func (h *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &teeHandler{next: h.next.WithAttrs(attrs), ring: h.ring, attrs: merged}
}

func (h *teeHandler) WithGroup(name string) slog.Handler {
	return &teeHandler{next: h.next.WithGroup(name), ring: h.ring, attrs: h.attrs}
}
