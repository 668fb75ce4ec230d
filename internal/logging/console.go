package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

const shortBuildID = 8

// consoleHandler renders one line per record:
//
//	15:04:05 INF pipeline  build complete  build=1a2b3c4d package=test key=value
type consoleHandler struct {
	mu        *sync.Mutex
	w         io.Writer
	level     slog.Leveler
	addSource bool
	attrs     []slog.Attr
	group     string
}

func newConsoleHandler(w io.Writer, level slog.Leveler, addSource bool) *consoleHandler {
	return &consoleHandler{mu: &sync.Mutex{}, w: w, level: level, addSource: addSource}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make(map[string]slog.Value, len(h.attrs)+r.NumAttrs())
	var order []string
	add := func(prefix string, a slog.Attr) {
		collect(fields, &order, prefix, a)
	}
	for _, a := range h.attrs {
		add("", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		add(h.group, a)
		return true
	})

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	var buf bytes.Buffer
	buf.WriteString(ts.Format(time.TimeOnly))
	buf.WriteByte(' ')
	buf.WriteString(levelTag(r.Level))
	if component, ok := fields[FieldComponent]; ok {
		fmt.Fprintf(&buf, " %-9s", component.String())
	}
	buf.WriteByte(' ')
	buf.WriteString(strings.TrimSpace(r.Message))

	if h.addSource && r.PC != 0 {
		if src := r.Source(); src != nil {
			fmt.Fprintf(&buf, " (%s:%d)", filepath.Base(src.File), src.Line)
		}
	}

	for _, key := range headerKeys {
		if v, ok := fields[key]; ok {
			writeField(&buf, key, v)
		}
	}
	for _, key := range order {
		if key == FieldComponent || slices.Contains(headerKeys, key) {
			continue
		}
		writeField(&buf, key, fields[key])
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = slices.Clone(h.attrs)
	for _, a := range attrs {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}
		clone.attrs = append(clone.attrs, a)
	}
	return &clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	if clone.group != "" {
		clone.group += "." + name
	} else {
		clone.group = name
	}
	return &clone
}

func collect(fields map[string]slog.Value, order *[]string, prefix string, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	v := a.Value.Resolve()
	key := a.Key
	if prefix != "" && key != "" {
		key = prefix + "." + key
	}
	if v.Kind() == slog.KindGroup {
		if a.Key == "" {
			key = prefix
		}
		for _, child := range v.Group() {
			collect(fields, order, key, child)
		}
		return
	}
	if _, seen := fields[key]; !seen {
		*order = append(*order, key)
	}
	fields[key] = v
}

func writeField(buf *bytes.Buffer, key string, v slog.Value) {
	label := key
	if key == FieldBuildID {
		label = "build"
	}
	buf.WriteByte(' ')
	buf.WriteString(label)
	buf.WriteByte('=')
	buf.WriteString(render(key, v))
}

func render(key string, v slog.Value) string {
	var s string
	switch v.Kind() {
	case slog.KindString:
		s = v.String()
		if key == FieldBuildID && len(s) > shortBuildID {
			s = s[:shortBuildID]
		}
	case slog.KindDuration:
		return v.Duration().Round(time.Millisecond).String()
	case slog.KindTime:
		return v.Time().UTC().Format(time.RFC3339)
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			s = err.Error()
		} else {
			s = fmt.Sprint(v.Any())
		}
	default:
		s = v.String()
	}
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}

func levelTag(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERR"
	case level >= slog.LevelWarn:
		return "WRN"
	case level >= slog.LevelInfo:
		return "INF"
	default:
		return "DBG"
	}
}
