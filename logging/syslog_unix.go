//go:build !windows && !plan9

package logging

import (
	"context"
	"io"
	"log/slog"
	"log/syslog"
	"strings"
)

func newSyslogHandler(level slog.Level) (slog.Handler, io.Closer, error) {
	w, err := syslog.New(syslog.LOG_USER|syslog.LOG_INFO, SyslogTag)
	if err != nil {
		return nil, nil, err
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// syslog stamps its own time and priority.
			if len(groups) == 0 && (a.Key == slog.TimeKey || a.Key == slog.LevelKey) {
				return slog.Attr{}
			}
			return a
		},
	}

	mk := func(f func(string) error) slog.Handler {
		return slog.NewTextHandler(priorityWriter(f), opts)
	}

	h := &syslogHandler{
		debug: mk(w.Debug),
		info:  mk(w.Info),
		warn:  mk(w.Warning),
		err:   mk(w.Err),
	}
	return h, w, nil
}

// priorityWriter sends each formatted record to one syslog priority.
type priorityWriter func(string) error

func (f priorityWriter) Write(p []byte) (int, error) {
	if err := f(strings.TrimSuffix(string(p), "\n")); err != nil {
		return 0, err
	}
	return len(p), nil
}

// syslogHandler dispatches records to a text handler per syslog priority.
type syslogHandler struct {
	debug, info, warn, err slog.Handler
}

func (h *syslogHandler) pick(l slog.Level) slog.Handler {
	switch {
	case l >= slog.LevelError:
		return h.err
	case l >= slog.LevelWarn:
		return h.warn
	case l >= slog.LevelInfo:
		return h.info
	default:
		return h.debug
	}
}

func (h *syslogHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return h.info.Enabled(ctx, l)
}

func (h *syslogHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.pick(r.Level).Handle(ctx, r)
}

func (h *syslogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &syslogHandler{
		debug: h.debug.WithAttrs(attrs),
		info:  h.info.WithAttrs(attrs),
		warn:  h.warn.WithAttrs(attrs),
		err:   h.err.WithAttrs(attrs),
	}
}

func (h *syslogHandler) WithGroup(name string) slog.Handler {
	return &syslogHandler{
		debug: h.debug.WithGroup(name),
		info:  h.info.WithGroup(name),
		warn:  h.warn.WithGroup(name),
		err:   h.err.WithGroup(name),
	}
}
