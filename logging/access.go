package logging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sagarc03/eir"
)

// LogHTTP implements eir.AccessLogger. The message has the form
//
//	<client> - "<request line>" <- "<status>"
//
// and verbose loggers attach the request and response header lines.
func (l *Logger) LogHTTP(ctx context.Context, rec eir.AccessRecord) {
	if l.verbosity == eir.VerbosityNone {
		return
	}

	line := ""
	if rec.Request != nil {
		line = rec.Request.Line()
	}
	status := ""
	if rec.Response != nil {
		status = rec.Response.Status.String()
	}

	msg := fmt.Sprintf("%s - %q <- %q", rec.Client, line, status)

	var attrs []slog.Attr
	if l.verbosity == eir.VerbosityVerbose {
		var raw string
		if rec.Request != nil {
			raw = rec.Request.Raw
		}
		attrs = append(attrs,
			slog.Any("request_headers", RequestHeaders(raw)),
			slog.Any("response_headers", ResponseHeaders(string(rec.Wire))),
		)
	}

	l.LogAttrs(ctx, slog.LevelInfo, "HTTP "+msg, attrs...)
}

// RequestHeaders returns the header lines after the request line, skipping
// blank lines.
func RequestHeaders(raw string) []string {
	lines := splitLines(raw)
	if len(lines) <= 1 {
		return []string{}
	}

	out := make([]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		if line == "" || isControl(line[0]) {
			continue
		}
		out = append(out, line)
	}
	return out
}

// ResponseHeaders returns the header lines after the status line, stopping
// at the blank line that ends the header block.
func ResponseHeaders(wire string) []string {
	lines := splitLines(wire)
	if len(lines) <= 1 {
		return []string{}
	}

	out := make([]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		if line == "" || isControl(line[0]) {
			break
		}
		out = append(out, line)
	}
	return out
}

func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

func isControl(c byte) bool {
	return c < 0x20 || c == 0x7f
}
