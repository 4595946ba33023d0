// Package logging builds the process logger and renders HTTP access records.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/sagarc03/eir"
)

const (
	TypeConsole = "console"
	TypeFile    = "file"
	TypeSyslog  = "syslog"
)

// SyslogTag identifies the process in syslog.
const SyslogTag = "Eirserver"

type Config struct {
	// Type is one of console, file or syslog.
	Type string
	// File is the log file path when Type is file.
	File string
	// Level is debug, info, warn or error.
	Level string
	// Env selects JSON console output when set to prod or production.
	Env       string
	Verbosity eir.Verbosity
	// Output overrides stdout for console logging.
	Output io.Writer
}

// Logger is a slog.Logger that also records HTTP exchanges.
type Logger struct {
	*slog.Logger
	verbosity eir.Verbosity
	closer    io.Closer
}

// Setup builds a Logger for cfg. Close releases the log file or syslog
// connection.
func Setup(cfg Config) (*Logger, error) {
	if cfg.Verbosity == "" {
		cfg.Verbosity = eir.VerbosityMinimal
	}
	if !cfg.Verbosity.IsValid() {
		return nil, fmt.Errorf("setup logging: invalid verbosity: %s", cfg.Verbosity)
	}

	if cfg.Verbosity == eir.VerbosityNone {
		return &Logger{Logger: slog.New(slog.DiscardHandler), verbosity: cfg.Verbosity}, nil
	}

	isProd := cfg.Env == "prod" || cfg.Env == "production"

	levelStr := cfg.Level
	if levelStr == "" {
		if isProd {
			levelStr = "info"
		} else {
			levelStr = "debug"
		}
	}
	level := ParseLevel(levelStr)

	var h slog.Handler
	var closer io.Closer

	switch cfg.Type {
	case TypeConsole, "":
		out := cfg.Output
		if out == nil {
			out = os.Stdout
		}
		h = consoleHandler(out, level, isProd)
	case TypeFile:
		if cfg.File == "" {
			return nil, errors.New("setup logging: log file is required for file logging")
		}
		f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("setup logging: open log file: %w", err)
		}
		h = slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})
		closer = f
	case TypeSyslog:
		sh, c, err := newSyslogHandler(level)
		if err != nil {
			return nil, fmt.Errorf("setup logging: %w", err)
		}
		h, closer = sh, c
	default:
		return nil, fmt.Errorf("setup logging: invalid log type: %s (valid types: console, file, syslog)", cfg.Type)
	}

	return &Logger{Logger: slog.New(h), verbosity: cfg.Verbosity, closer: closer}, nil
}

func consoleHandler(out io.Writer, level slog.Level, isProd bool) slog.Handler {
	if isProd {
		return slog.NewJSONHandler(out, &slog.HandlerOptions{
			Level:     level,
			AddSource: false,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey {
					return slog.String("ts", a.Value.Time().UTC().Format(time.RFC3339Nano))
				}
				return a
			},
		})
	}

	return tint.NewHandler(out, &tint.Options{
		Level:      level,
		AddSource:  true,
		TimeFormat: "15:04:05.000",
	})
}

// SetDefault installs l as the slog default and routes the standard log
// package through it.
func (l *Logger) SetDefault() {
	slog.SetDefault(l.Logger)

	log.SetFlags(0)
	log.SetOutput(
		slog.NewLogLogger(
			l.Handler(),
			slog.LevelInfo,
		).Writer(),
	)
}

// Start logs the startup banner.
func (l *Logger) Start() {
	l.Warn("Starting Eirserver!")
}

// Close logs the shutdown banner and releases the underlying sink.
func (l *Logger) Close() error {
	l.Warn("Closing Eirserver!")
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

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
