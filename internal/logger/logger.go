package logger

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

var (
	initOnce   sync.Once
	shutdownMu sync.Mutex
	shutdowned bool

	logClosers []io.Closer

	levelVar slog.LevelVar

	// L is the base logger used by call sites that have no component scope.
	L *slog.Logger

	// DB logs database events.
	DB *slog.Logger
	// TG logs Telegram transport events.
	TG *slog.Logger
	// MIG logs schema migration events.
	MIG *slog.Logger
	// SCHED logs report scheduler events.
	SCHED *slog.Logger
	// MAIL logs SMTP delivery events.
	MAIL *slog.Logger
	// PDF logs report rendering events.
	PDF *slog.Logger
	// SVC logs domain service activity.
	SVC *slog.Logger
)

// Components default to the process-wide slog logger until InitLogger
// installs the configured one, so early call sites and tests never hit a
// nil logger.
func init() {
	L = slog.Default()
	wireComponents()
}

// Options configure InitLogger. Zero values fall back to sane defaults.
type Options struct {
	Level   string
	Format  string
	Profile string
	Dir     string
	File    string
}

// InitLogger configures the global structured logger. It may be called only once.
func InitLogger(opts Options) error {
	var initErr error
	initOnce.Do(func() {
		levelVar.Set(selectLevel(opts.Level))

		writers, closers := buildOutputs(opts)
		logClosers = closers
		out := io.MultiWriter(writers...)

		var handler slog.Handler
		if selectFormat(opts) == "text" {
			handler = slog.NewTextHandler(out, &slog.HandlerOptions{Level: &levelVar})
		} else {
			handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: &levelVar})
		}

		logger := slog.New(handler)
		L = logger
		slog.SetDefault(logger)

		wireComponents()
		logStartup(opts)
	})
	return initErr
}

func wireComponents() {
	if L == nil {
		return
	}
	DB = L.With("component", "db")
	TG = L.With("component", "tg")
	MIG = L.With("component", "db.migrate")
	SCHED = L.With("component", "scheduler")
	MAIL = L.With("component", "mail")
	PDF = L.With("component", "report.pdf")
	SVC = L.With("component", "service")
}

func logStartup(opts Options) {
	if L == nil {
		return
	}
	L.LogAttrs(context.Background(), slog.LevelInfo, "startup",
		slog.String("component", "app"),
		slog.String("event", "startup"),
		slog.String("go_version", runtime.Version()),
		slog.String("cfg_profile", selectProfile(opts)),
	)
}

// Shutdown closes any opened log sinks.
func Shutdown() error {
	shutdownMu.Lock()
	defer shutdownMu.Unlock()
	if shutdowned {
		return nil
	}
	shutdowned = true

	var errs []error
	for _, c := range logClosers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func selectFormat(opts Options) string {
	raw := strings.ToLower(strings.TrimSpace(opts.Format))
	switch raw {
	case "text", "kv", "pretty":
		return "text"
	case "json":
		return "json"
	}
	// Prefer human-friendly output when profile indicates dev mode.
	if strings.EqualFold(opts.Profile, "debug") || strings.EqualFold(opts.Profile, "dev") {
		return "text"
	}
	return "json"
}

func selectLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
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

func buildOutputs(opts Options) ([]io.Writer, []io.Closer) {
	writers := []io.Writer{os.Stdout}
	var closers []io.Closer
	dir := strings.TrimSpace(opts.Dir)
	file := strings.TrimSpace(opts.File)
	if dir != "" && file != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Printf("logger: failed to create log dir %s: %v", dir, err)
		} else {
			path := filepath.Join(dir, file)
			f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				log.Printf("logger: failed to open log file %s: %v", path, err)
			} else {
				writers = append(writers, f)
				closers = append(closers, f)
			}
		}
	}
	return writers, closers
}

func selectProfile(opts Options) string {
	if profile := strings.TrimSpace(opts.Profile); profile != "" {
		return strings.ToLower(profile)
	}
	return "prod"
}
