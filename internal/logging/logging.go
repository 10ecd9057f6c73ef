// ABOUTME: slog setup for the CLI and tools
// ABOUTME: Selects level and destination for the default logger
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// ParseLevel maps "error", "warn", "info" and "debug" to slog levels.
// "none" is handled by Configure.
func ParseLevel(level string) (slog.Level, error) {
	switch level {
	case "error":
		return slog.LevelError, nil
	case "warn":
		return slog.LevelWarn, nil
	case "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	default:
		return 0, fmt.Errorf("unexpected log level %q", level)
	}
}

// Configure sets the default slog logger.
//
// Valid log levels are "none", "error", "warn", "info", "debug". logFile may
// name a file, which gets JSON output, or be empty, in which case text goes
// to stderr. If echo is set, file output is also copied to stderr as text.
//
// The returned file (nil when not logging to a file) must be closed by the caller:
//
//	f, err := logging.Configure("info", "tone.log", false)
//	if f != nil {
//		defer f.Close()
//	}
func Configure(level, logFile string, echo bool) (*os.File, error) {
	if level == "none" {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return nil, nil
	}

	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}

	if logFile == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, opts)))
		return nil, nil
	}

	f, err := os.OpenFile(logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("error opening log file: %w", err)
	}

	var handler slog.Handler = slog.NewJSONHandler(f, opts)
	if echo {
		handler = teeHandler{handler, slog.NewTextHandler(os.Stderr, opts)}
	}
	slog.SetDefault(slog.New(handler))
	return f, nil
}

// teeHandler sends each record to two handlers
type teeHandler struct {
	a, b slog.Handler
}

func (h teeHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return h.a.Enabled(ctx, l) || h.b.Enabled(ctx, l)
}

func (h teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var errA, errB error
	if h.a.Enabled(ctx, r.Level) {
		errA = h.a.Handle(ctx, r.Clone())
	}
	if h.b.Enabled(ctx, r.Level) {
		errB = h.b.Handle(ctx, r)
	}
	return errors.Join(errA, errB)
}

func (h teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return teeHandler{h.a.WithAttrs(attrs), h.b.WithAttrs(attrs)}
}

func (h teeHandler) WithGroup(name string) slog.Handler {
	return teeHandler{h.a.WithGroup(name), h.b.WithGroup(name)}
}
