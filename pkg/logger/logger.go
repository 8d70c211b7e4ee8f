// Package logger provides the process-wide structured logger built on
// log/slog.
//
// Handlers should log through WithCtx so every line carries the request id
// injected by the request logger middleware:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("task assigned", "task_id", id, "worker_id", workerID)
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/projectdesk/projectdesk/config"
)

var L *slog.Logger

func init() {
	cfg := config.Current()
	L = New(os.Stdout, cfg.App.Env, cfg.Log.Level)
	slog.SetDefault(L)
}

// New builds a logger writing JSON in production and text elsewhere. An
// empty level means info in production and debug otherwise.
func New(w io.Writer, env, level string) *slog.Logger {
	return slog.New(newHandler(w, env, level))
}

func newHandler(w io.Writer, env, level string) slog.Handler {
	production := env == "production" || env == "prod"

	lvl := slog.LevelDebug
	if production {
		lvl = slog.LevelInfo
	}
	if level != "" {
		lvl = ParseLevel(level)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if production {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// ParseLevel maps debug, info, warn and error to slog levels, defaulting to
// info.
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

// Setup rebuilds L from cfg and, when LOG_MONGO_URI is set, fans every
// record out to MongoDB as well. The returned func flushes and disconnects
// the Mongo sink.
func Setup(cfg *config.Config) (func(), error) {
	base := newHandler(os.Stdout, cfg.App.Env, cfg.Log.Level)
	closeFn := func() {}

	if cfg.Log.MongoURI != "" {
		mh, err := NewMongoHandler(cfg.Log.MongoURI, cfg.Log.MongoDB, cfg.Log.MongoCollection, ParseLevel(cfg.Log.Level))
		if err != nil {
			L = slog.New(base)
			slog.SetDefault(L)
			return closeFn, err
		}
		base = NewMultiHandler(base, mh)
		closeFn = mh.Close
	}

	L = slog.New(base)
	slog.SetDefault(L)
	return closeFn, nil
}

type ctxKey struct{}

// WithCtx returns the request-scoped logger stored in ctx, or L.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
			return log
		}
	}
	return L
}

// InjectLogger stores a request-scoped logger in ctx.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }

func Info(msg string, args ...any) { L.Info(msg, args...) }

func Warn(msg string, args ...any) { L.Warn(msg, args...) }

func Error(msg string, args ...any) { L.Error(msg, args...) }
