// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log provides contextual loggers backed by the go-ethereum slog logger.
//
// Package level loggers are usually declared at init time, before the daemon has
// configured its handler. Loggers returned by WithContext therefore resolve the root
// logger on every call, so SetDefault takes effect for them as well.
package log

import (
	"context"
	"log/slog"

	ethlog "github.com/ethereum/go-ethereum/log"
)

// Levels re-exported for callers that configure handlers.
const (
	LevelTrace = ethlog.LevelTrace
	LevelDebug = ethlog.LevelDebug
	LevelInfo  = ethlog.LevelInfo
	LevelWarn  = ethlog.LevelWarn
	LevelError = ethlog.LevelError
	LevelCrit  = ethlog.LevelCrit
)

// Logger writes key/value pairs to a handler.
type Logger interface {
	With(ctx ...any) Logger
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Crit(msg string, ctx ...any)
	Enabled(ctx context.Context, level slog.Level) bool
}

// Root returns the root logger.
func Root() Logger {
	return &lazyLogger{}
}

// SetDefault replaces the root logger with one writing to h.
func SetDefault(h slog.Handler) {
	ethlog.SetDefault(ethlog.NewLogger(h))
}

// WithContext returns a logger carrying ctx on every record.
func WithContext(ctx ...any) Logger {
	return &lazyLogger{ctx: ctx}
}

// New returns a logger bound to h, independent of the root logger.
func New(h slog.Handler, ctx ...any) Logger {
	return &boundLogger{ethlog.NewLogger(h).With(ctx...)}
}

type lazyLogger struct {
	ctx []any
}

func (l *lazyLogger) resolve() ethlog.Logger {
	if len(l.ctx) == 0 {
		return ethlog.Root()
	}
	return ethlog.Root().With(l.ctx...)
}

func (l *lazyLogger) With(ctx ...any) Logger {
	merged := make([]any, 0, len(l.ctx)+len(ctx))
	merged = append(merged, l.ctx...)
	return &lazyLogger{ctx: append(merged, ctx...)}
}

func (l *lazyLogger) Trace(msg string, ctx ...any) { l.resolve().Trace(msg, ctx...) }
func (l *lazyLogger) Debug(msg string, ctx ...any) { l.resolve().Debug(msg, ctx...) }
func (l *lazyLogger) Info(msg string, ctx ...any)  { l.resolve().Info(msg, ctx...) }
func (l *lazyLogger) Warn(msg string, ctx ...any)  { l.resolve().Warn(msg, ctx...) }
func (l *lazyLogger) Error(msg string, ctx ...any) { l.resolve().Error(msg, ctx...) }
func (l *lazyLogger) Crit(msg string, ctx ...any)  { l.resolve().Crit(msg, ctx...) }

func (l *lazyLogger) Enabled(ctx context.Context, level slog.Level) bool {
	return ethlog.Root().Enabled(ctx, level)
}

type boundLogger struct {
	inner ethlog.Logger
}

func (l *boundLogger) With(ctx ...any) Logger       { return &boundLogger{l.inner.With(ctx...)} }
func (l *boundLogger) Trace(msg string, ctx ...any) { l.inner.Trace(msg, ctx...) }
func (l *boundLogger) Debug(msg string, ctx ...any) { l.inner.Debug(msg, ctx...) }
func (l *boundLogger) Info(msg string, ctx ...any)  { l.inner.Info(msg, ctx...) }
func (l *boundLogger) Warn(msg string, ctx ...any)  { l.inner.Warn(msg, ctx...) }
func (l *boundLogger) Error(msg string, ctx ...any) { l.inner.Error(msg, ctx...) }
func (l *boundLogger) Crit(msg string, ctx ...any)  { l.inner.Crit(msg, ctx...) }

func (l *boundLogger) Enabled(ctx context.Context, level slog.Level) bool {
	return l.inner.Enabled(ctx, level)
}
