// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log is a thin layer over go-ethereum's slog based logger.
// Package level loggers are created with WithContext and always write through
// the current root logger, so SetDefault takes effect for them too.
package log

import (
	"io"
	"log/slog"

	ethlog "github.com/ethereum/go-ethereum/log"
)

// Logger writes key/value pairs to a handler.
type Logger = ethlog.Logger

const (
	LevelTrace = ethlog.LevelTrace
	LevelDebug = ethlog.LevelDebug
	LevelInfo  = ethlog.LevelInfo
	LevelWarn  = ethlog.LevelWarn
	LevelError = ethlog.LevelError
	LevelCrit  = ethlog.LevelCrit
)

// Root returns the root logger.
func Root() Logger {
	return ethlog.Root()
}

// SetDefault sets the root logger.
func SetDefault(l Logger) {
	ethlog.SetDefault(l)
}

// NewLogger returns a logger with the specified handler set.
func NewLogger(h slog.Handler) Logger {
	return ethlog.NewLogger(h)
}

// NewTerminalHandler returns a human readable handler that drops records below lvl.
func NewTerminalHandler(wr io.Writer, lvl slog.Level, useColor bool) slog.Handler {
	return ethlog.NewTerminalHandlerWithLevel(wr, lvl, useColor)
}

// JSONHandler returns a handler which prints records in JSON format.
func JSONHandler(wr io.Writer) slog.Handler {
	return ethlog.JSONHandler(wr)
}

// JSONHandlerWithLevel returns a JSON handler that drops records below lvl.
func JSONHandlerWithLevel(wr io.Writer, lvl slog.Level) slog.Handler {
	return ethlog.JSONHandlerWithLevel(wr, lvl)
}

// DiscardHandler returns a no-op handler.
func DiscardHandler() slog.Handler {
	return ethlog.DiscardHandler()
}

// FromVerbosity converts a 0 (crit) .. 5 (trace) verbosity into a level.
func FromVerbosity(verbosity int) slog.Level {
	if verbosity < 0 {
		verbosity = 0
	}
	if verbosity > 5 {
		verbosity = 5
	}
	return ethlog.FromLegacyLevel(verbosity)
}

// ContextLogger is a package level logger carrying a fixed context.
type ContextLogger struct {
	ctx []any
}

// WithContext returns a logger that prefixes every record with ctx.
func WithContext(ctx ...any) *ContextLogger {
	return &ContextLogger{ctx: ctx}
}

func (l *ContextLogger) root() Logger {
	return Root().With(l.ctx...)
}

// Trace logs a message at the trace level.
func (l *ContextLogger) Trace(msg string, ctx ...any) { l.root().Trace(msg, ctx...) }

// Debug logs a message at the debug level.
func (l *ContextLogger) Debug(msg string, ctx ...any) { l.root().Debug(msg, ctx...) }

// Info logs a message at the info level.
func (l *ContextLogger) Info(msg string, ctx ...any) { l.root().Info(msg, ctx...) }

// Warn logs a message at the warn level.
func (l *ContextLogger) Warn(msg string, ctx ...any) { l.root().Warn(msg, ctx...) }

// Error logs a message at the error level.
func (l *ContextLogger) Error(msg string, ctx ...any) { l.root().Error(msg, ctx...) }
