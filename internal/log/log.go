// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package log implements leveled logging carried on a context.
//
// Code that has no logger installed on its context logs nothing, so
// library packages may call these functions freely.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/exp/slog"
)

// level is shared by all loggers created with NewLineLogger.
var level slog.LevelVar

// SetLevel sets the minimum level for line loggers.
// Valid values are "debug", "info", "warning" and "error".
func SetLevel(s string) error {
	switch strings.ToLower(s) {
	case "debug":
		level.Set(slog.LevelDebug)
	case "info":
		level.Set(slog.LevelInfo)
	case "warn", "warning":
		level.Set(slog.LevelWarn)
	case "error":
		level.Set(slog.LevelError)
	default:
		return fmt.Errorf("unknown log level %q", s)
	}
	return nil
}

type loggerKey struct{}

// WithLogger returns a context that logs to l.
func WithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// WithLineLogger returns a context that logs one line per event
// to stderr.
func WithLineLogger(ctx context.Context) context.Context {
	return WithLogger(ctx, NewLineLogger(os.Stderr))
}

// NewLineLogger returns a logger writing key=value lines to w,
// filtered by the level set with SetLevel.
func NewLineLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: &level}))
}

// FromContext returns the logger installed on ctx, or a logger that
// discards everything.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return discard
}

var discard = slog.New(discardHandler{})

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h discardHandler) WithGroup(string) slog.Handler           { return h }

// Debugf logs a formatted message at debug level.
func Debugf(ctx context.Context, format string, args ...any) {
	logf(ctx, slog.LevelDebug, format, args)
}

// Infof logs a formatted message at info level.
func Infof(ctx context.Context, format string, args ...any) {
	logf(ctx, slog.LevelInfo, format, args)
}

func logf(ctx context.Context, lvl slog.Level, format string, args []any) {
	l := FromContext(ctx)
	if !l.Enabled(ctx, lvl) {
		return
	}
	l.Log(ctx, lvl, fmt.Sprintf(format, args...))
}
