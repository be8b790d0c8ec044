// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package logging holds the process-wide logger shared by systemview and
// its sub-packages. The root package re-exports it as SetLogger/Logger so
// sub-packages can log without importing the root (which imports them).
package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// Nop returns a logger that discards all output.
func Nop() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(Nop())
}

// Set stores l as the shared logger. Nil restores the silent default.
func Set(l *slog.Logger) {
	if l == nil {
		l = Nop()
	}
	loggerPtr.Store(l)
}

// Logger returns the shared logger. Never nil.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
