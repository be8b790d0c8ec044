// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// LevelOff disables logging.
const LevelOff = slog.Level(100)

// ParseLevel maps a level name to a slog level. "off" and "" yield LevelOff.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "off":
		return LevelOff, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("log level %q", s)
}

// NewLogger returns a text logger at the configured level writing to w,
// or nil when logging is off.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	lvl, err := ParseLevel(c.Log.Level)
	if err != nil || lvl == LevelOff {
		return nil
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
