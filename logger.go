package systemview

import (
	"log/slog"

	"github.com/gogpu/gg"

	"github.com/gogpu/systemview/internal/logging"
)

// SetLogger configures the logger for systemview and all its sub-packages,
// and forwards it to gg. By default, systemview produces no log output.
//
// SetLogger is safe for concurrent use. Pass nil to restore silence.
//
// Log levels used by systemview:
//   - [slog.LevelDebug]: per-frame diagnostics (skipped resizes, cache misses)
//   - [slog.LevelInfo]: lifecycle events (view created, loop started, font loaded)
//   - [slog.LevelWarn]: non-fatal failures (font load, mesh generation, present)
//   - [slog.LevelError]: broken invariants (two frames pending at once)
//
// Example:
//
//	systemview.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logging.Set(l)
	gg.SetLogger(l)
}

// Logger returns the current logger.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return logging.Logger()
}
