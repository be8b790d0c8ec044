package systemview

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerDefaultSilent(t *testing.T) {
	l := Logger()
	if l == nil {
		t.Fatal("Logger() = nil")
	}
	if l.Enabled(t.Context(), slog.LevelError) {
		t.Error("default logger is enabled")
	}
}

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { SetLogger(nil) })

	v, err := New(newFakeHost(16, 16))
	if err != nil {
		t.Fatal(err)
	}
	_ = v.Close()

	out := buf.String()
	if !strings.Contains(out, "view created") || !strings.Contains(out, "view="+v.ID().String()) {
		t.Errorf("log output missing view lifecycle: %q", out)
	}

	SetLogger(nil)
	if Logger().Enabled(t.Context(), slog.LevelError) {
		t.Error("SetLogger(nil) did not restore silence")
	}
}
