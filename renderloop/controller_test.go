// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package renderloop

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/gogpu/systemview/internal/logging"
)

// recordingScheduler wraps a Queue and records every call.
type recordingScheduler struct {
	*Queue
	scheduled []Handle
	cancelled []Handle
}

func newRecordingScheduler() *recordingScheduler {
	return &recordingScheduler{Queue: NewQueue()}
}

func (s *recordingScheduler) ScheduleFrame(fn FrameFunc) Handle {
	h := s.Queue.ScheduleFrame(fn)
	s.scheduled = append(s.scheduled, h)
	return h
}

func (s *recordingScheduler) CancelFrame(h Handle) {
	s.cancelled = append(s.cancelled, h)
	s.Queue.CancelFrame(h)
}

func TestAttachTwiceSchedulesOnce(t *testing.T) {
	s := newRecordingScheduler()
	c := NewController(s, func(time.Duration) {})

	c.OnAttached()
	c.OnAttached()

	if len(s.scheduled) != 1 || s.Len() != 1 {
		t.Errorf("scheduled %d frames (queue %d), want 1", len(s.scheduled), s.Len())
	}
	if !c.Running() {
		t.Error("Running() = false after attach")
	}
}

func TestDetachWithoutPendingIsNoop(t *testing.T) {
	s := newRecordingScheduler()
	c := NewController(s, func(time.Duration) {})

	c.OnDetached()
	c.OnDetached()
	if len(s.cancelled) != 0 {
		t.Errorf("CancelFrame called %d times", len(s.cancelled))
	}
	if c.Running() {
		t.Error("Running() = true")
	}
}

func TestLiveCheckGatesAttach(t *testing.T) {
	s := newRecordingScheduler()
	live := false
	c := NewController(s, func(time.Duration) {}, WithLiveCheck(func() bool { return live }))

	c.OnAttached()
	if c.Running() {
		t.Fatal("attached while not live")
	}
	live = true
	c.OnAttached()
	if !c.Running() {
		t.Fatal("not running after live attach")
	}
}

func TestFrameSchedulesSuccessorBeforeTick(t *testing.T) {
	s := newRecordingScheduler()
	var c *Controller
	var pendingDuringTick bool
	c = NewController(s, func(time.Duration) {
		_, pendingDuringTick = c.Pending()
	})

	c.OnAttached()
	s.Dispatch(16 * time.Millisecond)

	if !pendingDuringTick {
		t.Error("no successor pending while the tick ran")
	}
	if c.Frames() != 1 {
		t.Errorf("Frames() = %d, want 1", c.Frames())
	}
	if s.Len() != 1 {
		t.Errorf("queue holds %d frames, want 1", s.Len())
	}
}

func TestDetachDuringTickStopsChain(t *testing.T) {
	s := newRecordingScheduler()
	var c *Controller
	ticks := 0
	c = NewController(s, func(time.Duration) {
		ticks++
		if ticks == 2 {
			c.OnDetached()
		}
	})

	c.OnAttached()
	for i := 0; i < 5; i++ {
		s.Dispatch(time.Duration(i) * 16 * time.Millisecond)
	}
	if ticks != 2 {
		t.Errorf("ticks = %d, want 2", ticks)
	}
	if c.Running() || s.Len() != 0 {
		t.Errorf("chain still running after detach (queue %d)", s.Len())
	}
}

// lateScheduler ignores cancellation, so cancelled callbacks still fire.
type lateScheduler struct {
	next Handle
	fns  []FrameFunc
}

func (s *lateScheduler) ScheduleFrame(fn FrameFunc) Handle {
	s.next++
	s.fns = append(s.fns, fn)
	return s.next
}

func (s *lateScheduler) CancelFrame(Handle) {}

func (s *lateScheduler) fireAll(now time.Duration) {
	fns := s.fns
	s.fns = nil
	for _, fn := range fns {
		fn(now)
	}
}

func TestLateCancelledFrameIgnored(t *testing.T) {
	s := &lateScheduler{}
	ticks := 0
	c := NewController(s, func(time.Duration) { ticks++ })

	c.OnAttached()
	c.OnDetached()
	c.OnAttached()

	// Both the cancelled and the live callback fire.
	s.fireAll(0)
	if ticks != 1 {
		t.Errorf("ticks = %d, want 1", ticks)
	}
	if len(s.fns) != 1 {
		t.Errorf("%d successors scheduled, want 1", len(s.fns))
	}
}

func TestDoubleScheduleCancelsOlder(t *testing.T) {
	var buf bytes.Buffer
	logging.Set(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { logging.Set(nil) })

	s := newRecordingScheduler()
	c := NewController(s, func(time.Duration) {})
	c.OnAttached()
	first, _ := c.Pending()

	c.mu.Lock()
	c.scheduleLocked()
	c.mu.Unlock()

	second, ok := c.Pending()
	if !ok || second == first {
		t.Fatalf("Pending() = %d, %v", second, ok)
	}
	if len(s.cancelled) != 1 || s.cancelled[0] != first {
		t.Errorf("cancelled = %v, want [%d]", s.cancelled, first)
	}
	if s.Len() != 1 {
		t.Errorf("queue holds %d frames, want 1", s.Len())
	}
	if !strings.Contains(buf.String(), "level=ERROR") {
		t.Errorf("no error logged: %q", buf.String())
	}
}

func TestReattachAfterDetach(t *testing.T) {
	s := newRecordingScheduler()
	ticks := 0
	c := NewController(s, func(time.Duration) { ticks++ })

	c.OnAttached()
	s.Dispatch(0)
	c.OnDetached()
	c.OnAttached()
	s.Dispatch(time.Millisecond)
	s.Dispatch(2 * time.Millisecond)

	if ticks != 3 {
		t.Errorf("ticks = %d, want 3", ticks)
	}
	if s.Len() != 1 {
		t.Errorf("queue holds %d frames, want 1", s.Len())
	}
}
