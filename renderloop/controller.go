// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package renderloop

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/systemview/internal/logging"
)

// Option configures a Controller.
type Option func(*options)

type options struct {
	live func() bool
}

// WithLiveCheck sets the predicate OnAttached consults before starting the
// loop. It should report whether the widget is part of a live visual tree.
// The default always reports true.
func WithLiveCheck(live func() bool) Option {
	return func(o *options) {
		o.live = live
	}
}

// Controller owns the running state of a render loop.
//
// Invariant: at most one frame is pending, and pending is set exactly when
// a frame has been scheduled and neither run nor been cancelled.
type Controller struct {
	sched Scheduler
	tick  FrameFunc
	live  func() bool

	mu         sync.Mutex
	pending    Handle
	hasPending bool
	gen        uint64

	frames atomic.Uint64
}

// NewController creates a stopped controller that runs tick once per frame.
func NewController(sched Scheduler, tick FrameFunc, opts ...Option) *Controller {
	o := options{live: func() bool { return true }}
	for _, opt := range opts {
		opt(&o)
	}
	return &Controller{
		sched: sched,
		tick:  tick,
		live:  o.live,
	}
}

// OnAttached starts the loop if the widget is live and no frame is
// pending. Otherwise it does nothing.
func (c *Controller) OnAttached() {
	if !c.live() {
		logging.Logger().Debug("renderloop: attach ignored, not live")
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hasPending {
		return
	}
	c.scheduleLocked()
	logging.Logger().Info("renderloop: started", slog.Uint64("handle", uint64(c.pending)))
}

// OnDetached cancels the pending frame, if any. A tick that is already
// running finishes, but its successor never runs.
func (c *Controller) OnDetached() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasPending {
		return
	}
	c.sched.CancelFrame(c.pending)
	c.hasPending = false
	c.pending = 0
	c.gen++
	logging.Logger().Info("renderloop: stopped", slog.Uint64("frames", c.frames.Load()))
}

// Running reports whether a frame is pending.
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasPending
}

// Pending returns the pending frame handle.
func (c *Controller) Pending() (Handle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending, c.hasPending
}

// Frames returns how many ticks have started.
func (c *Controller) Frames() uint64 {
	return c.frames.Load()
}

// scheduleLocked schedules the next frame. Finding a frame already pending
// means two chains were about to run; the older one is cancelled.
func (c *Controller) scheduleLocked() {
	if c.hasPending {
		logging.Logger().Error("renderloop: frame already pending, cancelling it",
			slog.Uint64("handle", uint64(c.pending)))
		c.sched.CancelFrame(c.pending)
		c.hasPending = false
	}
	c.gen++
	gen := c.gen
	c.pending = c.sched.ScheduleFrame(func(now time.Duration) {
		c.fire(gen, now)
	})
	c.hasPending = true
}

func (c *Controller) fire(gen uint64, now time.Duration) {
	c.mu.Lock()
	if !c.hasPending || gen != c.gen {
		c.mu.Unlock()
		logging.Logger().Debug("renderloop: stale frame ignored", slog.Uint64("gen", gen))
		return
	}
	c.hasPending = false
	c.scheduleLocked()
	c.mu.Unlock()

	c.frames.Add(1)
	c.tick(now)
}
