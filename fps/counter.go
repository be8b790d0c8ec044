// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fps

import (
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gogpu/systemview/internal/logging"
	"github.com/gogpu/systemview/scene"
)

// MeshSource supplies the visual for a message. Repeated calls with the
// same message must return the same node.
type MeshSource interface {
	Mesh(message string) (*scene.Node, error)
}

// DefaultWindow is the averaging window.
const DefaultWindow = time.Second

// Option configures a Counter.
type Option func(*options)

type options struct {
	window   time.Duration
	origin   mgl64.Vec2
	onUpdate func(string)
}

// WithWindow sets the averaging window. Non-positive values are ignored.
func WithWindow(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.window = d
		}
	}
}

// WithOrigin sets where visuals are placed under the parent node, in the
// parent's units (pixels for a screen-space overlay).
func WithOrigin(x, y float64) Option {
	return func(o *options) {
		o.origin = mgl64.Vec2{x, y}
	}
}

// WithOnUpdate registers fn to be called with each new display string.
func WithOnUpdate(fn func(string)) Option {
	return func(o *options) {
		o.onUpdate = fn
	}
}

// Counter is a frame-rate meter. It is driven from the render loop and is
// not safe for concurrent use.
type Counter struct {
	parent *scene.Node
	source MeshSource
	opts   options

	last   time.Duration
	seeded bool
	frames int

	current *scene.Node
	text    string
	fps     int
}

// New creates a counter that attaches its visual to parent. source may be
// nil until one is available; see SetSource.
func New(parent *scene.Node, source MeshSource, opts ...Option) *Counter {
	o := options{window: DefaultWindow}
	for _, opt := range opts {
		opt(&o)
	}
	return &Counter{parent: parent, source: source, opts: o}
}

// SetSource replaces the mesh source. If a rate has already been measured
// its visual is shown right away.
func (c *Counter) SetSource(source MeshSource) {
	c.source = source
	if source != nil && c.text != "" {
		c.show(c.text)
	}
}

// OnFrame records one frame at time now.
//
// The first call only seeds the clock. A window that measures zero elapsed
// time is left open until the next frame, and a clock that goes backwards
// restarts the window.
func (c *Counter) OnFrame(now time.Duration) {
	if !c.seeded {
		c.last = now
		c.seeded = true
		return
	}
	if now < c.last {
		logging.Logger().Debug("fps: clock went backwards, reseeding",
			slog.Duration("last", c.last), slog.Duration("now", now))
		c.last = now
		c.frames = 0
		return
	}

	c.frames++
	elapsed := now - c.last
	if elapsed <= 0 || elapsed < c.opts.window {
		return
	}

	c.fps = int(math.Round(float64(c.frames) / elapsed.Seconds()))
	c.text = strconv.Itoa(c.fps)
	c.last = now
	c.frames = 0

	c.show(c.text)
	if c.opts.onUpdate != nil {
		c.opts.onUpdate(c.text)
	}
}

func (c *Counter) show(text string) {
	if c.source == nil {
		return
	}
	n, err := c.source.Mesh(text)
	if err != nil {
		logging.Logger().Warn("fps: no visual for rate",
			slog.String("text", text), slog.Any("err", err))
		return
	}
	if n == c.current {
		return
	}
	if c.current != nil {
		c.parent.Remove(c.current)
	}
	n.Position = mgl64.Vec3{c.opts.origin.X(), c.opts.origin.Y(), 0}
	c.parent.Add(n)
	c.current = n
}

// Detach removes the current visual from the parent node.
func (c *Counter) Detach() {
	if c.current != nil {
		c.parent.Remove(c.current)
		c.current = nil
	}
}

// Text returns the last display string, or "" before the first window
// closes.
func (c *Counter) Text() string { return c.text }

// FPS returns the last measured rate.
func (c *Counter) FPS() int { return c.fps }

// Visual returns the node currently attached, or nil.
func (c *Counter) Visual() *scene.Node { return c.current }
