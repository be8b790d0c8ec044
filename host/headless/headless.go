// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package headless runs a view without a display.
package headless

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/gogpu/gg"

	"github.com/gogpu/systemview/renderloop"
)

// ErrNoFrame is returned by SavePNG before anything was presented.
var ErrNoFrame = errors.New("headless: no frame presented")

// Config controls Run.
type Config struct {
	// Hz is the frame rate. Zero means 60.
	Hz int
	// Frames stops Run after this many ticks. Zero runs until ctx is done.
	Frames uint64
}

// Host is an off-screen systemview.Host. Frames are dispatched by Run or
// by calling Dispatch directly.
type Host struct {
	*renderloop.Queue

	mu        sync.Mutex
	w, h      int
	last      *gg.Pixmap
	presented uint64
	ticks     uint64
}

// New creates a host reporting the given size.
func New(width, height int) *Host {
	return &Host{Queue: renderloop.NewQueue(), w: width, h: height}
}

// Size implements systemview.Host.
func (h *Host) Size() (int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.w, h.h
}

// SetSize changes the reported size; the view picks it up next frame.
func (h *Host) SetSize(width, height int) {
	h.mu.Lock()
	h.w, h.h = width, height
	h.mu.Unlock()
}

// Present copies img as the last frame.
func (h *Host) Present(img image.Image) error {
	p := gg.FromImage(img)
	h.mu.Lock()
	h.last = p
	h.presented++
	h.mu.Unlock()
	return nil
}

// Last returns a copy of the most recently presented frame, or nil.
func (h *Host) Last() image.Image {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.last == nil {
		return nil
	}
	return h.last.ToImage()
}

// Presented returns how many frames were presented.
func (h *Host) Presented() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.presented
}

// Ticks returns how many ticks Run has dispatched.
func (h *Host) Ticks() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ticks
}

// SavePNG writes the last frame to path.
func (h *Host) SavePNG(path string) error {
	h.mu.Lock()
	last := h.last
	h.mu.Unlock()
	if last == nil {
		return ErrNoFrame
	}
	return last.SavePNG(path)
}

// Run dispatches frames at cfg.Hz until ctx is done or cfg.Frames ticks
// have run. Frame timestamps are measured from the start of Run.
func (h *Host) Run(ctx context.Context, cfg Config) error {
	if cfg.Hz == 0 {
		cfg.Hz = 60
	}
	if cfg.Hz < 0 || cfg.Hz > int(time.Second) {
		return fmt.Errorf("headless: invalid hz: %d", cfg.Hz)
	}
	d := time.Second / time.Duration(cfg.Hz)
	t := time.NewTicker(d)
	defer t.Stop()

	start := time.Now()
	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			h.Dispatch(time.Since(start))
			tick++
			h.mu.Lock()
			h.ticks = tick
			h.mu.Unlock()
			if cfg.Frames > 0 && tick >= cfg.Frames {
				return nil
			}
		}
	}
}
