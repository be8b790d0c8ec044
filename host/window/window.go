// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package window shows a view in a desktop window through Ebitengine.
package window

import (
	"errors"
	"image"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/draw"

	"github.com/gogpu/systemview/renderloop"
)

// Host is a systemview.Host backed by an Ebitengine window. The view
// renders at the window's layout size; frames are dispatched from Draw.
type Host struct {
	*renderloop.Queue

	title string

	mu    sync.Mutex
	w, h  int
	frame *image.RGBA
	dirty bool
}

// New creates a host for a window of the given initial size.
func New(width, height int, title string) *Host {
	return &Host{Queue: renderloop.NewQueue(), w: width, h: height, title: title}
}

// Size implements systemview.Host.
func (h *Host) Size() (int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.w, h.h
}

// Present copies img for the next Draw.
func (h *Host) Present(img image.Image) error {
	b := img.Bounds()
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.frame == nil || h.frame.Bounds().Size() != b.Size() {
		h.frame = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	}
	draw.Draw(h.frame, h.frame.Bounds(), img, b.Min, draw.Src)
	h.dirty = true
	return nil
}

// Run opens the window and blocks until it closes. onClose runs once
// when the user closes the window or presses Escape.
func (h *Host) Run(onClose func()) error {
	w, ht := h.Size()
	ebiten.SetWindowTitle(h.title)
	ebiten.SetWindowSize(w, ht)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)

	g := &game{h: h, onClose: onClose, start: time.Now()}
	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

type game struct {
	h       *Host
	onClose func()
	closed  bool
	start   time.Time
	img     *ebiten.Image
}

func (g *game) Update() error {
	if ebiten.IsWindowBeingClosed() || ebiten.IsKeyPressed(ebiten.KeyEscape) {
		g.close()
		return ebiten.Termination
	}
	return nil
}

func (g *game) close() {
	if g.closed {
		return
	}
	g.closed = true
	if g.onClose != nil {
		g.onClose()
	}
}

func (g *game) Draw(screen *ebiten.Image) {
	g.h.Dispatch(time.Since(g.start))

	g.h.mu.Lock()
	frame, dirty := g.h.frame, g.h.dirty
	g.h.dirty = false
	if frame != nil && dirty {
		b := frame.Bounds()
		if g.img == nil || g.img.Bounds().Size() != b.Size() {
			if g.img != nil {
				g.img.Deallocate()
			}
			g.img = ebiten.NewImage(b.Dx(), b.Dy())
		}
		g.img.WritePixels(frame.Pix)
	}
	g.h.mu.Unlock()

	if g.img != nil {
		screen.DrawImage(g.img, nil)
	}
}

// Layout tracks the window size so the view follows resizes.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.h.mu.Lock()
	g.h.w, g.h.h = outsideWidth, outsideHeight
	g.h.mu.Unlock()
	return outsideWidth, outsideHeight
}
