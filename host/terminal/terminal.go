// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package terminal shows a view in a terminal through tcell.
//
// Every cell carries two vertical pixels: the upper half block is drawn
// in the top pixel's color over the bottom pixel's color.
package terminal

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/gogpu/systemview/renderloop"
)

const upperHalf = '▀'

// Host is a systemview.Host drawing into a tcell screen.
type Host struct {
	*renderloop.Queue

	mu     sync.Mutex
	screen tcell.Screen
}

// New wraps an initialized screen.
func New(screen tcell.Screen) *Host {
	return &Host{Queue: renderloop.NewQueue(), screen: screen}
}

// Open creates and initializes the terminal screen.
func Open() (*Host, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("terminal: %w", err)
	}
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("terminal: %w", err)
	}
	s.HideCursor()
	return New(s), nil
}

// Size reports the pixel size: one column per pixel, two pixels per row.
func (h *Host) Size() (int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	cols, rows := h.screen.Size()
	return cols, rows * 2
}

// Present draws img and shows the screen.
func (h *Host) Present(img image.Image) error {
	b := img.Bounds()
	h.mu.Lock()
	defer h.mu.Unlock()
	cols, rows := h.screen.Size()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			top := pixel(img, b, x, 2*y)
			bottom := pixel(img, b, x, 2*y+1)
			h.screen.SetContent(x, y, upperHalf, nil,
				tcell.StyleDefault.Foreground(top).Background(bottom))
		}
	}
	h.screen.Show()
	return nil
}

func pixel(img image.Image, b image.Rectangle, x, y int) tcell.Color {
	p := image.Pt(b.Min.X+x, b.Min.Y+y)
	if !p.In(b) {
		return tcell.ColorBlack
	}
	r, g, bl, _ := img.At(p.X, p.Y).RGBA()
	return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(bl>>8))
}

// Run dispatches frames at hz until ctx is done or the user quits with
// Escape, q or Ctrl-C. onQuit runs once before Run returns for a quit
// key. The screen is finalized when Run returns.
func (h *Host) Run(ctx context.Context, hz int, onQuit func()) error {
	if hz <= 0 || hz > int(time.Second) {
		return fmt.Errorf("terminal: invalid hz: %d", hz)
	}
	defer h.screen.Fini()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	t := time.NewTicker(time.Second / time.Duration(hz))
	defer t.Stop()
	start := time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if quitKey(ev) {
					if onQuit != nil {
						onQuit()
					}
					return nil
				}
			case *tcell.EventResize:
				h.mu.Lock()
				h.screen.Sync()
				h.mu.Unlock()
			}
		case <-t.C:
			h.Dispatch(time.Since(start))
		}
	}
}

func quitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q'
	}
	return false
}
