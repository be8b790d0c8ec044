// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fps

import (
	"errors"
	"testing"
	"time"

	"github.com/gogpu/systemview/scene"
)

// fakeSource hands out one node per message and counts requests.
type fakeSource struct {
	nodes map[string]*scene.Node
	calls int
	err   error
}

func newFakeSource() *fakeSource {
	return &fakeSource{nodes: make(map[string]*scene.Node)}
}

func (s *fakeSource) Mesh(msg string) (*scene.Node, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	n, ok := s.nodes[msg]
	if !ok {
		n = scene.NewNode(msg)
		s.nodes[msg] = n
	}
	return n, nil
}

func ms(v float64) time.Duration {
	return time.Duration(v * float64(time.Millisecond))
}

func TestSixtyFrames(t *testing.T) {
	parent := scene.NewNode("overlay")
	src := newFakeSource()
	c := New(parent, src)

	c.OnFrame(0)
	for k := 1; k <= 60; k++ {
		c.OnFrame(ms(float64(k) * 16.667))
	}
	if got := c.Text(); got != "60" {
		t.Errorf("Text() = %q, want %q", got, "60")
	}
	if c.Visual() == nil || c.Visual().Name != "60" {
		t.Errorf("Visual() = %v, want node 60", c.Visual())
	}
	if c.Visual().Parent() != parent {
		t.Error("visual not attached to parent")
	}
}

func TestFirstFrameOnlySeeds(t *testing.T) {
	src := newFakeSource()
	updates := 0
	c := New(scene.NewNode("overlay"), src, WithOnUpdate(func(string) { updates++ }))

	c.OnFrame(5 * time.Second)
	if src.calls != 0 || updates != 0 || c.Visual() != nil || c.Text() != "" {
		t.Errorf("first frame produced output: calls=%d updates=%d", src.calls, updates)
	}
}

func TestEndToEndSixFrames(t *testing.T) {
	src := newFakeSource()
	var got []string
	c := New(scene.NewNode("overlay"), src, WithOnUpdate(func(s string) { got = append(got, s) }))

	c.OnFrame(0)
	for _, at := range []float64{180, 360, 540, 720, 900} {
		c.OnFrame(ms(at))
	}
	if len(got) != 0 || c.Visual() != nil {
		t.Fatalf("updated before the window closed: %v", got)
	}
	c.OnFrame(ms(1000))
	if len(got) != 1 || got[0] != "6" {
		t.Errorf("updates = %v, want [6]", got)
	}
	if c.FPS() != 6 {
		t.Errorf("FPS() = %d, want 6", c.FPS())
	}
}

func TestZeroElapsedDefers(t *testing.T) {
	src := newFakeSource()
	c := New(scene.NewNode("overlay"), src, WithWindow(time.Nanosecond))

	c.OnFrame(time.Second)
	c.OnFrame(time.Second)
	c.OnFrame(time.Second)
	if c.Text() != "" {
		t.Fatalf("updated with zero elapsed time: %q", c.Text())
	}
	c.OnFrame(time.Second + 100*time.Millisecond)
	if got := c.Text(); got != "30" {
		t.Errorf("Text() = %q, want 30 (3 frames / 0.1s)", got)
	}
}

func TestClockBackwardsReseeds(t *testing.T) {
	src := newFakeSource()
	c := New(scene.NewNode("overlay"), src)

	c.OnFrame(10 * time.Second)
	c.OnFrame(10*time.Second + 500*time.Millisecond)
	c.OnFrame(time.Second)
	for k := 1; k <= 10; k++ {
		c.OnFrame(time.Second + time.Duration(k)*100*time.Millisecond)
	}
	if got := c.Text(); got != "10" {
		t.Errorf("Text() = %q, want 10", got)
	}
}

func TestSwapDetachesOldVisual(t *testing.T) {
	parent := scene.NewNode("overlay")
	src := newFakeSource()
	c := New(parent, src, WithOrigin(5, 7))

	c.OnFrame(0)
	for k := 1; k <= 30; k++ {
		c.OnFrame(ms(float64(k) * 1000 / 30))
	}
	first := c.Visual()
	if first == nil || first.Name != "30" {
		t.Fatalf("first visual = %v", first)
	}
	if first.Position.X() != 5 || first.Position.Y() != 7 {
		t.Errorf("visual position = %v, want (5,7)", first.Position)
	}

	base := ms(1000)
	for k := 1; k <= 60; k++ {
		c.OnFrame(base + ms(float64(k)*1000/60))
	}
	second := c.Visual()
	if second == nil || second.Name != "60" {
		t.Fatalf("second visual = %v", second)
	}
	if first.Parent() != nil {
		t.Error("old visual still attached")
	}
	if len(parent.Children()) != 1 {
		t.Errorf("parent has %d children, want 1", len(parent.Children()))
	}
	if len(src.nodes) != 2 {
		t.Errorf("source holds %d nodes, want 2", len(src.nodes))
	}

	// Back to 30: the cached node is reused.
	base = ms(2000)
	for k := 1; k <= 30; k++ {
		c.OnFrame(base + ms(float64(k)*1000/30))
	}
	if c.Visual() != first {
		t.Error("repeated rate did not reuse the cached visual")
	}

	c.Detach()
	if c.Visual() != nil || len(parent.Children()) != 0 {
		t.Error("Detach left a visual attached")
	}
}

func TestMeshErrorKeepsPrevious(t *testing.T) {
	parent := scene.NewNode("overlay")
	src := newFakeSource()
	c := New(parent, src)

	c.OnFrame(0)
	c.OnFrame(ms(500))
	c.OnFrame(ms(1000))
	prev := c.Visual()
	if prev == nil {
		t.Fatal("no visual after first window")
	}

	src.err = errors.New("boom")
	c.OnFrame(ms(1500))
	c.OnFrame(ms(1750))
	c.OnFrame(ms(2000))
	if c.Text() != "3" {
		t.Errorf("Text() = %q, want 3", c.Text())
	}
	if c.Visual() != prev || prev.Parent() != parent {
		t.Error("mesh failure replaced or detached the previous visual")
	}
}

func TestSetSourceShowsCurrentRate(t *testing.T) {
	parent := scene.NewNode("overlay")
	c := New(parent, nil)

	c.OnFrame(0)
	c.OnFrame(ms(1000))
	if c.Text() != "1" || c.Visual() != nil {
		t.Fatalf("Text() = %q, Visual() = %v", c.Text(), c.Visual())
	}

	c.SetSource(newFakeSource())
	if c.Visual() == nil || c.Visual().Name != "1" {
		t.Errorf("Visual() = %v after SetSource", c.Visual())
	}
}
