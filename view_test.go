package systemview

import (
	"context"
	"errors"
	"image"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/systemview/content"
	"github.com/gogpu/systemview/renderloop"
	"github.com/gogpu/systemview/text"
)

// fakeHost is an in-memory Host driven by the test.
type fakeHost struct {
	*renderloop.Queue
	w, h      int
	presented int
	last      image.Image
	err       error
}

func newFakeHost(w, h int) *fakeHost {
	return &fakeHost{Queue: renderloop.NewQueue(), w: w, h: h}
}

func (h *fakeHost) Size() (int, int) { return h.w, h.h }

func (h *fakeHost) Present(img image.Image) error {
	h.presented++
	h.last = img
	return h.err
}

func newView(t *testing.T, h Host, opts ...Option) *View {
	t.Helper()
	v, err := New(h, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = v.Close() })
	return v
}

func waitFont(t *testing.T, v *View) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := v.WaitFont(ctx); err != nil {
		t.Fatalf("WaitFont: %v", err)
	}
}

// run dispatches n frames 1/60 s apart starting at from.
func run(h *fakeHost, from time.Duration, n int) time.Duration {
	now := from
	for i := 0; i < n; i++ {
		h.Dispatch(now)
		now += time.Second / 60
	}
	return now
}

func TestNewNilHost(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrNilHost) {
		t.Errorf("New(nil) err = %v, want ErrNilHost", err)
	}
}

func TestNewDefaults(t *testing.T) {
	v := newView(t, newFakeHost(320, 240))

	cam := v.Camera()
	if cam.FOV != DefaultFOV || cam.Near != DefaultNear || cam.Far != DefaultFar {
		t.Errorf("camera = fov %v near %v far %v", cam.FOV, cam.Near, cam.Far)
	}
	if cam.Position.Z() != DefaultDistance {
		t.Errorf("camera z = %v, want %v", cam.Position.Z(), DefaultDistance)
	}
	if v.Overlay().Node().Parent() != cam.Node {
		t.Error("overlay is not a child of the camera")
	}
	if v.Overlay().Node().Find("marker") == nil {
		t.Error("marker missing from overlay")
	}
	if _, ok := v.Content().(*content.Cube); !ok {
		t.Errorf("default content = %T, want *content.Cube", v.Content())
	}
	if v.ID().String() == "" {
		t.Error("empty view ID")
	}
	if v.Attached() {
		t.Error("new view is attached")
	}
}

func TestAttachTwiceOneChain(t *testing.T) {
	h := newFakeHost(64, 64)
	v := newView(t, h)

	v.OnAttached()
	v.OnAttached()
	if h.Len() != 1 {
		t.Fatalf("%d frames pending, want 1", h.Len())
	}
	h.Dispatch(0)
	if h.Len() != 1 {
		t.Errorf("%d frames pending after one frame, want 1", h.Len())
	}
	if h.presented != 1 {
		t.Errorf("presented %d frames, want 1", h.presented)
	}
}

func TestDetachStopsFrames(t *testing.T) {
	h := newFakeHost(64, 64)
	v := newView(t, h)

	v.OnDetached()
	v.OnAttached()
	run(h, 0, 3)
	v.OnDetached()
	v.OnDetached()

	if h.Len() != 0 {
		t.Errorf("%d frames pending after detach", h.Len())
	}
	before := h.presented
	run(h, time.Second, 3)
	if h.presented != before {
		t.Errorf("frames presented after detach: %d -> %d", before, h.presented)
	}
	if v.Frames() != 3 {
		t.Errorf("Frames() = %d, want 3", v.Frames())
	}
}

func TestFPSOverlay(t *testing.T) {
	h := newFakeHost(320, 240)
	var updates []string
	v := newView(t, h, WithTextSize(24), WithOnFPS(func(s string) { updates = append(updates, s) }))
	waitFont(t, v)

	v.OnAttached()
	h.Dispatch(0)
	for k := 1; k <= 60; k++ {
		h.Dispatch(time.Duration(float64(k) * 16.667 * float64(time.Millisecond)))
	}

	if got := v.Counter().Text(); got != "60" {
		t.Fatalf("Text() = %q, want 60", got)
	}
	if v.FPS() != 60 || len(updates) != 1 {
		t.Errorf("FPS() = %d, updates = %v", v.FPS(), updates)
	}
	visual := v.Counter().Visual()
	if visual == nil || visual.Parent() != v.Overlay().Node() {
		t.Fatal("FPS visual not attached to the overlay")
	}
	if visual.Mesh == nil || len(visual.Mesh.Geometry.Faces) != 2 {
		t.Errorf("visual for 60 has %v", visual.Mesh)
	}
}

func TestResize(t *testing.T) {
	h := newFakeHost(200, 100)
	v := newView(t, h)
	v.OnAttached()
	h.Dispatch(0)

	h.w, h.h = 300, 300
	h.Dispatch(time.Millisecond)
	if v.Camera().Aspect != 1 {
		t.Errorf("Aspect = %v, want 1", v.Camera().Aspect)
	}
	if b := h.last.Bounds(); b.Dx() != 300 || b.Dy() != 300 {
		t.Errorf("presented %v, want 300x300", b)
	}
	tr, _ := v.Overlay().Transform()
	if tr.Width != 300 || tr.Height != 300 {
		t.Errorf("overlay transform for %dx%d", tr.Width, tr.Height)
	}
}

func TestZeroHeightKeepsLastGood(t *testing.T) {
	h := newFakeHost(200, 100)
	v := newView(t, h)
	v.OnAttached()
	h.Dispatch(0)

	h.h = 0
	h.Dispatch(time.Millisecond)

	if v.Camera().Aspect != 2 {
		t.Errorf("Aspect = %v, want last good 2", v.Camera().Aspect)
	}
	for i := 0; i < 3; i++ {
		if s := v.Overlay().Node().Scale[i]; math.IsNaN(s) || math.IsInf(s, 0) {
			t.Fatalf("overlay scale %v", v.Overlay().Node().Scale)
		}
	}
	if h.presented != 2 {
		t.Errorf("presented %d frames, want 2", h.presented)
	}
	if b := h.last.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Errorf("presented %v, want last good 200x100", b)
	}
}

func TestZeroSizeAtCreation(t *testing.T) {
	h := newFakeHost(0, 0)
	v := newView(t, h)
	v.OnAttached()
	h.Dispatch(0)

	h.w, h.h = 40, 20
	h.Dispatch(time.Millisecond)
	if v.Camera().Aspect != 2 {
		t.Errorf("Aspect = %v, want 2", v.Camera().Aspect)
	}
}

func TestFontFailureDegrades(t *testing.T) {
	h := newFakeHost(64, 64)
	var got []error
	v := newView(t, h,
		WithFontURL("builtin:missing"),
		WithFontErrorHandler(func(err error) { got = append(got, err) }))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := v.WaitFont(ctx); !errors.Is(err, text.ErrUnknownBuiltin) {
		t.Fatalf("WaitFont err = %v", err)
	}

	v.OnAttached()
	run(h, 0, 90)

	if len(got) != 1 || !errors.Is(got[0], text.ErrUnknownBuiltin) {
		t.Errorf("error handler got %v", got)
	}
	if v.Counter().Text() == "" {
		t.Error("counter stopped measuring")
	}
	if v.Counter().Visual() != nil {
		t.Error("visual shown without a font")
	}
	if h.presented != 90 {
		t.Errorf("presented %d frames, want 90", h.presented)
	}
}

func TestFontRetry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "late.ttf")
	h := newFakeHost(64, 64)
	failures := 0
	v := newView(t, h,
		WithFontURL(path),
		WithFontRetry(100*time.Millisecond),
		WithFontErrorHandler(func(error) { failures++ }))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := v.WaitFont(ctx); err == nil {
		t.Fatal("font loaded before the file existed")
	}
	v.Frame(0)
	if failures != 1 {
		t.Fatalf("failures = %d, want 1", failures)
	}

	if err := os.WriteFile(path, goregular.TTF, 0o600); err != nil {
		t.Fatal(err)
	}
	v.Frame(50 * time.Millisecond)
	if err := v.WaitFont(ctx); err == nil {
		t.Fatal("retried before the interval elapsed")
	}

	v.Frame(100 * time.Millisecond)
	waitFont(t, v)
	v.Frame(120 * time.Millisecond)
	v.Frame(1200 * time.Millisecond)
	if v.Counter().Visual() == nil {
		t.Error("no visual after a successful retry")
	}
	if failures != 1 {
		t.Errorf("failures = %d, want 1", failures)
	}
}

func TestSharedFontLoader(t *testing.T) {
	loader := text.NewFontLoader()
	a := newView(t, newFakeHost(32, 32), WithFontLoader(loader))
	b := newView(t, newFakeHost(32, 32), WithFontLoader(loader))
	waitFont(t, a)
	waitFont(t, b)
	if loader.Len() != 1 {
		t.Errorf("loader holds %d fonts, want 1", loader.Len())
	}
}

func TestPresentErrorKeepsRunning(t *testing.T) {
	h := newFakeHost(32, 32)
	h.err = errors.New("surface lost")
	v := newView(t, h)
	v.OnAttached()
	run(h, 0, 5)
	if v.Frames() != 5 || !v.Attached() {
		t.Errorf("Frames() = %d, Attached() = %v", v.Frames(), v.Attached())
	}
}

func TestLiveCheck(t *testing.T) {
	h := newFakeHost(32, 32)
	v := newView(t, h, WithLiveCheck(func() bool { return false }))
	v.OnAttached()
	if v.Attached() || h.Len() != 0 {
		t.Error("attached while not live")
	}
}

func TestClose(t *testing.T) {
	h := newFakeHost(32, 32)
	v, err := New(h)
	if err != nil {
		t.Fatal(err)
	}
	v.OnAttached()
	if err := v.Close(); err != nil {
		t.Fatal(err)
	}
	if err := v.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
	if h.Len() != 0 {
		t.Error("frame still pending after Close")
	}
	v.Frame(time.Second)
	v.OnAttached()
	if h.presented != 0 || v.Attached() {
		t.Error("closed view rendered or reattached")
	}
}

func TestContentAnimates(t *testing.T) {
	h := newFakeHost(32, 32)
	cube := content.NewCube()
	v := newView(t, h, WithContent(cube), WithMarker(false))
	if v.Overlay().Node().Find("marker") != nil {
		t.Error("marker shown with WithMarker(false)")
	}
	v.Frame(0)
	v.Frame(500 * time.Millisecond)
	if r := cube.Node().Rotation.X(); math.Abs(r-0.5) > 1e-9 {
		t.Errorf("rotation = %v after 0.5s, want 0.5", r)
	}
}

func TestWaitFontAfterClose(t *testing.T) {
	v, err := New(newFakeHost(32, 32))
	if err != nil {
		t.Fatal(err)
	}
	if err := v.Close(); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := v.WaitFont(ctx); !errors.Is(err, ErrClosed) {
		t.Errorf("WaitFont after Close = %v, want ErrClosed", err)
	}
}

func TestOverlayMatchesTargetWhenResizeFails(t *testing.T) {
	h := newFakeHost(64, 32)
	v := newView(t, h)
	v.Frame(0)

	_ = v.renderer.Close()
	h.w, h.h = 100, 100
	v.Frame(time.Millisecond)

	tr, ok := v.Overlay().Transform()
	if !ok {
		t.Fatal("no overlay transform")
	}
	if tr.Width != 64 || tr.Height != 32 {
		t.Errorf("overlay sized %dx%d, want render target 64x32", tr.Width, tr.Height)
	}
	if v.Camera().Aspect != 2 {
		t.Errorf("Aspect = %v, want 2", v.Camera().Aspect)
	}
}

func TestSharedFontLoaderOutlivesClosedView(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
			return
		}
		_, _ = w.Write(goregular.TTF)
	}))
	t.Cleanup(srv.Close)

	loader := text.NewFontLoader(text.WithHTTPClient(srv.Client()))
	url := srv.URL + "/font.ttf"
	a, err := New(newFakeHost(32, 32), WithFontLoader(loader), WithFontURL(url))
	if err != nil {
		t.Fatal(err)
	}
	b := newView(t, newFakeHost(32, 32), WithFontLoader(loader), WithFontURL(url))

	if err := a.Close(); err != nil {
		t.Fatal(err)
	}
	close(release)

	waitFont(t, b)
	b.Frame(0)
	b.Frame(1100 * time.Millisecond)
	if b.Counter().Visual() == nil {
		t.Error("surviving view shows no FPS text")
	}
}
