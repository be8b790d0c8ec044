package systemview

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/gogpu/systemview/cache"
	"github.com/gogpu/systemview/content"
	"github.com/gogpu/systemview/fps"
	"github.com/gogpu/systemview/render"
	"github.com/gogpu/systemview/renderloop"
	"github.com/gogpu/systemview/scene"
	"github.com/gogpu/systemview/screenspace"
	"github.com/gogpu/systemview/text"
)

// Host is the environment a View runs in.
//
// ScheduleFrame and CancelFrame drive the render loop. Size is queried
// fresh every frame and may report zero while the host is collapsed.
// Present receives each finished frame; the image is only valid until
// the next frame.
type Host interface {
	renderloop.Scheduler
	Size() (width, height int)
	Present(img image.Image) error
}

// View renders a scene with a screen-space FPS overlay.
//
// Frame, and everything it touches, runs on the host's frame callback.
// OnAttached and OnDetached may be called from any goroutine.
type View struct {
	id   uuid.UUID
	host Host
	opts options
	log  *slog.Logger

	scene    *scene.Scene
	camera   *scene.PerspectiveCamera
	overlay  *screenspace.Overlay
	marker   *scene.Node
	content  content.Content
	renderer *render.Software
	loop     *renderloop.Controller
	counter  *fps.Counter

	ctx    context.Context
	cancel context.CancelFunc

	fonts      *text.FontLoader
	fontLoad   *cache.Future[*text.Font]
	font       *text.Font
	fontErr    error
	retryArmed bool
	retryAt    time.Duration

	width, height int
	last          time.Duration
	hasLast       bool

	frames atomic.Uint64
	closed atomic.Bool
}

// New creates a detached view. Call OnAttached to start rendering.
func New(host Host, opts ...Option) (*View, error) {
	if host == nil {
		return nil, ErrNilHost
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.content == nil {
		o.content = content.NewCube()
	}

	v := &View{
		id:      uuid.New(),
		host:    host,
		opts:    o,
		content: o.content,
		width:   1,
		height:  1,
	}
	v.log = Logger().With(slog.String("view", v.id.String()))

	if w, h := host.Size(); w > 0 && h > 0 {
		v.width, v.height = w, h
	}

	v.scene = scene.New()
	v.scene.Background = o.background

	v.camera = scene.NewPerspectiveCamera(o.fov, float64(v.width)/float64(v.height), o.near, o.far)
	v.camera.Position = mgl64.Vec3{0, 0, o.distance}
	v.scene.Add(v.camera.Node)

	v.overlay = screenspace.NewOverlay()
	v.overlay.Attach(v.camera)
	if o.marker {
		v.marker = newMarker()
		v.overlay.Node().Add(v.marker)
	}
	v.overlay.Update(v.camera, v.width, v.height)

	v.counter = fps.New(v.overlay.Node(), nil,
		fps.WithWindow(o.fpsWindow),
		fps.WithOrigin(o.textOrigin[0], o.textOrigin[1]),
		fps.WithOnUpdate(v.onFPS))

	v.content.Build(v.scene)

	r, err := render.NewSoftware(v.width, v.height)
	if err != nil {
		return nil, fmt.Errorf("systemview: %w", err)
	}
	v.renderer = r

	var loopOpts []renderloop.Option
	if o.live != nil {
		loopOpts = append(loopOpts, renderloop.WithLiveCheck(o.live))
	}
	v.loop = renderloop.NewController(host, v.Frame, loopOpts...)

	v.fonts = o.fontLoader
	if v.fonts == nil {
		var lo []text.LoaderOption
		if o.fontTimeout > 0 {
			lo = append(lo, text.WithTimeout(o.fontTimeout))
		}
		v.fonts = text.NewFontLoader(lo...)
	}
	v.ctx, v.cancel = context.WithCancel(context.Background())
	v.loadFont()

	v.log.Info("systemview: view created",
		slog.Int("width", v.width), slog.Int("height", v.height),
		slog.String("font", o.fontURL))
	return v, nil
}

// newMarker builds the 10×10 pixel square at the lower-left corner. Its
// depth is negligible so it stays exactly on the near-plane slice.
func newMarker() *scene.Node {
	n := scene.NewMeshNode("marker",
		scene.NewBoxGeometry(1, 1, 1),
		scene.BasicMaterial(color.NRGBA{G: 0xff, A: 0xff}))
	n.Scale = mgl64.Vec3{10, 10, 1e-9}
	n.Position = mgl64.Vec3{5, 5, -1e-9 / 2}
	return n
}

// ID returns the view's unique identifier, also attached to its logs.
func (v *View) ID() uuid.UUID { return v.id }

// Scene returns the scene graph.
func (v *View) Scene() *scene.Scene { return v.scene }

// Camera returns the camera.
func (v *View) Camera() *scene.PerspectiveCamera { return v.camera }

// Overlay returns the screen-space overlay.
func (v *View) Overlay() *screenspace.Overlay { return v.overlay }

// Counter returns the FPS counter.
func (v *View) Counter() *fps.Counter { return v.counter }

// FPS returns the last measured frame rate.
func (v *View) FPS() int { return v.counter.FPS() }

// Frames returns how many frames were drawn.
func (v *View) Frames() uint64 { return v.frames.Load() }

// Renderer returns the renderer.
func (v *View) Renderer() *render.Software { return v.renderer }

// Content returns what the view shows.
func (v *View) Content() content.Content { return v.content }

// OnAttached starts the render loop; see renderloop.Controller.OnAttached.
func (v *View) OnAttached() {
	if v.closed.Load() {
		return
	}
	v.loop.OnAttached()
}

// OnDetached stops the render loop; see renderloop.Controller.OnDetached.
func (v *View) OnDetached() {
	v.loop.OnDetached()
}

// Attached reports whether a frame is scheduled.
func (v *View) Attached() bool {
	return v.loop.Running()
}

// Frame renders one frame at host time now. The render loop calls it;
// hosts that drive frames themselves may call it directly.
func (v *View) Frame(now time.Duration) {
	if v.closed.Load() {
		return
	}

	liveW, liveH := v.host.Size()
	v.resize(liveW, liveH)
	v.overlay.Update(v.camera, v.width, v.height)
	v.pollFont(now)
	v.counter.OnFrame(now)

	if v.hasLast && now > v.last {
		v.content.Update(now - v.last)
	}
	v.last, v.hasLast = now, true

	if err := v.renderer.Render(v.scene, v.camera); err != nil {
		v.log.Warn("systemview: render failed", slog.Any("err", err))
		return
	}
	v.frames.Add(1)
	if err := v.host.Present(v.renderer.Image()); err != nil {
		v.log.Warn("systemview: present failed", slog.Any("err", err))
	}
}

// resize adopts a new viewport size. A zero or negative size keeps the
// last good aspect and target size.
func (v *View) resize(w, h int) {
	if w <= 0 || h <= 0 {
		v.log.Debug("systemview: degenerate viewport, keeping last size",
			slog.Int("width", w), slog.Int("height", h))
		return
	}
	if w == v.width && h == v.height {
		return
	}
	if err := v.renderer.SetSize(w, h); err != nil {
		v.log.Warn("systemview: resize failed", slog.Any("err", err))
		return
	}
	v.width, v.height = w, h
	v.camera.Aspect = float64(w) / float64(h)
	v.camera.UpdateProjection()
	v.log.Debug("systemview: resized", slog.Int("width", w), slog.Int("height", h))
}

func (v *View) loadFont() {
	v.fontErr = nil
	v.retryArmed = false
	v.fontLoad = v.fonts.Load(v.ctx, v.opts.fontURL)
}

// pollFont checks the pending font load without blocking and, once it
// succeeds, hands the FPS counter a mesh source.
func (v *View) pollFont(now time.Duration) {
	if v.font != nil {
		return
	}
	if v.fontLoad == nil {
		if v.retryArmed && now >= v.retryAt {
			v.log.Info("systemview: retrying font load", slog.String("font", v.opts.fontURL))
			v.loadFont()
		}
		return
	}

	f, done, err := v.fontLoad.Result()
	if !done {
		return
	}
	v.fontLoad = nil
	if err != nil {
		v.fontErr = err
		v.log.Warn("systemview: font unavailable, overlay text disabled",
			slog.String("font", v.opts.fontURL), slog.Any("err", err))
		if v.opts.onFontError != nil {
			v.opts.onFontError(err)
		}
		if v.opts.fontRetry > 0 {
			v.retryArmed = true
			v.retryAt = now + v.opts.fontRetry
		}
		return
	}

	v.font = f
	v.counter.SetSource(text.NewMeshProvider(f,
		text.WithSize(v.opts.textSize),
		text.WithMaterial(scene.Material{Color: v.opts.textColor, DoubleSide: true})))
	v.log.Info("systemview: font ready", slog.String("family", f.Family()))
}

// WaitFont blocks until the current font load finishes and returns its
// error. Once a font is in use it returns nil; between a failure and its
// retry it returns the failure. After Close it returns ErrClosed. Like
// Frame, it must not run concurrently with the render loop.
func (v *View) WaitFont(ctx context.Context) error {
	if v.closed.Load() {
		return ErrClosed
	}
	if v.font != nil {
		return nil
	}
	if v.fontLoad == nil {
		if v.fontErr != nil {
			return v.fontErr
		}
		return ErrNoFont
	}
	_, err := v.fontLoad.Wait(ctx)
	return err
}

func (v *View) onFPS(s string) {
	v.log.Debug("systemview: fps", slog.String("fps", s))
	if v.opts.onFPS != nil {
		v.opts.onFPS(s)
	}
}

// Close stops the loop and releases the renderer. A font load still in
// flight keeps running for other views sharing the loader. Close is
// idempotent.
func (v *View) Close() error {
	if v.closed.Swap(true) {
		return nil
	}
	v.loop.OnDetached()
	v.cancel()
	v.counter.Detach()
	v.log.Info("systemview: view closed", slog.Uint64("frames", v.frames.Load()))
	return v.renderer.Close()
}
