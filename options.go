package systemview

import (
	"image/color"
	"time"

	"github.com/gogpu/systemview/content"
	"github.com/gogpu/systemview/fps"
	"github.com/gogpu/systemview/text"
)

// Defaults for a new View.
const (
	DefaultFOV      = 75
	DefaultNear     = 0.1
	DefaultFar      = 1000
	DefaultDistance = 5

	// DefaultTextSize is the FPS text height in pixels.
	DefaultTextSize = 100
)

// DefaultTextColor is the FPS text color.
var DefaultTextColor = color.NRGBA{R: 0x66, G: 0x66, A: 0xff}

// Option configures a View during creation.
//
// Example:
//
//	v, err := systemview.New(host,
//	    systemview.WithContent(content.NewStarSystem()),
//	    systemview.WithFontURL("https://example.com/font.ttf"),
//	    systemview.WithFontRetry(5*time.Second),
//	)
type Option func(*options)

type options struct {
	content content.Content

	fov, near, far float64
	distance       float64
	background     color.NRGBA

	fontURL     string
	fontLoader  *text.FontLoader
	fontTimeout time.Duration
	onFontError func(error)
	fontRetry   time.Duration

	textSize   float64
	textColor  color.NRGBA
	textOrigin [2]float64
	fpsWindow  time.Duration
	onFPS      func(string)
	marker     bool

	live func() bool
}

func defaultOptions() options {
	return options{
		fov:        DefaultFOV,
		near:       DefaultNear,
		far:        DefaultFar,
		distance:   DefaultDistance,
		background: color.NRGBA{A: 0xff},
		fontURL:    text.DefaultFontURL,
		textSize:   DefaultTextSize,
		textColor:  DefaultTextColor,
		fpsWindow:  fps.DefaultWindow,
		marker:     true,
	}
}

// WithContent sets what the view shows. The default is a spinning cube.
func WithContent(c content.Content) Option {
	return func(o *options) {
		o.content = c
	}
}

// WithCamera sets the vertical field of view in degrees and the clip
// planes. Invalid values are ignored.
func WithCamera(fov, near, far float64) Option {
	return func(o *options) {
		if fov > 0 && fov < 180 && near > 0 && far > near {
			o.fov, o.near, o.far = fov, near, far
		}
	}
}

// WithCameraDistance sets how far the camera sits from the origin along +z.
func WithCameraDistance(d float64) Option {
	return func(o *options) {
		o.distance = d
	}
}

// WithBackground sets the clear color.
func WithBackground(c color.NRGBA) Option {
	return func(o *options) {
		o.background = c
	}
}

// WithFontURL sets the font for the FPS text. See package text for the
// supported URL forms. The default is the embedded Go Regular font.
func WithFontURL(url string) Option {
	return func(o *options) {
		o.fontURL = url
	}
}

// WithFontLoader shares a font loader, and so its cache, between views.
func WithFontLoader(l *text.FontLoader) Option {
	return func(o *options) {
		o.fontLoader = l
	}
}

// WithFontTimeout bounds the font load when the view creates its own
// loader. The default is text.DefaultTimeout.
func WithFontTimeout(d time.Duration) Option {
	return func(o *options) {
		o.fontTimeout = d
	}
}

// WithFontErrorHandler is called on the frame that observes a failed
// font load.
func WithFontErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.onFontError = fn
	}
}

// WithFontRetry retries a failed font load after the given interval of
// frame time. Without it a failed load is not retried.
func WithFontRetry(interval time.Duration) Option {
	return func(o *options) {
		o.fontRetry = interval
	}
}

// WithTextSize sets the FPS text height in pixels.
func WithTextSize(px float64) Option {
	return func(o *options) {
		if px > 0 {
			o.textSize = px
		}
	}
}

// WithTextColor sets the FPS text color.
func WithTextColor(c color.NRGBA) Option {
	return func(o *options) {
		o.textColor = c
	}
}

// WithTextOrigin sets the pixel position of the FPS text baseline,
// measured from the lower-left corner.
func WithTextOrigin(x, y float64) Option {
	return func(o *options) {
		o.textOrigin = [2]float64{x, y}
	}
}

// WithFPSWindow sets the FPS averaging window.
func WithFPSWindow(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.fpsWindow = d
		}
	}
}

// WithOnFPS is called with each new FPS display string.
func WithOnFPS(fn func(string)) Option {
	return func(o *options) {
		o.onFPS = fn
	}
}

// WithMarker shows or hides the 10×10 pixel square in the lower-left
// corner. It is shown by default.
func WithMarker(show bool) Option {
	return func(o *options) {
		o.marker = show
	}
}

// WithLiveCheck sets the predicate consulted by OnAttached; see
// renderloop.WithLiveCheck.
func WithLiveCheck(live func() bool) Option {
	return func(o *options) {
		o.live = live
	}
}
