// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package text

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/systemview/cache"
	"github.com/gogpu/systemview/internal/logging"
)

var (
	// ErrUnknownBuiltin is returned for a builtin: URL naming no embedded font.
	ErrUnknownBuiltin = errors.New("text: unknown builtin font")

	// ErrFetch is returned when a remote font cannot be downloaded.
	ErrFetch = errors.New("text: fetch failed")

	// ErrFontTooLarge is returned when font data exceeds MaxFontSize.
	ErrFontTooLarge = errors.New("text: font too large")

	// ErrUnsupportedScheme is returned for URL schemes other than
	// http, https, file and builtin.
	ErrUnsupportedScheme = errors.New("text: unsupported font URL scheme")
)

const (
	// DefaultTimeout bounds one font load.
	DefaultTimeout = 30 * time.Second

	// MaxFontSize is the largest font file accepted.
	MaxFontSize = 32 << 20

	// DefaultFontURL is the embedded Go Regular font.
	DefaultFontURL = "builtin:goregular"
)

var builtins = map[string][]byte{
	"goregular": goregular.TTF,
	"gomono":    gomono.TTF,
}

// LoaderOption configures a FontLoader.
type LoaderOption func(*loaderOptions)

type loaderOptions struct {
	timeout time.Duration
	client  *http.Client
}

// WithTimeout bounds each load. Zero disables the timeout.
func WithTimeout(d time.Duration) LoaderOption {
	return func(o *loaderOptions) {
		o.timeout = d
	}
}

// WithHTTPClient sets the client used for http and https URLs.
func WithHTTPClient(c *http.Client) LoaderOption {
	return func(o *loaderOptions) {
		if c != nil {
			o.client = c
		}
	}
}

// FontLoader loads fonts asynchronously, one load per URL.
// A FontLoader may be shared between views; it is safe for concurrent use.
type FontLoader struct {
	fonts *cache.Loader[string, *Font]
	opts  loaderOptions
}

// NewFontLoader creates a loader with an empty cache.
func NewFontLoader(opts ...LoaderOption) *FontLoader {
	o := loaderOptions{
		timeout: DefaultTimeout,
		client:  &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &FontLoader{
		fonts: cache.NewLoader[string, *Font](),
		opts:  o,
	}
}

// Load returns the pending or finished load for rawURL. Concurrent calls
// for the same URL share one load. If the load fails, the entry is
// dropped before the Future resolves so a later Load retries.
func (l *FontLoader) Load(ctx context.Context, rawURL string) *cache.Future[*Font] {
	return l.fonts.Load(ctx, rawURL, func(ctx context.Context) (*Font, error) {
		if l.opts.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, l.opts.timeout)
			defer cancel()
		}
		start := time.Now()
		data, err := l.fetch(ctx, rawURL)
		if err != nil {
			logging.Logger().Warn("text: font load failed",
				slog.String("url", rawURL), slog.Any("err", err))
			return nil, err
		}
		f, err := ParseFont(rawURL, data)
		if err != nil {
			logging.Logger().Warn("text: font parse failed",
				slog.String("url", rawURL), slog.Any("err", err))
			return nil, err
		}
		logging.Logger().Info("text: font loaded",
			slog.String("url", rawURL),
			slog.String("family", f.Family()),
			slog.Int("bytes", len(data)),
			slog.Duration("took", time.Since(start)))
		return f, nil
	})
}

// Len returns the number of fonts loaded or loading.
func (l *FontLoader) Len() int {
	return l.fonts.Len()
}

func (l *FontLoader) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if name, ok := strings.CutPrefix(rawURL, "builtin:"); ok {
		data, ok := builtins[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownBuiltin, name)
		}
		return data, nil
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// Plain path, including Windows drive letters.
		return readFile(ctx, rawURL)
	}
	switch u.Scheme {
	case "http", "https":
		return l.fetchHTTP(ctx, rawURL)
	case "file":
		return readFile(ctx, u.Path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
}

func (l *FontLoader) fetchHTTP(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	resp, err := l.opts.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d: %s", ErrFetch, resp.StatusCode, resp.Status)
	}
	return readLimited(resp.Body)
}

func readFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readLimited(f)
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxFontSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxFontSize {
		return nil, ErrFontTooLarge
	}
	return data, nil
}
