// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package config reads systemview settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/systemview"
	"github.com/gogpu/systemview/content"
	"github.com/gogpu/systemview/text"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("config: invalid")

// Hosts are the accepted values of Config.Host.
var Hosts = []string{"headless", "window", "terminal"}

// Config is the systemview.toml file.
type Config struct {
	Host    string        `toml:"host"`
	Content string        `toml:"content"`
	Window  WindowConfig  `toml:"window"`
	Camera  CameraConfig  `toml:"camera"`
	Font    FontConfig    `toml:"font"`
	Overlay OverlayConfig `toml:"overlay"`
	Log     LogConfig     `toml:"log"`
}

// WindowConfig sizes the output and drives the headless host.
type WindowConfig struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Title      string `toml:"title"`
	Background string `toml:"background"`
	// Hz and Frames apply to the headless host; Frames 0 runs until
	// interrupted.
	Hz     int    `toml:"hz"`
	Frames int    `toml:"frames"`
	Output string `toml:"output"`
}

// CameraConfig configures the perspective camera.
type CameraConfig struct {
	FOV      float64 `toml:"fov"`
	Near     float64 `toml:"near"`
	Far      float64 `toml:"far"`
	Distance float64 `toml:"distance"`
}

// FontConfig configures the FPS text font.
type FontConfig struct {
	URL     string   `toml:"url"`
	Timeout Duration `toml:"timeout"`
	// Retry re-requests a failed font after this long; zero disables it.
	Retry Duration `toml:"retry"`
}

// OverlayConfig configures the screen-space overlay.
type OverlayConfig struct {
	TextSize  float64  `toml:"text_size"`
	TextColor string   `toml:"text_color"`
	TextX     float64  `toml:"text_x"`
	TextY     float64  `toml:"text_y"`
	Marker    bool     `toml:"marker"`
	Window    Duration `toml:"fps_window"`
}

// LogConfig selects the log level: debug, info, warn, error or off.
type LogConfig struct {
	Level string `toml:"level"`
}

// Duration is a time.Duration written as a string ("30s", "1m").
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Host:    "headless",
		Content: "cube",
		Window: WindowConfig{
			Width:      640,
			Height:     480,
			Title:      "systemview",
			Background: "#000000",
			Hz:         60,
			Frames:     120,
			Output:     "systemview.png",
		},
		Camera: CameraConfig{
			FOV:      systemview.DefaultFOV,
			Near:     systemview.DefaultNear,
			Far:      systemview.DefaultFar,
			Distance: systemview.DefaultDistance,
		},
		Font: FontConfig{
			URL:     text.DefaultFontURL,
			Timeout: Duration(text.DefaultTimeout),
		},
		Overlay: OverlayConfig{
			TextSize:  systemview.DefaultTextSize,
			TextColor: "#666600",
			Marker:    true,
			Window:    Duration(time.Second),
		},
		Log: LogConfig{Level: "off"},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path.
func Save(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case !contains(Hosts, c.Host):
		return fmt.Errorf("%w: host %q (want one of %v)", ErrInvalid, c.Host, Hosts)
	case !contains(content.Names(), c.Content):
		return fmt.Errorf("%w: content %q (want one of %v)", ErrInvalid, c.Content, content.Names())
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Window.Hz <= 0:
		return fmt.Errorf("%w: hz %d", ErrInvalid, c.Window.Hz)
	case c.Window.Frames < 0:
		return fmt.Errorf("%w: frames %d", ErrInvalid, c.Window.Frames)
	case !(c.Camera.FOV > 0 && c.Camera.FOV < 180):
		return fmt.Errorf("%w: camera fov %v", ErrInvalid, c.Camera.FOV)
	case !(c.Camera.Near > 0) || !(c.Camera.Far > c.Camera.Near):
		return fmt.Errorf("%w: camera near %v far %v", ErrInvalid, c.Camera.Near, c.Camera.Far)
	case c.Font.URL == "":
		return fmt.Errorf("%w: empty font url", ErrInvalid)
	case c.Font.Timeout < 0 || c.Font.Retry < 0 || c.Overlay.Window < 0:
		return fmt.Errorf("%w: negative duration", ErrInvalid)
	case !(c.Overlay.TextSize > 0):
		return fmt.Errorf("%w: text size %v", ErrInvalid, c.Overlay.TextSize)
	}
	if _, err := ParseColor(c.Overlay.TextColor); err != nil {
		return fmt.Errorf("%w: text color: %v", ErrInvalid, err)
	}
	if _, err := ParseColor(c.Window.Background); err != nil {
		return fmt.Errorf("%w: background: %v", ErrInvalid, err)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Options validates c and converts it to view options.
func (c Config) Options() ([]systemview.Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	ct, err := content.New(c.Content)
	if err != nil {
		return nil, err
	}
	textColor, _ := ParseColor(c.Overlay.TextColor)
	background, _ := ParseColor(c.Window.Background)

	opts := []systemview.Option{
		systemview.WithContent(ct),
		systemview.WithCamera(c.Camera.FOV, c.Camera.Near, c.Camera.Far),
		systemview.WithCameraDistance(c.Camera.Distance),
		systemview.WithBackground(background),
		systemview.WithFontURL(c.Font.URL),
		systemview.WithTextSize(c.Overlay.TextSize),
		systemview.WithTextColor(textColor),
		systemview.WithTextOrigin(c.Overlay.TextX, c.Overlay.TextY),
		systemview.WithMarker(c.Overlay.Marker),
	}
	if c.Font.Timeout > 0 {
		opts = append(opts, systemview.WithFontTimeout(time.Duration(c.Font.Timeout)))
	}
	if c.Font.Retry > 0 {
		opts = append(opts, systemview.WithFontRetry(time.Duration(c.Font.Retry)))
	}
	if c.Overlay.Window > 0 {
		opts = append(opts, systemview.WithFPSWindow(time.Duration(c.Overlay.Window)))
	}
	return opts, nil
}

// ParseColor parses "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (color.NRGBA, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || (len(hex) != 6 && len(hex) != 8) {
		return color.NRGBA{}, fmt.Errorf("color %q: want #rrggbb or #rrggbbaa", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
