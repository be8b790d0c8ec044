// Command systemview renders a 3-D scene with an FPS overlay in a window,
// a terminal, or off-screen to a PNG file.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gogpu/systemview"
	"github.com/gogpu/systemview/config"
	"github.com/gogpu/systemview/host/headless"
	"github.com/gogpu/systemview/host/terminal"
	"github.com/gogpu/systemview/host/window"
	"github.com/gogpu/systemview/text"
)

func main() {
	var (
		cfgPath  = flag.String("config", "systemview.toml", "config file (missing file uses defaults)")
		hostName = flag.String("host", "", "host: headless, window or terminal")
		name     = flag.String("content", "", "scene content: cube or star-system")
		font     = flag.String("font", "", "font URL (builtin:goregular, file path, http(s) URL)")
		width    = flag.Int("width", 0, "viewport width in pixels")
		height   = flag.Int("height", 0, "viewport height in pixels")
		hz       = flag.Int("hz", 0, "headless and terminal frame rate")
		frames   = flag.Int("frames", -1, "headless frame count (0 runs until interrupted)")
		output   = flag.String("output", "", "headless PNG output file")
		textSize = flag.Float64("text-size", 0, "FPS text size in pixels")
		level    = flag.String("log", "", "log level: debug, info, warn, error or off")
		verbose  = flag.Bool("v", false, "shorthand for -log=debug")
	)
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "host":
			cfg.Host = *hostName
		case "content":
			cfg.Content = *name
		case "font":
			cfg.Font.URL = *font
		case "width":
			cfg.Window.Width = *width
		case "height":
			cfg.Window.Height = *height
		case "hz":
			cfg.Window.Hz = *hz
		case "frames":
			cfg.Window.Frames = *frames
		case "output":
			cfg.Window.Output = *output
		case "text-size":
			cfg.Overlay.TextSize = *textSize
		case "log":
			cfg.Log.Level = *level
		case "v":
			if *verbose {
				cfg.Log.Level = "debug"
			}
		}
	})

	opts, err := cfg.Options()
	if err != nil {
		log.Fatal(err)
	}
	if l := cfg.NewLogger(os.Stderr); l != nil {
		systemview.SetLogger(l)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, opts); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg config.Config, opts []systemview.Option) error {
	switch cfg.Host {
	case "window":
		h := window.New(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title)
		v, err := systemview.New(h, opts...)
		if err != nil {
			return err
		}
		defer v.Close()
		v.OnAttached()
		return h.Run(v.OnDetached)

	case "terminal":
		h, err := terminal.Open()
		if err != nil {
			return err
		}
		v, err := systemview.New(h, opts...)
		if err != nil {
			return err
		}
		defer v.Close()
		v.OnAttached()
		err = h.Run(ctx, cfg.Window.Hz, v.OnDetached)
		if ctx.Err() != nil {
			return nil
		}
		return err

	default:
		h := headless.New(cfg.Window.Width, cfg.Window.Height)
		v, err := systemview.New(h, opts...)
		if err != nil {
			return err
		}
		defer v.Close()

		// Wait for the font so the first frames already show the rate.
		timeout := time.Duration(cfg.Font.Timeout)
		if timeout == 0 {
			timeout = text.DefaultTimeout
		}
		wctx, cancel := context.WithTimeout(ctx, timeout+time.Second)
		if err := v.WaitFont(wctx); err != nil {
			log.Printf("font unavailable: %v", err)
		}
		cancel()

		v.OnAttached()
		err = h.Run(ctx, headless.Config{Hz: cfg.Window.Hz, Frames: uint64(cfg.Window.Frames)})
		v.OnDetached()
		if err != nil && ctx.Err() == nil {
			return err
		}
		if cfg.Window.Output == "" {
			return nil
		}
		if err := h.SavePNG(cfg.Window.Output); err != nil {
			return err
		}
		log.Printf("saved %s (%dx%d, %d frames, %d fps)",
			cfg.Window.Output, cfg.Window.Width, cfg.Window.Height, v.Frames(), v.FPS())
		return nil
	}
}
