// Package systemview is an embeddable 3-D view with a screen-space
// frames-per-second overlay.
//
// # Overview
//
// A [View] owns a small scene (a spinning cube or a star system), a
// perspective camera, a software renderer and a render loop. The host
// supplies a "next frame" primitive, the live viewport size and a place
// to present finished frames; see [Host]. Ready-made hosts live under
// host/: an offscreen ticker, a desktop window and a terminal.
//
// # Quick Start
//
//	h := headless.New(640, 480)
//	v, err := systemview.New(h, systemview.WithContent(content.NewCube()))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer v.Close()
//
//	v.OnAttached()
//	h.Run(ctx, headless.Config{Hz: 60, Frames: 120})
//	h.SavePNG("frame.png")
//
// # Screen Space
//
// The overlay node is a child of the camera, rescaled every frame so that
// one unit is one pixel with (0, 0) at the lower-left corner of the
// viewport. The FPS text and the optional marker square live there.
//
// # Frame Order
//
// Each frame runs, in order: resize check, overlay transform, font
// readiness poll, FPS counter, content animation, draw, present. Overlay
// and font failures only hide the overlay text; the scene still renders.
//
// # Logging
//
// systemview is silent by default. Call [SetLogger] to enable log/slog
// output for the view and all sub-packages.
package systemview
