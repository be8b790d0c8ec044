// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package render draws a scene graph into an image using gg.
//
// [Software] is a painter's-algorithm polygon renderer: every visible face
// is transformed to clip space, clipped against the eye plane, projected,
// culled, sorted far to near and filled through a [gg.Context] with the
// non-zero winding rule. Build with -tags gpu to register gg's GPU
// accelerator for the fills.
//
// Example:
//
//	r, err := render.NewSoftware(800, 600)
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	if err := r.Render(s, camera); err != nil {
//	    return err
//	}
//	img := r.Image()
package render
