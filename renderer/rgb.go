// renderer/rgb.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"github.com/mmp/trajplot/math"
)

///////////////////////////////////////////////////////////////////////////
// RGB

type RGB struct {
	R, G, B float32
}

type RGBA struct {
	R, G, B, A float32
}

// A few of the XKCD survey colors that are used as defaults for
// trajectories.
var (
	SunshineYellow = RGBAFromHex(0xfffd37)
	Cerise         = RGBAFromHex(0xde0c62)
	Goldenrod      = RGBAFromHex(0xfac205)
	Orange         = RGBAFromHex(0xf97306)
	LightMauve     = RGBAFromHex(0xc292a1)
	Lime           = RGBAFromHex(0xaaff32)
	RoyalBlue      = RGBAFromHex(0x0504aa)
	Red            = RGBAFromHex(0xe50000)
)

func (r RGB) Scale(v float32) RGB {
	return RGB{R: r.R * v, G: r.G * v, B: r.B * v}
}

// RGBFromHex converts a packed integer color value to an RGB where the low
// 8 bits give blue, the next 8 give green, and then the next 8 give red.
func RGBFromHex(c int) RGB {
	r, g, b := (c>>16)&255, (c>>8)&255, c&255
	return RGB{R: float32(r) / 255, G: float32(g) / 255, B: float32(b) / 255}
}

// RGBAFromHex is like RGBFromHex but returns a fully opaque RGBA.
func RGBAFromHex(c int) RGBA {
	return RGBFromHex(c).RGBA(1)
}

func (r RGB) RGBA(alpha float32) RGBA {
	return RGBA{R: r.R, G: r.G, B: r.B, A: alpha}
}

func (r RGBA) RGB() RGB {
	return RGB{R: r.R, G: r.G, B: r.B}
}

// ScaleAlpha returns the color with its opacity multiplied by s.
func (r RGBA) ScaleAlpha(s float32) RGBA {
	r.A *= s
	return r
}

// Premultiplied returns the RGB color that results from compositing r
// over black.
func (r RGBA) Premultiplied() RGB {
	return r.RGB().Scale(math.Clamp(r.A, 0, 1))
}
