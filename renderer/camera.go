// renderer/camera.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	gomath "math"

	"github.com/mmp/trajplot/math"
)

// Camera describes a perspective view of the world. Positions are in world
// coordinates (meters); VerticalFOV is in degrees.
type Camera struct {
	Position    math.Point3d
	LookAt      math.Point3d
	Up          math.Point3d
	VerticalFOV float32

	PixelWidth, PixelHeight int
}

func (c Camera) Aspect() float32 {
	if c.PixelHeight == 0 {
		return 1
	}
	return float32(c.PixelWidth) / float32(c.PixelHeight)
}

func (c Camera) HorizontalFOV() float32 {
	return math.HorizontalFOV(c.VerticalFOV, c.Aspect())
}

// TanAngularResolution returns the tangent of the angle subtended by a
// single pixel at the center of the viewport.
func (c Camera) TanAngularResolution() float64 {
	return math.TanAngularResolution(c.VerticalFOV, c.HorizontalFOV(), c.PixelWidth, c.PixelHeight)
}

// basis returns the camera's orthonormal right, up, and forward vectors.
func (c Camera) basis() (right, up, forward math.Point3d) {
	forward = math.Normalize3d(math.Sub3d(c.LookAt, c.Position))
	up = c.Up
	if up == (math.Point3d{}) {
		up = math.Point3d{0, 0, 1}
	}
	right = math.Normalize3d(math.Cross3d(forward, up))
	up = math.Cross3d(right, forward)
	return
}

// Project returns the pixel coordinates of p, with (0,0) at the upper
// left of the viewport. The returned bool is false if p is behind the
// camera.
func (c Camera) Project(p math.Point3d) ([2]float32, bool) {
	right, up, forward := c.basis()
	v := math.Sub3d(p, c.Position)
	z := math.Dot3d(v, forward)
	if z <= 0 {
		return [2]float32{}, false
	}

	tanV := gomath.Tan(math.Radians(float64(c.VerticalFOV)) / 2)
	tanH := gomath.Tan(math.Radians(float64(c.HorizontalFOV())) / 2)
	x := math.Dot3d(v, right) / z / tanH
	y := math.Dot3d(v, up) / z / tanV

	w, h := float64(c.PixelWidth), float64(c.PixelHeight)
	return [2]float32{float32(w / 2 * (1 + x)), float32(h / 2 * (1 - y))}, true
}
