// math/view.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import gomath "math"

// HorizontalFOV returns the horizontal field of view, in degrees, that
// corresponds to the given vertical field of view (also in degrees) and
// width/height aspect ratio.
func HorizontalFOV(verticalFOV, aspect float32) float32 {
	halfV := Radians(float64(verticalFOV)) / 2
	return float32(Degrees(2 * gomath.Atan(gomath.Tan(halfV)*float64(aspect))))
}

// TanAngularResolution returns the tangent of the angle subtended by the
// pixel closest to the center of a viewport of the given size in pixels;
// the tighter of the two axes is used.
func TanAngularResolution(verticalFOV, horizontalFOV float32, pixelWidth, pixelHeight int) float64 {
	tv := gomath.Tan(Radians(float64(verticalFOV))/2) / (float64(pixelHeight) / 2)
	th := gomath.Tan(Radians(float64(horizontalFOV))/2) / (float64(pixelWidth) / 2)
	return min(tv, th)
}
