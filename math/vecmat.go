// math/vecmat.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import gomath "math"

///////////////////////////////////////////////////////////////////////////
// Point3f / Point3d

// Point3f is a single-precision 3D point; it's what we hand to the
// renderer. Point3d is used for world-space positions, where float32
// doesn't have enough precision for interplanetary distances.
type Point3f [3]float32
type Point3d [3]float64

// Names are brief in order to avoid clutter when they're used.

// a+b
func Add3d(a, b Point3d) Point3d {
	return Point3d{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// a-b
func Sub3d(a, b Point3d) Point3d {
	return Point3d{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// a*s
func Scale3d(a Point3d, s float64) Point3d {
	return Point3d{s * a[0], s * a[1], s * a[2]}
}

func Dot3d(a, b Point3d) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func Cross3d(a, b Point3d) Point3d {
	return Point3d{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func Length3d(v Point3d) float64 {
	return gomath.Sqrt(Dot3d(v, v))
}

func Distance3d(a, b Point3d) float64 {
	return Length3d(Sub3d(a, b))
}

// Normalize3d returns v scaled to unit length; the zero vector is
// returned unchanged.
func Normalize3d(v Point3d) Point3d {
	l := Length3d(v)
	if l == 0 {
		return v
	}
	return Scale3d(v, 1/l)
}

// P3f converts a double-precision point to single precision.
func P3f(p Point3d) Point3f {
	return Point3f{float32(p[0]), float32(p[1]), float32(p[2])}
}

// P3d converts a single-precision point to double precision.
func P3d(p Point3f) Point3d {
	return Point3d{float64(p[0]), float64(p[1]), float64(p[2])}
}
