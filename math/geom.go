// math/geom.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

///////////////////////////////////////////////////////////////////////////
// Extent3D

// Extent3D represents a 3D bounding box with the two vertices at its
// opposite minimum and maximum corners.
type Extent3D struct {
	P0, P1 Point3f
}

// EmptyExtent3D returns an Extent3D representing an empty bounding box.
func EmptyExtent3D() Extent3D {
	// Degenerate bounds
	return Extent3D{P0: Point3f{1e30, 1e30, 1e30}, P1: Point3f{-1e30, -1e30, -1e30}}
}

// Extent3DFromPoints returns an Extent3D that bounds all of the provided
// points.
func Extent3DFromPoints(pts []Point3f) Extent3D {
	e := EmptyExtent3D()
	for _, p := range pts {
		e = e.Union(p)
	}
	return e
}

// Union returns the bounding box that also contains p.
func (e Extent3D) Union(p Point3f) Extent3D {
	for d := 0; d < 3; d++ {
		e.P0[d] = min(e.P0[d], p[d])
		e.P1[d] = max(e.P1[d], p[d])
	}
	return e
}
