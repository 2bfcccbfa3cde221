// renderer/mesh.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"github.com/mmp/trajplot/math"
)

// Topology specifies how a Mesh's vertices are connected when it is drawn.
type Topology int

const (
	// LineStrip connects each vertex to the next one, a la GL_LINE_STRIP.
	LineStrip Topology = iota
	// Lines draws independent segments between vertex pairs (0,1), (2,3),
	// and so forth, a la GL_LINES. A trailing unpaired vertex is ignored.
	Lines
)

func (t Topology) String() string {
	switch t {
	case LineStrip:
		return "LineStrip"
	case Lines:
		return "Lines"
	default:
		return "unknown"
	}
}

// Mesh stores colored line geometry. Meshes are meant to be long-lived:
// their contents are rewritten every frame but the underlying slice
// allocations are kept so that steady-state drawing doesn't allocate.
type Mesh struct {
	Vertices []math.Point3f
	Colors   []RGBA
	Topology Topology
	Bounds   math.Extent3D

	indices []int32
}

// SetVertices copies the provided points into the mesh, reusing its
// storage if possible. The caller is free to reuse p afterward.
func (m *Mesh) SetVertices(p []math.Point3f) {
	m.Vertices = append(m.Vertices[:0], p...)
}

// RecalculateBounds updates the mesh's bounding box to match its current
// vertices.
func (m *Mesh) RecalculateBounds() {
	m.Bounds = math.Extent3DFromPoints(m.Vertices)
}

// Indices returns the index buffer for drawing the mesh's vertices in
// order; the returned slice is owned by the mesh.
func (m *Mesh) Indices() []int32 {
	n := len(m.Vertices)
	if m.Topology == Lines {
		n -= n % 2
	}
	if cap(m.indices) < n {
		m.indices = make([]int32, n)
	}
	m.indices = m.indices[:n]
	for i := range m.indices {
		m.indices[i] = int32(i)
	}
	return m.indices
}

// NumSegments returns the number of line segments that will be drawn.
func (m *Mesh) NumSegments() int {
	n := len(m.Vertices)
	if m.Topology == Lines {
		return n / 2
	}
	return max(n-1, 0)
}

// Reset clears the mesh's contents while maintaining its allocations.
func (m *Mesh) Reset() {
	m.Vertices = m.Vertices[:0]
	m.Colors = m.Colors[:0]
	m.indices = m.indices[:0]
	m.Topology = LineStrip
	m.Bounds = math.EmptyExtent3D()
}

// Dispose releases the mesh's storage.
func (m *Mesh) Dispose() {
	*m = Mesh{Bounds: math.EmptyExtent3D()}
}
