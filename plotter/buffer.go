// plotter/buffer.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package plotter

import (
	"github.com/mmp/trajplot/math"
)

// MaxVertices is the number of points a GeometryBuffer can hold; data
// sources must decimate longer trajectories to fit.
const MaxVertices = 10_000

// FillFunc writes up to len(buf) points into buf and returns the number
// written along with the minimum distance from the camera to any of
// them.
type FillFunc func(buf []math.Point3f) (n int, minDistance float64, err error)

// GeometryBuffer is scratch storage for trajectory vertices that is
// reused for every fetch. The polyline returned by Fill is only valid
// until the next call to Fill.
type GeometryBuffer struct {
	points []math.Point3f
}

func NewGeometryBuffer(capacity int) *GeometryBuffer {
	return &GeometryBuffer{points: make([]math.Point3f, capacity)}
}

func (g *GeometryBuffer) Cap() int {
	return len(g.points)
}

// Fill runs fill over the buffer's storage and returns the filled prefix.
// A count reported beyond the buffer's capacity is clamped; a negative
// one is treated as zero.
func (g *GeometryBuffer) Fill(fill FillFunc) ([]math.Point3f, float64, error) {
	n, minDistance, err := fill(g.points)
	if err != nil {
		return nil, 0, err
	}
	n = math.Clamp(n, 0, len(g.points))
	return g.points[:n:n], minDistance, nil
}
