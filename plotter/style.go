// plotter/style.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package plotter

import (
	"fmt"

	"github.com/mmp/trajplot/math"
	"github.com/mmp/trajplot/renderer"
)

// Style specifies how a trajectory's line is drawn.
type Style int

const (
	// Solid draws the line in a single color.
	Solid Style = iota
	// Faded draws the line with opacity decreasing linearly from its
	// first vertex toward 1/5th of the color's alpha at its last.
	Faded
	// Dashed draws independent segments between consecutive vertex pairs.
	Dashed
)

var styleNames = [...]string{Solid: "Solid", Faded: "Faded", Dashed: "Dashed"}

func (s Style) String() string {
	if s >= 0 && int(s) < len(styleNames) {
		return styleNames[s]
	}
	return fmt.Sprintf("Style(%d)", int(s))
}

func (s Style) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(styleNames) {
		return nil, fmt.Errorf("%d: invalid line style", int(s))
	}
	return []byte(styleNames[s]), nil
}

func (s *Style) UnmarshalText(b []byte) error {
	for i, name := range styleNames {
		if string(b) == name {
			*s = Style(i)
			return nil
		}
	}
	return fmt.Errorf("%q: unknown line style", string(b))
}

// Topology returns the mesh topology used for lines drawn with the style.
func (s Style) Topology() renderer.Topology {
	if s == Dashed {
		return renderer.Lines
	}
	return renderer.LineStrip
}

// Colors appends count per-vertex colors for a line drawn in the given
// color to dst and returns the result.
func (s Style) Colors(dst []renderer.RGBA, count int, color renderer.RGBA) []renderer.RGBA {
	for i := range count {
		c := color
		if s == Faded {
			c.A *= 1 - float32(4*i)/float32(5*count)
		}
		dst = append(dst, c)
	}
	return dst
}

// StyleLine rewrites mesh to hold the given points drawn with the given
// color and style, reusing the mesh's existing allocations.
func StyleLine(mesh *renderer.Mesh, points []math.Point3f, color renderer.RGBA, style Style) {
	mesh.SetVertices(points)
	mesh.Colors = style.Colors(mesh.Colors[:0], len(points), color)
	mesh.Topology = style.Topology()
}
