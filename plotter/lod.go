// plotter/lod.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package plotter

import (
	"log/slog"

	"github.com/mmp/trajplot/math"
	"github.com/mmp/trajplot/renderer"
)

// plotSubtree draws the trajectories of the given body and then recurses
// into those of its children that are distinguishable from it at the
// current camera position. A child is worth visiting if its apoapsis
// subtends more than two pixels as seen from the closest point of its
// parent's trajectory; otherwise it and all of its descendants would
// be drawn on top of the parent and are skipped.
func (p *Plotter) plotSubtree(f *Frame, d Drawer, body int, tanAngularResolution float64) {
	b := &p.system.Bodies[body]
	p.stats.BodiesVisited++

	minDistance := math.Distance3d(b.Position, f.Camera.Position)

	if !f.PlottingFrame.FixesBody(body) {
		color := b.OrbitColor()

		past, minPastDistance, err := p.buffer.Fill(func(buf []math.Point3f) (int, float64, error) {
			return p.source.PastTrajectory(body, f.HistoryLength, buf)
		})
		if err != nil {
			p.stats.FailedSegments++
			p.lg.Warn("past trajectory unavailable", slog.String("body", b.Name), slog.Any("error", err))
		} else {
			if len(past) > 0 {
				minDistance = min(minDistance, minPastDistance)
			}
			p.drawCelestial(d, body, PastSegment, past, color, Faded)
		}

		// Future trajectories are only interesting relative to a vessel's
		// prediction.
		if f.MainVessel != "" {
			future, _, err := p.buffer.Fill(func(buf []math.Point3f) (int, float64, error) {
				return p.source.FutureTrajectory(body, f.MainVessel, buf)
			})
			if err != nil {
				p.stats.FailedSegments++
				p.lg.Warn("future trajectory unavailable", slog.String("body", b.Name),
					slog.String("vessel", f.MainVessel), slog.Any("error", err))
			} else {
				p.drawCelestial(d, body, FutureSegment, future, color, Solid)
			}
		}
	}

	for _, child := range b.Children {
		if p.system.Bodies[child].Apoapsis/minDistance > 2*tanAngularResolution {
			p.plotSubtree(f, d, child, tanAngularResolution)
		} else {
			p.stats.BodiesPruned++
		}
	}
}

func (p *Plotter) drawCelestial(d Drawer, body int, kind SegmentKind, points []math.Point3f,
	color renderer.RGBA, style Style) {
	if len(points) == 0 {
		p.stats.EmptySegments++
		return
	}

	var mesh *renderer.Mesh
	if p.config.ReuseMeshes {
		mesh = p.cache.Get(body, kind)
	} else {
		mesh = &renderer.Mesh{}
	}
	StyleLine(mesh, points, color, style)
	if p.config.ReuseMeshes {
		mesh.RecalculateBounds()
	}
	p.draw(d, mesh)
}

func (p *Plotter) draw(d Drawer, mesh *renderer.Mesh) {
	if mesh.NumSegments() == 0 {
		p.stats.EmptySegments++
		return
	}
	d.DrawMesh(mesh)
	p.stats.DrawCalls++
	p.stats.Vertices += len(mesh.Vertices)
}
