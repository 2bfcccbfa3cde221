// plotter/source.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package plotter

import (
	"errors"
	"iter"

	"github.com/mmp/trajplot/math"
	"github.com/mmp/trajplot/renderer"
)

var (
	ErrNoSuchBody   = errors.New("no such body")
	ErrNoSuchVessel = errors.New("no such vessel")
)

// FrenetTrihedron gives the orientation of a maneuver in world space.
type FrenetTrihedron struct {
	Tangent  math.Point3d
	Normal   math.Point3d
	Binormal math.Point3d
}

// DataSource provides trajectory geometry in world coordinates, already
// transformed into the current plotting frame.
//
// PastTrajectory and FutureTrajectory write at most len(buf) points into
// buf; implementations are responsible for decimating trajectories that
// have more points than that. They return the number of points written
// and the minimum distance from the camera (as most recently given to
// SetCamera) to any of them. Past trajectories are returned newest point
// first.
//
// VesselHistory, like PastTrajectory, yields its polylines newest point
// first so that faded history is brightest at the vessel. All of the
// vessel methods yield polylines of at most MaxVertices points, and each
// polyline is only valid until the iteration continues.
type DataSource interface {
	SetCamera(c renderer.Camera)

	PastTrajectory(body int, historyLength float64, buf []math.Point3f) (n int, minDistance float64, err error)
	FutureTrajectory(body int, vessel string, buf []math.Point3f) (n int, minDistance float64, err error)

	VesselHistory(vessel string, historyLength float64) (iter.Seq[[]math.Point3f], error)
	VesselPrediction(vessel string) (iter.Seq[[]math.Point3f], error)
	HasVessel(vessel string) bool

	FlightPlanExists(vessel string) bool
	FlightPlanSegmentCount(vessel string) int
	FlightPlanSegment(vessel string, index int) (iter.Seq[[]math.Point3f], error)
	FlightPlanManeuverCount(vessel string) int
	FlightPlanAnomalousManeuverCount(vessel string) int
	ManeuverFrenetTrihedron(vessel string, index int) (FrenetTrihedron, error)
}

// PlottingFrame describes the reference frame that trajectories are
// plotted in.
type PlottingFrame interface {
	// FixesBody reports whether the frame holds the given body fixed, in
	// which case its trajectory is degenerate and isn't drawn.
	FixesBody(body int) bool
	// TargetFrameSelected reports whether the frame is centered on the
	// target vessel.
	TargetFrameSelected() bool
}

// Drawer consumes styled meshes. The mesh is only valid for the duration
// of the call; Drawers that hold on to geometry must copy it.
type Drawer interface {
	DrawMesh(m *renderer.Mesh)
}

// BodyCentredFrame is a PlottingFrame centered on a celestial body.
type BodyCentredFrame struct {
	Centre int
}

func (f BodyCentredFrame) FixesBody(body int) bool  { return body == f.Centre }
func (f BodyCentredFrame) TargetFrameSelected() bool { return false }

// TargetFrame is a PlottingFrame centered on the target vessel; no body
// is fixed in it.
type TargetFrame struct{}

func (TargetFrame) FixesBody(int) bool        { return false }
func (TargetFrame) TargetFrameSelected() bool { return true }
