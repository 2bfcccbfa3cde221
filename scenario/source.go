// scenario/source.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package scenario

import (
	"fmt"
	"iter"
	gomath "math"

	"github.com/mmp/trajplot/log"
	"github.com/mmp/trajplot/math"
	"github.com/mmp/trajplot/plotter"
	"github.com/mmp/trajplot/renderer"
)

// Source is a plotter.DataSource that serves the trajectories recorded
// in a Scenario. Like the Plotter, it must only be used from a single
// goroutine; the polylines it yields share a scratch buffer.
type Source struct {
	scenario *Scenario
	time     float64
	camera   renderer.Camera
	scratch  []math.Point3f
	lg       *log.Logger
}

var _ plotter.DataSource = (*Source)(nil)

func NewSource(s *Scenario, lg *log.Logger) *Source {
	return &Source{scenario: s, time: s.Time, lg: lg}
}

// SetTime sets the current time; past trajectories end at it.
func (s *Source) SetTime(t float64) {
	s.time = t
}

func (s *Source) Time() float64 {
	return s.time
}

func (s *Source) SetCamera(c renderer.Camera) {
	s.camera = c
}

func (s *Source) body(body int) (*Body, error) {
	if body < 0 || body >= len(s.scenario.Bodies) {
		return nil, fmt.Errorf("%d: %w", body, plotter.ErrNoSuchBody)
	}
	return &s.scenario.Bodies[body], nil
}

func (s *Source) vessel(guid string) (*Vessel, error) {
	if v := s.scenario.Vessel(guid); v != nil {
		return v, nil
	}
	return nil, fmt.Errorf("%s: %w", guid, plotter.ErrNoSuchVessel)
}

// window returns the samples of arc in [from, to].
func window(arc Arc, from, to float64) Arc {
	start, end := 0, len(arc)
	for start < end && arc[start].T < from {
		start++
	}
	for end > start && arc[end-1].T > to {
		end--
	}
	return arc[start:end]
}

func (s *Source) PastTrajectory(body int, historyLength float64, buf []math.Point3f) (int, float64, error) {
	b, err := s.body(body)
	if err != nil {
		return 0, 0, err
	}

	arc := window(b.Past, s.time-historyLength, s.time)
	// Newest first, so that faded trajectories are brightest at the body.
	n, minDistance := s.decimate(len(arc), buf, func(i int) math.Point3d {
		return arc[len(arc)-1-i].P
	})
	return n, minDistance, nil
}

func (s *Source) FutureTrajectory(body int, vessel string, buf []math.Point3f) (int, float64, error) {
	b, err := s.body(body)
	if err != nil {
		return 0, 0, err
	}
	if _, err := s.vessel(vessel); err != nil {
		return 0, 0, err
	}

	n, minDistance := s.decimate(len(b.Future), buf, func(i int) math.Point3d {
		return b.Future[i].P
	})
	return n, minDistance, nil
}

// decimate writes the n points given by pt into buf, keeping an evenly
// spaced subset of them, including both endpoints, if there are more
// points than buf can hold. It returns the number of points written and
// the minimum distance from the camera to any of them.
func (s *Source) decimate(n int, buf []math.Point3f, pt func(int) math.Point3d) (int, float64) {
	minDistance := gomath.Inf(1)
	indices := DecimatedIndices(n, len(buf))
	count := 0
	for i := range indices {
		p := pt(i)
		minDistance = min(minDistance, math.Distance3d(p, s.camera.Position))
		buf[count] = math.P3f(p)
		count++
	}
	return count, minDistance
}

// DecimatedIndices returns an iterator over the indices of at most
// capacity evenly spaced elements of a sequence of length n. The first
// and last elements are always included.
func DecimatedIndices(n, capacity int) iter.Seq[int] {
	return func(yield func(int) bool) {
		switch {
		case n <= capacity:
			for i := range n {
				if !yield(i) {
					return
				}
			}
		case capacity == 1:
			yield(0)
		case capacity > 1:
			for k := range capacity {
				idx := int(gomath.Round(float64(k) * float64(n-1) / float64(capacity-1)))
				if !yield(idx) {
					return
				}
			}
		}
	}
}

// polylines returns an iterator over the given arcs, clipped to [from,
// to], decimated to at most plotter.MaxVertices points, and converted to
// single precision. Arcs with no samples in the window are skipped. If
// newestFirst is set, both the arcs and their samples are returned in
// reverse chronological order.
func (s *Source) polylines(arcs []Arc, from, to float64, newestFirst bool) iter.Seq[[]math.Point3f] {
	return func(yield func([]math.Point3f) bool) {
		for i := range arcs {
			arc := arcs[i]
			if newestFirst {
				arc = arcs[len(arcs)-1-i]
			}
			arc = window(arc, from, to)
			if len(arc) == 0 {
				continue
			}
			s.scratch = s.scratch[:0]
			for idx := range DecimatedIndices(len(arc), plotter.MaxVertices) {
				if newestFirst {
					idx = len(arc) - 1 - idx
				}
				s.scratch = append(s.scratch, math.P3f(arc[idx].P))
			}
			if !yield(s.scratch) {
				return
			}
		}
	}
}

// VesselHistory returns the vessel's history over the last historyLength
// seconds, newest arc and newest sample first.
func (s *Source) VesselHistory(guid string, historyLength float64) (iter.Seq[[]math.Point3f], error) {
	v, err := s.vessel(guid)
	if err != nil {
		return nil, err
	}
	return s.polylines(v.History, s.time-historyLength, s.time, true), nil
}

func (s *Source) VesselPrediction(guid string) (iter.Seq[[]math.Point3f], error) {
	v, err := s.vessel(guid)
	if err != nil {
		return nil, err
	}
	return s.polylines(v.Prediction, gomath.Inf(-1), gomath.Inf(1), false), nil
}

func (s *Source) HasVessel(guid string) bool {
	return s.scenario.Vessel(guid) != nil
}

func (s *Source) flightPlan(guid string) *FlightPlan {
	if v := s.scenario.Vessel(guid); v != nil {
		return v.FlightPlan
	}
	return nil
}

func (s *Source) FlightPlanExists(guid string) bool {
	return s.flightPlan(guid) != nil
}

func (s *Source) FlightPlanSegmentCount(guid string) int {
	if fp := s.flightPlan(guid); fp != nil {
		return len(fp.Segments)
	}
	return 0
}

func (s *Source) FlightPlanSegment(guid string, index int) (iter.Seq[[]math.Point3f], error) {
	fp := s.flightPlan(guid)
	if fp == nil {
		return nil, fmt.Errorf("%s: %w", guid, plotter.ErrNoSuchVessel)
	}
	if index < 0 || index >= len(fp.Segments) {
		return nil, fmt.Errorf("%s: flight plan segment %d out of range", guid, index)
	}
	return s.polylines(fp.Segments[index], gomath.Inf(-1), gomath.Inf(1), false), nil
}

func (s *Source) FlightPlanManeuverCount(guid string) int {
	if fp := s.flightPlan(guid); fp != nil {
		return len(fp.Maneuvers)
	}
	return 0
}

func (s *Source) FlightPlanAnomalousManeuverCount(guid string) int {
	n := 0
	if fp := s.flightPlan(guid); fp != nil {
		for _, m := range fp.Maneuvers {
			if m.Anomalous {
				n++
			}
		}
	}
	return n
}

func (s *Source) ManeuverFrenetTrihedron(guid string, index int) (plotter.FrenetTrihedron, error) {
	fp := s.flightPlan(guid)
	if fp == nil {
		return plotter.FrenetTrihedron{}, fmt.Errorf("%s: %w", guid, plotter.ErrNoSuchVessel)
	}
	if index < 0 || index >= len(fp.Maneuvers) {
		return plotter.FrenetTrihedron{}, fmt.Errorf("%s: maneuver %d out of range", guid, index)
	}
	if fp.Maneuvers[index].Anomalous {
		s.lg.Warnf("%s: trihedron requested for anomalous maneuver %d", guid, index)
	}
	return fp.Maneuvers[index].Trihedron, nil
}
