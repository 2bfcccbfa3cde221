// plotter/body.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package plotter

import (
	"errors"
	gomath "math"
	"strconv"

	"github.com/mmp/trajplot/math"
	"github.com/mmp/trajplot/renderer"
	"github.com/mmp/trajplot/util"

	"github.com/brunoga/deep"
)

// NoParent is the Parent index of the root body.
const NoParent = -1

// Body is a node in the celestial hierarchy. A body's index in its
// System is its identity, both here and when asking a DataSource for its
// trajectories.
type Body struct {
	Name   string
	Parent int
	// Children holds the indices of the bodies orbiting this one, in
	// index order; it is filled in by NewSystem.
	Children []int
	// Apoapsis is the largest distance from the parent along the body's
	// orbit, in meters.
	Apoapsis float64
	// Position is the body's current world position, in meters.
	Position math.Point3d
	// Color is the color used for the body's trajectories; if nil,
	// renderer.SunshineYellow is used.
	Color *renderer.RGBA
}

// OrbitColor returns the color used to draw the body's trajectories.
func (b *Body) OrbitColor() renderer.RGBA {
	if b.Color == nil {
		return renderer.SunshineYellow
	}
	return *b.Color
}

// System is an immutable snapshot of the celestial hierarchy: an arena
// of bodies with parent and child indices. Its shape doesn't change
// during a session, though positions are updated via WithPositions.
type System struct {
	Bodies    []Body
	RootIndex int
}

// NewSystem validates the given bodies and returns a System holding a
// copy of them. There must be exactly one root body (with Parent set to
// NoParent) and every other body must eventually orbit it.
func NewSystem(bodies []Body) (*System, error) {
	if len(bodies) == 0 {
		return nil, errors.New("system has no bodies")
	}

	s := &System{Bodies: deep.MustCopy(bodies), RootIndex: NoParent}

	var e util.ErrorLogger
	e.Push("bodies")
	for i := range s.Bodies {
		b := &s.Bodies[i]
		b.Children = nil

		e.Push(b.Name + " (" + strconv.Itoa(i) + ")")
		switch {
		case b.Parent == NoParent:
			if s.RootIndex != NoParent {
				e.ErrorString("multiple root bodies: also %q", s.Bodies[s.RootIndex].Name)
			} else {
				s.RootIndex = i
			}
		case b.Parent < 0 || b.Parent >= len(s.Bodies):
			e.ErrorString("parent index %d out of range", b.Parent)
		case b.Parent == i:
			e.ErrorString("body orbits itself")
		}
		if gomath.IsNaN(b.Apoapsis) || b.Apoapsis < 0 {
			e.ErrorString("invalid apoapsis %g", b.Apoapsis)
		}
		e.Pop()
	}
	if s.RootIndex == NoParent {
		e.ErrorString("no root body")
	}
	e.Pop()

	if err := e.Err(); err != nil {
		return nil, err
	}

	// All parent indices are now known to be valid; make sure that walking
	// up from each body reaches the root.
	for i := range s.Bodies {
		b, steps := i, 0
		for b != s.RootIndex && steps <= len(s.Bodies) {
			b = s.Bodies[b].Parent
			steps++
		}
		if b != s.RootIndex {
			e.ErrorString("%s: cycle in parent chain", s.Bodies[i].Name)
		}
	}
	if err := e.Err(); err != nil {
		return nil, err
	}

	for i := range s.Bodies {
		if p := s.Bodies[i].Parent; p != NoParent {
			s.Bodies[p].Children = append(s.Bodies[p].Children, i)
		}
	}

	return s, nil
}

func (s *System) Root() *Body {
	return &s.Bodies[s.RootIndex]
}

func (s *System) Len() int {
	return len(s.Bodies)
}

// Lookup returns the index of the body with the given name.
func (s *System) Lookup(name string) (int, bool) {
	for i := range s.Bodies {
		if s.Bodies[i].Name == name {
			return i, true
		}
	}
	return NoParent, false
}

// Snapshot returns a deep copy of the system, sharing no storage with it.
func (s *System) Snapshot() *System {
	return deep.MustCopy(s)
}

// WithPositions returns a snapshot of the system with its body positions
// replaced by the given ones, which are indexed like Bodies.
func (s *System) WithPositions(positions []math.Point3d) (*System, error) {
	if len(positions) != len(s.Bodies) {
		return nil, errors.New("position count " + strconv.Itoa(len(positions)) +
			" doesn't match body count " + strconv.Itoa(len(s.Bodies)))
	}
	snap := s.Snapshot()
	for i, p := range positions {
		snap.Bodies[i].Position = p
	}
	return snap, nil
}
