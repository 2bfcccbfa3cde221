// scenario/scenario.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package scenario provides recorded trajectories of a celestial system
// and its vessels, loaded from JSON or from zstd-compressed msgpack
// files, and a plotter.DataSource that serves them.
package scenario

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/mmp/trajplot/log"
	"github.com/mmp/trajplot/math"
	"github.com/mmp/trajplot/plotter"
	"github.com/mmp/trajplot/renderer"
	"github.com/mmp/trajplot/util"
)

// CompressedExtension is the filename suffix of msgpack+zstd scenarios;
// all other files are taken to be JSON.
const CompressedExtension = ".msgpack.zst"

const maxCacheBytes = 256 << 20

// Sample is a position (in world coordinates, meters) at a time (in
// seconds).
type Sample struct {
	T float64      `json:"t"`
	P math.Point3d `json:"p"`
}

// Arc is a time-ordered sequence of samples.
type Arc []Sample

type Body struct {
	Name string `json:"name"`
	// Parent is the name of the body that this one orbits; it is empty
	// for the root of the system.
	Parent   string  `json:"parent,omitempty"`
	Apoapsis float64 `json:"apoapsis"`
	// Color is an optional hex color, e.g. "#fffd37".
	Color string `json:"color,omitempty"`
	// Past is the body's recorded trajectory; its last sample must be at
	// or before the scenario's time.
	Past Arc `json:"past"`
	// Future is the body's trajectory over the main vessel's prediction
	// interval.
	Future Arc `json:"future,omitempty"`
}

type Maneuver struct {
	Trihedron plotter.FrenetTrihedron `json:"trihedron"`
	// Anomalous maneuvers couldn't be computed; they must follow all of
	// the regular ones.
	Anomalous bool `json:"anomalous,omitempty"`
}

type FlightPlan struct {
	// Segments alternate between coasts and burns, starting with a coast.
	Segments  [][]Arc    `json:"segments"`
	Maneuvers []Maneuver `json:"maneuvers"`
}

type Vessel struct {
	GUID       string      `json:"guid"`
	Name       string      `json:"name"`
	History    []Arc       `json:"history"`
	Prediction []Arc       `json:"prediction,omitempty"`
	FlightPlan *FlightPlan `json:"flight_plan,omitempty"`
}

type Scenario struct {
	Name    string   `json:"name"`
	Time    float64  `json:"time"`
	Bodies  []Body   `json:"bodies"`
	Vessels []Vessel `json:"vessels,omitempty"`

	system *plotter.System
}

// Load reads the scenario stored in the given file and validates it.
func Load(filename string, lg *log.Logger) (*Scenario, error) {
	contents, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var s Scenario
	if strings.HasSuffix(filename, CompressedExtension) {
		err = util.DecodeMsgpackZstd(bytes.NewReader(contents), &s)
	} else {
		err = loadJSON(contents, &s, lg)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	var e util.ErrorLogger
	e.Push("File " + filename)
	s.PostDeserialize(&e)
	e.Pop()
	if e.HaveErrors() {
		e.LogErrors(lg)
		return nil, e.Err()
	}

	lg.Info("loaded scenario", slog.String("name", s.Name), slog.String("filename", filename),
		slog.Int("bodies", len(s.Bodies)), slog.Int("vessels", len(s.Vessels)))

	return &s, nil
}

// loadJSON decodes a JSON scenario. Large recordings are slow to parse, so
// the decoded scenario is cached in msgpack form, keyed by the file's
// contents.
func loadJSON(contents []byte, s *Scenario, lg *log.Logger) error {
	path := filepath.Join("scenarios", util.CacheKey(contents)+CompressedExtension)
	if _, err := util.CacheRetrieveObject(path, s); err == nil {
		lg.Debugf("%s: using cached scenario", path)
		return nil
	}
	*s = Scenario{}

	if err := util.UnmarshalJSON(contents, s); err != nil {
		return err
	}

	if err := util.CacheStoreObject(path, s); err != nil {
		lg.Warnf("%s: unable to cache scenario: %v", path, err)
	} else if err := util.CacheCullObjects(maxCacheBytes); err != nil {
		lg.Warnf("unable to cull cache: %v", err)
	}
	return nil
}

// Save writes the scenario to the given file, using the encoding
// implied by its extension.
func (s *Scenario) Save(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}

	if strings.HasSuffix(filename, CompressedExtension) {
		err = util.EncodeMsgpackZstd(f, s)
	} else {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "    ")
		err = enc.Encode(s)
	}
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// PostDeserialize checks the scenario for errors and builds the
// celestial system from its bodies.
func (s *Scenario) PostDeserialize(e *util.ErrorLogger) {
	if s.Name == "" {
		e.ErrorString("scenario is missing \"name\"")
	}
	if len(s.Bodies) == 0 {
		e.ErrorString("scenario has no \"bodies\"")
		return
	}

	index := make(map[string]int)
	for i, b := range s.Bodies {
		if _, ok := index[b.Name]; ok {
			e.ErrorString("%s: body redefined", b.Name)
		}
		index[b.Name] = i
	}

	bodies := make([]plotter.Body, len(s.Bodies))
	for i, b := range s.Bodies {
		e.Push("Body " + b.Name)

		bodies[i] = plotter.Body{Name: b.Name, Parent: plotter.NoParent, Apoapsis: b.Apoapsis}
		if b.Parent != "" {
			if p, ok := index[b.Parent]; !ok {
				e.ErrorString("parent %q not found", b.Parent)
			} else {
				bodies[i].Parent = p
			}
		}
		if b.Color != "" {
			if c, err := parseColor(b.Color); err != nil {
				e.Error(err)
			} else {
				bodies[i].Color = &c
			}
		}

		e.Push("past")
		checkArc(b.Past, e)
		if len(b.Past) > 0 && b.Past[len(b.Past)-1].T > s.Time {
			e.ErrorString("last sample at %g is after scenario time %g", b.Past[len(b.Past)-1].T, s.Time)
		}
		e.Pop()
		e.Push("future")
		checkArc(b.Future, e)
		e.Pop()

		if len(b.Past) > 0 {
			bodies[i].Position = positionAt(b.Past, s.Time)
		}

		e.Pop()
	}

	guids := make(map[string]bool)
	for i := range s.Vessels {
		v := &s.Vessels[i]
		e.Push("Vessel " + util.Select(v.Name != "", v.Name, v.GUID))

		if v.GUID == "" {
			e.ErrorString("vessel is missing \"guid\"")
		} else if guids[v.GUID] {
			e.ErrorString("%s: vessel redefined", v.GUID)
		}
		guids[v.GUID] = true

		for _, arc := range v.History {
			checkArc(arc, e)
		}
		for _, arc := range v.Prediction {
			checkArc(arc, e)
		}
		if fp := v.FlightPlan; fp != nil {
			e.Push("flight plan")
			for _, seg := range fp.Segments {
				for _, arc := range seg {
					checkArc(arc, e)
				}
			}
			if nm := len(fp.Maneuvers); len(fp.Segments) != 2*nm+1 {
				e.ErrorString("%d segments for %d maneuvers; expected %d", len(fp.Segments), nm, 2*nm+1)
			}
			if i := slices.IndexFunc(fp.Maneuvers, func(m Maneuver) bool { return m.Anomalous }); i != -1 {
				if slices.ContainsFunc(fp.Maneuvers[i:], func(m Maneuver) bool { return !m.Anomalous }) {
					e.ErrorString("anomalous maneuvers must follow all regular maneuvers")
				}
			}
			e.Pop()
		}

		e.Pop()
	}

	if e.HaveErrors() {
		return
	}

	sys, err := plotter.NewSystem(bodies)
	if err != nil {
		e.Error(err)
		return
	}
	s.system = sys
}

// System returns the celestial system described by the scenario, with
// bodies positioned at the scenario's time.
func (s *Scenario) System() *plotter.System {
	return s.system
}

// Vessel returns the vessel with the given GUID or nil if there is no
// such vessel.
func (s *Scenario) Vessel(guid string) *Vessel {
	for i := range s.Vessels {
		if s.Vessels[i].GUID == guid {
			return &s.Vessels[i]
		}
	}
	return nil
}

// Positions returns the positions of all of the bodies at time t.
func (s *Scenario) Positions(t float64) []math.Point3d {
	return util.MapSlice(s.Bodies, func(b Body) math.Point3d {
		return positionAt(b.Past, t)
	})
}

func checkArc(arc Arc, e *util.ErrorLogger) {
	for i := 1; i < len(arc); i++ {
		if arc[i].T < arc[i-1].T {
			e.ErrorString("sample %d at %g is before the previous one at %g", i, arc[i].T, arc[i-1].T)
			return
		}
	}
}

// positionAt returns the position along the arc at time t, linearly
// interpolating between samples and clamping to its endpoints.
func positionAt(arc Arc, t float64) math.Point3d {
	if len(arc) == 0 {
		return math.Point3d{}
	}
	i, found := slices.BinarySearchFunc(arc, t, func(s Sample, t float64) int {
		switch {
		case s.T < t:
			return -1
		case s.T > t:
			return 1
		default:
			return 0
		}
	})
	if found {
		return arc[i].P
	} else if i == 0 {
		return arc[0].P
	} else if i == len(arc) {
		return arc[len(arc)-1].P
	}

	s0, s1 := arc[i-1], arc[i]
	if s1.T == s0.T {
		return s1.P
	}
	x := (t - s0.T) / (s1.T - s0.T)
	return math.Add3d(s0.P, math.Scale3d(math.Sub3d(s1.P, s0.P), x))
}

func parseColor(s string) (renderer.RGBA, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || len(hex) != 6 {
		return renderer.RGBA{}, fmt.Errorf("%q: color must be of the form \"#rrggbb\"", s)
	}
	c, err := strconv.ParseInt(hex, 16, 32)
	if err != nil {
		return renderer.RGBA{}, fmt.Errorf("%q: %w", s, err)
	}
	return renderer.RGBAFromHex(int(c)), nil
}
