// plotter/plotter_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package plotter

import (
	"errors"
	"iter"
	"slices"
	"testing"

	"github.com/mmp/trajplot/math"
	"github.com/mmp/trajplot/renderer"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fakeVessel struct {
	history    [][]math.Point3f
	prediction [][]math.Point3f
	flightPlan [][]math.Point3f
	maneuvers  int
	anomalous  int
}

type fakeSource struct {
	camera     renderer.Camera
	past       map[int][]math.Point3f
	pastMin    map[int]float64
	future     map[int][]math.Point3f
	vessels    map[string]*fakeVessel
	pastCalls  []int
	trihedra   []int
	failBodies map[int]bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		past:       make(map[int][]math.Point3f),
		pastMin:    make(map[int]float64),
		future:     make(map[int][]math.Point3f),
		vessels:    make(map[string]*fakeVessel),
		failBodies: make(map[int]bool),
	}
}

func (s *fakeSource) SetCamera(c renderer.Camera) { s.camera = c }

func (s *fakeSource) PastTrajectory(body int, historyLength float64, buf []math.Point3f) (int, float64, error) {
	s.pastCalls = append(s.pastCalls, body)
	if s.failBodies[body] {
		return 0, 0, ErrNoSuchBody
	}
	return copy(buf, s.past[body]), s.pastMin[body], nil
}

func (s *fakeSource) FutureTrajectory(body int, vessel string, buf []math.Point3f) (int, float64, error) {
	return copy(buf, s.future[body]), 0, nil
}

func lines(l [][]math.Point3f) iter.Seq[[]math.Point3f] {
	return slices.Values(l)
}

func (s *fakeSource) vessel(v string) (*fakeVessel, error) {
	if fv, ok := s.vessels[v]; ok {
		return fv, nil
	}
	return nil, ErrNoSuchVessel
}

func (s *fakeSource) VesselHistory(v string, historyLength float64) (iter.Seq[[]math.Point3f], error) {
	fv, err := s.vessel(v)
	if err != nil {
		return nil, err
	}
	return lines(fv.history), nil
}

func (s *fakeSource) VesselPrediction(v string) (iter.Seq[[]math.Point3f], error) {
	fv, err := s.vessel(v)
	if err != nil {
		return nil, err
	}
	return lines(fv.prediction), nil
}

func (s *fakeSource) HasVessel(v string) bool {
	_, ok := s.vessels[v]
	return ok
}

func (s *fakeSource) FlightPlanExists(v string) bool {
	fv, ok := s.vessels[v]
	return ok && len(fv.flightPlan) > 0
}

func (s *fakeSource) FlightPlanSegmentCount(v string) int {
	return len(s.vessels[v].flightPlan)
}

func (s *fakeSource) FlightPlanSegment(v string, index int) (iter.Seq[[]math.Point3f], error) {
	return lines(s.vessels[v].flightPlan[index : index+1]), nil
}

func (s *fakeSource) FlightPlanManeuverCount(v string) int          { return s.vessels[v].maneuvers }
func (s *fakeSource) FlightPlanAnomalousManeuverCount(v string) int { return s.vessels[v].anomalous }

func (s *fakeSource) ManeuverFrenetTrihedron(v string, index int) (FrenetTrihedron, error) {
	s.trihedra = append(s.trihedra, index)
	return FrenetTrihedron{Tangent: math.Point3d{1, 0, 0}}, nil
}

type drawn struct {
	mesh     *renderer.Mesh
	vertices []math.Point3f
	colors   []renderer.RGBA
	topology renderer.Topology
}

// recorder is a Drawer that keeps copies of everything it is asked to
// draw.
type recorder struct {
	draws []drawn
}

func (r *recorder) DrawMesh(m *renderer.Mesh) {
	r.draws = append(r.draws, drawn{
		mesh:     m,
		vertices: slices.Clone(m.Vertices),
		colors:   slices.Clone(m.Colors),
		topology: m.Topology,
	})
}

func line(n int, x float32) []math.Point3f {
	var l []math.Point3f
	for i := range n {
		l = append(l, math.Point3f{x, float32(i), 0})
	}
	return l
}

// lodSystem returns a system with a root at the origin and two children:
// "far" with an apoapsis of 2e9m and "near" with an apoapsis of 2e4m;
// "near" has a single child "moon".
func lodSystem(t *testing.T) *System {
	sys, err := NewSystem([]Body{
		{Name: "sun", Parent: NoParent},
		{Name: "far", Parent: 0, Apoapsis: 2e9, Position: math.Point3d{2e9, 0, 0}},
		{Name: "near", Parent: 0, Apoapsis: 2e4, Position: math.Point3d{0, 2e4, 0}},
		{Name: "moon", Parent: 2, Apoapsis: 1e12, Position: math.Point3d{0, 2e4, 1e3}},
		{Name: "farmoon", Parent: 1, Apoapsis: 1e9, Position: math.Point3d{2e9, 1e9, 0}},
	})
	if err != nil {
		t.Fatalf("NewSystem: %v", err)
	}
	return sys
}

func testFrame(distance float64) Frame {
	return Frame{
		Camera: renderer.Camera{
			Position:    math.Point3d{0, 0, distance},
			VerticalFOV: 60,
			PixelWidth:  1000,
			PixelHeight: 1000,
		},
		PlottingFrame: BodyCentredFrame{Centre: 0},
		HistoryLength: 3600,
	}
}

func TestLevelOfDetailSelection(t *testing.T) {
	sys := lodSystem(t)
	src := newFakeSource()
	p := NewPlotter(sys, src, DefaultConfig(), nil, nil)

	f := testFrame(1e8)
	var r recorder
	p.plotSubtree(&f, &r, sys.RootIndex, 1e-3)

	// sun is fixed and so isn't fetched; far is visited since 2e9/1e8 >
	// 0.002 and near is pruned since 2e4/1e8 < 0.002. far's moon is
	// visited as well since its apoapsis is half of far's distance.
	if expected := []int{1, 4}; !slices.Equal(src.pastCalls, expected) {
		t.Errorf("got past trajectory fetches %v, expected %v", src.pastCalls, expected)
	}
	if p.stats.BodiesVisited != 3 {
		t.Errorf("got %d bodies visited, expected 3", p.stats.BodiesVisited)
	}
	if p.stats.BodiesPruned != 1 {
		t.Errorf("got %d bodies pruned, expected 1", p.stats.BodiesPruned)
	}
}

func TestPruningThresholdIsTwoPixels(t *testing.T) {
	for _, tc := range []struct {
		apoapsis float64
		visited  bool
	}{
		{apoapsis: 2.1e5, visited: true},
		{apoapsis: 1.9e5, visited: false},
		{apoapsis: 1.5e5, visited: false}, // more than one pixel but less than two
	} {
		sys, err := NewSystem([]Body{
			{Name: "root", Parent: NoParent},
			{Name: "child", Parent: 0, Apoapsis: tc.apoapsis},
		})
		if err != nil {
			t.Fatal(err)
		}
		src := newFakeSource()
		p := NewPlotter(sys, src, DefaultConfig(), nil, nil)
		f := testFrame(1e8)
		p.plotSubtree(&f, &recorder{}, 0, 1e-3)

		if visited := slices.Contains(src.pastCalls, 1); visited != tc.visited {
			t.Errorf("apoapsis %g: got visited %v, expected %v", tc.apoapsis, visited, tc.visited)
		}
	}
}

func TestPastTrajectoryTightensDistance(t *testing.T) {
	sys, err := NewSystem([]Body{
		{Name: "root", Parent: NoParent},
		{Name: "planet", Parent: 0, Apoapsis: 1e10, Position: math.Point3d{0, 0, 1e12}},
		{Name: "moon", Parent: 1, Apoapsis: 1e5},
	})
	if err != nil {
		t.Fatal(err)
	}

	src := newFakeSource()
	src.past[1] = line(10, 0)
	// From the planet's position the moon's orbit is invisible, but the
	// planet's trajectory passes close to the camera.
	src.pastMin[1] = 1e7

	p := NewPlotter(sys, src, DefaultConfig(), nil, nil)
	f := testFrame(0)
	p.plotSubtree(&f, &recorder{}, 0, 1e-3)

	if !slices.Contains(src.pastCalls, 2) {
		t.Errorf("moon not visited; past fetches %v", src.pastCalls)
	}
}

func TestFixedBodyChildrenVisited(t *testing.T) {
	sys := lodSystem(t)
	src := newFakeSource()
	src.past[1] = line(4, 1)
	src.past[4] = line(4, 4)

	p := NewPlotter(sys, src, DefaultConfig(), nil, nil)
	f := testFrame(1e8)
	f.PlottingFrame = BodyCentredFrame{Centre: 1}
	var r recorder
	p.plotSubtree(&f, &r, 0, 1e-3)

	if slices.Contains(src.pastCalls, 1) {
		t.Errorf("fixed body's trajectory was fetched")
	}
	if !slices.Contains(src.pastCalls, 4) {
		t.Errorf("child of fixed body was not visited: %v", src.pastCalls)
	}
	if len(r.draws) != 1 || r.draws[0].vertices[0][0] != 4 {
		t.Errorf("expected a single draw of farmoon's trajectory, got %d draws", len(r.draws))
	}
}

func TestCelestialStyles(t *testing.T) {
	green := renderer.RGBAFromHex(0x00ff00)
	sys, err := NewSystem([]Body{
		{Name: "root", Parent: NoParent},
		{Name: "colored", Parent: 0, Apoapsis: 1e12, Color: &green},
		{Name: "plain", Parent: 0, Apoapsis: 1e12},
	})
	if err != nil {
		t.Fatal(err)
	}

	src := newFakeSource()
	src.past[1] = line(5, 1)
	src.past[2] = line(5, 2)
	src.future[1] = line(3, 1)

	p := NewPlotter(sys, src, DefaultConfig(), nil, nil)
	var r recorder

	// Without a vessel only the past trajectories are drawn.
	p.Plot(testFrame(1e8), &r)
	if len(r.draws) != 2 {
		t.Fatalf("got %d draws, expected 2", len(r.draws))
	}
	if r.draws[0].colors[0] != green {
		t.Errorf("got color %v, expected %v", r.draws[0].colors[0], green)
	}
	if r.draws[1].colors[0] != renderer.SunshineYellow {
		t.Errorf("got color %v, expected default %v", r.draws[1].colors[0], renderer.SunshineYellow)
	}
	if c := r.draws[0].colors; c[len(c)-1].A >= c[0].A {
		t.Errorf("past trajectory isn't faded: %v", c)
	}

	src.vessels["v"] = &fakeVessel{}
	r = recorder{}
	f := testFrame(1e8)
	f.MainVessel = "v"
	p.Plot(f, &r)
	if len(r.draws) != 3 {
		t.Fatalf("got %d draws, expected 3", len(r.draws))
	}
	future := r.draws[1]
	if len(future.vertices) != 3 || future.topology != renderer.LineStrip {
		t.Errorf("unexpected future trajectory draw %+v", future)
	}
	for _, c := range future.colors {
		if c != green {
			t.Errorf("future trajectory color %v, expected solid %v", c, green)
		}
	}
}

func TestTrajectoryCacheReuse(t *testing.T) {
	sys := lodSystem(t)
	src := newFakeSource()
	src.past[1] = line(100, 1)
	src.past[4] = line(50, 4)

	p := NewPlotter(sys, src, DefaultConfig(), nil, nil)
	var r1, r2 recorder
	p.Plot(testFrame(1e8), &r1)
	src.past[1] = line(20, 1)
	p.Plot(testFrame(1e8), &r2)

	if len(r1.draws) != 2 || len(r2.draws) != 2 {
		t.Fatalf("got %d/%d draws, expected 2", len(r1.draws), len(r2.draws))
	}
	if r1.draws[0].mesh != r2.draws[0].mesh {
		t.Errorf("mesh for body 1 changed between frames")
	}
	if r1.draws[0].mesh != p.Cache().Get(1, PastSegment) {
		t.Errorf("drawn mesh isn't the cached one")
	}
	if n := len(r2.draws[0].vertices); n != 20 {
		t.Errorf("got %d vertices, expected 20", n)
	}
	if n := p.Cache().Len(); n != 2 {
		t.Errorf("got %d cache entries, expected 2", n)
	}
	if b := r2.draws[0].mesh.Bounds; b.P1[1] != 19 {
		t.Errorf("bounds not updated: %v", b)
	}

	config := DefaultConfig()
	config.ReuseMeshes = false
	p = NewPlotter(sys, src, config, nil, nil)
	r1, r2 = recorder{}, recorder{}
	p.Plot(testFrame(1e8), &r1)
	p.Plot(testFrame(1e8), &r2)
	if r1.draws[0].mesh == r2.draws[0].mesh {
		t.Errorf("mesh reused with ReuseMeshes disabled")
	}
	if p.Cache().Len() != 0 {
		t.Errorf("cache used with ReuseMeshes disabled")
	}
}

func TestTrajectoryCacheDispose(t *testing.T) {
	c := NewTrajectoryCache()
	m := c.Get(3, PastSegment)
	m.SetVertices([]math.Point3f{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}})
	c.Get(3, FutureSegment)

	c.Dispose()
	if n := c.Len(); n != 0 {
		t.Errorf("got %d cache entries after Dispose, expected 0", n)
	}
	if len(m.Vertices) != 0 || cap(m.Vertices) != 0 {
		t.Errorf("disposed mesh still holds %d/%d vertices", len(m.Vertices), cap(m.Vertices))
	}
	if m2 := c.Get(3, PastSegment); m2 == m {
		t.Errorf("Get after Dispose returned the disposed mesh")
	}
}

func TestPlotterDispose(t *testing.T) {
	sys := lodSystem(t)
	src := newFakeSource()
	src.past[1] = line(100, 1)
	src.past[4] = line(50, 4)

	p := NewPlotter(sys, src, DefaultConfig(), nil, nil)
	var r recorder
	p.Plot(testFrame(1e8), &r)
	if n := p.Cache().Len(); n != 2 {
		t.Fatalf("got %d cache entries, expected 2", n)
	}

	p.Dispose()
	if n := p.Cache().Len(); n != 0 {
		t.Errorf("got %d cache entries after Dispose, expected 0", n)
	}
}

func TestDataSourceErrorsSkipped(t *testing.T) {
	sys := lodSystem(t)
	src := newFakeSource()
	src.failBodies[1] = true
	src.past[4] = line(3, 4)

	p := NewPlotter(sys, src, DefaultConfig(), nil, nil)
	var r recorder
	f := testFrame(1e8)
	f.MainVessel = "nonexistent"
	result := p.Plot(f, &r)

	if result.Stats.FailedSegments != 3 { // body 1 past, vessel history and prediction
		t.Errorf("got %d failed segments, expected 3", result.Stats.FailedSegments)
	}
	if len(r.draws) != 1 {
		t.Errorf("got %d draws, expected 1", len(r.draws))
	}
}

func TestVesselTrajectories(t *testing.T) {
	sys := lodSystem(t)
	src := newFakeSource()
	src.vessels["main"] = &fakeVessel{
		history:    [][]math.Point3f{line(4, 10), line(3, 11)},
		prediction: [][]math.Point3f{line(6, 12)},
	}
	src.vessels["target"] = &fakeVessel{
		history:    [][]math.Point3f{line(5, 13)},
		prediction: [][]math.Point3f{{}}, // nothing predicted
	}

	config := DefaultConfig()
	p := NewPlotter(sys, src, config, nil, nil)
	var r recorder
	f := testFrame(1e8)
	f.MainVessel = "main"
	f.TargetVessel = "target"
	result := p.Plot(f, &r)

	expected := []renderer.RGBA{config.History.Color, config.History.Color, config.Prediction.Color,
		config.TargetHistory.Color}
	if len(r.draws) != len(expected) {
		t.Fatalf("got %d draws, expected %d", len(r.draws), len(expected))
	}
	for i, d := range r.draws {
		if d.colors[0] != expected[i] {
			t.Errorf("draw %d: got color %v, expected %v", i, d.colors[0], expected[i])
		}
	}
	if result.Stats.FailedSegments != 0 {
		t.Errorf("got %d failed segments for an empty prediction", result.Stats.FailedSegments)
	}
	if result.Stats.EmptySegments == 0 {
		t.Errorf("empty target prediction not counted")
	}

	// No target trajectories when plotting in the target's frame.
	r = recorder{}
	f.PlottingFrame = TargetFrame{}
	p.Plot(f, &r)
	if len(r.draws) != 3 {
		t.Errorf("got %d draws in target frame, expected 3", len(r.draws))
	}

	// Or when the target is unknown.
	r = recorder{}
	f.PlottingFrame = BodyCentredFrame{Centre: 0}
	f.TargetVessel = "unknown"
	p.Plot(f, &r)
	if len(r.draws) != 3 {
		t.Errorf("got %d draws with unknown target, expected 3", len(r.draws))
	}
}

func TestFlightPlan(t *testing.T) {
	sys := lodSystem(t)
	src := newFakeSource()
	var segments [][]math.Point3f
	for i := range 5 {
		segments = append(segments, line(4, float32(100+i)))
	}
	src.vessels["v"] = &fakeVessel{flightPlan: segments, maneuvers: 2, anomalous: 1}

	config := DefaultConfig()
	p := NewPlotter(sys, src, config, nil, nil)
	var r recorder
	f := testFrame(1e8)
	f.MainVessel = "v"
	result := p.Plot(f, &r)

	if len(r.draws) != 5 {
		t.Fatalf("got %d draws, expected 5", len(r.draws))
	}
	for i, d := range r.draws {
		if d.vertices[0][0] != float32(100+i) {
			t.Errorf("draw %d is segment %v, expected %d", i, d.vertices[0][0], 100+i)
		}
		lc := config.FlightPlan
		if i%2 == 1 {
			lc = config.Burn
		}
		if d.colors[0] != lc.Color || d.topology != lc.Style.Topology() {
			t.Errorf("segment %d: got %v/%s, expected %v/%s", i, d.colors[0], d.topology,
				lc.Color, lc.Style.Topology())
		}
	}

	// Only the first maneuver isn't anomalous.
	if !slices.Equal(src.trihedra, []int{0}) {
		t.Errorf("got trihedra requests %v, expected [0]", src.trihedra)
	}
	if len(result.Maneuvers) != 1 || result.Maneuvers[0].Index != 0 {
		t.Errorf("unexpected maneuvers %+v", result.Maneuvers)
	}
}

func TestGeometryBufferClamp(t *testing.T) {
	g := NewGeometryBuffer(MaxVertices)
	if g.Cap() != MaxVertices {
		t.Errorf("got capacity %d, expected %d", g.Cap(), MaxVertices)
	}

	pts, _, err := g.Fill(func(buf []math.Point3f) (int, float64, error) {
		return 2 * len(buf), 0, nil
	})
	if err != nil || len(pts) != MaxVertices {
		t.Errorf("got %d points (%v), expected %d", len(pts), err, MaxVertices)
	}

	pts, d, err := g.Fill(func(buf []math.Point3f) (int, float64, error) {
		buf[0] = math.Point3f{1, 2, 3}
		return 1, 42, nil
	})
	if err != nil || len(pts) != 1 || cap(pts) != 1 || pts[0] != (math.Point3f{1, 2, 3}) || d != 42 {
		t.Errorf("unexpected fill result %v %v %v", pts, d, err)
	}

	errFail := errors.New("fail")
	if _, _, err := g.Fill(func([]math.Point3f) (int, float64, error) { return 5, 0, errFail }); err != errFail {
		t.Errorf("got error %v, expected %v", err, errFail)
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	sys := lodSystem(t)
	src := newFakeSource()
	src.past[1] = line(10, 1)
	p := NewPlotter(sys, src, DefaultConfig(), m, nil)
	p.Plot(testFrame(1e8), &recorder{})
	p.Plot(testFrame(1e8), &recorder{})

	if n := testutil.ToFloat64(m.frames); n != 2 {
		t.Errorf("got %f frames, expected 2", n)
	}
	if n := testutil.ToFloat64(m.draws); n != 2 {
		t.Errorf("got %f draws, expected 2", n)
	}
	if n := testutil.ToFloat64(m.vertices); n != 20 {
		t.Errorf("got %f vertices, expected 20", n)
	}

	var nilMetrics *Metrics
	nilMetrics.Record(FrameStats{DrawCalls: 1})
}
