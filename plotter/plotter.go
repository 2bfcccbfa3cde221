// plotter/plotter.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package plotter

import (
	"iter"
	"log/slog"
	"time"

	"github.com/mmp/trajplot/log"
	"github.com/mmp/trajplot/math"
	"github.com/mmp/trajplot/renderer"
	"github.com/mmp/trajplot/util"
)

// Frame gives the per-frame inputs to Plot.
type Frame struct {
	Camera        renderer.Camera
	PlottingFrame PlottingFrame
	// MainVessel and TargetVessel are vessel GUIDs; the empty string
	// means that there is no such vessel.
	MainVessel    string
	TargetVessel  string
	HistoryLength float64 // seconds
}

// Maneuver is a flight plan burn whose orientation should be annotated.
type Maneuver struct {
	Index     int
	Trihedron FrenetTrihedron
}

type FrameResult struct {
	Stats     FrameStats
	Maneuvers []Maneuver
}

// Plotter draws the trajectories of a celestial system and of the
// selected vessels each frame. It owns its GeometryBuffer and
// TrajectoryCache and so a Plotter must only be used from a single
// goroutine.
type Plotter struct {
	system  *System
	source  DataSource
	config  Config
	buffer  *GeometryBuffer
	cache   *TrajectoryCache
	metrics *Metrics
	lg      *log.Logger

	// scratch holds the vessel trajectories, which are not cached.
	scratch   renderer.Mesh
	stats     FrameStats
	maneuvers []Maneuver
}

// NewPlotter returns a Plotter for the given system; metrics and lg may
// be nil.
func NewPlotter(sys *System, src DataSource, config Config, metrics *Metrics, lg *log.Logger) *Plotter {
	p := &Plotter{
		system:  sys,
		source:  src,
		config:  config,
		buffer:  NewGeometryBuffer(MaxVertices),
		cache:   NewTrajectoryCache(),
		metrics: metrics,
		lg:      lg,
	}
	p.scratch.Reset()
	return p
}

// SetSystem replaces the system that is plotted. The new system must
// have the same bodies as the old one, though their positions may
// differ.
func (p *Plotter) SetSystem(sys *System) {
	p.system = sys
}

func (p *Plotter) System() *System {
	return p.system
}

func (p *Plotter) Cache() *TrajectoryCache {
	return p.cache
}

// Plot draws all of the trajectories that are visible in the given
// frame using d.
func (p *Plotter) Plot(f Frame, d Drawer) FrameResult {
	start := time.Now()
	p.stats = FrameStats{}
	p.maneuvers = nil

	if f.PlottingFrame == nil {
		f.PlottingFrame = BodyCentredFrame{Centre: p.system.RootIndex}
	}

	p.source.SetCamera(f.Camera)
	tanAngularResolution := f.Camera.TanAngularResolution()

	p.plotSubtree(&f, d, p.system.RootIndex, tanAngularResolution)

	if f.MainVessel != "" {
		p.plotVessels(&f, d)
	}

	p.stats.Duration = time.Since(start)
	p.metrics.Record(p.stats)
	p.lg.Debug("plotted frame", slog.Any("stats", p.stats))

	return FrameResult{Stats: p.stats, Maneuvers: p.maneuvers}
}

func (p *Plotter) plotVessels(f *Frame, d Drawer) {
	vessel := f.MainVessel

	history, err := p.source.VesselHistory(vessel, f.HistoryLength)
	p.plotLines(d, history, err, p.config.History, "history", vessel)
	prediction, err := p.source.VesselPrediction(vessel)
	p.plotLines(d, prediction, err, p.config.Prediction, "prediction", vessel)

	if target := f.TargetVessel; target != "" && target != vessel &&
		!f.PlottingFrame.TargetFrameSelected() && p.source.HasVessel(target) {
		history, err := p.source.VesselHistory(target, f.HistoryLength)
		p.plotLines(d, history, err, p.config.TargetHistory, "target history", target)
		prediction, err := p.source.VesselPrediction(target)
		p.plotLines(d, prediction, err, p.config.TargetPrediction, "target prediction", target)
	}

	if p.source.FlightPlanExists(vessel) {
		p.plotFlightPlan(d, vessel)
	}
}

// plotFlightPlan draws the segments of the vessel's flight plan, which
// alternate between coasts and burns starting with a coast. The
// trihedra of burns whose maneuvers are not anomalous are collected for
// annotation.
func (p *Plotter) plotFlightPlan(d Drawer, vessel string) {
	nSegments := p.source.FlightPlanSegmentCount(vessel)
	nManeuvers := p.source.FlightPlanManeuverCount(vessel)
	nAnomalous := p.source.FlightPlanAnomalousManeuverCount(vessel)

	for i := range nSegments {
		isBurn := i%2 == 1
		segment, err := p.source.FlightPlanSegment(vessel, i)
		p.plotLines(d, segment, err, util.Select(isBurn, p.config.Burn, p.config.FlightPlan),
			"flight plan", vessel)

		if index := i / 2; isBurn && index < nManeuvers-nAnomalous {
			t, err := p.source.ManeuverFrenetTrihedron(vessel, index)
			if err != nil {
				p.lg.Warn("maneuver trihedron unavailable", slog.String("vessel", vessel),
					slog.Int("maneuver", index), slog.Any("error", err))
				continue
			}
			p.maneuvers = append(p.maneuvers, Maneuver{Index: index, Trihedron: t})
			p.stats.Maneuvers++
		}
	}
}

func (p *Plotter) plotLines(d Drawer, lines iter.Seq[[]math.Point3f], err error, lc LineConfig,
	what string, vessel string) {
	if err != nil {
		p.stats.FailedSegments++
		p.lg.Warn(what+" unavailable", slog.String("vessel", vessel), slog.Any("error", err))
		return
	} else if lines == nil {
		return
	}

	for line := range lines {
		StyleLine(&p.scratch, line, lc.Color, lc.Style)
		p.draw(d, &p.scratch)
	}
}

// Dispose releases the Plotter's cached geometry; it must not be used
// afterward.
func (p *Plotter) Dispose() {
	p.cache.Dispose()
	p.scratch.Dispose()
}
