// cmd/trajplot/main.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

// This file contains the implementation of the main() function, which
// loads the configuration and scenario and then plots frames either
// headless or in a terminal viewport.

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	gomath "math"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/mmp/trajplot/log"
	"github.com/mmp/trajplot/math"
	"github.com/mmp/trajplot/plotter"
	"github.com/mmp/trajplot/renderer"
	"github.com/mmp/trajplot/scenario"
	"github.com/mmp/trajplot/util"

	"github.com/apenwarr/fixconsole"
	"github.com/goforj/godump"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shirou/gopsutil/v3/cpu"
)

var (
	cpuprofile       = flag.String("cpuprofile", "", "write CPU profile to file")
	memprofile       = flag.String("memprofile", "", "write memory profile to this file")
	logLevel         = flag.String("loglevel", "info", "logging level: debug, info, warn, error")
	logDir           = flag.String("logdir", "", "log file directory")
	scenarioFilename = flag.String("scenario", "", "filename of a JSON or .msgpack.zst scenario")
	convertFilename  = flag.String("convert", "", "write the loaded scenario to this file and exit")
	numFrames        = flag.Int("frames", 60, "number of frames to plot when running headless")
	timeStep         = flag.Float64("timestep", 60, "seconds of scenario time between headless frames")
	mainVessel       = flag.String("vessel", "", "GUID of the main vessel")
	targetVessel     = flag.String("target", "", "GUID of the target vessel")
	plottingFrame    = flag.String("frame", "", "plotting frame: a body name, \"target\", or empty for the root body")
	historyLength    = flag.Float64("history", 0, "length of plotted history in seconds; 0 uses the configured value")
	runTUI           = flag.Bool("tui", false, "plot in an interactive terminal viewport")
	metricsAddress   = flag.String("metrics", "", "address to serve Prometheus metrics on, e.g. :9090")
	dumpConfig       = flag.Bool("dumpconfig", false, "print the configuration and exit")
)

func main() {
	flag.Parse()

	if err := fixconsole.FixConsoleIfNeeded(); err != nil {
		fmt.Printf("FixConsole: %v\n", err)
	}

	// Initialize the logging system first and foremost.
	lg := log.New(*logLevel, *logDir)
	defer lg.CatchAndReportCrash()

	renderer.SetLogger(lg)
	logSystemInfo(lg)

	profiler, err := util.CreateProfiler(*cpuprofile, *memprofile)
	if err != nil {
		lg.Errorf("%v", err)
	}
	defer profiler.Cleanup()

	config, err := LoadOrMakeDefaultConfig(lg)
	if err != nil {
		lg.Errorf("Error loading config: %v", err)
		fmt.Fprintf(os.Stderr, "Configuration error, using defaults: %v\n", err)
	}
	applyFlags(config)

	if *dumpConfig {
		godump.Dump(config)
		return
	}

	if config.LastScenario == "" {
		fmt.Fprintln(os.Stderr, "No scenario specified; use -scenario.")
		os.Exit(1)
	}
	sc, err := scenario.Load(config.LastScenario, lg)
	if err != nil {
		lg.Errorf("%s: %v", config.LastScenario, err)
		fmt.Fprintf(os.Stderr, "%s: %v\n", config.LastScenario, err)
		os.Exit(1)
	}

	if *convertFilename != "" {
		if err := sc.Save(*convertFilename); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", *convertFilename, err)
			os.Exit(1)
		}
		return
	}

	frame, err := parsePlottingFrame(*plottingFrame, sc.System())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	var metrics *plotter.Metrics
	if *metricsAddress != "" {
		metrics = serveMetrics(*metricsAddress, lg)
	}

	src := scenario.NewSource(sc, lg)
	p := plotter.NewPlotter(sc.System(), src, config.Plotter, metrics, lg.With(slog.String("scenario", sc.Name)))
	defer p.Dispose()

	v := &viewer{
		config:   config,
		scenario: sc,
		source:   src,
		plotter:  p,
		frame:    frame,
		lg:       lg,
	}

	if *runTUI {
		err = v.runTerminal()
	} else {
		v.runHeadless(*numFrames, *timeStep)
	}
	if err != nil {
		lg.Errorf("%v", err)
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}

	if err := config.Save(lg); err != nil {
		lg.Errorf("Error saving config: %v", err)
	}
}

func applyFlags(config *Config) {
	if *scenarioFilename != "" {
		config.LastScenario = *scenarioFilename
	}
	if *mainVessel != "" {
		config.MainVessel = *mainVessel
	}
	if *targetVessel != "" {
		config.TargetVessel = *targetVessel
	}
	if *historyLength > 0 {
		config.HistoryLength = *historyLength
	}
}

func logSystemInfo(lg *log.Logger) {
	info, err := cpu.Info()
	if err != nil {
		lg.Warnf("Unable to get CPU info: %v", err)
		return
	}
	cores, _ := cpu.Counts(false)
	threads, _ := cpu.Counts(true)
	if len(info) > 0 {
		lg.Info("system", slog.String("cpu", info[0].ModelName), slog.Int("cores", cores),
			slog.Int("threads", threads), slog.String("goos", runtime.GOOS))
	}
}

func serveMetrics(addr string, lg *log.Logger) *plotter.Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	metrics := plotter.NewMetrics(reg)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	go func() {
		lg.Infof("Serving metrics on %s", addr)
		if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Errorf("metrics server: %v", err)
		}
	}()

	return metrics
}

func parsePlottingFrame(name string, sys *plotter.System) (plotter.PlottingFrame, error) {
	switch name {
	case "":
		return plotter.BodyCentredFrame{Centre: sys.RootIndex}, nil
	case "target":
		return plotter.TargetFrame{}, nil
	default:
		if idx, ok := sys.Lookup(name); ok {
			return plotter.BodyCentredFrame{Centre: idx}, nil
		}
		return nil, fmt.Errorf("%s: %w", name, plotter.ErrNoSuchBody)
	}
}

// viewer holds the state of a plotting session.
type viewer struct {
	config   *Config
	scenario *scenario.Scenario
	source   *scenario.Source
	plotter  *plotter.Plotter
	frame    plotter.PlottingFrame
	lg       *log.Logger
}

// setTime moves the session to time t, updating the positions of the
// bodies.
func (v *viewer) setTime(t float64) {
	v.source.SetTime(t)
	sys, err := v.plotter.System().WithPositions(v.scenario.Positions(t))
	if err != nil {
		v.lg.Errorf("%v", err)
		return
	}
	v.plotter.SetSystem(sys)
}

// focus returns the world position that the camera orbits.
func (v *viewer) focus() math.Point3d {
	sys := v.plotter.System()
	switch f := v.frame.(type) {
	case plotter.BodyCentredFrame:
		return sys.Bodies[f.Centre].Position
	case plotter.TargetFrame:
		if vessel := v.scenario.Vessel(v.config.TargetVessel); vessel != nil && len(vessel.History) > 0 {
			if arc := vessel.History[len(vessel.History)-1]; len(arc) > 0 {
				return arc[len(arc)-1].P
			}
		}
	}
	return sys.Root().Position
}

func (v *viewer) camera(width, height int) renderer.Camera {
	return v.config.Camera.Camera(v.focus(), width, height)
}

func (v *viewer) plotFrame(camera renderer.Camera, d plotter.Drawer) plotter.FrameResult {
	return v.plotter.Plot(plotter.Frame{
		Camera:        camera,
		PlottingFrame: v.frame,
		MainVessel:    v.config.MainVessel,
		TargetVessel:  v.config.TargetVessel,
		HistoryLength: v.config.HistoryLength,
	}, d)
}

// runHeadless plots n frames ending at the scenario's time, logging
// statistics for each.
func (v *viewer) runHeadless(n int, step float64) {
	cb := renderer.GetCommandBuffer()
	defer renderer.ReturnCommandBuffer(cb)

	var total plotter.FrameStats
	start := time.Now()
	for i := range n {
		v.setTime(v.scenario.Time - float64(n-1-i)*step)

		cb.Reset()
		result := v.plotFrame(v.camera(1920, 1080), cb)
		total.Merge(result.Stats)

		v.lg.Info("frame", slog.Int("index", i), slog.Float64("time", v.source.Time()),
			slog.Any("stats", result.Stats), slog.Int("maneuvers", len(result.Maneuvers)),
			slog.Int("command_bytes", 4*len(cb.Buf)))
	}

	fmt.Printf("%d frames in %s: %s\n", n, time.Since(start), total)
}

// Camera returns a camera looking at focus from the configured distance
// and direction.
func (c CameraConfig) Camera(focus math.Point3d, width, height int) renderer.Camera {
	az := math.Radians(c.Azimuth)
	el := math.Radians(math.Clamp(c.Elevation, -89, 89))
	dir := math.Point3d{gomath.Cos(el) * gomath.Cos(az), gomath.Cos(el) * gomath.Sin(az), gomath.Sin(el)}
	return renderer.Camera{
		Position:    math.Add3d(focus, math.Scale3d(dir, c.Distance)),
		LookAt:      focus,
		Up:          math.Point3d{0, 0, 1},
		VerticalFOV: c.VerticalFOV,
		PixelWidth:  width,
		PixelHeight: height,
	}
}
