// plotter/metrics.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package plotter

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exports running totals of FrameStats to Prometheus. A nil
// *Metrics may be used, in which case nothing is recorded.
type Metrics struct {
	frames        prometheus.Counter
	frameDuration prometheus.Histogram
	bodies        *prometheus.CounterVec
	draws         prometheus.Counter
	vertices      prometheus.Counter
	segments      *prometheus.CounterVec
	maneuvers     prometheus.Counter
}

// NewMetrics creates the plotter's metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trajplot_frames_total",
			Help: "Total number of frames plotted",
		}),
		frameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "trajplot_frame_duration_seconds",
			Help:    "Time spent plotting a frame",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
		}),
		bodies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trajplot_bodies_total",
			Help: "Celestial bodies considered by level-of-detail selection",
		}, []string{"result"}),
		draws: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trajplot_draw_calls_total",
			Help: "Total number of meshes drawn",
		}),
		vertices: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trajplot_vertices_total",
			Help: "Total number of trajectory vertices drawn",
		}),
		segments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trajplot_skipped_segments_total",
			Help: "Trajectory segments that were not drawn",
		}, []string{"reason"}),
		maneuvers: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trajplot_maneuvers_total",
			Help: "Total number of maneuver trihedra resolved",
		}),
	}

	reg.MustRegister(m.frames, m.frameDuration, m.bodies, m.draws, m.vertices, m.segments, m.maneuvers)

	return m
}

func (m *Metrics) Record(fs FrameStats) {
	if m == nil {
		return
	}

	m.frames.Inc()
	m.frameDuration.Observe(fs.Duration.Seconds())
	m.bodies.WithLabelValues("visited").Add(float64(fs.BodiesVisited))
	m.bodies.WithLabelValues("pruned").Add(float64(fs.BodiesPruned))
	m.draws.Add(float64(fs.DrawCalls))
	m.vertices.Add(float64(fs.Vertices))
	m.segments.WithLabelValues("empty").Add(float64(fs.EmptySegments))
	m.segments.WithLabelValues("failed").Add(float64(fs.FailedSegments))
	m.maneuvers.Add(float64(fs.Maneuvers))
}
