// plotter/stats.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package plotter

import (
	"fmt"
	"log/slog"
	"time"
)

// FrameStats summarizes the work done to plot a single frame.
type FrameStats struct {
	BodiesVisited  int
	BodiesPruned   int
	DrawCalls      int
	Vertices       int
	EmptySegments  int
	FailedSegments int
	Maneuvers      int
	Duration       time.Duration
}

func (fs FrameStats) String() string {
	return fmt.Sprintf("%d bodies visited, %d pruned, %d draws (%d vertices), %d empty, %d failed, %d maneuvers in %s",
		fs.BodiesVisited, fs.BodiesPruned, fs.DrawCalls, fs.Vertices, fs.EmptySegments, fs.FailedSegments,
		fs.Maneuvers, fs.Duration)
}

func (fs FrameStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bodies_visited", fs.BodiesVisited),
		slog.Int("bodies_pruned", fs.BodiesPruned),
		slog.Int("draw_calls", fs.DrawCalls),
		slog.Int("vertices", fs.Vertices),
		slog.Int("empty_segments", fs.EmptySegments),
		slog.Int("failed_segments", fs.FailedSegments),
		slog.Int("maneuvers", fs.Maneuvers),
		slog.Duration("duration", fs.Duration))
}

func (fs *FrameStats) Merge(other FrameStats) {
	fs.BodiesVisited += other.BodiesVisited
	fs.BodiesPruned += other.BodiesPruned
	fs.DrawCalls += other.DrawCalls
	fs.Vertices += other.Vertices
	fs.EmptySegments += other.EmptySegments
	fs.FailedSegments += other.FailedSegments
	fs.Maneuvers += other.Maneuvers
	fs.Duration += other.Duration
}
