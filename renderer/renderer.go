// renderer/renderer.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"fmt"
	"log/slog"

	"github.com/mmp/trajplot/log"
)

// Also available as a global, though only used by CommandBuffer
var lg *log.Logger

// SetLogger sets the logger used for errors found while encoding command
// buffers.
func SetLogger(l *log.Logger) {
	lg = l
}

// Renderer defines an interface for executing the drawing encoded in
// CommandBuffers. TerminalRenderer is the only implementation at the
// moment; keeping the details behind this interface lets the plotting
// code stay independent of the output device.
type Renderer interface {
	// RenderCommandBuffer executes all of the commands encoded in the
	// provided command buffer, returning statistics about what was
	// rendered.
	RenderCommandBuffer(*CommandBuffer) RendererStats

	// Dispose releases resources allocated by the renderer.
	Dispose()
}

// RendererStats encapsulates assorted statistics from rendering.
type RendererStats struct {
	nBuffers, bufferBytes int
	nDrawCalls            int
	nLines, nVertices     int
}

func (rs RendererStats) DrawCalls() int { return rs.nDrawCalls }
func (rs RendererStats) Lines() int     { return rs.nLines }

func (rs *RendererStats) String() string {
	return fmt.Sprintf("%d buffers (%.2f MB), %d draw calls: %d lines, %d vertices",
		rs.nBuffers, float32(rs.bufferBytes)/(1024*1024), rs.nDrawCalls, rs.nLines, rs.nVertices)
}

func (rs *RendererStats) Merge(s RendererStats) {
	rs.nBuffers += s.nBuffers
	rs.bufferBytes += s.bufferBytes
	rs.nDrawCalls += s.nDrawCalls
	rs.nLines += s.nLines
	rs.nVertices += s.nVertices
}

func (rs RendererStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("buffers", rs.nBuffers),
		slog.Int("buffer_memory", rs.bufferBytes),
		slog.Int("draw_calls", rs.nDrawCalls),
		slog.Int("lines", rs.nLines),
		slog.Int("vertices", rs.nVertices),
	)
}
