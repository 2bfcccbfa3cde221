// renderer/terminal.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	gomath "math"

	"github.com/mmp/trajplot/log"
	"github.com/mmp/trajplot/math"

	"github.com/gdamore/tcell/v2"
)

// TerminalRenderer rasterizes the lines in command buffers into the cells
// of a tcell Screen. Terminals can't blend, so colors are composited over
// black using their alpha before being drawn.
type TerminalRenderer struct {
	screen tcell.Screen
	camera Camera
	lg     *log.Logger
}

// terminalState is the subset of the graphics state that matters for
// drawing lines.
type terminalState struct {
	vertexOffset, vertexStride int
	colorOffset, colorStride   int
}

func NewTerminalRenderer(screen tcell.Screen, l *log.Logger) *TerminalRenderer {
	w, h := screen.Size()
	l.Infof("Starting terminal renderer, %dx%d cells", w, h)
	return &TerminalRenderer{
		screen: screen,
		camera: Camera{VerticalFOV: 60, PixelWidth: w, PixelHeight: h},
		lg:     l,
	}
}

// SetCamera sets the view used to project vertices onto the screen; its
// pixel dimensions should match the screen's size in cells.
func (t *TerminalRenderer) SetCamera(c Camera) {
	t.camera = c
}

func (t *TerminalRenderer) Screen() tcell.Screen {
	return t.screen
}

func (t *TerminalRenderer) Dispose() {
	t.screen.Fini()
}

func (t *TerminalRenderer) RenderCommandBuffer(cb *CommandBuffer) RendererStats {
	var st terminalState
	st.vertexOffset, st.colorOffset = -1, -1
	return t.render(cb, &st)
}

func (t *TerminalRenderer) render(cb *CommandBuffer, st *terminalState) RendererStats {
	var stats RendererStats
	stats.nBuffers++
	stats.bufferBytes += 4 * len(cb.Buf)

	i := 0
	ui32 := func() uint32 {
		v := cb.Buf[i]
		i++
		return v
	}
	i32 := func() int {
		return int(int32(ui32()))
	}
	float := func() float32 {
		return gomath.Float32frombits(ui32())
	}

	for i < len(cb.Buf) {
		cmd := cb.Buf[i]
		i++
		switch cmd {
		case RendererClearRGBA:
			c := RGBA{R: float(), G: float(), B: float(), A: float()}
			t.screen.Fill(' ', tcell.StyleDefault.Background(terminalColor(c)))

		case RendererFloatBuffer, RendererIntBuffer:
			// Skip past the buffer contents
			i += int(ui32())

		case RendererVertexArray:
			st.vertexOffset = i32()
			_ = i32() // n components; always 3
			st.vertexStride = i32()

		case RendererDisableVertexArray:
			st.vertexOffset = -1

		case RendererRGBA32Array:
			st.colorOffset = i32()
			_ = i32()
			st.colorStride = i32()

		case RendererDisableColorArray:
			st.colorOffset = -1

		case RendererDrawLines, RendererDrawLineStrip:
			offset := i32()
			count := i32()
			if st.vertexOffset < 0 {
				t.lg.Error("draw command issued without a vertex array")
				continue
			}

			index := func(k int) int { return int(cb.Buf[offset/4+k]) }
			step, n := 2, count/2
			if cmd == RendererDrawLineStrip {
				step, n = 1, max(count-1, 0)
			}
			for s := 0; s < n; s++ {
				i0, i1 := index(s*step), index(s*step+1)
				t.drawLine(t.vertex(cb, st, i0), t.vertex(cb, st, i1), t.color(cb, st, i0))
			}

			stats.nDrawCalls++
			stats.nLines += n
			stats.nVertices += count

		default:
			t.lg.Errorf("%d: unhandled command", cmd)
			return stats
		}
	}

	return stats
}

func (t *TerminalRenderer) vertex(cb *CommandBuffer, st *terminalState, idx int) math.Point3f {
	base := (st.vertexOffset + idx*st.vertexStride) / 4
	return math.Point3f{
		gomath.Float32frombits(cb.Buf[base]),
		gomath.Float32frombits(cb.Buf[base+1]),
		gomath.Float32frombits(cb.Buf[base+2]),
	}
}

func (t *TerminalRenderer) color(cb *CommandBuffer, st *terminalState, idx int) RGBA {
	if st.colorOffset < 0 {
		return RGBA{R: 1, G: 1, B: 1, A: 1}
	}
	base := (st.colorOffset + idx*st.colorStride) / 4
	return RGBA{
		R: gomath.Float32frombits(cb.Buf[base]),
		G: gomath.Float32frombits(cb.Buf[base+1]),
		B: gomath.Float32frombits(cb.Buf[base+2]),
		A: gomath.Float32frombits(cb.Buf[base+3]),
	}
}

// drawLine draws the segment between the projections of p0 and p1 using
// Bresenham's algorithm; segments with an endpoint behind the camera are
// skipped.
func (t *TerminalRenderer) drawLine(p0, p1 math.Point3f, c RGBA) {
	s0, ok0 := t.camera.Project(math.P3d(p0))
	s1, ok1 := t.camera.Project(math.P3d(p1))
	if !ok0 || !ok1 {
		return
	}

	w, h := t.screen.Size()
	const limit = 1 << 20 // avoid runaway loops for points far off-screen
	x0, y0 := int(math.Clamp(s0[0], -limit, limit)), int(math.Clamp(s0[1], -limit, limit))
	x1, y1 := int(math.Clamp(s1[0], -limit, limit)), int(math.Clamp(s1[1], -limit, limit))
	if (x0 < 0 && x1 < 0) || (y0 < 0 && y1 < 0) || (x0 >= w && x1 >= w) || (y0 >= h && y1 >= h) {
		return
	}

	style := tcell.StyleDefault.Foreground(terminalColor(c))
	dx, dy := math.Abs(x1-x0), -math.Abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		if x0 >= 0 && x0 < w && y0 >= 0 && y0 < h {
			t.screen.SetContent(x0, y0, '•', nil, style)
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func terminalColor(c RGBA) tcell.Color {
	rgb := c.Premultiplied()
	return tcell.NewRGBColor(int32(255*rgb.R), int32(255*rgb.G), int32(255*rgb.B))
}
