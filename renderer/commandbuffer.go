// renderer/commandbuffer.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	gomath "math"
	"sync"
	"unsafe"

	"github.com/mmp/trajplot/math"
)

// The command buffer stores a series of rendering commands, represented by
// the following values. Each one is followed in the buffer by a number of
// command arguments, after which the next command follows.  Comments
// after each command briefly describe its arguments.
//
// Buffers (vertex, index, color) are all stored directly in the
// CommandBuffer, following RendererFloatBuffer and RendererIntBuffer
// commands; the first argument after those commands is the length of the
// buffer and then its values follow directly. Commands that use buffers
// refer to them via the byte offset from the start of the command buffer
// where the buffer begins, so one CommandBuffer cannot refer to a buffer
// stored in another one.

const (
	RendererClearRGBA          = iota // 4 float32: RGBA
	RendererFloatBuffer               // int32 size, then size*float32 values
	RendererIntBuffer                 // int32: size, then size*int32 values
	RendererVertexArray               // byte offset to array values, n components, stride (bytes)
	RendererDisableVertexArray        // no args
	RendererRGBA32Array               // byte offset to array values, n components, stride (bytes)
	RendererDisableColorArray         // no args
	RendererDrawLines                 // 2 int32: offset to the index buffer, count
	RendererDrawLineStrip             // 2 int32: offset to the index buffer, count
)

// CommandBuffer encodes a sequence of rendering commands in an
// API-agnostic manner; a Renderer then executes them.
type CommandBuffer struct {
	Buf []uint32
}

// CommandBuffers are managed using a sync.Pool so that their buf slice
// allocations persist across multiple uses.
var commandBufferPool = sync.Pool{New: func() any { return &CommandBuffer{} }}

func GetCommandBuffer() *CommandBuffer {
	return commandBufferPool.Get().(*CommandBuffer)
}

func ReturnCommandBuffer(cb *CommandBuffer) {
	cb.Reset()
	commandBufferPool.Put(cb)
}

// Reset resets the command buffer's length to zero so that it can be
// reused.
func (cb *CommandBuffer) Reset() {
	cb.Buf = cb.Buf[:0]
}

// growFor ensures that at least n more values can be added to the end of
// the buffer without going past its capacity.
func (cb *CommandBuffer) growFor(n int) {
	if len(cb.Buf)+n > cap(cb.Buf) {
		sz := 2 * cap(cb.Buf)
		if sz < 1024 {
			sz = 1024
		}
		if sz < len(cb.Buf)+n {
			sz = 2 * (len(cb.Buf) + n)
		}
		b := make([]uint32, len(cb.Buf), sz)
		copy(b, cb.Buf)
		cb.Buf = b
	}
}

func (cb *CommandBuffer) appendFloats(floats ...float32) {
	for _, f := range floats {
		cb.Buf = append(cb.Buf, gomath.Float32bits(f))
	}
}

func (cb *CommandBuffer) appendInts(ints ...int) {
	for _, i := range ints {
		if i != int(uint32(i)) {
			lg.Errorf("%d: attempting to add non-32-bit value to CommandBuffer", i)
		}
		cb.Buf = append(cb.Buf, uint32(i))
	}
}

// appendRaw stores n 32-bit words starting at p after a buffer header and
// returns the byte offset of the first word.
func (cb *CommandBuffer) appendRaw(cmd int, p unsafe.Pointer, n int) int {
	cb.appendInts(cmd, n)
	offset := 4 * len(cb.Buf)

	cb.growFor(n)
	start := len(cb.Buf)
	cb.Buf = cb.Buf[:start+n]
	if n > 0 {
		copy(cb.Buf[start:start+n], unsafe.Slice((*uint32)(p), n))
	}
	return offset
}

// ClearRGBA adds a command to the command buffer to clear the framebuffer
// to the specified color.
func (cb *CommandBuffer) ClearRGBA(color RGBA) {
	cb.appendInts(RendererClearRGBA)
	cb.appendFloats(color.R, color.G, color.B, color.A)
}

// Float3Buffer stores the provided points in the CommandBuffer and
// returns the byte offset where the first value of the slice is stored;
// this offset can then be passed to commands like VertexArray to specify
// this array.
func (cb *CommandBuffer) Float3Buffer(buf []math.Point3f) int {
	if len(buf) == 0 {
		return cb.appendRaw(RendererFloatBuffer, nil, 0)
	}
	return cb.appendRaw(RendererFloatBuffer, unsafe.Pointer(&buf[0]), 3*len(buf))
}

// RGBABuffer stores the provided slice of RGBA values in the command
// buffer and returns the byte offset where the first value of the slice is
// stored.
func (cb *CommandBuffer) RGBABuffer(buf []RGBA) int {
	if len(buf) == 0 {
		return cb.appendRaw(RendererFloatBuffer, nil, 0)
	}
	return cb.appendRaw(RendererFloatBuffer, unsafe.Pointer(&buf[0]), 4*len(buf))
}

// IntBuffer stores the provided slice of int32 values in the command buffer
// and returns the byte offset where the first value of the slice is stored.
func (cb *CommandBuffer) IntBuffer(buf []int32) int {
	if len(buf) == 0 {
		return cb.appendRaw(RendererIntBuffer, nil, 0)
	}
	return cb.appendRaw(RendererIntBuffer, unsafe.Pointer(&buf[0]), len(buf))
}

// VertexArray adds a command to the command buffer that specifies an array
// of vertex coordinates to use for a subsequent draw command. offset gives
// the offset into the current command buffer where the vertices begin
// (e.g., as returned by Float3Buffer), nComps is the number of components
// per vertex, and stride gives the stride in bytes between vertices.
func (cb *CommandBuffer) VertexArray(offset, nComps, stride int) {
	cb.appendInts(RendererVertexArray, offset, nComps, stride)
}

// DisableVertexArray adds a command to the command buffer to disable the
// current vertex array.
func (cb *CommandBuffer) DisableVertexArray() {
	cb.appendInts(RendererDisableVertexArray)
}

// RGBA32Array adds a command to the command buffer that specifies an
// array of float32 RGBA colors to use for a subsequent draw command. Its
// arguments are analogous to the ones passed to VertexArray.
func (cb *CommandBuffer) RGBA32Array(offset, nComps, stride int) {
	cb.appendInts(RendererRGBA32Array, offset, nComps, stride)
}

// DisableColorArray adds a command to the command buffer that disables
// the current array of per-vertex colors.
func (cb *CommandBuffer) DisableColorArray() {
	cb.appendInts(RendererDisableColorArray)
}

// DrawLines adds a command to the command buffer to draw a number of
// lines; each line is specified by two indices in the index buffer.
// offset gives the offset in the current command buffer where the index
// buffer is (e.g., as returned by IntBuffer), and count gives the total
// number of indices.
func (cb *CommandBuffer) DrawLines(offset, count int) {
	cb.appendInts(RendererDrawLines, offset, count)
}

// DrawLineStrip adds a command to draw a connected polyline through
// count indexed vertices.
func (cb *CommandBuffer) DrawLineStrip(offset, count int) {
	cb.appendInts(RendererDrawLineStrip, offset, count)
}

// DrawMesh adds the commands to draw the given mesh with its per-vertex
// colors; a mesh without a color for each vertex is drawn in white.
// Meshes with fewer than two vertices draw nothing.
func (cb *CommandBuffer) DrawMesh(m *Mesh) {
	if m.NumSegments() == 0 {
		return
	}

	p := cb.Float3Buffer(m.Vertices)
	cb.VertexArray(p, 3, 3*4)
	colored := len(m.Colors) >= len(m.Vertices)
	if colored {
		rgba := cb.RGBABuffer(m.Colors)
		cb.RGBA32Array(rgba, 4, 4*4)
	}

	indices := m.Indices()
	ind := cb.IntBuffer(indices)
	if m.Topology == Lines {
		cb.DrawLines(ind, len(indices))
	} else {
		cb.DrawLineStrip(ind, len(indices))
	}

	if colored {
		cb.DisableColorArray()
	}
	cb.DisableVertexArray()
}
