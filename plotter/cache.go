// plotter/cache.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package plotter

import (
	"github.com/mmp/trajplot/renderer"
)

// SegmentKind distinguishes the two trajectories drawn for each body.
type SegmentKind int

const (
	PastSegment SegmentKind = iota
	FutureSegment
)

func (k SegmentKind) String() string {
	switch k {
	case PastSegment:
		return "past"
	case FutureSegment:
		return "future"
	default:
		return "unknown"
	}
}

type cacheKey struct {
	body int
	kind SegmentKind
}

// TrajectoryCache holds the long-lived mesh for each (body, segment kind)
// pair. Entries are created the first time they are requested and then
// kept for the rest of the session so that their storage is reused from
// frame to frame.
type TrajectoryCache struct {
	meshes map[cacheKey]*renderer.Mesh
}

func NewTrajectoryCache() *TrajectoryCache {
	return &TrajectoryCache{meshes: make(map[cacheKey]*renderer.Mesh)}
}

// Get returns the mesh for the given body and segment, creating it if
// necessary. Repeated calls with the same arguments return the same mesh.
func (c *TrajectoryCache) Get(body int, kind SegmentKind) *renderer.Mesh {
	k := cacheKey{body: body, kind: kind}
	if m, ok := c.meshes[k]; ok {
		return m
	}
	m := &renderer.Mesh{}
	m.Reset()
	c.meshes[k] = m
	return m
}

func (c *TrajectoryCache) Len() int {
	return len(c.meshes)
}

// Dispose releases all of the cached meshes; it should only be called
// when the session ends.
func (c *TrajectoryCache) Dispose() {
	for _, m := range c.meshes {
		m.Dispose()
	}
	clear(c.meshes)
}
