// math/math_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"math"
	"testing"
)

func TestTanAngularResolution(t *testing.T) {
	// Square viewport, 90 degree FOV: tan(45) = 1 over 500 pixels.
	tr := TanAngularResolution(90, 90, 1000, 1000)
	if math.Abs(tr-1.0/500) > 1e-12 {
		t.Errorf("got %g, expected %g", tr, 1.0/500)
	}

	// Wide viewport: the horizontal axis has more pixels per unit tangent
	// and so is the tighter one.
	hfov := HorizontalFOV(60, 2)
	tr = TanAngularResolution(60, hfov, 2000, 500)
	tv := math.Tan(math.Pi/6) / 250
	th := math.Tan(float64(Radians(hfov))/2) / 1000
	if expected := math.Min(tv, th); math.Abs(tr-expected) > 1e-9 {
		t.Errorf("got %g, expected %g", tr, expected)
	}
	if th >= tv {
		t.Errorf("expected horizontal axis to be tighter: th %g tv %g", th, tv)
	}
}

func TestHorizontalFOV(t *testing.T) {
	for _, test := range []struct {
		v, aspect, h float32
	}{
		{v: 90, aspect: 1, h: 90},
		{v: 60, aspect: 1, h: 60},
		{v: 90, aspect: 2, h: 126.869896},
	} {
		if h := HorizontalFOV(test.v, test.aspect); Abs(h-test.h) > 1e-3 {
			t.Errorf("HorizontalFOV(%f, %f) got %f, expected %f", test.v, test.aspect, h, test.h)
		}
	}
}

func TestVectors(t *testing.T) {
	a, b := Point3d{1, 2, 3}, Point3d{4, 6, 3}
	if d := Distance3d(a, b); d != 5 {
		t.Errorf("Distance3d got %f, expected 5", d)
	}
	if c := Cross3d(Point3d{1, 0, 0}, Point3d{0, 1, 0}); c != (Point3d{0, 0, 1}) {
		t.Errorf("Cross3d got %v, expected [0 0 1]", c)
	}
	if n := Normalize3d(Point3d{0, 0, 0}); n != (Point3d{}) {
		t.Errorf("Normalize3d of zero vector got %v", n)
	}
	if n := Normalize3d(Point3d{0, 3, 4}); math.Abs(Length3d(n)-1) > 1e-12 {
		t.Errorf("Normalize3d got length %f", Length3d(n))
	}
	if p := P3f(Point3d{1.5, -2, 1e9}); p != (Point3f{1.5, -2, 1e9}) {
		t.Errorf("P3f got %v", p)
	}
}

func TestExtent3D(t *testing.T) {
	e := EmptyExtent3D()
	if e.P0[0] <= e.P1[0] {
		t.Errorf("EmptyExtent3D %v is not degenerate", e)
	}
	if u := e.Union(Point3f{1, 2, 3}); u.P0 != u.P1 || u.P0 != (Point3f{1, 2, 3}) {
		t.Errorf("union of empty extent and a point got %v", u)
	}
	e = Extent3DFromPoints([]Point3f{{1, 2, 3}, {-1, 5, 0}, {0, 0, 10}})
	if e.P0 != (Point3f{-1, 0, 0}) || e.P1 != (Point3f{1, 5, 10}) {
		t.Errorf("got extent %v, expected [-1 0 0]-[1 5 10]", e)
	}
}
