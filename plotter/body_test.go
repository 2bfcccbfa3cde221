// plotter/body_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package plotter

import (
	gomath "math"
	"slices"
	"testing"

	"github.com/mmp/trajplot/math"
	"github.com/mmp/trajplot/renderer"
)

func TestNewSystem(t *testing.T) {
	sys, err := NewSystem([]Body{
		{Name: "Kerbin", Parent: 1, Apoapsis: 1.36e10},
		{Name: "Kerbol", Parent: NoParent},
		{Name: "Mun", Parent: 0, Apoapsis: 1.2e7},
		{Name: "Minmus", Parent: 0, Apoapsis: 4.7e7},
	})
	if err != nil {
		t.Fatalf("NewSystem: %v", err)
	}

	if sys.RootIndex != 1 || sys.Root().Name != "Kerbol" {
		t.Errorf("got root %d, expected 1", sys.RootIndex)
	}
	if !slices.Equal(sys.Bodies[0].Children, []int{2, 3}) {
		t.Errorf("got Kerbin children %v, expected [2 3]", sys.Bodies[0].Children)
	}
	if !slices.Equal(sys.Bodies[1].Children, []int{0}) {
		t.Errorf("got Kerbol children %v, expected [0]", sys.Bodies[1].Children)
	}
	if i, ok := sys.Lookup("Minmus"); !ok || i != 3 {
		t.Errorf("Lookup(Minmus) = %d, %v", i, ok)
	}
	if _, ok := sys.Lookup("Eve"); ok {
		t.Errorf("found nonexistent body")
	}
}

func TestNewSystemErrors(t *testing.T) {
	for _, tc := range []struct {
		name   string
		bodies []Body
	}{
		{"empty", nil},
		{"no root", []Body{{Name: "a", Parent: 1}, {Name: "b", Parent: 0}}},
		{"two roots", []Body{{Name: "a", Parent: NoParent}, {Name: "b", Parent: NoParent}}},
		{"parent range", []Body{{Name: "a", Parent: NoParent}, {Name: "b", Parent: 5}}},
		{"self parent", []Body{{Name: "a", Parent: NoParent}, {Name: "b", Parent: 1}}},
		{"cycle", []Body{{Name: "a", Parent: NoParent}, {Name: "b", Parent: 2}, {Name: "c", Parent: 1}}},
		{"apoapsis", []Body{{Name: "a", Parent: NoParent}, {Name: "b", Parent: 0, Apoapsis: gomath.NaN()}}},
		{"negative", []Body{{Name: "a", Parent: NoParent}, {Name: "b", Parent: 0, Apoapsis: -1}}},
	} {
		if _, err := NewSystem(tc.bodies); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestSystemSnapshot(t *testing.T) {
	c := renderer.Lime
	sys, err := NewSystem([]Body{
		{Name: "root", Parent: NoParent},
		{Name: "child", Parent: 0, Apoapsis: 10, Color: &c},
	})
	if err != nil {
		t.Fatal(err)
	}

	snap := sys.Snapshot()
	snap.Bodies[1].Position = math.Point3d{1, 2, 3}
	snap.Bodies[0].Children[0] = 17
	snap.Bodies[1].Color.R = 0.125

	if sys.Bodies[1].Position != (math.Point3d{}) {
		t.Errorf("snapshot position aliases original")
	}
	if sys.Bodies[0].Children[0] != 1 {
		t.Errorf("snapshot children alias original")
	}
	if sys.Bodies[1].Color.R != renderer.Lime.R {
		t.Errorf("snapshot color aliases original")
	}

	moved, err := sys.WithPositions([]math.Point3d{{}, {5, 0, 0}})
	if err != nil {
		t.Fatal(err)
	}
	if moved.Bodies[1].Position != (math.Point3d{5, 0, 0}) || sys.Bodies[1].Position != (math.Point3d{}) {
		t.Errorf("unexpected positions after WithPositions")
	}
	if _, err := sys.WithPositions(nil); err == nil {
		t.Errorf("expected error for mismatched positions")
	}
}
