// plotter/config.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package plotter

import (
	gomath "math"

	"github.com/mmp/trajplot/renderer"
	"github.com/mmp/trajplot/util"
)

// LineConfig specifies the appearance of one kind of trajectory.
type LineConfig struct {
	Color renderer.RGBA
	Style Style
}

type Config struct {
	History          LineConfig
	Prediction       LineConfig
	TargetHistory    LineConfig
	TargetPrediction LineConfig
	FlightPlan       LineConfig
	Burn             LineConfig

	// ReuseMeshes causes celestial trajectories to be drawn using the
	// per-body meshes in the TrajectoryCache; if false, a new mesh is
	// allocated for each of them every frame.
	ReuseMeshes bool
}

func DefaultConfig() Config {
	return Config{
		History:          LineConfig{Color: renderer.Cerise, Style: Faded},
		Prediction:       LineConfig{Color: renderer.Goldenrod, Style: Solid},
		TargetHistory:    LineConfig{Color: renderer.LightMauve, Style: Faded},
		TargetPrediction: LineConfig{Color: renderer.Orange, Style: Solid},
		FlightPlan:       LineConfig{Color: renderer.RoyalBlue, Style: Dashed},
		Burn:             LineConfig{Color: renderer.Red, Style: Solid},
		ReuseMeshes:      true,
	}
}

func (c *Config) Validate(e *util.ErrorLogger) {
	check := func(name string, lc LineConfig) {
		e.Push(name)
		defer e.Pop()

		if _, err := lc.Style.MarshalText(); err != nil {
			e.Error(err)
		}
		for _, v := range [4]float32{lc.Color.R, lc.Color.G, lc.Color.B, lc.Color.A} {
			if gomath.IsNaN(float64(v)) || v < 0 || v > 1 {
				e.ErrorString("color component %f outside [0,1]", v)
				break
			}
		}
	}

	check("History", c.History)
	check("Prediction", c.Prediction)
	check("TargetHistory", c.TargetHistory)
	check("TargetPrediction", c.TargetPrediction)
	check("FlightPlan", c.FlightPlan)
	check("Burn", c.Burn)
}
