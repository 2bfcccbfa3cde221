// cmd/trajplot/config.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/mmp/trajplot/log"
	"github.com/mmp/trajplot/plotter"
	"github.com/mmp/trajplot/util"
)

// CurrentConfigVersion should be incremented whenever a change to Config
// requires fixing up previously saved configurations.
//
// 1: initial version
// 2: add Camera
const CurrentConfigVersion = 2

type Config struct {
	Version int

	Plotter       plotter.Config
	HistoryLength float64 // seconds

	LastScenario string
	MainVessel   string
	TargetVessel string

	Camera CameraConfig
}

// CameraConfig describes a camera orbiting the body at the center of the
// plotting frame.
type CameraConfig struct {
	Distance    float64 // meters
	Azimuth     float64 // degrees
	Elevation   float64 // degrees
	VerticalFOV float32 // degrees
}

func configFilePath(lg *log.Logger) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		lg.Errorf("Unable to find user config dir: %v", err)
		dir = "."
	}

	dir = filepath.Join(dir, "Trajplot")
	err = os.MkdirAll(dir, 0o700)
	if err != nil {
		lg.Errorf("%s: unable to make directory for config file: %v", dir, err)
	}

	return filepath.Join(dir, "config.json")
}

func (c *Config) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(c)
}

func (c *Config) Save(lg *log.Logger) error {
	lg.Infof("Saving config to: %s", configFilePath(lg))
	f, err := os.Create(configFilePath(lg))
	if err != nil {
		return err
	}
	defer f.Close()

	return c.Encode(f)
}

func getDefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Distance:    5e10,
		Elevation:   30,
		VerticalFOV: 60,
	}
}

func getDefaultConfig() *Config {
	return &Config{
		Version:       CurrentConfigVersion,
		Plotter:       plotter.DefaultConfig(),
		HistoryLength: 7 * 86400,
		Camera:        getDefaultCameraConfig(),
	}
}

func LoadOrMakeDefaultConfig(lg *log.Logger) (*Config, error) {
	fn := configFilePath(lg)
	lg.Infof("Loading config from: %s", fn)

	contents, err := os.ReadFile(fn)
	if os.IsNotExist(err) {
		return getDefaultConfig(), nil
	} else if err != nil {
		return getDefaultConfig(), err
	}

	return parseConfig(contents, lg)
}

func parseConfig(contents []byte, lg *log.Logger) (*Config, error) {
	config := getDefaultConfig()
	if err := util.UnmarshalJSON(contents, config); err != nil {
		return getDefaultConfig(), err
	}

	if config.Version < 2 {
		config.Camera = getDefaultCameraConfig()
	}
	config.Version = CurrentConfigVersion

	var e util.ErrorLogger
	e.Push("Config")
	config.Plotter.Validate(&e)
	if config.HistoryLength < 0 {
		e.ErrorString("negative history length %f", config.HistoryLength)
	}
	if config.Camera.Distance <= 0 {
		e.ErrorString("camera distance %f must be positive", config.Camera.Distance)
	}
	if config.Camera.VerticalFOV <= 0 || config.Camera.VerticalFOV >= 180 {
		e.ErrorString("camera field of view %f must be between 0 and 180 degrees", config.Camera.VerticalFOV)
	}
	e.Pop()
	if e.HaveErrors() {
		e.LogErrors(lg)
		return getDefaultConfig(), e.Err()
	}

	return config, nil
}
