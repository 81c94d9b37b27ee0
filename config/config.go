// seehuhn.de/go/colorbook - an interactive raster coloring engine
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package config holds the tunable parameters of a coloring session.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"seehuhn.de/go/colorbook/colormodel"
	"seehuhn.de/go/colorbook/logger"
)

// Rendering engines for line art.
const (
	EngineNative = "native"
	EngineOkSVG  = "oksvg"
)

// Canvas configures the working buffer.
type Canvas struct {
	Resolution int    `yaml:"resolution"` // side of the square working buffer
	Background string `yaml:"background"` // base color, also used by the eraser
}

// Fill configures the flood fill.
type Fill struct {
	Tolerance     int `yaml:"tolerance"`
	LineThreshold int `yaml:"lineThreshold"`
}

// History configures the undo stack.
type History struct {
	Capacity int  `yaml:"capacity"`
	PinBase  bool `yaml:"pinBase"`
}

// Viewport configures the zoom range, in percent.
type Viewport struct {
	MinZoom int `yaml:"minZoom"`
	MaxZoom int `yaml:"maxZoom"`
	Step    int `yaml:"step"`
}

// Render configures the line art rasterizer.
type Render struct {
	LineColor string `yaml:"lineColor"`
	Engine    string `yaml:"engine"`
	CacheSize int    `yaml:"cacheSize"`
}

// Draft configures the debounced draft checkpoints.
type Draft struct {
	Delay      time.Duration `yaml:"delay"`
	Dir        string        `yaml:"dir"` // empty means in-memory
	QuotaBytes int64         `yaml:"quotaBytes"`
}

// Config is the complete configuration.
type Config struct {
	Canvas   Canvas   `yaml:"canvas"`
	Fill     Fill     `yaml:"fill"`
	History  History  `yaml:"history"`
	Viewport Viewport `yaml:"viewport"`
	Render   Render   `yaml:"render"`
	Draft    Draft    `yaml:"draft"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Canvas: Canvas{
			Resolution: 1000,
			Background: "#ffffff",
		},
		Fill: Fill{
			Tolerance:     colormodel.DefaultTolerance,
			LineThreshold: colormodel.DefaultLineThreshold,
		},
		History: History{
			Capacity: 10,
			PinBase:  true,
		},
		Viewport: Viewport{
			MinZoom: 50,
			MaxZoom: 200,
			Step:    10,
		},
		Render: Render{
			LineColor: "#1a1a1a",
			Engine:    EngineNative,
			CacheSize: 32,
		},
		Draft: Draft{
			Delay:      500 * time.Millisecond,
			QuotaBytes: 5 << 20,
		},
	}
}

// Parse reads a YAML document. Keys which are not present keep their
// default values.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return Default(), fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Load reads the configuration file at path. A missing file yields the
// defaults. Invalid values are replaced by their defaults and reported
// as warnings.
func Load(ctx context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	} else if err != nil {
		return Default(), err
	}

	cfg, err := Parse(data)
	if err != nil {
		return cfg, err
	}
	for _, problem := range multierr.Errors(cfg.Validate()) {
		logger.L(ctx).Warn("config value replaced by default",
			zap.String("path", path), zap.Error(problem))
	}
	return cfg, nil
}

// Save writes the configuration to path in YAML format.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate replaces out-of-range values by their defaults. The returned
// error lists every replaced value; the configuration is usable either way.
func (c *Config) Validate() error {
	d := Default()
	var err error
	reset := func(field string, value any) {
		err = multierr.Append(err, fmt.Errorf("%s: invalid value %v", field, value))
	}

	if c.Canvas.Resolution < 16 || c.Canvas.Resolution > 8192 {
		reset("canvas.resolution", c.Canvas.Resolution)
		c.Canvas.Resolution = d.Canvas.Resolution
	}
	if _, e := colormodel.ParseHex(c.Canvas.Background); e != nil {
		reset("canvas.background", c.Canvas.Background)
		c.Canvas.Background = d.Canvas.Background
	}

	if c.Fill.Tolerance < 1 || c.Fill.Tolerance > 256 {
		reset("fill.tolerance", c.Fill.Tolerance)
		c.Fill.Tolerance = d.Fill.Tolerance
	}
	if c.Fill.LineThreshold < 0 || c.Fill.LineThreshold > 256 {
		reset("fill.lineThreshold", c.Fill.LineThreshold)
		c.Fill.LineThreshold = d.Fill.LineThreshold
	}

	if c.History.Capacity < 2 {
		reset("history.capacity", c.History.Capacity)
		c.History.Capacity = d.History.Capacity
	}

	v := c.Viewport
	if v.MinZoom < 1 || v.MaxZoom < v.MinZoom || v.MinZoom > 100 || v.MaxZoom < 100 || v.Step < 1 {
		reset("viewport", fmt.Sprintf("%d..%d step %d", v.MinZoom, v.MaxZoom, v.Step))
		c.Viewport = d.Viewport
	}

	if _, e := colormodel.ParseHex(c.Render.LineColor); e != nil {
		reset("render.lineColor", c.Render.LineColor)
		c.Render.LineColor = d.Render.LineColor
	}
	engine := strings.ToLower(c.Render.Engine)
	if engine != EngineNative && engine != EngineOkSVG {
		reset("render.engine", c.Render.Engine)
		engine = d.Render.Engine
	}
	c.Render.Engine = engine
	if c.Render.CacheSize < 0 {
		reset("render.cacheSize", c.Render.CacheSize)
		c.Render.CacheSize = d.Render.CacheSize
	}

	if c.Draft.Delay < 0 {
		reset("draft.delay", c.Draft.Delay)
		c.Draft.Delay = d.Draft.Delay
	}
	if strings.Contains(c.Draft.Dir, "..") {
		reset("draft.dir", c.Draft.Dir)
		c.Draft.Dir = d.Draft.Dir
	}
	if c.Draft.QuotaBytes <= 0 {
		reset("draft.quotaBytes", c.Draft.QuotaBytes)
		c.Draft.QuotaBytes = d.Draft.QuotaBytes
	}

	return err
}
