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

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/multierr"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default configuration rejected: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("Validate changed the defaults (-want +got):\n%s", diff)
	}
}

func TestParse(t *testing.T) {
	doc := []byte(`
canvas:
  resolution: 800
fill:
  tolerance: 30
history:
  capacity: 25
  pinBase: false
render:
  engine: OkSVG
draft:
  delay: 250ms
  dir: /tmp/drafts
`)
	cfg, err := Parse(doc)
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	want := Default()
	want.Canvas.Resolution = 800
	want.Fill.Tolerance = 30
	want.History = History{Capacity: 25, PinBase: false}
	want.Render.Engine = EngineOkSVG
	want.Draft.Delay = 250 * time.Millisecond
	want.Draft.Dir = "/tmp/drafts"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("unexpected configuration (-want +got):\n%s", diff)
	}
}

func TestValidateResets(t *testing.T) {
	cfg := Default()
	cfg.Canvas.Background = "white"
	cfg.History.Capacity = 1
	cfg.Viewport.MinZoom = 150
	cfg.Render.Engine = "cairo"
	cfg.Draft.QuotaBytes = 0

	err := cfg.Validate()
	if got := len(multierr.Errors(err)); got != 5 {
		t.Errorf("got %d problems, want 5: %v", got, err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("invalid values not reset (-want +got):\n%s", diff)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(context.Background(), filepath.Join(dir, "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("missing file (-want +got):\n%s", diff)
	}

	fname := filepath.Join(dir, "colorbook.yaml")
	saved := Default()
	saved.Viewport = Viewport{MinZoom: 25, MaxZoom: 400, Step: 25}
	if err := saved.Save(fname); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load(context.Background(), fname)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(saved, cfg); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}

	if err := os.WriteFile(fname, []byte("canvas: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load(context.Background(), fname)
	if err == nil {
		t.Error("malformed YAML accepted")
	}
	if cfg == nil {
		t.Error("no fallback configuration")
	}
}
