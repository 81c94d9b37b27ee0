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

package session

import (
	"context"
	"errors"
	"image/color"
	"sync"
	"testing"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/colorbook/canvas"
	"seehuhn.de/go/colorbook/fill"
	"seehuhn.de/go/colorbook/persist"
	"seehuhn.de/go/colorbook/source"
	"seehuhn.de/go/colorbook/source/templates"
)

var (
	teal = color.NRGBA{R: 0x4E, G: 0xCD, B: 0xC4, A: 0xFF}
	red  = color.NRGBA{R: 0xFF, A: 0xFF}
)

func square(t *testing.T) source.Artwork {
	t.Helper()
	tmpl, ok := templates.Lookup("square")
	if !ok {
		t.Fatal("square template missing")
	}
	return source.Artwork{ID: tmpl.ID, Markup: tmpl.Markup}
}

func open(t *testing.T, opt Options) *Session {
	t.Helper()
	s, err := Open(context.Background(), square(t), opt)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestFillAndUndo(t *testing.T) {
	s := open(t, Options{})
	pristine := s.Snapshot()
	if s.Steps() != 1 {
		t.Fatalf("steps %d, expected 1", s.Steps())
	}

	res, ok := s.FillAt(500, 500)
	if !ok || res.Outcome != fill.Filled {
		t.Fatalf("fill: %v %t", res, ok)
	}
	if got := s.Snapshot().NRGBAAt(500, 500); got != teal {
		t.Errorf("default color %v, expected %v", got, teal)
	}
	if got := s.Snapshot().NRGBAAt(10, 10); got != canvas.White {
		t.Errorf("fill leaked outside the square: %v", got)
	}

	s.SelectColor("#FF0000")
	s.FillAt(10, 10)
	if s.Steps() != 3 {
		t.Errorf("steps %d, expected 3", s.Steps())
	}

	// a fill which changes nothing is not recorded
	if res, _ := s.FillAt(10, 10); res.Outcome != fill.SameColor {
		t.Errorf("repeated fill: %v", res.Outcome)
	}
	if s.Steps() != 3 {
		t.Errorf("steps %d after no-op fill, expected 3", s.Steps())
	}

	if !s.Undo() || !s.Undo() {
		t.Fatal("undo failed")
	}
	if s.Undo() {
		t.Error("undo past the base succeeded")
	}
	if !s.Snapshot().Equal(pristine) {
		t.Error("undo did not restore the pristine page")
	}
}

func TestErase(t *testing.T) {
	s := open(t, Options{})
	s.SelectColor("#FF0000")
	s.FillAt(500, 500)

	s.SelectTool(EraseTool{})
	s.FillAt(500, 500)
	if got := s.Snapshot().NRGBAAt(500, 500); got != canvas.White {
		t.Errorf("erased pixel %v, expected white", got)
	}
	if _, ok := s.Tool().(EraseTool); !ok {
		t.Errorf("tool %T, expected EraseTool", s.Tool())
	}
}

func TestSelectMalformedColor(t *testing.T) {
	s := open(t, Options{})
	if c := s.SelectColor("not a color"); c != (color.NRGBA{A: 0xFF}) {
		t.Errorf("got %v, expected black", c)
	}
}

func TestBusy(t *testing.T) {
	s := open(t, Options{})
	s.busy.Store(true)

	if _, ok := s.FillAt(500, 500); ok {
		t.Error("fill accepted while busy")
	}
	if s.Undo() {
		t.Error("undo accepted while busy")
	}
	var serr *SaveError
	if err := s.Save(context.Background()); !errors.As(err, &serr) || !errors.Is(err, ErrBusy) {
		t.Errorf("save while busy: %v", err)
	}

	s.busy.Store(false)
	if s.Steps() != 1 {
		t.Errorf("steps %d, expected 1", s.Steps())
	}
}

func TestClick(t *testing.T) {
	s := open(t, Options{})
	s.SelectColor("#FF0000")
	screen := rect.Rect{LLx: 0, LLy: 0, URx: 500, URy: 500}

	if _, ok := s.Click(vec.Vec2{X: 600, Y: 10}, screen); ok {
		t.Error("click outside the canvas accepted")
	}

	s.Viewport().ZoomIn()
	if _, ok := s.Click(vec.Vec2{X: 250, Y: 250}, screen); !ok {
		t.Fatal("click ignored")
	}
	if got := s.Snapshot().NRGBAAt(500, 500); got != red {
		t.Errorf("centre %v, expected red", got)
	}
}

type gallery struct {
	mu    sync.Mutex
	fail  error
	saved []Creation
}

func (g *gallery) Publish(_ context.Context, c Creation) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail != nil {
		return g.fail
	}
	g.saved = append(g.saved, c)
	return nil
}

func TestSaveRetry(t *testing.T) {
	ctx := context.Background()
	g := &gallery{fail: errors.New("network down")}
	s := open(t, Options{Gallery: g})
	s.FillAt(500, 500)
	before := s.Snapshot()

	err := s.Save(ctx)
	var serr *SaveError
	if !errors.As(err, &serr) || !serr.Temporary() {
		t.Fatalf("expected a retryable SaveError, got %v", err)
	}
	if !s.Snapshot().Equal(before) {
		t.Error("failed save changed the buffer")
	}

	g.fail = nil
	if err := s.Save(ctx); err != nil {
		t.Fatal(err)
	}
	if len(g.saved) != 1 || g.saved[0].TemplateID != "square" {
		t.Fatalf("saved %v", g.saved)
	}
	img, err := persist.Decode(g.saved[0].Image)
	if err != nil {
		t.Fatal(err)
	}
	if !img.Equal(before) {
		t.Error("saved image differs from the buffer")
	}
}

func TestDraftResume(t *testing.T) {
	ctx := context.Background()
	store := persist.NewMemoryStore(1 << 20)

	s := open(t, Options{Drafts: store})
	s.FillAt(500, 500)
	want := s.Snapshot()
	if err := s.Close(ctx); err != nil {
		t.Fatal(err)
	}

	resumed := open(t, Options{Drafts: store, Resume: true})
	if !resumed.Snapshot().Equal(want) {
		t.Error("resumed session differs from the draft")
	}
	if resumed.Steps() != 1 {
		t.Errorf("steps %d, expected 1", resumed.Steps())
	}

	fresh := open(t, Options{Drafts: store})
	if fresh.Snapshot().Equal(want) {
		t.Error("session without Resume used the draft")
	}
}

func TestDraftQuota(t *testing.T) {
	ctx := context.Background()
	store := persist.NewMemoryStore(16)

	s := open(t, Options{Drafts: store})
	s.FillAt(500, 500)
	err := s.Close(ctx)
	var derr *persist.DraftError
	if !errors.As(err, &derr) || !errors.Is(err, persist.ErrQuotaExceeded) {
		t.Fatalf("expected a quota DraftError, got %v", err)
	}

	// the session stays usable
	if _, ok := s.FillAt(10, 10); !ok {
		t.Error("fill refused after quota error")
	}
}

func TestBadPrior(t *testing.T) {
	s, err := Open(context.Background(), square(t), Options{Prior: []byte("data:image/png;base64,!!!")})
	if !errors.Is(err, source.ErrDecode) {
		t.Errorf("expected ErrDecode, got %v", err)
	}
	if s == nil || s.Snapshot().Width() != 1000 {
		t.Fatal("no usable session")
	}
	if _, ok := s.FillAt(500, 500); !ok {
		t.Error("fill refused")
	}
}
