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

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/colorbook/persist"
)

func TestFillFlag(t *testing.T) {
	var l fillList
	for _, s := range []string{"500,500:#4ECDC4", " 10, 20:erase"} {
		if err := l.Set(s); err != nil {
			t.Fatal(err)
		}
	}
	want := fillList{{500, 500, "#4ECDC4"}, {10, 20, ""}}
	if d := cmp.Diff(want, l, cmp.AllowUnexported(fillOp{})); d != "" {
		t.Errorf("unexpected fills (-want +got):\n%s", d)
	}

	for _, bad := range []string{"500,500", "500:#fff", "a,1:#fff", "1,b:#fff"} {
		if err := l.Set(bad); err == nil {
			t.Errorf("%q: expected an error", bad)
		}
	}
}

func TestRun(t *testing.T) {
	out := filepath.Join(t.TempDir(), "page.png")
	fills := fillList{{500, 500, "#FF0000"}, {10, 10, "#00FF00"}}
	if err := run(context.Background(), "", "square", "", "", out, false, fills, 1); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	img, err := persist.DecodeImage(data)
	if err != nil {
		t.Fatal(err)
	}
	r, g, _, _ := img.At(500, 500).RGBA()
	if r != 0xffff || g != 0 {
		t.Errorf("centre not red")
	}
	if r, _, _, _ := img.At(10, 10).RGBA(); r != 0xffff {
		t.Errorf("undone fill still present")
	}
}

func TestResumeNeedsDraftDir(t *testing.T) {
	out := filepath.Join(t.TempDir(), "page.png")
	err := run(context.Background(), "", "square", "", "", out, true, nil, 0)
	if err == nil {
		t.Fatal("-resume without draft.dir succeeded")
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("output written despite the error")
	}
}

func TestUnknownTemplate(t *testing.T) {
	if _, err := loadArtwork("", "nope"); err == nil {
		t.Error("expected an error")
	}
}
