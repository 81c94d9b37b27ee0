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

package history

import (
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/colorbook/canvas"
	"seehuhn.de/go/colorbook/config"
)

// shade returns a 4x4 buffer filled with gray level v, so that snapshots
// can be told apart by a single pixel.
func shade(v uint8) *canvas.Buffer {
	return canvas.NewFilled(4, 4, color.NRGBA{R: v, G: v, B: v, A: 255})
}

func level(buf *canvas.Buffer) uint8 {
	return buf.NRGBAAt(0, 0).R
}

// levels pops the whole history and returns the gray levels from the top
// down, ending with the entry Undo cannot remove.
func levels(h *History) []uint8 {
	var res []uint8
	if cur := h.Current(); cur != nil {
		res = append(res, level(cur))
	}
	for {
		buf, ok := h.Undo()
		if !ok {
			return res
		}
		res = append(res, level(buf))
	}
}

func TestBound(t *testing.T) {
	for _, pin := range []bool{false, true} {
		h := New(5, pin)
		for k := range 12 {
			h.Push(shade(uint8(k)))
		}
		if got := h.Size(); got != 5 {
			t.Errorf("pin=%t: size %d, expected 5", pin, got)
		}
	}
}

func TestEviction(t *testing.T) {
	cases := []struct {
		name string
		pin  bool
		want []uint8
	}{
		{"sliding", false, []uint8{6, 5, 4, 3}},
		{"pinned", true, []uint8{6, 5, 4, 0}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h := New(4, c.pin)
			for k := range 7 {
				h.Push(shade(uint8(k)))
			}
			if d := cmp.Diff(c.want, levels(h)); d != "" {
				t.Errorf("unexpected history (-want +got):\n%s", d)
			}
			if h.Size() != 1 {
				t.Errorf("size %d after undoing everything", h.Size())
			}
		})
	}
}

func TestUndoReversibility(t *testing.T) {
	h := New(10, true)
	h.Push(shade(10))
	h.Push(shade(20))

	before := h.Current()
	h.Push(shade(30))
	got, ok := h.Undo()
	if !ok {
		t.Fatal("undo failed")
	}
	if !got.Equal(before) {
		t.Errorf("undo returned level %d, expected %d", level(got), level(before))
	}
}

func TestUndoAtBase(t *testing.T) {
	h := New(3, false)
	if _, ok := h.Undo(); ok {
		t.Error("undo on empty history succeeded")
	}
	h.Push(shade(1))
	if _, ok := h.Undo(); ok {
		t.Error("undo past the base succeeded")
	}
	if h.Size() != 1 {
		t.Errorf("size %d, expected 1", h.Size())
	}
}

func TestDeepCopy(t *testing.T) {
	h := New(3, true)
	live := shade(1)
	h.Push(live)
	live.Fill(canvas.White)
	h.Push(live)

	if got := level(h.Base()); got != 1 {
		t.Errorf("base changed to level %d", got)
	}

	restored, _ := h.Undo()
	restored.Fill(color.NRGBA{A: 255})
	if got := level(h.Current()); got != 1 {
		t.Errorf("stored snapshot changed to level %d", got)
	}
}

// TestRecycling checks that reusing evicted snapshots does not leak old
// pixel data into new entries.
func TestRecycling(t *testing.T) {
	h := New(2, false)
	for k := range 6 {
		h.Push(shade(uint8(10 * k)))
		if got := level(h.Current()); got != uint8(10*k) {
			t.Fatalf("push %d: current level %d", k, got)
		}
	}
	h.Push(canvas.NewFilled(2, 2, canvas.White))
	if cur := h.Current(); cur.Width() != 2 {
		t.Errorf("current width %d, expected 2", cur.Width())
	}
}

func TestReset(t *testing.T) {
	h := NewFromConfig(config.Default().History)
	for k := range 4 {
		h.Push(shade(uint8(k)))
	}
	h.Reset(shade(99))
	if d := cmp.Diff([]uint8{99}, levels(h)); d != "" {
		t.Errorf("unexpected history (-want +got):\n%s", d)
	}
}

func TestMinCapacity(t *testing.T) {
	h := New(0, true)
	if h.Capacity() != MinCapacity {
		t.Errorf("capacity %d, expected %d", h.Capacity(), MinCapacity)
	}
	h.Push(shade(1))
	h.Push(shade(2))
	h.Push(shade(3))
	if d := cmp.Diff([]uint8{3, 1}, levels(h)); d != "" {
		t.Errorf("unexpected history (-want +got):\n%s", d)
	}
}
