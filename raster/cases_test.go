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

package raster

import (
	"testing"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/colorbook/testcases"
)

func render(r *Rasterizer, tc testcases.Drawing, emit EmitFunc) {
	size := float64(tc.Size)
	r.Reset(rect.Rect{URx: size, URy: size})
	if tc.Zoom != 0 {
		r.CTM = matrix.Scale(tc.Zoom, tc.Zoom)
	}
	switch {
	case tc.Pen != nil:
		r.Width = tc.Pen.Width
		r.Cap = tc.Pen.Cap
		r.Join = tc.Pen.Join
		r.Stroke(tc.Outline, emit)
	case tc.EvenOdd:
		r.FillEvenOdd(tc.Outline, emit)
	default:
		r.FillNonZero(tc.Outline, emit)
	}
}

func TestCases(t *testing.T) {
	r := NewRasterizer(rect.Rect{})
	for category, cases := range testcases.All {
		for _, tc := range cases {
			t.Run(category+"_"+tc.Name, func(t *testing.T) {
				var total float64
				render(r, tc, func(y, xMin int, coverage []float32) {
					if y < 0 || y >= tc.Size || xMin < 0 || xMin+len(coverage) > tc.Size {
						t.Fatalf("span y=%d x=%d..%d outside %dx%d",
							y, xMin, xMin+len(coverage), tc.Size, tc.Size)
					}
					for _, c := range coverage {
						if c < 0 || c > 1.0001 {
							t.Fatalf("coverage %g out of range", c)
						}
						total += float64(c)
					}
				})
				if total == 0 {
					t.Error("nothing drawn")
				}
			})
		}
	}
}

// TestMandalaScale checks that zooming scales the inked area.
func TestMandalaScale(t *testing.T) {
	var full, small testcases.Drawing
	for _, tc := range testcases.All["lineart"] {
		switch tc.Name {
		case "mandala":
			full = tc
		case "mandala_small":
			small = tc
		}
	}

	area := func(tc testcases.Drawing) float64 {
		r := NewRasterizer(rect.Rect{})
		var total float64
		render(r, tc, func(_, _ int, coverage []float32) {
			for _, c := range coverage {
				total += float64(c)
			}
		})
		return total
	}

	// the stroke width scales with the CTM, so the area scales by 1/16
	ratio := area(full) / area(small)
	if ratio < 14 || ratio > 18 {
		t.Errorf("area ratio %.2f, expected about 16", ratio)
	}
}

func BenchmarkCases(b *testing.B) {
	r := NewRasterizer(rect.Rect{})
	for category, cases := range testcases.All {
		for _, tc := range cases {
			b.Run(category+"_"+tc.Name, func(b *testing.B) {
				b.ReportAllocs()
				for b.Loop() {
					render(r, tc, func(int, int, []float32) {})
				}
			})
		}
	}
}
