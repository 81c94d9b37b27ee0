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

package testcases

import (
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

var inkPen = &Pen{
	Width: 3,
	Cap:   graphics.LineCapRound,
	Join:  graphics.LineJoinRound,
}

var lineArt = []Drawing{
	{
		Name:    "mandala",
		Outline: MandalaPath(500, 500),
		Size:    1000,
		Pen:     inkPen,
	},
	{
		Name:    "mandala_small",
		Outline: MandalaPath(500, 500),
		Size:    250,
		Zoom:    0.25,
		Pen:     inkPen,
	},
	{
		Name:    "square_outline",
		Outline: squareOutline(20, 20, 280, 280),
		Size:    300,
		Pen: &Pen{
			Width: 10,
			Cap:   graphics.LineCapButt,
			Join:  graphics.LineJoinMiter,
		},
	},
	{
		Name:    "hairline_grid",
		Outline: grid(8, 8, 248, 248, 8),
		Size:    256,
		Pen:     &Pen{Cap: graphics.LineCapButt, Join: graphics.LineJoinBevel},
	},
}

var regions = []Drawing{
	{
		Name:    "petals_nonzero",
		Outline: petals(128, 128, 25, 60, 8),
		Size:    256,
	},
	{
		Name:    "ring_evenodd",
		Outline: ring(128, 128, 60, 100),
		Size:    256,
		EvenOdd: true,
	},
}

// MandalaPath returns the outlines of the mandala coloring page, centered
// at (cx, cy) in a 1000x1000 coordinate system: an outer circle, twelve
// curved spokes, four concentric circles and eight petals.
func MandalaPath(cx, cy float64) *path.Data {
	p := &path.Data{}
	c := pt(cx, cy)

	addCircle(p, cx, cy, 380)

	for i := range 12 {
		a := float64(i) * math.Pi / 6
		p.MoveTo(c)
		p.QuadTo(c.Add(dir(a+0.2).Mul(200)), c.Add(dir(a).Mul(380)))
	}

	for _, r := range []float64{50, 100, 180, 260} {
		addCircle(p, cx, cy, r)
	}

	addPetals(p, c, 50, 120, 8)
	return p
}

func petals(cx, cy, inner, outer float64, n int) *path.Data {
	p := &path.Data{}
	addPetals(p, pt(cx, cy), inner, outer, n)
	return p
}

// addPetals adds n closed petals, each spanning the angle between two
// neighbouring rays.
func addPetals(p *path.Data, c vec.Vec2, inner, outer float64, n int) {
	step := 2 * math.Pi / float64(n)
	for i := range n {
		a := float64(i) * step
		next := a + step
		p.MoveTo(c.Add(dir(a).Mul(inner)))
		p.CubeTo(
			c.Add(dir(a).Mul(outer)),
			c.Add(dir(next).Mul(outer)),
			c.Add(dir(next).Mul(inner)))
		p.Close()
	}
}

func ring(cx, cy, r1, r2 float64) *path.Data {
	p := &path.Data{}
	addCircle(p, cx, cy, r1)
	addCircle(p, cx, cy, r2)
	return p
}

func squareOutline(x1, y1, x2, y2 float64) *path.Data {
	p := &path.Data{}
	p.MoveTo(pt(x1, y1))
	p.LineTo(pt(x2, y1))
	p.LineTo(pt(x2, y2))
	p.LineTo(pt(x1, y2))
	p.Close()
	return p
}

// grid draws n+1 horizontal and n+1 vertical lines covering the given
// rectangle.
func grid(x1, y1, x2, y2 float64, n int) *path.Data {
	p := &path.Data{}
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		x := x1 + t*(x2-x1)
		y := y1 + t*(y2-y1)
		p.MoveTo(pt(x, y1))
		p.LineTo(pt(x, y2))
		p.MoveTo(pt(x1, y))
		p.LineTo(pt(x2, y))
	}
	return p
}

// addCircle appends a closed circle made from four cubic Bézier arcs.
func addCircle(p *path.Data, cx, cy, r float64) {
	const kappa = 0.5522847498
	k := kappa * r
	p.MoveTo(pt(cx+r, cy))
	p.CubeTo(pt(cx+r, cy+k), pt(cx+k, cy+r), pt(cx, cy+r))
	p.CubeTo(pt(cx-k, cy+r), pt(cx-r, cy+k), pt(cx-r, cy))
	p.CubeTo(pt(cx-r, cy-k), pt(cx-k, cy-r), pt(cx, cy-r))
	p.CubeTo(pt(cx+k, cy-r), pt(cx+r, cy-k), pt(cx+r, cy))
	p.Close()
}

func dir(a float64) vec.Vec2 {
	return vec.Vec2{X: math.Cos(a), Y: math.Sin(a)}
}

func pt(x, y float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: y}
}
