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

// Package raster converts vector paths into anti-aliased pixel coverage.
//
// The Rasterizer accumulates the signed area which each path edge
// contributes to every pixel it crosses, then integrates the result
// along each scanline. Coverage values range from 0 (outside) to 1
// (inside) and are delivered one row at a time, which lets callers
// composite directly into their own pixel buffers.
package raster

import (
	"cmp"
	"math"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// EmitFunc receives the coverage of one scanline. coverage[i] belongs to
// pixel (xMin+i, y). The slice is only valid for the duration of the call.
type EmitFunc func(y, xMin int, coverage []float32)

// edge is a non-horizontal line segment in device coordinates.
type edge struct {
	x0, y0 float64
	x1, y1 float64
	dxdy   float64 // (x1-x0)/(y1-y0)
}

func (e *edge) yMin() float64 { return min(e.y0, e.y1) }
func (e *edge) yMax() float64 { return max(e.y0, e.y1) }

func (e *edge) xAt(y float64) float64 {
	return e.x0 + e.dxdy*(y-e.y0)
}

// Rasterizer turns filled and stroked paths into coverage values.
// Create one instance and reuse it; internal buffers grow as needed
// and are kept between calls.
//
// A Rasterizer is not safe for concurrent use.
type Rasterizer struct {
	// CTM maps user space to device space. Must be non-singular.
	CTM matrix.Matrix

	// Clip bounds the output, in device coordinates.
	// Coordinates must be integer-aligned.
	Clip rect.Rect

	// Flatness is the maximal distance, in device pixels, between a curve
	// and the line segments which approximate it.
	Flatness float64

	// Width is the stroke width in user-space units. A non-positive
	// width strokes hairlines one device pixel wide.
	Width float64

	// Cap is the style used at the ends of open subpaths.
	Cap graphics.LineCapStyle

	// Join is the style used where two segments of a subpath meet.
	Join graphics.LineJoinStyle

	// MiterLimit bounds the length of miter joins relative to the stroke
	// width; sharper corners are beveled. Must be at least 1.
	MiterLimit float64

	edges     []edge
	active    []int
	cover     []float32 // per pixel change of the winding number; reused as output
	area      []float32 // per pixel signed area right of the edges
	crossings []float64

	// stroke scratch space, in user space
	points []vec.Vec2
	piece  []vec.Vec2

	bboxEmpty        bool
	devXMin, devXMax float64
	devYMin, devYMax float64
}

// NewRasterizer returns a Rasterizer for the given clip rectangle.
// Stroke parameters default to a one unit wide line with round caps and
// round joins, which suits hand-drawn line art.
func NewRasterizer(clip rect.Rect) *Rasterizer {
	return &Rasterizer{
		CTM:        matrix.Identity,
		Clip:       clip,
		Flatness:   defaultFlatness,
		Width:      1,
		Cap:        graphics.LineCapRound,
		Join:       graphics.LineJoinRound,
		MiterLimit: defaultMiterLimit,
	}
}

// Reset restores the default parameters and sets a new clip rectangle.
// Buffer capacity is retained.
func (r *Rasterizer) Reset(clip rect.Rect) {
	r.CTM = matrix.Identity
	r.Clip = clip
	r.Flatness = defaultFlatness
	r.Width = 1
	r.Cap = graphics.LineCapRound
	r.Join = graphics.LineJoinRound
	r.MiterLimit = defaultMiterLimit
	r.edges = r.edges[:0]
	r.active = r.active[:0]
}

// FillNonZero fills p using the nonzero winding rule.
func (r *Rasterizer) FillNonZero(p *path.Data, emit EmitFunc) {
	r.beginEdges()
	r.addPathEdges(p)
	r.scan(fillNonZero, emit)
}

// FillEvenOdd fills p using the even-odd rule.
func (r *Rasterizer) FillEvenOdd(p *path.Data, emit EmitFunc) {
	r.beginEdges()
	r.addPathEdges(p)
	r.scan(fillEvenOdd, emit)
}

type fillRule int

const (
	fillNonZero fillRule = iota
	fillEvenOdd
)

// addPathEdges flattens p and adds its edges. Open subpaths are closed
// implicitly, as required for filling.
func (r *Rasterizer) addPathEdges(p *path.Data) {
	var current, start vec.Vec2
	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			if current != start {
				r.addEdge(current, start)
			}
			current = p.Coords[k]
			start = current
			k++
		case path.CmdLineTo:
			r.addEdge(current, p.Coords[k])
			current = p.Coords[k]
			k++
		case path.CmdQuadTo:
			r.flattenQuadratic(current, p.Coords[k], p.Coords[k+1], r.addEdge)
			current = p.Coords[k+1]
			k += 2
		case path.CmdCubeTo:
			r.flattenCubic(current, p.Coords[k], p.Coords[k+1], p.Coords[k+2], r.addEdge)
			current = p.Coords[k+2]
			k += 3
		case path.CmdClose:
			if current != start {
				r.addEdge(current, start)
			}
			current = start
		}
	}
	if current != start {
		r.addEdge(current, start)
	}
}

func (r *Rasterizer) beginEdges() {
	r.edges = r.edges[:0]
	r.bboxEmpty = true
}

// addEdge transforms the user space segment p0–p1 to device space and
// records it. Horizontal edges do not change coverage and are dropped.
func (r *Rasterizer) addEdge(p0, p1 vec.Vec2) {
	m := r.CTM
	x0 := m[0]*p0.X + m[2]*p0.Y + m[4]
	y0 := m[1]*p0.X + m[3]*p0.Y + m[5]
	x1 := m[0]*p1.X + m[2]*p1.Y + m[4]
	y1 := m[1]*p1.X + m[3]*p1.Y + m[5]

	dy := y1 - y0
	if math.Abs(dy) < horizontalEdgeThreshold {
		return
	}
	r.edges = append(r.edges, edge{x0: x0, y0: y0, x1: x1, y1: y1, dxdy: (x1 - x0) / dy})

	if r.bboxEmpty {
		r.devXMin, r.devXMax = min(x0, x1), max(x0, x1)
		r.devYMin, r.devYMax = min(y0, y1), max(y0, y1)
		r.bboxEmpty = false
		return
	}
	r.devXMin = min(r.devXMin, x0, x1)
	r.devXMax = max(r.devXMax, x0, x1)
	r.devYMin = min(r.devYMin, y0, y1)
	r.devYMax = max(r.devYMax, y0, y1)
}

// scan integrates the collected edges scanline by scanline, using an
// active edge list, and emits the non-zero part of every row.
func (r *Rasterizer) scan(rule fillRule, emit EmitFunc) {
	if len(r.edges) == 0 {
		return
	}

	xMin := max(int(math.Floor(r.devXMin)), int(r.Clip.LLx))
	xMax := min(int(math.Floor(r.devXMax))+1, int(r.Clip.URx))
	yMin := max(int(math.Floor(r.devYMin)), int(r.Clip.LLy))
	yMax := min(int(math.Floor(r.devYMax))+1, int(r.Clip.URy))
	if xMin >= xMax || yMin >= yMax {
		return
	}

	width := xMax - xMin
	r.cover = slices.Grow(r.cover[:0], width)[:width]
	r.area = slices.Grow(r.area[:0], width)[:width]

	slices.SortFunc(r.edges, func(a, b edge) int {
		return cmp.Compare(a.yMin(), b.yMin())
	})

	r.active = r.active[:0]
	next := 0
	for y := yMin; y < yMax; y++ {
		yf, yfNext := float64(y), float64(y+1)

		for next < len(r.edges) && r.edges[next].yMin() < yfNext {
			r.active = append(r.active, next)
			next++
		}
		if len(r.active) == 0 {
			if next == len(r.edges) {
				break
			}
			continue
		}

		clear(r.cover)
		clear(r.area)
		touched := false
		for i := 0; i < len(r.active); {
			e := &r.edges[r.active[i]]
			if e.yMax() <= yf {
				r.active[i] = r.active[len(r.active)-1]
				r.active = r.active[:len(r.active)-1]
				continue
			}
			if r.accumulate(e, y, xMin, xMax) {
				touched = true
			}
			i++
		}
		if !touched {
			continue
		}

		if rule == fillNonZero {
			integrateNonZero(r.cover, r.area)
		} else {
			integrateEvenOdd(r.cover, r.area)
		}
		if row, off := trimZeros(r.cover); row != nil {
			emit(y, xMin+off, row)
		}
	}
}

// accumulate adds the contribution of e within scanline [y, y+1) to the
// cover and area buffers, which are indexed by x-xMin. An edge crossing
// several pixel columns is split where it crosses integer x values.
// Contributions left of xMin are folded into the first column.
func (r *Rasterizer) accumulate(e *edge, y, xMin, xMax int) bool {
	yTop := max(float64(y), e.yMin())
	yBot := min(float64(y+1), e.yMax())
	if yBot <= yTop {
		return false
	}
	sign := float32(1)
	if e.y1 < e.y0 {
		sign = -1
	}

	xa, xb := e.xAt(yTop), e.xAt(yBot)
	left, right := min(xa, xb), max(xa, xb)
	pixLeft := int(math.Floor(left))
	pixRight := int(math.Floor(right))

	if pixLeft >= xMax {
		return false
	}
	if pixRight < xMin || pixLeft == pixRight {
		r.deposit(pixLeft, yTop, yBot, sign, e.xAt((yTop+yBot)/2), xMin, xMax)
		return true
	}

	r.crossings = append(r.crossings[:0], yTop, yBot)
	for x := pixLeft + 1; x <= pixRight; x++ {
		yx := e.y0 + (float64(x)-e.x0)/e.dxdy
		if yx > yTop && yx < yBot {
			r.crossings = append(r.crossings, yx)
		}
	}
	slices.Sort(r.crossings)

	for i := 1; i < len(r.crossings); i++ {
		y0, y1 := r.crossings[i-1], r.crossings[i]
		if y1 <= y0 {
			continue
		}
		xMid := e.xAt((y0 + y1) / 2)
		r.deposit(int(math.Floor(xMid)), y0, y1, sign, xMid, xMin, xMax)
	}
	return true
}

// deposit records a piece of an edge which lies inside pixel column pix
// and spans [y0, y1) vertically.
func (r *Rasterizer) deposit(pix int, y0, y1 float64, sign float32, xMid float64, xMin, xMax int) {
	c := sign * float32(y1-y0)
	switch {
	case pix < xMin:
		r.cover[0] += c
		r.area[0] += c
	case pix < xMax:
		i := pix - xMin
		r.cover[i] += c
		r.area[i] += c * float32(1-(xMid-float64(pix)))
	}
}

// integrateNonZero turns accumulated cover/area values into coverage
// under the nonzero winding rule, in place.
func integrateNonZero(cover, area []float32) {
	var acc float32
	for i := range cover {
		raw := acc + area[i]
		acc += cover[i]
		if raw < 0 {
			raw = -raw
		}
		cover[i] = min(raw, 1)
	}
}

// integrateEvenOdd turns accumulated cover/area values into coverage
// under the even-odd rule, in place.
func integrateEvenOdd(cover, area []float32) {
	var acc float32
	for i := range cover {
		raw := acc + area[i]
		acc += cover[i]
		if raw < 0 {
			raw = -raw
		}
		m := raw - 2*float32(int(raw/2))
		d := 1 - m
		if d < 0 {
			d = -d
		}
		cover[i] = 1 - d
	}
}

// trimZeros returns the part of coverage between the first and last
// non-zero entries, and the offset of that part.
func trimZeros(coverage []float32) ([]float32, int) {
	lo, hi := 0, len(coverage)
	for lo < hi && coverage[lo] == 0 {
		lo++
	}
	if lo == hi {
		return nil, 0
	}
	for coverage[hi-1] == 0 {
		hi--
	}
	return coverage[lo:hi], lo
}

// deviceScale returns the factor by which the CTM scales areas, as a
// length ratio.
func (r *Rasterizer) deviceScale() float64 {
	m := r.CTM
	return math.Sqrt(math.Abs(m[0]*m[3] - m[1]*m[2]))
}

// transformLinear applies the linear part of the CTM to v.
func (r *Rasterizer) transformLinear(v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: r.CTM[0]*v.X + r.CTM[2]*v.Y,
		Y: r.CTM[1]*v.X + r.CTM[3]*v.Y,
	}
}

// flattenQuadratic approximates the quadratic Bézier curve p0, p1, p2 by
// line segments which are passed to emit. The number of segments is
// chosen so that the device space error stays below Flatness.
func (r *Rasterizer) flattenQuadratic(p0, p1, p2 vec.Vec2, emit func(a, b vec.Vec2)) {
	e := r.transformLinear(p0.Sub(p1.Mul(2)).Add(p2).Mul(0.25)).Length()
	n := 1
	if e > r.Flatness {
		n = int(math.Ceil(math.Sqrt(e / r.Flatness)))
	}
	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		pt := p0.Mul(s * s).Add(p1.Mul(2 * s * t)).Add(p2.Mul(t * t))
		emit(prev, pt)
		prev = pt
	}
}

// flattenCubic approximates the cubic Bézier curve p0, …, p3 by line
// segments, using Wang's formula for the segment count.
func (r *Rasterizer) flattenCubic(p0, p1, p2, p3 vec.Vec2, emit func(a, b vec.Vec2)) {
	d1 := r.transformLinear(p0.Sub(p1.Mul(2)).Add(p2)).Length()
	d2 := r.transformLinear(p1.Sub(p2.Mul(2)).Add(p3)).Length()
	n := 1
	if m := max(d1, d2); m > 0 {
		if f := math.Sqrt(3 * m / (4 * r.Flatness)); f > 1 {
			n = int(math.Ceil(f))
		}
	}
	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		pt := p0.Mul(s * s * s).
			Add(p1.Mul(3 * s * s * t)).
			Add(p2.Mul(3 * s * t * t)).
			Add(p3.Mul(t * t * t))
		emit(prev, pt)
		prev = pt
	}
}

const (
	// defaultFlatness is below the threshold of visual perception.
	defaultFlatness = 0.25

	// defaultMiterLimit matches PDF and SVG.
	defaultMiterLimit = 10.0

	// horizontalEdgeThreshold is the minimal vertical extent, in device
	// pixels, of an edge which contributes to coverage.
	horizontalEdgeThreshold = 1e-10
)
