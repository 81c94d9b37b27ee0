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
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// Stroke outlines p using the stroke parameters of r and fills the
// outline with the nonzero winding rule.
//
// The outline is assembled as a union of simple polygons: one quad per
// segment, plus cap and join pieces. All pieces are given the same
// orientation, so overlaps never cancel out.
func (r *Rasterizer) Stroke(p *path.Data, emit EmitFunc) {
	r.beginEdges()

	d := r.Width / 2
	if r.Width <= 0 {
		d = 0.5 / r.deviceScale()
	}

	var current, start vec.Vec2
	drawn := false
	r.points = r.points[:0]
	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			if drawn {
				r.strokeSubpath(d, false)
			}
			current = p.Coords[k]
			start = current
			r.points = append(r.points[:0], current)
			drawn = false
			k++
		case path.CmdLineTo:
			current = p.Coords[k]
			r.points = append(r.points, current)
			drawn = true
			k++
		case path.CmdQuadTo:
			r.flattenQuadratic(current, p.Coords[k], p.Coords[k+1], r.appendPoint)
			current = p.Coords[k+1]
			drawn = true
			k += 2
		case path.CmdCubeTo:
			r.flattenCubic(current, p.Coords[k], p.Coords[k+1], p.Coords[k+2], r.appendPoint)
			current = p.Coords[k+2]
			drawn = true
			k += 3
		case path.CmdClose:
			if drawn {
				r.strokeSubpath(d, true)
			}
			current = start
			r.points = append(r.points[:0], start)
			drawn = false
		}
	}
	if drawn {
		r.strokeSubpath(d, false)
	}

	r.scan(fillNonZero, emit)
}

func (r *Rasterizer) appendPoint(_, b vec.Vec2) {
	r.points = append(r.points, b)
}

// strokeSubpath adds the outline pieces for the flattened subpath held
// in r.points. d is half the line width.
func (r *Rasterizer) strokeSubpath(d float64, closed bool) {
	pts := r.points[:1]
	for _, pt := range r.points[1:] {
		if pt.Sub(pts[len(pts)-1]).Length() > coincidentThreshold {
			pts = append(pts, pt)
		}
	}
	if closed && len(pts) > 2 && pts[0].Sub(pts[len(pts)-1]).Length() <= coincidentThreshold {
		pts = pts[:len(pts)-1]
	}

	n := len(pts)
	if n == 1 {
		r.dot(pts[0], d)
		return
	}

	segments := n - 1
	if closed {
		segments = n
	}
	for i := range segments {
		r.segment(pts[i], pts[(i+1)%n], d)
	}

	if closed {
		for i := range n {
			r.join(pts[(i+n-1)%n], pts[i], pts[(i+1)%n], d)
		}
		return
	}
	for i := 1; i < n-1; i++ {
		r.join(pts[i-1], pts[i], pts[i+1], d)
	}
	r.lineCap(pts[0], pts[1], d)
	r.lineCap(pts[n-1], pts[n-2], d)
}

// segment adds the rectangle of width 2d around a–b.
func (r *Rasterizer) segment(a, b vec.Vec2, d float64) {
	t := unit(b.Sub(a))
	n := vec.Vec2{X: -t.Y * d, Y: t.X * d}
	r.piece = append(r.piece[:0], a.Add(n), b.Add(n), b.Sub(n), a.Sub(n))
	r.addPolygon(r.piece)
}

// lineCap adds the cap at end, for a line which arrives from prev.
func (r *Rasterizer) lineCap(end, prev vec.Vec2, d float64) {
	switch r.Cap {
	case graphics.LineCapRound:
		r.disc(end, d)
	case graphics.LineCapSquare:
		t := unit(end.Sub(prev))
		n := vec.Vec2{X: -t.Y * d, Y: t.X * d}
		ext := end.Add(t.Mul(d))
		r.piece = append(r.piece[:0], end.Add(n), ext.Add(n), ext.Sub(n), end.Sub(n))
		r.addPolygon(r.piece)
	}
}

// dot handles zero-length subpaths, which are visible only for round
// and square caps.
func (r *Rasterizer) dot(p vec.Vec2, d float64) {
	switch r.Cap {
	case graphics.LineCapRound:
		r.disc(p, d)
	case graphics.LineCapSquare:
		r.piece = append(r.piece[:0],
			vec.Vec2{X: p.X - d, Y: p.Y - d},
			vec.Vec2{X: p.X + d, Y: p.Y - d},
			vec.Vec2{X: p.X + d, Y: p.Y + d},
			vec.Vec2{X: p.X - d, Y: p.Y + d})
		r.addPolygon(r.piece)
	}
}

// join fills the gap on the outer side of the corner a–p–b.
func (r *Rasterizer) join(a, p, b vec.Vec2, d float64) {
	t1 := unit(p.Sub(a))
	t2 := unit(b.Sub(p))
	cross := t1.X*t2.Y - t1.Y*t2.X
	if math.Abs(cross) < collinearityThreshold && t1.Dot(t2) > 0 {
		return
	}

	if r.Join == graphics.LineJoinRound {
		r.disc(p, d)
		return
	}

	s := 1.0
	if cross > 0 {
		s = -1
	}
	n1 := vec.Vec2{X: -t1.Y, Y: t1.X}.Mul(s)
	n2 := vec.Vec2{X: -t2.Y, Y: t2.X}.Mul(s)
	q1 := p.Add(n1.Mul(d))
	q2 := p.Add(n2.Mul(d))

	if r.Join == graphics.LineJoinMiter {
		sum := n1.Add(n2)
		l2 := sum.Dot(sum)
		if l2 > 0 && 2/math.Sqrt(l2) <= r.MiterLimit {
			tip := p.Add(sum.Mul(2 * d / l2))
			r.piece = append(r.piece[:0], p, q1, tip, q2)
			r.addPolygon(r.piece)
			return
		}
	}

	r.piece = append(r.piece[:0], p, q1, q2)
	r.addPolygon(r.piece)
}

// disc adds a regular polygon approximating the circle of radius d
// around c. The vertex count depends on the device space radius.
func (r *Rasterizer) disc(c vec.Vec2, d float64) {
	n := minCircleSegments
	if rDev := d * r.deviceScale(); rDev > r.Flatness {
		k := math.Ceil(math.Pi / math.Acos(1-r.Flatness/rDev))
		n = min(max(int(k), minCircleSegments), maxCircleSegments)
	}
	r.piece = r.piece[:0]
	for i := range n {
		phi := 2 * math.Pi * float64(i) / float64(n)
		r.piece = append(r.piece, vec.Vec2{X: c.X + d*math.Cos(phi), Y: c.Y + d*math.Sin(phi)})
	}
	r.addPolygon(r.piece)
}

// addPolygon adds the closed polygon pts, with counter-clockwise
// orientation in user space.
func (r *Rasterizer) addPolygon(pts []vec.Vec2) {
	n := len(pts)
	if n < 3 {
		return
	}
	var area float64
	for i := range n {
		a, b := pts[i], pts[(i+1)%n]
		area += a.X*b.Y - b.X*a.Y
	}
	if area == 0 {
		return
	}
	if area > 0 {
		for i := range n {
			r.addEdge(pts[i], pts[(i+1)%n])
		}
	} else {
		for i := range n {
			r.addEdge(pts[(i+1)%n], pts[i])
		}
	}
}

func unit(v vec.Vec2) vec.Vec2 {
	l := v.Length()
	if l == 0 {
		return vec.Vec2{X: 1}
	}
	return v.Mul(1 / l)
}

const (
	// coincidentThreshold is the distance below which two consecutive
	// points of a subpath are merged.
	coincidentThreshold = 1e-9

	// collinearityThreshold is the sine of the turning angle below which
	// a corner needs no join.
	collinearityThreshold = 1e-6

	minCircleSegments = 8
	maxCircleSegments = 256
)
