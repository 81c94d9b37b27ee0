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

package svg

import (
	"fmt"
	"math"
	"strconv"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// ParsePathData converts the value of a path element's d attribute to
// path data. Arcs are converted to cubic Bézier curves. On a syntax
// error, the path up to the error is returned together with the error,
// as SVG renderers draw the valid prefix.
func ParsePathData(d string) (*path.Data, error) {
	s := &scanner{buf: d}
	p := &path.Data{}

	var cmd byte
	var cur, start, ctrl vec.Vec2 // ctrl: last control point, for S and T
	var prev byte

	for {
		s.skipSpace()
		if s.eof() {
			return p, nil
		}
		if c := s.buf[s.pos]; isCommand(c) {
			cmd = c
			s.pos++
		} else if cmd == 0 {
			return p, s.errorf("expected command")
		} else if cmd == 'Z' || cmd == 'z' {
			return p, s.errorf("unexpected number after close")
		}

		if len(p.Cmds) == 0 && cmd|0x20 != 'm' {
			return p, s.errorf("path must start with a move-to command")
		}

		rel := cmd >= 'a'
		offset := func(v vec.Vec2) vec.Vec2 {
			if rel {
				return v.Add(cur)
			}
			return v
		}

		switch cmd | 0x20 {
		case 'm':
			pt, err := s.point()
			if err != nil {
				return p, err
			}
			cur = offset(pt)
			start = cur
			p.MoveTo(cur)
			// further coordinate pairs are implicit line-to commands
			if rel {
				cmd = 'l'
			} else {
				cmd = 'L'
			}
		case 'l':
			pt, err := s.point()
			if err != nil {
				return p, err
			}
			cur = offset(pt)
			p.LineTo(cur)
		case 'h':
			x, err := s.number()
			if err != nil {
				return p, err
			}
			if rel {
				x += cur.X
			}
			cur.X = x
			p.LineTo(cur)
		case 'v':
			y, err := s.number()
			if err != nil {
				return p, err
			}
			if rel {
				y += cur.Y
			}
			cur.Y = y
			p.LineTo(cur)
		case 'c':
			pts, err := s.points(3)
			if err != nil {
				return p, err
			}
			c1, c2, end := offset(pts[0]), offset(pts[1]), offset(pts[2])
			p.CubeTo(c1, c2, end)
			ctrl, cur = c2, end
		case 's':
			pts, err := s.points(2)
			if err != nil {
				return p, err
			}
			c1 := cur
			if prev|0x20 == 'c' || prev|0x20 == 's' {
				c1 = cur.Mul(2).Sub(ctrl)
			}
			c2, end := offset(pts[0]), offset(pts[1])
			p.CubeTo(c1, c2, end)
			ctrl, cur = c2, end
		case 'q':
			pts, err := s.points(2)
			if err != nil {
				return p, err
			}
			c, end := offset(pts[0]), offset(pts[1])
			p.QuadTo(c, end)
			ctrl, cur = c, end
		case 't':
			pt, err := s.point()
			if err != nil {
				return p, err
			}
			c := cur
			if prev|0x20 == 'q' || prev|0x20 == 't' {
				c = cur.Mul(2).Sub(ctrl)
			}
			end := offset(pt)
			p.QuadTo(c, end)
			ctrl, cur = c, end
		case 'a':
			rx, err := s.number()
			if err != nil {
				return p, err
			}
			ry, err := s.number()
			if err != nil {
				return p, err
			}
			phi, err := s.number()
			if err != nil {
				return p, err
			}
			large, err := s.flag()
			if err != nil {
				return p, err
			}
			sweep, err := s.flag()
			if err != nil {
				return p, err
			}
			pt, err := s.point()
			if err != nil {
				return p, err
			}
			end := offset(pt)
			arcTo(p, cur, end, rx, ry, phi, large, sweep)
			cur = end
		case 'z':
			p.Close()
			cur = start
		}
		prev = cmd
	}
}

func isCommand(c byte) bool {
	switch c | 0x20 {
	case 'm', 'l', 'h', 'v', 'c', 's', 'q', 't', 'a', 'z':
		return true
	}
	return false
}

// arcTo appends an elliptical arc from cur to end, given in SVG endpoint
// parameterization, as a sequence of cubic Bézier curves spanning at most
// 90° each.
func arcTo(p *path.Data, cur, end vec.Vec2, rx, ry, phiDeg float64, large, sweep bool) {
	if cur == end {
		return
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 {
		p.LineTo(end)
		return
	}

	sinPhi, cosPhi := math.Sincos(phiDeg * math.Pi / 180)
	dx, dy := (cur.X-end.X)/2, (cur.Y-end.Y)/2
	x1 := cosPhi*dx + sinPhi*dy
	y1 := -sinPhi*dx + cosPhi*dy

	// enlarge radii which are too small to reach the end point
	if lambda := x1*x1/(rx*rx) + y1*y1/(ry*ry); lambda > 1 {
		f := math.Sqrt(lambda)
		rx *= f
		ry *= f
	}

	num := rx*rx*ry*ry - rx*rx*y1*y1 - ry*ry*x1*x1
	den := rx*rx*y1*y1 + ry*ry*x1*x1
	coef := math.Sqrt(max(num/den, 0))
	if large == sweep {
		coef = -coef
	}
	cxp := coef * rx * y1 / ry
	cyp := -coef * ry * x1 / rx

	cx := cosPhi*cxp - sinPhi*cyp + (cur.X+end.X)/2
	cy := sinPhi*cxp + cosPhi*cyp + (cur.Y+end.Y)/2

	theta1 := math.Atan2((y1-cyp)/ry, (x1-cxp)/rx)
	theta2 := math.Atan2((-y1-cyp)/ry, (-x1-cxp)/rx)
	delta := theta2 - theta1
	if sweep && delta < 0 {
		delta += 2 * math.Pi
	} else if !sweep && delta > 0 {
		delta -= 2 * math.Pi
	}

	n := max(int(math.Ceil(math.Abs(delta)/(math.Pi/2))), 1)
	step := delta / float64(n)
	k := 4.0 / 3 * math.Tan(step/4)

	ellipse := func(theta float64) (pt, deriv vec.Vec2) {
		sin, cos := math.Sincos(theta)
		pt = vec.Vec2{
			X: cx + rx*cos*cosPhi - ry*sin*sinPhi,
			Y: cy + rx*cos*sinPhi + ry*sin*cosPhi,
		}
		deriv = vec.Vec2{
			X: -rx*sin*cosPhi - ry*cos*sinPhi,
			Y: -rx*sin*sinPhi + ry*cos*cosPhi,
		}
		return pt, deriv
	}

	theta := theta1
	p0, d0 := ellipse(theta)
	for i := range n {
		theta += step
		p1, d1 := ellipse(theta)
		if i == n-1 {
			p1 = end
		}
		p.CubeTo(p0.Add(d0.Mul(k)), p1.Sub(d1.Mul(k)), p1)
		p0, d0 = p1, d1
	}
}

// scanner tokenizes path data and point lists.
type scanner struct {
	buf string
	pos int
}

func (s *scanner) eof() bool { return s.pos >= len(s.buf) }

func (s *scanner) skipSpace() {
	for s.pos < len(s.buf) {
		switch s.buf[s.pos] {
		case ' ', '\t', '\r', '\n', ',':
			s.pos++
		default:
			return
		}
	}
}

func (s *scanner) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: path data at offset %d: %s", ErrSyntax, s.pos, fmt.Sprintf(format, args...))
}

// number reads one number. Numbers may directly follow each other, as in
// "1.5.5" or "3-4".
func (s *scanner) number() (float64, error) {
	s.skipSpace()
	start := s.pos
	i := s.pos
	if i < len(s.buf) && (s.buf[i] == '+' || s.buf[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s.buf) && isDigit(s.buf[i]) {
		i++
		digits++
	}
	if i < len(s.buf) && s.buf[i] == '.' {
		i++
		for i < len(s.buf) && isDigit(s.buf[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0, s.errorf("expected number")
	}
	if i < len(s.buf) && (s.buf[i] == 'e' || s.buf[i] == 'E') {
		j := i + 1
		if j < len(s.buf) && (s.buf[j] == '+' || s.buf[j] == '-') {
			j++
		}
		if j < len(s.buf) && isDigit(s.buf[j]) {
			for j < len(s.buf) && isDigit(s.buf[j]) {
				j++
			}
			i = j
		}
	}
	x, err := strconv.ParseFloat(s.buf[start:i], 64)
	if err != nil {
		return 0, s.errorf("%v", err)
	}
	s.pos = i
	return x, nil
}

// flag reads an arc flag, which is a single digit 0 or 1.
func (s *scanner) flag() (bool, error) {
	s.skipSpace()
	if s.eof() {
		return false, s.errorf("expected flag")
	}
	switch s.buf[s.pos] {
	case '0':
		s.pos++
		return false, nil
	case '1':
		s.pos++
		return true, nil
	}
	return false, s.errorf("expected flag")
}

func (s *scanner) point() (vec.Vec2, error) {
	x, err := s.number()
	if err != nil {
		return vec.Vec2{}, err
	}
	y, err := s.number()
	if err != nil {
		return vec.Vec2{}, err
	}
	return vec.Vec2{X: x, Y: y}, nil
}

func (s *scanner) points(n int) ([]vec.Vec2, error) {
	res := make([]vec.Vec2, n)
	for i := range res {
		pt, err := s.point()
		if err != nil {
			return nil, err
		}
		res[i] = pt
	}
	return res, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
