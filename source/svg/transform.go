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
	"strings"

	"seehuhn.de/go/geom/matrix"
)

// Concat returns the transformation which applies m first and then n.
func Concat(m, n matrix.Matrix) matrix.Matrix {
	return matrix.Matrix{
		m[0]*n[0] + m[1]*n[2],
		m[0]*n[1] + m[1]*n[3],
		m[2]*n[0] + m[3]*n[2],
		m[2]*n[1] + m[3]*n[3],
		m[4]*n[0] + m[5]*n[2] + n[4],
		m[4]*n[1] + m[5]*n[3] + n[5],
	}
}

// ParseTransform parses the value of a transform attribute. The supported
// functions are matrix, translate, scale, rotate, skewX and skewY.
// Functions are applied from right to left, as required by SVG.
func ParseTransform(s string) (matrix.Matrix, error) {
	res := matrix.Identity
	rest := strings.TrimSpace(s)
	for rest != "" {
		open := strings.IndexByte(rest, '(')
		end := strings.IndexByte(rest, ')')
		if open < 0 || end < open {
			return matrix.Identity, fmt.Errorf("%w: transform %q", ErrSyntax, s)
		}
		name := strings.TrimSpace(rest[:open])
		args, err := parseNumberList(rest[open+1 : end])
		if err != nil {
			return matrix.Identity, fmt.Errorf("%w: transform %q", ErrSyntax, s)
		}
		t, ok := transformFunc(name, args)
		if !ok {
			return matrix.Identity, fmt.Errorf("%w: transform %s%v", ErrSyntax, name, args)
		}
		res = Concat(t, res)
		rest = strings.TrimLeft(rest[end+1:], " \t\r\n,")
	}
	return res, nil
}

func transformFunc(name string, a []float64) (matrix.Matrix, bool) {
	switch {
	case name == "matrix" && len(a) == 6:
		return matrix.Matrix{a[0], a[1], a[2], a[3], a[4], a[5]}, true
	case name == "translate" && len(a) == 1:
		return matrix.Matrix{1, 0, 0, 1, a[0], 0}, true
	case name == "translate" && len(a) == 2:
		return matrix.Matrix{1, 0, 0, 1, a[0], a[1]}, true
	case name == "scale" && len(a) == 1:
		return matrix.Matrix{a[0], 0, 0, a[0], 0, 0}, true
	case name == "scale" && len(a) == 2:
		return matrix.Matrix{a[0], 0, 0, a[1], 0, 0}, true
	case name == "rotate" && (len(a) == 1 || len(a) == 3):
		sin, cos := math.Sincos(a[0] * math.Pi / 180)
		rot := matrix.Matrix{cos, sin, -sin, cos, 0, 0}
		if len(a) == 1 {
			return rot, true
		}
		cx, cy := a[1], a[2]
		m := Concat(matrix.Matrix{1, 0, 0, 1, -cx, -cy}, rot)
		return Concat(m, matrix.Matrix{1, 0, 0, 1, cx, cy}), true
	case name == "skewX" && len(a) == 1:
		return matrix.Matrix{1, 0, math.Tan(a[0] * math.Pi / 180), 1, 0, 0}, true
	case name == "skewY" && len(a) == 1:
		return matrix.Matrix{1, math.Tan(a[0] * math.Pi / 180), 0, 1, 0, 0}, true
	}
	return matrix.Identity, false
}

// parseNumberList parses numbers separated by white space and/or commas.
func parseNumberList(s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	res := make([]float64, 0, len(fields))
	for _, f := range fields {
		x, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		res = append(res, x)
	}
	return res, nil
}

// parseLength parses a length attribute. Only user units and "px" are
// understood.
func parseLength(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "px")
	x, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, false
	}
	return x, true
}
