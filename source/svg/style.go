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
	"image/color"
	"strconv"
	"strings"

	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/colorbook/colormodel"
)

// Paint is the value of a fill or stroke property.
type Paint struct {
	None  bool
	Color color.NRGBA
}

// Style holds the presentation properties which apply to a shape.
type Style struct {
	Fill          Paint
	Stroke        Paint
	StrokeWidth   float64
	LineCap       graphics.LineCapStyle
	LineJoin      graphics.LineJoinStyle
	MiterLimit    float64
	EvenOdd       bool
	Opacity       float64
	FillOpacity   float64
	StrokeOpacity float64
}

// DefaultStyle returns the initial property values defined by SVG.
func DefaultStyle() Style {
	return Style{
		Fill:          Paint{Color: color.NRGBA{A: 255}},
		Stroke:        Paint{None: true},
		StrokeWidth:   1,
		LineCap:       graphics.LineCapButt,
		LineJoin:      graphics.LineJoinMiter,
		MiterLimit:    4,
		Opacity:       1,
		FillOpacity:   1,
		StrokeOpacity: 1,
	}
}

// Filled reports whether the shape has a visible fill.
func (s *Style) Filled() bool {
	return !s.Fill.None && s.Opacity*s.FillOpacity > 0
}

// Stroked reports whether the shape has a visible outline.
func (s *Style) Stroked() bool {
	return !s.Stroke.None && s.StrokeWidth > 0 && s.Opacity*s.StrokeOpacity > 0
}

// styleProperties lists the properties which may appear both as
// attributes and inside a style attribute.
var styleProperties = map[string]bool{
	"fill": true, "stroke": true, "stroke-width": true,
	"stroke-linecap": true, "stroke-linejoin": true, "stroke-miterlimit": true,
	"fill-rule": true, "opacity": true, "fill-opacity": true, "stroke-opacity": true,
}

// set applies one property. Invalid values are ignored, which leaves the
// inherited value in place.
func (s *Style) set(name, value string) {
	value = strings.TrimSpace(value)
	if value == "inherit" {
		return
	}
	switch name {
	case "fill":
		if p, ok := parsePaint(value); ok {
			s.Fill = p
		}
	case "stroke":
		if p, ok := parsePaint(value); ok {
			s.Stroke = p
		}
	case "stroke-width":
		if w, ok := parseLength(value); ok && w >= 0 {
			s.StrokeWidth = w
		}
	case "stroke-linecap":
		switch value {
		case "butt":
			s.LineCap = graphics.LineCapButt
		case "round":
			s.LineCap = graphics.LineCapRound
		case "square":
			s.LineCap = graphics.LineCapSquare
		}
	case "stroke-linejoin":
		switch value {
		case "miter", "miter-clip", "arcs":
			s.LineJoin = graphics.LineJoinMiter
		case "round":
			s.LineJoin = graphics.LineJoinRound
		case "bevel":
			s.LineJoin = graphics.LineJoinBevel
		}
	case "stroke-miterlimit":
		if m, err := strconv.ParseFloat(value, 64); err == nil && m >= 1 {
			s.MiterLimit = m
		}
	case "fill-rule":
		switch value {
		case "nonzero":
			s.EvenOdd = false
		case "evenodd":
			s.EvenOdd = true
		}
	case "opacity":
		if a, ok := parseOpacity(value); ok {
			s.Opacity *= a
		}
	case "fill-opacity":
		if a, ok := parseOpacity(value); ok {
			s.FillOpacity = a
		}
	case "stroke-opacity":
		if a, ok := parseOpacity(value); ok {
			s.StrokeOpacity = a
		}
	}
}

// setDeclarations applies the declarations of a style attribute.
func (s *Style) setDeclarations(decl string) {
	for _, d := range strings.Split(decl, ";") {
		name, value, ok := strings.Cut(d, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if styleProperties[name] {
			s.set(name, value)
		}
	}
}

func parseOpacity(s string) (float64, bool) {
	pct := strings.HasSuffix(s, "%")
	a, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0, false
	}
	if pct {
		a /= 100
	}
	return min(max(a, 0), 1), true
}

// parsePaint understands "none", hex colors in short and long form,
// rgb() notation and a small set of color keywords.
func parsePaint(s string) (Paint, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "none" || s == "transparent":
		return Paint{None: true}, true
	case strings.HasPrefix(s, "#") && len(s) == 4:
		s = string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
		fallthrough
	case strings.HasPrefix(s, "#"):
		c, err := colormodel.ParseHex(s)
		if err != nil {
			return Paint{}, false
		}
		return Paint{Color: c}, true
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		parts := strings.Split(s[4:len(s)-1], ",")
		if len(parts) != 3 {
			return Paint{}, false
		}
		var rgb [3]uint8
		for i, part := range parts {
			part = strings.TrimSpace(part)
			var v float64
			var err error
			if strings.HasSuffix(part, "%") {
				v, err = strconv.ParseFloat(part[:len(part)-1], 64)
				v = v * 255 / 100
			} else {
				v, err = strconv.ParseFloat(part, 64)
			}
			if err != nil {
				return Paint{}, false
			}
			rgb[i] = uint8(min(max(v+0.5, 0), 255))
		}
		return Paint{Color: color.NRGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}}, true
	}
	if c, ok := namedColors[s]; ok {
		return Paint{Color: c}, true
	}
	return Paint{}, false
}

var namedColors = map[string]color.NRGBA{
	"black":   {0, 0, 0, 255},
	"white":   {255, 255, 255, 255},
	"red":     {255, 0, 0, 255},
	"green":   {0, 128, 0, 255},
	"blue":    {0, 0, 255, 255},
	"yellow":  {255, 255, 0, 255},
	"orange":  {255, 165, 0, 255},
	"purple":  {128, 0, 128, 255},
	"gray":    {128, 128, 128, 255},
	"grey":    {128, 128, 128, 255},
	"silver":  {192, 192, 192, 255},
	"navy":    {0, 0, 128, 255},
	"teal":    {0, 128, 128, 255},
	"maroon":  {128, 0, 0, 255},
	"olive":   {128, 128, 0, 255},
	"lime":    {0, 255, 0, 255},
	"aqua":    {0, 255, 255, 255},
	"fuchsia": {255, 0, 255, 255},
	"pink":    {255, 192, 203, 255},
	"brown":   {165, 42, 42, 255},

	// currentColor has no context here and falls back to the initial
	// value of the color property
	"currentcolor": {0, 0, 0, 255},
}
