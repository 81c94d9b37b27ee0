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

// Package templates holds the built-in coloring pages.
package templates

import (
	"fmt"
	"math"
	"strings"
)

// Template is a line-art coloring page.
type Template struct {
	ID     string
	Name   string
	Markup []byte
}

// All lists the built-in coloring pages.
var All = []Template{
	{ID: "mandala", Name: "Mandala", Markup: MandalaSVG()},
	{ID: "banner", Name: "Banner", Markup: []byte(bannerSVG)},
	{ID: "square", Name: "Square", Markup: []byte(squareSVG)},
}

// MandalaSVG returns the markup of the mandala coloring page: an outer
// circle, twelve curved spokes, four concentric circles and eight petals
// on a 1000x1000 page.
func MandalaSVG() []byte {
	const cx, cy = 500.0, 500.0

	b := &strings.Builder{}
	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 1000 1000">` + "\n")
	b.WriteString(`<rect width="1000" height="1000" fill="white"/>` + "\n")
	b.WriteString(`<g fill="none" stroke="#1A1A1A" stroke-width="3" stroke-linecap="round" stroke-linejoin="round">` + "\n")

	fmt.Fprintf(b, "<circle cx=\"%g\" cy=\"%g\" r=\"380\"/>\n", cx, cy)
	for i := range 12 {
		a := float64(i) * math.Pi / 6
		fmt.Fprintf(b, "<path d=\"M %g %g Q %.3f %.3f %.3f %.3f\"/>\n",
			cx, cy,
			cx+200*math.Cos(a+0.2), cy+200*math.Sin(a+0.2),
			cx+380*math.Cos(a), cy+380*math.Sin(a))
	}
	for _, r := range []float64{50, 100, 180, 260} {
		fmt.Fprintf(b, "<circle cx=\"%g\" cy=\"%g\" r=\"%g\"/>\n", cx, cy, r)
	}
	for i := range 8 {
		a := float64(i) * math.Pi / 4
		next := a + math.Pi/4
		fmt.Fprintf(b, "<path d=\"M %.3f %.3f C %.3f %.3f %.3f %.3f %.3f %.3f Z\"/>\n",
			cx+50*math.Cos(a), cy+50*math.Sin(a),
			cx+120*math.Cos(a), cy+120*math.Sin(a),
			cx+120*math.Cos(next), cy+120*math.Sin(next),
			cx+50*math.Cos(next), cy+50*math.Sin(next))
	}

	b.WriteString("</g>\n</svg>\n")
	return []byte(b.String())
}

// bannerSVG is wider than tall, so it is letterboxed vertically.
const bannerSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 200 100">
<rect width="200" height="100" fill="white" stroke="#000" stroke-width="4"/>
<ellipse cx="100" cy="50" rx="60" ry="25" fill="none" stroke="#000" stroke-width="4"/>
</svg>
`

// squareSVG is a hollow square with a 10 unit black border.
const squareSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 300 300">
<rect width="300" height="300" fill="white"/>
<rect x="25" y="25" width="250" height="250" fill="none" stroke="black" stroke-width="10"/>
</svg>
`

// Lookup returns the built-in page with the given ID.
func Lookup(id string) (Template, bool) {
	for _, t := range All {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}
