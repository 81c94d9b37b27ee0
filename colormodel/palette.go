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

package colormodel

import "math"

// Swatch is a named palette entry.
type Swatch struct {
	Name  string
	Hex   string
	Erase bool // the swatch selects the eraser instead of a color
}

// DefaultColor is the color selected when a session starts.
const DefaultColor = "#4ECDC4"

// DefaultPalette lists the swatches offered next to the canvas.
var DefaultPalette = []Swatch{
	{Name: "Fresh Teal", Hex: "#13eca4"},
	{Name: "Coral Red", Hex: "#FF6B6B"},
	{Name: "Calm Turquoise", Hex: "#4ECDC4"},
	{Name: "Sunny Yellow", Hex: "#FFE66D"},
	{Name: "Deep Ocean", Hex: "#1A535C"},
	{Name: "Vibrant Orange", Hex: "#FF9F1C"},
	{Name: "Midnight", Hex: "#2E2F3E"},
	{Name: "Eraser", Hex: "#FFFFFF", Erase: true},
	{Name: "Royal Purple", Hex: "#6A0572"},
	{Name: "Dusty Rose", Hex: "#AB83A1"},
}

// Shades returns n variants of hex which keep its hue and saturation and
// step the lightness evenly from dark to light, inside [15, 90] percent.
// Shades which would pass for line art under DefaultLineThreshold are
// lightened until they do not, so that a region filled with any shade
// can still be filled again.
func Shades(hex string, n int) []string {
	if n <= 0 {
		return nil
	}
	base := HexToHSL(hex)
	const lo, hi = 15.0, 90.0
	res := make([]string, n)
	for i := range res {
		l := (lo + hi) / 2
		if n > 1 {
			l = lo + (hi-lo)*float64(i)/float64(n-1)
		}
		l = math.Round(l)
		shade := HSLToHex(float64(base.H), float64(base.S), l)
		for l < hi && IsLine(HexToRGB(shade).NRGBA(), DefaultLineThreshold) {
			l++
			shade = HSLToHex(float64(base.H), float64(base.S), l)
		}
		res[i] = shade
	}
	return res
}
