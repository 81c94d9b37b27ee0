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
	"image/color"

	"seehuhn.de/go/colorbook/canvas"
)

// Ink is the color used for the lines of the built-in templates.
var Ink = color.NRGBA{R: 0x1A, G: 0x1A, B: 0x1A, A: 0xFF}

// HollowSquare returns a white size x size buffer with a black square
// outline of the given side length and line thickness, centered in the
// buffer. The interior of the square is separated from the outside.
func HollowSquare(size, side, thickness int) *canvas.Buffer {
	buf := canvas.NewFilled(size, size, canvas.White)
	x0 := (size - side) / 2
	x1 := x0 + side
	black := color.NRGBA{A: 0xFF}
	for y := x0; y < x1; y++ {
		for x := x0; x < x1; x++ {
			if x < x0+thickness || x >= x1-thickness || y < x0+thickness || y >= x1-thickness {
				buf.SetNRGBA(x, y, black)
			}
		}
	}
	return buf
}
