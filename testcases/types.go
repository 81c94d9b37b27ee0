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

// Package testcases provides artwork and canvas fixtures shared by the
// tests and benchmarks of the other packages.
package testcases

import (
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/pdf/graphics"
)

// Drawing is a piece of line art on a square canvas.
type Drawing struct {
	Name    string     // lowercase a-z and _ only
	Outline *path.Data // in canvas coordinates before Zoom is applied
	Size    int        // the canvas is Size x Size pixels
	Zoom    float64    // uniform scale applied to Outline; 0 means 1

	// Pen inks the outline. If Pen is nil, the outline is filled as a
	// region instead, using the even-odd rule if EvenOdd is set.
	Pen     *Pen
	EvenOdd bool
}

// Pen describes how the lines of a drawing are inked.
type Pen struct {
	Width float64 // 0 draws hairlines
	Cap   graphics.LineCapStyle
	Join  graphics.LineJoinStyle
}
