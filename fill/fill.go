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

// Package fill implements the tolerance flood fill used to color regions
// of line art.
package fill

import (
	"image/color"

	"seehuhn.de/go/colorbook/canvas"
	"seehuhn.de/go/colorbook/colormodel"
	"seehuhn.de/go/colorbook/config"
)

// Outcome describes what a call to Engine.Fill did.
type Outcome int

// These are the possible outcomes of a fill.
const (
	Filled      Outcome = iota // the region was recolored
	OutOfBounds                // the seed lies outside the buffer
	OnLine                     // the seed lies on a line of the artwork
	SameColor                  // the seed already has the fill color
)

func (o Outcome) String() string {
	switch o {
	case Filled:
		return "filled"
	case OutOfBounds:
		return "out of bounds"
	case OnLine:
		return "on line"
	case SameColor:
		return "same color"
	}
	return "unknown"
}

// Result reports the outcome of a fill.
type Result struct {
	Outcome Outcome
	Changed int // number of pixels whose value changed
}

// Modified reports whether the buffer was changed.
func (r Result) Modified() bool {
	return r.Changed > 0
}

// Engine performs flood fills. The zero value is not usable; use New.
// Internal buffers are kept between calls, so an Engine must not be used
// concurrently.
type Engine struct {
	// Tolerance is the per-channel difference, exclusive, up to which a
	// pixel counts as part of the seed's region.
	Tolerance int

	// LineThreshold marks pixels as line art if all of r, g and b are
	// below it. Fills never start on line art.
	LineThreshold int

	visited bitset
	stack   []int32
}

// New returns an Engine with the default tolerance and line threshold.
func New() *Engine {
	return &Engine{
		Tolerance:     colormodel.DefaultTolerance,
		LineThreshold: colormodel.DefaultLineThreshold,
	}
}

// NewFromConfig returns an Engine configured by cfg.
func NewFromConfig(cfg config.Fill) *Engine {
	return &Engine{
		Tolerance:     cfg.Tolerance,
		LineThreshold: cfg.LineThreshold,
	}
}

// Fill recolors the 4-connected region of pixels which match the color
// at (x, y), within the tolerance. The fill color is written fully
// opaque. Seeds outside the buffer, on line art, or on a pixel which
// already has the fill color leave the buffer unchanged.
func (e *Engine) Fill(buf *canvas.Buffer, x, y int, c color.NRGBA) Result {
	if !buf.Contains(x, y) {
		return Result{Outcome: OutOfBounds}
	}
	target := buf.NRGBAAt(x, y)
	if colormodel.IsLine(target, e.LineThreshold) {
		return Result{Outcome: OnLine}
	}
	c = colormodel.Opaque(c)
	if target == c {
		return Result{Outcome: SameColor}
	}

	w, h := buf.Width(), buf.Height()
	pix := buf.Pix()
	e.visited.reset(w * h)

	changed := 0
	seed := y*w + x
	e.visited.set(seed)
	e.stack = append(e.stack[:0], int32(seed))
	for len(e.stack) > 0 {
		i := int(e.stack[len(e.stack)-1])
		e.stack = e.stack[:len(e.stack)-1]

		p := pix[4*i : 4*i+4 : 4*i+4]
		if !colormodel.Match(color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]}, target, e.Tolerance) {
			continue
		}
		if p[0] != c.R || p[1] != c.G || p[2] != c.B || p[3] != c.A {
			p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
			changed++
		}

		px := i % w
		if px > 0 {
			e.push(i - 1)
		}
		if px < w-1 {
			e.push(i + 1)
		}
		if i >= w {
			e.push(i - w)
		}
		if i < w*(h-1) {
			e.push(i + w)
		}
	}

	return Result{Outcome: Filled, Changed: changed}
}

func (e *Engine) push(i int) {
	if e.visited.get(i) {
		return
	}
	e.visited.set(i)
	e.stack = append(e.stack, int32(i))
}

// bitset marks visited pixels, using one bit per pixel.
type bitset []uint64

func (b *bitset) reset(n int) {
	words := (n + 63) / 64
	if cap(*b) < words {
		*b = make(bitset, words)
		return
	}
	*b = (*b)[:words]
	clear(*b)
}

func (b bitset) get(i int) bool {
	return b[i>>6]&(1<<(uint(i)&63)) != 0
}

func (b bitset) set(i int) {
	b[i>>6] |= 1 << (uint(i) & 63)
}
