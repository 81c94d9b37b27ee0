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

package canvas

import "image/color"

// BlendSpan composites c over row y of the buffer, starting at column xMin.
// coverage[i] in [0, 1] scales the opacity of c at column xMin+i.
// Columns outside the buffer are skipped.
//
// The signature matches the emit callback of the rasterizer, so that
//
//	r.FillNonZero(p, func(y, xMin int, cov []float32) { b.BlendSpan(y, xMin, cov, c) })
//
// paints a path directly into the buffer.
func (b *Buffer) BlendSpan(y, xMin int, coverage []float32, c color.NRGBA) {
	if y < 0 || y >= b.height || c.A == 0 {
		return
	}
	row := b.pix[y*b.width*4 : (y+1)*b.width*4]
	ca := float32(c.A) / 255
	for i, cov := range coverage {
		x := xMin + i
		if x < 0 || x >= b.width || cov <= 0 {
			continue
		}
		if cov > 1 {
			cov = 1
		}
		s := row[4*x : 4*x+4 : 4*x+4]
		a := ca * cov
		if a >= 1 {
			s[0], s[1], s[2], s[3] = c.R, c.G, c.B, 0xFF
			continue
		}

		// straight-alpha source-over
		da := float32(s[3]) / 255
		outA := a + da*(1-a)
		if outA <= 0 {
			s[0], s[1], s[2], s[3] = 0, 0, 0, 0
			continue
		}
		w := da * (1 - a)
		s[0] = blendChannel(c.R, s[0], a, w, outA)
		s[1] = blendChannel(c.G, s[1], a, w, outA)
		s[2] = blendChannel(c.B, s[2], a, w, outA)
		s[3] = uint8(outA*255 + 0.5)
	}
}

func blendChannel(src, dst uint8, a, w, outA float32) uint8 {
	v := (float32(src)*a + float32(dst)*w) / outA
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
