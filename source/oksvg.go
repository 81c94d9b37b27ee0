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

package source

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"seehuhn.de/go/colorbook/canvas"
)

// drawOkSVG renders markup with the oksvg engine, which understands more
// of SVG than the native parser but keeps the document's own paints.
func (s *Rasterizer) drawOkSVG(buf *canvas.Buffer, markup []byte) (frame image.Rectangle, err error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(markup))
	if err != nil {
		return image.Rectangle{}, fmt.Errorf("oksvg: %w", err)
	}
	if !(icon.ViewBox.W > 0 && icon.ViewBox.H > 0) {
		return image.Rectangle{}, errors.New("oksvg: document has no viewBox")
	}

	frame = Letterbox(icon.ViewBox.W, icon.ViewBox.H, buf.Width())
	icon.SetTarget(float64(frame.Min.X), float64(frame.Min.Y), float64(frame.Dx()), float64(frame.Dy()))

	// SetTarget maps the path coordinates but not the stroke widths.
	scale := min(float64(frame.Dx())/icon.ViewBox.W, float64(frame.Dy())/icon.ViewBox.H)
	for i := range icon.SVGPaths {
		icon.SVGPaths[i].LineWidth *= scale
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("oksvg: %v", r)
		}
	}()
	w, h := buf.Width(), buf.Height()
	img := buf.NRGBA()
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.Draw(dasher, 1.0)
	return frame, nil
}
