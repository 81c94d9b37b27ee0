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
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"

	"go.uber.org/zap"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/colorbook/canvas"
	"seehuhn.de/go/colorbook/logger"
	"seehuhn.de/go/colorbook/raster"
	"seehuhn.de/go/colorbook/source/svg"
)

// errUnsupported is returned by drawNative for documents which use
// elements outside the supported subset. The supported elements have
// been drawn.
var errUnsupported = errors.New("unsupported SVG elements")

// drawNative draws markup into the letterbox frame of buf and returns
// the frame. If lineArt is set, strokes use the configured line color.
func (s *Rasterizer) drawNative(ctx context.Context, buf *canvas.Buffer, markup []byte, lineArt bool) (image.Rectangle, error) {
	doc, err := svg.Parse(bytes.NewReader(markup))
	if doc == nil {
		return image.Rectangle{}, err
	}
	if err != nil {
		logger.L(ctx).Warn("line art partly malformed", zap.Error(err))
	}

	frame := Letterbox(doc.Width, doc.Height, buf.Width())
	s.paint(buf, doc, frame, lineArt)

	if len(doc.Unsupported) > 0 {
		return frame, fmt.Errorf("%w: %s", errUnsupported, strings.Join(doc.Unsupported, ", "))
	}
	return frame, nil
}

// drawOverlay draws an overlay document into frame, keeping its paints.
func (s *Rasterizer) drawOverlay(ctx context.Context, buf *canvas.Buffer, markup []byte, frame image.Rectangle) error {
	doc, err := svg.Parse(bytes.NewReader(markup))
	if doc == nil {
		return err
	}
	if err != nil {
		logger.L(ctx).Warn("overlay partly malformed", zap.Error(err))
	}
	if frame.Empty() {
		frame = Letterbox(doc.Width, doc.Height, buf.Width())
	}
	s.paint(buf, doc, frame, false)
	return nil
}

// paint draws all shapes of doc in order, mapping the viewBox into frame.
func (s *Rasterizer) paint(buf *canvas.Buffer, doc *svg.Document, frame image.Rectangle, lineArt bool) {
	r := s.pens.Get().(*raster.Rasterizer)
	defer s.pens.Put(r)

	clip := rect.Rect{
		LLx: float64(frame.Min.X),
		LLy: float64(frame.Min.Y),
		URx: float64(frame.Max.X),
		URy: float64(frame.Max.Y),
	}
	view := viewTransform(doc.ViewBox, frame)

	for _, shape := range doc.Shapes {
		st := &shape.Style
		r.Reset(clip)
		r.CTM = svg.Concat(shape.Transform, view)

		if st.Filled() {
			c := withOpacity(st.Fill.Color, st.Opacity*st.FillOpacity)
			emit := func(y, xMin int, coverage []float32) {
				buf.BlendSpan(y, xMin, coverage, c)
			}
			if st.EvenOdd {
				r.FillEvenOdd(shape.Path, emit)
			} else {
				r.FillNonZero(shape.Path, emit)
			}
		}

		if st.Stroked() {
			c := st.Stroke.Color
			if lineArt {
				c = s.opt.LineColor
			}
			c = withOpacity(c, st.Opacity*st.StrokeOpacity)
			r.Width = st.StrokeWidth
			r.Cap = st.LineCap
			r.Join = st.LineJoin
			r.MiterLimit = st.MiterLimit
			r.Stroke(shape.Path, func(y, xMin int, coverage []float32) {
				buf.BlendSpan(y, xMin, coverage, c)
			})
		}
	}
}

// viewTransform maps vb into frame, preserving the aspect ratio and
// centering the result (preserveAspectRatio="xMidYMid meet").
func viewTransform(vb rect.Rect, frame image.Rectangle) matrix.Matrix {
	vbW, vbH := vb.URx-vb.LLx, vb.URy-vb.LLy
	fw, fh := float64(frame.Dx()), float64(frame.Dy())
	scale := min(fw/vbW, fh/vbH)
	tx := float64(frame.Min.X) + (fw-vbW*scale)/2 - vb.LLx*scale
	ty := float64(frame.Min.Y) + (fh-vbH*scale)/2 - vb.LLy*scale
	return matrix.Matrix{scale, 0, 0, scale, tx, ty}
}

func withOpacity(c color.NRGBA, opacity float64) color.NRGBA {
	c.A = uint8(float64(c.A)*min(max(opacity, 0), 1) + 0.5)
	return c
}
