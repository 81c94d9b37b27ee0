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

// Package svg reads the subset of SVG used for coloring book line art.
//
// Supported are the svg, g, path, rect, circle, ellipse, line, polyline
// and polygon elements, the presentation attributes for fill and stroke,
// style attributes and transforms. Other elements are skipped and
// recorded in Document.Unsupported, so that callers can decide to use a
// more complete renderer instead.
package svg

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

var (
	// ErrNotSVG is returned when the root element is not an svg element.
	ErrNotSVG = errors.New("svg: not an SVG document")

	// ErrNoSize is returned when a document has neither a viewBox nor
	// a width and height.
	ErrNoSize = errors.New("svg: document size unknown")

	// ErrSyntax indicates a malformed attribute value.
	ErrSyntax = errors.New("svg: syntax error")
)

// Shape is a single drawable element.
type Shape struct {
	Path *path.Data

	// Transform maps the shape's coordinates to viewBox coordinates.
	Transform matrix.Matrix

	Style Style
}

// Document is a parsed line art document.
type Document struct {
	// ViewBox is the region of user space which is mapped to the
	// document's viewport.
	ViewBox rect.Rect

	// Width and Height are the intrinsic dimensions of the document.
	Width, Height float64

	// Shapes in painting order.
	Shapes []Shape

	// Unsupported lists the names of elements which were skipped.
	Unsupported []string
}

// Parse reads an SVG document from r.
//
// Malformed attribute values on individual shapes do not abort parsing;
// the affected shapes are drawn as far as possible and the problems are
// returned, joined, together with the document.
func Parse(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false

	root, err := firstElement(dec)
	if err != nil {
		return nil, err
	}
	if root.Name.Local != "svg" {
		return nil, ErrNotSVG
	}

	doc := &Document{}
	if err := doc.setSize(root); err != nil {
		return nil, err
	}

	p := &parser{dec: dec, doc: doc}
	style := DefaultStyle()
	p.applyAttrs(&style, root)
	if err := p.children(style, matrix.Identity); err != nil {
		return nil, err
	}
	return doc, errors.Join(p.problems...)
}

func firstElement(dec *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return xml.StartElement{}, ErrNotSVG
		} else if err != nil {
			return xml.StartElement{}, fmt.Errorf("svg: %w", err)
		}
		if se, ok := tok.(xml.StartElement); ok {
			return se, nil
		}
	}
}

// setSize determines the viewBox and intrinsic size from the attributes
// of the root element.
func (doc *Document) setSize(root xml.StartElement) error {
	var width, height float64
	haveWidth, haveHeight := false, false
	hasViewBox := false
	for _, a := range root.Attr {
		switch a.Name.Local {
		case "width":
			width, haveWidth = parseLength(a.Value)
		case "height":
			height, haveHeight = parseLength(a.Value)
		case "viewBox":
			v, err := parseNumberList(a.Value)
			if err != nil || len(v) != 4 || v[2] <= 0 || v[3] <= 0 {
				return fmt.Errorf("%w: viewBox %q", ErrSyntax, a.Value)
			}
			doc.ViewBox = rect.Rect{LLx: v[0], LLy: v[1], URx: v[0] + v[2], URy: v[1] + v[3]}
			hasViewBox = true
		}
	}
	haveWidth = haveWidth && width > 0
	haveHeight = haveHeight && height > 0

	switch {
	case hasViewBox:
		doc.Width = doc.ViewBox.URx - doc.ViewBox.LLx
		doc.Height = doc.ViewBox.URy - doc.ViewBox.LLy
		if haveWidth && haveHeight {
			doc.Width, doc.Height = width, height
		}
	case haveWidth && haveHeight:
		doc.ViewBox = rect.Rect{URx: width, URy: height}
		doc.Width, doc.Height = width, height
	default:
		return ErrNoSize
	}
	return nil
}

type parser struct {
	dec      *xml.Decoder
	doc      *Document
	problems []error
}

// children processes the content of the current element, up to and
// including its end tag.
func (p *parser) children(style Style, ctm matrix.Matrix) error {
	for {
		tok, err := p.dec.Token()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return fmt.Errorf("svg: %w", err)
		}
		switch t := tok.(type) {
		case xml.EndElement:
			return nil
		case xml.StartElement:
			if err := p.element(t, style, ctm); err != nil {
				return err
			}
		}
	}
}

func (p *parser) element(se xml.StartElement, parent Style, parentCTM matrix.Matrix) error {
	name := se.Name.Local
	switch name {
	case "g", "svg", "a", "switch":
	case "path", "rect", "circle", "ellipse", "line", "polyline", "polygon":
	case "defs", "title", "desc", "metadata", "style", "clipPath", "mask",
		"linearGradient", "radialGradient", "pattern", "symbol", "marker", "filter":
		return p.dec.Skip()
	default:
		p.doc.Unsupported = append(p.doc.Unsupported, name)
		return p.dec.Skip()
	}

	style := parent
	// opacity is multiplied down the tree; start each element at 1
	style.Opacity = 1
	p.applyAttrs(&style, se)
	style.Opacity *= parent.Opacity

	ctm := parentCTM
	if t, ok := attr(se, "transform"); ok {
		m, err := ParseTransform(t)
		if err != nil {
			p.problems = append(p.problems, err)
		} else {
			ctm = Concat(m, parentCTM)
		}
	}

	switch name {
	case "g", "svg", "a", "switch":
		if attrIs(se, "display", "none") {
			return p.dec.Skip()
		}
		return p.children(style, ctm)
	}

	shape, err := shapePath(se)
	if err != nil {
		p.problems = append(p.problems, fmt.Errorf("%s: %w", name, err))
	}
	if shape != nil && len(shape.Cmds) > 0 && !attrIs(se, "display", "none") && !attrIs(se, "visibility", "hidden") {
		p.doc.Shapes = append(p.doc.Shapes, Shape{Path: shape, Transform: ctm, Style: style})
	}
	return p.dec.Skip()
}

// applyAttrs applies presentation attributes, followed by the style
// attribute, which takes precedence.
func (p *parser) applyAttrs(style *Style, se xml.StartElement) {
	decl := ""
	for _, a := range se.Attr {
		switch {
		case a.Name.Local == "style":
			decl = a.Value
		case styleProperties[a.Name.Local]:
			style.set(a.Name.Local, a.Value)
		}
	}
	if decl != "" {
		style.setDeclarations(decl)
	}
}

func attr(se xml.StartElement, name string) (string, bool) {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func attrIs(se xml.StartElement, name, value string) bool {
	v, ok := attr(se, name)
	return ok && strings.TrimSpace(v) == value
}

// num returns a numeric attribute, or 0 if it is missing or malformed.
func num(se xml.StartElement, name string) float64 {
	v, ok := attr(se, name)
	if !ok {
		return 0
	}
	x, _ := parseLength(v)
	return x
}

// shapePath converts a shape element to path data.
func shapePath(se xml.StartElement) (*path.Data, error) {
	switch se.Name.Local {
	case "path":
		d, _ := attr(se, "d")
		return ParsePathData(d)

	case "rect":
		x, y := num(se, "x"), num(se, "y")
		w, h := num(se, "width"), num(se, "height")
		if w <= 0 || h <= 0 {
			return nil, nil
		}
		rx, hasRx := attr(se, "rx")
		ry, hasRy := attr(se, "ry")
		var rxv, ryv float64
		if hasRx {
			rxv, _ = parseLength(rx)
		}
		if hasRy {
			ryv, _ = parseLength(ry)
		}
		if !hasRx {
			rxv = ryv
		}
		if !hasRy {
			ryv = rxv
		}
		return rectPath(x, y, w, h, min(max(rxv, 0), w/2), min(max(ryv, 0), h/2)), nil

	case "circle":
		r := num(se, "r")
		if r <= 0 {
			return nil, nil
		}
		return ellipsePath(num(se, "cx"), num(se, "cy"), r, r), nil

	case "ellipse":
		rx, ry := num(se, "rx"), num(se, "ry")
		if rx <= 0 || ry <= 0 {
			return nil, nil
		}
		return ellipsePath(num(se, "cx"), num(se, "cy"), rx, ry), nil

	case "line":
		return (&path.Data{}).
			MoveTo(vec.Vec2{X: num(se, "x1"), Y: num(se, "y1")}).
			LineTo(vec.Vec2{X: num(se, "x2"), Y: num(se, "y2")}), nil

	case "polyline", "polygon":
		pts, _ := attr(se, "points")
		v, err := parseNumberList(pts)
		if err != nil {
			return nil, fmt.Errorf("%w: points %q", ErrSyntax, pts)
		}
		if len(v) < 4 {
			return nil, nil
		}
		p := &path.Data{}
		p.MoveTo(vec.Vec2{X: v[0], Y: v[1]})
		for i := 2; i+1 < len(v); i += 2 {
			p.LineTo(vec.Vec2{X: v[i], Y: v[i+1]})
		}
		if se.Name.Local == "polygon" {
			p.Close()
		}
		return p, nil
	}
	return nil, nil
}

// kappa is the control point distance for a quarter circle of radius 1.
var kappa = 4 * (math.Sqrt2 - 1) / 3

func ellipsePath(cx, cy, rx, ry float64) *path.Data {
	kx, ky := kappa*rx, kappa*ry
	pt := func(x, y float64) vec.Vec2 { return vec.Vec2{X: x, Y: y} }
	return (&path.Data{}).
		MoveTo(pt(cx+rx, cy)).
		CubeTo(pt(cx+rx, cy+ky), pt(cx+kx, cy+ry), pt(cx, cy+ry)).
		CubeTo(pt(cx-kx, cy+ry), pt(cx-rx, cy+ky), pt(cx-rx, cy)).
		CubeTo(pt(cx-rx, cy-ky), pt(cx-kx, cy-ry), pt(cx, cy-ry)).
		CubeTo(pt(cx+kx, cy-ry), pt(cx+rx, cy-ky), pt(cx+rx, cy)).
		Close()
}

func rectPath(x, y, w, h, rx, ry float64) *path.Data {
	pt := func(x, y float64) vec.Vec2 { return vec.Vec2{X: x, Y: y} }
	p := &path.Data{}
	if rx == 0 || ry == 0 {
		return p.MoveTo(pt(x, y)).
			LineTo(pt(x+w, y)).
			LineTo(pt(x+w, y+h)).
			LineTo(pt(x, y+h)).
			Close()
	}
	kx, ky := kappa*rx, kappa*ry
	return p.MoveTo(pt(x+rx, y)).
		LineTo(pt(x+w-rx, y)).
		CubeTo(pt(x+w-rx+kx, y), pt(x+w, y+ry-ky), pt(x+w, y+ry)).
		LineTo(pt(x+w, y+h-ry)).
		CubeTo(pt(x+w, y+h-ry+ky), pt(x+w-rx+kx, y+h), pt(x+w-rx, y+h)).
		LineTo(pt(x+rx, y+h)).
		CubeTo(pt(x+rx-kx, y+h), pt(x, y+h-ry+ky), pt(x, y+h-ry)).
		LineTo(pt(x, y+ry)).
		CubeTo(pt(x, y+ry-ky), pt(x+rx-kx, y), pt(x+rx, y)).
		Close()
}
