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

// Package canvas provides the fixed-size RGBA pixel buffer which holds the
// drawing surface of a coloring session.
//
// A Buffer stores straight (non-premultiplied) 8-bit RGBA samples in
// row-major order. Its dimensions are fixed when it is created.
package canvas

import (
	"bytes"
	"errors"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"image/draw"
)

// ErrSizeMismatch is returned when two buffers of different dimensions are
// combined.
var ErrSizeMismatch = errors.New("canvas: buffer size mismatch")

// White is the base color of an untouched canvas.
var White = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

// Buffer is a width × height grid of RGBA pixels.
//
// A Buffer is not safe for concurrent use.
type Buffer struct {
	width  int
	height int
	pix    []uint8 // 4 bytes per pixel, row-major
}

// New returns a fully transparent buffer of the given size.
// Both dimensions must be positive.
func New(width, height int) *Buffer {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("canvas: invalid buffer size %dx%d", width, height))
	}
	return &Buffer{
		width:  width,
		height: height,
		pix:    make([]uint8, 4*width*height),
	}
}

// NewFilled returns a buffer of the given size with every pixel set to c.
func NewFilled(width, height int, c color.NRGBA) *Buffer {
	b := New(width, height)
	b.Fill(c)
	return b
}

// FromImage copies img into a new buffer. The result has the size of
// img's bounds and its origin at (0, 0).
func FromImage(img image.Image) *Buffer {
	r := img.Bounds()
	b := New(r.Dx(), r.Dy())
	if src, ok := img.(*image.NRGBA); ok {
		for y := range b.height {
			i := src.PixOffset(r.Min.X, r.Min.Y+y)
			copy(b.pix[y*b.width*4:(y+1)*b.width*4], src.Pix[i:i+b.width*4])
		}
		return b
	}
	draw.Draw(b.NRGBA(), b.Bounds(), img, r.Min, draw.Src)
	return b
}

// Width returns the number of pixel columns.
func (b *Buffer) Width() int {
	return b.width
}

// Height returns the number of pixel rows.
func (b *Buffer) Height() int {
	return b.height
}

// Len returns the number of pixels in the buffer.
func (b *Buffer) Len() int {
	return b.width * b.height
}

// Pix returns the raw pixel data. The slice aliases the buffer.
func (b *Buffer) Pix() []uint8 {
	return b.pix
}

// Contains reports whether (x, y) addresses a pixel of the buffer.
func (b *Buffer) Contains(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Offset returns the index of the first byte of pixel (x, y) in Pix.
func (b *Buffer) Offset(x, y int) int {
	return (y*b.width + x) * 4
}

// NRGBAAt returns the color of pixel (x, y), or the zero color if the
// coordinates are outside the buffer.
func (b *Buffer) NRGBAAt(x, y int) color.NRGBA {
	if !b.Contains(x, y) {
		return color.NRGBA{}
	}
	i := b.Offset(x, y)
	s := b.pix[i : i+4 : i+4]
	return color.NRGBA{R: s[0], G: s[1], B: s[2], A: s[3]}
}

// SetNRGBA sets pixel (x, y) to c. Coordinates outside the buffer are
// ignored.
func (b *Buffer) SetNRGBA(x, y int, c color.NRGBA) {
	if !b.Contains(x, y) {
		return
	}
	i := b.Offset(x, y)
	s := b.pix[i : i+4 : i+4]
	s[0], s[1], s[2], s[3] = c.R, c.G, c.B, c.A
}

// Fill sets every pixel to c.
func (b *Buffer) Fill(c color.NRGBA) {
	if len(b.pix) == 0 {
		return
	}
	b.pix[0], b.pix[1], b.pix[2], b.pix[3] = c.R, c.G, c.B, c.A
	for n := 4; n < len(b.pix); n *= 2 {
		copy(b.pix[n:], b.pix[:n])
	}
}

// Clone returns a deep copy of b.
func (b *Buffer) Clone() *Buffer {
	return &Buffer{
		width:  b.width,
		height: b.height,
		pix:    bytes.Clone(b.pix),
	}
}

// CopyFrom overwrites the pixels of b with those of src.
func (b *Buffer) CopyFrom(src *Buffer) error {
	if src.width != b.width || src.height != b.height {
		return fmt.Errorf("copy %dx%d into %dx%d: %w",
			src.width, src.height, b.width, b.height, ErrSizeMismatch)
	}
	copy(b.pix, src.pix)
	return nil
}

// Equal reports whether b and other have the same size and pixels.
func (b *Buffer) Equal(other *Buffer) bool {
	if b == nil || other == nil {
		return b == other
	}
	return b.width == other.width && b.height == other.height &&
		bytes.Equal(b.pix, other.pix)
}

// Checksum returns the FNV-1a hash of the buffer size and pixel data.
func (b *Buffer) Checksum() uint64 {
	h := fnv.New64a()
	var hdr [8]byte
	hdr[0], hdr[1], hdr[2], hdr[3] = byte(b.width), byte(b.width>>8), byte(b.width>>16), byte(b.width>>24)
	hdr[4], hdr[5], hdr[6], hdr[7] = byte(b.height), byte(b.height>>8), byte(b.height>>16), byte(b.height>>24)
	_, _ = h.Write(hdr[:]) // hash writes never fail
	_, _ = h.Write(b.pix)
	return h.Sum64()
}

// NRGBA returns an *image.NRGBA which shares its pixel memory with b.
func (b *Buffer) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.pix,
		Stride: 4 * b.width,
		Rect:   image.Rect(0, 0, b.width, b.height),
	}
}

// At implements the image.Image interface.
func (b *Buffer) At(x, y int) color.Color {
	return b.NRGBAAt(x, y)
}

// Bounds implements the image.Image interface.
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// ColorModel implements the image.Image interface.
func (b *Buffer) ColorModel() color.Model {
	return color.NRGBAModel
}
