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

// Package colormodel implements the color conversions used by the coloring
// engine: hex strings, RGB, HSL, and the tolerance test which decides
// whether two pixels belong to the same fill region.
package colormodel

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"
)

// ErrMalformedHex is returned by ParseHex for strings which are not six hex
// digits with an optional leading '#'.
var ErrMalformedHex = errors.New("malformed hex color")

// Defaults for matching fill regions.
const (
	// DefaultTolerance is the per-channel threshold below which two colors
	// are considered equal. It is large enough to bridge the anti-aliased
	// fringe between a white region and a near-black line.
	DefaultTolerance = 50

	// DefaultLineThreshold is the channel value below which a pixel is
	// treated as part of a drawn line.
	DefaultLineThreshold = 50
)

// RGB is an opaque color with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// NRGBA returns c as an opaque color.NRGBA.
func (c RGB) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}
}

// HSL is a color in the HSL model with integer components:
// hue in degrees [0, 360), saturation and lightness in percent [0, 100].
type HSL struct {
	H, S, L int
}

// ParseHex parses a color of the form "#rrggbb" or "rrggbb".
// Hex digits may be upper or lower case.
func ParseHex(hex string) (color.NRGBA, error) {
	s := strings.TrimPrefix(hex, "#")
	if len(s) != 6 {
		return color.NRGBA{A: 0xFF}, fmt.Errorf("%q: %w", hex, ErrMalformedHex)
	}
	var v [3]uint8
	for i := range v {
		hi, ok1 := hexDigit(s[2*i])
		lo, ok2 := hexDigit(s[2*i+1])
		if !ok1 || !ok2 {
			return color.NRGBA{A: 0xFF}, fmt.Errorf("%q: %w", hex, ErrMalformedHex)
		}
		v[i] = hi<<4 | lo
	}
	return color.NRGBA{R: v[0], G: v[1], B: v[2], A: 0xFF}, nil
}

// HexToRGB converts a hex color string to RGB.
// Malformed input yields black.
func HexToRGB(hex string) RGB {
	c, err := ParseHex(hex)
	if err != nil {
		return RGB{}
	}
	return RGB{R: c.R, G: c.G, B: c.B}
}

// RGBToHex formats c as "#rrggbb" in lower case.
func RGBToHex(c RGB) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// NRGBAToHex formats the color channels of c as "#rrggbb", ignoring alpha.
func NRGBAToHex(c color.NRGBA) string {
	return RGBToHex(RGB{R: c.R, G: c.G, B: c.B})
}

// HSLToHex converts an HSL color to "#rrggbb".
// h is in degrees, s and l are percentages.
func HSLToHex(h, s, l float64) string {
	l /= 100
	a := s * math.Min(l, 1-l) / 100
	f := func(n float64) uint8 {
		k := math.Mod(n+h/30, 12)
		if k < 0 {
			k += 12
		}
		v := l - a*math.Max(math.Min(math.Min(k-3, 9-k), 1), -1)
		return clampByte(math.Round(255 * v))
	}
	return RGBToHex(RGB{R: f(0), G: f(8), B: f(4)})
}

// HexToHSL converts a hex color to HSL with rounded integer components.
// Malformed input yields {0, 0, 0}.
func HexToHSL(hex string) HSL {
	c, err := ParseHex(hex)
	if err != nil {
		return HSL{}
	}
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255

	hi := math.Max(r, math.Max(g, b))
	lo := math.Min(r, math.Min(g, b))
	var h, s float64
	l := (hi + lo) / 2

	if hi != lo {
		d := hi - lo
		if l > 0.5 {
			s = d / (2 - hi - lo)
		} else {
			s = d / (hi + lo)
		}
		switch hi {
		case r:
			h = (g - b) / d
			if g < b {
				h += 6
			}
		case g:
			h = (b-r)/d + 2
		default:
			h = (r-g)/d + 4
		}
		h /= 6
	}

	return HSL{
		H: int(math.Round(h * 360)),
		S: int(math.Round(s * 100)),
		L: int(math.Round(l * 100)),
	}
}

// Match reports whether a and b differ by less than tolerance in each of
// the red, green and blue channels. Alpha is ignored.
func Match(a, b color.NRGBA, tolerance int) bool {
	return absDiff(a.R, b.R) < tolerance &&
		absDiff(a.G, b.G) < tolerance &&
		absDiff(a.B, b.B) < tolerance
}

// IsLine reports whether all color channels of c are below threshold,
// i.e. whether c looks like part of a drawn line.
func IsLine(c color.NRGBA, threshold int) bool {
	return int(c.R) < threshold && int(c.G) < threshold && int(c.B) < threshold
}

// Opaque returns c with alpha set to 255.
func Opaque(c color.NRGBA) color.NRGBA {
	c.A = 0xFF
	return c
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func hexDigit(c byte) (uint8, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

func clampByte(x float64) uint8 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return uint8(x)
}
