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

import (
	"errors"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHexToRGB(t *testing.T) {
	cases := []struct {
		in   string
		want RGB
	}{
		{"#4ECDC4", RGB{78, 205, 196}},
		{"4ecdc4", RGB{78, 205, 196}},
		{"#FFFFFF", RGB{255, 255, 255}},
		{"#fff", RGB{}},
		{"#12345g", RGB{}},
		{"", RGB{}},
	}
	for _, c := range cases {
		if got := HexToRGB(c.in); got != c.want {
			t.Errorf("%q: got %v, expected %v", c.in, got, c.want)
		}
	}

	if _, err := ParseHex("#xyz"); !errors.Is(err, ErrMalformedHex) {
		t.Errorf("expected ErrMalformedHex, got %v", err)
	}
}

func TestHexRoundTrip(t *testing.T) {
	for _, s := range DefaultPalette {
		c := HexToRGB(s.Hex)
		if got := HexToRGB(RGBToHex(c)); got != c {
			t.Errorf("%s: round trip gave %v", s.Hex, got)
		}
	}
	if got := NRGBAToHex(color.NRGBA{R: 1, G: 2, B: 3}); got != "#010203" {
		t.Errorf("got %q", got)
	}
}

func TestHSL(t *testing.T) {
	cases := []struct {
		hex string
		hsl HSL
	}{
		{"#ff0000", HSL{0, 100, 50}},
		{"#00ff00", HSL{120, 100, 50}},
		{"#0000ff", HSL{240, 100, 50}},
		{"#ffffff", HSL{0, 0, 100}},
		{"#000000", HSL{0, 0, 0}},
		{"#808080", HSL{0, 0, 50}},
	}
	for _, c := range cases {
		if got := HexToHSL(c.hex); got != c.hsl {
			t.Errorf("%s: got %v, expected %v", c.hex, got, c.hsl)
		}
		if got := HSLToHex(float64(c.hsl.H), float64(c.hsl.S), float64(c.hsl.L)); got != c.hex {
			t.Errorf("%v: got %s, expected %s", c.hsl, got, c.hex)
		}
	}
}

func TestMatch(t *testing.T) {
	colors := []color.NRGBA{
		{}, {R: 255, G: 255, B: 255, A: 255}, {R: 78, G: 205, B: 196, A: 10},
	}
	for _, c := range colors {
		if !Match(c, c, DefaultTolerance) {
			t.Errorf("%v does not match itself", c)
		}
	}
	black := color.NRGBA{A: 255}
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	if Match(black, white, DefaultTolerance) {
		t.Error("black matches white")
	}
	if !Match(white, color.NRGBA{R: 206, G: 255, B: 255}, 50) {
		t.Error("difference 49 does not match")
	}
	if Match(white, color.NRGBA{R: 255, G: 205, B: 255, A: 255}, 50) {
		t.Error("difference 50 matches")
	}
}

func TestIsLine(t *testing.T) {
	if !IsLine(color.NRGBA{R: 0x1a, G: 0x1a, B: 0x1a, A: 255}, DefaultLineThreshold) {
		t.Error("ink is not a line")
	}
	if IsLine(color.NRGBA{R: 49, G: 50, B: 0, A: 255}, DefaultLineThreshold) {
		t.Error("green channel at threshold counts as line")
	}
}

func TestShades(t *testing.T) {
	got := Shades("#ff0000", 3)
	want := []string{HSLToHex(0, 100, 15), HSLToHex(0, 100, 53), HSLToHex(0, 100, 90)}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("unexpected shades (-want +got):\n%s", d)
	}
	if Shades("#ff0000", 0) != nil {
		t.Error("expected no shades")
	}
	if got := Shades("#00ff00", 1); len(got) != 1 || HexToHSL(got[0]).L != 53 {
		t.Errorf("single shade %v", got)
	}
}

func TestShadesAreNotLines(t *testing.T) {
	bases := []string{"#808080", "#000000", "#ffffff"}
	for _, sw := range DefaultPalette {
		bases = append(bases, sw.Hex)
	}
	for _, base := range bases {
		for _, s := range Shades(base, 5) {
			if IsLine(HexToRGB(s).NRGBA(), DefaultLineThreshold) {
				t.Errorf("shade %s of %s looks like a line", s, base)
			}
		}
	}
}
