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

// Package persist stores and restores pixel buffers: data URI encoding
// for the gallery, and durable draft slots for work in progress.
package persist

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // prior images may be JPEG
	"image/png"
	"net/url"
	"strings"

	_ "golang.org/x/image/webp" // prior images may be WebP

	"seehuhn.de/go/colorbook/canvas"
)

// PNGPrefix starts every data URI produced by Encode.
const PNGPrefix = "data:image/png;base64,"

// ErrDataURI indicates a malformed data URI.
var ErrDataURI = errors.New("persist: malformed data URI")

// Encode returns buf as a PNG data URI.
func Encode(buf *canvas.Buffer) (string, error) {
	var b strings.Builder
	b.WriteString(PNGPrefix)
	w := base64.NewEncoder(base64.StdEncoding, &b)
	if err := png.Encode(w, buf.NRGBA()); err != nil {
		return "", fmt.Errorf("persist: encode: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Finalize encodes buf for hand-off to the gallery. The buffer is left
// unchanged, so a failed upload can be retried.
func Finalize(buf *canvas.Buffer) (string, error) {
	if buf == nil {
		return "", errors.New("persist: nothing to finalize")
	}
	return Encode(buf)
}

// Decode reads an image from a data URI or from raw PNG, JPEG or WebP
// bytes held in a string.
func Decode(s string) (*canvas.Buffer, error) {
	return DecodeBytes([]byte(s))
}

// DecodeBytes is like Decode, for byte slices.
func DecodeBytes(data []byte) (*canvas.Buffer, error) {
	img, err := DecodeImage(data)
	if err != nil {
		return nil, err
	}
	return canvas.FromImage(img), nil
}

// DecodeImage decodes a data URI or raw image bytes without converting
// the result.
func DecodeImage(data []byte) (image.Image, error) {
	raw, err := payload(data)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("persist: decode: %w", err)
	}
	return img, nil
}

// payload extracts the bytes carried by a data URI. Other input is
// returned unchanged.
func payload(data []byte) ([]byte, error) {
	if !bytes.HasPrefix(data, []byte("data:")) {
		return data, nil
	}
	header, body, ok := bytes.Cut(data[len("data:"):], []byte(","))
	if !ok {
		return nil, ErrDataURI
	}
	if bytes.HasSuffix(header, []byte(";base64")) {
		body = bytes.TrimSpace(body)
		raw := make([]byte, base64.StdEncoding.DecodedLen(len(body)))
		n, err := base64.StdEncoding.Decode(raw, body)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDataURI, err)
		}
		return raw[:n], nil
	}
	s, err := url.PathUnescape(string(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataURI, err)
	}
	return []byte(s), nil
}
