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

// Package source turns coloring book templates into working buffers.
//
// A template is SVG line art, optionally with an overlay. The art is
// letterboxed into a square working buffer of fixed resolution, with the
// margins left in the background color. When a previously saved image is
// available, it replaces the line art.
package source

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/gogpu/gg/cache"
	"go.uber.org/zap"
	"golang.org/x/image/draw"

	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/colorbook/canvas"
	"seehuhn.de/go/colorbook/colormodel"
	"seehuhn.de/go/colorbook/config"
	"seehuhn.de/go/colorbook/logger"
	"seehuhn.de/go/colorbook/persist"
	"seehuhn.de/go/colorbook/raster"
)

var (
	// ErrDecode indicates that a prior image could not be decoded.
	ErrDecode = errors.New("source: cannot decode prior image")

	// ErrMarkup indicates that the line art could not be rendered.
	ErrMarkup = errors.New("source: cannot render line art")
)

// Artwork is a coloring book template.
type Artwork struct {
	ID      string
	Markup  []byte // SVG line art
	Overlay []byte // optional SVG, drawn on top with its own paints
}

// Options control how artwork is rasterized.
type Options struct {
	Resolution int         // side of the square working buffer
	Background color.NRGBA // color of the margins and of blank paper
	LineColor  color.NRGBA // replaces the stroke paint of the line art
	Engine     string      // config.EngineNative or config.EngineOkSVG
	CacheSize  int         // number of cached rasters, 0 disables caching
}

// DefaultOptions returns the options of the default configuration.
func DefaultOptions() Options {
	return OptionsFromConfig(config.Default())
}

// OptionsFromConfig extracts the rasterizer options from cfg. cfg must
// have been validated.
func OptionsFromConfig(cfg *config.Config) Options {
	bg, err := colormodel.ParseHex(cfg.Canvas.Background)
	if err != nil {
		bg = canvas.White
	}
	line, err := colormodel.ParseHex(cfg.Render.LineColor)
	if err != nil {
		line = color.NRGBA{R: 0x1a, G: 0x1a, B: 0x1a, A: 0xff}
	}
	return Options{
		Resolution: cfg.Canvas.Resolution,
		Background: bg,
		LineColor:  line,
		Engine:     cfg.Render.Engine,
		CacheSize:  cfg.Render.CacheSize,
	}
}

type cacheKey struct {
	id  string
	res int
}

func hashKey(k cacheKey) uint64 {
	return cache.StringHasher(k.id) ^ cache.IntHasher(k.res)
}

// Rasterizer produces working buffers. It is safe for concurrent use.
type Rasterizer struct {
	opt     Options
	rasters *cache.ShardedCache[cacheKey, *canvas.Buffer]
	pens    sync.Pool // of *raster.Rasterizer
}

// New returns a Rasterizer with the given options.
func New(opt Options) *Rasterizer {
	s := &Rasterizer{opt: opt}
	s.pens.New = func() any { return raster.NewRasterizer(rect.Rect{}) }
	if opt.CacheSize > 0 {
		perShard := (opt.CacheSize + cache.DefaultShardCount - 1) / cache.DefaultShardCount
		s.rasters = cache.NewSharded[cacheKey, *canvas.Buffer](perShard, hashKey)
	}
	return s
}

// Options returns the options of s.
func (s *Rasterizer) Options() Options {
	return s.opt
}

// Rasterize returns a fresh working buffer for art.
//
// If prior is non-empty, it is decoded as a data URI or as raw PNG, JPEG
// or WebP bytes and scaled to the working resolution. Otherwise the line
// art is rasterized.
//
// A usable buffer is always returned. If the prior image or the line art
// cannot be used, the buffer is blank paper and the error matches
// ErrDecode or ErrMarkup respectively.
func (s *Rasterizer) Rasterize(ctx context.Context, art Artwork, prior []byte) (*canvas.Buffer, error) {
	log := logger.L(ctx).With(zap.String("artwork", art.ID))

	if len(prior) > 0 {
		buf, err := s.decodePrior(prior)
		if err != nil {
			log.Warn("prior image rejected, starting blank", zap.Error(err))
			res := s.opt.Resolution
			return canvas.NewFilled(res, res, s.opt.Background), err
		}
		log.Debug("restored prior image")
		return buf, nil
	}
	return s.Pristine(ctx, art)
}

// Pristine returns the rasterized line art, without any coloring.
// Results are cached by artwork ID and resolution; the caller owns the
// returned buffer.
func (s *Rasterizer) Pristine(ctx context.Context, art Artwork) (*canvas.Buffer, error) {
	key := cacheKey{id: art.ID, res: s.opt.Resolution}
	useCache := s.rasters != nil && art.ID != ""
	if useCache {
		if buf, ok := s.rasters.Get(key); ok {
			return buf.Clone(), nil
		}
	}

	buf, err := s.render(ctx, art)
	if err != nil {
		return buf, err
	}
	if useCache {
		s.rasters.Set(key, buf.Clone())
	}
	return buf, nil
}

func (s *Rasterizer) decodePrior(prior []byte) (*canvas.Buffer, error) {
	img, err := persist.DecodeImage(prior)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	res := s.opt.Resolution
	b := img.Bounds()
	if b.Dx() == res && b.Dy() == res {
		return canvas.FromImage(img), nil
	}
	dst := image.NewNRGBA(image.Rect(0, 0, res, res))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return canvas.FromImage(dst), nil
}

// render draws the line art and overlay on blank paper. On failure, the
// blank buffer is returned with an error.
func (s *Rasterizer) render(ctx context.Context, art Artwork) (*canvas.Buffer, error) {
	res := s.opt.Resolution
	buf := canvas.NewFilled(res, res, s.opt.Background)
	log := logger.L(ctx).With(zap.String("artwork", art.ID))

	var frame image.Rectangle
	var err error
	if s.opt.Engine == config.EngineOkSVG {
		frame, err = s.drawOkSVG(buf, art.Markup)
		if err != nil {
			log.Debug("oksvg failed, trying native engine", zap.Error(err))
			buf.Fill(s.opt.Background)
			frame, err = s.drawNative(ctx, buf, art.Markup, true)
			if errors.Is(err, errUnsupported) {
				err = nil
			}
		}
	} else {
		frame, err = s.drawNative(ctx, buf, art.Markup, true)
		if err != nil {
			alt := canvas.NewFilled(res, res, s.opt.Background)
			if altFrame, altErr := s.drawOkSVG(alt, art.Markup); altErr == nil {
				log.Debug("line art rendered by oksvg", zap.Error(err))
				buf, frame, err = alt, altFrame, nil
			} else if errors.Is(err, errUnsupported) {
				log.Warn("unsupported elements skipped", zap.Error(err))
				err = nil
			}
		}
	}
	if err != nil {
		buf.Fill(s.opt.Background)
		return buf, fmt.Errorf("%w: %w", ErrMarkup, err)
	}

	if len(art.Overlay) > 0 {
		if err := s.drawOverlay(ctx, buf, art.Overlay, frame); err != nil {
			return buf, fmt.Errorf("%w: overlay: %w", ErrMarkup, err)
		}
	}
	return buf, nil
}

// Letterbox returns the largest rectangle with aspect ratio w:h which
// fits into a res×res square, centered in the square.
func Letterbox(w, h float64, res int) image.Rectangle {
	if !(w > 0 && h > 0) {
		return image.Rect(0, 0, res, res)
	}
	dw, dh := res, res
	if r := w / h; r > 1 {
		dh = int(float64(res)/r + 0.5)
	} else {
		dw = int(float64(res)*r + 0.5)
	}
	x0 := (res - dw) / 2
	y0 := (res - dh) / 2
	return image.Rect(x0, y0, x0+dw, y0+dh)
}
