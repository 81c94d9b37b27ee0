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

// Package session ties the parts of the coloring engine together: a
// template is rasterized into a working buffer, which is then colored by
// flood fills, with undo, zoom and draft checkpoints.
package session

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"sync/atomic"

	"go.uber.org/zap"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/colorbook/canvas"
	"seehuhn.de/go/colorbook/colormodel"
	"seehuhn.de/go/colorbook/config"
	"seehuhn.de/go/colorbook/fill"
	"seehuhn.de/go/colorbook/history"
	"seehuhn.de/go/colorbook/logger"
	"seehuhn.de/go/colorbook/persist"
	"seehuhn.de/go/colorbook/source"
	"seehuhn.de/go/colorbook/viewport"
)

// ErrBusy is returned by Save while a fill or undo is running.
var ErrBusy = errors.New("session: busy")

// Tool is the tool applied by clicks on the canvas: FillTool or
// EraseTool.
type Tool interface {
	isTool()
}

// FillTool paints regions with a color.
type FillTool struct {
	Color color.NRGBA
}

// EraseTool paints regions with the background color.
type EraseTool struct{}

func (FillTool) isTool()  {}
func (EraseTool) isTool() {}

// Creation is a finished image, handed to the gallery on save.
type Creation struct {
	TemplateID string
	Image      string // PNG data URI
}

// Gallery stores finished creations.
type Gallery interface {
	Publish(ctx context.Context, c Creation) error
}

// SaveError reports a failed save. The buffer is unchanged and the save
// can be retried.
type SaveError struct {
	TemplateID string
	Err        error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("saving %q failed, try again: %v", e.TemplateID, e.Err)
}

func (e *SaveError) Unwrap() error {
	return e.Err
}

// Temporary reports that the save can be retried.
func (e *SaveError) Temporary() bool {
	return true
}

// Options configure a session.
type Options struct {
	// Config holds the engine settings. If nil, config.Default() is used.
	Config *config.Config

	// Rasterizer renders the template. If nil, one is created from
	// Config. Sharing a Rasterizer between sessions shares its cache.
	Rasterizer *source.Rasterizer

	// Drafts stores draft checkpoints. If nil, no drafts are written.
	Drafts persist.Store

	// Gallery receives saved creations.
	Gallery Gallery

	// Prior is an image to continue from, as a data URI or raw image
	// bytes. It takes precedence over Resume.
	Prior []byte

	// Resume continues from the stored draft of the template, if any.
	Resume bool

	// Warning is called when a draft checkpoint cannot be written.
	Warning func(*persist.DraftError)
}

// Session is an open coloring page.
//
// Fill and undo requests which arrive while another fill or undo is
// running are ignored.
type Session struct {
	art        source.Artwork
	background color.NRGBA
	gallery    Gallery
	log        *zap.Logger

	busy atomic.Bool

	buf    *canvas.Buffer
	engine *fill.Engine
	hist   *history.History
	view   *viewport.Controller
	drafts *persist.Checkpointer
	tool   Tool
}

// Open rasterizes art and starts a session.
//
// A usable session is always returned. A non-nil error describes input
// which could not be used, such as a corrupt prior image; the session
// then starts from the line art or from a blank page.
func Open(ctx context.Context, art source.Artwork, opt Options) (*Session, error) {
	cfg := opt.Config
	if cfg == nil {
		cfg = config.Default()
	}
	rast := opt.Rasterizer
	if rast == nil {
		rast = source.New(source.OptionsFromConfig(cfg))
	}
	log := logger.L(ctx).With(zap.String("template", art.ID))
	ctx = logger.NewContext(ctx, log)

	prior := opt.Prior
	if len(prior) == 0 && opt.Resume && opt.Drafts != nil {
		data, err := opt.Drafts.Get(ctx, persist.Key{Kind: persist.KindDraft, TemplateID: art.ID})
		switch {
		case err == nil:
			prior = data
			log.Debug("resuming draft", zap.Int("bytes", len(data)))
		case !errors.Is(err, persist.ErrNotFound):
			log.Warn("cannot read draft", zap.Error(err))
		}
	}

	buf, err := rast.Rasterize(ctx, art, prior)

	s := &Session{
		art:        art,
		background: rast.Options().Background,
		gallery:    opt.Gallery,
		log:        log,
		buf:        buf,
		engine:     fill.NewFromConfig(cfg.Fill),
		hist:       history.NewFromConfig(cfg.History),
		view:       viewport.NewFromConfig(cfg.Viewport),
		tool:       FillTool{Color: colormodel.HexToRGB(colormodel.DefaultColor).NRGBA()},
	}
	s.hist.Reset(buf)
	if opt.Drafts != nil {
		s.drafts = persist.NewCheckpointer(ctx, opt.Drafts,
			persist.Key{Kind: persist.KindDraft, TemplateID: art.ID}, cfg.Draft.Delay)
		s.drafts.Warning = opt.Warning
	}

	log.Debug("session opened",
		zap.Int("resolution", buf.Width()), zap.Bool("prior", len(prior) > 0))
	return s, err
}

// Artwork returns the template of the session.
func (s *Session) Artwork() source.Artwork {
	return s.art
}

// Tool returns the selected tool.
func (s *Session) Tool() Tool {
	return s.tool
}

// SelectTool selects the tool used by Click and FillAt.
func (s *Session) SelectTool(t Tool) {
	s.tool = t
}

// SelectColor selects the fill tool with the given hex color.
// Malformed colors select black.
func (s *Session) SelectColor(hex string) color.NRGBA {
	c := colormodel.HexToRGB(hex).NRGBA()
	s.tool = FillTool{Color: c}
	return c
}

// Viewport returns the zoom and pan controller of the session.
func (s *Session) Viewport() *viewport.Controller {
	return s.view
}

// Click applies the selected tool at a screen position. The canvas
// occupies canvasRect on screen at 100% zoom. The second return value
// is false if the click was ignored, because another request is running
// or because the position is not on the canvas.
func (s *Session) Click(screen vec.Vec2, canvasRect rect.Rect) (fill.Result, bool) {
	x, y, ok := s.view.ToBuffer(screen, canvasRect, s.buf.Width(), s.buf.Height())
	if !ok {
		return fill.Result{Outcome: fill.OutOfBounds}, false
	}
	return s.FillAt(x, y)
}

// FillAt applies the selected tool at buffer pixel (x, y). The second
// return value is false if another request was running.
func (s *Session) FillAt(x, y int) (fill.Result, bool) {
	if !s.busy.CompareAndSwap(false, true) {
		return fill.Result{}, false
	}
	defer s.busy.Store(false)

	c := s.toolColor()
	res := s.engine.Fill(s.buf, x, y, c)
	s.log.Debug("fill",
		zap.Int("x", x), zap.Int("y", y),
		zap.Stringer("outcome", res.Outcome), zap.Int("changed", res.Changed))
	if !res.Modified() {
		return res, true
	}
	s.hist.Push(s.buf)
	s.checkpoint()
	return res, true
}

func (s *Session) toolColor() color.NRGBA {
	switch t := s.tool.(type) {
	case FillTool:
		return t.Color
	case EraseTool:
		return s.background
	}
	return s.background
}

// Undo reverts the last change. It returns false if there is nothing to
// undo or another request is running.
func (s *Session) Undo() bool {
	if !s.busy.CompareAndSwap(false, true) {
		return false
	}
	defer s.busy.Store(false)

	prev, ok := s.hist.Undo()
	if !ok {
		return false
	}
	s.buf = prev
	s.checkpoint()
	return true
}

// Steps returns the number of states held by the undo history.
func (s *Session) Steps() int {
	return s.hist.Size()
}

// Snapshot returns a copy of the working buffer.
func (s *Session) Snapshot() *canvas.Buffer {
	return s.buf.Clone()
}

// Busy reports whether a fill or undo is running.
func (s *Session) Busy() bool {
	return s.busy.Load()
}

func (s *Session) checkpoint() {
	if s.drafts != nil {
		s.drafts.Schedule(s.buf)
	}
}

// Save encodes the working buffer and publishes it to the gallery.
// Failures are reported as *SaveError; the session is unchanged and Save
// may be called again.
func (s *Session) Save(ctx context.Context) error {
	if !s.busy.CompareAndSwap(false, true) {
		return &SaveError{TemplateID: s.art.ID, Err: ErrBusy}
	}
	img, err := persist.Finalize(s.buf)
	s.busy.Store(false)
	if err != nil {
		return &SaveError{TemplateID: s.art.ID, Err: err}
	}
	if s.gallery == nil {
		return &SaveError{TemplateID: s.art.ID, Err: errors.New("no gallery configured")}
	}

	err = s.gallery.Publish(ctx, Creation{TemplateID: s.art.ID, Image: img})
	if err != nil {
		s.log.Warn("save failed", zap.Error(err))
		return &SaveError{TemplateID: s.art.ID, Err: err}
	}
	s.log.Info("creation saved", zap.Int("bytes", len(img)))
	return nil
}

// Close writes the pending draft checkpoint, if any, and stops further
// checkpoints.
func (s *Session) Close(ctx context.Context) error {
	if s.drafts == nil {
		return nil
	}
	err := s.drafts.Flush(ctx)
	s.drafts.Stop()
	return err
}
