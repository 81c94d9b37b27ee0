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

// Package viewport implements zoom and pan of the on-screen canvas, and
// maps screen positions back to buffer pixels.
package viewport

import (
	"math"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/colorbook/config"
)

// Default zoom limits, in percent.
const (
	DefaultZoom    = 100
	DefaultMinZoom = 50
	DefaultMaxZoom = 200
	DefaultStep    = 10
)

// State is the current view transform.
type State struct {
	Zoom int      // percent
	Pan  vec.Vec2 // offset in screen pixels
}

// Scale returns the zoom as a factor.
func (s State) Scale() float64 {
	return float64(s.Zoom) / 100
}

// Controller holds the zoom level and the pan offset.
//
// Panning is possible only while zoomed in beyond 100%. At lower zoom
// levels the offset is kept but cannot be changed.
type Controller struct {
	MinZoom, MaxZoom, Step int

	state    State
	dragging bool
	last     vec.Vec2
}

// New returns a Controller with the default limits and the view reset.
func New() *Controller {
	return &Controller{
		MinZoom: DefaultMinZoom,
		MaxZoom: DefaultMaxZoom,
		Step:    DefaultStep,
		state:   State{Zoom: DefaultZoom},
	}
}

// NewFromConfig returns a Controller with the limits given by cfg.
func NewFromConfig(cfg config.Viewport) *Controller {
	c := New()
	c.MinZoom = cfg.MinZoom
	c.MaxZoom = cfg.MaxZoom
	c.Step = cfg.Step
	return c
}

// State returns the current view transform.
func (c *Controller) State() State {
	return c.state
}

// ZoomIn increases the zoom by one step, up to MaxZoom.
func (c *Controller) ZoomIn() {
	c.state.Zoom = min(c.state.Zoom+c.Step, c.MaxZoom)
}

// ZoomOut decreases the zoom by one step, down to MinZoom.
func (c *Controller) ZoomOut() {
	c.state.Zoom = max(c.state.Zoom-c.Step, c.MinZoom)
	if !c.CanPan() {
		c.dragging = false
	}
}

// ResetZoom sets the zoom to 100% and leaves the pan offset unchanged.
func (c *Controller) ResetZoom() {
	c.state.Zoom = DefaultZoom
	c.dragging = false
}

// ResetView sets the zoom to 100% and clears the pan offset.
func (c *Controller) ResetView() {
	c.state = State{Zoom: DefaultZoom}
	c.dragging = false
}

// CanPan reports whether the view can currently be panned.
func (c *Controller) CanPan() bool {
	return c.state.Zoom > DefaultZoom
}

// BeginDrag starts a pan gesture at screen position p.
// It returns false, and ignores the gesture, if panning is disabled.
func (c *Controller) BeginDrag(p vec.Vec2) bool {
	if !c.CanPan() {
		return false
	}
	c.dragging = true
	c.last = p
	return true
}

// DragTo moves the view by the distance from the previous drag position
// to p.
func (c *Controller) DragTo(p vec.Vec2) {
	if !c.dragging {
		return
	}
	c.state.Pan = c.state.Pan.Add(p.Sub(c.last))
	c.last = p
}

// EndDrag finishes the pan gesture.
func (c *Controller) EndDrag() {
	c.dragging = false
}

// Dragging reports whether a pan gesture is in progress.
func (c *Controller) Dragging() bool {
	return c.dragging
}

// ToBuffer maps a screen position to the buffer pixel displayed there.
//
// The canvas occupies canvas on screen at 100% zoom. Zooming scales the
// content about the centre of this rectangle, and the pan offset then
// translates it. The returned coordinates are only meaningful if ok is
// true, i.e. if the point lies on the bufW x bufH buffer.
func (c *Controller) ToBuffer(screen vec.Vec2, canvas rect.Rect, bufW, bufH int) (x, y int, ok bool) {
	return ToBuffer(screen, c.state.Zoom, c.state.Pan, canvas, bufW, bufH)
}

// ToBuffer is the pure form of Controller.ToBuffer.
func ToBuffer(screen vec.Vec2, zoom int, pan vec.Vec2, canvas rect.Rect, bufW, bufH int) (x, y int, ok bool) {
	w := canvas.URx - canvas.LLx
	h := canvas.URy - canvas.LLy
	if zoom <= 0 || w <= 0 || h <= 0 {
		return 0, 0, false
	}
	s := float64(zoom) / 100
	cx := (canvas.LLx + canvas.URx) / 2
	cy := (canvas.LLy + canvas.URy) / 2

	// undo the pan, then the zoom about the centre
	u := cx + (screen.X-pan.X-cx)/s
	v := cy + (screen.Y-pan.Y-cy)/s

	fx := math.Floor((u - canvas.LLx) * float64(bufW) / w)
	fy := math.Floor((v - canvas.LLy) * float64(bufH) / h)
	if fx < 0 || fy < 0 || fx >= float64(bufW) || fy >= float64(bufH) {
		return 0, 0, false
	}
	return int(fx), int(fy), true
}

// ToScreen maps the centre of buffer pixel (x, y) to screen space. It is
// the inverse of ToBuffer.
func ToScreen(x, y int, zoom int, pan vec.Vec2, canvas rect.Rect, bufW, bufH int) vec.Vec2 {
	w := canvas.URx - canvas.LLx
	h := canvas.URy - canvas.LLy
	s := float64(zoom) / 100
	cx := (canvas.LLx + canvas.URx) / 2
	cy := (canvas.LLy + canvas.URy) / 2

	u := canvas.LLx + (float64(x)+0.5)*w/float64(bufW)
	v := canvas.LLy + (float64(y)+0.5)*h/float64(bufH)
	return vec.Vec2{
		X: cx + (u-cx)*s + pan.X,
		Y: cy + (v-cy)*s + pan.Y,
	}
}
