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

// Package history keeps a bounded stack of buffer snapshots for undo.
package history

import (
	"seehuhn.de/go/colorbook/canvas"
	"seehuhn.de/go/colorbook/config"
)

// MinCapacity is the smallest usable capacity: the base state plus one
// step which can be undone.
const MinCapacity = 2

// History is a bounded stack of snapshots. The first entry is the base
// state; Undo never removes it.
//
// All snapshots are private deep copies. Buffers passed to Push or
// returned by Undo and Current may be modified freely by the caller.
type History struct {
	capacity int
	pinBase  bool
	stack    []*canvas.Buffer
	spare    *canvas.Buffer // an evicted snapshot, reused by the next Push
}

// New returns an empty History holding at most capacity snapshots.
// Capacities below MinCapacity are raised to MinCapacity.
//
// If pinBase is set, the first snapshot pushed is never evicted and
// eviction drops the oldest snapshot after it. Otherwise the stack is a
// sliding window over the most recent snapshots.
func New(capacity int, pinBase bool) *History {
	capacity = max(capacity, MinCapacity)
	return &History{
		capacity: capacity,
		pinBase:  pinBase,
		stack:    make([]*canvas.Buffer, 0, capacity),
	}
}

// NewFromConfig returns an empty History configured by cfg.
func NewFromConfig(cfg config.History) *History {
	return New(cfg.Capacity, cfg.PinBase)
}

// Push appends a copy of buf. If this exceeds the capacity, the oldest
// evictable snapshot is dropped.
func (h *History) Push(buf *canvas.Buffer) {
	h.stack = append(h.stack, h.copyOf(buf))
	if len(h.stack) <= h.capacity {
		return
	}

	first := 0
	if h.pinBase {
		first = 1
	}
	h.spare = h.stack[first]
	h.stack = append(h.stack[:first], h.stack[first+1:]...)
}

// Undo removes the most recent snapshot and returns a copy of the one
// before it. If at most one snapshot is stored, Undo does nothing and
// returns false.
func (h *History) Undo() (*canvas.Buffer, bool) {
	n := len(h.stack)
	if n <= 1 {
		return nil, false
	}
	h.spare = h.stack[n-1]
	h.stack[n-1] = nil
	h.stack = h.stack[:n-1]
	return h.stack[n-2].Clone(), true
}

// Current returns a copy of the most recent snapshot, or nil if the
// history is empty.
func (h *History) Current() *canvas.Buffer {
	if len(h.stack) == 0 {
		return nil
	}
	return h.stack[len(h.stack)-1].Clone()
}

// Base returns a copy of the oldest stored snapshot, or nil if the
// history is empty.
func (h *History) Base() *canvas.Buffer {
	if len(h.stack) == 0 {
		return nil
	}
	return h.stack[0].Clone()
}

// Size returns the number of stored snapshots.
func (h *History) Size() int {
	return len(h.stack)
}

// Capacity returns the maximum number of stored snapshots.
func (h *History) Capacity() int {
	return h.capacity
}

// Reset discards all snapshots and stores a copy of base as the new base
// state.
func (h *History) Reset(base *canvas.Buffer) {
	clear(h.stack)
	h.stack = h.stack[:0]
	h.spare = nil
	h.Push(base)
}

func (h *History) copyOf(buf *canvas.Buffer) *canvas.Buffer {
	if s := h.spare; s != nil {
		h.spare = nil
		if s.CopyFrom(buf) == nil {
			return s
		}
	}
	return buf.Clone()
}
