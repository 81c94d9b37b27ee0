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

package persist

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"seehuhn.de/go/colorbook/canvas"
	"seehuhn.de/go/colorbook/logger"
)

// DraftError reports a checkpoint which could not be written.
// The session continues; the user should be told.
type DraftError struct {
	Key Key
	Err error
}

func (e *DraftError) Error() string {
	if errors.Is(e.Err, ErrQuotaExceeded) {
		return "draft not saved: storage is full, free up space or save manually"
	}
	return "draft not saved: " + e.Err.Error()
}

func (e *DraftError) Unwrap() error {
	return e.Err
}

// Checkpointer writes debounced snapshots of a buffer to a Store.
//
// Every call to Schedule replaces the pending snapshot and restarts the
// delay, so that at most one write is pending and the last write always
// reflects the latest state.
type Checkpointer struct {
	// Warning, if set, is called from the timer goroutine when a
	// scheduled write fails.
	Warning func(*DraftError)

	ctx   context.Context
	store Store
	key   Key
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending *canvas.Buffer
	seq     uint64 // sequence number of pending
	stopped bool

	writeMu sync.Mutex
	written uint64 // sequence number of the last written snapshot
}

// NewCheckpointer returns a Checkpointer which writes to key in store,
// delay after the last call to Schedule. ctx provides the logger and is
// used for the background writes.
func NewCheckpointer(ctx context.Context, store Store, key Key, delay time.Duration) *Checkpointer {
	return &Checkpointer{
		ctx:   ctx,
		store: store,
		key:   key,
		delay: delay,
	}
}

// Schedule records a copy of buf, to be written once no further call
// happens within the delay.
func (c *Checkpointer) Schedule(buf *canvas.Buffer) {
	snap := buf.Clone()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	c.pending = snap
	c.seq++
	if c.timer == nil {
		c.timer = time.AfterFunc(c.delay, c.fire)
	} else {
		c.timer.Reset(c.delay)
	}
}

// Pending reports whether a snapshot is waiting to be written.
func (c *Checkpointer) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending != nil
}

// Flush writes the pending snapshot, if any, without waiting.
func (c *Checkpointer) Flush(ctx context.Context) error {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
	}
	snap, seq := c.take()
	c.mu.Unlock()

	if snap == nil {
		return nil
	}
	if err := c.write(ctx, snap, seq); err != nil {
		return &DraftError{Key: c.key, Err: err}
	}
	return nil
}

// Stop cancels the pending write. Later calls to Schedule are ignored.
func (c *Checkpointer) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	c.pending = nil
	if c.timer != nil {
		c.timer.Stop()
	}
}

// take removes the pending snapshot. The caller must hold c.mu.
func (c *Checkpointer) take() (*canvas.Buffer, uint64) {
	snap := c.pending
	c.pending = nil
	return snap, c.seq
}

func (c *Checkpointer) fire() {
	c.mu.Lock()
	snap, seq := c.take()
	c.mu.Unlock()
	if snap == nil {
		return
	}

	err := c.write(c.ctx, snap, seq)
	if err == nil {
		return
	}
	derr := &DraftError{Key: c.key, Err: err}
	logger.L(c.ctx).Warn("draft checkpoint failed",
		zap.Stringer("key", c.key), zap.Error(err))
	if c.Warning != nil {
		c.Warning(derr)
	}
}

// write stores snap unless a newer snapshot was written in the meantime.
func (c *Checkpointer) write(ctx context.Context, snap *canvas.Buffer, seq uint64) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if seq <= c.written {
		return nil
	}

	data, err := Encode(snap)
	if err != nil {
		return err
	}
	if err := c.store.Put(ctx, c.key, []byte(data)); err != nil {
		return err
	}
	c.written = seq
	logger.L(ctx).Debug("draft checkpoint written",
		zap.Stringer("key", c.key), zap.Int("bytes", len(data)))
	return nil
}

// LoadDraft returns the draft stored for templateID, or ErrNotFound.
func LoadDraft(ctx context.Context, store Store, templateID string) (*canvas.Buffer, error) {
	data, err := store.Get(ctx, Key{Kind: KindDraft, TemplateID: templateID})
	if err != nil {
		return nil, err
	}
	return DecodeBytes(data)
}
