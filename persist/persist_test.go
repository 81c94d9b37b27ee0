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
	"bytes"
	"context"
	"errors"
	"image/color"
	"image/png"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/colorbook/canvas"
	"seehuhn.de/go/colorbook/config"
)

func testBuffer(c color.NRGBA) *canvas.Buffer {
	buf := canvas.NewFilled(16, 8, canvas.White)
	for x := 4; x < 12; x++ {
		buf.SetNRGBA(x, 3, c)
	}
	return buf
}

func TestEncodeDecode(t *testing.T) {
	buf := testBuffer(color.NRGBA{R: 78, G: 205, B: 196, A: 255})

	uri, err := Encode(buf)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(uri, PNGPrefix) {
		t.Fatalf("unexpected prefix: %.30s", uri)
	}

	got, err := Decode(uri)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(buf) {
		t.Error("data URI round trip changed the buffer")
	}

	// raw PNG bytes are accepted as well
	var raw bytes.Buffer
	if err := png.Encode(&raw, buf.NRGBA()); err != nil {
		t.Fatal(err)
	}
	got, err = DecodeBytes(raw.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if got.Checksum() != buf.Checksum() {
		t.Error("raw PNG round trip changed the buffer")
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		in      string
		dataURI bool
	}{
		{"data:image/png;base64", true},
		{"data:image/png;base64,@@@", true},
		{"data:image/png;base64,aGVsbG8=", false},
		{"not an image", false},
	}
	for _, tc := range tests {
		_, err := Decode(tc.in)
		if err == nil {
			t.Errorf("%q: no error", tc.in)
			continue
		}
		if got := errors.Is(err, ErrDataURI); got != tc.dataURI {
			t.Errorf("%q: errors.Is(err, ErrDataURI) = %t, want %t", tc.in, got, tc.dataURI)
		}
	}
}

func TestFinalizeKeepsBuffer(t *testing.T) {
	buf := testBuffer(color.NRGBA{R: 255, A: 255})
	sum := buf.Checksum()
	if _, err := Finalize(buf); err != nil {
		t.Fatal(err)
	}
	if buf.Checksum() != sum {
		t.Error("Finalize modified the buffer")
	}
	if _, err := Finalize(nil); err == nil {
		t.Error("nil buffer accepted")
	}
}

func testStore(t *testing.T, s Store, quota int64) {
	ctx := context.Background()
	key := Key{Kind: KindDraft, TemplateID: "mandala"}

	if _, err := s.Get(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty store: got %v, want ErrNotFound", err)
	}

	value := []byte(strings.Repeat("line art ", 10))
	if err := s.Put(ctx, key, value); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(ctx, key)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(value, got); diff != "" {
		t.Errorf("stored value (-want +got):\n%s", diff)
	}

	// values are copied
	got[0] = 'X'
	again, _ := s.Get(ctx, key)
	if again[0] != 'l' {
		t.Error("store returned its internal slice")
	}

	// replacing an entry is not counted twice
	for range 3 {
		if err := s.Put(ctx, key, value); err != nil {
			t.Fatalf("overwrite: %v", err)
		}
	}

	big := noise(int(quota) + 1)
	err = s.Put(ctx, Key{Kind: KindDraft, TemplateID: "large"}, big)
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Errorf("oversized value: got %v, want ErrQuotaExceeded", err)
	}

	if err := s.Delete(ctx, key); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, key); err != nil {
		t.Errorf("second delete: %v", err)
	}
	if _, err := s.Get(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Errorf("after delete: got %v, want ErrNotFound", err)
	}
}

// noise returns n bytes which do not compress.
func noise(n int) []byte {
	buf := make([]byte, n)
	rng := rand.NewChaCha8([32]byte{1, 2, 3})
	_, _ = rng.Read(buf) // never fails
	return buf
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore(1000)
	testStore(t, s, 1000)
	if s.Used() != 0 {
		t.Errorf("%d bytes in use after deleting everything", s.Used())
	}
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), 1000)
	if err != nil {
		t.Fatal(err)
	}
	testStore(t, s, 1000)
}

// TestFileStoreQuotaCompressed checks that the quota of a FileStore
// applies to the compressed file size.
func TestFileStoreQuotaCompressed(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir(), 1000)
	if err != nil {
		t.Fatal(err)
	}

	plain := bytes.Repeat([]byte("paper "), 1000)
	if err := s.Put(ctx, Key{Kind: KindDraft, TemplateID: "plain"}, plain); err != nil {
		t.Errorf("compressible value: %v", err)
	}

	err = s.Put(ctx, Key{Kind: KindDraft, TemplateID: "noise"}, noise(1000))
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Errorf("incompressible value: got %v, want ErrQuotaExceeded", err)
	}
}

func TestNewStore(t *testing.T) {
	cfg := config.Default().Draft
	s, err := NewStore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("got %T, expected *MemoryStore", s)
	}

	cfg.Dir = filepath.Join(t.TempDir(), "drafts")
	s, err = NewStore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*FileStore); !ok {
		t.Errorf("got %T, expected *FileStore", s)
	}
}

func TestKey(t *testing.T) {
	k := Key{Kind: KindDraft, TemplateID: "t-1"}
	if got := k.String(); got != "draft_t-1" {
		t.Errorf("got %q", got)
	}
}

// countingStore records the values written to it.
type countingStore struct {
	Store

	mu     sync.Mutex
	writes [][]byte
}

func (s *countingStore) Put(ctx context.Context, key Key, value []byte) error {
	s.mu.Lock()
	s.writes = append(s.writes, value)
	s.mu.Unlock()
	return s.Store.Put(ctx, key, value)
}

func (s *countingStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.writes)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("timed out")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestCheckpointDebounce(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{Store: NewMemoryStore(1 << 20)}
	key := Key{Kind: KindDraft, TemplateID: "t"}
	cp := NewCheckpointer(ctx, store, key, 50*time.Millisecond)

	buf := testBuffer(color.NRGBA{A: 255})
	var last uint64
	for i := range 5 {
		buf.SetNRGBA(i, 0, color.NRGBA{R: 200, A: 255})
		cp.Schedule(buf)
		last = buf.Checksum()
	}
	// later changes to the live buffer must not leak into the snapshot
	buf.Fill(canvas.White)

	waitFor(t, func() bool { return store.count() > 0 })
	time.Sleep(100 * time.Millisecond)
	if n := store.count(); n != 1 {
		t.Errorf("%d writes, want 1", n)
	}

	draft, err := LoadDraft(ctx, store, "t")
	if err != nil {
		t.Fatal(err)
	}
	if draft.Checksum() != last {
		t.Error("draft does not hold the latest scheduled state")
	}
}

func TestCheckpointFlushAndStop(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{Store: NewMemoryStore(1 << 20)}
	cp := NewCheckpointer(ctx, store, Key{Kind: KindDraft, TemplateID: "t"}, time.Hour)

	if err := cp.Flush(ctx); err != nil || store.count() != 0 {
		t.Fatalf("flush without pending snapshot: %v, %d writes", err, store.count())
	}

	cp.Schedule(testBuffer(color.NRGBA{G: 255, A: 255}))
	if !cp.Pending() {
		t.Fatal("snapshot not pending")
	}
	if err := cp.Flush(ctx); err != nil {
		t.Fatal(err)
	}
	if cp.Pending() || store.count() != 1 {
		t.Errorf("after flush: pending %t, %d writes", cp.Pending(), store.count())
	}

	cp.Schedule(testBuffer(color.NRGBA{B: 255, A: 255}))
	cp.Stop()
	cp.Schedule(testBuffer(color.NRGBA{B: 255, A: 255}))
	if cp.Pending() {
		t.Error("Stop did not drop the pending snapshot")
	}
	if err := cp.Flush(ctx); err != nil || store.count() != 1 {
		t.Errorf("after stop: %v, %d writes", err, store.count())
	}
}

func TestCheckpointQuotaWarning(t *testing.T) {
	ctx := context.Background()
	cp := NewCheckpointer(ctx, NewMemoryStore(10), Key{Kind: KindDraft, TemplateID: "t"}, time.Millisecond)

	warnings := make(chan *DraftError, 1)
	cp.Warning = func(err *DraftError) { warnings <- err }
	cp.Schedule(testBuffer(color.NRGBA{A: 255}))

	select {
	case err := <-warnings:
		if !errors.Is(err, ErrQuotaExceeded) {
			t.Errorf("got %v, want ErrQuotaExceeded", err)
		}
		if !strings.Contains(err.Error(), "save manually") {
			t.Errorf("unhelpful message %q", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no warning")
	}
}
