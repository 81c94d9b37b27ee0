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
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"

	"seehuhn.de/go/colorbook/config"
)

var (
	// ErrNotFound is returned by Store.Get for keys without a value.
	ErrNotFound = errors.New("persist: no such entry")

	// ErrQuotaExceeded is returned by Store.Put when the value does not
	// fit into the space available to the store.
	ErrQuotaExceeded = errors.New("persist: storage quota exceeded")
)

// Kind distinguishes the purposes of stored values.
type Kind string

// KindDraft holds the latest unsaved state of a coloring session.
const KindDraft Kind = "draft"

// Key identifies a storage slot.
type Key struct {
	Kind       Kind
	TemplateID string
}

func (k Key) String() string {
	return string(k.Kind) + "_" + k.TemplateID
}

// Store is a durable key-value slot for encoded buffers.
type Store interface {
	Get(ctx context.Context, key Key) ([]byte, error)
	Put(ctx context.Context, key Key, value []byte) error
	Delete(ctx context.Context, key Key) error
}

// NewStore returns the draft store described by cfg: a FileStore in
// cfg.Dir, or a MemoryStore if no directory is set.
func NewStore(cfg config.Draft) (Store, error) {
	if cfg.Dir == "" {
		return NewMemoryStore(cfg.QuotaBytes), nil
	}
	s, err := NewFileStore(cfg.Dir, cfg.QuotaBytes)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// MemoryStore keeps values in memory, with a total size limit similar to
// the quota of browser local storage.
type MemoryStore struct {
	mu     sync.Mutex
	quota  int64
	used   int64
	values map[Key][]byte
}

// NewMemoryStore returns an empty store which holds at most quota bytes.
func NewMemoryStore(quota int64) *MemoryStore {
	return &MemoryStore{
		quota:  quota,
		values: make(map[Key][]byte),
	}
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, key Key) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Put implements Store. The size of an entry is the length of its key
// plus the length of its value.
func (s *MemoryStore) Put(_ context.Context, key Key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	used := s.used + entrySize(key, value)
	if old, ok := s.values[key]; ok {
		used -= entrySize(key, old)
	}
	if used > s.quota {
		return fmt.Errorf("%w: %d bytes needed, %d available", ErrQuotaExceeded, used, s.quota)
	}
	s.values[key] = append([]byte(nil), value...)
	s.used = used
	return nil
}

// Delete implements Store. Deleting a missing key is not an error.
func (s *MemoryStore) Delete(_ context.Context, key Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.values[key]; ok {
		s.used -= entrySize(key, old)
		delete(s.values, key)
	}
	return nil
}

// Used returns the number of bytes currently stored.
func (s *MemoryStore) Used() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.used
}

func entrySize(key Key, value []byte) int64 {
	return int64(len(key.String()) + len(value))
}

// FileStore keeps one zstd-compressed file per key in a directory. The
// quota applies to the compressed size of all files in the directory.
type FileStore struct {
	dir   string
	quota int64

	mu sync.Mutex
}

// NewFileStore returns a store which keeps its files in dir. The
// directory is created if needed.
func NewFileStore(dir string, quota int64) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("persist: %w", err)
	}
	return &FileStore{dir: dir, quota: quota}, nil
}

const fileSuffix = ".zst"

func (s *FileStore) fileName(key Key) string {
	return filepath.Join(s.dir, url.PathEscape(key.String())+fileSuffix)
}

// Get implements Store.
func (s *FileStore) Get(_ context.Context, key Key) ([]byte, error) {
	data, err := os.ReadFile(s.fileName(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("persist: %w", err)
	}
	value, err := decompress(data)
	if err != nil {
		return nil, fmt.Errorf("persist: zstd decode %s: %w", key, err)
	}
	return value, nil
}

// Put implements Store. The file is replaced atomically.
func (s *FileStore) Put(_ context.Context, key Key, value []byte) error {
	compressed, err := compress(value)
	if err != nil {
		return fmt.Errorf("persist: zstd encode: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fname := s.fileName(key)
	used, err := s.usage(fname)
	if err != nil {
		return err
	}
	if total := used + int64(len(compressed)); total > s.quota {
		return fmt.Errorf("%w: %d bytes needed, %d available", ErrQuotaExceeded, total, s.quota)
	}

	tmp, err := os.CreateTemp(s.dir, ".put-*")
	if err != nil {
		return fmt.Errorf("persist: %w", err)
	}
	_, err = tmp.Write(compressed)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp.Name(), fname)
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("persist: %w", err)
	}
	return nil
}

// Delete implements Store. Deleting a missing key is not an error.
func (s *FileStore) Delete(_ context.Context, key Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.fileName(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("persist: %w", err)
	}
	return nil
}

// usage returns the total size of the stored files, except for skip.
func (s *FileStore) usage(skip string) (int64, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("persist: %w", err)
	}
	var total int64
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileSuffix) {
			continue
		}
		if filepath.Join(s.dir, entry.Name()) == skip {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		total += info.Size()
	}
	return total, nil
}

var (
	zstdOnce    sync.Once
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
	zstdErr     error
)

// initZstd creates the shared coder pair. EncodeAll and DecodeAll may be
// used concurrently.
func initZstd() error {
	zstdOnce.Do(func() {
		zstdEncoder, zstdErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if zstdErr != nil {
			return
		}
		zstdDecoder, zstdErr = zstd.NewReader(nil)
	})
	return zstdErr
}

func compress(data []byte) ([]byte, error) {
	if err := initZstd(); err != nil {
		return nil, err
	}
	return zstdEncoder.EncodeAll(data, nil), nil
}

func decompress(data []byte) ([]byte, error) {
	if err := initZstd(); err != nil {
		return nil, err
	}
	return zstdDecoder.DecodeAll(data, nil)
}
