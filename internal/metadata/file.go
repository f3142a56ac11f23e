package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/mtlprog/algofolio/internal/domain"
)

// cacheDocument is the on-disk layout: {"assets": {"<id>": {...}}}.
type cacheDocument struct {
	Assets map[string]Entry `json:"assets"`
}

// FileStore keeps the whole cache file in memory. The file is read once on
// first access and rewritten in full by Flush. There is no locking across
// processes: the last writer wins.
type FileStore struct {
	path string

	mu     sync.Mutex
	loaded bool
	dirty  bool
	doc    cacheDocument
}

// NewFileStore creates a FileStore backed by path. Nothing is read until first use.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) load() {
	if s.loaded {
		return
	}
	s.loaded = true
	s.doc = cacheDocument{Assets: make(map[string]Entry)}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("metadata cache unreadable, starting empty", "path", s.path, "error", err)
		}
		return
	}

	var doc cacheDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		slog.Warn("metadata cache corrupt, starting empty", "path", s.path, "error", err)
		return
	}
	if doc.Assets != nil {
		s.doc = doc
	}
}

func (s *FileStore) Entry(_ context.Context, id domain.AssetID) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.load()
	return s.doc.Assets[id.String()], nil
}

func (s *FileStore) Put(_ context.Context, id domain.AssetID, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.load()
	key := id.String()
	s.doc.Assets[key] = s.doc.Assets[key].merge(e)
	s.dirty = true
	return nil
}

// Flush rewrites the whole file through a temp file and rename. It is a no-op
// when nothing changed since the last flush.
func (s *FileStore) Flush(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty {
		return nil
	}

	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding metadata cache: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".cache-*.json")
	if err != nil {
		return fmt.Errorf("creating temp cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing metadata cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing metadata cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing metadata cache %s: %w", s.path, err)
	}

	s.dirty = false
	return nil
}

// Snapshot returns a copy of every cached entry keyed by asset id.
func (s *FileStore) Snapshot() map[domain.AssetID]Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.load()
	out := make(map[domain.AssetID]Entry, len(s.doc.Assets))
	for key, e := range s.doc.Assets {
		id, err := domain.ParseAssetID(key)
		if err != nil {
			slog.Warn("skipping malformed cache key", "key", key)
			continue
		}
		out[id] = e
	}
	return out
}
