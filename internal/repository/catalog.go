package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"prospectfinder/internal/model"
	"prospectfinder/internal/utils"
)

// CatalogStore holds the category taxonomy loaded from a JSON file. The file
// is editable while the server runs: Refresh stats it and swaps the in-memory
// packs only when the modification time changed.
type CatalogStore struct {
	path string

	mu      sync.RWMutex
	modTime time.Time
	packs   []model.CategoryPack
	byKey   map[string]model.CategoryPack
}

// NewCatalogStore loads the taxonomy file and returns the store.
func NewCatalogStore(path string) (*CatalogStore, error) {
	s := &CatalogStore{path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *CatalogStore) load() error {
	info, err := os.Stat(s.path)
	if err != nil {
		return fmt.Errorf("category data file not found at %s: %w", s.path, err)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read category file: %w", err)
	}

	var packs []model.CategoryPack
	if err := json.Unmarshal(data, &packs); err != nil {
		return fmt.Errorf("failed to parse category file %s: %w", s.path, err)
	}

	byKey := make(map[string]model.CategoryPack, len(packs))
	for _, p := range packs {
		if p.Key == "" {
			return fmt.Errorf("category pack with empty key in %s", s.path)
		}
		if _, dup := byKey[p.Key]; dup {
			return fmt.Errorf("duplicate category pack key %q in %s", p.Key, s.path)
		}
		byKey[p.Key] = p
	}

	s.mu.Lock()
	s.modTime = info.ModTime()
	s.packs = packs
	s.byKey = byKey
	s.mu.Unlock()

	return nil
}

// Refresh re-reads the taxonomy file if it changed on disk since the last
// load. Called at the start of each request; a stat on an unchanged file is
// the whole cost.
func (s *CatalogStore) Refresh() error {
	info, err := os.Stat(s.path)
	if err != nil {
		return fmt.Errorf("failed to stat category file: %w", err)
	}

	s.mu.RLock()
	unchanged := info.ModTime().Equal(s.modTime)
	s.mu.RUnlock()
	if unchanged {
		return nil
	}

	return s.load()
}

// Packs returns all category packs in file order.
func (s *CatalogStore) Packs() []model.CategoryPack {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.CategoryPack, len(s.packs))
	copy(out, s.packs)
	return out
}

// Get returns the pack for key, if any.
func (s *CatalogStore) Get(key string) (model.CategoryPack, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byKey[key]
	return p, ok
}

// Suggest returns the closest known pack key to an unknown one, or "" when
// nothing is close enough. Used to improve unknown-key error messages.
func (s *CatalogStore) Suggest(key string) string {
	s.mu.RLock()
	keys := make([]string, 0, len(s.byKey))
	for k := range s.byKey {
		keys = append(keys, k)
	}
	s.mu.RUnlock()
	return utils.ClosestKey(key, keys)
}
