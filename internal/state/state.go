// Package state persists the set of already-published source URLs.
// The file is read in full at startup and rewritten in full after every
// successful publish; logically the record list is append-only.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Record is one published article. The JSON shape is kept stable so old
// state files keep working.
type Record struct {
	SourceURL   string    `json:"source_url"`
	Title       string    `json:"title"`
	PublishedAt time.Time `json:"published_at"`
	HexoPath    string    `json:"hexo_path"`
}

type stateFile struct {
	Articles []Record `json:"articles"`
}

// Index is the persistent dedup/publish index.
type Index struct {
	filePath string
	records  []Record
	byURL    map[string]struct{}
	mu       sync.RWMutex
}

// Load reads the index from filePath. A missing file starts an empty index.
func Load(filePath string) (*Index, error) {
	idx := &Index{
		filePath: filePath,
		byURL:    make(map[string]struct{}),
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return idx, nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}
	if len(data) == 0 {
		return idx, nil
	}

	var sf stateFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state file: %w", err)
	}

	idx.records = sf.Articles
	for _, r := range sf.Articles {
		idx.byURL[r.SourceURL] = struct{}{}
	}
	return idx, nil
}

// Contains reports whether the source URL was already published.
func (idx *Index) Contains(sourceURL string) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	_, ok := idx.byURL[sourceURL]
	return ok
}

// URLSet returns a snapshot of all published source URLs.
func (idx *Index) URLSet() map[string]struct{} {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	set := make(map[string]struct{}, len(idx.byURL))
	for u := range idx.byURL {
		set[u] = struct{}{}
	}
	return set
}

// Count returns the number of published records.
func (idx *Index) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.records)
}

// Append adds a record and rewrites the state file.
func (idx *Index) Append(rec Record) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.records = append(idx.records, rec)
	idx.byURL[rec.SourceURL] = struct{}{}

	return idx.save()
}

func (idx *Index) save() error {
	data, err := json.MarshalIndent(stateFile{Articles: idx.records}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if dir := filepath.Dir(idx.filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create state dir: %w", err)
		}
	}

	if err := os.WriteFile(idx.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}
