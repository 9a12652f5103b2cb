package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileStartsEmpty(t *testing.T) {
	idx, err := Load(filepath.Join(t.TempDir(), "nope", "state.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if idx.Count() != 0 {
		t.Errorf("Count = %d, want 0", idx.Count())
	}
	if idx.Contains("https://example.com/a") {
		t.Error("empty index claims to contain a URL")
	}
}

func TestAppendAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "state.json")

	idx, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	rec := Record{
		SourceURL:   "https://example.com/a",
		Title:       "First post",
		PublishedAt: time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
		HexoPath:    "source/_posts/2026-08-28-first-post.md",
	}
	if err := idx.Append(rec); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if !idx.Contains(rec.SourceURL) {
		t.Error("Contains false right after Append")
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Count() != 1 {
		t.Fatalf("reloaded Count = %d, want 1", reloaded.Count())
	}
	if !reloaded.Contains(rec.SourceURL) {
		t.Error("reloaded index missing appended URL")
	}
	set := reloaded.URLSet()
	if _, ok := set[rec.SourceURL]; !ok {
		t.Error("URLSet missing appended URL")
	}
}

func TestLoadKeepsLegacyFieldNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	legacy := `{"articles": [{"source_url": "https://example.com/old", "title": "Old", "published_at": "2025-01-02T03:04:05Z", "hexo_path": "source/_posts/2025-01-02-old.md"}]}`
	if err := os.WriteFile(path, []byte(legacy), 0644); err != nil {
		t.Fatal(err)
	}

	idx, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !idx.Contains("https://example.com/old") {
		t.Error("legacy record not indexed")
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}

	idx, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if idx.Count() != 0 {
		t.Errorf("Count = %d, want 0", idx.Count())
	}
}

func TestLoadCorruptFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for corrupt state file")
	}
}
