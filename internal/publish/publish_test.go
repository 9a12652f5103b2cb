package publish

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hotker/blogcollector/internal/editorial"
	"github.com/hotker/blogcollector/internal/state"
)

type memStore struct {
	docs      map[string][]byte
	messages  []string
	existsErr error
	createErr error
}

func newMemStore() *memStore {
	return &memStore{docs: make(map[string][]byte)}
}

func (m *memStore) Exists(_ context.Context, path string) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	_, ok := m.docs[path]
	return ok, nil
}

func (m *memStore) Create(_ context.Context, path, message string, content []byte) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.docs[path] = content
	m.messages = append(m.messages, message)
	return nil
}

func newTestPublisher(t *testing.T, store ContentStore) (*Publisher, *state.Index) {
	t.Helper()
	idx, err := state.Load(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("state.Load: %v", err)
	}
	p := NewPublisher(store, idx)
	p.now = func() time.Time { return time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC) }
	return p, idx
}

func testArticle() *editorial.Article {
	return &editorial.Article{Title: "Big Model News", Summary: "s", Tags: []string{"AI"}, Categories: []string{"AI资讯"}, Content: "body"}
}

func TestPublishWritesDocumentAndIndex(t *testing.T) {
	store := newMemStore()
	p, idx := newTestPublisher(t, store)

	res, err := p.Publish(context.Background(), testArticle(), "rendered doc", "https://example.com/src")
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if res.Skipped {
		t.Fatal("fresh publish reported as skipped")
	}
	if res.Path != "source/_posts/2026-08-28-big-model-news.md" {
		t.Errorf("path = %q", res.Path)
	}
	if string(store.docs[res.Path]) != "rendered doc" {
		t.Error("document content not stored")
	}
	if len(store.messages) != 1 || !strings.Contains(store.messages[0], "Auto: 新增文章 - Big Model News") {
		t.Errorf("commit message = %v", store.messages)
	}
	if !idx.Contains("https://example.com/src") {
		t.Error("source URL not recorded in index")
	}
}

func TestPublishSkipsExistingPath(t *testing.T) {
	store := newMemStore()
	p, idx := newTestPublisher(t, store)

	if _, err := p.Publish(context.Background(), testArticle(), "first", "https://example.com/a"); err != nil {
		t.Fatalf("first publish: %v", err)
	}

	// same title and same day produce the same destination path
	res, err := p.Publish(context.Background(), testArticle(), "second", "https://example.com/b")
	if err != nil {
		t.Fatalf("second publish: %v", err)
	}
	if !res.Skipped {
		t.Fatal("slug collision not reported as skip")
	}
	if len(store.messages) != 1 {
		t.Errorf("Create called %d times, want 1", len(store.messages))
	}
	if idx.Contains("https://example.com/b") {
		t.Error("skipped publish must not be indexed")
	}
}

func TestPublishExistsCheckFailure(t *testing.T) {
	store := newMemStore()
	store.existsErr = errors.New("api unavailable")
	p, _ := newTestPublisher(t, store)

	if _, err := p.Publish(context.Background(), testArticle(), "doc", "https://example.com/a"); err == nil {
		t.Fatal("expected error when the existence check fails")
	}
	if len(store.messages) != 0 {
		t.Error("Create called despite failed existence check")
	}
}

func TestPublishCreateFailureNotIndexed(t *testing.T) {
	store := newMemStore()
	store.createErr = errors.New("422 unprocessable")
	p, idx := newTestPublisher(t, store)

	if _, err := p.Publish(context.Background(), testArticle(), "doc", "https://example.com/a"); err == nil {
		t.Fatal("expected error when Create fails")
	}
	if idx.Contains("https://example.com/a") {
		t.Error("failed publish must not be indexed")
	}
}
