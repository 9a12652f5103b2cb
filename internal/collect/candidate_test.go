package collect

import (
	"testing"
	"time"
)

func TestSelectDropsPublishedAndStale(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	window := 72 * time.Hour

	candidates := []Candidate{
		{Title: "fresh", URL: "https://a.example/1", PublishedAt: now.Add(-1 * time.Hour)},
		{Title: "published", URL: "https://a.example/2", PublishedAt: now.Add(-2 * time.Hour)},
		{Title: "stale", URL: "https://a.example/3", PublishedAt: now.Add(-100 * time.Hour)},
		{Title: "undated", URL: "https://a.example/4"},
	}
	published := map[string]struct{}{
		"https://a.example/2": {},
	}

	got := Select(candidates, published, 10, window, now)
	if len(got) != 1 {
		t.Fatalf("expected 1 survivor, got %d", len(got))
	}
	if got[0].URL != "https://a.example/1" {
		t.Errorf("wrong survivor: %s", got[0].URL)
	}
}

func TestSelectSortsDescendingAndTruncates(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	candidates := []Candidate{
		{Title: "oldest", URL: "u1", PublishedAt: now.Add(-30 * time.Hour)},
		{Title: "newest", URL: "u2", PublishedAt: now.Add(-1 * time.Hour)},
		{Title: "middle", URL: "u3", PublishedAt: now.Add(-10 * time.Hour)},
	}

	got := Select(candidates, nil, 2, 72*time.Hour, now)
	if len(got) != 2 {
		t.Fatalf("expected 2 after truncation, got %d", len(got))
	}
	if got[0].Title != "newest" || got[1].Title != "middle" {
		t.Errorf("wrong order: %s, %s", got[0].Title, got[1].Title)
	}
	for i := 1; i < len(got); i++ {
		if got[i].PublishedAt.After(got[i-1].PublishedAt) {
			t.Errorf("output not sorted descending at index %d", i)
		}
	}
}

func TestSelectStableTieBreak(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	ts := now.Add(-1 * time.Hour)

	candidates := []Candidate{
		{Title: "first", URL: "u1", PublishedAt: ts},
		{Title: "second", URL: "u2", PublishedAt: ts},
		{Title: "third", URL: "u3", PublishedAt: ts},
	}

	got := Select(candidates, nil, 10, 72*time.Hour, now)
	if len(got) != 3 {
		t.Fatalf("expected 3, got %d", len(got))
	}
	for i, want := range []string{"first", "second", "third"} {
		if got[i].Title != want {
			t.Errorf("discovery order not preserved at %d: got %s, want %s", i, got[i].Title, want)
		}
	}
}

func TestSelectDeterministic(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	candidates := []Candidate{
		{Title: "a", URL: "u1", PublishedAt: now.Add(-3 * time.Hour)},
		{Title: "b", URL: "u2", PublishedAt: now.Add(-2 * time.Hour)},
	}

	first := Select(candidates, nil, 5, 72*time.Hour, now)
	second := Select(candidates, nil, 5, 72*time.Hour, now)
	if len(first) != len(second) {
		t.Fatalf("non-deterministic length")
	}
	for i := range first {
		if first[i].URL != second[i].URL {
			t.Errorf("non-deterministic order at %d", i)
		}
	}
}
