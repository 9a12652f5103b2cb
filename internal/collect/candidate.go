// Package collect aggregates candidate articles from RSS feeds, the
// Reddit JSON API and scraped listing pages, then filters them against
// the published index.
package collect

import (
	"sort"
	"time"
)

// Candidate is a freshly fetched, not-yet-published article-like item.
// The URL is the canonical dedup key.
type Candidate struct {
	Title       string
	Body        string
	URL         string
	SourceName  string
	Lang        string
	PublishedAt time.Time
}

// Select drops candidates that are already published or older than the
// recency window, sorts the survivors most-recent-first and truncates to
// maxCount. Equal timestamps keep their discovery order. Pure: no side
// effects, deterministic for identical inputs.
func Select(candidates []Candidate, published map[string]struct{}, maxCount int, window time.Duration, now time.Time) []Candidate {
	cutoff := now.Add(-window)

	survivors := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if _, seen := published[c.URL]; seen {
			continue
		}
		if c.PublishedAt.IsZero() || c.PublishedAt.Before(cutoff) {
			continue
		}
		survivors = append(survivors, c)
	}

	sort.SliceStable(survivors, func(i, j int) bool {
		return survivors[i].PublishedAt.After(survivors[j].PublishedAt)
	})

	if len(survivors) > maxCount {
		survivors = survivors[:maxCount]
	}
	return survivors
}
