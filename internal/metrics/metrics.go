package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	SourcesFetched     int64
	SourceFailures     int64
	CandidatesSeen     int64
	DuplicatesFiltered int64
	RewritesSucceeded  int64
	RewritesFailed     int64
	CoverFallbacks     int64
	ArticlesPublished  int64
	PublishSkipped     int64
	PublishFailed      int64

	// Timings
	LastRunDuration time.Duration

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) IncrementSourcesFetched() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourcesFetched++
}

func (m *Metrics) IncrementSourceFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourceFailures++
}

func (m *Metrics) AddCandidatesSeen(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CandidatesSeen += int64(n)
}

func (m *Metrics) AddDuplicatesFiltered(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicatesFiltered += int64(n)
}

func (m *Metrics) IncrementRewritesSucceeded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RewritesSucceeded++
}

func (m *Metrics) IncrementRewritesFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RewritesFailed++
}

func (m *Metrics) IncrementCoverFallbacks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CoverFallbacks++
}

func (m *Metrics) IncrementArticlesPublished() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesPublished++
}

func (m *Metrics) IncrementPublishSkipped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PublishSkipped++
}

func (m *Metrics) IncrementPublishFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PublishFailed++
}

func (m *Metrics) RecordRun(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunDuration = duration
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"sources_fetched":      m.SourcesFetched,
		"source_failures":      m.SourceFailures,
		"candidates_seen":      m.CandidatesSeen,
		"duplicates_filtered":  m.DuplicatesFiltered,
		"rewrites_succeeded":   m.RewritesSucceeded,
		"rewrites_failed":      m.RewritesFailed,
		"cover_fallbacks":      m.CoverFallbacks,
		"articles_published":   m.ArticlesPublished,
		"publish_skipped":      m.PublishSkipped,
		"publish_failed":       m.PublishFailed,
		"last_run_duration_ms": m.LastRunDuration.Milliseconds(),
		"last_run_time":        m.LastRunTime.Format(time.RFC3339),
		"last_error_time":      m.LastErrorTime.Format(time.RFC3339),
		"last_error":           m.LastError,
		"is_healthy":           m.IsHealthy,
	}
}
