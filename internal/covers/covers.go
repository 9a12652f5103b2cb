// Package covers resolves a cover image URL for an article through an
// ordered provider chain, falling back to a curated static pool.
package covers

import (
	"context"

	"github.com/hotker/blogcollector/internal/logger"
	"github.com/hotker/blogcollector/internal/metrics"
	"github.com/hotker/blogcollector/internal/ratelimit"
)

// Resolver walks the provider chain and stops at the first success.
// Resolve always returns a non-empty URL and never fails.
type Resolver struct {
	analyzer    *Analyzer // nil when no Gemini key is configured
	providers   []Provider
	pool        *Pool
	budget      *ratelimit.AIBudget
	fallbackURL string
}

func NewResolver(analyzer *Analyzer, providers []Provider, pool *Pool, budget *ratelimit.AIBudget, fallbackURL string) *Resolver {
	return &Resolver{
		analyzer:    analyzer,
		providers:   providers,
		pool:        pool,
		budget:      budget,
		fallbackURL: fallbackURL,
	}
}

// Resolve runs analysis once, then tries each provider in order. Every
// attempt is independently contained: a provider failure is logged and
// the chain proceeds.
func (r *Resolver) Resolve(ctx context.Context, title string, tags []string, summary string) string {
	req := Request{
		Title:    title,
		Tags:     tags,
		Summary:  summary,
		Keywords: defaultKeywords,
		Style:    defaultStyle,
	}
	if r.analyzer != nil && r.budget.CanUseImage() {
		analysis := r.analyzer.Analyze(ctx, title, tags, summary)
		req.Keywords = analysis.Keywords
		req.Style = analysis.Style
	}

	for _, p := range r.providers {
		if !r.budget.CanUseImage() {
			break
		}
		if err := r.budget.UseImage(); err != nil {
			break
		}

		coverURL, err := p.Attempt(ctx, req)
		if err != nil {
			logger.Warn("cover provider failed", "provider", p.Name(), "error", err)
			continue
		}
		if coverURL == "" {
			continue
		}
		logger.Info("cover resolved", "provider", p.Name())
		return coverURL
	}

	metrics.Global.IncrementCoverFallbacks()
	if picked := r.pool.Pick(title, tags, summary); picked != "" {
		logger.Info("cover resolved from curated pool")
		return picked
	}
	return r.fallbackURL
}
