// Package app wires the pipeline together and runs it end to end.
package app

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/hotker/blogcollector/internal/collect"
	"github.com/hotker/blogcollector/internal/config"
	"github.com/hotker/blogcollector/internal/covers"
	"github.com/hotker/blogcollector/internal/editorial"
	"github.com/hotker/blogcollector/internal/hexo"
	"github.com/hotker/blogcollector/internal/llm"
	"github.com/hotker/blogcollector/internal/logger"
	"github.com/hotker/blogcollector/internal/metrics"
	"github.com/hotker/blogcollector/internal/publish"
	"github.com/hotker/blogcollector/internal/ratelimit"
	"github.com/hotker/blogcollector/internal/retry"
	"github.com/hotker/blogcollector/internal/sources"
	"github.com/hotker/blogcollector/internal/state"
)

// Run executes one collection cycle: fetch, filter, rewrite, cover,
// publish. Failures are contained per source / per candidate; only
// startup wiring errors abort the run.
func Run(ctx context.Context, cfg *config.Config) error {
	start := time.Now()
	defer func() {
		metrics.Global.RecordRun(time.Since(start))
	}()

	fmt.Println("==================================================")
	fmt.Println("Blog Collector - Starting...")
	fmt.Println("==================================================")

	srcs, err := sources.Load(cfg.SourcesFile)
	if err != nil {
		return fmt.Errorf("load sources: %w", err)
	}

	index, err := state.Load(cfg.StateFile)
	if err != nil {
		return fmt.Errorf("load publish index: %w", err)
	}

	retryCfg := retry.Config{MaxAttempts: cfg.RetryAttempts, Delay: cfg.RetryDelay}

	// Startup wiring: missing credentials fail here, before any work.
	chat, err := llm.NewClient(cfg.OpenAIBase, cfg.OpenAIModel, cfg.OpenAIKey, cfg.RequestTimeout, retryCfg)
	if err != nil {
		return err
	}
	store, err := publish.NewGitHubStore(ctx, cfg.GitHubToken, cfg.TargetRepo, cfg.Branch)
	if err != nil {
		return err
	}

	budget := ratelimit.NewAIBudget(cfg.MaxChatCalls, cfg.MaxImageCalls)
	room := editorial.NewRoom(chat, budget, editorial.Options{
		EnableTriage:   cfg.EnableTriage,
		EnableCritique: cfg.EnableCritique,
		DefaultPersona: cfg.DefaultPersona,
	})
	resolver := buildCoverResolver(ctx, cfg, budget, retryCfg)
	publisher := publish.NewPublisher(store, index)

	// Step 1: collect from all sources.
	fmt.Println("\n[1/3] Collecting articles from sources...")
	collector := collect.NewCollector(srcs, collect.Options{
		Timeout:        cfg.RequestTimeout,
		PerSourceLimit: cfg.PerSourceLimit,
		RetryAttempts:  cfg.RetryAttempts,
		RetryDelay:     cfg.RetryDelay,
		Published:      index.Contains,
	})
	raw := collector.CollectAll(ctx)
	metrics.Global.AddCandidatesSeen(len(raw))

	candidates := collect.Select(raw, index.URLSet(), cfg.MaxCandidates, cfg.RecencyWindow, time.Now())
	metrics.Global.AddDuplicatesFiltered(len(raw) - len(candidates))

	if len(candidates) == 0 {
		fmt.Println("No new articles found. Exiting.")
		return nil
	}

	fmt.Printf("Found %d candidate articles:\n", len(candidates))
	for i, c := range candidates {
		fmt.Printf("  %d. %s... (%s)\n", i+1, excerpt(c.Title, 50), c.SourceName)
	}

	// Step 2: rewrite through the editorial room.
	fmt.Println("\n[2/3] Rewriting articles with the editorial room...")
	type rewritten struct {
		article   *editorial.Article
		rendered  string
		sourceURL string
	}
	var ready []rewritten

	limit := cfg.MaxArticles
	if limit > len(candidates) {
		limit = len(candidates)
	}
	for _, cand := range candidates[:limit] {
		fmt.Printf("  Rewriting: %s...\n", excerpt(cand.Title, 40))

		article, err := room.Rewrite(ctx, cand)
		if err != nil {
			logger.Error("rewrite failed", "title", cand.Title, "error", err)
			metrics.Global.IncrementRewritesFailed()
			fmt.Println("    ✗ Failed to rewrite")
			continue
		}
		metrics.Global.IncrementRewritesSucceeded()

		coverURL := resolver.Resolve(ctx, article.Title, article.Tags, article.Summary)
		rendered, err := hexo.Render(article, coverURL, cand.URL, time.Now())
		if err != nil {
			logger.Error("render failed", "title", article.Title, "error", err)
			continue
		}

		ready = append(ready, rewritten{article: article, rendered: rendered, sourceURL: cand.URL})
		fmt.Printf("    ✓ Success: %s\n", article.Title)
	}

	if len(ready) == 0 {
		fmt.Println("No articles were successfully rewritten. Exiting.")
		return nil
	}

	// Step 3: publish.
	fmt.Println("\n[3/3] Publishing to the blog repository...")
	publishedCount := 0
	for _, r := range ready {
		result, err := publisher.Publish(ctx, r.article, r.rendered, r.sourceURL)
		switch {
		case err != nil:
			logger.Error("publish failed", "title", r.article.Title, "error", err)
			metrics.Global.IncrementPublishFailed()
			fmt.Printf("  ✗ Failed to publish: %s\n", r.article.Title)
		case result.Skipped:
			metrics.Global.IncrementPublishSkipped()
			fmt.Printf("  - Already exists, skipped: %s\n", result.Path)
		default:
			metrics.Global.IncrementArticlesPublished()
			publishedCount++
			fmt.Printf("  ✓ Published: %s\n", r.article.Title)
		}
	}

	fmt.Println("\n==================================================")
	fmt.Printf("Completed! Published %d article(s).\n", publishedCount)
	fmt.Printf("Total articles in state: %d\n", index.Count())
	fmt.Println("==================================================")
	return nil
}

func buildCoverResolver(ctx context.Context, cfg *config.Config, budget *ratelimit.AIBudget, retryCfg retry.Config) *covers.Resolver {
	imageClient := &http.Client{Timeout: cfg.ImageTimeout}
	uploader := covers.NewUploader(cfg.UploadURL, cfg.ImageBaseURL, imageClient, retryCfg)

	var analyzer *covers.Analyzer
	if cfg.GeminiAPIKey != "" {
		a, err := covers.NewAnalyzer(ctx, cfg.GeminiAPIKey)
		if err != nil {
			logger.Warn("cover analyzer unavailable", "error", err)
		} else {
			analyzer = a
		}
	}

	providers := []covers.Provider{
		covers.NewURLProvider("", imageClient),
		covers.NewGeminiImageProvider(cfg.GeminiAPIKey, imageClient, uploader),
		covers.NewOpenAIImageProvider(cfg.OpenAIBase, cfg.OpenAIKey, imageClient, uploader),
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	pool := covers.NewPool(rng)

	return covers.NewResolver(analyzer, providers, pool, budget, cfg.FallbackCoverURL)
}

func excerpt(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
