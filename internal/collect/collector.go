package collect

import (
	"context"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/hotker/blogcollector/internal/retry"
	"github.com/hotker/blogcollector/internal/scrape"
	"github.com/hotker/blogcollector/internal/sources"
)

// Collector fetches candidates from every configured source. A failing
// source is logged and skipped; the run continues with whatever the
// other sources returned.
type Collector struct {
	srcs      *sources.Sources
	client    *http.Client
	parser    *gofeed.Parser
	extractor *scrape.Extractor
	perSource int
	retryCfg  retry.Config
	published func(url string) bool // cheap pre-check before expensive secondary fetches
}

type Options struct {
	Timeout        time.Duration
	PerSourceLimit int
	RetryAttempts  int
	RetryDelay     time.Duration
	// Published reports whether a URL is already in the publish index.
	// Optional; Select remains the authoritative dedup pass.
	Published func(url string) bool
}

func NewCollector(srcs *sources.Sources, opts Options) *Collector {
	if opts.PerSourceLimit <= 0 {
		opts.PerSourceLimit = 5
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RetryAttempts <= 0 {
		opts.RetryAttempts = 3
	}

	client := &http.Client{Timeout: opts.Timeout}
	parser := gofeed.NewParser()
	parser.Client = client
	parser.UserAgent = "BlogCollector/1.0"

	retryCfg := retry.Config{MaxAttempts: opts.RetryAttempts, Delay: opts.RetryDelay}

	return &Collector{
		srcs:      srcs,
		client:    client,
		parser:    parser,
		extractor: scrape.NewExtractor(opts.Timeout, retryCfg),
		perSource: opts.PerSourceLimit,
		retryCfg:  retryCfg,
		published: opts.Published,
	}
}

func (c *Collector) isPublished(url string) bool {
	return c.published != nil && c.published(url)
}

// CollectAll runs every fetcher type one after another and returns the
// combined raw candidate list, fetch order preserved.
func (c *Collector) CollectAll(ctx context.Context) []Candidate {
	var all []Candidate
	all = append(all, c.CollectRSS(ctx)...)
	all = append(all, c.CollectReddit(ctx)...)
	all = append(all, c.CollectWebsites(ctx)...)
	return all
}
