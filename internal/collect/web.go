package collect

import (
	"context"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/hotker/blogcollector/internal/metrics"
	"github.com/hotker/blogcollector/internal/sources"
)

// CollectWebsites scrapes each configured listing page, resolves the
// discovered links to absolute URLs and fetches full body text for each
// link that is not already published.
func (c *Collector) CollectWebsites(ctx context.Context) []Candidate {
	var items []Candidate

	for _, src := range c.srcs.Websites {
		found, err := c.collectWebsite(ctx, src)
		if err != nil {
			log.Printf("Error scraping %s: %v", src.Name, err)
			metrics.Global.IncrementSourceFailures()
			continue
		}
		metrics.Global.IncrementSourcesFetched()
		items = append(items, found...)
		log.Printf("Loaded %d items from %s", len(found), src.Name)
	}

	return items
}

func (c *Collector) collectWebsite(ctx context.Context, src sources.WebSource) ([]Candidate, error) {
	doc, _, err := c.extractor.FetchDocument(ctx, src.URL)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(src.URL)
	if err != nil {
		return nil, err
	}

	selector := src.Selector
	if selector == "" {
		selector = "article"
	}

	var items []Candidate
	doc.Find(selector).EachWithBreak(func(i int, s *goquery.Selection) bool {
		if len(items) >= c.perSource {
			return false
		}

		titleSel := s.Find("h1, h2, h3, .title, a").First()
		linkSel := s.Find("a[href]").First()
		if titleSel.Length() == 0 || linkSel.Length() == 0 {
			return true
		}

		title := strings.TrimSpace(titleSel.Text())
		href, _ := linkSel.Attr("href")
		if title == "" || href == "" {
			return true
		}

		abs := resolveURL(base, href)
		if abs == "" {
			return true
		}

		// Skip the expensive body fetch for items already in the index.
		if c.isPublished(abs) {
			return true
		}

		body, err := c.extractor.ExtractBody(ctx, abs)
		if err != nil {
			log.Printf("Error fetching article content from %s: %v", abs, err)
			body = ""
		}

		items = append(items, Candidate{
			Title:       title,
			Body:        body,
			URL:         abs,
			SourceName:  src.Name,
			Lang:        langOrDefault(src.Lang, "zh"),
			PublishedAt: time.Now(),
		})
		return true
	})

	return items, nil
}

// resolveURL turns a possibly relative href into an absolute URL so the
// dedup key is stable across runs.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return ""
	}
	return abs.String()
}
