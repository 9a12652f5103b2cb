package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"github.com/hotker/blogcollector/internal/retry"
)

const (
	userAgent      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"
	maxBodyDump    = 5000
	maxResponseLen = 4 << 20
)

// Content selectors tried in priority order; first match wins.
var contentSelectors = []string{
	"article",
	".article-content",
	".post-content",
	".entry-content",
	".content",
	"main",
}

// Extractor fetches article pages and pulls out main text content.
type Extractor struct {
	client   *http.Client
	retryCfg retry.Config
}

func NewExtractor(timeout time.Duration, retryCfg retry.Config) *Extractor {
	return &Extractor{
		client:   &http.Client{Timeout: timeout},
		retryCfg: retryCfg,
	}
}

// FetchDocument downloads a page and parses it. Transient 5xx responses
// are retried; 4xx responses are terminal.
func (e *Extractor) FetchDocument(ctx context.Context, pageURL string) (*goquery.Document, string, error) {
	var raw string

	err := retry.WithRetry(ctx, e.retryCfg, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return retry.Permanent(err)
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := e.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("HTTP error: %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return retry.Permanent(fmt.Errorf("HTTP error: %d", resp.StatusCode))
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseLen))
		if err != nil {
			return err
		}
		raw = string(body)
		return nil
	})
	if err != nil {
		return nil, "", fmt.Errorf("error loading page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, "", fmt.Errorf("error parsing HTML: %w", err)
	}
	return doc, raw, nil
}

// ExtractBody returns the main text of an article page. Selector list
// first, readability next, truncated whole-page text last.
func (e *Extractor) ExtractBody(ctx context.Context, pageURL string) (string, error) {
	doc, raw, err := e.FetchDocument(ctx, pageURL)
	if err != nil {
		return "", err
	}

	if text := ExtractFromDocument(doc); text != "" {
		return text, nil
	}

	if parsed, err := url.Parse(pageURL); err == nil {
		if article, err := readability.FromReader(strings.NewReader(raw), parsed); err == nil {
			if text := CleanText(article.TextContent); text != "" {
				return text, nil
			}
		}
	}

	body := CleanText(doc.Find("body").Text())
	if len(body) > maxBodyDump {
		body = body[:maxBodyDump]
	}
	if body == "" {
		return "", fmt.Errorf("can't get content")
	}
	return body, nil
}

// ExtractFromDocument applies the selector priority list to a parsed page.
func ExtractFromDocument(doc *goquery.Document) string {
	doc.Find("script, style, nav, header, footer, aside").Remove()

	for _, selector := range contentSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		if text := CleanText(sel.Text()); text != "" {
			return text
		}
	}
	return ""
}

// CleanText normalizes scraped text: trims each line, drops empties.
func CleanText(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		cleaned = append(cleaned, strings.Join(strings.Fields(line), " "))
	}
	return strings.Join(cleaned, "\n")
}
