package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/hotker/blogcollector/internal/metrics"
	"github.com/hotker/blogcollector/internal/retry"
)

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	Title      string  `json:"title"`
	Permalink  string  `json:"permalink"`
	URL        string  `json:"url"`
	Selftext   string  `json:"selftext"`
	IsSelf     bool    `json:"is_self"`
	CreatedUTC float64 `json:"created_utc"`
}

// CollectReddit pulls posts from the public Reddit JSON listings. Self
// posts without body text are skipped; link posts carry the target URL
// as their body.
func (c *Collector) CollectReddit(ctx context.Context) []Candidate {
	var items []Candidate

	for _, src := range c.srcs.API {
		if src.Type != "reddit" {
			continue
		}

		sortBy := src.Sort
		if sortBy == "" {
			sortBy = "hot"
		}
		limit := src.Limit
		if limit <= 0 {
			limit = 10
		}

		url := fmt.Sprintf("https://www.reddit.com/r/%s/%s.json?limit=%d", src.Subreddit, sortBy, limit)
		listing, err := c.decodeRedditListing(ctx, url)
		if err != nil {
			log.Printf("Error fetching Reddit from r/%s: %v", src.Subreddit, err)
			metrics.Global.IncrementSourceFailures()
			continue
		}
		metrics.Global.IncrementSourcesFetched()

		found := c.redditCandidates(listing, src.Subreddit)
		items = append(items, found...)
		log.Printf("Loaded %d items from r/%s", len(found), src.Subreddit)
	}

	return items
}

func (c *Collector) redditCandidates(listing *redditListing, subreddit string) []Candidate {
	var items []Candidate
	for _, child := range listing.Data.Children {
		if len(items) >= c.perSource {
			break
		}
		post := child.Data

		if post.IsSelf && post.Selftext == "" {
			continue
		}

		body := post.Selftext
		if body == "" {
			body = fmt.Sprintf("Link: %s", post.URL)
		}

		items = append(items, Candidate{
			Title:       post.Title,
			Body:        body,
			URL:         "https://reddit.com" + post.Permalink,
			SourceName:  fmt.Sprintf("Reddit r/%s", subreddit),
			Lang:        "en",
			PublishedAt: time.Unix(int64(post.CreatedUTC), 0),
		})
	}
	return items
}

func (c *Collector) decodeRedditListing(ctx context.Context, url string) (*redditListing, error) {
	var listing redditListing
	err := retry.WithRetry(ctx, c.retryCfg, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return retry.Permanent(err)
		}
		req.Header.Set("User-Agent", "BlogCollector/1.0")

		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("reddit API error: status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return retry.Permanent(fmt.Errorf("reddit API error: status %d", resp.StatusCode))
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(body, &listing); err != nil {
			return retry.Permanent(fmt.Errorf("decode reddit listing: %w", err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &listing, nil
}
