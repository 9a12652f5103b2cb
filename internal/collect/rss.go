package collect

import (
	"context"
	"log"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/hotker/blogcollector/internal/metrics"
)

// CollectRSS downloads and parses all configured feeds. A feed that
// fails to parse is logged and skipped.
func (c *Collector) CollectRSS(ctx context.Context) []Candidate {
	var items []Candidate
	successCount := 0

	for _, src := range c.srcs.RSS {
		feed, err := c.parser.ParseURLWithContext(src.URL, ctx)
		if err != nil {
			log.Printf("Error fetching RSS from %s: %v", src.Name, err)
			metrics.Global.IncrementSourceFailures()
			continue
		}
		metrics.Global.IncrementSourcesFetched()

		count := 0
		for _, entry := range feed.Items {
			if count >= c.perSource {
				break
			}
			if entry.Link == "" {
				continue
			}

			items = append(items, Candidate{
				Title:       entryTitle(entry),
				Body:        entryBody(entry),
				URL:         entry.Link,
				SourceName:  src.Name,
				Lang:        langOrDefault(src.Lang, "en"),
				PublishedAt: entryTime(entry),
			})
			count++
		}

		successCount++
		log.Printf("Loaded %d items from %s", count, src.Name)
	}

	log.Printf("Processed RSS feeds: %d/%d ok", successCount, len(c.srcs.RSS))
	return items
}

func entryTitle(entry *gofeed.Item) string {
	if entry.Title == "" {
		return "Untitled"
	}
	return entry.Title
}

// entryBody prefers full content over the summary/description.
func entryBody(entry *gofeed.Item) string {
	if entry.Content != "" {
		return stripHTML(entry.Content)
	}
	return stripHTML(entry.Description)
}

func entryTime(entry *gofeed.Item) time.Time {
	if entry.PublishedParsed != nil {
		return *entry.PublishedParsed
	}
	if entry.UpdatedParsed != nil {
		return *entry.UpdatedParsed
	}
	return time.Time{}
}

func langOrDefault(lang, def string) string {
	if lang == "" {
		return def
	}
	return lang
}
