package collect

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/hotker/blogcollector/internal/scrape"
)

// stripHTML drops markup from feed bodies; plain text passes through.
func stripHTML(s string) string {
	if !strings.Contains(s, "<") {
		return scrape.CleanText(s)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return scrape.CleanText(s)
	}
	doc.Find("script, style").Remove()
	return scrape.CleanText(doc.Text())
}
