// Package sources holds the declarative source list (sources.yaml).
package sources

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RSSSource is a single feed.
type RSSSource struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
	Lang string `yaml:"lang"`
}

// APISource is a social-API source; only type "reddit" is recognized.
type APISource struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	Subreddit string `yaml:"subreddit"`
	Sort      string `yaml:"sort"`
	Limit     int    `yaml:"limit"`
}

// WebSource is a scraped listing page.
type WebSource struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Selector string `yaml:"selector"`
	Lang     string `yaml:"lang"`
}

type Sources struct {
	RSS      []RSSSource `yaml:"rss"`
	API      []APISource `yaml:"api"`
	Websites []WebSource `yaml:"websites"`
}

// Load reads the source list from a YAML file. A missing file yields an
// empty source list, not an error.
func Load(path string) (*Sources, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Sources{}, nil
		}
		return nil, fmt.Errorf("read sources file: %w", err)
	}

	var s Sources
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse sources file: %w", err)
	}
	return &s, nil
}

// Count returns the total number of configured sources.
func (s *Sources) Count() int {
	return len(s.RSS) + len(s.API) + len(s.Websites)
}
