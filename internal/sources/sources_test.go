package sources

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadParsesAllSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	doc := `rss:
  - name: "OpenAI Blog"
    url: "https://openai.com/blog/rss.xml"
    lang: "en"
api:
  - name: "Reddit ML"
    type: "reddit"
    subreddit: "MachineLearning"
    sort: "hot"
    limit: 10
websites:
  - name: "量子位"
    url: "https://www.qbitai.com"
    selector: "article"
    lang: "zh"
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Count() != 3 {
		t.Errorf("Count = %d, want 3", s.Count())
	}
	if s.RSS[0].URL != "https://openai.com/blog/rss.xml" {
		t.Errorf("rss url = %q", s.RSS[0].URL)
	}
	if s.API[0].Subreddit != "MachineLearning" || s.API[0].Limit != 10 {
		t.Errorf("api source = %+v", s.API[0])
	}
	if s.Websites[0].Selector != "article" {
		t.Errorf("web selector = %q", s.Websites[0].Selector)
	}
}

func TestLoadMissingFileYieldsEmptyList(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Count() != 0 {
		t.Errorf("Count = %d, want 0", s.Count())
	}
}

func TestLoadMalformedYAMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	if err := os.WriteFile(path, []byte("rss: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}
