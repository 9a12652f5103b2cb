// Package hexo renders article payloads as Hexo posts.
package hexo

import (
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"gopkg.in/yaml.v3"

	"github.com/hotker/blogcollector/internal/editorial"
	"github.com/hotker/blogcollector/internal/persona"
)

const maxSlugLen = 50

type poster struct {
	Topic    *string `yaml:"topic"`
	Headline string  `yaml:"headline"`
	Caption  *string `yaml:"caption"`
	Color    *string `yaml:"color"`
}

// frontMatter field order matters: Hexo themes read it top-down and the
// rendered files are diffed in the blog repo.
type frontMatter struct {
	Title      string   `yaml:"title"`
	Date       string   `yaml:"date"`
	Tags       []string `yaml:"tags"`
	Categories []string `yaml:"categories"`
	Poster     poster   `yaml:"poster"`
	Cover      string   `yaml:"cover"`
	Banner     string   `yaml:"banner"`
}

// Render produces the full post document: YAML front matter, body
// markdown, then the attribution trailer.
func Render(article *editorial.Article, coverURL, sourceURL string, now time.Time) (string, error) {
	headline := article.Summary
	if runes := []rune(headline); len(runes) > 100 {
		headline = string(runes[:100])
	}

	fm := frontMatter{
		Title:      article.Title,
		Date:       now.Format("2006-01-02 15:04:05"),
		Tags:       article.Tags,
		Categories: article.Categories,
		Poster:     poster{Headline: headline},
		Cover:      coverURL,
		Banner:     coverURL,
	}

	yamlBytes, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("marshal front matter: %w", err)
	}

	personaBadge := ""
	if article.PersonaID != "" {
		personaBadge = fmt.Sprintf("\n\n> *本文由 AI 编辑部【%s】撰写*", persona.Get(article.PersonaID).Name)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString(strings.TrimSpace(string(yamlBytes)))
	b.WriteString("\n---\n\n")
	b.WriteString(article.Content)
	b.WriteString("\n\n---\n\n")
	b.WriteString(fmt.Sprintf("> 本文基于 [%s](%s) 内容改编%s\n", sourceURL, sourceURL, personaBadge))

	return b.String(), nil
}

// Filename derives the date-prefixed, filesystem-safe post name.
func Filename(title string, now time.Time) string {
	s := slug.Make(title)
	if len(s) > maxSlugLen {
		s = strings.Trim(s[:maxSlugLen], "-")
	}
	if s == "" {
		s = "untitled"
	}
	return fmt.Sprintf("%s-%s.md", now.Format("2006-01-02"), s)
}
