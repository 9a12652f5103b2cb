// Package publish files rendered posts into the blog content repository
// and records them in the persistent publish index.
package publish

import (
	"context"
	"fmt"
	"time"

	"github.com/hotker/blogcollector/internal/editorial"
	"github.com/hotker/blogcollector/internal/hexo"
	"github.com/hotker/blogcollector/internal/state"
)

// ContentStore is the destination for rendered documents.
type ContentStore interface {
	Exists(ctx context.Context, path string) (bool, error)
	Create(ctx context.Context, path, message string, content []byte) error
}

// Result reports where a post landed, or that it was skipped because the
// destination path already held a document (slug collision guard).
type Result struct {
	Path    string
	Skipped bool
}

type Publisher struct {
	store ContentStore
	index *state.Index
	now   func() time.Time
}

func NewPublisher(store ContentStore, index *state.Index) *Publisher {
	return &Publisher{store: store, index: index, now: time.Now}
}

// Publish writes the rendered document and appends a record to the
// index. A pre-existing document at the destination is a non-fatal skip;
// transport failures are returned to the caller and not retried here.
func (p *Publisher) Publish(ctx context.Context, article *editorial.Article, rendered, sourceURL string) (Result, error) {
	now := p.now()
	path := "source/_posts/" + hexo.Filename(article.Title, now)

	exists, err := p.store.Exists(ctx, path)
	if err != nil {
		return Result{}, fmt.Errorf("check destination: %w", err)
	}
	if exists {
		return Result{Path: path, Skipped: true}, nil
	}

	message := fmt.Sprintf("Auto: 新增文章 - %s", article.Title)
	if err := p.store.Create(ctx, path, message, []byte(rendered)); err != nil {
		return Result{}, fmt.Errorf("create document: %w", err)
	}

	rec := state.Record{
		SourceURL:   sourceURL,
		Title:       article.Title,
		PublishedAt: now,
		HexoPath:    path,
	}
	if err := p.index.Append(rec); err != nil {
		// The document was written; a failed index update means the URL
		// may be re-offered next run. The store's existence check bounds
		// the damage to one skipped duplicate attempt.
		return Result{Path: path}, fmt.Errorf("update publish index: %w", err)
	}

	return Result{Path: path}, nil
}
