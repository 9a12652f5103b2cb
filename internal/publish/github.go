package publish

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"
)

// GitHubStore writes documents into a GitHub repository through the
// contents API.
type GitHubStore struct {
	client *github.Client
	owner  string
	repo   string
	branch string
}

var _ ContentStore = (*GitHubStore)(nil)

// NewGitHubStore builds the store. Missing token or a malformed
// "owner/name" repo string fail at construction time.
func NewGitHubStore(ctx context.Context, token, targetRepo, branch string) (*GitHubStore, error) {
	if token == "" {
		return nil, fmt.Errorf("GITHUB_TOKEN is required")
	}
	parts := strings.SplitN(targetRepo, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("target repo must be owner/name, got %q", targetRepo)
	}
	if branch == "" {
		branch = "main"
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)

	return &GitHubStore{
		client: github.NewClient(tc),
		owner:  parts[0],
		repo:   parts[1],
		branch: branch,
	}, nil
}

func (s *GitHubStore) Exists(ctx context.Context, path string) (bool, error) {
	_, _, resp, err := s.client.Repositories.GetContents(ctx, s.owner, s.repo, path,
		&github.RepositoryContentGetOptions{Ref: s.branch})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *GitHubStore) Create(ctx context.Context, path, message string, content []byte) error {
	_, _, err := s.client.Repositories.CreateFile(ctx, s.owner, s.repo, path,
		&github.RepositoryContentFileOptions{
			Message: github.String(message),
			Content: content,
			Branch:  github.String(s.branch),
		})
	return err
}
