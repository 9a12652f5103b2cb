package covers

import (
	"context"
	"errors"
	"math/rand"
	"os"
	"strings"
	"testing"

	"github.com/hotker/blogcollector/internal/logger"
	"github.com/hotker/blogcollector/internal/ratelimit"
)

func TestMain(m *testing.M) {
	logger.Init(false)
	os.Exit(m.Run())
}

type stubProvider struct {
	name  string
	url   string
	err   error
	calls int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Attempt(context.Context, Request) (string, error) {
	s.calls++
	return s.url, s.err
}

func TestResolveFirstProviderWins(t *testing.T) {
	first := &stubProvider{name: "first", url: "https://img.example/one.png"}
	second := &stubProvider{name: "second", url: "https://img.example/two.png"}
	r := NewResolver(nil, []Provider{first, second}, NewPool(rand.New(rand.NewSource(1))), ratelimit.NewAIBudget(0, 0), "")

	got := r.Resolve(context.Background(), "Title", nil, "")
	if got != first.url {
		t.Errorf("Resolve = %q, want first provider URL", got)
	}
	if second.calls != 0 {
		t.Errorf("second provider attempted %d times after a success", second.calls)
	}
}

func TestResolveFailingChainFallsBackToPool(t *testing.T) {
	broken := &stubProvider{name: "broken", err: errors.New("no service")}
	empty := &stubProvider{name: "empty"}
	r := NewResolver(nil, []Provider{broken, empty}, NewPool(rand.New(rand.NewSource(1))), ratelimit.NewAIBudget(0, 0), "")

	got := r.Resolve(context.Background(), "GPT model release", []string{"llm"}, "")
	if got == "" {
		t.Fatal("Resolve returned empty URL")
	}
	if !strings.HasPrefix(got, "https://imagine.hotker.com/covers/") {
		t.Errorf("fallback not from pool: %q", got)
	}
	if broken.calls != 1 || empty.calls != 1 {
		t.Errorf("provider calls = %d/%d, want 1/1", broken.calls, empty.calls)
	}
}

func TestResolveExhaustedImageBudgetSkipsProviders(t *testing.T) {
	p := &stubProvider{name: "paid", url: "https://img.example/paid.png"}
	budget := ratelimit.NewAIBudget(0, 1)
	if err := budget.UseImage(); err != nil {
		t.Fatalf("UseImage: %v", err)
	}
	r := NewResolver(nil, []Provider{p}, NewPool(rand.New(rand.NewSource(1))), budget, "")

	got := r.Resolve(context.Background(), "robot humanoid demo", nil, "")
	if p.calls != 0 {
		t.Errorf("provider attempted %d times with spent budget", p.calls)
	}
	if got == "" {
		t.Fatal("Resolve returned empty URL")
	}
}

func TestPoolPickMatchesKeywordCategory(t *testing.T) {
	pool := NewPool(rand.New(rand.NewSource(7)))

	got := pool.Pick("新一轮融资落地", []string{"startup"}, "估值翻倍")
	found := false
	for _, img := range defaultCategories[2].images {
		if got == img {
			found = true
		}
	}
	if !found {
		t.Errorf("Pick = %q, want a business-category cover", got)
	}
}

func TestPoolPickZeroMatchesStaysInPool(t *testing.T) {
	pool := NewPool(rand.New(rand.NewSource(3)))

	got := pool.Pick("完全无关的标题", nil, "")
	found := false
	for _, img := range pool.all {
		if got == img {
			found = true
		}
	}
	if !found {
		t.Errorf("Pick = %q, not a pool member", got)
	}
}

func TestPoolPickHigherHitCountWins(t *testing.T) {
	pool := NewPool(rand.New(rand.NewSource(11)))

	// two model keywords against one code keyword
	got := pool.Pick("OpenAI ships new LLM", []string{"api"}, "")
	found := false
	for _, img := range defaultCategories[0].images {
		if got == img {
			found = true
		}
	}
	if !found {
		t.Errorf("Pick = %q, want a models-category cover", got)
	}
}
