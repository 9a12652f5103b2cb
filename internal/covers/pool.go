package covers

import (
	"math/rand"
	"strings"
)

// poolCategory groups curated covers under a keyword set.
type poolCategory struct {
	name     string
	keywords []string
	images   []string
}

// The curated fallback set. Every URL must stay reachable; the resolver
// leans on this pool whenever the whole provider chain fails.
var defaultCategories = []poolCategory{
	{
		name:     "models",
		keywords: []string{"gpt", "llm", "model", "大模型", "chatgpt", "claude", "gemini", "openai", "anthropic", "transformer", "推理"},
		images: []string{
			"https://imagine.hotker.com/covers/neural-grid.png",
			"https://imagine.hotker.com/covers/model-weights.png",
			"https://imagine.hotker.com/covers/chat-sphere.png",
		},
	},
	{
		name:     "robotics",
		keywords: []string{"robot", "机器人", "humanoid", "drone", "autonomous", "self-driving", "具身"},
		images: []string{
			"https://imagine.hotker.com/covers/robot-arm.png",
			"https://imagine.hotker.com/covers/humanoid-lab.png",
		},
	},
	{
		name:     "business",
		keywords: []string{"funding", "融资", "acquisition", "收购", "ipo", "startup", "创业", "market", "估值"},
		images: []string{
			"https://imagine.hotker.com/covers/market-chart.png",
			"https://imagine.hotker.com/covers/boardroom.png",
		},
	},
	{
		name:     "research",
		keywords: []string{"paper", "research", "论文", "benchmark", "dataset", "arxiv", "study", "实验"},
		images: []string{
			"https://imagine.hotker.com/covers/lab-notes.png",
			"https://imagine.hotker.com/covers/equations.png",
		},
	},
	{
		name:     "code",
		keywords: []string{"code", "开源", "open source", "github", "framework", "sdk", "api", "developer", "编程"},
		images: []string{
			"https://imagine.hotker.com/covers/terminal-glow.png",
			"https://imagine.hotker.com/covers/git-graph.png",
		},
	},
}

// Pool picks a curated cover keyword-matched against article metadata.
type Pool struct {
	categories []poolCategory
	all        []string
	rng        *rand.Rand
}

func NewPool(rng *rand.Rand) *Pool {
	p := &Pool{categories: defaultCategories, rng: rng}
	for _, cat := range p.categories {
		p.all = append(p.all, cat.images...)
	}
	return p
}

// Pick returns a pool member: the category with the highest keyword-hit
// count wins, ties broken randomly among the tied categories, zero
// matches means a uniform random choice over the whole pool.
func (p *Pool) Pick(title string, tags []string, summary string) string {
	text := strings.ToLower(title + " " + strings.Join(tags, " ") + " " + summary)

	best := 0
	var tied []poolCategory
	for _, cat := range p.categories {
		hits := 0
		for _, kw := range cat.keywords {
			if strings.Contains(text, kw) {
				hits++
			}
		}
		switch {
		case hits > best:
			best = hits
			tied = []poolCategory{cat}
		case hits == best && hits > 0:
			tied = append(tied, cat)
		}
	}

	if best == 0 {
		return p.all[p.rng.Intn(len(p.all))]
	}

	images := tied[p.rng.Intn(len(tied))].images
	return images[p.rng.Intn(len(images))]
}
