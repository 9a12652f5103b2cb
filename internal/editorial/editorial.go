// Package editorial drives the AI editorial room pipeline:
// Triage -> Critique -> Write.
package editorial

import (
	"context"
	"fmt"
	"strings"

	"github.com/hotker/blogcollector/internal/collect"
	"github.com/hotker/blogcollector/internal/llm"
	"github.com/hotker/blogcollector/internal/logger"
	"github.com/hotker/blogcollector/internal/persona"
	"github.com/hotker/blogcollector/internal/ratelimit"
)

const (
	triageExcerptLen   = 1000
	critiqueExcerptLen = 3000
	writeExcerptLen    = 6000
)

// Article is the structured payload produced for one candidate.
type Article struct {
	Title      string   `json:"title"`
	Summary    string   `json:"summary"`
	Tags       []string `json:"tags"`
	Categories []string `json:"categories"`
	Content    string   `json:"content"`
	PersonaID  string   `json:"-"`
}

type Options struct {
	EnableTriage   bool
	EnableCritique bool
	DefaultPersona string
}

// Room orchestrates the per-candidate rewrite pipeline.
type Room struct {
	chat   llm.Chat
	budget *ratelimit.AIBudget
	opts   Options
}

func NewRoom(chat llm.Chat, budget *ratelimit.AIBudget, opts Options) *Room {
	if opts.DefaultPersona == "" || !persona.Known(opts.DefaultPersona) {
		opts.DefaultPersona = persona.DefaultID
	}
	return &Room{chat: chat, budget: budget, opts: opts}
}

// Rewrite runs the pipeline for one candidate. Triage and critique
// failures degrade to defaults; a generate failure drops the candidate.
func (r *Room) Rewrite(ctx context.Context, cand collect.Candidate) (*Article, error) {
	personaID := r.opts.DefaultPersona
	if r.opts.EnableTriage {
		personaID = r.triage(ctx, cand)
	}
	p := persona.Get(personaID)
	logger.Info("editorial persona selected", "title", excerpt(cand.Title, 40), "persona", p.Name)

	var critique string
	if r.opts.EnableCritique {
		critique = r.critique(ctx, cand, p)
	}

	article, err := r.write(ctx, cand, p, critique)
	if err != nil {
		return nil, err
	}
	article.PersonaID = p.ID
	return article, nil
}

type triageAnswer struct {
	Persona string `json:"persona"`
	Reason  string `json:"reason"`
}

// triage asks the model to pick a persona. Any failure or unrecognized
// answer falls back to the default; triage never aborts a candidate.
func (r *Room) triage(ctx context.Context, cand collect.Candidate) string {
	if !r.budget.CanUseChat() {
		return r.opts.DefaultPersona
	}

	prompt := fmt.Sprintf(`Analyze the following tech article and select the most suitable editorial persona to rewrite it.

Article Title: %s
Article Excerpt: %s

Personas:
1. 'philosopher': For news about AI ethics, society, policy, or future humanity.
2. 'geek': For new tools, code releases, benchmarks, technical tutorials.
3. 'observer': For funding news, acquisitions, business strategy, market analysis.

Return ONLY a JSON object: {"persona": "philosopher" | "geek" | "observer", "reason": "short explanation"}`,
		cand.Title, excerpt(cand.Body, triageExcerptLen))

	if err := r.budget.UseChat(); err != nil {
		return r.opts.DefaultPersona
	}
	raw, err := r.chat.Complete(ctx, "You are an Editor-in-Chief. Output JSON only.", prompt)
	if err != nil {
		logger.Warn("triage failed", "error", err)
		return r.opts.DefaultPersona
	}

	var answer triageAnswer
	if err := llm.ExtractJSON(raw, &answer); err != nil {
		logger.Warn("triage answer unparseable", "error", err)
		return r.opts.DefaultPersona
	}

	pid := strings.ToLower(strings.TrimSpace(answer.Persona))
	if !persona.Known(pid) {
		logger.Warn("triage picked unknown persona", "persona", pid)
		return r.opts.DefaultPersona
	}
	return pid
}

type critiqueAnswer struct {
	Insights []string `json:"insights"`
}

// critique generates three bullet insights. Best-effort: any failure
// yields an empty critique.
func (r *Room) critique(ctx context.Context, cand collect.Candidate, p persona.Persona) string {
	if !r.budget.CanUseChat() {
		return ""
	}

	prompt := fmt.Sprintf(`Read this article and identify 3 critical angles or deep insights to explore.

Article Title: %s
Article Content: %s

Your Persona: %s
%s

Task: Provide 3 short, sharp, bullet-pointed insights that add depth to this story.
Focus on what is NOT said in the text.
Return JSON: {"insights": ["insight 1", "insight 2", "insight 3"]}`,
		cand.Title, excerpt(cand.Body, critiqueExcerptLen), p.Name, p.SystemPrompt)

	if err := r.budget.UseChat(); err != nil {
		return ""
	}
	raw, err := r.chat.Complete(ctx, "You are an Analyst. Output JSON only.", prompt)
	if err != nil {
		logger.Debug("critique failed", "error", err)
		return ""
	}

	var answer critiqueAnswer
	if err := llm.ExtractJSON(raw, &answer); err != nil || len(answer.Insights) == 0 {
		return ""
	}

	var b strings.Builder
	for _, insight := range answer.Insights {
		b.WriteString("- ")
		b.WriteString(insight)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// write is the mandatory generation stage. Missing required fields fail
// the candidate.
func (r *Room) write(ctx context.Context, cand collect.Candidate, p persona.Persona, critique string) (*Article, error) {
	critiqueSection := ""
	if critique != "" {
		critiqueSection = fmt.Sprintf("\nCritical Insights to Incorporate:\n%s\n", critique)
	}

	prompt := fmt.Sprintf(`你是一位专业的AI领域技术博主。请基于以下原文，创作一篇全新的中文博客文章。

【当前人设】：%s (%s)
请务必坚持这个人设的语气和关注点！
%s

【原文信息】
标题：%s
来源：%s
链接：%s
内容：
%s

%s

【写作要求】
1. 深度重写，拒绝简单的翻译或搬运。
2. 必须融入【当前人设】的独特视角和语调。
3. 如果有"Critical Insights"，请自然地整合到文章分析中。
4. 结构清晰：引人入胜的标题 -> 独特的切入点 -> 核心分析 -> 总结与展望。
5. 字数：1000-2000字。

请严格按照以下JSON格式输出（不要添加任何其他文字）：
{
    "title": "中文标题（必须符合人设风格）",
    "summary": "一句话摘要（50字以内）",
    "tags": ["标签1", "标签2", "标签3"],
    "categories": ["AI资讯"],
    "content": "正文内容（Markdown格式，包含小标题和段落）"
}`,
		p.Name, p.Description, p.SystemPrompt,
		cand.Title, cand.SourceName, cand.URL,
		excerpt(cand.Body, writeExcerptLen),
		critiqueSection)

	if err := r.budget.UseChat(); err != nil {
		return nil, err
	}
	raw, err := r.chat.Complete(ctx, fmt.Sprintf("You are %s. You output ONLY valid JSON.", p.Name), prompt)
	if err != nil {
		return nil, fmt.Errorf("generate stage failed: %w", err)
	}

	var article Article
	if err := llm.ExtractJSON(raw, &article); err != nil {
		return nil, fmt.Errorf("generate stage returned no JSON object: %w", err)
	}
	if err := validateArticle(&article); err != nil {
		return nil, fmt.Errorf("generate stage incomplete: %w", err)
	}
	return &article, nil
}

func validateArticle(a *Article) error {
	switch {
	case a.Title == "":
		return fmt.Errorf("missing field: title")
	case a.Summary == "":
		return fmt.Errorf("missing field: summary")
	case len(a.Tags) == 0:
		return fmt.Errorf("missing field: tags")
	case len(a.Categories) == 0:
		return fmt.Errorf("missing field: categories")
	case a.Content == "":
		return fmt.Errorf("missing field: content")
	}
	return nil
}

// excerpt truncates on a rune boundary to bound prompt size.
func excerpt(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
