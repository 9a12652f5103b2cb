package covers

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/hotker/blogcollector/internal/llm"
)

const (
	defaultKeywords = "artificial intelligence, technology, innovation"
	defaultStyle    = "futuristic tech"
)

// Analysis is the keyword/style pair fed to the image providers.
type Analysis struct {
	Keywords string `json:"keywords"`
	Style    string `json:"style"`
}

// Analyzer asks Gemini to distill article metadata into image keywords
// and a style hint.
type Analyzer struct {
	client *genai.Client
}

func NewAnalyzer(ctx context.Context, apiKey string) (*Analyzer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Analyzer{client: client}, nil
}

func (a *Analyzer) Close() {
	if a.client != nil {
		a.client.Close()
	}
}

// Analyze returns defaults on any failure; cover analysis never blocks
// the chain.
func (a *Analyzer) Analyze(ctx context.Context, title string, tags []string, summary string) Analysis {
	fallback := Analysis{Keywords: defaultKeywords, Style: defaultStyle}

	if len(summary) > 500 {
		summary = summary[:500]
	}
	prompt := fmt.Sprintf(`分析以下文章内容，提取关键词和推荐的封面图片风格。

标题: %s
标签: %s
摘要: %s

请用JSON格式返回:
{
    "keywords": "3-5个英文关键词，用逗号分隔",
    "style": "推荐的图片风格，从以下选择一个: futuristic tech, digital art, minimalist illustration, abstract geometric, cyberpunk, clean modern"
}

只返回JSON，不要其他内容。`, title, strings.Join(tags, ", "), summary)

	model := a.client.GenerativeModel("gemini-1.5-flash")
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return fallback
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return fallback
	}

	raw := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])

	var analysis Analysis
	if err := llm.ExtractJSON(raw, &analysis); err != nil {
		return fallback
	}
	if analysis.Keywords == "" {
		analysis.Keywords = defaultKeywords
	}
	if analysis.Style == "" {
		analysis.Style = defaultStyle
	}
	return analysis
}
