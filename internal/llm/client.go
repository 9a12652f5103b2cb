// Package llm talks to OpenAI-compatible chat completion APIs.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hotker/blogcollector/internal/retry"
)

// Chat is the capability the editorial pipeline needs from a model.
type Chat interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Client implements Chat against an OpenAI-compatible endpoint.
type Client struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
	retryCfg   retry.Config
}

var _ Chat = (*Client)(nil)

// NewClient builds a chat client. A missing API key is a construction
// error, not a lazy runtime failure.
func NewClient(baseURL, model, apiKey string, timeout time.Duration, retryCfg retry.Config) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if baseURL == "" || model == "" {
		return nil, fmt.Errorf("chat client misconfigured: base URL and model are required")
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		retryCfg:   retryCfg,
	}, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete posts the prompt pair and returns the raw model answer.
// Transient 5xx responses are retried; 4xx responses are terminal.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if systemPrompt == "" {
		systemPrompt = "You are a helpful assistant. You MUST respond with ONLY valid JSON."
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: 0.7,
		MaxTokens:   4096,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat payload: %w", err)
	}

	var answer string
	err = retry.WithRetry(ctx, c.retryCfg, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
		if err != nil {
			return retry.Permanent(err)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return err
		}

		if resp.StatusCode >= 500 {
			return fmt.Errorf("chat API error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
		}
		if resp.StatusCode != http.StatusOK {
			return retry.Permanent(fmt.Errorf("chat API error %s: %s", resp.Status, strings.TrimSpace(string(payload))))
		}

		var parsed chatResponse
		if err := json.Unmarshal(payload, &parsed); err != nil {
			return retry.Permanent(fmt.Errorf("decode chat response: %w", err))
		}
		if len(parsed.Choices) == 0 {
			return retry.Permanent(fmt.Errorf("no choices in chat response"))
		}
		answer = parsed.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", err
	}
	return answer, nil
}
