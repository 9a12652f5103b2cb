package covers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Request carries everything a provider needs to produce a cover.
type Request struct {
	Title    string
	Tags     []string
	Summary  string
	Keywords string
	Style    string
}

func (r Request) prompt() string {
	return fmt.Sprintf("Create a blog cover image. Theme: %s. Style: %s. Visually appealing, professional, suitable for a tech blog header. No text in the image.", r.Keywords, r.Style)
}

// Provider is one strategy in the cover acquisition chain. Attempt
// returns a hosted image URL or an error; the chain moves on at the
// first error and stops at the first success.
type Provider interface {
	Name() string
	Attempt(ctx context.Context, req Request) (string, error)
}

// urlProvider builds a generation-by-URL cover (keywords baked into the
// request path) and verifies the endpoint actually serves it. No upload
// step is needed.
type urlProvider struct {
	baseURL    string
	httpClient *http.Client
}

func NewURLProvider(baseURL string, client *http.Client) Provider {
	if baseURL == "" {
		baseURL = "https://image.pollinations.ai/prompt"
	}
	return &urlProvider{baseURL: strings.TrimRight(baseURL, "/"), httpClient: client}
}

func (p *urlProvider) Name() string { return "direct-url" }

func (p *urlProvider) Attempt(ctx context.Context, req Request) (string, error) {
	imageURL := fmt.Sprintf("%s/%s?width=1600&height=900&nologo=true",
		p.baseURL, url.PathEscape(req.prompt()))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image endpoint returned status %d", resp.StatusCode)
	}
	return imageURL, nil
}

// geminiImageProvider generates image bytes through the Imagen predict
// endpoint and pushes them through the hosting upload path.
type geminiImageProvider struct {
	apiKey     string
	model      string
	httpClient *http.Client
	uploader   *Uploader
}

func NewGeminiImageProvider(apiKey string, client *http.Client, uploader *Uploader) Provider {
	return &geminiImageProvider{
		apiKey:     apiKey,
		model:      "imagen-3.0-generate-002",
		httpClient: client,
		uploader:   uploader,
	}
}

func (p *geminiImageProvider) Name() string { return "gemini-imagen" }

type imagenRequest struct {
	Instances []struct {
		Prompt string `json:"prompt"`
	} `json:"instances"`
	Parameters struct {
		SampleCount int    `json:"sampleCount"`
		AspectRatio string `json:"aspectRatio"`
	} `json:"parameters"`
}

type imagenResponse struct {
	Predictions []struct {
		BytesBase64Encoded string `json:"bytesBase64Encoded"`
	} `json:"predictions"`
}

func (p *geminiImageProvider) Attempt(ctx context.Context, req Request) (string, error) {
	if p.apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY not set")
	}

	var body imagenRequest
	body.Instances = append(body.Instances, struct {
		Prompt string `json:"prompt"`
	}{Prompt: req.prompt()})
	body.Parameters.SampleCount = 1
	body.Parameters.AspectRatio = "16:9"

	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:predict?key=%s", p.model, p.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("imagen error: status %d", resp.StatusCode)
	}

	var parsed imagenResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode imagen response: %w", err)
	}
	if len(parsed.Predictions) == 0 || parsed.Predictions[0].BytesBase64Encoded == "" {
		return "", fmt.Errorf("imagen returned no image")
	}

	data, err := base64.StdEncoding.DecodeString(parsed.Predictions[0].BytesBase64Encoded)
	if err != nil {
		return "", fmt.Errorf("decode image bytes: %w", err)
	}
	return p.uploader.Upload(ctx, data)
}

// openaiImageProvider is the alternate generation path: an OpenAI-
// compatible images endpoint, with the same upload step as Gemini.
type openaiImageProvider struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
	uploader   *Uploader
}

func NewOpenAIImageProvider(baseURL, apiKey string, client *http.Client, uploader *Uploader) Provider {
	return &openaiImageProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      "dall-e-3",
		apiKey:     apiKey,
		httpClient: client,
		uploader:   uploader,
	}
}

func (p *openaiImageProvider) Name() string { return "openai-images" }

type openaiImageResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

func (p *openaiImageProvider) Attempt(ctx context.Context, req Request) (string, error) {
	if p.apiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY not set")
	}

	payload, err := json.Marshal(map[string]any{
		"model":           p.model,
		"prompt":          req.prompt(),
		"n":               1,
		"size":            "1792x1024",
		"response_format": "b64_json",
	})
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/images/generations", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("images API error: status %d", resp.StatusCode)
	}

	var parsed openaiImageResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode images response: %w", err)
	}
	if len(parsed.Data) == 0 || parsed.Data[0].B64JSON == "" {
		return "", fmt.Errorf("images API returned no image")
	}

	data, err := base64.StdEncoding.DecodeString(parsed.Data[0].B64JSON)
	if err != nil {
		return "", fmt.Errorf("decode image bytes: %w", err)
	}
	return p.uploader.Upload(ctx, data)
}
