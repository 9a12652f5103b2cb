package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Collection settings
	SourcesFile    string
	StateFile      string
	MaxCandidates  int           // candidates kept after dedup/freshness filter
	MaxArticles    int           // candidates rewritten and published per run
	RecencyWindow  time.Duration // drop candidates older than this
	PerSourceLimit int

	// Editorial settings
	EnableTriage   bool
	EnableCritique bool
	DefaultPersona string

	// OpenAI-compatible chat API
	OpenAIKey   string
	OpenAIBase  string
	OpenAIModel string

	// Gemini (cover analysis + image generation)
	GeminiAPIKey string

	// Cover hosting
	UploadURL        string
	ImageBaseURL     string
	FallbackCoverURL string

	// Publishing
	GitHubToken string
	TargetRepo  string
	Branch      string

	// HTTP policy
	RequestTimeout time.Duration // fetch/chat calls
	ImageTimeout   time.Duration // remote image synthesis is slow
	RetryAttempts  int
	RetryDelay     time.Duration

	// AI call budget per run (0 = unlimited)
	MaxChatCalls  int
	MaxImageCalls int

	Debug bool
}

// fileConfig mirrors config.yaml.
type fileConfig struct {
	MaxArticlesPerRun int    `yaml:"max_articles_per_run"`
	MaxCandidates     int    `yaml:"max_candidates"`
	RecencyDays       int    `yaml:"recency_days"`
	TargetRepo        string `yaml:"target_repo"`
	Branch            string `yaml:"branch"`
	SourcesFile       string `yaml:"sources_file"`
	StateFile         string `yaml:"state_file"`
	Editorial         struct {
		EnableAutoTriage *bool  `yaml:"enable_auto_triage"`
		EnableCritique   *bool  `yaml:"enable_critique"`
		DefaultPersona   string `yaml:"default_persona"`
	} `yaml:"editorial"`
	Covers struct {
		UploadURL    string `yaml:"upload_url"`
		ImageBaseURL string `yaml:"image_base_url"`
		FallbackURL  string `yaml:"fallback_url"`
	} `yaml:"covers"`
}

// Load builds the config from defaults, an optional config.yaml and
// environment overrides. Credentials come from the environment only.
func Load(path string) (*Config, error) {
	cfg := &Config{
		SourcesFile:    "configs/sources.yaml",
		StateFile:      "state/published.json",
		MaxCandidates:  5,
		MaxArticles:    2,
		RecencyWindow:  72 * time.Hour,
		PerSourceLimit: 5,
		EnableTriage:   true,
		EnableCritique: true,
		DefaultPersona: "geek",
		OpenAIBase:     "https://api.hotker.com/v1",
		OpenAIModel:    "gpt-4o-mini",
		UploadURL:      "https://imagine.hotker.com/upload",
		ImageBaseURL:   "https://imagine.hotker.com",
		TargetRepo:     "hotker/hexo-blog",
		Branch:         "main",
		RequestTimeout: 30 * time.Second,
		ImageTimeout:   3 * time.Minute,
		RetryAttempts:  3,
		RetryDelay:     2 * time.Second,
		MaxChatCalls:   20,
		MaxImageCalls:  5,
	}

	if path != "" {
		if raw, err := os.ReadFile(path); err == nil {
			var fc fileConfig
			if err := yaml.Unmarshal(raw, &fc); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
			cfg.applyFile(fc)
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	return cfg, cfg.Validate()
}

func (c *Config) applyFile(fc fileConfig) {
	if fc.MaxArticlesPerRun > 0 {
		c.MaxArticles = fc.MaxArticlesPerRun
	}
	if fc.MaxCandidates > 0 {
		c.MaxCandidates = fc.MaxCandidates
	}
	if fc.RecencyDays > 0 {
		c.RecencyWindow = time.Duration(fc.RecencyDays) * 24 * time.Hour
	}
	if fc.TargetRepo != "" {
		c.TargetRepo = fc.TargetRepo
	}
	if fc.Branch != "" {
		c.Branch = fc.Branch
	}
	if fc.SourcesFile != "" {
		c.SourcesFile = fc.SourcesFile
	}
	if fc.StateFile != "" {
		c.StateFile = fc.StateFile
	}
	if fc.Editorial.EnableAutoTriage != nil {
		c.EnableTriage = *fc.Editorial.EnableAutoTriage
	}
	if fc.Editorial.EnableCritique != nil {
		c.EnableCritique = *fc.Editorial.EnableCritique
	}
	if fc.Editorial.DefaultPersona != "" {
		c.DefaultPersona = fc.Editorial.DefaultPersona
	}
	if fc.Covers.UploadURL != "" {
		c.UploadURL = fc.Covers.UploadURL
	}
	if fc.Covers.ImageBaseURL != "" {
		c.ImageBaseURL = fc.Covers.ImageBaseURL
	}
	if fc.Covers.FallbackURL != "" {
		c.FallbackCoverURL = fc.Covers.FallbackURL
	}
}

func (c *Config) applyEnv() {
	c.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	c.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	c.GitHubToken = os.Getenv("GITHUB_TOKEN")

	if v := os.Getenv("OPENAI_API_BASE"); v != "" {
		c.OpenAIBase = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		c.OpenAIModel = v
	}
	if v := os.Getenv("UPLOAD_URL"); v != "" {
		c.UploadURL = v
	}
	if v := os.Getenv("TARGET_REPO"); v != "" {
		c.TargetRepo = v
	}
	if v := os.Getenv("MAX_ARTICLES_PER_RUN"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			c.MaxArticles = val
		}
	}
	if v := os.Getenv("MAX_CHAT_CALLS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val >= 0 {
			c.MaxChatCalls = val
		}
	}
	if v := os.Getenv("MAX_IMAGE_CALLS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val >= 0 {
			c.MaxImageCalls = val
		}
	}
	if os.Getenv("DEBUG") == "true" {
		c.Debug = true
	}
}

func (c *Config) Validate() error {
	if c.OpenAIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.GitHubToken == "" {
		return fmt.Errorf("GITHUB_TOKEN is required")
	}
	if c.MaxArticles <= 0 {
		return fmt.Errorf("max_articles_per_run must be positive")
	}
	if c.MaxCandidates <= 0 {
		return fmt.Errorf("max_candidates must be positive")
	}
	return nil
}
