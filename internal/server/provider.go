package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hasanabusheikh26/superprompt/internal/utils"
	"github.com/tidwall/gjson"
)

// Provider rewrites text according to a style or free-text instruction.
type Provider interface {
	Enhance(ctx context.Context, text, style string) (string, error)
}

// ProviderConfig controls how the LLM-backed provider behaves.
type ProviderConfig struct {
	Name       string // only "openai" is supported
	APIKey     string
	Model      string
	Endpoint   string
	HTTPClient *http.Client
}

const (
	defaultProviderName = "openai"
	defaultModel        = "gpt-4o-mini"
	defaultEndpoint     = "https://api.openai.com/v1/chat/completions"
)

// stylePrompts maps the named enhancement styles to their rewrite
// instructions. Free-text instructions bypass this map.
var stylePrompts = map[string]string{
	"improve":      "Improve this text to make it clearer and more effective",
	"professional": "Rewrite this text in a professional, formal tone",
	"creative":     "Rewrite this text to be more creative and engaging",
	"engaging":     "Make this text more engaging and interesting to read",
}

// NewProvider builds a provider from the config. Without an API key it
// falls back to the deterministic rule-based provider, so the server
// stays usable offline.
func NewProvider(cfg ProviderConfig) (Provider, error) {
	cfg.Name = strings.TrimSpace(strings.ToLower(cfg.Name))
	if cfg.Name == "" {
		cfg.Name = defaultProviderName
	}
	if cfg.APIKey == "" {
		utils.Log.Info("no provider API key configured, using rule-based enhancement")
		return &ruleProvider{}, nil
	}

	switch cfg.Name {
	case "openai":
		return newOpenAIProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Name)
	}
}

type openAIProvider struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
	fallback ruleProvider
}

func newOpenAIProvider(cfg ProviderConfig) *openAIProvider {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 45 * time.Second}
	}
	return &openAIProvider{apiKey: cfg.APIKey, model: model, endpoint: endpoint, client: client}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (p *openAIProvider) Enhance(ctx context.Context, text, style string) (string, error) {
	instruction, ok := stylePrompts[style]
	if !ok {
		instruction = style
	}

	body, err := json.Marshal(chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a text enhancement assistant. Improve the given text according to the requested style. Return only the rewritten text."},
			{Role: "user", Content: fmt.Sprintf("%s: %q", instruction, text)},
		},
		MaxTokens:   1024,
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		utils.Log.Warnf("provider call failed, using rule-based fallback: %v", err)
		return p.fallback.Enhance(ctx, text, style)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		utils.Log.Warnf("provider returned %d, using rule-based fallback", resp.StatusCode)
		return p.fallback.Enhance(ctx, text, style)
	}

	content := gjson.GetBytes(buf.Bytes(), "choices.0.message.content").String()
	if strings.TrimSpace(content) == "" {
		return "", errors.New("provider response missing content")
	}
	return strings.TrimSpace(content), nil
}

// ruleProvider is the deterministic offline enhancement used when no
// provider credentials are configured or the provider call fails.
type ruleProvider struct{}

func (ruleProvider) Enhance(_ context.Context, text, style string) (string, error) {
	switch style {
	case "professional":
		replacer := strings.NewReplacer(
			"wanna", "want to",
			"gonna", "going to",
			"cant", "cannot",
			"dont", "do not",
		)
		return replacer.Replace(text) + ". Furthermore, this approach ensures professional standards are maintained throughout the process.", nil
	case "creative":
		return "Imagine this: " + text + " This opens up exciting possibilities for innovation and creative exploration.", nil
	case "engaging":
		return "Did you know that " + strings.ToLower(text) + "? This fascinating insight invites us to explore further!", nil
	default: // improve
		if len(text) < 50 {
			return text + " This statement provides a clear and concise overview of the topic, offering valuable insights for deeper understanding.", nil
		}
		return "Enhanced version: " + text + " (improved for clarity and readability)", nil
	}
}
