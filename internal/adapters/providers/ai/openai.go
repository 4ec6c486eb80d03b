package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/vitalpoint/backend/internal/domain/providers"
	"github.com/vitalpoint/backend/pkg/config"
)

const openAIBaseURL = "https://api.openai.com/v1"

// OpenAIProvider implements the AIProvider interface against the
// OpenAI chat completions API.
type OpenAIProvider struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	limiter    *tokenBucket
}

// NewOpenAIProvider creates a new OpenAI provider adapter
func NewOpenAIProvider(cfg *config.AIProviderConfig) (*OpenAIProvider, error) {
	return NewOpenAIProviderWithOptions(cfg, openAIBaseURL, nil)
}

// NewOpenAIProviderWithOptions allows overriding base URL and HTTP
// client (used for tests)
func NewOpenAIProviderWithOptions(cfg *config.AIProviderConfig, baseURL string, httpClient *http.Client) (*OpenAIProvider, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("openai api key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = openAIBaseURL
	}
	if httpClient == nil {
		timeout := defaultHTTPTimeout
		if cfg.TimeoutSeconds > 0 {
			timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &OpenAIProvider{
		apiKey:     cfg.APIKey,
		model:      model,
		baseURL:    baseURL,
		httpClient: httpClient,
		limiter:    newTokenBucket(cfg.RateLimitRPM, cfg.RateLimitBurst),
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string { return "openai" }

// Model returns the configured model identifier
func (p *OpenAIProvider) Model() string { return p.model }

// Chat handles conversational health questions
func (p *OpenAIProvider) Chat(ctx context.Context, req *providers.AIRequest) (json.RawMessage, error) {
	return p.complete(ctx, req)
}

// Analyze handles symptom and nutrition analysis requests
func (p *OpenAIProvider) Analyze(ctx context.Context, req *providers.AIRequest) (json.RawMessage, error) {
	return p.complete(ctx, req)
}

// Predict handles fitness planning requests
func (p *OpenAIProvider) Predict(ctx context.Context, req *providers.AIRequest) (json.RawMessage, error) {
	return p.complete(ctx, req)
}

// Educate produces patient-education content
func (p *OpenAIProvider) Educate(ctx context.Context, req *providers.AIRequest) (json.RawMessage, error) {
	return p.complete(ctx, req)
}

// ProcessEmotion handles mental health requests
func (p *OpenAIProvider) ProcessEmotion(ctx context.Context, req *providers.AIRequest) (json.RawMessage, error) {
	return p.complete(ctx, req)
}

type openAIChatRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (p *OpenAIProvider) complete(ctx context.Context, req *providers.AIRequest) (json.RawMessage, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	userPrompt, err := buildUserPrompt(req)
	if err != nil {
		return nil, err
	}

	payload := openAIChatRequest{
		Model: p.model,
		Messages: []openAIMessage{
			{Role: "system", Content: buildSystemPrompt(req)},
			{Role: "user", Content: userPrompt},
		},
		Temperature: 0.2,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		recordRequestMetric(ctx, p.Name(), p.model, 0, time.Since(start), err)
		return nil, fmt.Errorf("openai request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		recordRequestMetric(ctx, p.Name(), p.model, resp.StatusCode, time.Since(start), fmt.Errorf("status %d", resp.StatusCode))
		return nil, fmt.Errorf("openai request failed with status %d", resp.StatusCode)
	}

	var envelope openAIChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		recordRequestMetric(ctx, p.Name(), p.model, resp.StatusCode, time.Since(start), err)
		return nil, fmt.Errorf("failed to decode openai response: %w", err)
	}

	if envelope.Error != nil {
		recordRequestMetric(ctx, p.Name(), p.model, resp.StatusCode, time.Since(start), errors.New(envelope.Error.Message))
		return nil, fmt.Errorf("openai error: %s", envelope.Error.Message)
	}
	if len(envelope.Choices) == 0 {
		recordRequestMetric(ctx, p.Name(), p.model, resp.StatusCode, time.Since(start), errors.New("no choices"))
		return nil, errors.New("openai response has no choices")
	}

	result, err := normalizePayload(envelope.Choices[0].Message.Content)
	recordRequestMetric(ctx, p.Name(), p.model, resp.StatusCode, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to parse openai reply: %w", err)
	}
	return result, nil
}
