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

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiProvider implements the AIProvider interface against the
// Google Gemini generateContent API.
type GeminiProvider struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	limiter    *tokenBucket
}

// NewGeminiProvider creates a new Gemini provider adapter
func NewGeminiProvider(cfg *config.AIProviderConfig) (*GeminiProvider, error) {
	return NewGeminiProviderWithOptions(cfg, geminiBaseURL, nil)
}

// NewGeminiProviderWithOptions allows overriding base URL and HTTP
// client (used for tests)
func NewGeminiProviderWithOptions(cfg *config.AIProviderConfig, baseURL string, httpClient *http.Client) (*GeminiProvider, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-1.5-flash"
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = geminiBaseURL
	}
	if httpClient == nil {
		timeout := defaultHTTPTimeout
		if cfg.TimeoutSeconds > 0 {
			timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &GeminiProvider{
		apiKey:     cfg.APIKey,
		model:      model,
		baseURL:    baseURL,
		httpClient: httpClient,
		limiter:    newTokenBucket(cfg.RateLimitRPM, cfg.RateLimitBurst),
	}, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string { return "gemini" }

// Model returns the configured model identifier
func (p *GeminiProvider) Model() string { return p.model }

// Chat handles conversational health questions
func (p *GeminiProvider) Chat(ctx context.Context, req *providers.AIRequest) (json.RawMessage, error) {
	return p.generate(ctx, req)
}

// Analyze handles symptom and nutrition analysis requests
func (p *GeminiProvider) Analyze(ctx context.Context, req *providers.AIRequest) (json.RawMessage, error) {
	return p.generate(ctx, req)
}

// Predict handles fitness planning requests
func (p *GeminiProvider) Predict(ctx context.Context, req *providers.AIRequest) (json.RawMessage, error) {
	return p.generate(ctx, req)
}

// Educate produces patient-education content
func (p *GeminiProvider) Educate(ctx context.Context, req *providers.AIRequest) (json.RawMessage, error) {
	return p.generate(ctx, req)
}

// ProcessEmotion handles mental health requests
func (p *GeminiProvider) ProcessEmotion(ctx context.Context, req *providers.AIRequest) (json.RawMessage, error) {
	return p.generate(ctx, req)
}

type geminiRequest struct {
	SystemInstruction *geminiContent   `json:"systemInstruction,omitempty"`
	Contents          []geminiContent  `json:"contents"`
	GenerationConfig  geminiGenConfig  `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (p *GeminiProvider) generate(ctx context.Context, req *providers.AIRequest) (json.RawMessage, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	userPrompt, err := buildUserPrompt(req)
	if err != nil {
		return nil, err
	}

	payload := geminiRequest{
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: buildSystemPrompt(req)}},
		},
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: userPrompt}}},
		},
		GenerationConfig: geminiGenConfig{
			Temperature:      0.2,
			ResponseMimeType: "application/json",
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/models/%s:generateContent?key=%s", p.baseURL, p.model, p.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		recordRequestMetric(ctx, p.Name(), p.model, 0, time.Since(start), err)
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		recordRequestMetric(ctx, p.Name(), p.model, resp.StatusCode, time.Since(start), fmt.Errorf("status %d", resp.StatusCode))
		return nil, fmt.Errorf("gemini request failed with status %d", resp.StatusCode)
	}

	var envelope geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		recordRequestMetric(ctx, p.Name(), p.model, resp.StatusCode, time.Since(start), err)
		return nil, fmt.Errorf("failed to decode gemini response: %w", err)
	}

	if envelope.Error != nil {
		recordRequestMetric(ctx, p.Name(), p.model, resp.StatusCode, time.Since(start), errors.New(envelope.Error.Message))
		return nil, fmt.Errorf("gemini error: %s", envelope.Error.Message)
	}

	var text string
	for _, candidate := range envelope.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				text = part.Text
				break
			}
		}
		if text != "" {
			break
		}
	}
	if text == "" {
		recordRequestMetric(ctx, p.Name(), p.model, resp.StatusCode, time.Since(start), errors.New("missing candidate text"))
		return nil, errors.New("gemini response missing candidate text")
	}

	result, err := normalizePayload(text)
	recordRequestMetric(ctx, p.Name(), p.model, resp.StatusCode, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to parse gemini reply: %w", err)
	}
	return result, nil
}
