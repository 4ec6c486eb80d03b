package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vitalpoint/backend/internal/domain/providers"
)

// MockProvider implements a deterministic AI provider for development
// and testing; no network calls are made.
type MockProvider struct{}

// NewMockProvider creates a new mock provider
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// Name returns the provider name
func (p *MockProvider) Name() string { return "mock" }

// Model returns the configured model identifier
func (p *MockProvider) Model() string { return "mock-1" }

// Chat returns a canned conversational reply
func (p *MockProvider) Chat(_ context.Context, req *providers.AIRequest) (json.RawMessage, error) {
	return p.canned(req, map[string]interface{}{
		"reply":               "This is general wellness information, not medical advice.",
		"follow_up_questions": []string{"How long have you felt this way?"},
		"see_doctor":          false,
	})
}

// Analyze returns a canned analysis
func (p *MockProvider) Analyze(_ context.Context, req *providers.AIRequest) (json.RawMessage, error) {
	return p.canned(req, map[string]interface{}{
		"summary":         "Mock analysis of the submitted input.",
		"possible_causes": []string{"common cold", "seasonal allergy"},
		"urgency":         "self_care",
	})
}

// Predict returns a canned plan
func (p *MockProvider) Predict(_ context.Context, req *providers.AIRequest) (json.RawMessage, error) {
	return p.canned(req, map[string]interface{}{
		"summary": "Mock four-week plan.",
		"weekly_plan": []map[string]interface{}{
			{"day": "monday", "activity": "brisk walk", "duration_minutes": 30},
		},
	})
}

// Educate returns a canned article
func (p *MockProvider) Educate(_ context.Context, req *providers.AIRequest) (json.RawMessage, error) {
	return p.canned(req, map[string]interface{}{
		"title":   "Mock health article",
		"summary": "General information only.",
	})
}

// ProcessEmotion returns a canned reflection
func (p *MockProvider) ProcessEmotion(_ context.Context, req *providers.AIRequest) (json.RawMessage, error) {
	return p.canned(req, map[string]interface{}{
		"reflection":        "Thank you for sharing how you feel.",
		"mood":              "neutral",
		"coping_strategies": []string{"slow breathing", "a short walk"},
		"seek_support":      false,
	})
}

func (p *MockProvider) canned(req *providers.AIRequest, body map[string]interface{}) (json.RawMessage, error) {
	if len(req.Input) == 0 {
		return nil, fmt.Errorf("request input is required")
	}
	body["specialization"] = req.Specialization
	return json.Marshal(body)
}
