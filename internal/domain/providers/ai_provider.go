package providers

import (
	"context"
	"encoding/json"
)

// RequestKind classifies an AI request by the capability it needs
type RequestKind string

const (
	RequestKindChat       RequestKind = "chat"
	RequestKindAnalysis   RequestKind = "analysis"
	RequestKindPrediction RequestKind = "prediction"
	RequestKindEducation  RequestKind = "education"
	RequestKindEmotion    RequestKind = "emotion"
)

// Valid reports whether the kind is one of the known request kinds
func (k RequestKind) Valid() bool {
	switch k {
	case RequestKindChat, RequestKindAnalysis, RequestKindPrediction, RequestKindEducation, RequestKindEmotion:
		return true
	}
	return false
}

// AIRequest is the normalized request handed to the dispatcher.
//
// Fallback is accepted for wire compatibility but never acted on:
// dispatch is single-provider, single-attempt.
type AIRequest struct {
	Kind           RequestKind            `json:"kind"`
	Specialization string                 `json:"specialization"`
	Fallback       bool                   `json:"fallback,omitempty"`
	Input          map[string]interface{} `json:"input"`
}

// AIResponse is the normalized response envelope returned by the
// dispatcher for every request, successful or not.
type AIResponse struct {
	Success   bool            `json:"success"`
	Provider  string          `json:"provider,omitempty"`
	Model     string          `json:"model,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Error     string          `json:"error,omitempty"`
	ElapsedMS int64           `json:"elapsed_ms"`
}

// ProviderDescriptor describes a registered AI provider. Constructed
// once at startup and immutable thereafter. RateLimitRPM is advisory;
// enforcement lives inside the provider adapters.
type ProviderDescriptor struct {
	Name         string `json:"name"`
	Priority     int    `json:"priority"`
	Active       bool   `json:"active"`
	RateLimitRPM int    `json:"rate_limit_rpm,omitempty"`
}

// AIProvider defines the capability surface every AI vendor adapter
// implements. Each method returns the provider's JSON payload for the
// request or an error; the dispatcher wraps either into an AIResponse.
type AIProvider interface {
	// Name returns the unique provider name
	Name() string

	// Model returns the configured model identifier
	Model() string

	// Chat handles conversational health questions
	Chat(ctx context.Context, req *AIRequest) (json.RawMessage, error)

	// Analyze handles symptom and nutrition analysis requests
	Analyze(ctx context.Context, req *AIRequest) (json.RawMessage, error)

	// Predict handles forward-looking requests such as fitness planning
	Predict(ctx context.Context, req *AIRequest) (json.RawMessage, error)

	// Educate produces patient-education content
	Educate(ctx context.Context, req *AIRequest) (json.RawMessage, error)

	// ProcessEmotion handles mental health and emotional wellbeing requests
	ProcessEmotion(ctx context.Context, req *AIRequest) (json.RawMessage, error)
}
