package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalpoint/backend/pkg/config"
)

func geminiTestConfig() *config.AIProviderConfig {
	return &config.AIProviderConfig{
		APIKey: "test-key",
		Model:  "gemini-1.5-flash",
	}
}

func TestGeminiProvider_RequiresAPIKey(t *testing.T) {
	_, err := NewGeminiProvider(&config.AIProviderConfig{})
	assert.Error(t, err)
}

func TestGeminiProvider_Chat(t *testing.T) {
	var captured geminiRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-1.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		resp := map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"role":  "model",
					"parts": []map[string]string{{"text": `{"reply":"stay hydrated"}`}},
				}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	provider, err := NewGeminiProviderWithOptions(geminiTestConfig(), server.URL, server.Client())
	require.NoError(t, err)
	assert.Equal(t, "gemini", provider.Name())

	result, err := provider.Chat(context.Background(), chatRequest())
	require.NoError(t, err)
	assert.JSONEq(t, `{"reply":"stay hydrated"}`, string(result))

	require.NotNil(t, captured.SystemInstruction)
	require.Len(t, captured.SystemInstruction.Parts, 1)
	assert.Contains(t, captured.SystemInstruction.Parts[0].Text, "health-information assistant")
	require.Len(t, captured.Contents, 1)
	assert.Equal(t, "user", captured.Contents[0].Role)
	assert.Equal(t, "application/json", captured.GenerationConfig.ResponseMimeType)
}

func TestGeminiProvider_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "quota exceeded"},
		})
	}))
	defer server.Close()

	provider, err := NewGeminiProviderWithOptions(geminiTestConfig(), server.URL, server.Client())
	require.NoError(t, err)

	_, err = provider.Chat(context.Background(), chatRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestGeminiProvider_MissingCandidateText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"candidates": []interface{}{}})
	}))
	defer server.Close()

	provider, err := NewGeminiProviderWithOptions(geminiTestConfig(), server.URL, server.Client())
	require.NoError(t, err)

	_, err = provider.ProcessEmotion(context.Background(), chatRequest())
	assert.Error(t, err)
}

func TestPerplexityProvider_Chat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": `{"reply":"see a clinician"}`}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	provider, err := NewPerplexityProviderWithOptions(&config.AIProviderConfig{APIKey: "test-key"}, server.URL, server.Client())
	require.NoError(t, err)
	assert.Equal(t, "perplexity", provider.Name())
	assert.Equal(t, "sonar", provider.Model())

	result, err := provider.Chat(context.Background(), chatRequest())
	require.NoError(t, err)
	assert.JSONEq(t, `{"reply":"see a clinician"}`, string(result))
}
