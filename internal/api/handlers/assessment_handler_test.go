package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalpoint/backend/internal/adapters/memory"
	"github.com/vitalpoint/backend/internal/adapters/providers/ai"
	"github.com/vitalpoint/backend/internal/application/services"
	"github.com/vitalpoint/backend/internal/domain/entities"
	"github.com/vitalpoint/backend/internal/domain/providers"
)

type failingProvider struct{}

func (p *failingProvider) Name() string  { return "failing" }
func (p *failingProvider) Model() string { return "failing-1" }

func (p *failingProvider) Chat(context.Context, *providers.AIRequest) (json.RawMessage, error) {
	return nil, errors.New("upstream timeout")
}
func (p *failingProvider) Analyze(context.Context, *providers.AIRequest) (json.RawMessage, error) {
	return nil, errors.New("upstream timeout")
}
func (p *failingProvider) Predict(context.Context, *providers.AIRequest) (json.RawMessage, error) {
	return nil, errors.New("upstream timeout")
}
func (p *failingProvider) Educate(context.Context, *providers.AIRequest) (json.RawMessage, error) {
	return nil, errors.New("upstream timeout")
}
func (p *failingProvider) ProcessEmotion(context.Context, *providers.AIRequest) (json.RawMessage, error) {
	return nil, errors.New("upstream timeout")
}

func newAssessmentServer(t *testing.T, provider providers.AIProvider) *httptest.Server {
	t.Helper()

	dispatcher := services.NewDispatcher()
	if provider != nil {
		err := dispatcher.Register(providers.ProviderDescriptor{
			Name:     provider.Name(),
			Priority: 10,
			Active:   true,
		}, provider)
		require.NoError(t, err)
	}

	service := services.NewAssessmentService(dispatcher, memory.NewAssessmentStore())
	handler := NewAssessmentHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat/message", handler.Chat)
	mux.HandleFunc("POST /api/symptoms/analyze", handler.AnalyzeSymptoms)
	mux.HandleFunc("POST /api/nutrition-analyses", handler.AnalyzeNutrition)
	mux.HandleFunc("POST /api/mental-health-assessments", handler.AssessMentalHealth)
	mux.HandleFunc("POST /api/fitness-plans", handler.GenerateFitnessPlan)
	mux.HandleFunc("POST /api/education/articles", handler.Educate)
	mux.HandleFunc("GET /api/assessments", handler.ListAssessments)
	mux.HandleFunc("GET /api/assessments/{id}", handler.GetAssessment)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestChat_Success(t *testing.T) {
	server := newAssessmentServer(t, ai.NewMockProvider())

	resp := postJSON(t, server.URL+"/api/chat/message", `{"message": "I have a headache"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope providers.AIResponse
	decodeJSON(t, resp, &envelope)
	assert.True(t, envelope.Success)
	assert.Equal(t, "mock", envelope.Provider)
	assert.Equal(t, "mock-1", envelope.Model)
	assert.NotEmpty(t, envelope.Data)

	// Successful dispatches are persisted as assessment records
	listResp, err := http.Get(server.URL + "/api/assessments?kind=chat")
	require.NoError(t, err)

	var body struct {
		Assessments []*entities.Assessment `json:"assessments"`
		Count       int                    `json:"count"`
	}
	decodeJSON(t, listResp, &body)
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "chat", body.Assessments[0].Kind)
	assert.Equal(t, "general_health", body.Assessments[0].Specialization)
	assert.Equal(t, "mock", body.Assessments[0].Provider)
}

func TestChat_MissingMessage(t *testing.T) {
	server := newAssessmentServer(t, ai.NewMockProvider())

	resp := postJSON(t, server.URL+"/api/chat/message", `{}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChat_NoProviderAvailable(t *testing.T) {
	server := newAssessmentServer(t, nil)

	resp := postJSON(t, server.URL+"/api/chat/message", `{"message": "hello"}`)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var envelope providers.AIResponse
	decodeJSON(t, resp, &envelope)
	assert.False(t, envelope.Success)
	assert.Equal(t, "NoProviderAvailable", envelope.Error)
}

func TestChat_ProviderFailure(t *testing.T) {
	server := newAssessmentServer(t, &failingProvider{})

	resp := postJSON(t, server.URL+"/api/chat/message", `{"message": "hello"}`)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var envelope providers.AIResponse
	decodeJSON(t, resp, &envelope)
	assert.False(t, envelope.Success)
	assert.Equal(t, "failing", envelope.Provider)
	assert.Contains(t, envelope.Error, "upstream timeout")

	// Failed dispatches are not persisted
	listResp, err := http.Get(server.URL + "/api/assessments")
	require.NoError(t, err)

	var body struct {
		Count int `json:"count"`
	}
	decodeJSON(t, listResp, &body)
	assert.Zero(t, body.Count)
}

func TestAnalyzeSymptoms(t *testing.T) {
	server := newAssessmentServer(t, ai.NewMockProvider())

	resp := postJSON(t, server.URL+"/api/symptoms/analyze", `{"symptoms": ["cough", "fever"]}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope providers.AIResponse
	decodeJSON(t, resp, &envelope)
	assert.True(t, envelope.Success)

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(envelope.Data, &data))
	assert.Equal(t, "symptom_triage", data["specialization"])
}

func TestAnalyzeSymptoms_MissingSymptoms(t *testing.T) {
	server := newAssessmentServer(t, ai.NewMockProvider())

	resp := postJSON(t, server.URL+"/api/symptoms/analyze", `{"notes": "unwell"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAssessmentEndpoints_KindMapping(t *testing.T) {
	server := newAssessmentServer(t, ai.NewMockProvider())

	endpoints := map[string]string{
		"/api/nutrition-analyses":        "analysis",
		"/api/mental-health-assessments": "emotion",
		"/api/fitness-plans":             "prediction",
		"/api/education/articles":        "education",
	}

	for path := range endpoints {
		resp := postJSON(t, server.URL+path, `{"details": "test input"}`)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, "endpoint %s", path)
	}

	listResp, err := http.Get(server.URL + "/api/assessments")
	require.NoError(t, err)

	var body struct {
		Assessments []*entities.Assessment `json:"assessments"`
		Count       int                    `json:"count"`
	}
	decodeJSON(t, listResp, &body)
	require.Equal(t, 4, body.Count)

	kinds := map[string]bool{}
	for _, assessment := range body.Assessments {
		kinds[assessment.Kind] = true
	}
	for _, kind := range endpoints {
		assert.True(t, kinds[kind], "missing kind %s", kind)
	}
}

func TestListAssessments_UnknownKind(t *testing.T) {
	server := newAssessmentServer(t, ai.NewMockProvider())

	resp, err := http.Get(server.URL + "/api/assessments?kind=horoscope")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListAssessments_BadPaging(t *testing.T) {
	server := newAssessmentServer(t, ai.NewMockProvider())

	for _, query := range []string{"limit=abc", "offset=-1"} {
		resp, err := http.Get(server.URL + "/api/assessments?" + query)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "query %s", query)
	}
}

func TestGetAssessment(t *testing.T) {
	server := newAssessmentServer(t, ai.NewMockProvider())

	resp := postJSON(t, server.URL+"/api/chat/message", `{"message": "hi"}`)
	resp.Body.Close()

	listResp, err := http.Get(server.URL + "/api/assessments")
	require.NoError(t, err)

	var body struct {
		Assessments []*entities.Assessment `json:"assessments"`
	}
	decodeJSON(t, listResp, &body)
	require.Len(t, body.Assessments, 1)

	getResp, err := http.Get(server.URL + "/api/assessments/" + body.Assessments[0].ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, getResp.StatusCode)

	var assessment entities.Assessment
	decodeJSON(t, getResp, &assessment)
	assert.Equal(t, body.Assessments[0].ID, assessment.ID)
}

func TestGetAssessment_NotFound(t *testing.T) {
	server := newAssessmentServer(t, ai.NewMockProvider())

	resp, err := http.Get(server.URL + "/api/assessments/missing")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
