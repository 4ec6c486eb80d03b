package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/vitalpoint/backend/internal/api/validation"
	"github.com/vitalpoint/backend/internal/application/services"
	"github.com/vitalpoint/backend/internal/domain/providers"
)

// AssessmentHandler handles the AI-backed health endpoints and the
// stored assessment records they produce
type AssessmentHandler struct {
	service *services.AssessmentService
}

// NewAssessmentHandler creates a new assessment handler
func NewAssessmentHandler(service *services.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{service: service}
}

type assessmentFn func(ctx context.Context, input map[string]interface{}, fallback bool) (*providers.AIResponse, error)

// Chat handles POST /api/chat/message
func (h *AssessmentHandler) Chat(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, validation.ChatMessageSchema, h.service.Chat)
}

// AnalyzeSymptoms handles POST /api/symptoms/analyze
func (h *AssessmentHandler) AnalyzeSymptoms(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, validation.SymptomAnalysisSchema, h.service.AnalyzeSymptoms)
}

// AnalyzeNutrition handles POST /api/nutrition-analyses
func (h *AssessmentHandler) AnalyzeNutrition(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, validation.AssessmentInputSchema, h.service.AnalyzeNutrition)
}

// AssessMentalHealth handles POST /api/mental-health-assessments
func (h *AssessmentHandler) AssessMentalHealth(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, validation.AssessmentInputSchema, h.service.AssessMentalHealth)
}

// GenerateFitnessPlan handles POST /api/fitness-plans
func (h *AssessmentHandler) GenerateFitnessPlan(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, validation.AssessmentInputSchema, h.service.GenerateFitnessPlan)
}

// Educate handles POST /api/education/articles
func (h *AssessmentHandler) Educate(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, validation.AssessmentInputSchema, h.service.Educate)
}

// ListAssessments handles GET /api/assessments?kind=...&limit=...&offset=...
func (h *AssessmentHandler) ListAssessments(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	if kind != "" && !providers.RequestKind(kind).Valid() {
		respondWithError(w, http.StatusBadRequest, "unknown assessment kind")
		return
	}

	limit, ok := queryInt(w, r, "limit")
	if !ok {
		return
	}
	offset, ok := queryInt(w, r, "offset")
	if !ok {
		return
	}

	assessments, err := h.service.List(r.Context(), kind, limit, offset)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"assessments": assessments,
		"count":       len(assessments),
	})
}

// GetAssessment handles GET /api/assessments/{id}
func (h *AssessmentHandler) GetAssessment(w http.ResponseWriter, r *http.Request) {
	assessmentID := r.PathValue("id")
	if assessmentID == "" {
		respondWithError(w, http.StatusBadRequest, "assessment ID is required")
		return
	}

	assessment, err := h.service.Get(r.Context(), assessmentID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, assessment)
}

// dispatch validates the body, runs the AI operation and maps the
// response envelope onto an HTTP status: failed dispatches are 502,
// except the no-provider case which is 503.
func (h *AssessmentHandler) dispatch(w http.ResponseWriter, r *http.Request, schema *validation.Schema, fn assessmentFn) {
	body, err := decodeBody(r)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if err := schema.Validate(body); err != nil {
		respondWithAppError(w, err)
		return
	}

	fallback := false
	if value, ok := body["fallback"].(bool); ok {
		fallback = value
		delete(body, "fallback")
	}

	resp, err := fn(r.Context(), body, fallback)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	if !resp.Success {
		status := http.StatusBadGateway
		if resp.Error == "NoProviderAvailable" {
			status = http.StatusServiceUnavailable
		}
		respondWithJSON(w, status, resp)
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}

func queryInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		respondWithError(w, http.StatusBadRequest, "invalid "+name+" parameter")
		return 0, false
	}
	return value, true
}
