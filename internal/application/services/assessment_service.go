package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/vitalpoint/backend/internal/domain/entities"
	"github.com/vitalpoint/backend/internal/domain/providers"
	"github.com/vitalpoint/backend/internal/domain/repositories"
	apperrors "github.com/vitalpoint/backend/pkg/errors"
)

// Specialization tags select the prompt template inside a provider.
// Each HTTP endpoint dispatches with a fixed tag.
const (
	SpecializationGeneralHealth = "general_health"
	SpecializationSymptomTriage = "symptom_triage"
	SpecializationNutrition     = "nutrition"
	SpecializationMentalHealth  = "mental_health"
	SpecializationFitness       = "fitness_planning"
	SpecializationEducation     = "health_education"
)

// AssessmentService dispatches normalized AI requests and persists the
// resulting assessment records.
type AssessmentService struct {
	dispatcher  *Dispatcher
	assessments repositories.AssessmentRepository
}

// NewAssessmentService creates a new assessment service
func NewAssessmentService(dispatcher *Dispatcher, assessments repositories.AssessmentRepository) *AssessmentService {
	return &AssessmentService{
		dispatcher:  dispatcher,
		assessments: assessments,
	}
}

// Chat handles a conversational health message
func (s *AssessmentService) Chat(ctx context.Context, input map[string]interface{}, fallback bool) (*providers.AIResponse, error) {
	return s.run(ctx, providers.RequestKindChat, SpecializationGeneralHealth, input, fallback)
}

// AnalyzeSymptoms runs a symptom triage analysis
func (s *AssessmentService) AnalyzeSymptoms(ctx context.Context, input map[string]interface{}, fallback bool) (*providers.AIResponse, error) {
	return s.run(ctx, providers.RequestKindAnalysis, SpecializationSymptomTriage, input, fallback)
}

// AnalyzeNutrition runs a nutrition analysis
func (s *AssessmentService) AnalyzeNutrition(ctx context.Context, input map[string]interface{}, fallback bool) (*providers.AIResponse, error) {
	return s.run(ctx, providers.RequestKindAnalysis, SpecializationNutrition, input, fallback)
}

// AssessMentalHealth runs a mental health assessment
func (s *AssessmentService) AssessMentalHealth(ctx context.Context, input map[string]interface{}, fallback bool) (*providers.AIResponse, error) {
	return s.run(ctx, providers.RequestKindEmotion, SpecializationMentalHealth, input, fallback)
}

// GenerateFitnessPlan generates a fitness plan
func (s *AssessmentService) GenerateFitnessPlan(ctx context.Context, input map[string]interface{}, fallback bool) (*providers.AIResponse, error) {
	return s.run(ctx, providers.RequestKindPrediction, SpecializationFitness, input, fallback)
}

// Educate produces a patient-education article
func (s *AssessmentService) Educate(ctx context.Context, input map[string]interface{}, fallback bool) (*providers.AIResponse, error) {
	return s.run(ctx, providers.RequestKindEducation, SpecializationEducation, input, fallback)
}

// List returns stored assessment records, newest first
func (s *AssessmentService) List(ctx context.Context, kind string, limit, offset int) ([]*entities.Assessment, error) {
	if limit <= 0 {
		limit = 30
	}
	return s.assessments.ListByKind(ctx, kind, limit, offset)
}

// Get returns a stored assessment record by ID
func (s *AssessmentService) Get(ctx context.Context, id string) (*entities.Assessment, error) {
	return s.assessments.GetByID(ctx, id)
}

func (s *AssessmentService) run(ctx context.Context, kind providers.RequestKind, specialization string, input map[string]interface{}, fallback bool) (*providers.AIResponse, error) {
	req := &providers.AIRequest{
		Kind:           kind,
		Specialization: specialization,
		Fallback:       fallback,
		Input:          input,
	}

	resp := s.dispatcher.Dispatch(ctx, req)
	if !resp.Success {
		return resp, nil
	}

	rawInput, err := json.Marshal(input)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode assessment input", err)
	}

	assessment := &entities.Assessment{
		ID:             uuid.New().String(),
		Kind:           string(kind),
		Specialization: specialization,
		Input:          rawInput,
		Result:         resp.Data,
		Provider:       resp.Provider,
		Model:          resp.Model,
		ElapsedMS:      resp.ElapsedMS,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.assessments.Create(ctx, assessment); err != nil {
		log.Error().Err(err).Str("kind", string(kind)).Msg("failed to persist assessment")
		return nil, err
	}

	return resp, nil
}
