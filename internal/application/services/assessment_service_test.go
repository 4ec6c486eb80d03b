package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalpoint/backend/internal/application/services"
	"github.com/vitalpoint/backend/internal/domain/entities"
	"github.com/vitalpoint/backend/internal/domain/providers"
	apperrors "github.com/vitalpoint/backend/pkg/errors"
)

// stubAssessmentRepo captures created assessment records
type stubAssessmentRepo struct {
	created   []*entities.Assessment
	createErr error
}

func (r *stubAssessmentRepo) Create(_ context.Context, assessment *entities.Assessment) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, assessment)
	return nil
}

func (r *stubAssessmentRepo) GetByID(_ context.Context, id string) (*entities.Assessment, error) {
	for _, a := range r.created {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, apperrors.NewNotFoundError("assessment not found")
}

func (r *stubAssessmentRepo) ListByKind(_ context.Context, kind string, _, _ int) ([]*entities.Assessment, error) {
	out := []*entities.Assessment{}
	for _, a := range r.created {
		if kind == "" || a.Kind == kind {
			out = append(out, a)
		}
	}
	return out, nil
}

func newAssessmentService(t *testing.T, provider providers.AIProvider, repo *stubAssessmentRepo) *services.AssessmentService {
	t.Helper()
	d := services.NewDispatcher()
	if provider != nil {
		require.NoError(t, d.Register(providers.ProviderDescriptor{Name: provider.Name(), Priority: 1, Active: true}, provider))
	}
	return services.NewAssessmentService(d, repo)
}

func TestAssessmentService_AnalyzeSymptoms_PersistsRecord(t *testing.T) {
	provider := &stubProvider{name: "openai", model: "gpt-4o-mini", payload: json.RawMessage(`{"urgency":"low"}`)}
	repo := &stubAssessmentRepo{}
	svc := newAssessmentService(t, provider, repo)

	input := map[string]interface{}{"symptoms": []interface{}{"headache"}}
	resp, err := svc.AnalyzeSymptoms(context.Background(), input, false)
	require.NoError(t, err)

	assert.True(t, resp.Success)
	require.Len(t, repo.created, 1)
	record := repo.created[0]
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "analysis", record.Kind)
	assert.Equal(t, services.SpecializationSymptomTriage, record.Specialization)
	assert.Equal(t, "openai", record.Provider)
	assert.Equal(t, "gpt-4o-mini", record.Model)
	assert.JSONEq(t, `{"urgency":"low"}`, string(record.Result))
	assert.Equal(t, []providers.RequestKind{providers.RequestKindAnalysis}, provider.calls)
}

func TestAssessmentService_Chat_UsesChatCapability(t *testing.T) {
	provider := &stubProvider{name: "openai", payload: json.RawMessage(`{"reply":"hello"}`)}
	repo := &stubAssessmentRepo{}
	svc := newAssessmentService(t, provider, repo)

	resp, err := svc.Chat(context.Background(), map[string]interface{}{"message": "hi"}, false)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, []providers.RequestKind{providers.RequestKindChat}, provider.calls)

	require.Len(t, repo.created, 1)
	assert.Equal(t, "chat", repo.created[0].Kind)
}

func TestAssessmentService_SpecializationPerEndpoint(t *testing.T) {
	tests := []struct {
		name           string
		run            func(svc *services.AssessmentService) (*providers.AIResponse, error)
		wantKind       string
		wantSpec       string
		wantCapability providers.RequestKind
	}{
		{
			name: "nutrition",
			run: func(svc *services.AssessmentService) (*providers.AIResponse, error) {
				return svc.AnalyzeNutrition(context.Background(), map[string]interface{}{"meals": "rice"}, false)
			},
			wantKind:       "analysis",
			wantSpec:       services.SpecializationNutrition,
			wantCapability: providers.RequestKindAnalysis,
		},
		{
			name: "mental health",
			run: func(svc *services.AssessmentService) (*providers.AIResponse, error) {
				return svc.AssessMentalHealth(context.Background(), map[string]interface{}{"mood": "anxious"}, false)
			},
			wantKind:       "emotion",
			wantSpec:       services.SpecializationMentalHealth,
			wantCapability: providers.RequestKindEmotion,
		},
		{
			name: "fitness plan",
			run: func(svc *services.AssessmentService) (*providers.AIResponse, error) {
				return svc.GenerateFitnessPlan(context.Background(), map[string]interface{}{"goal": "5k"}, false)
			},
			wantKind:       "prediction",
			wantSpec:       services.SpecializationFitness,
			wantCapability: providers.RequestKindPrediction,
		},
		{
			name: "education",
			run: func(svc *services.AssessmentService) (*providers.AIResponse, error) {
				return svc.Educate(context.Background(), map[string]interface{}{"topic": "hypertension"}, false)
			},
			wantKind:       "education",
			wantSpec:       services.SpecializationEducation,
			wantCapability: providers.RequestKindEducation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &stubProvider{name: "openai", payload: json.RawMessage(`{}`)}
			repo := &stubAssessmentRepo{}
			svc := newAssessmentService(t, provider, repo)

			resp, err := tt.run(svc)
			require.NoError(t, err)
			assert.True(t, resp.Success)

			require.Len(t, repo.created, 1)
			assert.Equal(t, tt.wantKind, repo.created[0].Kind)
			assert.Equal(t, tt.wantSpec, repo.created[0].Specialization)
			assert.Equal(t, []providers.RequestKind{tt.wantCapability}, provider.calls)
		})
	}
}

func TestAssessmentService_DispatchFailureNotPersisted(t *testing.T) {
	provider := &stubProvider{name: "openai", err: errors.New("upstream 503")}
	repo := &stubAssessmentRepo{}
	svc := newAssessmentService(t, provider, repo)

	resp, err := svc.Chat(context.Background(), map[string]interface{}{"message": "hi"}, false)
	require.NoError(t, err)

	assert.False(t, resp.Success)
	assert.Equal(t, "upstream 503", resp.Error)
	assert.Empty(t, repo.created)
}

func TestAssessmentService_NoProvider(t *testing.T) {
	repo := &stubAssessmentRepo{}
	svc := newAssessmentService(t, nil, repo)

	resp, err := svc.Chat(context.Background(), map[string]interface{}{"message": "hi"}, false)
	require.NoError(t, err)

	assert.False(t, resp.Success)
	assert.Equal(t, "NoProviderAvailable", resp.Error)
	assert.Empty(t, repo.created)
}

func TestAssessmentService_PersistFailureSurfaces(t *testing.T) {
	provider := &stubProvider{name: "openai", payload: json.RawMessage(`{}`)}
	repo := &stubAssessmentRepo{createErr: errors.New("db down")}
	svc := newAssessmentService(t, provider, repo)

	_, err := svc.Chat(context.Background(), map[string]interface{}{"message": "hi"}, false)
	assert.Error(t, err)
}

func TestAssessmentService_ListByKind(t *testing.T) {
	provider := &stubProvider{name: "openai", payload: json.RawMessage(`{}`)}
	repo := &stubAssessmentRepo{}
	svc := newAssessmentService(t, provider, repo)

	_, err := svc.Chat(context.Background(), map[string]interface{}{"message": "hi"}, false)
	require.NoError(t, err)
	_, err = svc.AnalyzeSymptoms(context.Background(), map[string]interface{}{"symptoms": []interface{}{"cough"}}, false)
	require.NoError(t, err)

	chats, err := svc.List(context.Background(), "chat", 10, 0)
	require.NoError(t, err)
	assert.Len(t, chats, 1)

	all, err := svc.List(context.Background(), "", 10, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
