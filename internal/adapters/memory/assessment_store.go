package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vitalpoint/backend/internal/domain/entities"
	"github.com/vitalpoint/backend/internal/domain/repositories"
	apperrors "github.com/vitalpoint/backend/pkg/errors"
)

// AssessmentStore implements the AssessmentRepository interface in memory
type AssessmentStore struct {
	mu          sync.RWMutex
	assessments []*entities.Assessment
	byID        map[string]*entities.Assessment
}

// NewAssessmentStore creates a new in-memory assessment store
func NewAssessmentStore() *AssessmentStore {
	return &AssessmentStore{
		byID: make(map[string]*entities.Assessment),
	}
}

// Create persists a new assessment record
func (s *AssessmentStore) Create(_ context.Context, assessment *entities.Assessment) error {
	if assessment == nil || assessment.ID == "" {
		return apperrors.NewValidationError("assessment id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[assessment.ID]; exists {
		return apperrors.NewConflictError(fmt.Sprintf("assessment %s already exists", assessment.ID))
	}

	if assessment.CreatedAt.IsZero() {
		assessment.CreatedAt = time.Now().UTC()
	}

	stored := *assessment
	s.assessments = append(s.assessments, &stored)
	s.byID[stored.ID] = &stored
	return nil
}

// GetByID retrieves an assessment by ID
func (s *AssessmentStore) GetByID(_ context.Context, id string) (*entities.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	assessment, ok := s.byID[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("assessment %s not found", id))
	}

	copied := *assessment
	return &copied, nil
}

// ListByKind retrieves assessments of a kind, newest first. An empty
// kind lists across all kinds.
func (s *AssessmentStore) ListByKind(_ context.Context, kind string, limit, offset int) ([]*entities.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*entities.Assessment, 0, len(s.assessments))
	for i := len(s.assessments) - 1; i >= 0; i-- {
		assessment := s.assessments[i]
		if kind != "" && assessment.Kind != kind {
			continue
		}
		matched = append(matched, assessment)
	}

	if offset < 0 {
		offset = 0
	}
	if offset >= len(matched) {
		return []*entities.Assessment{}, nil
	}
	matched = matched[offset:]

	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}

	result := make([]*entities.Assessment, 0, len(matched))
	for _, assessment := range matched {
		copied := *assessment
		result = append(result, &copied)
	}
	return result, nil
}

var _ repositories.AssessmentRepository = (*AssessmentStore)(nil)
