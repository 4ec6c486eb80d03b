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

// ClinicStore implements the ClinicRepository interface in memory.
// Insertion order is preserved; List returns clinics in the order they
// were created.
type ClinicStore struct {
	mu      sync.RWMutex
	clinics []*entities.Clinic
	byID    map[string]*entities.Clinic
}

// NewClinicStore creates a new in-memory clinic store
func NewClinicStore() *ClinicStore {
	return &ClinicStore{
		byID: make(map[string]*entities.Clinic),
	}
}

// Create creates a new clinic
func (s *ClinicStore) Create(_ context.Context, clinic *entities.Clinic) error {
	if clinic == nil || clinic.ID == "" {
		return apperrors.NewValidationError("clinic id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[clinic.ID]; exists {
		return apperrors.NewConflictError(fmt.Sprintf("clinic %s already exists", clinic.ID))
	}

	if clinic.CreatedAt.IsZero() {
		clinic.CreatedAt = time.Now().UTC()
	}

	stored := *clinic
	s.clinics = append(s.clinics, &stored)
	s.byID[stored.ID] = &stored
	return nil
}

// GetByID retrieves a clinic by ID
func (s *ClinicStore) GetByID(_ context.Context, id string) (*entities.Clinic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clinic, ok := s.byID[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("clinic %s not found", id))
	}

	copied := *clinic
	return &copied, nil
}

// List retrieves all clinics in insertion order
func (s *ClinicStore) List(_ context.Context) ([]*entities.Clinic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*entities.Clinic, 0, len(s.clinics))
	for _, clinic := range s.clinics {
		copied := *clinic
		result = append(result, &copied)
	}
	return result, nil
}

var _ repositories.ClinicRepository = (*ClinicStore)(nil)
