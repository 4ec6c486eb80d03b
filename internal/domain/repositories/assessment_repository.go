package repositories

import (
	"context"

	"github.com/vitalpoint/backend/internal/domain/entities"
)

// AssessmentRepository defines the interface for assessment record operations
type AssessmentRepository interface {
	// Create persists a new assessment record
	Create(ctx context.Context, assessment *entities.Assessment) error

	// GetByID retrieves an assessment by ID
	GetByID(ctx context.Context, id string) (*entities.Assessment, error)

	// ListByKind retrieves assessments of a kind, newest first.
	// An empty kind lists across all kinds.
	ListByKind(ctx context.Context, kind string, limit, offset int) ([]*entities.Assessment, error)
}
