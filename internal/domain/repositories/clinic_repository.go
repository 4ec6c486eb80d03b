package repositories

import (
	"context"

	"github.com/vitalpoint/backend/internal/domain/entities"
)

// ClinicRepository defines the interface for clinic data operations.
//
// List returns clinics in insertion order; text search results and
// distance tie-breaking both depend on that ordering being stable.
type ClinicRepository interface {
	// Create creates a new clinic
	Create(ctx context.Context, clinic *entities.Clinic) error

	// GetByID retrieves a clinic by ID
	GetByID(ctx context.Context, id string) (*entities.Clinic, error)

	// List retrieves all clinics in insertion order
	List(ctx context.Context) ([]*entities.Clinic, error)
}

// ClinicIndexRepository defines the interface for the external clinic
// search index (e.g. Typesense) backing name suggestions
type ClinicIndexRepository interface {
	// Index indexes a clinic document
	Index(ctx context.Context, clinic *entities.Clinic) error

	// Suggest returns clinics whose names match a prefix query
	Suggest(ctx context.Context, query string, limit int) ([]*entities.Clinic, error)
}
