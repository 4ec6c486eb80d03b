package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/vitalpoint/backend/internal/domain/entities"
	"github.com/vitalpoint/backend/internal/domain/repositories"
	"github.com/vitalpoint/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/vitalpoint/backend/pkg/errors"
)

// ClinicAdapter implements ClinicRepository on PostgreSQL.
//
// Rows are ordered by insertion sequence so List matches the in-memory
// store's insertion-order contract.
type ClinicAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewClinicAdapter creates a new clinic adapter
func NewClinicAdapter(client *postgres.Client) repositories.ClinicRepository {
	return &ClinicAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new clinic
func (a *ClinicAdapter) Create(ctx context.Context, clinic *entities.Clinic) error {
	if clinic.CreatedAt.IsZero() {
		clinic.CreatedAt = time.Now().UTC()
	}

	record := goqu.Record{
		"id":           clinic.ID,
		"name":         clinic.Name,
		"address":      clinic.Address,
		"latitude":     clinic.Latitude,
		"longitude":    clinic.Longitude,
		"category":     clinic.Category,
		"rating":       clinic.Rating,
		"hours":        sql.NullString{String: clinic.Hours, Valid: clinic.Hours != ""},
		"phone_number": sql.NullString{String: clinic.PhoneNumber, Valid: clinic.PhoneNumber != ""},
		"website":      sql.NullString{String: clinic.Website, Valid: clinic.Website != ""},
		"created_at":   clinic.CreatedAt,
	}

	query, args, err := a.db.Insert("clinics").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create clinic", err)
	}

	return nil
}

// GetByID retrieves a clinic by ID
func (a *ClinicAdapter) GetByID(ctx context.Context, id string) (*entities.Clinic, error) {
	query, args, err := a.db.Select(
		"id", "name", "address", "latitude", "longitude",
		"category", "rating", "hours", "phone_number", "website", "created_at",
	).From("clinics").
		Where(goqu.Ex{"id": id}).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	clinic, err := scanClinic(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("clinic with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get clinic", err)
	}

	return clinic, nil
}

// List retrieves all clinics in insertion order
func (a *ClinicAdapter) List(ctx context.Context) ([]*entities.Clinic, error) {
	query, args, err := a.db.Select(
		"id", "name", "address", "latitude", "longitude",
		"category", "rating", "hours", "phone_number", "website", "created_at",
	).From("clinics").
		Order(goqu.I("seq").Asc()).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list clinics", err)
	}
	defer rows.Close()

	var clinics []*entities.Clinic
	for rows.Next() {
		clinic, err := scanClinic(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan clinic", err)
		}
		clinics = append(clinics, clinic)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate clinics", err)
	}

	return clinics, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanClinic(row rowScanner) (*entities.Clinic, error) {
	clinic := &entities.Clinic{}
	var hours, phone, website sql.NullString

	err := row.Scan(
		&clinic.ID,
		&clinic.Name,
		&clinic.Address,
		&clinic.Latitude,
		&clinic.Longitude,
		&clinic.Category,
		&clinic.Rating,
		&hours,
		&phone,
		&website,
		&clinic.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	clinic.Hours = hours.String
	clinic.PhoneNumber = phone.String
	clinic.Website = website.String

	return clinic, nil
}
