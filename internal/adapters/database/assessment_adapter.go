package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/vitalpoint/backend/internal/domain/entities"
	"github.com/vitalpoint/backend/internal/domain/repositories"
	"github.com/vitalpoint/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/vitalpoint/backend/pkg/errors"
)

// AssessmentAdapter implements AssessmentRepository on PostgreSQL
type AssessmentAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewAssessmentAdapter creates a new assessment adapter
func NewAssessmentAdapter(client *postgres.Client) repositories.AssessmentRepository {
	return &AssessmentAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create persists a new assessment record
func (a *AssessmentAdapter) Create(ctx context.Context, assessment *entities.Assessment) error {
	if assessment.CreatedAt.IsZero() {
		assessment.CreatedAt = time.Now().UTC()
	}

	record := goqu.Record{
		"id":             assessment.ID,
		"kind":           assessment.Kind,
		"specialization": assessment.Specialization,
		"input":          []byte(assessment.Input),
		"result":         []byte(assessment.Result),
		"provider":       assessment.Provider,
		"model":          sql.NullString{String: assessment.Model, Valid: assessment.Model != ""},
		"elapsed_ms":     assessment.ElapsedMS,
		"created_at":     assessment.CreatedAt,
	}

	query, args, err := a.db.Insert("assessments").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create assessment", err)
	}

	return nil
}

// GetByID retrieves an assessment by ID
func (a *AssessmentAdapter) GetByID(ctx context.Context, id string) (*entities.Assessment, error) {
	query, args, err := a.db.Select(
		"id", "kind", "specialization", "input", "result",
		"provider", "model", "elapsed_ms", "created_at",
	).From("assessments").
		Where(goqu.Ex{"id": id}).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	assessment, err := scanAssessment(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("assessment with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get assessment", err)
	}

	return assessment, nil
}

// ListByKind retrieves assessments of a kind, newest first. An empty
// kind lists across all kinds.
func (a *AssessmentAdapter) ListByKind(ctx context.Context, kind string, limit, offset int) ([]*entities.Assessment, error) {
	ds := a.db.Select(
		"id", "kind", "specialization", "input", "result",
		"provider", "model", "elapsed_ms", "created_at",
	).From("assessments")

	if kind != "" {
		ds = ds.Where(goqu.Ex{"kind": kind})
	}

	ds = ds.Order(goqu.I("created_at").Desc())

	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}
	if offset > 0 {
		ds = ds.Offset(uint(offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list assessments", err)
	}
	defer rows.Close()

	var assessments []*entities.Assessment
	for rows.Next() {
		assessment, err := scanAssessment(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan assessment", err)
		}
		assessments = append(assessments, assessment)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate assessments", err)
	}

	return assessments, nil
}

func scanAssessment(row rowScanner) (*entities.Assessment, error) {
	assessment := &entities.Assessment{}
	var input, result []byte
	var model sql.NullString

	err := row.Scan(
		&assessment.ID,
		&assessment.Kind,
		&assessment.Specialization,
		&input,
		&result,
		&assessment.Provider,
		&model,
		&assessment.ElapsedMS,
		&assessment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	assessment.Input = input
	assessment.Result = result
	assessment.Model = model.String

	return assessment, nil
}
