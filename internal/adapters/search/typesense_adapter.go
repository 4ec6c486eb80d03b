package search

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/vitalpoint/backend/internal/domain/entities"
	"github.com/vitalpoint/backend/internal/domain/repositories"
	tsclient "github.com/vitalpoint/backend/internal/infrastructure/clients/typesense"
)

const collectionName = tsclient.ClinicsCollection

// TypesenseAdapter implements clinic name suggestions using Typesense
type TypesenseAdapter struct {
	client *tsclient.Client
}

var _ repositories.ClinicIndexRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// InitSchema ensures the collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	return a.client.InitSchema(ctx)
}

// Index indexes a clinic document. Clinics whose stored coordinates do
// not parse are indexed without a geopoint.
func (a *TypesenseAdapter) Index(ctx context.Context, clinic *entities.Clinic) error {
	createdAt := clinic.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	document := map[string]interface{}{
		"id":         clinic.ID,
		"name":       clinic.Name,
		"address":    clinic.Address,
		"category":   clinic.Category,
		"rating":     clinic.Rating,
		"created_at": createdAt.Unix(),
	}

	if loc, err := clinic.Coordinates(); err == nil {
		document["location"] = []float64{loc.Latitude, loc.Longitude}
	}

	_, err := a.client.Client().Collection(collectionName).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index clinic: %w", err)
	}

	return nil
}

// Suggest returns clinics whose names match a prefix query
func (a *TypesenseAdapter) Suggest(ctx context.Context, query string, limit int) ([]*entities.Clinic, error) {
	if limit <= 0 {
		limit = 10
	}

	searchParams := &api.SearchCollectionParams{
		Q:       pointer.String(query),
		QueryBy: pointer.String("name,address"),
		PerPage: pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(collectionName).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search clinics: %w", err)
	}

	clinics := []*entities.Clinic{}
	if result.Hits == nil {
		return clinics, nil
	}

	for _, hit := range *result.Hits {
		doc := *hit.Document

		clinic := &entities.Clinic{
			ID:       stringField(doc, "id"),
			Name:     stringField(doc, "name"),
			Address:  stringField(doc, "address"),
			Category: stringField(doc, "category"),
		}

		if val, ok := doc["rating"].(float64); ok {
			clinic.Rating = val
		}
		if loc, ok := doc["location"].([]interface{}); ok && len(loc) == 2 {
			if lat, ok := loc[0].(float64); ok {
				clinic.Latitude = strconv.FormatFloat(lat, 'f', -1, 64)
			}
			if lon, ok := loc[1].(float64); ok {
				clinic.Longitude = strconv.FormatFloat(lon, 'f', -1, 64)
			}
		}

		clinics = append(clinics, clinic)
	}

	return clinics, nil
}

func stringField(doc map[string]interface{}, key string) string {
	if val, ok := doc[key].(string); ok {
		return val
	}
	return ""
}
