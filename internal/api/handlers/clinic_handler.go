package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vitalpoint/backend/internal/api/validation"
	"github.com/vitalpoint/backend/internal/application/services"
	"github.com/vitalpoint/backend/internal/domain/entities"
	"github.com/vitalpoint/backend/internal/domain/repositories"
)

const (
	defaultSearchRadiusMiles  = 10.0
	defaultNearbyRadiusMeters = 10000.0
	defaultNearbyPlaceType    = "hospital"
)

// ClinicHandler handles clinic-related HTTP requests
type ClinicHandler struct {
	clinicRepo repositories.ClinicRepository
	clinicIdx  repositories.ClinicIndexRepository
	search     *services.ClinicSearchService
}

// NewClinicHandler creates a new clinic handler. The index repository
// is optional; suggestions return an error when it is not configured.
func NewClinicHandler(clinicRepo repositories.ClinicRepository, clinicIdx repositories.ClinicIndexRepository, search *services.ClinicSearchService) *ClinicHandler {
	return &ClinicHandler{
		clinicRepo: clinicRepo,
		clinicIdx:  clinicIdx,
		search:     search,
	}
}

// SearchClinics handles POST /api/clinics/search.
//
// With coordinates or a location string the search is proximity-based;
// type and query then narrow the ranked results. Without either it
// falls back to a text search over name, address and category.
func (h *ClinicHandler) SearchClinics(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if err := validation.ClinicSearchSchema.Validate(body); err != nil {
		respondWithAppError(w, err)
		return
	}

	location, _ := body["location"].(string)
	lat, hasLat := body["latitude"].(float64)
	lon, hasLon := body["longitude"].(float64)
	typeFilter, _ := body["type"].(string)
	query, _ := body["query"].(string)

	radius := defaultSearchRadiusMiles
	if value, ok := body["radius"].(float64); ok {
		radius = value
	}

	hasPoint := hasLat && hasLon
	if !hasPoint && strings.TrimSpace(location) != "" {
		resolved, err := h.search.ResolveLocation(r.Context(), location)
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		lat, lon = resolved.Latitude, resolved.Longitude
		hasPoint = true
	}

	if !hasPoint {
		clinics, err := h.search.SearchByText(r.Context(), query, typeFilter)
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"clinics": clinics,
			"count":   len(clinics),
		})
		return
	}

	results, err := h.search.SearchByLocation(r.Context(), lat, lon, radius)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	results = filterResults(results, typeFilter, query)
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
		"count":   len(results),
	})
}

// NearbyClinics handles POST /api/clinics/nearby
func (h *ClinicHandler) NearbyClinics(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if err := validation.ClinicNearbySchema.Validate(body); err != nil {
		respondWithAppError(w, err)
		return
	}

	lat := body["latitude"].(float64)
	lon := body["longitude"].(float64)

	radius := defaultNearbyRadiusMeters
	if value, ok := body["radius"].(float64); ok {
		radius = value
	}
	placeType := defaultNearbyPlaceType
	if value, ok := body["type"].(string); ok && value != "" {
		placeType = value
	}

	results, err := h.search.Nearby(r.Context(), lat, lon, radius, placeType)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
		"count":   len(results),
	})
}

// CreateClinic handles POST /api/clinics
func (h *ClinicHandler) CreateClinic(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if err := validation.ClinicCreateSchema.Validate(body); err != nil {
		respondWithAppError(w, err)
		return
	}

	clinic := &entities.Clinic{
		ID:        uuid.New().String(),
		Name:      body["name"].(string),
		Address:   body["address"].(string),
		Latitude:  body["latitude"].(string),
		Longitude: body["longitude"].(string),
		Category:  body["category"].(string),
		CreatedAt: time.Now().UTC(),
	}
	if rating, ok := body["rating"].(float64); ok {
		clinic.Rating = rating
	}
	if hours, ok := body["hours"].(string); ok {
		clinic.Hours = hours
	}
	if phone, ok := body["phone_number"].(string); ok {
		clinic.PhoneNumber = phone
	}
	if website, ok := body["website"].(string); ok {
		clinic.Website = website
	}

	// Reject malformed coordinates up front instead of at query time
	if _, err := clinic.Coordinates(); err != nil {
		respondWithAppError(w, err)
		return
	}

	if err := h.clinicRepo.Create(r.Context(), clinic); err != nil {
		respondWithAppError(w, err)
		return
	}

	if h.clinicIdx != nil {
		if err := h.clinicIdx.Index(r.Context(), clinic); err != nil {
			log.Warn().Err(err).Str("clinic_id", clinic.ID).Msg("failed to index clinic")
		}
	}

	respondWithJSON(w, http.StatusCreated, clinic)
}

// ListClinics handles GET /api/clinics
func (h *ClinicHandler) ListClinics(w http.ResponseWriter, r *http.Request) {
	clinics, err := h.clinicRepo.List(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"clinics": clinics,
		"count":   len(clinics),
	})
}

// GetClinic handles GET /api/clinics/{id}
func (h *ClinicHandler) GetClinic(w http.ResponseWriter, r *http.Request) {
	clinicID := r.PathValue("id")
	if clinicID == "" {
		respondWithError(w, http.StatusBadRequest, "clinic ID is required")
		return
	}

	clinic, err := h.clinicRepo.GetByID(r.Context(), clinicID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, clinic)
}

// SuggestClinics handles GET /api/clinics/suggest?q=...&limit=...
func (h *ClinicHandler) SuggestClinics(w http.ResponseWriter, r *http.Request) {
	if h.clinicIdx == nil {
		respondWithError(w, http.StatusServiceUnavailable, "clinic suggestions are not configured")
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		respondWithError(w, http.StatusBadRequest, "q parameter is required")
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondWithError(w, http.StatusBadRequest, "invalid limit parameter")
			return
		}
		limit = parsed
	}

	clinics, err := h.clinicIdx.Suggest(r.Context(), query, limit)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"clinics": clinics,
		"count":   len(clinics),
	})
}

func filterResults(results []*entities.ClinicSearchResult, typeFilter, query string) []*entities.ClinicSearchResult {
	if typeFilter == "" && query == "" {
		return results
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	filtered := []*entities.ClinicSearchResult{}
	for _, result := range results {
		if typeFilter != "" && result.Clinic.Category != typeFilter {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(result.Clinic.Name), needle) &&
			!strings.Contains(strings.ToLower(result.Clinic.Address), needle) {
			continue
		}
		filtered = append(filtered, result)
	}
	return filtered
}
