package handlers

import (
	"net/http"

	"github.com/vitalpoint/backend/internal/api/validation"
	"github.com/vitalpoint/backend/internal/domain/providers"
)

// GeolocationHandler handles geocoding endpoints
type GeolocationHandler struct {
	provider providers.GeolocationProvider
}

// NewGeolocationHandler creates a new geolocation handler
func NewGeolocationHandler(provider providers.GeolocationProvider) *GeolocationHandler {
	return &GeolocationHandler{provider: provider}
}

// Geocode handles POST /api/geocode
func (h *GeolocationHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if err := validation.GeocodeSchema.Validate(body); err != nil {
		respondWithAppError(w, err)
		return
	}

	address := body["address"].(string)
	geocoded, err := h.provider.Geocode(r.Context(), address)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "failed to geocode address")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"address":           address,
		"formatted_address": geocoded.FormattedAddress,
		"city":              geocoded.City,
		"state":             geocoded.State,
		"country":           geocoded.Country,
		"latitude":          geocoded.Coordinates.Latitude,
		"longitude":         geocoded.Coordinates.Longitude,
	})
}

// ReverseGeocode handles POST /api/reverse-geocode
func (h *GeolocationHandler) ReverseGeocode(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if err := validation.ReverseGeocodeSchema.Validate(body); err != nil {
		respondWithAppError(w, err)
		return
	}

	lat := body["latitude"].(float64)
	lon := body["longitude"].(float64)

	address, err := h.provider.ReverseGeocode(r.Context(), lat, lon)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "failed to reverse geocode")
		return
	}

	respondWithJSON(w, http.StatusOK, address)
}
