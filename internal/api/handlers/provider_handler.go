package handlers

import (
	"net/http"

	"github.com/vitalpoint/backend/internal/application/services"
)

// ProviderHandler exposes the AI provider registry
type ProviderHandler struct {
	dispatcher *services.Dispatcher
}

// NewProviderHandler creates a new provider handler
func NewProviderHandler(dispatcher *services.Dispatcher) *ProviderHandler {
	return &ProviderHandler{dispatcher: dispatcher}
}

// ListProviders handles GET /api/providers
func (h *ProviderHandler) ListProviders(w http.ResponseWriter, r *http.Request) {
	descriptors := h.dispatcher.Descriptors()

	providers := make([]map[string]interface{}, 0, len(descriptors))
	for _, descriptor := range descriptors {
		providers = append(providers, map[string]interface{}{
			"name":           descriptor.Name,
			"priority":       descriptor.Priority,
			"active":         descriptor.Active,
			"rate_limit_rpm": descriptor.RateLimitRPM,
		})
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"providers": providers,
		"count":     len(providers),
	})
}

// ProvidersHealth handles GET /api/providers/health. The registry is
// static after startup, so health reports whether any active provider
// exists per capability without calling upstream APIs.
func (h *ProviderHandler) ProvidersHealth(w http.ResponseWriter, r *http.Request) {
	active := 0
	for _, descriptor := range h.dispatcher.Descriptors() {
		if descriptor.Active {
			active++
		}
	}

	status := "ok"
	code := http.StatusOK
	if active == 0 {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	respondWithJSON(w, code, map[string]interface{}{
		"status":           status,
		"active_providers": active,
	})
}
