package routes

import (
	"net/http"

	"github.com/vitalpoint/backend/internal/api/handlers"
	"github.com/vitalpoint/backend/internal/api/middleware"
	"github.com/vitalpoint/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	clinicHandler      *handlers.ClinicHandler
	assessmentHandler  *handlers.AssessmentHandler
	providerHandler    *handlers.ProviderHandler
	geolocationHandler *handlers.GeolocationHandler
	mapsHandler        *handlers.MapsHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	clinicHandler *handlers.ClinicHandler,
	assessmentHandler *handlers.AssessmentHandler,
	providerHandler *handlers.ProviderHandler,
	geolocationHandler *handlers.GeolocationHandler,
	mapsHandler *handlers.MapsHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:                http.NewServeMux(),
		clinicHandler:      clinicHandler,
		assessmentHandler:  assessmentHandler,
		providerHandler:    providerHandler,
		geolocationHandler: geolocationHandler,
		mapsHandler:        mapsHandler,
		cacheMiddleware:    cacheMiddleware,
		metrics:            metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Clinic endpoints
	r.mux.HandleFunc("GET /api/clinics", r.clinicHandler.ListClinics)
	r.mux.HandleFunc("POST /api/clinics", r.clinicHandler.CreateClinic)
	r.mux.HandleFunc("POST /api/clinics/search", r.clinicHandler.SearchClinics)
	r.mux.HandleFunc("POST /api/clinics/nearby", r.clinicHandler.NearbyClinics)
	r.mux.HandleFunc("GET /api/clinics/suggest", r.clinicHandler.SuggestClinics)
	r.mux.HandleFunc("GET /api/clinics/{id}", r.clinicHandler.GetClinic)

	// AI-backed health endpoints
	r.mux.HandleFunc("POST /api/chat/message", r.assessmentHandler.Chat)
	r.mux.HandleFunc("POST /api/symptoms/analyze", r.assessmentHandler.AnalyzeSymptoms)
	r.mux.HandleFunc("POST /api/nutrition-analyses", r.assessmentHandler.AnalyzeNutrition)
	r.mux.HandleFunc("POST /api/mental-health-assessments", r.assessmentHandler.AssessMentalHealth)
	r.mux.HandleFunc("POST /api/fitness-plans", r.assessmentHandler.GenerateFitnessPlan)
	r.mux.HandleFunc("POST /api/education/articles", r.assessmentHandler.Educate)

	// Assessment record endpoints
	r.mux.HandleFunc("GET /api/assessments", r.assessmentHandler.ListAssessments)
	r.mux.HandleFunc("GET /api/assessments/{id}", r.assessmentHandler.GetAssessment)

	// Provider registry endpoints
	r.mux.HandleFunc("GET /api/providers", r.providerHandler.ListProviders)
	r.mux.HandleFunc("GET /api/providers/health", r.providerHandler.ProvidersHealth)

	// Geolocation endpoints
	r.mux.HandleFunc("POST /api/geocode", r.geolocationHandler.Geocode)
	r.mux.HandleFunc("POST /api/reverse-geocode", r.geolocationHandler.ReverseGeocode)

	// Maps endpoints
	r.mux.HandleFunc("GET /api/maps/static", r.mapsHandler.GetStaticMap)

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS must be outermost so cached responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	if r.metrics != nil {
		handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	}

	handler = middleware.CORSMiddleware(handler)

	return handler
}
