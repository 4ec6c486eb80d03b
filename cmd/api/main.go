package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vitalpoint/backend/internal/adapters/cache"
	"github.com/vitalpoint/backend/internal/adapters/database"
	"github.com/vitalpoint/backend/internal/adapters/memory"
	"github.com/vitalpoint/backend/internal/adapters/providers/ai"
	"github.com/vitalpoint/backend/internal/adapters/providers/geolocation"
	"github.com/vitalpoint/backend/internal/adapters/search"
	"github.com/vitalpoint/backend/internal/api/handlers"
	"github.com/vitalpoint/backend/internal/api/middleware"
	"github.com/vitalpoint/backend/internal/api/routes"
	"github.com/vitalpoint/backend/internal/application/services"
	"github.com/vitalpoint/backend/internal/domain/providers"
	"github.com/vitalpoint/backend/internal/domain/repositories"
	"github.com/vitalpoint/backend/internal/infrastructure/clients/postgres"
	"github.com/vitalpoint/backend/internal/infrastructure/clients/redis"
	"github.com/vitalpoint/backend/internal/infrastructure/clients/typesense"
	"github.com/vitalpoint/backend/internal/infrastructure/observability"
	"github.com/vitalpoint/backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
			log.Println("OpenTelemetry initialized successfully")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Persistence: in-memory by default, PostgreSQL when configured
	var (
		clinicRepo     repositories.ClinicRepository
		assessmentRepo repositories.AssessmentRepository
	)
	switch cfg.Storage.Driver {
	case "postgres":
		pgClient, err := postgres.NewClient(&cfg.Database)
		if err != nil {
			log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
		}
		defer pgClient.Close()
		log.Println("PostgreSQL client initialized successfully")

		clinicRepo = database.NewClinicAdapter(pgClient)
		assessmentRepo = database.NewAssessmentAdapter(pgClient)
	case "memory":
		clinicRepo = memory.NewClinicStore()
		assessmentRepo = memory.NewAssessmentStore()
		log.Println("Using in-memory storage")
	default:
		log.Fatalf("Unknown storage driver %q (expected \"memory\" or \"postgres\")", cfg.Storage.Driver)
	}

	// Redis is optional; the application works without caching
	var cacheProvider providers.CacheProvider
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to initialize Redis client: %v", err)
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		log.Println("Redis client initialized successfully")
	}

	// Typesense is optional; suggestions return 503 without it
	var clinicIndex repositories.ClinicIndexRepository
	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Printf("Warning: Failed to initialize Typesense client: %v", err)
	} else {
		adapter := search.NewTypesenseAdapter(typesenseClient)
		if err := adapter.InitSchema(context.Background()); err != nil {
			log.Printf("Warning: Failed to init Typesense schema: %v", err)
		} else {
			clinicIndex = adapter
			log.Println("Typesense client initialized successfully")
		}
	}

	var geolocationProvider providers.GeolocationProvider
	switch cfg.Geolocation.Provider {
	case "google":
		if cfg.Geolocation.APIKey == "" {
			log.Println("Warning: GOOGLE_MAPS_API_KEY is not set; using mock geolocation provider")
			geolocationProvider = geolocation.NewMockGeolocationProvider()
		} else {
			geolocationProvider = geolocation.NewGoogleGeolocationProvider(cfg.Geolocation.APIKey, cacheProvider)
		}
	default:
		geolocationProvider = geolocation.NewMockGeolocationProvider()
	}

	dispatcher, err := buildDispatcher(cfg)
	if err != nil {
		log.Fatalf("Failed to build AI dispatcher: %v", err)
	}

	assessmentService := services.NewAssessmentService(dispatcher, assessmentRepo)
	clinicSearchService := services.NewClinicSearchService(clinicRepo, geolocationProvider)

	clinicHandler := handlers.NewClinicHandler(clinicRepo, clinicIndex, clinicSearchService)
	assessmentHandler := handlers.NewAssessmentHandler(assessmentService)
	providerHandler := handlers.NewProviderHandler(dispatcher)
	geolocationHandler := handlers.NewGeolocationHandler(geolocationProvider)
	mapsHandler := handlers.NewMapsHandler(cfg.Geolocation.APIKey, cacheProvider)

	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
		log.Println("Cache middleware initialized successfully")
	}

	router := routes.NewRouter(
		clinicHandler,
		assessmentHandler,
		providerHandler,
		geolocationHandler,
		mapsHandler,
		cacheMiddleware,
		metrics,
	)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// buildDispatcher registers every enabled AI provider. An enabled
// provider with missing credentials is a configuration error, not a
// silent skip. With no provider enabled the mock provider is registered
// so the API stays usable in development.
func buildDispatcher(cfg *config.Config) (*services.Dispatcher, error) {
	dispatcher := services.NewDispatcher()

	type candidate struct {
		name  string
		cfg   *config.AIProviderConfig
		build func(*config.AIProviderConfig) (providers.AIProvider, error)
	}

	candidates := []candidate{
		{"openai", &cfg.OpenAI, func(c *config.AIProviderConfig) (providers.AIProvider, error) {
			return ai.NewOpenAIProvider(c)
		}},
		{"gemini", &cfg.Gemini, func(c *config.AIProviderConfig) (providers.AIProvider, error) {
			return ai.NewGeminiProvider(c)
		}},
		{"perplexity", &cfg.Perplexity, func(c *config.AIProviderConfig) (providers.AIProvider, error) {
			return ai.NewPerplexityProvider(c)
		}},
	}

	registered := 0
	for _, c := range candidates {
		if !c.cfg.Enabled {
			continue
		}

		provider, err := c.build(c.cfg)
		if err != nil {
			return nil, fmt.Errorf("provider %s is enabled but not usable: %w", c.name, err)
		}

		descriptor := providers.ProviderDescriptor{
			Name:         c.name,
			Priority:     c.cfg.Priority,
			Active:       true,
			RateLimitRPM: c.cfg.RateLimitRPM,
		}
		if err := dispatcher.Register(descriptor, provider); err != nil {
			return nil, err
		}
		registered++
	}

	if registered == 0 {
		log.Println("Warning: no AI provider enabled; registering mock provider")
		mock := ai.NewMockProvider()
		if err := dispatcher.Register(providers.ProviderDescriptor{
			Name:     mock.Name(),
			Priority: 1,
			Active:   true,
		}, mock); err != nil {
			return nil, err
		}
	}

	return dispatcher, nil
}
