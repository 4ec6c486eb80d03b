package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vitalpoint/backend/internal/domain/providers"
	apperrors "github.com/vitalpoint/backend/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// noProviderMessage is the error string surfaced when no active provider
// can serve a request
const noProviderMessage = "NoProviderAvailable"

type registration struct {
	descriptor providers.ProviderDescriptor
	provider   providers.AIProvider
}

// Dispatcher routes a classified AI request to exactly one active
// provider and normalizes its output.
//
// The registry is built once at startup via Register and read-only
// afterwards. Selection picks the highest-priority active provider;
// priority ties resolve to the first-registered provider. Dispatch is
// single-provider, single-attempt: errors are captured into the
// response envelope, never retried and never escalated to another
// provider.
type Dispatcher struct {
	registrations []registration
	names         map[string]struct{}
}

// NewDispatcher creates an empty dispatcher
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		names: make(map[string]struct{}),
	}
}

// Register adds a provider to the registry. Registration order is
// significant: it breaks priority ties during selection.
func (d *Dispatcher) Register(descriptor providers.ProviderDescriptor, provider providers.AIProvider) error {
	if provider == nil {
		return apperrors.NewValidationError(fmt.Sprintf("provider %q is nil", descriptor.Name))
	}
	if descriptor.Name == "" {
		return apperrors.NewValidationError("provider name is required")
	}
	if _, exists := d.names[descriptor.Name]; exists {
		return apperrors.NewConflictError(fmt.Sprintf("provider %q is already registered", descriptor.Name))
	}

	d.names[descriptor.Name] = struct{}{}
	d.registrations = append(d.registrations, registration{
		descriptor: descriptor,
		provider:   provider,
	})

	log.Info().
		Str("provider", descriptor.Name).
		Int("priority", descriptor.Priority).
		Bool("active", descriptor.Active).
		Msg("AI provider registered")

	return nil
}

// Select returns the highest-priority active provider for a request
// kind. Selection never blocks, never retries and never load-balances
// across equal-priority providers.
func (d *Dispatcher) Select(kind providers.RequestKind) (providers.AIProvider, providers.ProviderDescriptor, error) {
	if !kind.Valid() {
		return nil, providers.ProviderDescriptor{}, apperrors.NewValidationError(fmt.Sprintf("unknown request kind %q", kind))
	}

	var best *registration
	for i := range d.registrations {
		reg := &d.registrations[i]
		if !reg.descriptor.Active {
			continue
		}
		// Strict comparison keeps the first-registered provider on ties.
		if best == nil || reg.descriptor.Priority > best.descriptor.Priority {
			best = reg
		}
	}

	if best == nil {
		return nil, providers.ProviderDescriptor{}, apperrors.NewNoProviderError(noProviderMessage)
	}

	return best.provider, best.descriptor, nil
}

// Dispatch selects a provider, invokes the capability matching the
// request kind and wraps the result into a normalized envelope. It
// never returns an error: failures are reported with Success=false.
func (d *Dispatcher) Dispatch(ctx context.Context, req *providers.AIRequest) *providers.AIResponse {
	start := time.Now()

	provider, descriptor, err := d.Select(req.Kind)
	if err != nil {
		resp := &providers.AIResponse{
			Success:   false,
			Error:     errorMessage(err),
			ElapsedMS: time.Since(start).Milliseconds(),
		}
		recordDispatchMetric(ctx, string(req.Kind), "", false)
		return resp
	}

	data, err := d.invoke(ctx, provider, req)
	elapsed := time.Since(start)

	resp := &providers.AIResponse{
		Provider:  descriptor.Name,
		Model:     provider.Model(),
		ElapsedMS: elapsed.Milliseconds(),
	}

	if err != nil {
		resp.Success = false
		resp.Error = err.Error()
		log.Warn().
			Err(err).
			Str("provider", descriptor.Name).
			Str("kind", string(req.Kind)).
			Dur("elapsed", elapsed).
			Msg("AI dispatch failed")
	} else {
		resp.Success = true
		resp.Data = data
	}

	recordDispatchMetric(ctx, string(req.Kind), descriptor.Name, resp.Success)
	return resp
}

// Descriptors returns the registered provider descriptors in
// registration order
func (d *Dispatcher) Descriptors() []providers.ProviderDescriptor {
	out := make([]providers.ProviderDescriptor, 0, len(d.registrations))
	for _, reg := range d.registrations {
		out = append(out, reg.descriptor)
	}
	return out
}

func (d *Dispatcher) invoke(ctx context.Context, provider providers.AIProvider, req *providers.AIRequest) ([]byte, error) {
	switch req.Kind {
	case providers.RequestKindChat:
		return provider.Chat(ctx, req)
	case providers.RequestKindAnalysis:
		return provider.Analyze(ctx, req)
	case providers.RequestKindPrediction:
		return provider.Predict(ctx, req)
	case providers.RequestKindEducation:
		return provider.Educate(ctx, req)
	case providers.RequestKindEmotion:
		return provider.ProcessEmotion(ctx, req)
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown request kind %q", req.Kind))
	}
}

func errorMessage(err error) string {
	if appErr, ok := err.(*apperrors.AppError); ok {
		return appErr.Message
	}
	return err.Error()
}

var (
	dispatchMetricsOnce sync.Once
	dispatchCounter     metric.Int64Counter
)

func recordDispatchMetric(ctx context.Context, kind, provider string, success bool) {
	dispatchMetricsOnce.Do(func() {
		meter := otel.Meter("github.com/vitalpoint/backend/dispatch")
		counter, err := meter.Int64Counter(
			"ai.dispatch.count",
			metric.WithDescription("Number of dispatched AI requests"),
		)
		if err != nil {
			return
		}
		dispatchCounter = counter
	})
	if dispatchCounter == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("ai.request.kind", kind),
		attribute.Bool("ai.dispatch.success", success),
	}
	if provider != "" {
		attrs = append(attrs, attribute.String("ai.provider", provider))
	}
	dispatchCounter.Add(ctx, 1, metric.WithAttributes(attrs...))
}
