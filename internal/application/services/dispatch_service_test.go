package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalpoint/backend/internal/application/services"
	"github.com/vitalpoint/backend/internal/domain/providers"
)

// stubProvider implements providers.AIProvider with canned behavior
type stubProvider struct {
	name    string
	model   string
	payload json.RawMessage
	err     error
	calls   []providers.RequestKind
}

func (p *stubProvider) Name() string  { return p.name }
func (p *stubProvider) Model() string { return p.model }

func (p *stubProvider) invoke(kind providers.RequestKind) (json.RawMessage, error) {
	p.calls = append(p.calls, kind)
	if p.err != nil {
		return nil, p.err
	}
	return p.payload, nil
}

func (p *stubProvider) Chat(_ context.Context, _ *providers.AIRequest) (json.RawMessage, error) {
	return p.invoke(providers.RequestKindChat)
}

func (p *stubProvider) Analyze(_ context.Context, _ *providers.AIRequest) (json.RawMessage, error) {
	return p.invoke(providers.RequestKindAnalysis)
}

func (p *stubProvider) Predict(_ context.Context, _ *providers.AIRequest) (json.RawMessage, error) {
	return p.invoke(providers.RequestKindPrediction)
}

func (p *stubProvider) Educate(_ context.Context, _ *providers.AIRequest) (json.RawMessage, error) {
	return p.invoke(providers.RequestKindEducation)
}

func (p *stubProvider) ProcessEmotion(_ context.Context, _ *providers.AIRequest) (json.RawMessage, error) {
	return p.invoke(providers.RequestKindEmotion)
}

func register(t *testing.T, d *services.Dispatcher, name string, priority int, active bool, p providers.AIProvider) {
	t.Helper()
	err := d.Register(providers.ProviderDescriptor{Name: name, Priority: priority, Active: active}, p)
	require.NoError(t, err)
}

func TestDispatcher_Select_HighestPriorityActive(t *testing.T) {
	d := services.NewDispatcher()
	register(t, d, "a", 5, true, &stubProvider{name: "a"})
	register(t, d, "b", 9, false, &stubProvider{name: "b"})

	provider, descriptor, err := d.Select(providers.RequestKindChat)
	require.NoError(t, err)
	assert.Equal(t, "a", provider.Name())
	assert.Equal(t, "a", descriptor.Name)
}

func TestDispatcher_Select_TieResolvesToFirstRegistered(t *testing.T) {
	d := services.NewDispatcher()
	register(t, d, "first", 7, true, &stubProvider{name: "first"})
	register(t, d, "second", 7, true, &stubProvider{name: "second"})

	_, descriptor, err := d.Select(providers.RequestKindAnalysis)
	require.NoError(t, err)
	assert.Equal(t, "first", descriptor.Name)
}

func TestDispatcher_Select_NoActiveProvider(t *testing.T) {
	d := services.NewDispatcher()
	register(t, d, "inactive", 9, false, &stubProvider{name: "inactive"})

	_, _, err := d.Select(providers.RequestKindChat)
	assert.Error(t, err)
}

func TestDispatcher_Select_InvalidKind(t *testing.T) {
	d := services.NewDispatcher()
	register(t, d, "a", 1, true, &stubProvider{name: "a"})

	_, _, err := d.Select(providers.RequestKind("translate"))
	assert.Error(t, err)
}

func TestDispatcher_Register_DuplicateName(t *testing.T) {
	d := services.NewDispatcher()
	register(t, d, "openai", 1, true, &stubProvider{name: "openai"})

	err := d.Register(providers.ProviderDescriptor{Name: "openai", Priority: 2, Active: true}, &stubProvider{name: "openai"})
	assert.Error(t, err)
}

func TestDispatcher_Register_NilProvider(t *testing.T) {
	d := services.NewDispatcher()

	err := d.Register(providers.ProviderDescriptor{Name: "ghost", Priority: 1, Active: true}, nil)
	assert.Error(t, err)
}

func TestDispatcher_Dispatch_Success(t *testing.T) {
	payload := json.RawMessage(`{"summary":"ok"}`)
	provider := &stubProvider{name: "openai", model: "gpt-4o-mini", payload: payload}

	d := services.NewDispatcher()
	register(t, d, "openai", 10, true, provider)

	resp := d.Dispatch(context.Background(), &providers.AIRequest{
		Kind:           providers.RequestKindAnalysis,
		Specialization: "symptom_triage",
	})

	assert.True(t, resp.Success)
	assert.Equal(t, "openai", resp.Provider)
	assert.Equal(t, "gpt-4o-mini", resp.Model)
	assert.Equal(t, payload, resp.Data)
	assert.Empty(t, resp.Error)
	assert.GreaterOrEqual(t, resp.ElapsedMS, int64(0))
	assert.Equal(t, []providers.RequestKind{providers.RequestKindAnalysis}, provider.calls)
}

func TestDispatcher_Dispatch_RoutesKindToCapability(t *testing.T) {
	kinds := []providers.RequestKind{
		providers.RequestKindChat,
		providers.RequestKindAnalysis,
		providers.RequestKindPrediction,
		providers.RequestKindEducation,
		providers.RequestKindEmotion,
	}

	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			provider := &stubProvider{name: "p", payload: json.RawMessage(`{}`)}
			d := services.NewDispatcher()
			register(t, d, "p", 1, true, provider)

			resp := d.Dispatch(context.Background(), &providers.AIRequest{Kind: kind})

			assert.True(t, resp.Success)
			assert.Equal(t, []providers.RequestKind{kind}, provider.calls)
		})
	}
}

func TestDispatcher_Dispatch_ProviderError(t *testing.T) {
	provider := &stubProvider{name: "openai", err: errors.New("upstream timeout")}

	d := services.NewDispatcher()
	register(t, d, "openai", 10, true, provider)

	resp := d.Dispatch(context.Background(), &providers.AIRequest{Kind: providers.RequestKindChat})

	assert.False(t, resp.Success)
	assert.Equal(t, "upstream timeout", resp.Error)
	assert.Equal(t, "openai", resp.Provider)
	assert.Nil(t, resp.Data)
}

func TestDispatcher_Dispatch_NoProviderAvailable(t *testing.T) {
	d := services.NewDispatcher()

	resp := d.Dispatch(context.Background(), &providers.AIRequest{Kind: providers.RequestKindChat})

	assert.False(t, resp.Success)
	assert.Equal(t, "NoProviderAvailable", resp.Error)
	assert.Empty(t, resp.Provider)
}

func TestDispatcher_Dispatch_NoFallbackDespiteFlag(t *testing.T) {
	failing := &stubProvider{name: "primary", err: errors.New("boom")}
	healthy := &stubProvider{name: "secondary", payload: json.RawMessage(`{}`)}

	d := services.NewDispatcher()
	register(t, d, "primary", 10, true, failing)
	register(t, d, "secondary", 5, true, healthy)

	resp := d.Dispatch(context.Background(), &providers.AIRequest{
		Kind:     providers.RequestKindChat,
		Fallback: true,
	})

	// Single-attempt semantics: the failure is reported, the lower
	// priority provider is never consulted.
	assert.False(t, resp.Success)
	assert.Equal(t, "primary", resp.Provider)
	assert.Empty(t, healthy.calls)
}

func TestDispatcher_Descriptors_RegistrationOrder(t *testing.T) {
	d := services.NewDispatcher()
	register(t, d, "b", 2, true, &stubProvider{name: "b"})
	register(t, d, "a", 9, false, &stubProvider{name: "a"})

	descriptors := d.Descriptors()
	require.Len(t, descriptors, 2)
	assert.Equal(t, "b", descriptors[0].Name)
	assert.Equal(t, "a", descriptors[1].Name)
}
