package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const defaultHTTPTimeout = 20 * time.Second

// stripCodeFences removes Markdown code fences models sometimes wrap
// around JSON replies
func stripCodeFences(text string) string {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSuffix(cleaned, "```")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
	}
	return strings.TrimSpace(cleaned)
}

// normalizePayload returns the model reply as a JSON payload. Replies
// that are not valid JSON are wrapped as {"text": ...} so callers
// always receive a JSON object.
func normalizePayload(text string) (json.RawMessage, error) {
	cleaned := stripCodeFences(text)
	if cleaned == "" {
		return nil, fmt.Errorf("model reply is empty")
	}

	if json.Valid([]byte(cleaned)) {
		return json.RawMessage(cleaned), nil
	}

	wrapped, err := json.Marshal(map[string]string{"text": cleaned})
	if err != nil {
		return nil, fmt.Errorf("failed to wrap model reply: %w", err)
	}
	return wrapped, nil
}

// tokenBucket is an advisory per-provider rate limiter refilled on a
// fixed interval derived from requests-per-minute
type tokenBucket struct {
	tokens chan struct{}
}

func newTokenBucket(rpm, burst int) *tokenBucket {
	if rpm <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 5
	}

	bucket := &tokenBucket{
		tokens: make(chan struct{}, burst),
	}
	for i := 0; i < burst; i++ {
		bucket.tokens <- struct{}{}
	}

	interval := time.Minute / time.Duration(rpm)
	if interval <= 0 {
		interval = time.Millisecond
	}

	ticker := time.NewTicker(interval)
	go func() {
		for range ticker.C {
			select {
			case bucket.tokens <- struct{}{}:
			default:
			}
		}
	}()

	return bucket
}

func (b *tokenBucket) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.tokens:
		return nil
	}
}

type aiMetrics struct {
	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram
	requestErrors   metric.Int64Counter
}

var (
	aiMetricsOnce sync.Once
	aiMetricsInst aiMetrics
	aiMetricsOK   bool
)

func ensureAIMetrics() {
	aiMetricsOnce.Do(func() {
		meter := otel.Meter("github.com/vitalpoint/backend/ai")

		requestCount, err := meter.Int64Counter(
			"ai.request.count",
			metric.WithDescription("Number of AI provider requests"),
		)
		if err != nil {
			return
		}
		requestDuration, err := meter.Float64Histogram(
			"ai.request.duration",
			metric.WithDescription("AI provider request duration in milliseconds"),
			metric.WithUnit("ms"),
		)
		if err != nil {
			return
		}
		requestErrors, err := meter.Int64Counter(
			"ai.request.errors",
			metric.WithDescription("Number of AI provider request errors"),
		)
		if err != nil {
			return
		}

		aiMetricsInst = aiMetrics{
			requestCount:    requestCount,
			requestDuration: requestDuration,
			requestErrors:   requestErrors,
		}
		aiMetricsOK = true
	})
}

func recordRequestMetric(ctx context.Context, provider, model string, statusCode int, duration time.Duration, err error) {
	ensureAIMetrics()
	if !aiMetricsOK {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("ai.provider", provider),
		attribute.String("ai.model", model),
	}
	if statusCode > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", statusCode))
	}

	aiMetricsInst.requestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	aiMetricsInst.requestDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	if err != nil {
		aiMetricsInst.requestErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}
