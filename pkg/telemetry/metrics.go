package telemetry

import (
	"context"
	"fmt"

	otelmetric "go.opentelemetry.io/otel/metric"
)

// Authorization decisions recorded by RecordAuthzDecision.
const (
	DecisionAllowed         = "allowed"
	DecisionUnauthenticated = "unauthenticated"
	DecisionForbidden       = "forbidden"
	DecisionError           = "error"
)

// OutcomeSuccess is recorded for use cases that return a success.
const OutcomeSuccess = "success"

// Metrics holds the service instruments. A nil *Metrics records nothing.
type Metrics struct {
	httpRequestsTotal   otelmetric.Int64Counter
	httpRequestDuration otelmetric.Float64Histogram
	authzDecisionsTotal otelmetric.Int64Counter
	usecaseOutcomes     otelmetric.Int64Counter
}

// NewMetrics creates every instrument on meter.
func NewMetrics(meter otelmetric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	latencyBuckets := otelmetric.WithExplicitBucketBoundaries(
		0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0,
	)

	if m.httpRequestsTotal, err = meter.Int64Counter("crm_http_requests_total",
		otelmetric.WithDescription("Total HTTP requests")); err != nil {
		return nil, fmt.Errorf("creating http_requests_total: %w", err)
	}
	if m.httpRequestDuration, err = meter.Float64Histogram("crm_http_request_duration_seconds",
		otelmetric.WithDescription("HTTP request duration"), latencyBuckets); err != nil {
		return nil, fmt.Errorf("creating http_request_duration: %w", err)
	}
	if m.authzDecisionsTotal, err = meter.Int64Counter("crm_authz_decisions_total",
		otelmetric.WithDescription("Authorization gate decisions")); err != nil {
		return nil, fmt.Errorf("creating authz_decisions_total: %w", err)
	}
	if m.usecaseOutcomes, err = meter.Int64Counter("crm_usecase_outcomes_total",
		otelmetric.WithDescription("Use case outcomes by failure code")); err != nil {
		return nil, fmt.Errorf("creating usecase_outcomes_total: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request metric.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, route string, status int, durationSec float64) {
	if m == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		methodAttr(method),
		routeAttr(route),
		statusAttr(status),
	)
	m.httpRequestsTotal.Add(ctx, 1, attrs)
	m.httpRequestDuration.Record(ctx, durationSec, attrs)
}

// RecordAuthzDecision records one gate decision. mode is "all" or "any".
func (m *Metrics) RecordAuthzDecision(ctx context.Context, mode, decision string) {
	if m == nil {
		return
	}
	m.authzDecisionsTotal.Add(ctx, 1, otelmetric.WithAttributes(
		modeAttr(mode),
		decisionAttr(decision),
	))
}

// RecordUseCaseOutcome records OutcomeSuccess or a failure code for a named use case.
func (m *Metrics) RecordUseCaseOutcome(ctx context.Context, usecase, outcome string) {
	if m == nil {
		return
	}
	m.usecaseOutcomes.Add(ctx, 1, otelmetric.WithAttributes(
		usecaseAttr(usecase),
		outcomeAttr(outcome),
	))
}
