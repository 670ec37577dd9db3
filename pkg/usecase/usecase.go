// Package usecase runs application operations through one validate-then-execute pipeline.
//
// A use case declares the schema of its raw input and the domain step that runs on a
// decoded, valid input. Use cases that also implement InputChecker add their own violations
// to the schema's. Pipeline.Run guarantees the caller always receives a classified
// Result: schema violations become INVALID_INPUT, returned Go errors and panics become
// INTERNAL, and everything else is whatever the use case chose to return.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/getkin/kin-openapi/openapi3"

	apperrors "github.com/tendant/simple-crm/pkg/errors"
	"github.com/tendant/simple-crm/pkg/result"
	"github.com/tendant/simple-crm/pkg/telemetry"
	"github.com/tendant/simple-crm/pkg/validation"
)

// Outcome is the Result every use case returns.
type Outcome[S any] = result.Result[*apperrors.Error, S]

// Ok wraps a success value.
func Ok[S any](value S) Outcome[S] {
	return result.Success[*apperrors.Error](value)
}

// Fail wraps an expected domain failure.
func Fail[S any](err *apperrors.Error) Outcome[S] {
	return result.Failure[*apperrors.Error, S](err)
}

// UseCase is implemented by every application operation.
//
// Execute returns expected failures as a failed Outcome. A non-nil error means something
// unexpected happened and is reported as INTERNAL.
type UseCase[I any, S any] interface {
	Schema() *openapi3.Schema
	Execute(ctx context.Context, input I) (Outcome[S], error)
}

// InputChecker is implemented by use cases with input rules a schema cannot express.
// Its violations are reported together with the schema's, before Execute runs.
type InputChecker interface {
	CheckInput(raw map[string]interface{}) []apperrors.Violation
}

// Runner is the caller-facing side of a pipeline.
type Runner[S any] interface {
	Schema() *openapi3.Schema
	Run(ctx context.Context, raw map[string]interface{}) Outcome[S]
}

// Pipeline wraps a UseCase with validation, decoding and failure classification.
type Pipeline[I any, S any] struct {
	name    string
	useCase UseCase[I, S]
	metrics *telemetry.Metrics
}

// Option configures a Pipeline.
type Option func(*options)

type options struct {
	metrics *telemetry.Metrics
}

// WithMetrics records every outcome on m.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// New builds a pipeline for uc. name identifies the use case in logs and metrics.
func New[I any, S any](name string, uc UseCase[I, S], opts ...Option) *Pipeline[I, S] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	return &Pipeline[I, S]{name: name, useCase: uc, metrics: o.metrics}
}

// Name returns the use case name.
func (p *Pipeline[I, S]) Name() string {
	return p.name
}

// Schema returns the declared input schema.
func (p *Pipeline[I, S]) Schema() *openapi3.Schema {
	return p.useCase.Schema()
}

// Run validates raw, executes the use case and classifies the outcome.
func (p *Pipeline[I, S]) Run(ctx context.Context, raw map[string]interface{}) (out Outcome[S]) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("use case panicked", "usecase", p.name, "panic", rec, "stack", string(debug.Stack()))
			out = Fail[S](apperrors.Unknown(fmt.Errorf("panic: %v", rec)))
		}
		p.record(ctx, out)
	}()

	violations := validation.Validate(p.useCase.Schema(), raw)
	if checker, ok := p.useCase.(InputChecker); ok {
		violations = append(violations, checker.CheckInput(raw)...)
	}
	if len(violations) > 0 {
		return Fail[S](apperrors.InputValidation(violations))
	}

	var input I
	if err := validation.Decode(raw, &input); err != nil {
		slog.Error("failed to decode validated input", "usecase", p.name, "err", err)
		return Fail[S](apperrors.Unknown(fmt.Errorf("decoding input: %w", err)))
	}

	res, err := p.useCase.Execute(ctx, input)
	if err != nil {
		slog.Error("use case failed", "usecase", p.name, "err", err)
		return Fail[S](apperrors.Unknown(err))
	}
	if res.IsFailure() && res.Failure() == nil {
		slog.Error("use case returned an empty result", "usecase", p.name)
		return Fail[S](apperrors.Unknown(errors.New("empty result")))
	}
	return res
}

func (p *Pipeline[I, S]) record(ctx context.Context, out Outcome[S]) {
	outcome := telemetry.OutcomeSuccess
	if out.IsFailure() {
		outcome = string(out.Failure().Code)
	}
	p.metrics.RecordUseCaseOutcome(ctx, p.name, outcome)
}
