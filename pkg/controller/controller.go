// Package controller turns use case outcomes into HTTP responses.
package controller

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apperrors "github.com/tendant/simple-crm/pkg/errors"
	"github.com/tendant/simple-crm/pkg/usecase"
	"github.com/tendant/simple-crm/pkg/validation"
)

// OperationKind selects the success status of a handler.
type OperationKind int

const (
	// Created answers 201 with the value as body.
	Created OperationKind = iota
	// OK answers 200 with the value as body.
	OK
	// NoContent answers 204 with an empty body.
	NoContent
)

// Status returns the HTTP status for a successful operation of this kind.
func (k OperationKind) Status() int {
	switch k {
	case Created:
		return http.StatusCreated
	case NoContent:
		return http.StatusNoContent
	default:
		return http.StatusOK
	}
}

// ErrorResponse is the body written for every failure.
type ErrorResponse struct {
	Code       apperrors.ErrorCode   `json:"code"`
	Message    string                `json:"message"`
	Violations []apperrors.Violation `json:"violations,omitempty"`
}

// Binder extracts the raw input of a request. schema is the target use case's schema.
type Binder func(r *http.Request, schema *openapi3.Schema) (map[string]interface{}, error)

// Handle binds a request, runs the use case and dispatches its outcome.
func Handle[S any](kind OperationKind, runner usecase.Runner[S], binders ...Binder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := bindAll(r, runner.Schema(), binders)
		if err != nil {
			WriteError(w, r, apperrors.InvalidField("body", err.Error()))
			return
		}
		Dispatch(w, r, kind, runner.Run(r.Context(), raw))
	}
}

// Dispatch writes a success with the status of kind, or a failure with the status of its code.
func Dispatch[S any](w http.ResponseWriter, r *http.Request, kind OperationKind, out usecase.Outcome[S]) {
	if out.IsFailure() {
		WriteError(w, r, out.Failure())
		return
	}
	if kind == NoContent {
		render.NoContent(w, r)
		return
	}
	render.Status(r, kind.Status())
	render.JSON(w, r, out.Value())
}

// WriteError renders err with the status from the error table.
func WriteError(w http.ResponseWriter, r *http.Request, err *apperrors.Error) {
	if err == nil {
		err = apperrors.Unknown(nil)
	}
	status := err.HTTPStatusCode()
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}

	body := ErrorResponse{Code: err.Code, Message: err.PublicMessage()}
	if err.Code == apperrors.ErrCodeInvalidInput {
		body.Violations = err.Violations
	}
	if status >= http.StatusInternalServerError {
		body.Code = apperrors.ErrCodeInternal
	}

	render.Status(r, status)
	render.JSON(w, r, body)
}

func bindAll(r *http.Request, schema *openapi3.Schema, binders []Binder) (map[string]interface{}, error) {
	raw := map[string]interface{}{}
	for _, bind := range binders {
		part, err := bind(r, schema)
		if err != nil {
			return nil, err
		}
		for k, v := range part {
			raw[k] = v
		}
	}
	return raw, nil
}

// Body decodes a JSON object request body. An empty body is an empty object.
func Body() Binder {
	return func(r *http.Request, _ *openapi3.Schema) (map[string]interface{}, error) {
		raw := map[string]interface{}{}
		if r.Body == nil {
			return raw, nil
		}
		err := json.NewDecoder(r.Body).Decode(&raw)
		if errors.Is(err, io.EOF) {
			return map[string]interface{}{}, nil
		}
		if err != nil {
			return nil, errors.New("must be a JSON object")
		}
		return raw, nil
	}
}

// Path copies chi URL parameters into the input.
func Path(names ...string) Binder {
	return func(r *http.Request, _ *openapi3.Schema) (map[string]interface{}, error) {
		raw := make(map[string]interface{}, len(names))
		for _, name := range names {
			raw[name] = chi.URLParam(r, name)
		}
		return raw, nil
	}
}

// Query copies query parameters into the input, typed according to the schema.
func Query() Binder {
	return func(r *http.Request, schema *openapi3.Schema) (map[string]interface{}, error) {
		return validation.CoerceQuery(schema, r.URL.Query()), nil
	}
}
