// Package validation checks untrusted input against declarative openapi3 schemas.
//
// Schemas are plain data built with the helpers in this package. Validate runs a schema over
// a decoded JSON object and reports every violation, never just the first.
package validation

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"

	apperrors "github.com/tendant/simple-crm/pkg/errors"
)

const (
	uuidPattern  = `^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`
	emailPattern = `^[^@\s]+@[^@\s]+\.[^@\s]+$`
	dateLayout   = "2006-01-02"
)

func init() {
	openapi3.SchemaErrorDetailsDisabled = true
	openapi3.DefineStringFormat("uuid", uuidPattern)
	openapi3.DefineStringFormat("email", emailPattern)
	openapi3.DefineStringFormatCallback("date", func(value string) error {
		_, err := time.Parse(dateLayout, value)
		return err
	})
}

// Validate runs schema over input and returns all violations, or nil when input is valid.
func Validate(schema *openapi3.Schema, input map[string]interface{}) []apperrors.Violation {
	if schema == nil {
		return nil
	}
	if input == nil {
		input = map[string]interface{}{}
	}
	err := schema.VisitJSON(input, openapi3.MultiErrors())
	if err == nil {
		return nil
	}
	var violations []apperrors.Violation
	collect(err, &violations)
	return violations
}

func collect(err error, out *[]apperrors.Violation) {
	switch e := err.(type) {
	case openapi3.MultiError:
		for _, inner := range e {
			collect(inner, out)
		}
	case *openapi3.SchemaError:
		*out = append(*out, apperrors.Violation{
			Field:  fieldPath(e.JSONPointer()),
			Reason: reason(e),
		})
	default:
		*out = append(*out, apperrors.Violation{Field: "body", Reason: err.Error()})
	}
}

func fieldPath(pointer []string) string {
	if len(pointer) == 0 {
		return "body"
	}
	return strings.Join(pointer, ".")
}

func reason(e *openapi3.SchemaError) string {
	switch e.SchemaField {
	case "required":
		return "is required"
	case "format":
		if e.Schema != nil {
			return fmt.Sprintf("must be a valid %s", e.Schema.Format)
		}
	case "nullable":
		return "must not be null"
	}
	return e.Reason
}

// Decode copies a validated input map into a typed value.
func Decode[T any](input map[string]interface{}, out *T) error {
	data, err := json.Marshal(input)
	if err == nil {
		err = json.Unmarshal(data, out)
	}
	return err
}

// CoerceQuery converts query parameters into the JSON types the schema declares, so a
// query string can be validated like a body. Values that do not parse stay strings and
// fail validation with a type violation.
func CoerceQuery(schema *openapi3.Schema, query url.Values) map[string]interface{} {
	out := make(map[string]interface{}, len(query))
	for key, values := range query {
		if len(values) == 0 {
			continue
		}
		raw := values[0]
		out[key] = raw
		if schema == nil {
			continue
		}
		prop, ok := schema.Properties[key]
		if !ok || prop == nil || prop.Value == nil {
			continue
		}
		switch prop.Value.Type {
		case "integer", "number":
			if n, err := strconv.ParseFloat(raw, 64); err == nil {
				out[key] = n
			}
		case "boolean":
			if b, err := strconv.ParseBool(raw); err == nil {
				out[key] = b
			}
		}
	}
	return out
}
