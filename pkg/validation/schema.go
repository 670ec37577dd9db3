package validation

import (
	"math"

	"github.com/getkin/kin-openapi/openapi3"
)

// Pagination bounds shared by every list endpoint.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	MaxPage      = math.MaxInt32
)

// Object builds an object schema from its properties and required keys.
func Object(properties map[string]*openapi3.Schema, required ...string) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	for name, prop := range properties {
		schema.WithProperty(name, prop)
	}
	schema.Required = required
	return schema
}

// UUID is a string in canonical uuid form.
func UUID() *openapi3.Schema {
	return openapi3.NewStringSchema().WithFormat("uuid")
}

// Email is a string shaped like an email address.
func Email() *openapi3.Schema {
	return openapi3.NewStringSchema().WithFormat("email").WithMaxLength(255)
}

// Date is a calendar date in YYYY-MM-DD form.
func Date() *openapi3.Schema {
	return openapi3.NewStringSchema().WithFormat("date")
}

// Text is a string with length bounds. A zero max means unbounded.
func Text(min, max int64) *openapi3.Schema {
	schema := openapi3.NewStringSchema().WithMinLength(min)
	if max > 0 {
		schema.WithMaxLength(max)
	}
	return schema
}

// Bool is a boolean.
func Bool() *openapi3.Schema {
	return openapi3.NewBoolSchema()
}

// Enum is a string restricted to values.
func Enum(values ...string) *openapi3.Schema {
	enum := make([]interface{}, len(values))
	for i, v := range values {
		enum[i] = v
	}
	return openapi3.NewStringSchema().WithEnum(enum...)
}

// ArrayOf is an array whose items match items.
func ArrayOf(items *openapi3.Schema) *openapi3.Schema {
	return openapi3.NewArraySchema().WithItems(items)
}

// Nullable marks schema as accepting null.
func Nullable(schema *openapi3.Schema) *openapi3.Schema {
	return schema.WithNullable()
}

// ByID is the schema for operations addressed only by an id.
func ByID() *openapi3.Schema {
	return Object(map[string]*openapi3.Schema{"id": UUID()}, "id")
}

// List extends filters with page and limit.
func List(filters map[string]*openapi3.Schema) *openapi3.Schema {
	props := map[string]*openapi3.Schema{
		"page":  openapi3.NewIntegerSchema().WithMin(1).WithMax(MaxPage),
		"limit": openapi3.NewIntegerSchema().WithMin(1).WithMax(MaxLimit),
	}
	for name, prop := range filters {
		props[name] = prop
	}
	return Object(props)
}
