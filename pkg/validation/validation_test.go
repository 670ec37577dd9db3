package validation

import (
	"net/url"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/tendant/simple-crm/pkg/errors"
)

func clientSchema() *openapi3.Schema {
	return Object(map[string]*openapi3.Schema{
		"name":      Text(1, 100),
		"email":     Email(),
		"birthDate": Date(),
		"roleId":    UUID(),
		"tags":      ArrayOf(Enum("A", "B")),
	}, "name")
}

func fields(violations []apperrors.Violation) []string {
	out := make([]string, 0, len(violations))
	for _, v := range violations {
		out = append(out, v.Field)
	}
	return out
}

func TestValidate_Valid(t *testing.T) {
	violations := Validate(clientSchema(), map[string]interface{}{
		"name":      "Acme",
		"email":     "contact@acme.test",
		"birthDate": "1990-04-12",
		"roleId":    "6f1c2a8e-3d1b-4a8e-9d77-2b4f0f6d1a10",
		"tags":      []interface{}{"A"},
	})
	assert.Empty(t, violations)
}

func TestValidate_CollectsEveryViolation(t *testing.T) {
	violations := Validate(clientSchema(), map[string]interface{}{
		"email":     "not-an-email",
		"birthDate": "2023-02-31",
		"roleId":    "not-uuid",
	})

	require.Len(t, violations, 4)
	assert.ElementsMatch(t, []string{"name", "email", "birthDate", "roleId"}, fields(violations))

	for _, v := range violations {
		switch v.Field {
		case "name":
			assert.Equal(t, "is required", v.Reason)
		case "roleId":
			assert.Equal(t, "must be a valid uuid", v.Reason)
		case "email":
			assert.Equal(t, "must be a valid email", v.Reason)
		}
	}
}

func TestValidate_NullOnlyWhenNullable(t *testing.T) {
	schema := Object(map[string]*openapi3.Schema{
		"name":  Text(1, 0),
		"notes": Nullable(Text(0, 0)),
	})

	violations := Validate(schema, map[string]interface{}{"name": nil, "notes": nil})
	require.Len(t, violations, 1)
	assert.Equal(t, "name", violations[0].Field)
	assert.Equal(t, "must not be null", violations[0].Reason)
}

func TestValidate_NestedArrayItem(t *testing.T) {
	violations := Validate(clientSchema(), map[string]interface{}{
		"name": "Acme",
		"tags": []interface{}{"A", "Z"},
	})
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0].Field, "tags")
}

func TestValidate_NilInputIsEmptyObject(t *testing.T) {
	violations := Validate(ByID(), nil)
	require.Len(t, violations, 1)
	assert.Equal(t, "id", violations[0].Field)
}

func TestCoerceQuery(t *testing.T) {
	schema := List(map[string]*openapi3.Schema{
		"name":   Text(0, 0),
		"active": Bool(),
	})
	query := url.Values{
		"page":   {"2"},
		"limit":  {"abc"},
		"name":   {"ac"},
		"active": {"true"},
	}

	raw := CoerceQuery(schema, query)
	assert.Equal(t, float64(2), raw["page"])
	assert.Equal(t, "abc", raw["limit"])
	assert.Equal(t, "ac", raw["name"])
	assert.Equal(t, true, raw["active"])

	violations := Validate(schema, raw)
	require.Len(t, violations, 1)
	assert.Equal(t, "limit", violations[0].Field)
}

func TestList_LimitBounds(t *testing.T) {
	schema := List(nil)
	assert.Empty(t, Validate(schema, map[string]interface{}{"page": float64(1), "limit": float64(MaxLimit)}))
	assert.Len(t, Validate(schema, map[string]interface{}{"page": float64(0), "limit": float64(MaxLimit + 1)}), 2)
}

func TestDecodeOptional(t *testing.T) {
	type patch struct {
		Name  Optional[string] `json:"name"`
		Email Optional[string] `json:"email"`
		Phone Optional[string] `json:"phone"`
	}

	var p patch
	require.NoError(t, Decode(map[string]interface{}{
		"name":  "Acme",
		"email": nil,
	}, &p))

	assert.True(t, p.Name.Set)
	assert.Equal(t, "Acme", *p.Name.Ptr())
	assert.True(t, p.Email.Set)
	assert.True(t, p.Email.Null)
	assert.Nil(t, p.Email.Ptr())
	assert.False(t, p.Phone.Set)
}
