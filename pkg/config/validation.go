package config

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError names the environment variable that holds a bad value
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// ValidationErrors lists every configuration problem found by Load
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	switch len(e) {
	case 0:
		return ""
	case 1:
		return "invalid crm configuration: " + e[0].Error()
	}

	var b strings.Builder
	b.WriteString("invalid crm configuration:")
	for _, err := range e {
		b.WriteString("\n  - ")
		b.WriteString(err.Error())
	}
	return b.String()
}

// Validator checks one configuration section
type Validator func() ValidationErrors

// Validate runs every section validator and reports all problems together
func Validate(validators ...Validator) error {
	var all ValidationErrors
	for _, validator := range validators {
		all = append(all, validator()...)
	}
	if len(all) > 0 {
		return all
	}
	return nil
}

// CollectErrors drops the nil results of the Require* helpers
func CollectErrors(errors ...*ValidationError) ValidationErrors {
	var result ValidationErrors
	for _, err := range errors {
		if err != nil {
			result = append(result, *err)
		}
	}
	return result
}

func RequireNonEmpty(field, value string) *ValidationError {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Message: "must be set"}
	}
	return nil
}

func RequirePositive(field string, value int) *ValidationError {
	if value <= 0 {
		return &ValidationError{Field: field, Message: fmt.Sprintf("must be greater than zero, got %d", value)}
	}
	return nil
}

func RequireNonNegative(field string, value int) *ValidationError {
	if value < 0 {
		return &ValidationError{Field: field, Message: fmt.Sprintf("must be zero or more, got %d", value)}
	}
	return nil
}

func RequireInRange(field string, value, min, max int) *ValidationError {
	if value < min || value > max {
		return &ValidationError{Field: field, Message: fmt.Sprintf("must be between %d and %d, got %d", min, max, value)}
	}
	return nil
}

func RequirePositiveDuration(field string, value time.Duration) *ValidationError {
	if value <= 0 {
		return &ValidationError{Field: field, Message: fmt.Sprintf("must be a positive duration, got %v", value)}
	}
	return nil
}

// RequirePort rejects port 0, the only uint16 that cannot be dialled
func RequirePort(field string, value uint16) *ValidationError {
	if value == 0 {
		return &ValidationError{Field: field, Message: "must be a TCP port between 1 and 65535"}
	}
	return nil
}

// RequireOneOf compares case-sensitively; callers lower-case values such as LOG_LEVEL first
func RequireOneOf(field, value string, allowed []string) *ValidationError {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return &ValidationError{Field: field, Message: fmt.Sprintf("must be one of %s, got %q", strings.Join(allowed, ", "), value)}
}

// RequireSecret checks a signing secret is present and long enough. The value itself is
// never echoed back.
func RequireSecret(field, value string, minLength int) *ValidationError {
	if value == "" {
		return &ValidationError{Field: field, Message: "must be set"}
	}
	if len(value) < minLength {
		return &ValidationError{Field: field, Message: fmt.Sprintf("must be at least %d characters, got %d", minLength, len(value))}
	}
	return nil
}

// RequireTokenLifetime checks an ISO8601 (PT15M) or Go (15m) duration that must be positive
func RequireTokenLifetime(field, value string) *ValidationError {
	d, err := parseDurationISO8601(value)
	if err != nil {
		return &ValidationError{Field: field, Message: fmt.Sprintf("must be an ISO8601 duration such as PT15M or P7D, got %q", value)}
	}
	return RequirePositiveDuration(field, d)
}
