package password

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	upperRe   = regexp.MustCompile(`[A-Z]`)
	lowerRe   = regexp.MustCompile(`[a-z]`)
	digitRe   = regexp.MustCompile(`[0-9]`)
	specialRe = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

// Policy defines the requirements for password complexity. Field names line up with
// config.PasswordComplexityConfig so one can be copied into the other.
type Policy struct {
	Enabled                 bool
	RequiredLength          int
	RequiredUppercase       bool
	RequiredLowercase       bool
	RequiredDigit           bool
	RequiredNonAlphanumeric bool
	DisallowCommonPwds      bool
	MaxRepeatedChars        int
}

// DefaultPolicy returns the production password policy
func DefaultPolicy() Policy {
	return Policy{
		Enabled:                 true,
		RequiredLength:          8,
		RequiredUppercase:       true,
		RequiredLowercase:       true,
		RequiredDigit:           true,
		RequiredNonAlphanumeric: true,
		DisallowCommonPwds:      true,
		MaxRepeatedChars:        3,
	}
}

// Checker checks candidate passwords against a Policy
type Checker struct {
	policy          Policy
	commonPasswords map[string]bool
}

// NewChecker creates a checker for policy
func NewChecker(policy Policy) *Checker {
	return &Checker{policy: policy, commonPasswords: commonPasswords()}
}

// Policy returns the policy being enforced
func (c *Checker) Policy() Policy {
	return c.policy
}

// Check returns every requirement password fails, or nil when it satisfies the policy.
func (c *Checker) Check(password string) []string {
	if !c.policy.Enabled {
		return nil
	}

	var reasons []string
	if len(password) < c.policy.RequiredLength {
		reasons = append(reasons, fmt.Sprintf("must be at least %d characters long", c.policy.RequiredLength))
	}
	if c.policy.RequiredUppercase && !upperRe.MatchString(password) {
		reasons = append(reasons, "must contain at least one uppercase letter")
	}
	if c.policy.RequiredLowercase && !lowerRe.MatchString(password) {
		reasons = append(reasons, "must contain at least one lowercase letter")
	}
	if c.policy.RequiredDigit && !digitRe.MatchString(password) {
		reasons = append(reasons, "must contain at least one digit")
	}
	if c.policy.RequiredNonAlphanumeric && !specialRe.MatchString(password) {
		reasons = append(reasons, "must contain at least one special character")
	}
	if c.policy.DisallowCommonPwds && c.commonPasswords[strings.ToLower(password)] {
		reasons = append(reasons, "is too common")
	}
	if c.policy.MaxRepeatedChars > 0 && hasRepeatedChars(password, c.policy.MaxRepeatedChars) {
		reasons = append(reasons, fmt.Sprintf("must not repeat a character %d or more times in a row", c.policy.MaxRepeatedChars))
	}
	return reasons
}

func hasRepeatedChars(password string, maxRepeated int) bool {
	for i := 0; i < len(password)-maxRepeated+1; i++ {
		if strings.Count(password[i:i+maxRepeated], string(password[i])) == maxRepeated {
			return true
		}
	}
	return false
}

func commonPasswords() map[string]bool {
	pwds := []string{
		"password", "123456", "12345678", "qwerty", "admin",
		"welcome", "login", "abc123", "letmein", "monkey",
		"password1", "passw0rd!", "p@ssw0rd", "p@ssword1",
	}
	out := make(map[string]bool, len(pwds))
	for _, p := range pwds {
		out[p] = true
	}
	return out
}
