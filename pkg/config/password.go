package config

import (
	"log/slog"

	"github.com/jinzhu/copier"
	"golang.org/x/crypto/bcrypt"

	"github.com/tendant/simple-crm/pkg/password"
)

// PasswordComplexityConfig holds password policy configuration from environment variables
type PasswordComplexityConfig struct {
	Enabled                 bool `env:"PASSWORD_POLICY_ENABLED" env-default:"true"`
	RequiredDigit           bool `env:"PASSWORD_COMPLEXITY_REQUIRE_DIGIT" env-default:"true"`
	RequiredLowercase       bool `env:"PASSWORD_COMPLEXITY_REQUIRE_LOWERCASE" env-default:"true"`
	RequiredNonAlphanumeric bool `env:"PASSWORD_COMPLEXITY_REQUIRE_NON_ALPHANUMERIC" env-default:"true"`
	RequiredUppercase       bool `env:"PASSWORD_COMPLEXITY_REQUIRE_UPPERCASE" env-default:"true"`
	RequiredLength          int  `env:"PASSWORD_COMPLEXITY_REQUIRED_LENGTH" env-default:"8"`
	DisallowCommonPwds      bool `env:"PASSWORD_COMPLEXITY_DISALLOW_COMMON_PWDS" env-default:"true"`
	MaxRepeatedChars        int  `env:"PASSWORD_COMPLEXITY_MAX_REPEATED_CHARS" env-default:"3"`

	BcryptCost int `env:"PASSWORD_BCRYPT_COST" env-default:"10"`
}

// ToPasswordPolicy converts the configuration to a password.Policy
func (c *PasswordComplexityConfig) ToPasswordPolicy() password.Policy {
	if c == nil {
		return password.DefaultPolicy()
	}

	var policy password.Policy
	if err := copier.Copy(&policy, c); err != nil {
		slog.Error("Failed to copy password policy, using defaults", "err", err)
		return password.DefaultPolicy()
	}

	slog.Info("Password policy configuration",
		"enabled", policy.Enabled,
		"minLength", policy.RequiredLength,
		"maxRepeatedChars", policy.MaxRepeatedChars,
	)
	return policy
}

func (c *PasswordComplexityConfig) validate() ValidationErrors {
	return CollectErrors(
		RequireNonNegative("PASSWORD_COMPLEXITY_REQUIRED_LENGTH", c.RequiredLength),
		RequireNonNegative("PASSWORD_COMPLEXITY_MAX_REPEATED_CHARS", c.MaxRepeatedChars),
		RequireInRange("PASSWORD_BCRYPT_COST", c.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost),
	)
}
