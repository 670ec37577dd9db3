package config

import (
	"time"

	"github.com/sosodev/duration"
)

// JWTConfig holds JWT authentication configuration
type JWTConfig struct {
	Secret             string `env:"JWT_SECRET"`
	Issuer             string `env:"JWT_ISSUER" env-default:"simple-crm"`
	Audience           string `env:"JWT_AUDIENCE" env-default:"simple-crm"`
	AccessTokenExpiry  string `env:"ACCESS_TOKEN_EXPIRY" env-default:"PT15M"`
	RefreshTokenExpiry string `env:"REFRESH_TOKEN_EXPIRY" env-default:"P7D"`
}

// ParseAccessTokenExpiry parses the access token expiry duration
func (j JWTConfig) ParseAccessTokenExpiry() (time.Duration, error) {
	return parseDurationISO8601(j.AccessTokenExpiry)
}

// ParseRefreshTokenExpiry parses the refresh token expiry duration
func (j JWTConfig) ParseRefreshTokenExpiry() (time.Duration, error) {
	return parseDurationISO8601(j.RefreshTokenExpiry)
}

func (j JWTConfig) validate() ValidationErrors {
	return CollectErrors(
		RequireSecret("JWT_SECRET", j.Secret, 16),
		RequireNonEmpty("JWT_ISSUER", j.Issuer),
		RequireNonEmpty("JWT_AUDIENCE", j.Audience),
		RequireTokenLifetime("ACCESS_TOKEN_EXPIRY", j.AccessTokenExpiry),
		RequireTokenLifetime("REFRESH_TOKEN_EXPIRY", j.RefreshTokenExpiry),
	)
}

// parseDurationISO8601 tries to parse duration as ISO8601 first, then Go duration
func parseDurationISO8601(s string) (time.Duration, error) {
	isoDuration, err := duration.Parse(s)
	if err == nil {
		return isoDuration.ToTimeDuration(), nil
	}

	return time.ParseDuration(s)
}
