// Package config loads the service configuration from environment variables.
//
// Every section is a plain struct with cleanenv tags. Load reads them all in one pass and
// then validates the result, so a misconfigured deployment fails at startup with every
// problem listed:
//
//	cfg, err := config.Load()
//	if err != nil {
//		slog.Error("Invalid configuration", "err", err)
//		os.Exit(1)
//	}
//
// Token lifetimes accept ISO8601 durations (PT15M, P7D) and fall back to Go durations
// (15m, 168h):
//
//	access, _ := cfg.JWT.ParseAccessTokenExpiry()
//
// Sections that configure another package convert themselves:
//
//	checker := password.NewChecker(cfg.Password.ToPasswordPolicy())
//	limiter := ratelimit.NewMiddleware(cfg.RateLimit.ToMiddlewareConfig())
//
// # Validation helpers
//
// The Require* helpers return nil or a *ValidationError and are combined with CollectErrors
// and Validate:
//
//	return config.Validate(func() config.ValidationErrors {
//		return config.CollectErrors(
//			config.RequireNonEmpty("CRM_PG_HOST", c.Host),
//			config.RequirePort("CRM_PG_PORT", c.Port),
//		)
//	})
package config
