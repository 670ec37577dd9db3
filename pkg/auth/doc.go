// Package auth signs users in and refreshes their access tokens.
//
// POST /auth/login exchanges a username and password for an access token and a refresh
// token. An unknown username, a wrong password and an inactive user all fail with the same
// INVALID_CREDENTIALS error.
//
// POST /auth/refresh exchanges a refresh token for a new access token. The role id in the
// new token is read from the user store, not copied from the refresh token. Every kind of
// verification failure is reported as TOKEN_INVALID.
//
//	h := auth.NewHandle(users, password.NewBcryptHasher(cfg.BcryptCost), jwtService)
//	r.Mount("/auth", auth.Handler(h, limiter.Handler))
package auth
