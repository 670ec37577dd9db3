package tokengenerator

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Token type constants, carried in the token_type claim
const (
	ACCESS_TOKEN_NAME  = "access_token"
	REFRESH_TOKEN_NAME = "refresh_token"
)

// Default token expiry durations
const (
	DefaultAccessTokenExpiry  = 15 * time.Minute
	DefaultRefreshTokenExpiry = 7 * 24 * time.Hour
)

// Subject is the identity carried by a token.
type Subject struct {
	UserID uuid.UUID
	RoleID uuid.UUID
}

// TokenPair is returned on login and refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// JwtService issues and verifies access and refresh tokens
type JwtService struct {
	generator TokenGenerator

	// Configurable token expiry durations
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

// JwtServiceOption is a function that configures a JwtService
type JwtServiceOption func(*JwtService)

// WithAccessTokenExpiry sets the access token expiry duration
func WithAccessTokenExpiry(expiry time.Duration) JwtServiceOption {
	return func(js *JwtService) {
		if expiry > 0 {
			js.AccessTokenExpiry = expiry
		}
	}
}

// WithRefreshTokenExpiry sets the refresh token expiry duration
func WithRefreshTokenExpiry(expiry time.Duration) JwtServiceOption {
	return func(js *JwtService) {
		if expiry > 0 {
			js.RefreshTokenExpiry = expiry
		}
	}
}

// NewJwtService creates a new JwtService
func NewJwtService(generator TokenGenerator, options ...JwtServiceOption) *JwtService {
	js := &JwtService{
		generator:          generator,
		AccessTokenExpiry:  DefaultAccessTokenExpiry,
		RefreshTokenExpiry: DefaultRefreshTokenExpiry,
	}
	for _, opt := range options {
		opt(js)
	}
	return js
}

// IssueAccessToken signs a short-lived access token for s.
func (js *JwtService) IssueAccessToken(s Subject) (string, error) {
	token, _, err := js.generator.GenerateToken(s.UserID.String(), s.RoleID.String(), ACCESS_TOKEN_NAME, js.AccessTokenExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return token, nil
}

// IssueTokenPair signs an access and a refresh token for s.
func (js *JwtService) IssueTokenPair(s Subject) (TokenPair, error) {
	access, err := js.IssueAccessToken(s)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, _, err := js.generator.GenerateToken(s.UserID.String(), s.RoleID.String(), REFRESH_TOKEN_NAME, js.RefreshTokenExpiry)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// VerifyRefreshToken returns the subject of a valid refresh token.
func (js *JwtService) VerifyRefreshToken(token string) (Subject, error) {
	return js.verify(token, REFRESH_TOKEN_NAME)
}

// VerifyAccessToken returns the subject of a valid access token.
func (js *JwtService) VerifyAccessToken(token string) (Subject, error) {
	return js.verify(token, ACCESS_TOKEN_NAME)
}

func (js *JwtService) verify(token, tokenType string) (Subject, error) {
	claims, err := js.generator.ParseToken(token)
	if err != nil {
		return Subject{}, err
	}
	if claims.TokenType != tokenType {
		return Subject{}, ErrWrongTokenType
	}
	return SubjectFromClaims(claims.Subject, claims.RoleID)
}

// SubjectFromClaims parses the sub and role_id claim values.
func SubjectFromClaims(sub, roleID string) (Subject, error) {
	userID, err := uuid.Parse(sub)
	if err != nil {
		return Subject{}, fmt.Errorf("invalid sub claim: %w", err)
	}
	role, err := uuid.Parse(roleID)
	if err != nil {
		return Subject{}, fmt.Errorf("invalid role_id claim: %w", err)
	}
	return Subject{UserID: userID, RoleID: role}, nil
}
