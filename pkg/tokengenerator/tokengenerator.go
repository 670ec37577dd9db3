package tokengenerator

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrWrongTokenType is returned when a valid token is presented where another type is expected.
var ErrWrongTokenType = errors.New("unexpected token type")

// TokenGenerator interface defines methods for token operations
type TokenGenerator interface {
	// GenerateToken signs a token for subject carrying roleID and tokenType.
	GenerateToken(subject, roleID, tokenType string, expiry time.Duration) (string, time.Time, error)

	// ParseToken verifies signature, issuer, audience and expiry and returns the claims.
	ParseToken(tokenStr string) (*Claims, error)
}

// Claims struct for JWT claims
type Claims struct {
	RoleID    string `json:"role_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// JwtTokenGenerator implements the TokenGenerator interface with HS256
type JwtTokenGenerator struct {
	Secret   string
	Issuer   string
	Audience string
}

// NewJwtTokenGenerator creates a new JwtTokenGenerator
func NewJwtTokenGenerator(secret, issuer, audience string) *JwtTokenGenerator {
	return &JwtTokenGenerator{
		Secret:   secret,
		Issuer:   issuer,
		Audience: audience,
	}
}

// GenerateToken creates a new token with the given subject and claims
func (g *JwtTokenGenerator) GenerateToken(subject, roleID, tokenType string, expiry time.Duration) (string, time.Time, error) {
	now := time.Now().UTC()
	claims := Claims{
		RoleID:    roleID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-5 * time.Minute)),
			Issuer:    g.Issuer,
			Subject:   subject,
			ID:        uuid.New().String(),
			Audience:  jwt.ClaimStrings{g.Audience},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString([]byte(g.Secret))
	if err != nil {
		slog.Error("Failed sign JWT Claim string!", "err", err)
		return "", time.Time{}, err
	}
	return ss, claims.ExpiresAt.Time, nil
}

// ParseToken parses and validates a token string
func (g *JwtTokenGenerator) ParseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(g.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(g.Issuer),
		jwt.WithAudience(g.Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		slog.Debug("Failed parse JWT string!", "err", err)
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("failed_parse_token_claims")
	}
	return claims, nil
}
