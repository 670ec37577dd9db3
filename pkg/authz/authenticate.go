package authz

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/tendant/simple-crm/pkg/controller"
	apperrors "github.com/tendant/simple-crm/pkg/errors"
	"github.com/tendant/simple-crm/pkg/tokengenerator"
)

// NewVerifier returns the HS256 verifier for access tokens. Tokens signed with secret are
// still rejected unless they carry the given issuer and audience.
func NewVerifier(secret, issuer, audience string) *jwtauth.JWTAuth {
	return jwtauth.New("HS256", []byte(secret), nil,
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
	)
}

// Authenticate verifies the bearer token and attaches the Principal to the context.
// Requests without a valid access token pass through unauthenticated; the gate decides
// what to do with them.
func Authenticate(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	verify := jwtauth.Verify(ja, jwtauth.TokenFromHeader)
	return func(next http.Handler) http.Handler {
		return verify(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			p, ok := principalFromClaims(claims)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		}))
	}
}

func principalFromClaims(claims map[string]interface{}) (Principal, bool) {
	if tokenType, _ := claims["token_type"].(string); tokenType != tokengenerator.ACCESS_TOKEN_NAME {
		slog.Debug("Rejected non-access token", "token_type", claims["token_type"])
		return Principal{}, false
	}
	sub, _ := claims["sub"].(string)
	roleID, _ := claims["role_id"].(string)
	subject, err := tokengenerator.SubjectFromClaims(sub, roleID)
	if err != nil {
		slog.Debug("Rejected token with malformed claims", "err", err)
		return Principal{}, false
	}
	return Principal{UserID: subject.UserID, RoleID: subject.RoleID}, true
}

// RequireAuth answers 401 unless Authenticate attached a principal.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFromContext(r.Context()); !ok {
			slog.Debug("Unauthenticated request to protected resource")
			controller.WriteError(w, r, apperrors.Unauthorized("authentication required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
