package authz

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/tendant/simple-crm/pkg/controller"
	apperrors "github.com/tendant/simple-crm/pkg/errors"
	"github.com/tendant/simple-crm/pkg/repository"
	"github.com/tendant/simple-crm/pkg/role"
	"github.com/tendant/simple-crm/pkg/telemetry"
)

// RoleResolver loads a role by id. A missing role is reported as repository.ErrNotFound.
type RoleResolver interface {
	FindByID(ctx context.Context, id uuid.UUID) (role.Role, error)
}

// Gate decides per request whether the caller's role grants the route's permissions.
// It resolves the role on every request and fails closed.
type Gate struct {
	roles   RoleResolver
	metrics *telemetry.Metrics
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithMetrics records every decision on m.
func WithMetrics(m *telemetry.Metrics) GateOption {
	return func(g *Gate) {
		g.metrics = m
	}
}

// NewGate builds a gate that resolves roles through roles.
func NewGate(roles RoleResolver, opts ...GateOption) *Gate {
	g := &Gate{roles: roles}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

const (
	modeAll = "all"
	modeAny = "any"
)

// RequireAll admits callers whose role holds every permission in required.
// With no permissions it admits any caller whose role resolves.
func (g *Gate) RequireAll(required ...role.Permission) func(http.Handler) http.Handler {
	return g.require(modeAll, required, func(s role.PermissionSet) bool {
		return s.ContainsAll(required...)
	})
}

// RequireAny admits callers whose role holds at least one permission in candidates.
// With no permissions it admits nobody.
func (g *Gate) RequireAny(candidates ...role.Permission) func(http.Handler) http.Handler {
	return g.require(modeAny, candidates, func(s role.PermissionSet) bool {
		return s.ContainsAny(candidates...)
	})
}

// Authenticated is RequireAll with no permissions.
func (g *Gate) Authenticated() func(http.Handler) http.Handler {
	return g.RequireAll()
}

func (g *Gate) require(mode string, perms []role.Permission, allowed func(role.PermissionSet) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			principal, ok := PrincipalFromContext(ctx)
			if !ok {
				slog.Debug("Unauthenticated request to permission-protected resource", "requiredPermissions", perms)
				g.deny(w, r, mode, telemetry.DecisionUnauthenticated, apperrors.Unauthorized("authentication required"))
				return
			}

			resolved, err := g.roles.FindByID(ctx, principal.RoleID)
			if errors.Is(err, repository.ErrNotFound) {
				slog.Warn("Caller role could not be resolved",
					"userId", principal.UserID,
					"roleId", principal.RoleID)
				g.deny(w, r, mode, telemetry.DecisionForbidden, apperrors.Forbidden("insufficient permissions"))
				return
			}
			if err != nil {
				slog.Error("Failed to resolve caller role",
					"userId", principal.UserID,
					"roleId", principal.RoleID,
					"err", err)
				g.deny(w, r, mode, telemetry.DecisionError, apperrors.Unknown(err))
				return
			}

			if !allowed(resolved.PermissionSet()) {
				slog.Warn("User lacks required permissions",
					"userId", principal.UserID,
					"role", resolved.Name,
					"userPermissions", resolved.Permissions,
					"requiredPermissions", perms,
					"mode", mode)
				g.deny(w, r, mode, telemetry.DecisionForbidden, apperrors.Forbidden("insufficient permissions"))
				return
			}

			g.metrics.RecordAuthzDecision(ctx, mode, telemetry.DecisionAllowed)
			next.ServeHTTP(w, r.WithContext(WithRole(ctx, resolved)))
		})
	}
}

func (g *Gate) deny(w http.ResponseWriter, r *http.Request, mode, decision string, err *apperrors.Error) {
	g.metrics.RecordAuthzDecision(r.Context(), mode, decision)
	controller.WriteError(w, r, err)
}
