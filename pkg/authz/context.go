package authz

import (
	"context"

	"github.com/google/uuid"

	"github.com/tendant/simple-crm/pkg/role"
)

// Principal is the authenticated caller of one request.
type Principal struct {
	UserID uuid.UUID
	RoleID uuid.UUID
}

// contextKey is a value for use with context.WithValue. It's used as
// a pointer so it fits in an interface{} without allocation.
type contextKey struct {
	name string
}

func (k *contextKey) String() string {
	return "authz context value " + k.name
}

var (
	principalKey = &contextKey{"Principal"}
	roleKey      = &contextKey{"Role"}
)

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the principal attached by Authenticate.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

// WithRole returns a copy of ctx carrying the resolved role.
func WithRole(ctx context.Context, r role.Role) context.Context {
	return context.WithValue(ctx, roleKey, r)
}

// RoleFromContext returns the role resolved by the gate.
func RoleFromContext(ctx context.Context) (role.Role, bool) {
	r, ok := ctx.Value(roleKey).(role.Role)
	return r, ok
}

// PermissionsFromContext returns the permissions of the resolved role, empty when none.
func PermissionsFromContext(ctx context.Context) role.PermissionSet {
	r, ok := RoleFromContext(ctx)
	if !ok {
		return role.NewPermissionSet()
	}
	return r.PermissionSet()
}
