package authz

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-crm/pkg/role"
	"github.com/tendant/simple-crm/pkg/tokengenerator"
)

const testSecret = "gate-test-secret"

type failingResolver struct{}

func (failingResolver) FindByID(ctx context.Context, id uuid.UUID) (role.Role, error) {
	return role.Role{}, errors.New("connection refused")
}

type fixture struct {
	roles  *role.InMemoryRoleRepository
	tokens *tokengenerator.JwtService
	ja     *jwtauth.JWTAuth
}

func newFixture() fixture {
	return fixture{
		roles:  role.NewInMemoryRoleRepository(),
		tokens: tokengenerator.NewJwtService(tokengenerator.NewJwtTokenGenerator(testSecret, "crm", "crm-api")),
		ja:     NewVerifier(testSecret, "crm", "crm-api"),
	}
}

func (f fixture) roleWith(t *testing.T, perms ...role.Permission) role.Role {
	t.Helper()
	r, err := f.roles.Create(context.Background(), role.Role{Name: uuid.NewString(), Permissions: perms})
	require.NoError(t, err)
	return r
}

func (f fixture) accessToken(t *testing.T, roleID uuid.UUID) string {
	t.Helper()
	token, err := f.tokens.IssueAccessToken(tokengenerator.Subject{UserID: uuid.New(), RoleID: roleID})
	require.NoError(t, err)
	return token
}

// serve runs a request with token through Authenticate and mw, reporting whether the
// protected handler ran.
func (f fixture) serve(mw func(http.Handler) http.Handler, token string) (*httptest.ResponseRecorder, bool) {
	called := false
	h := Authenticate(f.ja)(mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		_, hasRole := RoleFromContext(r.Context())
		_, hasPrincipal := PrincipalFromContext(r.Context())
		if !hasRole || !hasPrincipal {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		w.WriteHeader(http.StatusOK)
	})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr, called
}

func TestRequireAll(t *testing.T) {
	f := newFixture()
	gate := NewGate(f.roles)
	mw := gate.RequireAll(role.ManageClients, role.ViewReports)

	full := f.roleWith(t, role.ManageClients, role.ViewReports, role.ManageUsers)
	rr, called := f.serve(mw, f.accessToken(t, full.ID))
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rr.Code)

	allButOne := f.roleWith(t, role.ManageClients)
	rr, called = f.serve(mw, f.accessToken(t, allButOne.ID))
	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRequireAny(t *testing.T) {
	f := newFixture()
	gate := NewGate(f.roles)
	mw := gate.RequireAny(role.ManageClients, role.ViewReports)

	one := f.roleWith(t, role.ViewReports)
	rr, called := f.serve(mw, f.accessToken(t, one.ID))
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rr.Code)

	none := f.roleWith(t, role.ManageSuppliers)
	rr, called = f.serve(mw, f.accessToken(t, none.ID))
	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestMissingManageUsersIsForbidden(t *testing.T) {
	f := newFixture()
	gate := NewGate(f.roles)
	sales := f.roleWith(t, role.ManageClients, role.ManageSuppliers, role.ViewReports)

	rr, called := f.serve(gate.RequireAll(role.ManageUsers), f.accessToken(t, sales.ID))

	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "FORBIDDEN")
}

func TestUnauthenticated(t *testing.T) {
	f := newFixture()
	gate := NewGate(f.roles)
	admin := f.roleWith(t, role.AllPermissions()...)

	foreign := tokengenerator.NewJwtService(tokengenerator.NewJwtTokenGenerator("other-secret", "crm", "crm-api"))
	forged, err := foreign.IssueAccessToken(tokengenerator.Subject{UserID: uuid.New(), RoleID: admin.ID})
	require.NoError(t, err)

	otherAudience := tokengenerator.NewJwtService(tokengenerator.NewJwtTokenGenerator(testSecret, "crm", "billing"))
	misaddressed, err := otherAudience.IssueAccessToken(tokengenerator.Subject{UserID: uuid.New(), RoleID: admin.ID})
	require.NoError(t, err)

	otherIssuer := tokengenerator.NewJwtService(tokengenerator.NewJwtTokenGenerator(testSecret, "billing", "crm-api"))
	misissued, err := otherIssuer.IssueAccessToken(tokengenerator.Subject{UserID: uuid.New(), RoleID: admin.ID})
	require.NoError(t, err)

	refresh, err := f.tokens.IssueTokenPair(tokengenerator.Subject{UserID: uuid.New(), RoleID: admin.ID})
	require.NoError(t, err)

	for name, token := range map[string]string{
		"no token":       "",
		"garbage":        "abc.def.ghi",
		"forged":         forged,
		"wrong audience": misaddressed,
		"wrong issuer":   misissued,
		"refresh token":  refresh.RefreshToken,
	} {
		t.Run(name, func(t *testing.T) {
			rr, called := f.serve(gate.RequireAll(), token)
			assert.False(t, called)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}
}

func TestUnknownRoleIsForbidden(t *testing.T) {
	f := newFixture()
	rr, called := f.serve(NewGate(f.roles).Authenticated(), f.accessToken(t, uuid.New()))
	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestResolutionErrorFailsClosed(t *testing.T) {
	f := newFixture()
	rr, called := f.serve(NewGate(failingResolver{}).RequireAny(role.ViewReports), f.accessToken(t, uuid.New()))
	assert.False(t, called)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "connection refused")
}

func TestRequireAnyWithoutPermissionsAdmitsNobody(t *testing.T) {
	f := newFixture()
	admin := f.roleWith(t, role.AllPermissions()...)
	rr, called := f.serve(NewGate(f.roles).RequireAny(), f.accessToken(t, admin.ID))
	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRoleIsResolvedPerRequest(t *testing.T) {
	f := newFixture()
	gate := NewGate(f.roles)
	mw := gate.RequireAll(role.ManageUsers)
	r := f.roleWith(t, role.ManageUsers)
	token := f.accessToken(t, r.ID)

	_, called := f.serve(mw, token)
	require.True(t, called)

	r.Permissions = []role.Permission{role.ViewReports}
	_, err := f.roles.Update(context.Background(), r)
	require.NoError(t, err)

	rr, called := f.serve(mw, token)
	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestPermissionsFromContext(t *testing.T) {
	assert.Empty(t, PermissionsFromContext(context.Background()))

	ctx := WithRole(context.Background(), role.Role{Permissions: []role.Permission{role.ViewReports}})
	assert.True(t, PermissionsFromContext(ctx).Has(role.ViewReports))
}

func TestRequireAuth(t *testing.T) {
	h := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithPrincipal(req.Context(), Principal{UserID: uuid.New(), RoleID: uuid.New()}))
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}
