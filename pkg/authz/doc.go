// Package authz authenticates bearer tokens and gates routes on role permissions.
//
// Authenticate runs once per request and turns a valid access token into a Principal.
// A Gate then resolves the principal's role from storage and checks it against the
// permissions a route declares:
//
//	gate := authz.NewGate(roleRepo, authz.WithMetrics(metrics))
//	r.Use(authz.Authenticate(authz.NewVerifier(secret, issuer, audience)))
//	r.With(gate.RequireAll(role.ManageUsers)).Post("/users", h.Create)
//	r.With(gate.RequireAny(role.ManageClients, role.ViewReports)).Get("/clients", h.List)
//
// Outcomes:
//
//	no principal                 401 UNAUTHORIZED
//	role not found               403 FORBIDDEN
//	permission check fails       403 FORBIDDEN
//	role lookup errors           500 INTERNAL
//	otherwise                    handler runs with the Role in context
package authz
