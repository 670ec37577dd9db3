// Package role manages roles and the permission codes they grant.
//
// A role is a named, unordered set of Permission codes. The authorization gate loads a
// caller's role through Repository.FindByID on every request and checks the required
// permissions against Role.PermissionSet.
//
// # Storage
//
// Two Repository implementations are provided:
//
//	repo := role.NewPostgresRepository(pool)   // roles table, permissions TEXT[]
//	repo := role.NewInMemoryRoleRepository()   // tests and the memory backend
//
// Both report a missing role as repository.ErrNotFound and a clashing name as
// repository.ErrDuplicate.
//
// # Routes
//
//	POST   /roles        CreateRole
//	GET    /roles        ListRoles     ?name=&page=&limit=
//	GET    /roles/{id}   GetRole
//	PUT    /roles/{id}   UpdateRole
//	DELETE /roles/{id}   DeleteRole    refused while users hold the role
//	GET    /permissions  ListPermissions
package role
