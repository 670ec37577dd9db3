package role

import (
	"sort"
)

// Permission is a capability code a role may hold.
type Permission string

const (
	ManageUsers     Permission = "MANAGE_USERS"
	ManageRoles     Permission = "MANAGE_ROLES"
	ManageClients   Permission = "MANAGE_CLIENTS"
	ManageSuppliers Permission = "MANAGE_SUPPLIERS"
	ViewReports     Permission = "VIEW_REPORTS"
)

// AllPermissions lists every known permission code.
func AllPermissions() []Permission {
	return []Permission{ManageUsers, ManageRoles, ManageClients, ManageSuppliers, ViewReports}
}

// PermissionCodes returns AllPermissions as strings, for schemas and CLI help.
func PermissionCodes() []string {
	all := AllPermissions()
	codes := make([]string, len(all))
	for i, p := range all {
		codes[i] = string(p)
	}
	return codes
}

// Valid reports whether p is a known permission code.
func (p Permission) Valid() bool {
	for _, known := range AllPermissions() {
		if p == known {
			return true
		}
	}
	return false
}

// PermissionSet is an unordered set of permissions.
type PermissionSet map[Permission]struct{}

// NewPermissionSet builds a set, dropping duplicates.
func NewPermissionSet(perms ...Permission) PermissionSet {
	set := make(PermissionSet, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// Has reports whether p is in the set.
func (s PermissionSet) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

// ContainsAll reports whether s is a superset of required.
func (s PermissionSet) ContainsAll(required ...Permission) bool {
	for _, p := range required {
		if !s.Has(p) {
			return false
		}
	}
	return true
}

// ContainsAny reports whether s shares at least one permission with candidates.
// It is false for an empty candidate list.
func (s PermissionSet) ContainsAny(candidates ...Permission) bool {
	for _, p := range candidates {
		if s.Has(p) {
			return true
		}
	}
	return false
}

// List returns the permissions in a stable order.
func (s PermissionSet) List() []Permission {
	out := make([]Permission, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
