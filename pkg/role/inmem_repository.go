package role

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tendant/simple-crm/pkg/repository"
)

// InMemoryRoleRepository implements Repository using in-memory storage
type InMemoryRoleRepository struct {
	mu    sync.RWMutex
	roles map[uuid.UUID]Role
}

// NewInMemoryRoleRepository creates a new in-memory role repository
func NewInMemoryRoleRepository() *InMemoryRoleRepository {
	return &InMemoryRoleRepository{
		roles: make(map[uuid.UUID]Role),
	}
}

// FindByID retrieves a role by ID
func (r *InMemoryRoleRepository) FindByID(ctx context.Context, id uuid.UUID) (Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	role, ok := r.roles[id]
	if !ok {
		return Role{}, repository.ErrNotFound
	}
	return clone(role), nil
}

// FindByName retrieves a role by its exact name
func (r *InMemoryRoleRepository) FindByName(ctx context.Context, name string) (Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, role := range r.roles {
		if role.Name == name {
			return clone(role), nil
		}
	}
	return Role{}, repository.ErrNotFound
}

// Create stores a new role and assigns its ID and timestamps
func (r *InMemoryRoleRepository) Create(ctx context.Context, role Role) (Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameTaken(role.Name, uuid.Nil) {
		return Role{}, repository.Duplicate("roles", "name")
	}
	if role.ID == uuid.Nil {
		role.ID = uuid.New()
	}
	now := time.Now().UTC()
	role.CreatedAt = now
	role.UpdatedAt = now
	role = clone(role)
	r.roles[role.ID] = role
	return clone(role), nil
}

// Update replaces an existing role
func (r *InMemoryRoleRepository) Update(ctx context.Context, role Role) (Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.roles[role.ID]
	if !ok {
		return Role{}, repository.ErrNotFound
	}
	if r.nameTaken(role.Name, role.ID) {
		return Role{}, repository.Duplicate("roles", "name")
	}
	role.CreatedAt = existing.CreatedAt
	role.UpdatedAt = time.Now().UTC()
	role = clone(role)
	r.roles[role.ID] = role
	return clone(role), nil
}

// Delete removes a role
func (r *InMemoryRoleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.roles[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.roles, id)
	return nil
}

// List returns one page of roles ordered by name, and the total number of matches
func (r *InMemoryRoleRepository) List(ctx context.Context, filter Filter, page repository.Page) ([]Role, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := make([]Role, 0, len(r.roles))
	for _, role := range r.roles {
		if repository.ContainsFold(role.Name, filter.Name) {
			matches = append(matches, role)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Name < matches[j].Name })

	start, end := page.Window(len(matches))
	out := make([]Role, 0, end-start)
	for _, role := range matches[start:end] {
		out = append(out, clone(role))
	}
	return out, len(matches), nil
}

func (r *InMemoryRoleRepository) nameTaken(name string, except uuid.UUID) bool {
	for id, role := range r.roles {
		if id != except && role.Name == name {
			return true
		}
	}
	return false
}

func clone(role Role) Role {
	role.Permissions = append([]Permission(nil), role.Permissions...)
	if role.Permissions == nil {
		role.Permissions = []Permission{}
	}
	return role
}
