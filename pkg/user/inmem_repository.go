package user

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tendant/simple-crm/pkg/repository"
)

// InMemoryUserRepository implements Repository in memory
type InMemoryUserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]User
}

// NewInMemoryUserRepository creates an empty in-memory user repository
func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		users: make(map[uuid.UUID]User),
	}
}

func (r *InMemoryUserRepository) FindByID(ctx context.Context, id uuid.UUID) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return User{}, repository.ErrNotFound
	}
	return u, nil
}

func (r *InMemoryUserRepository) FindByUsername(ctx context.Context, username string) (User, error) {
	return r.findBy(func(u User) bool { return u.Username == username })
}

func (r *InMemoryUserRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	return r.findBy(func(u User) bool { return u.Email == email })
}

func (r *InMemoryUserRepository) Create(ctx context.Context, u User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkUnique(u); err != nil {
		return User{}, err
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	r.users[u.ID] = u
	return u, nil
}

func (r *InMemoryUserRepository) Update(ctx context.Context, u User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[u.ID]
	if !ok {
		return User{}, repository.ErrNotFound
	}
	if err := r.checkUnique(u); err != nil {
		return User{}, err
	}
	u.CreatedAt = existing.CreatedAt
	u.UpdatedAt = time.Now().UTC()
	r.users[u.ID] = u
	return u, nil
}

func (r *InMemoryUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

// List returns one page of users ordered by username, and the total number of matches
func (r *InMemoryUserRepository) List(ctx context.Context, filter Filter, page repository.Page) ([]User, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := make([]User, 0, len(r.users))
	for _, u := range r.users {
		if matchesFilter(u, filter) {
			matches = append(matches, u)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Username < matches[j].Username })

	start, end := page.Window(len(matches))
	return append([]User{}, matches[start:end]...), len(matches), nil
}

func (r *InMemoryUserRepository) CountByRole(ctx context.Context, roleID uuid.UUID) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, u := range r.users {
		if u.RoleID == roleID {
			n++
		}
	}
	return n, nil
}

func (r *InMemoryUserRepository) findBy(match func(User) bool) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if match(u) {
			return u, nil
		}
	}
	return User{}, repository.ErrNotFound
}

// checkUnique must be called with the write lock held.
func (r *InMemoryUserRepository) checkUnique(u User) error {
	for id, other := range r.users {
		if id == u.ID {
			continue
		}
		if other.Email == u.Email {
			return repository.Duplicate("users", "email")
		}
		if other.Username == u.Username {
			return repository.Duplicate("users", "username")
		}
	}
	return nil
}

func matchesFilter(u User, f Filter) bool {
	if !repository.ContainsFold(u.Name, f.Name) ||
		!repository.ContainsFold(u.Username, f.Username) ||
		!repository.ContainsFold(u.Email, f.Email) {
		return false
	}
	if f.RoleID != nil && u.RoleID != *f.RoleID {
		return false
	}
	if f.Active != nil && u.Active != *f.Active {
		return false
	}
	return true
}
