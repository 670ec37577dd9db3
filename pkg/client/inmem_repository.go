package client

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tendant/simple-crm/pkg/repository"
)

// InMemoryClientRepository implements Repository in memory
type InMemoryClientRepository struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]Client
}

func NewInMemoryClientRepository() *InMemoryClientRepository {
	return &InMemoryClientRepository{clients: make(map[uuid.UUID]Client)}
}

func (r *InMemoryClientRepository) FindByID(ctx context.Context, id uuid.UUID) (Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.clients[id]
	if !ok {
		return Client{}, repository.ErrNotFound
	}
	return c, nil
}

func (r *InMemoryClientRepository) FindByName(ctx context.Context, name string) (Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.clients {
		if c.Name == name {
			return c, nil
		}
	}
	return Client{}, repository.ErrNotFound
}

func (r *InMemoryClientRepository) Create(ctx context.Context, c Client) (Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameTaken(c.Name, uuid.Nil) {
		return Client{}, repository.Duplicate("clients", "name")
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	r.clients[c.ID] = c
	return c, nil
}

func (r *InMemoryClientRepository) Update(ctx context.Context, c Client) (Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.clients[c.ID]
	if !ok {
		return Client{}, repository.ErrNotFound
	}
	if r.nameTaken(c.Name, c.ID) {
		return Client{}, repository.Duplicate("clients", "name")
	}
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = time.Now().UTC()
	r.clients[c.ID] = c
	return c, nil
}

func (r *InMemoryClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.clients[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.clients, id)
	return nil
}

func (r *InMemoryClientRepository) List(ctx context.Context, filter Filter, page repository.Page) ([]Client, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := make([]Client, 0, len(r.clients))
	for _, c := range r.clients {
		if repository.ContainsFold(c.Name, filter.Name) &&
			optionalContains(c.Email, filter.Email) &&
			optionalContains(c.Phone, filter.Phone) {
			matches = append(matches, c)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Name < matches[j].Name })

	start, end := page.Window(len(matches))
	return append([]Client{}, matches[start:end]...), len(matches), nil
}

func (r *InMemoryClientRepository) nameTaken(name string, except uuid.UUID) bool {
	for id, c := range r.clients {
		if id != except && c.Name == name {
			return true
		}
	}
	return false
}

// optionalContains matches like ILIKE: a nil value only matches an empty filter.
func optionalContains(value *string, substr string) bool {
	if substr == "" {
		return true
	}
	return value != nil && repository.ContainsFold(*value, substr)
}
