package supplier

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tendant/simple-crm/pkg/repository"
)

// InMemorySupplierRepository implements Repository in memory
type InMemorySupplierRepository struct {
	mu        sync.RWMutex
	suppliers map[uuid.UUID]Supplier
}

func NewInMemorySupplierRepository() *InMemorySupplierRepository {
	return &InMemorySupplierRepository{suppliers: make(map[uuid.UUID]Supplier)}
}

func (r *InMemorySupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.suppliers[id]
	if !ok {
		return Supplier{}, repository.ErrNotFound
	}
	return s, nil
}

func (r *InMemorySupplierRepository) FindByName(ctx context.Context, name string) (Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.suppliers {
		if s.Name == name {
			return s, nil
		}
	}
	return Supplier{}, repository.ErrNotFound
}

func (r *InMemorySupplierRepository) Create(ctx context.Context, s Supplier) (Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameTaken(s.Name, uuid.Nil) {
		return Supplier{}, repository.Duplicate("suppliers", "name")
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now
	r.suppliers[s.ID] = s
	return s, nil
}

func (r *InMemorySupplierRepository) Update(ctx context.Context, s Supplier) (Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.suppliers[s.ID]
	if !ok {
		return Supplier{}, repository.ErrNotFound
	}
	if r.nameTaken(s.Name, s.ID) {
		return Supplier{}, repository.Duplicate("suppliers", "name")
	}
	s.CreatedAt = existing.CreatedAt
	s.UpdatedAt = time.Now().UTC()
	r.suppliers[s.ID] = s
	return s, nil
}

func (r *InMemorySupplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.suppliers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.suppliers, id)
	return nil
}

func (r *InMemorySupplierRepository) List(ctx context.Context, filter Filter, page repository.Page) ([]Supplier, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := make([]Supplier, 0, len(r.suppliers))
	for _, s := range r.suppliers {
		if !repository.ContainsFold(s.Name, filter.Name) {
			continue
		}
		if filter.Phone != "" && (s.Phone == nil || !repository.ContainsFold(*s.Phone, filter.Phone)) {
			continue
		}
		matches = append(matches, s)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Name < matches[j].Name })

	start, end := page.Window(len(matches))
	return append([]Supplier{}, matches[start:end]...), len(matches), nil
}

func (r *InMemorySupplierRepository) nameTaken(name string, except uuid.UUID) bool {
	for id, s := range r.suppliers {
		if id != except && s.Name == name {
			return true
		}
	}
	return false
}
