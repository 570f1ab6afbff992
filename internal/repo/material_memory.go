package repo

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rogerio-castellano/steel-quoter/internal/models"
)

// InMemoryMaterialRepository is an in-memory implementation of MaterialRepository.
type InMemoryMaterialRepository struct {
	mu        sync.RWMutex
	materials []models.Material
	nextID    int64
}

func NewInMemoryMaterialRepository() *InMemoryMaterialRepository {
	return &InMemoryMaterialRepository{
		materials: []models.Material{},
		nextID:    1,
	}
}

func matchesMaterialFilter(m models.Material, f MaterialFilter) bool {
	if m.Deleted() && !f.IncludeDeleted {
		return false
	}
	if !containsFold(m.Name, f.Name) {
		return false
	}
	if f.Family != "" && m.Family != f.Family {
		return false
	}
	if f.Shape != "" && m.Shape != f.Shape {
		return false
	}
	return true
}

func (r *InMemoryMaterialRepository) nameTaken(name string, exceptID int64) bool {
	for _, m := range r.materials {
		if m.ID != exceptID && strings.EqualFold(m.Name, name) {
			return true
		}
	}
	return false
}

func (r *InMemoryMaterialRepository) Create(_ context.Context, m models.Material) (models.Material, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameTaken(m.Name, 0) {
		return models.Material{}, ErrDuplicatedValueUnique
	}
	m.ID = r.nextID
	r.nextID++
	r.materials = append(r.materials, m)
	return m, nil
}

func (r *InMemoryMaterialRepository) GetByID(_ context.Context, id int64) (models.Material, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.materials {
		if m.ID == id {
			return m, nil
		}
	}
	return models.Material{}, ErrMaterialNotFound
}

func (r *InMemoryMaterialRepository) GetByName(_ context.Context, name string) (models.Material, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.materials {
		if strings.EqualFold(m.Name, name) {
			return m, nil
		}
	}
	return models.Material{}, ErrMaterialNotFound
}

func (r *InMemoryMaterialRepository) List(_ context.Context, f MaterialFilter) ([]models.Material, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var filtered []models.Material
	for _, m := range r.materials {
		if matchesMaterialFilter(m, f) {
			filtered = append(filtered, m)
		}
	}
	page, total := paginate(filtered, f.Offset, f.Limit)
	return page, total, nil
}

func (r *InMemoryMaterialRepository) Update(_ context.Context, m models.Material) (models.Material, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.materials {
		if existing.ID != m.ID || existing.Deleted() {
			continue
		}
		if r.nameTaken(m.Name, m.ID) {
			return models.Material{}, ErrDuplicatedValueUnique
		}
		m.CreatedAt = existing.CreatedAt
		r.materials[i] = m
		return m, nil
	}
	return models.Material{}, ErrMaterialNotFound
}

func (r *InMemoryMaterialRepository) SoftDelete(_ context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, m := range r.materials {
		if m.ID == id && !m.Deleted() {
			r.materials[i].DeletedAt = &at
			return nil
		}
	}
	return ErrMaterialNotFound
}

func (r *InMemoryMaterialRepository) Restore(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, m := range r.materials {
		if m.ID == id {
			r.materials[i].DeletedAt = nil
			return nil
		}
	}
	return ErrMaterialNotFound
}

func (r *InMemoryMaterialRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.materials = []models.Material{}
	r.nextID = 1
}
