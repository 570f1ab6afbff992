package repo

import (
	"context"
	"sync"
	"time"

	"github.com/rogerio-castellano/steel-quoter/internal/models"
)

// InMemoryCustomerRepository is an in-memory implementation of CustomerRepository.
type InMemoryCustomerRepository struct {
	mu        sync.RWMutex
	customers []models.Customer
	nextID    int64
}

func NewInMemoryCustomerRepository() *InMemoryCustomerRepository {
	return &InMemoryCustomerRepository{
		customers: []models.Customer{},
		nextID:    1,
	}
}

func (r *InMemoryCustomerRepository) Create(_ context.Context, c models.Customer) (models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.ID = r.nextID
	r.nextID++
	r.customers = append(r.customers, c)
	return c, nil
}

func (r *InMemoryCustomerRepository) GetByID(_ context.Context, id int64) (models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Customer{}, ErrCustomerNotFound
}

func (r *InMemoryCustomerRepository) List(_ context.Context, f CustomerFilter) ([]models.Customer, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var filtered []models.Customer
	for _, c := range r.customers {
		if c.Deleted() && !f.IncludeDeleted {
			continue
		}
		if !containsFold(c.Name, f.Name) && !containsFold(c.Company, f.Name) {
			continue
		}
		filtered = append(filtered, c)
	}

	page, total := paginate(filtered, f.Offset, f.Limit)
	return page, total, nil
}

func (r *InMemoryCustomerRepository) Update(_ context.Context, c models.Customer) (models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.customers {
		if existing.ID == c.ID && !existing.Deleted() {
			c.CreatedAt = existing.CreatedAt
			r.customers[i] = c
			return c, nil
		}
	}
	return models.Customer{}, ErrCustomerNotFound
}

func (r *InMemoryCustomerRepository) SoftDelete(_ context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, c := range r.customers {
		if c.ID == id && !c.Deleted() {
			r.customers[i].DeletedAt = &at
			return nil
		}
	}
	return ErrCustomerNotFound
}

func (r *InMemoryCustomerRepository) Restore(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, c := range r.customers {
		if c.ID == id {
			r.customers[i].DeletedAt = nil
			return nil
		}
	}
	return ErrCustomerNotFound
}

func (r *InMemoryCustomerRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customers = []models.Customer{}
	r.nextID = 1
}
