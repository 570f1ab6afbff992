package repo

import (
	"context"
	"sync"
	"time"

	"github.com/rogerio-castellano/steel-quoter/internal/models"
)

type InMemoryAPIKeyRepository struct {
	mu     sync.RWMutex
	keys   []models.APIKey
	nextID int64
}

func NewInMemoryAPIKeyRepository() *InMemoryAPIKeyRepository {
	return &InMemoryAPIKeyRepository{
		keys:   []models.APIKey{},
		nextID: 1,
	}
}

func (r *InMemoryAPIKeyRepository) Create(_ context.Context, k models.APIKey) (models.APIKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.keys {
		if existing.Prefix == k.Prefix {
			return models.APIKey{}, ErrDuplicatedValueUnique
		}
	}
	k.ID = r.nextID
	r.nextID++
	r.keys = append(r.keys, k)
	return k, nil
}

func (r *InMemoryAPIKeyRepository) GetByID(_ context.Context, id int64) (models.APIKey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, k := range r.keys {
		if k.ID == id {
			return k, nil
		}
	}
	return models.APIKey{}, ErrAPIKeyNotFound
}

func (r *InMemoryAPIKeyRepository) GetByPrefix(_ context.Context, prefix string) (models.APIKey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, k := range r.keys {
		if k.Prefix == prefix {
			return k, nil
		}
	}
	return models.APIKey{}, ErrAPIKeyNotFound
}

func (r *InMemoryAPIKeyRepository) List(_ context.Context) ([]models.APIKey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.APIKey, len(r.keys))
	copy(out, r.keys)
	return out, nil
}

func (r *InMemoryAPIKeyRepository) SetEnabled(_ context.Context, id int64, enabled bool) (models.APIKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, k := range r.keys {
		if k.ID == id {
			r.keys[i].Enabled = enabled
			return r.keys[i], nil
		}
	}
	return models.APIKey{}, ErrAPIKeyNotFound
}

func (r *InMemoryAPIKeyRepository) Touch(_ context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, k := range r.keys {
		if k.ID == id {
			r.keys[i].LastUsedAt = &at
			return nil
		}
	}
	return ErrAPIKeyNotFound
}

func (r *InMemoryAPIKeyRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, k := range r.keys {
		if k.ID == id {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			return nil
		}
	}
	return ErrAPIKeyNotFound
}
