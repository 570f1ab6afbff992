package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rogerio-castellano/steel-quoter/internal/models"
)

// Cache is a JSON value store with expiry, satisfied by redissvc.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, keys ...string) error
}

// CachedMaterialRepository serves single material reads from a cache and
// invalidates entries on every write. Cache failures fall through to the
// underlying repository.
type CachedMaterialRepository struct {
	MaterialRepository
	cache Cache
}

func NewCachedMaterialRepository(next MaterialRepository, cache Cache) *CachedMaterialRepository {
	return &CachedMaterialRepository{MaterialRepository: next, cache: cache}
}

func materialIDKey(id int64) string {
	return fmt.Sprintf("material:id:%d", id)
}

func materialNameKey(name string) string {
	return "material:name:" + strings.ToLower(name)
}

func (r *CachedMaterialRepository) GetByID(ctx context.Context, id int64) (models.Material, error) {
	var m models.Material
	if ok, err := r.cache.Get(ctx, materialIDKey(id), &m); err == nil && ok {
		return m, nil
	}
	m, err := r.MaterialRepository.GetByID(ctx, id)
	if err != nil {
		return m, err
	}
	_ = r.cache.Set(ctx, materialIDKey(id), m)
	return m, nil
}

func (r *CachedMaterialRepository) GetByName(ctx context.Context, name string) (models.Material, error) {
	var m models.Material
	if ok, err := r.cache.Get(ctx, materialNameKey(name), &m); err == nil && ok {
		return m, nil
	}
	m, err := r.MaterialRepository.GetByName(ctx, name)
	if err != nil {
		return m, err
	}
	_ = r.cache.Set(ctx, materialNameKey(name), m)
	return m, nil
}

func (r *CachedMaterialRepository) Update(ctx context.Context, m models.Material) (models.Material, error) {
	r.invalidate(ctx, m.ID)
	updated, err := r.MaterialRepository.Update(ctx, m)
	r.invalidate(ctx, m.ID)
	return updated, err
}

func (r *CachedMaterialRepository) SoftDelete(ctx context.Context, id int64, at time.Time) error {
	err := r.MaterialRepository.SoftDelete(ctx, id, at)
	r.invalidate(ctx, id)
	return err
}

func (r *CachedMaterialRepository) Restore(ctx context.Context, id int64) error {
	err := r.MaterialRepository.Restore(ctx, id)
	r.invalidate(ctx, id)
	return err
}

// invalidate drops the id entry and, if still resolvable, the name entry.
func (r *CachedMaterialRepository) invalidate(ctx context.Context, id int64) {
	keys := []string{materialIDKey(id)}
	if m, err := r.MaterialRepository.GetByID(ctx, id); err == nil {
		keys = append(keys, materialNameKey(m.Name))
	}
	_ = r.cache.Delete(ctx, keys...)
}
