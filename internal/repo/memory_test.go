package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerio-castellano/steel-quoter/internal/models"
)

func intPtr(v int) *int { return &v }

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	tests := []struct {
		name   string
		offset *int
		limit  *int
		want   []int
	}{
		{"no paging", nil, nil, []int{1, 2, 3, 4, 5}},
		{"limit", nil, intPtr(2), []int{1, 2}},
		{"offset and limit", intPtr(3), intPtr(5), []int{4, 5}},
		{"offset beyond", intPtr(9), nil, []int{}},
		{"zero limit counts only", nil, intPtr(0), []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total := paginate(items, tt.offset, tt.limit)
			assert.Equal(t, 5, total)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLastNumber(t *testing.T) {
	numbers := []string{"Q-2026-0002", "Q-2026-9999", "Q-2026-10000", "Q-2025-0500"}
	assert.Equal(t, "Q-2026-10000", lastNumber("Q-2026-", numbers))
	assert.Equal(t, "", lastNumber("Q-2024-", numbers))
}

func TestLastNumber_IgnoresHandEnteredNumbers(t *testing.T) {
	numbers := []string{"Q-2026-0003", "Q-2026-SPECIAL", "Q-2026-0004-REV2", "Q-2026-", "Q-2026-12a"}
	assert.Equal(t, "Q-2026-0003", lastNumber("Q-2026-", numbers))
	assert.Equal(t, "", lastNumber("Q-2026-", []string{"Q-2026-SPECIAL"}))
}

func TestInMemoryMaterialRepository_Unique(t *testing.T) {
	ctx := context.Background()
	r := NewInMemoryMaterialRepository()

	a, err := r.Create(ctx, models.Material{Name: "6061 Round"})
	require.NoError(t, err)
	_, err = r.Create(ctx, models.Material{Name: "6061 ROUND"})
	assert.ErrorIs(t, err, ErrDuplicatedValueUnique)

	b, err := r.Create(ctx, models.Material{Name: "304 Sheet"})
	require.NoError(t, err)
	b.Name = a.Name
	_, err = r.Update(ctx, b)
	assert.ErrorIs(t, err, ErrDuplicatedValueUnique)
}

func TestInMemoryQuoteRepository_SoftDelete(t *testing.T) {
	ctx := context.Background()
	r := NewInMemoryQuoteRepository()

	q, err := r.Create(ctx, models.Quote{QuoteNumber: "Q-2026-0001", Status: models.QuoteDraft})
	require.NoError(t, err)

	require.NoError(t, r.SoftDelete(ctx, q.ID, time.Now()))
	list, total, err := r.List(ctx, QuoteFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, list)

	_, err = r.Update(ctx, q)
	assert.ErrorIs(t, err, ErrQuoteNotFound)

	require.NoError(t, r.Restore(ctx, q.ID))
	_, total, _ = r.List(ctx, QuoteFilter{})
	assert.Equal(t, 1, total)
}

type mapCache struct {
	data  map[string]models.Material
	gets  int
	drops int
}

func (c *mapCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.gets++
	m, ok := c.data[key]
	if ok {
		*dest.(*models.Material) = m
	}
	return ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, value any) error {
	c.data[key] = value.(models.Material)
	return nil
}

func (c *mapCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
		c.drops++
	}
	return nil
}

func TestCachedMaterialRepository(t *testing.T) {
	ctx := context.Background()
	inner := NewInMemoryMaterialRepository()
	cache := &mapCache{data: map[string]models.Material{}}
	r := NewCachedMaterialRepository(inner, cache)

	m, err := r.Create(ctx, models.Material{Name: "A500 Tube", PricePerLb: 1})
	require.NoError(t, err)

	_, err = r.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Contains(t, cache.data, materialIDKey(m.ID))

	m.PricePerLb = 2
	_, err = r.Update(ctx, m)
	require.NoError(t, err)
	assert.NotContains(t, cache.data, materialIDKey(m.ID))

	got, err := r.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 2.0, got.PricePerLb)
}
