package repo

import (
	"context"
	"time"

	"github.com/rogerio-castellano/steel-quoter/internal/models"
)

// MaterialRepository defines the storage operations for the materials catalog.
// Names are unique; Create and Update return ErrDuplicatedValueUnique on conflict.
type MaterialRepository interface {
	Create(ctx context.Context, m models.Material) (models.Material, error)
	GetByID(ctx context.Context, id int64) (models.Material, error)
	GetByName(ctx context.Context, name string) (models.Material, error)
	List(ctx context.Context, f MaterialFilter) ([]models.Material, int, error)
	Update(ctx context.Context, m models.Material) (models.Material, error)
	SoftDelete(ctx context.Context, id int64, at time.Time) error
	Restore(ctx context.Context, id int64) error
}
