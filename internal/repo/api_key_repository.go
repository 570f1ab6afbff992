package repo

import (
	"context"
	"time"

	"github.com/rogerio-castellano/steel-quoter/internal/models"
)

type APIKeyRepository interface {
	Create(ctx context.Context, k models.APIKey) (models.APIKey, error)
	GetByID(ctx context.Context, id int64) (models.APIKey, error)
	GetByPrefix(ctx context.Context, prefix string) (models.APIKey, error)
	List(ctx context.Context) ([]models.APIKey, error)
	SetEnabled(ctx context.Context, id int64, enabled bool) (models.APIKey, error)
	Touch(ctx context.Context, id int64, at time.Time) error
	Delete(ctx context.Context, id int64) error
}
