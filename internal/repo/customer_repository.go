package repo

import (
	"context"
	"time"

	"github.com/rogerio-castellano/steel-quoter/internal/models"
)

// CustomerRepository defines the storage operations for customers.
type CustomerRepository interface {
	Create(ctx context.Context, c models.Customer) (models.Customer, error)
	GetByID(ctx context.Context, id int64) (models.Customer, error)
	List(ctx context.Context, f CustomerFilter) ([]models.Customer, int, error)
	Update(ctx context.Context, c models.Customer) (models.Customer, error)
	SoftDelete(ctx context.Context, id int64, at time.Time) error
	Restore(ctx context.Context, id int64) error
}
