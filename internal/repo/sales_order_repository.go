package repo

import (
	"context"
	"time"

	"github.com/rogerio-castellano/steel-quoter/internal/models"
)

// SalesOrderRepository stores sales orders with their lines. A quote can be
// referenced by at most one order.
type SalesOrderRepository interface {
	Create(ctx context.Context, o models.SalesOrder) (models.SalesOrder, error)
	GetByID(ctx context.Context, id int64) (models.SalesOrder, error)
	GetByQuoteID(ctx context.Context, quoteID int64) (models.SalesOrder, error)
	List(ctx context.Context, f SalesOrderFilter) ([]models.SalesOrder, int, error)
	// Update saves header fields; lines are immutable once created.
	Update(ctx context.Context, o models.SalesOrder) (models.SalesOrder, error)
	SoftDelete(ctx context.Context, id int64, at time.Time) error
	Restore(ctx context.Context, id int64) error
	LastNumber(ctx context.Context, prefix string) (string, error)
}
