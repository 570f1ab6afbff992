package repo

import (
	"context"
	"time"

	"github.com/rogerio-castellano/steel-quoter/internal/models"
)

// QuoteRepository stores quote headers. BOM lines live in BOMRepository.
type QuoteRepository interface {
	Create(ctx context.Context, q models.Quote) (models.Quote, error)
	GetByID(ctx context.Context, id int64) (models.Quote, error)
	List(ctx context.Context, f QuoteFilter) ([]models.Quote, int, error)
	Update(ctx context.Context, q models.Quote) (models.Quote, error)
	SoftDelete(ctx context.Context, id int64, at time.Time) error
	Restore(ctx context.Context, id int64) error
	// LastNumber returns the highest quote number starting with prefix, or "".
	LastNumber(ctx context.Context, prefix string) (string, error)
	// ListExpired returns live sent quotes whose valid_until is before asOf.
	ListExpired(ctx context.Context, asOf time.Time) ([]models.Quote, error)
}
