package repo

import (
	"context"

	"github.com/rogerio-castellano/steel-quoter/internal/models"
)

type QuoteEventRepository interface {
	Log(ctx context.Context, quoteID int64, kind, detail string) error
	GetByQuoteID(ctx context.Context, quoteID int64, ef EventFilter) ([]models.QuoteEvent, int, error)
}
