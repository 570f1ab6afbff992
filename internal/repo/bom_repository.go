package repo

import (
	"context"

	"github.com/rogerio-castellano/steel-quoter/internal/models"
)

// BOMRepository stores the priced line items of quotes. Lines are ordered by
// line_no, which is assigned by the repository.
type BOMRepository interface {
	ListByQuote(ctx context.Context, quoteID int64) ([]models.BOMLine, error)
	GetLine(ctx context.Context, quoteID, lineID int64) (models.BOMLine, error)
	AddLine(ctx context.Context, line models.BOMLine) (models.BOMLine, error)
	UpdateLine(ctx context.Context, line models.BOMLine) (models.BOMLine, error)
	DeleteLine(ctx context.Context, quoteID, lineID int64) error
	// ReplaceAll swaps every line of a quote in one step.
	ReplaceAll(ctx context.Context, quoteID int64, lines []models.BOMLine) ([]models.BOMLine, error)
}
