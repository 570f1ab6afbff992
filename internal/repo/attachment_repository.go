package repo

import (
	"context"

	"github.com/rogerio-castellano/steel-quoter/internal/models"
)

type AttachmentRepository interface {
	Create(ctx context.Context, a models.Attachment) (models.Attachment, error)
	GetByID(ctx context.Context, id int64) (models.Attachment, error)
	ListByQuote(ctx context.Context, quoteID int64) ([]models.Attachment, error)
	Delete(ctx context.Context, id int64) error
}
