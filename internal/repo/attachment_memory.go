package repo

import (
	"context"
	"sync"

	"github.com/rogerio-castellano/steel-quoter/internal/models"
)

type InMemoryAttachmentRepository struct {
	mu          sync.RWMutex
	attachments []models.Attachment
	nextID      int64
}

func NewInMemoryAttachmentRepository() *InMemoryAttachmentRepository {
	return &InMemoryAttachmentRepository{
		attachments: []models.Attachment{},
		nextID:      1,
	}
}

func (r *InMemoryAttachmentRepository) Create(_ context.Context, a models.Attachment) (models.Attachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.attachments {
		if existing.StorageKey == a.StorageKey {
			return models.Attachment{}, ErrDuplicatedValueUnique
		}
	}
	a.ID = r.nextID
	r.nextID++
	r.attachments = append(r.attachments, a)
	return a, nil
}

func (r *InMemoryAttachmentRepository) GetByID(_ context.Context, id int64) (models.Attachment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.attachments {
		if a.ID == id {
			return a, nil
		}
	}
	return models.Attachment{}, ErrAttachmentNotFound
}

func (r *InMemoryAttachmentRepository) ListByQuote(_ context.Context, quoteID int64) ([]models.Attachment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Attachment{}
	for _, a := range r.attachments {
		if a.QuoteID == quoteID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *InMemoryAttachmentRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, a := range r.attachments {
		if a.ID == id {
			r.attachments = append(r.attachments[:i], r.attachments[i+1:]...)
			return nil
		}
	}
	return ErrAttachmentNotFound
}
