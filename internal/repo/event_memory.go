package repo

import (
	"context"
	"sync"
	"time"

	"github.com/rogerio-castellano/steel-quoter/internal/models"
)

type InMemoryQuoteEventRepository struct {
	mu     sync.RWMutex
	events []models.QuoteEvent
}

func NewInMemoryQuoteEventRepository() *InMemoryQuoteEventRepository {
	return &InMemoryQuoteEventRepository{
		events: []models.QuoteEvent{},
	}
}

// AddEvent stores an event with an explicit timestamp.
func (r *InMemoryQuoteEventRepository) AddEvent(e models.QuoteEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = int64(len(r.events) + 1)
	r.events = append(r.events, e)
}

// Log inserts a new quote event
func (r *InMemoryQuoteEventRepository) Log(_ context.Context, quoteID int64, kind, detail string) error {
	r.AddEvent(models.QuoteEvent{
		QuoteID:   quoteID,
		Kind:      kind,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

// GetByQuoteID returns the events of a quote, newest first, optionally
// filtered by date range and paginated.
func (r *InMemoryQuoteEventRepository) GetByQuoteID(_ context.Context, quoteID int64, ef EventFilter) ([]models.QuoteEvent, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var filtered []models.QuoteEvent
	for i := len(r.events) - 1; i >= 0; i-- {
		e := r.events[i]
		if e.QuoteID != quoteID {
			continue
		}
		if (ef.Since != nil && e.CreatedAt.Before(*ef.Since)) ||
			(ef.Until != nil && e.CreatedAt.After(*ef.Until)) {
			continue
		}
		filtered = append(filtered, e)
	}

	page, total := paginate(filtered, ef.Offset, ef.Limit)
	return page, total, nil
}
