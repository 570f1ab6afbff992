package repo

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rogerio-castellano/steel-quoter/internal/models"
)

type InMemoryQuoteRepository struct {
	mu     sync.RWMutex
	quotes []models.Quote
	nextID int64
}

func NewInMemoryQuoteRepository() *InMemoryQuoteRepository {
	return &InMemoryQuoteRepository{
		quotes: []models.Quote{},
		nextID: 1,
	}
}

func matchesQuoteFilter(q models.Quote, f QuoteFilter) bool {
	if q.Deleted() && !f.IncludeDeleted {
		return false
	}
	if f.Status != "" && q.Status != f.Status {
		return false
	}
	if f.CustomerID != nil && q.CustomerID != *f.CustomerID {
		return false
	}
	if f.Query != "" && !containsFold(q.QuoteNumber, f.Query) && !containsFold(q.Title, f.Query) {
		return false
	}
	return true
}

func (r *InMemoryQuoteRepository) Create(_ context.Context, q models.Quote) (models.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.quotes {
		if existing.QuoteNumber == q.QuoteNumber {
			return models.Quote{}, ErrDuplicatedValueUnique
		}
	}
	q.ID = r.nextID
	r.nextID++
	q.BOM = nil
	q.CustomerName = ""
	r.quotes = append(r.quotes, q)
	return q, nil
}

func (r *InMemoryQuoteRepository) GetByID(_ context.Context, id int64) (models.Quote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, q := range r.quotes {
		if q.ID == id {
			return q, nil
		}
	}
	return models.Quote{}, ErrQuoteNotFound
}

func (r *InMemoryQuoteRepository) List(_ context.Context, f QuoteFilter) ([]models.Quote, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var filtered []models.Quote
	for i := len(r.quotes) - 1; i >= 0; i-- {
		if matchesQuoteFilter(r.quotes[i], f) {
			filtered = append(filtered, r.quotes[i])
		}
	}
	page, total := paginate(filtered, f.Offset, f.Limit)
	return page, total, nil
}

func (r *InMemoryQuoteRepository) Update(_ context.Context, q models.Quote) (models.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.quotes {
		if existing.ID != q.ID || existing.Deleted() {
			continue
		}
		for _, other := range r.quotes {
			if other.ID != q.ID && other.QuoteNumber == q.QuoteNumber {
				return models.Quote{}, ErrDuplicatedValueUnique
			}
		}
		q.CreatedAt = existing.CreatedAt
		q.BOM = nil
		q.CustomerName = ""
		r.quotes[i] = q
		return q, nil
	}
	return models.Quote{}, ErrQuoteNotFound
}

func (r *InMemoryQuoteRepository) SoftDelete(_ context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, q := range r.quotes {
		if q.ID == id && !q.Deleted() {
			r.quotes[i].DeletedAt = &at
			return nil
		}
	}
	return ErrQuoteNotFound
}

func (r *InMemoryQuoteRepository) Restore(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, q := range r.quotes {
		if q.ID == id {
			r.quotes[i].DeletedAt = nil
			return nil
		}
	}
	return ErrQuoteNotFound
}

func (r *InMemoryQuoteRepository) LastNumber(_ context.Context, prefix string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	numbers := make([]string, len(r.quotes))
	for i, q := range r.quotes {
		numbers[i] = q.QuoteNumber
	}
	return lastNumber(prefix, numbers), nil
}

func (r *InMemoryQuoteRepository) ListExpired(_ context.Context, asOf time.Time) ([]models.Quote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Quote{}
	for _, q := range r.quotes {
		if q.Deleted() || q.Status != models.QuoteSent || q.ValidUntil == nil {
			continue
		}
		if q.ValidUntil.Before(asOf) {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *InMemoryQuoteRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quotes = []models.Quote{}
	r.nextID = 1
}

// lastNumber picks the generated number with the given prefix whose numeric
// suffix is highest, so 10000 sorts after 9999. Numbers whose suffix is not
// all digits were entered by hand and are ignored.
func lastNumber(prefix string, numbers []string) string {
	best, bestSeq := "", ""
	for _, n := range numbers {
		suffix, ok := strings.CutPrefix(n, prefix)
		if !ok || !allDigits(suffix) {
			continue
		}
		seq := strings.TrimLeft(suffix, "0")
		if best == "" || len(seq) > len(bestSeq) || (len(seq) == len(bestSeq) && seq > bestSeq) {
			best, bestSeq = n, seq
		}
	}
	return best
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
