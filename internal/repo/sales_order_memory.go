package repo

import (
	"context"
	"sync"
	"time"

	"github.com/rogerio-castellano/steel-quoter/internal/models"
)

type InMemorySalesOrderRepository struct {
	mu         sync.RWMutex
	orders     []models.SalesOrder
	nextID     int64
	nextLineID int64
}

func NewInMemorySalesOrderRepository() *InMemorySalesOrderRepository {
	return &InMemorySalesOrderRepository{
		orders:     []models.SalesOrder{},
		nextID:     1,
		nextLineID: 1,
	}
}

func (r *InMemorySalesOrderRepository) Create(_ context.Context, o models.SalesOrder) (models.SalesOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.orders {
		if existing.OrderNumber == o.OrderNumber {
			return models.SalesOrder{}, ErrDuplicatedValueUnique
		}
		if o.QuoteID != nil && existing.QuoteID != nil && *existing.QuoteID == *o.QuoteID {
			return models.SalesOrder{}, ErrDuplicatedValueUnique
		}
	}

	o.ID = r.nextID
	r.nextID++
	o.CustomerName = ""
	lines := make([]models.SalesOrderLine, len(o.Lines))
	for i, l := range o.Lines {
		l.ID = r.nextLineID
		r.nextLineID++
		l.SalesOrderID = o.ID
		l.LineNo = i + 1
		lines[i] = l
	}
	o.Lines = lines
	r.orders = append(r.orders, o)
	return o, nil
}

func (r *InMemorySalesOrderRepository) GetByID(_ context.Context, id int64) (models.SalesOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return models.SalesOrder{}, ErrSalesOrderNotFound
}

func (r *InMemorySalesOrderRepository) GetByQuoteID(_ context.Context, quoteID int64) (models.SalesOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.orders {
		if o.QuoteID != nil && *o.QuoteID == quoteID {
			return o, nil
		}
	}
	return models.SalesOrder{}, ErrSalesOrderNotFound
}

func (r *InMemorySalesOrderRepository) List(_ context.Context, f SalesOrderFilter) ([]models.SalesOrder, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var filtered []models.SalesOrder
	for i := len(r.orders) - 1; i >= 0; i-- {
		o := r.orders[i]
		if o.Deleted() && !f.IncludeDeleted {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.CustomerID != nil && o.CustomerID != *f.CustomerID {
			continue
		}
		o.Lines = nil
		filtered = append(filtered, o)
	}
	page, total := paginate(filtered, f.Offset, f.Limit)
	return page, total, nil
}

func (r *InMemorySalesOrderRepository) Update(_ context.Context, o models.SalesOrder) (models.SalesOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.orders {
		if existing.ID != o.ID || existing.Deleted() {
			continue
		}
		existing.Status = o.Status
		existing.PONumber = o.PONumber
		existing.Notes = o.Notes
		existing.UpdatedAt = o.UpdatedAt
		r.orders[i] = existing
		return existing, nil
	}
	return models.SalesOrder{}, ErrSalesOrderNotFound
}

func (r *InMemorySalesOrderRepository) SoftDelete(_ context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, o := range r.orders {
		if o.ID == id && !o.Deleted() {
			r.orders[i].DeletedAt = &at
			return nil
		}
	}
	return ErrSalesOrderNotFound
}

func (r *InMemorySalesOrderRepository) Restore(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, o := range r.orders {
		if o.ID == id {
			r.orders[i].DeletedAt = nil
			return nil
		}
	}
	return ErrSalesOrderNotFound
}

func (r *InMemorySalesOrderRepository) LastNumber(_ context.Context, prefix string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	numbers := make([]string, len(r.orders))
	for i, o := range r.orders {
		numbers[i] = o.OrderNumber
	}
	return lastNumber(prefix, numbers), nil
}

func (r *InMemorySalesOrderRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = []models.SalesOrder{}
	r.nextID = 1
	r.nextLineID = 1
}
