package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/rogerio-castellano/steel-quoter/internal/metrics"
	"github.com/rogerio-castellano/steel-quoter/internal/models"
	"github.com/rogerio-castellano/steel-quoter/internal/repo"
)

type OrderLineInput struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	TotalWeight float64 `json:"total_weight"`
	LineTotal   float64 `json:"line_total"`
}

// OrderInput describes a sales order entered without a quote. Lines are only
// read on create.
type OrderInput struct {
	CustomerID int64
	PONumber   string
	Notes      string
	Lines      []OrderLineInput
}

// ConvertToOrder turns an accepted quote into a sales order carrying the
// quote's lines and total.
func (s *Service) ConvertToOrder(ctx context.Context, quoteID int64, poNumber, notes string) (models.SalesOrder, error) {
	q, err := s.GetQuote(ctx, quoteID)
	if err != nil {
		return models.SalesOrder{}, err
	}
	if q.Status != models.QuoteAccepted {
		return models.SalesOrder{}, fmt.Errorf("%w: quote is %s", ErrQuoteNotAccepted, q.Status)
	}
	if existing, err := s.repos.SalesOrders.GetByQuoteID(ctx, quoteID); err == nil {
		return models.SalesOrder{}, &ConvertedError{OrderID: existing.ID, OrderNumber: existing.OrderNumber}
	} else if !errors.Is(err, repo.ErrSalesOrderNotFound) {
		return models.SalesOrder{}, err
	}

	lines := make([]models.SalesOrderLine, len(q.BOM))
	for i, l := range q.BOM {
		desc := l.Description
		if desc == "" {
			desc = fmt.Sprintf("%s %s", l.Family, l.Shape)
		}
		lines[i] = models.SalesOrderLine{
			LineNo:      i + 1,
			Description: desc,
			Quantity:    l.Quantity,
			TotalWeight: l.TotalWeight,
			LineTotal:   l.LineTotal,
		}
	}

	now := s.clock()
	id := q.ID
	o := models.SalesOrder{
		QuoteID:    &id,
		CustomerID: q.CustomerID,
		Status:     models.OrderOpen,
		PONumber:   strings.TrimSpace(poNumber),
		Total:      q.Total,
		Notes:      notes,
		CreatedAt:  now,
		UpdatedAt:  now,
		Lines:      lines,
	}
	created, err := s.createOrderWithNumber(ctx, o)
	if errors.Is(err, repo.ErrDuplicatedValueUnique) {
		// another request converted the quote first
		if existing, lookupErr := s.repos.SalesOrders.GetByQuoteID(ctx, quoteID); lookupErr == nil {
			return models.SalesOrder{}, &ConvertedError{OrderID: existing.ID, OrderNumber: existing.OrderNumber}
		}
	}
	if err != nil {
		return models.SalesOrder{}, err
	}

	s.logEvent(ctx, quoteID, models.EventConverted, created.OrderNumber)
	metrics.RecordOrderCreated()
	s.log.WithFields(logrus.Fields{"quote": q.QuoteNumber, "order": created.OrderNumber}).Info("quote converted to sales order")
	created.CustomerName = q.CustomerName
	return created, nil
}

func (s *Service) createOrderWithNumber(ctx context.Context, o models.SalesOrder) (models.SalesOrder, error) {
	for attempt := 0; attempt < numberAttempts; attempt++ {
		number, err := s.nextNumber(ctx, "SO", s.repos.SalesOrders.LastNumber)
		if err != nil {
			return models.SalesOrder{}, err
		}
		o.OrderNumber = number
		created, err := s.repos.SalesOrders.Create(ctx, o)
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			if o.QuoteID != nil {
				if _, lookupErr := s.repos.SalesOrders.GetByQuoteID(ctx, *o.QuoteID); lookupErr == nil {
					return models.SalesOrder{}, err
				}
			}
			continue
		}
		return created, err
	}
	return models.SalesOrder{}, fmt.Errorf("could not allocate an order number after %d attempts", numberAttempts)
}

func (s *Service) validateOrder(ctx context.Context, in OrderInput, withLines bool) (models.ValidationErrors, error) {
	var errs models.ValidationErrors
	if in.CustomerID <= 0 {
		errs = append(errs, models.FieldError{Field: "customer_id", Description: "customer_id is required"})
	} else {
		c, err := s.repos.Customers.GetByID(ctx, in.CustomerID)
		switch {
		case errors.Is(err, repo.ErrCustomerNotFound) || (err == nil && c.Deleted()):
			errs = append(errs, models.FieldError{Field: "customer_id", Description: "customer not found"})
		case err != nil:
			return nil, err
		}
	}
	if !withLines {
		return errs, nil
	}
	for i, l := range in.Lines {
		prefix := fmt.Sprintf("lines[%d].", i)
		if strings.TrimSpace(l.Description) == "" {
			errs = append(errs, models.FieldError{Field: prefix + "description", Description: "description is required"})
		}
		if l.Quantity < 1 {
			errs = append(errs, models.FieldError{Field: prefix + "quantity", Description: "quantity must be at least 1"})
		}
		if l.TotalWeight < 0 {
			errs = append(errs, models.FieldError{Field: prefix + "total_weight", Description: "total_weight cannot be negative"})
		}
		if l.LineTotal < 0 {
			errs = append(errs, models.FieldError{Field: prefix + "line_total", Description: "line_total cannot be negative"})
		}
	}
	return errs, nil
}

// CreateOrder stores a sales order that did not come from a quote.
func (s *Service) CreateOrder(ctx context.Context, in OrderInput) (models.SalesOrder, error) {
	verrs, err := s.validateOrder(ctx, in, true)
	if err != nil {
		return models.SalesOrder{}, err
	}
	if len(verrs) > 0 {
		return models.SalesOrder{}, verrs
	}

	total := decimal.Zero
	lines := make([]models.SalesOrderLine, len(in.Lines))
	for i, l := range in.Lines {
		lineTotal := decimal.NewFromFloat(l.LineTotal).Round(2)
		total = total.Add(lineTotal)
		lines[i] = models.SalesOrderLine{
			LineNo:      i + 1,
			Description: strings.TrimSpace(l.Description),
			Quantity:    l.Quantity,
			TotalWeight: l.TotalWeight,
			LineTotal:   lineTotal.InexactFloat64(),
		}
	}

	now := s.clock()
	created, err := s.createOrderWithNumber(ctx, models.SalesOrder{
		CustomerID: in.CustomerID,
		Status:     models.OrderOpen,
		PONumber:   strings.TrimSpace(in.PONumber),
		Total:      total.InexactFloat64(),
		Notes:      in.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
		Lines:      lines,
	})
	if err != nil {
		return models.SalesOrder{}, err
	}
	metrics.RecordOrderCreated()
	return s.withOrderCustomer(ctx, created), nil
}

func (s *Service) withOrderCustomer(ctx context.Context, o models.SalesOrder) models.SalesOrder {
	o.CustomerName = s.customerNames(ctx, o.CustomerID)[o.CustomerID]
	return o
}

func (s *Service) liveOrder(ctx context.Context, id int64) (models.SalesOrder, error) {
	o, err := s.repos.SalesOrders.GetByID(ctx, id)
	if err != nil {
		return models.SalesOrder{}, err
	}
	if o.Deleted() {
		return models.SalesOrder{}, repo.ErrSalesOrderNotFound
	}
	return o, nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (models.SalesOrder, error) {
	o, err := s.liveOrder(ctx, id)
	if err != nil {
		return models.SalesOrder{}, err
	}
	return s.withOrderCustomer(ctx, o), nil
}

func (s *Service) ListOrders(ctx context.Context, f repo.SalesOrderFilter) ([]models.SalesOrder, int, error) {
	orders, total, err := s.repos.SalesOrders.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	ids := make([]int64, len(orders))
	for i, o := range orders {
		ids[i] = o.CustomerID
	}
	names := s.customerNames(ctx, ids...)
	for i := range orders {
		orders[i].CustomerName = names[orders[i].CustomerID]
	}
	return orders, total, nil
}

// UpdateOrder edits the purchase order reference and notes. Customer and
// lines are fixed once the order exists.
func (s *Service) UpdateOrder(ctx context.Context, id int64, poNumber, notes string) (models.SalesOrder, error) {
	o, err := s.liveOrder(ctx, id)
	if err != nil {
		return models.SalesOrder{}, err
	}
	o.PONumber = strings.TrimSpace(poNumber)
	o.Notes = notes
	o.UpdatedAt = s.clock()
	updated, err := s.repos.SalesOrders.Update(ctx, o)
	if err != nil {
		return models.SalesOrder{}, err
	}
	return s.withOrderCustomer(ctx, updated), nil
}

func (s *Service) ChangeOrderStatus(ctx context.Context, id int64, next models.SalesOrderStatus) (models.SalesOrder, error) {
	if !next.Valid() {
		return models.SalesOrder{}, models.ValidationErrors{{Field: "status", Description: "unknown status"}}
	}
	o, err := s.liveOrder(ctx, id)
	if err != nil {
		return models.SalesOrder{}, err
	}
	if !o.Status.CanTransitionTo(next) {
		return models.SalesOrder{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, next)
	}
	o.Status = next
	o.UpdatedAt = s.clock()
	updated, err := s.repos.SalesOrders.Update(ctx, o)
	if err != nil {
		return models.SalesOrder{}, err
	}
	s.log.WithFields(logrus.Fields{"order": o.OrderNumber, "status": next}).Info("sales order status changed")
	return s.withOrderCustomer(ctx, updated), nil
}

func (s *Service) DeleteOrder(ctx context.Context, id int64) error {
	return s.repos.SalesOrders.SoftDelete(ctx, id, s.clock())
}

func (s *Service) RestoreOrder(ctx context.Context, id int64) (models.SalesOrder, error) {
	if err := s.repos.SalesOrders.Restore(ctx, id); err != nil {
		return models.SalesOrder{}, err
	}
	return s.GetOrder(ctx, id)
}
