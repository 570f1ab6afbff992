package models

import "time"

type SalesOrderStatus string

const (
	OrderOpen       SalesOrderStatus = "open"
	OrderInProgress SalesOrderStatus = "in_progress"
	OrderShipped    SalesOrderStatus = "shipped"
	OrderCompleted  SalesOrderStatus = "completed"
	OrderCancelled  SalesOrderStatus = "cancelled"
)

var orderTransitions = map[SalesOrderStatus][]SalesOrderStatus{
	OrderOpen:       {OrderInProgress, OrderCancelled},
	OrderInProgress: {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderCompleted},
	OrderCompleted:  {},
	OrderCancelled:  {},
}

func (s SalesOrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

func (s SalesOrderStatus) CanTransitionTo(next SalesOrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type SalesOrder struct {
	ID           int64            `json:"id" db:"id"`
	OrderNumber  string           `json:"order_number" db:"order_number"`
	QuoteID      *int64           `json:"quote_id,omitempty" db:"quote_id"`
	CustomerID   int64            `json:"customer_id" db:"customer_id"`
	CustomerName string           `json:"customer_name,omitempty" db:"-"`
	Status       SalesOrderStatus `json:"status" db:"status"`
	PONumber     string           `json:"po_number" db:"po_number"`
	Total        float64          `json:"total" db:"total"`
	Notes        string           `json:"notes" db:"notes"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at" db:"updated_at"`
	DeletedAt    *time.Time       `json:"deleted_at,omitempty" db:"deleted_at"`
	Lines        []SalesOrderLine `json:"lines" db:"-"`
}

func (o SalesOrder) Deleted() bool {
	return o.DeletedAt != nil
}

type SalesOrderLine struct {
	ID           int64   `json:"id" db:"id"`
	SalesOrderID int64   `json:"sales_order_id" db:"sales_order_id"`
	LineNo       int     `json:"line_no" db:"line_no"`
	Description  string  `json:"description" db:"description"`
	Quantity     int     `json:"quantity" db:"quantity"`
	TotalWeight  float64 `json:"total_weight" db:"total_weight"`
	LineTotal    float64 `json:"line_total" db:"line_total"`
}
