package models

import (
	"time"

	"github.com/rogerio-castellano/steel-quoter/internal/pricing"
)

type QuoteStatus string

const (
	QuoteDraft    QuoteStatus = "draft"
	QuoteSent     QuoteStatus = "sent"
	QuoteAccepted QuoteStatus = "accepted"
	QuoteRejected QuoteStatus = "rejected"
	QuoteExpired  QuoteStatus = "expired"
)

var quoteTransitions = map[QuoteStatus][]QuoteStatus{
	QuoteDraft:    {QuoteSent, QuoteRejected},
	QuoteSent:     {QuoteAccepted, QuoteRejected, QuoteExpired, QuoteDraft},
	QuoteRejected: {QuoteDraft},
	QuoteExpired:  {QuoteDraft},
	QuoteAccepted: {},
}

func (s QuoteStatus) Valid() bool {
	_, ok := quoteTransitions[s]
	return ok
}

func (s QuoteStatus) CanTransitionTo(next QuoteStatus) bool {
	for _, allowed := range quoteTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Quote is a priced proposal for a customer. Adjustments are inputs, Totals
// are derived from the BOM and persisted alongside.
type Quote struct {
	ID           int64       `json:"id" db:"id"`
	QuoteNumber  string      `json:"quote_number" db:"quote_number"`
	CustomerID   int64       `json:"customer_id" db:"customer_id"`
	CustomerName string      `json:"customer_name,omitempty" db:"-"`
	Title        string      `json:"title" db:"title"`
	Description  string      `json:"description" db:"description"`
	Status       QuoteStatus `json:"status" db:"status"`
	ValidUntil   *time.Time  `json:"valid_until,omitempty" db:"valid_until"`
	pricing.Adjustments
	pricing.Totals
	Notes     string     `json:"notes" db:"notes"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
	BOM       []BOMLine  `json:"bom,omitempty" db:"-"`
}

func (q Quote) Deleted() bool {
	return q.DeletedAt != nil
}

// QuoteEvent is an entry in a quote's history.
type QuoteEvent struct {
	ID        int64     `json:"id" db:"id"`
	QuoteID   int64     `json:"quote_id" db:"quote_id"`
	Kind      string    `json:"kind" db:"kind"`
	Detail    string    `json:"detail" db:"detail"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

const (
	EventCreated    = "created"
	EventUpdated    = "updated"
	EventStatus     = "status"
	EventBOM        = "bom"
	EventDeleted    = "deleted"
	EventRestored   = "restored"
	EventConverted  = "converted"
	EventDuplicated = "duplicated"
)
