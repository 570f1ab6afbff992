package repo

import (
	"strings"
	"time"

	"github.com/rogerio-castellano/steel-quoter/internal/models"
	"github.com/rogerio-castellano/steel-quoter/internal/pricing"
)

const defaultLimit = 100

type CustomerFilter struct {
	Name           string
	IncludeDeleted bool
	Offset         *int
	Limit          *int
}

type MaterialFilter struct {
	Name           string
	Family         pricing.Family
	Shape          pricing.Shape
	IncludeDeleted bool
	Offset         *int
	Limit          *int
}

type QuoteFilter struct {
	Status     models.QuoteStatus
	CustomerID *int64
	// Query matches the quote number or title.
	Query          string
	IncludeDeleted bool
	Offset         *int
	Limit          *int
}

type SalesOrderFilter struct {
	Status         models.SalesOrderStatus
	CustomerID     *int64
	IncludeDeleted bool
	Offset         *int
	Limit          *int
}

type EventFilter struct {
	Since  *time.Time
	Until  *time.Time
	Offset *int
	Limit  *int
}

func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// paginate applies offset/limit to an already filtered slice and returns the
// page together with the total count before paging.
func paginate[T any](items []T, offset, limit *int) ([]T, int) {
	total := len(items)
	if offset != nil && *offset >= total {
		return []T{}, total
	}

	start := 0
	if offset != nil {
		start = clamp(*offset, 0, total)
	}

	size := defaultLimit
	if limit != nil && *limit > 0 {
		size = min(*limit, defaultLimit)
	}
	if limit != nil && *limit == 0 {
		return []T{}, total
	}
	end := clamp(start+size, start, total)

	out := make([]T, end-start)
	copy(out, items[start:end])
	return out, total
}

func containsFold(s, substr string) bool {
	return substr == "" || strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
