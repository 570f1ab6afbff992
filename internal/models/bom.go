package models

import "github.com/rogerio-castellano/steel-quoter/internal/pricing"

// BOMLine is one material line item on a quote. Weight and cost fields are
// computed by the pricing package and stored with the row.
type BOMLine struct {
	ID          int64          `json:"id" db:"id"`
	QuoteID     int64          `json:"quote_id" db:"quote_id"`
	LineNo      int            `json:"line_no" db:"line_no"`
	MaterialID  *int64         `json:"material_id,omitempty" db:"material_id"`
	Description string         `json:"description" db:"description"`
	Shape       pricing.Shape  `json:"shape" db:"shape"`
	Family      pricing.Family `json:"family" db:"family"`
	Grade       string         `json:"grade" db:"grade"`
	pricing.Dimensions
	Quantity     int     `json:"quantity" db:"quantity"`
	PricePerLb   float64 `json:"price_per_lb" db:"price_per_lb"`
	ExtraCost    float64 `json:"extra_cost" db:"extra_cost"`
	WeightEach   float64 `json:"weight_each" db:"weight_each"`
	TotalWeight  float64 `json:"total_weight" db:"total_weight"`
	MaterialCost float64 `json:"material_cost" db:"material_cost"`
	LineTotal    float64 `json:"line_total" db:"line_total"`
}

// Result returns the priced portion of the line for roll-ups.
func (l BOMLine) Result() pricing.LineResult {
	return pricing.LineResult{
		WeightEach:   l.WeightEach,
		TotalWeight:  l.TotalWeight,
		MaterialCost: l.MaterialCost,
		ExtraCost:    l.ExtraCost,
		LineTotal:    l.LineTotal,
	}
}
