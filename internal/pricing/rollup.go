package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrInvalidAdjustment = errors.New("invalid adjustment")

// Adjustments are the quote-level inputs applied on top of the BOM subtotal.
type Adjustments struct {
	MarkupPercent     float64 `json:"markup_percent" db:"markup_percent"`
	Freight           float64 `json:"freight" db:"freight"`
	CommissionPercent float64 `json:"commission_percent" db:"commission_percent"`
	TaxPercent        float64 `json:"tax_percent" db:"tax_percent"`
	TaxExempt         bool    `json:"tax_exempt" db:"tax_exempt"`
}

func (a Adjustments) Validate() error {
	switch {
	case a.MarkupPercent < 0:
		return fmt.Errorf("%w: markup_percent cannot be negative", ErrInvalidAdjustment)
	case a.Freight < 0:
		return fmt.Errorf("%w: freight cannot be negative", ErrInvalidAdjustment)
	case a.CommissionPercent < 0:
		return fmt.Errorf("%w: commission_percent cannot be negative", ErrInvalidAdjustment)
	case a.TaxPercent < 0:
		return fmt.Errorf("%w: tax_percent cannot be negative", ErrInvalidAdjustment)
	}
	return nil
}

// Totals is the priced summary of a quote.
type Totals struct {
	MaterialSubtotal float64 `json:"material_subtotal" db:"material_subtotal"`
	MarkupAmount     float64 `json:"markup_amount" db:"markup_amount"`
	CommissionAmount float64 `json:"commission_amount" db:"commission_amount"`
	TaxAmount        float64 `json:"tax_amount" db:"tax_amount"`
	Total            float64 `json:"total" db:"total"`
	TotalWeight      float64 `json:"total_weight" db:"total_weight"`
}

// Rollup sums priced lines and applies markup, commission, freight and tax in
// that order. Commission is taken on the marked-up subtotal; tax applies to
// everything including freight.
func Rollup(lines []LineResult, adj Adjustments) Totals {
	subtotal := decimal.Zero
	weight := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(decimal.NewFromFloat(l.LineTotal))
		weight = weight.Add(decimal.NewFromFloat(l.TotalWeight))
	}
	subtotal = subtotal.Round(2)

	markup := percentOf(subtotal, adj.MarkupPercent)
	commission := percentOf(subtotal.Add(markup), adj.CommissionPercent)
	freight := decimal.NewFromFloat(adj.Freight).Round(2)
	preTax := subtotal.Add(markup).Add(commission).Add(freight)

	tax := decimal.Zero
	if !adj.TaxExempt {
		tax = percentOf(preTax, adj.TaxPercent)
	}

	return Totals{
		MaterialSubtotal: subtotal.InexactFloat64(),
		MarkupAmount:     markup.InexactFloat64(),
		CommissionAmount: commission.InexactFloat64(),
		TaxAmount:        tax.InexactFloat64(),
		Total:            preTax.Add(tax).InexactFloat64(),
		TotalWeight:      weight.Round(3).InexactFloat64(),
	}
}

func percentOf(base decimal.Decimal, pct float64) decimal.Decimal {
	if pct == 0 {
		return decimal.Zero
	}
	return base.Mul(decimal.NewFromFloat(pct)).Div(decimal.NewFromInt(100)).Round(2)
}
