package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrInvalidLine = errors.New("invalid line")

// LineInput is one BOM row as entered in the quote builder.
type LineInput struct {
	Shape  Shape  `json:"shape"`
	Family Family `json:"family"`
	// Density overrides the family density when greater than zero.
	Density float64 `json:"density,omitempty"`
	Dimensions
	Quantity   int     `json:"quantity"`
	PricePerLb float64 `json:"price_per_lb"`
	ExtraCost  float64 `json:"extra_cost"`
}

type LineResult struct {
	Area         float64 `json:"area"`
	Density      float64 `json:"density"`
	WeightEach   float64 `json:"weight_each"`
	TotalWeight  float64 `json:"total_weight"`
	MaterialCost float64 `json:"material_cost"`
	ExtraCost    float64 `json:"extra_cost"`
	LineTotal    float64 `json:"line_total"`
}

// PriceLine computes weight and cost for a single line. Money is rounded half
// away from zero to cents, weights to 0.001 lb.
func PriceLine(in LineInput) (LineResult, error) {
	if in.Quantity < 1 {
		return LineResult{}, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidLine)
	}
	if in.PricePerLb < 0 {
		return LineResult{}, fmt.Errorf("%w: price_per_lb cannot be negative", ErrInvalidLine)
	}
	if in.ExtraCost < 0 {
		return LineResult{}, fmt.Errorf("%w: extra_cost cannot be negative", ErrInvalidLine)
	}

	density := in.Density
	if density <= 0 {
		d, err := Density(in.Family)
		if err != nil {
			return LineResult{}, err
		}
		density = d
	}

	area, err := CrossSectionArea(in.Shape, in.Dimensions)
	if err != nil {
		return LineResult{}, err
	}
	each, err := WeightEach(in.Shape, in.Dimensions, density)
	if err != nil {
		return LineResult{}, err
	}

	total := decimal.NewFromFloat(each).Mul(decimal.NewFromInt(int64(in.Quantity))).Round(3)
	material := total.Mul(decimal.NewFromFloat(in.PricePerLb)).Round(2)
	extra := decimal.NewFromFloat(in.ExtraCost).Round(2)

	return LineResult{
		Area:         roundTo(area, 4),
		Density:      density,
		WeightEach:   each,
		TotalWeight:  total.InexactFloat64(),
		MaterialCost: material.InexactFloat64(),
		ExtraCost:    extra.InexactFloat64(),
		LineTotal:    material.Add(extra).InexactFloat64(),
	}, nil
}
