// Package pricing derives weights and prices for structural steel line items
// from their geometry. All dimensions are in inches, densities in lb/in³ and
// weights in pounds.
package pricing

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

type Shape string

const (
	Plate     Shape = "plate"
	Sheet     Shape = "sheet"
	FlatBar   Shape = "flat_bar"
	SquareBar Shape = "square_bar"
	RoundBar  Shape = "round_bar"
	Tube      Shape = "tube"
	Angle     Shape = "angle"
	Pipe      Shape = "pipe"
)

var (
	ErrUnknownShape      = errors.New("unknown shape")
	ErrInvalidDimensions = errors.New("invalid dimensions")
)

// Dimensions holds every measurement a shape may need. Unused fields stay zero.
type Dimensions struct {
	Thickness       float64 `json:"thickness,omitempty" db:"thickness"`
	Width           float64 `json:"width,omitempty" db:"width"`
	Height          float64 `json:"height,omitempty" db:"height"`
	Length          float64 `json:"length,omitempty" db:"length"`
	Diameter        float64 `json:"diameter,omitempty" db:"diameter"`
	OutsideDiameter float64 `json:"outside_diameter,omitempty" db:"outside_diameter"`
	Wall            float64 `json:"wall,omitempty" db:"wall"`
	LegA            float64 `json:"leg_a,omitempty" db:"leg_a"`
	LegB            float64 `json:"leg_b,omitempty" db:"leg_b"`
}

// Field returns the named dimension, using the JSON field names.
func (d Dimensions) Field(name string) float64 {
	switch name {
	case "thickness":
		return d.Thickness
	case "width":
		return d.Width
	case "height":
		return d.Height
	case "length":
		return d.Length
	case "diameter":
		return d.Diameter
	case "outside_diameter":
		return d.OutsideDiameter
	case "wall":
		return d.Wall
	case "leg_a":
		return d.LegA
	case "leg_b":
		return d.LegB
	}
	return 0
}

var shapeOrder = []Shape{Plate, Sheet, FlatBar, SquareBar, RoundBar, Tube, Angle, Pipe}

var requiredDims = map[Shape][]string{
	Plate:     {"thickness", "width", "length"},
	Sheet:     {"thickness", "width", "length"},
	FlatBar:   {"thickness", "width", "length"},
	SquareBar: {"width", "length"},
	RoundBar:  {"diameter", "length"},
	Tube:      {"width", "wall", "length"},
	Angle:     {"leg_a", "leg_b", "thickness", "length"},
	Pipe:      {"outside_diameter", "wall", "length"},
}

var shapeAliases = map[string]Shape{
	"flat":        FlatBar,
	"flatbar":     FlatBar,
	"square":      SquareBar,
	"round":       RoundBar,
	"rod":         RoundBar,
	"square_tube": Tube,
	"rect_tube":   Tube,
	"hss":         Tube,
	"angle_iron":  Angle,
	"round_tube":  Pipe,
}

// Shapes lists the supported shapes in display order.
func Shapes() []Shape {
	out := make([]Shape, len(shapeOrder))
	copy(out, shapeOrder)
	return out
}

func (s Shape) Valid() bool {
	_, ok := requiredDims[s]
	return ok
}

// ParseShape normalizes free-form input such as "Round Bar" or "rect-tube".
func ParseShape(raw string) (Shape, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	if s := Shape(key); s.Valid() {
		return s, nil
	}
	if s, ok := shapeAliases[key]; ok {
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownShape, raw)
}

// RequiredDimensions returns the dimension names a shape needs, or nil for an
// unknown shape. Tube also accepts an optional height; zero means square.
func RequiredDimensions(s Shape) []string {
	req, ok := requiredDims[s]
	if !ok {
		return nil
	}
	out := make([]string, len(req))
	copy(out, req)
	return out
}

// ValidateDimensions checks that the shape is known and the dimensions describe
// a physically possible section.
func ValidateDimensions(s Shape, d Dimensions) error {
	req, ok := requiredDims[s]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownShape, s)
	}
	for _, name := range req {
		if d.Field(name) <= 0 {
			return fmt.Errorf("%w: %s must be greater than zero", ErrInvalidDimensions, name)
		}
	}

	switch s {
	case Tube:
		if d.Height < 0 {
			return fmt.Errorf("%w: height cannot be negative", ErrInvalidDimensions)
		}
		h := d.Height
		if h == 0 {
			h = d.Width
		}
		if 2*d.Wall >= math.Min(d.Width, h) {
			return fmt.Errorf("%w: wall is too thick for the tube section", ErrInvalidDimensions)
		}
	case Pipe:
		if 2*d.Wall >= d.OutsideDiameter {
			return fmt.Errorf("%w: wall is too thick for the outside diameter", ErrInvalidDimensions)
		}
	case Angle:
		if d.Thickness >= math.Min(d.LegA, d.LegB) {
			return fmt.Errorf("%w: thickness must be smaller than both legs", ErrInvalidDimensions)
		}
	}
	return nil
}

// CrossSectionArea returns the section area in square inches.
func CrossSectionArea(s Shape, d Dimensions) (float64, error) {
	if err := ValidateDimensions(s, d); err != nil {
		return 0, err
	}

	switch s {
	case Plate, Sheet, FlatBar:
		return d.Thickness * d.Width, nil
	case SquareBar:
		return d.Width * d.Width, nil
	case RoundBar:
		return math.Pi / 4 * d.Diameter * d.Diameter, nil
	case Tube:
		h := d.Height
		if h == 0 {
			h = d.Width
		}
		inner := (d.Width - 2*d.Wall) * (h - 2*d.Wall)
		return d.Width*h - inner, nil
	case Angle:
		return d.Thickness * (d.LegA + d.LegB - d.Thickness), nil
	case Pipe:
		id := d.OutsideDiameter - 2*d.Wall
		return math.Pi / 4 * (d.OutsideDiameter*d.OutsideDiameter - id*id), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownShape, s)
}

// WeightEach returns the weight of one piece, rounded half away from zero to
// 0.001 lb.
func WeightEach(s Shape, d Dimensions, density float64) (float64, error) {
	if density <= 0 {
		return 0, fmt.Errorf("%w: density must be greater than zero", ErrInvalidDimensions)
	}
	area, err := CrossSectionArea(s, d)
	if err != nil {
		return 0, err
	}
	w := decimal.NewFromFloat(area).Mul(decimal.NewFromFloat(d.Length)).Mul(decimal.NewFromFloat(density))
	return w.Round(3).InexactFloat64(), nil
}

func roundTo(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
