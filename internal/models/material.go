package models

import (
	"time"

	"github.com/rogerio-castellano/steel-quoter/internal/pricing"
)

// Material is a catalog entry the BOM lines can reference for pricing.
type Material struct {
	ID     int64          `json:"id" db:"id"`
	Name   string         `json:"name" db:"name"`
	Family pricing.Family `json:"family" db:"family"`
	Shape  pricing.Shape  `json:"shape" db:"shape"`
	Grade  string         `json:"grade" db:"grade"`
	// Density in lb/in³; zero means the family default.
	Density     float64    `json:"density" db:"density"`
	PricePerLb  float64    `json:"price_per_lb" db:"price_per_lb"`
	Description string     `json:"description" db:"description"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

func (m Material) Deleted() bool {
	return m.DeletedAt != nil
}

// EffectiveDensity returns the catalog density or the family default.
func (m Material) EffectiveDensity() (float64, error) {
	if m.Density > 0 {
		return m.Density, nil
	}
	return pricing.Density(m.Family)
}
