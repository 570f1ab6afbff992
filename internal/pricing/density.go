package pricing

import (
	"errors"
	"fmt"
	"strings"
)

// Family groups materials that share a density.
type Family string

const (
	Steel     Family = "steel"
	Stainless Family = "stainless"
	Aluminum  Family = "aluminum"
	Brass     Family = "brass"
	Copper    Family = "copper"
)

var ErrUnknownFamily = errors.New("unknown material family")

// lb/in³
var densities = map[Family]float64{
	Steel:     0.2836,
	Stainless: 0.289,
	Aluminum:  0.0975,
	Brass:     0.307,
	Copper:    0.323,
}

var familyOrder = []Family{Steel, Stainless, Aluminum, Brass, Copper}

var familyAliases = map[string]Family{
	"carbon_steel":    Steel,
	"mild_steel":      Steel,
	"a36":             Steel,
	"ss":              Stainless,
	"stainless_steel": Stainless,
	"al":              Aluminum,
	"aluminium":       Aluminum,
}

type FamilyDensity struct {
	Family  Family  `json:"family"`
	Density float64 `json:"density"`
}

func Families() []FamilyDensity {
	out := make([]FamilyDensity, 0, len(familyOrder))
	for _, f := range familyOrder {
		out = append(out, FamilyDensity{Family: f, Density: densities[f]})
	}
	return out
}

func (f Family) Valid() bool {
	_, ok := densities[f]
	return ok
}

func ParseFamily(raw string) (Family, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	if f := Family(key); f.Valid() {
		return f, nil
	}
	if f, ok := familyAliases[key]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFamily, raw)
}

// Density returns the density of a family in lb/in³.
func Density(f Family) (float64, error) {
	d, ok := densities[f]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownFamily, f)
	}
	return d, nil
}
