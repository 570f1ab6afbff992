package handlers_test_suite

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	handler "github.com/rogerio-castellano/steel-quoter/internal/http/handlers"
	"github.com/rogerio-castellano/steel-quoter/internal/models"
	"github.com/rogerio-castellano/steel-quoter/internal/pricing"
	"github.com/rogerio-castellano/steel-quoter/internal/service"
)

func TestGetShapesHandler(t *testing.T) {
	r := newTestRouter(t)

	shapes := decode[[]handler.ShapeInfo](t, doJSON(r, http.MethodGet, "/api/pricing/shapes", nil))
	require.Len(t, shapes, 8)
	assert.Equal(t, pricing.Plate, shapes[0].Shape)
	assert.Equal(t, []string{"thickness", "width", "length"}, shapes[0].Dimensions)
}

func TestGetDensitiesHandler(t *testing.T) {
	r := newTestRouter(t)

	families := decode[[]pricing.FamilyDensity](t, doJSON(r, http.MethodGet, "/api/pricing/densities", nil))
	require.NotEmpty(t, families)
	assert.Equal(t, pricing.FamilyDensity{Family: pricing.Steel, Density: 0.2836}, families[0])
}

func TestPriceLineHandler(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/pricing/line", plateLine(2))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	line := decode[handler.PricedLine](t, w)
	assert.Equal(t, 6.0, line.Area)
	assert.Equal(t, 40.838, line.WeightEach)
	assert.Equal(t, 81.676, line.TotalWeight)
	assert.Equal(t, 69.42, line.MaterialCost)
	assert.Equal(t, 84.42, line.LineTotal)

	bad := plateLine(1)
	bad.Shape = "i-beam"
	w = doJSON(r, http.MethodPost, "/api/pricing/line", bad)
	require.Equal(t, http.StatusBadRequest, w.Code)
	errs := decode[[]models.FieldError](t, w)
	require.Len(t, errs, 1)
	assert.Equal(t, "shape", errs[0].Field)
}

func TestPriceQuoteHandler(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/pricing/quote", handler.PricingQuoteRequest{
		Lines:       []service.LineInput{plateLine(2), plateLine(1)},
		Adjustments: pricing.Adjustments{MarkupPercent: 20},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[handler.PricingQuoteResult](t, w)
	require.Len(t, res.Lines, 2)
	assert.Equal(t, 134.13, res.Totals.MaterialSubtotal)
	assert.Equal(t, 26.83, res.Totals.MarkupAmount)
	assert.Equal(t, 160.96, res.Totals.Total)

	w = doJSON(r, http.MethodPost, "/api/pricing/quote", handler.PricingQuoteRequest{
		Lines:       []service.LineInput{plateLine(1)},
		Adjustments: pricing.Adjustments{Freight: -5},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
