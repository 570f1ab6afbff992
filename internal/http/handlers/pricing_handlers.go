package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/steel-quoter/internal/pricing"
	"github.com/rogerio-castellano/steel-quoter/internal/service"
)

// GetShapesHandler godoc
// @Summary List supported shapes and the dimensions each needs
// @Tags pricing
// @Produce json
// @Success 200 {array} ShapeInfo
// @Router /api/pricing/shapes [get]
func GetShapesHandler(w http.ResponseWriter, r *http.Request) {
	shapes := pricing.Shapes()
	resp := make([]ShapeInfo, len(shapes))
	for i, s := range shapes {
		resp[i] = ShapeInfo{Shape: s, Dimensions: pricing.RequiredDimensions(s)}
	}
	respond(w, r, http.StatusOK, resp)
}

// GetDensitiesHandler godoc
// @Summary List material families and their densities (lb/in³)
// @Tags pricing
// @Produce json
// @Success 200 {array} pricing.FamilyDensity
// @Router /api/pricing/densities [get]
func GetDensitiesHandler(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, pricing.Families())
}

// PriceLineHandler godoc
// @Summary Price a single line without saving it
// @Tags pricing
// @Accept json
// @Produce json
// @Param line body service.LineInput true "Line to price"
// @Success 200 {object} PricedLine
// @Failure 400 {array} models.FieldError
// @Failure 500 {string} string "Internal error"
// @Router /api/pricing/line [post]
func PriceLineHandler(w http.ResponseWriter, r *http.Request) {
	var req service.LineInput
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	line, err := quoteService.BuildLine(r.Context(), req, "")
	if err != nil {
		writeError(w, r, err, "price line")
		return
	}
	respond(w, r, http.StatusOK, pricedLine(line))
}

// PriceQuoteHandler godoc
// @Summary Preview quote totals without saving
// @Tags pricing
// @Accept json
// @Produce json
// @Param quote body PricingQuoteRequest true "Lines and adjustments"
// @Success 200 {object} PricingQuoteResult
// @Failure 400 {array} models.FieldError
// @Failure 500 {string} string "Internal error"
// @Router /api/pricing/quote [post]
func PriceQuoteHandler(w http.ResponseWriter, r *http.Request) {
	var req PricingQuoteRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	lines, totals, err := quoteService.PreviewQuote(r.Context(), req.Lines, req.Adjustments)
	if err != nil {
		writeError(w, r, err, "price quote")
		return
	}
	resp := PricingQuoteResult{Lines: make([]PricedLine, len(lines)), Totals: totals}
	for i, l := range lines {
		resp.Lines[i] = pricedLine(l)
	}
	respond(w, r, http.StatusOK, resp)
}
