package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/steel-quoter/internal/service"
)

// GetQuoteBOMHandler godoc
// @Summary List the BOM lines of a quote
// @Tags bom
// @Produce json
// @Param id path int true "Quote ID"
// @Success 200 {array} models.BOMLine
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Quote not found"
// @Failure 500 {string} string "Internal error"
// @Router /api/quotes/{id}/bom [get]
func GetQuoteBOMHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid quote ID", http.StatusBadRequest)
		return
	}
	lines, err := quoteService.ListBOM(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "fetch bom")
		return
	}
	respond(w, r, http.StatusOK, lines)
}

// AddBOMLineHandler godoc
// @Summary Add a line to a draft quote
// @Tags bom
// @Accept json
// @Produce json
// @Param id path int true "Quote ID"
// @Param line body service.LineInput true "Line to add"
// @Success 201 {object} models.Quote
// @Failure 400 {array} models.FieldError
// @Failure 404 {string} string "Quote not found"
// @Failure 409 {string} string "Quote is not a draft"
// @Failure 500 {string} string "Internal error"
// @Router /api/quotes/{id}/bom [post]
func AddBOMLineHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid quote ID", http.StatusBadRequest)
		return
	}
	var req service.LineInput
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	q, err := quoteService.AddBOMLine(r.Context(), id, req)
	if err != nil {
		writeError(w, r, err, "add bom line")
		return
	}
	respond(w, r, http.StatusCreated, q)
}

// ReplaceBOMHandler godoc
// @Summary Replace every line of a draft quote
// @Description All rows are validated first; nothing is stored if any row is invalid.
// @Tags bom
// @Accept json
// @Produce json
// @Param id path int true "Quote ID"
// @Param lines body []service.LineInput true "New lines"
// @Success 200 {object} models.Quote
// @Failure 400 {array} models.FieldError
// @Failure 404 {string} string "Quote not found"
// @Failure 409 {string} string "Quote is not a draft"
// @Failure 500 {string} string "Internal error"
// @Router /api/quotes/{id}/bom [put]
func ReplaceBOMHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid quote ID", http.StatusBadRequest)
		return
	}
	var req []service.LineInput
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	q, err := quoteService.ReplaceBOM(r.Context(), id, req)
	if err != nil {
		writeError(w, r, err, "replace bom")
		return
	}
	respond(w, r, http.StatusOK, q)
}

// UpdateBOMLineHandler godoc
// @Summary Update one line of a draft quote
// @Tags bom
// @Accept json
// @Produce json
// @Param id path int true "Quote ID"
// @Param lineId path int true "Line ID"
// @Param line body service.LineInput true "Updated line"
// @Success 200 {object} models.Quote
// @Failure 400 {array} models.FieldError
// @Failure 404 {string} string "Not found"
// @Failure 409 {string} string "Quote is not a draft"
// @Failure 500 {string} string "Internal error"
// @Router /api/quotes/{id}/bom/{lineId} [put]
func UpdateBOMLineHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid quote ID", http.StatusBadRequest)
		return
	}
	lineID, err := pathID(r, "lineId")
	if err != nil {
		http.Error(w, "invalid line ID", http.StatusBadRequest)
		return
	}
	var req service.LineInput
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	q, err := quoteService.UpdateBOMLine(r.Context(), id, lineID, req)
	if err != nil {
		writeError(w, r, err, "update bom line")
		return
	}
	respond(w, r, http.StatusOK, q)
}

// DeleteBOMLineHandler godoc
// @Summary Remove one line from a draft quote
// @Tags bom
// @Produce json
// @Param id path int true "Quote ID"
// @Param lineId path int true "Line ID"
// @Success 200 {object} models.Quote
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Failure 409 {string} string "Quote is not a draft"
// @Failure 500 {string} string "Internal error"
// @Router /api/quotes/{id}/bom/{lineId} [delete]
func DeleteBOMLineHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid quote ID", http.StatusBadRequest)
		return
	}
	lineID, err := pathID(r, "lineId")
	if err != nil {
		http.Error(w, "invalid line ID", http.StatusBadRequest)
		return
	}

	q, err := quoteService.DeleteBOMLine(r.Context(), id, lineID)
	if err != nil {
		writeError(w, r, err, "delete bom line")
		return
	}
	respond(w, r, http.StatusOK, q)
}
