package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/steel-quoter/internal/models"
	"github.com/rogerio-castellano/steel-quoter/internal/repo"
)

// CreateQuoteHandler godoc
// @Summary Create a quote
// @Description Creates a draft quote. The number is generated when empty and the BOM is optional.
// @Tags quotes
// @Accept json
// @Produce json
// @Param quote body QuoteRequest true "Quote to create"
// @Success 201 {object} models.Quote
// @Failure 400 {array} models.FieldError
// @Failure 409 {string} string "Quote number already used"
// @Failure 500 {string} string "Internal error"
// @Router /api/quotes [post]
func CreateQuoteHandler(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	q, err := quoteService.CreateQuote(r.Context(), req.input())
	if err != nil {
		writeError(w, r, err, "create quote")
		return
	}
	respond(w, r, http.StatusCreated, q)
}

// GetQuotesHandler godoc
// @Summary List and filter quotes
// @Tags quotes
// @Produce json
// @Param status query string false "Filter by status"
// @Param customer_id query int false "Filter by customer"
// @Param q query string false "Search quote number or title"
// @Param include_deleted query bool false "Include soft deleted quotes"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} QuotesSearchResult
// @Failure 400 {string} string "Invalid query"
// @Failure 500 {string} string "Internal error"
// @Router /api/quotes [get]
func GetQuotesHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := quoteFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	quotes, total, err := quoteService.ListQuotes(r.Context(), filter)
	if err != nil {
		writeError(w, r, err, "fetch quotes")
		return
	}
	respond(w, r, http.StatusOK, QuotesSearchResult{Data: quotes, Meta: Meta{TotalCount: total}})
}

func quoteFilter(r *http.Request) (repo.QuoteFilter, error) {
	offset, limit, err := parsePaging(r)
	if err != nil {
		return repo.QuoteFilter{}, err
	}
	q := r.URL.Query()
	customerID, err := parseInt64Ptr(q.Get("customer_id"))
	if err != nil {
		return repo.QuoteFilter{}, errInvalidCustomerFilter
	}
	status := models.QuoteStatus(q.Get("status"))
	if status != "" && !status.Valid() {
		return repo.QuoteFilter{}, errInvalidStatusFilter
	}
	return repo.QuoteFilter{
		Status:         status,
		CustomerID:     customerID,
		Query:          q.Get("q"),
		IncludeDeleted: parseBool(q.Get("include_deleted")),
		Offset:         offset,
		Limit:          limit,
	}, nil
}

// GetQuoteByIDHandler godoc
// @Summary Get a quote with its BOM
// @Tags quotes
// @Produce json
// @Param id path int true "Quote ID"
// @Success 200 {object} models.Quote
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /api/quotes/{id} [get]
func GetQuoteByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid quote ID", http.StatusBadRequest)
		return
	}
	q, err := quoteService.GetQuote(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "fetch quote")
		return
	}
	respond(w, r, http.StatusOK, q)
}

// UpdateQuoteHandler godoc
// @Summary Update a draft quote
// @Description Replaces header fields and adjustments, and the BOM when "bom" is present. Totals are recomputed.
// @Tags quotes
// @Accept json
// @Produce json
// @Param id path int true "Quote ID"
// @Param quote body QuoteRequest true "Updated quote"
// @Success 200 {object} models.Quote
// @Failure 400 {array} models.FieldError
// @Failure 404 {string} string "Not found"
// @Failure 409 {string} string "Quote is not a draft"
// @Failure 500 {string} string "Internal error"
// @Router /api/quotes/{id} [put]
func UpdateQuoteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid quote ID", http.StatusBadRequest)
		return
	}
	var req QuoteRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	q, err := quoteService.UpdateQuote(r.Context(), id, req.input())
	if err != nil {
		writeError(w, r, err, "update quote")
		return
	}
	respond(w, r, http.StatusOK, q)
}

// DeleteQuoteHandler godoc
// @Summary Soft delete a quote
// @Tags quotes
// @Param id path int true "Quote ID"
// @Success 204 "Deleted successfully"
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /api/quotes/{id} [delete]
func DeleteQuoteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid quote ID", http.StatusBadRequest)
		return
	}
	if err := quoteService.DeleteQuote(r.Context(), id); err != nil {
		writeError(w, r, err, "delete quote")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RestoreQuoteHandler godoc
// @Summary Restore a soft deleted quote
// @Tags quotes
// @Produce json
// @Param id path int true "Quote ID"
// @Success 200 {object} models.Quote
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /api/quotes/{id}/restore [post]
func RestoreQuoteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid quote ID", http.StatusBadRequest)
		return
	}
	q, err := quoteService.RestoreQuote(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "restore quote")
		return
	}
	respond(w, r, http.StatusOK, q)
}

// ChangeQuoteStatusHandler godoc
// @Summary Move a quote to another status
// @Description draft -> sent|rejected, sent -> accepted|rejected|expired|draft, rejected|expired -> draft
// @Tags quotes
// @Accept json
// @Produce json
// @Param id path int true "Quote ID"
// @Param status body StatusRequest true "Target status"
// @Success 200 {object} models.Quote
// @Failure 400 {array} models.FieldError
// @Failure 404 {string} string "Not found"
// @Failure 409 {string} string "Invalid transition"
// @Failure 500 {string} string "Internal error"
// @Router /api/quotes/{id}/status [post]
func ChangeQuoteStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid quote ID", http.StatusBadRequest)
		return
	}
	var req StatusRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	q, err := quoteService.ChangeStatus(r.Context(), id, models.QuoteStatus(req.Status), req.Note)
	if err != nil {
		writeError(w, r, err, "change quote status")
		return
	}
	respond(w, r, http.StatusOK, q)
}

// DuplicateQuoteHandler godoc
// @Summary Copy a quote into a new draft
// @Tags quotes
// @Produce json
// @Param id path int true "Quote ID"
// @Success 201 {object} models.Quote
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /api/quotes/{id}/duplicate [post]
func DuplicateQuoteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid quote ID", http.StatusBadRequest)
		return
	}
	q, err := quoteService.DuplicateQuote(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "duplicate quote")
		return
	}
	respond(w, r, http.StatusCreated, q)
}

// ConvertQuoteHandler godoc
// @Summary Convert an accepted quote into a sales order
// @Tags quotes
// @Accept json
// @Produce json
// @Param id path int true "Quote ID"
// @Param order body ConvertRequest false "Purchase order details"
// @Success 201 {object} models.SalesOrder
// @Failure 400 {string} string "Invalid input"
// @Failure 404 {string} string "Not found"
// @Failure 409 {string} string "Quote not accepted or already converted"
// @Failure 500 {string} string "Internal error"
// @Router /api/quotes/{id}/convert [post]
func ConvertQuoteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid quote ID", http.StatusBadRequest)
		return
	}
	var req ConvertRequest
	if r.ContentLength != 0 {
		if err := readJSON(w, r, &req); err != nil {
			http.Error(w, "invalid input", http.StatusBadRequest)
			return
		}
	}

	o, err := quoteService.ConvertToOrder(r.Context(), id, req.PONumber, req.Notes)
	if err != nil {
		writeError(w, r, err, "convert quote")
		return
	}
	respond(w, r, http.StatusCreated, o)
}
