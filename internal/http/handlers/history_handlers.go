package handlers

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/rogerio-castellano/steel-quoter/internal/repo"
)

func eventFilter(r *http.Request) (repo.EventFilter, error) {
	since, err := parseTimeParam(r, "since")
	if err != nil {
		return repo.EventFilter{}, err
	}
	until, err := parseTimeParam(r, "until")
	if err != nil {
		return repo.EventFilter{}, err
	}
	offset, limit, err := parsePaging(r)
	if err != nil {
		return repo.EventFilter{}, err
	}
	return repo.EventFilter{Since: since, Until: until, Offset: offset, Limit: limit}, nil
}

// GetQuoteHistoryHandler godoc
// @Summary Get the event log of a quote
// @Tags quotes
// @Produce json
// @Param id path int true "Quote ID"
// @Param since query string false "Filter events from this timestamp (RFC3339)"
// @Param until query string false "Filter events until this timestamp (RFC3339)"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} QuoteEventsSearchResult
// @Failure 400 {string} string "Invalid input"
// @Failure 404 {string} string "Quote not found"
// @Failure 500 {string} string "Internal error"
// @Router /api/quotes/{id}/history [get]
func GetQuoteHistoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid quote ID", http.StatusBadRequest)
		return
	}
	filter, err := eventFilter(r)
	if err != nil {
		reqLog(r).WithError(err).Debug("rejected history query")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	events, total, err := quoteService.History(r.Context(), id, filter)
	if err != nil {
		writeError(w, r, err, "retrieve quote history")
		return
	}
	respond(w, r, http.StatusOK, QuoteEventsSearchResult{Data: events, Meta: Meta{TotalCount: total}})
}

// ExportQuoteHistoryHandler godoc
// @Summary Export the event log of a quote
// @Tags quotes
// @Produce text/csv, application/json
// @Param id path int true "Quote ID"
// @Param format query string true "Export format (csv or json)"
// @Param since query string false "Filter from timestamp (RFC3339)"
// @Param until query string false "Filter until timestamp (RFC3339)"
// @Success 200 {file} file
// @Failure 400 {string} string "Invalid input"
// @Failure 404 {string} string "Quote not found"
// @Failure 500 {string} string "Internal error"
// @Router /api/quotes/{id}/history/export [get]
func ExportQuoteHistoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid quote ID", http.StatusBadRequest)
		return
	}

	format := r.URL.Query().Get("format")
	if format != "csv" && format != "json" {
		http.Error(w, "format must be 'csv' or 'json'", http.StatusBadRequest)
		return
	}
	since, err := parseTimeParam(r, "since")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	until, err := parseTimeParam(r, "until")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// limited to the repository maximum page size
	events, _, err := quoteService.History(r.Context(), id, repo.EventFilter{Since: since, Until: until})
	if err != nil {
		writeError(w, r, err, "retrieve quote history")
		return
	}

	switch format {
	case "json":
		w.Header().Set("Content-Disposition", `attachment; filename="quote-history.json"`)
		respond(w, r, http.StatusOK, events)

	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="quote-history.csv"`)

		csvWriter := csv.NewWriter(w)
		_ = csvWriter.Write([]string{"id", "quote_id", "kind", "detail", "created_at"})
		for _, e := range events {
			_ = csvWriter.Write([]string{
				strconv.FormatInt(e.ID, 10),
				strconv.FormatInt(e.QuoteID, 10),
				e.Kind,
				e.Detail,
				e.CreatedAt.UTC().Format(time.RFC3339),
			})
		}
		csvWriter.Flush()
	}
}
