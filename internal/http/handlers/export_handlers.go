package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/rogerio-castellano/steel-quoter/internal/export"
	"github.com/rogerio-castellano/steel-quoter/internal/models"
)

// exportLimit caps how many rows one workbook pulls, page by page.
const exportLimit = 10000

func writeWorkbook(w http.ResponseWriter, r *http.Request, filename string, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		reqLog(r).WithError(err).Error("failed to build workbook")
		http.Error(w, "failed to write Excel file", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	if _, err := w.Write(buf.Bytes()); err != nil {
		reqLog(r).WithError(err).Error("failed to write workbook")
	}
}

// ExportQuotesHandler godoc
// @Summary Export quotes as an Excel workbook
// @Tags quotes
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param status query string false "Filter by status"
// @Param customer_id query int false "Filter by customer"
// @Param q query string false "Search quote number or title"
// @Success 200 {file} file
// @Failure 400 {string} string "Invalid query"
// @Failure 500 {string} string "Internal error"
// @Router /api/quotes/export.xlsx [get]
func ExportQuotesHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := quoteFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var all []models.Quote
	for offset := 0; offset < exportLimit; {
		o := offset
		filter.Offset = &o
		page, total, err := quoteService.ListQuotes(r.Context(), filter)
		if err != nil {
			writeError(w, r, err, "export quotes")
			return
		}
		all = append(all, page...)
		offset += len(page)
		if len(page) == 0 || offset >= total {
			break
		}
	}

	writeWorkbook(w, r, export.Filename("quotes", time.Now()), func(buf *bytes.Buffer) error {
		return export.Quotes(buf, all)
	})
}

// ExportQuoteHandler godoc
// @Summary Export one quote with its BOM as an Excel workbook
// @Tags quotes
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path int true "Quote ID"
// @Success 200 {file} file
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /api/quotes/{id}/export.xlsx [get]
func ExportQuoteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid quote ID", http.StatusBadRequest)
		return
	}
	q, err := quoteService.GetQuote(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "export quote")
		return
	}

	writeWorkbook(w, r, q.QuoteNumber+".xlsx", func(buf *bytes.Buffer) error {
		return export.Quote(buf, q)
	})
}

// ExportMaterialsHandler godoc
// @Summary Export the materials catalog as an Excel workbook
// @Tags materials
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param family query string false "Filter by family"
// @Param shape query string false "Filter by shape"
// @Success 200 {file} file
// @Failure 400 {string} string "Invalid query"
// @Failure 500 {string} string "Internal error"
// @Router /api/materials/export.xlsx [get]
func ExportMaterialsHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := materialFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var all []models.Material
	for offset := 0; offset < exportLimit; {
		o := offset
		filter.Offset = &o
		page, total, err := materialRepo.List(r.Context(), filter)
		if err != nil {
			writeError(w, r, err, "export materials")
			return
		}
		all = append(all, page...)
		offset += len(page)
		if len(page) == 0 || offset >= total {
			break
		}
	}

	writeWorkbook(w, r, export.Filename("materials", time.Now()), func(buf *bytes.Buffer) error {
		return export.Materials(buf, all)
	})
}
