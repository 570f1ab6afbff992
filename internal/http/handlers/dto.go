package handlers

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/rogerio-castellano/steel-quoter/internal/models"
	"github.com/rogerio-castellano/steel-quoter/internal/pricing"
	"github.com/rogerio-castellano/steel-quoter/internal/service"
)

// Date accepts either a calendar date (2006-01-02) or an RFC3339 timestamp.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", s)
}

func (d *Date) ptr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

type Meta struct {
	TotalCount int `json:"total_count"`
}

type CustomerRequest struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

type CustomersSearchResult struct {
	Data []models.Customer `json:"data"`
	Meta Meta              `json:"meta,omitempty"`
}

type MaterialRequest struct {
	Name        string  `json:"name"`
	Family      string  `json:"family"`
	Shape       string  `json:"shape"`
	Grade       string  `json:"grade"`
	Density     float64 `json:"density"`
	PricePerLb  float64 `json:"price_per_lb"`
	Description string  `json:"description"`
}

type MaterialsSearchResult struct {
	Data []models.Material `json:"data"`
	Meta Meta              `json:"meta,omitempty"`
}

type ImportMaterialsResult struct {
	ImportedMaterialsCount int                 `json:"imported"`
	Errors                 []models.FieldError `json:"errors"`
}

type QuoteRequest struct {
	QuoteNumber string  `json:"quote_number"`
	CustomerID  int64   `json:"customer_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Notes       string  `json:"notes"`
	ValidUntil  *Date   `json:"valid_until,omitempty" swaggertype:"string"`
	pricing.Adjustments
	// BOM replaces the quote lines when present.
	BOM []service.LineInput `json:"bom,omitempty"`
}

func (q QuoteRequest) input() service.QuoteInput {
	return service.QuoteInput{
		QuoteNumber: q.QuoteNumber,
		CustomerID:  q.CustomerID,
		Title:       q.Title,
		Description: q.Description,
		Notes:       q.Notes,
		ValidUntil:  q.ValidUntil.ptr(),
		Adjustments: q.Adjustments,
		BOM:         q.BOM,
	}
}

type QuotesSearchResult struct {
	Data []models.Quote `json:"data"`
	Meta Meta           `json:"meta,omitempty"`
}

type StatusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}

type QuoteEventsSearchResult struct {
	Data []models.QuoteEvent `json:"data"`
	Meta Meta                `json:"meta,omitempty"`
}

type ConvertRequest struct {
	PONumber string `json:"po_number"`
	Notes    string `json:"notes"`
}

type PricedLine struct {
	Description  string         `json:"description,omitempty"`
	Shape        pricing.Shape  `json:"shape"`
	Family       pricing.Family `json:"family"`
	Grade        string         `json:"grade,omitempty"`
	Quantity     int            `json:"quantity"`
	Area         float64        `json:"area"`
	WeightEach   float64        `json:"weight_each"`
	TotalWeight  float64        `json:"total_weight"`
	PricePerLb   float64        `json:"price_per_lb"`
	MaterialCost float64        `json:"material_cost"`
	ExtraCost    float64        `json:"extra_cost"`
	LineTotal    float64        `json:"line_total"`
}

func pricedLine(l models.BOMLine) PricedLine {
	area, _ := pricing.CrossSectionArea(l.Shape, l.Dimensions)
	return PricedLine{
		Description:  l.Description,
		Shape:        l.Shape,
		Family:       l.Family,
		Grade:        l.Grade,
		Quantity:     l.Quantity,
		Area:         math.Round(area*10000) / 10000,
		WeightEach:   l.WeightEach,
		TotalWeight:  l.TotalWeight,
		PricePerLb:   l.PricePerLb,
		MaterialCost: l.MaterialCost,
		ExtraCost:    l.ExtraCost,
		LineTotal:    l.LineTotal,
	}
}

type PricingQuoteRequest struct {
	Lines []service.LineInput `json:"lines"`
	pricing.Adjustments
}

type PricingQuoteResult struct {
	Lines  []PricedLine   `json:"lines"`
	Totals pricing.Totals `json:"totals"`
}

type ShapeInfo struct {
	Shape      pricing.Shape `json:"shape"`
	Dimensions []string      `json:"dimensions"`
}

type AttachmentRequest struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	URL         string `json:"url"`
}

type SalesOrderRequest struct {
	CustomerID int64                    `json:"customer_id"`
	PONumber   string                   `json:"po_number"`
	Notes      string                   `json:"notes"`
	Lines      []service.OrderLineInput `json:"lines"`
}

type SalesOrderUpdateRequest struct {
	PONumber string `json:"po_number"`
	Notes    string `json:"notes"`
}

type SalesOrdersSearchResult struct {
	Data []models.SalesOrder `json:"data"`
	Meta Meta                `json:"meta,omitempty"`
}

type APIKeyRequest struct {
	Name      string `json:"name"`
	ExpiresAt *Date  `json:"expires_at,omitempty" swaggertype:"string"`
}

type APIKeyUpdateRequest struct {
	Enabled *bool `json:"enabled"`
}

type VerifyAPIKeyRequest struct {
	Key string `json:"key"`
}

type VerifyAPIKeyResult struct {
	Valid bool           `json:"valid"`
	Key   *models.APIKey `json:"api_key,omitempty"`
}
