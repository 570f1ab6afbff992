// Package export renders quotes and the materials catalog as xlsx workbooks.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/rogerio-castellano/steel-quoter/internal/models"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const dateFormat = "2006-01-02"

type sheet struct {
	name    string
	headers []string
	rows    [][]any
}

// build writes each sheet with a bold grey header row and drops the default
// sheet excelize creates.
func build(sheets ...sheet) (*excelize.File, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, sh := range sheets {
		index, err := f.NewSheet(sh.name)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", sh.name, err)
		}
		if i == 0 {
			f.SetActiveSheet(index)
		}

		for col, header := range sh.headers {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			f.SetCellValue(sh.name, cell, header)
			f.SetCellStyle(sh.name, cell, cell, headerStyle)
		}
		for r, row := range sh.rows {
			for col, value := range row {
				cell, _ := excelize.CoordinatesToCellName(col+1, r+2)
				f.SetCellValue(sh.name, cell, value)
			}
		}
		if len(sh.headers) > 0 {
			last, _ := excelize.ColumnNumberToName(len(sh.headers))
			f.SetColWidth(sh.name, "A", last, 15)
		}
	}

	if len(sheets) > 0 && sheets[0].name != "Sheet1" {
		f.DeleteSheet("Sheet1")
	}
	return f, nil
}

func write(w io.Writer, sheets ...sheet) error {
	f, err := build(sheets...)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func date(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(dateFormat)
}

var quoteHeaders = []string{
	"Quote #", "Customer", "Title", "Status", "Valid Until", "Total Weight (lb)",
	"Material Subtotal", "Markup", "Commission", "Freight", "Tax", "Total", "Created",
}

func quoteRow(q models.Quote) []any {
	return []any{
		q.QuoteNumber, q.CustomerName, q.Title, string(q.Status), date(q.ValidUntil), q.TotalWeight,
		q.MaterialSubtotal, q.MarkupAmount, q.CommissionAmount, q.Freight, q.TaxAmount, q.Total,
		q.CreatedAt.UTC().Format(dateFormat),
	}
}

// Quotes writes one row per quote.
func Quotes(w io.Writer, quotes []models.Quote) error {
	rows := make([][]any, len(quotes))
	for i, q := range quotes {
		rows[i] = quoteRow(q)
	}
	return write(w, sheet{name: "Quotes", headers: quoteHeaders, rows: rows})
}

var bomHeaders = []string{
	"Line", "Description", "Shape", "Family", "Grade", "Thickness", "Width", "Height", "Length",
	"Diameter", "OD", "Wall", "Leg A", "Leg B", "Qty", "Weight Each (lb)", "Total Weight (lb)",
	"Price/lb", "Material Cost", "Extra Cost", "Line Total",
}

// Quote writes a summary sheet and the BOM of a single quote.
func Quote(w io.Writer, q models.Quote) error {
	summary := [][]any{
		{"Quote #", q.QuoteNumber},
		{"Customer", q.CustomerName},
		{"Title", q.Title},
		{"Status", string(q.Status)},
		{"Valid Until", date(q.ValidUntil)},
		{"Material Subtotal", q.MaterialSubtotal},
		{"Markup %", q.MarkupPercent},
		{"Markup", q.MarkupAmount},
		{"Commission %", q.CommissionPercent},
		{"Commission", q.CommissionAmount},
		{"Freight", q.Freight},
		{"Tax %", q.TaxPercent},
		{"Tax Exempt", q.TaxExempt},
		{"Tax", q.TaxAmount},
		{"Total", q.Total},
		{"Total Weight (lb)", q.TotalWeight},
	}

	lines := make([][]any, len(q.BOM))
	for i, l := range q.BOM {
		lines[i] = []any{
			l.LineNo, l.Description, string(l.Shape), string(l.Family), l.Grade,
			l.Thickness, l.Width, l.Height, l.Length, l.Diameter, l.OutsideDiameter, l.Wall, l.LegA, l.LegB,
			l.Quantity, l.WeightEach, l.TotalWeight, l.PricePerLb, l.MaterialCost, l.ExtraCost, l.LineTotal,
		}
	}

	return write(w,
		sheet{name: "Summary", headers: []string{"Field", "Value"}, rows: summary},
		sheet{name: "BOM", headers: bomHeaders, rows: lines},
	)
}

var materialHeaders = []string{"Name", "Family", "Shape", "Grade", "Density (lb/in³)", "Price/lb", "Description"}

// Materials writes the catalog. Density is the effective value, so rows can
// be re-imported unchanged.
func Materials(w io.Writer, materials []models.Material) error {
	rows := make([][]any, len(materials))
	for i, m := range materials {
		density, _ := m.EffectiveDensity()
		rows[i] = []any{m.Name, string(m.Family), string(m.Shape), m.Grade, density, m.PricePerLb, m.Description}
	}
	return write(w, sheet{name: "Materials", headers: materialHeaders, rows: rows})
}

// Filename returns an attachment name such as quotes-2026-03-10.xlsx.
func Filename(base string, now time.Time) string {
	return fmt.Sprintf("%s-%s.xlsx", base, now.UTC().Format(dateFormat))
}
