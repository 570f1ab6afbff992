package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rogerio-castellano/steel-quoter/internal/models"
	"github.com/rogerio-castellano/steel-quoter/internal/pricing"
)

func open(t *testing.T, buf *bytes.Buffer) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestQuotes(t *testing.T) {
	until := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	quotes := []models.Quote{
		{QuoteNumber: "Q-2026-0001", CustomerName: "Acme", Title: "Plates", Status: models.QuoteSent, ValidUntil: &until, Totals: pricing.Totals{Total: 84.42}},
		{QuoteNumber: "Q-2026-0002", Title: "Tubes", Status: models.QuoteDraft},
	}

	var buf bytes.Buffer
	require.NoError(t, Quotes(&buf, quotes))

	f := open(t, &buf)
	assert.Equal(t, []string{"Quotes"}, f.GetSheetList())

	rows, err := f.GetRows("Quotes")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Quote #", rows[0][0])
	assert.Equal(t, "Q-2026-0001", rows[1][0])
	assert.Equal(t, "2026-04-01", rows[1][4])
	assert.Equal(t, "84.42", rows[1][11])
	assert.Equal(t, "", rows[2][4])
}

func TestQuote(t *testing.T) {
	q := models.Quote{
		QuoteNumber: "Q-2026-0003",
		Status:      models.QuoteDraft,
		BOM: []models.BOMLine{
			{LineNo: 1, Description: "Base plate", Shape: pricing.Plate, Family: pricing.Steel, Quantity: 2, LineTotal: 84.42},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Quote(&buf, q))

	f := open(t, &buf)
	assert.Equal(t, []string{"Summary", "BOM"}, f.GetSheetList())

	summary, err := f.GetRows("Summary")
	require.NoError(t, err)
	assert.Equal(t, []string{"Quote #", "Q-2026-0003"}, summary[1])

	bom, err := f.GetRows("BOM")
	require.NoError(t, err)
	require.Len(t, bom, 2)
	assert.Equal(t, "Base plate", bom[1][1])
	assert.Equal(t, "plate", bom[1][2])
	assert.Equal(t, "84.42", bom[1][20])
}

func TestMaterials(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Materials(&buf, []models.Material{
		{Name: "6061 Round", Family: pricing.Aluminum, Shape: pricing.RoundBar, PricePerLb: 3.1},
	}))

	f := open(t, &buf)
	rows, err := f.GetRows("Materials")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"6061 Round", "aluminum", "round_bar", "", "0.0975", "3.1"}, rows[1])
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "quotes-2026-03-10.xlsx", Filename("quotes", time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)))
}
