package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerio-castellano/steel-quoter/internal/db"
	"github.com/rogerio-castellano/steel-quoter/internal/models"
	"github.com/rogerio-castellano/steel-quoter/internal/pricing"
	"github.com/rogerio-castellano/steel-quoter/internal/repo"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	conn, err := db.Open(context.Background(), db.Options{Driver: db.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func seedCustomer(t *testing.T, conn *sqlx.DB) models.Customer {
	t.Helper()
	now := time.Now().UTC()
	c, err := repo.NewSQLCustomerRepository(conn).Create(context.Background(), models.Customer{
		Name: "Acme Fab", Company: "Acme", CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	return c
}

func seedQuote(t *testing.T, conn *sqlx.DB, customerID int64, number string) models.Quote {
	t.Helper()
	now := time.Now().UTC()
	q, err := repo.NewSQLQuoteRepository(conn).Create(context.Background(), models.Quote{
		QuoteNumber: number, CustomerID: customerID, Title: "Frame", Status: models.QuoteDraft,
		CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	return q
}

func TestSQLCustomerRepository_SoftDeleteRestore(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	customers := repo.NewSQLCustomerRepository(conn)

	c := seedCustomer(t, conn)
	assert.NotZero(t, c.ID)

	got, err := customers.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Fab", got.Name)
	assert.Nil(t, got.DeletedAt)

	require.NoError(t, customers.SoftDelete(ctx, c.ID, time.Now()))
	assert.ErrorIs(t, customers.SoftDelete(ctx, c.ID, time.Now()), repo.ErrCustomerNotFound)

	list, total, err := customers.List(ctx, repo.CustomerFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, list)

	_, total, err = customers.List(ctx, repo.CustomerFilter{IncludeDeleted: true})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	require.NoError(t, customers.Restore(ctx, c.ID))
	require.NoError(t, customers.Restore(ctx, c.ID))
	list, total, err = customers.List(ctx, repo.CustomerFilter{Name: "acme"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, c.ID, list[0].ID)

	_, err = customers.GetByID(ctx, 999)
	assert.ErrorIs(t, err, repo.ErrCustomerNotFound)
}

func TestSQLMaterialRepository_UniqueName(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	materials := repo.NewSQLMaterialRepository(conn)
	now := time.Now().UTC()

	m, err := materials.Create(ctx, models.Material{
		Name: "A36 Plate", Family: pricing.Steel, Shape: pricing.Plate, PricePerLb: 0.85,
		CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	_, err = materials.Create(ctx, models.Material{
		Name: "a36 plate", Family: pricing.Steel, Shape: pricing.Plate, CreatedAt: now, UpdatedAt: now,
	})
	assert.ErrorIs(t, err, repo.ErrDuplicatedValueUnique)

	byName, err := materials.GetByName(ctx, "A36 PLATE")
	require.NoError(t, err)
	assert.Equal(t, m.ID, byName.ID)
	assert.Equal(t, pricing.Plate, byName.Shape)

	m.PricePerLb = 0.9
	m.UpdatedAt = time.Now().UTC()
	updated, err := materials.Update(ctx, m)
	require.NoError(t, err)
	assert.Equal(t, 0.9, updated.PricePerLb)

	list, total, err := materials.List(ctx, repo.MaterialFilter{Family: pricing.Aluminum})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, list)
}

func TestSQLQuoteRepository_NumbersAndExpiry(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	quotes := repo.NewSQLQuoteRepository(conn)
	c := seedCustomer(t, conn)

	seedQuote(t, conn, c.ID, "Q-2026-0009")
	q := seedQuote(t, conn, c.ID, "Q-2026-0010")
	seedQuote(t, conn, c.ID, "Q-2025-0042")

	last, err := quotes.LastNumber(ctx, "Q-2026-")
	require.NoError(t, err)
	assert.Equal(t, "Q-2026-0010", last)

	last, err = quotes.LastNumber(ctx, "Q-2027-")
	require.NoError(t, err)
	assert.Equal(t, "", last)

	seedQuote(t, conn, c.ID, "Q-2026-SPECIAL")
	seedQuote(t, conn, c.ID, "Q-2026-0010-REV")
	last, err = quotes.LastNumber(ctx, "Q-2026-")
	require.NoError(t, err)
	assert.Equal(t, "Q-2026-0010", last)

	_, err = quotes.Create(ctx, models.Quote{QuoteNumber: "Q-2026-0010", CustomerID: c.ID, Title: "dup", Status: models.QuoteDraft})
	assert.ErrorIs(t, err, repo.ErrDuplicatedValueUnique)

	past := time.Now().UTC().Add(-48 * time.Hour)
	q.Status = models.QuoteSent
	q.ValidUntil = &past
	q.Adjustments = pricing.Adjustments{MarkupPercent: 10, TaxExempt: true}
	q.Totals = pricing.Totals{MaterialSubtotal: 100, MarkupAmount: 10, Total: 110}
	q.UpdatedAt = time.Now().UTC()
	updated, err := quotes.Update(ctx, q)
	require.NoError(t, err)
	assert.True(t, updated.TaxExempt)
	assert.Equal(t, 110.0, updated.Total)

	expired, err := quotes.ListExpired(ctx, time.Now())
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, q.ID, expired[0].ID)

	list, total, err := quotes.List(ctx, repo.QuoteFilter{Query: "2026", Status: models.QuoteSent})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Q-2026-0010", list[0].QuoteNumber)
}

func TestSQLBOMRepository_LinesAndReplace(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	bom := repo.NewSQLBOMRepository(conn)
	c := seedCustomer(t, conn)
	q := seedQuote(t, conn, c.ID, "Q-2026-0001")

	line := models.BOMLine{
		QuoteID: q.ID, Shape: pricing.Plate, Family: pricing.Steel,
		Dimensions: pricing.Dimensions{Thickness: 0.5, Width: 12, Length: 24},
		Quantity:   2, PricePerLb: 0.85, WeightEach: 40.838, TotalWeight: 81.676, MaterialCost: 69.42, LineTotal: 69.42,
	}
	first, err := bom.AddLine(ctx, line)
	require.NoError(t, err)
	second, err := bom.AddLine(ctx, line)
	require.NoError(t, err)
	assert.Equal(t, 1, first.LineNo)
	assert.Equal(t, 2, second.LineNo)

	got, err := bom.GetLine(ctx, q.ID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 12.0, got.Width)
	assert.Nil(t, got.MaterialID)

	require.NoError(t, bom.DeleteLine(ctx, q.ID, first.ID))
	assert.ErrorIs(t, bom.DeleteLine(ctx, q.ID, first.ID), repo.ErrBOMLineNotFound)

	replaced, err := bom.ReplaceAll(ctx, q.ID, []models.BOMLine{line, line, line})
	require.NoError(t, err)
	require.Len(t, replaced, 3)
	assert.Equal(t, 3, replaced[2].LineNo)

	lines, err := bom.ListByQuote(ctx, q.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 3)
}

func TestSQLQuoteEventRepository_Filter(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	events := repo.NewSQLQuoteEventRepository(conn)
	c := seedCustomer(t, conn)
	q := seedQuote(t, conn, c.ID, "Q-2026-0001")

	for _, kind := range []string{models.EventCreated, models.EventBOM, models.EventStatus} {
		require.NoError(t, events.Log(ctx, q.ID, kind, ""))
	}

	limit := 2
	page, total, err := events.GetByQuoteID(ctx, q.ID, repo.EventFilter{Limit: &limit})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, page, 2)

	future := time.Now().Add(time.Hour)
	page, total, err = events.GetByQuoteID(ctx, q.ID, repo.EventFilter{Since: &future})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, page)
}

func TestSQLSalesOrderRepository_OnePerQuote(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	orders := repo.NewSQLSalesOrderRepository(conn)
	c := seedCustomer(t, conn)
	q := seedQuote(t, conn, c.ID, "Q-2026-0001")
	now := time.Now().UTC()

	o, err := orders.Create(ctx, models.SalesOrder{
		OrderNumber: "SO-2026-0001", QuoteID: &q.ID, CustomerID: c.ID, Status: models.OrderOpen,
		Total: 84.42, CreatedAt: now, UpdatedAt: now,
		Lines: []models.SalesOrderLine{{Description: "plate", Quantity: 2, TotalWeight: 81.676, LineTotal: 84.42}},
	})
	require.NoError(t, err)
	require.Len(t, o.Lines, 1)

	_, err = orders.Create(ctx, models.SalesOrder{
		OrderNumber: "SO-2026-0002", QuoteID: &q.ID, CustomerID: c.ID, Status: models.OrderOpen,
		CreatedAt: now, UpdatedAt: now,
	})
	assert.ErrorIs(t, err, repo.ErrDuplicatedValueUnique)

	byQuote, err := orders.GetByQuoteID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, byQuote.ID)
	assert.Len(t, byQuote.Lines, 1)

	o.Status = models.OrderInProgress
	o.PONumber = "PO-77"
	updated, err := orders.Update(ctx, o)
	require.NoError(t, err)
	assert.Equal(t, models.OrderInProgress, updated.Status)
	assert.Equal(t, "PO-77", updated.PONumber)

	last, err := orders.LastNumber(ctx, "SO-2026-")
	require.NoError(t, err)
	assert.Equal(t, "SO-2026-0001", last)
}

func TestSQLAPIKeyRepository(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	keys := repo.NewSQLAPIKeyRepository(conn)

	k, err := keys.Create(ctx, models.APIKey{Name: "erp", Prefix: "abcd1234", KeyHash: "hash", Enabled: true, CreatedAt: time.Now().UTC()})
	require.NoError(t, err)

	disabled, err := keys.SetEnabled(ctx, k.ID, false)
	require.NoError(t, err)
	assert.False(t, disabled.Enabled)

	require.NoError(t, keys.Touch(ctx, k.ID, time.Now()))
	got, err := keys.GetByPrefix(ctx, "abcd1234")
	require.NoError(t, err)
	assert.NotNil(t, got.LastUsedAt)

	require.NoError(t, keys.Delete(ctx, k.ID))
	_, err = keys.GetByID(ctx, k.ID)
	assert.ErrorIs(t, err, repo.ErrAPIKeyNotFound)
}
