package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerio-castellano/steel-quoter/internal/models"
	"github.com/rogerio-castellano/steel-quoter/internal/pricing"
	"github.com/rogerio-castellano/steel-quoter/internal/repo"
)

var fixedNow = time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

type fixture struct {
	svc      *Service
	repos    Repos
	customer models.Customer
	material models.Material
	now      *time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	repos := Repos{
		Customers:   repo.NewInMemoryCustomerRepository(),
		Materials:   repo.NewInMemoryMaterialRepository(),
		Quotes:      repo.NewInMemoryQuoteRepository(),
		BOM:         repo.NewInMemoryBOMRepository(),
		Events:      repo.NewInMemoryQuoteEventRepository(),
		SalesOrders: repo.NewInMemorySalesOrderRepository(),
		APIKeys:     repo.NewInMemoryAPIKeyRepository(),
	}
	now := fixedNow
	log, _ := test.NewNullLogger()
	svc := New(repos, log, WithClock(func() time.Time { return now }), WithDefaultValidDays(14))

	c, err := repos.Customers.Create(ctx, models.Customer{Name: "Acme Fabrication", CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)
	m, err := repos.Materials.Create(ctx, models.Material{
		Name:       "A36 Plate",
		Family:     pricing.Steel,
		Shape:      pricing.Plate,
		Grade:      "A36",
		PricePerLb: 0.85,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	require.NoError(t, err)

	return &fixture{svc: svc, repos: repos, customer: c, material: m, now: &now}
}

func plateLine(qty int) LineInput {
	return LineInput{
		Shape:      "plate",
		Family:     "steel",
		Dimensions: pricing.Dimensions{Thickness: 0.5, Width: 12, Length: 24},
		Quantity:   qty,
		PricePerLb: 0.85,
		ExtraCost:  15,
	}
}

func (f *fixture) draft(t *testing.T, lines ...LineInput) models.Quote {
	t.Helper()
	q, err := f.svc.CreateQuote(context.Background(), QuoteInput{
		CustomerID: f.customer.ID,
		Title:      "Mezzanine plates",
		BOM:        lines,
	})
	require.NoError(t, err)
	return q
}

func fieldNames(t *testing.T, err error) []string {
	t.Helper()
	var verrs models.ValidationErrors
	require.True(t, errors.As(err, &verrs), "expected validation errors, got %v", err)
	names := make([]string, len(verrs))
	for i, v := range verrs {
		names[i] = v.Field
	}
	return names
}

func TestCreateQuote_NumbersAndDefaults(t *testing.T) {
	f := newFixture(t)

	q1 := f.draft(t, plateLine(2))
	q2 := f.draft(t)

	assert.Equal(t, "Q-2026-0001", q1.QuoteNumber)
	assert.Equal(t, "Q-2026-0002", q2.QuoteNumber)
	assert.Equal(t, models.QuoteDraft, q1.Status)
	assert.Equal(t, "Acme Fabrication", q1.CustomerName)
	require.NotNil(t, q1.ValidUntil)
	assert.Equal(t, time.Date(2026, 3, 24, 0, 0, 0, 0, time.UTC), *q1.ValidUntil)

	require.Len(t, q1.BOM, 1)
	assert.Equal(t, 1, q1.BOM[0].LineNo)
	assert.Equal(t, 84.42, q1.Total)
	assert.Equal(t, 81.676, q1.TotalWeight)

	events, total, err := f.svc.History(context.Background(), q1.ID, repo.EventFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, models.EventCreated, events[0].Kind)
}

func TestCreateQuote_NumbersAfterHandEnteredNumber(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.draft(t)
	_, err := f.svc.CreateQuote(ctx, QuoteInput{QuoteNumber: "Q-2026-SPECIAL", CustomerID: f.customer.ID, Title: "Rush job"})
	require.NoError(t, err)
	_, err = f.svc.CreateQuote(ctx, QuoteInput{QuoteNumber: "Q-2026-00015", CustomerID: f.customer.ID, Title: "Imported"})
	require.NoError(t, err)

	next := f.draft(t)
	assert.Equal(t, "Q-2026-0001", first.QuoteNumber)
	assert.Equal(t, "Q-2026-0016", next.QuoteNumber)

	dup, err := f.svc.DuplicateQuote(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Q-2026-0017", dup.QuoteNumber)
}

type failingBOM struct {
	repo.BOMRepository
}

func (failingBOM) ReplaceAll(context.Context, int64, []models.BOMLine) ([]models.BOMLine, error) {
	return nil, errors.New("disk full")
}

func TestCreateQuote_BOMFailureDiscardsQuote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	repos := f.repos
	repos.BOM = failingBOM{BOMRepository: f.repos.BOM}
	log, _ := test.NewNullLogger()
	svc := New(repos, log, WithClock(func() time.Time { return fixedNow }))

	_, err := svc.CreateQuote(ctx, QuoteInput{CustomerID: f.customer.ID, Title: "Stairs", BOM: []LineInput{plateLine(1)}})
	require.Error(t, err)

	quotes, total, err := svc.ListQuotes(ctx, repo.QuoteFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, quotes)
}

func TestCreateQuote_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateQuote(ctx, QuoteInput{CustomerID: 999, Adjustments: pricing.Adjustments{Freight: -5}})
	assert.ElementsMatch(t, []string{"title", "customer_id", "adjustments"}, fieldNames(t, err))

	bad := plateLine(0)
	bad.Shape = "i-beam"
	_, err = f.svc.CreateQuote(ctx, QuoteInput{CustomerID: f.customer.ID, Title: "x", BOM: []LineInput{plateLine(1), bad}})
	assert.ElementsMatch(t, []string{"bom[1].shape", "bom[1].quantity"}, fieldNames(t, err))

	require.NoError(t, f.repos.Customers.SoftDelete(ctx, f.customer.ID, fixedNow))
	_, err = f.svc.CreateQuote(ctx, QuoteInput{CustomerID: f.customer.ID, Title: "x"})
	assert.Equal(t, []string{"customer_id"}, fieldNames(t, err))
}

func TestCreateQuote_DuplicateNumber(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateQuote(ctx, QuoteInput{QuoteNumber: "CUSTOM-1", CustomerID: f.customer.ID, Title: "a"})
	require.NoError(t, err)
	_, err = f.svc.CreateQuote(ctx, QuoteInput{QuoteNumber: "CUSTOM-1", CustomerID: f.customer.ID, Title: "b"})
	assert.ErrorIs(t, err, repo.ErrDuplicatedValueUnique)
}

func TestBuildLine_MaterialDefaults(t *testing.T) {
	f := newFixture(t)
	id := f.material.ID

	line, err := f.svc.BuildLine(context.Background(), LineInput{
		MaterialID: &id,
		Dimensions: pricing.Dimensions{Thickness: 0.5, Width: 12, Length: 24},
		Quantity:   1,
	}, "")
	require.NoError(t, err)
	assert.Equal(t, pricing.Plate, line.Shape)
	assert.Equal(t, pricing.Steel, line.Family)
	assert.Equal(t, "A36", line.Grade)
	assert.Equal(t, "A36 Plate", line.Description)
	assert.Equal(t, 0.85, line.PricePerLb)
	assert.Equal(t, 40.838, line.WeightEach)
	assert.Equal(t, 34.71, line.LineTotal)

	missing := int64(42)
	_, err = f.svc.BuildLine(context.Background(), LineInput{MaterialID: &missing, Quantity: 1}, "")
	assert.Contains(t, fieldNames(t, err), "material_id")
}

func TestBOMEditing_RepricesQuote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	q := f.draft(t)
	assert.Equal(t, 0.0, q.Total)

	q, err := f.svc.AddBOMLine(ctx, q.ID, plateLine(1))
	require.NoError(t, err)
	assert.Equal(t, 49.71, q.Total)

	q, err = f.svc.AddBOMLine(ctx, q.ID, plateLine(1))
	require.NoError(t, err)
	require.Len(t, q.BOM, 2)
	assert.Equal(t, 99.42, q.Total)

	q, err = f.svc.UpdateBOMLine(ctx, q.ID, q.BOM[1].ID, plateLine(2))
	require.NoError(t, err)
	assert.Equal(t, 2, q.BOM[1].LineNo)
	assert.Equal(t, 134.13, q.Total)

	q, err = f.svc.DeleteBOMLine(ctx, q.ID, q.BOM[0].ID)
	require.NoError(t, err)
	require.Len(t, q.BOM, 1)
	assert.Equal(t, 84.42, q.Total)

	_, err = f.svc.DeleteBOMLine(ctx, q.ID, 999)
	assert.ErrorIs(t, err, repo.ErrBOMLineNotFound)

	q, err = f.svc.ReplaceBOM(ctx, q.ID, []LineInput{plateLine(1), plateLine(1), plateLine(1)})
	require.NoError(t, err)
	require.Len(t, q.BOM, 3)
	assert.Equal(t, 3, q.BOM[2].LineNo)

	stored, err := f.repos.Quotes.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, 149.13, stored.Total)
}

func TestBOMEditing_LockedOutsideDraft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	q := f.draft(t, plateLine(1))

	_, err := f.svc.ChangeStatus(ctx, q.ID, models.QuoteSent, "")
	require.NoError(t, err)

	_, err = f.svc.AddBOMLine(ctx, q.ID, plateLine(1))
	assert.ErrorIs(t, err, ErrQuoteLocked)
	_, err = f.svc.UpdateQuote(ctx, q.ID, QuoteInput{CustomerID: f.customer.ID, Title: "changed"})
	assert.ErrorIs(t, err, ErrQuoteLocked)
}

func TestUpdateQuote_AdjustmentsReprice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	q := f.draft(t, plateLine(2))

	updated, err := f.svc.UpdateQuote(ctx, q.ID, QuoteInput{
		CustomerID:  f.customer.ID,
		Title:       "Mezzanine plates rev B",
		Adjustments: pricing.Adjustments{MarkupPercent: 10, Freight: 25},
	})
	require.NoError(t, err)
	assert.Equal(t, q.QuoteNumber, updated.QuoteNumber)
	assert.Equal(t, "Mezzanine plates rev B", updated.Title)
	assert.Equal(t, 8.44, updated.MarkupAmount)
	assert.Equal(t, 117.86, updated.Total)
	assert.Len(t, updated.BOM, 1)
}

func TestChangeStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	empty := f.draft(t)
	_, err := f.svc.ChangeStatus(ctx, empty.ID, models.QuoteSent, "")
	assert.Equal(t, []string{"bom"}, fieldNames(t, err))

	q := f.draft(t, plateLine(1))
	_, err = f.svc.ChangeStatus(ctx, q.ID, models.QuoteAccepted, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.svc.ChangeStatus(ctx, q.ID, models.QuoteStatus("archived"), "")
	assert.Equal(t, []string{"status"}, fieldNames(t, err))

	q, err = f.svc.ChangeStatus(ctx, q.ID, models.QuoteSent, "emailed")
	require.NoError(t, err)
	assert.Equal(t, models.QuoteSent, q.Status)

	q, err = f.svc.ChangeStatus(ctx, q.ID, models.QuoteAccepted, "")
	require.NoError(t, err)
	_, err = f.svc.ChangeStatus(ctx, q.ID, models.QuoteDraft, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	events, _, err := f.svc.History(ctx, q.ID, repo.EventFilter{})
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "sent -> accepted", events[0].Detail)
	assert.Equal(t, "draft -> sent: emailed", events[1].Detail)
}

func TestExpireQuotes_AndReopen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	past := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	stale, err := f.svc.CreateQuote(ctx, QuoteInput{CustomerID: f.customer.ID, Title: "old", ValidUntil: &past, BOM: []LineInput{plateLine(1)}})
	require.NoError(t, err)
	fresh := f.draft(t, plateLine(1))
	for _, id := range []int64{stale.ID, fresh.ID} {
		_, err := f.svc.ChangeStatus(ctx, id, models.QuoteSent, "")
		require.NoError(t, err)
	}

	n, err := f.svc.ExpireQuotes(ctx, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := f.svc.GetQuote(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, models.QuoteExpired, got.Status)
	got, err = f.svc.GetQuote(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, models.QuoteSent, got.Status)

	reopened, err := f.svc.ChangeStatus(ctx, stale.ID, models.QuoteDraft, "")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 24, 0, 0, 0, 0, time.UTC), *reopened.ValidUntil)

	n, err = f.svc.ExpireQuotes(ctx, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestDeleteRestoreQuote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	q := f.draft(t, plateLine(1))

	require.NoError(t, f.svc.DeleteQuote(ctx, q.ID))
	_, err := f.svc.GetQuote(ctx, q.ID)
	assert.ErrorIs(t, err, repo.ErrQuoteNotFound)
	assert.ErrorIs(t, f.svc.DeleteQuote(ctx, q.ID), repo.ErrQuoteNotFound)

	restored, err := f.svc.RestoreQuote(ctx, q.ID)
	require.NoError(t, err)
	assert.Nil(t, restored.DeletedAt)
	assert.Len(t, restored.BOM, 1)
}

func TestDuplicateQuote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	src := f.draft(t, plateLine(1), plateLine(2))
	_, err := f.svc.ChangeStatus(ctx, src.ID, models.QuoteSent, "")
	require.NoError(t, err)

	dup, err := f.svc.DuplicateQuote(ctx, src.ID)
	require.NoError(t, err)
	assert.NotEqual(t, src.ID, dup.ID)
	assert.Equal(t, "Q-2026-0002", dup.QuoteNumber)
	assert.Equal(t, models.QuoteDraft, dup.Status)
	assert.Equal(t, src.Total, dup.Total)
	require.Len(t, dup.BOM, 2)
	assert.Equal(t, dup.ID, dup.BOM[0].QuoteID)
	assert.NotEqual(t, src.BOM[0].ID, dup.BOM[0].ID)
}

func TestListQuotes_CustomerNames(t *testing.T) {
	f := newFixture(t)
	f.draft(t)
	f.draft(t)

	quotes, total, err := f.svc.ListQuotes(context.Background(), repo.QuoteFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	for _, q := range quotes {
		assert.Equal(t, "Acme Fabrication", q.CustomerName)
	}
}

func TestPreviewQuote(t *testing.T) {
	f := newFixture(t)
	lines, totals, err := f.svc.PreviewQuote(context.Background(), []LineInput{plateLine(2)}, pricing.Adjustments{TaxPercent: 10})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 8.44, totals.TaxAmount)
	assert.Equal(t, 92.86, totals.Total)

	_, _, err = f.svc.PreviewQuote(context.Background(), nil, pricing.Adjustments{MarkupPercent: -1})
	assert.Equal(t, []string{"adjustments"}, fieldNames(t, err))

	quotes, _, err := f.repos.Quotes.List(context.Background(), repo.QuoteFilter{})
	require.NoError(t, err)
	assert.Empty(t, quotes)
}

func acceptedQuote(t *testing.T, f *fixture) models.Quote {
	t.Helper()
	ctx := context.Background()
	q := f.draft(t, plateLine(2), plateLine(1))
	_, err := f.svc.ChangeStatus(ctx, q.ID, models.QuoteSent, "")
	require.NoError(t, err)
	q, err = f.svc.ChangeStatus(ctx, q.ID, models.QuoteAccepted, "")
	require.NoError(t, err)
	return q
}

func TestConvertToOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft := f.draft(t, plateLine(1))
	_, err := f.svc.ConvertToOrder(ctx, draft.ID, "", "")
	assert.ErrorIs(t, err, ErrQuoteNotAccepted)

	q := acceptedQuote(t, f)
	o, err := f.svc.ConvertToOrder(ctx, q.ID, " PO-778 ", "rush")
	require.NoError(t, err)
	assert.Equal(t, "SO-2026-0001", o.OrderNumber)
	assert.Equal(t, models.OrderOpen, o.Status)
	assert.Equal(t, "PO-778", o.PONumber)
	assert.Equal(t, q.Total, o.Total)
	assert.Equal(t, "Acme Fabrication", o.CustomerName)
	require.Len(t, o.Lines, 2)
	assert.Equal(t, q.BOM[0].LineTotal, o.Lines[0].LineTotal)
	require.NotNil(t, o.QuoteID)
	assert.Equal(t, q.ID, *o.QuoteID)

	_, err = f.svc.ConvertToOrder(ctx, q.ID, "", "")
	assert.ErrorIs(t, err, ErrAlreadyConverted)
	var converted *ConvertedError
	require.True(t, errors.As(err, &converted))
	assert.Equal(t, o.OrderNumber, converted.OrderNumber)

	events, _, err := f.svc.History(ctx, q.ID, repo.EventFilter{})
	require.NoError(t, err)
	assert.Equal(t, models.EventConverted, events[0].Kind)
}

func TestOrders_ManualAndStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateOrder(ctx, OrderInput{CustomerID: f.customer.ID, Lines: []OrderLineInput{{Quantity: 0, LineTotal: -1}}})
	assert.ElementsMatch(t, []string{"lines[0].description", "lines[0].quantity", "lines[0].line_total"}, fieldNames(t, err))

	o, err := f.svc.CreateOrder(ctx, OrderInput{
		CustomerID: f.customer.ID,
		PONumber:   "PO-1",
		Lines: []OrderLineInput{
			{Description: "Cut plate", Quantity: 4, TotalWeight: 120, LineTotal: 100.10},
			{Description: "Delivery", Quantity: 1, LineTotal: 0.2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 100.3, o.Total)
	assert.Nil(t, o.QuoteID)

	_, err = f.svc.ChangeOrderStatus(ctx, o.ID, models.OrderShipped)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	for _, next := range []models.SalesOrderStatus{models.OrderInProgress, models.OrderShipped, models.OrderCompleted} {
		o, err = f.svc.ChangeOrderStatus(ctx, o.ID, next)
		require.NoError(t, err)
	}
	assert.Equal(t, models.OrderCompleted, o.Status)

	o, err = f.svc.UpdateOrder(ctx, o.ID, "PO-2", "called in")
	require.NoError(t, err)
	assert.Equal(t, "PO-2", o.PONumber)
	assert.Len(t, o.Lines, 2)

	require.NoError(t, f.svc.DeleteOrder(ctx, o.ID))
	_, err = f.svc.GetOrder(ctx, o.ID)
	assert.ErrorIs(t, err, repo.ErrSalesOrderNotFound)
	restored, err := f.svc.RestoreOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Fabrication", restored.CustomerName)
}

func TestAPIKeys(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateAPIKey(ctx, " ", nil)
	assert.Equal(t, []string{"name"}, fieldNames(t, err))

	issued, err := f.svc.CreateAPIKey(ctx, "erp sync", nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(issued.Key, "qk_"+issued.Prefix+"_"))
	assert.NotContains(t, issued.KeyHash, issued.Key)

	k, err := f.svc.VerifyAPIKey(ctx, issued.Key)
	require.NoError(t, err)
	require.NotNil(t, k.LastUsedAt)

	_, err = f.svc.VerifyAPIKey(ctx, issued.Key+"x")
	assert.ErrorIs(t, err, ErrInvalidAPIKey)
	_, err = f.svc.VerifyAPIKey(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidAPIKey)

	_, err = f.svc.SetAPIKeyEnabled(ctx, issued.ID, false)
	require.NoError(t, err)
	_, err = f.svc.VerifyAPIKey(ctx, issued.Key)
	assert.ErrorIs(t, err, ErrInvalidAPIKey)

	require.NoError(t, f.svc.DeleteAPIKey(ctx, issued.ID))
	keys, err := f.svc.ListAPIKeys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestAPIKeys_Expired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	soon := fixedNow.Add(time.Hour)
	issued, err := f.svc.CreateAPIKey(ctx, "temp", &soon)
	require.NoError(t, err)

	*f.now = fixedNow.Add(2 * time.Hour)
	_, err = f.svc.VerifyAPIKey(ctx, issued.Key)
	assert.ErrorIs(t, err, ErrInvalidAPIKey)
}

func TestNew_DefaultLogger(t *testing.T) {
	svc := New(Repos{}, nil)
	assert.Equal(t, logrus.StandardLogger(), svc.log)
	assert.Equal(t, 30, svc.validDays)
}
