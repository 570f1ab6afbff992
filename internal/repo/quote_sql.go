package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rogerio-castellano/steel-quoter/internal/models"
)

type SQLQuoteRepository struct {
	sqlStore
}

func NewSQLQuoteRepository(db *sqlx.DB) *SQLQuoteRepository {
	return &SQLQuoteRepository{sqlStore{db: db}}
}

func (r *SQLQuoteRepository) Create(ctx context.Context, q models.Quote) (models.Quote, error) {
	ctx, cancel := r.timeout(ctx)
	defer cancel()

	query := `INSERT INTO quotes (quote_number, customer_id, title, description, status, valid_until,
		markup_percent, freight, commission_percent, tax_percent, tax_exempt,
		material_subtotal, markup_amount, commission_amount, tax_amount, total, total_weight,
		notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	id, err := r.insert(ctx, r.db, query,
		q.QuoteNumber, q.CustomerID, q.Title, q.Description, string(q.Status), nullableTime(q.ValidUntil),
		q.MarkupPercent, q.Freight, q.CommissionPercent, q.TaxPercent, q.TaxExempt,
		q.MaterialSubtotal, q.MarkupAmount, q.CommissionAmount, q.TaxAmount, q.Total, q.TotalWeight,
		q.Notes, q.CreatedAt.UTC(), q.UpdatedAt.UTC())
	if err != nil {
		return models.Quote{}, err
	}
	q.ID = id
	q.BOM = nil
	q.CustomerName = ""
	return q, nil
}

func (r *SQLQuoteRepository) GetByID(ctx context.Context, id int64) (models.Quote, error) {
	ctx, cancel := r.timeout(ctx)
	defer cancel()

	var q models.Quote
	err := r.db.GetContext(ctx, &q, r.q(`SELECT * FROM quotes WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Quote{}, ErrQuoteNotFound
	}
	return q, err
}

func (r *SQLQuoteRepository) List(ctx context.Context, f QuoteFilter) ([]models.Quote, int, error) {
	where := "WHERE 1=1"
	var args []any
	if !f.IncludeDeleted {
		where += " AND deleted_at IS NULL"
	}
	if f.Status != "" {
		where += " AND status = ?"
		args = append(args, string(f.Status))
	}
	if f.CustomerID != nil {
		where += " AND customer_id = ?"
		args = append(args, *f.CustomerID)
	}
	if f.Query != "" {
		where += " AND (LOWER(quote_number) LIKE ? OR LOWER(title) LIKE ?)"
		like := likeFold(f.Query)
		args = append(args, like, like)
	}

	quotes := []models.Quote{}
	total, err := r.page(ctx, &quotes, "quotes", where, "id DESC", args, f.Offset, f.Limit)
	if err != nil {
		return nil, 0, err
	}
	return quotes, total, nil
}

func (r *SQLQuoteRepository) Update(ctx context.Context, q models.Quote) (models.Quote, error) {
	query := `UPDATE quotes SET quote_number = ?, customer_id = ?, title = ?, description = ?, status = ?, valid_until = ?,
		markup_percent = ?, freight = ?, commission_percent = ?, tax_percent = ?, tax_exempt = ?,
		material_subtotal = ?, markup_amount = ?, commission_amount = ?, tax_amount = ?, total = ?, total_weight = ?,
		notes = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`
	err := r.execOne(ctx, ErrQuoteNotFound, query,
		q.QuoteNumber, q.CustomerID, q.Title, q.Description, string(q.Status), nullableTime(q.ValidUntil),
		q.MarkupPercent, q.Freight, q.CommissionPercent, q.TaxPercent, q.TaxExempt,
		q.MaterialSubtotal, q.MarkupAmount, q.CommissionAmount, q.TaxAmount, q.Total, q.TotalWeight,
		q.Notes, q.UpdatedAt.UTC(), q.ID)
	if err != nil {
		return models.Quote{}, err
	}
	return r.GetByID(ctx, q.ID)
}

func (r *SQLQuoteRepository) SoftDelete(ctx context.Context, id int64, at time.Time) error {
	return r.execOne(ctx, ErrQuoteNotFound, `UPDATE quotes SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, at.UTC(), id)
}

func (r *SQLQuoteRepository) Restore(ctx context.Context, id int64) error {
	return r.execOne(ctx, ErrQuoteNotFound, `UPDATE quotes SET deleted_at = NULL WHERE id = ?`, id)
}

func (r *SQLQuoteRepository) LastNumber(ctx context.Context, prefix string) (string, error) {
	ctx, cancel := r.timeout(ctx)
	defer cancel()

	var numbers []string
	query := `SELECT quote_number FROM quotes WHERE quote_number LIKE ?`
	if err := r.db.SelectContext(ctx, &numbers, r.q(query), prefix+"%"); err != nil {
		return "", err
	}
	return lastNumber(prefix, numbers), nil
}

func (r *SQLQuoteRepository) ListExpired(ctx context.Context, asOf time.Time) ([]models.Quote, error) {
	ctx, cancel := r.timeout(ctx)
	defer cancel()

	quotes := []models.Quote{}
	query := `SELECT * FROM quotes WHERE deleted_at IS NULL AND status = ? AND valid_until IS NOT NULL AND valid_until < ? ORDER BY id`
	if err := r.db.SelectContext(ctx, &quotes, r.q(query), string(models.QuoteSent), asOf.UTC()); err != nil {
		return nil, err
	}
	return quotes, nil
}
