package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rogerio-castellano/steel-quoter/internal/models"
)

type SQLQuoteEventRepository struct {
	sqlStore
}

func NewSQLQuoteEventRepository(db *sqlx.DB) *SQLQuoteEventRepository {
	return &SQLQuoteEventRepository{sqlStore{db: db}}
}

// Log inserts a new quote event
func (r *SQLQuoteEventRepository) Log(ctx context.Context, quoteID int64, kind, detail string) error {
	ctx, cancel := r.timeout(ctx)
	defer cancel()

	query := `INSERT INTO quote_events (quote_id, kind, detail, created_at) VALUES (?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, r.q(query), quoteID, kind, detail, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to insert quote event: %w", err)
	}
	return nil
}

// GetByQuoteID returns the events of a quote, newest first.
func (r *SQLQuoteEventRepository) GetByQuoteID(ctx context.Context, quoteID int64, ef EventFilter) ([]models.QuoteEvent, int, error) {
	where, args := buildEventWhereClause(quoteID, ef)

	events := []models.QuoteEvent{}
	total, err := r.page(ctx, &events, "quote_events", where, "created_at DESC, id DESC", args, ef.Offset, ef.Limit)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func buildEventWhereClause(quoteID int64, ef EventFilter) (string, []any) {
	args := []any{quoteID}
	where := "WHERE quote_id = ?"

	if ef.Since != nil {
		where += " AND created_at >= ?"
		args = append(args, ef.Since.UTC())
	}
	if ef.Until != nil {
		where += " AND created_at <= ?"
		args = append(args, ef.Until.UTC())
	}
	return where, args
}
