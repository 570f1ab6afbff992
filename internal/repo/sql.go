package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

const queryTimeout = 3 * time.Second

// sqlStore is shared by the SQL repositories. Queries are written with "?"
// placeholders and rebound for the connected driver.
type sqlStore struct {
	db *sqlx.DB
}

func (s sqlStore) q(query string) string {
	return s.db.Rebind(query)
}

func (s sqlStore) timeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, queryTimeout)
}

// insert runs an INSERT ... RETURNING id and returns the new id.
func (s sqlStore) insert(ctx context.Context, ext sqlx.QueryerContext, query string, args ...any) (int64, error) {
	var id int64
	if err := sqlx.GetContext(ctx, ext, &id, s.q(query+" RETURNING id"), args...); err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicatedValueUnique
		}
		return 0, err
	}
	return id, nil
}

// execOne runs a statement that must touch exactly one row.
func (s sqlStore) execOne(ctx context.Context, notFound error, query string, args ...any) error {
	ctx, cancel := s.timeout(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, s.q(query), args...)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicatedValueUnique
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

// page runs a count and a paged select sharing the same WHERE clause.
func (s sqlStore) page(ctx context.Context, dest any, table, where, order string, args []any, offset, limit *int) (int, error) {
	ctx, cancel := s.timeout(ctx)
	defer cancel()

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s %s", table, where)
	if err := s.db.GetContext(ctx, &total, s.q(countQuery), args...); err != nil {
		return 0, fmt.Errorf("failed to get total count: %w", err)
	}

	if limit != nil && *limit == 0 {
		return total, nil
	}
	if offset != nil && *offset < 0 {
		return 0, fmt.Errorf("offset must be non-negative")
	}
	if offset != nil && *offset >= total {
		return total, nil
	}

	size := defaultLimit
	if limit != nil && *limit > 0 {
		size = min(*limit, defaultLimit)
	}
	query := fmt.Sprintf("SELECT * FROM %s %s ORDER BY %s LIMIT ?", table, where, order)
	pageArgs := append(append([]any{}, args...), size)
	if offset != nil && *offset > 0 {
		query += " OFFSET ?"
		pageArgs = append(pageArgs, *offset)
	}

	if err := s.db.SelectContext(ctx, dest, s.q(query), pageArgs...); err != nil {
		return 0, fmt.Errorf("failed to execute query: %w", err)
	}
	return total, nil
}

func nullableInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.UTC()
}

func likeFold(s string) string {
	return "%" + strings.ToLower(s) + "%"
}
