package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rogerio-castellano/steel-quoter/internal/models"
)

type SQLSalesOrderRepository struct {
	sqlStore
}

func NewSQLSalesOrderRepository(db *sqlx.DB) *SQLSalesOrderRepository {
	return &SQLSalesOrderRepository{sqlStore{db: db}}
}

func (r *SQLSalesOrderRepository) Create(ctx context.Context, o models.SalesOrder) (models.SalesOrder, error) {
	ctx, cancel := r.timeout(ctx)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.SalesOrder{}, err
	}
	defer tx.Rollback()

	query := `INSERT INTO sales_orders (order_number, quote_id, customer_id, status, po_number, total, notes, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	id, err := r.insert(ctx, tx, query, o.OrderNumber, nullableInt64(o.QuoteID), o.CustomerID, string(o.Status), o.PONumber, o.Total, o.Notes, o.CreatedAt.UTC(), o.UpdatedAt.UTC())
	if err != nil {
		return models.SalesOrder{}, err
	}
	o.ID = id
	o.CustomerName = ""

	lines := make([]models.SalesOrderLine, len(o.Lines))
	lineQuery := `INSERT INTO sales_order_lines (sales_order_id, line_no, description, quantity, total_weight, line_total) VALUES (?, ?, ?, ?, ?, ?)`
	for i, l := range o.Lines {
		l.SalesOrderID = id
		l.LineNo = i + 1
		lineID, err := r.insert(ctx, tx, lineQuery, l.SalesOrderID, l.LineNo, l.Description, l.Quantity, l.TotalWeight, l.LineTotal)
		if err != nil {
			return models.SalesOrder{}, fmt.Errorf("failed to insert order line %d: %w", i+1, err)
		}
		l.ID = lineID
		lines[i] = l
	}
	o.Lines = lines
	return o, tx.Commit()
}

func (r *SQLSalesOrderRepository) get(ctx context.Context, where string, arg any) (models.SalesOrder, error) {
	ctx, cancel := r.timeout(ctx)
	defer cancel()

	var o models.SalesOrder
	err := r.db.GetContext(ctx, &o, r.q(`SELECT * FROM sales_orders WHERE `+where), arg)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SalesOrder{}, ErrSalesOrderNotFound
	}
	if err != nil {
		return models.SalesOrder{}, err
	}

	o.Lines = []models.SalesOrderLine{}
	err = r.db.SelectContext(ctx, &o.Lines, r.q(`SELECT * FROM sales_order_lines WHERE sales_order_id = ? ORDER BY line_no`), o.ID)
	return o, err
}

func (r *SQLSalesOrderRepository) GetByID(ctx context.Context, id int64) (models.SalesOrder, error) {
	return r.get(ctx, "id = ?", id)
}

func (r *SQLSalesOrderRepository) GetByQuoteID(ctx context.Context, quoteID int64) (models.SalesOrder, error) {
	return r.get(ctx, "quote_id = ?", quoteID)
}

func (r *SQLSalesOrderRepository) List(ctx context.Context, f SalesOrderFilter) ([]models.SalesOrder, int, error) {
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

	orders := []models.SalesOrder{}
	total, err := r.page(ctx, &orders, "sales_orders", where, "id DESC", args, f.Offset, f.Limit)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *SQLSalesOrderRepository) Update(ctx context.Context, o models.SalesOrder) (models.SalesOrder, error) {
	query := `UPDATE sales_orders SET status = ?, po_number = ?, notes = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`
	if err := r.execOne(ctx, ErrSalesOrderNotFound, query, string(o.Status), o.PONumber, o.Notes, o.UpdatedAt.UTC(), o.ID); err != nil {
		return models.SalesOrder{}, err
	}
	return r.GetByID(ctx, o.ID)
}

func (r *SQLSalesOrderRepository) SoftDelete(ctx context.Context, id int64, at time.Time) error {
	return r.execOne(ctx, ErrSalesOrderNotFound, `UPDATE sales_orders SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, at.UTC(), id)
}

func (r *SQLSalesOrderRepository) Restore(ctx context.Context, id int64) error {
	return r.execOne(ctx, ErrSalesOrderNotFound, `UPDATE sales_orders SET deleted_at = NULL WHERE id = ?`, id)
}

func (r *SQLSalesOrderRepository) LastNumber(ctx context.Context, prefix string) (string, error) {
	ctx, cancel := r.timeout(ctx)
	defer cancel()

	var numbers []string
	query := `SELECT order_number FROM sales_orders WHERE order_number LIKE ?`
	if err := r.db.SelectContext(ctx, &numbers, r.q(query), prefix+"%"); err != nil {
		return "", err
	}
	return lastNumber(prefix, numbers), nil
}
