package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rogerio-castellano/steel-quoter/internal/models"
)

type SQLCustomerRepository struct {
	sqlStore
}

func NewSQLCustomerRepository(db *sqlx.DB) *SQLCustomerRepository {
	return &SQLCustomerRepository{sqlStore{db: db}}
}

func (r *SQLCustomerRepository) Create(ctx context.Context, c models.Customer) (models.Customer, error) {
	ctx, cancel := r.timeout(ctx)
	defer cancel()

	query := `INSERT INTO customers (name, company, email, phone, address, notes, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	id, err := r.insert(ctx, r.db, query, c.Name, c.Company, c.Email, c.Phone, c.Address, c.Notes, c.CreatedAt.UTC(), c.UpdatedAt.UTC())
	if err != nil {
		return models.Customer{}, err
	}
	c.ID = id
	return c, nil
}

func (r *SQLCustomerRepository) GetByID(ctx context.Context, id int64) (models.Customer, error) {
	ctx, cancel := r.timeout(ctx)
	defer cancel()

	var c models.Customer
	err := r.db.GetContext(ctx, &c, r.q(`SELECT * FROM customers WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Customer{}, ErrCustomerNotFound
	}
	return c, err
}

func (r *SQLCustomerRepository) List(ctx context.Context, f CustomerFilter) ([]models.Customer, int, error) {
	where := "WHERE 1=1"
	var args []any
	if !f.IncludeDeleted {
		where += " AND deleted_at IS NULL"
	}
	if f.Name != "" {
		where += " AND (LOWER(name) LIKE ? OR LOWER(company) LIKE ?)"
		like := likeFold(f.Name)
		args = append(args, like, like)
	}

	customers := []models.Customer{}
	total, err := r.page(ctx, &customers, "customers", where, "id", args, f.Offset, f.Limit)
	if err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

func (r *SQLCustomerRepository) Update(ctx context.Context, c models.Customer) (models.Customer, error) {
	query := `UPDATE customers SET name = ?, company = ?, email = ?, phone = ?, address = ?, notes = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`
	err := r.execOne(ctx, ErrCustomerNotFound, query, c.Name, c.Company, c.Email, c.Phone, c.Address, c.Notes, c.UpdatedAt.UTC(), c.ID)
	if err != nil {
		return models.Customer{}, err
	}
	return r.GetByID(ctx, c.ID)
}

func (r *SQLCustomerRepository) SoftDelete(ctx context.Context, id int64, at time.Time) error {
	return r.execOne(ctx, ErrCustomerNotFound, `UPDATE customers SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, at.UTC(), id)
}

func (r *SQLCustomerRepository) Restore(ctx context.Context, id int64) error {
	return r.execOne(ctx, ErrCustomerNotFound, `UPDATE customers SET deleted_at = NULL WHERE id = ?`, id)
}
