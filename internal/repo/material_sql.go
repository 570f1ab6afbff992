package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rogerio-castellano/steel-quoter/internal/models"
)

type SQLMaterialRepository struct {
	sqlStore
}

func NewSQLMaterialRepository(db *sqlx.DB) *SQLMaterialRepository {
	return &SQLMaterialRepository{sqlStore{db: db}}
}

func (r *SQLMaterialRepository) Create(ctx context.Context, m models.Material) (models.Material, error) {
	ctx, cancel := r.timeout(ctx)
	defer cancel()

	query := `INSERT INTO materials (name, family, shape, grade, density, price_per_lb, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	id, err := r.insert(ctx, r.db, query, m.Name, string(m.Family), string(m.Shape), m.Grade, m.Density, m.PricePerLb, m.Description, m.CreatedAt.UTC(), m.UpdatedAt.UTC())
	if err != nil {
		return models.Material{}, err
	}
	m.ID = id
	return m, nil
}

func (r *SQLMaterialRepository) get(ctx context.Context, where string, arg any) (models.Material, error) {
	ctx, cancel := r.timeout(ctx)
	defer cancel()

	var m models.Material
	err := r.db.GetContext(ctx, &m, r.q(`SELECT * FROM materials WHERE `+where), arg)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Material{}, ErrMaterialNotFound
	}
	return m, err
}

func (r *SQLMaterialRepository) GetByID(ctx context.Context, id int64) (models.Material, error) {
	return r.get(ctx, "id = ?", id)
}

func (r *SQLMaterialRepository) GetByName(ctx context.Context, name string) (models.Material, error) {
	return r.get(ctx, "LOWER(name) = LOWER(?)", name)
}

func (r *SQLMaterialRepository) List(ctx context.Context, f MaterialFilter) ([]models.Material, int, error) {
	where := "WHERE 1=1"
	var args []any
	if !f.IncludeDeleted {
		where += " AND deleted_at IS NULL"
	}
	if f.Name != "" {
		where += " AND LOWER(name) LIKE ?"
		args = append(args, likeFold(f.Name))
	}
	if f.Family != "" {
		where += " AND family = ?"
		args = append(args, string(f.Family))
	}
	if f.Shape != "" {
		where += " AND shape = ?"
		args = append(args, string(f.Shape))
	}

	materials := []models.Material{}
	total, err := r.page(ctx, &materials, "materials", where, "name", args, f.Offset, f.Limit)
	if err != nil {
		return nil, 0, err
	}
	return materials, total, nil
}

func (r *SQLMaterialRepository) Update(ctx context.Context, m models.Material) (models.Material, error) {
	query := `UPDATE materials SET name = ?, family = ?, shape = ?, grade = ?, density = ?, price_per_lb = ?, description = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`
	err := r.execOne(ctx, ErrMaterialNotFound, query, m.Name, string(m.Family), string(m.Shape), m.Grade, m.Density, m.PricePerLb, m.Description, m.UpdatedAt.UTC(), m.ID)
	if err != nil {
		return models.Material{}, err
	}
	return r.GetByID(ctx, m.ID)
}

func (r *SQLMaterialRepository) SoftDelete(ctx context.Context, id int64, at time.Time) error {
	return r.execOne(ctx, ErrMaterialNotFound, `UPDATE materials SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, at.UTC(), id)
}

func (r *SQLMaterialRepository) Restore(ctx context.Context, id int64) error {
	return r.execOne(ctx, ErrMaterialNotFound, `UPDATE materials SET deleted_at = NULL WHERE id = ?`, id)
}
