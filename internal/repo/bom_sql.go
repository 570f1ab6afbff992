package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rogerio-castellano/steel-quoter/internal/models"
)

type SQLBOMRepository struct {
	sqlStore
}

func NewSQLBOMRepository(db *sqlx.DB) *SQLBOMRepository {
	return &SQLBOMRepository{sqlStore{db: db}}
}

const insertBOMLine = `INSERT INTO quote_bom (quote_id, line_no, material_id, description, shape, family, grade,
	thickness, width, height, length, diameter, outside_diameter, wall, leg_a, leg_b,
	quantity, price_per_lb, extra_cost, weight_each, total_weight, material_cost, line_total)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func bomLineArgs(l models.BOMLine) []any {
	return []any{
		l.QuoteID, l.LineNo, nullableInt64(l.MaterialID), l.Description, string(l.Shape), string(l.Family), l.Grade,
		l.Thickness, l.Width, l.Height, l.Length, l.Diameter, l.OutsideDiameter, l.Wall, l.LegA, l.LegB,
		l.Quantity, l.PricePerLb, l.ExtraCost, l.WeightEach, l.TotalWeight, l.MaterialCost, l.LineTotal,
	}
}

func (r *SQLBOMRepository) ListByQuote(ctx context.Context, quoteID int64) ([]models.BOMLine, error) {
	ctx, cancel := r.timeout(ctx)
	defer cancel()

	lines := []models.BOMLine{}
	err := r.db.SelectContext(ctx, &lines, r.q(`SELECT * FROM quote_bom WHERE quote_id = ? ORDER BY line_no`), quoteID)
	return lines, err
}

func (r *SQLBOMRepository) GetLine(ctx context.Context, quoteID, lineID int64) (models.BOMLine, error) {
	ctx, cancel := r.timeout(ctx)
	defer cancel()

	var l models.BOMLine
	err := r.db.GetContext(ctx, &l, r.q(`SELECT * FROM quote_bom WHERE id = ? AND quote_id = ?`), lineID, quoteID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.BOMLine{}, ErrBOMLineNotFound
	}
	return l, err
}

func (r *SQLBOMRepository) AddLine(ctx context.Context, line models.BOMLine) (models.BOMLine, error) {
	ctx, cancel := r.timeout(ctx)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.BOMLine{}, err
	}
	defer tx.Rollback()

	var last sql.NullInt64
	if err := tx.GetContext(ctx, &last, r.q(`SELECT MAX(line_no) FROM quote_bom WHERE quote_id = ?`), line.QuoteID); err != nil {
		return models.BOMLine{}, err
	}
	line.LineNo = int(last.Int64) + 1

	id, err := r.insert(ctx, tx, insertBOMLine, bomLineArgs(line)...)
	if err != nil {
		return models.BOMLine{}, err
	}
	line.ID = id
	return line, tx.Commit()
}

func (r *SQLBOMRepository) UpdateLine(ctx context.Context, l models.BOMLine) (models.BOMLine, error) {
	query := `UPDATE quote_bom SET material_id = ?, description = ?, shape = ?, family = ?, grade = ?,
		thickness = ?, width = ?, height = ?, length = ?, diameter = ?, outside_diameter = ?, wall = ?, leg_a = ?, leg_b = ?,
		quantity = ?, price_per_lb = ?, extra_cost = ?, weight_each = ?, total_weight = ?, material_cost = ?, line_total = ?
		WHERE id = ? AND quote_id = ?`
	err := r.execOne(ctx, ErrBOMLineNotFound, query,
		nullableInt64(l.MaterialID), l.Description, string(l.Shape), string(l.Family), l.Grade,
		l.Thickness, l.Width, l.Height, l.Length, l.Diameter, l.OutsideDiameter, l.Wall, l.LegA, l.LegB,
		l.Quantity, l.PricePerLb, l.ExtraCost, l.WeightEach, l.TotalWeight, l.MaterialCost, l.LineTotal,
		l.ID, l.QuoteID)
	if err != nil {
		return models.BOMLine{}, err
	}
	return r.GetLine(ctx, l.QuoteID, l.ID)
}

func (r *SQLBOMRepository) DeleteLine(ctx context.Context, quoteID, lineID int64) error {
	return r.execOne(ctx, ErrBOMLineNotFound, `DELETE FROM quote_bom WHERE id = ? AND quote_id = ?`, lineID, quoteID)
}

func (r *SQLBOMRepository) ReplaceAll(ctx context.Context, quoteID int64, lines []models.BOMLine) ([]models.BOMLine, error) {
	ctx, cancel := r.timeout(ctx)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, r.q(`DELETE FROM quote_bom WHERE quote_id = ?`), quoteID); err != nil {
		return nil, fmt.Errorf("failed to clear bom: %w", err)
	}

	out := make([]models.BOMLine, len(lines))
	for i, l := range lines {
		l.QuoteID = quoteID
		l.LineNo = i + 1
		id, err := r.insert(ctx, tx, insertBOMLine, bomLineArgs(l)...)
		if err != nil {
			return nil, fmt.Errorf("failed to insert bom line %d: %w", i+1, err)
		}
		l.ID = id
		out[i] = l
	}
	return out, tx.Commit()
}
