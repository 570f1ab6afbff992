package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rogerio-castellano/steel-quoter/internal/models"
)

type SQLAPIKeyRepository struct {
	sqlStore
}

func NewSQLAPIKeyRepository(db *sqlx.DB) *SQLAPIKeyRepository {
	return &SQLAPIKeyRepository{sqlStore{db: db}}
}

func (r *SQLAPIKeyRepository) Create(ctx context.Context, k models.APIKey) (models.APIKey, error) {
	ctx, cancel := r.timeout(ctx)
	defer cancel()

	query := `INSERT INTO api_keys (name, prefix, key_hash, enabled, created_at, expires_at) VALUES (?, ?, ?, ?, ?, ?)`
	id, err := r.insert(ctx, r.db, query, k.Name, k.Prefix, k.KeyHash, k.Enabled, k.CreatedAt.UTC(), nullableTime(k.ExpiresAt))
	if err != nil {
		return models.APIKey{}, err
	}
	k.ID = id
	return k, nil
}

func (r *SQLAPIKeyRepository) get(ctx context.Context, where string, arg any) (models.APIKey, error) {
	ctx, cancel := r.timeout(ctx)
	defer cancel()

	var k models.APIKey
	err := r.db.GetContext(ctx, &k, r.q(`SELECT * FROM api_keys WHERE `+where), arg)
	if errors.Is(err, sql.ErrNoRows) {
		return models.APIKey{}, ErrAPIKeyNotFound
	}
	return k, err
}

func (r *SQLAPIKeyRepository) GetByID(ctx context.Context, id int64) (models.APIKey, error) {
	return r.get(ctx, "id = ?", id)
}

func (r *SQLAPIKeyRepository) GetByPrefix(ctx context.Context, prefix string) (models.APIKey, error) {
	return r.get(ctx, "prefix = ?", prefix)
}

func (r *SQLAPIKeyRepository) List(ctx context.Context) ([]models.APIKey, error) {
	ctx, cancel := r.timeout(ctx)
	defer cancel()

	keys := []models.APIKey{}
	err := r.db.SelectContext(ctx, &keys, `SELECT * FROM api_keys ORDER BY id`)
	return keys, err
}

func (r *SQLAPIKeyRepository) SetEnabled(ctx context.Context, id int64, enabled bool) (models.APIKey, error) {
	if err := r.execOne(ctx, ErrAPIKeyNotFound, `UPDATE api_keys SET enabled = ? WHERE id = ?`, enabled, id); err != nil {
		return models.APIKey{}, err
	}
	return r.GetByID(ctx, id)
}

func (r *SQLAPIKeyRepository) Touch(ctx context.Context, id int64, at time.Time) error {
	return r.execOne(ctx, ErrAPIKeyNotFound, `UPDATE api_keys SET last_used_at = ? WHERE id = ?`, at.UTC(), id)
}

func (r *SQLAPIKeyRepository) Delete(ctx context.Context, id int64) error {
	return r.execOne(ctx, ErrAPIKeyNotFound, `DELETE FROM api_keys WHERE id = ?`, id)
}
