package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/rogerio-castellano/steel-quoter/internal/models"
)

type SQLAttachmentRepository struct {
	sqlStore
}

func NewSQLAttachmentRepository(db *sqlx.DB) *SQLAttachmentRepository {
	return &SQLAttachmentRepository{sqlStore{db: db}}
}

func (r *SQLAttachmentRepository) Create(ctx context.Context, a models.Attachment) (models.Attachment, error) {
	ctx, cancel := r.timeout(ctx)
	defer cancel()

	query := `INSERT INTO attachments (quote_id, file_name, content_type, size_bytes, url, storage_key, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`
	id, err := r.insert(ctx, r.db, query, a.QuoteID, a.FileName, a.ContentType, a.SizeBytes, a.URL, a.StorageKey, a.CreatedAt.UTC())
	if err != nil {
		return models.Attachment{}, err
	}
	a.ID = id
	return a, nil
}

func (r *SQLAttachmentRepository) GetByID(ctx context.Context, id int64) (models.Attachment, error) {
	ctx, cancel := r.timeout(ctx)
	defer cancel()

	var a models.Attachment
	err := r.db.GetContext(ctx, &a, r.q(`SELECT * FROM attachments WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Attachment{}, ErrAttachmentNotFound
	}
	return a, err
}

func (r *SQLAttachmentRepository) ListByQuote(ctx context.Context, quoteID int64) ([]models.Attachment, error) {
	ctx, cancel := r.timeout(ctx)
	defer cancel()

	attachments := []models.Attachment{}
	err := r.db.SelectContext(ctx, &attachments, r.q(`SELECT * FROM attachments WHERE quote_id = ? ORDER BY id`), quoteID)
	return attachments, err
}

func (r *SQLAttachmentRepository) Delete(ctx context.Context, id int64) error {
	return r.execOne(ctx, ErrAttachmentNotFound, `DELETE FROM attachments WHERE id = ?`, id)
}
