package collab

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists chat messages and document events.
type Repository interface {
	InsertMessage(ctx context.Context, m ChatMessage) (int64, error)
	ListMessages(ctx context.Context, recordID int64) ([]ChatMessage, error)
	InsertDocument(ctx context.Context, d DocumentEvent) (int64, error)
	ListDocuments(ctx context.Context, recordID int64) ([]DocumentEvent, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds the Postgres-backed collab repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) InsertMessage(ctx context.Context, m ChatMessage) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
INSERT INTO chat_messages (record_id, author_id, body)
VALUES ($1, $2, $3) RETURNING id`,
		m.RecordID, m.AuthorID, m.Body).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("collab: insert message: %w", err)
	}
	return id, nil
}

func (r *repository) ListMessages(ctx context.Context, recordID int64) ([]ChatMessage, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, record_id, author_id, body, at
FROM chat_messages WHERE record_id = $1 ORDER BY at ASC, id ASC`, recordID)
	if err != nil {
		return nil, fmt.Errorf("collab: list messages: %w", err)
	}
	defer rows.Close()

	var out []ChatMessage
	for rows.Next() {
		var m ChatMessage
		if err := rows.Scan(&m.ID, &m.RecordID, &m.AuthorID, &m.Body, &m.At); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *repository) InsertDocument(ctx context.Context, d DocumentEvent) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
INSERT INTO record_documents (record_id, file_name, content_type, size_bytes, uploaded_by)
VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		d.RecordID, d.FileName, d.ContentType, d.SizeBytes, d.UploadedBy).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("collab: insert document: %w", err)
	}
	return id, nil
}

func (r *repository) ListDocuments(ctx context.Context, recordID int64) ([]DocumentEvent, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, record_id, file_name, content_type, size_bytes, uploaded_by, at
FROM record_documents WHERE record_id = $1 ORDER BY at ASC, id ASC`, recordID)
	if err != nil {
		return nil, fmt.Errorf("collab: list documents: %w", err)
	}
	defer rows.Close()

	var out []DocumentEvent
	for rows.Next() {
		var d DocumentEvent
		if err := rows.Scan(&d.ID, &d.RecordID, &d.FileName, &d.ContentType, &d.SizeBytes, &d.UploadedBy, &d.At); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
