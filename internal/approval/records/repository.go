package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avjabalpur/cian-erp-sub001/internal/approval"
	"github.com/avjabalpur/cian-erp-sub001/internal/approval/catalog"
	"github.com/avjabalpur/cian-erp-sub001/internal/audit"
	"github.com/avjabalpur/cian-erp-sub001/internal/platform/db"
)

var ErrNotFound = errors.New("record not found")

// Repository persists records and their append-only history rows.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Create(ctx context.Context, rec Record) (int64, error)
	Get(ctx context.Context, id int64) (*Record, error)
	List(ctx context.Context, filter ListFilter) ([]Record, int, error)
	Update(ctx context.Context, rec *Record) error
	SetEmailSent(ctx context.Context, id int64, sent bool) error
	InsertComment(ctx context.Context, c ApprovalComment) error
	ListComments(ctx context.Context, recordID int64) ([]ApprovalComment, error)
	InsertSaveTransaction(ctx context.Context, tx SaveTransaction) error
	ListSaveTransactions(ctx context.Context, recordID int64) ([]SaveTransaction, error)
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

// NewRepository builds the Postgres-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

func (r *repository) Create(ctx context.Context, rec Record) (int64, error) {
	fields, err := encodeFields(rec.Fields)
	if err != nil {
		return 0, fmt.Errorf("records: encode fields: %w", err)
	}
	var id int64
	err = r.db.QueryRow(ctx, `
INSERT INTO sales_order_records (
  current_status, dosage,
  costing_approved, qa_approved, final_auth_approved,
  designer_approved, final_qa_approved, pm_approved,
  email_sent, fields, created_by, updated_by
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
RETURNING id`,
		string(rec.Status), string(rec.Dosage),
		rec.Flags.Costing, rec.Flags.QA, rec.Flags.FinalAuthorization,
		rec.Flags.Designer, rec.Flags.FinalQA, rec.Flags.PM,
		rec.EmailSent, fields, rec.CreatedBy,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("records: create: %w", err)
	}
	return id, nil
}

const recordColumns = `id, current_status, dosage,
costing_approved, qa_approved, final_auth_approved,
designer_approved, final_qa_approved, pm_approved,
email_sent, fields, created_by, created_at, updated_by, updated_at`

func (r *repository) Get(ctx context.Context, id int64) (*Record, error) {
	row := r.db.QueryRow(ctx, `SELECT `+recordColumns+` FROM sales_order_records WHERE id = $1`, id)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("records: get: %w", err)
	}
	return rec, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Record, int, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx, `SELECT `+recordColumns+`
FROM sales_order_records
WHERE ($1 = '' OR current_status = $1)
  AND ($2 = '' OR dosage = $2)
ORDER BY id DESC
LIMIT $3 OFFSET $4`,
		string(filter.Status), string(filter.Dosage), limit, filter.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("records: list: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("records: list scan: %w", err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM sales_order_records
WHERE ($1 = '' OR current_status = $1) AND ($2 = '' OR dosage = $2)`,
		string(filter.Status), string(filter.Dosage)).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("records: count: %w", err)
	}
	return out, total, nil
}

func (r *repository) Update(ctx context.Context, rec *Record) error {
	fields, err := encodeFields(rec.Fields)
	if err != nil {
		return fmt.Errorf("records: encode fields: %w", err)
	}
	tag, err := r.db.Exec(ctx, `
UPDATE sales_order_records SET
  current_status = $2, dosage = $3,
  costing_approved = $4, qa_approved = $5, final_auth_approved = $6,
  designer_approved = $7, final_qa_approved = $8, pm_approved = $9,
  email_sent = $10, fields = $11, updated_by = $12, updated_at = NOW()
WHERE id = $1`,
		rec.ID, string(rec.Status), string(rec.Dosage),
		rec.Flags.Costing, rec.Flags.QA, rec.Flags.FinalAuthorization,
		rec.Flags.Designer, rec.Flags.FinalQA, rec.Flags.PM,
		rec.EmailSent, fields, rec.UpdatedBy)
	if err != nil {
		return fmt.Errorf("records: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) SetEmailSent(ctx context.Context, id int64, sent bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE sales_order_records SET email_sent = $2, updated_at = NOW() WHERE id = $1`, id, sent)
	if err != nil {
		return fmt.Errorf("records: set email_sent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) InsertComment(ctx context.Context, c ApprovalComment) error {
	_, err := r.db.Exec(ctx, `
INSERT INTO approval_comments (record_id, stage, decision, comment, author_id, at)
VALUES ($1, $2, $3, $4, $5, COALESCE(NULLIF($6::timestamptz, '0001-01-01'), NOW()))`,
		c.RecordID, c.Stage, string(c.Decision), c.Comment, c.AuthorID, c.At)
	if err != nil {
		return fmt.Errorf("records: insert comment: %w", err)
	}
	return nil
}

func (r *repository) ListComments(ctx context.Context, recordID int64) ([]ApprovalComment, error) {
	rows, err := r.db.Query(ctx, `
SELECT id, record_id, stage, decision, comment, author_id, at
FROM approval_comments WHERE record_id = $1 ORDER BY at ASC, id ASC`, recordID)
	if err != nil {
		return nil, fmt.Errorf("records: list comments: %w", err)
	}
	defer rows.Close()

	var out []ApprovalComment
	for rows.Next() {
		var c ApprovalComment
		var decision string
		if err := rows.Scan(&c.ID, &c.RecordID, &c.Stage, &decision, &c.Comment, &c.AuthorID, &c.At); err != nil {
			return nil, err
		}
		c.Decision = approval.Decision(decision)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *repository) InsertSaveTransaction(ctx context.Context, tx SaveTransaction) error {
	diff, err := tx.Diff.Encode()
	if err != nil {
		return fmt.Errorf("records: encode diff: %w", err)
	}
	_, err = r.db.Exec(ctx, `
INSERT INTO save_transactions (record_id, author_id, diff, at)
VALUES ($1, $2, $3, COALESCE(NULLIF($4::timestamptz, '0001-01-01'), NOW()))`,
		tx.RecordID, tx.AuthorID, diff, tx.At)
	if err != nil {
		return fmt.Errorf("records: insert save transaction: %w", err)
	}
	return nil
}

func (r *repository) ListSaveTransactions(ctx context.Context, recordID int64) ([]SaveTransaction, error) {
	rows, err := r.db.Query(ctx, `
SELECT id, record_id, author_id, diff, at
FROM save_transactions WHERE record_id = $1 ORDER BY at ASC, id ASC`, recordID)
	if err != nil {
		return nil, fmt.Errorf("records: list save transactions: %w", err)
	}
	defer rows.Close()

	var out []SaveTransaction
	for rows.Next() {
		var tx SaveTransaction
		var raw []byte
		if err := rows.Scan(&tx.ID, &tx.RecordID, &tx.AuthorID, &raw, &tx.At); err != nil {
			return nil, err
		}
		// Stored diffs may predate the current codec; a corrupt payload
		// degrades to a synthetic entry instead of failing the whole list.
		tx.Diff = audit.DecodeDiff(raw)
		out = append(out, tx)
	}
	return out, rows.Err()
}

func encodeFields(fields map[catalog.FieldID]string) ([]byte, error) {
	if fields == nil {
		fields = map[catalog.FieldID]string{}
	}
	return json.Marshal(fields)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var (
		rec            Record
		status, dosage string
		rawFields      []byte
	)
	err := row.Scan(
		&rec.ID, &status, &dosage,
		&rec.Flags.Costing, &rec.Flags.QA, &rec.Flags.FinalAuthorization,
		&rec.Flags.Designer, &rec.Flags.FinalQA, &rec.Flags.PM,
		&rec.EmailSent, &rawFields,
		&rec.CreatedBy, &rec.CreatedAt, &rec.UpdatedBy, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.Status = approval.Status(status)
	rec.Dosage = approval.Dosage(dosage)
	rec.Fields = map[catalog.FieldID]string{}
	if len(rawFields) > 0 {
		if err := json.Unmarshal(rawFields, &rec.Fields); err != nil {
			return nil, fmt.Errorf("records: decode fields: %w", err)
		}
	}
	return &rec, nil
}
