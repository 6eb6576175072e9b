package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PendingReminderJob sweeps confirmed records whose decision notice never
// went out and re-enqueues a notice for each.
type PendingReminderJob struct {
	pool   *pgxpool.Pool
	client *Client
	logger *slog.Logger
}

// NewPendingReminderJob wires the sweep job.
func NewPendingReminderJob(pool *pgxpool.Pool, client *Client, logger *slog.Logger) *PendingReminderJob {
	return &PendingReminderJob{pool: pool, client: client, logger: logger}
}

// Handle processes TaskTypePendingReminder tasks.
func (j *PendingReminderJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload PendingReminderPayload
	if err := unmarshalPayload(t, &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.MinAgeHours <= 0 {
		payload.MinAgeHours = 24
	}

	const query = `
SELECT id FROM sales_order_records
WHERE current_status = 'SO-CONFIRMED'
  AND email_sent = FALSE
  AND updated_at < NOW() - make_interval(hours => $1)
ORDER BY id`
	rows, err := j.pool.Query(ctx, query, payload.MinAgeHours)
	if err != nil {
		return err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, id := range ids {
		if _, err := j.client.EnqueueApprovalNotice(ctx, ApprovalNoticePayload{RecordID: id, Stage: "pm", Decision: "APPROVE"}); err != nil {
			j.logger.Warn("enqueue reminder", slog.Int64("record_id", id), slog.Any("error", err))
		}
	}
	if len(ids) > 0 {
		j.logger.Info("pending notice sweep", slog.Int("records", len(ids)))
	}
	return nil
}
