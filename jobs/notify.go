package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/hibiken/asynq"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/avjabalpur/cian-erp-sub001/internal/approval"
	"github.com/avjabalpur/cian-erp-sub001/internal/approval/catalog"
	"github.com/avjabalpur/cian-erp-sub001/internal/approval/records"
	"github.com/avjabalpur/cian-erp-sub001/internal/users"
)

// RecordStore is the slice of the records repository the notifier needs.
type RecordStore interface {
	Get(ctx context.Context, id int64) (*records.Record, error)
	SetEmailSent(ctx context.Context, id int64, sent bool) error
}

// UserStore resolves recipients.
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*users.User, error)
}

// Mailer delivers a single message.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// ApprovalNoticeJob emails the record owner after a stage decision and marks
// the record once the notice went out.
type ApprovalNoticeJob struct {
	store  RecordStore
	users  UserStore
	mailer Mailer
	logger *slog.Logger
}

// NewApprovalNoticeJob wires the notification job.
func NewApprovalNoticeJob(store RecordStore, users UserStore, mailer Mailer, logger *slog.Logger) *ApprovalNoticeJob {
	return &ApprovalNoticeJob{store: store, users: users, mailer: mailer, logger: logger}
}

// Handle processes TaskTypeApprovalNotice tasks.
func (j *ApprovalNoticeJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload ApprovalNoticePayload
	if err := unmarshalPayload(t, &payload); err != nil {
		return asynq.SkipRetry
	}

	rec, err := j.store.Get(ctx, payload.RecordID)
	if err != nil {
		return fmt.Errorf("load record %d: %w", payload.RecordID, err)
	}
	owner, err := j.users.GetByID(ctx, rec.CreatedBy)
	if err != nil {
		return fmt.Errorf("load owner %d: %w", rec.CreatedBy, err)
	}

	subject := fmt.Sprintf("Sales order %s: %s at %s stage",
		orDefault(rec.Fields[catalog.FieldSONumber], strconv.FormatInt(rec.ID, 10)),
		strings.ToLower(payload.Decision), payload.Stage)
	if err := j.mailer.Send(ctx, owner.Email, subject, noticeBody(rec, payload)); err != nil {
		return fmt.Errorf("send notice: %w", err)
	}

	if approval.Decision(payload.Decision) == approval.DecisionApprove {
		if err := j.store.SetEmailSent(ctx, rec.ID, true); err != nil {
			j.logger.Warn("mark email sent", slog.Int64("record_id", rec.ID), slog.Any("error", err))
		}
	}
	return nil
}

func noticeBody(rec *records.Record, payload ApprovalNoticePayload) string {
	p := message.NewPrinter(language.English)
	var b strings.Builder
	p.Fprintf(&b, "The %s stage recorded %s.\n\n", payload.Stage, payload.Decision)
	p.Fprintf(&b, "Customer: %s\n", rec.Fields[catalog.FieldCustomerName])
	p.Fprintf(&b, "Product:  %s\n", rec.Fields[catalog.FieldProductName])
	if qty, err := strconv.ParseInt(rec.Fields[catalog.FieldQuantity], 10, 64); err == nil {
		p.Fprintf(&b, "Quantity: %d\n", qty)
	}
	p.Fprintf(&b, "Status:   %s\n", rec.Status)
	return b.String()
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func unmarshalPayload(t *asynq.Task, dst any) error {
	return json.Unmarshal(t.Payload(), dst)
}
