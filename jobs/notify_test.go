package jobs

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/avjabalpur/cian-erp-sub001/internal/approval"
	"github.com/avjabalpur/cian-erp-sub001/internal/approval/catalog"
	"github.com/avjabalpur/cian-erp-sub001/internal/approval/records"
	"github.com/avjabalpur/cian-erp-sub001/internal/users"
)

type stubRecordStore struct {
	record    *records.Record
	emailSent bool
}

func (s *stubRecordStore) Get(ctx context.Context, id int64) (*records.Record, error) {
	return s.record, nil
}

func (s *stubRecordStore) SetEmailSent(ctx context.Context, id int64, sent bool) error {
	s.emailSent = sent
	return nil
}

type stubUserStore struct{}

func (stubUserStore) GetByID(ctx context.Context, id int64) (*users.User, error) {
	return &users.User{ID: id, Email: "owner@example.com", FullName: "Record Owner"}, nil
}

type stubMailer struct {
	to      string
	subject string
	body    string
}

func (m *stubMailer) Send(ctx context.Context, to, subject, body string) error {
	m.to, m.subject, m.body = to, subject, body
	return nil
}

func testRecord() *records.Record {
	return &records.Record{
		ID:        42,
		Status:    approval.StatusSOConfirmed,
		Dosage:    approval.DosageTablet,
		CreatedBy: 7,
		CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		Fields: map[catalog.FieldID]string{
			catalog.FieldSONumber:     "SO-2026-0042",
			catalog.FieldCustomerName: "Acme Pharma",
			catalog.FieldProductName:  "Paracetamol 500mg",
			catalog.FieldQuantity:     "125000",
		},
	}
}

func TestApprovalNoticeJobSendsAndMarks(t *testing.T) {
	store := &stubRecordStore{record: testRecord()}
	mailer := &stubMailer{}
	job := NewApprovalNoticeJob(store, stubUserStore{}, mailer, slog.Default())

	task, err := NewApprovalNoticeTask(ApprovalNoticePayload{RecordID: 42, Stage: "costing", Decision: "APPROVE", ActorID: 9})
	require.NoError(t, err)

	require.NoError(t, job.Handle(context.Background(), task))
	require.Equal(t, "owner@example.com", mailer.to)
	require.Contains(t, mailer.subject, "SO-2026-0042")
	require.Contains(t, mailer.body, "Acme Pharma")
	require.Contains(t, mailer.body, "125,000")
	require.True(t, store.emailSent)
}

func TestApprovalNoticeJobSkipsMarkOnRequestChanges(t *testing.T) {
	store := &stubRecordStore{record: testRecord()}
	mailer := &stubMailer{}
	job := NewApprovalNoticeJob(store, stubUserStore{}, mailer, slog.Default())

	task, err := NewApprovalNoticeTask(ApprovalNoticePayload{RecordID: 42, Stage: "qa", Decision: "REQUEST-CHANGES", ActorID: 9})
	require.NoError(t, err)

	require.NoError(t, job.Handle(context.Background(), task))
	require.Equal(t, "owner@example.com", mailer.to)
	require.False(t, store.emailSent)
}
