package records

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/avjabalpur/cian-erp-sub001/internal/approval"
	"github.com/avjabalpur/cian-erp-sub001/internal/approval/catalog"
	"github.com/avjabalpur/cian-erp-sub001/internal/approval/stages"
	"github.com/avjabalpur/cian-erp-sub001/internal/audit"
	"github.com/avjabalpur/cian-erp-sub001/internal/rbac"
)

type memoryRepo struct {
	records  map[int64]Record
	comments map[int64][]ApprovalComment
	saves    map[int64][]SaveTransaction
	nextID   int64
	now      time.Time
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		records:  make(map[int64]Record),
		comments: make(map[int64][]ApprovalComment),
		saves:    make(map[int64][]SaveTransaction),
		now:      time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (r *memoryRepo) tick() time.Time {
	r.now = r.now.Add(time.Minute)
	return r.now
}

func copyRecord(rec Record) Record {
	fields := make(map[catalog.FieldID]string, len(rec.Fields))
	for k, v := range rec.Fields {
		fields[k] = v
	}
	rec.Fields = fields
	return rec
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, r)
}

func (r *memoryRepo) Create(ctx context.Context, rec Record) (int64, error) {
	r.nextID++
	rec.ID = r.nextID
	rec.CreatedAt = r.tick()
	rec.UpdatedAt = rec.CreatedAt
	r.records[rec.ID] = copyRecord(rec)
	return rec.ID, nil
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (*Record, error) {
	rec, ok := r.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := copyRecord(rec)
	return &out, nil
}

func (r *memoryRepo) List(ctx context.Context, filter ListFilter) ([]Record, int, error) {
	var out []Record
	for _, rec := range r.records {
		if filter.Status != "" && rec.Status != filter.Status {
			continue
		}
		if filter.Dosage != "" && rec.Dosage != filter.Dosage {
			continue
		}
		out = append(out, copyRecord(rec))
	}
	return out, len(out), nil
}

func (r *memoryRepo) Update(ctx context.Context, rec *Record) error {
	if _, ok := r.records[rec.ID]; !ok {
		return ErrNotFound
	}
	stored := copyRecord(*rec)
	stored.UpdatedAt = r.tick()
	r.records[rec.ID] = stored
	return nil
}

func (r *memoryRepo) SetEmailSent(ctx context.Context, id int64, sent bool) error {
	rec, ok := r.records[id]
	if !ok {
		return ErrNotFound
	}
	rec.EmailSent = sent
	r.records[id] = rec
	return nil
}

func (r *memoryRepo) InsertComment(ctx context.Context, c ApprovalComment) error {
	c.ID = int64(len(r.comments[c.RecordID]) + 1)
	c.At = r.tick()
	r.comments[c.RecordID] = append(r.comments[c.RecordID], c)
	return nil
}

func (r *memoryRepo) ListComments(ctx context.Context, recordID int64) ([]ApprovalComment, error) {
	return append([]ApprovalComment(nil), r.comments[recordID]...), nil
}

func (r *memoryRepo) InsertSaveTransaction(ctx context.Context, tx SaveTransaction) error {
	tx.ID = int64(len(r.saves[tx.RecordID]) + 1)
	tx.At = r.tick()
	r.saves[tx.RecordID] = append(r.saves[tx.RecordID], tx)
	return nil
}

func (r *memoryRepo) ListSaveTransactions(ctx context.Context, recordID int64) ([]SaveTransaction, error) {
	return append([]SaveTransaction(nil), r.saves[recordID]...), nil
}

type stubNotifier struct {
	calls []string
}

func (n *stubNotifier) NotifyDecision(ctx context.Context, recordID int64, stage string, decision approval.Decision, actorID int64) error {
	n.calls = append(n.calls, stage+":"+string(decision))
	return nil
}

const (
	creatorID = int64(1)
	actorID   = int64(2)
)

var (
	bdCreator = rbac.NewRoleSet(rbac.RoleBusinessDevelopment)
	noRoles   = rbac.NewRoleSet()
)

func newTestService() (*Service, *memoryRepo, *stubNotifier) {
	repo := newMemoryRepo()
	notifier := &stubNotifier{}
	svc := NewService(repo, notifier, slog.Default())
	return svc, repo, notifier
}

func TestCreateRecord(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	rec, err := svc.Create(ctx, CreateRecordRequest{Dosage: "TABLET"}, creatorID)
	require.NoError(t, err)
	require.Equal(t, approval.StatusInProgress, rec.Status)
	require.Equal(t, approval.DosageTablet, rec.Dosage)
	require.Equal(t, creatorID, rec.CreatedBy)
	require.False(t, rec.Flags.AllSet())

	_, err = svc.Create(ctx, CreateRecordRequest{Dosage: "GEL"}, creatorID)
	require.ErrorIs(t, err, ErrValidation)
}

func TestSaveComputesDiffServerSide(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	rec, err := svc.Create(ctx, CreateRecordRequest{Dosage: "TABLET"}, creatorID)
	require.NoError(t, err)

	resp, err := svc.Save(ctx, rec.ID, SaveRequest{Fields: map[string]string{
		"customer_name": "Acme Pharma",
		"quantity":      "1000",
		"comments":      "",
	}}, creatorID, bdCreator)
	require.NoError(t, err)
	require.False(t, resp.NoOp)
	require.Len(t, resp.Diff, 2, "an empty write over an empty field is not a change")
	require.Equal(t, audit.DiffEntry{Previous: "", New: "Acme Pharma"}, resp.Diff[catalog.FieldCustomerName])

	stored, err := svc.Get(ctx, rec.ID)
	require.NoError(t, err)
	require.Equal(t, "Acme Pharma", stored.Fields[catalog.FieldCustomerName])

	saves, err := repo.ListSaveTransactions(ctx, rec.ID)
	require.NoError(t, err)
	require.Len(t, saves, 1)
	require.Equal(t, creatorID, saves[0].AuthorID)
}

func TestSaveNoOpWhenNothingChanged(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	rec, err := svc.Create(ctx, CreateRecordRequest{Dosage: "TABLET"}, creatorID)
	require.NoError(t, err)

	_, err = svc.Save(ctx, rec.ID, SaveRequest{Fields: map[string]string{"quantity": "10"}}, creatorID, bdCreator)
	require.NoError(t, err)

	resp, err := svc.Save(ctx, rec.ID, SaveRequest{Fields: map[string]string{"quantity": "10"}}, creatorID, bdCreator)
	require.NoError(t, err)
	require.True(t, resp.NoOp)

	saves, err := repo.ListSaveTransactions(ctx, rec.ID)
	require.NoError(t, err)
	require.Len(t, saves, 1, "a no-op save must not append history")
}

func TestSaveRejectsUnknownAndForbiddenFields(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	rec, err := svc.Create(ctx, CreateRecordRequest{Dosage: "TABLET"}, creatorID)
	require.NoError(t, err)

	_, err = svc.Save(ctx, rec.ID, SaveRequest{Fields: map[string]string{"bogus_field": "x"}}, creatorID, bdCreator)
	require.ErrorIs(t, err, ErrValidation)

	// billing_rate is blocked for the creator, costing-admin territory.
	_, err = svc.Save(ctx, rec.ID, SaveRequest{Fields: map[string]string{"billing_rate": "9.50"}}, creatorID, bdCreator)
	require.ErrorIs(t, err, ErrPermissionDenied)

	resp, err := svc.Save(ctx, rec.ID, SaveRequest{Fields: map[string]string{"billing_rate": "9.50"}}, actorID, rbac.NewRoleSet(rbac.RoleCostingAdmin))
	require.NoError(t, err)
	require.False(t, resp.NoOp)
}

func TestSaveStatusChangeGoesThroughGuard(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	rec, err := svc.Create(ctx, CreateRecordRequest{Dosage: "TABLET"}, creatorID)
	require.NoError(t, err)

	// The creator may confirm the order via a field save.
	resp, err := svc.Save(ctx, rec.ID, SaveRequest{Fields: map[string]string{"current_status": "SO-CONFIRMED"}}, creatorID, bdCreator)
	require.NoError(t, err)
	require.Contains(t, resp.Diff, catalog.FieldCurrentStatus)

	// A stranger without roles may not move it further.
	_, err = svc.Save(ctx, rec.ID, SaveRequest{Fields: map[string]string{"current_status": "CANCEL"}}, actorID, noRoles)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func approveAll(t *testing.T, svc *Service, id int64) {
	t.Helper()
	ctx := context.Background()
	admin := rbac.NewRoleSet(rbac.RoleAdmin)
	for _, spec := range stages.Chain {
		_, err := svc.Decide(ctx, id, spec.Tag, DecisionRequest{Decision: "APPROVE"}, actorID, admin)
		require.NoError(t, err)
	}
}

func TestDecideApprovalFlow(t *testing.T) {
	svc, repo, notifier := newTestService()
	ctx := context.Background()

	rec, err := svc.Create(ctx, CreateRecordRequest{Dosage: "TABLET"}, creatorID)
	require.NoError(t, err)
	_, err = svc.ChangeStatus(ctx, rec.ID, approval.StatusSOConfirmed, creatorID, bdCreator)
	require.NoError(t, err)

	// Wrong role is rejected before any state change.
	_, err = svc.Decide(ctx, rec.ID, stages.TagCosting, DecisionRequest{Decision: "APPROVE"}, actorID, rbac.NewRoleSet(rbac.RoleQAAdmin))
	require.ErrorIs(t, err, ErrPermissionDenied)

	// A hidden stage cannot be approved out of order.
	_, err = svc.Decide(ctx, rec.ID, stages.TagPM, DecisionRequest{Decision: "APPROVE"}, actorID, rbac.NewRoleSet(rbac.RolePMAdmin))
	require.ErrorIs(t, err, ErrInvalidTransition)

	updated, err := svc.Decide(ctx, rec.ID, stages.TagCosting, DecisionRequest{Decision: "APPROVE", Comment: "rates verified"}, actorID, rbac.NewRoleSet(rbac.RoleCostingAdmin))
	require.NoError(t, err)
	require.True(t, updated.Flags.Costing)
	require.Equal(t, []string{"costing:APPROVE"}, notifier.calls)

	comments, err := repo.ListComments(ctx, rec.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	require.Equal(t, "rates verified", comments[0].Comment)

	// Approving the same stage again appends a second comment, the flag is
	// simply re-set.
	updated, err = svc.Decide(ctx, rec.ID, stages.TagCosting, DecisionRequest{Decision: "APPROVE"}, actorID, rbac.NewRoleSet(rbac.RoleCostingAdmin))
	require.NoError(t, err)
	require.True(t, updated.Flags.Costing)
	comments, err = repo.ListComments(ctx, rec.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
}

func TestDecideRequestChanges(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	rec, err := svc.Create(ctx, CreateRecordRequest{Dosage: "TABLET"}, creatorID)
	require.NoError(t, err)

	// No stage renders while the record is IN-PROGRESS, so neither decision
	// kind is accepted yet.
	_, err = svc.Decide(ctx, rec.ID, stages.TagCosting, DecisionRequest{Decision: "REQUEST-CHANGES", Comment: "too early"}, actorID, rbac.NewRoleSet(rbac.RoleCostingAdmin))
	require.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.ChangeStatus(ctx, rec.ID, approval.StatusSOConfirmed, creatorID, bdCreator)
	require.NoError(t, err)

	// A comment is mandatory for REQUEST-CHANGES.
	_, err = svc.Decide(ctx, rec.ID, stages.TagCosting, DecisionRequest{Decision: "REQUEST-CHANGES"}, actorID, rbac.NewRoleSet(rbac.RoleCostingAdmin))
	require.ErrorIs(t, err, ErrValidation)

	updated, err := svc.Decide(ctx, rec.ID, stages.TagCosting, DecisionRequest{Decision: "REQUEST-CHANGES", Comment: "rate sheet outdated"}, actorID, rbac.NewRoleSet(rbac.RoleCostingAdmin))
	require.NoError(t, err)
	require.Equal(t, approval.StatusRequestChanges, updated.Status)
	require.False(t, updated.Flags.Costing)
	require.False(t, updated.EmailSent)
}

func TestRequestReapproval(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	rec, err := svc.Create(ctx, CreateRecordRequest{Dosage: "TABLET"}, creatorID)
	require.NoError(t, err)
	_, err = svc.ChangeStatus(ctx, rec.ID, approval.StatusSOConfirmed, creatorID, bdCreator)
	require.NoError(t, err)

	_, err = svc.Decide(ctx, rec.ID, stages.TagCosting, DecisionRequest{Decision: "APPROVE"}, actorID, rbac.NewRoleSet(rbac.RoleCostingAdmin))
	require.NoError(t, err)

	// A non-creator cannot use the creator pathway.
	_, err = svc.RequestReapproval(ctx, rec.ID, stages.TagCosting, actorID, bdCreator)
	require.ErrorIs(t, err, ErrPermissionDenied)

	updated, err := svc.RequestReapproval(ctx, rec.ID, stages.TagCosting, creatorID, bdCreator)
	require.NoError(t, err)
	require.False(t, updated.Flags.Costing)

	states, err := svc.StageStates(ctx, rec.ID)
	require.NoError(t, err)
	require.Equal(t, stages.ActionRequired, states[0].State)
	require.Equal(t, stages.Hidden, states[1].State)
}

func TestChangeStatusIntoProgen(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	rec, err := svc.Create(ctx, CreateRecordRequest{Dosage: "TABLET"}, creatorID)
	require.NoError(t, err)
	_, err = svc.ChangeStatus(ctx, rec.ID, approval.StatusSOConfirmed, creatorID, bdCreator)
	require.NoError(t, err)

	entry := rbac.NewRoleSet(rbac.RoleDataEntry)

	// Not before every stage approved.
	_, err = svc.ChangeStatus(ctx, rec.ID, approval.StatusAddedToProgen, actorID, entry)
	require.ErrorIs(t, err, ErrInvalidTransition)

	approveAll(t, svc, rec.ID)

	resp, err := svc.ChangeStatus(ctx, rec.ID, approval.StatusAddedToProgen, actorID, entry)
	require.NoError(t, err)
	require.Contains(t, resp.Diff, catalog.FieldCurrentStatus)

	// Same-status change reports a no-op.
	resp, err = svc.ChangeStatus(ctx, rec.ID, approval.StatusAddedToProgen, actorID, entry)
	require.NoError(t, err)
	require.True(t, resp.NoOp)

	// The frozen record rejects ordinary field edits, admin included.
	_, err = svc.Save(ctx, rec.ID, SaveRequest{Fields: map[string]string{"quantity": "99"}}, actorID, rbac.NewRoleSet(rbac.RoleAdmin))
	require.ErrorIs(t, err, ErrPermissionDenied)

	// email_sent stays writable for the PM follow-up.
	resp, err = svc.Save(ctx, rec.ID, SaveRequest{Fields: map[string]string{"email_sent": "true"}}, actorID, rbac.NewRoleSet(rbac.RolePMAdmin))
	require.NoError(t, err)
	require.False(t, resp.NoOp)
}

func TestLayoutRespectsDosage(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	rec, err := svc.Create(ctx, CreateRecordRequest{Dosage: "CAPSULE"}, creatorID)
	require.NoError(t, err)

	layout, err := svc.Layout(ctx, rec.ID, bdCreator, creatorID)
	require.NoError(t, err)
	require.Len(t, layout.Fields, len(catalog.AllFields))
	require.True(t, layout.Fields["capsule_size"].Visible)
	require.False(t, layout.Fields["tablet_size"].Visible)
	require.Contains(t, layout.CopyFields, "capsule_size")
	require.NotContains(t, layout.CopyFields, "tablet_size")
	require.NotContains(t, layout.CompareFields, "tablet_size")
}

type staticSource struct {
	events []audit.Event
}

func (s staticSource) Events(ctx context.Context, recordID int64) ([]audit.Event, error) {
	return s.events, nil
}

func TestTimelineMergesAllGroups(t *testing.T) {
	repo := newMemoryRepo()
	chatAt := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	svc := NewService(repo, nil, slog.Default(), staticSource{events: []audit.Event{
		{At: chatAt, Kind: audit.EventKindChat, ActorID: 5, Body: "ping"},
	}})
	ctx := context.Background()

	rec, err := svc.Create(ctx, CreateRecordRequest{Dosage: "TABLET"}, creatorID)
	require.NoError(t, err)
	_, err = svc.ChangeStatus(ctx, rec.ID, approval.StatusSOConfirmed, creatorID, bdCreator)
	require.NoError(t, err)
	_, err = svc.Decide(ctx, rec.ID, stages.TagCosting, DecisionRequest{Decision: "APPROVE"}, actorID, rbac.NewRoleSet(rbac.RoleCostingAdmin))
	require.NoError(t, err)

	events, err := svc.Timeline(ctx, rec.ID, time.Time{})
	require.NoError(t, err)

	kinds := make(map[audit.EventKind]int)
	for _, ev := range events {
		kinds[ev.Kind]++
	}
	require.Equal(t, 1, kinds[audit.EventKindSave], "the status change is stored as a save")
	require.Equal(t, 1, kinds[audit.EventKindStatusChange])
	require.Equal(t, 1, kinds[audit.EventKindApproval])
	require.Equal(t, 1, kinds[audit.EventKindChat])

	for i := 1; i < len(events); i++ {
		require.False(t, events[i].At.Before(events[i-1].At))
	}
}
