package records

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/avjabalpur/cian-erp-sub001/internal/approval"
	"github.com/avjabalpur/cian-erp-sub001/internal/approval/access"
	"github.com/avjabalpur/cian-erp-sub001/internal/approval/catalog"
	"github.com/avjabalpur/cian-erp-sub001/internal/approval/stages"
	"github.com/avjabalpur/cian-erp-sub001/internal/approval/transition"
	"github.com/avjabalpur/cian-erp-sub001/internal/audit"
	"github.com/avjabalpur/cian-erp-sub001/internal/rbac"
)

var (
	// ErrPermissionDenied rejects an edit or approval action attempted
	// without the required role, before any state mutation.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrInvalidTransition rejects a status change outside the guard's
	// allowed set.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrValidation rejects malformed input.
	ErrValidation = errors.New("validation failed")
)

// Notifier enqueues the approval notification job after a decision. A nil
// notifier disables notifications.
type Notifier interface {
	NotifyDecision(ctx context.Context, recordID int64, stage string, decision approval.Decision, actorID int64) error
}

// TimelineSource contributes extra event groups (chat, documents) to the
// merged audit timeline.
type TimelineSource interface {
	Events(ctx context.Context, recordID int64) ([]audit.Event, error)
}

// Service coordinates the approval workflow over persisted records.
type Service struct {
	repo     Repository
	notifier Notifier
	sources  []TimelineSource
	logger   *slog.Logger
}

// NewService constructs the Service.
func NewService(repo Repository, notifier Notifier, logger *slog.Logger, sources ...TimelineSource) *Service {
	return &Service{repo: repo, notifier: notifier, sources: sources, logger: logger}
}

// Create opens a new record in IN-PROGRESS with only dosage and status set.
func (s *Service) Create(ctx context.Context, req CreateRecordRequest, createdBy int64) (*Record, error) {
	dosage := approval.Dosage(req.Dosage)
	if !dosage.Valid() {
		return nil, fmt.Errorf("%w: unknown dosage %q", ErrValidation, req.Dosage)
	}
	rec := Record{
		Status:    approval.StatusInProgress,
		Dosage:    dosage,
		Fields:    map[catalog.FieldID]string{},
		CreatedBy: createdBy,
		UpdatedBy: createdBy,
	}
	id, err := s.repo.Create(ctx, rec)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Get returns a record by id.
func (s *Service) Get(ctx context.Context, id int64) (*Record, error) {
	return s.repo.Get(ctx, id)
}

// List returns records matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Record, int, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown status %q", ErrValidation, filter.Status)
	}
	if filter.Dosage != "" && !filter.Dosage.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown dosage %q", ErrValidation, filter.Dosage)
	}
	return s.repo.List(ctx, filter)
}

// Layout resolves visibility and editability for every governed field, plus
// the copy-from-previous and Progen-compare candidate lists for the record's
// dosage. Hidden fields never enter either candidate list.
func (s *Service) Layout(ctx context.Context, id int64, roles rbac.RoleSet, actorID int64) (*LayoutResponse, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	state := rec.State()
	decisions := access.ResolveAll(&state, roles, rec.IsCreator(actorID))

	fields := make(map[string]FieldLayout, len(decisions))
	for fieldID, d := range decisions {
		spec, _ := catalog.Lookup(fieldID)
		fields[string(fieldID)] = FieldLayout{
			Title:    spec.Title,
			Kind:     string(spec.Kind),
			Visible:  d.Visible,
			Editable: d.Editable,
		}
	}
	return &LayoutResponse{
		Fields:        fields,
		CopyFields:    fieldIDStrings(catalog.CopyCandidates(rec.Dosage)),
		CompareFields: fieldIDStrings(catalog.CompareCandidates(rec.Dosage)),
	}, nil
}

// Save applies an edit overlay on top of whatever is currently persisted.
// The diff is recomputed server-side, every changed field is re-checked for
// editability, and any status change goes back through the transition guard.
// An empty diff is a reported no-op, not an error. Two concurrent editors
// are not detected; the last request wins.
func (s *Service) Save(ctx context.Context, id int64, req SaveRequest, actorID int64, roles rbac.RoleSet) (*SaveResponse, error) {
	overlay := make(map[catalog.FieldID]string, len(req.Fields))
	for name, value := range req.Fields {
		fieldID := catalog.FieldID(name)
		if !catalog.Known(fieldID) {
			return nil, fmt.Errorf("%w: unknown field %q", ErrValidation, name)
		}
		overlay[fieldID] = value
	}

	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	diff := audit.ComputeDiff(rec.Values(), overlay)
	if diff.Empty() {
		return &SaveResponse{NoOp: true}, nil
	}
	s.checkClientDiff(id, diff, req.ClientDiff)

	state := rec.State()
	isCreator := rec.IsCreator(actorID)
	for fieldID := range diff {
		if fieldID == catalog.FieldCurrentStatus {
			continue // validated by the transition guard below
		}
		if !access.Resolve(fieldID, &state, roles, isCreator).Editable {
			return nil, fmt.Errorf("%w: field %s is not editable", ErrPermissionDenied, fieldID)
		}
	}
	if entry, ok := diff[catalog.FieldCurrentStatus]; ok {
		target := approval.Status(entry.New)
		if !transition.CanTransition(state, target, roles, isCreator) {
			return nil, fmt.Errorf("%w: %s → %s", ErrInvalidTransition, rec.Status, target)
		}
	}

	rec.applyDiff(diff)
	rec.UpdatedBy = actorID
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if err := repo.Update(ctx, rec); err != nil {
			return err
		}
		return repo.InsertSaveTransaction(ctx, SaveTransaction{
			RecordID: id,
			AuthorID: actorID,
			Diff:     diff,
		})
	})
	if err != nil {
		return nil, err
	}
	return &SaveResponse{Diff: diff}, nil
}

// checkClientDiff cross-checks the diff the client claims against the one
// computed here. Mismatches indicate a stale client; they are logged, not
// fatal, because the server-side diff is authoritative.
func (s *Service) checkClientDiff(id int64, computed audit.DiffMap, client map[string]DiffPair) {
	if len(client) == 0 || s.logger == nil {
		return
	}
	if len(client) == len(computed) {
		equal := true
		for name := range client {
			if _, ok := computed[catalog.FieldID(name)]; !ok {
				equal = false
				break
			}
		}
		if equal {
			return
		}
	}
	s.logger.Warn("save diff mismatch with client",
		slog.Int64("record_id", id),
		slog.Int("client_fields", len(client)),
		slog.Int("computed_fields", len(computed)))
}

// StageStates derives the six stage cards for the record.
func (s *Service) StageStates(ctx context.Context, id int64) ([]stages.StageState, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return stages.States(rec.State()), nil
}

// Decide records an approval-stage decision. APPROVE sets the stage's flag
// and appends a comment; firing the same approval twice appends two comments
// and harmlessly re-sets the flag. REQUEST-CHANGES leaves the flag alone,
// forces the record into REQUEST-CHANGES and clears email_sent, all in one
// transaction.
func (s *Service) Decide(ctx context.Context, id int64, tag stages.Tag, req DecisionRequest, actorID int64, roles rbac.RoleSet) (*Record, error) {
	spec, ok := stages.ByTag(tag)
	if !ok {
		return nil, fmt.Errorf("%w: unknown stage %q", ErrValidation, tag)
	}
	decision := approval.Decision(req.Decision)
	if !decision.Valid() {
		return nil, fmt.Errorf("%w: unknown decision %q", ErrValidation, req.Decision)
	}
	if decision == approval.DecisionRequestChanges && req.Comment == "" {
		return nil, fmt.Errorf("%w: a request-changes decision requires a comment", ErrValidation)
	}
	if !stages.CanDecide(tag, roles) {
		return nil, fmt.Errorf("%w: stage %s requires one of %v", ErrPermissionDenied, tag, spec.Roles)
	}

	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if stages.StateOf(tag, rec.State()) == stages.Hidden {
		return nil, fmt.Errorf("%w: stage %s is not actionable yet", ErrInvalidTransition, tag)
	}

	switch decision {
	case approval.DecisionApprove:
		spec.SetFlag(&rec.Flags, true)
	case approval.DecisionRequestChanges:
		rec.Status = approval.StatusRequestChanges
		rec.EmailSent = false
	}
	rec.UpdatedBy = actorID

	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if err := repo.Update(ctx, rec); err != nil {
			return err
		}
		return repo.InsertComment(ctx, ApprovalComment{
			RecordID: id,
			Stage:    string(tag),
			Decision: decision,
			Comment:  req.Comment,
			AuthorID: actorID,
		})
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyDecision(ctx, id, string(tag), decision, actorID); err != nil {
			// The decision is already durable; notification failure only
			// delays the email.
			s.logger.Warn("enqueue decision notification", slog.Int64("record_id", id), slog.Any("error", err))
		}
	}
	return s.repo.Get(ctx, id)
}

// RequestReapproval reverts an approved stage back to ActionRequired through
// one of the two sanctioned pathways. Exactly the stage's own flag clears;
// later stages collapse to Hidden as a derived consequence.
func (s *Service) RequestReapproval(ctx context.Context, id int64, tag stages.Tag, actorID int64, roles rbac.RoleSet) (*Record, error) {
	spec, ok := stages.ByTag(tag)
	if !ok {
		return nil, fmt.Errorf("%w: unknown stage %q", ErrValidation, tag)
	}
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !stages.CanRequestReapproval(tag, rec.State(), roles, rec.IsCreator(actorID)) {
		return nil, fmt.Errorf("%w: re-approval of stage %s not permitted", ErrPermissionDenied, tag)
	}
	spec.SetFlag(&rec.Flags, false)
	rec.UpdatedBy = actorID
	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// ChangeStatus moves the record to target through the guard. The change is
// recorded as a save transaction so the timeline renders it like any other
// status move.
func (s *Service) ChangeStatus(ctx context.Context, id int64, target approval.Status, actorID int64, roles rbac.RoleSet) (*SaveResponse, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, target)
	}
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Status == target {
		return &SaveResponse{NoOp: true}, nil
	}
	if !transition.CanTransition(rec.State(), target, roles, rec.IsCreator(actorID)) {
		return nil, fmt.Errorf("%w: %s → %s", ErrInvalidTransition, rec.Status, target)
	}
	diff := audit.DiffMap{
		catalog.FieldCurrentStatus: {Previous: string(rec.Status), New: string(target)},
	}
	rec.Status = target
	rec.UpdatedBy = actorID
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if err := repo.Update(ctx, rec); err != nil {
			return err
		}
		return repo.InsertSaveTransaction(ctx, SaveTransaction{RecordID: id, AuthorID: actorID, Diff: diff})
	})
	if err != nil {
		return nil, err
	}
	return &SaveResponse{Diff: diff}, nil
}

// Comments lists the record's approval comments.
func (s *Service) Comments(ctx context.Context, id int64) ([]ApprovalComment, error) {
	return s.repo.ListComments(ctx, id)
}

// SaveTransactions lists the record's save history.
func (s *Service) SaveTransactions(ctx context.Context, id int64) ([]SaveTransaction, error) {
	return s.repo.ListSaveTransactions(ctx, id)
}

// Timeline merges approval comments, save transactions (with derived
// status-change markers) and the extra sources into one chronological view.
// lastRead is caller-owned; entries after it are flagged unread.
func (s *Service) Timeline(ctx context.Context, id int64, lastRead time.Time) ([]audit.Event, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}

	comments, err := s.repo.ListComments(ctx, id)
	if err != nil {
		return nil, err
	}
	approvalEvents := make([]audit.Event, 0, len(comments))
	for _, c := range comments {
		approvalEvents = append(approvalEvents, audit.Event{
			At:       c.At,
			Kind:     audit.EventKindApproval,
			ActorID:  c.AuthorID,
			Stage:    c.Stage,
			Decision: string(c.Decision),
			Body:     c.Comment,
		})
	}

	saves, err := s.repo.ListSaveTransactions(ctx, id)
	if err != nil {
		return nil, err
	}
	saveEvents := make([]audit.Event, 0, len(saves))
	for _, tx := range saves {
		saveEvents = append(saveEvents, audit.Event{
			At:      tx.At,
			Kind:    audit.EventKindSave,
			ActorID: tx.AuthorID,
			Diff:    tx.Diff,
		})
	}

	groups := [][]audit.Event{approvalEvents, saveEvents, audit.DeriveStatusChanges(saveEvents)}
	for _, source := range s.sources {
		events, err := source.Events(ctx, id)
		if err != nil {
			return nil, err
		}
		groups = append(groups, events)
	}
	return audit.MergeTimeline(lastRead, groups...), nil
}

func fieldIDStrings(ids []catalog.FieldID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, string(id))
	}
	sort.Strings(out)
	return out
}
