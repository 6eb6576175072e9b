package records

import (
	"strconv"
	"time"

	"github.com/avjabalpur/cian-erp-sub001/internal/approval"
	"github.com/avjabalpur/cian-erp-sub001/internal/approval/catalog"
	"github.com/avjabalpur/cian-erp-sub001/internal/audit"
)

// Record is the mutable sales-order document under approval.
type Record struct {
	ID        int64                       `json:"id"`
	Status    approval.Status             `json:"current_status"`
	Dosage    approval.Dosage             `json:"dosage"`
	Flags     approval.Flags              `json:"approvals"`
	EmailSent bool                        `json:"email_sent"`
	Fields    map[catalog.FieldID]string  `json:"fields"`
	CreatedBy int64                       `json:"created_by"`
	CreatedAt time.Time                   `json:"created_at"`
	UpdatedBy int64                       `json:"updated_by"`
	UpdatedAt time.Time                   `json:"updated_at"`
}

// State builds the snapshot consumed by the pure engine components.
func (r *Record) State() approval.State {
	return approval.State{Status: r.Status, Dosage: r.Dosage, Flags: r.Flags}
}

// IsCreator reports whether userID created the record.
func (r *Record) IsCreator(userID int64) bool {
	return r != nil && userID != 0 && r.CreatedBy == userID
}

// FieldValue returns the string form of one governed field. The
// workflow-owned trio maps onto typed columns; everything else lives in the
// Fields map. Missing values normalise to the empty string.
func (r *Record) FieldValue(id catalog.FieldID) string {
	switch id {
	case catalog.FieldCurrentStatus:
		return string(r.Status)
	case catalog.FieldDosage:
		return string(r.Dosage)
	case catalog.FieldEmailSent:
		return strconv.FormatBool(r.EmailSent)
	}
	return r.Fields[id]
}

// Values snapshots every governed field, keyed by field id.
func (r *Record) Values() map[catalog.FieldID]string {
	out := make(map[catalog.FieldID]string, len(catalog.AllFields))
	for _, id := range catalog.AllFields {
		out[id] = r.FieldValue(id)
	}
	return out
}

// setFieldValue writes one governed field back onto the record. Callers have
// already validated editability and, for the status field, the transition.
func (r *Record) setFieldValue(id catalog.FieldID, value string) {
	switch id {
	case catalog.FieldCurrentStatus:
		r.Status = approval.Status(value)
	case catalog.FieldDosage:
		r.Dosage = approval.Dosage(value)
	case catalog.FieldEmailSent:
		r.EmailSent = value == "true"
	default:
		if r.Fields == nil {
			r.Fields = make(map[catalog.FieldID]string)
		}
		r.Fields[id] = value
	}
}

// applyDiff writes a computed diff's new values onto the record.
func (r *Record) applyDiff(diff audit.DiffMap) {
	for field, entry := range diff {
		r.setFieldValue(field, entry.New)
	}
}

// ApprovalComment is an immutable row appended as a side effect of an
// approval-stage action.
type ApprovalComment struct {
	ID       int64             `json:"id"`
	RecordID int64             `json:"record_id"`
	Stage    string            `json:"stage"`
	Decision approval.Decision `json:"decision"`
	Comment  string            `json:"comment"`
	AuthorID int64             `json:"author_id"`
	At       time.Time         `json:"at"`
}

// SaveTransaction is an immutable row recording one save's diff.
type SaveTransaction struct {
	ID       int64         `json:"id"`
	RecordID int64         `json:"record_id"`
	AuthorID int64         `json:"author_id"`
	At       time.Time     `json:"at"`
	Diff     audit.DiffMap `json:"diff"`
}
