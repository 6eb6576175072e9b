package records

import (
	"github.com/avjabalpur/cian-erp-sub001/internal/approval"
	"github.com/avjabalpur/cian-erp-sub001/internal/audit"
)

type CreateRecordRequest struct {
	Dosage string `json:"dosage" validate:"required"`
}

// SaveRequest carries the unsaved edit overlay. Clients also send their own
// before/after diff; the server recomputes it from persisted state and only
// uses the client copy as an integrity cross-check.
type SaveRequest struct {
	Fields     map[string]string   `json:"fields" validate:"required,min=1"`
	ClientDiff map[string]DiffPair `json:"save_diff,omitempty"`
}

type DiffPair struct {
	Previous string `json:"previous"`
	New      string `json:"new"`
}

type SaveResponse struct {
	NoOp bool          `json:"no_op"`
	Diff audit.DiffMap `json:"diff,omitempty"`
}

type DecisionRequest struct {
	Decision string `json:"decision" validate:"required,oneof=APPROVE REQUEST-CHANGES"`
	Comment  string `json:"comment" validate:"max=2000"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type ListFilter struct {
	Status approval.Status
	Dosage approval.Dosage
	Limit  int `validate:"gte=0,lte=500"`
	Offset int `validate:"gte=0"`
}

// FieldLayout is the resolved presentation contract for one field.
type FieldLayout struct {
	Title    string `json:"title"`
	Kind     string `json:"kind"`
	Visible  bool   `json:"visible"`
	Editable bool   `json:"editable"`
}

// LayoutResponse is what a form renderer needs: per-field access decisions
// plus the candidate key lists for copy-from-previous and Progen compare.
// Hidden fields never appear in either candidate list.
type LayoutResponse struct {
	Fields        map[string]FieldLayout `json:"fields"`
	CopyFields    []string               `json:"copy_fields"`
	CompareFields []string               `json:"compare_fields"`
}
