// Package stages encodes the fixed six-stage approval chain:
// Costing → QA → Final Authorization → Designer → Final QA → PM.
// The chain is a single ordered data table consumed by one derivation loop,
// so a later stage can never become actionable before its predecessor is
// approved.
package stages

import (
	"github.com/avjabalpur/cian-erp-sub001/internal/approval"
	"github.com/avjabalpur/cian-erp-sub001/internal/rbac"
)

// Tag identifies one approval stage.
type Tag string

const (
	TagCosting            Tag = "costing"
	TagQA                 Tag = "qa"
	TagFinalAuthorization Tag = "final-authorization"
	TagDesigner           Tag = "designer"
	TagFinalQA            Tag = "final-qa"
	TagPM                 Tag = "pm"
)

// State is the derived state of one stage for a given record.
type State string

const (
	// Hidden means the stage's visibility precondition is not met.
	Hidden State = "HIDDEN"
	// ActionRequired means the stage is the next one awaiting a decision.
	ActionRequired State = "ACTION-REQUIRED"
	// Approved means the stage's flag is set.
	Approved State = "APPROVED"
)

// Spec declares one stage of the chain.
type Spec struct {
	Tag   Tag
	Title string
	// Roles allowed to record a decision. Admin always qualifies.
	Roles []rbac.Role
	// Flag reads the stage's approval boolean from the record flags.
	Flag func(approval.Flags) bool
	// SetFlag writes the stage's approval boolean.
	SetFlag func(*approval.Flags, bool)
}

// Chain is the ordered stage table. Order is load-bearing: each stage's
// visibility requires the previous stage's flag.
var Chain = []Spec{
	{
		Tag:     TagCosting,
		Title:   "Costing Approval",
		Roles:   []rbac.Role{rbac.RoleCostingAdmin},
		Flag:    func(f approval.Flags) bool { return f.Costing },
		SetFlag: func(f *approval.Flags, v bool) { f.Costing = v },
	},
	{
		Tag:     TagQA,
		Title:   "QA Approval",
		Roles:   []rbac.Role{rbac.RoleQAAdmin},
		Flag:    func(f approval.Flags) bool { return f.QA },
		SetFlag: func(f *approval.Flags, v bool) { f.QA = v },
	},
	{
		Tag:     TagFinalAuthorization,
		Title:   "Final Authorization",
		Roles:   []rbac.Role{rbac.RoleAuthorizationAdmin},
		Flag:    func(f approval.Flags) bool { return f.FinalAuthorization },
		SetFlag: func(f *approval.Flags, v bool) { f.FinalAuthorization = v },
	},
	{
		Tag:     TagDesigner,
		Title:   "Designer Approval",
		Roles:   []rbac.Role{rbac.RoleDesignAdmin},
		Flag:    func(f approval.Flags) bool { return f.Designer },
		SetFlag: func(f *approval.Flags, v bool) { f.Designer = v },
	},
	{
		Tag:     TagFinalQA,
		Title:   "Final QA Approval",
		Roles:   []rbac.Role{rbac.RoleFinalQAAdmin},
		Flag:    func(f approval.Flags) bool { return f.FinalQA },
		SetFlag: func(f *approval.Flags, v bool) { f.FinalQA = v },
	},
	{
		Tag:     TagPM,
		Title:   "PM Approval",
		Roles:   []rbac.Role{rbac.RolePMAdmin},
		Flag:    func(f approval.Flags) bool { return f.PM },
		SetFlag: func(f *approval.Flags, v bool) { f.PM = v },
	},
}

// ByTag returns the stage spec for a tag.
func ByTag(tag Tag) (Spec, bool) {
	for _, spec := range Chain {
		if spec.Tag == tag {
			return spec, true
		}
	}
	return Spec{}, false
}

// ChainVisible reports whether the approval chain renders at all for the
// record's status. This is the first stage's predecessor condition.
func ChainVisible(status approval.Status) bool {
	switch status {
	case approval.StatusSOConfirmed, approval.StatusAddedToProgen, approval.StatusRequestChanges:
		return true
	}
	return false
}

// StageState is one stage's derived state in chain order.
type StageState struct {
	Tag   Tag   `json:"tag"`
	Title string `json:"title"`
	State State `json:"state"`
}

// States derives every stage's state from the record snapshot. Each stage is
// gated on the previous stage's derived state rather than its raw flag, so
// reverting an earlier stage collapses every later stage back to Hidden even
// when those stages' flags are still set. No cascade is stored.
func States(rec approval.State) []StageState {
	out := make([]StageState, 0, len(Chain))
	prevApproved := ChainVisible(rec.Status)
	for _, spec := range Chain {
		st := Hidden
		if prevApproved {
			if spec.Flag(rec.Flags) {
				st = Approved
			} else {
				st = ActionRequired
			}
		}
		out = append(out, StageState{Tag: spec.Tag, Title: spec.Title, State: st})
		prevApproved = st == Approved
	}
	return out
}

// StateOf derives the state of a single stage.
func StateOf(tag Tag, rec approval.State) State {
	for _, st := range States(rec) {
		if st.Tag == tag {
			return st.State
		}
	}
	return Hidden
}

// CanDecide reports whether the role set may record a decision on the stage.
// The check is role-only; callers must separately require the stage to render
// before accepting any decision on it.
func CanDecide(tag Tag, roles rbac.RoleSet) bool {
	spec, ok := ByTag(tag)
	if !ok {
		return false
	}
	return roles.IsAdmin() || roles.HasAny(spec.Roles...)
}

// CanRequestReapproval reports whether the actor may revert an approved
// stage back to ActionRequired. Two pathways exist, deliberately kept as
// separate cases:
//
//  1. the record creator acting under the BD role, while the approval chain
//     is visible for the record's status;
//  2. a design-admin, for the Final Authorization stage only, while the
//     Designer stage's own flag is still false.
func CanRequestReapproval(tag Tag, rec approval.State, roles rbac.RoleSet, isCreator bool) bool {
	spec, ok := ByTag(tag)
	if !ok || !spec.Flag(rec.Flags) {
		return false
	}
	if isCreator && roles.Has(rbac.RoleBusinessDevelopment) && ChainVisible(rec.Status) {
		return true
	}
	if tag == TagFinalAuthorization && roles.Has(rbac.RoleDesignAdmin) && !rec.Flags.Designer {
		return true
	}
	return false
}
