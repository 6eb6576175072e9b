// Package access computes per-field visibility and editability for a
// sales-order record. Resolve is a pure function over the field catalog and
// a record snapshot; it is safe to call per render, per field, at any
// frequency.
package access

import (
	"github.com/avjabalpur/cian-erp-sub001/internal/approval"
	"github.com/avjabalpur/cian-erp-sub001/internal/approval/catalog"
	"github.com/avjabalpur/cian-erp-sub001/internal/rbac"
)

// Decision is the resolved access for one field.
type Decision struct {
	Visible  bool `json:"visible"`
	Editable bool `json:"editable"`
}

// Resolve computes the access decision for a single field.
//
// Visibility is dosage-driven and fails closed: a record with no dosage set
// hides every dosage-gated field. Editability is denied outright when the
// record is missing, frozen in ADDED-TO-PROGEN (email_sent excepted), the
// field is not in the catalog, or the field is render-only; otherwise admin,
// a matching edit role, or the unblocked creator may edit.
func Resolve(field catalog.FieldID, rec *approval.State, roles rbac.RoleSet, isCreator bool) Decision {
	spec, known := catalog.Lookup(field)
	if !known {
		return Decision{}
	}

	var d Decision
	if rec != nil {
		d.Visible = spec.VisibleFor(rec.Dosage)
	}

	switch {
	case rec == nil:
		return d
	case rec.Status == approval.StatusAddedToProgen && field != catalog.FieldEmailSent:
		// Hard status freeze, overrides every role.
		return d
	case spec.Kind == catalog.KindInfo || spec.Kind == catalog.KindComputed:
		return d
	}

	switch {
	case roles.IsAdmin():
		d.Editable = true
	case roles.HasAny(spec.EditRoles...):
		d.Editable = true
	case isCreator && !spec.BlockedForCreator:
		d.Editable = true
	}
	return d
}

// ResolveAll computes decisions for every catalog field.
func ResolveAll(rec *approval.State, roles rbac.RoleSet, isCreator bool) map[catalog.FieldID]Decision {
	out := make(map[catalog.FieldID]Decision, len(catalog.AllFields))
	for _, field := range catalog.AllFields {
		out[field] = Resolve(field, rec, roles, isCreator)
	}
	return out
}
