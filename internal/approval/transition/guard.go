// Package transition validates top-level status changes of a sales-order
// record. The guard is consulted by clients before offering a status control
// and re-checked at save time; a status proposed by a stale client is never
// trusted.
package transition

import (
	"github.com/avjabalpur/cian-erp-sub001/internal/approval"
	"github.com/avjabalpur/cian-erp-sub001/internal/rbac"
)

// CanTransition reports whether the actor may move the record from its
// current status to target.
//
// Rules, in priority order:
//   - ADDED-TO-PROGEN requires the data-entry capability, all six approval
//     flags set, and a current status of SO-CONFIRMED or REQUEST-CHANGES.
//   - From ADDED-TO-PROGEN only REQUEST-CHANGES (BD, design-admin or
//     pm-admin) and CANCEL (BD) are reachable.
//   - CANCEL is terminal.
//   - Every other status is freely settable by admin, and by the record's
//     creator while the record is not frozen in ADDED-TO-PROGEN.
func CanTransition(rec approval.State, target approval.Status, roles rbac.RoleSet, isCreator bool) bool {
	if !target.Valid() {
		return false
	}
	if rec.Status == approval.StatusCancel {
		return false
	}
	if target == approval.StatusAddedToProgen {
		if !roles.Has(rbac.RoleDataEntry) {
			return false
		}
		if !rec.Flags.AllSet() {
			return false
		}
		return rec.Status == approval.StatusSOConfirmed || rec.Status == approval.StatusRequestChanges
	}
	if rec.Status == approval.StatusAddedToProgen {
		switch target {
		case approval.StatusRequestChanges:
			return roles.HasAny(rbac.RoleBusinessDevelopment, rbac.RoleDesignAdmin, rbac.RolePMAdmin)
		case approval.StatusCancel:
			return roles.Has(rbac.RoleBusinessDevelopment)
		}
		return false
	}
	if roles.IsAdmin() {
		return true
	}
	return isCreator
}
