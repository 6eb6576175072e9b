package access

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avjabalpur/cian-erp-sub001/internal/approval"
	"github.com/avjabalpur/cian-erp-sub001/internal/approval/catalog"
	"github.com/avjabalpur/cian-erp-sub001/internal/rbac"
)

func confirmedState(d approval.Dosage) *approval.State {
	return &approval.State{Status: approval.StatusSOConfirmed, Dosage: d}
}

func TestResolveUnknownFieldDeniesEverything(t *testing.T) {
	d := Resolve(catalog.FieldID("bogus"), confirmedState(approval.DosageTablet), rbac.NewRoleSet(rbac.RoleAdmin), true)
	require.False(t, d.Visible)
	require.False(t, d.Editable)
}

func TestResolveNilRecordFailsClosed(t *testing.T) {
	d := Resolve(catalog.FieldCustomerName, nil, rbac.NewRoleSet(rbac.RoleAdmin), true)
	require.False(t, d.Visible)
	require.False(t, d.Editable)
}

func TestResolveMissingDosageHidesGatedFields(t *testing.T) {
	rec := confirmedState("")
	roles := rbac.NewRoleSet(rbac.RoleBusinessDevelopment)

	d := Resolve(catalog.FieldTabletSize, rec, roles, true)
	require.False(t, d.Visible)

	// Ungated fields stay visible.
	d = Resolve(catalog.FieldCustomerName, rec, roles, true)
	require.True(t, d.Visible)
}

func TestResolveProgenFreeze(t *testing.T) {
	rec := &approval.State{Status: approval.StatusAddedToProgen, Dosage: approval.DosageTablet}
	admin := rbac.NewRoleSet(rbac.RoleAdmin)

	for _, id := range catalog.AllFields {
		d := Resolve(id, rec, admin, true)
		if id == catalog.FieldEmailSent {
			require.True(t, d.Editable, "email_sent must stay editable after Progen entry")
			continue
		}
		require.False(t, d.Editable, "field %s must freeze after Progen entry", id)
	}
}

func TestResolveRenderOnlyKindsNeverEditable(t *testing.T) {
	rec := confirmedState(approval.DosageTablet)
	admin := rbac.NewRoleSet(rbac.RoleAdmin)

	require.False(t, Resolve(catalog.FieldCustomerCode, rec, admin, true).Editable)
	require.False(t, Resolve(catalog.FieldNoOfShippers, rec, admin, true).Editable)
	require.False(t, Resolve(catalog.FieldRevNo, rec, admin, true).Editable)
}

func TestResolveRoleAndCreatorRules(t *testing.T) {
	rec := confirmedState(approval.DosageTablet)

	// Matching edit role.
	d := Resolve(catalog.FieldBillingRate, rec, rbac.NewRoleSet(rbac.RoleCostingAdmin), false)
	require.True(t, d.Editable)

	// Non-matching role, not the creator.
	d = Resolve(catalog.FieldBillingRate, rec, rbac.NewRoleSet(rbac.RoleQAAdmin), false)
	require.False(t, d.Editable)

	// The creator edits ordinary fields...
	d = Resolve(catalog.FieldOrderRemarks, rec, rbac.NewRoleSet(rbac.RoleBusinessDevelopment), true)
	require.True(t, d.Editable)

	// ...but not the ones blocked for creators.
	d = Resolve(catalog.FieldBillingRate, rec, rbac.NewRoleSet(rbac.RoleBusinessDevelopment), true)
	require.False(t, d.Editable)

	// Admin bypasses the creator block.
	d = Resolve(catalog.FieldBillingRate, rec, rbac.NewRoleSet(rbac.RoleAdmin), false)
	require.True(t, d.Editable)
}

func TestResolveIsIdempotent(t *testing.T) {
	rec := confirmedState(approval.DosageCapsule)
	roles := rbac.NewRoleSet(rbac.RoleBusinessDevelopment, rbac.RoleQAAdmin)

	first := ResolveAll(rec, roles, true)
	second := ResolveAll(rec, roles, true)
	require.Equal(t, first, second)
}

func TestResolveAllCoversCatalog(t *testing.T) {
	out := ResolveAll(confirmedState(approval.DosageTablet), rbac.NewRoleSet(), false)
	require.Len(t, out, len(catalog.AllFields))
}
