package rbac

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoleValid(t *testing.T) {
	for _, r := range AllRoles {
		require.True(t, r.Valid(), r)
	}
	require.False(t, Role("superuser").Valid())
	require.False(t, Role("").Valid())
}

func TestNewRoleSetDropsUnknownRoles(t *testing.T) {
	set := NewRoleSet(RoleAdmin, Role("superuser"), RoleQAAdmin)
	require.Len(t, set, 2)
	require.True(t, set.Has(RoleAdmin))
	require.True(t, set.Has(RoleQAAdmin))
	require.False(t, set.Has(Role("superuser")))
}

func TestRoleSetQueries(t *testing.T) {
	set := NewRoleSet(RoleBusinessDevelopment, RoleDataEntry)

	require.True(t, set.HasAny(RoleQAAdmin, RoleDataEntry))
	require.False(t, set.HasAny(RoleQAAdmin, RolePMAdmin))
	require.False(t, set.IsAdmin())
	require.ElementsMatch(t, []Role{RoleBusinessDevelopment, RoleDataEntry}, set.Roles())

	require.True(t, NewRoleSet(RoleAdmin).IsAdmin())
	require.False(t, NewRoleSet().HasAny())
}
