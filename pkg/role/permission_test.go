package role

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermissionSet_ContainsAll(t *testing.T) {
	set := NewPermissionSet(ManageClients, ManageSuppliers, ViewReports)

	assert.True(t, set.ContainsAll())
	assert.True(t, set.ContainsAll(ManageClients))
	assert.True(t, set.ContainsAll(ViewReports, ManageClients, ManageClients))
	// all but one is still a denial
	assert.False(t, set.ContainsAll(ManageClients, ManageSuppliers, ViewReports, ManageUsers))
}

func TestPermissionSet_ContainsAny(t *testing.T) {
	set := NewPermissionSet(ViewReports)

	assert.True(t, set.ContainsAny(ManageClients, ViewReports))
	assert.False(t, set.ContainsAny(ManageClients, ManageUsers))
	assert.False(t, set.ContainsAny())
	assert.False(t, NewPermissionSet().ContainsAny(ViewReports))
}

func TestPermissionSet_ListIsDedupedAndSorted(t *testing.T) {
	set := NewPermissionSet(ViewReports, ManageClients, ViewReports)
	assert.Equal(t, []Permission{ManageClients, ViewReports}, set.List())
}

func TestPermissionValid(t *testing.T) {
	assert.True(t, ManageUsers.Valid())
	assert.False(t, Permission("DROP_TABLES").Valid())
	assert.Len(t, PermissionCodes(), len(AllPermissions()))
}
