package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanCreateRoleLadder(t *testing.T) {
	assert.True(t, CanCreateRole(RoleUnionAdmin, RoleDistrictAdmin))
	assert.True(t, CanCreateRole(RoleDistrictAdmin, RoleChurchAdmin))
	assert.True(t, CanCreateRole(RoleChurchAdmin, RoleMember))

	// no role may create its own kind
	assert.False(t, CanCreateRole(RoleUnionAdmin, RoleUnionAdmin))
	assert.False(t, CanCreateRole(RoleDistrictAdmin, RoleDistrictAdmin))
	assert.False(t, CanCreateRole(RoleChurchAdmin, RoleChurchAdmin))

	// no skipping a level
	assert.False(t, CanCreateRole(RoleUnionAdmin, RoleChurchAdmin))
	assert.False(t, CanCreateRole(RoleUnionAdmin, RoleMember))
	assert.False(t, CanCreateRole(RoleDistrictAdmin, RoleMember))

	// non-admin roles create nothing
	assert.False(t, CanCreateRole(RoleMember, RoleMember))
	assert.False(t, CanCreateRole(RolePoliceVerifier, RoleMember))
}

func TestCanManageAttendance(t *testing.T) {
	assert.True(t, CanManageAttendance(RoleChurchAdmin))
	assert.False(t, CanManageAttendance(RoleUnionAdmin))
	assert.False(t, CanManageAttendance(RoleDistrictAdmin))
	assert.False(t, CanManageAttendance(RoleMember))
	assert.False(t, CanManageAttendance(RolePoliceVerifier))
}

func TestCanViewReports(t *testing.T) {
	assert.True(t, CanViewReports(RoleUnionAdmin))
	assert.True(t, CanViewReports(RoleDistrictAdmin))
	assert.True(t, CanViewReports(RoleChurchAdmin))
	assert.False(t, CanViewReports(RoleMember))
	assert.False(t, CanViewReports(RolePoliceVerifier))
}
