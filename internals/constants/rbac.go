package constants

// CanCreateRole is the account-creation ladder: each administrative tier may
// only create accounts one level below itself. A union admin cannot create a
// church admin directly; that goes through the district admin.
func CanCreateRole(actorRole, targetRole string) bool {
	switch actorRole {
	case RoleUnionAdmin:
		return targetRole == RoleDistrictAdmin
	case RoleDistrictAdmin:
		return targetRole == RoleChurchAdmin
	case RoleChurchAdmin:
		return targetRole == RoleMember
	default:
		return false
	}
}

// CanManageAttendance: only the church admin of the owning church may create
// or mutate attendance records.
func CanManageAttendance(role string) bool {
	return role == RoleChurchAdmin
}

func CanViewReports(role string) bool {
	return role == RoleUnionAdmin || role == RoleDistrictAdmin || role == RoleChurchAdmin
}
