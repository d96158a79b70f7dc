package constants

// Roles as stored in users.user_role and carried in JWT claims.
const (
	RoleUnionAdmin     = "UNION_ADMIN"
	RoleDistrictAdmin  = "DISTRICT_ADMIN"
	RoleChurchAdmin    = "CHURCH_ADMIN"
	RoleMember         = "MEMBER"
	RolePoliceVerifier = "POLICE_VERIFIER"
)

// ==========================
// Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleUnionAdmin,
		RoleDistrictAdmin,
		RoleChurchAdmin,
		RoleMember,
		RolePoliceVerifier,
	}

	// The three administrative tiers of the hierarchy.
	AdminRoles = []string{
		RoleUnionAdmin,
		RoleDistrictAdmin,
		RoleChurchAdmin,
	}

	ReportViewerRoles = []string{
		RoleUnionAdmin,
		RoleDistrictAdmin,
		RoleChurchAdmin,
	}

	// Password-reset delivery channel per role.
	EmailResetRoles = []string{
		RoleUnionAdmin,
		RoleDistrictAdmin,
		RoleChurchAdmin,
	}
	SmsResetRoles = []string{
		RoleMember,
		RolePoliceVerifier,
	}

	UnionAdminOnly     = []string{RoleUnionAdmin}
	ChurchAdminOnly    = []string{RoleChurchAdmin}
	PoliceVerifierOnly = []string{RolePoliceVerifier}
)

func RoleInList(role string, list []string) bool {
	for _, r := range list {
		if r == role {
			return true
		}
	}
	return false
}

func IsKnownRole(role string) bool {
	return RoleInList(role, AllRoles)
}
