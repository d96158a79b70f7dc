package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"umuganda_backend/internals/constants"
	passController "umuganda_backend/internals/features/passes/controller"
	authMiddleware "umuganda_backend/internals/middlewares/auth"
)

// PassRoutes mounts pass issuance, verification and revocation. Verification
// is open to every admin tier plus police verifiers; issuance and revocation
// follow the attendance-management rule.
func PassRoutes(api fiber.Router, db *gorm.DB) {
	ctl := passController.NewPassController(db)

	verifiers := append([]string{constants.RolePoliceVerifier}, constants.AdminRoles...)

	passes := api.Group("/passes")
	passes.Get("/:token",
		authMiddleware.OnlyRoles("Only admins and police verifiers may verify passes", verifiers...),
		ctl.VerifyToken,
	)

	attendance := api.Group("/attendance")
	attendance.Post("/:attendance_id/pass",
		authMiddleware.OnlyRoles("Only church admins may issue passes", constants.RoleChurchAdmin),
		ctl.IssueForAttendance,
	)
	attendance.Delete("/:attendance_id/pass",
		authMiddleware.OnlyRoles("Only church admins may revoke passes", constants.RoleChurchAdmin),
		ctl.RevokeForAttendance,
	)
}
