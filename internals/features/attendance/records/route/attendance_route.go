package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"umuganda_backend/internals/constants"
	attendanceController "umuganda_backend/internals/features/attendance/records/controller"
	authMiddleware "umuganda_backend/internals/middlewares/auth"
)

// AttendanceRoutes mounts record creation and transitions (church admin only)
// and the scoped listing open to every admin tier.
func AttendanceRoutes(api fiber.Router, db *gorm.DB) {
	ctl := attendanceController.NewAttendanceController(db)

	attendance := api.Group("/attendance")
	attendance.Get("/",
		authMiddleware.OnlyRoles("Only admins may view attendance", constants.AdminRoles...),
		ctl.List,
	)
	attendance.Post("/",
		authMiddleware.OnlyRoles("Only church admins may record attendance", constants.RoleChurchAdmin),
		ctl.Create,
	)
	attendance.Patch("/:attendance_id",
		authMiddleware.OnlyRoles("Only church admins may update attendance", constants.RoleChurchAdmin),
		ctl.UpdateStatus,
	)
}
