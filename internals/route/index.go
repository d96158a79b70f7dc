package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attendanceRoute "umuganda_backend/internals/features/attendance/records/route"
	sessionRoute "umuganda_backend/internals/features/attendance/sessions/route"
	auditRoute "umuganda_backend/internals/features/audit/route"
	eventRoute "umuganda_backend/internals/features/events/route"
	organizationRoute "umuganda_backend/internals/features/organizations/route"
	passRoute "umuganda_backend/internals/features/passes/route"
	reportRoute "umuganda_backend/internals/features/reports/route"
	userRoute "umuganda_backend/internals/features/users/route"
	authMiddleware "umuganda_backend/internals/middlewares/auth"
)

// SetupRoutes wires the public auth endpoints and the JWT-protected API tree.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	BaseRoutes(app)

	public := app.Group("/api")
	userRoute.AuthRoutes(public, db)

	api := app.Group("/api", authMiddleware.AuthMiddleware(db))
	userRoute.AuthProtectedRoutes(api, db)
	userRoute.UserRoutes(api, db)
	organizationRoute.OrganizationRoutes(api, db)
	sessionRoute.SessionRoutes(api, db)
	attendanceRoute.AttendanceRoutes(api, db)
	passRoute.PassRoutes(api, db)
	eventRoute.EventRoutes(api, db)
	reportRoute.ReportRoutes(api, db)
	auditRoute.AuditRoutes(api, db)
}
