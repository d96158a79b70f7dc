package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"umuganda_backend/internals/constants"
	auditController "umuganda_backend/internals/features/audit/controller"
	authMiddleware "umuganda_backend/internals/middlewares/auth"
)

func AuditRoutes(api fiber.Router, db *gorm.DB) {
	ctl := auditController.NewAuditController(db)

	logs := api.Group("/audit-logs",
		authMiddleware.OnlyRoles("Only union admins may view audit logs", constants.RoleUnionAdmin),
	)
	logs.Get("/", ctl.List)
}
