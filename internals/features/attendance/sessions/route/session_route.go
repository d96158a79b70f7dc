package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"umuganda_backend/internals/constants"
	sessionController "umuganda_backend/internals/features/attendance/sessions/controller"
	authMiddleware "umuganda_backend/internals/middlewares/auth"
)

func SessionRoutes(api fiber.Router, db *gorm.DB) {
	ctl := sessionController.NewSessionController(db)

	sessions := api.Group("/sessions")
	sessions.Get("/",
		authMiddleware.OnlyRoles("Only admins may view sessions", constants.AdminRoles...),
		ctl.List,
	)
	sessions.Get("/:session_id",
		authMiddleware.OnlyRoles("Only admins may view sessions", constants.AdminRoles...),
		ctl.GetByID,
	)
	sessions.Post("/",
		authMiddleware.OnlyRoles("Only church admins may create sessions", constants.RoleChurchAdmin),
		ctl.Create,
	)
	sessions.Patch("/:session_id",
		authMiddleware.OnlyRoles("Only church admins may update sessions", constants.RoleChurchAdmin),
		ctl.Update,
	)
}
