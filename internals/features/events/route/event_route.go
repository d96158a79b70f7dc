package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"umuganda_backend/internals/constants"
	eventController "umuganda_backend/internals/features/events/controller"
	authMiddleware "umuganda_backend/internals/middlewares/auth"
)

// EventRoutes mounts union-wide Umuganda events. Union admins manage the
// calendar, every admin tier reads it, church admins scan members in.
func EventRoutes(api fiber.Router, db *gorm.DB) {
	ctl := eventController.NewEventController(db)

	events := api.Group("/umuganda-events")
	events.Get("/",
		authMiddleware.OnlyRoles("Only admins may view Umuganda events", constants.AdminRoles...),
		ctl.List,
	)
	events.Post("/",
		authMiddleware.OnlyRoles("Only union admins may create Umuganda events", constants.RoleUnionAdmin),
		ctl.Create,
	)
	events.Get("/:event_id",
		authMiddleware.OnlyRoles("Only admins may view Umuganda events", constants.AdminRoles...),
		ctl.GetByID,
	)
	events.Patch("/:event_id",
		authMiddleware.OnlyRoles("Only union admins may update Umuganda events", constants.RoleUnionAdmin),
		ctl.Update,
	)
	events.Delete("/:event_id",
		authMiddleware.OnlyRoles("Only union admins may delete Umuganda events", constants.RoleUnionAdmin),
		ctl.Delete,
	)
	events.Get("/:event_id/attendance",
		authMiddleware.OnlyRoles("Only admins may view event attendance", constants.AdminRoles...),
		ctl.ListAttendance,
	)
	events.Post("/:event_id/attendance",
		authMiddleware.OnlyRoles("Only church admins may record event attendance", constants.RoleChurchAdmin),
		ctl.CheckIn,
	)
}
