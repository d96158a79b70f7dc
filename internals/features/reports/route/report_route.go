package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"umuganda_backend/internals/constants"
	reportController "umuganda_backend/internals/features/reports/controller"
	authMiddleware "umuganda_backend/internals/middlewares/auth"
)

func ReportRoutes(api fiber.Router, db *gorm.DB) {
	ctl := reportController.NewReportController(db)

	reports := api.Group("/reports",
		authMiddleware.OnlyRoles("Only admins may view reports", constants.ReportViewerRoles...),
	)
	reports.Get("/attendance", ctl.Attendance)
}
