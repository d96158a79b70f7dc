package controller

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	reportService "umuganda_backend/internals/features/reports/service"
	helper "umuganda_backend/internals/helpers"
	"umuganda_backend/internals/helpers/access"
	helperAuth "umuganda_backend/internals/helpers/auth"
)

type ReportController struct {
	DB      *gorm.DB
	Service *reportService.ReportService
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{
		DB:      db,
		Service: reportService.NewReportService(db),
	}
}

// GET /api/reports/attendance
func (ctl *ReportController) Attendance(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	filters := access.ListFilters{}
	if filters.DistrictID, err = queryUUID(c, "district_id"); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid district id")
	}
	if filters.ChurchID, err = queryUUID(c, "church_id"); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid church id")
	}
	scope, err := access.ResolveListScope(actor, filters)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	query := reportService.AttendanceReportQuery{Scope: scope}
	if query.SessionID, err = queryUUID(c, "session_id"); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid session id")
	}
	if query.From, err = queryDate(c, "from"); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid from date, expected YYYY-MM-DD")
	}
	if query.To, err = queryDate(c, "to"); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid to date, expected YYYY-MM-DD")
	}

	report, err := ctl.Service.AttendanceByChurch(c.Context(), query)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "Attendance report", report)
}

func queryUUID(c *fiber.Ctx, key string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func queryDate(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
