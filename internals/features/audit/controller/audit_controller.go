package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	auditService "umuganda_backend/internals/features/audit/service"
	helper "umuganda_backend/internals/helpers"
)

type AuditController struct {
	DB      *gorm.DB
	Service *auditService.AuditService
}

func NewAuditController(db *gorm.DB) *AuditController {
	return &AuditController{
		DB:      db,
		Service: auditService.NewAuditService(db),
	}
}

// GET /api/audit-logs
func (ctl *AuditController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 50, 200)
	filters := auditService.ListFilters{
		Action: strings.TrimSpace(c.Query("action")),
		Limit:  paging.Limit,
		Offset: paging.Offset,
	}
	if raw := strings.TrimSpace(c.Query("user_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid user id")
		}
		filters.UserID = &id
	}

	entries, total, err := ctl.Service.List(c.Context(), filters)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonList(c, "Audit logs", entries, helper.BuildPagination(total, paging.Page, paging.PerPage))
}
