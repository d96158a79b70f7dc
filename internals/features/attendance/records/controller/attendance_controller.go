package controller

import (
	"strings"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	attendanceDTO "umuganda_backend/internals/features/attendance/records/dto"
	attendanceModel "umuganda_backend/internals/features/attendance/records/model"
	attendanceRepo "umuganda_backend/internals/features/attendance/records/repository"
	attendanceService "umuganda_backend/internals/features/attendance/records/service"
	auditService "umuganda_backend/internals/features/audit/service"
	passRepo "umuganda_backend/internals/features/passes/repository"
	passService "umuganda_backend/internals/features/passes/service"
	helper "umuganda_backend/internals/helpers"
	"umuganda_backend/internals/helpers/access"
	helperAuth "umuganda_backend/internals/helpers/auth"
	"umuganda_backend/internals/helpers/qr"
	"umuganda_backend/internals/helpers/sms"
)

var validate = validator.New()

type AttendanceController struct {
	DB      *gorm.DB
	Service *attendanceService.AttendanceService
	Audit   *auditService.AuditService
}

func NewAttendanceController(db *gorm.DB) *AttendanceController {
	passes := passService.NewPassService(passRepo.NewGormPassRepository(db), sms.NewSenderFromEnv(), qr.NewRenderer())
	return &AttendanceController{
		DB:      db,
		Service: attendanceService.NewAttendanceService(attendanceRepo.NewGormAttendanceRepository(db), passes),
		Audit:   auditService.NewAuditService(db),
	}
}

// POST /api/attendance
func (ctl *AttendanceController) Create(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	var req attendanceDTO.CreateAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	if _, err := access.EnsureSessionAccess(c.Context(), ctl.DB, actor, req.SessionID); err != nil {
		return helper.JsonAppError(c, err)
	}

	record, err := ctl.Service.Create(c.Context(), req)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonCreated(c, "Attendance recorded", record)
}

// PATCH /api/attendance/:attendance_id
func (ctl *AttendanceController) UpdateStatus(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	recordID, err := uuid.Parse(c.Params("attendance_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid attendance id")
	}

	var req attendanceDTO.UpdateAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Status = strings.ToUpper(strings.TrimSpace(req.Status))
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	if _, err := access.EnsureAttendanceAccess(c.Context(), ctl.DB, actor, recordID); err != nil {
		return helper.JsonAppError(c, err)
	}

	result, err := ctl.Service.UpdateStatus(c.Context(), actor, recordID, req)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	details, _ := sonic.Marshal(fiber.Map{"attendance_id": recordID, "status": req.Status})
	ctl.Audit.Record(c.Context(), &actor, actor.ID.String(), "ATTENDANCE_STATUS_CHANGED", details, c.IP(), c.Get(fiber.HeaderUserAgent))

	return helper.JsonUpdated(c, "Attendance updated", result)
}

// GET /api/attendance
func (ctl *AttendanceController) List(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	filters := attendanceDTO.ListAttendanceFilters{
		SessionID:  queryUUID(c, "session_id"),
		DistrictID: queryUUID(c, "district_id"),
		ChurchID:   queryUUID(c, "church_id"),
	}
	if status := strings.ToUpper(strings.TrimSpace(c.Query("status"))); status != "" {
		if status != attendanceModel.StatusPending && status != attendanceModel.StatusApproved {
			return helper.JsonError(c, fiber.StatusBadRequest, "Unknown attendance status filter")
		}
		filters.Status = &status
	}

	paging := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctl.Service.List(c.Context(), actor, filters, paging.Limit, paging.Offset)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonList(c, "Attendance records", rows, helper.BuildPagination(total, paging.Page, paging.PerPage))
}

func queryUUID(c *fiber.Ctx, key string) *uuid.UUID {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}
