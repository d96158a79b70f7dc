package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	passRepo "umuganda_backend/internals/features/passes/repository"
	passService "umuganda_backend/internals/features/passes/service"
	helper "umuganda_backend/internals/helpers"
	"umuganda_backend/internals/helpers/access"
	helperAuth "umuganda_backend/internals/helpers/auth"
	"umuganda_backend/internals/helpers/qr"
	"umuganda_backend/internals/helpers/sms"
)

type PassController struct {
	DB      *gorm.DB
	Service *passService.PassService
}

func NewPassController(db *gorm.DB) *PassController {
	repo := passRepo.NewGormPassRepository(db)
	return &PassController{
		DB:      db,
		Service: passService.NewPassService(repo, sms.NewSenderFromEnv(), qr.NewRenderer()),
	}
}

// POST /api/attendance/:attendance_id/pass
func (ctl *PassController) IssueForAttendance(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	attendanceID, err := uuid.Parse(c.Params("attendance_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid attendance id")
	}
	if _, err := access.EnsureAttendanceAccess(c.Context(), ctl.DB, actor, attendanceID); err != nil {
		return helper.JsonAppError(c, err)
	}

	pass, err := ctl.Service.IssueForAttendance(c.Context(), attendanceID)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonCreated(c, "Pass issued", pass)
}

// GET /api/passes/:token
func (ctl *PassController) VerifyToken(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	token := c.Params("token")
	if token == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "Missing pass token")
	}

	result, err := ctl.Service.VerifyToken(c.Context(), actor, token)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "Pass verified", result)
}

// DELETE /api/attendance/:attendance_id/pass
func (ctl *PassController) RevokeForAttendance(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	attendanceID, err := uuid.Parse(c.Params("attendance_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid attendance id")
	}
	if _, err := access.EnsureAttendanceAccess(c.Context(), ctl.DB, actor, attendanceID); err != nil {
		return helper.JsonAppError(c, err)
	}

	if err := ctl.Service.RevokeForAttendance(c.Context(), attendanceID); err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonDeleted(c, "Pass revoked", fiber.Map{"attendance_id": attendanceID})
}
