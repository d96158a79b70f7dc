package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	adminDTO "umuganda_backend/internals/features/users/churchadmin/dto"
	adminService "umuganda_backend/internals/features/users/churchadmin/service"
	helper "umuganda_backend/internals/helpers"
	helperAuth "umuganda_backend/internals/helpers/auth"
)

var validate = validator.New()

type ChurchAdminController struct {
	Service *adminService.ChurchAdminService
}

func NewChurchAdminController(db *gorm.DB) *ChurchAdminController {
	return &ChurchAdminController{Service: adminService.NewChurchAdminService(db)}
}

// POST /api/church-admins
func (ctl *ChurchAdminController) Create(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	var req adminDTO.CreateChurchAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	resp, err := ctl.Service.Create(c.Context(), actor, req)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonCreated(c, "Church administrator created", resp)
}

// GET /api/church-admins
func (ctl *ChurchAdminController) List(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	admins, err := ctl.Service.List(c.Context(), actor, queryUUID(c, "district_id"), queryUUID(c, "church_id"))
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "Church administrators", admins)
}

// PATCH /api/church-admins/:admin_id
func (ctl *ChurchAdminController) Update(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	adminID, err := uuid.Parse(c.Params("admin_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid admin id")
	}

	var req adminDTO.UpdateChurchAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	resp, err := ctl.Service.Update(c.Context(), actor, adminID, req)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonUpdated(c, "Church administrator updated", resp)
}

// DELETE /api/church-admins/:admin_id
func (ctl *ChurchAdminController) Delete(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	adminID, err := uuid.Parse(c.Params("admin_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid admin id")
	}

	if err := ctl.Service.Delete(c.Context(), actor, adminID); err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonDeleted(c, "Church administrator deleted", fiber.Map{"admin_id": adminID})
}

func queryUUID(c *fiber.Ctx, key string) *uuid.UUID {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}
