package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	pastorDTO "umuganda_backend/internals/features/organizations/pastors/dto"
	pastorService "umuganda_backend/internals/features/organizations/pastors/service"
	helper "umuganda_backend/internals/helpers"
	helperAuth "umuganda_backend/internals/helpers/auth"
)

var validate = validator.New()

type PastorController struct {
	Service *pastorService.PastorService
}

func NewPastorController(db *gorm.DB) *PastorController {
	return &PastorController{Service: pastorService.NewPastorService(db)}
}

// POST /api/district-pastors
func (ctl *PastorController) Create(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	var req pastorDTO.CreatePastorRequest
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
	return helper.JsonCreated(c, "District pastor created", resp)
}

// GET /api/district-pastors
func (ctl *PastorController) List(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	var districtID *uuid.UUID
	if raw := c.Query("district_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid district id")
		}
		districtID = &id
	}

	pastors, err := ctl.Service.List(c.Context(), actor, districtID)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "District pastors", pastors)
}

// PATCH /api/district-pastors/:pastor_id
func (ctl *PastorController) Update(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	pastorID, err := uuid.Parse(c.Params("pastor_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid pastor id")
	}

	var req pastorDTO.UpdatePastorRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	pastor, err := ctl.Service.Update(c.Context(), actor, pastorID, req)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonUpdated(c, "District pastor updated", pastor)
}

// PUT /api/district-pastors/:pastor_id/churches
func (ctl *PastorController) AssignChurches(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	pastorID, err := uuid.Parse(c.Params("pastor_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid pastor id")
	}

	var req pastorDTO.AssignChurchesRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.ChurchIDs == nil {
		req.ChurchIDs = []uuid.UUID{}
	}

	pastor, err := ctl.Service.AssignChurches(c.Context(), actor, pastorID, req.ChurchIDs)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonUpdated(c, "Churches assigned", pastor)
}

// DELETE /api/district-pastors/:pastor_id
func (ctl *PastorController) Delete(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	pastorID, err := uuid.Parse(c.Params("pastor_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid pastor id")
	}

	if err := ctl.Service.Delete(c.Context(), actor, pastorID); err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonDeleted(c, "District pastor deleted", fiber.Map{"pastor_id": pastorID})
}
