package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	districtDTO "umuganda_backend/internals/features/organizations/districts/dto"
	districtModel "umuganda_backend/internals/features/organizations/districts/model"
	helper "umuganda_backend/internals/helpers"
	"umuganda_backend/internals/helpers/access"
	helperAuth "umuganda_backend/internals/helpers/auth"
)

var validate = validator.New()

type DistrictController struct {
	DB *gorm.DB
}

func NewDistrictController(db *gorm.DB) *DistrictController {
	return &DistrictController{DB: db}
}

// POST /api/districts
// A scoped union admin may only create districts inside their own union.
func (ctl *DistrictController) Create(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	var req districtDTO.CreateDistrictRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}
	if actor.UnionID != nil && *actor.UnionID != req.UnionID {
		return helper.JsonError(c, fiber.StatusForbidden, "Cannot create a district in another union")
	}

	district := districtModel.DistrictModel{
		DistrictUnionID: req.UnionID,
		DistrictName:    req.Name,
	}
	if err := ctl.DB.WithContext(c.Context()).Create(&district).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create district")
	}
	return helper.JsonCreated(c, "District created", district)
}

// GET /api/districts
func (ctl *DistrictController) List(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	scope, err := access.ResolveListScope(actor, access.ListFilters{
		DistrictID: queryUUID(c, "district_id"),
	})
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	paging := helper.ResolvePaging(c, 20, 100)
	query := ctl.DB.WithContext(c.Context()).Model(&districtModel.DistrictModel{})
	if scope.UnionID != nil {
		query = query.Where("district_union_id = ?", *scope.UnionID)
	}
	if scope.DistrictID != nil {
		query = query.Where("district_id = ?", *scope.DistrictID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count districts")
	}

	var districts []districtModel.DistrictModel
	if err := query.
		Order("district_name ASC").
		Limit(paging.Limit).
		Offset(paging.Offset).
		Find(&districts).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to list districts")
	}
	return helper.JsonList(c, "Districts", districts, helper.BuildPagination(total, paging.Page, paging.PerPage))
}

// GET /api/districts/:district_id
func (ctl *DistrictController) GetByID(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	districtID, err := uuid.Parse(c.Params("district_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid district id")
	}

	district, err := access.EnsureDistrictAccess(c.Context(), ctl.DB, actor, districtID)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "District detail", district)
}

// PATCH /api/districts/:district_id
func (ctl *DistrictController) Update(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	districtID, err := uuid.Parse(c.Params("district_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid district id")
	}

	var req districtDTO.UpdateDistrictRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	if _, err := access.EnsureDistrictAccess(c.Context(), ctl.DB, actor, districtID); err != nil {
		return helper.JsonAppError(c, err)
	}

	if req.Name != nil {
		if err := ctl.DB.WithContext(c.Context()).
			Model(&districtModel.DistrictModel{}).
			Where("district_id = ?", districtID).
			Update("district_name", *req.Name).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update district")
		}
	}

	district, err := access.EnsureDistrictAccess(c.Context(), ctl.DB, actor, districtID)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonUpdated(c, "District updated", district)
}

// DELETE /api/districts/:district_id
func (ctl *DistrictController) Delete(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	districtID, err := uuid.Parse(c.Params("district_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid district id")
	}

	if _, err := access.EnsureDistrictAccess(c.Context(), ctl.DB, actor, districtID); err != nil {
		return helper.JsonAppError(c, err)
	}

	var churches int64
	if err := ctl.DB.WithContext(c.Context()).
		Table("churches").
		Where("church_district_id = ?", districtID).
		Count(&churches).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to check district usage")
	}
	if churches > 0 {
		return helper.JsonError(c, fiber.StatusConflict, "District still has churches")
	}

	if err := ctl.DB.WithContext(c.Context()).
		Where("district_id = ?", districtID).
		Delete(&districtModel.DistrictModel{}).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete district")
	}
	return helper.JsonDeleted(c, "District deleted", fiber.Map{"district_id": districtID})
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
