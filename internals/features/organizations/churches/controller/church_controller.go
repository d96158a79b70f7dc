package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	churchDTO "umuganda_backend/internals/features/organizations/churches/dto"
	churchModel "umuganda_backend/internals/features/organizations/churches/model"
	helper "umuganda_backend/internals/helpers"
	"umuganda_backend/internals/helpers/access"
	helperAuth "umuganda_backend/internals/helpers/auth"
)

var validate = validator.New()

type ChurchController struct {
	DB *gorm.DB
}

func NewChurchController(db *gorm.DB) *ChurchController {
	return &ChurchController{DB: db}
}

// POST /api/churches
// The target district is access-checked, so a district admin can only create
// churches inside their own district.
func (ctl *ChurchController) Create(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	var req churchDTO.CreateChurchRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	if _, err := access.EnsureDistrictAccess(c.Context(), ctl.DB, actor, req.DistrictID); err != nil {
		return helper.JsonAppError(c, err)
	}

	church := churchModel.ChurchModel{
		ChurchDistrictID: req.DistrictID,
		ChurchName:       req.Name,
		ChurchLocation:   req.Location,
	}
	if err := ctl.DB.WithContext(c.Context()).Create(&church).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create church")
	}
	return helper.JsonCreated(c, "Church created", church)
}

// GET /api/churches
func (ctl *ChurchController) List(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	scope, err := access.ResolveListScope(actor, access.ListFilters{
		DistrictID: queryUUID(c, "district_id"),
		ChurchID:   queryUUID(c, "church_id"),
	})
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	paging := helper.ResolvePaging(c, 20, 100)
	query := ctl.DB.WithContext(c.Context()).
		Table("churches AS c").
		Joins("JOIN districts AS d ON d.district_id = c.church_district_id")
	if scope.UnionID != nil {
		query = query.Where("d.district_union_id = ?", *scope.UnionID)
	}
	if scope.DistrictID != nil {
		query = query.Where("c.church_district_id = ?", *scope.DistrictID)
	}
	if scope.ChurchID != nil {
		query = query.Where("c.church_id = ?", *scope.ChurchID)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count churches")
	}

	var churches []churchModel.ChurchModel
	if err := query.
		Select("c.*").
		Order("c.church_name ASC").
		Limit(paging.Limit).
		Offset(paging.Offset).
		Scan(&churches).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to list churches")
	}
	return helper.JsonList(c, "Churches", churches, helper.BuildPagination(total, paging.Page, paging.PerPage))
}

// GET /api/churches/:church_id
func (ctl *ChurchController) GetByID(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	churchID, err := uuid.Parse(c.Params("church_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid church id")
	}

	church, err := access.EnsureChurchAccess(c.Context(), ctl.DB, actor, churchID)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "Church detail", church)
}

// PATCH /api/churches/:church_id
func (ctl *ChurchController) Update(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	churchID, err := uuid.Parse(c.Params("church_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid church id")
	}

	var req churchDTO.UpdateChurchRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	if _, err := access.EnsureChurchAccess(c.Context(), ctl.DB, actor, churchID); err != nil {
		return helper.JsonAppError(c, err)
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["church_name"] = *req.Name
	}
	if req.Location != nil {
		updates["church_location"] = *req.Location
	}
	if len(updates) > 0 {
		if err := ctl.DB.WithContext(c.Context()).
			Model(&churchModel.ChurchModel{}).
			Where("church_id = ?", churchID).
			Updates(updates).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update church")
		}
	}

	church, err := access.EnsureChurchAccess(c.Context(), ctl.DB, actor, churchID)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonUpdated(c, "Church updated", church)
}

// DELETE /api/churches/:church_id
func (ctl *ChurchController) Delete(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	churchID, err := uuid.Parse(c.Params("church_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid church id")
	}

	if _, err := access.EnsureChurchAccess(c.Context(), ctl.DB, actor, churchID); err != nil {
		return helper.JsonAppError(c, err)
	}

	var members int64
	if err := ctl.DB.WithContext(c.Context()).
		Table("users").
		Where("user_church_id = ?", churchID).
		Count(&members).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to check church usage")
	}
	if members > 0 {
		return helper.JsonError(c, fiber.StatusConflict, "Church still has members or admins")
	}

	if err := ctl.DB.WithContext(c.Context()).
		Where("church_id = ?", churchID).
		Delete(&churchModel.ChurchModel{}).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete church")
	}
	return helper.JsonDeleted(c, "Church deleted", fiber.Map{"church_id": churchID})
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
