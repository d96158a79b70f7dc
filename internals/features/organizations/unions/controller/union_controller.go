package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"umuganda_backend/internals/constants"
	unionDTO "umuganda_backend/internals/features/organizations/unions/dto"
	unionModel "umuganda_backend/internals/features/organizations/unions/model"
	helper "umuganda_backend/internals/helpers"
	helperAuth "umuganda_backend/internals/helpers/auth"
)

var validate = validator.New()

type UnionController struct {
	DB *gorm.DB
}

func NewUnionController(db *gorm.DB) *UnionController {
	return &UnionController{DB: db}
}

// unionVisible narrows to the actor's own union unless they are the super
// admin with no union pinned.
func unionVisible(actor helperAuth.Actor, unionID uuid.UUID) bool {
	return actor.UnionID == nil || *actor.UnionID == unionID
}

// POST /api/unions
func (ctl *UnionController) Create(c *fiber.Ctx) error {
	var req unionDTO.CreateUnionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	union := unionModel.UnionModel{
		UnionName:     req.Name,
		UnionLocation: req.Location,
	}
	if err := ctl.DB.WithContext(c.Context()).Create(&union).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "A union with this name already exists")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create union")
	}
	return helper.JsonCreated(c, "Union created", union)
}

// GET /api/unions
func (ctl *UnionController) List(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	paging := helper.ResolvePaging(c, 20, 100)
	query := ctl.DB.WithContext(c.Context()).Model(&unionModel.UnionModel{})
	if actor.UnionID != nil {
		query = query.Where("union_id = ?", *actor.UnionID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count unions")
	}

	var unions []unionModel.UnionModel
	if err := query.
		Order("union_name ASC").
		Limit(paging.Limit).
		Offset(paging.Offset).
		Find(&unions).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to list unions")
	}
	return helper.JsonList(c, "Unions", unions, helper.BuildPagination(total, paging.Page, paging.PerPage))
}

// GET /api/unions/:union_id
func (ctl *UnionController) GetByID(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	unionID, err := uuid.Parse(c.Params("union_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid union id")
	}

	var union unionModel.UnionModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("union_id = ?", unionID).
		First(&union).Error; err != nil {
		if helper.IsRecordNotFound(err) {
			return helper.JsonError(c, fiber.StatusNotFound, "Union not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load union")
	}
	if !unionVisible(actor, union.UnionID) {
		return helper.JsonError(c, fiber.StatusForbidden, "Not allowed to access this union")
	}
	return helper.JsonOK(c, "Union detail", union)
}

// GET /api/unions/:union_id/stats
func (ctl *UnionController) Stats(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	unionID, err := uuid.Parse(c.Params("union_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid union id")
	}
	if !unionVisible(actor, unionID) {
		return helper.JsonError(c, fiber.StatusForbidden, "Not allowed to access this union")
	}

	var union unionModel.UnionModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("union_id = ?", unionID).
		First(&union).Error; err != nil {
		if helper.IsRecordNotFound(err) {
			return helper.JsonError(c, fiber.StatusNotFound, "Union not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load union")
	}

	stats := unionDTO.UnionStats{
		UnionID:   union.UnionID,
		UnionName: union.UnionName,
		CreatedAt: union.UnionCreatedAt,
	}

	db := ctl.DB.WithContext(c.Context())
	if err := db.Table("districts").
		Where("district_union_id = ?", unionID).
		Count(&stats.DistrictCount).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to compute stats")
	}
	if err := db.Table("churches AS c").
		Joins("JOIN districts AS d ON d.district_id = c.church_district_id").
		Where("d.district_union_id = ?", unionID).
		Count(&stats.ChurchCount).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to compute stats")
	}
	if err := db.Table("users").
		Where("user_role = ? AND user_union_id = ?", constants.RoleMember, unionID).
		Count(&stats.MemberCount).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to compute stats")
	}

	return helper.JsonOK(c, "Union stats", stats)
}

// PATCH /api/unions/:union_id
func (ctl *UnionController) Update(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	unionID, err := uuid.Parse(c.Params("union_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid union id")
	}
	if !unionVisible(actor, unionID) {
		return helper.JsonError(c, fiber.StatusForbidden, "Not allowed to access this union")
	}

	var req unionDTO.UpdateUnionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["union_name"] = *req.Name
	}
	if req.Location != nil {
		updates["union_location"] = *req.Location
	}

	if len(updates) > 0 {
		result := ctl.DB.WithContext(c.Context()).
			Model(&unionModel.UnionModel{}).
			Where("union_id = ?", unionID).
			Updates(updates)
		if result.Error != nil {
			if helper.IsUniqueViolation(result.Error) {
				return helper.JsonError(c, fiber.StatusConflict, "A union with this name already exists")
			}
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update union")
		}
		if result.RowsAffected == 0 {
			return helper.JsonError(c, fiber.StatusNotFound, "Union not found")
		}
	}

	var union unionModel.UnionModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("union_id = ?", unionID).
		First(&union).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load union")
	}
	return helper.JsonUpdated(c, "Union updated", union)
}

// DELETE /api/unions/:union_id
func (ctl *UnionController) Delete(c *fiber.Ctx) error {
	unionID, err := uuid.Parse(c.Params("union_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid union id")
	}

	var districts int64
	if err := ctl.DB.WithContext(c.Context()).
		Table("districts").
		Where("district_union_id = ?", unionID).
		Count(&districts).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to check union usage")
	}
	if districts > 0 {
		return helper.JsonError(c, fiber.StatusConflict, "Union still has districts")
	}

	result := ctl.DB.WithContext(c.Context()).
		Where("union_id = ?", unionID).
		Delete(&unionModel.UnionModel{})
	if result.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete union")
	}
	if result.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Union not found")
	}
	return helper.JsonDeleted(c, "Union deleted", fiber.Map{"union_id": unionID})
}
