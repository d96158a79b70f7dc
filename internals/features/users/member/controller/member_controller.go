package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	memberDTO "umuganda_backend/internals/features/users/member/dto"
	memberService "umuganda_backend/internals/features/users/member/service"
	helper "umuganda_backend/internals/helpers"
	"umuganda_backend/internals/helpers/access"
	helperAuth "umuganda_backend/internals/helpers/auth"
	"umuganda_backend/internals/helpers/qr"
	"umuganda_backend/internals/helpers/sms"
)

var validate = validator.New()

type MemberController struct {
	Service *memberService.MemberService
}

func NewMemberController(db *gorm.DB) *MemberController {
	return &MemberController{
		Service: memberService.NewMemberService(db, sms.NewSenderFromEnv(), qr.NewRenderer()),
	}
}

// POST /api/members
func (ctl *MemberController) Create(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	var req memberDTO.CreateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	result, err := ctl.Service.Create(c.Context(), actor, req)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonCreated(c, "Member created", result)
}

// GET /api/members
func (ctl *MemberController) List(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	paging := helper.ResolvePaging(c, 20, 100)
	members, total, err := ctl.Service.List(c.Context(), actor, access.ListFilters{
		DistrictID: queryUUID(c, "district_id"),
		ChurchID:   queryUUID(c, "church_id"),
	}, paging.Limit, paging.Offset)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonList(c, "Members", members, helper.BuildPagination(total, paging.Page, paging.PerPage))
}

// PATCH /api/members/:member_id
func (ctl *MemberController) Update(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	memberID, err := uuid.Parse(c.Params("member_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid member id")
	}

	var req memberDTO.UpdateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	member, err := ctl.Service.Update(c.Context(), actor, memberID, req)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonUpdated(c, "Member updated", member)
}

// DELETE /api/members/:member_id
func (ctl *MemberController) Delete(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	memberID, err := uuid.Parse(c.Params("member_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid member id")
	}

	if err := ctl.Service.Delete(c.Context(), actor, memberID); err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonDeleted(c, "Member deleted", fiber.Map{"member_id": memberID})
}

// GET /api/members/:member_id/pass
func (ctl *MemberController) GetPass(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	memberID, err := uuid.Parse(c.Params("member_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid member id")
	}

	detail, err := ctl.Service.GetMemberPass(c.Context(), actor, memberID)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "Member pass", detail)
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
