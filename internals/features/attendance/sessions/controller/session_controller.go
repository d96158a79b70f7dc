package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	sessionDTO "umuganda_backend/internals/features/attendance/sessions/dto"
	sessionModel "umuganda_backend/internals/features/attendance/sessions/model"
	helper "umuganda_backend/internals/helpers"
	"umuganda_backend/internals/helpers/access"
	helperAuth "umuganda_backend/internals/helpers/auth"
)

var validate = validator.New()

type SessionController struct {
	DB *gorm.DB
}

func NewSessionController(db *gorm.DB) *SessionController {
	return &SessionController{DB: db}
}

// POST /api/sessions
// A church admin creates sessions for their own church only; the church comes
// from the token, never from the body.
func (ctl *SessionController) Create(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	if actor.ChurchID == nil {
		return helper.JsonError(c, fiber.StatusForbidden, "No church assigned to this account")
	}

	var req sessionDTO.CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	creator := actor.ID
	session := sessionModel.UmugandaSessionModel{
		SessionChurchID:  *actor.ChurchID,
		SessionDate:      req.SessionDate,
		SessionTheme:     req.Theme,
		SessionCreatedBy: &creator,
	}
	if err := ctl.DB.WithContext(c.Context()).Create(&session).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create session")
	}
	return helper.JsonCreated(c, "Session created", session)
}

// GET /api/sessions/:session_id
func (ctl *SessionController) GetByID(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	sessionID, err := uuid.Parse(c.Params("session_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid session id")
	}

	session, err := access.EnsureSessionAccess(c.Context(), ctl.DB, actor, sessionID)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "Session detail", session)
}

// PATCH /api/sessions/:session_id
func (ctl *SessionController) Update(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	sessionID, err := uuid.Parse(c.Params("session_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid session id")
	}

	var req sessionDTO.UpdateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	session, err := access.EnsureSessionAccess(c.Context(), ctl.DB, actor, sessionID)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	updates := map[string]interface{}{}
	if req.SessionDate != nil {
		updates["session_date"] = *req.SessionDate
	}
	if req.Theme != nil {
		updates["session_theme"] = *req.Theme
	}
	if len(updates) == 0 {
		return helper.JsonUpdated(c, "Session unchanged", session)
	}

	if err := ctl.DB.WithContext(c.Context()).
		Model(&sessionModel.UmugandaSessionModel{}).
		Where("session_id = ?", sessionID).
		Updates(updates).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update session")
	}

	refreshed, err := access.EnsureSessionAccess(c.Context(), ctl.DB, actor, sessionID)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonUpdated(c, "Session updated", refreshed)
}

// GET /api/sessions
func (ctl *SessionController) List(c *fiber.Ctx) error {
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
	base := ctl.DB.WithContext(c.Context()).
		Table("umuganda_sessions AS s").
		Joins("JOIN churches AS c ON c.church_id = s.session_church_id").
		Joins("JOIN districts AS d ON d.district_id = c.church_district_id")
	if scope.UnionID != nil {
		base = base.Where("d.district_union_id = ?", *scope.UnionID)
	}
	if scope.DistrictID != nil {
		base = base.Where("c.church_district_id = ?", *scope.DistrictID)
	}
	if scope.ChurchID != nil {
		base = base.Where("s.session_church_id = ?", *scope.ChurchID)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count sessions")
	}

	var rows []sessionDTO.SessionResponse
	if err := base.
		Select(`s.session_id, s.session_church_id AS church_id, c.church_name,
			s.session_date, s.session_theme AS theme,
			s.session_created_by AS created_by, s.session_created_at AS created_at`).
		Order("s.session_date DESC").
		Limit(paging.Limit).
		Offset(paging.Offset).
		Scan(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to list sessions")
	}

	return helper.JsonList(c, "Sessions", rows, helper.BuildPagination(total, paging.Page, paging.PerPage))
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
