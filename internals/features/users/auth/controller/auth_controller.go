package controller

import (
	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	auditService "umuganda_backend/internals/features/audit/service"
	authDTO "umuganda_backend/internals/features/users/auth/dto"
	authService "umuganda_backend/internals/features/users/auth/service"
	helper "umuganda_backend/internals/helpers"
	helperAuth "umuganda_backend/internals/helpers/auth"
	"umuganda_backend/internals/helpers/mailer"
	"umuganda_backend/internals/helpers/sms"
)

var validate = validator.New()

type AuthController struct {
	Service *authService.AuthService
	Reset   *authService.PasswordResetService
	Audit   *auditService.AuditService
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{
		Service: authService.NewAuthService(db),
		Reset: authService.NewPasswordResetService(
			authService.NewGormResetStore(db),
			sms.NewSenderFromEnv(),
			mailer.NewMailerFromEnv(),
		),
		Audit: auditService.NewAuditService(db),
	}
}

// POST /api/auth/login
func (ctl *AuthController) Login(c *fiber.Ctx) error {
	var req authDTO.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	resp, err := ctl.Service.Login(c.Context(), req)
	if err != nil {
		details, _ := sonic.Marshal(fiber.Map{"identifier": req.Identifier})
		ctl.Audit.Record(c.Context(), nil, req.Identifier, "LOGIN_FAILED", details, c.IP(), c.Get(fiber.HeaderUserAgent))
		return helper.JsonAppError(c, err)
	}

	actor := helperAuth.Actor{
		ID:         resp.User.UserID,
		Role:       resp.User.Role,
		UnionID:    resp.User.UnionID,
		DistrictID: resp.User.DistrictID,
		ChurchID:   resp.User.ChurchID,
	}
	ctl.Audit.Record(c.Context(), &actor, resp.User.FullName, "LOGIN", nil, c.IP(), c.Get(fiber.HeaderUserAgent))
	return helper.JsonOK(c, "Login successful", resp)
}

// POST /api/auth/logout
func (ctl *AuthController) Logout(c *fiber.Ctx) error {
	raw := helper.GetRawAccessToken(c)
	if err := ctl.Service.Logout(c.Context(), raw); err != nil {
		return helper.JsonAppError(c, err)
	}
	if actor, err := helperAuth.ActorFromContext(c); err == nil {
		ctl.Audit.Record(c.Context(), &actor, actor.ID.String(), "LOGOUT", nil, c.IP(), c.Get(fiber.HeaderUserAgent))
	}
	return helper.JsonOK(c, "Logged out", nil)
}

// POST /api/auth/change-password
func (ctl *AuthController) ChangePassword(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromContext(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	var req authDTO.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	if err := ctl.Service.ChangePassword(c.Context(), actor, req); err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "Password changed", nil)
}

// POST /api/auth/password-reset
func (ctl *AuthController) RequestPasswordReset(c *fiber.Ctx) error {
	var req authDTO.PasswordResetRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	if err := ctl.Reset.Request(c.Context(), req); err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "If the account exists, reset instructions were sent", nil)
}

// POST /api/auth/password-reset/confirm
func (ctl *AuthController) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req authDTO.PasswordResetConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	if err := ctl.Reset.Confirm(c.Context(), req); err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "Password reset", nil)
}
