package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"umuganda_backend/internals/constants"
	authController "umuganda_backend/internals/features/users/auth/controller"
	adminController "umuganda_backend/internals/features/users/churchadmin/controller"
	memberController "umuganda_backend/internals/features/users/member/controller"
	"umuganda_backend/internals/middlewares"
	authMiddleware "umuganda_backend/internals/middlewares/auth"
)

// AuthRoutes are the unauthenticated endpoints, rate limited separately:
// login 5/min, reset request 2/10min.
func AuthRoutes(api fiber.Router, db *gorm.DB) {
	ctl := authController.NewAuthController(db)

	auth := api.Group("/auth")
	auth.Post("/login", middlewares.LoginRateLimiter(), ctl.Login)
	auth.Post("/password-reset", middlewares.ForgotPasswordRateLimiter(), ctl.RequestPasswordReset)
	auth.Post("/password-reset/confirm", middlewares.ForgotPasswordRateLimiter(), ctl.ConfirmPasswordReset)
}

// AuthProtectedRoutes need a valid token.
func AuthProtectedRoutes(api fiber.Router, db *gorm.DB) {
	ctl := authController.NewAuthController(db)

	auth := api.Group("/auth")
	auth.Post("/logout", ctl.Logout)
	auth.Post("/change-password", ctl.ChangePassword)
}

// UserRoutes mounts member and church-admin management.
func UserRoutes(api fiber.Router, db *gorm.DB) {
	members := memberController.NewMemberController(db)
	admins := adminController.NewChurchAdminController(db)

	m := api.Group("/members")
	m.Get("/",
		authMiddleware.OnlyRoles("Only admins may view members", constants.AdminRoles...),
		members.List,
	)
	m.Post("/",
		authMiddleware.OnlyRoles("Only church admins may create members", constants.RoleChurchAdmin),
		members.Create,
	)
	m.Patch("/:member_id",
		authMiddleware.OnlyRoles("Only admins may update members", constants.AdminRoles...),
		members.Update,
	)
	m.Delete("/:member_id",
		authMiddleware.OnlyRoles("Only admins may delete members", constants.AdminRoles...),
		members.Delete,
	)
	// members may open their own pass; the service enforces self-access
	m.Get("/:member_id/pass",
		authMiddleware.OnlyRoles("Not allowed to view member passes",
			append([]string{constants.RoleMember}, constants.AdminRoles...)...),
		members.GetPass,
	)

	a := api.Group("/church-admins",
		authMiddleware.OnlyRoles("Only union or district admins may manage church administrators",
			constants.RoleUnionAdmin, constants.RoleDistrictAdmin))
	a.Get("/", admins.List)
	a.Post("/", admins.Create)
	a.Patch("/:admin_id", admins.Update)
	a.Delete("/:admin_id", admins.Delete)
}
