package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"umuganda_backend/internals/constants"
	churchController "umuganda_backend/internals/features/organizations/churches/controller"
	districtController "umuganda_backend/internals/features/organizations/districts/controller"
	pastorController "umuganda_backend/internals/features/organizations/pastors/controller"
	unionController "umuganda_backend/internals/features/organizations/unions/controller"
	authMiddleware "umuganda_backend/internals/middlewares/auth"
)

// OrganizationRoutes mounts the hierarchy CRUD. Creation follows the ladder:
// union admins manage unions, districts and pastors; district admins manage
// churches inside their district.
func OrganizationRoutes(api fiber.Router, db *gorm.DB) {
	unions := unionController.NewUnionController(db)
	districts := districtController.NewDistrictController(db)
	churches := churchController.NewChurchController(db)
	pastors := pastorController.NewPastorController(db)

	unionAdmin := authMiddleware.OnlyRoles("Only union admins may manage this resource", constants.RoleUnionAdmin)
	anyAdmin := authMiddleware.OnlyRoles("Only admins may view this resource", constants.AdminRoles...)

	u := api.Group("/unions")
	u.Get("/", unionAdmin, unions.List)
	u.Get("/:union_id", unionAdmin, unions.GetByID)
	u.Get("/:union_id/stats", unionAdmin, unions.Stats)
	u.Post("/", unionAdmin, unions.Create)
	u.Patch("/:union_id", unionAdmin, unions.Update)
	u.Delete("/:union_id", unionAdmin, unions.Delete)

	d := api.Group("/districts")
	d.Get("/", anyAdmin, districts.List)
	d.Get("/:district_id", anyAdmin, districts.GetByID)
	d.Post("/", unionAdmin, districts.Create)
	d.Patch("/:district_id", unionAdmin, districts.Update)
	d.Delete("/:district_id", unionAdmin, districts.Delete)

	ch := api.Group("/churches")
	ch.Get("/", anyAdmin, churches.List)
	ch.Get("/:church_id", anyAdmin, churches.GetByID)
	ch.Post("/",
		authMiddleware.OnlyRoles("Only union or district admins may create churches",
			constants.RoleUnionAdmin, constants.RoleDistrictAdmin),
		churches.Create,
	)
	ch.Patch("/:church_id",
		authMiddleware.OnlyRoles("Only union or district admins may update churches",
			constants.RoleUnionAdmin, constants.RoleDistrictAdmin),
		churches.Update,
	)
	ch.Delete("/:church_id",
		authMiddleware.OnlyRoles("Only union or district admins may delete churches",
			constants.RoleUnionAdmin, constants.RoleDistrictAdmin),
		churches.Delete,
	)

	p := api.Group("/district-pastors", unionAdmin)
	p.Get("/", pastors.List)
	p.Post("/", pastors.Create)
	p.Patch("/:pastor_id", pastors.Update)
	p.Put("/:pastor_id/churches", pastors.AssignChurches)
	p.Delete("/:pastor_id", pastors.Delete)
}
