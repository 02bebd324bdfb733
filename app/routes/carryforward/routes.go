package carryforward

import (
	"github.com/gofiber/fiber/v2"

	"github.com/MouliTechHub/educare-management-x-sub000/app/config"
	"github.com/MouliTechHub/educare-management-x-sub000/app/database"
	"github.com/MouliTechHub/educare-management-x-sub000/app/routes/auth"
	"github.com/MouliTechHub/educare-management-x-sub000/app/services"
)

// SetupCarryForwardRoutes sets up the carry-forward routes
func SetupCarryForwardRoutes(app *fiber.App) {
	store := database.NewStore(config.GetDB())
	svc := services.NewCarryForwardService(store)

	api := app.Group("/api/carry-forwards")
	api.Use(auth.AuthMiddleware)

	api.Post("/", func(c *fiber.Ctx) error {
		return CarryForwardAPI(c, svc)
	})

	api.Post("/bulk", func(c *fiber.Ctx) error {
		return BulkCarryForwardAPI(c, svc)
	})

	api.Post("/:id/waive", func(c *fiber.Ctx) error {
		return WaiveCarryForwardAPI(c, svc)
	})

	api.Get("/", func(c *fiber.Ctx) error {
		return ListCarryForwardsAPI(c, store)
	})
}
