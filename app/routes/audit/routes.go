package audit

import (
	"github.com/gofiber/fiber/v2"

	"github.com/MouliTechHub/educare-management-x-sub000/app/config"
	"github.com/MouliTechHub/educare-management-x-sub000/app/database"
	"github.com/MouliTechHub/educare-management-x-sub000/app/routes/auth"
)

// SetupAuditRoutes sets up the audit log routes
func SetupAuditRoutes(app *fiber.App) {
	store := database.NewStore(config.GetDB())

	api := app.Group("/api/audit")
	api.Use(auth.AuthMiddleware)

	api.Get("/", func(c *fiber.Ctx) error {
		return FetchAuditLogAPI(c, store)
	})
}
