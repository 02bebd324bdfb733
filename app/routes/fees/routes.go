package fees

import (
	"github.com/gofiber/fiber/v2"

	"github.com/MouliTechHub/educare-management-x-sub000/app/config"
	"github.com/MouliTechHub/educare-management-x-sub000/app/database"
	"github.com/MouliTechHub/educare-management-x-sub000/app/routes/auth"
	"github.com/MouliTechHub/educare-management-x-sub000/app/services"
)

// SetupFeesRoutes sets up the fee record routes
func SetupFeesRoutes(app *fiber.App) {
	store := database.NewStore(config.GetDB())
	feeService := services.NewFeeService(store)
	discountService := services.NewDiscountService(store)
	blockService := services.NewBlockService(store)

	feesAPI := app.Group("/api/fees")
	feesAPI.Use(auth.AuthMiddleware)

	feesAPI.Get("/outstanding", func(c *fiber.Ctx) error {
		return GetOutstandingAPI(c, feeService)
	})

	feesAPI.Post("/", func(c *fiber.Ctx) error {
		return AssignFeeAPI(c, feeService)
	})

	feesAPI.Get("/:id", func(c *fiber.Ctx) error {
		return GetFeeRecordAPI(c, store)
	})

	feesAPI.Post("/:id/discount", func(c *fiber.Ctx) error {
		return ApplyDiscountAPI(c, discountService)
	})

	feesAPI.Post("/discounts/bulk", func(c *fiber.Ctx) error {
		return BulkDiscountAPI(c, discountService)
	})

	feesAPI.Post("/blocks/refresh", func(c *fiber.Ctx) error {
		return RefreshBlocksAPI(c, blockService)
	})
}
