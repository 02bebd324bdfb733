package payments

import (
	"github.com/gofiber/fiber/v2"

	"github.com/MouliTechHub/educare-management-x-sub000/app/config"
	"github.com/MouliTechHub/educare-management-x-sub000/app/database"
	"github.com/MouliTechHub/educare-management-x-sub000/app/routes/auth"
	"github.com/MouliTechHub/educare-management-x-sub000/app/services"
)

// SetupPaymentsRoutes sets up the payment routes
func SetupPaymentsRoutes(app *fiber.App) {
	store := database.NewStore(config.GetDB())
	paymentService := services.NewPaymentService(store)

	paymentsAPI := app.Group("/api/payments")
	paymentsAPI.Use(auth.AuthMiddleware)

	paymentsAPI.Post("/simulate", func(c *fiber.Ctx) error {
		return SimulatePaymentAPI(c, paymentService)
	})

	paymentsAPI.Post("/", func(c *fiber.Ctx) error {
		return RecordPaymentAPI(c, paymentService)
	})

	paymentsAPI.Get("/", func(c *fiber.Ctx) error {
		return GetPaymentHistoryAPI(c, store)
	})

	paymentsAPI.Get("/:id", func(c *fiber.Ctx) error {
		return GetPaymentAPI(c, store)
	})

	// Printable receipt, rendered server-side
	receipts := app.Group("/payments")
	receipts.Use(auth.AuthMiddleware)
	receipts.Get("/:id/receipt", func(c *fiber.Ctx) error {
		return ShowReceiptPage(c, store)
	})
}
