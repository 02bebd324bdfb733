package fees

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/MouliTechHub/educare-management-x-sub000/app/routes/auth"
	"github.com/MouliTechHub/educare-management-x-sub000/app/services"
)

// ApplyDiscountAPI applies a single discount to a fee record
func ApplyDiscountAPI(c *fiber.Ctx, svc *services.DiscountService) error {
	var req services.DiscountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	req.FeeRecordID = c.Params("id")
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	rec, err := svc.Apply(c.Context(), req, auth.Actor(c))
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    toFeeResponse(rec, time.Now()),
		"message": "Discount applied successfully",
	})
}

// BulkDiscountAPI applies discounts to a batch of fee records. Each record is
// applied atomically on its own; failures are reported per record.
func BulkDiscountAPI(c *fiber.Ctx, svc *services.DiscountService) error {
	type BulkRequest struct {
		Discounts []services.DiscountRequest `json:"discounts" validate:"required,min=1,dive"`
	}

	var req BulkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	results := svc.BulkApply(c.Context(), req.Discounts, auth.Actor(c))

	succeeded := 0
	for _, res := range results {
		if res.Success {
			succeeded++
		}
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"data":      results,
		"succeeded": succeeded,
		"failed":    len(results) - succeeded,
	})
}
