package carryforward

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/MouliTechHub/educare-management-x-sub000/app/database"
	"github.com/MouliTechHub/educare-management-x-sub000/app/models"
	"github.com/MouliTechHub/educare-management-x-sub000/app/routes/auth"
	"github.com/MouliTechHub/educare-management-x-sub000/app/services"
)

var validate = validator.New()

func errorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrStateConflict):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrNoOutstandingBalance):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// CarryForwardRequest moves one student's outstanding balance between years.
type CarryForwardRequest struct {
	StudentID          string  `json:"student_id" validate:"required,uuid"`
	FromAcademicYearID string  `json:"from_academic_year_id" validate:"required,uuid"`
	ToAcademicYearID   string  `json:"to_academic_year_id" validate:"required,uuid"`
	Notes              *string `json:"notes,omitempty"`
}

// CarryForwardAPI converts a student's unresolved balance into Previous Year Dues
func CarryForwardAPI(c *fiber.Ctx, svc *services.CarryForwardService) error {
	var req CarryForwardRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	cf, err := svc.CarryForward(c.Context(), req.StudentID, req.FromAcademicYearID,
		req.ToAcademicYearID, models.CarryForwardManual, auth.Actor(c), req.Notes)
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    cf,
		"message": "Balance carried forward successfully",
	})
}

// BulkCarryForwardAPI runs the carry-forward per student; failures are isolated
func BulkCarryForwardAPI(c *fiber.Ctx, svc *services.CarryForwardService) error {
	type BulkRequest struct {
		StudentIDs         []string `json:"student_ids" validate:"required,min=1,dive,uuid"`
		FromAcademicYearID string   `json:"from_academic_year_id" validate:"required,uuid"`
		ToAcademicYearID   string   `json:"to_academic_year_id" validate:"required,uuid"`
		Notes              *string  `json:"notes,omitempty"`
	}

	var req BulkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	results := svc.BulkCarryForward(c.Context(), req.StudentIDs, req.FromAcademicYearID,
		req.ToAcademicYearID, auth.Actor(c), req.Notes)

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

// WaiveCarryForwardAPI forgives a carried-forward balance
func WaiveCarryForwardAPI(c *fiber.Ctx, svc *services.CarryForwardService) error {
	type WaiveRequest struct {
		Reason string `json:"reason" validate:"required"`
	}

	var req WaiveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	cf, err := svc.Waive(c.Context(), c.Params("id"), req.Reason, auth.Actor(c))
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    cf,
		"message": "Carry-forward waived successfully",
	})
}

// ListCarryForwardsAPI returns a student's carry-forwards
func ListCarryForwardsAPI(c *fiber.Ctx, store *database.Store) error {
	studentID := c.Query("student_id")
	if studentID == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "student_id is required"})
	}

	cfs, err := store.ListCarryForwards(c.Context(), studentID)
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    cfs,
	})
}
