package fees

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/MouliTechHub/educare-management-x-sub000/app/database"
	"github.com/MouliTechHub/educare-management-x-sub000/app/models"
	"github.com/MouliTechHub/educare-management-x-sub000/app/routes/auth"
	"github.com/MouliTechHub/educare-management-x-sub000/app/services"
)

var validate = validator.New()

// errorStatus maps service errors onto HTTP status codes.
func errorStatus(err error) int {
	var overflow *services.AllocationOverflowError
	switch {
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrStateConflict), errors.As(err, &overflow):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrNoOutstandingBalance):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// FeeRecordResponse decorates a fee record with its derived balance.
type FeeRecordResponse struct {
	*models.FeeRecord
	Balance string           `json:"balance_fee"`
	Status  models.FeeStatus `json:"status"`
}

func toFeeResponse(rec *models.FeeRecord, now time.Time) FeeRecordResponse {
	return FeeRecordResponse{
		FeeRecord: rec,
		Balance:   rec.Balance().StringFixed(2),
		Status:    rec.DeriveStatus(now),
	}
}

// GetOutstandingAPI returns a student's outstanding fee records in FIFO order
func GetOutstandingAPI(c *fiber.Ctx, svc *services.FeeService) error {
	studentID := c.Query("student_id")
	if studentID == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "student_id is required"})
	}

	records, err := svc.Outstanding(c.Context(), studentID, c.Query("academic_year_id"))
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	now := time.Now()
	resp := make([]FeeRecordResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, toFeeResponse(rec, now))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    resp,
	})
}

// GetFeeRecordAPI returns a specific fee record by ID
func GetFeeRecordAPI(c *fiber.Ctx, store *database.Store) error {
	rec, err := store.GetFeeRecord(c.Context(), c.Params("id"), false)
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    toFeeResponse(rec, time.Now()),
	})
}

// AssignFeeAPI creates a fee record for a student
func AssignFeeAPI(c *fiber.Ctx, svc *services.FeeService) error {
	var req services.FeeAssignment
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	rec, err := svc.AssignFee(c.Context(), req, auth.Actor(c))
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    toFeeResponse(rec, time.Now()),
		"message": "Fee assigned successfully",
	})
}

// RefreshBlocksAPI recomputes the payment-block flags for a student's year
func RefreshBlocksAPI(c *fiber.Ctx, svc *services.BlockService) error {
	type RefreshRequest struct {
		StudentID      string `json:"student_id" validate:"required,uuid"`
		AcademicYearID string `json:"academic_year_id" validate:"required,uuid"`
	}

	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	result, err := svc.RefreshBlocks(c.Context(), req.StudentID, req.AcademicYearID, auth.Actor(c))
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    result,
	})
}
