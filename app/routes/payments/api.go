package payments

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/MouliTechHub/educare-management-x-sub000/app/database"
	"github.com/MouliTechHub/educare-management-x-sub000/app/models"
	"github.com/MouliTechHub/educare-management-x-sub000/app/routes/auth"
	"github.com/MouliTechHub/educare-management-x-sub000/app/services"
)

var validate = validator.New()

func errorStatus(err error) int {
	var overflow *services.AllocationOverflowError
	switch {
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrStateConflict), errors.As(err, &overflow):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrValidation):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// SimulateRequest asks for an allocation plan without committing anything.
type SimulateRequest struct {
	StudentID      string          `json:"student_id" validate:"required,uuid"`
	Amount         decimal.Decimal `json:"amount" validate:"required"`
	AcademicYearID string          `json:"academic_year_id" validate:"omitempty,uuid"`
}

// RecordPaymentRequest commits a payment against a student's outstanding fees.
type RecordPaymentRequest struct {
	StudentID      string            `json:"student_id" validate:"required,uuid"`
	Amount         decimal.Decimal   `json:"amount" validate:"required"`
	AcademicYearID string            `json:"academic_year_id" validate:"omitempty,uuid"`
	PaymentDate    models.CustomTime `json:"payment_date"`
	PaymentTime    string            `json:"payment_time"`
	Method         string            `json:"payment_method" validate:"required"`
	LateFee        decimal.Decimal   `json:"late_fee"`
	Notes          *string           `json:"notes,omitempty"`
}

// SimulatePaymentAPI returns the FIFO allocation plan for a hypothetical payment
func SimulatePaymentAPI(c *fiber.Ctx, svc *services.PaymentService) error {
	var req SimulateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	plan, err := svc.Simulate(c.Context(), req.StudentID, req.Amount, req.AcademicYearID)
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    plan,
	})
}

// RecordPaymentAPI commits a payment and its allocations atomically
func RecordPaymentAPI(c *fiber.Ctx, svc *services.PaymentService) error {
	var req RecordPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	meta := services.PaymentMeta{
		AcademicYearID: req.AcademicYearID,
		PaymentDate:    req.PaymentDate,
		PaymentTime:    req.PaymentTime,
		Method:         req.Method,
		LateFee:        req.LateFee,
		Receiver:       auth.Actor(c),
		Notes:          req.Notes,
	}

	payment, err := svc.Commit(c.Context(), req.StudentID, req.Amount, meta)
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    payment,
		"message": "Payment recorded successfully",
	})
}

// GetPaymentHistoryAPI returns a student's payments, newest first
func GetPaymentHistoryAPI(c *fiber.Ctx, store *database.Store) error {
	studentID := c.Query("student_id")
	if studentID == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "student_id is required"})
	}

	payments, err := store.PaymentHistory(c.Context(), studentID)
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    payments,
	})
}

// GetPaymentAPI returns one payment with its allocations
func GetPaymentAPI(c *fiber.Ctx, store *database.Store) error {
	payment, err := store.GetPayment(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    payment,
	})
}
