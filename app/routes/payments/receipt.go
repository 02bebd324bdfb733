package payments

import (
	"github.com/gofiber/fiber/v2"

	"github.com/MouliTechHub/educare-management-x-sub000/app/database"
)

// ShowReceiptPage renders a printable receipt for a payment
func ShowReceiptPage(c *fiber.Ctx, store *database.Store) error {
	payment, err := store.GetPayment(c.Context(), c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Payment not found")
	}

	student, err := store.GetStudent(c.Context(), payment.StudentID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch student")
	}

	type allocationRow struct {
		FeeType string
		Amount  string
		Order   int
	}
	rows := make([]allocationRow, 0, len(payment.Allocations))
	for _, alloc := range payment.Allocations {
		feeType := alloc.FeeRecordID
		if rec, err := store.GetFeeRecord(c.Context(), alloc.FeeRecordID, false); err == nil {
			feeType = rec.FeeType
		}
		rows = append(rows, allocationRow{
			FeeType: feeType,
			Amount:  alloc.AllocatedAmount.StringFixed(2),
			Order:   alloc.AllocationOrder,
		})
	}

	return c.Render("receipt", fiber.Map{
		"Title":         "Payment Receipt " + payment.ReceiptNumber,
		"ReceiptNumber": payment.ReceiptNumber,
		"StudentName":   student.FullName(),
		"Admission":     student.AdmissionNumber,
		"Amount":        payment.AmountPaid.StringFixed(2),
		"LateFee":       payment.LateFee.StringFixed(2),
		"Method":        payment.PaymentMethod,
		"Date":          payment.PaymentDate.Time.Format("2006-01-02"),
		"Time":          payment.PaymentTime,
		"Receiver":      payment.Receiver,
		"Allocations":   rows,
	})
}
