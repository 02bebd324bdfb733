package audit

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/MouliTechHub/educare-management-x-sub000/app/database"
)

// FetchAuditLogAPI returns audit entries, newest first, with optional filters
func FetchAuditLogAPI(c *fiber.Ctx, store *database.Store) error {
	filter := database.AuditFilter{
		StudentID:      c.Query("student_id"),
		AcademicYearID: c.Query("academic_year_id"),
		ActionType:     c.Query("action_type"),
	}

	if v := c.Query("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid from date, expected YYYY-MM-DD"})
		}
		filter.From = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid to date, expected YYYY-MM-DD"})
		}
		// Include the whole end day
		filter.To = t.Add(24*time.Hour - time.Second)
	}

	entries, err := store.FetchAuditLog(c.Context(), filter)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch audit log"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    entries,
	})
}
