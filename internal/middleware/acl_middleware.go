package middleware

import (
	"roomstay_backend/internal/model"
	"roomstay_backend/pkg/database"
	"roomstay_backend/pkg/utils/jwt"

	"github.com/gofiber/fiber/v2"
)

// CheckPropertyOwnership ensures the request is made by the property's
// landlord. Route must carry the property id in the ":id" param. The
// loaded property is stored in locals so handlers do not re-fetch it.
func CheckPropertyOwnership() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := c.Locals("user").(*jwt.Claims)
		propertyID := c.Params("id")

		var property model.Property
		if err := database.DB.First(&property, propertyID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Property not found",
			})
		}

		if property.UserID != claims.UserID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "You don't have permission to access this property",
			})
		}

		c.Locals("property", &property)

		return c.Next()
	}
}
