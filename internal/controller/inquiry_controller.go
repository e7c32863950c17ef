package controller

import (
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"roomstay_backend/internal/model"
	"roomstay_backend/pkg/database"
	"roomstay_backend/pkg/email"
	"roomstay_backend/pkg/utils/jwt"
)

type InquiryInput struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required"`
	Message string `json:"message"`
}

// CreateInquiry is the public contact endpoint on a listing. The
// landlord gets an email notification.
func CreateInquiry(c *fiber.Ctx) error {
	propertyIDStr := c.Params("property_id")
	propertyID, err := strconv.ParseUint(propertyIDStr, 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid property ID",
		})
	}

	var property model.Property
	if err := database.DB.Preload("User").First(&property, propertyID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Property not found",
		})
	}

	input := new(InquiryInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	inquiry := model.Inquiry{
		PropertyID: uint(propertyID),
		Name:       input.Name,
		Email:      input.Email,
		Phone:      input.Phone,
		Message:    input.Message,
		Status:     model.InquiryStatusNew,
	}

	if err := database.GetDB().Create(&inquiry).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create inquiry",
		})
	}

	if email.GlobalEmailService != nil {
		err := email.GlobalEmailService.SendInquiryNotificationEmail(
			property.User.Email,
			property.Title,
			input.Name,
			input.Email,
			input.Phone,
			input.Message,
		)
		if err != nil {
			log.Printf("Could not send inquiry notification email: %v", err)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Your inquiry has been sent successfully. The landlord will contact you soon.",
	})
}

// GetMyInquiries lists inquiries across the landlord's properties with
// optional status, read and property filters.
func GetMyInquiries(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var inquiries []model.Inquiry
	query := database.GetDB().
		Joins("JOIN properties ON inquiries.property_id = properties.id").
		Where("properties.user_id = ?", claims.UserID).
		Preload("Property")

	if status := c.Query("status"); status != "" {
		query = query.Where("inquiries.status = ?", status)
	}

	if readStatus := c.Query("read"); readStatus != "" {
		query = query.Where("inquiries.read_status = ?", readStatus == "true")
	}

	if propertyID := c.Query("property_id"); propertyID != "" {
		query = query.Where("inquiries.property_id = ?", propertyID)
	}

	query = query.Order("inquiries.created_at desc")

	if err := query.Find(&inquiries).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch inquiries",
		})
	}

	return c.JSON(inquiries)
}

// UpdateInquiryStatus moves an inquiry through the follow-up pipeline.
func UpdateInquiryStatus(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	inquiryID := c.Params("id")

	var inquiry model.Inquiry
	if err := database.GetDB().Preload("Property").First(&inquiry, inquiryID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Inquiry not found",
		})
	}

	if inquiry.Property.UserID != claims.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Not authorized to update this inquiry",
		})
	}

	input := struct {
		Status string `json:"status"`
	}{}

	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	switch model.InquiryStatus(input.Status) {
	case model.InquiryStatusNew,
		model.InquiryStatusRead,
		model.InquiryStatusContacted,
		model.InquiryStatusNoResponse,
		model.InquiryStatusCompleted:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid status value",
			"valid_statuses": []string{
				string(model.InquiryStatusNew),
				string(model.InquiryStatusRead),
				string(model.InquiryStatusContacted),
				string(model.InquiryStatusNoResponse),
				string(model.InquiryStatusCompleted),
			},
		})
	}

	updates := map[string]interface{}{"status": input.Status}
	if model.InquiryStatus(input.Status) == model.InquiryStatusContacted && inquiry.ContactedAt == nil {
		now := time.Now()
		updates["contacted_at"] = &now
	}

	if err := database.GetDB().Model(&inquiry).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update inquiry status",
		})
	}

	database.GetDB().Preload("Property").First(&inquiry, inquiryID)

	return c.JSON(fiber.Map{
		"message": "Inquiry status updated successfully",
		"inquiry": inquiry,
	})
}

// MarkInquiryAsRead flips the read flag without touching the status.
func MarkInquiryAsRead(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	inquiryID := c.Params("id")

	var inquiry model.Inquiry
	if err := database.GetDB().Preload("Property").First(&inquiry, inquiryID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Inquiry not found",
		})
	}

	if inquiry.Property.UserID != claims.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Not authorized to update this inquiry",
		})
	}

	if err := database.GetDB().Model(&inquiry).Update("read_status", true).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not mark inquiry as read",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
