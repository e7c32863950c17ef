package controller

import (
	"fmt"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"roomstay_backend/internal/model"
	"roomstay_backend/pkg/database"
	"roomstay_backend/pkg/utils/image"
	"roomstay_backend/pkg/utils/jwt"
	"roomstay_backend/pkg/utils/storage"
	"roomstay_backend/pkg/utils/validation"
)

// UploadPropertyImage processes and stores a listing image.
func UploadPropertyImage(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	propertyIDStr := c.Params("property_id")
	propertyID, err := strconv.ParseUint(propertyIDStr, 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid property ID",
		})
	}

	var property model.Property
	if err := database.GetDB().Preload("User").First(&property, propertyID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Property not found",
		})
	}

	if property.UserID != claims.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Not authorized to upload images for this property",
		})
	}

	var imageCount int64
	database.GetDB().Model(&model.PropertyImage{}).
		Where("property_id = ?", propertyID).
		Count(&imageCount)

	if imageCount >= MaxPropertyImages {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Maximum image limit reached (%d)", MaxPropertyImages),
		})
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded",
		})
	}

	if err := validation.ValidateImage(file); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	buf, contentType, err := image.ProcessImage(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Could not process image: %v", err),
		})
	}

	result, err := storage.Upload(storage.UploadConfig{
		Body:         buf,
		ContentType:  contentType,
		Filename:     file.Filename,
		Username:     property.User.Username,
		PropertySlug: property.Slug,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("Could not upload image: %v", err),
		})
	}

	propertyImage := model.PropertyImage{
		PropertyID: uint(propertyID),
		URL:        result.URL,
		Order:      int(imageCount),
		IsCover:    imageCount == 0,
	}

	if err := database.GetDB().Create(&propertyImage).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save image record",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Image uploaded successfully",
		"image":   propertyImage,
	})
}

// DeletePropertyImage removes a listing image from storage and the
// database.
func DeletePropertyImage(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	imageIDStr := c.Params("image_id")
	imageID, err := strconv.ParseUint(imageIDStr, 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid image ID",
		})
	}

	var propertyImage model.PropertyImage
	if err := database.GetDB().Preload("Property").First(&propertyImage, imageID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Image not found",
		})
	}

	if propertyImage.Property.UserID != claims.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Not authorized to delete this image",
		})
	}

	if err := storage.Delete(propertyImage.URL); err != nil {
		log.Printf("Could not delete file from storage: %v", err)
	}

	if err := database.GetDB().Delete(&propertyImage).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete image",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
