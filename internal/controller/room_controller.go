package controller

import (
	"github.com/gofiber/fiber/v2"

	"roomstay_backend/internal/model"
	"roomstay_backend/pkg/database"
	"roomstay_backend/pkg/occupancy"
)

type RoomInput struct {
	Code        string             `json:"code" validate:"required"`
	Type        occupancy.RoomType `json:"type" validate:"required"`
	Floor       int                `json:"floor"`
	MonthlyRent float64            `json:"monthly_rent"`
}

type BedInput struct {
	Code        string              `json:"code" validate:"required"`
	Status      occupancy.BedStatus `json:"status"`
	MonthlyRent float64             `json:"monthly_rent"`
}

// propertyFromContext reads the property loaded by the ownership
// middleware.
func propertyFromContext(c *fiber.Ctx) *model.Property {
	return c.Locals("property").(*model.Property)
}

// CreateRoom adds a room to one of the landlord's properties.
func CreateRoom(c *fiber.Ctx) error {
	property := propertyFromContext(c)

	input := new(RoomInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var count int64
	database.GetDB().Model(&model.Room{}).
		Where("property_id = ? AND code = ?", property.ID, input.Code).
		Count(&count)
	if count > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "A room with this code already exists",
		})
	}

	room := model.Room{
		PropertyID:  property.ID,
		Code:        input.Code,
		Type:        input.Type,
		Floor:       input.Floor,
		MonthlyRent: input.MonthlyRent,
	}

	if err := database.GetDB().Create(&room).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create room",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(room)
}

// ListRooms lists a property's rooms with their beds.
func ListRooms(c *fiber.Ctx) error {
	property := propertyFromContext(c)

	var rooms []model.Room
	if err := database.GetDB().Where("property_id = ?", property.ID).
		Preload("Beds").
		Order("code asc").
		Find(&rooms).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch rooms",
		})
	}

	return c.JSON(rooms)
}

// UpdateRoom updates a room's metadata.
func UpdateRoom(c *fiber.Ctx) error {
	property := propertyFromContext(c)
	roomID := c.Params("room_id")

	input := new(RoomInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var room model.Room
	if err := database.GetDB().
		Where("id = ? AND property_id = ?", roomID, property.ID).
		First(&room).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Room not found",
		})
	}

	room.Code = input.Code
	room.Type = input.Type
	room.Floor = input.Floor
	room.MonthlyRent = input.MonthlyRent

	if err := database.GetDB().Save(&room).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update room",
		})
	}

	return c.JSON(room)
}

// DeleteRoom removes a room and its beds.
func DeleteRoom(c *fiber.Ctx) error {
	property := propertyFromContext(c)
	roomID := c.Params("room_id")

	var room model.Room
	if err := database.GetDB().
		Where("id = ? AND property_id = ?", roomID, property.ID).
		First(&room).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Room not found",
		})
	}

	var occupied int64
	database.GetDB().Model(&model.Accommodation{}).
		Where("room_id = ? AND is_active = ?", room.ID, true).
		Count(&occupied)
	if occupied > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Room still has active occupants",
		})
	}

	if err := database.GetDB().Delete(&room).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete room",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// CreateBed adds a bed to a room.
func CreateBed(c *fiber.Ctx) error {
	property := propertyFromContext(c)
	roomID := c.Params("room_id")

	input := new(BedInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var room model.Room
	if err := database.GetDB().
		Where("id = ? AND property_id = ?", roomID, property.ID).
		First(&room).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Room not found",
		})
	}

	status := input.Status
	if status == "" {
		status = occupancy.BedActive
	}

	bed := model.Bed{
		PropertyID:  property.ID,
		RoomID:      room.ID,
		Code:        input.Code,
		Status:      status,
		MonthlyRent: input.MonthlyRent,
	}

	if err := database.GetDB().Create(&bed).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create bed",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(bed)
}

// UpdateBed changes a bed's status or rent.
func UpdateBed(c *fiber.Ctx) error {
	property := propertyFromContext(c)
	bedID := c.Params("bed_id")

	input := new(BedInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var bed model.Bed
	if err := database.GetDB().
		Where("id = ? AND property_id = ?", bedID, property.ID).
		First(&bed).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Bed not found",
		})
	}

	if input.Code != "" {
		bed.Code = input.Code
	}
	if input.Status != "" {
		bed.Status = input.Status
	}
	if input.MonthlyRent > 0 {
		bed.MonthlyRent = input.MonthlyRent
	}

	if err := database.GetDB().Save(&bed).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update bed",
		})
	}

	return c.JSON(bed)
}

// DeleteBed removes a bed that has no active occupant.
func DeleteBed(c *fiber.Ctx) error {
	property := propertyFromContext(c)
	bedID := c.Params("bed_id")

	var bed model.Bed
	if err := database.GetDB().
		Where("id = ? AND property_id = ?", bedID, property.ID).
		First(&bed).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Bed not found",
		})
	}

	var occupied int64
	database.GetDB().Model(&model.Accommodation{}).
		Where("bed_id = ? AND is_active = ?", bed.ID, true).
		Count(&occupied)
	if occupied > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Bed still has an active occupant",
		})
	}

	if err := database.GetDB().Delete(&bed).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete bed",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
