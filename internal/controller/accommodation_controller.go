package controller

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"roomstay_backend/internal/model"
	"roomstay_backend/pkg/database"
	"roomstay_backend/pkg/occupancy"
)

type AssignmentInput struct {
	TenantID    uint    `json:"tenant_id" validate:"required"`
	RoomID      uint    `json:"room_id" validate:"required"`
	BedID       uint    `json:"bed_id" validate:"required"`
	MonthlyRent float64 `json:"monthly_rent"`
	Notes       string  `json:"notes"`
}

// occupancyErrorStatus maps validator failures onto HTTP statuses.
func occupancyErrorStatus(err error) (int, bool) {
	switch {
	case errors.Is(err, occupancy.ErrBedNotFound), errors.Is(err, occupancy.ErrRoomNotFound):
		return fiber.StatusNotFound, true
	case errors.Is(err, occupancy.ErrBedNotActive),
		errors.Is(err, occupancy.ErrBedOccupied),
		errors.Is(err, occupancy.ErrRoomFull):
		return fiber.StatusConflict, true
	}
	return 0, false
}

// loadOccupancySnapshot reads a property's beds, rooms and active
// accommodations inside the given transaction.
func loadOccupancySnapshot(tx *gorm.DB, propertyID uint) ([]occupancy.Bed, []occupancy.Room, []occupancy.Accommodation, error) {
	var beds []model.Bed
	if err := tx.Where("property_id = ?", propertyID).Find(&beds).Error; err != nil {
		return nil, nil, nil, err
	}

	var rooms []model.Room
	if err := tx.Where("property_id = ?", propertyID).Find(&rooms).Error; err != nil {
		return nil, nil, nil, err
	}

	var accs []model.Accommodation
	if err := tx.Where("property_id = ? AND is_active = ?", propertyID, true).Find(&accs).Error; err != nil {
		return nil, nil, nil, err
	}

	return model.BedsToOccupancy(beds), model.RoomsToOccupancy(rooms), model.AccommodationsToOccupancy(accs), nil
}

// CreateAccommodation checks a tenant into a bed. The availability and
// capacity checks run inside the insert transaction so two concurrent
// check-ins cannot both claim the last spot.
func CreateAccommodation(c *fiber.Ctx) error {
	property := propertyFromContext(c)

	input := new(AssignmentInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var tenant model.User
	if err := database.GetDB().First(&tenant, input.TenantID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Tenant not found",
		})
	}

	var acc model.Accommodation
	txErr := database.GetDB().Transaction(func(tx *gorm.DB) error {
		beds, rooms, accs, err := loadOccupancySnapshot(tx, property.ID)
		if err != nil {
			return err
		}

		if _, err := occupancy.CheckAssignment(beds, rooms, accs, property.ID, input.RoomID, input.BedID); err != nil {
			return err
		}

		rent := input.MonthlyRent
		if rent == 0 {
			var bed model.Bed
			if err := tx.First(&bed, input.BedID).Error; err == nil {
				rent = bed.MonthlyRent
			}
		}

		acc = model.Accommodation{
			TenantID:    input.TenantID,
			PropertyID:  property.ID,
			RoomID:      input.RoomID,
			BedID:       input.BedID,
			IsActive:    true,
			CheckInDate: time.Now(),
			MonthlyRent: rent,
			Notes:       input.Notes,
		}
		return tx.Create(&acc).Error
	})
	if txErr != nil {
		if status, ok := occupancyErrorStatus(txErr); ok {
			return c.Status(status).JSON(fiber.Map{"error": txErr.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create accommodation",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(acc)
}

// CheckOutAccommodation ends a tenant's stay. The record is kept for
// reporting.
func CheckOutAccommodation(c *fiber.Ctx) error {
	property := propertyFromContext(c)
	accID := c.Params("accommodation_id")

	var acc model.Accommodation
	if err := database.GetDB().
		Where("id = ? AND property_id = ?", accID, property.ID).
		First(&acc).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Accommodation not found",
		})
	}

	if !acc.IsActive {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Accommodation is already checked out",
		})
	}

	now := time.Now()
	updates := map[string]interface{}{
		"is_active":      false,
		"check_out_date": &now,
	}
	if err := database.GetDB().Model(&acc).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not check out accommodation",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Checked out successfully",
	})
}

// ListAccommodations lists a property's stays, active ones first.
func ListAccommodations(c *fiber.Ctx) error {
	property := propertyFromContext(c)

	query := database.GetDB().Where("property_id = ?", property.ID)
	if c.Query("active") == "true" {
		query = query.Where("is_active = ?", true)
	}

	var accs []model.Accommodation
	if err := query.
		Preload("Tenant").
		Preload("Room").
		Preload("Bed").
		Order("is_active desc, check_in_date desc").
		Find(&accs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch accommodations",
		})
	}

	return c.JSON(accs)
}

// GetBedAvailability reports whether a specific bed can be assigned.
func GetBedAvailability(c *fiber.Ctx) error {
	property := propertyFromContext(c)

	roomID, err := strconv.ParseUint(c.Params("room_id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid room id",
		})
	}
	bedID, err := strconv.ParseUint(c.Params("bed_id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid bed id",
		})
	}

	beds, _, accs, err := loadOccupancySnapshot(database.GetDB(), property.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not load occupancy data",
		})
	}

	if err := occupancy.CheckBedAvailable(beds, accs, property.ID, uint(roomID), uint(bedID)); err != nil {
		if status, ok := occupancyErrorStatus(err); ok {
			return c.Status(status).JSON(fiber.Map{
				"available": false,
				"reason":    err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not check bed availability",
		})
	}

	return c.JSON(fiber.Map{
		"available": true,
	})
}

// GetRoomOccupancy reports how full a room is against its capacity.
func GetRoomOccupancy(c *fiber.Ctx) error {
	property := propertyFromContext(c)

	roomID, err := strconv.ParseUint(c.Params("room_id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid room id",
		})
	}

	_, rooms, accs, err := loadOccupancySnapshot(database.GetDB(), property.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not load occupancy data",
		})
	}

	occ, capErr := occupancy.CheckRoomCapacity(rooms, accs, property.ID, uint(roomID))
	if capErr != nil && !errors.Is(capErr, occupancy.ErrRoomFull) {
		if status, ok := occupancyErrorStatus(capErr); ok {
			return c.Status(status).JSON(fiber.Map{"error": capErr.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not check room occupancy",
		})
	}

	return c.JSON(fiber.Map{
		"occupancy": occ,
		"full":      errors.Is(capErr, occupancy.ErrRoomFull),
	})
}
