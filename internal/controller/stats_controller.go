package controller

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"roomstay_backend/internal/model"
	"roomstay_backend/pkg/database"
	"roomstay_backend/pkg/utils/jwt"
)

type DashboardStats struct {
	TotalProperties  int64         `json:"total_properties"`
	ActiveProperties int64         `json:"active_properties"`
	TotalBeds        int64         `json:"total_beds"`
	OccupiedBeds     int64         `json:"occupied_beds"`
	OccupancyRate    float64       `json:"occupancy_rate"`
	TotalViews       int64         `json:"total_views"`
	NewInquiries     int64         `json:"new_inquiries"`
	TopProperties    []TopProperty `json:"top_properties"`
	DailyStats       []DailyStat   `json:"daily_stats"`
}

type TopProperty struct {
	ID         uint   `json:"id"`
	Title      string `json:"title"`
	City       string `json:"city"`
	Type       string `json:"type"`
	Views      int64  `json:"views"`
	CoverImage string `json:"cover_image"`
}

type DailyStat struct {
	Date      string `json:"date"`
	Views     int64  `json:"views"`
	Inquiries int64  `json:"inquiries"`
}

// ViewCooldown is how long repeat views from the same IP are ignored.
const ViewCooldown = 24 * time.Hour

// GetDashboardStats aggregates the landlord's portfolio numbers.
func GetDashboardStats(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	db := database.GetDB()

	var stats DashboardStats

	db.Model(&model.Property{}).
		Where("user_id = ?", claims.UserID).
		Count(&stats.TotalProperties)

	db.Model(&model.Property{}).
		Where("user_id = ? AND status = ?", claims.UserID, model.PropertyStatusActive).
		Count(&stats.ActiveProperties)

	db.Model(&model.Bed{}).
		Joins("JOIN properties ON beds.property_id = properties.id").
		Where("properties.user_id = ?", claims.UserID).
		Count(&stats.TotalBeds)

	db.Model(&model.Accommodation{}).
		Joins("JOIN properties ON accommodations.property_id = properties.id").
		Where("properties.user_id = ? AND accommodations.is_active = ?", claims.UserID, true).
		Count(&stats.OccupiedBeds)

	if stats.TotalBeds > 0 {
		stats.OccupancyRate = float64(stats.OccupiedBeds) / float64(stats.TotalBeds) * 100
	}

	db.Model(&model.PropertyView{}).
		Joins("JOIN properties ON property_views.property_id = properties.id").
		Where("properties.user_id = ?", claims.UserID).
		Count(&stats.TotalViews)

	db.Model(&model.Inquiry{}).
		Joins("JOIN properties ON inquiries.property_id = properties.id").
		Where("properties.user_id = ? AND inquiries.status = ?", claims.UserID, model.InquiryStatusNew).
		Count(&stats.NewInquiries)

	// Five most viewed active listings.
	var topProps []TopProperty
	db.Table("properties").
		Select("properties.id, properties.title, properties.city, properties.type, COUNT(property_views.id) as views").
		Joins("LEFT JOIN property_views ON properties.id = property_views.property_id").
		Where("properties.user_id = ? AND properties.status = ?", claims.UserID, model.PropertyStatusActive).
		Group("properties.id").
		Order("views DESC").
		Limit(5).
		Scan(&topProps)

	for i := range topProps {
		var coverImage model.PropertyImage
		db.Where("property_id = ? AND is_cover = ?", topProps[i].ID, true).
			First(&coverImage)
		topProps[i].CoverImage = coverImage.URL
	}
	stats.TopProperties = topProps

	// Last 7 days of views and inquiries.
	var dailyStats []DailyStat
	for i := 6; i >= 0; i-- {
		date := time.Now().AddDate(0, 0, -i)
		var stat DailyStat
		stat.Date = date.Format("2006-01-02")

		db.Model(&model.PropertyView{}).
			Joins("JOIN properties ON property_views.property_id = properties.id").
			Where("properties.user_id = ? AND DATE(property_views.created_at) = ?",
				claims.UserID, date.Format("2006-01-02")).
			Count(&stat.Views)

		db.Model(&model.Inquiry{}).
			Joins("JOIN properties ON inquiries.property_id = properties.id").
			Where("properties.user_id = ? AND DATE(inquiries.created_at) = ?",
				claims.UserID, date.Format("2006-01-02")).
			Count(&stat.Inquiries)

		dailyStats = append(dailyStats, stat)
	}
	stats.DailyStats = dailyStats

	return c.JSON(stats)
}

// RecordPropertyView records a public listing view. Counter updates
// happen in the PropertyView model hooks.
func RecordPropertyView(c *fiber.Ctx) error {
	propertyIDStr := c.Params("id")
	propertyID, err := strconv.ParseUint(propertyIDStr, 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid property ID",
		})
	}

	var property model.Property
	if err := database.GetDB().First(&property, propertyID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Property not found",
		})
	}

	ip := c.IP()
	userAgent := c.Get("User-Agent")

	sessionID := c.Get("X-Session-ID")
	if sessionID == "" {
		sessionID = fmt.Sprintf("%s_%s", ip, time.Now().Format("20060102"))
	}

	var userID *uint
	if claims, ok := c.Locals("user").(*jwt.Claims); ok {
		userID = &claims.UserID
	}

	// Same IP within the cooldown does not create another row.
	var lastView model.PropertyView
	result := database.GetDB().Where(
		"property_id = ? AND ip = ? AND viewed_at > ?",
		propertyID,
		ip,
		time.Now().Add(-ViewCooldown),
	).First(&lastView)

	if result.RowsAffected == 0 {
		view := model.PropertyView{
			PropertyID: uint(propertyID),
			UserID:     userID,
			IP:         ip,
			SessionID:  sessionID,
			UserAgent:  userAgent,
			ViewedAt:   time.Now(),
		}

		if err := database.GetDB().Create(&view).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not record view",
			})
		}
	}

	return c.SendStatus(fiber.StatusOK)
}
