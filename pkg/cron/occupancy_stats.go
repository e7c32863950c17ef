package cron

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"roomstay_backend/pkg/database"
	"roomstay_backend/pkg/email"
)

type OccupancyStats struct {
	UserID          uint
	UserEmail       string
	FullName        string
	TotalProperties int64
	TotalBeds       int64
	OccupiedBeds    int64
	TotalViews      int64
	InquiryCount    int64
}

func InitOccupancyStatsCron(emailService *email.EmailService) {
	c := cron.New()

	// Sundays at 20:00.
	_, err := c.AddFunc("0 20 * * 0", func() {
		sendWeeklyOccupancyStats(emailService)
	})

	// First of the month at 20:00.
	_, err = c.AddFunc("0 20 1 * *", func() {
		sendMonthlyOccupancyStats(emailService)
	})

	if err != nil {
		log.Printf("Could not initialize occupancy stats cron: %v", err)
		return
	}

	c.Start()
}

func sendWeeklyOccupancyStats(emailService *email.EmailService) {
	startDate := time.Now().AddDate(0, 0, -7)
	sendOccupancyStats(emailService, startDate, "weekly")
}

func sendMonthlyOccupancyStats(emailService *email.EmailService) {
	startDate := time.Now().AddDate(0, -1, 0)
	sendOccupancyStats(emailService, startDate, "monthly")
}

func sendOccupancyStats(emailService *email.EmailService, startDate time.Time, period string) {
	var stats []OccupancyStats

	err := database.GetDB().Raw(`
        SELECT
            u.id as user_id,
            u.email as user_email,
            TRIM(CONCAT(u.first_name, ' ', u.last_name)) as full_name,
            COUNT(DISTINCT p.id) as total_properties,
            COUNT(DISTINCT b.id) as total_beds,
            COUNT(DISTINCT a.id) as occupied_beds,
            COUNT(DISTINCT pv.id) as total_views,
            COUNT(DISTINCT i.id) as inquiry_count
        FROM users u
        LEFT JOIN properties p ON u.id = p.user_id AND p.deleted_at IS NULL
        LEFT JOIN beds b ON p.id = b.property_id AND b.deleted_at IS NULL
        LEFT JOIN accommodations a ON b.id = a.bed_id AND a.is_active = true
        LEFT JOIN property_views pv ON p.id = pv.property_id AND pv.created_at >= ?
        LEFT JOIN inquiries i ON p.id = i.property_id AND i.created_at >= ?
        WHERE u.role = 'landlord'
        GROUP BY u.id
        HAVING COUNT(DISTINCT p.id) > 0
    `, startDate, startDate).Scan(&stats).Error

	if err != nil {
		log.Printf("Error fetching occupancy stats: %v", err)
		return
	}

	for _, stat := range stats {
		err := emailService.SendOccupancyDigest(
			stat.UserEmail,
			stat.FullName,
			period,
			stat.TotalProperties,
			stat.TotalBeds,
			stat.OccupiedBeds,
			stat.TotalViews,
			stat.InquiryCount,
			startDate,
		)
		if err != nil {
			log.Printf("Error sending occupancy digest to %s: %v", stat.UserEmail, err)
		}
	}
}
