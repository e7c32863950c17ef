package cron

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"roomstay_backend/internal/model"
	"roomstay_backend/pkg/database"
	"roomstay_backend/pkg/email"
	"roomstay_backend/pkg/subscription"
)

func InitSubscriptionExpiryCron() {
	c := cron.New()

	_, err := c.AddFunc("0 9 * * *", func() {
		markExpiredSubscriptions()
		checkExpiringSubscriptions()
	})

	if err != nil {
		log.Printf("Could not initialize subscription expiry cron: %v", err)
		return
	}

	c.Start()
}

// markExpiredSubscriptions persists the derived expired status for
// rows whose end date has passed. Status reads never depend on this
// job; it only keeps the stored column in line for reporting queries.
func markExpiredSubscriptions() {
	result := database.DB.Model(&model.Subscription{}).
		Where("status = ? AND end_date < ?", subscription.StatusActive, time.Now()).
		Update("status", subscription.StatusExpired)

	if result.Error != nil {
		log.Printf("Error marking expired subscriptions: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("Marked %d subscriptions as expired", result.RowsAffected)
	}
}

func checkExpiringSubscriptions() {
	log.Println("Checking for expiring subscriptions...")

	warningDays := []int{7, 3}

	for _, days := range warningDays {
		var subs []model.Subscription
		targetDate := time.Now().AddDate(0, 0, days).Format("2006-01-02")

		err := database.DB.Where("DATE(end_date) = ? AND status = ?", targetDate, subscription.StatusActive).
			Preload("User").
			Find(&subs).Error

		if err != nil {
			log.Printf("Error fetching expiring subscriptions: %v", err)
			continue
		}

		log.Printf("Found %d subscriptions expiring in %d days", len(subs), days)

		for _, sub := range subs {
			if email.GlobalEmailService == nil {
				continue
			}

			err := email.GlobalEmailService.SendSubscriptionExpiryWarning(
				sub.User.Email,
				sub.User.GetFullName(),
				sub.PlanName,
				sub.EndDate,
				days,
			)
			if err != nil {
				log.Printf("Error sending expiry warning to %s: %v", sub.User.Email, err)
			} else {
				log.Printf("Sent expiry warning to %s for subscription expiring in %d days", sub.User.Email, days)
			}
		}
	}
}
