package controller

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/customer"
	stripesub "github.com/stripe/stripe-go/v74/subscription"
	"github.com/stripe/stripe-go/v74/webhook"
	"gorm.io/gorm"

	"roomstay_backend/internal/model"
	"roomstay_backend/pkg/database"
	"roomstay_backend/pkg/email"
	"roomstay_backend/pkg/pricing"
	"roomstay_backend/pkg/subscription"
	"roomstay_backend/pkg/utils/jwt"
)

type PurchaseInput struct {
	PlanName  string    `json:"plan_name" validate:"required"`
	Period    string    `json:"period" validate:"required"`
	AddOns    []float64 `json:"add_ons"`
	AutoRenew bool      `json:"auto_renew"`
}

type CancelInput struct {
	Reason string `json:"reason"`
}

var lifecycle *subscription.Lifecycle

// InitSubscriptionController wires the lifecycle engine with the
// configured renewal grace window.
func InitSubscriptionController(renewalGraceDays int) {
	lifecycle = subscription.NewLifecycle(renewalGraceDays)
}

// businessErrorStatus maps evaluator failures onto HTTP statuses.
// Anything it does not recognize is an infrastructure error and is
// reported as-is with a 500.
func businessErrorStatus(err error) (int, bool) {
	switch {
	case errors.Is(err, pricing.ErrInvalidPeriod), errors.Is(err, pricing.ErrInvalidAddOn):
		return fiber.StatusBadRequest, true
	case errors.Is(err, subscription.ErrDuplicateActiveSubscription),
		errors.Is(err, subscription.ErrAlreadyCancelled):
		return fiber.StatusConflict, true
	case errors.Is(err, subscription.ErrNotRenewable):
		return fiber.StatusNotFound, true
	}
	return 0, false
}

// PurchaseSubscription buys a plan for the authenticated user. The
// duplicate-active check and the insert run in one transaction so two
// concurrent purchases cannot both pass the precondition.
func PurchaseSubscription(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(PurchaseInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var plan model.Plan
	if err := database.DB.Where("name = ? AND is_active = ?", input.PlanName, true).First(&plan).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Subscription plan not found",
		})
	}

	now := time.Now()
	quote, err := pricing.Resolve(plan.PricingView(), pricing.BillingPeriod(input.Period), input.AddOns, now)
	if err != nil {
		if status, ok := businessErrorStatus(err); ok {
			return c.Status(status).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not resolve plan price",
		})
	}

	var userSub model.Subscription
	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		var existingRows []model.Subscription
		if err := tx.Where("user_id = ?", claims.UserID).Find(&existingRows).Error; err != nil {
			return err
		}

		existing := make([]subscription.Record, len(existingRows))
		for i := range existingRows {
			existing[i] = existingRows[i].ToRecord()
		}

		record, err := lifecycle.Purchase(existing, claims.UserID, claims.Role, plan.Name,
			pricing.BillingPeriod(input.Period), quote.FinalAmount, plan.Features, now)
		if err != nil {
			return err
		}
		record.AutoRenew = input.AutoRenew

		userSub = model.Subscription{Reference: uuid.New().String()}
		userSub.ApplyRecord(record)

		return tx.Create(&userSub).Error
	})
	if txErr != nil {
		if status, ok := businessErrorStatus(txErr); ok {
			return c.Status(status).JSON(fiber.Map{"error": txErr.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save subscription",
		})
	}

	// Free plans complete immediately; paid plans go through Stripe.
	if quote.FinalAmount == 0 || plan.StripePriceID == "" {
		if err := database.DB.Model(&userSub).
			Update("payment_status", subscription.PaymentCompleted).Error; err == nil {
			userSub.PaymentStatus = subscription.PaymentCompleted
		}
		sendSubscriptionStartedEmail(&userSub, false)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":      "Subscription created successfully",
			"subscription": userSub,
		})
	}

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	var user model.User
	if err := database.DB.First(&user, claims.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	stripeCustomer, err := customer.New(&stripe.CustomerParams{
		Email: stripe.String(user.Email),
		Name:  stripe.String(user.GetFullName()),
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create Stripe customer",
		})
	}

	stripeSubscription, err := stripesub.New(&stripe.SubscriptionParams{
		Customer: stripe.String(stripeCustomer.ID),
		Items: []*stripe.SubscriptionItemsParams{
			{
				Price: stripe.String(plan.StripePriceID),
			},
		},
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create Stripe subscription",
		})
	}

	updates := map[string]interface{}{
		"stripe_sub_id":  stripeSubscription.ID,
		"payment_status": subscription.PaymentCompleted,
	}
	if err := database.DB.Model(&userSub).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update subscription payment",
		})
	}
	userSub.StripeSubID = stripeSubscription.ID
	userSub.PaymentStatus = subscription.PaymentCompleted

	sendSubscriptionStartedEmail(&userSub, false)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "Subscription created successfully",
		"subscription": userSub,
	})
}

// RenewSubscription extends the user's most recent subscription by one
// billing period, honoring the configured grace window.
func RenewSubscription(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var userSub model.Subscription
	if err := database.DB.Where("user_id = ?", claims.UserID).
		Order("end_date desc").
		First(&userSub).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No subscription found",
		})
	}

	var plan model.Plan
	if err := database.DB.Where("name = ?", userSub.PlanName).First(&plan).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Subscription plan no longer exists",
		})
	}

	now := time.Now()
	record, err := lifecycle.Renew(userSub.ToRecord(), now)
	if err != nil {
		if status, ok := businessErrorStatus(err); ok {
			return c.Status(status).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not renew subscription",
		})
	}

	quote, err := pricing.Resolve(plan.PricingView(), record.Period, nil, now)
	if err == nil {
		record.AmountPaid = quote.FinalAmount
	}
	record.PaymentStatus = subscription.PaymentCompleted

	userSub.ApplyRecord(record)
	if err := database.DB.Save(&userSub).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save subscription",
		})
	}

	sendSubscriptionStartedEmail(&userSub, true)

	return c.JSON(fiber.Map{
		"message":      "Subscription renewed successfully",
		"subscription": userSub,
	})
}

// CancelSubscription cancels the user's current subscription and keeps
// the record.
func CancelSubscription(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(CancelInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var userSub model.Subscription
	if err := database.DB.Where("user_id = ?", claims.UserID).
		Order("end_date desc").
		Preload("User").
		First(&userSub).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No subscription found",
		})
	}

	record, err := lifecycle.Cancel(userSub.ToRecord(), input.Reason, time.Now())
	if err != nil {
		if status, ok := businessErrorStatus(err); ok {
			return c.Status(status).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not cancel subscription",
		})
	}

	if userSub.StripeSubID != "" {
		stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
		if _, err := stripesub.Cancel(userSub.StripeSubID, nil); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not cancel Stripe subscription",
			})
		}
	}

	user := userSub.User
	userSub.ApplyRecord(record)
	if err := database.DB.Save(&userSub).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update subscription status",
		})
	}

	if email.GlobalEmailService != nil {
		err := email.GlobalEmailService.SendSubscriptionCancelledEmail(
			user.Email,
			user.GetFullName(),
			userSub.PlanName,
			userSub.EndDate,
		)
		if err != nil {
			log.Printf("Could not send subscription cancellation email: %v", err)
		}
	}

	return c.JSON(fiber.Map{
		"message": "Subscription cancelled successfully",
	})
}

// GetMySubscription returns the user's most recent subscription along
// with its derived status and days remaining.
func GetMySubscription(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var userSub model.Subscription
	if err := database.DB.Where("user_id = ?", claims.UserID).
		Order("end_date desc").
		First(&userSub).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No subscription found",
		})
	}

	info := subscription.StatusAt(userSub.ToRecord(), time.Now())

	return c.JSON(fiber.Map{
		"subscription":   userSub,
		"status":         info.Status,
		"days_remaining": info.DaysRemaining,
	})
}

// HandleStripeWebhook processes subscription lifecycle events pushed
// by Stripe.
func HandleStripeWebhook(c *fiber.Ctx) error {
	webhookSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")

	payload := c.Body()
	signatureHeader := c.Get("Stripe-Signature")

	event, err := webhook.ConstructEvent(payload, signatureHeader, webhookSecret)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook signature",
		})
	}

	log.Printf("Processing Stripe webhook event: %s", event.Type)

	switch event.Type {
	case "customer.subscription.deleted":
		var subData stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &subData); err != nil {
			return c.Status(fiber.StatusBadRequest).Send(nil)
		}

		var userSub model.Subscription
		if err := database.DB.Where("stripe_sub_id = ?", subData.ID).
			Preload("User").
			First(&userSub).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not find subscription",
			})
		}

		record, err := lifecycle.Cancel(userSub.ToRecord(), "cancelled by payment provider", time.Now())
		if err != nil {
			// Already cancelled locally; nothing to do.
			return c.SendStatus(fiber.StatusOK)
		}

		userSub.ApplyRecord(record)
		if err := database.DB.Save(&userSub).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not update subscription status",
			})
		}

		log.Printf("Subscription %s cancelled via webhook", subData.ID)

	case "customer.subscription.updated":
		var subData stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &subData); err != nil {
			return c.Status(fiber.StatusBadRequest).Send(nil)
		}

		endDate := time.Unix(subData.CurrentPeriodEnd, 0)

		if err := database.DB.Model(&model.Subscription{}).
			Where("stripe_sub_id = ?", subData.ID).
			Update("end_date", endDate).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not update subscription expiry",
			})
		}

		log.Printf("Subscription %s period end updated via webhook", subData.ID)

	case "invoice.payment_failed":
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			return c.Status(fiber.StatusBadRequest).Send(nil)
		}

		if invoice.Subscription != nil {
			if err := database.DB.Model(&model.Subscription{}).
				Where("stripe_sub_id = ?", invoice.Subscription.ID).
				Update("payment_status", subscription.PaymentFailed).Error; err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "Could not update payment status",
				})
			}
		}
	}

	return c.SendStatus(fiber.StatusOK)
}

// HandleSubscriptionSuccess marks the referenced purchase as paid
// after a successful checkout redirect.
func HandleSubscriptionSuccess(c *fiber.Ctx) error {
	reference := c.Query("reference")
	if reference == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing payment reference",
		})
	}

	var userSub model.Subscription
	if err := database.DB.Where("reference = ?", reference).First(&userSub).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Subscription not found",
		})
	}

	if err := database.DB.Model(&userSub).
		Update("payment_status", subscription.PaymentCompleted).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update payment status",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Payment completed successfully",
	})
}

// HandleSubscriptionCancel marks the referenced purchase as failed
// when the customer abandons checkout.
func HandleSubscriptionCancel(c *fiber.Ctx) error {
	reference := c.Query("reference")
	if reference == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing payment reference",
		})
	}

	if err := database.DB.Model(&model.Subscription{}).
		Where("reference = ?", reference).
		Update("payment_status", subscription.PaymentFailed).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update payment status",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Payment was cancelled",
	})
}

func sendSubscriptionStartedEmail(userSub *model.Subscription, isRenewal bool) {
	if email.GlobalEmailService == nil {
		return
	}

	var user model.User
	if err := database.DB.First(&user, userSub.UserID).Error; err != nil {
		return
	}

	err := email.GlobalEmailService.SendSubscriptionStartedEmail(
		user.Email,
		user.GetFullName(),
		userSub.PlanName,
		string(userSub.Period),
		userSub.AmountPaid,
		userSub.EndDate,
		isRenewal,
	)
	if err != nil {
		log.Printf("Could not send subscription email: %v", err)
	}
}
