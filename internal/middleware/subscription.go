package middleware

import (
	"time"

	"roomstay_backend/internal/model"
	"roomstay_backend/pkg/database"
	"roomstay_backend/pkg/subscription"
	"roomstay_backend/pkg/utils/jwt"

	"github.com/gofiber/fiber/v2"
)

// activeSubscription loads the user's current subscription, if any,
// filtering out rows whose end date has already passed.
func activeSubscription(userID uint) (*model.Subscription, bool) {
	var sub model.Subscription
	err := database.DB.Where("user_id = ? AND status = ?", userID, subscription.StatusActive).
		Order("end_date desc").
		First(&sub).Error
	if err != nil {
		return nil, false
	}

	if subscription.StatusAt(sub.ToRecord(), time.Now()).Status != subscription.StatusActive {
		return nil, false
	}

	return &sub, true
}

// CheckFeatureAccess gates a route behind a plan feature flag. The
// check runs against the feature set copied onto the subscription at
// purchase time.
func CheckFeatureAccess(feature subscription.Feature) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := c.Locals("user").(*jwt.Claims)

		sub, ok := activeSubscription(claims.UserID)
		if !ok || !subscription.HasFeature(sub.Features, feature) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "This feature requires a higher subscription plan",
			})
		}

		return c.Next()
	}
}

// CheckPropertyFeature gates a public route behind the listing
// owner's plan feature. The property id comes from the
// ":property_id" param; the requester needs no session.
func CheckPropertyFeature(feature subscription.Feature) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var property model.Property
		if err := database.DB.First(&property, c.Params("property_id")).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Property not found",
			})
		}

		sub, ok := activeSubscription(property.UserID)
		if !ok || !subscription.HasFeature(sub.Features, feature) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "This listing does not accept inquiries",
			})
		}

		return c.Next()
	}
}

// CheckListingLimit blocks property creation once the plan's listing
// cap is reached. Users without a subscription fall back to the free
// tier limits.
func CheckListingLimit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := c.Locals("user").(*jwt.Claims)

		limits := subscription.FreeTierLimits
		if sub, ok := activeSubscription(claims.UserID); ok {
			var plan model.Plan
			if err := database.DB.Where("name = ?", sub.PlanName).First(&plan).Error; err == nil {
				limits = plan.Limits.Data()
			}
		}

		var currentListings int64
		database.DB.Model(&model.Property{}).Where("user_id = ?", claims.UserID).Count(&currentListings)

		if int(currentListings) >= limits.MaxListings {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":         "You have reached your property listing limit. Please upgrade your plan.",
				"current_count": currentListings,
				"max_limit":     limits.MaxListings,
			})
		}

		return c.Next()
	}
}

// CheckImageLimit blocks image uploads past the plan's per-listing cap.
func CheckImageLimit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := c.Locals("user").(*jwt.Claims)

		limits := subscription.FreeTierLimits
		if sub, ok := activeSubscription(claims.UserID); ok {
			var plan model.Plan
			if err := database.DB.Where("name = ?", sub.PlanName).First(&plan).Error; err == nil {
				limits = plan.Limits.Data()
			}
		}

		var imageCount int64
		database.DB.Model(&model.PropertyImage{}).
			Where("property_id = ?", c.Params("property_id")).
			Count(&imageCount)

		if int(imageCount) >= limits.MaxImagesPerList {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":     "You have reached the image limit for this listing",
				"max_limit": limits.MaxImagesPerList,
			})
		}

		return c.Next()
	}
}
