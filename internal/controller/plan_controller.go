package controller

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"

	"roomstay_backend/internal/model"
	"roomstay_backend/pkg/database"
	"roomstay_backend/pkg/pricing"
	"roomstay_backend/pkg/subscription"
)

type PlanInput struct {
	Name        string             `json:"name" validate:"required"`
	Description string             `json:"description"`
	Prices      pricing.PriceTable `json:"prices" validate:"required"`

	DiscountPercent float64    `json:"discount_percent"`
	DiscountFrom    *time.Time `json:"discount_from"`
	DiscountUntil   *time.Time `json:"discount_until"`
	DiscountActive  bool       `json:"discount_active"`

	Features []string                `json:"features"`
	Limits   subscription.PlanLimits `json:"limits"`

	TrialDays       int    `json:"trial_days"`
	StripeProductID string `json:"stripe_product_id"`
	StripePriceID   string `json:"stripe_price_id"`
}

func (in *PlanInput) validate() (string, bool) {
	if !subscription.ValidPlanName(in.Name) {
		return "Plan name must be one of: basic, standard, premium, enterprise", false
	}

	for period := range in.Prices {
		if !period.Valid() {
			return "Unknown billing period: " + string(period), false
		}
	}

	if in.DiscountPercent < 0 || in.DiscountPercent > 100 {
		return "Discount percent must be between 0 and 100", false
	}

	if in.DiscountActive {
		if in.DiscountFrom == nil || in.DiscountUntil == nil {
			return "An active discount needs both a start and an end date", false
		}
		if in.DiscountUntil.Before(*in.DiscountFrom) {
			return "Discount window end must be after its start", false
		}
	}

	return "", true
}

// ListPlans returns the active plan templates for public display.
func ListPlans(c *fiber.Ctx) error {
	var plans []model.Plan
	if err := database.DB.Where("is_active = ?", true).Find(&plans).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch subscription plans",
		})
	}

	return c.JSON(plans)
}

// GetPlanPrice resolves the effective charge for a plan and period,
// including an active discount window and optional add-ons.
func GetPlanPrice(c *fiber.Ctx) error {
	name := c.Params("name")

	var plan model.Plan
	if err := database.DB.Where("name = ? AND is_active = ?", name, true).First(&plan).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Subscription plan not found",
		})
	}

	period := pricing.BillingPeriod(c.Query("period", string(pricing.PeriodMonthly)))

	var addOns []float64
	if raw := c.Query("add_ons"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Invalid add-on price: " + part,
				})
			}
			addOns = append(addOns, v)
		}
	}

	quote, err := pricing.Resolve(plan.PricingView(), period, addOns, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, pricing.ErrInvalidPeriod), errors.Is(err, pricing.ErrInvalidAddOn):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not resolve plan price",
			})
		}
	}

	return c.JSON(fiber.Map{
		"plan":   plan.Name,
		"period": period,
		"quote":  quote,
	})
}

// CreatePlan creates a plan template. Admin only.
func CreatePlan(c *fiber.Ctx) error {
	input := new(PlanInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if msg, ok := input.validate(); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": msg,
		})
	}

	var existing model.Plan
	if err := database.DB.Where("name = ?", input.Name).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "A plan with this name already exists",
		})
	}

	plan := model.Plan{
		Name:            input.Name,
		Description:     input.Description,
		Prices:          datatypes.NewJSONType(input.Prices),
		DiscountPercent: input.DiscountPercent,
		DiscountFrom:    input.DiscountFrom,
		DiscountUntil:   input.DiscountUntil,
		DiscountActive:  input.DiscountActive,
		Features:        input.Features,
		Limits:          datatypes.NewJSONType(input.Limits),
		TrialDays:       input.TrialDays,
		IsActive:        true,
		StripeProductID: input.StripeProductID,
		StripePriceID:   input.StripePriceID,
	}

	if err := database.DB.Create(&plan).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create plan",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(plan)
}

// UpdatePlan rewrites a plan template. Admin only. Existing
// subscriptions keep their purchase-time feature copies.
func UpdatePlan(c *fiber.Ctx) error {
	id := c.Params("id")

	var plan model.Plan
	if err := database.DB.First(&plan, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Plan not found",
		})
	}

	input := new(PlanInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if msg, ok := input.validate(); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": msg,
		})
	}

	plan.Name = input.Name
	plan.Description = input.Description
	plan.Prices = datatypes.NewJSONType(input.Prices)
	plan.DiscountPercent = input.DiscountPercent
	plan.DiscountFrom = input.DiscountFrom
	plan.DiscountUntil = input.DiscountUntil
	plan.DiscountActive = input.DiscountActive
	plan.Features = input.Features
	plan.Limits = datatypes.NewJSONType(input.Limits)
	plan.TrialDays = input.TrialDays
	plan.StripeProductID = input.StripeProductID
	plan.StripePriceID = input.StripePriceID

	if err := database.DB.Save(&plan).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update plan",
		})
	}

	return c.JSON(plan)
}

// ActivatePlan re-enables purchase of a template. Admin only.
func ActivatePlan(c *fiber.Ctx) error {
	return setPlanActive(c, true)
}

// DeactivatePlan hides a template from purchase without deleting it.
// Admin only.
func DeactivatePlan(c *fiber.Ctx) error {
	return setPlanActive(c, false)
}

func setPlanActive(c *fiber.Ctx, active bool) error {
	id := c.Params("id")

	var plan model.Plan
	if err := database.DB.First(&plan, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Plan not found",
		})
	}

	if err := database.DB.Model(&plan).Update("is_active", active).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update plan",
		})
	}

	return c.JSON(plan)
}

// DeletePlan removes a template. Admin only; purchase records survive
// because they reference the plan by name and carry their own copies.
func DeletePlan(c *fiber.Ctx) error {
	id := c.Params("id")

	var plan model.Plan
	if err := database.DB.First(&plan, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Plan not found",
		})
	}

	if err := database.DB.Delete(&plan).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete plan",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
