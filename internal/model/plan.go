package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"roomstay_backend/pkg/pricing"
	"roomstay_backend/pkg/subscription"
)

// Plan is a subscription plan template. The price table, feature flags
// and numeric limits are stored as JSON documents, mirroring the nested
// shape they have on the wire.
type Plan struct {
	gorm.Model
	Name        string `json:"name" gorm:"uniqueIndex;not null"`
	Description string `json:"description"`

	Prices datatypes.JSONType[pricing.PriceTable] `json:"prices"`

	// A plan carries at most one discount window.
	DiscountPercent float64    `json:"discount_percent"`
	DiscountFrom    *time.Time `json:"discount_from"`
	DiscountUntil   *time.Time `json:"discount_until"`
	DiscountActive  bool       `json:"discount_active" gorm:"default:false"`

	Features datatypes.JSONSlice[string]                 `json:"features"`
	Limits   datatypes.JSONType[subscription.PlanLimits] `json:"limits"`

	TrialDays int  `json:"trial_days" gorm:"default:0"`
	IsActive  bool `json:"is_active" gorm:"default:true"`

	StripeProductID string `json:"stripe_product_id"`
	StripePriceID   string `json:"stripe_price_id"`
}

// PricingView maps the row to the shape the pricing resolver consumes.
func (p *Plan) PricingView() pricing.PlanPricing {
	view := pricing.PlanPricing{Prices: p.Prices.Data()}
	if p.DiscountFrom != nil && p.DiscountUntil != nil {
		view.Discount = &pricing.Discount{
			Percent:     p.DiscountPercent,
			ActiveFrom:  *p.DiscountFrom,
			ActiveUntil: *p.DiscountUntil,
			IsActive:    p.DiscountActive,
		}
	}
	return view
}
