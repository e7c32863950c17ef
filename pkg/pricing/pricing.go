package pricing

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Billing periods supported by every plan's price table.
type BillingPeriod string

const (
	PeriodMonthly    BillingPeriod = "monthly"
	PeriodQuarterly  BillingPeriod = "quarterly"
	PeriodHalfYearly BillingPeriod = "half_yearly"
	PeriodYearly     BillingPeriod = "yearly"
)

var (
	ErrInvalidPeriod = errors.New("no price defined for the requested billing period")
	ErrInvalidAddOn  = errors.New("add-on price must be non-negative")
)

// Valid reports whether the period is one of the four supported values.
func (p BillingPeriod) Valid() bool {
	switch p {
	case PeriodMonthly, PeriodQuarterly, PeriodHalfYearly, PeriodYearly:
		return true
	}
	return false
}

// Months returns the length of the period in calendar months, 0 for unknown periods.
func (p BillingPeriod) Months() int {
	switch p {
	case PeriodMonthly:
		return 1
	case PeriodQuarterly:
		return 3
	case PeriodHalfYearly:
		return 6
	case PeriodYearly:
		return 12
	}
	return 0
}

// PriceTable maps each billing period to its base amount.
type PriceTable map[BillingPeriod]float64

// Discount is a single percentage-off window attached to a plan.
// It only takes effect while IsActive and the current time falls
// inside [ActiveFrom, ActiveUntil].
type Discount struct {
	Percent     float64   `json:"percent"`
	ActiveFrom  time.Time `json:"active_from"`
	ActiveUntil time.Time `json:"active_until"`
	IsActive    bool      `json:"is_active"`
}

// InEffect reports whether the discount applies at the given time.
func (d *Discount) InEffect(now time.Time) bool {
	if d == nil || !d.IsActive {
		return false
	}
	return !now.Before(d.ActiveFrom) && !now.After(d.ActiveUntil)
}

// PlanPricing is the slice of a plan template the resolver needs.
type PlanPricing struct {
	Prices   PriceTable
	Discount *Discount
}

// Quote is the resolved charge for a plan/period combination.
type Quote struct {
	BaseAmount      float64 `json:"base_amount"`
	DiscountApplied bool    `json:"discount_applied"`
	DiscountPercent float64 `json:"discount_percent"`
	FinalAmount     float64 `json:"final_amount"`
}

// Resolve computes the effective charge for the plan at the given time.
// The discount, when in effect, applies to the base amount only; add-ons
// are summed on top undiscounted. The result is rounded to two decimals.
func Resolve(plan PlanPricing, period BillingPeriod, addOns []float64, now time.Time) (Quote, error) {
	base, ok := plan.Prices[period]
	if !period.Valid() || !ok {
		return Quote{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}

	quote := Quote{
		BaseAmount:  base,
		FinalAmount: base,
	}

	if plan.Discount.InEffect(now) {
		quote.DiscountApplied = true
		quote.DiscountPercent = plan.Discount.Percent
		quote.FinalAmount = round2(base * (1 - plan.Discount.Percent/100))
	}

	for _, addOn := range addOns {
		if addOn < 0 {
			return Quote{}, fmt.Errorf("%w: got %.2f", ErrInvalidAddOn, addOn)
		}
		quote.FinalAmount = round2(quote.FinalAmount + addOn)
	}

	return quote, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
