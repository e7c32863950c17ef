package pricing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomstay_backend/pkg/pricing"
)

func premiumPlan(discount *pricing.Discount) pricing.PlanPricing {
	return pricing.PlanPricing{
		Prices: pricing.PriceTable{
			pricing.PeriodMonthly:    999,
			pricing.PeriodQuarterly:  2799,
			pricing.PeriodHalfYearly: 5299,
			pricing.PeriodYearly:     9999,
		},
		Discount: discount,
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("no discount returns base amount", func(t *testing.T) {
		t.Parallel()
		quote, err := pricing.Resolve(premiumPlan(nil), pricing.PeriodMonthly, nil, now)
		require.NoError(t, err)
		assert.Equal(t, float64(999), quote.BaseAmount)
		assert.Equal(t, float64(999), quote.FinalAmount)
		assert.False(t, quote.DiscountApplied)
	})

	t.Run("discount applies inside the window", func(t *testing.T) {
		t.Parallel()
		plan := premiumPlan(&pricing.Discount{
			Percent:     20,
			ActiveFrom:  now.AddDate(0, 0, -5),
			ActiveUntil: now.AddDate(0, 0, 5),
			IsActive:    true,
		})

		quote, err := pricing.Resolve(plan, pricing.PeriodMonthly, nil, now)
		require.NoError(t, err)
		assert.True(t, quote.DiscountApplied)
		assert.Equal(t, float64(20), quote.DiscountPercent)
		assert.Equal(t, 799.2, quote.FinalAmount)
	})

	t.Run("discount ignored outside the window", func(t *testing.T) {
		t.Parallel()
		plan := premiumPlan(&pricing.Discount{
			Percent:     20,
			ActiveFrom:  now.AddDate(0, 0, -10),
			ActiveUntil: now.AddDate(0, 0, -5),
			IsActive:    true,
		})

		quote, err := pricing.Resolve(plan, pricing.PeriodMonthly, nil, now)
		require.NoError(t, err)
		assert.False(t, quote.DiscountApplied)
		assert.Equal(t, float64(999), quote.FinalAmount)
	})

	t.Run("discount ignored when flag is off", func(t *testing.T) {
		t.Parallel()
		plan := premiumPlan(&pricing.Discount{
			Percent:     20,
			ActiveFrom:  now.AddDate(0, 0, -5),
			ActiveUntil: now.AddDate(0, 0, 5),
			IsActive:    false,
		})

		quote, err := pricing.Resolve(plan, pricing.PeriodMonthly, nil, now)
		require.NoError(t, err)
		assert.False(t, quote.DiscountApplied)
		assert.Equal(t, float64(999), quote.FinalAmount)
	})

	t.Run("window boundaries are inclusive", func(t *testing.T) {
		t.Parallel()
		plan := premiumPlan(&pricing.Discount{
			Percent:     10,
			ActiveFrom:  now,
			ActiveUntil: now.AddDate(0, 0, 5),
			IsActive:    true,
		})

		quote, err := pricing.Resolve(plan, pricing.PeriodMonthly, nil, now)
		require.NoError(t, err)
		assert.True(t, quote.DiscountApplied)
	})

	t.Run("add-ons are summed after the discount", func(t *testing.T) {
		t.Parallel()
		plan := premiumPlan(&pricing.Discount{
			Percent:     50,
			ActiveFrom:  now.AddDate(0, 0, -1),
			ActiveUntil: now.AddDate(0, 0, 1),
			IsActive:    true,
		})

		quote, err := pricing.Resolve(plan, pricing.PeriodMonthly, []float64{100, 50.5}, now)
		require.NoError(t, err)
		// 999 * 0.5 = 499.5, add-ons undiscounted on top
		assert.Equal(t, 650.0, quote.FinalAmount)
	})

	t.Run("negative add-on fails", func(t *testing.T) {
		t.Parallel()
		_, err := pricing.Resolve(premiumPlan(nil), pricing.PeriodMonthly, []float64{100, -1}, now)
		assert.ErrorIs(t, err, pricing.ErrInvalidAddOn)
	})

	t.Run("unknown period fails", func(t *testing.T) {
		t.Parallel()
		_, err := pricing.Resolve(premiumPlan(nil), "weekly", nil, now)
		assert.ErrorIs(t, err, pricing.ErrInvalidPeriod)
	})

	t.Run("missing price entry fails", func(t *testing.T) {
		t.Parallel()
		plan := pricing.PlanPricing{Prices: pricing.PriceTable{pricing.PeriodMonthly: 499}}
		_, err := pricing.Resolve(plan, pricing.PeriodYearly, nil, now)
		assert.ErrorIs(t, err, pricing.ErrInvalidPeriod)
	})

	t.Run("deterministic for identical inputs", func(t *testing.T) {
		t.Parallel()
		plan := premiumPlan(&pricing.Discount{
			Percent:     15,
			ActiveFrom:  now.AddDate(0, 0, -1),
			ActiveUntil: now.AddDate(0, 0, 1),
			IsActive:    true,
		})

		first, err := pricing.Resolve(plan, pricing.PeriodYearly, []float64{250}, now)
		require.NoError(t, err)
		second, err := pricing.Resolve(plan, pricing.PeriodYearly, []float64{250}, now)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("result is rounded to two decimals", func(t *testing.T) {
		t.Parallel()
		plan := pricing.PlanPricing{
			Prices: pricing.PriceTable{pricing.PeriodMonthly: 333.33},
			Discount: &pricing.Discount{
				Percent:     33,
				ActiveFrom:  now.AddDate(0, 0, -1),
				ActiveUntil: now.AddDate(0, 0, 1),
				IsActive:    true,
			},
		}

		quote, err := pricing.Resolve(plan, pricing.PeriodMonthly, nil, now)
		require.NoError(t, err)
		// 333.33 * 0.67 = 223.3311 -> 223.33
		assert.Equal(t, 223.33, quote.FinalAmount)
	})
}

func TestBillingPeriodMonths(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, pricing.PeriodMonthly.Months())
	assert.Equal(t, 3, pricing.PeriodQuarterly.Months())
	assert.Equal(t, 6, pricing.PeriodHalfYearly.Months())
	assert.Equal(t, 12, pricing.PeriodYearly.Months())
	assert.Equal(t, 0, pricing.BillingPeriod("weekly").Months())
}
