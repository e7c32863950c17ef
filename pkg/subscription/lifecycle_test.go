package subscription_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomstay_backend/pkg/pricing"
	"roomstay_backend/pkg/subscription"
)

var testNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func activeSub(end time.Time) subscription.Record {
	return subscription.Record{
		UserID:    42,
		UserType:  subscription.UserTenant,
		PlanName:  "premium",
		Period:    pricing.PeriodMonthly,
		Status:    subscription.StatusActive,
		StartDate: end.AddDate(0, -1, 0),
		EndDate:   end,
	}
}

func TestLifecyclePurchase(t *testing.T) {
	t.Parallel()

	lc := subscription.NewLifecycle(7)

	t.Run("creates an active record with the period's end date", func(t *testing.T) {
		t.Parallel()
		rec, err := lc.Purchase(nil, 42, subscription.UserTenant, "premium", pricing.PeriodQuarterly, 2799, []string{"inquiry_form"}, testNow)
		require.NoError(t, err)
		assert.Equal(t, subscription.StatusActive, rec.Status)
		assert.Equal(t, subscription.PaymentPending, rec.PaymentStatus)
		assert.Equal(t, testNow, rec.StartDate)
		assert.Equal(t, testNow.AddDate(0, 3, 0), rec.EndDate)
		assert.Equal(t, 0, rec.RenewalCount)
	})

	t.Run("rejects a second purchase while one is active", func(t *testing.T) {
		t.Parallel()
		existing := []subscription.Record{activeSub(testNow.AddDate(0, 0, 10))}
		_, err := lc.Purchase(existing, 42, subscription.UserTenant, "basic", pricing.PeriodMonthly, 499, nil, testNow)
		assert.ErrorIs(t, err, subscription.ErrDuplicateActiveSubscription)
	})

	t.Run("allows purchase once the old subscription has lapsed", func(t *testing.T) {
		t.Parallel()
		existing := []subscription.Record{activeSub(testNow.AddDate(0, 0, -1))}
		_, err := lc.Purchase(existing, 42, subscription.UserTenant, "basic", pricing.PeriodMonthly, 499, nil, testNow)
		assert.NoError(t, err)
	})

	t.Run("allows purchase after cancellation", func(t *testing.T) {
		t.Parallel()
		cancelled := activeSub(testNow.AddDate(0, 0, 10))
		cancelled.Status = subscription.StatusCancelled
		_, err := lc.Purchase([]subscription.Record{cancelled}, 42, subscription.UserTenant, "basic", pricing.PeriodMonthly, 499, nil, testNow)
		assert.NoError(t, err)
	})

	t.Run("rejects unknown billing period", func(t *testing.T) {
		t.Parallel()
		_, err := lc.Purchase(nil, 42, subscription.UserTenant, "basic", "weekly", 499, nil, testNow)
		assert.ErrorIs(t, err, pricing.ErrInvalidPeriod)
	})
}

func TestLifecycleRenew(t *testing.T) {
	t.Parallel()

	lc := subscription.NewLifecycle(7)

	t.Run("extends an active subscription from its end date", func(t *testing.T) {
		t.Parallel()
		end := testNow.AddDate(0, 0, 10)
		sub := activeSub(end)

		renewed, err := lc.Renew(sub, testNow)
		require.NoError(t, err)
		assert.Equal(t, end.AddDate(0, 1, 0), renewed.EndDate)
		assert.Equal(t, 1, renewed.RenewalCount)
		assert.Equal(t, subscription.StatusActive, renewed.Status)
	})

	t.Run("extends an expired subscription from now within grace", func(t *testing.T) {
		t.Parallel()
		sub := activeSub(testNow.AddDate(0, 0, -3))

		renewed, err := lc.Renew(sub, testNow)
		require.NoError(t, err)
		assert.Equal(t, testNow.AddDate(0, 1, 0), renewed.EndDate)
		assert.Equal(t, subscription.StatusActive, renewed.Status)
	})

	t.Run("rejects renewal past the grace window", func(t *testing.T) {
		t.Parallel()
		sub := activeSub(testNow.AddDate(0, 0, -8))
		_, err := lc.Renew(sub, testNow)
		assert.ErrorIs(t, err, subscription.ErrNotRenewable)
	})

	t.Run("rejects renewal of a cancelled subscription", func(t *testing.T) {
		t.Parallel()
		sub := activeSub(testNow.AddDate(0, 0, 10))
		sub.Status = subscription.StatusCancelled
		_, err := lc.Renew(sub, testNow)
		assert.ErrorIs(t, err, subscription.ErrNotRenewable)
	})

	t.Run("never shortens the paid period", func(t *testing.T) {
		t.Parallel()
		for _, end := range []time.Time{
			testNow.AddDate(0, 0, -5),
			testNow,
			testNow.AddDate(0, 0, 20),
		} {
			sub := activeSub(end)
			renewed, err := lc.Renew(sub, testNow)
			require.NoError(t, err)
			assert.False(t, renewed.EndDate.Before(end.AddDate(0, 1, 0)),
				"renewed end %s is before %s", renewed.EndDate, end.AddDate(0, 1, 0))
		}
	})
}

func TestLifecycleCancel(t *testing.T) {
	t.Parallel()

	lc := subscription.NewLifecycle(7)

	t.Run("records reason and timestamp", func(t *testing.T) {
		t.Parallel()
		sub := activeSub(testNow.AddDate(0, 0, 10))

		cancelled, err := lc.Cancel(sub, "moving out", testNow)
		require.NoError(t, err)
		assert.Equal(t, subscription.StatusCancelled, cancelled.Status)
		assert.Equal(t, "moving out", cancelled.CancellationReason)
		require.NotNil(t, cancelled.CancelledAt)
		assert.Equal(t, testNow, *cancelled.CancelledAt)
	})

	t.Run("rejects double cancellation", func(t *testing.T) {
		t.Parallel()
		sub := activeSub(testNow.AddDate(0, 0, 10))
		sub.Status = subscription.StatusCancelled
		_, err := lc.Cancel(sub, "again", testNow)
		assert.ErrorIs(t, err, subscription.ErrAlreadyCancelled)
	})
}

func TestStatusAt(t *testing.T) {
	t.Parallel()

	t.Run("active before the end date", func(t *testing.T) {
		t.Parallel()
		info := subscription.StatusAt(activeSub(testNow.AddDate(0, 0, 10)), testNow)
		assert.Equal(t, subscription.StatusActive, info.Status)
		assert.Equal(t, 10, info.DaysRemaining)
	})

	t.Run("expired is derived after the end date", func(t *testing.T) {
		t.Parallel()
		info := subscription.StatusAt(activeSub(testNow.Add(-time.Hour)), testNow)
		assert.Equal(t, subscription.StatusExpired, info.Status)
		assert.Equal(t, 0, info.DaysRemaining)
	})

	t.Run("cancelled is never reported as expired", func(t *testing.T) {
		t.Parallel()
		sub := activeSub(testNow.AddDate(0, 0, -30))
		sub.Status = subscription.StatusCancelled
		info := subscription.StatusAt(sub, testNow)
		assert.Equal(t, subscription.StatusCancelled, info.Status)
	})

	t.Run("partial days round up", func(t *testing.T) {
		t.Parallel()
		info := subscription.StatusAt(activeSub(testNow.Add(36*time.Hour)), testNow)
		assert.Equal(t, 2, info.DaysRemaining)
	})
}
