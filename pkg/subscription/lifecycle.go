package subscription

import (
	"fmt"
	"math"
	"time"

	"roomstay_backend/pkg/pricing"
)

// Lifecycle applies the subscription state machine. It is a pure
// evaluator: callers load the relevant records, pass an explicit clock
// value, and persist whatever comes back.
type Lifecycle struct {
	// GraceDays is how many days past expiry a renewal is still accepted.
	GraceDays int
}

func NewLifecycle(graceDays int) *Lifecycle {
	if graceDays < 0 {
		graceDays = 0
	}
	return &Lifecycle{GraceDays: graceDays}
}

// Purchase creates a new subscription record for the user. The existing
// slice must be a snapshot of the user's current subscriptions; the call
// fails if any of them is still active at the given time. The caller is
// responsible for charging the amount and flipping PaymentStatus.
func (l *Lifecycle) Purchase(existing []Record, userID uint, userType UserType, planName string, period pricing.BillingPeriod, amount float64, features []string, now time.Time) (Record, error) {
	if !period.Valid() {
		return Record{}, fmt.Errorf("%w: %q", pricing.ErrInvalidPeriod, period)
	}

	for _, sub := range existing {
		if StatusAt(sub, now).Status == StatusActive {
			return Record{}, fmt.Errorf("%w: user %d", ErrDuplicateActiveSubscription, userID)
		}
	}

	return Record{
		UserID:        userID,
		UserType:      userType,
		PlanName:      planName,
		Period:        period,
		AmountPaid:    amount,
		PaymentStatus: PaymentPending,
		Status:        StatusActive,
		StartDate:     now,
		EndDate:       now.AddDate(0, period.Months(), 0),
		Features:      features,
		RenewalCount:  0,
	}, nil
}

// Renew extends the subscription by one billing period. A subscription
// is renewable while it is active, or after expiry for up to GraceDays.
// The new end date never loses already-paid time: it extends from the
// later of now and the current end date.
func (l *Lifecycle) Renew(sub Record, now time.Time) (Record, error) {
	st := StatusAt(sub, now)
	switch st.Status {
	case StatusActive:
	case StatusExpired:
		deadline := sub.EndDate.AddDate(0, 0, l.GraceDays)
		if now.After(deadline) {
			return Record{}, fmt.Errorf("%w: grace window of %d days ended %s", ErrNotRenewable, l.GraceDays, deadline.Format(time.RFC3339))
		}
	default:
		return Record{}, fmt.Errorf("%w: status is %s", ErrNotRenewable, st.Status)
	}

	base := sub.EndDate
	if now.After(base) {
		base = now
	}

	sub.EndDate = base.AddDate(0, sub.Period.Months(), 0)
	sub.RenewalCount++
	sub.Status = StatusActive
	return sub, nil
}

// Cancel marks the subscription cancelled and records the reason. The
// record is kept; nothing is deleted.
func (l *Lifecycle) Cancel(sub Record, reason string, now time.Time) (Record, error) {
	if sub.Status == StatusCancelled {
		return Record{}, ErrAlreadyCancelled
	}

	sub.Status = StatusCancelled
	sub.CancellationReason = reason
	sub.CancelledAt = &now
	return sub, nil
}

// StatusAt derives the effective status at the given time. Expiry is a
// derived state: a stored "active" becomes "expired" once the end date
// has passed. Cancelled and suspended records are reported as stored.
func StatusAt(sub Record, now time.Time) StatusInfo {
	status := sub.Status
	if status == StatusActive && now.After(sub.EndDate) {
		status = StatusExpired
	}

	days := int(math.Ceil(sub.EndDate.Sub(now).Hours() / 24))
	if days < 0 {
		days = 0
	}

	return StatusInfo{Status: status, DaysRemaining: days}
}
