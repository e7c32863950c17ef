package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"roomstay_backend/pkg/pricing"
	"roomstay_backend/pkg/subscription"
)

// Subscription is a concrete purchase of a plan by a user. The feature
// set is copied from the plan at purchase time so later plan edits do
// not change what the user bought.
type Subscription struct {
	gorm.Model
	UserID   uint                  `json:"user_id" gorm:"index:idx_subscriptions_user_status"`
	UserType subscription.UserType `json:"user_type"`
	PlanName string                `json:"plan_name" gorm:"not null"`
	Period   pricing.BillingPeriod `json:"period" gorm:"not null"`

	AmountPaid    float64                    `json:"amount_paid"`
	PaymentStatus subscription.PaymentStatus `json:"payment_status" gorm:"default:'pending'"`
	Status        subscription.Status        `json:"status" gorm:"default:'active';index:idx_subscriptions_user_status"`

	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`

	Features     datatypes.JSONSlice[string] `json:"features"`
	AutoRenew    bool                        `json:"auto_renew" gorm:"default:false"`
	RenewalCount int                         `json:"renewal_count" gorm:"default:0"`

	CancellationReason string     `json:"cancellation_reason"`
	CancelledAt        *time.Time `json:"cancelled_at"`

	Reference   string `json:"reference" gorm:"uniqueIndex"`
	StripeSubID string `json:"stripe_subscription_id"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

// ToRecord maps the row to the lifecycle engine's view.
func (s *Subscription) ToRecord() subscription.Record {
	return subscription.Record{
		UserID:             s.UserID,
		UserType:           s.UserType,
		PlanName:           s.PlanName,
		Period:             s.Period,
		AmountPaid:         s.AmountPaid,
		PaymentStatus:      s.PaymentStatus,
		Status:             s.Status,
		StartDate:          s.StartDate,
		EndDate:            s.EndDate,
		Features:           s.Features,
		AutoRenew:          s.AutoRenew,
		RenewalCount:       s.RenewalCount,
		CancellationReason: s.CancellationReason,
		CancelledAt:        s.CancelledAt,
	}
}

// ApplyRecord writes the engine's result back onto the row.
func (s *Subscription) ApplyRecord(r subscription.Record) {
	s.UserID = r.UserID
	s.UserType = r.UserType
	s.PlanName = r.PlanName
	s.Period = r.Period
	s.AmountPaid = r.AmountPaid
	s.PaymentStatus = r.PaymentStatus
	s.Status = r.Status
	s.StartDate = r.StartDate
	s.EndDate = r.EndDate
	s.Features = r.Features
	s.AutoRenew = r.AutoRenew
	s.RenewalCount = r.RenewalCount
	s.CancellationReason = r.CancellationReason
	s.CancelledAt = r.CancelledAt
}
