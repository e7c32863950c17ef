package subscription

import (
	"time"

	"roomstay_backend/pkg/pricing"
)

// UserType distinguishes who is purchasing a subscription.
type UserType string

const (
	UserTenant   UserType = "tenant"
	UserLandlord UserType = "landlord"
	UserAdmin    UserType = "admin"
)

// Status is the lifecycle state of a subscription purchase.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
	StatusSuspended Status = "suspended"
)

// PaymentStatus tracks the charge attached to a purchase or renewal.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// Record is the in-memory view of a subscription the lifecycle engine
// operates on. Controllers map it from and back to the persisted row.
type Record struct {
	UserID             uint
	UserType           UserType
	PlanName           string
	Period             pricing.BillingPeriod
	AmountPaid         float64
	PaymentStatus      PaymentStatus
	Status             Status
	StartDate          time.Time
	EndDate            time.Time
	Features           []string
	AutoRenew          bool
	RenewalCount       int
	CancellationReason string
	CancelledAt        *time.Time
}

// StatusInfo is the derived state of a subscription at a point in time.
type StatusInfo struct {
	Status        Status `json:"status"`
	DaysRemaining int    `json:"days_remaining"`
}
