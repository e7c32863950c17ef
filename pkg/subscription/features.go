package subscription

import "slices"

// PlanName is one of the fixed plan template identities.
type PlanName string

const (
	BasicPlan      PlanName = "basic"
	StandardPlan   PlanName = "standard"
	PremiumPlan    PlanName = "premium"
	EnterprisePlan PlanName = "enterprise"
)

// Feature flags a plan can carry.
type Feature string

const (
	InquiryForm     Feature = "inquiry_form"
	OnlinePayments  Feature = "online_payments"
	OccupancyReport Feature = "occupancy_report"
	BulkUpload      Feature = "bulk_upload"
	EmailSupport    Feature = "email_support"
	PrioritySupport Feature = "priority_support"
)

// PlanLimits are the numeric caps a plan imposes.
type PlanLimits struct {
	MaxProperties    int `json:"max_properties"`
	MaxListings      int `json:"max_listings"`
	MaxImagesPerList int `json:"max_images_per_list"`
	StorageQuotaGB   int `json:"storage_quota_gb"`
}

// ValidPlanName reports whether the name is one of the fixed set.
func ValidPlanName(name string) bool {
	switch PlanName(name) {
	case BasicPlan, StandardPlan, PremiumPlan, EnterprisePlan:
		return true
	}
	return false
}

// HasFeature checks a stored feature list (the copy snapshotted onto a
// subscription at purchase time) for a flag.
func HasFeature(features []string, feature Feature) bool {
	return slices.Contains(features, string(feature))
}

// FreeTierLimits apply to users without any active subscription.
var FreeTierLimits = PlanLimits{
	MaxProperties:    1,
	MaxListings:      1,
	MaxImagesPerList: 5,
	StorageQuotaGB:   1,
}
