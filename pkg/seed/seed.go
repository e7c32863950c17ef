package seed

import (
	"log"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"roomstay_backend/internal/model"
	"roomstay_backend/pkg/pricing"
	"roomstay_backend/pkg/subscription"
)

// SeedPlans creates the four fixed plan templates. Existing rows are
// left untouched so operators can tune prices in place.
func SeedPlans(db *gorm.DB) {
	plans := []model.Plan{
		{
			Name:        string(subscription.BasicPlan),
			Description: "For landlords starting out with a single property",
			Prices: datatypes.NewJSONType(pricing.PriceTable{
				pricing.PeriodMonthly:    299,
				pricing.PeriodQuarterly:  849,
				pricing.PeriodHalfYearly: 1599,
				pricing.PeriodYearly:     2999,
			}),
			Features: datatypes.JSONSlice[string]{
				string(subscription.InquiryForm),
				string(subscription.EmailSupport),
			},
			Limits: datatypes.NewJSONType(subscription.PlanLimits{
				MaxProperties:    2,
				MaxListings:      5,
				MaxImagesPerList: 8,
				StorageQuotaGB:   2,
			}),
			StripeProductID: "prod_test_basic",
			StripePriceID:   "price_test_basic",
		},
		{
			Name:        string(subscription.StandardPlan),
			Description: "For growing PG and co-living operators",
			Prices: datatypes.NewJSONType(pricing.PriceTable{
				pricing.PeriodMonthly:    599,
				pricing.PeriodQuarterly:  1699,
				pricing.PeriodHalfYearly: 3199,
				pricing.PeriodYearly:     5999,
			}),
			Features: datatypes.JSONSlice[string]{
				string(subscription.InquiryForm),
				string(subscription.OnlinePayments),
				string(subscription.EmailSupport),
			},
			Limits: datatypes.NewJSONType(subscription.PlanLimits{
				MaxProperties:    5,
				MaxListings:      20,
				MaxImagesPerList: 12,
				StorageQuotaGB:   5,
			}),
			StripeProductID: "prod_test_standard",
			StripePriceID:   "price_test_standard",
		},
		{
			Name:        string(subscription.PremiumPlan),
			Description: "For established operators with multiple buildings",
			Prices: datatypes.NewJSONType(pricing.PriceTable{
				pricing.PeriodMonthly:    999,
				pricing.PeriodQuarterly:  2849,
				pricing.PeriodHalfYearly: 5399,
				pricing.PeriodYearly:     9999,
			}),
			Features: datatypes.JSONSlice[string]{
				string(subscription.InquiryForm),
				string(subscription.OnlinePayments),
				string(subscription.OccupancyReport),
				string(subscription.BulkUpload),
				string(subscription.EmailSupport),
			},
			Limits: datatypes.NewJSONType(subscription.PlanLimits{
				MaxProperties:    20,
				MaxListings:      100,
				MaxImagesPerList: 16,
				StorageQuotaGB:   20,
			}),
			StripeProductID: "prod_test_premium",
			StripePriceID:   "price_test_premium",
		},
		{
			Name:        string(subscription.EnterprisePlan),
			Description: "For chains managing portfolios at scale",
			Prices: datatypes.NewJSONType(pricing.PriceTable{
				pricing.PeriodMonthly:    2499,
				pricing.PeriodQuarterly:  6999,
				pricing.PeriodHalfYearly: 13499,
				pricing.PeriodYearly:     24999,
			}),
			Features: datatypes.JSONSlice[string]{
				string(subscription.InquiryForm),
				string(subscription.OnlinePayments),
				string(subscription.OccupancyReport),
				string(subscription.BulkUpload),
				string(subscription.EmailSupport),
				string(subscription.PrioritySupport),
			},
			Limits: datatypes.NewJSONType(subscription.PlanLimits{
				MaxProperties:    1000,
				MaxListings:      10000,
				MaxImagesPerList: 16,
				StorageQuotaGB:   100,
			}),
			StripeProductID: "prod_test_enterprise",
			StripePriceID:   "price_test_enterprise",
		},
	}

	for _, plan := range plans {
		result := db.FirstOrCreate(&plan, model.Plan{Name: plan.Name})
		if result.Error != nil {
			log.Printf("Error creating plan %s: %v", plan.Name, result.Error)
		}
	}

	log.Println("Subscription plans seeded successfully!")
}
