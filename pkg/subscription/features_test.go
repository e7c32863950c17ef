package subscription

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidPlanName(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"basic", "standard", "premium", "enterprise"} {
		assert.True(t, ValidPlanName(name), name)
	}

	assert.False(t, ValidPlanName("platinum"))
	assert.False(t, ValidPlanName(""))
	assert.False(t, ValidPlanName("Basic"))
}

func TestHasFeature(t *testing.T) {
	t.Parallel()

	features := []string{
		string(InquiryForm),
		string(OnlinePayments),
	}

	assert.True(t, HasFeature(features, InquiryForm))
	assert.True(t, HasFeature(features, OnlinePayments))
	assert.False(t, HasFeature(features, PrioritySupport))
	assert.False(t, HasFeature(nil, InquiryForm))
}
