package services

import (
	"testing"
	"time"

	"staykeeper/internal/models"
	"staykeeper/internal/utils"

	"github.com/stretchr/testify/assert"
)

func testStay() StayContext {
	return StayContext{
		PropertyID:    1,
		ArrivalDate:   time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		DepartureDate: time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC),
		CheckinTime:   utils.ClockTime{Hour: 16, Minute: 0},
		CheckoutTime:  utils.ClockTime{Hour: 10, Minute: 0},
	}
}

func testUpgrade(slug string) *models.Upgrade {
	up := &models.Upgrade{
		PropertyID: 1,
		Slug:       slug,
		Title:      "Test Upgrade",
		PriceCents: 4500,
		IsActive:   true,
	}
	up.ID = 7
	return up
}

func TestKindFromSlug(t *testing.T) {
	tests := []struct {
		slug     string
		expected UpgradeKind
	}{
		{"early-check-in", KindEarlyCheckin},
		{"early_checkin", KindEarlyCheckin},
		{"Early Arrival", KindEarlyCheckin},
		{"late-checkout", KindLateCheckout},
		{"late_check_out", KindLateCheckout},
		{"Late Departure", KindLateCheckout},
		{"mid-stay-clean", KindUngated},
		{"welcome-basket", KindUngated},
		{"", KindUngated},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			assert.Equal(t, tt.expected, KindFromSlug(tt.slug))
		})
	}
}

func TestEvaluate_DefensiveChecks(t *testing.T) {
	service := NewUpgradeRulesService(nil)
	now := time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC)

	t.Run("nil upgrade is ineligible", func(t *testing.T) {
		result := service.Evaluate(nil, testStay(), now)
		assert.False(t, result.Eligible)
		assert.Equal(t, "Missing stay details for this upgrade.", result.Reason)
	})

	t.Run("missing stay dates are ineligible", func(t *testing.T) {
		result := service.Evaluate(testUpgrade("early-check-in"), StayContext{PropertyID: 1}, now)
		assert.False(t, result.Eligible)
		assert.Equal(t, "Missing stay details for this upgrade.", result.Reason)
	})

	t.Run("inactive upgrade is ineligible", func(t *testing.T) {
		up := testUpgrade("early-check-in")
		up.IsActive = false
		result := service.Evaluate(up, testStay(), now)
		assert.False(t, result.Eligible)
		assert.Equal(t, "Not available for this stay.", result.Reason)
	})

	t.Run("cross property upgrade is ineligible", func(t *testing.T) {
		up := testUpgrade("early-check-in")
		up.PropertyID = 99
		result := service.Evaluate(up, testStay(), now)
		assert.False(t, result.Eligible)
		assert.Equal(t, "Invalid upgrade for this property.", result.Reason)
	})

	t.Run("departure before arrival is ineligible", func(t *testing.T) {
		stay := testStay()
		stay.DepartureDate = stay.ArrivalDate.AddDate(0, 0, -1)
		result := service.Evaluate(testUpgrade("early-check-in"), stay, now)
		assert.False(t, result.Eligible)
	})
}

func TestEvaluate_UngatedSlug(t *testing.T) {
	service := NewUpgradeRulesService(nil)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	result := service.Evaluate(testUpgrade("welcome-basket"), testStay(), now)
	assert.True(t, result.Eligible)
	assert.Empty(t, result.Reason)
	assert.Nil(t, result.OpensAt)
}

func TestEvaluate_EarlyCheckinWindow(t *testing.T) {
	service := NewUpgradeRulesService(nil)
	upgrade := testUpgrade("early-check-in")

	t.Run("three days before arrival is too early", func(t *testing.T) {
		// Arrival June 10 16:00, window opens June 8 16:00.
		now := time.Date(2025, 6, 7, 12, 0, 0, 0, time.UTC)
		result := service.Evaluate(upgrade, testStay(), now)

		assert.False(t, result.Eligible)
		assert.Contains(t, result.Reason, "2 days")
		if assert.NotNil(t, result.OpensAt) {
			assert.Equal(t, time.Date(2025, 6, 8, 16, 0, 0, 0, time.UTC), *result.OpensAt)
		}
	})

	t.Run("inside window with no turnover is eligible", func(t *testing.T) {
		now := time.Date(2025, 6, 8, 20, 0, 0, 0, time.UTC)
		result := service.Evaluate(upgrade, testStay(), now)

		assert.True(t, result.Eligible)
		assert.Empty(t, result.Reason)
	})

	t.Run("inside window with arrival turnover is blocked", func(t *testing.T) {
		now := time.Date(2025, 6, 8, 20, 0, 0, 0, time.UTC)
		stay := testStay()
		stay.HasArrivalTurnover = true
		result := service.Evaluate(upgrade, stay, now)

		assert.False(t, result.Eligible)
		assert.Equal(t, "Not available due to same-day turnover.", result.Reason)
	})

	t.Run("after arrival boundary is ineligible", func(t *testing.T) {
		now := time.Date(2025, 6, 10, 17, 0, 0, 0, time.UTC)
		result := service.Evaluate(upgrade, testStay(), now)

		assert.False(t, result.Eligible)
		assert.Equal(t, "Arrival has already started.", result.Reason)
	})
}

func TestEvaluate_LateCheckout(t *testing.T) {
	service := NewUpgradeRulesService(nil)
	upgrade := testUpgrade("late-checkout")

	t.Run("too early before departure window", func(t *testing.T) {
		// Departure June 20 10:00, window opens June 19 10:00.
		now := time.Date(2025, 6, 17, 12, 0, 0, 0, time.UTC)
		result := service.Evaluate(upgrade, testStay(), now)

		assert.False(t, result.Eligible)
		assert.Contains(t, result.Reason, "1 days")
		if assert.NotNil(t, result.OpensAt) {
			assert.Equal(t, time.Date(2025, 6, 19, 10, 0, 0, 0, time.UTC), *result.OpensAt)
		}
	})

	t.Run("inside window is eligible", func(t *testing.T) {
		now := time.Date(2025, 6, 19, 15, 0, 0, 0, time.UTC)
		result := service.Evaluate(upgrade, testStay(), now)

		assert.True(t, result.Eligible)
	})

	t.Run("departure turnover blocks it", func(t *testing.T) {
		now := time.Date(2025, 6, 19, 15, 0, 0, 0, time.UTC)
		stay := testStay()
		stay.HasDepartureTurnover = true
		result := service.Evaluate(upgrade, stay, now)

		assert.False(t, result.Eligible)
		assert.Equal(t, "Not available due to same-day turnover.", result.Reason)
	})

	t.Run("checkout already started at 11 when boundary is 10", func(t *testing.T) {
		now := time.Date(2025, 6, 20, 11, 0, 0, 0, time.UTC)
		result := service.Evaluate(upgrade, testStay(), now)

		assert.False(t, result.Eligible)
		assert.Equal(t, "Checkout has already started.", result.Reason)
	})
}

func TestEvaluate_CutoffHours(t *testing.T) {
	rules := DefaultRuleSet()
	early := rules[KindEarlyCheckin]
	early.CutoffHours = 6
	rules[KindEarlyCheckin] = early
	service := NewUpgradeRulesService(rules)
	upgrade := testUpgrade("early-check-in")

	t.Run("past the cutoff is blocked", func(t *testing.T) {
		// Boundary June 10 16:00, cutoff June 10 10:00.
		now := time.Date(2025, 6, 10, 11, 0, 0, 0, time.UTC)
		result := service.Evaluate(upgrade, testStay(), now)

		assert.False(t, result.Eligible)
		assert.Contains(t, result.Reason, "too close to check-in")
	})

	t.Run("before the cutoff is allowed", func(t *testing.T) {
		now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
		result := service.Evaluate(upgrade, testStay(), now)

		assert.True(t, result.Eligible)
	})
}

func TestEvaluate_CleanerConfirmation(t *testing.T) {
	rules := DefaultRuleSet()
	early := rules[KindEarlyCheckin]
	early.RequiresCleanerConfirmation = true
	rules[KindEarlyCheckin] = early
	service := NewUpgradeRulesService(rules)
	upgrade := testUpgrade("early-check-in")
	now := time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC)

	t.Run("pending without confirmation", func(t *testing.T) {
		result := service.Evaluate(upgrade, testStay(), now)

		assert.False(t, result.Eligible)
		assert.Equal(t, "Pending housekeeping confirmation.", result.Reason)
	})

	t.Run("eligible once housekeeping confirms", func(t *testing.T) {
		stay := testStay()
		stay.CleanerConfirmedEarly = true
		result := service.Evaluate(upgrade, stay, now)

		assert.True(t, result.Eligible)
	})
}

func TestEvaluate_Idempotent(t *testing.T) {
	service := NewUpgradeRulesService(nil)
	upgrade := testUpgrade("early-check-in")
	now := time.Date(2025, 6, 7, 12, 0, 0, 0, time.UTC)

	first := service.Evaluate(upgrade, testStay(), now)
	second := service.Evaluate(upgrade, testStay(), now)

	assert.Equal(t, first.Eligible, second.Eligible)
	assert.Equal(t, first.Reason, second.Reason)
	if first.OpensAt != nil && second.OpensAt != nil {
		assert.Equal(t, *first.OpensAt, *second.OpensAt)
	}
}
