package services

import (
	"testing"
	"time"

	"staykeeper/internal/models"

	"github.com/stretchr/testify/assert"
)

var scoreNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func TestScore_UrgentActiveSession(t *testing.T) {
	service := NewHeatService(DefaultEscalationThresholds())
	lastActivity := scoreNow.Add(-1 * time.Hour)

	snap := SessionSnapshot{
		HasUrgent:         true,
		MessagesLast24h:   4,
		MessagesLast7d:    4,
		ReservationStatus: models.SessionStatusActive,
		LastActivityAt:    &lastActivity,
		EscalationLevel:   models.EscalationNone,
	}

	result := service.Score(snap, scoreNow)

	// raw = 50 + 0 + min(25, 4*5) + min(10, 4) = 74
	assert.Equal(t, 74, result.Raw)
	// boosted = min(100, round(74 * 1.40)) = 100
	assert.Equal(t, 100, result.Boosted)
	// No full day elapsed, so no decay.
	assert.Equal(t, 100, result.Heat)
	assert.Equal(t, PriorityCritical, result.Priority)
	assert.Equal(t, models.EscalationHigh, result.DesiredEscalation)
	assert.True(t, result.ShouldEscalate)
	assert.Equal(t, models.EscalationHigh, result.NewEscalationLevel)
}

func TestScore_DecayAfterThreeQuietDays(t *testing.T) {
	service := NewHeatService(DefaultEscalationThresholds())
	lastActivity := scoreNow.Add(-3*24*time.Hour - time.Hour)

	snap := SessionSnapshot{
		HasUrgent:         true,
		MessagesLast24h:   0,
		MessagesLast7d:    0,
		ReservationStatus: models.SessionStatusActive,
		LastActivityAt:    &lastActivity,
		EscalationLevel:   models.EscalationHigh,
	}

	result := service.Score(snap, scoreNow)

	// raw = 50, boosted = round(50 * 1.40) = 70, decay = min(50, 3*10) = 30.
	assert.Equal(t, 40, result.Heat)
	assert.Equal(t, PriorityRoutine, result.Priority)
	// Already at high: never auto-lowered.
	assert.False(t, result.ShouldEscalate)
	assert.Equal(t, models.EscalationHigh, result.NewEscalationLevel)
}

func TestScore_DecayCapsAtFifty(t *testing.T) {
	service := NewHeatService(DefaultEscalationThresholds())
	lastActivity := scoreNow.Add(-30 * 24 * time.Hour)

	snap := SessionSnapshot{
		HasUrgent:       true,
		HasNegative:     true,
		MessagesLast24h: 5,
		MessagesLast7d:  10,
		LastActivityAt:  &lastActivity,
	}

	result := service.Score(snap, scoreNow)

	// boosted = 100, penalty capped at 50.
	assert.Equal(t, 100, result.Boosted)
	assert.Equal(t, 50, result.Heat)
}

func TestScore_NoActivityTimestampSkipsDecay(t *testing.T) {
	service := NewHeatService(DefaultEscalationThresholds())

	snap := SessionSnapshot{
		HasNegative:    true,
		LastActivityAt: nil,
	}

	result := service.Score(snap, scoreNow)

	// raw = 25, boosted = round(25 * 1.15) = 29, no decay.
	assert.Equal(t, 29, result.Heat)
}

func TestScore_Bounds(t *testing.T) {
	service := NewHeatService(DefaultEscalationThresholds())

	snapshots := []SessionSnapshot{
		{},
		{HasUrgent: true, HasNegative: true, MessagesLast24h: 100, MessagesLast7d: 100,
			ReservationStatus: models.SessionStatusActive},
		{MessagesLast24h: 1},
		{HasNegative: true, MessagesLast7d: 3},
	}

	for _, snap := range snapshots {
		result := service.Score(snap, scoreNow)
		assert.GreaterOrEqual(t, result.Raw, 0)
		assert.LessOrEqual(t, result.Raw, 100)
		assert.GreaterOrEqual(t, result.Boosted, 0)
		assert.LessOrEqual(t, result.Boosted, 100)
		assert.GreaterOrEqual(t, result.Heat, 0)
		assert.LessOrEqual(t, result.Heat, 100)
	}
}

func TestScore_DecayMonotonicity(t *testing.T) {
	service := NewHeatService(DefaultEscalationThresholds())

	previous := 101
	for days := 0; days <= 10; days++ {
		lastActivity := scoreNow.Add(-time.Duration(days) * 24 * time.Hour)
		snap := SessionSnapshot{
			HasUrgent:      true,
			HasNegative:    true,
			MessagesLast24h: 5,
			LastActivityAt: &lastActivity,
		}

		result := service.Score(snap, scoreNow)
		assert.LessOrEqual(t, result.Heat, previous, "heat must not rise as silence grows")
		previous = result.Heat
	}
}

func TestScore_MonotonicEscalation(t *testing.T) {
	service := NewHeatService(DefaultEscalationThresholds())

	t.Run("raises from none to low", func(t *testing.T) {
		snap := SessionSnapshot{
			HasNegative:       true,
			MessagesLast24h:   4,
			ReservationStatus: models.SessionStatusActive,
			EscalationLevel:   models.EscalationNone,
		}
		// raw = 25 + 20 + 0 = 45, boosted = round(45 * 1.25) = 56 -> low tier.
		result := service.Score(snap, scoreNow)
		assert.Equal(t, models.EscalationLow, result.DesiredEscalation)
		assert.True(t, result.ShouldEscalate)
	})

	t.Run("never lowers a higher stored level", func(t *testing.T) {
		snap := SessionSnapshot{
			MessagesLast24h: 1,
			EscalationLevel: models.EscalationHigh,
		}
		result := service.Score(snap, scoreNow)
		assert.False(t, result.ShouldEscalate)
		assert.Equal(t, models.EscalationHigh, result.NewEscalationLevel)
	})

	t.Run("resolved sessions are frozen", func(t *testing.T) {
		snap := SessionSnapshot{
			HasUrgent:       true,
			MessagesLast24h: 5,
			IsResolved:      true,
			EscalationLevel: models.EscalationNone,
		}
		result := service.Score(snap, scoreNow)
		assert.Equal(t, models.EscalationHigh, result.DesiredEscalation)
		assert.False(t, result.ShouldEscalate)
		assert.Equal(t, models.EscalationNone, result.NewEscalationLevel)
	})

	t.Run("idempotent at the ceiling", func(t *testing.T) {
		snap := SessionSnapshot{
			HasUrgent:       true,
			MessagesLast24h: 5,
			EscalationLevel: models.EscalationNone,
		}
		first := service.Score(snap, scoreNow)
		assert.True(t, first.ShouldEscalate)

		snap.EscalationLevel = first.NewEscalationLevel
		second := service.Score(snap, scoreNow)
		assert.False(t, second.ShouldEscalate)
		assert.Equal(t, first.NewEscalationLevel, second.NewEscalationLevel)
	})

	t.Run("empty stored level ranks as none", func(t *testing.T) {
		snap := SessionSnapshot{
			HasUrgent:       true,
			EscalationLevel: "",
		}
		result := service.Score(snap, scoreNow)
		// raw = 50, boosted = round(50 * 1.30) = 65 -> medium tier.
		assert.Equal(t, models.EscalationMedium, result.DesiredEscalation)
		assert.True(t, result.ShouldEscalate)
	})
}

func TestScore_Signals(t *testing.T) {
	service := NewHeatService(DefaultEscalationThresholds())

	tests := []struct {
		name     string
		snap     SessionSnapshot
		expected []string
	}{
		{
			name:     "urgent only",
			snap:     SessionSnapshot{HasUrgent: true},
			expected: []string{"panicked"},
		},
		{
			name:     "negative only",
			snap:     SessionSnapshot{HasNegative: true},
			expected: []string{"upset"},
		},
		{
			name:     "negative with heavy day caps at two",
			snap:     SessionSnapshot{HasNegative: true, MessagesLast24h: 3},
			expected: []string{"upset", "angry"},
		},
		{
			name:     "chatty but not upset reads confused",
			snap:     SessionSnapshot{MessagesLast7d: 3},
			expected: []string{"confused"},
		},
		{
			name: "urgent during an active stay",
			snap: SessionSnapshot{
				HasUrgent:         true,
				ReservationStatus: models.SessionStatusActive,
			},
			expected: []string{"panicked", "stressed"},
		},
		{
			name:     "nothing going on reads calm",
			snap:     SessionSnapshot{},
			expected: []string{"calm"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := service.Score(tt.snap, scoreNow)
			assert.Equal(t, tt.expected, result.Signals)
			assert.LessOrEqual(t, len(result.Signals), MAX_SIGNALS)
		})
	}
}

func TestActivityLabel(t *testing.T) {
	service := NewHeatService(DefaultEscalationThresholds())

	tests := []struct {
		name     string
		snap     SessionSnapshot
		expected string
	}{
		{name: "five in a day is spiking", snap: SessionSnapshot{MessagesLast24h: 5}, expected: ActivitySpiking},
		{name: "two in a day is active", snap: SessionSnapshot{MessagesLast24h: 2}, expected: ActivityActive},
		{name: "weekly traffic only is cooling", snap: SessionSnapshot{MessagesLast7d: 1}, expected: ActivityCooling},
		{name: "silence is quiet", snap: SessionSnapshot{}, expected: ActivityQuiet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := service.Score(tt.snap, scoreNow)
			assert.Equal(t, tt.expected, result.ActivityLabel)
		})
	}
}
