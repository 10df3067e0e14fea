package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscalationRank(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		expected int
	}{
		{name: "none ranks zero", level: EscalationNone, expected: 0},
		{name: "low ranks one", level: EscalationLow, expected: 1},
		{name: "medium ranks two", level: EscalationMedium, expected: 2},
		{name: "high ranks three", level: EscalationHigh, expected: 3},
		{name: "empty ranks as none", level: "", expected: 0},
		{name: "unknown ranks as none", level: "critical", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EscalationRank(tt.level))
		})
	}
}

func TestEscalationLevelsBelow(t *testing.T) {
	assert.Empty(t, EscalationLevelsBelow(EscalationNone))
	assert.Equal(t, []string{EscalationNone}, EscalationLevelsBelow(EscalationLow))
	assert.Equal(
		t,
		[]string{EscalationNone, EscalationLow, EscalationMedium},
		EscalationLevelsBelow(EscalationHigh),
	)
}

func TestIsValidEscalationLevel(t *testing.T) {
	for _, level := range []string{EscalationNone, EscalationLow, EscalationMedium, EscalationHigh} {
		assert.True(t, IsValidEscalationLevel(level))
	}
	assert.False(t, IsValidEscalationLevel(""))
	assert.False(t, IsValidEscalationLevel("urgent"))
}

func TestReservationIsBlocking(t *testing.T) {
	assert.True(t, (&Reservation{Status: ReservationStatusConfirmed}).IsBlocking())
	assert.False(t, (&Reservation{Status: ReservationStatusCancelled}).IsBlocking())
	assert.False(t, (&Reservation{Status: ReservationStatusNoShow}).IsBlocking())
}
