package models

import (
	"time"
)

// Reservation lifecycle status for a chat session.
const (
	SessionStatusPreBooking = "pre_booking"
	SessionStatusActive     = "active"
	SessionStatusPostStay   = "post_stay"
)

// Escalation levels, ranked. Automatic escalation only ever moves up.
const (
	EscalationNone   = "none"
	EscalationLow    = "low"
	EscalationMedium = "medium"
	EscalationHigh   = "high"
)

type ChatSession struct {
	BaseModel
	PropertyID        int        `gorm:"not null;index"                  json:"propertyId"`
	Property          Property   `gorm:"foreignKey:PropertyID"           json:"property"`
	PMSReservationID  string     `gorm:"index"                           json:"pmsReservationId"`
	GuestName         string     `                                       json:"guestName"`
	ReservationStatus string     `gorm:"not null;default:'pre_booking'"  json:"reservationStatus"`
	ArrivalDate       *time.Time `gorm:"type:date"                       json:"arrivalDate"`
	DepartureDate     *time.Time `gorm:"type:date"                       json:"departureDate"`
	IsVerified        bool       `gorm:"not null;default:false"          json:"isVerified"`
	IsResolved        bool       `gorm:"not null;default:false"          json:"isResolved"`
	EscalationLevel   string     `gorm:"not null;default:'none';index"   json:"escalationLevel"`
	EscalatedAt       *time.Time `                                       json:"escalatedAt"`
	AssignedTo        *string    `                                       json:"assignedTo"`
	HeatScore         int        `gorm:"not null;default:0"              json:"heatScore"`
	LastGuestMessageAt *time.Time `gorm:"index"                          json:"lastGuestMessageAt"`
	AISummary         string     `gorm:"type:text"                       json:"aiSummary"`
}

var escalationRanks = map[string]int{
	EscalationNone:   0,
	EscalationLow:    1,
	EscalationMedium: 2,
	EscalationHigh:   3,
}

// EscalationRank maps a level to its position in the none < low < medium <
// high order. Unknown or empty levels rank as none.
func EscalationRank(level string) int {
	return escalationRanks[level]
}

// EscalationLevelsBelow returns every level that ranks strictly below the
// given one, in ascending order. Used for rank-guarded escalation updates.
func EscalationLevelsBelow(level string) []string {
	rank := EscalationRank(level)
	below := make([]string, 0, rank)
	for _, l := range []string{EscalationNone, EscalationLow, EscalationMedium, EscalationHigh} {
		if escalationRanks[l] < rank {
			below = append(below, l)
		}
	}
	return below
}

// IsValidEscalationLevel reports whether the level is one of the four tiers.
func IsValidEscalationLevel(level string) bool {
	_, ok := escalationRanks[level]
	return ok
}
