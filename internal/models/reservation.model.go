package models

import (
	"time"
)

const (
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusCancelled = "cancelled"
	ReservationStatusNoShow    = "no_show"
)

type Reservation struct {
	BaseModel
	PropertyID       int       `gorm:"not null;index"                    json:"propertyId"`
	Property         Property  `gorm:"foreignKey:PropertyID"             json:"property"`
	PMSReservationID string    `gorm:"index"                             json:"pmsReservationId"`
	GuestName        string    `                                         json:"guestName"`
	ArrivalDate      time.Time `gorm:"type:date;not null;index"          json:"arrivalDate"`
	DepartureDate    time.Time `gorm:"type:date;not null;index"          json:"departureDate"`
	CheckinTime      string    `                                         json:"checkinTime"`
	CheckoutTime     string    `                                         json:"checkoutTime"`
	Status           string    `gorm:"not null;default:'confirmed'"      json:"status"`
}

// IsBlocking reports whether the reservation counts for same-day turnover
// checks. Cancelled and no-show reservations never block a turnover.
func (r *Reservation) IsBlocking() bool {
	return r.Status != ReservationStatusCancelled && r.Status != ReservationStatusNoShow
}
