package seed

import (
	"time"

	"staykeeper/config"
	. "staykeeper/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

func stringPtr(s string) *string {
	return &s
}

func timePtr(t time.Time) *time.Time {
	return &t
}

// Seed loads development data: one property with overlapping reservations so
// turnover checks have something to find, plus chat sessions in various heat
// states.
func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	property := Property{
		PMCID:          1,
		Name:           "Seaside Cottage",
		Address:        "12 Harbor Lane",
		CheckinTime:    "16:00",
		CheckoutTime:   "10:00",
		EmergencyPhone: "+1-555-0100",
		IsActive:       true,
	}
	if err := db.Create(&property).Error; err != nil {
		return log.Err("failed to seed property", err)
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)

	reservations := []Reservation{
		{
			PropertyID:       property.ID,
			PMSReservationID: "PMS-1001",
			GuestName:        "Jordan Meyer",
			ArrivalDate:      today.AddDate(0, 0, 1),
			DepartureDate:    today.AddDate(0, 0, 4),
			Status:           ReservationStatusConfirmed,
		},
		{
			// Departs the day the next guest arrives, creating a turnover.
			PropertyID:       property.ID,
			PMSReservationID: "PMS-1000",
			GuestName:        "Sam Ortiz",
			ArrivalDate:      today.AddDate(0, 0, -2),
			DepartureDate:    today.AddDate(0, 0, 1),
			Status:           ReservationStatusConfirmed,
		},
	}
	for i := range reservations {
		if err := db.Create(&reservations[i]).Error; err != nil {
			return log.Err("failed to seed reservation", err)
		}
	}

	sessions := []ChatSession{
		{
			PropertyID:        property.ID,
			PMSReservationID:  "PMS-1001",
			GuestName:         "Jordan Meyer",
			ReservationStatus: SessionStatusActive,
			ArrivalDate:       timePtr(today.AddDate(0, 0, 1)),
			DepartureDate:     timePtr(today.AddDate(0, 0, 4)),
			IsVerified:        true,
			EscalationLevel:   EscalationNone,
		},
		{
			PropertyID:        property.ID,
			PMSReservationID:  "PMS-1000",
			GuestName:         "Sam Ortiz",
			ReservationStatus: SessionStatusPostStay,
			IsVerified:        true,
			IsResolved:        true,
			EscalationLevel:   EscalationLow,
		},
	}
	for i := range sessions {
		if err := db.Create(&sessions[i]).Error; err != nil {
			return log.Err("failed to seed chat session", err)
		}
	}

	messages := []ChatMessage{
		{
			SessionID: sessions[0].ID,
			Sender:    SenderGuest,
			Content:   "The hot water heater is leaking everywhere, please help!",
			Category:  stringPtr(CategoryUrgent),
			Sentiment: stringPtr(SentimentNegative),
		},
		{
			SessionID: sessions[0].ID,
			Sender:    SenderAI,
			Content:   "I'm so sorry about that. I've alerted the property team right away.",
		},
		{
			SessionID: sessions[0].ID,
			Sender:    SenderGuest,
			Content:   "Any update? The leak is getting worse.",
			Category:  stringPtr(CategoryMaintenance),
			Sentiment: stringPtr(SentimentNegative),
		},
		{
			SessionID: sessions[1].ID,
			Sender:    SenderGuest,
			Content:   "Thanks for a great stay!",
			Sentiment: stringPtr(SentimentPositive),
		},
	}
	for i := range messages {
		if err := db.Create(&messages[i]).Error; err != nil {
			return log.Err("failed to seed chat message", err)
		}
	}

	log.Info(
		"Development data seeded",
		"propertyID", property.ID,
		"reservations", len(reservations),
		"sessions", len(sessions),
		"messages", len(messages),
	)
	return nil
}
