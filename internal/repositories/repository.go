package repositories

import (
	"staykeeper/internal/database"
)

type Repository struct {
	Property        PropertyRepository
	Reservation     ReservationRepository
	Upgrade         UpgradeRepository
	UpgradePurchase UpgradePurchaseRepository
	ChatSession     ChatSessionRepository
	ChatMessage     ChatMessageRepository
}

func New(db database.DB) Repository {
	return Repository{
		Property:        NewPropertyRepository(db),
		Reservation:     NewReservationRepository(db),
		Upgrade:         NewUpgradeRepository(db),
		UpgradePurchase: NewUpgradePurchaseRepository(db),
		ChatSession:     NewChatSessionRepository(db),
		ChatMessage:     NewChatMessageRepository(db),
	}
}
