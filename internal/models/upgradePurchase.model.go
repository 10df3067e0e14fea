package models

import (
	"gorm.io/datatypes"
)

const (
	PurchaseStatusPending  = "pending"
	PurchaseStatusPaid     = "paid"
	PurchaseStatusFailed   = "failed"
	PurchaseStatusRefunded = "refunded"
)

type UpgradePurchase struct {
	BaseModel
	PMCID            int            `gorm:"not null;index"               json:"pmcId"`
	PropertyID       int            `gorm:"not null;index"               json:"propertyId"`
	Property         Property       `gorm:"foreignKey:PropertyID"        json:"property"`
	UpgradeID        int            `gorm:"not null;index"               json:"upgradeId"`
	Upgrade          Upgrade        `gorm:"foreignKey:UpgradeID"         json:"upgrade"`
	GuestSessionID   *int           `gorm:"index"                        json:"guestSessionId"`
	AmountCents      int            `gorm:"not null"                     json:"amountCents"`
	PlatformFeeCents int            `gorm:"not null"                     json:"platformFeeCents"`
	NetAmountCents   int            `gorm:"not null"                     json:"netAmountCents"`
	Currency         string         `gorm:"default:'usd'"                json:"currency"`
	Status           string         `gorm:"not null;default:'pending';index" json:"status"`
	Metadata         datatypes.JSON `gorm:"type:jsonb"                   json:"metadata,omitempty"`
}
