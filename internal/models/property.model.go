package models

type Property struct {
	BaseModel
	PMCID          int    `gorm:"not null;index"         json:"pmcId"`
	Name           string `gorm:"not null"               json:"name"`
	Address        string `gorm:"type:text"              json:"address"`
	CheckinTime    string `gorm:"default:'16:00'"        json:"checkinTime"`
	CheckoutTime   string `gorm:"default:'10:00'"        json:"checkoutTime"`
	EmergencyPhone string `                              json:"emergencyPhone"`
	IsActive       bool   `gorm:"not null;default:true"  json:"isActive"`
}
