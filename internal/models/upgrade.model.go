package models

type Upgrade struct {
	BaseModel
	PropertyID  int      `gorm:"not null;index"        json:"propertyId"`
	Property    Property `gorm:"foreignKey:PropertyID" json:"property"`
	Slug        string   `gorm:"not null;index"        json:"slug"`
	Title       string   `gorm:"not null"              json:"title"`
	Description string   `gorm:"type:text"             json:"description"`
	PriceCents  int      `gorm:"not null;default:0"    json:"priceCents"`
	Currency    string   `gorm:"default:'usd'"         json:"currency"`
	IsActive    bool     `gorm:"not null;default:true" json:"isActive"`
	SortOrder   int      `gorm:"not null;default:0"    json:"sortOrder"`
}
