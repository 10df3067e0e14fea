package models

const (
	SenderGuest = "guest"
	SenderHost  = "host"
	SenderAI    = "ai"
)

const (
	CategoryUrgent      = "urgent"
	CategoryMaintenance = "maintenance"
	CategoryCleaning    = "cleaning"
	CategoryRequest     = "request"
	CategoryExtension   = "extension"
	CategoryOther       = "other"
)

const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// ChatMessage is immutable once created. Category and sentiment tags are
// assigned at ingestion and read back only in aggregate by the heat scorer.
type ChatMessage struct {
	BaseModel
	SessionID int         `gorm:"not null;index"        json:"sessionId"`
	Session   ChatSession `gorm:"foreignKey:SessionID"  json:"session"`
	Sender    string      `gorm:"not null"              json:"sender"`
	Content   string      `gorm:"type:text;not null"    json:"content"`
	Category  *string     `gorm:"index"                 json:"category"`
	Sentiment *string     `gorm:"index"                 json:"sentiment"`
}
