package repositories

import (
	"context"
	"time"

	contextutil "staykeeper/internal/context"
	"staykeeper/internal/database"
	. "staykeeper/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

// MessageStats are the guest-message aggregates the heat scorer consumes.
type MessageStats struct {
	CountLast24h   int
	CountLast7d    int
	HasUrgent      bool
	HasNegative    bool
	LastActivityAt *time.Time
}

type ChatMessageRepository interface {
	ListBySession(ctx context.Context, sessionID int) ([]ChatMessage, error)
	// StatsForSession aggregates guest-sent messages only: trailing window
	// counts, urgent/negative tag existence, and the latest message time.
	StatsForSession(ctx context.Context, sessionID int, now time.Time) (MessageStats, error)
	Create(ctx context.Context, message *ChatMessage) (*ChatMessage, error)
}

type chatMessageRepository struct {
	db  database.DB
	log logger.Logger
}

func NewChatMessageRepository(db database.DB) ChatMessageRepository {
	return &chatMessageRepository{
		db:  db,
		log: logger.New("chatMessageRepository"),
	}
}

func (r *chatMessageRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextutil.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *chatMessageRepository) ListBySession(
	ctx context.Context,
	sessionID int,
) ([]ChatMessage, error) {
	log := r.log.Function("ListBySession")

	var messages []ChatMessage
	err := r.getDB(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at asc").
		Find(&messages).Error
	if err != nil {
		return nil, log.Err("failed to list messages", err, "sessionID", sessionID)
	}

	return messages, nil
}

func (r *chatMessageRepository) StatsForSession(
	ctx context.Context,
	sessionID int,
	now time.Time,
) (MessageStats, error) {
	log := r.log.Function("StatsForSession")

	var stats MessageStats
	db := r.getDB(ctx)

	guestMessages := func() *gorm.DB {
		return db.Model(&ChatMessage{}).
			Where("session_id = ? AND sender = ?", sessionID, SenderGuest)
	}

	var count24h int64
	if err := guestMessages().
		Where("created_at > ?", now.Add(-24*time.Hour)).
		Count(&count24h).Error; err != nil {
		return stats, log.Err("failed to count 24h messages", err, "sessionID", sessionID)
	}
	stats.CountLast24h = int(count24h)

	var count7d int64
	if err := guestMessages().
		Where("created_at > ?", now.Add(-7*24*time.Hour)).
		Count(&count7d).Error; err != nil {
		return stats, log.Err("failed to count 7d messages", err, "sessionID", sessionID)
	}
	stats.CountLast7d = int(count7d)

	var urgentCount int64
	if err := guestMessages().
		Where("category = ?", CategoryUrgent).
		Count(&urgentCount).Error; err != nil {
		return stats, log.Err("failed to check urgent messages", err, "sessionID", sessionID)
	}
	stats.HasUrgent = urgentCount > 0

	var negativeCount int64
	if err := guestMessages().
		Where("sentiment = ?", SentimentNegative).
		Count(&negativeCount).Error; err != nil {
		return stats, log.Err("failed to check negative messages", err, "sessionID", sessionID)
	}
	stats.HasNegative = negativeCount > 0

	var latest ChatMessage
	err := db.Model(&ChatMessage{}).
		Where("session_id = ?", sessionID).
		Order("created_at desc").
		First(&latest).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return stats, log.Err("failed to get latest message", err, "sessionID", sessionID)
		}
	} else {
		createdAt := latest.CreatedAt
		stats.LastActivityAt = &createdAt
	}

	return stats, nil
}

func (r *chatMessageRepository) Create(
	ctx context.Context,
	message *ChatMessage,
) (*ChatMessage, error) {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(message).Error; err != nil {
		return nil, log.Err("failed to create message", err, "message", message)
	}

	return message, nil
}
