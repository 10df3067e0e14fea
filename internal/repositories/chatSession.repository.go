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

type ChatSessionRepository interface {
	GetByID(ctx context.Context, id int) (*ChatSession, error)
	ListByProperty(ctx context.Context, propertyID int) ([]ChatSession, error)
	ListUnresolved(ctx context.Context) ([]ChatSession, error)
	Create(ctx context.Context, session *ChatSession) (*ChatSession, error)
	// RaiseEscalation performs the rank-guarded escalation update: the level
	// is written only while the session is unresolved and its stored level
	// ranks strictly below the new one, so concurrent listing passes converge
	// without ever lowering a level. Returns whether a row was updated.
	RaiseEscalation(ctx context.Context, sessionID int, level string, at time.Time) (bool, error)
	SetHeatScore(ctx context.Context, sessionID, heat int) error
	SetResolved(ctx context.Context, sessionID int, resolved bool) error
	SetAssignee(ctx context.Context, sessionID int, assignee *string) error
	// SetEscalationLevel is the manual operator override. It bypasses the
	// monotonic guard and may move the level in any direction.
	SetEscalationLevel(ctx context.Context, sessionID int, level string, at time.Time) error
}

type chatSessionRepository struct {
	db  database.DB
	log logger.Logger
}

func NewChatSessionRepository(db database.DB) ChatSessionRepository {
	return &chatSessionRepository{
		db:  db,
		log: logger.New("chatSessionRepository"),
	}
}

func (r *chatSessionRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextutil.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *chatSessionRepository) GetByID(ctx context.Context, id int) (*ChatSession, error) {
	log := r.log.Function("GetByID")

	var session ChatSession
	if err := r.getDB(ctx).First(&session, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, log.Err("failed to get chat session by ID", err, "id", id)
	}

	return &session, nil
}

func (r *chatSessionRepository) ListByProperty(
	ctx context.Context,
	propertyID int,
) ([]ChatSession, error) {
	log := r.log.Function("ListByProperty")

	var sessions []ChatSession
	err := r.getDB(ctx).
		Where("property_id = ?", propertyID).
		Find(&sessions).Error
	if err != nil {
		return nil, log.Err("failed to list chat sessions", err, "propertyID", propertyID)
	}

	return sessions, nil
}

func (r *chatSessionRepository) ListUnresolved(ctx context.Context) ([]ChatSession, error) {
	log := r.log.Function("ListUnresolved")

	var sessions []ChatSession
	err := r.getDB(ctx).
		Where("is_resolved = ?", false).
		Find(&sessions).Error
	if err != nil {
		return nil, log.Err("failed to list unresolved chat sessions", err)
	}

	return sessions, nil
}

func (r *chatSessionRepository) Create(
	ctx context.Context,
	session *ChatSession,
) (*ChatSession, error) {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(session).Error; err != nil {
		return nil, log.Err("failed to create chat session", err, "session", session)
	}

	return session, nil
}

func (r *chatSessionRepository) RaiseEscalation(
	ctx context.Context,
	sessionID int,
	level string,
	at time.Time,
) (bool, error) {
	log := r.log.Function("RaiseEscalation")

	lowerLevels := EscalationLevelsBelow(level)
	if len(lowerLevels) == 0 {
		return false, nil
	}

	result := r.getDB(ctx).
		Model(&ChatSession{}).
		Where("id = ? AND is_resolved = ?", sessionID, false).
		Where("escalation_level IN ?", lowerLevels).
		Updates(map[string]any{
			"escalation_level": level,
			"escalated_at":     at,
		})
	if result.Error != nil {
		return false, log.Err(
			"failed to raise escalation", result.Error,
			"sessionID", sessionID, "level", level,
		)
	}

	return result.RowsAffected > 0, nil
}

func (r *chatSessionRepository) SetHeatScore(ctx context.Context, sessionID, heat int) error {
	log := r.log.Function("SetHeatScore")

	err := r.getDB(ctx).
		Model(&ChatSession{}).
		Where("id = ?", sessionID).
		Update("heat_score", heat).Error
	if err != nil {
		return log.Err("failed to set heat score", err, "sessionID", sessionID, "heat", heat)
	}

	return nil
}

func (r *chatSessionRepository) SetResolved(
	ctx context.Context,
	sessionID int,
	resolved bool,
) error {
	log := r.log.Function("SetResolved")

	err := r.getDB(ctx).
		Model(&ChatSession{}).
		Where("id = ?", sessionID).
		Update("is_resolved", resolved).Error
	if err != nil {
		return log.Err("failed to set resolved flag", err, "sessionID", sessionID)
	}

	return nil
}

func (r *chatSessionRepository) SetAssignee(
	ctx context.Context,
	sessionID int,
	assignee *string,
) error {
	log := r.log.Function("SetAssignee")

	err := r.getDB(ctx).
		Model(&ChatSession{}).
		Where("id = ?", sessionID).
		Update("assigned_to", assignee).Error
	if err != nil {
		return log.Err("failed to set assignee", err, "sessionID", sessionID)
	}

	return nil
}

func (r *chatSessionRepository) SetEscalationLevel(
	ctx context.Context,
	sessionID int,
	level string,
	at time.Time,
) error {
	log := r.log.Function("SetEscalationLevel")

	err := r.getDB(ctx).
		Model(&ChatSession{}).
		Where("id = ?", sessionID).
		Updates(map[string]any{
			"escalation_level": level,
			"escalated_at":     at,
		}).Error
	if err != nil {
		return log.Err(
			"failed to set escalation level", err,
			"sessionID", sessionID, "level", level,
		)
	}

	return nil
}
