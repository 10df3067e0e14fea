package services

import (
	"context"
	"sort"
	"time"

	"staykeeper/internal/constants"
	"staykeeper/internal/database"
	"staykeeper/internal/events"
	"staykeeper/internal/models"
	"staykeeper/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
)

// TriageRow is one scored session as the operator dashboard renders it.
type TriageRow struct {
	Session        models.ChatSession `json:"session"`
	Heat           HeatResult         `json:"heat"`
	LastActivityAt *time.Time         `json:"lastActivityAt"`
}

// TriageService runs the scoring pass over chat sessions: aggregate message
// stats, score, apply the monotonic escalation patch, and sort for the
// dashboard. Sessions are scored independently; ordering is applied only
// after every score is in.
type TriageService struct {
	sessionRepo repositories.ChatSessionRepository
	messageRepo repositories.ChatMessageRepository
	heat        *HeatService
	eventBus    *events.EventBus
	db          database.DB
	log         logger.Logger
}

func NewTriageService(
	repos repositories.Repository,
	heat *HeatService,
	eventBus *events.EventBus,
	db database.DB,
) *TriageService {
	return &TriageService{
		sessionRepo: repos.ChatSession,
		messageRepo: repos.ChatMessage,
		heat:        heat,
		eventBus:    eventBus,
		db:          db,
		log:         logger.New("TriageService"),
	}
}

// ListForProperty scores every session of a property and returns them sorted
// by heat descending, then recency. A session whose stats cannot be loaded
// still appears, scored cold, so the dashboard never drops a conversation.
func (t *TriageService) ListForProperty(
	ctx context.Context,
	propertyID int,
	now time.Time,
) ([]TriageRow, error) {
	log := t.log.Function("ListForProperty")

	sessions, err := t.sessionRepo.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, log.Err("failed to list sessions", err, "propertyID", propertyID)
	}

	rows := t.scoreSessions(ctx, sessions, now)

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Heat.Heat != rows[j].Heat.Heat {
			return rows[i].Heat.Heat > rows[j].Heat.Heat
		}
		return laterActivity(rows[i].LastActivityAt, rows[j].LastActivityAt)
	})

	return rows, nil
}

// SweepUnresolved re-scores every unresolved session. Run by the hourly
// scheduler job so escalation keeps pace between dashboard loads.
func (t *TriageService) SweepUnresolved(ctx context.Context, now time.Time) (int, error) {
	log := t.log.Function("SweepUnresolved")

	sessions, err := t.sessionRepo.ListUnresolved(ctx)
	if err != nil {
		return 0, log.Err("failed to list unresolved sessions", err)
	}

	rows := t.scoreSessions(ctx, sessions, now)

	escalated := 0
	for _, row := range rows {
		if row.Heat.ShouldEscalate {
			escalated++
		}
	}

	log.Info("triage sweep completed", "sessions", len(rows), "escalated", escalated)
	return len(rows), nil
}

func (t *TriageService) scoreSessions(
	ctx context.Context,
	sessions []models.ChatSession,
	now time.Time,
) []TriageRow {
	log := t.log.Function("scoreSessions")

	rows := make([]TriageRow, 0, len(sessions))
	for i := range sessions {
		session := sessions[i]

		stats, err := t.messageRepo.StatsForSession(ctx, session.ID, now)
		if err != nil {
			// Score cold rather than dropping the session from the listing.
			log.Er("failed to load message stats, scoring with defaults", err,
				"sessionID", session.ID)
			stats = repositories.MessageStats{}
		}

		snapshot := SessionSnapshot{
			HasUrgent:         stats.HasUrgent,
			HasNegative:       stats.HasNegative,
			MessagesLast24h:   stats.CountLast24h,
			MessagesLast7d:    stats.CountLast7d,
			ReservationStatus: session.ReservationStatus,
			LastActivityAt:    stats.LastActivityAt,
			IsResolved:        session.IsResolved,
			EscalationLevel:   session.EscalationLevel,
		}

		result := t.heat.Score(snapshot, now)

		if result.ShouldEscalate {
			t.applyEscalation(ctx, &session, result, now)
		}

		if session.HeatScore != result.Heat {
			if err := t.sessionRepo.SetHeatScore(ctx, session.ID, result.Heat); err == nil {
				session.HeatScore = result.Heat
			}
		}

		t.cacheHeat(ctx, session.ID, result)

		rows = append(rows, TriageRow{
			Session:        session,
			Heat:           result,
			LastActivityAt: stats.LastActivityAt,
		})
	}

	return rows
}

// applyEscalation performs the rank-guarded write and publishes the event
// only when this pass actually won the update. Losing the race to a
// concurrent pass is fine: both were raising to the same ceiling.
func (t *TriageService) applyEscalation(
	ctx context.Context,
	session *models.ChatSession,
	result HeatResult,
	now time.Time,
) {
	log := t.log.Function("applyEscalation")

	updated, err := t.sessionRepo.RaiseEscalation(ctx, session.ID, result.NewEscalationLevel, now)
	if err != nil {
		log.Er("failed to raise escalation", err, "sessionID", session.ID)
		return
	}

	session.EscalationLevel = result.NewEscalationLevel
	escalatedAt := now
	session.EscalatedAt = &escalatedAt

	if updated && t.eventBus != nil {
		if err := t.eventBus.Publish(events.TRIAGE_CHANNEL, events.Event{
			Type:      events.SESSION_ESCALATED,
			SessionID: session.ID,
			Data: map[string]any{
				"escalationLevel": result.NewEscalationLevel,
				"heat":            result.Heat,
				"priority":        result.Priority,
			},
		}); err != nil {
			log.Er("failed to publish escalation event", err, "sessionID", session.ID)
		}
	}
}

// Resolve marks a session handled. Resolved sessions keep their escalation
// level for the audit trail but are frozen out of future raises.
func (t *TriageService) Resolve(ctx context.Context, sessionID int) error {
	log := t.log.Function("Resolve")

	if err := t.sessionRepo.SetResolved(ctx, sessionID, true); err != nil {
		return log.Err("failed to resolve session", err, "sessionID", sessionID)
	}

	t.publish(events.SESSION_RESOLVED, sessionID, map[string]any{"resolved": true})
	return nil
}

// Unresolve reopens a session, putting it back in scope for scoring passes.
func (t *TriageService) Unresolve(ctx context.Context, sessionID int) error {
	log := t.log.Function("Unresolve")

	if err := t.sessionRepo.SetResolved(ctx, sessionID, false); err != nil {
		return log.Err("failed to unresolve session", err, "sessionID", sessionID)
	}

	t.publish(events.SESSION_RESOLVED, sessionID, map[string]any{"resolved": false})
	return nil
}

func (t *TriageService) Assign(ctx context.Context, sessionID int, assignee *string) error {
	log := t.log.Function("Assign")

	if err := t.sessionRepo.SetAssignee(ctx, sessionID, assignee); err != nil {
		return log.Err("failed to assign session", err, "sessionID", sessionID)
	}

	return nil
}

// OverrideEscalation is the manual operator control. Unlike the scoring
// pass it may move the level in either direction.
func (t *TriageService) OverrideEscalation(
	ctx context.Context,
	sessionID int,
	level string,
	now time.Time,
) error {
	log := t.log.Function("OverrideEscalation")

	if !models.IsValidEscalationLevel(level) {
		return log.Error("invalid escalation level", "sessionID", sessionID, "level", level)
	}

	if err := t.sessionRepo.SetEscalationLevel(ctx, sessionID, level, now); err != nil {
		return log.Err("failed to override escalation", err, "sessionID", sessionID)
	}

	t.publish(events.SESSION_ESCALATED, sessionID, map[string]any{
		"escalationLevel": level,
		"manual":          true,
	})
	return nil
}

func (t *TriageService) publish(msgType events.MessageType, sessionID int, data map[string]any) {
	if t.eventBus == nil {
		return
	}

	if err := t.eventBus.Publish(events.TRIAGE_CHANNEL, events.Event{
		Type:      msgType,
		SessionID: sessionID,
		Data:      data,
	}); err != nil {
		t.log.Er("failed to publish triage event", err, "sessionID", sessionID)
	}
}

func (t *TriageService) cacheHeat(ctx context.Context, sessionID int, result HeatResult) {
	if t.db.Cache.General == nil {
		return
	}

	err := database.NewCacheBuilder(t.db.Cache.General, sessionID).
		WithHash(constants.HeatCachePrefix).
		WithStruct(result).
		WithTTL(constants.HeatCacheExpiry).
		WithContext(ctx).
		Set()
	if err != nil {
		t.log.Er("failed to cache heat snapshot", err, "sessionID", sessionID)
	}
}

func laterActivity(a, b *time.Time) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return a.After(*b)
}
