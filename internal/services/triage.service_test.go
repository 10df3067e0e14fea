package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"staykeeper/internal/database"
	"staykeeper/internal/models"
	"staykeeper/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessionRepo struct {
	sessions       []models.ChatSession
	raisedLevels   map[int]string
	heatScores     map[int]int
	listErr        error
	raiseRowsMatch bool
}

func newFakeSessionRepo(sessions []models.ChatSession) *fakeSessionRepo {
	return &fakeSessionRepo{
		sessions:       sessions,
		raisedLevels:   make(map[int]string),
		heatScores:     make(map[int]int),
		raiseRowsMatch: true,
	}
}

func (f *fakeSessionRepo) GetByID(ctx context.Context, id int) (*models.ChatSession, error) {
	for i := range f.sessions {
		if f.sessions[i].ID == id {
			return &f.sessions[i], nil
		}
	}
	return nil, nil
}

func (f *fakeSessionRepo) ListByProperty(
	ctx context.Context,
	propertyID int,
) ([]models.ChatSession, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.ChatSession
	for _, s := range f.sessions {
		if s.PropertyID == propertyID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) ListUnresolved(ctx context.Context) ([]models.ChatSession, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.ChatSession
	for _, s := range f.sessions {
		if !s.IsResolved {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) Create(
	ctx context.Context,
	session *models.ChatSession,
) (*models.ChatSession, error) {
	f.sessions = append(f.sessions, *session)
	return session, nil
}

func (f *fakeSessionRepo) RaiseEscalation(
	ctx context.Context,
	sessionID int,
	level string,
	at time.Time,
) (bool, error) {
	for i := range f.sessions {
		s := &f.sessions[i]
		if s.ID != sessionID || s.IsResolved {
			continue
		}
		for _, lower := range models.EscalationLevelsBelow(level) {
			if s.EscalationLevel == lower {
				s.EscalationLevel = level
				f.raisedLevels[sessionID] = level
				return f.raiseRowsMatch, nil
			}
		}
	}
	return false, nil
}

func (f *fakeSessionRepo) SetHeatScore(ctx context.Context, sessionID, heat int) error {
	f.heatScores[sessionID] = heat
	return nil
}

func (f *fakeSessionRepo) SetResolved(ctx context.Context, sessionID int, resolved bool) error {
	for i := range f.sessions {
		if f.sessions[i].ID == sessionID {
			f.sessions[i].IsResolved = resolved
		}
	}
	return nil
}

func (f *fakeSessionRepo) SetAssignee(
	ctx context.Context,
	sessionID int,
	assignee *string,
) error {
	for i := range f.sessions {
		if f.sessions[i].ID == sessionID {
			f.sessions[i].AssignedTo = assignee
		}
	}
	return nil
}

func (f *fakeSessionRepo) SetEscalationLevel(
	ctx context.Context,
	sessionID int,
	level string,
	at time.Time,
) error {
	for i := range f.sessions {
		if f.sessions[i].ID == sessionID {
			f.sessions[i].EscalationLevel = level
		}
	}
	return nil
}

type fakeMessageRepo struct {
	stats    map[int]repositories.MessageStats
	statsErr map[int]error
}

func (f *fakeMessageRepo) ListBySession(
	ctx context.Context,
	sessionID int,
) ([]models.ChatMessage, error) {
	return nil, nil
}

func (f *fakeMessageRepo) StatsForSession(
	ctx context.Context,
	sessionID int,
	now time.Time,
) (repositories.MessageStats, error) {
	if err := f.statsErr[sessionID]; err != nil {
		return repositories.MessageStats{}, err
	}
	return f.stats[sessionID], nil
}

func (f *fakeMessageRepo) Create(
	ctx context.Context,
	message *models.ChatMessage,
) (*models.ChatMessage, error) {
	return message, nil
}

func newTriageForTest(
	sessionRepo *fakeSessionRepo,
	messageRepo *fakeMessageRepo,
) *TriageService {
	svc := NewTriageService(
		repositories.Repository{ChatSession: sessionRepo, ChatMessage: messageRepo},
		NewHeatService(DefaultEscalationThresholds()),
		nil,
		databaseForTest(),
	)
	return svc
}

func TestTriageService_ListForProperty(t *testing.T) {
	now := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-30 * time.Minute)
	older := now.Add(-2 * time.Hour)

	t.Run("sorts by heat descending then recency", func(t *testing.T) {
		sessions := []models.ChatSession{
			{BaseModel: models.BaseModel{ID: 1}, PropertyID: 7, EscalationLevel: models.EscalationNone},
			{BaseModel: models.BaseModel{ID: 2}, PropertyID: 7, EscalationLevel: models.EscalationNone},
			{BaseModel: models.BaseModel{ID: 3}, PropertyID: 7, EscalationLevel: models.EscalationNone},
		}
		sessionRepo := newFakeSessionRepo(sessions)
		messageRepo := &fakeMessageRepo{stats: map[int]repositories.MessageStats{
			1: {CountLast7d: 1, LastActivityAt: &older},
			2: {HasUrgent: true, CountLast24h: 2, CountLast7d: 4, LastActivityAt: &recent},
			3: {CountLast7d: 1, LastActivityAt: &recent},
		}}

		rows, err := newTriageForTest(sessionRepo, messageRepo).ListForProperty(
			context.Background(), 7, now,
		)
		require.NoError(t, err)
		require.Len(t, rows, 3)

		assert.Equal(t, 2, rows[0].Session.ID)
		// Sessions 1 and 3 tie on heat; the fresher one wins.
		assert.Equal(t, 3, rows[1].Session.ID)
		assert.Equal(t, 1, rows[2].Session.ID)
		assert.True(t, rows[0].Heat.Heat > rows[1].Heat.Heat)
	})

	t.Run("escalates and persists heat for a hot session", func(t *testing.T) {
		sessions := []models.ChatSession{
			{
				BaseModel:         models.BaseModel{ID: 11},
				PropertyID:        7,
				ReservationStatus: models.SessionStatusActive,
				EscalationLevel:   models.EscalationNone,
			},
		}
		sessionRepo := newFakeSessionRepo(sessions)
		messageRepo := &fakeMessageRepo{stats: map[int]repositories.MessageStats{
			11: {HasUrgent: true, CountLast24h: 2, CountLast7d: 4, LastActivityAt: &recent},
		}}

		rows, err := newTriageForTest(sessionRepo, messageRepo).ListForProperty(
			context.Background(), 7, now,
		)
		require.NoError(t, err)
		require.Len(t, rows, 1)

		// raw 64, active-stay multiplier 1.40, boosted 90.
		assert.Equal(t, 90, rows[0].Heat.Heat)
		assert.Equal(t, models.EscalationHigh, sessionRepo.raisedLevels[11])
		assert.Equal(t, models.EscalationHigh, rows[0].Session.EscalationLevel)
		assert.Equal(t, 90, sessionRepo.heatScores[11])
	})

	t.Run("resolved session is scored but never raised", func(t *testing.T) {
		sessions := []models.ChatSession{
			{
				BaseModel:         models.BaseModel{ID: 21},
				PropertyID:        7,
				ReservationStatus: models.SessionStatusActive,
				EscalationLevel:   models.EscalationLow,
				IsResolved:        true,
			},
		}
		sessionRepo := newFakeSessionRepo(sessions)
		messageRepo := &fakeMessageRepo{stats: map[int]repositories.MessageStats{
			21: {HasUrgent: true, CountLast24h: 2, CountLast7d: 4, LastActivityAt: &recent},
		}}

		rows, err := newTriageForTest(sessionRepo, messageRepo).ListForProperty(
			context.Background(), 7, now,
		)
		require.NoError(t, err)
		require.Len(t, rows, 1)

		assert.False(t, rows[0].Heat.ShouldEscalate)
		assert.Empty(t, sessionRepo.raisedLevels)
		assert.Equal(t, models.EscalationLow, rows[0].Session.EscalationLevel)
	})

	t.Run("stats failure scores cold instead of dropping the session", func(t *testing.T) {
		sessions := []models.ChatSession{
			{BaseModel: models.BaseModel{ID: 31}, PropertyID: 7, EscalationLevel: models.EscalationNone},
		}
		sessionRepo := newFakeSessionRepo(sessions)
		messageRepo := &fakeMessageRepo{
			stats:    map[int]repositories.MessageStats{},
			statsErr: map[int]error{31: errors.New("connection reset")},
		}

		rows, err := newTriageForTest(sessionRepo, messageRepo).ListForProperty(
			context.Background(), 7, now,
		)
		require.NoError(t, err)
		require.Len(t, rows, 1)

		assert.Equal(t, 0, rows[0].Heat.Heat)
		assert.Equal(t, PriorityRoutine, rows[0].Heat.Priority)
	})
}

func TestTriageService_SweepUnresolved(t *testing.T) {
	now := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-time.Hour)

	sessions := []models.ChatSession{
		{
			BaseModel:         models.BaseModel{ID: 1},
			PropertyID:        7,
			ReservationStatus: models.SessionStatusActive,
			EscalationLevel:   models.EscalationNone,
		},
		{
			BaseModel:       models.BaseModel{ID: 2},
			PropertyID:      8,
			EscalationLevel: models.EscalationNone,
			IsResolved:      true,
		},
	}
	sessionRepo := newFakeSessionRepo(sessions)
	messageRepo := &fakeMessageRepo{stats: map[int]repositories.MessageStats{
		1: {HasUrgent: true, CountLast24h: 2, CountLast7d: 4, LastActivityAt: &recent},
	}}

	count, err := newTriageForTest(sessionRepo, messageRepo).SweepUnresolved(
		context.Background(), now,
	)
	require.NoError(t, err)

	// The resolved session is excluded entirely from the sweep.
	assert.Equal(t, 1, count)
	assert.Equal(t, models.EscalationHigh, sessionRepo.raisedLevels[1])
}

func TestTriageService_OperatorActions(t *testing.T) {
	now := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	sessions := []models.ChatSession{
		{BaseModel: models.BaseModel{ID: 5}, PropertyID: 7, EscalationLevel: models.EscalationHigh},
	}
	sessionRepo := newFakeSessionRepo(sessions)
	svc := newTriageForTest(sessionRepo, &fakeMessageRepo{})

	t.Run("resolve and reopen", func(t *testing.T) {
		require.NoError(t, svc.Resolve(ctx, 5))
		assert.True(t, sessionRepo.sessions[0].IsResolved)

		require.NoError(t, svc.Unresolve(ctx, 5))
		assert.False(t, sessionRepo.sessions[0].IsResolved)
	})

	t.Run("assign", func(t *testing.T) {
		operator := "casey"
		require.NoError(t, svc.Assign(ctx, 5, &operator))
		require.NotNil(t, sessionRepo.sessions[0].AssignedTo)
		assert.Equal(t, "casey", *sessionRepo.sessions[0].AssignedTo)
	})

	t.Run("manual override can lower the level", func(t *testing.T) {
		require.NoError(t, svc.OverrideEscalation(ctx, 5, models.EscalationLow, now))
		assert.Equal(t, models.EscalationLow, sessionRepo.sessions[0].EscalationLevel)
	})

	t.Run("manual override rejects unknown levels", func(t *testing.T) {
		err := svc.OverrideEscalation(ctx, 5, "nuclear", now)
		require.Error(t, err)
		assert.Equal(t, models.EscalationLow, sessionRepo.sessions[0].EscalationLevel)
	})
}

func databaseForTest() database.DB {
	return database.DB{}
}
