package services

import (
	"math"
	"time"

	"staykeeper/config"
	"staykeeper/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

// Heat score weights. Raw and final scores are always clamped to [0, 100].
const (
	HEAT_URGENT_POINTS       = 50
	HEAT_NEGATIVE_POINTS     = 25
	HEAT_PER_MESSAGE_24H     = 5
	HEAT_MESSAGES_24H_CAP    = 25
	HEAT_MESSAGES_7D_CAP     = 10
	HEAT_URGENT_MULTIPLIER   = 0.30
	HEAT_NEGATIVE_MULTIPLIER = 0.15
	HEAT_ACTIVE_MULTIPLIER   = 0.10
	HEAT_DECAY_PER_DAY       = 10
	HEAT_DECAY_MAX           = 50
)

// Priority buckets for the operator dashboard.
const (
	PriorityCritical  = "critical"
	PriorityAttention = "attention"
	PriorityRoutine   = "routine"
)

// Activity labels, derived from trailing message counts alone.
const (
	ActivitySpiking = "Spiking"
	ActivityActive  = "Active"
	ActivityCooling = "Cooling"
	ActivityQuiet   = "Quiet"
)

// Priority thresholds are fixed; escalation thresholds come from config.
const (
	PRIORITY_CRITICAL_THRESHOLD  = 85
	PRIORITY_ATTENTION_THRESHOLD = 60
)

const MAX_SIGNALS = 2

// EscalationThresholds maps heat to the desired escalation tier.
type EscalationThresholds struct {
	Low    int
	Medium int
	High   int
}

func DefaultEscalationThresholds() EscalationThresholds {
	return EscalationThresholds{Low: 35, Medium: 60, High: 85}
}

func EscalationThresholdsFromConfig(cfg config.Config) EscalationThresholds {
	return EscalationThresholds{
		Low:    cfg.EscalationLow,
		Medium: cfg.EscalationMedium,
		High:   cfg.EscalationHigh,
	}
}

// SessionSnapshot is the immutable per-session input to the scorer: message
// aggregates plus the session fields escalation depends on. The scorer never
// touches the session row itself.
type SessionSnapshot struct {
	HasUrgent         bool
	HasNegative       bool
	MessagesLast24h   int
	MessagesLast7d    int
	ReservationStatus string
	LastActivityAt    *time.Time
	IsResolved        bool
	EscalationLevel   string
}

// HeatResult is everything the dashboard renders for one session, plus the
// escalation patch the caller may persist. ShouldEscalate is true only when
// the monotonic rule allows raising the stored level to NewEscalationLevel.
type HeatResult struct {
	Raw                int      `json:"heatRaw"`
	Boosted            int      `json:"heatBoosted"`
	Heat               int      `json:"heat"`
	Priority           string   `json:"priorityLevel"`
	Signals            []string `json:"signals"`
	ActivityLabel      string   `json:"activityLabel"`
	DesiredEscalation  string   `json:"desiredEscalation"`
	ShouldEscalate     bool     `json:"-"`
	NewEscalationLevel string   `json:"escalationLevel"`
}

type HeatService struct {
	thresholds EscalationThresholds
	log        logger.Logger
}

func NewHeatService(thresholds EscalationThresholds) *HeatService {
	if thresholds == (EscalationThresholds{}) {
		thresholds = DefaultEscalationThresholds()
	}
	return &HeatService{
		thresholds: thresholds,
		log:        logger.New("HeatService"),
	}
}

// Score computes the bounded heat score, priority bucket, UI signals, and the
// escalation patch for one session snapshot. Pure and deterministic: calling
// it twice with the same snapshot and instant yields the same result, and the
// escalation decision is idempotent once the stored level reaches the ceiling
// for the current inputs.
func (s *HeatService) Score(snap SessionSnapshot, now time.Time) HeatResult {
	raw := s.rawScore(snap)
	boosted := s.boostedScore(raw, snap)
	heat := s.decayedScore(boosted, snap.LastActivityAt, now)

	desired := s.desiredEscalation(heat)

	result := HeatResult{
		Raw:                raw,
		Boosted:            boosted,
		Heat:               heat,
		Priority:           priorityBucket(heat),
		Signals:            deriveSignals(snap),
		ActivityLabel:      activityLabel(snap),
		DesiredEscalation:  desired,
		NewEscalationLevel: snap.EscalationLevel,
	}
	if result.NewEscalationLevel == "" {
		result.NewEscalationLevel = models.EscalationNone
	}

	// Monotonic auto-escalation: raise only, and only while unresolved.
	if !snap.IsResolved &&
		models.EscalationRank(desired) > models.EscalationRank(snap.EscalationLevel) {
		result.ShouldEscalate = true
		result.NewEscalationLevel = desired
	}

	return result
}

func (s *HeatService) rawScore(snap SessionSnapshot) int {
	score := 0

	if snap.HasUrgent {
		score += HEAT_URGENT_POINTS
	}
	if snap.HasNegative {
		score += HEAT_NEGATIVE_POINTS
	}

	score += min(HEAT_MESSAGES_24H_CAP, snap.MessagesLast24h*HEAT_PER_MESSAGE_24H)
	score += min(HEAT_MESSAGES_7D_CAP, snap.MessagesLast7d)

	return clampScore(score)
}

func (s *HeatService) boostedScore(raw int, snap SessionSnapshot) int {
	multiplier := 1.0

	if snap.HasUrgent {
		multiplier += HEAT_URGENT_MULTIPLIER
	}
	if snap.HasNegative {
		multiplier += HEAT_NEGATIVE_MULTIPLIER
	}
	if snap.ReservationStatus == models.SessionStatusActive {
		multiplier += HEAT_ACTIVE_MULTIPLIER
	}

	return clampScore(int(math.Round(float64(raw) * multiplier)))
}

// decayedScore subtracts 10 points per full day since the last activity,
// capped at 50. Sessions with no recorded activity skip decay entirely.
func (s *HeatService) decayedScore(boosted int, lastActivityAt *time.Time, now time.Time) int {
	if lastActivityAt == nil || lastActivityAt.IsZero() {
		return clampScore(boosted)
	}

	elapsed := now.Sub(*lastActivityAt)
	if elapsed <= 0 {
		return clampScore(boosted)
	}

	fullDays := int(elapsed / (24 * time.Hour))
	penalty := min(HEAT_DECAY_MAX, fullDays*HEAT_DECAY_PER_DAY)

	return clampScore(boosted - penalty)
}

func (s *HeatService) desiredEscalation(heat int) string {
	switch {
	case heat >= s.thresholds.High:
		return models.EscalationHigh
	case heat >= s.thresholds.Medium:
		return models.EscalationMedium
	case heat >= s.thresholds.Low:
		return models.EscalationLow
	default:
		return models.EscalationNone
	}
}

func priorityBucket(heat int) string {
	switch {
	case heat >= PRIORITY_CRITICAL_THRESHOLD:
		return PriorityCritical
	case heat >= PRIORITY_ATTENTION_THRESHOLD:
		return PriorityAttention
	default:
		return PriorityRoutine
	}
}

// deriveSignals produces the short emotional labels shown next to a session,
// capped at two, de-duplicated, order preserved.
func deriveSignals(snap SessionSnapshot) []string {
	var signals []string
	add := func(signal string) {
		for _, existing := range signals {
			if existing == signal {
				return
			}
		}
		if len(signals) < MAX_SIGNALS {
			signals = append(signals, signal)
		}
	}

	if snap.HasUrgent {
		add("panicked")
	}
	if snap.HasNegative {
		add("upset")
	}
	if snap.HasNegative && snap.MessagesLast24h >= 3 {
		add("angry")
	}
	if !snap.HasUrgent && !snap.HasNegative &&
		(snap.MessagesLast7d >= 3 || snap.MessagesLast24h >= 2) {
		add("confused")
	}
	if snap.ReservationStatus == models.SessionStatusActive &&
		(snap.HasUrgent || snap.HasNegative) {
		add("stressed")
	}

	if len(signals) == 0 {
		signals = append(signals, "calm")
	}

	return signals
}

func activityLabel(snap SessionSnapshot) string {
	switch {
	case snap.MessagesLast24h >= 5:
		return ActivitySpiking
	case snap.MessagesLast24h >= 2:
		return ActivityActive
	case snap.MessagesLast7d > 0:
		return ActivityCooling
	default:
		return ActivityQuiet
	}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
