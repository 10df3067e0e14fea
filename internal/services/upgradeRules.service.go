package services

import (
	"fmt"
	"strings"
	"time"

	"staykeeper/config"
	"staykeeper/internal/models"
	"staykeeper/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
)

// UpgradeKind is the gated-rule variant an upgrade slug maps to. Slugs that
// match no known kind are ungated and sell whenever the upgrade is active.
type UpgradeKind int

const (
	KindUngated UpgradeKind = iota
	KindEarlyCheckin
	KindLateCheckout
)

func (k UpgradeKind) String() string {
	switch k {
	case KindEarlyCheckin:
		return "early_checkin"
	case KindLateCheckout:
		return "late_checkout"
	default:
		return "ungated"
	}
}

// KindFromSlug maps free-form upgrade slugs onto rule kinds. PMCs name their
// upgrades "early-check-in", "early_checkin", "Early Arrival" and so on, so
// matching is intent-based rather than exact.
func KindFromSlug(slug string) UpgradeKind {
	s := strings.ToLower(strings.TrimSpace(slug))

	if strings.Contains(s, "early") &&
		(strings.Contains(s, "check") || strings.Contains(s, "arrival")) {
		return KindEarlyCheckin
	}

	if strings.Contains(s, "late") &&
		(strings.Contains(s, "check") || strings.Contains(s, "depart")) {
		return KindLateCheckout
	}

	return KindUngated
}

// Rule holds the purchase-window configuration for one gated upgrade kind.
type Rule struct {
	// WindowOpenDaysPrior is how many whole days before the stay boundary
	// (arrival for check-in kinds, departure for checkout kinds) the purchase
	// window opens. Zero means the window is always open.
	WindowOpenDaysPrior int

	// CutoffHours stops sales this close to the boundary. Zero disables it.
	CutoffHours int

	// RequiresNoTurnover blocks the sale when another reservation turns the
	// unit over on the boundary day.
	RequiresNoTurnover bool

	// RequiresCleanerConfirmation gates the sale on housekeeping sign-off.
	RequiresCleanerConfirmation bool
}

type RuleSet map[UpgradeKind]Rule

// DefaultRuleSet returns the stock purchase windows: early check-in opens two
// days before arrival, late checkout one day before departure, both blocked
// by same-day turnover, cutoffs disabled.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		KindEarlyCheckin: {
			WindowOpenDaysPrior: 2,
			CutoffHours:         0,
			RequiresNoTurnover:  true,
		},
		KindLateCheckout: {
			WindowOpenDaysPrior: 1,
			CutoffHours:         0,
			RequiresNoTurnover:  true,
		},
	}
}

// RuleSetFromConfig builds the rule table from the environment-backed config.
func RuleSetFromConfig(cfg config.Config) RuleSet {
	return RuleSet{
		KindEarlyCheckin: {
			WindowOpenDaysPrior: cfg.EarlyCheckinWindowDays,
			CutoffHours:         cfg.EarlyCheckinCutoffHours,
			RequiresNoTurnover:  true,
		},
		KindLateCheckout: {
			WindowOpenDaysPrior: cfg.LateCheckoutWindowDays,
			CutoffHours:         cfg.LateCheckoutCutoffHours,
			RequiresNoTurnover:  true,
		},
	}
}

// StayContext is an immutable snapshot of the guest's booking window plus the
// turnover and housekeeping facts the rules need. Callers resolve all dates
// and times to one consistent zone before building it.
type StayContext struct {
	PropertyID    int
	ArrivalDate   time.Time
	DepartureDate time.Time
	CheckinTime   utils.ClockTime
	CheckoutTime  utils.ClockTime

	HasArrivalTurnover   bool
	HasDepartureTurnover bool

	CleanerConfirmedEarly bool
	CleanerConfirmedLate  bool
}

// EvalResult is the verdict for one upgrade against one stay. Reason is set
// only when the upgrade is ineligible; OpensAt only when the purchase window
// has not opened yet.
type EvalResult struct {
	Eligible bool       `json:"eligible"`
	Reason   string     `json:"reason,omitempty"`
	OpensAt  *time.Time `json:"opensAt,omitempty"`
}

func ineligible(reason string) EvalResult {
	return EvalResult{Eligible: false, Reason: reason}
}

type UpgradeRulesService struct {
	rules RuleSet
	log   logger.Logger
}

func NewUpgradeRulesService(rules RuleSet) *UpgradeRulesService {
	if rules == nil {
		rules = DefaultRuleSet()
	}
	return &UpgradeRulesService{
		rules: rules,
		log:   logger.New("UpgradeRulesService"),
	}
}

// Evaluate decides whether the upgrade can be purchased for the stay at the
// given instant. Pure: no I/O, no mutation, deterministic for a fixed input.
// Malformed input yields an ineligible verdict, never an error, so nothing
// can leak into the guest checkout path.
func (s *UpgradeRulesService) Evaluate(
	upgrade *models.Upgrade,
	stay StayContext,
	now time.Time,
) EvalResult {
	if upgrade == nil || stay.ArrivalDate.IsZero() || stay.DepartureDate.IsZero() {
		return ineligible("Missing stay details for this upgrade.")
	}

	if !upgrade.IsActive {
		return ineligible("Not available for this stay.")
	}

	if upgrade.PropertyID != stay.PropertyID {
		return ineligible("Invalid upgrade for this property.")
	}

	if stay.DepartureDate.Before(stay.ArrivalDate) {
		return ineligible("Missing stay details for this upgrade.")
	}

	kind := KindFromSlug(upgrade.Slug)
	if kind == KindUngated {
		return EvalResult{Eligible: true}
	}

	rule, ok := s.rules[kind]
	if !ok {
		return EvalResult{Eligible: true}
	}

	switch kind {
	case KindEarlyCheckin:
		return evalGated(rule, gatedInput{
			boundary:         stay.CheckinTime.On(stay.ArrivalDate),
			boundaryName:     "check-in",
			openingPhrase:    fmt.Sprintf("Early check-in opens %d days before arrival.", rule.WindowOpenDaysPrior),
			startedPhrase:    "Arrival has already started.",
			hasTurnover:      stay.HasArrivalTurnover,
			cleanerConfirmed: stay.CleanerConfirmedEarly,
		}, now)
	case KindLateCheckout:
		return evalGated(rule, gatedInput{
			boundary:         stay.CheckoutTime.On(stay.DepartureDate),
			boundaryName:     "checkout",
			openingPhrase:    fmt.Sprintf("Late checkout opens %d days before departure.", rule.WindowOpenDaysPrior),
			startedPhrase:    "Checkout has already started.",
			hasTurnover:      stay.HasDepartureTurnover,
			cleanerConfirmed: stay.CleanerConfirmedLate,
		}, now)
	default:
		return EvalResult{Eligible: true}
	}
}

type gatedInput struct {
	boundary         time.Time
	boundaryName     string
	openingPhrase    string
	startedPhrase    string
	hasTurnover      bool
	cleanerConfirmed bool
}

// evalGated runs the shared check sequence for both gated kinds. Early
// check-in and late checkout are symmetric with the boundary swapped, so one
// ordering serves both: window, cutoff, turnover, housekeeping, started.
func evalGated(rule Rule, in gatedInput, now time.Time) EvalResult {
	if rule.WindowOpenDaysPrior > 0 {
		opens := in.boundary.AddDate(0, 0, -rule.WindowOpenDaysPrior)
		if now.Before(opens) {
			return EvalResult{
				Eligible: false,
				Reason:   in.openingPhrase,
				OpensAt:  &opens,
			}
		}
	}

	if rule.CutoffHours > 0 {
		cutoff := in.boundary.Add(-time.Duration(rule.CutoffHours) * time.Hour)
		if now.After(cutoff) {
			return ineligible(
				fmt.Sprintf("It's too close to %s to purchase this upgrade.", in.boundaryName),
			)
		}
	}

	if rule.RequiresNoTurnover && in.hasTurnover {
		return ineligible("Not available due to same-day turnover.")
	}

	if rule.RequiresCleanerConfirmation && !in.cleanerConfirmed {
		return ineligible("Pending housekeeping confirmation.")
	}

	if !now.Before(in.boundary) {
		return ineligible(in.startedPhrase)
	}

	return EvalResult{Eligible: true}
}
