package services

import (
	"context"
	"errors"
	"time"

	"staykeeper/internal/models"
	"staykeeper/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrUpgradeNotFound  = errors.New("upgrade not found")
	ErrWrongProperty    = errors.New("upgrade does not belong to this property")
	ErrAlreadyPurchased = errors.New("upgrade already purchased for this stay")
	ErrInvalidAmount    = errors.New("invalid upgrade amount")
)

// Platform fee: 2% of the amount plus a 30 cent flat fee, never reaching the
// full amount.
var platformFeePercent = decimal.NewFromFloat(0.02)

const PLATFORM_FLAT_FEE_CENTS = 30

// CheckoutService owns the purchase-time eligibility re-verification. A
// displayed verdict may be minutes old; this service rebuilds the stay
// snapshot from live reservation data and evaluates again before any
// purchase row is created, rejecting a sale the display said was fine.
type CheckoutService struct {
	rules        *UpgradeRulesService
	stay         *StayService
	upgradeRepo  repositories.UpgradeRepository
	purchaseRepo repositories.UpgradePurchaseRepository
	propertyRepo repositories.PropertyRepository
	transaction  *TransactionService
	log          logger.Logger
}

func NewCheckoutService(
	repos repositories.Repository,
	rules *UpgradeRulesService,
	stay *StayService,
	transaction *TransactionService,
) *CheckoutService {
	return &CheckoutService{
		rules:        rules,
		stay:         stay,
		upgradeRepo:  repos.Upgrade,
		purchaseRepo: repos.UpgradePurchase,
		propertyRepo: repos.Property,
		transaction:  transaction,
		log:          logger.New("CheckoutService"),
	}
}

// EvaluateForSession scores every active upgrade of the session's property
// for display. Sessions without resolvable stay dates get fail-closed
// verdicts rather than an error.
func (s *CheckoutService) EvaluateForSession(
	ctx context.Context,
	session *models.ChatSession,
	now time.Time,
) ([]EvaluatedUpgrade, error) {
	log := s.log.Function("EvaluateForSession")

	upgrades, err := s.upgradeRepo.ListActiveByProperty(ctx, session.PropertyID)
	if err != nil {
		return nil, log.Err("failed to list upgrades", err, "propertyID", session.PropertyID)
	}

	stay, ok := s.stay.BuildForSession(ctx, session)

	evaluated := make([]EvaluatedUpgrade, 0, len(upgrades))
	for i := range upgrades {
		upgrade := upgrades[i]

		var result EvalResult
		if ok {
			result = s.rules.Evaluate(&upgrade, stay, now)
		} else {
			result = EvalResult{
				Eligible: false,
				Reason:   "Missing stay details for this upgrade.",
			}
		}

		evaluated = append(evaluated, EvaluatedUpgrade{
			Upgrade: upgrade,
			Result:  result,
		})
	}

	return evaluated, nil
}

type EvaluatedUpgrade struct {
	Upgrade models.Upgrade `json:"upgrade"`
	Result  EvalResult     `json:"result"`
}

// BeginPurchase performs the strict checkout-time checks and creates a
// pending purchase row. The payment provider call happens downstream of this
// core and is out of scope here.
func (s *CheckoutService) BeginPurchase(
	ctx context.Context,
	session *models.ChatSession,
	upgradeID int,
	now time.Time,
) (*models.UpgradePurchase, EvalResult, error) {
	log := s.log.Function("BeginPurchase")

	upgrade, err := s.upgradeRepo.GetByID(ctx, upgradeID)
	if err != nil {
		return nil, EvalResult{}, err
	}
	if upgrade == nil {
		return nil, EvalResult{}, ErrUpgradeNotFound
	}

	if upgrade.PropertyID != session.PropertyID {
		return nil, EvalResult{}, ErrWrongProperty
	}

	alreadyPaid, err := s.purchaseRepo.HasPaidPurchase(ctx, session.ID, upgrade.ID)
	if err != nil {
		return nil, EvalResult{}, err
	}
	if alreadyPaid {
		return nil, EvalResult{}, ErrAlreadyPurchased
	}

	// Re-verification: live stay snapshot, fresh turnover facts.
	stay, ok := s.stay.BuildForSession(ctx, session)
	if !ok {
		return nil, EvalResult{
			Eligible: false,
			Reason:   "Missing stay details for this upgrade.",
		}, nil
	}

	result := s.rules.Evaluate(upgrade, stay, now)
	if !result.Eligible {
		log.Info(
			"checkout rejected by re-verification",
			"sessionID", session.ID,
			"upgradeID", upgrade.ID,
			"reason", result.Reason,
		)
		return nil, result, nil
	}

	if upgrade.PriceCents <= 0 {
		return nil, EvalResult{}, ErrInvalidAmount
	}

	property, err := s.propertyRepo.GetByID(ctx, session.PropertyID)
	if err != nil {
		return nil, EvalResult{}, err
	}

	fee := PlatformFeeCents(upgrade.PriceCents)
	sessionID := session.ID

	purchase := &models.UpgradePurchase{
		PMCID:            property.PMCID,
		PropertyID:       property.ID,
		UpgradeID:        upgrade.ID,
		GuestSessionID:   &sessionID,
		AmountCents:      upgrade.PriceCents,
		PlatformFeeCents: fee,
		NetAmountCents:   upgrade.PriceCents - fee,
		Currency:         upgrade.Currency,
		Status:           models.PurchaseStatusPending,
	}

	err = s.transaction.Execute(ctx, func(txCtx context.Context, tx *gorm.DB) error {
		if err := tx.Create(purchase).Error; err != nil {
			return log.Err("failed to create purchase", err, "upgradeID", upgrade.ID)
		}
		return nil
	})
	if err != nil {
		return nil, EvalResult{}, err
	}

	return purchase, result, nil
}

// PlatformFeeCents computes the platform's cut of an upgrade sale in
// minor-currency units. The fee is capped one cent below the amount so the
// destination account always nets something.
func PlatformFeeCents(amountCents int) int {
	amount := decimal.NewFromInt(int64(amountCents))
	pctFee := amount.Mul(platformFeePercent).Round(0)

	fee := int(pctFee.IntPart()) + PLATFORM_FLAT_FEE_CENTS
	if fee < 0 {
		fee = 0
	}
	if fee >= amountCents {
		fee = amountCents - 1
		if fee < 0 {
			fee = 0
		}
	}

	return fee
}
