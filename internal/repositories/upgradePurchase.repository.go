package repositories

import (
	"context"

	contextutil "staykeeper/internal/context"
	"staykeeper/internal/database"
	. "staykeeper/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

type UpgradePurchaseRepository interface {
	GetByID(ctx context.Context, id int) (*UpgradePurchase, error)
	// HasPaidPurchase reports whether the guest session already holds a paid
	// purchase of the upgrade. Used to prevent repurchase.
	HasPaidPurchase(ctx context.Context, guestSessionID, upgradeID int) (bool, error)
	Create(ctx context.Context, purchase *UpgradePurchase) (*UpgradePurchase, error)
	UpdateStatus(ctx context.Context, id int, status string) error
}

type upgradePurchaseRepository struct {
	db  database.DB
	log logger.Logger
}

func NewUpgradePurchaseRepository(db database.DB) UpgradePurchaseRepository {
	return &upgradePurchaseRepository{
		db:  db,
		log: logger.New("upgradePurchaseRepository"),
	}
}

func (r *upgradePurchaseRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextutil.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *upgradePurchaseRepository) GetByID(ctx context.Context, id int) (*UpgradePurchase, error) {
	log := r.log.Function("GetByID")

	var purchase UpgradePurchase
	if err := r.getDB(ctx).First(&purchase, "id = ?", id).Error; err != nil {
		return nil, log.Err("failed to get purchase by ID", err, "id", id)
	}

	return &purchase, nil
}

func (r *upgradePurchaseRepository) HasPaidPurchase(
	ctx context.Context,
	guestSessionID, upgradeID int,
) (bool, error) {
	log := r.log.Function("HasPaidPurchase")

	var count int64
	err := r.getDB(ctx).
		Model(&UpgradePurchase{}).
		Where(
			"guest_session_id = ? AND upgrade_id = ? AND status = ?",
			guestSessionID, upgradeID, PurchaseStatusPaid,
		).
		Count(&count).Error
	if err != nil {
		return false, log.Err(
			"failed to check paid purchase", err,
			"guestSessionID", guestSessionID, "upgradeID", upgradeID,
		)
	}

	return count > 0, nil
}

func (r *upgradePurchaseRepository) Create(
	ctx context.Context,
	purchase *UpgradePurchase,
) (*UpgradePurchase, error) {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(purchase).Error; err != nil {
		return nil, log.Err("failed to create purchase", err, "purchase", purchase)
	}

	return purchase, nil
}

func (r *upgradePurchaseRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	log := r.log.Function("UpdateStatus")

	result := r.getDB(ctx).
		Model(&UpgradePurchase{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return log.Err("failed to update purchase status", result.Error, "id", id, "status", status)
	}

	return nil
}
