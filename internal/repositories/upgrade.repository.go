package repositories

import (
	"context"

	contextutil "staykeeper/internal/context"
	"staykeeper/internal/database"
	. "staykeeper/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

type UpgradeRepository interface {
	GetByID(ctx context.Context, id int) (*Upgrade, error)
	ListActiveByProperty(ctx context.Context, propertyID int) ([]Upgrade, error)
	Create(ctx context.Context, upgrade *Upgrade) (*Upgrade, error)
	Update(ctx context.Context, upgrade *Upgrade) error
	Delete(ctx context.Context, id int) error
}

type upgradeRepository struct {
	db  database.DB
	log logger.Logger
}

func NewUpgradeRepository(db database.DB) UpgradeRepository {
	return &upgradeRepository{
		db:  db,
		log: logger.New("upgradeRepository"),
	}
}

func (r *upgradeRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextutil.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *upgradeRepository) GetByID(ctx context.Context, id int) (*Upgrade, error) {
	log := r.log.Function("GetByID")

	var upgrade Upgrade
	if err := r.getDB(ctx).First(&upgrade, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, log.Err("failed to get upgrade by ID", err, "id", id)
	}

	return &upgrade, nil
}

func (r *upgradeRepository) ListActiveByProperty(
	ctx context.Context,
	propertyID int,
) ([]Upgrade, error) {
	log := r.log.Function("ListActiveByProperty")

	var upgrades []Upgrade
	err := r.getDB(ctx).
		Where("property_id = ? AND is_active = ?", propertyID, true).
		Order("sort_order asc, id asc").
		Find(&upgrades).Error
	if err != nil {
		return nil, log.Err("failed to list upgrades", err, "propertyID", propertyID)
	}

	return upgrades, nil
}

func (r *upgradeRepository) Create(ctx context.Context, upgrade *Upgrade) (*Upgrade, error) {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(upgrade).Error; err != nil {
		return nil, log.Err("failed to create upgrade", err, "upgrade", upgrade)
	}

	return upgrade, nil
}

func (r *upgradeRepository) Update(ctx context.Context, upgrade *Upgrade) error {
	log := r.log.Function("Update")

	if err := r.getDB(ctx).Save(upgrade).Error; err != nil {
		return log.Err("failed to update upgrade", err, "upgrade", upgrade)
	}

	return nil
}

func (r *upgradeRepository) Delete(ctx context.Context, id int) error {
	log := r.log.Function("Delete")

	if err := r.getDB(ctx).Delete(&Upgrade{}, "id = ?", id).Error; err != nil {
		return log.Err("failed to delete upgrade", err, "id", id)
	}

	return nil
}
