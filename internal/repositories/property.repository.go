package repositories

import (
	"context"

	contextutil "staykeeper/internal/context"
	"staykeeper/internal/database"
	. "staykeeper/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

type PropertyRepository interface {
	GetByID(ctx context.Context, id int) (*Property, error)
	ListByPMC(ctx context.Context, pmcID int) ([]Property, error)
	Create(ctx context.Context, property *Property) (*Property, error)
	Update(ctx context.Context, property *Property) error
}

type propertyRepository struct {
	db  database.DB
	log logger.Logger
}

func NewPropertyRepository(db database.DB) PropertyRepository {
	return &propertyRepository{
		db:  db,
		log: logger.New("propertyRepository"),
	}
}

func (r *propertyRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextutil.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *propertyRepository) GetByID(ctx context.Context, id int) (*Property, error) {
	log := r.log.Function("GetByID")

	var property Property
	if err := r.getDB(ctx).First(&property, "id = ?", id).Error; err != nil {
		return nil, log.Err("failed to get property by ID", err, "id", id)
	}

	return &property, nil
}

func (r *propertyRepository) ListByPMC(ctx context.Context, pmcID int) ([]Property, error) {
	log := r.log.Function("ListByPMC")

	var properties []Property
	if err := r.getDB(ctx).
		Where("pmc_id = ? AND is_active = ?", pmcID, true).
		Order("id asc").
		Find(&properties).Error; err != nil {
		return nil, log.Err("failed to list properties by PMC", err, "pmcID", pmcID)
	}

	return properties, nil
}

func (r *propertyRepository) Create(ctx context.Context, property *Property) (*Property, error) {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(property).Error; err != nil {
		return nil, log.Err("failed to create property", err, "property", property)
	}

	return property, nil
}

func (r *propertyRepository) Update(ctx context.Context, property *Property) error {
	log := r.log.Function("Update")

	if err := r.getDB(ctx).Save(property).Error; err != nil {
		return log.Err("failed to update property", err, "property", property)
	}

	return nil
}
