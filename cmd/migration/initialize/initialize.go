package initialize

import (
	"staykeeper/config"

	logger "github.com/Bparsons0904/goLogger"
	. "staykeeper/internal/models"

	"gorm.io/gorm"
)

// defaultUpgrades is the catalog every property starts with. Prices are in
// minor currency units.
var defaultUpgrades = []Upgrade{
	{
		Slug:        "early-check-in",
		Title:       "Early Check-in",
		Description: "Arrive early and start relaxing sooner with guaranteed early access to the property.",
		PriceCents:  3500,
		SortOrder:   1,
	},
	{
		Slug:        "groceries",
		Title:       "Purchase Groceries",
		Description: "Send us your list and we'll have your favorite groceries ready and waiting when you arrive.",
		PriceCents:  6000,
		SortOrder:   2,
	},
	{
		Slug:        "mid-stay-clean",
		Title:       "Mid-Stay Clean",
		Description: "Enjoy fresh towels, linens, and a tidy space with a full clean during your stay.",
		PriceCents:  8500,
		SortOrder:   3,
	},
	{
		Slug:        "late-checkout",
		Title:       "Late Checkout",
		Description: "Extend your stay a few extra hours so you can pack up and head out at your own pace.",
		PriceCents:  3000,
		SortOrder:   4,
	},
}

func InitializeTables(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data")

	if err := initializeUpgradeCatalogs(db, log); err != nil {
		return log.Err("failed to initialize upgrade catalogs", err)
	}

	log.Info("Table initialization complete")
	return nil
}

// initializeUpgradeCatalogs backfills the default upgrade catalog for any
// property that has no upgrades yet. Re-run friendly: properties with an
// existing catalog are left alone.
func initializeUpgradeCatalogs(db *gorm.DB, log logger.Logger) error {
	log.Info("Initializing upgrade catalogs")

	var properties []Property
	if err := db.Find(&properties).Error; err != nil {
		return log.Err("failed to list properties", err)
	}

	seeded := 0
	for _, property := range properties {
		var count int64
		if err := db.Model(&Upgrade{}).
			Where("property_id = ?", property.ID).
			Count(&count).Error; err != nil {
			return log.Err("failed to count upgrades", err, "propertyID", property.ID)
		}
		if count > 0 {
			log.Debug("Property already has upgrades", "propertyID", property.ID)
			continue
		}

		for _, template := range defaultUpgrades {
			upgrade := template
			upgrade.PropertyID = property.ID
			upgrade.IsActive = true
			if err := db.Create(&upgrade).Error; err != nil {
				return log.Err(
					"failed to create upgrade",
					err,
					"propertyID", property.ID,
					"slug", upgrade.Slug,
				)
			}
		}
		seeded++
	}

	log.Info("Upgrade catalogs initialized", "propertiesSeeded", seeded)
	return nil
}
