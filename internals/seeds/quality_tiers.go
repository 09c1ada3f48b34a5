package seeds

import (
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	model "ekklesia_backend/internals/features/quality/model"
)

// Default thresholds (inclusive lower bounds); operators can tune them in
// the table, the seeder never overwrites existing rows.
var defaultQualityTiers = []model.QualityTierModel{
	{QualityTierCode: model.TierNotYet, QualityTierRank: 0, QualityTierMinPercentage: 0},
	{QualityTierCode: model.TierLow, QualityTierRank: 1, QualityTierMinPercentage: 35},
	{QualityTierCode: model.TierMedium, QualityTierRank: 2, QualityTierMinPercentage: 60},
	{QualityTierCode: model.TierHigh, QualityTierRank: 3, QualityTierMinPercentage: 85},
}

func SeedQualityTiers(db *gorm.DB) error {
	for _, t := range defaultQualityTiers {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&t).Error; err != nil {
			return err
		}
	}
	log.Println("✅ quality tiers seeded")
	return nil
}

// LoadQualityTiers returns the tier table for the classifier.
func LoadQualityTiers(db *gorm.DB) ([]model.QualityTierModel, error) {
	var tiers []model.QualityTierModel
	if err := db.Order("quality_tier_rank ASC").Find(&tiers).Error; err != nil {
		return nil, err
	}
	return tiers, nil
}
