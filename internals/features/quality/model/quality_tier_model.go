package model

import "time"

type QualityTierCode string

// Ordered: NOT_YET < LOW < MEDIUM < HIGH (by rank and threshold).
const (
	TierNotYet QualityTierCode = "NOT_YET"
	TierLow    QualityTierCode = "LOW"
	TierMedium QualityTierCode = "MEDIUM"
	TierHigh   QualityTierCode = "HIGH"
)

// QualityTierModel is static reference data seeded at startup.
// MinPercentage is an inclusive lower bound.
type QualityTierModel struct {
	QualityTierCode QualityTierCode `gorm:"type:varchar(16);primaryKey;column:quality_tier_code" json:"quality_tier_code"`

	QualityTierRank          int     `gorm:"not null;uniqueIndex;column:quality_tier_rank" json:"quality_tier_rank"`
	QualityTierMinPercentage float64 `gorm:"not null;column:quality_tier_min_percentage" json:"quality_tier_min_percentage"`

	QualityTierCreatedAt time.Time `gorm:"column:quality_tier_created_at;autoCreateTime" json:"quality_tier_created_at"`
}

func (QualityTierModel) TableName() string { return "quality_tiers" }
