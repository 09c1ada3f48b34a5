package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ChurchModel struct {
	ChurchID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:church_id" json:"church_id"`

	ChurchName string `gorm:"type:varchar(120);not null;column:church_name" json:"church_name"`
	ChurchSlug string `gorm:"type:varchar(140);not null;uniqueIndex;column:church_slug" json:"church_slug"`

	// self-reference: a campus/church planted under a mother church
	ChurchParentID *uuid.UUID `gorm:"type:uuid;column:church_parent_id;index" json:"church_parent_id,omitempty"`

	// free-form profile (address, service times, socials)
	ChurchProfile datatypes.JSON `gorm:"type:jsonb;column:church_profile" json:"church_profile,omitempty"`

	ChurchCreatedAt time.Time      `gorm:"column:church_created_at;autoCreateTime" json:"church_created_at"`
	ChurchUpdatedAt *time.Time     `gorm:"column:church_updated_at;autoUpdateTime" json:"church_updated_at,omitempty"`
	ChurchDeletedAt gorm.DeletedAt `gorm:"column:church_deleted_at;index" json:"church_deleted_at,omitempty"`
}

func (ChurchModel) TableName() string { return "churches" }
