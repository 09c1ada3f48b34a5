package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PersonModel struct {
	PersonID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:person_id" json:"person_id"`

	PersonChurchID    uuid.UUID  `gorm:"type:uuid;not null;index;column:person_church_id" json:"person_church_id"`
	PersonHomeGroupID *uuid.UUID `gorm:"type:uuid;index;column:person_home_group_id" json:"person_home_group_id,omitempty"`

	PersonFullName string  `gorm:"type:varchar(160);not null;column:person_full_name" json:"person_full_name"`
	PersonEmail    *string `gorm:"type:varchar(160);column:person_email" json:"person_email,omitempty"`
	PersonPhone    *string `gorm:"type:varchar(32);column:person_phone" json:"person_phone,omitempty"`

	PersonIsActive bool `gorm:"not null;default:true;column:person_is_active" json:"person_is_active"`

	PersonCreatedAt time.Time      `gorm:"column:person_created_at;autoCreateTime" json:"person_created_at"`
	PersonUpdatedAt *time.Time     `gorm:"column:person_updated_at;autoUpdateTime" json:"person_updated_at,omitempty"`
	PersonDeletedAt gorm.DeletedAt `gorm:"column:person_deleted_at;index" json:"person_deleted_at,omitempty"`
}

func (PersonModel) TableName() string { return "persons" }
