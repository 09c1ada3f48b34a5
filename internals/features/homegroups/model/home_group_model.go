package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HomeGroupModel struct {
	HomeGroupID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:home_group_id" json:"home_group_id"`

	HomeGroupChurchID uuid.UUID `gorm:"type:uuid;not null;index;column:home_group_church_id" json:"home_group_church_id"`
	HomeGroupName     string    `gorm:"type:varchar(120);not null;column:home_group_name" json:"home_group_name"`

	HomeGroupLeaderPersonID *uuid.UUID `gorm:"type:uuid;column:home_group_leader_person_id" json:"home_group_leader_person_id,omitempty"`

	HomeGroupCreatedAt time.Time      `gorm:"column:home_group_created_at;autoCreateTime" json:"home_group_created_at"`
	HomeGroupUpdatedAt *time.Time     `gorm:"column:home_group_updated_at;autoUpdateTime" json:"home_group_updated_at,omitempty"`
	HomeGroupDeletedAt gorm.DeletedAt `gorm:"column:home_group_deleted_at;index" json:"home_group_deleted_at,omitempty"`
}

func (HomeGroupModel) TableName() string { return "home_groups" }
