package dto

import (
	"time"

	"github.com/google/uuid"

	model "ekklesia_backend/internals/features/homegroups/model"
)

type HomeGroupResponse struct {
	HomeGroupID             uuid.UUID  `json:"home_group_id"`
	HomeGroupChurchID       uuid.UUID  `json:"home_group_church_id"`
	HomeGroupName           string     `json:"home_group_name"`
	HomeGroupLeaderPersonID *uuid.UUID `json:"home_group_leader_person_id,omitempty"`
	HomeGroupCreatedAt      time.Time  `json:"home_group_created_at"`
	HomeGroupUpdatedAt      *time.Time `json:"home_group_updated_at,omitempty"`
}

func FromModel(m model.HomeGroupModel) HomeGroupResponse {
	return HomeGroupResponse{
		HomeGroupID:             m.HomeGroupID,
		HomeGroupChurchID:       m.HomeGroupChurchID,
		HomeGroupName:           m.HomeGroupName,
		HomeGroupLeaderPersonID: m.HomeGroupLeaderPersonID,
		HomeGroupCreatedAt:      m.HomeGroupCreatedAt,
		HomeGroupUpdatedAt:      m.HomeGroupUpdatedAt,
	}
}

type CreateHomeGroupRequest struct {
	HomeGroupChurchID       uuid.UUID  `json:"home_group_church_id" validate:"required"`
	HomeGroupName           string     `json:"home_group_name" validate:"required,min=3,max=120"`
	HomeGroupLeaderPersonID *uuid.UUID `json:"home_group_leader_person_id"`
}

func (r CreateHomeGroupRequest) ToModel() model.HomeGroupModel {
	return model.HomeGroupModel{
		HomeGroupChurchID:       r.HomeGroupChurchID,
		HomeGroupName:           r.HomeGroupName,
		HomeGroupLeaderPersonID: r.HomeGroupLeaderPersonID,
	}
}

type UpdateHomeGroupRequest struct {
	HomeGroupName           *string    `json:"home_group_name" validate:"omitempty,min=3,max=120"`
	HomeGroupLeaderPersonID *uuid.UUID `json:"home_group_leader_person_id"`
}

func (r UpdateHomeGroupRequest) Apply(m *model.HomeGroupModel) {
	if r.HomeGroupName != nil {
		m.HomeGroupName = *r.HomeGroupName
	}
	if r.HomeGroupLeaderPersonID != nil {
		m.HomeGroupLeaderPersonID = r.HomeGroupLeaderPersonID
	}
}
