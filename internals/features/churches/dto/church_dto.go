package dto

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	model "ekklesia_backend/internals/features/churches/model"
)

/* ===================== RESPONSES ===================== */

type ChurchResponse struct {
	ChurchID        uuid.UUID      `json:"church_id"`
	ChurchName      string         `json:"church_name"`
	ChurchSlug      string         `json:"church_slug"`
	ChurchParentID  *uuid.UUID     `json:"church_parent_id,omitempty"`
	ChurchProfile   datatypes.JSON `json:"church_profile,omitempty"`
	ChurchCreatedAt time.Time      `json:"church_created_at"`
	ChurchUpdatedAt *time.Time     `json:"church_updated_at,omitempty"`
}

func FromModel(m model.ChurchModel) ChurchResponse {
	return ChurchResponse{
		ChurchID:        m.ChurchID,
		ChurchName:      m.ChurchName,
		ChurchSlug:      m.ChurchSlug,
		ChurchParentID:  m.ChurchParentID,
		ChurchProfile:   m.ChurchProfile,
		ChurchCreatedAt: m.ChurchCreatedAt,
		ChurchUpdatedAt: m.ChurchUpdatedAt,
	}
}

/* ===================== REQUESTS ===================== */

type CreateChurchRequest struct {
	ChurchName     string         `json:"church_name" validate:"required,min=3,max=120"`
	ChurchSlug     string         `json:"church_slug" validate:"required,min=3,max=140"`
	ChurchParentID *uuid.UUID     `json:"church_parent_id"`
	ChurchProfile  datatypes.JSON `json:"church_profile"`
}

func (r CreateChurchRequest) ToModel() model.ChurchModel {
	return model.ChurchModel{
		ChurchName:     r.ChurchName,
		ChurchSlug:     r.ChurchSlug,
		ChurchParentID: r.ChurchParentID,
		ChurchProfile:  r.ChurchProfile,
	}
}

// Partial update (PATCH): pointers so "empty" and "unchanged" stay distinct.
type UpdateChurchRequest struct {
	ChurchName     *string         `json:"church_name" validate:"omitempty,min=3,max=120"`
	ChurchSlug     *string         `json:"church_slug" validate:"omitempty,min=3,max=140"`
	ChurchParentID *uuid.UUID      `json:"church_parent_id"`
	ChurchProfile  *datatypes.JSON `json:"church_profile"`
}

func (r UpdateChurchRequest) Apply(m *model.ChurchModel) {
	if r.ChurchName != nil {
		m.ChurchName = *r.ChurchName
	}
	if r.ChurchSlug != nil {
		m.ChurchSlug = *r.ChurchSlug
	}
	if r.ChurchParentID != nil {
		m.ChurchParentID = r.ChurchParentID
	}
	if r.ChurchProfile != nil {
		m.ChurchProfile = *r.ChurchProfile
	}
}
