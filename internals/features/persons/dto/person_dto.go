package dto

import (
	"time"

	"github.com/google/uuid"

	model "ekklesia_backend/internals/features/persons/model"
)

type PersonResponse struct {
	PersonID          uuid.UUID  `json:"person_id"`
	PersonChurchID    uuid.UUID  `json:"person_church_id"`
	PersonHomeGroupID *uuid.UUID `json:"person_home_group_id,omitempty"`
	PersonFullName    string     `json:"person_full_name"`
	PersonEmail       *string    `json:"person_email,omitempty"`
	PersonPhone       *string    `json:"person_phone,omitempty"`
	PersonIsActive    bool       `json:"person_is_active"`
	PersonCreatedAt   time.Time  `json:"person_created_at"`
	PersonUpdatedAt   *time.Time `json:"person_updated_at,omitempty"`
}

func FromModel(m model.PersonModel) PersonResponse {
	return PersonResponse{
		PersonID:          m.PersonID,
		PersonChurchID:    m.PersonChurchID,
		PersonHomeGroupID: m.PersonHomeGroupID,
		PersonFullName:    m.PersonFullName,
		PersonEmail:       m.PersonEmail,
		PersonPhone:       m.PersonPhone,
		PersonIsActive:    m.PersonIsActive,
		PersonCreatedAt:   m.PersonCreatedAt,
		PersonUpdatedAt:   m.PersonUpdatedAt,
	}
}

type CreatePersonRequest struct {
	PersonChurchID    uuid.UUID  `json:"person_church_id" validate:"required"`
	PersonHomeGroupID *uuid.UUID `json:"person_home_group_id"`
	PersonFullName    string     `json:"person_full_name" validate:"required,min=3,max=160"`
	PersonEmail       *string    `json:"person_email" validate:"omitempty,email"`
	PersonPhone       *string    `json:"person_phone" validate:"omitempty,max=32"`
}

func (r CreatePersonRequest) ToModel() model.PersonModel {
	return model.PersonModel{
		PersonChurchID:    r.PersonChurchID,
		PersonHomeGroupID: r.PersonHomeGroupID,
		PersonFullName:    r.PersonFullName,
		PersonEmail:       r.PersonEmail,
		PersonPhone:       r.PersonPhone,
		PersonIsActive:    true,
	}
}

type UpdatePersonRequest struct {
	PersonHomeGroupID *uuid.UUID `json:"person_home_group_id"`
	PersonFullName    *string    `json:"person_full_name" validate:"omitempty,min=3,max=160"`
	PersonEmail       *string    `json:"person_email" validate:"omitempty,email"`
	PersonPhone       *string    `json:"person_phone" validate:"omitempty,max=32"`
	PersonIsActive    *bool      `json:"person_is_active"`
}

func (r UpdatePersonRequest) Apply(m *model.PersonModel) {
	if r.PersonHomeGroupID != nil {
		m.PersonHomeGroupID = r.PersonHomeGroupID
	}
	if r.PersonFullName != nil {
		m.PersonFullName = *r.PersonFullName
	}
	if r.PersonEmail != nil {
		m.PersonEmail = r.PersonEmail
	}
	if r.PersonPhone != nil {
		m.PersonPhone = r.PersonPhone
	}
	if r.PersonIsActive != nil {
		m.PersonIsActive = *r.PersonIsActive
	}
}
