package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreatePastorRequest struct {
	FirstName   string    `json:"first_name" validate:"required,min=2,max=100"`
	LastName    string    `json:"last_name" validate:"required,min=2,max=100"`
	PhoneNumber string    `json:"phone_number" validate:"required,min=7,max=20"`
	Email       string    `json:"email" validate:"required,email,max=150"`
	DistrictID  uuid.UUID `json:"district_id" validate:"required"`
}

type UpdatePastorRequest struct {
	FirstName   *string    `json:"first_name,omitempty" validate:"omitempty,min=2,max=100"`
	LastName    *string    `json:"last_name,omitempty" validate:"omitempty,min=2,max=100"`
	PhoneNumber *string    `json:"phone_number,omitempty" validate:"omitempty,min=7,max=20"`
	Email       *string    `json:"email,omitempty" validate:"omitempty,email,max=150"`
	DistrictID  *uuid.UUID `json:"district_id,omitempty"`
	ClearDistrict bool     `json:"clear_district,omitempty"`
	IsActive    *bool      `json:"is_active,omitempty"`
}

type AssignChurchesRequest struct {
	ChurchIDs []uuid.UUID `json:"church_ids" validate:"required"`
}

type PastorChurchRef struct {
	ChurchID   uuid.UUID `json:"church_id"`
	ChurchName string    `json:"church_name"`
}

type PastorResponse struct {
	PastorID    uuid.UUID         `json:"pastor_id"`
	FirstName   string            `json:"first_name"`
	LastName    string            `json:"last_name"`
	Email       *string           `json:"email,omitempty"`
	PhoneNumber string            `json:"phone_number"`
	IsActive    bool              `json:"is_active"`
	DistrictID  *uuid.UUID        `json:"district_id,omitempty"`
	Churches    []PastorChurchRef `json:"churches"`
	CreatedAt   time.Time         `json:"created_at"`
}

// CreatePastorResponse carries the generated initial password exactly once,
// at creation time. It is never retrievable again.
type CreatePastorResponse struct {
	Pastor          PastorResponse `json:"pastor"`
	InitialPassword string         `json:"initial_password"`
}
