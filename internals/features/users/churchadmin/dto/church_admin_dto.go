package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateChurchAdminRequest struct {
	ChurchID    uuid.UUID `json:"church_id" validate:"required"`
	FirstName   string    `json:"first_name" validate:"required,min=2,max=100"`
	LastName    string    `json:"last_name" validate:"required,min=2,max=100"`
	PhoneNumber string    `json:"phone_number" validate:"required,min=7,max=20"`
	Email       string    `json:"email" validate:"required,email,max=150"`
}

type UpdateChurchAdminRequest struct {
	FirstName   *string    `json:"first_name,omitempty" validate:"omitempty,min=2,max=100"`
	LastName    *string    `json:"last_name,omitempty" validate:"omitempty,min=2,max=100"`
	PhoneNumber *string    `json:"phone_number,omitempty" validate:"omitempty,min=7,max=20"`
	Email       *string    `json:"email,omitempty" validate:"omitempty,email,max=150"`
	ChurchID    *uuid.UUID `json:"church_id,omitempty"`
	IsActive    *bool      `json:"is_active,omitempty"`
}

type ChurchAdminResponse struct {
	AdminID     uuid.UUID  `json:"admin_id"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Email       *string    `json:"email,omitempty"`
	PhoneNumber string     `json:"phone_number"`
	IsActive    bool       `json:"is_active"`
	ChurchID    *uuid.UUID `json:"church_id,omitempty"`
	ChurchName  string     `json:"church_name,omitempty"`
	DistrictID  *uuid.UUID `json:"district_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CreateChurchAdminResponse carries the generated initial password once.
type CreateChurchAdminResponse struct {
	Admin           ChurchAdminResponse `json:"admin"`
	InitialPassword string              `json:"initial_password"`
}
