package dto

import (
	"time"

	"github.com/google/uuid"
)

// LoginRequest accepts a national ID or username as the identifier.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required,min=3,max=150"`
	Password   string `json:"password" validate:"required,min=8,max=72"`
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        LoginUserRef `json:"user"`
}

type LoginUserRef struct {
	UserID     uuid.UUID  `json:"user_id"`
	Username   string     `json:"username"`
	FullName   string     `json:"full_name"`
	Role       string     `json:"role"`
	UnionID    *uuid.UUID `json:"union_id,omitempty"`
	DistrictID *uuid.UUID `json:"district_id,omitempty"`
	ChurchID   *uuid.UUID `json:"church_id,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

// PasswordResetRequest identifies the account by national ID or email; the
// response never reveals whether the account exists.
type PasswordResetRequest struct {
	NationalID *string `json:"national_id,omitempty"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
}

type PasswordResetConfirmRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}
