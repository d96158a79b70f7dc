package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateMemberRequest struct {
	NationalID  string  `json:"national_id" validate:"required,min=5,max=30"`
	FirstName   string  `json:"first_name" validate:"required,min=2,max=100"`
	LastName    string  `json:"last_name" validate:"required,min=2,max=100"`
	PhoneNumber string  `json:"phone_number" validate:"required,min=7,max=20"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email,max=150"`
	Password    string  `json:"password" validate:"required,min=8,max=72"`
}

type UpdateMemberRequest struct {
	FirstName   *string `json:"first_name,omitempty" validate:"omitempty,min=2,max=100"`
	LastName    *string `json:"last_name,omitempty" validate:"omitempty,min=2,max=100"`
	PhoneNumber *string `json:"phone_number,omitempty" validate:"omitempty,min=7,max=20"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email,max=150"`
}

type MemberChurchRef struct {
	ChurchID   uuid.UUID `json:"church_id"`
	ChurchName string    `json:"church_name"`
	DistrictID uuid.UUID `json:"district_id"`
}

type MemberPassSummary struct {
	Token     string     `json:"token"`
	SmsSentAt *time.Time `json:"sms_sent_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type MemberSummary struct {
	MemberID    uuid.UUID          `json:"member_id"`
	NationalID  string             `json:"national_id"`
	FirstName   string             `json:"first_name"`
	LastName    string             `json:"last_name"`
	PhoneNumber string             `json:"phone_number"`
	Email       *string            `json:"email,omitempty"`
	Church      *MemberChurchRef   `json:"church,omitempty"`
	MemberPass  *MemberPassSummary `json:"member_pass,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

// CreateMemberResult includes the standing pass minted at onboarding.
type CreateMemberResult struct {
	Member     MemberSummary `json:"member"`
	MemberPass struct {
		MemberPassID uuid.UUID  `json:"member_pass_id"`
		Token        string     `json:"token"`
		QrPayload    string     `json:"qr_payload"`
		SmsSentAt    *time.Time `json:"sms_sent_at,omitempty"`
	} `json:"member_pass"`
}

// MemberPassDetail is the member-facing pass view.
type MemberPassDetail struct {
	Member MemberSummary `json:"member"`
	Pass   struct {
		MemberPassID uuid.UUID  `json:"member_pass_id"`
		Token        string     `json:"token"`
		QrPayload    string     `json:"qr_payload"`
		ExpiresAt    *time.Time `json:"expires_at,omitempty"`
		SmsSentAt    *time.Time `json:"sms_sent_at,omitempty"`
	} `json:"pass"`
}
