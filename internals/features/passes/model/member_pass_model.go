package model

import (
	"time"

	"github.com/google/uuid"
)

// MemberPassModel is the legacy standing-pass table written at member
// onboarding. Verification falls back to it when the primary table misses and
// lazily mirrors the row into passes, so it stays read-mostly.
type MemberPassModel struct {
	MemberPassID        uuid.UUID  `gorm:"column:member_pass_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"member_pass_id"`
	MemberPassMemberID  uuid.UUID  `gorm:"column:member_pass_member_id;type:uuid;not null;uniqueIndex:ux_member_passes_member_id" json:"member_pass_member_id"`
	MemberPassToken     string     `gorm:"column:member_pass_token;type:varchar(64);not null;uniqueIndex:ux_member_passes_token" json:"member_pass_token"`
	MemberPassQrPayload string     `gorm:"column:member_pass_qr_payload;type:text;not null" json:"member_pass_qr_payload"`
	MemberPassExpiresAt *time.Time `gorm:"column:member_pass_expires_at;type:timestamptz" json:"member_pass_expires_at,omitempty"`
	MemberPassSmsSentAt *time.Time `gorm:"column:member_pass_sms_sent_at;type:timestamptz" json:"member_pass_sms_sent_at,omitempty"`
	MemberPassCreatedAt time.Time  `gorm:"column:member_pass_created_at;type:timestamptz;autoCreateTime" json:"member_pass_created_at"`
	MemberPassUpdatedAt time.Time  `gorm:"column:member_pass_updated_at;type:timestamptz;autoUpdateTime" json:"member_pass_updated_at"`
}

func (MemberPassModel) TableName() string {
	return "member_passes"
}
