package model

import (
	"time"

	"github.com/google/uuid"
)

// PassModel is the primary pass table. A pass is bound to either an attendance
// record (event pass) or a member (standing pass); the two partial unique
// indexes enforce at-most-one of each. The denormalized church/session-date
// columns are the second tier of the verification fallback when no attendance
// is bound.
type PassModel struct {
	PassID           uuid.UUID  `gorm:"column:pass_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"pass_id"`
	PassAttendanceID *uuid.UUID `gorm:"column:pass_attendance_id;type:uuid;uniqueIndex:ux_passes_attendance_id" json:"pass_attendance_id,omitempty"`
	PassMemberID     *uuid.UUID `gorm:"column:pass_member_id;type:uuid;uniqueIndex:ux_passes_member_id" json:"pass_member_id,omitempty"`
	PassChurchID     *uuid.UUID `gorm:"column:pass_church_id;type:uuid;index:idx_passes_church_id" json:"pass_church_id,omitempty"`
	PassToken        string     `gorm:"column:pass_token;type:varchar(64);not null;uniqueIndex:ux_passes_token" json:"pass_token"`
	PassQrPayload    string     `gorm:"column:pass_qr_payload;type:text;not null" json:"pass_qr_payload"`
	PassSessionDate  *time.Time `gorm:"column:pass_session_date;type:timestamptz" json:"pass_session_date,omitempty"`
	PassExpiresAt    *time.Time `gorm:"column:pass_expires_at;type:timestamptz" json:"pass_expires_at,omitempty"`
	PassSmsSentAt    *time.Time `gorm:"column:pass_sms_sent_at;type:timestamptz" json:"pass_sms_sent_at,omitempty"`
	PassCreatedAt    time.Time  `gorm:"column:pass_created_at;type:timestamptz;autoCreateTime" json:"pass_created_at"`
	PassUpdatedAt    time.Time  `gorm:"column:pass_updated_at;type:timestamptz;autoUpdateTime" json:"pass_updated_at"`
}

func (PassModel) TableName() string {
	return "passes"
}

// IsExpired is derived at verification time; there is no stored EXPIRED state.
func (p *PassModel) IsExpired(now time.Time) bool {
	return p.PassExpiresAt != nil && p.PassExpiresAt.Before(now)
}
