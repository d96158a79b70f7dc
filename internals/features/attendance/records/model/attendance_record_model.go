package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
)

// One member checked in against one session. The composite unique index is the
// concurrency mechanism: two admins recording the same member race at the
// store, the second insert fails with 23505 and surfaces as a Conflict.
type AttendanceRecordModel struct {
	AttendanceID         uuid.UUID  `gorm:"column:attendance_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"attendance_id"`
	AttendanceSessionID  uuid.UUID  `gorm:"column:attendance_session_id;type:uuid;not null;uniqueIndex:ux_attendance_session_member" json:"attendance_session_id"`
	AttendanceMemberID   uuid.UUID  `gorm:"column:attendance_member_id;type:uuid;not null;uniqueIndex:ux_attendance_session_member;index:idx_attendance_member_id" json:"attendance_member_id"`
	AttendanceStatus     string     `gorm:"column:attendance_status;type:varchar(10);not null;default:PENDING" json:"attendance_status"`
	AttendanceApprovedBy *uuid.UUID `gorm:"column:attendance_approved_by;type:uuid" json:"attendance_approved_by,omitempty"`
	AttendanceCreatedAt  time.Time  `gorm:"column:attendance_created_at;type:timestamptz;autoCreateTime" json:"attendance_created_at"`
	AttendanceUpdatedAt  time.Time  `gorm:"column:attendance_updated_at;type:timestamptz;autoUpdateTime" json:"attendance_updated_at"`
}

func (AttendanceRecordModel) TableName() string {
	return "attendance_records"
}
