package model

import (
	"time"

	"github.com/google/uuid"
)

// Check-in of one member to one union event. Same detect-after-write rule as
// attendance_records: the (event, member) unique index settles duplicate races.
type UmugandaEventAttendanceModel struct {
	EventAttendanceID          uuid.UUID `gorm:"column:event_attendance_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"event_attendance_id"`
	EventAttendanceEventID     uuid.UUID `gorm:"column:event_attendance_event_id;type:uuid;not null;uniqueIndex:ux_event_attendance_event_member" json:"event_attendance_event_id"`
	EventAttendanceMemberID    uuid.UUID `gorm:"column:event_attendance_member_id;type:uuid;not null;uniqueIndex:ux_event_attendance_event_member" json:"event_attendance_member_id"`
	EventAttendanceChurchID    uuid.UUID `gorm:"column:event_attendance_church_id;type:uuid;not null;index:idx_event_attendance_church_id" json:"event_attendance_church_id"`
	EventAttendanceCheckedInAt time.Time `gorm:"column:event_attendance_checked_in_at;type:timestamptz;autoCreateTime" json:"event_attendance_checked_in_at"`
}

func (UmugandaEventAttendanceModel) TableName() string {
	return "umuganda_event_attendances"
}
