package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateEventRequest struct {
	Date     time.Time `json:"date" validate:"required"`
	Theme    *string   `json:"theme,omitempty" validate:"omitempty,max=255"`
	Location *string   `json:"location,omitempty" validate:"omitempty,max=255"`
}

type UpdateEventRequest struct {
	Date     *time.Time `json:"date,omitempty"`
	Theme    *string    `json:"theme,omitempty" validate:"omitempty,max=255"`
	Location *string    `json:"location,omitempty" validate:"omitempty,max=255"`
}

// CheckInRequest records a member on an event by scanning their pass token.
type CheckInRequest struct {
	Token string `json:"token" validate:"required"`
}

type EventAttendanceRow struct {
	EventAttendanceID uuid.UUID `json:"event_attendance_id"`
	MemberID          uuid.UUID `json:"member_id"`
	MemberName        string    `json:"member_name"`
	NationalID        string    `json:"national_id"`
	ChurchID          uuid.UUID `json:"church_id"`
	ChurchName        string    `json:"church_name"`
	CheckedInAt       time.Time `json:"checked_in_at"`
}
