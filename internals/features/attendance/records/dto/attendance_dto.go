package dto

import (
	"time"

	"github.com/google/uuid"

	attendanceModel "umuganda_backend/internals/features/attendance/records/model"
	passModel "umuganda_backend/internals/features/passes/model"
)

type CreateAttendanceRequest struct {
	SessionID uuid.UUID `json:"session_id" validate:"required"`
	MemberID  uuid.UUID `json:"member_id" validate:"required"`
}

// UpdateAttendanceRequest drives the status transition. IssuePass only applies
// when Status is APPROVED and defaults to true when omitted.
type UpdateAttendanceRequest struct {
	Status    string `json:"status" validate:"required,oneof=PENDING APPROVED"`
	IssuePass *bool  `json:"issue_pass,omitempty"`
}

// AttendanceResponse is a record joined with its member and session context.
type AttendanceResponse struct {
	AttendanceID uuid.UUID  `json:"attendance_id"`
	SessionID    uuid.UUID  `json:"session_id"`
	SessionDate  time.Time  `json:"session_date"`
	ChurchID     uuid.UUID  `json:"church_id"`
	ChurchName   string     `json:"church_name"`
	MemberID     uuid.UUID  `json:"member_id"`
	MemberName   string     `json:"member_name"`
	Status       string     `json:"status"`
	ApprovedBy   *uuid.UUID `json:"approved_by,omitempty"`
	RecordedAt   time.Time  `json:"recorded_at"`
}

// UpdateAttendanceResult reports the transition outcome. Approval triggers
// issuance but never fails on it: a pass problem is carried in PassError while
// the status change itself stands.
type UpdateAttendanceResult struct {
	Record    *attendanceModel.AttendanceRecordModel `json:"record"`
	Pass      *passModel.PassModel                   `json:"pass,omitempty"`
	PassError string                                 `json:"pass_error,omitempty"`
}

type ListAttendanceFilters struct {
	SessionID  *uuid.UUID
	Status     *string
	DistrictID *uuid.UUID
	ChurchID   *uuid.UUID
}
