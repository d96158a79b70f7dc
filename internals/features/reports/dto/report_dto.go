package dto

import (
	"github.com/google/uuid"
)

// AttendanceCountRow is one cell of the grouped report: how many records a
// church holds in a given status.
type AttendanceCountRow struct {
	ChurchID   uuid.UUID `json:"church_id"`
	ChurchName string    `json:"church_name"`
	Status     string    `json:"status"`
	Count      int64     `json:"count"`
}

type AttendanceReport struct {
	TotalRecords  int64                `json:"total_records"`
	TotalApproved int64                `json:"total_approved"`
	TotalPending  int64                `json:"total_pending"`
	ByChurch      []AttendanceCountRow `json:"by_church"`
}
