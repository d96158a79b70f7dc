package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	attendanceModel "umuganda_backend/internals/features/attendance/records/model"
	reportDTO "umuganda_backend/internals/features/reports/dto"
	"umuganda_backend/internals/helpers/access"
)

type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

type AttendanceReportQuery struct {
	Scope     access.ListScope
	SessionID *uuid.UUID
	From      *time.Time
	To        *time.Time
}

// AttendanceByChurch aggregates record counts per church and status inside the
// caller's resolved scope.
func (s *ReportService) AttendanceByChurch(ctx context.Context, q AttendanceReportQuery) (*reportDTO.AttendanceReport, error) {
	base := s.db.WithContext(ctx).
		Table("attendance_records AS a").
		Joins("JOIN umuganda_sessions AS s ON s.session_id = a.attendance_session_id").
		Joins("JOIN churches AS c ON c.church_id = s.session_church_id").
		Joins("JOIN districts AS d ON d.district_id = c.church_district_id")

	if q.Scope.UnionID != nil {
		base = base.Where("d.district_union_id = ?", *q.Scope.UnionID)
	}
	if q.Scope.DistrictID != nil {
		base = base.Where("c.church_district_id = ?", *q.Scope.DistrictID)
	}
	if q.Scope.ChurchID != nil {
		base = base.Where("s.session_church_id = ?", *q.Scope.ChurchID)
	}
	if q.SessionID != nil {
		base = base.Where("a.attendance_session_id = ?", *q.SessionID)
	}
	if q.From != nil {
		base = base.Where("s.session_date >= ?", *q.From)
	}
	if q.To != nil {
		base = base.Where("s.session_date < ?", *q.To)
	}

	var rows []reportDTO.AttendanceCountRow
	if err := base.Session(&gorm.Session{}).
		Select(`c.church_id, c.church_name, a.attendance_status AS status, COUNT(*) AS count`).
		Group("c.church_id, c.church_name, a.attendance_status").
		Order("c.church_name ASC, a.attendance_status ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	report := reportDTO.AttendanceReport{ByChurch: rows}
	for _, row := range rows {
		report.TotalRecords += row.Count
		switch row.Status {
		case attendanceModel.StatusApproved:
			report.TotalApproved += row.Count
		case attendanceModel.StatusPending:
			report.TotalPending += row.Count
		}
	}
	return &report, nil
}
