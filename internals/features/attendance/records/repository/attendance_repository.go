package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	attendanceDTO "umuganda_backend/internals/features/attendance/records/dto"
	attendanceModel "umuganda_backend/internals/features/attendance/records/model"
	attendanceService "umuganda_backend/internals/features/attendance/records/service"
	sessionModel "umuganda_backend/internals/features/attendance/sessions/model"
	userModel "umuganda_backend/internals/features/users/user/model"
	helper "umuganda_backend/internals/helpers"
)

type GormAttendanceRepository struct {
	db *gorm.DB
}

func NewGormAttendanceRepository(db *gorm.DB) *GormAttendanceRepository {
	return &GormAttendanceRepository{db: db}
}

var _ attendanceService.Repository = (*GormAttendanceRepository)(nil)

func (r *GormAttendanceRepository) SessionByID(ctx context.Context, sessionID uuid.UUID) (*sessionModel.UmugandaSessionModel, error) {
	var session sessionModel.UmugandaSessionModel
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Take(&session).Error
	if err != nil {
		if helper.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *GormAttendanceRepository) MemberByID(ctx context.Context, memberID uuid.UUID) (*userModel.UserModel, error) {
	var member userModel.UserModel
	err := r.db.WithContext(ctx).Where("user_id = ?", memberID).Take(&member).Error
	if err != nil {
		if helper.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

func (r *GormAttendanceRepository) CreateRecord(ctx context.Context, record *attendanceModel.AttendanceRecordModel) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *GormAttendanceRepository) RecordByID(ctx context.Context, recordID uuid.UUID) (*attendanceModel.AttendanceRecordModel, error) {
	var record attendanceModel.AttendanceRecordModel
	err := r.db.WithContext(ctx).Where("attendance_id = ?", recordID).Take(&record).Error
	if err != nil {
		if helper.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *GormAttendanceRepository) SaveRecord(ctx context.Context, record *attendanceModel.AttendanceRecordModel) error {
	return r.db.WithContext(ctx).
		Model(&attendanceModel.AttendanceRecordModel{}).
		Where("attendance_id = ?", record.AttendanceID).
		Updates(map[string]interface{}{
			"attendance_status":      record.AttendanceStatus,
			"attendance_approved_by": record.AttendanceApprovedBy,
		}).Error
}

// ListRecords joins through the session's church up to its district so the
// resolved scope applies at whichever tier it pins.
func (r *GormAttendanceRepository) ListRecords(ctx context.Context, q attendanceService.ListQuery) ([]attendanceDTO.AttendanceResponse, int64, error) {
	base := r.db.WithContext(ctx).
		Table("attendance_records AS a").
		Joins("JOIN umuganda_sessions AS s ON s.session_id = a.attendance_session_id").
		Joins("JOIN churches AS c ON c.church_id = s.session_church_id").
		Joins("JOIN districts AS d ON d.district_id = c.church_district_id").
		Joins("JOIN users AS u ON u.user_id = a.attendance_member_id")

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
	if q.Status != nil {
		base = base.Where("a.attendance_status = ?", *q.Status)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []attendanceDTO.AttendanceResponse
	err := base.
		Select(`a.attendance_id, a.attendance_session_id AS session_id,
			s.session_date, c.church_id, c.church_name,
			u.user_id AS member_id,
			u.user_first_name || ' ' || u.user_last_name AS member_name,
			a.attendance_status AS status, a.attendance_approved_by AS approved_by,
			a.attendance_created_at AS recorded_at`).
		Order("a.attendance_created_at DESC").
		Limit(q.Limit).
		Offset(q.Offset).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
