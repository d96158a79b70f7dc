package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	attendanceModel "umuganda_backend/internals/features/attendance/records/model"
	sessionModel "umuganda_backend/internals/features/attendance/sessions/model"
	churchModel "umuganda_backend/internals/features/organizations/churches/model"
	passDTO "umuganda_backend/internals/features/passes/dto"
	passModel "umuganda_backend/internals/features/passes/model"
	passService "umuganda_backend/internals/features/passes/service"
	userModel "umuganda_backend/internals/features/users/user/model"
	helper "umuganda_backend/internals/helpers"
	"umuganda_backend/internals/helpers/dbtime"
)

type GormPassRepository struct {
	db *gorm.DB
}

func NewGormPassRepository(db *gorm.DB) *GormPassRepository {
	return &GormPassRepository{db: db}
}

var _ passService.Repository = (*GormPassRepository)(nil)

func (r *GormPassRepository) AttendanceForIssue(ctx context.Context, attendanceID uuid.UUID) (*passService.AttendanceIssueInfo, error) {
	var row struct {
		AttendanceID    uuid.UUID
		Status          string
		SessionDate     time.Time
		ChurchID        uuid.UUID
		MemberID        uuid.UUID
		MemberFirstName string
		MemberLastName  string
		MemberPhone     string
	}
	err := r.db.WithContext(ctx).
		Table("attendance_records AS a").
		Select(`a.attendance_id, a.attendance_status AS status,
			s.session_date, s.session_church_id AS church_id,
			u.user_id AS member_id, u.user_first_name AS member_first_name,
			u.user_last_name AS member_last_name, u.user_phone_number AS member_phone`).
		Joins("JOIN umuganda_sessions AS s ON s.session_id = a.attendance_session_id").
		Joins("JOIN users AS u ON u.user_id = a.attendance_member_id").
		Where("a.attendance_id = ?", attendanceID).
		Take(&row).Error
	if err != nil {
		if helper.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	info := &passService.AttendanceIssueInfo{
		AttendanceID:    row.AttendanceID,
		Status:          row.Status,
		SessionDate:     row.SessionDate,
		ChurchID:        &row.ChurchID,
		MemberID:        row.MemberID,
		MemberFirstName: row.MemberFirstName,
		MemberLastName:  row.MemberLastName,
		MemberPhone:     row.MemberPhone,
	}

	var existing passModel.PassModel
	err = r.db.WithContext(ctx).
		Where("pass_attendance_id = ?", attendanceID).
		Take(&existing).Error
	switch {
	case err == nil:
		info.ExistingPass = &existing
	case !helper.IsRecordNotFound(err):
		return nil, err
	}
	return info, nil
}

func (r *GormPassRepository) CreatePass(ctx context.Context, pass *passModel.PassModel) error {
	return r.db.WithContext(ctx).Create(pass).Error
}

func (r *GormPassRepository) MarkSmsSent(ctx context.Context, passID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&passModel.PassModel{}).
		Where("pass_id = ?", passID).
		Update("pass_sms_sent_at", at).Error
}

func (r *GormPassRepository) PassDetailByToken(ctx context.Context, token string) (*passService.PassDetail, error) {
	var pass passModel.PassModel
	err := r.db.WithContext(ctx).
		Where("pass_token = ?", token).
		Take(&pass).Error
	if err != nil {
		if helper.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	detail := &passService.PassDetail{Pass: pass}

	if pass.PassAttendanceID != nil {
		var row struct {
			SessionDate time.Time
			ChurchID    uuid.UUID
			ChurchName  string
		}
		err := r.db.WithContext(ctx).
			Table("attendance_records AS a").
			Select("s.session_date, c.church_id, c.church_name").
			Joins("JOIN umuganda_sessions AS s ON s.session_id = a.attendance_session_id").
			Joins("JOIN churches AS c ON c.church_id = s.session_church_id").
			Where("a.attendance_id = ?", *pass.PassAttendanceID).
			Take(&row).Error
		switch {
		case err == nil:
			detail.AttendanceSessionDate = &row.SessionDate
			detail.AttendanceChurch = &passDTO.ChurchRef{ID: row.ChurchID, Name: row.ChurchName}
		case !helper.IsRecordNotFound(err):
			return nil, err
		}
	}

	if pass.PassChurchID != nil {
		var church churchModel.ChurchModel
		err := r.db.WithContext(ctx).
			Where("church_id = ?", *pass.PassChurchID).
			Take(&church).Error
		switch {
		case err == nil:
			detail.PassChurch = &passDTO.ChurchRef{ID: church.ChurchID, Name: church.ChurchName}
		case !helper.IsRecordNotFound(err):
			return nil, err
		}
	}

	if pass.PassMemberID != nil {
		var member userModel.UserModel
		err := r.db.WithContext(ctx).
			Where("user_id = ?", *pass.PassMemberID).
			Take(&member).Error
		switch {
		case err == nil:
			md := &passService.MemberDetail{
				ID:         member.UserID,
				FirstName:  member.UserFirstName,
				LastName:   member.UserLastName,
				NationalID: member.UserNationalID,
			}
			if member.UserChurchID != nil {
				var church churchModel.ChurchModel
				err := r.db.WithContext(ctx).
					Where("church_id = ?", *member.UserChurchID).
					Take(&church).Error
				switch {
				case err == nil:
					md.Church = &passDTO.ChurchRef{ID: church.ChurchID, Name: church.ChurchName}
				case !helper.IsRecordNotFound(err):
					return nil, err
				}
			}
			detail.Member = md
		case !helper.IsRecordNotFound(err):
			return nil, err
		}
	}

	return detail, nil
}

func (r *GormPassRepository) MemberPassByToken(ctx context.Context, token string) (*passService.MemberPassDetail, error) {
	var mp passModel.MemberPassModel
	err := r.db.WithContext(ctx).
		Where("member_pass_token = ?", token).
		Take(&mp).Error
	if err != nil {
		if helper.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	detail := &passService.MemberPassDetail{Pass: mp}
	var row struct {
		ChurchID   uuid.UUID
		ChurchName string
	}
	err = r.db.WithContext(ctx).
		Table("users AS u").
		Select("c.church_id, c.church_name").
		Joins("JOIN churches AS c ON c.church_id = u.user_church_id").
		Where("u.user_id = ?", mp.MemberPassMemberID).
		Take(&row).Error
	switch {
	case err == nil:
		detail.Church = &passDTO.ChurchRef{ID: row.ChurchID, Name: row.ChurchName}
	case !helper.IsRecordNotFound(err):
		return nil, err
	}
	return detail, nil
}

// UpsertMemberMirror is keyed on pass_member_id; a concurrent scan of the same
// legacy token resolves at the store instead of racing in Go.
func (r *GormPassRepository) UpsertMemberMirror(ctx context.Context, pass *passModel.PassModel) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "pass_member_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"pass_token", "pass_qr_payload", "pass_church_id",
				"pass_session_date", "pass_expires_at", "pass_sms_sent_at",
			}),
		}).
		Create(pass).Error
}

func (r *GormPassRepository) PassesForAttendance(ctx context.Context, attendanceID uuid.UUID) ([]passModel.PassModel, error) {
	var passes []passModel.PassModel
	err := r.db.WithContext(ctx).
		Where("pass_attendance_id = ?", attendanceID).
		Find(&passes).Error
	if err != nil {
		return nil, err
	}
	return passes, nil
}

func (r *GormPassRepository) DeletePass(ctx context.Context, passID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("pass_id = ?", passID).
		Delete(&passModel.PassModel{}).Error
}

// EnsureTodaySession returns the church's session for the calendar day around
// now, creating one when the day has none yet.
func (r *GormPassRepository) EnsureTodaySession(ctx context.Context, churchID uuid.UUID, now time.Time) (uuid.UUID, error) {
	start, end := dbtime.DayBounds(now)

	var session sessionModel.UmugandaSessionModel
	err := r.db.WithContext(ctx).
		Where("session_church_id = ? AND session_date >= ? AND session_date < ?", churchID, start, end).
		Order("session_date ASC").
		Take(&session).Error
	if err == nil {
		return session.SessionID, nil
	}
	if !helper.IsRecordNotFound(err) {
		return uuid.Nil, err
	}

	session = sessionModel.UmugandaSessionModel{
		SessionChurchID: churchID,
		SessionDate:     start,
	}
	if err := r.db.WithContext(ctx).Create(&session).Error; err != nil {
		return uuid.Nil, err
	}
	return session.SessionID, nil
}

func (r *GormPassRepository) UpsertApprovedAttendance(ctx context.Context, sessionID, memberID, approvedBy uuid.UUID) error {
	record := attendanceModel.AttendanceRecordModel{
		AttendanceSessionID:  sessionID,
		AttendanceMemberID:   memberID,
		AttendanceStatus:     attendanceModel.StatusApproved,
		AttendanceApprovedBy: &approvedBy,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "attendance_session_id"}, {Name: "attendance_member_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"attendance_status":      attendanceModel.StatusApproved,
				"attendance_approved_by": approvedBy,
			}),
		}).
		Create(&record).Error
}
