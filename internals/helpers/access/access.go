package access

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"umuganda_backend/internals/constants"
	attendanceModel "umuganda_backend/internals/features/attendance/records/model"
	sessionModel "umuganda_backend/internals/features/attendance/sessions/model"
	churchModel "umuganda_backend/internals/features/organizations/churches/model"
	districtModel "umuganda_backend/internals/features/organizations/districts/model"
	helper "umuganda_backend/internals/helpers"
	helperAuth "umuganda_backend/internals/helpers/auth"
)

// Subtree enforcement: an actor may only touch resources inside their own
// branch of the union → district → church tree. Missing resource is NotFound,
// placement mismatch is Forbidden; the two are never merged.

func EnsureDistrictAccess(ctx context.Context, db *gorm.DB, actor helperAuth.Actor, districtID uuid.UUID) (*districtModel.DistrictModel, error) {
	var district districtModel.DistrictModel
	if err := db.WithContext(ctx).
		Where("district_id = ?", districtID).
		First(&district).Error; err != nil {
		if helper.IsRecordNotFound(err) {
			return nil, helper.ErrNotFound("District not found")
		}
		return nil, err
	}

	if DistrictAllowed(actor, &district) {
		return &district, nil
	}
	return nil, helper.ErrForbidden("Not allowed to access this district")
}

func EnsureChurchAccess(ctx context.Context, db *gorm.DB, actor helperAuth.Actor, churchID uuid.UUID) (*churchModel.ChurchModel, error) {
	var church churchModel.ChurchModel
	if err := db.WithContext(ctx).
		Where("church_id = ?", churchID).
		First(&church).Error; err != nil {
		if helper.IsRecordNotFound(err) {
			return nil, helper.ErrNotFound("Church not found")
		}
		return nil, err
	}

	allowed, err := churchAllowed(ctx, db, actor, &church)
	if err != nil {
		return nil, err
	}
	if allowed {
		return &church, nil
	}
	return nil, helper.ErrForbidden("Not allowed to access this church")
}

// EnsureSessionAccess resolves the session through its owning church and
// applies the church rule.
func EnsureSessionAccess(ctx context.Context, db *gorm.DB, actor helperAuth.Actor, sessionID uuid.UUID) (*sessionModel.UmugandaSessionModel, error) {
	var session sessionModel.UmugandaSessionModel
	if err := db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&session).Error; err != nil {
		if helper.IsRecordNotFound(err) {
			return nil, helper.ErrNotFound("Session not found")
		}
		return nil, err
	}

	if _, err := EnsureChurchAccess(ctx, db, actor, session.SessionChurchID); err != nil {
		if ae, ok := helper.AsAppError(err); ok && ae.Status == 403 {
			return nil, helper.ErrForbidden("Not allowed to access this session")
		}
		return nil, err
	}
	return &session, nil
}

// EnsureAttendanceAccess resolves an attendance record through its session's
// church and applies the church rule.
func EnsureAttendanceAccess(ctx context.Context, db *gorm.DB, actor helperAuth.Actor, attendanceID uuid.UUID) (*attendanceModel.AttendanceRecordModel, error) {
	var record attendanceModel.AttendanceRecordModel
	if err := db.WithContext(ctx).
		Where("attendance_id = ?", attendanceID).
		First(&record).Error; err != nil {
		if helper.IsRecordNotFound(err) {
			return nil, helper.ErrNotFound("Attendance record not found")
		}
		return nil, err
	}

	if _, err := EnsureSessionAccess(ctx, db, actor, record.AttendanceSessionID); err != nil {
		if ae, ok := helper.AsAppError(err); ok && ae.Status == 403 {
			return nil, helper.ErrForbidden("Not allowed to access this attendance record")
		}
		return nil, err
	}
	return &record, nil
}

// DistrictAllowed is the pure placement decision for a district target.
// A UNION_ADMIN with no union set is the super admin and passes everywhere.
func DistrictAllowed(actor helperAuth.Actor, district *districtModel.DistrictModel) bool {
	switch actor.Role {
	case constants.RoleUnionAdmin:
		return actor.UnionID == nil || *actor.UnionID == district.DistrictUnionID
	case constants.RoleDistrictAdmin:
		return actor.DistrictID != nil && *actor.DistrictID == district.DistrictID
	default:
		return false
	}
}

// ChurchAllowed decides for a church target given the church's district union.
func ChurchAllowed(actor helperAuth.Actor, church *churchModel.ChurchModel, churchUnionID uuid.UUID) bool {
	switch actor.Role {
	case constants.RoleUnionAdmin:
		return actor.UnionID == nil || *actor.UnionID == churchUnionID
	case constants.RoleDistrictAdmin:
		return actor.DistrictID != nil && *actor.DistrictID == church.ChurchDistrictID
	case constants.RoleChurchAdmin:
		return actor.ChurchID != nil && *actor.ChurchID == church.ChurchID
	default:
		return false
	}
}

func churchAllowed(ctx context.Context, db *gorm.DB, actor helperAuth.Actor, church *churchModel.ChurchModel) (bool, error) {
	// only the union-admin rule needs the church's union, skip the extra
	// lookup for the lower tiers
	if actor.Role == constants.RoleUnionAdmin && actor.UnionID != nil {
		var district districtModel.DistrictModel
		if err := db.WithContext(ctx).
			Select("district_union_id").
			Where("district_id = ?", church.ChurchDistrictID).
			First(&district).Error; err != nil {
			if helper.IsRecordNotFound(err) {
				return false, helper.ErrNotFound("District not found")
			}
			return false, err
		}
		return ChurchAllowed(actor, church, district.DistrictUnionID), nil
	}
	return ChurchAllowed(actor, church, uuid.Nil), nil
}
