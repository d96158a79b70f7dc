package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"umuganda_backend/internals/constants"
	eventDTO "umuganda_backend/internals/features/events/dto"
	eventModel "umuganda_backend/internals/features/events/model"
	districtModel "umuganda_backend/internals/features/organizations/districts/model"
	passModel "umuganda_backend/internals/features/passes/model"
	userModel "umuganda_backend/internals/features/users/user/model"
	helper "umuganda_backend/internals/helpers"
	helperAuth "umuganda_backend/internals/helpers/auth"
)

// Umuganda events are union-wide. Every admin tier reads events for the union
// they resolve to; only a union admin mutates.
type EventService struct {
	db *gorm.DB
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{db: db}
}

// resolveUnionForActor walks the actor's placement up to a union id.
func (s *EventService) resolveUnionForActor(ctx context.Context, actor helperAuth.Actor) (uuid.UUID, error) {
	switch actor.Role {
	case constants.RoleUnionAdmin:
		if actor.UnionID == nil {
			return uuid.Nil, helper.ErrForbidden("No union assigned to this account")
		}
		return *actor.UnionID, nil

	case constants.RoleDistrictAdmin:
		if actor.DistrictID == nil {
			return uuid.Nil, helper.ErrForbidden("No district assigned to this account")
		}
		var district districtModel.DistrictModel
		if err := s.db.WithContext(ctx).
			Select("district_union_id").
			Where("district_id = ?", *actor.DistrictID).
			First(&district).Error; err != nil {
			if helper.IsRecordNotFound(err) {
				return uuid.Nil, helper.ErrForbidden("Unable to resolve union for this district")
			}
			return uuid.Nil, err
		}
		return district.DistrictUnionID, nil

	case constants.RoleChurchAdmin:
		if actor.ChurchID == nil {
			return uuid.Nil, helper.ErrForbidden("No church assigned to this account")
		}
		var row struct{ DistrictUnionID uuid.UUID }
		if err := s.db.WithContext(ctx).
			Table("churches AS c").
			Select("d.district_union_id").
			Joins("JOIN districts AS d ON d.district_id = c.church_district_id").
			Where("c.church_id = ?", *actor.ChurchID).
			Take(&row).Error; err != nil {
			if helper.IsRecordNotFound(err) {
				return uuid.Nil, helper.ErrForbidden("Unable to resolve union for this church")
			}
			return uuid.Nil, err
		}
		return row.DistrictUnionID, nil

	default:
		return uuid.Nil, helper.ErrForbidden("Not allowed to access Umuganda events")
	}
}

func (s *EventService) Create(ctx context.Context, actor helperAuth.Actor, req eventDTO.CreateEventRequest) (*eventModel.UmugandaEventModel, error) {
	if actor.Role != constants.RoleUnionAdmin {
		return nil, helper.ErrForbidden("Only union admins can create Umuganda events")
	}
	if actor.UnionID == nil {
		return nil, helper.ErrForbidden("No union assigned to this account")
	}

	creator := actor.ID
	event := eventModel.UmugandaEventModel{
		EventUnionID:   *actor.UnionID,
		EventDate:      req.Date,
		EventTheme:     req.Theme,
		EventLocation:  req.Location,
		EventCreatedBy: &creator,
	}
	if err := s.db.WithContext(ctx).Create(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *EventService) List(ctx context.Context, actor helperAuth.Actor) ([]eventModel.UmugandaEventModel, error) {
	unionID, err := s.resolveUnionForActor(ctx, actor)
	if err != nil {
		return nil, err
	}

	var events []eventModel.UmugandaEventModel
	if err := s.db.WithContext(ctx).
		Where("event_union_id = ?", unionID).
		Order("event_date DESC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (s *EventService) GetByID(ctx context.Context, actor helperAuth.Actor, eventID uuid.UUID) (*eventModel.UmugandaEventModel, error) {
	unionID, err := s.resolveUnionForActor(ctx, actor)
	if err != nil {
		return nil, err
	}
	return s.loadEventInUnion(ctx, eventID, unionID)
}

func (s *EventService) Update(ctx context.Context, actor helperAuth.Actor, eventID uuid.UUID, req eventDTO.UpdateEventRequest) (*eventModel.UmugandaEventModel, error) {
	if actor.Role != constants.RoleUnionAdmin {
		return nil, helper.ErrForbidden("Only union admins can update Umuganda events")
	}
	unionID, err := s.resolveUnionForActor(ctx, actor)
	if err != nil {
		return nil, err
	}
	if _, err := s.loadEventInUnion(ctx, eventID, unionID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Date != nil {
		updates["event_date"] = *req.Date
	}
	if req.Theme != nil {
		updates["event_theme"] = *req.Theme
	}
	if req.Location != nil {
		updates["event_location"] = *req.Location
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).
			Model(&eventModel.UmugandaEventModel{}).
			Where("event_id = ?", eventID).
			Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.loadEventInUnion(ctx, eventID, unionID)
}

func (s *EventService) Delete(ctx context.Context, actor helperAuth.Actor, eventID uuid.UUID) error {
	if actor.Role != constants.RoleUnionAdmin {
		return helper.ErrForbidden("Only union admins can delete Umuganda events")
	}
	unionID, err := s.resolveUnionForActor(ctx, actor)
	if err != nil {
		return err
	}
	if _, err := s.loadEventInUnion(ctx, eventID, unionID); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_attendance_event_id = ?", eventID).
			Delete(&eventModel.UmugandaEventAttendanceModel{}).Error; err != nil {
			return err
		}
		return tx.Where("event_id = ?", eventID).
			Delete(&eventModel.UmugandaEventModel{}).Error
	})
}

// CheckIn records a member on an event by pass token. The token resolves
// through the primary passes table first, then the legacy member passes; the
// member must belong to the scanning admin's church.
func (s *EventService) CheckIn(ctx context.Context, actor helperAuth.Actor, eventID uuid.UUID, token string) (*eventModel.UmugandaEventAttendanceModel, error) {
	if actor.Role != constants.RoleChurchAdmin {
		return nil, helper.ErrForbidden("Only church admins can record event attendance")
	}
	if actor.ChurchID == nil {
		return nil, helper.ErrForbidden("No church assigned to this account")
	}

	unionID, err := s.resolveUnionForActor(ctx, actor)
	if err != nil {
		return nil, err
	}
	event, err := s.loadEventInUnion(ctx, eventID, unionID)
	if err != nil {
		return nil, err
	}

	memberID, err := s.resolveMemberIDFromToken(ctx, token)
	if err != nil {
		return nil, err
	}

	var member userModel.UserModel
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", memberID).
		First(&member).Error; err != nil {
		if helper.IsRecordNotFound(err) {
			return nil, helper.ErrNotFound("Member not found")
		}
		return nil, err
	}
	if member.UserRole != constants.RoleMember {
		return nil, helper.ErrNotFound("Member not found")
	}
	if member.UserChurchID == nil || *member.UserChurchID != *actor.ChurchID {
		return nil, helper.ErrForbidden("Member belongs to another church")
	}

	attendance := eventModel.UmugandaEventAttendanceModel{
		EventAttendanceEventID:  event.EventID,
		EventAttendanceMemberID: member.UserID,
		EventAttendanceChurchID: *actor.ChurchID,
	}
	if err := s.db.WithContext(ctx).Create(&attendance).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.ErrConflict("Member already checked in to this event")
		}
		return nil, err
	}
	return &attendance, nil
}

// ListAttendance returns check-ins for an event. A church admin only sees
// their own church's rows.
func (s *EventService) ListAttendance(ctx context.Context, actor helperAuth.Actor, eventID uuid.UUID) ([]eventDTO.EventAttendanceRow, error) {
	unionID, err := s.resolveUnionForActor(ctx, actor)
	if err != nil {
		return nil, err
	}
	if _, err := s.loadEventInUnion(ctx, eventID, unionID); err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).
		Table("umuganda_event_attendances AS ea").
		Joins("JOIN users AS u ON u.user_id = ea.event_attendance_member_id").
		Joins("JOIN churches AS c ON c.church_id = ea.event_attendance_church_id").
		Where("ea.event_attendance_event_id = ?", eventID)
	if actor.Role == constants.RoleChurchAdmin {
		query = query.Where("ea.event_attendance_church_id = ?", *actor.ChurchID)
	}

	var rows []eventDTO.EventAttendanceRow
	if err := query.
		Select(`ea.event_attendance_id, u.user_id AS member_id,
			u.user_first_name || ' ' || u.user_last_name AS member_name,
			u.user_national_id AS national_id,
			c.church_id, c.church_name,
			ea.event_attendance_checked_in_at AS checked_in_at`).
		Order("ea.event_attendance_checked_in_at DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *EventService) loadEventInUnion(ctx context.Context, eventID, unionID uuid.UUID) (*eventModel.UmugandaEventModel, error) {
	var event eventModel.UmugandaEventModel
	if err := s.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		First(&event).Error; err != nil {
		if helper.IsRecordNotFound(err) {
			return nil, helper.ErrNotFound("Umuganda event not found")
		}
		return nil, err
	}
	if event.EventUnionID != unionID {
		return nil, helper.ErrForbidden("Cannot access an event outside your union")
	}
	return &event, nil
}

func (s *EventService) resolveMemberIDFromToken(ctx context.Context, token string) (uuid.UUID, error) {
	var pass passModel.PassModel
	err := s.db.WithContext(ctx).
		Select("pass_member_id").
		Where("pass_token = ?", token).
		Take(&pass).Error
	if err == nil && pass.PassMemberID != nil {
		return *pass.PassMemberID, nil
	}
	if err != nil && !helper.IsRecordNotFound(err) {
		return uuid.Nil, err
	}

	var memberPass passModel.MemberPassModel
	err = s.db.WithContext(ctx).
		Select("member_pass_member_id").
		Where("member_pass_token = ?", token).
		Take(&memberPass).Error
	if err != nil {
		if helper.IsRecordNotFound(err) {
			return uuid.Nil, helper.ErrNotFound("Member QR token not found")
		}
		return uuid.Nil, err
	}
	return memberPass.MemberPassMemberID, nil
}
