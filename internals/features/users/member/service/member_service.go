package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"umuganda_backend/internals/configs"
	"umuganda_backend/internals/constants"
	churchModel "umuganda_backend/internals/features/organizations/churches/model"
	districtModel "umuganda_backend/internals/features/organizations/districts/model"
	passModel "umuganda_backend/internals/features/passes/model"
	memberDTO "umuganda_backend/internals/features/users/member/dto"
	userModel "umuganda_backend/internals/features/users/user/model"
	helper "umuganda_backend/internals/helpers"
	"umuganda_backend/internals/helpers/access"
	helperAuth "umuganda_backend/internals/helpers/auth"
	"umuganda_backend/internals/helpers/qr"
	"umuganda_backend/internals/helpers/sms"
)

type MemberService struct {
	db  *gorm.DB
	sms sms.Sender
	qr  qr.Renderer
}

func NewMemberService(db *gorm.DB, sender sms.Sender, renderer qr.Renderer) *MemberService {
	return &MemberService{db: db, sms: sender, qr: renderer}
}

// Create onboards a member into the church admin's own church, mints the
// standing pass (legacy table plus the primary mirror) and sends the welcome
// SMS with login details. SMS delivery is best effort.
func (s *MemberService) Create(ctx context.Context, actor helperAuth.Actor, req memberDTO.CreateMemberRequest) (*memberDTO.CreateMemberResult, error) {
	if actor.Role != constants.RoleChurchAdmin {
		return nil, helper.ErrForbidden("Only church admins can create members")
	}
	if actor.ChurchID == nil {
		return nil, helper.ErrForbidden("No church assigned to this account")
	}

	var church churchModel.ChurchModel
	if err := s.db.WithContext(ctx).
		Where("church_id = ?", *actor.ChurchID).
		First(&church).Error; err != nil {
		if helper.IsRecordNotFound(err) {
			return nil, helper.ErrNotFound("Church not found")
		}
		return nil, err
	}
	var district districtModel.DistrictModel
	if err := s.db.WithContext(ctx).
		Where("district_id = ?", church.ChurchDistrictID).
		First(&district).Error; err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	unionID := district.DistrictUnionID
	districtID := church.ChurchDistrictID
	churchID := church.ChurchID
	member := userModel.UserModel{
		UserUsername:     req.NationalID,
		UserNationalID:   req.NationalID,
		UserFirstName:    req.FirstName,
		UserLastName:     req.LastName,
		UserPhoneNumber:  req.PhoneNumber,
		UserEmail:        req.Email,
		UserPasswordHash: string(hash),
		UserRole:         constants.RoleMember,
		UserUnionID:      &unionID,
		UserDistrictID:   &districtID,
		UserChurchID:     &churchID,
		UserIsActive:     true,
	}
	if err := s.db.WithContext(ctx).Create(&member).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.ErrConflict("A user with this national ID, phone number or email already exists")
		}
		return nil, err
	}

	token := uuid.NewString()
	payload, err := s.qr.Render(token)
	if err != nil {
		return nil, err
	}

	memberPass := passModel.MemberPassModel{
		MemberPassMemberID:  member.UserID,
		MemberPassToken:     token,
		MemberPassQrPayload: payload,
	}
	if err := s.db.WithContext(ctx).Create(&memberPass).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	memberID := member.UserID
	mirror := passModel.PassModel{
		PassMemberID:    &memberID,
		PassChurchID:    &churchID,
		PassToken:       token,
		PassQrPayload:   payload,
		PassSessionDate: &now,
	}
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "pass_member_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"pass_token", "pass_qr_payload", "pass_church_id", "pass_session_date",
			}),
		}).
		Create(&mirror).Error; err != nil {
		return nil, err
	}

	smsSentAt := s.sendWelcomeSms(ctx, &member, req.Password, memberPass.MemberPassID)

	result := &memberDTO.CreateMemberResult{
		Member: memberDTO.MemberSummary{
			MemberID:    member.UserID,
			NationalID:  member.UserNationalID,
			FirstName:   member.UserFirstName,
			LastName:    member.UserLastName,
			PhoneNumber: member.UserPhoneNumber,
			Email:       member.UserEmail,
			Church: &memberDTO.MemberChurchRef{
				ChurchID:   church.ChurchID,
				ChurchName: church.ChurchName,
				DistrictID: church.ChurchDistrictID,
			},
			MemberPass: &memberDTO.MemberPassSummary{Token: token, SmsSentAt: smsSentAt},
			CreatedAt:  member.UserCreatedAt,
		},
	}
	result.MemberPass.MemberPassID = memberPass.MemberPassID
	result.MemberPass.Token = token
	result.MemberPass.QrPayload = payload
	result.MemberPass.SmsSentAt = smsSentAt
	return result, nil
}

func (s *MemberService) sendWelcomeSms(ctx context.Context, member *userModel.UserModel, password string, memberPassID uuid.UUID) *time.Time {
	if !s.sms.Enabled() || member.UserPhoneNumber == "" {
		return nil
	}
	loginURL := configs.PrimaryOrigin + "/login"
	passURL := configs.PrimaryOrigin + "/member/pass"
	message := fmt.Sprintf(
		"Murakaza neza mu Umuganda SDA, %s. Injira kuri %s ukoresheje indangamuntu: %s. Ijambo ry'ibanga: %s. Ikarita yawe ya QR: %s.",
		member.UserFirstName, loginURL, member.UserNationalID, password, passURL,
	)
	if err := s.sms.Send(member.UserPhoneNumber, message); err != nil {
		log.Printf("[ERROR] welcome SMS to %s failed: %v", member.UserPhoneNumber, err)
		return nil
	}
	now := time.Now()
	if err := s.db.WithContext(ctx).
		Model(&passModel.MemberPassModel{}).
		Where("member_pass_id = ?", memberPassID).
		Update("member_pass_sms_sent_at", now).Error; err != nil {
		log.Printf("[ERROR] failed to record welcome SMS for member pass %s: %v", memberPassID, err)
	}
	return &now
}

// List applies the asymmetric scope, then attaches each member's standing
// pass summary.
func (s *MemberService) List(ctx context.Context, actor helperAuth.Actor, filters access.ListFilters, limit, offset int) ([]memberDTO.MemberSummary, int64, error) {
	scope, err := access.ResolveListScope(actor, filters)
	if err != nil {
		return nil, 0, err
	}

	query := s.db.WithContext(ctx).
		Model(&userModel.UserModel{}).
		Where("user_role = ?", constants.RoleMember)
	if scope.UnionID != nil {
		query = query.Where("user_union_id = ?", *scope.UnionID)
	}
	if scope.DistrictID != nil {
		query = query.Where("user_district_id = ?", *scope.DistrictID)
	}
	if scope.ChurchID != nil {
		query = query.Where("user_church_id = ?", *scope.ChurchID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var members []userModel.UserModel
	if err := query.
		Order("user_last_name ASC").
		Limit(limit).
		Offset(offset).
		Find(&members).Error; err != nil {
		return nil, 0, err
	}
	if len(members) == 0 {
		return []memberDTO.MemberSummary{}, total, nil
	}

	memberIDs := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		memberIDs = append(memberIDs, m.UserID)
	}

	var passes []passModel.MemberPassModel
	if err := s.db.WithContext(ctx).
		Where("member_pass_member_id IN ?", memberIDs).
		Find(&passes).Error; err != nil {
		return nil, 0, err
	}
	passByMember := make(map[uuid.UUID]*passModel.MemberPassModel, len(passes))
	for i := range passes {
		passByMember[passes[i].MemberPassMemberID] = &passes[i]
	}

	churches, err := s.churchRefs(ctx, members)
	if err != nil {
		return nil, 0, err
	}

	out := make([]memberDTO.MemberSummary, 0, len(members))
	for _, m := range members {
		summary := memberDTO.MemberSummary{
			MemberID:    m.UserID,
			NationalID:  m.UserNationalID,
			FirstName:   m.UserFirstName,
			LastName:    m.UserLastName,
			PhoneNumber: m.UserPhoneNumber,
			Email:       m.UserEmail,
			CreatedAt:   m.UserCreatedAt,
		}
		if m.UserChurchID != nil {
			summary.Church = churches[*m.UserChurchID]
		}
		if p := passByMember[m.UserID]; p != nil {
			summary.MemberPass = &memberDTO.MemberPassSummary{
				Token:     p.MemberPassToken,
				SmsSentAt: p.MemberPassSmsSentAt,
				ExpiresAt: p.MemberPassExpiresAt,
			}
		}
		out = append(out, summary)
	}
	return out, total, nil
}

func (s *MemberService) churchRefs(ctx context.Context, members []userModel.UserModel) (map[uuid.UUID]*memberDTO.MemberChurchRef, error) {
	ids := make([]uuid.UUID, 0, len(members))
	seen := map[uuid.UUID]bool{}
	for _, m := range members {
		if m.UserChurchID != nil && !seen[*m.UserChurchID] {
			seen[*m.UserChurchID] = true
			ids = append(ids, *m.UserChurchID)
		}
	}
	refs := map[uuid.UUID]*memberDTO.MemberChurchRef{}
	if len(ids) == 0 {
		return refs, nil
	}

	var churches []churchModel.ChurchModel
	if err := s.db.WithContext(ctx).
		Where("church_id IN ?", ids).
		Find(&churches).Error; err != nil {
		return nil, err
	}
	for _, c := range churches {
		refs[c.ChurchID] = &memberDTO.MemberChurchRef{
			ChurchID:   c.ChurchID,
			ChurchName: c.ChurchName,
			DistrictID: c.ChurchDistrictID,
		}
	}
	return refs, nil
}

func (s *MemberService) Update(ctx context.Context, actor helperAuth.Actor, memberID uuid.UUID, req memberDTO.UpdateMemberRequest) (*userModel.UserModel, error) {
	member, err := s.loadMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if err := memberManageable(actor, member); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["user_first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["user_last_name"] = *req.LastName
	}
	if req.PhoneNumber != nil {
		updates["user_phone_number"] = *req.PhoneNumber
	}
	if req.Email != nil {
		updates["user_email"] = *req.Email
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).
			Model(&userModel.UserModel{}).
			Where("user_id = ?", memberID).
			Updates(updates).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return nil, helper.ErrConflict("Email or phone number already in use")
			}
			return nil, err
		}
	}
	return s.loadMember(ctx, memberID)
}

// Delete removes the member together with their standing pass rows.
func (s *MemberService) Delete(ctx context.Context, actor helperAuth.Actor, memberID uuid.UUID) error {
	member, err := s.loadMember(ctx, memberID)
	if err != nil {
		return err
	}
	if err := memberManageable(actor, member); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("member_pass_member_id = ?", memberID).
			Delete(&passModel.MemberPassModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("pass_member_id = ?", memberID).
			Delete(&passModel.PassModel{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", memberID).
			Delete(&userModel.UserModel{}).Error
	})
}

// GetMemberPass returns the standing pass. A member may only view their own;
// admins follow the subtree rule.
func (s *MemberService) GetMemberPass(ctx context.Context, actor helperAuth.Actor, memberID uuid.UUID) (*memberDTO.MemberPassDetail, error) {
	member, err := s.loadMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	if actor.Role == constants.RoleMember {
		if actor.ID != member.UserID {
			return nil, helper.ErrForbidden("Not allowed to view other member passes")
		}
	} else if err := memberManageable(actor, member); err != nil {
		return nil, err
	}

	var pass passModel.MemberPassModel
	if err := s.db.WithContext(ctx).
		Where("member_pass_member_id = ?", memberID).
		First(&pass).Error; err != nil {
		if helper.IsRecordNotFound(err) {
			return nil, helper.ErrNotFound("Member pass not found")
		}
		return nil, err
	}

	detail := &memberDTO.MemberPassDetail{
		Member: memberDTO.MemberSummary{
			MemberID:    member.UserID,
			NationalID:  member.UserNationalID,
			FirstName:   member.UserFirstName,
			LastName:    member.UserLastName,
			PhoneNumber: member.UserPhoneNumber,
			Email:       member.UserEmail,
			CreatedAt:   member.UserCreatedAt,
		},
	}
	if member.UserChurchID != nil {
		var church churchModel.ChurchModel
		if err := s.db.WithContext(ctx).
			Where("church_id = ?", *member.UserChurchID).
			First(&church).Error; err == nil {
			detail.Member.Church = &memberDTO.MemberChurchRef{
				ChurchID:   church.ChurchID,
				ChurchName: church.ChurchName,
				DistrictID: church.ChurchDistrictID,
			}
		}
	}
	detail.Pass.MemberPassID = pass.MemberPassID
	detail.Pass.Token = pass.MemberPassToken
	detail.Pass.QrPayload = pass.MemberPassQrPayload
	detail.Pass.ExpiresAt = pass.MemberPassExpiresAt
	detail.Pass.SmsSentAt = pass.MemberPassSmsSentAt
	return detail, nil
}

func (s *MemberService) loadMember(ctx context.Context, memberID uuid.UUID) (*userModel.UserModel, error) {
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
	return &member, nil
}

// memberManageable is the subtree rule for a member target.
func memberManageable(actor helperAuth.Actor, member *userModel.UserModel) error {
	switch actor.Role {
	case constants.RoleUnionAdmin:
		if actor.UnionID != nil && member.UserUnionID != nil && *actor.UnionID != *member.UserUnionID {
			return helper.ErrForbidden("Member belongs to another union")
		}
		return nil
	case constants.RoleDistrictAdmin:
		if actor.DistrictID == nil || member.UserDistrictID == nil || *actor.DistrictID != *member.UserDistrictID {
			return helper.ErrForbidden("Member belongs to another district")
		}
		return nil
	case constants.RoleChurchAdmin:
		if actor.ChurchID == nil || member.UserChurchID == nil || *actor.ChurchID != *member.UserChurchID {
			return helper.ErrForbidden("Member belongs to another church")
		}
		return nil
	default:
		return helper.ErrForbidden("Not allowed to manage members")
	}
}
