package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"umuganda_backend/internals/constants"
	churchModel "umuganda_backend/internals/features/organizations/churches/model"
	districtModel "umuganda_backend/internals/features/organizations/districts/model"
	adminDTO "umuganda_backend/internals/features/users/churchadmin/dto"
	userModel "umuganda_backend/internals/features/users/user/model"
	helper "umuganda_backend/internals/helpers"
	helperAuth "umuganda_backend/internals/helpers/auth"
)

// Church administrators are created by the tier above them on the ladder and
// pinned to one church.
type ChurchAdminService struct {
	db *gorm.DB
}

func NewChurchAdminService(db *gorm.DB) *ChurchAdminService {
	return &ChurchAdminService{db: db}
}

func generateInitialPassword() (string, error) {
	raw := make([]byte, 6)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// churchWithinScope loads the church and checks the caller may place an admin
// there.
func (s *ChurchAdminService) churchWithinScope(ctx context.Context, actor helperAuth.Actor, churchID uuid.UUID) (*churchModel.ChurchModel, *districtModel.DistrictModel, error) {
	var church churchModel.ChurchModel
	if err := s.db.WithContext(ctx).
		Where("church_id = ?", churchID).
		First(&church).Error; err != nil {
		if helper.IsRecordNotFound(err) {
			return nil, nil, helper.ErrNotFound("Church not found")
		}
		return nil, nil, err
	}
	var district districtModel.DistrictModel
	if err := s.db.WithContext(ctx).
		Where("district_id = ?", church.ChurchDistrictID).
		First(&district).Error; err != nil {
		return nil, nil, err
	}

	switch actor.Role {
	case constants.RoleUnionAdmin:
		if actor.UnionID != nil && *actor.UnionID != district.DistrictUnionID {
			return nil, nil, helper.ErrForbidden("Church is outside your union")
		}
	case constants.RoleDistrictAdmin:
		if actor.DistrictID == nil || *actor.DistrictID != church.ChurchDistrictID {
			return nil, nil, helper.ErrForbidden("Church is outside your district")
		}
	default:
		return nil, nil, helper.ErrForbidden("Not allowed to manage church administrators")
	}
	return &church, &district, nil
}

func (s *ChurchAdminService) Create(ctx context.Context, actor helperAuth.Actor, req adminDTO.CreateChurchAdminRequest) (*adminDTO.CreateChurchAdminResponse, error) {
	if !constants.CanCreateRole(actor.Role, constants.RoleChurchAdmin) && actor.Role != constants.RoleUnionAdmin {
		return nil, helper.ErrForbidden("Not allowed to create church administrators")
	}

	church, district, err := s.churchWithinScope(ctx, actor, req.ChurchID)
	if err != nil {
		return nil, err
	}

	initialPassword, err := generateInitialPassword()
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(initialPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	email := req.Email
	unionID := district.DistrictUnionID
	districtID := church.ChurchDistrictID
	churchID := church.ChurchID
	admin := userModel.UserModel{
		UserUsername:     req.Email,
		UserNationalID:   placeholderNationalID(),
		UserFirstName:    req.FirstName,
		UserLastName:     req.LastName,
		UserPhoneNumber:  req.PhoneNumber,
		UserEmail:        &email,
		UserPasswordHash: string(hash),
		UserRole:         constants.RoleChurchAdmin,
		UserUnionID:      &unionID,
		UserDistrictID:   &districtID,
		UserChurchID:     &churchID,
		UserIsActive:     true,
	}
	if err := s.db.WithContext(ctx).Create(&admin).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.ErrConflict("Email, username or phone number already in use")
		}
		return nil, err
	}

	return &adminDTO.CreateChurchAdminResponse{
		Admin:           toResponse(&admin, church.ChurchName),
		InitialPassword: initialPassword,
	}, nil
}

func placeholderNationalID() string {
	return fmt.Sprintf("admin-%d-%s", time.Now().UnixMilli(), strings.Split(uuid.NewString(), "-")[0])
}

func (s *ChurchAdminService) List(ctx context.Context, actor helperAuth.Actor, districtID, churchID *uuid.UUID) ([]adminDTO.ChurchAdminResponse, error) {
	query := s.db.WithContext(ctx).
		Model(&userModel.UserModel{}).
		Where("user_role = ?", constants.RoleChurchAdmin)

	switch actor.Role {
	case constants.RoleUnionAdmin:
		if actor.UnionID != nil {
			query = query.Where("user_union_id = ?", *actor.UnionID)
		}
	case constants.RoleDistrictAdmin:
		if actor.DistrictID == nil {
			return nil, helper.ErrForbidden("No district assigned to this account")
		}
		if districtID != nil && *districtID != *actor.DistrictID {
			return nil, helper.ErrForbidden("Cannot view admins outside your district")
		}
		query = query.Where("user_district_id = ?", *actor.DistrictID)
	default:
		return nil, helper.ErrForbidden("Not allowed to view church administrators")
	}

	if districtID != nil {
		query = query.Where("user_district_id = ?", *districtID)
	}
	if churchID != nil {
		query = query.Where("user_church_id = ?", *churchID)
	}

	var admins []userModel.UserModel
	if err := query.
		Order("user_last_name ASC, user_first_name ASC").
		Find(&admins).Error; err != nil {
		return nil, err
	}

	out := make([]adminDTO.ChurchAdminResponse, 0, len(admins))
	for _, a := range admins {
		name := ""
		if a.UserChurchID != nil {
			var church churchModel.ChurchModel
			if err := s.db.WithContext(ctx).
				Select("church_name").
				Where("church_id = ?", *a.UserChurchID).
				First(&church).Error; err == nil {
				name = church.ChurchName
			}
		}
		out = append(out, toResponse(&a, name))
	}
	return out, nil
}

func (s *ChurchAdminService) Update(ctx context.Context, actor helperAuth.Actor, adminID uuid.UUID, req adminDTO.UpdateChurchAdminRequest) (*adminDTO.ChurchAdminResponse, error) {
	admin, err := s.loadAdmin(ctx, actor, adminID)
	if err != nil {
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
	if req.IsActive != nil {
		updates["user_is_active"] = *req.IsActive
	}
	if req.ChurchID != nil {
		church, district, err := s.churchWithinScope(ctx, actor, *req.ChurchID)
		if err != nil {
			return nil, err
		}
		updates["user_church_id"] = church.ChurchID
		updates["user_district_id"] = church.ChurchDistrictID
		updates["user_union_id"] = district.DistrictUnionID
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).
			Model(&userModel.UserModel{}).
			Where("user_id = ?", admin.UserID).
			Updates(updates).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return nil, helper.ErrConflict("Email or phone number already in use")
			}
			return nil, err
		}
	}

	refreshed, err := s.loadAdmin(ctx, actor, adminID)
	if err != nil {
		return nil, err
	}
	name := ""
	if refreshed.UserChurchID != nil {
		var church churchModel.ChurchModel
		if err := s.db.WithContext(ctx).
			Select("church_name").
			Where("church_id = ?", *refreshed.UserChurchID).
			First(&church).Error; err == nil {
			name = church.ChurchName
		}
	}
	resp := toResponse(refreshed, name)
	return &resp, nil
}

func (s *ChurchAdminService) Delete(ctx context.Context, actor helperAuth.Actor, adminID uuid.UUID) error {
	admin, err := s.loadAdmin(ctx, actor, adminID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).
		Where("user_id = ?", admin.UserID).
		Delete(&userModel.UserModel{}).Error
}

func (s *ChurchAdminService) loadAdmin(ctx context.Context, actor helperAuth.Actor, adminID uuid.UUID) (*userModel.UserModel, error) {
	var admin userModel.UserModel
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", adminID).
		First(&admin).Error; err != nil {
		if helper.IsRecordNotFound(err) {
			return nil, helper.ErrNotFound("Church administrator not found")
		}
		return nil, err
	}
	if admin.UserRole != constants.RoleChurchAdmin {
		return nil, helper.ErrNotFound("Church administrator not found")
	}

	switch actor.Role {
	case constants.RoleUnionAdmin:
		if actor.UnionID != nil && admin.UserUnionID != nil && *actor.UnionID != *admin.UserUnionID {
			return nil, helper.ErrForbidden("Administrator belongs to another union")
		}
	case constants.RoleDistrictAdmin:
		if actor.DistrictID == nil || admin.UserDistrictID == nil || *actor.DistrictID != *admin.UserDistrictID {
			return nil, helper.ErrForbidden("Administrator belongs to another district")
		}
	default:
		return nil, helper.ErrForbidden("Not allowed to manage church administrators")
	}
	return &admin, nil
}

func toResponse(admin *userModel.UserModel, churchName string) adminDTO.ChurchAdminResponse {
	return adminDTO.ChurchAdminResponse{
		AdminID:     admin.UserID,
		FirstName:   admin.UserFirstName,
		LastName:    admin.UserLastName,
		Email:       admin.UserEmail,
		PhoneNumber: admin.UserPhoneNumber,
		IsActive:    admin.UserIsActive,
		ChurchID:    admin.UserChurchID,
		ChurchName:  churchName,
		DistrictID:  admin.UserDistrictID,
		CreatedAt:   admin.UserCreatedAt,
	}
}
