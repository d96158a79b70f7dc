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
	pastorDTO "umuganda_backend/internals/features/organizations/pastors/dto"
	userModel "umuganda_backend/internals/features/users/user/model"
	helper "umuganda_backend/internals/helpers"
	helperAuth "umuganda_backend/internals/helpers/auth"
)

// District pastors are DISTRICT_ADMIN users managed exclusively by a union
// admin within their own union.
type PastorService struct {
	db *gorm.DB
}

func NewPastorService(db *gorm.DB) *PastorService {
	return &PastorService{db: db}
}

func generateInitialPassword() (string, error) {
	raw := make([]byte, 6)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// placeholder national id keeps the unique column satisfied until the pastor
// fills in a real one
func placeholderNationalID() string {
	return fmt.Sprintf("pastor-%d-%s", time.Now().UnixMilli(), strings.Split(uuid.NewString(), "-")[0])
}

func (s *PastorService) Create(ctx context.Context, actor helperAuth.Actor, req pastorDTO.CreatePastorRequest) (*pastorDTO.CreatePastorResponse, error) {
	var district districtModel.DistrictModel
	if err := s.db.WithContext(ctx).
		Where("district_id = ?", req.DistrictID).
		First(&district).Error; err != nil {
		if helper.IsRecordNotFound(err) {
			return nil, helper.ErrNotFound("District not found")
		}
		return nil, err
	}
	if actor.UnionID != nil && district.DistrictUnionID != *actor.UnionID {
		return nil, helper.ErrForbidden("District does not belong to your union")
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
	districtID := district.DistrictID
	pastor := userModel.UserModel{
		UserUsername:     req.Email,
		UserNationalID:   placeholderNationalID(),
		UserFirstName:    req.FirstName,
		UserLastName:     req.LastName,
		UserPhoneNumber:  req.PhoneNumber,
		UserEmail:        &email,
		UserPasswordHash: string(hash),
		UserRole:         constants.RoleDistrictAdmin,
		UserUnionID:      &unionID,
		UserDistrictID:   &districtID,
		UserIsActive:     true,
	}
	if err := s.db.WithContext(ctx).Create(&pastor).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.ErrConflict("Email, username or phone number already in use")
		}
		return nil, err
	}

	resp, err := s.pastorResponse(ctx, pastor.UserID)
	if err != nil {
		return nil, err
	}
	return &pastorDTO.CreatePastorResponse{Pastor: *resp, InitialPassword: initialPassword}, nil
}

func (s *PastorService) List(ctx context.Context, actor helperAuth.Actor, districtID *uuid.UUID) ([]pastorDTO.PastorResponse, error) {
	query := s.db.WithContext(ctx).
		Model(&userModel.UserModel{}).
		Where("user_role = ?", constants.RoleDistrictAdmin)
	if actor.UnionID != nil {
		query = query.Where("user_union_id = ?", *actor.UnionID)
	}
	if districtID != nil {
		query = query.Where("user_district_id = ?", *districtID)
	}

	var pastors []userModel.UserModel
	if err := query.
		Order("user_last_name ASC, user_first_name ASC").
		Find(&pastors).Error; err != nil {
		return nil, err
	}

	out := make([]pastorDTO.PastorResponse, 0, len(pastors))
	for _, p := range pastors {
		churches, err := s.pastorChurches(ctx, p.UserID)
		if err != nil {
			return nil, err
		}
		out = append(out, toPastorResponse(&p, churches))
	}
	return out, nil
}

func (s *PastorService) Update(ctx context.Context, actor helperAuth.Actor, pastorID uuid.UUID, req pastorDTO.UpdatePastorRequest) (*pastorDTO.PastorResponse, error) {
	pastor, err := s.loadPastor(ctx, actor, pastorID)
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

	switch {
	case req.ClearDistrict:
		updates["user_district_id"] = nil
	case req.DistrictID != nil:
		var district districtModel.DistrictModel
		if err := s.db.WithContext(ctx).
			Where("district_id = ?", *req.DistrictID).
			First(&district).Error; err != nil {
			if helper.IsRecordNotFound(err) {
				return nil, helper.ErrNotFound("District not found")
			}
			return nil, err
		}
		if actor.UnionID != nil && district.DistrictUnionID != *actor.UnionID {
			return nil, helper.ErrForbidden("District does not belong to your union")
		}
		updates["user_district_id"] = district.DistrictID
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).
			Model(&userModel.UserModel{}).
			Where("user_id = ?", pastor.UserID).
			Updates(updates).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return nil, helper.ErrConflict("Email or phone number already in use")
			}
			return nil, err
		}
	}
	return s.pastorResponse(ctx, pastor.UserID)
}

// AssignChurches replaces the pastor's church set atomically: churches no
// longer listed are detached and the new set attached inside one transaction,
// so readers never observe a church pointing at two pastors or a half-moved
// set.
func (s *PastorService) AssignChurches(ctx context.Context, actor helperAuth.Actor, pastorID uuid.UUID, churchIDs []uuid.UUID) (*pastorDTO.PastorResponse, error) {
	pastor, err := s.loadPastor(ctx, actor, pastorID)
	if err != nil {
		return nil, err
	}
	if pastor.UserDistrictID == nil {
		return nil, helper.ErrConflict("Assign a district before linking churches")
	}

	if len(churchIDs) > 0 {
		var churches []churchModel.ChurchModel
		if err := s.db.WithContext(ctx).
			Where("church_id IN ?", churchIDs).
			Find(&churches).Error; err != nil {
			return nil, err
		}
		if len(churches) != len(churchIDs) {
			return nil, helper.ErrNotFound("One or more churches were not found")
		}
		for _, church := range churches {
			if church.ChurchDistrictID != *pastor.UserDistrictID {
				return nil, helper.ErrConflict("All churches must belong to the pastor's district")
			}
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		detach := tx.Model(&churchModel.ChurchModel{}).
			Where("church_district_pastor_id = ?", pastorID)
		if len(churchIDs) > 0 {
			detach = detach.Where("church_id NOT IN ?", churchIDs)
		}
		if err := detach.Update("church_district_pastor_id", nil).Error; err != nil {
			return err
		}
		if len(churchIDs) > 0 {
			if err := tx.Model(&churchModel.ChurchModel{}).
				Where("church_id IN ?", churchIDs).
				Update("church_district_pastor_id", pastorID).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.pastorResponse(ctx, pastorID)
}

func (s *PastorService) Delete(ctx context.Context, actor helperAuth.Actor, pastorID uuid.UUID) error {
	pastor, err := s.loadPastor(ctx, actor, pastorID)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&churchModel.ChurchModel{}).
			Where("church_district_pastor_id = ?", pastor.UserID).
			Update("church_district_pastor_id", nil).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", pastor.UserID).
			Delete(&userModel.UserModel{}).Error
	})
}

func (s *PastorService) loadPastor(ctx context.Context, actor helperAuth.Actor, pastorID uuid.UUID) (*userModel.UserModel, error) {
	var pastor userModel.UserModel
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", pastorID).
		First(&pastor).Error; err != nil {
		if helper.IsRecordNotFound(err) {
			return nil, helper.ErrNotFound("District pastor not found")
		}
		return nil, err
	}
	if pastor.UserRole != constants.RoleDistrictAdmin {
		return nil, helper.ErrNotFound("District pastor not found")
	}
	if pastor.UserUnionID != nil && actor.UnionID != nil && *pastor.UserUnionID != *actor.UnionID {
		return nil, helper.ErrForbidden("Cannot manage a pastor outside your union")
	}
	return &pastor, nil
}

func (s *PastorService) pastorChurches(ctx context.Context, pastorID uuid.UUID) ([]pastorDTO.PastorChurchRef, error) {
	var refs []pastorDTO.PastorChurchRef
	err := s.db.WithContext(ctx).
		Table("churches").
		Select("church_id, church_name").
		Where("church_district_pastor_id = ?", pastorID).
		Order("church_name ASC").
		Scan(&refs).Error
	if err != nil {
		return nil, err
	}
	return refs, nil
}

func (s *PastorService) pastorResponse(ctx context.Context, pastorID uuid.UUID) (*pastorDTO.PastorResponse, error) {
	var pastor userModel.UserModel
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", pastorID).
		First(&pastor).Error; err != nil {
		return nil, err
	}
	churches, err := s.pastorChurches(ctx, pastorID)
	if err != nil {
		return nil, err
	}
	resp := toPastorResponse(&pastor, churches)
	return &resp, nil
}

func toPastorResponse(pastor *userModel.UserModel, churches []pastorDTO.PastorChurchRef) pastorDTO.PastorResponse {
	if churches == nil {
		churches = []pastorDTO.PastorChurchRef{}
	}
	return pastorDTO.PastorResponse{
		PastorID:    pastor.UserID,
		FirstName:   pastor.UserFirstName,
		LastName:    pastor.UserLastName,
		Email:       pastor.UserEmail,
		PhoneNumber: pastor.UserPhoneNumber,
		IsActive:    pastor.UserIsActive,
		DistrictID:  pastor.UserDistrictID,
		Churches:    churches,
		CreatedAt:   pastor.UserCreatedAt,
	}
}
