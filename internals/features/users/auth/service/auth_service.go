package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"umuganda_backend/internals/configs"
	authDTO "umuganda_backend/internals/features/users/auth/dto"
	authModel "umuganda_backend/internals/features/users/auth/model"
	userModel "umuganda_backend/internals/features/users/user/model"
	helper "umuganda_backend/internals/helpers"
	helperAuth "umuganda_backend/internals/helpers/auth"
)

const tokenTTL = 12 * time.Hour

type AuthService struct {
	db *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

// Login authenticates by national ID or username. Both failure modes return
// the same message so the identifier space cannot be probed.
func (s *AuthService) Login(ctx context.Context, req authDTO.LoginRequest) (*authDTO.LoginResponse, error) {
	var user userModel.UserModel
	err := s.db.WithContext(ctx).
		Where("user_national_id = ? OR user_username = ?", req.Identifier, req.Identifier).
		First(&user).Error
	if err != nil {
		if helper.IsRecordNotFound(err) {
			return nil, helper.ErrUnauthorized("Invalid credentials")
		}
		return nil, err
	}
	if !user.UserIsActive {
		return nil, helper.ErrUnauthorized("Invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.UserPasswordHash), []byte(req.Password)) != nil {
		return nil, helper.ErrUnauthorized("Invalid credentials")
	}

	expiresAt := time.Now().Add(tokenTTL)
	claims := jwt.MapClaims{
		"id":   user.UserID.String(),
		"role": user.UserRole,
		"exp":  expiresAt.Unix(),
		"iat":  time.Now().Unix(),
	}
	if user.UserUnionID != nil {
		claims["union_id"] = user.UserUnionID.String()
	}
	if user.UserDistrictID != nil {
		claims["district_id"] = user.UserDistrictID.String()
	}
	if user.UserChurchID != nil {
		claims["church_id"] = user.UserChurchID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(configs.JWTSecret))
	if err != nil {
		return nil, err
	}

	return &authDTO.LoginResponse{
		AccessToken: signed,
		ExpiresAt:   expiresAt,
		User: authDTO.LoginUserRef{
			UserID:     user.UserID,
			Username:   user.UserUsername,
			FullName:   user.FullName(),
			Role:       user.UserRole,
			UnionID:    user.UserUnionID,
			DistrictID: user.UserDistrictID,
			ChurchID:   user.UserChurchID,
		},
	}, nil
}

// Logout blacklists the presented token until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return helper.ErrUnauthorized("Missing access token")
	}

	expiresAt := time.Now().Add(tokenTTL)
	parser := jwt.Parser{SkipClaimsValidation: true}
	if parsed, _, err := parser.ParseUnverified(rawToken, jwt.MapClaims{}); err == nil {
		if claims, ok := parsed.Claims.(jwt.MapClaims); ok {
			if exp, ok := claims["exp"].(float64); ok {
				expiresAt = time.Unix(int64(exp), 0)
			}
		}
	}

	entry := authModel.TokenBlacklistModel{Token: rawToken, ExpiresAt: expiresAt}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil
		}
		return err
	}
	return nil
}

func (s *AuthService) ChangePassword(ctx context.Context, actor helperAuth.Actor, req authDTO.ChangePasswordRequest) error {
	var user userModel.UserModel
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", actor.ID).
		First(&user).Error; err != nil {
		if helper.IsRecordNotFound(err) {
			return helper.ErrNotFound("User not found")
		}
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.UserPasswordHash), []byte(req.CurrentPassword)) != nil {
		return helper.ErrUnauthorized("Current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).
		Model(&userModel.UserModel{}).
		Where("user_id = ?", actor.ID).
		Update("user_password_hash", string(hash)).Error
}
