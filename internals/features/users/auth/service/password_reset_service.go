package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/url"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"umuganda_backend/internals/configs"
	"umuganda_backend/internals/constants"
	authDTO "umuganda_backend/internals/features/users/auth/dto"
	authModel "umuganda_backend/internals/features/users/auth/model"
	userModel "umuganda_backend/internals/features/users/user/model"
	helper "umuganda_backend/internals/helpers"
	"umuganda_backend/internals/helpers/mailer"
	"umuganda_backend/internals/helpers/sms"
)

const resetTokenTTLMinutes = 60

// ResetStore is the storage surface of the reset flow, split out so the
// compensation path can be tested without a database.
type ResetStore interface {
	UserByNationalID(ctx context.Context, nationalID string) (*userModel.UserModel, error)
	UserByEmail(ctx context.Context, email string) (*userModel.UserModel, error)
	CreateToken(ctx context.Context, token *authModel.PasswordResetTokenModel) error
	DeleteToken(ctx context.Context, tokenValue string) error
	TokenByValue(ctx context.Context, tokenValue string) (*authModel.PasswordResetTokenModel, error)
	UserByID(ctx context.Context, id string) (*userModel.UserModel, error)
	CompleteReset(ctx context.Context, token *authModel.PasswordResetTokenModel, passwordHash string) error
}

// PasswordResetService routes delivery by role: admins get the link by email,
// members and police verifiers by SMS. The token row is written before the
// delivery attempt and deleted again when delivery fails, so an undeliverable
// token never stays live.
type PasswordResetService struct {
	store  ResetStore
	sms    sms.Sender
	mailer mailer.Mailer
	now    func() time.Time
}

func NewPasswordResetService(store ResetStore, sender sms.Sender, mail mailer.Mailer) *PasswordResetService {
	return &PasswordResetService{store: store, sms: sender, mailer: mail, now: time.Now}
}

func generateResetToken() (string, error) {
	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func buildResetLink(token string) string {
	return fmt.Sprintf("%s/reset-password/confirm?token=%s", configs.PrimaryOrigin, url.QueryEscape(token))
}

// Request never reveals whether the identifier matched an account: unknown
// identifiers return success. Delivery failures DO surface, after the token
// row has been compensated away.
func (s *PasswordResetService) Request(ctx context.Context, req authDTO.PasswordResetRequest) error {
	if req.NationalID == nil && req.Email == nil {
		return helper.ErrBadRequest("Provide either national ID or email")
	}

	var user *userModel.UserModel
	var err error
	if req.NationalID != nil {
		user, err = s.store.UserByNationalID(ctx, *req.NationalID)
	} else {
		user, err = s.store.UserByEmail(ctx, *req.Email)
	}
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	tokenValue, err := generateResetToken()
	if err != nil {
		return err
	}
	token := &authModel.PasswordResetTokenModel{
		ResetTokenUserID:    user.UserID,
		ResetTokenValue:     tokenValue,
		ResetTokenExpiresAt: s.now().Add(resetTokenTTLMinutes * time.Minute),
	}
	if err := s.store.CreateToken(ctx, token); err != nil {
		return err
	}

	if err := s.deliver(user, tokenValue); err != nil {
		if delErr := s.store.DeleteToken(ctx, tokenValue); delErr != nil {
			return delErr
		}
		return err
	}
	return nil
}

func (s *PasswordResetService) deliver(user *userModel.UserModel, tokenValue string) error {
	link := buildResetLink(tokenValue)

	switch {
	case constants.RoleInList(user.UserRole, constants.EmailResetRoles):
		if user.UserEmail == nil || *user.UserEmail == "" {
			return helper.ErrBadRequest("No email address on record for this admin account")
		}
		if !s.mailer.Enabled() {
			return helper.NewAppError(500, "Email service is not configured")
		}
		subject, text, html := mailer.PasswordResetBody(link, resetTokenTTLMinutes)
		if err := s.mailer.Send(*user.UserEmail, subject, text, html); err != nil {
			return helper.NewAppError(500, "Unable to send password reset email")
		}
		return nil

	case constants.RoleInList(user.UserRole, constants.SmsResetRoles):
		if user.UserPhoneNumber == "" {
			return helper.ErrBadRequest("No phone number on record for this account")
		}
		if !s.sms.Enabled() {
			return helper.NewAppError(500, "SMS service is not configured")
		}
		message := fmt.Sprintf(
			"Umuganda SDA password reset request. Follow this link within %d minutes: %s",
			resetTokenTTLMinutes, link,
		)
		if err := s.sms.Send(user.UserPhoneNumber, message); err != nil {
			return helper.NewAppError(500, "Unable to send password reset SMS")
		}
		return nil

	default:
		return helper.ErrBadRequest("Unable to determine reset method for this account")
	}
}

// Confirm consumes the token and sets the new password in one transaction.
func (s *PasswordResetService) Confirm(ctx context.Context, req authDTO.PasswordResetConfirmRequest) error {
	token, err := s.store.TokenByValue(ctx, req.Token)
	if err != nil {
		return err
	}
	if token == nil {
		return helper.ErrNotFound("Reset token not found")
	}
	if token.ResetTokenUsedAt != nil {
		return helper.ErrBadRequest("Reset token already used")
	}
	if token.ResetTokenExpiresAt.Before(s.now()) {
		return helper.ErrBadRequest("Reset token expired")
	}

	user, err := s.store.UserByID(ctx, token.ResetTokenUserID.String())
	if err != nil {
		return err
	}
	if user == nil {
		return helper.ErrNotFound("User account not found")
	}
	if !user.UserIsActive {
		return helper.ErrForbidden("This account has been deactivated")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.store.CompleteReset(ctx, token, string(hash))
}

// GormResetStore is the production ResetStore.
type GormResetStore struct {
	db *gorm.DB
}

func NewGormResetStore(db *gorm.DB) *GormResetStore {
	return &GormResetStore{db: db}
}

var _ ResetStore = (*GormResetStore)(nil)

func (r *GormResetStore) UserByNationalID(ctx context.Context, nationalID string) (*userModel.UserModel, error) {
	return r.userWhere(ctx, "user_national_id = ?", nationalID)
}

func (r *GormResetStore) UserByEmail(ctx context.Context, email string) (*userModel.UserModel, error) {
	return r.userWhere(ctx, "user_email = ?", email)
}

func (r *GormResetStore) UserByID(ctx context.Context, id string) (*userModel.UserModel, error) {
	return r.userWhere(ctx, "user_id = ?", id)
}

func (r *GormResetStore) userWhere(ctx context.Context, query string, arg interface{}) (*userModel.UserModel, error) {
	var user userModel.UserModel
	err := r.db.WithContext(ctx).Where(query, arg).Take(&user).Error
	if err != nil {
		if helper.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormResetStore) CreateToken(ctx context.Context, token *authModel.PasswordResetTokenModel) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *GormResetStore) DeleteToken(ctx context.Context, tokenValue string) error {
	return r.db.WithContext(ctx).
		Where("reset_token_value = ?", tokenValue).
		Delete(&authModel.PasswordResetTokenModel{}).Error
}

func (r *GormResetStore) TokenByValue(ctx context.Context, tokenValue string) (*authModel.PasswordResetTokenModel, error) {
	var token authModel.PasswordResetTokenModel
	err := r.db.WithContext(ctx).
		Where("reset_token_value = ?", tokenValue).
		Take(&token).Error
	if err != nil {
		if helper.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

func (r *GormResetStore) CompleteReset(ctx context.Context, token *authModel.PasswordResetTokenModel, passwordHash string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&userModel.UserModel{}).
			Where("user_id = ?", token.ResetTokenUserID).
			Update("user_password_hash", passwordHash).Error; err != nil {
			return err
		}
		return tx.Model(&authModel.PasswordResetTokenModel{}).
			Where("reset_token_id = ?", token.ResetTokenID).
			Update("reset_token_used_at", time.Now()).Error
	})
}
