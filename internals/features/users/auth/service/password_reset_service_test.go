package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"umuganda_backend/internals/constants"
	authDTO "umuganda_backend/internals/features/users/auth/dto"
	authModel "umuganda_backend/internals/features/users/auth/model"
	userModel "umuganda_backend/internals/features/users/user/model"
	helper "umuganda_backend/internals/helpers"
)

type fakeResetStore struct {
	usersByNationalID map[string]*userModel.UserModel
	usersByEmail      map[string]*userModel.UserModel
	usersByID         map[string]*userModel.UserModel
	tokens            map[string]*authModel.PasswordResetTokenModel

	createErr    error
	deleteCalls  []string
	completedPwd string
	completed    *authModel.PasswordResetTokenModel
}

func newFakeResetStore() *fakeResetStore {
	return &fakeResetStore{
		usersByNationalID: map[string]*userModel.UserModel{},
		usersByEmail:      map[string]*userModel.UserModel{},
		usersByID:         map[string]*userModel.UserModel{},
		tokens:            map[string]*authModel.PasswordResetTokenModel{},
	}
}

func (f *fakeResetStore) addUser(u *userModel.UserModel) {
	f.usersByNationalID[u.UserNationalID] = u
	if u.UserEmail != nil {
		f.usersByEmail[*u.UserEmail] = u
	}
	f.usersByID[u.UserID.String()] = u
}

func (f *fakeResetStore) UserByNationalID(_ context.Context, nationalID string) (*userModel.UserModel, error) {
	return f.usersByNationalID[nationalID], nil
}

func (f *fakeResetStore) UserByEmail(_ context.Context, email string) (*userModel.UserModel, error) {
	return f.usersByEmail[email], nil
}

func (f *fakeResetStore) UserByID(_ context.Context, id string) (*userModel.UserModel, error) {
	return f.usersByID[id], nil
}

func (f *fakeResetStore) CreateToken(_ context.Context, token *authModel.PasswordResetTokenModel) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.tokens[token.ResetTokenValue] = token
	return nil
}

func (f *fakeResetStore) DeleteToken(_ context.Context, tokenValue string) error {
	f.deleteCalls = append(f.deleteCalls, tokenValue)
	delete(f.tokens, tokenValue)
	return nil
}

func (f *fakeResetStore) TokenByValue(_ context.Context, tokenValue string) (*authModel.PasswordResetTokenModel, error) {
	return f.tokens[tokenValue], nil
}

func (f *fakeResetStore) CompleteReset(_ context.Context, token *authModel.PasswordResetTokenModel, passwordHash string) error {
	f.completed = token
	f.completedPwd = passwordHash
	now := time.Now()
	token.ResetTokenUsedAt = &now
	return nil
}

type fakeResetSms struct {
	enabled bool
	err     error
	sent    []string
}

func (f *fakeResetSms) Enabled() bool { return f.enabled }
func (f *fakeResetSms) Send(to, message string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

type fakeMailer struct {
	enabled bool
	err     error
	sent    []string
}

func (f *fakeMailer) Enabled() bool { return f.enabled }
func (f *fakeMailer) Send(to, subject, text, html string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

func resetUser(role string) *userModel.UserModel {
	email := "admin@example.rw"
	return &userModel.UserModel{
		UserID:          uuid.New(),
		UserNationalID:  "1199012345678901",
		UserEmail:       &email,
		UserPhoneNumber: "+250788000001",
		UserRole:        role,
		UserIsActive:    true,
	}
}

func newResetService(store ResetStore, sender *fakeResetSms, mail *fakeMailer) *PasswordResetService {
	svc := NewPasswordResetService(store, sender, mail)
	svc.now = func() time.Time { return time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC) }
	return svc
}

func strPtr(s string) *string { return &s }

func TestPasswordResetRequest_RequiresIdentifier(t *testing.T) {
	svc := newResetService(newFakeResetStore(), &fakeResetSms{enabled: true}, &fakeMailer{enabled: true})

	err := svc.Request(context.Background(), authDTO.PasswordResetRequest{})

	var appErr *helper.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Status)
}

func TestPasswordResetRequest_UnknownAccountIsSilent(t *testing.T) {
	store := newFakeResetStore()
	svc := newResetService(store, &fakeResetSms{enabled: true}, &fakeMailer{enabled: true})

	err := svc.Request(context.Background(), authDTO.PasswordResetRequest{
		NationalID: strPtr("0000000000000000"),
	})

	require.NoError(t, err)
	assert.Empty(t, store.tokens)
}

func TestPasswordResetRequest_AdminGetsEmail(t *testing.T) {
	store := newFakeResetStore()
	store.addUser(resetUser(constants.RoleDistrictAdmin))
	mail := &fakeMailer{enabled: true}
	sender := &fakeResetSms{enabled: true}
	svc := newResetService(store, sender, mail)

	err := svc.Request(context.Background(), authDTO.PasswordResetRequest{
		Email: strPtr("admin@example.rw"),
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"admin@example.rw"}, mail.sent)
	assert.Empty(t, sender.sent)
	assert.Len(t, store.tokens, 1)
}

func TestPasswordResetRequest_MemberGetsSms(t *testing.T) {
	store := newFakeResetStore()
	store.addUser(resetUser(constants.RoleMember))
	mail := &fakeMailer{enabled: true}
	sender := &fakeResetSms{enabled: true}
	svc := newResetService(store, sender, mail)

	err := svc.Request(context.Background(), authDTO.PasswordResetRequest{
		NationalID: strPtr("1199012345678901"),
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"+250788000001"}, sender.sent)
	assert.Empty(t, mail.sent)
}

func TestPasswordResetRequest_DeliveryFailureDeletesToken(t *testing.T) {
	store := newFakeResetStore()
	store.addUser(resetUser(constants.RoleMember))
	sender := &fakeResetSms{enabled: true, err: errors.New("twilio down")}
	svc := newResetService(store, sender, &fakeMailer{enabled: true})

	err := svc.Request(context.Background(), authDTO.PasswordResetRequest{
		NationalID: strPtr("1199012345678901"),
	})

	var appErr *helper.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 500, appErr.Status)
	assert.Len(t, store.deleteCalls, 1, "undeliverable token must be removed")
	assert.Empty(t, store.tokens)
}

func TestPasswordResetRequest_UnconfiguredSmsFailsAndCompensates(t *testing.T) {
	store := newFakeResetStore()
	store.addUser(resetUser(constants.RolePoliceVerifier))
	svc := newResetService(store, &fakeResetSms{enabled: false}, &fakeMailer{enabled: true})

	err := svc.Request(context.Background(), authDTO.PasswordResetRequest{
		NationalID: strPtr("1199012345678901"),
	})

	var appErr *helper.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 500, appErr.Status)
	assert.Empty(t, store.tokens)
}

func TestPasswordResetRequest_AdminWithoutEmailRejected(t *testing.T) {
	store := newFakeResetStore()
	user := resetUser(constants.RoleChurchAdmin)
	user.UserEmail = nil
	store.usersByNationalID[user.UserNationalID] = user
	store.usersByID[user.UserID.String()] = user
	svc := newResetService(store, &fakeResetSms{enabled: true}, &fakeMailer{enabled: true})

	err := svc.Request(context.Background(), authDTO.PasswordResetRequest{
		NationalID: strPtr("1199012345678901"),
	})

	var appErr *helper.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Status)
	assert.Empty(t, store.tokens)
}

func TestPasswordResetConfirm_HappyPath(t *testing.T) {
	store := newFakeResetStore()
	user := resetUser(constants.RoleMember)
	store.addUser(user)
	store.tokens["tok-1"] = &authModel.PasswordResetTokenModel{
		ResetTokenUserID:    user.UserID,
		ResetTokenValue:     "tok-1",
		ResetTokenExpiresAt: time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC),
	}
	svc := newResetService(store, &fakeResetSms{enabled: true}, &fakeMailer{enabled: true})

	err := svc.Confirm(context.Background(), authDTO.PasswordResetConfirmRequest{
		Token:       "tok-1",
		NewPassword: "brand-new-secret",
	})

	require.NoError(t, err)
	require.NotNil(t, store.completed)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(store.completedPwd), []byte("brand-new-secret")))
}

func TestPasswordResetConfirm_UnknownToken(t *testing.T) {
	svc := newResetService(newFakeResetStore(), &fakeResetSms{enabled: true}, &fakeMailer{enabled: true})

	err := svc.Confirm(context.Background(), authDTO.PasswordResetConfirmRequest{
		Token:       "missing",
		NewPassword: "brand-new-secret",
	})

	var appErr *helper.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Status)
}

func TestPasswordResetConfirm_UsedToken(t *testing.T) {
	store := newFakeResetStore()
	user := resetUser(constants.RoleMember)
	store.addUser(user)
	used := time.Date(2026, 3, 6, 12, 0, 0, 0, time.UTC)
	store.tokens["tok-used"] = &authModel.PasswordResetTokenModel{
		ResetTokenUserID:    user.UserID,
		ResetTokenValue:     "tok-used",
		ResetTokenExpiresAt: time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
		ResetTokenUsedAt:    &used,
	}
	svc := newResetService(store, &fakeResetSms{enabled: true}, &fakeMailer{enabled: true})

	err := svc.Confirm(context.Background(), authDTO.PasswordResetConfirmRequest{
		Token:       "tok-used",
		NewPassword: "brand-new-secret",
	})

	var appErr *helper.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Status)
}

func TestPasswordResetConfirm_ExpiredToken(t *testing.T) {
	store := newFakeResetStore()
	user := resetUser(constants.RoleMember)
	store.addUser(user)
	store.tokens["tok-old"] = &authModel.PasswordResetTokenModel{
		ResetTokenUserID:    user.UserID,
		ResetTokenValue:     "tok-old",
		ResetTokenExpiresAt: time.Date(2026, 3, 7, 8, 59, 0, 0, time.UTC),
	}
	svc := newResetService(store, &fakeResetSms{enabled: true}, &fakeMailer{enabled: true})

	err := svc.Confirm(context.Background(), authDTO.PasswordResetConfirmRequest{
		Token:       "tok-old",
		NewPassword: "brand-new-secret",
	})

	var appErr *helper.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Status)
	assert.Contains(t, appErr.Message, "expired")
}

func TestPasswordResetConfirm_InactiveUser(t *testing.T) {
	store := newFakeResetStore()
	user := resetUser(constants.RoleMember)
	user.UserIsActive = false
	store.addUser(user)
	store.tokens["tok-2"] = &authModel.PasswordResetTokenModel{
		ResetTokenUserID:    user.UserID,
		ResetTokenValue:     "tok-2",
		ResetTokenExpiresAt: time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
	}
	svc := newResetService(store, &fakeResetSms{enabled: true}, &fakeMailer{enabled: true})

	err := svc.Confirm(context.Background(), authDTO.PasswordResetConfirmRequest{
		Token:       "tok-2",
		NewPassword: "brand-new-secret",
	})

	var appErr *helper.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 403, appErr.Status)
}
