package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"umuganda_backend/internals/constants"
	attendanceDTO "umuganda_backend/internals/features/attendance/records/dto"
	attendanceModel "umuganda_backend/internals/features/attendance/records/model"
	sessionModel "umuganda_backend/internals/features/attendance/sessions/model"
	passModel "umuganda_backend/internals/features/passes/model"
	userModel "umuganda_backend/internals/features/users/user/model"
	helper "umuganda_backend/internals/helpers"
	helperAuth "umuganda_backend/internals/helpers/auth"
)

type fakeRepo struct {
	sessions  map[uuid.UUID]*sessionModel.UmugandaSessionModel
	members   map[uuid.UUID]*userModel.UserModel
	records   map[uuid.UUID]*attendanceModel.AttendanceRecordModel
	createErr error
	listed    []attendanceDTO.AttendanceResponse
	lastQuery *ListQuery
}

func newRepo() *fakeRepo {
	return &fakeRepo{
		sessions: map[uuid.UUID]*sessionModel.UmugandaSessionModel{},
		members:  map[uuid.UUID]*userModel.UserModel{},
		records:  map[uuid.UUID]*attendanceModel.AttendanceRecordModel{},
	}
}

func (f *fakeRepo) SessionByID(_ context.Context, id uuid.UUID) (*sessionModel.UmugandaSessionModel, error) {
	return f.sessions[id], nil
}

func (f *fakeRepo) MemberByID(_ context.Context, id uuid.UUID) (*userModel.UserModel, error) {
	return f.members[id], nil
}

func (f *fakeRepo) CreateRecord(_ context.Context, record *attendanceModel.AttendanceRecordModel) error {
	if f.createErr != nil {
		return f.createErr
	}
	record.AttendanceID = uuid.New()
	f.records[record.AttendanceID] = record
	return nil
}

func (f *fakeRepo) RecordByID(_ context.Context, id uuid.UUID) (*attendanceModel.AttendanceRecordModel, error) {
	r, ok := f.records[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRepo) SaveRecord(_ context.Context, record *attendanceModel.AttendanceRecordModel) error {
	f.records[record.AttendanceID] = record
	return nil
}

func (f *fakeRepo) ListRecords(_ context.Context, q ListQuery) ([]attendanceDTO.AttendanceResponse, int64, error) {
	f.lastQuery = &q
	return f.listed, int64(len(f.listed)), nil
}

type fakeIssuer struct {
	issueErr   error
	issued     []uuid.UUID
	revoked    []uuid.UUID
	issuedPass *passModel.PassModel
}

func (f *fakeIssuer) IssueForAttendance(_ context.Context, attendanceID uuid.UUID) (*passModel.PassModel, error) {
	if f.issueErr != nil {
		return nil, f.issueErr
	}
	f.issued = append(f.issued, attendanceID)
	if f.issuedPass == nil {
		f.issuedPass = &passModel.PassModel{PassID: uuid.New(), PassToken: uuid.NewString()}
	}
	return f.issuedPass, nil
}

func (f *fakeIssuer) RevokeForAttendanceIfAny(_ context.Context, attendanceID uuid.UUID) error {
	f.revoked = append(f.revoked, attendanceID)
	return nil
}

func seedSessionAndMember(repo *fakeRepo) (sessionID, memberID uuid.UUID) {
	churchID := uuid.New()
	sessionID = uuid.New()
	memberID = uuid.New()
	repo.sessions[sessionID] = &sessionModel.UmugandaSessionModel{
		SessionID:       sessionID,
		SessionChurchID: churchID,
		SessionDate:     time.Date(2026, 3, 7, 8, 0, 0, 0, time.UTC),
	}
	repo.members[memberID] = &userModel.UserModel{
		UserID:       memberID,
		UserRole:     constants.RoleMember,
		UserChurchID: &churchID,
	}
	return sessionID, memberID
}

func churchAdmin() helperAuth.Actor {
	churchID := uuid.New()
	return helperAuth.Actor{ID: uuid.New(), Role: constants.RoleChurchAdmin, ChurchID: &churchID}
}

// ---- create ----------------------------------------------------------------

func TestCreate_StartsPending(t *testing.T) {
	repo := newRepo()
	sessionID, memberID := seedSessionAndMember(repo)
	svc := NewAttendanceService(repo, &fakeIssuer{})

	record, err := svc.Create(context.Background(), attendanceDTO.CreateAttendanceRequest{
		SessionID: sessionID, MemberID: memberID,
	})

	require.NoError(t, err)
	assert.Equal(t, attendanceModel.StatusPending, record.AttendanceStatus)
	assert.Nil(t, record.AttendanceApprovedBy)
}

func TestCreate_RejectsMemberFromAnotherChurch(t *testing.T) {
	repo := newRepo()
	sessionID, memberID := seedSessionAndMember(repo)
	foreign := uuid.New()
	repo.members[memberID].UserChurchID = &foreign
	svc := NewAttendanceService(repo, &fakeIssuer{})

	_, err := svc.Create(context.Background(), attendanceDTO.CreateAttendanceRequest{
		SessionID: sessionID, MemberID: memberID,
	})

	ae, ok := helper.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, ae.Status)
}

func TestCreate_RejectsNonMemberRole(t *testing.T) {
	repo := newRepo()
	sessionID, memberID := seedSessionAndMember(repo)
	repo.members[memberID].UserRole = constants.RolePoliceVerifier
	svc := NewAttendanceService(repo, &fakeIssuer{})

	_, err := svc.Create(context.Background(), attendanceDTO.CreateAttendanceRequest{
		SessionID: sessionID, MemberID: memberID,
	})

	ae, ok := helper.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, ae.Status)
}

func TestCreate_DuplicateSurfacesConflict(t *testing.T) {
	repo := newRepo()
	sessionID, memberID := seedSessionAndMember(repo)
	repo.createErr = &pq.Error{Code: "23505"}
	svc := NewAttendanceService(repo, &fakeIssuer{})

	_, err := svc.Create(context.Background(), attendanceDTO.CreateAttendanceRequest{
		SessionID: sessionID, MemberID: memberID,
	})

	ae, ok := helper.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 409, ae.Status)
}

// ---- transitions -----------------------------------------------------------

func seedPendingRecord(repo *fakeRepo) uuid.UUID {
	id := uuid.New()
	repo.records[id] = &attendanceModel.AttendanceRecordModel{
		AttendanceID:        id,
		AttendanceSessionID: uuid.New(),
		AttendanceMemberID:  uuid.New(),
		AttendanceStatus:    attendanceModel.StatusPending,
	}
	return id
}

func TestUpdateStatus_ApproveStampsApproverAndIssuesPass(t *testing.T) {
	repo := newRepo()
	recordID := seedPendingRecord(repo)
	issuer := &fakeIssuer{}
	svc := NewAttendanceService(repo, issuer)
	actor := churchAdmin()

	result, err := svc.UpdateStatus(context.Background(), actor, recordID, attendanceDTO.UpdateAttendanceRequest{
		Status: attendanceModel.StatusApproved,
	})

	require.NoError(t, err)
	assert.Equal(t, attendanceModel.StatusApproved, result.Record.AttendanceStatus)
	require.NotNil(t, result.Record.AttendanceApprovedBy)
	assert.Equal(t, actor.ID, *result.Record.AttendanceApprovedBy)
	require.NotNil(t, result.Pass)
	assert.Equal(t, []uuid.UUID{recordID}, issuer.issued)
	assert.Empty(t, result.PassError)
}

func TestUpdateStatus_ApproveWithIssuePassFalseSkipsIssuance(t *testing.T) {
	repo := newRepo()
	recordID := seedPendingRecord(repo)
	issuer := &fakeIssuer{}
	svc := NewAttendanceService(repo, issuer)
	off := false

	result, err := svc.UpdateStatus(context.Background(), churchAdmin(), recordID, attendanceDTO.UpdateAttendanceRequest{
		Status: attendanceModel.StatusApproved, IssuePass: &off,
	})

	require.NoError(t, err)
	assert.Nil(t, result.Pass)
	assert.Empty(t, issuer.issued)
}

func TestUpdateStatus_PassFailureDoesNotRollBackApproval(t *testing.T) {
	repo := newRepo()
	recordID := seedPendingRecord(repo)
	issuer := &fakeIssuer{issueErr: errors.New("qr encoder broken")}
	svc := NewAttendanceService(repo, issuer)

	result, err := svc.UpdateStatus(context.Background(), churchAdmin(), recordID, attendanceDTO.UpdateAttendanceRequest{
		Status: attendanceModel.StatusApproved,
	})

	require.NoError(t, err)
	assert.Equal(t, attendanceModel.StatusApproved, result.Record.AttendanceStatus)
	assert.Nil(t, result.Pass)
	assert.Equal(t, "qr encoder broken", result.PassError)
	assert.Equal(t, attendanceModel.StatusApproved, repo.records[recordID].AttendanceStatus)
}

func TestUpdateStatus_UnapproveClearsApproverAndRevokes(t *testing.T) {
	repo := newRepo()
	recordID := seedPendingRecord(repo)
	approver := uuid.New()
	repo.records[recordID].AttendanceStatus = attendanceModel.StatusApproved
	repo.records[recordID].AttendanceApprovedBy = &approver
	issuer := &fakeIssuer{}
	svc := NewAttendanceService(repo, issuer)

	result, err := svc.UpdateStatus(context.Background(), churchAdmin(), recordID, attendanceDTO.UpdateAttendanceRequest{
		Status: attendanceModel.StatusPending,
	})

	require.NoError(t, err)
	assert.Equal(t, attendanceModel.StatusPending, result.Record.AttendanceStatus)
	assert.Nil(t, result.Record.AttendanceApprovedBy)
	assert.Equal(t, []uuid.UUID{recordID}, issuer.revoked)
	assert.Nil(t, result.Pass)
}

func TestUpdateStatus_UnknownStatusIsValidationError(t *testing.T) {
	repo := newRepo()
	recordID := seedPendingRecord(repo)
	svc := NewAttendanceService(repo, &fakeIssuer{})

	_, err := svc.UpdateStatus(context.Background(), churchAdmin(), recordID, attendanceDTO.UpdateAttendanceRequest{
		Status: "REJECTED",
	})

	ae, ok := helper.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 422, ae.Status)
}

func TestUpdateStatus_MissingRecordIsNotFound(t *testing.T) {
	svc := NewAttendanceService(newRepo(), &fakeIssuer{})

	_, err := svc.UpdateStatus(context.Background(), churchAdmin(), uuid.New(), attendanceDTO.UpdateAttendanceRequest{
		Status: attendanceModel.StatusApproved,
	})

	ae, ok := helper.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, ae.Status)
}

// ---- listing scope ---------------------------------------------------------

func TestList_ChurchAdminIsPinnedToOwnChurch(t *testing.T) {
	repo := newRepo()
	svc := NewAttendanceService(repo, &fakeIssuer{})
	actor := churchAdmin()

	_, _, err := svc.List(context.Background(), actor, attendanceDTO.ListAttendanceFilters{}, 20, 0)

	require.NoError(t, err)
	require.NotNil(t, repo.lastQuery)
	require.NotNil(t, repo.lastQuery.Scope.ChurchID)
	assert.Equal(t, *actor.ChurchID, *repo.lastQuery.Scope.ChurchID)
}

func TestList_ChurchAdminCannotFilterForeignChurch(t *testing.T) {
	repo := newRepo()
	svc := NewAttendanceService(repo, &fakeIssuer{})
	actor := churchAdmin()
	foreign := uuid.New()

	_, _, err := svc.List(context.Background(), actor, attendanceDTO.ListAttendanceFilters{ChurchID: &foreign}, 20, 0)

	ae, ok := helper.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 403, ae.Status)
	assert.Nil(t, repo.lastQuery)
}

func TestList_SuperAdminIsUnconstrained(t *testing.T) {
	repo := newRepo()
	svc := NewAttendanceService(repo, &fakeIssuer{})
	actor := helperAuth.Actor{ID: uuid.New(), Role: constants.RoleUnionAdmin}

	_, _, err := svc.List(context.Background(), actor, attendanceDTO.ListAttendanceFilters{}, 20, 0)

	require.NoError(t, err)
	require.NotNil(t, repo.lastQuery)
	assert.Nil(t, repo.lastQuery.Scope.UnionID)
	assert.Nil(t, repo.lastQuery.Scope.DistrictID)
	assert.Nil(t, repo.lastQuery.Scope.ChurchID)
}
