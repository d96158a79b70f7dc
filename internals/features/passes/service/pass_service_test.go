package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"umuganda_backend/internals/constants"
	attendanceModel "umuganda_backend/internals/features/attendance/records/model"
	passDTO "umuganda_backend/internals/features/passes/dto"
	passModel "umuganda_backend/internals/features/passes/model"
	helper "umuganda_backend/internals/helpers"
	helperAuth "umuganda_backend/internals/helpers/auth"
)

// ---- fakes -----------------------------------------------------------------

type fakeRepo struct {
	attendances map[uuid.UUID]*AttendanceIssueInfo
	passes      map[uuid.UUID]*passModel.PassModel
	memberPass  map[string]*MemberPassDetail
	details     map[string]*PassDetail

	createErr     error
	smsSentMarks  []uuid.UUID
	sessions      map[string]uuid.UUID // churchID|day -> sessionID
	checkIns      []checkIn
	deletedPasses []uuid.UUID
}

type checkIn struct {
	SessionID  uuid.UUID
	MemberID   uuid.UUID
	ApprovedBy uuid.UUID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		attendances: map[uuid.UUID]*AttendanceIssueInfo{},
		passes:      map[uuid.UUID]*passModel.PassModel{},
		memberPass:  map[string]*MemberPassDetail{},
		details:     map[string]*PassDetail{},
		sessions:    map[string]uuid.UUID{},
	}
}

func (f *fakeRepo) AttendanceForIssue(_ context.Context, id uuid.UUID) (*AttendanceIssueInfo, error) {
	info, ok := f.attendances[id]
	if !ok {
		return nil, nil
	}
	cp := *info
	for _, p := range f.passes {
		if p.PassAttendanceID != nil && *p.PassAttendanceID == id {
			pc := *p
			cp.ExistingPass = &pc
		}
	}
	return &cp, nil
}

func (f *fakeRepo) CreatePass(_ context.Context, pass *passModel.PassModel) error {
	if f.createErr != nil {
		return f.createErr
	}
	pass.PassID = uuid.New()
	pass.PassCreatedAt = time.Now()
	f.passes[pass.PassID] = pass
	f.details[pass.PassToken] = &PassDetail{Pass: *pass}
	return nil
}

func (f *fakeRepo) MarkSmsSent(_ context.Context, passID uuid.UUID, _ time.Time) error {
	f.smsSentMarks = append(f.smsSentMarks, passID)
	return nil
}

func (f *fakeRepo) PassDetailByToken(_ context.Context, token string) (*PassDetail, error) {
	d, ok := f.details[token]
	if !ok {
		return nil, nil
	}
	return d, nil
}

func (f *fakeRepo) MemberPassByToken(_ context.Context, token string) (*MemberPassDetail, error) {
	mp, ok := f.memberPass[token]
	if !ok {
		return nil, nil
	}
	return mp, nil
}

func (f *fakeRepo) UpsertMemberMirror(_ context.Context, pass *passModel.PassModel) error {
	pass.PassID = uuid.New()
	pass.PassCreatedAt = time.Now()
	f.passes[pass.PassID] = pass
	detail := &PassDetail{Pass: *pass}
	if mp, ok := f.memberPass[pass.PassToken]; ok && mp.Church != nil {
		detail.PassChurch = mp.Church
	}
	if pass.PassMemberID != nil {
		detail.Member = &MemberDetail{ID: *pass.PassMemberID}
		if mp, ok := f.memberPass[pass.PassToken]; ok {
			detail.Member.Church = mp.Church
		}
	}
	f.details[pass.PassToken] = detail
	return nil
}

func (f *fakeRepo) PassesForAttendance(_ context.Context, attendanceID uuid.UUID) ([]passModel.PassModel, error) {
	var out []passModel.PassModel
	for _, p := range f.passes {
		if p.PassAttendanceID != nil && *p.PassAttendanceID == attendanceID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeRepo) DeletePass(_ context.Context, passID uuid.UUID) error {
	if p, ok := f.passes[passID]; ok {
		delete(f.details, p.PassToken)
	}
	delete(f.passes, passID)
	f.deletedPasses = append(f.deletedPasses, passID)
	return nil
}

func (f *fakeRepo) EnsureTodaySession(_ context.Context, churchID uuid.UUID, now time.Time) (uuid.UUID, error) {
	key := churchID.String() + "|" + now.Format("2006-01-02")
	if id, ok := f.sessions[key]; ok {
		return id, nil
	}
	id := uuid.New()
	f.sessions[key] = id
	return id, nil
}

func (f *fakeRepo) UpsertApprovedAttendance(_ context.Context, sessionID, memberID, approvedBy uuid.UUID) error {
	f.checkIns = append(f.checkIns, checkIn{SessionID: sessionID, MemberID: memberID, ApprovedBy: approvedBy})
	return nil
}

type fakeSms struct {
	enabled bool
	sendErr error
	sent    []string
}

func (f *fakeSms) Enabled() bool { return f.enabled }
func (f *fakeSms) Send(to, message string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, to+": "+message)
	return nil
}

type fakeQr struct{}

func (fakeQr) Render(token string) (string, error) {
	return "data:image/png;base64,qr-" + token, nil
}

func newService(repo *fakeRepo, sender *fakeSms) *PassService {
	s := NewPassService(repo, sender, fakeQr{})
	s.now = func() time.Time { return time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC) }
	return s
}

func approvedAttendance(phone string) *AttendanceIssueInfo {
	return &AttendanceIssueInfo{
		AttendanceID:    uuid.New(),
		Status:          attendanceModel.StatusApproved,
		SessionDate:     time.Date(2026, 3, 7, 8, 0, 0, 0, time.UTC),
		ChurchID:        ptr(uuid.New()),
		MemberID:        uuid.New(),
		MemberFirstName: "Aline",
		MemberLastName:  "Uwase",
		MemberPhone:     phone,
	}
}

func ptr[T any](v T) *T { return &v }

// ---- issuance --------------------------------------------------------------

func TestIssueForAttendance_RequiresApprovedStatus(t *testing.T) {
	repo := newFakeRepo()
	info := approvedAttendance("")
	info.Status = attendanceModel.StatusPending
	repo.attendances[info.AttendanceID] = info

	svc := newService(repo, &fakeSms{})
	_, err := svc.IssueForAttendance(context.Background(), info.AttendanceID)

	require.Error(t, err)
	ae, ok := helper.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, ae.Status)
	assert.Contains(t, ae.Message, "approved")
}

func TestIssueForAttendance_UnknownRecordIsNotFound(t *testing.T) {
	svc := newService(newFakeRepo(), &fakeSms{})
	_, err := svc.IssueForAttendance(context.Background(), uuid.New())

	ae, ok := helper.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, ae.Status)
}

func TestIssueForAttendance_IsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	info := approvedAttendance("")
	repo.attendances[info.AttendanceID] = info
	svc := newService(repo, &fakeSms{})

	first, err := svc.IssueForAttendance(context.Background(), info.AttendanceID)
	require.NoError(t, err)
	second, err := svc.IssueForAttendance(context.Background(), info.AttendanceID)
	require.NoError(t, err)

	assert.Equal(t, first.PassID, second.PassID)
	assert.Equal(t, first.PassToken, second.PassToken)
	assert.Len(t, repo.passes, 1)
}

func TestIssueForAttendance_PopulatesPassFromAttendance(t *testing.T) {
	repo := newFakeRepo()
	info := approvedAttendance("")
	repo.attendances[info.AttendanceID] = info
	svc := newService(repo, &fakeSms{})

	pass, err := svc.IssueForAttendance(context.Background(), info.AttendanceID)

	require.NoError(t, err)
	require.NotNil(t, pass.PassAttendanceID)
	assert.Equal(t, info.AttendanceID, *pass.PassAttendanceID)
	assert.Equal(t, info.MemberID, *pass.PassMemberID)
	assert.Equal(t, *info.ChurchID, *pass.PassChurchID)
	assert.NotEmpty(t, pass.PassToken)
	assert.True(t, strings.HasPrefix(pass.PassQrPayload, "data:image/png;base64,"))
	require.NotNil(t, pass.PassSessionDate)
	assert.True(t, pass.PassSessionDate.Equal(info.SessionDate))
}

func TestIssueForAttendance_SmsFailureDoesNotFailIssuance(t *testing.T) {
	repo := newFakeRepo()
	info := approvedAttendance("+250788000111")
	repo.attendances[info.AttendanceID] = info
	sender := &fakeSms{enabled: true, sendErr: errors.New("twilio down")}
	svc := newService(repo, sender)

	pass, err := svc.IssueForAttendance(context.Background(), info.AttendanceID)

	require.NoError(t, err)
	assert.Nil(t, pass.PassSmsSentAt)
	assert.Empty(t, repo.smsSentMarks)
}

func TestIssueForAttendance_RecordsSmsSentOnDelivery(t *testing.T) {
	repo := newFakeRepo()
	info := approvedAttendance("+250788000111")
	repo.attendances[info.AttendanceID] = info
	sender := &fakeSms{enabled: true}
	svc := newService(repo, sender)

	pass, err := svc.IssueForAttendance(context.Background(), info.AttendanceID)

	require.NoError(t, err)
	require.NotNil(t, pass.PassSmsSentAt)
	assert.Equal(t, []uuid.UUID{pass.PassID}, repo.smsSentMarks)
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0], "+250788000111")
}

func TestIssueForAttendance_DuplicateInsertSurfacesConflict(t *testing.T) {
	repo := newFakeRepo()
	info := approvedAttendance("")
	repo.attendances[info.AttendanceID] = info
	repo.createErr = &pq.Error{Code: "23505"}
	svc := newService(repo, &fakeSms{})

	_, err := svc.IssueForAttendance(context.Background(), info.AttendanceID)

	ae, ok := helper.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 409, ae.Status)
}

// ---- verification ----------------------------------------------------------

func churchAdmin() helperAuth.Actor {
	return helperAuth.Actor{ID: uuid.New(), Role: constants.RoleChurchAdmin}
}

func TestVerifyToken_UnknownTokenIsInvalidWithoutReason(t *testing.T) {
	svc := newService(newFakeRepo(), &fakeSms{})

	res, err := svc.VerifyToken(context.Background(), churchAdmin(), "no-such-token")

	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Empty(t, res.Reason)
	assert.Nil(t, res.PassID)
}

func TestVerifyToken_ExpiredPassReportsReason(t *testing.T) {
	repo := newFakeRepo()
	expired := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	repo.details["tok"] = &PassDetail{
		Pass: passModel.PassModel{
			PassID:        uuid.New(),
			PassToken:     "tok",
			PassExpiresAt: &expired,
		},
	}
	svc := newService(repo, &fakeSms{})

	res, err := svc.VerifyToken(context.Background(), churchAdmin(), "tok")

	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, "expired", res.Reason)
}

func TestVerifyToken_NoExpiryNeverExpires(t *testing.T) {
	repo := newFakeRepo()
	repo.details["tok"] = &PassDetail{
		Pass: passModel.PassModel{PassID: uuid.New(), PassToken: "tok"},
	}
	svc := newService(repo, &fakeSms{})

	res, err := svc.VerifyToken(context.Background(), churchAdmin(), "tok")

	require.NoError(t, err)
	assert.True(t, res.Valid)
}

func TestVerifyToken_ChurchFallbackOrder(t *testing.T) {
	attChurch := &passDTO.ChurchRef{ID: uuid.New(), Name: "Attendance Church"}
	passChurch := &passDTO.ChurchRef{ID: uuid.New(), Name: "Pass Church"}
	memberChurch := &passDTO.ChurchRef{ID: uuid.New(), Name: "Member Church"}

	cases := []struct {
		name   string
		detail PassDetail
		want   *passDTO.ChurchRef
	}{
		{
			name: "attendance church wins",
			detail: PassDetail{
				AttendanceChurch: attChurch,
				PassChurch:       passChurch,
				Member:           &MemberDetail{ID: uuid.New(), Church: memberChurch},
			},
			want: attChurch,
		},
		{
			name: "pass church when no attendance",
			detail: PassDetail{
				PassChurch: passChurch,
				Member:     &MemberDetail{ID: uuid.New(), Church: memberChurch},
			},
			want: passChurch,
		},
		{
			name: "member church as last resort",
			detail: PassDetail{
				Member: &MemberDetail{ID: uuid.New(), Church: memberChurch},
			},
			want: memberChurch,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeRepo()
			tc.detail.Pass = passModel.PassModel{PassID: uuid.New(), PassToken: "tok"}
			d := tc.detail
			repo.details["tok"] = &d
			svc := newService(repo, &fakeSms{})

			res, err := svc.VerifyToken(context.Background(), churchAdmin(), "tok")

			require.NoError(t, err)
			require.True(t, res.Valid)
			require.NotNil(t, res.Church)
			assert.Equal(t, tc.want.ID, res.Church.ID)
		})
	}
}

func TestVerifyToken_SessionDateFallsBackToCreatedAt(t *testing.T) {
	repo := newFakeRepo()
	created := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	repo.details["tok"] = &PassDetail{
		Pass: passModel.PassModel{PassID: uuid.New(), PassToken: "tok", PassCreatedAt: created},
	}
	svc := newService(repo, &fakeSms{})

	res, err := svc.VerifyToken(context.Background(), churchAdmin(), "tok")

	require.NoError(t, err)
	require.NotNil(t, res.SessionDate)
	assert.True(t, res.SessionDate.Equal(created))
}

func TestVerifyToken_LegacyMemberPassIsMaterialized(t *testing.T) {
	repo := newFakeRepo()
	memberID := uuid.New()
	church := &passDTO.ChurchRef{ID: uuid.New(), Name: "Gikondo SDA"}
	repo.memberPass["legacy-tok"] = &MemberPassDetail{
		Pass: passModel.MemberPassModel{
			MemberPassID:        uuid.New(),
			MemberPassMemberID:  memberID,
			MemberPassToken:     "legacy-tok",
			MemberPassQrPayload: "data:image/png;base64,legacy",
			MemberPassUpdatedAt: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		},
		Church: church,
	}
	svc := newService(repo, &fakeSms{})

	res, err := svc.VerifyToken(context.Background(), churchAdmin(), "legacy-tok")

	require.NoError(t, err)
	assert.True(t, res.Valid)
	require.NotNil(t, res.Church)
	assert.Equal(t, church.ID, res.Church.ID)

	// mirrored into the primary table so the next scan skips the legacy path
	mirrored, repoErr := repo.PassDetailByToken(context.Background(), "legacy-tok")
	require.NoError(t, repoErr)
	require.NotNil(t, mirrored)
	require.NotNil(t, mirrored.Pass.PassMemberID)
	assert.Equal(t, memberID, *mirrored.Pass.PassMemberID)
	assert.Equal(t, "data:image/png;base64,legacy", mirrored.Pass.PassQrPayload)
}

func TestVerifyToken_PoliceVerifierRecordsCheckIn(t *testing.T) {
	repo := newFakeRepo()
	memberID := uuid.New()
	church := &passDTO.ChurchRef{ID: uuid.New(), Name: "Remera SDA"}
	repo.details["tok"] = &PassDetail{
		Pass:       passModel.PassModel{PassID: uuid.New(), PassToken: "tok"},
		PassChurch: church,
		Member:     &MemberDetail{ID: memberID},
	}
	svc := newService(repo, &fakeSms{})
	officer := helperAuth.Actor{ID: uuid.New(), Role: constants.RolePoliceVerifier}

	res, err := svc.VerifyToken(context.Background(), officer, "tok")
	require.NoError(t, err)
	require.True(t, res.Valid)

	require.Len(t, repo.checkIns, 1)
	assert.Equal(t, memberID, repo.checkIns[0].MemberID)
	assert.Equal(t, officer.ID, repo.checkIns[0].ApprovedBy)

	// a second scan the same day reuses the day's session
	_, err = svc.VerifyToken(context.Background(), officer, "tok")
	require.NoError(t, err)
	require.Len(t, repo.checkIns, 2)
	assert.Equal(t, repo.checkIns[0].SessionID, repo.checkIns[1].SessionID)
	assert.Len(t, repo.sessions, 1)
}

func TestVerifyToken_AdminScanDoesNotCheckIn(t *testing.T) {
	repo := newFakeRepo()
	repo.details["tok"] = &PassDetail{
		Pass:       passModel.PassModel{PassID: uuid.New(), PassToken: "tok"},
		PassChurch: &passDTO.ChurchRef{ID: uuid.New(), Name: "Remera SDA"},
		Member:     &MemberDetail{ID: uuid.New()},
	}
	svc := newService(repo, &fakeSms{})

	res, err := svc.VerifyToken(context.Background(), churchAdmin(), "tok")

	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Empty(t, repo.checkIns)
}

// ---- revocation ------------------------------------------------------------

func TestRevokeForAttendance_MissingPassIsClientError(t *testing.T) {
	svc := newService(newFakeRepo(), &fakeSms{})

	err := svc.RevokeForAttendance(context.Background(), uuid.New())

	ae, ok := helper.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, ae.Status)
	assert.Contains(t, ae.Message, "No pass associated")
}

func TestRevokeForAttendance_DeletesPass(t *testing.T) {
	repo := newFakeRepo()
	info := approvedAttendance("")
	repo.attendances[info.AttendanceID] = info
	svc := newService(repo, &fakeSms{})

	pass, err := svc.IssueForAttendance(context.Background(), info.AttendanceID)
	require.NoError(t, err)

	require.NoError(t, svc.RevokeForAttendance(context.Background(), info.AttendanceID))
	assert.Equal(t, []uuid.UUID{pass.PassID}, repo.deletedPasses)
	assert.Empty(t, repo.passes)
}

func TestRevokeForAttendanceIfAny_SkipsSilentlyWhenNoPass(t *testing.T) {
	svc := newService(newFakeRepo(), &fakeSms{})

	assert.NoError(t, svc.RevokeForAttendanceIfAny(context.Background(), uuid.New()))
}
