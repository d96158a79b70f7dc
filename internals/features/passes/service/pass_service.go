package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"umuganda_backend/internals/constants"
	attendanceModel "umuganda_backend/internals/features/attendance/records/model"
	passDTO "umuganda_backend/internals/features/passes/dto"
	passModel "umuganda_backend/internals/features/passes/model"
	helper "umuganda_backend/internals/helpers"
	helperAuth "umuganda_backend/internals/helpers/auth"
	"umuganda_backend/internals/helpers/qr"
	"umuganda_backend/internals/helpers/sms"
)

// AttendanceIssueInfo is everything issuance needs about an attendance record,
// loaded in one round trip.
type AttendanceIssueInfo struct {
	AttendanceID    uuid.UUID
	Status          string
	SessionDate     time.Time
	ChurchID        *uuid.UUID
	MemberID        uuid.UUID
	MemberFirstName string
	MemberLastName  string
	MemberPhone     string
	ExistingPass    *passModel.PassModel
}

type MemberDetail struct {
	ID         uuid.UUID
	FirstName  string
	LastName   string
	NationalID string
	Church     *passDTO.ChurchRef
}

// PassDetail is a pass with its related rows resolved. AttendanceChurch and
// AttendanceSessionDate come from the bound attendance record when one exists;
// PassChurch from the denormalized pass column; Member carries the member's
// current church for the last fallback tier.
type PassDetail struct {
	Pass                  passModel.PassModel
	AttendanceSessionDate *time.Time
	AttendanceChurch      *passDTO.ChurchRef
	PassChurch            *passDTO.ChurchRef
	Member                *MemberDetail
}

type MemberPassDetail struct {
	Pass   passModel.MemberPassModel
	Church *passDTO.ChurchRef
}

// Repository is the storage surface the pass lifecycle needs. Lookup methods
// return (nil, nil) when the row does not exist.
type Repository interface {
	AttendanceForIssue(ctx context.Context, attendanceID uuid.UUID) (*AttendanceIssueInfo, error)
	CreatePass(ctx context.Context, pass *passModel.PassModel) error
	MarkSmsSent(ctx context.Context, passID uuid.UUID, at time.Time) error

	PassDetailByToken(ctx context.Context, token string) (*PassDetail, error)
	MemberPassByToken(ctx context.Context, token string) (*MemberPassDetail, error)
	UpsertMemberMirror(ctx context.Context, pass *passModel.PassModel) error

	PassesForAttendance(ctx context.Context, attendanceID uuid.UUID) ([]passModel.PassModel, error)
	DeletePass(ctx context.Context, passID uuid.UUID) error

	EnsureTodaySession(ctx context.Context, churchID uuid.UUID, now time.Time) (uuid.UUID, error)
	UpsertApprovedAttendance(ctx context.Context, sessionID, memberID, approvedBy uuid.UUID) error
}

type PassService struct {
	repo Repository
	sms  sms.Sender
	qr   qr.Renderer
	now  func() time.Time
}

func NewPassService(repo Repository, sender sms.Sender, renderer qr.Renderer) *PassService {
	return &PassService{repo: repo, sms: sender, qr: renderer, now: time.Now}
}

// IssueForAttendance creates a pass for an approved attendance record. Calling
// it again for the same record returns the existing pass unchanged, so approve
// endpoints can request issuance without checking first.
func (s *PassService) IssueForAttendance(ctx context.Context, attendanceID uuid.UUID) (*passModel.PassModel, error) {
	info, err := s.repo.AttendanceForIssue(ctx, attendanceID)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, helper.ErrNotFound("Attendance record not found")
	}
	if info.Status != attendanceModel.StatusApproved {
		return nil, helper.ErrBadRequest("Attendance must be approved before issuing a pass")
	}
	if info.ExistingPass != nil {
		return info.ExistingPass, nil
	}

	token := uuid.NewString()
	payload, err := s.qr.Render(token)
	if err != nil {
		return nil, err
	}

	sessionDate := info.SessionDate
	pass := &passModel.PassModel{
		PassAttendanceID: &info.AttendanceID,
		PassMemberID:     &info.MemberID,
		PassChurchID:     info.ChurchID,
		PassToken:        token,
		PassQrPayload:    payload,
		PassSessionDate:  &sessionDate,
	}
	if err := s.repo.CreatePass(ctx, pass); err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.ErrConflict("A pass already exists for this attendance")
		}
		return nil, err
	}

	s.sendPassSms(ctx, pass, info)
	return pass, nil
}

// sendPassSms is best effort. Delivery failure never fails issuance; the pass
// row only records pass_sms_sent_at when the provider accepted the message.
func (s *PassService) sendPassSms(ctx context.Context, pass *passModel.PassModel, info *AttendanceIssueInfo) {
	if !s.sms.Enabled() || info.MemberPhone == "" {
		return
	}
	msg := fmt.Sprintf(
		"Umuganda pass for %s %s, session %s. Present the QR code at verification.",
		info.MemberFirstName, info.MemberLastName, info.SessionDate.Format("2006-01-02"),
	)
	if err := s.sms.Send(info.MemberPhone, msg); err != nil {
		log.Printf("[ERROR] pass SMS to %s failed: %v", info.MemberPhone, err)
		return
	}
	at := s.now()
	pass.PassSmsSentAt = &at
	if err := s.repo.MarkSmsSent(ctx, pass.PassID, at); err != nil {
		log.Printf("[ERROR] failed to record SMS sent for pass %s: %v", pass.PassID, err)
	}
}

// VerifyToken resolves a scanned token. Lookup order is the primary passes
// table, then the legacy member_passes table; a legacy hit is mirrored into
// passes first so subsequent scans take the primary path. Expiry is computed
// against the clock, never stored. A verification by a POLICE_VERIFIER also
// records the member as APPROVED on today's session for the resolved church.
func (s *PassService) VerifyToken(ctx context.Context, actor helperAuth.Actor, token string) (*passDTO.VerificationResult, error) {
	detail, err := s.repo.PassDetailByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		detail, err = s.materializeMemberPass(ctx, token)
		if err != nil {
			return nil, err
		}
		if detail == nil {
			return &passDTO.VerificationResult{Valid: false}, nil
		}
	}

	if detail.Pass.IsExpired(s.now()) {
		return &passDTO.VerificationResult{Valid: false, Reason: "expired"}, nil
	}

	church := detail.AttendanceChurch
	if church == nil {
		church = detail.PassChurch
	}
	if church == nil && detail.Member != nil {
		church = detail.Member.Church
	}

	sessionDate := detail.AttendanceSessionDate
	if sessionDate == nil {
		sessionDate = detail.Pass.PassSessionDate
	}
	if sessionDate == nil {
		created := detail.Pass.PassCreatedAt
		sessionDate = &created
	}

	var member *passDTO.MemberRef
	if detail.Member != nil {
		member = &passDTO.MemberRef{
			ID:         detail.Member.ID,
			FirstName:  detail.Member.FirstName,
			LastName:   detail.Member.LastName,
			NationalID: detail.Member.NationalID,
		}
	}

	if actor.Role == constants.RolePoliceVerifier && church != nil && detail.Member != nil {
		sessionID, err := s.repo.EnsureTodaySession(ctx, church.ID, s.now())
		if err != nil {
			return nil, err
		}
		if err := s.repo.UpsertApprovedAttendance(ctx, sessionID, detail.Member.ID, actor.ID); err != nil {
			return nil, err
		}
	}

	issuedAt := detail.Pass.PassCreatedAt
	passID := detail.Pass.PassID
	return &passDTO.VerificationResult{
		Valid:       true,
		PassID:      &passID,
		IssuedAt:    &issuedAt,
		SessionDate: sessionDate,
		Church:      church,
		Member:      member,
	}, nil
}

// materializeMemberPass copies a legacy standing pass into the primary table,
// keyed on the member, then re-reads it through the primary path. Returns
// (nil, nil) when the token is unknown in both tables.
func (s *PassService) materializeMemberPass(ctx context.Context, token string) (*PassDetail, error) {
	mp, err := s.repo.MemberPassByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if mp == nil {
		return nil, nil
	}

	memberID := mp.Pass.MemberPassMemberID
	var churchID *uuid.UUID
	if mp.Church != nil {
		id := mp.Church.ID
		churchID = &id
	}
	sessionDate := mp.Pass.MemberPassUpdatedAt
	mirror := &passModel.PassModel{
		PassMemberID:    &memberID,
		PassChurchID:    churchID,
		PassToken:       mp.Pass.MemberPassToken,
		PassQrPayload:   mp.Pass.MemberPassQrPayload,
		PassSessionDate: &sessionDate,
		PassExpiresAt:   mp.Pass.MemberPassExpiresAt,
		PassSmsSentAt:   mp.Pass.MemberPassSmsSentAt,
	}
	if err := s.repo.UpsertMemberMirror(ctx, mirror); err != nil {
		return nil, err
	}
	return s.repo.PassDetailByToken(ctx, token)
}

// RevokeForAttendance deletes the pass bound to an attendance record. Unlike
// the silent skip on un-approval, a direct revoke of a pass-less record is an
// explicit client error.
func (s *PassService) RevokeForAttendance(ctx context.Context, attendanceID uuid.UUID) error {
	passes, err := s.repo.PassesForAttendance(ctx, attendanceID)
	if err != nil {
		return err
	}
	if len(passes) == 0 {
		return helper.ErrBadRequest("No pass associated with this attendance")
	}
	for _, p := range passes {
		if err := s.repo.DeletePass(ctx, p.PassID); err != nil {
			return err
		}
	}
	return nil
}

// RevokeForAttendanceIfAny is the un-approval path: deleting zero passes is
// fine, the record simply never had one issued.
func (s *PassService) RevokeForAttendanceIfAny(ctx context.Context, attendanceID uuid.UUID) error {
	passes, err := s.repo.PassesForAttendance(ctx, attendanceID)
	if err != nil {
		return err
	}
	for _, p := range passes {
		if err := s.repo.DeletePass(ctx, p.PassID); err != nil {
			return err
		}
	}
	return nil
}
