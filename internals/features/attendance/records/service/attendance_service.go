package service

import (
	"context"

	"github.com/google/uuid"

	"umuganda_backend/internals/constants"
	attendanceDTO "umuganda_backend/internals/features/attendance/records/dto"
	attendanceModel "umuganda_backend/internals/features/attendance/records/model"
	sessionModel "umuganda_backend/internals/features/attendance/sessions/model"
	passModel "umuganda_backend/internals/features/passes/model"
	userModel "umuganda_backend/internals/features/users/user/model"
	helper "umuganda_backend/internals/helpers"
	"umuganda_backend/internals/helpers/access"
	helperAuth "umuganda_backend/internals/helpers/auth"
)

// ListQuery is the fully resolved constraint set for a record listing.
type ListQuery struct {
	Scope     access.ListScope
	SessionID *uuid.UUID
	Status    *string
	Limit     int
	Offset    int
}

// Repository is the storage surface of the attendance state machine. Lookup
// methods return (nil, nil) when the row does not exist.
type Repository interface {
	SessionByID(ctx context.Context, sessionID uuid.UUID) (*sessionModel.UmugandaSessionModel, error)
	MemberByID(ctx context.Context, memberID uuid.UUID) (*userModel.UserModel, error)
	CreateRecord(ctx context.Context, record *attendanceModel.AttendanceRecordModel) error
	RecordByID(ctx context.Context, recordID uuid.UUID) (*attendanceModel.AttendanceRecordModel, error)
	SaveRecord(ctx context.Context, record *attendanceModel.AttendanceRecordModel) error
	ListRecords(ctx context.Context, q ListQuery) ([]attendanceDTO.AttendanceResponse, int64, error)
}

// PassIssuer is the slice of the pass lifecycle the state machine drives.
// Approval issues, un-approval revokes without complaint when nothing exists.
type PassIssuer interface {
	IssueForAttendance(ctx context.Context, attendanceID uuid.UUID) (*passModel.PassModel, error)
	RevokeForAttendanceIfAny(ctx context.Context, attendanceID uuid.UUID) error
}

type AttendanceService struct {
	repo   Repository
	passes PassIssuer
}

func NewAttendanceService(repo Repository, passes PassIssuer) *AttendanceService {
	return &AttendanceService{repo: repo, passes: passes}
}

// Create records a member as present on a session, starting at PENDING. The
// member must belong to the session's church; duplicates surface as Conflict
// via the composite unique index.
func (s *AttendanceService) Create(ctx context.Context, req attendanceDTO.CreateAttendanceRequest) (*attendanceModel.AttendanceRecordModel, error) {
	session, err := s.repo.SessionByID(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, helper.ErrNotFound("Session not found")
	}

	member, err := s.repo.MemberByID(ctx, req.MemberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, helper.ErrNotFound("Member not found")
	}
	if member.UserRole != constants.RoleMember {
		return nil, helper.ErrBadRequest("Attendance can only be recorded for members")
	}
	if member.UserChurchID == nil || *member.UserChurchID != session.SessionChurchID {
		return nil, helper.ErrBadRequest("Member does not belong to this session's church")
	}

	record := &attendanceModel.AttendanceRecordModel{
		AttendanceSessionID: req.SessionID,
		AttendanceMemberID:  req.MemberID,
		AttendanceStatus:    attendanceModel.StatusPending,
	}
	if err := s.repo.CreateRecord(ctx, record); err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.ErrConflict("Attendance already recorded for this member on this session")
		}
		return nil, err
	}
	return record, nil
}

// UpdateStatus is the PENDING/APPROVED transition. Approving stamps the actor
// as approver and by default issues a pass; a failed issuance is reported in
// the result, not as an error, so the approval itself is never rolled back.
// Moving back to PENDING clears the approver and revokes any pass.
func (s *AttendanceService) UpdateStatus(ctx context.Context, actor helperAuth.Actor, recordID uuid.UUID, req attendanceDTO.UpdateAttendanceRequest) (*attendanceDTO.UpdateAttendanceResult, error) {
	if req.Status != attendanceModel.StatusPending && req.Status != attendanceModel.StatusApproved {
		return nil, helper.ErrValidation("Status must be PENDING or APPROVED")
	}

	record, err := s.repo.RecordByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, helper.ErrNotFound("Attendance record not found")
	}

	switch req.Status {
	case attendanceModel.StatusApproved:
		record.AttendanceStatus = attendanceModel.StatusApproved
		approver := actor.ID
		record.AttendanceApprovedBy = &approver
	case attendanceModel.StatusPending:
		record.AttendanceStatus = attendanceModel.StatusPending
		record.AttendanceApprovedBy = nil
	}
	if err := s.repo.SaveRecord(ctx, record); err != nil {
		return nil, err
	}

	result := &attendanceDTO.UpdateAttendanceResult{Record: record}

	if req.Status == attendanceModel.StatusApproved {
		issuePass := req.IssuePass == nil || *req.IssuePass
		if issuePass {
			pass, err := s.passes.IssueForAttendance(ctx, recordID)
			if err != nil {
				result.PassError = err.Error()
			} else {
				result.Pass = pass
			}
		}
		return result, nil
	}

	if err := s.passes.RevokeForAttendanceIfAny(ctx, recordID); err != nil {
		return nil, err
	}
	return result, nil
}

// List applies the resolved scope plus the caller's narrowing filters.
func (s *AttendanceService) List(ctx context.Context, actor helperAuth.Actor, filters attendanceDTO.ListAttendanceFilters, limit, offset int) ([]attendanceDTO.AttendanceResponse, int64, error) {
	scope, err := access.ResolveListScope(actor, access.ListFilters{
		DistrictID: filters.DistrictID,
		ChurchID:   filters.ChurchID,
	})
	if err != nil {
		return nil, 0, err
	}
	return s.repo.ListRecords(ctx, ListQuery{
		Scope:     scope,
		SessionID: filters.SessionID,
		Status:    filters.Status,
		Limit:     limit,
		Offset:    offset,
	})
}
