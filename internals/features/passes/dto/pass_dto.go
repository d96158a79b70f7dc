package dto

import (
	"time"

	"github.com/google/uuid"
)

type ChurchRef struct {
	ID   uuid.UUID `json:"church_id"`
	Name string    `json:"church_name"`
}

type MemberRef struct {
	ID         uuid.UUID `json:"member_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	NationalID string    `json:"national_id"`
}

// VerificationResult is what a scanner gets back for a token. Note that when
// the caller is a POLICE_VERIFIER a valid result also means an attendance
// record was written for today's session; see PassService.VerifyToken.
type VerificationResult struct {
	Valid       bool       `json:"valid"`
	Reason      string     `json:"reason,omitempty"`
	PassID      *uuid.UUID `json:"pass_id,omitempty"`
	IssuedAt    *time.Time `json:"issued_at,omitempty"`
	SessionDate *time.Time `json:"session_date,omitempty"`
	Church      *ChurchRef `json:"church,omitempty"`
	Member      *MemberRef `json:"member,omitempty"`
}
