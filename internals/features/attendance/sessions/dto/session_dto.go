package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	SessionDate time.Time `json:"session_date" validate:"required"`
	Theme       *string   `json:"theme,omitempty" validate:"omitempty,max=255"`
}

type UpdateSessionRequest struct {
	SessionDate *time.Time `json:"session_date,omitempty"`
	Theme       *string    `json:"theme,omitempty" validate:"omitempty,max=255"`
}

type SessionResponse struct {
	SessionID   uuid.UUID  `json:"session_id"`
	ChurchID    uuid.UUID  `json:"church_id"`
	ChurchName  string     `json:"church_name"`
	SessionDate time.Time  `json:"session_date"`
	Theme       *string    `json:"theme,omitempty"`
	CreatedBy   *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
