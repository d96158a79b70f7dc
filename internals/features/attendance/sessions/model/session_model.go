package model

import (
	"time"

	"github.com/google/uuid"
)

// An attendance-taking occasion scoped to one church. Police verification
// auto-creates one per church and day when a member scans in the field, so
// session_date lookups are day-bucketed rather than exact-match.
type UmugandaSessionModel struct {
	SessionID        uuid.UUID  `gorm:"column:session_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"session_id"`
	SessionChurchID  uuid.UUID  `gorm:"column:session_church_id;type:uuid;not null;index:idx_sessions_church_id" json:"session_church_id"`
	SessionDate      time.Time  `gorm:"column:session_date;type:timestamptz;not null;index:idx_sessions_date" json:"session_date"`
	SessionTheme     *string    `gorm:"column:session_theme;type:varchar(255)" json:"session_theme,omitempty"`
	SessionCreatedBy *uuid.UUID `gorm:"column:session_created_by;type:uuid" json:"session_created_by,omitempty"`
	SessionCreatedAt time.Time  `gorm:"column:session_created_at;type:timestamptz;autoCreateTime" json:"session_created_at"`
	SessionUpdatedAt time.Time  `gorm:"column:session_updated_at;type:timestamptz;autoUpdateTime" json:"session_updated_at"`
}

func (UmugandaSessionModel) TableName() string {
	return "umuganda_sessions"
}
