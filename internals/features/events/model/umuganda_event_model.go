package model

import (
	"time"

	"github.com/google/uuid"
)

// A union-wide scheduled community activity, tracked separately from the
// regular church sessions.
type UmugandaEventModel struct {
	EventID        uuid.UUID  `gorm:"column:event_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"event_id"`
	EventUnionID   uuid.UUID  `gorm:"column:event_union_id;type:uuid;not null;index:idx_umuganda_events_union_id" json:"event_union_id"`
	EventDate      time.Time  `gorm:"column:event_date;type:timestamptz;not null" json:"event_date"`
	EventTheme     *string    `gorm:"column:event_theme;type:varchar(255)" json:"event_theme,omitempty"`
	EventLocation  *string    `gorm:"column:event_location;type:varchar(255)" json:"event_location,omitempty"`
	EventCreatedBy *uuid.UUID `gorm:"column:event_created_by;type:uuid" json:"event_created_by,omitempty"`
	EventCreatedAt time.Time  `gorm:"column:event_created_at;type:timestamptz;autoCreateTime" json:"event_created_at"`
	EventUpdatedAt time.Time  `gorm:"column:event_updated_at;type:timestamptz;autoUpdateTime" json:"event_updated_at"`
}

func (UmugandaEventModel) TableName() string {
	return "umuganda_events"
}
