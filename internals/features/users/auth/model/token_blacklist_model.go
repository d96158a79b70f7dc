package model

import (
	"time"

	"gorm.io/gorm"
)

// Access tokens invalidated by logout. Checked on every authenticated request;
// the cleanup scheduler prunes rows past their expiry.
type TokenBlacklistModel struct {
	ID        uint           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Token     string         `gorm:"column:token;type:text;not null;uniqueIndex:ux_token_blacklist_token" json:"token"`
	ExpiresAt time.Time      `gorm:"column:expires_at;type:timestamptz;not null" json:"expires_at"`
	CreatedAt time.Time      `gorm:"column:created_at;type:timestamptz;autoCreateTime" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (TokenBlacklistModel) TableName() string {
	return "token_blacklists"
}
