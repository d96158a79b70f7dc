package model

import (
	"time"

	"github.com/google/uuid"
)

// Reset tokens follow a compensating-transaction pattern: the row is created
// first, delivery is attempted, and on delivery failure the row is deleted
// again before the error is re-raised.
type PasswordResetTokenModel struct {
	ResetTokenID        uuid.UUID  `gorm:"column:reset_token_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"reset_token_id"`
	ResetTokenUserID    uuid.UUID  `gorm:"column:reset_token_user_id;type:uuid;not null;index:idx_reset_tokens_user_id" json:"reset_token_user_id"`
	ResetTokenValue     string     `gorm:"column:reset_token_value;type:varchar(64);not null;uniqueIndex:ux_reset_tokens_value" json:"-"`
	ResetTokenExpiresAt time.Time  `gorm:"column:reset_token_expires_at;type:timestamptz;not null" json:"reset_token_expires_at"`
	ResetTokenUsedAt    *time.Time `gorm:"column:reset_token_used_at;type:timestamptz" json:"reset_token_used_at,omitempty"`
	ResetTokenCreatedAt time.Time  `gorm:"column:reset_token_created_at;type:timestamptz;autoCreateTime" json:"reset_token_created_at"`
}

func (PasswordResetTokenModel) TableName() string {
	return "password_reset_tokens"
}
