package scheduler

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	authModel "umuganda_backend/internals/features/users/auth/model"
)

// StartCleanupScheduler prunes expired blacklist entries and spent or expired
// password reset tokens once a day. The returned cron can be stopped on
// shutdown.
func StartCleanupScheduler(db *gorm.DB) *cron.Cron {
	c := cron.New()

	if _, err := c.AddFunc("@daily", func() {
		cleanupBlacklist(db)
		cleanupResetTokens(db)
	}); err != nil {
		log.Printf("[ERROR] failed to schedule auth cleanup: %v", err)
		return c
	}

	c.Start()
	return c
}

func cleanupBlacklist(db *gorm.DB) {
	res := db.Unscoped().
		Where("expires_at < ?", time.Now()).
		Delete(&authModel.TokenBlacklistModel{})
	if res.Error != nil {
		log.Printf("[ERROR] blacklist cleanup failed: %v", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("[INFO] blacklist cleanup removed %d expired tokens", res.RowsAffected)
	}
}

func cleanupResetTokens(db *gorm.DB) {
	res := db.
		Where("reset_token_expires_at < ? OR reset_token_used_at IS NOT NULL", time.Now()).
		Delete(&authModel.PasswordResetTokenModel{})
	if res.Error != nil {
		log.Printf("[ERROR] reset token cleanup failed: %v", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("[INFO] reset token cleanup removed %d rows", res.RowsAffected)
	}
}
