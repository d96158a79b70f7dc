package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AuditLogModel struct {
	AuditLogID        uuid.UUID      `gorm:"column:audit_log_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"audit_log_id"`
	AuditLogUserID    *uuid.UUID     `gorm:"column:audit_log_user_id;type:uuid;index:idx_audit_logs_user_id" json:"audit_log_user_id,omitempty"`
	AuditLogUserName  string         `gorm:"column:audit_log_user_name;type:varchar(200);not null" json:"audit_log_user_name"`
	AuditLogRole      *string        `gorm:"column:audit_log_role;type:varchar(20)" json:"audit_log_role,omitempty"`
	AuditLogAction    string         `gorm:"column:audit_log_action;type:varchar(100);not null;index:idx_audit_logs_action" json:"audit_log_action"`
	AuditLogDetails   datatypes.JSON `gorm:"column:audit_log_details;type:jsonb" json:"audit_log_details,omitempty"`
	AuditLogIP        *string        `gorm:"column:audit_log_ip;type:varchar(64)" json:"audit_log_ip,omitempty"`
	AuditLogUserAgent *string        `gorm:"column:audit_log_user_agent;type:text" json:"audit_log_user_agent,omitempty"`
	AuditLogCreatedAt time.Time      `gorm:"column:audit_log_created_at;type:timestamptz;autoCreateTime" json:"audit_log_created_at"`
}

func (AuditLogModel) TableName() string {
	return "audit_logs"
}
