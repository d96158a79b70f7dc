package service

import (
	"context"
	"log"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	auditModel "umuganda_backend/internals/features/audit/model"
	helperAuth "umuganda_backend/internals/helpers/auth"
)

type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// Record writes one audit row. Failures are logged and swallowed so auditing
// never breaks the operation it describes.
func (s *AuditService) Record(ctx context.Context, actor *helperAuth.Actor, userName, action string, details datatypes.JSON, ip, userAgent string) {
	entry := auditModel.AuditLogModel{
		AuditLogUserName: userName,
		AuditLogAction:   action,
		AuditLogDetails:  details,
	}
	if actor != nil {
		id := actor.ID
		role := actor.Role
		entry.AuditLogUserID = &id
		entry.AuditLogRole = &role
	}
	if ip != "" {
		entry.AuditLogIP = &ip
	}
	if userAgent != "" {
		entry.AuditLogUserAgent = &userAgent
	}

	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		log.Printf("[ERROR] audit log write failed (action=%s): %v", action, err)
	}
}

type ListFilters struct {
	Action string
	UserID *uuid.UUID
	Limit  int
	Offset int
}

func (s *AuditService) List(ctx context.Context, filters ListFilters) ([]auditModel.AuditLogModel, int64, error) {
	query := s.db.WithContext(ctx).Model(&auditModel.AuditLogModel{})
	if filters.Action != "" {
		query = query.Where("audit_log_action = ?", filters.Action)
	}
	if filters.UserID != nil {
		query = query.Where("audit_log_user_id = ?", *filters.UserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []auditModel.AuditLogModel
	if err := query.
		Order("audit_log_created_at DESC").
		Limit(filters.Limit).
		Offset(filters.Offset).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
