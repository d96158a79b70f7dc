package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel covers every role in the program: admins of the three tiers,
// members and police verifiers. The org columns mirror the actor's placement;
// for a MEMBER all three are set (church plus the transitive district/union).
type UserModel struct {
	UserID           uuid.UUID  `gorm:"column:user_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	UserUsername     string     `gorm:"column:user_username;type:varchar(100);not null;uniqueIndex:ux_users_username" json:"user_username"`
	UserNationalID   string     `gorm:"column:user_national_id;type:varchar(30);not null;uniqueIndex:ux_users_national_id" json:"user_national_id"`
	UserFirstName    string     `gorm:"column:user_first_name;type:varchar(100);not null" json:"user_first_name"`
	UserLastName     string     `gorm:"column:user_last_name;type:varchar(100);not null" json:"user_last_name"`
	UserPhoneNumber  string     `gorm:"column:user_phone_number;type:varchar(20);not null;uniqueIndex:ux_users_phone_number" json:"user_phone_number"`
	UserEmail        *string    `gorm:"column:user_email;type:varchar(150);uniqueIndex:ux_users_email" json:"user_email,omitempty"`
	UserPasswordHash string     `gorm:"column:user_password_hash;type:text;not null" json:"-"`
	UserRole         string     `gorm:"column:user_role;type:varchar(20);not null;index:idx_users_role" json:"user_role"`
	UserUnionID      *uuid.UUID `gorm:"column:user_union_id;type:uuid;index:idx_users_union_id" json:"user_union_id,omitempty"`
	UserDistrictID   *uuid.UUID `gorm:"column:user_district_id;type:uuid;index:idx_users_district_id" json:"user_district_id,omitempty"`
	UserChurchID     *uuid.UUID `gorm:"column:user_church_id;type:uuid;index:idx_users_church_id" json:"user_church_id,omitempty"`
	UserIsActive     bool       `gorm:"column:user_is_active;not null;default:true" json:"user_is_active"`
	UserCreatedAt    time.Time  `gorm:"column:user_created_at;type:timestamptz;autoCreateTime" json:"user_created_at"`
	UserUpdatedAt    time.Time  `gorm:"column:user_updated_at;type:timestamptz;autoUpdateTime" json:"user_updated_at"`
}

func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) FullName() string {
	return u.UserFirstName + " " + u.UserLastName
}
