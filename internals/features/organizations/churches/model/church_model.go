package model

import (
	"time"

	"github.com/google/uuid"
)

type ChurchModel struct {
	ChurchID               uuid.UUID  `gorm:"column:church_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"church_id"`
	ChurchDistrictID       uuid.UUID  `gorm:"column:church_district_id;type:uuid;not null;index:idx_churches_district_id" json:"church_district_id"`
	ChurchName             string     `gorm:"column:church_name;type:varchar(150);not null" json:"church_name"`
	ChurchLocation         *string    `gorm:"column:church_location;type:varchar(255)" json:"church_location,omitempty"`
	ChurchDistrictPastorID *uuid.UUID `gorm:"column:church_district_pastor_id;type:uuid;index:idx_churches_pastor_id" json:"church_district_pastor_id,omitempty"`
	ChurchCreatedAt        time.Time  `gorm:"column:church_created_at;type:timestamptz;autoCreateTime" json:"church_created_at"`
	ChurchUpdatedAt        time.Time  `gorm:"column:church_updated_at;type:timestamptz;autoUpdateTime" json:"church_updated_at"`
}

func (ChurchModel) TableName() string {
	return "churches"
}
