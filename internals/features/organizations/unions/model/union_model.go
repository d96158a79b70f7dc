package model

import (
	"time"

	"github.com/google/uuid"
)

type UnionModel struct {
	UnionID        uuid.UUID `gorm:"column:union_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"union_id"`
	UnionName      string    `gorm:"column:union_name;type:varchar(150);not null;uniqueIndex:ux_unions_name" json:"union_name"`
	UnionLocation  *string   `gorm:"column:union_location;type:varchar(255)" json:"union_location,omitempty"`
	UnionCreatedAt time.Time `gorm:"column:union_created_at;type:timestamptz;autoCreateTime" json:"union_created_at"`
	UnionUpdatedAt time.Time `gorm:"column:union_updated_at;type:timestamptz;autoUpdateTime" json:"union_updated_at"`
}

func (UnionModel) TableName() string {
	return "unions"
}
