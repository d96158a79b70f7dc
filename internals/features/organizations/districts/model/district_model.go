package model

import (
	"time"

	"github.com/google/uuid"
)

// A district belongs to exactly one union; reparenting is a cascading admin
// operation, never an incidental update.
type DistrictModel struct {
	DistrictID        uuid.UUID `gorm:"column:district_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"district_id"`
	DistrictUnionID   uuid.UUID `gorm:"column:district_union_id;type:uuid;not null;index:idx_districts_union_id" json:"district_union_id"`
	DistrictName      string    `gorm:"column:district_name;type:varchar(150);not null" json:"district_name"`
	DistrictCreatedAt time.Time `gorm:"column:district_created_at;type:timestamptz;autoCreateTime" json:"district_created_at"`
	DistrictUpdatedAt time.Time `gorm:"column:district_updated_at;type:timestamptz;autoUpdateTime" json:"district_updated_at"`
}

func (DistrictModel) TableName() string {
	return "districts"
}
