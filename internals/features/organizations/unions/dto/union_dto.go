package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateUnionRequest struct {
	Name     string  `json:"name" validate:"required,min=2,max=150"`
	Location *string `json:"location,omitempty" validate:"omitempty,max=255"`
}

type UpdateUnionRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=2,max=150"`
	Location *string `json:"location,omitempty" validate:"omitempty,max=255"`
}

// UnionStats is the roll-up a union admin sees on the dashboard.
type UnionStats struct {
	UnionID       uuid.UUID `json:"union_id"`
	UnionName     string    `json:"union_name"`
	DistrictCount int64     `json:"district_count"`
	ChurchCount   int64     `json:"church_count"`
	MemberCount   int64     `json:"member_count"`
	CreatedAt     time.Time `json:"created_at"`
}
