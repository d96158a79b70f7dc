package dto

import "github.com/google/uuid"

type CreateDistrictRequest struct {
	UnionID uuid.UUID `json:"union_id" validate:"required"`
	Name    string    `json:"name" validate:"required,min=2,max=150"`
}

type UpdateDistrictRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=2,max=150"`
}
