package dto

import "github.com/google/uuid"

type CreateChurchRequest struct {
	DistrictID uuid.UUID `json:"district_id" validate:"required"`
	Name       string    `json:"name" validate:"required,min=2,max=150"`
	Location   *string   `json:"location,omitempty" validate:"omitempty,max=255"`
}

type UpdateChurchRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=2,max=150"`
	Location *string `json:"location,omitempty" validate:"omitempty,max=255"`
}
