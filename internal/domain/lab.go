package domain

import (
	"time"

	"github.com/google/uuid"
)

// Lab represents a laboratory that owns equipment
type Lab struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Location    string    `json:"location" db:"location"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type CreateLabRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Location    string `json:"location" validate:"max=200"`
	Description string `json:"description" validate:"max=1000"`
}

type UpdateLabRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=120"`
	Location    *string `json:"location" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

// Apply copies the provided fields onto lab.
func (r *UpdateLabRequest) Apply(lab *Lab) {
	if r.Name != nil {
		lab.Name = *r.Name
	}
	if r.Location != nil {
		lab.Location = *r.Location
	}
	if r.Description != nil {
		lab.Description = *r.Description
	}
}
