package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account that can borrow equipment
type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Role         Role       `json:"role" db:"role"`
	LabID        *uuid.UUID `json:"lab_id,omitempty" db:"lab_id"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// DTOs for requests and responses

type RegisterRequest struct {
	Name     string     `json:"name" validate:"required,max=120"`
	Email    string     `json:"email" validate:"required,email"`
	Password string     `json:"password" validate:"required,min=8,max=72"`
	LabID    *uuid.UUID `json:"lab_id"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}

type CreateUserRequest struct {
	Name     string     `json:"name" validate:"required,max=120"`
	Email    string     `json:"email" validate:"required,email"`
	Password string     `json:"password" validate:"required,min=8,max=72"`
	Role     Role       `json:"role" validate:"required,oneof=admin user"`
	LabID    *uuid.UUID `json:"lab_id"`
}

type UpdateUserRequest struct {
	Name     *string    `json:"name" validate:"omitempty,min=1,max=120"`
	Email    *string    `json:"email" validate:"omitempty,email"`
	Password *string    `json:"password" validate:"omitempty,min=8,max=72"`
	Role     *Role      `json:"role" validate:"omitempty,oneof=admin user"`
	LabID    *uuid.UUID `json:"lab_id"`
}

type UserFilter struct {
	Role   Role
	LabID  *uuid.UUID
	Search string
	Limit  int
	Offset int
}
