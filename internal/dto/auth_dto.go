package dto

import (
	"time"

	"github.com/fadilmartias/mock-interview/internal/model"
	"github.com/google/uuid"
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"max=100"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func (r RegisterRequest) Validate() map[string]string { return validateStruct(r) }

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r LoginRequest) Validate() map[string]string { return validateStruct(r) }

type UserDTO struct {
	ID        uuid.UUID          `json:"id"`
	Email     string             `json:"email"`
	Name      string             `json:"name"`
	Plan      string             `json:"plan"`
	Usage     model.UsageCounter `json:"usage"`
	CreatedAt time.Time          `json:"created_at"`
}

type LoginResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

func NewUserDTO(u *model.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Plan:      u.Plan,
		Usage:     u.UsageCounter,
		CreatedAt: u.CreatedAt,
	}
}
