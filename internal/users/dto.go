package users

import (
	"time"

	"github.com/angelmondragon/scootershop-backend/pkg/db/models"
	"github.com/angelmondragon/scootershop-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID        uint64         `json:"id"`
	Code      string         `json:"code"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Role      enums.UserRole `json:"role"`
	CreatedAt time.Time      `json:"created_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Code         string
	Name         string
	Email        string
	PasswordHash string
	Role         enums.UserRole
}

// SetRoleRequest is the body of PUT /api/users/{id}/role.
type SetRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:        u.ID,
		Code:      u.Code,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	role := c.Role
	if role == "" {
		role = enums.UserRoleUser
	}
	return &models.User{
		Code:         c.Code,
		Name:         c.Name,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		Role:         role,
	}
}
