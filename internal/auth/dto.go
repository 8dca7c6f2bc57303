package auth

import "github.com/angelmondragon/scootershop-backend/pkg/enums"

// RegisterRequest is the body of POST /api/register.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=72"`
}

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionResponse is returned by register and login.
type SessionResponse struct {
	Token string         `json:"token"`
	Name  string         `json:"name"`
	Code  string         `json:"code"`
	Role  enums.UserRole `json:"role"`
}
