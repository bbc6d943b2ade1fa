package dto

import (
	"time"

	"inkwell_backend/internal/models"
)

type RegisterRequest struct {
	Email     string  `json:"email" validate:"required,email,max=254"`
	Username  *string `json:"username" validate:"omitempty,username"`
	Password  string  `json:"password" validate:"required,strong_password"`
	FirstName string  `json:"first_name" validate:"max=100"`
	LastName  string  `json:"last_name" validate:"max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ProviderLoginRequest carries the ID token (Google, Apple) or access token (Facebook).
type ProviderLoginRequest struct {
	Token string `json:"token" validate:"required"`
}

type TokenRequest struct {
	Token string `json:"token" validate:"required"`
}

type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,strong_password"`
}

// AuthResponse is returned by register, login and provider login.
// The token is also sent in the Authorization response header.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}
