package models

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	ID           int    `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"` // never serialized
	Role         Role   `json:"role"`

	IsEmailVerified bool `json:"is_email_verified"`

	// Only sha256 digests of outstanding tokens are stored; a digest and its
	// expiry are always set and cleared together.
	VerificationTokenHash    *string    `json:"-"`
	VerificationTokenExpires *time.Time `json:"-"`
	ResetTokenHash           *string    `json:"-"`
	ResetTokenExpires        *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// Public returns the fields safe to hand to clients.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:              u.ID,
		Email:           u.Email,
		Name:            u.Name,
		Role:            u.Role,
		IsEmailVerified: u.IsEmailVerified,
	}
}

type PublicUser struct {
	ID              int    `json:"id"`
	Email           string `json:"email"`
	Name            string `json:"name"`
	Role            Role   `json:"role"`
	IsEmailVerified bool   `json:"is_email_verified"`
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ResendVerificationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=6"`
}
