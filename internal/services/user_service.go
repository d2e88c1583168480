package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"codedrill/internal/models"
	"codedrill/internal/repositories"
	"codedrill/internal/utils"
)

type UserService interface {
	Register(email, name, password string) (*models.User, error)
	VerifyEmail(rawToken string) (*models.User, error)
	ResendVerification(email string) error
	Login(email, password string) (*models.User, string, error)
	ForgotPassword(email string) error
	ResetPassword(rawToken, newPassword string) error
	GetUserByID(id int) (*models.User, error)
}

type userService struct {
	repo     repositories.UserRepository
	emails   EmailService
	auth     AuthService
	baseURL  string
	tokenTTL time.Duration
}

func NewUserService(repo repositories.UserRepository, emails EmailService, auth AuthService, baseURL string, tokenTTL time.Duration) UserService {
	return &userService{
		repo:     repo,
		emails:   emails,
		auth:     auth,
		baseURL:  strings.TrimRight(baseURL, "/"),
		tokenTTL: tokenTTL,
	}
}

// Register creates an unverified account with a pending verification token and
// mails the raw token. The row is committed before the send: a delivery
// failure leaves the account created and surfaces as a 500 (the user can still
// ask for a resend).
func (s *userService) Register(email, name, password string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	existing, err := s.repo.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("lookup user by email: %w", err)
	}
	if existing != nil {
		return nil, ErrConflict("User already exists", FieldError{Field: "email", Message: "User already exists"})
	}

	passwordHash, err := s.auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	raw, hashed, expiresAt, err := utils.GenerateTemporaryToken(s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("generate verification token: %w", err)
	}

	user := &models.User{
		Email:                    email,
		Name:                     name,
		PasswordHash:             passwordHash,
		Role:                     models.RoleUser,
		IsEmailVerified:          false,
		VerificationTokenHash:    &hashed,
		VerificationTokenExpires: &expiresAt,
	}
	if err := s.repo.Create(user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	log.Printf("[auth][register] user created id=%d email=%q", user.ID, email)

	if err := s.emails.SendVerificationEmail(email, name, s.verificationURL(raw)); err != nil {
		log.Printf("[auth][register] verification mail to %q failed: %v", email, err)
		return nil, err
	}
	return user, nil
}

// VerifyEmail matches the presented raw token by digest against users with an
// unexpired pending verification. The token is single-use: success clears both
// token fields along with flipping the flag.
func (s *userService) VerifyEmail(rawToken string) (*models.User, error) {
	hashed := utils.HashToken(rawToken)

	user, err := s.repo.FindByVerificationToken(hashed, time.Now())
	if err != nil {
		return nil, fmt.Errorf("lookup verification token: %w", err)
	}
	if user == nil {
		return nil, ErrUnauthorized("Not Verified", FieldError{Field: "token", Message: "Token Expired"})
	}

	if err := s.repo.MarkEmailVerified(user.ID); err != nil {
		return nil, fmt.Errorf("mark verified: %w", err)
	}
	log.Printf("[auth][verify] email verified userID=%d", user.ID)

	user.IsEmailVerified = true
	user.VerificationTokenHash = nil
	user.VerificationTokenExpires = nil
	return user, nil
}

// ResendVerification issues a fresh token pair, overwriting any prior pending
// one (the old raw token becomes permanently unusable). It does not check
// whether the account is already verified.
func (s *userService) ResendVerification(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.repo.GetByEmail(email)
	if err != nil {
		return fmt.Errorf("lookup user by email: %w", err)
	}
	if user == nil {
		return ErrUnauthorized("Token sending failed", FieldError{Field: "email", Message: "User not found"})
	}

	raw, hashed, expiresAt, err := utils.GenerateTemporaryToken(s.tokenTTL)
	if err != nil {
		return fmt.Errorf("generate verification token: %w", err)
	}
	if err := s.repo.SetVerificationToken(user.ID, hashed, expiresAt); err != nil {
		return fmt.Errorf("store verification token: %w", err)
	}

	return s.emails.SendVerificationEmail(user.Email, user.Name, s.verificationURL(raw))
}

// Login checks credentials and issues a session token. Unknown email and wrong
// password produce the identical error so callers cannot enumerate accounts.
// A still-unverified email does not block login.
func (s *userService) Login(email, password string) (*models.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.repo.GetByEmail(email)
	if err != nil {
		return nil, "", fmt.Errorf("lookup user by email: %w", err)
	}
	if user == nil || !s.auth.CheckPassword(password, user.PasswordHash) {
		log.Printf("[auth][login] rejected email=%q", email)
		return nil, "", ErrUnauthorized("Invalid credentials", FieldError{Field: "auth", Message: "Invalid credentials"})
	}

	token, err := s.auth.IssueSessionToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	log.Printf("[auth][login] success userID=%d", user.ID)
	return user, token, nil
}

// ForgotPassword stores a fresh reset token pair (last writer wins) and mails
// the raw token.
func (s *userService) ForgotPassword(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.repo.GetByEmail(email)
	if err != nil {
		return fmt.Errorf("lookup user by email: %w", err)
	}
	if user == nil {
		return ErrBadRequest("Invalid Email")
	}

	raw, hashed, expiresAt, err := utils.GenerateTemporaryToken(s.tokenTTL)
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	if err := s.repo.SetResetToken(user.ID, hashed, expiresAt); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}
	log.Printf("[auth][forgot] reset token issued userID=%d", user.ID)

	return s.emails.SendPasswordResetEmail(user.Email, user.Name, s.resetURL(raw))
}

// ResetPassword replaces the credential for the user matched by reset-token
// digest, then clears the token pair. An expired or unknown token mutates
// nothing.
func (s *userService) ResetPassword(rawToken, newPassword string) error {
	hashed := utils.HashToken(rawToken)

	user, err := s.repo.FindByResetToken(hashed, time.Now())
	if err != nil {
		return fmt.Errorf("lookup reset token: %w", err)
	}
	if user == nil {
		return ErrNotFound("Access Token Expired")
	}

	passwordHash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(user.ID, passwordHash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	log.Printf("[auth][reset] password updated userID=%d", user.ID)
	return nil
}

func (s *userService) GetUserByID(id int) (*models.User, error) {
	return s.repo.GetByID(id)
}

func (s *userService) verificationURL(rawToken string) string {
	return s.baseURL + "/api/v1/user/verify-email/" + rawToken
}

func (s *userService) resetURL(rawToken string) string {
	return s.baseURL + "/api/v1/user/reset-password/" + rawToken
}
