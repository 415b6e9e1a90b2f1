package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/umuhuza/umuhuza_api/internal/models"
	"github.com/umuhuza/umuhuza_api/internal/repository"
	"github.com/umuhuza/umuhuza_api/internal/utils"
)

const minPasswordLength = 8

// RegisterRequest is the sign up payload.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
}

// AuthResult is returned on register and login.
type AuthResult struct {
	Token     string       `json:"token"`
	ExpiresAt string       `json:"expiresAt"`
	User      *models.User `json:"user"`
}

// AuthService authenticates marketplace users.
type AuthService struct {
	users   UserStore
	tokens  *utils.TokenIssuer
	revoked TokenRevoker
}

// NewAuthService creates a new AuthService. revoked may be nil, in which case
// logout is a no-op on the server.
func NewAuthService(users UserStore, tokens *utils.TokenIssuer, revoked TokenRevoker) *AuthService {
	return &AuthService{users: users, tokens: tokens, revoked: revoked}
}

// Register creates a user account and signs it in.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: a valid email is required", utils.ErrValidation)
	}
	if len(req.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", utils.ErrValidation, minPasswordLength)
	}
	if strings.TrimSpace(req.FullName) == "" {
		return nil, fmt.Errorf("%w: full name is required", utils.ErrValidation)
	}

	user, err := s.create(ctx, email, req.Password, strings.TrimSpace(req.FullName), strings.TrimSpace(req.Phone), models.RoleUser)
	if err != nil {
		return nil, err
	}
	log.Info().Str("user_id", user.ID).Msg("User registered")
	return s.issue(user)
}

// Login verifies credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	log.Debug().Str("email", email).Msg("Login attempt")

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Error().Err(err).Str("email", email).Msg("Failed to get user by email")
		}
		return nil, utils.ErrInvalidPassword
	}

	if !user.IsActive {
		log.Warn().Str("email", email).Msg("Account is inactive")
		return nil, utils.ErrAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Warn().Str("email", email).Msg("Password verification failed")
		return nil, utils.ErrInvalidPassword
	}

	log.Info().Str("user_id", user.ID).Msg("Login successful")
	return s.issue(user)
}

// Authenticate validates a bearer token and resolves the session user.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (*models.User, *utils.Claims, error) {
	claims, err := s.tokens.Validate(raw)
	if err != nil {
		return nil, nil, err
	}
	if s.revoked != nil {
		revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			log.Warn().Err(err).Msg("Token denylist lookup failed")
		}
		if revoked {
			return nil, nil, utils.ErrInvalidToken
		}
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, utils.ErrInvalidToken
		}
		return nil, nil, fmt.Errorf("load session user: %w", err)
	}
	if !user.IsActive {
		return nil, nil, utils.ErrAccountInactive
	}
	return user, claims, nil
}

// Logout revokes the token until it expires.
func (s *AuthService) Logout(ctx context.Context, claims *utils.Claims) error {
	if claims == nil || s.revoked == nil || claims.ExpiresAt == nil {
		return nil
	}
	if err := s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	log.Info().Str("user_id", claims.UserID).Msg("Logged out")
	return nil
}

// EnsureAdmin creates the admin account if no user with email exists.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password, name string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}
	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	user, err := s.create(ctx, email, password, name, "", models.RoleAdmin)
	if err != nil {
		return err
	}
	log.Info().Str("user_id", user.ID).Str("email", email).Msg("Admin account created")
	return nil
}

func (s *AuthService) create(ctx context.Context, email, password, name, phone, role string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		FullName:     name,
		Phone:        phone,
		Role:         role,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, claims, err := s.tokens.Generate(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time.In(utils.Kigali).Format("2006-01-02T15:04:05-07:00"),
		User:      user,
	}, nil
}
