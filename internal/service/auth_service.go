package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"

	"github.com/Tomlord1122/planner-backend/internal/auth"
	"github.com/Tomlord1122/planner-backend/internal/dates"
	"github.com/Tomlord1122/planner-backend/internal/domain"
	"github.com/Tomlord1122/planner-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const resetTokenTTL = time.Hour

// AuthService handles accounts and bearer sessions.
type AuthService interface {
	SignUp(ctx context.Context, req CredentialsRequest) (*SessionResponse, error)
	SignIn(ctx context.Context, req CredentialsRequest) (*SessionResponse, error)
	SignOut(ctx context.Context, token string) error
	// RequestReset issues a reset token for the account. Unknown addresses
	// are not reported, so the call does not reveal which accounts exist.
	RequestReset(ctx context.Context, req ResetRequest) error
	ConfirmReset(ctx context.Context, req ConfirmResetRequest) error
	UpdateUser(ctx context.Context, userID uint, req UpdateUserRequest) (*UserResponse, error)
	// Authenticate resolves a bearer token to its user.
	Authenticate(ctx context.Context, token string) (*UserResponse, error)
}

type authService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	dates    *dates.Service
	ttl      time.Duration
}

func NewAuthService(users repository.UserRepository, sessions repository.SessionRepository, d *dates.Service, ttl time.Duration) AuthService {
	return &authService{users: users, sessions: sessions, dates: d, ttl: ttl}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", invalid("invalid email address")
	}
	return email, nil
}

func checkPassword(pw string) error {
	if len([]rune(pw)) < auth.MinPasswordLength {
		return invalid("password must be at least %d characters", auth.MinPasswordLength)
	}
	return nil
}

func (s *authService) newSession(ctx context.Context, user *domain.User) (*SessionResponse, error) {
	session := &domain.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: s.dates.Now().Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &SessionResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt.UTC().Format(time.RFC3339),
		User:      toUserResponse(user),
	}, nil
}

func (s *authService) SignUp(ctx context.Context, req CredentialsRequest) (*SessionResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if err := checkPassword(req.Password); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("account %s %w", email, ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{Email: email, PasswordHash: hash}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("account %s %w", email, ErrConflict)
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	log.Printf("Created account %d (%s)", user.ID, email)
	return s.newSession(ctx, user)
}

func (s *authService) SignIn(ctx context.Context, req CredentialsRequest) (*SessionResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("invalid email or password: %w", ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	ok, err := auth.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password for user %d: %w", user.ID, err)
	}
	if !ok {
		return nil, fmt.Errorf("invalid email or password: %w", ErrUnauthorized)
	}
	return s.newSession(ctx, user)
}

func (s *authService) SignOut(ctx context.Context, token string) error {
	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *authService) RequestReset(ctx context.Context, req ResetRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Password reset requested for unknown address %q", email)
			return nil
		}
		return fmt.Errorf("failed to look up account: %w", err)
	}

	token := uuid.NewString()
	expires := s.dates.Now().Add(resetTokenTTL)
	user.ResetToken = &token
	user.ResetExpiresAt = &expires
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}
	// No mail transport is configured; operators hand the token out.
	log.Printf("Password reset token for %s: %s (valid until %s)", email, token, expires.Format(time.RFC3339))
	return nil
}

func (s *authService) ConfirmReset(ctx context.Context, req ConfirmResetRequest) error {
	if err := checkPassword(req.Password); err != nil {
		return err
	}
	user, err := s.users.FindByResetToken(ctx, strings.TrimSpace(req.Token))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return invalid("reset token is invalid or expired")
		}
		return fmt.Errorf("failed to look up reset token: %w", err)
	}
	if user.ResetExpiresAt == nil || !s.dates.Now().Before(*user.ResetExpiresAt) {
		return invalid("reset token is invalid or expired")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.ResetToken = nil
	user.ResetExpiresAt = nil
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if err := s.sessions.DeleteForUser(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}
	return nil
}

func (s *authService) UpdateUser(ctx context.Context, userID uint, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user", userID)
	}

	if req.Email != nil {
		email, err := normalizeEmail(*req.Email)
		if err != nil {
			return nil, err
		}
		if email != user.Email {
			other, err := s.users.FindByEmail(ctx, email)
			if err == nil && other.ID != user.ID {
				return nil, fmt.Errorf("account %s %w", email, ErrConflict)
			}
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("failed to look up account: %w", err)
			}
			user.Email = email
		}
	}
	if req.Password != nil {
		if err := checkPassword(*req.Password); err != nil {
			return nil, err
		}
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user %d: %w", userID, err)
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*UserResponse, error) {
	if token == "" {
		return nil, fmt.Errorf("missing token: %w", ErrUnauthorized)
	}
	session, err := s.sessions.FindValid(ctx, token, s.dates.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("unknown or expired session: %w", ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("session owner gone: %w", ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to load user %d: %w", session.UserID, err)
	}
	resp := toUserResponse(user)
	return &resp, nil
}
