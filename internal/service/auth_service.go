package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fuelops/internal/auth"
	"fuelops/internal/domain"
	"fuelops/internal/model"
	"fuelops/internal/repository"

	"go.uber.org/zap"
)

type LoginRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type LoginResponse struct {
	Token        string              `json:"token"`
	ExpiresAt    time.Time           `json:"expires_at"`
	User         model.User          `json:"user"`
	Capabilities []domain.Capability `json:"capabilities"`
}

type MeResponse struct {
	User         model.User          `json:"user"`
	Capabilities []domain.Capability `json:"capabilities"`
}

// SessionStore remembers the signed-in user across restarts.
type SessionStore interface {
	SaveUser(ctx context.Context, u model.User) error
	ClearUser(ctx context.Context) error
}

// AuthService resolves demo identities. There is no credential check.
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Me(ctx context.Context, actor domain.Actor) (*MeResponse, error)
	Logout(ctx context.Context, actor domain.Actor) error
}

type authService struct {
	userRepo repository.UserRepository
	issuer   *auth.Issuer
	sessions SessionStore
	logger   *zap.Logger
}

func NewAuthService(userRepo repository.UserRepository, issuer *auth.Issuer, sessions SessionStore, logger *zap.Logger) AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &authService{userRepo: userRepo, issuer: issuer, sessions: sessions, logger: logger}
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, validationf("email is required")
	}
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: no user with that email", domain.ErrUnauthenticated)
		}
		return nil, err
	}

	token, exp, err := s.issuer.Issue(*user)
	if err != nil {
		return nil, err
	}
	if s.sessions != nil {
		if err := s.sessions.SaveUser(ctx, *user); err != nil {
			s.logger.Warn("Failed to persist session user", zap.Error(err))
		}
	}

	s.logger.Info("User signed in", zap.String("user_id", user.ID.String()), zap.String("role", user.Role))
	return &LoginResponse{
		Token:        token,
		ExpiresAt:    exp,
		User:         *user,
		Capabilities: domain.Capabilities(user.Role),
	}, nil
}

func (s *authService) Me(ctx context.Context, actor domain.Actor) (*MeResponse, error) {
	user, err := s.userRepo.GetByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: user no longer exists", domain.ErrUnauthenticated)
		}
		return nil, err
	}
	return &MeResponse{User: *user, Capabilities: domain.Capabilities(user.Role)}, nil
}

func (s *authService) Logout(ctx context.Context, actor domain.Actor) error {
	if s.sessions != nil {
		if err := s.sessions.ClearUser(ctx); err != nil {
			s.logger.Warn("Failed to clear session user", zap.Error(err))
		}
	}
	s.logger.Info("User signed out", zap.String("user_id", actor.ID.String()))
	return nil
}
