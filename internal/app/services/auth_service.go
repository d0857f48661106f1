package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	appAuth "github.com/yigit/clubhub/internal/app/auth"
	"github.com/yigit/clubhub/internal/app/models"
	"github.com/yigit/clubhub/internal/app/models/dto"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
	"github.com/yigit/clubhub/internal/pkg/auth"
	"github.com/yigit/clubhub/internal/pkg/email"
	"github.com/yigit/clubhub/internal/pkg/metrics"
)

// AuthService handles registration, login and sessions
type AuthService struct {
	userRepo    UserStore
	sessionRepo SessionStore
	tokens      *auth.SessionTokens
	mailer      email.EmailService
	logger      zerolog.Logger
	now         func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo UserStore,
	sessionRepo SessionStore,
	tokens *auth.SessionTokens,
	mailer email.EmailService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		tokens:      tokens,
		mailer:      mailer,
		logger:      logger,
		now:         time.Now,
	}
}

// SessionTTL returns the lifetime of issued sessions
func (s *AuthService) SessionTTL() time.Duration {
	return s.tokens.TTL()
}

// Register creates a student account and opens a session for it
func (s *AuthService) Register(ctx context.Context, form *dto.RegisterForm) (*models.User, *auth.IssuedToken, error) {
	if err := form.Validate(); err != nil {
		return nil, nil, err
	}

	exists, err := s.userRepo.UsernameExists(ctx, form.Username)
	if err != nil {
		return nil, nil, fmt.Errorf("error checking username: %w", err)
	}
	if exists {
		return nil, nil, apperrors.NewValidationError("username", "A user with that username already exists.")
	}

	hashed, err := auth.HashPassword(form.Password1)
	if err != nil {
		return nil, nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Username: form.Username,
		Email:    form.Email,
		Password: hashed,
		RoleType: models.RoleStudent,
		IsActive: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, nil, err
	}
	s.logger.Info().Int64("userID", user.ID).Str("username", user.Username).Msg("User registered")

	if s.mailer != nil {
		if err := s.mailer.SendWelcomeEmail(ctx, user.Email, user.Username); err != nil {
			s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to send welcome email")
		}
	}

	token, err := s.openSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, token, nil
}

// Login checks the credentials and opens a session
func (s *AuthService) Login(ctx context.Context, form *dto.LoginForm) (*models.User, *auth.IssuedToken, error) {
	if err := form.Validate(); err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.GetByUsername(ctx, form.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Hash anyway so unknown usernames take as long as wrong passwords
			_ = auth.CheckPassword(dummyHash, form.Password)
			metrics.Logins.WithLabelValues("invalid").Inc()
			return nil, nil, apperrors.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("error getting user: %w", err)
	}

	if !auth.CheckPassword(user.Password, form.Password) {
		metrics.Logins.WithLabelValues("invalid").Inc()
		return nil, nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		metrics.Logins.WithLabelValues("disabled").Inc()
		return nil, nil, apperrors.ErrAccountDisabled
	}

	token, err := s.openSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	metrics.Logins.WithLabelValues("success").Inc()
	return user, token, nil
}

// dummyHash is a bcrypt hash of a random string
const dummyHash = "$2a$12$C6UzMDM.H6dfI/f/IKcEeO5t1G6Qk8W2r0cSIqJ8cZ8n7aQpS4m1e"

func (s *AuthService) openSession(ctx context.Context, user *models.User) (*auth.IssuedToken, error) {
	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		ID:        token.SessionID,
		UserID:    user.ID,
		ExpiresAt: token.ExpiresAt,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("error storing session: %w", err)
	}

	now := s.now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to record last login")
	} else {
		user.LastLoginAt = &now
	}

	s.logger.Info().Int64("userID", user.ID).Str("sessionID", session.ID).Msg("Session opened")
	return token, nil
}

// Authenticate resolves a session token into a principal
func (s *AuthService) Authenticate(ctx context.Context, token string) (*appAuth.Principal, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, apperrors.ErrSessionExpired
		}
		return nil, apperrors.ErrUnauthenticated
	}

	session, err := s.sessionRepo.GetByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrSessionRevoked) {
			return nil, apperrors.ErrSessionRevoked
		}
		return nil, fmt.Errorf("error getting session: %w", err)
	}
	if session.UserID != claims.UserID {
		return nil, apperrors.ErrUnauthenticated
	}
	if session.RevokedAt != nil {
		return nil, apperrors.ErrSessionRevoked
	}
	if !session.Active(s.now()) {
		return nil, apperrors.ErrSessionExpired
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthenticated
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	return appAuth.NewPrincipal(user, session.ID), nil
}

// Logout revokes the session behind token. Invalid tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil
	}
	if err := s.sessionRepo.Revoke(ctx, claims.ID, s.now()); err != nil {
		return err
	}
	s.logger.Info().Int64("userID", claims.UserID).Str("sessionID", claims.ID).Msg("Session revoked")
	return nil
}
