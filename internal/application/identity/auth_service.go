// Package identity implements back-office login sessions.
package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/erp/backoffice/internal/contract"
	"github.com/erp/backoffice/internal/domain/identity"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/auth"
	"github.com/erp/backoffice/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Login outcomes recorded in metrics
const (
	OutcomeSuccess = "success"
	OutcomeInvalid = "invalid"
	OutcomeLocked  = "locked"
)

// TokenIssuer signs session tokens
type TokenIssuer interface {
	Generate(sub auth.Subject) (*auth.Token, error)
}

// AuthService handles authentication operations
type AuthService struct {
	userRepo  identity.UserRepository
	tokens    TokenIssuer
	blacklist auth.TokenBlacklist
	metrics   *telemetry.BusinessMetrics
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuthService creates a new authentication service. metrics may be nil.
func NewAuthService(
	userRepo identity.UserRepository,
	tokens TokenIssuer,
	blacklist auth.TokenBlacklist,
	metrics *telemetry.BusinessMetrics,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokens:    tokens,
		blacklist: blacklist,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

var errInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")

// Login checks the credentials and issues a session token. Five failed
// attempts lock the account for fifteen minutes.
func (s *AuthService) Login(ctx context.Context, p contract.LoginParams) (*contract.LoginResult, error) {
	username := strings.ToLower(strings.TrimSpace(p.Username))
	s.logger.Info("Login attempt", zap.String("username", username))

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("User not found during login", zap.String("username", username))
			s.metrics.RecordLogin(ctx, OutcomeInvalid)
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	now := s.now()
	if !user.CanLogin(now) {
		if user.IsLocked(now) {
			s.logger.Warn("Login attempt for locked account", zap.String("username", username))
			s.metrics.RecordLogin(ctx, OutcomeLocked)
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked. Please try again later")
		}
		s.logger.Warn("Login attempt for inactive account", zap.String("username", username))
		s.metrics.RecordLogin(ctx, OutcomeInvalid)
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is not active")
	}

	if !user.VerifyPassword(p.Password) {
		locked := user.RecordLoginFailure(now)
		if err := s.userRepo.Save(ctx, user); err != nil {
			s.logger.Error("Failed to update user after login failure", zap.Error(err))
		}
		if locked {
			s.logger.Warn("Account locked after too many failed attempts",
				zap.String("username", username),
				zap.Int("attempts", identity.MaxFailedAttempts))
			s.metrics.RecordLogin(ctx, OutcomeLocked)
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Too many failed login attempts. Account has been locked")
		}
		s.logger.Warn("Invalid password attempt",
			zap.String("username", username),
			zap.Int("failed_attempts", user.FailedAttempts))
		s.metrics.RecordLogin(ctx, OutcomeInvalid)
		return nil, errInvalidCredentials
	}

	token, err := s.tokens.Generate(auth.Subject{
		UserID:      user.UserID,
		Username:    user.Username,
		DisplayName: user.DisplayNameOrUsername(),
	})
	if err != nil {
		s.logger.Error("Failed to generate token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication token")
	}

	user.RecordLoginSuccess(now)
	if err := s.userRepo.Save(ctx, user); err != nil {
		// the session is valid even when the bookkeeping write fails
		s.logger.Error("Failed to update user after successful login", zap.Error(err))
	}

	s.metrics.RecordLogin(ctx, OutcomeSuccess)
	s.logger.Info("User logged in successfully",
		zap.String("username", username),
		zap.Int64("user_id", user.UserID))

	return &contract.LoginResult{
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt,
		User:      *user,
	}, nil
}

// Logout revokes the token until it would have expired anyway
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return shared.NewDomainError("TOKEN_INVALID", "Token has no identifier")
	}
	ttl := claims.RemainingTTL(s.now())
	if ttl == 0 {
		return nil
	}
	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("Failed to revoke token", zap.String("jti", claims.ID), zap.Error(err))
		return err
	}
	s.logger.Info("User logged out", zap.String("username", claims.Username))
	return nil
}

// Me returns the user the session belongs to
func (s *AuthService) Me(ctx context.Context, userID int64) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
		}
		return nil, err
	}
	return user, nil
}
