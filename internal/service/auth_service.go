package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-inventory-pos/internal/apperr"
	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/obs"
	"go-inventory-pos/internal/repository"
	"go-inventory-pos/pkg/jwt"
)

type AuthService interface {
	Authenticate(ctx context.Context, req LoginRequest) (*model.LoginResult, error)
	Revoke(ctx context.Context, token string, userID uint) error
	Verify(ctx context.Context, token string) (*model.Identity, error)
	PurgeExpiredRevocations(ctx context.Context) (int64, error)
	ResetPassword(ctx context.Context, username, newPassword string) error

	LoginAttempts(ctx context.Context, filter model.AttemptFilter) ([]model.LoginAttempt, error)
	RevokedTokens(ctx context.Context, limit int) ([]model.RevokedTokenView, error)
}

// LoginRequest carries credentials plus the client details written to the
// login audit log.
type LoginRequest struct {
	Username  string
	Password  string
	IP        string
	UserAgent string
}

type authService struct {
	userRepo  repository.UserRepository
	auditRepo repository.AuthAuditRepository
	signer    *jwt.Signer
	retention time.Duration
	now       func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, auditRepo repository.AuthAuditRepository, signer *jwt.Signer, retention time.Duration) AuthService {
	return &authService{
		userRepo:  userRepo,
		auditRepo: auditRepo,
		signer:    signer,
		retention: retention,
		now:       time.Now,
	}
}

// RequireRole fails with Forbidden unless the identity holds role.
func RequireRole(id *model.Identity, role string) error {
	if id == nil || id.Role != role {
		return apperr.ErrForbidden
	}
	return nil
}

func (s *authService) Authenticate(ctx context.Context, req LoginRequest) (*model.LoginResult, error) {
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if !repository.IsNotFound(err) {
			return nil, fmt.Errorf("find user: %w", err)
		}
		if err := s.recordAttempt(ctx, req, false); err != nil {
			return nil, err
		}
		return nil, apperr.ErrLoginUserNotFound
	}

	if !user.CheckPassword(req.Password) {
		if err := s.recordAttempt(ctx, req, false); err != nil {
			return nil, err
		}
		return nil, apperr.ErrInvalidCredential
	}

	if err := s.recordAttempt(ctx, req, true); err != nil {
		return nil, err
	}

	token, err := s.signer.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	obs.Logger.Info("login", "user_id", user.ID, "username", user.Username, "ip", req.IP)
	return &model.LoginResult{Token: token, User: user.Identity()}, nil
}

func (s *authService) recordAttempt(ctx context.Context, req LoginRequest, ok bool) error {
	attempt := &model.LoginAttempt{
		Username:  req.Username,
		Succeeded: ok,
		IP:        req.IP,
		UserAgent: req.UserAgent,
	}
	if err := s.auditRepo.RecordAttempt(ctx, attempt); err != nil {
		return fmt.Errorf("record login attempt: %w", err)
	}
	return nil
}

func (s *authService) Revoke(ctx context.Context, token string, userID uint) error {
	if token == "" {
		return apperr.ErrTokenMissing
	}
	if err := s.auditRepo.Revoke(ctx, token, userID); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	obs.Logger.Info("logout", "user_id", userID)
	return nil
}

// Verify resolves a bearer token to an identity. The revocation list is
// consulted before the signature, so a revoked token reports SessionClosed
// even when it has also expired.
func (s *authService) Verify(ctx context.Context, token string) (*model.Identity, error) {
	if token == "" {
		return nil, apperr.ErrTokenMissing
	}

	revoked, err := s.auditRepo.IsRevoked(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, apperr.ErrSessionClosed
	}

	claims, err := s.signer.ValidateToken(token)
	switch {
	case errors.Is(err, jwt.ErrExpiredToken):
		return nil, apperr.ErrTokenExpired
	case errors.Is(err, jwt.ErrMissingToken):
		return nil, apperr.ErrTokenMissing
	case err != nil:
		return nil, apperr.ErrTokenInvalid
	}

	return &model.Identity{ID: claims.UserID, Username: claims.Username, Role: claims.Role}, nil
}

func (s *authService) PurgeExpiredRevocations(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.retention)
	n, err := s.auditRepo.PurgeRevokedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge revoked tokens: %w", err)
	}
	obs.Logger.Info("revoked tokens purged", "count", n, "cutoff", cutoff)
	return n, nil
}

// ResetPassword sets a new password for username without knowing the old one.
// It backs the maintenance CLI.
func (s *authService) ResetPassword(ctx context.Context, username, newPassword string) error {
	if len(newPassword) < 6 {
		return apperr.InvalidUserData("La contraseña debe tener al menos 6 caracteres")
	}
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if repository.IsNotFound(err) {
			return apperr.ErrUserNotFound
		}
		return err
	}
	if err := user.SetPassword(newPassword); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.userRepo.UpdatePassword(ctx, user.ID, user.Password)
}

func (s *authService) LoginAttempts(ctx context.Context, filter model.AttemptFilter) ([]model.LoginAttempt, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.auditRepo.FindAttempts(ctx, filter)
}

func (s *authService) RevokedTokens(ctx context.Context, limit int) ([]model.RevokedTokenView, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.auditRepo.FindRevoked(ctx, limit)
}
