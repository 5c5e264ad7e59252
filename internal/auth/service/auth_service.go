package service

import (
	"context"
	"errors"

	"github.com/dcastellanos/userboard/internal/auth/token"
	"github.com/dcastellanos/userboard/internal/common/crypto"
	commonerrors "github.com/dcastellanos/userboard/internal/common/errors"
	"github.com/dcastellanos/userboard/internal/common/logger"
	"github.com/dcastellanos/userboard/internal/observability/metrics"
	"github.com/dcastellanos/userboard/internal/user/domain"
	userrepo "github.com/dcastellanos/userboard/internal/user/repository"
)

type AuthService struct {
	repo   userrepo.Repository
	hasher crypto.PasswordHasher
	issuer *token.Issuer
	log    *logger.Logger
}

func NewAuthService(
	repo userrepo.Repository,
	hasher crypto.PasswordHasher,
	issuer *token.Issuer,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		repo:   repo,
		hasher: hasher,
		issuer: issuer,
		log:    log,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	Token string
	User  domain.Account
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) error {
	s.log.WithFields(ctx, logger.Fields{
		"email":  input.Email,
		"action": "register_attempt",
	}).Info("register attempt")

	if err := validateRegistration(input); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_validation_failed",
		}).Warnf("register validation failed: %v", err)
		return err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		return commonerrors.ErrInternalError.WithCause(err)
	}

	id, err := s.repo.Create(ctx, input.Username, input.Email, hash)
	if err != nil {
		if errors.Is(err, userrepo.ErrDuplicateUser) {
			metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
			s.log.WithFields(ctx, logger.Fields{
				"email":  input.Email,
				"action": "register_duplicate",
			}).Warn("register failed: duplicate username or email")
			return commonerrors.ErrDuplicateUser
		}
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_create_failed",
		}).Errorf("register failed: %v", err)
		return commonerrors.ErrDatabaseError.WithCause(err)
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	s.log.WithFields(ctx, logger.Fields{
		"email":   input.Email,
		"user_id": int64(id),
		"action":  "register_success",
	}).Info("register success")

	return nil
}

// Login resolves the account by email and compares password hashes. An
// unknown email and a wrong password produce the same error so callers
// cannot enumerate accounts.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"email":  input.Email,
		"action": "login_attempt",
	}).Info("login attempt")

	if err := validateLogin(input); err != nil {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "login_validation_failed",
		}).Warnf("login validation failed: %v", err)
		return LoginResult{}, err
	}

	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("denied").Inc()
			s.log.WithFields(ctx, logger.Fields{
				"email":  input.Email,
				"action": "login_user_not_found",
			}).Warn("login failed: not found")
			return LoginResult{}, commonerrors.ErrInvalidCredentials
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "login_fetch_failed",
		}).Errorf("login failed: %v", err)
		return LoginResult{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		metrics.LoginsTotal.WithLabelValues("denied").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "login_invalid_password",
		}).Warn("login failed: invalid password")
		return LoginResult{}, commonerrors.ErrInvalidCredentials
	}

	tok, err := s.issuer.Issue(user)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"email":   input.Email,
			"user_id": int64(user.ID),
			"action":  "login_token_issue_failed",
		}).Errorf("login failed: token issue error: %v", err)
		return LoginResult{}, commonerrors.ErrInternalError.WithCause(err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.WithFields(ctx, logger.Fields{
		"email":   input.Email,
		"user_id": int64(user.ID),
		"action":  "login_success",
	}).Info("login success")

	return LoginResult{
		Token: tok,
		User:  user.Account(),
	}, nil
}
