package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	commonerrors "github.com/dcastellanos/userboard/internal/common/errors"
	"github.com/dcastellanos/userboard/internal/common/logger"
	"github.com/dcastellanos/userboard/internal/user/domain"
	userrepo "github.com/dcastellanos/userboard/internal/user/repository"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type UserService struct {
	repo userrepo.Repository
	log  *logger.Logger
}

func NewUserService(repo userrepo.Repository, log *logger.Logger) *UserService {
	return &UserService{repo: repo, log: log}
}

type UpdateInput struct {
	ID       domain.ID
	Username string `validate:"required"`
	Email    string `validate:"required,email"`
}

func (s *UserService) List(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "list_users_failed",
		}).Errorf("list users failed: %v", err)
		return nil, commonerrors.ErrDatabaseError.WithCause(err)
	}
	return accounts, nil
}

// Update overwrites the target's username and email. There is no ownership
// check: any authenticated caller may edit any account. A missing id is not
// distinguished from success.
func (s *UserService) Update(ctx context.Context, input UpdateInput) error {
	if input.ID <= 0 {
		return commonerrors.ErrInvalidUserID
	}
	if err := validate.Struct(input); err != nil {
		for _, fieldErr := range err.(validator.ValidationErrors) {
			if fieldErr.Tag() == "email" {
				return commonerrors.ErrInvalidEmail
			}
		}
		return commonerrors.ErrMissingFields
	}

	if err := s.repo.Update(ctx, input.ID, input.Username, input.Email); err != nil {
		if errors.Is(err, userrepo.ErrDuplicateUser) {
			s.log.WithFields(ctx, logger.Fields{
				"user_id": int64(input.ID),
				"action":  "update_user_duplicate",
			}).Warn("update failed: duplicate username or email")
			return commonerrors.ErrDuplicateUser
		}
		s.log.WithFields(ctx, logger.Fields{
			"user_id": int64(input.ID),
			"action":  "update_user_failed",
		}).Errorf("update user failed: %v", err)
		return commonerrors.ErrDatabaseError.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": int64(input.ID),
		"action":  "update_user_success",
	}).Info("update user success")
	return nil
}

// Delete succeeds whether or not the id exists.
func (s *UserService) Delete(ctx context.Context, id domain.ID) error {
	if id <= 0 {
		return commonerrors.ErrInvalidUserID
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": int64(id),
			"action":  "delete_user_failed",
		}).Errorf("delete user failed: %v", err)
		return commonerrors.ErrDatabaseError.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": int64(id),
		"action":  "delete_user_success",
	}).Info("delete user success")
	return nil
}
