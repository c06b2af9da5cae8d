package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	app_errors "vpaura/backend/internal/errors"
	"vpaura/backend/internal/model"
	"vpaura/backend/internal/repository"
)

type UserService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// Create stores a new user. A taken username or email is a conflict.
func (s *UserService) Create(ctx context.Context, user *model.User) (*model.User, error) {
	user.Username = strings.TrimSpace(user.Username)
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.FullName = strings.TrimSpace(user.FullName)
	if user.Username == "" || user.Email == "" {
		return nil, fmt.Errorf("%w: username and email are required", app_errors.ErrValidation)
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: username or email is already registered", app_errors.ErrConflict)
		}
		return nil, fmt.Errorf("%w: could not create user: %w", app_errors.ErrDatabase, err)
	}
	slog.InfoContext(ctx, "Created user", "user_id", user.ID)
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %d", app_errors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: could not get user: %w", app_errors.ErrDatabase, err)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, offset, limit int) ([]*model.User, error) {
	users, err := s.users.List(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: could not list users: %w", app_errors.ErrDatabase, err)
	}
	return users, nil
}
