package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/vanchuyen/logistics-api/internal/core/domain"
	"github.com/vanchuyen/logistics-api/internal/core/ports"
)

// UserService implements account administration.
type UserService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateStatus bans or reactivates an account. An empty status leaves it unchanged.
func (s *UserService) UpdateStatus(ctx context.Context, id, status string) (*domain.User, error) {
	if status == "" {
		return s.repo.FindByID(ctx, id)
	}
	next := domain.UserStatus(status)
	if next != domain.UserActive && next != domain.UserBanned {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidUserStatus, status)
	}
	user, err := s.repo.UpdateStatus(ctx, id, next)
	if err != nil {
		return nil, fmt.Errorf("update user status: %w", err)
	}
	s.logger.Info().Str("user_id", id).Str("status", string(next)).Msg("user status changed")
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.logger.Info().Str("user_id", id).Msg("user deleted")
	return nil
}
