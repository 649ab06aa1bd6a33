package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vanchuyen/logistics-api/internal/core/domain"
	"github.com/vanchuyen/logistics-api/internal/core/ports"
)

type TeamService struct {
	repo   ports.TeamRepository
	logger zerolog.Logger
}

func NewTeamService(repo ports.TeamRepository, logger zerolog.Logger) *TeamService {
	return &TeamService{repo: repo, logger: logger}
}

// Register files a pending team. Each owner may hold one team.
func (s *TeamService) Register(ctx context.Context, in ports.RegisterTeamInput) (*domain.Team, error) {
	existing, err := s.repo.FindByOwner(ctx, in.OwnerID)
	if err != nil && !errors.Is(err, domain.ErrTeamNotFound) {
		return nil, fmt.Errorf("register team: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrTeamExists
	}

	memberCount := in.MemberCount
	if memberCount <= 0 {
		memberCount = 1
	}
	members := in.Members
	if members == nil {
		members = []string{}
	}

	team := &domain.Team{
		Name:        in.Name,
		Description: in.Description,
		VehicleType: in.VehicleType,
		Region:      in.Region,
		Price:       in.Price,
		MemberCount: memberCount,
		OwnerID:     in.OwnerID,
		Members:     members,
		Status:      domain.TeamPending,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, team); err != nil {
		return nil, fmt.Errorf("register team: %w", err)
	}

	s.logger.Info().Str("team_id", team.ID).Str("owner", in.OwnerID).Msg("team registered")
	return team, nil
}

func (s *TeamService) List(ctx context.Context) ([]*domain.Team, error) {
	return s.repo.List(ctx)
}

func (s *TeamService) Get(ctx context.Context, id string) (*domain.Team, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *TeamService) Approve(ctx context.Context, id string) (*domain.Team, error) {
	return s.repo.UpdateStatus(ctx, id, domain.TeamApproved)
}

func (s *TeamService) Reject(ctx context.Context, id string) (*domain.Team, error) {
	return s.repo.UpdateStatus(ctx, id, domain.TeamRejected)
}

func (s *TeamService) Delete(ctx context.Context, id string, actor domain.Identity) error {
	team, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.IsAdmin && team.OwnerID != actor.UserID {
		return domain.ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}
