package ports

import (
	"context"

	"github.com/vanchuyen/logistics-api/internal/core/domain"
)

// TeamRepository defines persistence operations for transport teams.
type TeamRepository interface {
	Create(ctx context.Context, t *domain.Team) error
	FindByID(ctx context.Context, id string) (*domain.Team, error)
	FindByOwner(ctx context.Context, ownerID string) (*domain.Team, error)
	List(ctx context.Context) ([]*domain.Team, error)
	UpdateStatus(ctx context.Context, id string, status domain.TeamStatus) (*domain.Team, error)
	Delete(ctx context.Context, id string) error
}

// RegisterTeamInput is a team creation request from its owner.
type RegisterTeamInput struct {
	Name        string
	Description string
	VehicleType string
	Region      string
	Price       int64
	MemberCount int
	Members     []string
	OwnerID     string
}

type TeamService interface {
	Register(ctx context.Context, in RegisterTeamInput) (*domain.Team, error)
	List(ctx context.Context) ([]*domain.Team, error)
	Get(ctx context.Context, id string) (*domain.Team, error)
	Approve(ctx context.Context, id string) (*domain.Team, error)
	Reject(ctx context.Context, id string) (*domain.Team, error)
	// Delete removes the team when the actor owns it or is an administrator.
	Delete(ctx context.Context, id string, actor domain.Identity) error
}
