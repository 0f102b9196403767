package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/transfermarket/platform/internal/domain"
	"github.com/transfermarket/platform/internal/repository"
)

// ClubService handles admin review of club registrations.
type ClubService struct {
	pool     *pgxpool.Pool
	clubRepo repository.ClubRepository
	logger   *slog.Logger
}

// NewClubService creates a ClubService.
func NewClubService(pool *pgxpool.Pool, clubRepo repository.ClubRepository, logger *slog.Logger) *ClubService {
	return &ClubService{pool: pool, clubRepo: clubRepo, logger: logger}
}

// List returns clubs, optionally filtered by approval status.
func (s *ClubService) List(ctx context.Context, approval *domain.ClubApproval) ([]domain.Club, error) {
	clubs, err := s.clubRepo.List(ctx, s.pool, approval)
	if err != nil {
		return nil, domain.ErrInternal("list clubs", err)
	}
	return clubs, nil
}

// Get returns a single club.
func (s *ClubService) Get(ctx context.Context, id uuid.UUID) (*domain.Club, error) {
	club, err := s.clubRepo.FindByID(ctx, s.pool, id)
	if err != nil {
		return nil, domain.ErrInternal("find club", err)
	}
	if club == nil {
		return nil, domain.ErrNotFound("club", id.String())
	}
	return club, nil
}

// Review records the admin decision on a pending club registration.
func (s *ClubService) Review(ctx context.Context, id uuid.UUID, approve bool) (*domain.Club, error) {
	club, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if club.Approval != domain.ClubPending {
		return nil, domain.ErrConflict("club registration has already been reviewed")
	}

	decision := domain.ClubRejected
	if approve {
		decision = domain.ClubApproved
	}

	if err := s.clubRepo.UpdateApproval(ctx, s.pool, id, decision); err != nil {
		return nil, domain.ErrInternal("update approval", err)
	}

	s.logger.Info("club registration reviewed", "club_id", id, "decision", decision)

	club.Approval = decision
	return club, nil
}
