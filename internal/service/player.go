package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/transfermarket/platform/internal/domain"
	"github.com/transfermarket/platform/internal/repository"
)

// PlayerService manages the player registry.
type PlayerService struct {
	pool       *pgxpool.Pool
	playerRepo repository.PlayerRepository
	logger     *slog.Logger
}

// NewPlayerService creates a PlayerService.
func NewPlayerService(pool *pgxpool.Pool, playerRepo repository.PlayerRepository, logger *slog.Logger) *PlayerService {
	return &PlayerService{pool: pool, playerRepo: playerRepo, logger: logger}
}

// PlayerInput holds a player registration or update request.
type PlayerInput struct {
	Name          string     `json:"name"`
	Position      string     `json:"position"`
	Age           int        `json:"age"`
	Nationality   string     `json:"nationality"`
	MarketValue   int64      `json:"market_value"`
	ContractUntil *string    `json:"contract_until,omitempty"`
	HealthStatus  string     `json:"health_status,omitempty"`
	ClubID        *uuid.UUID `json:"club_id,omitempty"`
}

func (in PlayerInput) validate() error {
	if in.Name == "" {
		return domain.ErrValidation("player name is required")
	}
	if err := domain.ValidatePlayerAge(in.Age); err != nil {
		return err
	}
	if in.MarketValue < 0 {
		return domain.ErrValidation("market value cannot be negative")
	}
	return nil
}

// Create registers a new player. ClubID may be nil for free agents.
func (s *PlayerService) Create(ctx context.Context, input PlayerInput) (*domain.Player, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	p := &domain.Player{
		ID:           uuid.New(),
		Name:         input.Name,
		Position:     input.Position,
		Age:          input.Age,
		Nationality:  input.Nationality,
		MarketValue:  input.MarketValue,
		HealthStatus: input.HealthStatus,
		Status:       domain.PlayerActive,
		ClubID:       input.ClubID,
	}
	if err := s.playerRepo.Create(ctx, s.pool, p); err != nil {
		return nil, domain.ErrInternal("create player", err)
	}

	s.logger.Info("player registered", "player_id", p.ID, "name", p.Name)
	return p, nil
}

// Get returns one player.
func (s *PlayerService) Get(ctx context.Context, id uuid.UUID) (*domain.Player, error) {
	p, err := s.playerRepo.FindByID(ctx, s.pool, id)
	if err != nil {
		return nil, domain.ErrInternal("find player", err)
	}
	if p == nil {
		return nil, domain.ErrNotFound("player", id.String())
	}
	return p, nil
}

// List returns players, optionally filtered by club.
func (s *PlayerService) List(ctx context.Context, clubID *uuid.UUID) ([]domain.Player, error) {
	players, err := s.playerRepo.List(ctx, s.pool, clubID)
	if err != nil {
		return nil, domain.ErrInternal("list players", err)
	}
	return players, nil
}

// Update edits a player's registry fields. Club assignment is handled by
// transfer completion, not here.
func (s *PlayerService) Update(ctx context.Context, id uuid.UUID, input PlayerInput) (*domain.Player, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status == domain.PlayerRetired {
		return nil, domain.ErrConflict("retired players cannot be edited")
	}

	p.Name = input.Name
	p.Position = input.Position
	p.Age = input.Age
	p.Nationality = input.Nationality
	p.MarketValue = input.MarketValue
	p.HealthStatus = input.HealthStatus

	if err := s.playerRepo.Update(ctx, s.pool, p); err != nil {
		return nil, domain.ErrInternal("update player", err)
	}
	return p, nil
}

// Retire flips the lifecycle flag. Players are never deleted: their
// transfer history must survive them.
func (s *PlayerService) Retire(ctx context.Context, id uuid.UUID) (*domain.Player, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status == domain.PlayerRetired {
		return nil, domain.ErrConflict("player is already retired")
	}

	if err := s.playerRepo.SetStatus(ctx, s.pool, id, domain.PlayerRetired); err != nil {
		return nil, domain.ErrInternal("retire player", err)
	}

	s.logger.Info("player retired", "player_id", id, "name", p.Name)
	p.Status = domain.PlayerRetired
	return p, nil
}
