package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/transfermarket/platform/internal/domain"
	"github.com/transfermarket/platform/internal/infra"
	"github.com/transfermarket/platform/internal/repository"
)

// TransferService handles the transfer listing lifecycle.
type TransferService struct {
	pool         *pgxpool.Pool
	transferRepo repository.TransferRepository
	playerRepo   repository.PlayerRepository
	offerRepo    repository.OfferRepository
	windowSvc    *WindowService
	fraudSvc     *FraudService
	outbox       repository.OutboxRepository
	metrics      *infra.Metrics
	logger       *slog.Logger
}

// NewTransferService creates a TransferService.
func NewTransferService(pool *pgxpool.Pool, transferRepo repository.TransferRepository, playerRepo repository.PlayerRepository, offerRepo repository.OfferRepository, windowSvc *WindowService, fraudSvc *FraudService, outbox repository.OutboxRepository, metrics *infra.Metrics, logger *slog.Logger) *TransferService {
	return &TransferService{
		pool:         pool,
		transferRepo: transferRepo,
		playerRepo:   playerRepo,
		offerRepo:    offerRepo,
		windowSvc:    windowSvc,
		fraudSvc:     fraudSvc,
		outbox:       outbox,
		metrics:      metrics,
		logger:       logger,
	}
}

// CreateTransferInput holds a new listing request.
type CreateTransferInput struct {
	PlayerID uuid.UUID `json:"player_id"`
	Type     string    `json:"type"`
	Amount   int64     `json:"amount"`
}

// Create lists a player on the market. Club actors may only list players
// their own club holds; admins (nil actor) may list any player, including
// free agents. Listing requires an open transfer window.
func (s *TransferService) Create(ctx context.Context, actorClubID *uuid.UUID, input CreateTransferInput) (*domain.Transfer, error) {
	if !domain.ValidTransferType(input.Type) {
		return nil, domain.ErrValidation("unknown transfer type: " + input.Type)
	}
	transferType := domain.TransferType(input.Type)

	amount, err := domain.NormalizeTransferAmount(transferType, input.Amount)
	if err != nil {
		return nil, err
	}

	player, err := s.playerRepo.FindByID(ctx, s.pool, input.PlayerID)
	if err != nil {
		return nil, domain.ErrInternal("find player", err)
	}
	if player == nil {
		return nil, domain.ErrNotFound("player", input.PlayerID.String())
	}
	if player.Status != domain.PlayerActive {
		return nil, domain.ErrConflict("retired players cannot be listed")
	}

	if actorClubID != nil {
		if player.ClubID == nil || *player.ClubID != *actorClubID {
			return nil, domain.ErrForbidden("player does not belong to your club")
		}
	}

	t := &domain.Transfer{
		ID:           uuid.New(),
		PlayerID:     player.ID,
		SellerClubID: player.ClubID,
		Type:         transferType,
		Amount:       amount,
		Status:       domain.TransferPending,
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	open, err := s.windowSvc.MarketOpen(ctx, tx)
	if err != nil {
		return nil, err
	}
	if !open {
		return nil, domain.ErrWindowClosed()
	}

	if err := s.transferRepo.Create(ctx, tx, t); err != nil {
		return nil, domain.ErrInternal("create transfer", err)
	}
	if err := s.outbox.Insert(ctx, tx, domain.NewTransferEvent(domain.EventTransferCreated, t)); err != nil {
		return nil, domain.ErrInternal("outbox event", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("transfer listed", "transfer_id", t.ID, "player_id", t.PlayerID, "type", t.Type)

	// Listings pass through the same heuristics as offers, so an inflated
	// asking price or a duplicate identity surfaces before any bid arrives.
	s.fraudSvc.EvaluateTransfer(ctx, t)

	return t, nil
}

// Get returns one transfer.
func (s *TransferService) Get(ctx context.Context, id uuid.UUID) (*domain.Transfer, error) {
	t, err := s.transferRepo.FindByID(ctx, s.pool, id)
	if err != nil {
		return nil, domain.ErrInternal("find transfer", err)
	}
	if t == nil {
		return nil, domain.ErrNotFound("transfer", id.String())
	}
	return t, nil
}

// List returns transfers, optionally filtered by status.
func (s *TransferService) List(ctx context.Context, status *domain.TransferStatus, limit int) ([]domain.Transfer, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	transfers, err := s.transferRepo.List(ctx, s.pool, status, limit)
	if err != nil {
		return nil, domain.ErrInternal("list transfers", err)
	}
	return transfers, nil
}

// Offers returns all offers placed against a transfer.
func (s *TransferService) Offers(ctx context.Context, transferID uuid.UUID) ([]domain.Offer, error) {
	if _, err := s.Get(ctx, transferID); err != nil {
		return nil, err
	}
	offers, err := s.offerRepo.ListByTransfer(ctx, s.pool, transferID)
	if err != nil {
		return nil, domain.ErrInternal("list offers", err)
	}
	return offers, nil
}

// UpdateStatus moves a transfer through its state machine. Entering
// accepted or completed requires an open transfer window; completing
// reassigns the player to the buying club in the same transaction.
func (s *TransferService) UpdateStatus(ctx context.Context, actorClubID *uuid.UUID, id uuid.UUID, next domain.TransferStatus) (*domain.Transfer, error) {
	if !domain.ValidTransferStatus(string(next)) {
		return nil, domain.ErrValidation("unknown transfer status: " + string(next))
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	t, err := s.transferRepo.LockForUpdate(ctx, tx, id)
	if err != nil {
		return nil, domain.ErrInternal("lock transfer", err)
	}
	if t == nil {
		return nil, domain.ErrNotFound("transfer", id.String())
	}

	if actorClubID != nil && !actorOnTransfer(t, *actorClubID) {
		return nil, domain.ErrForbidden("transfer does not involve your club")
	}

	if t.Status.IsTerminal() {
		return nil, domain.ErrConflict("transfer is in terminal state " + string(t.Status))
	}
	if !t.Status.CanTransition(next) {
		return nil, domain.ErrConflict("cannot move transfer from " + string(t.Status) + " to " + string(next))
	}

	if next.RequiresOpenWindow() {
		open, err := s.windowSvc.MarketOpen(ctx, tx)
		if err != nil {
			return nil, err
		}
		if !open {
			return nil, domain.ErrWindowClosed()
		}
	}

	if next == domain.TransferCompleted {
		if t.BuyerClubID == nil {
			return nil, domain.ErrConflict("transfer has no buyer to complete against")
		}
		// Lock the player row so two completions cannot race on the
		// same player.
		player, err := s.playerRepo.LockForUpdate(ctx, tx, t.PlayerID)
		if err != nil {
			return nil, domain.ErrInternal("lock player", err)
		}
		if player == nil {
			return nil, domain.ErrNotFound("player", t.PlayerID.String())
		}
		if err := s.playerRepo.AssignClub(ctx, tx, t.PlayerID, t.BuyerClubID); err != nil {
			return nil, domain.ErrInternal("assign player club", err)
		}
	}

	if err := s.transferRepo.UpdateStatus(ctx, tx, id, next); err != nil {
		return nil, domain.ErrInternal("update transfer status", err)
	}
	t.Status = next

	if next == domain.TransferCompleted {
		// Agreement generation and admin notification run off this event
		// in the outbox consumer, outside the transaction.
		if err := s.outbox.Insert(ctx, tx, domain.NewTransferEvent(domain.EventTransferCompleted, t)); err != nil {
			return nil, domain.ErrInternal("outbox event", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	if next == domain.TransferCompleted {
		s.metrics.TransfersCompleted.Inc()
	}
	s.logger.Info("transfer status updated", "transfer_id", id, "status", next)
	return t, nil
}

// SetAgreementRef records the rendered agreement artifact on a completed
// transfer. Called by the outbox consumer.
func (s *TransferService) SetAgreementRef(ctx context.Context, id uuid.UUID, ref string) error {
	t, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if t.Status != domain.TransferCompleted {
		return domain.ErrConflict("agreement references only attach to completed transfers")
	}
	if err := s.transferRepo.SetAgreementRef(ctx, s.pool, id, ref); err != nil {
		return domain.ErrInternal("set agreement ref", err)
	}
	return nil
}

// Delete removes a listing. Completed transfers are immutable history and
// cannot be deleted. Deletion is deliberately not window-gated: pulling a
// listing is allowed even when the market is closed.
func (s *TransferService) Delete(ctx context.Context, actorClubID *uuid.UUID, id uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	t, err := s.transferRepo.LockForUpdate(ctx, tx, id)
	if err != nil {
		return domain.ErrInternal("lock transfer", err)
	}
	if t == nil {
		return domain.ErrNotFound("transfer", id.String())
	}

	if actorClubID != nil {
		if t.SellerClubID == nil || *t.SellerClubID != *actorClubID {
			return domain.ErrForbidden("only the selling club may delete the listing")
		}
	}
	if t.Status == domain.TransferCompleted {
		return domain.ErrConflict("completed transfers cannot be deleted")
	}

	if err := s.transferRepo.Delete(ctx, tx, id); err != nil {
		return domain.ErrInternal("delete transfer", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("transfer deleted", "transfer_id", id)
	return nil
}

func actorOnTransfer(t *domain.Transfer, clubID uuid.UUID) bool {
	if t.SellerClubID != nil && *t.SellerClubID == clubID {
		return true
	}
	if t.BuyerClubID != nil && *t.BuyerClubID == clubID {
		return true
	}
	return false
}
