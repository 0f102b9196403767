package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/transfermarket/platform/internal/domain"
	"github.com/transfermarket/platform/internal/infra"
	"github.com/transfermarket/platform/internal/repository"
)

// OfferService handles the bid lifecycle against transfer listings.
type OfferService struct {
	pool         *pgxpool.Pool
	offerRepo    repository.OfferRepository
	transferRepo repository.TransferRepository
	clubRepo     repository.ClubRepository
	windowSvc    *WindowService
	fraudSvc     *FraudService
	outbox       repository.OutboxRepository
	metrics      *infra.Metrics
	logger       *slog.Logger
}

// NewOfferService creates an OfferService.
func NewOfferService(pool *pgxpool.Pool, offerRepo repository.OfferRepository, transferRepo repository.TransferRepository, clubRepo repository.ClubRepository, windowSvc *WindowService, fraudSvc *FraudService, outbox repository.OutboxRepository, metrics *infra.Metrics, logger *slog.Logger) *OfferService {
	return &OfferService{
		pool:         pool,
		offerRepo:    offerRepo,
		transferRepo: transferRepo,
		clubRepo:     clubRepo,
		windowSvc:    windowSvc,
		fraudSvc:     fraudSvc,
		outbox:       outbox,
		metrics:      metrics,
		logger:       logger,
	}
}

// Create places a bid on a transfer listing. Bidding requires an open
// transfer window. The first offer moves the transfer from pending to
// negotiation. Fraud heuristics run after commit against the persisted
// state.
func (s *OfferService) Create(ctx context.Context, buyerClubID, transferID uuid.UUID, amount int64) (*domain.Offer, error) {
	if err := domain.ValidatePositiveAmount(amount); err != nil {
		return nil, err
	}

	buyer, err := s.clubRepo.FindByID(ctx, s.pool, buyerClubID)
	if err != nil {
		return nil, domain.ErrInternal("find buyer club", err)
	}
	if buyer == nil || buyer.Approval != domain.ClubApproved {
		return nil, domain.ErrForbidden("buying club is not approved")
	}

	o := &domain.Offer{
		ID:          uuid.New(),
		TransferID:  transferID,
		BuyerClubID: buyerClubID,
		Amount:      amount,
		Status:      domain.OfferPending,
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	t, err := s.transferRepo.LockForUpdate(ctx, tx, transferID)
	if err != nil {
		return nil, domain.ErrInternal("lock transfer", err)
	}
	if t == nil {
		return nil, domain.ErrNotFound("transfer", transferID.String())
	}
	if t.Status != domain.TransferPending && t.Status != domain.TransferNegotiation {
		return nil, domain.ErrConflict("transfer is not accepting offers in state " + string(t.Status))
	}
	if t.SellerClubID != nil && *t.SellerClubID == buyerClubID {
		return nil, domain.ErrConflict("a club cannot bid on its own listing")
	}

	open, err := s.windowSvc.MarketOpen(ctx, tx)
	if err != nil {
		return nil, err
	}
	if !open {
		return nil, domain.ErrWindowClosed()
	}

	hasPending, err := s.offerRepo.HasPendingByBuyer(ctx, tx, transferID, buyerClubID)
	if err != nil {
		return nil, domain.ErrInternal("check pending offer", err)
	}
	if hasPending {
		return nil, domain.ErrConflict("club already has a pending offer on this transfer")
	}

	if err := s.offerRepo.Create(ctx, tx, o); err != nil {
		return nil, domain.ErrInternal("create offer", err)
	}

	if t.Status == domain.TransferPending {
		if err := s.transferRepo.UpdateStatus(ctx, tx, transferID, domain.TransferNegotiation); err != nil {
			return nil, domain.ErrInternal("move transfer to negotiation", err)
		}
		t.Status = domain.TransferNegotiation
	}

	if err := s.outbox.Insert(ctx, tx, domain.NewOfferEvent(domain.EventOfferPlaced, o)); err != nil {
		return nil, domain.ErrInternal("outbox event", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.metrics.OffersPlaced.Inc()
	s.logger.Info("offer placed", "offer_id", o.ID, "transfer_id", transferID, "buyer_club_id", buyerClubID, "amount", amount)

	// Fraud evaluation reads the committed state so the candidate offer is
	// included in its own aggregate counts. Failures are logged, never
	// surfaced: detection must not break the market.
	s.fraudSvc.EvaluateOffer(ctx, o, t)

	return o, nil
}

// Accept lets the selling club take an offer. Acceptance is window-gated:
// it moves the transfer to accepted and locks in the buyer and price, and
// every other pending offer on the listing is rejected.
func (s *OfferService) Accept(ctx context.Context, sellerClubID, offerID uuid.UUID) (*domain.Offer, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	o, err := s.offerRepo.LockForUpdate(ctx, tx, offerID)
	if err != nil {
		return nil, domain.ErrInternal("lock offer", err)
	}
	if o == nil {
		return nil, domain.ErrNotFound("offer", offerID.String())
	}
	if o.Status.IsTerminal() {
		return nil, domain.ErrConflict("offer is already " + string(o.Status))
	}

	t, err := s.transferRepo.LockForUpdate(ctx, tx, o.TransferID)
	if err != nil {
		return nil, domain.ErrInternal("lock transfer", err)
	}
	if t == nil {
		return nil, domain.ErrNotFound("transfer", o.TransferID.String())
	}
	if t.SellerClubID == nil || *t.SellerClubID != sellerClubID {
		return nil, domain.ErrForbidden("only the selling club may accept offers")
	}
	if !t.Status.CanTransition(domain.TransferAccepted) {
		return nil, domain.ErrConflict("transfer cannot be accepted from state " + string(t.Status))
	}

	open, err := s.windowSvc.MarketOpen(ctx, tx)
	if err != nil {
		return nil, err
	}
	if !open {
		return nil, domain.ErrWindowClosed()
	}

	if err := s.offerRepo.UpdateStatus(ctx, tx, offerID, domain.OfferAccepted); err != nil {
		return nil, domain.ErrInternal("accept offer", err)
	}
	o.Status = domain.OfferAccepted

	rejected, err := s.offerRepo.RejectSiblings(ctx, tx, o.TransferID, offerID)
	if err != nil {
		return nil, domain.ErrInternal("reject sibling offers", err)
	}

	if err := s.transferRepo.SetBuyerAndAmount(ctx, tx, o.TransferID, o.BuyerClubID, o.Amount, domain.TransferAccepted); err != nil {
		return nil, domain.ErrInternal("record winning bid", err)
	}
	t.BuyerClubID = &o.BuyerClubID
	t.Amount = o.Amount
	t.Status = domain.TransferAccepted

	if err := s.outbox.Insert(ctx, tx, domain.NewOfferEvent(domain.EventOfferAccepted, o)); err != nil {
		return nil, domain.ErrInternal("outbox event", err)
	}
	if err := s.outbox.Insert(ctx, tx, domain.NewTransferEvent(domain.EventTransferAccepted, t)); err != nil {
		return nil, domain.ErrInternal("outbox event", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.metrics.OffersAccepted.Inc()
	s.logger.Info("offer accepted", "offer_id", offerID, "transfer_id", o.TransferID, "siblings_rejected", rejected)
	return o, nil
}

// Reject lets the selling club decline an offer. When the last pending
// offer goes away the transfer falls back from negotiation to pending.
func (s *OfferService) Reject(ctx context.Context, sellerClubID, offerID uuid.UUID) (*domain.Offer, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	o, t, err := s.lockPendingOffer(ctx, tx, offerID)
	if err != nil {
		return nil, err
	}
	if t.SellerClubID == nil || *t.SellerClubID != sellerClubID {
		return nil, domain.ErrForbidden("only the selling club may reject offers")
	}

	if err := s.offerRepo.UpdateStatus(ctx, tx, offerID, domain.OfferRejected); err != nil {
		return nil, domain.ErrInternal("reject offer", err)
	}
	o.Status = domain.OfferRejected

	if err := s.revertIfNoPending(ctx, tx, t); err != nil {
		return nil, err
	}

	if err := s.outbox.Insert(ctx, tx, domain.NewOfferEvent(domain.EventOfferRejected, o)); err != nil {
		return nil, domain.ErrInternal("outbox event", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("offer rejected", "offer_id", offerID, "transfer_id", o.TransferID)
	return o, nil
}

// Counter lets the selling club propose a different price on a pending
// offer. Countering requires an open transfer window. The offer stays
// pending at the new amount; the buyer responds by withdrawing or leaving
// it for acceptance.
func (s *OfferService) Counter(ctx context.Context, sellerClubID, offerID uuid.UUID, amount int64) (*domain.Offer, error) {
	if err := domain.ValidatePositiveAmount(amount); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	o, t, err := s.lockPendingOffer(ctx, tx, offerID)
	if err != nil {
		return nil, err
	}
	if t.SellerClubID == nil || *t.SellerClubID != sellerClubID {
		return nil, domain.ErrForbidden("only the selling club may counter offers")
	}

	open, err := s.windowSvc.MarketOpen(ctx, tx)
	if err != nil {
		return nil, err
	}
	if !open {
		return nil, domain.ErrWindowClosed()
	}

	if err := s.offerRepo.UpdateAmount(ctx, tx, offerID, amount); err != nil {
		return nil, domain.ErrInternal("counter offer", err)
	}
	o.Amount = amount

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("offer countered", "offer_id", offerID, "amount", amount)
	return o, nil
}

// Withdraw lets the buying club pull its own pending offer. Withdrawal is
// not window-gated. When it was the last pending offer the transfer falls
// back to pending.
func (s *OfferService) Withdraw(ctx context.Context, buyerClubID, offerID uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	o, t, err := s.lockPendingOffer(ctx, tx, offerID)
	if err != nil {
		return err
	}
	if o.BuyerClubID != buyerClubID {
		return domain.ErrForbidden("only the bidding club may withdraw its offer")
	}

	if err := s.offerRepo.Delete(ctx, tx, offerID); err != nil {
		return domain.ErrInternal("delete offer", err)
	}

	if err := s.revertIfNoPending(ctx, tx, t); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("offer withdrawn", "offer_id", offerID, "transfer_id", o.TransferID)
	return nil
}

// Get returns one offer.
func (s *OfferService) Get(ctx context.Context, id uuid.UUID) (*domain.Offer, error) {
	o, err := s.offerRepo.FindByID(ctx, s.pool, id)
	if err != nil {
		return nil, domain.ErrInternal("find offer", err)
	}
	if o == nil {
		return nil, domain.ErrNotFound("offer", id.String())
	}
	return o, nil
}

// lockPendingOffer locks the offer and its transfer, requiring the offer
// to still be pending.
func (s *OfferService) lockPendingOffer(ctx context.Context, tx pgx.Tx, offerID uuid.UUID) (*domain.Offer, *domain.Transfer, error) {
	o, err := s.offerRepo.LockForUpdate(ctx, tx, offerID)
	if err != nil {
		return nil, nil, domain.ErrInternal("lock offer", err)
	}
	if o == nil {
		return nil, nil, domain.ErrNotFound("offer", offerID.String())
	}
	if o.Status.IsTerminal() {
		return nil, nil, domain.ErrConflict("offer is already " + string(o.Status))
	}

	t, err := s.transferRepo.LockForUpdate(ctx, tx, o.TransferID)
	if err != nil {
		return nil, nil, domain.ErrInternal("lock transfer", err)
	}
	if t == nil {
		return nil, nil, domain.ErrNotFound("transfer", o.TransferID.String())
	}
	return o, t, nil
}

// revertIfNoPending drops a negotiation back to pending once its last
// pending offer is gone.
func (s *OfferService) revertIfNoPending(ctx context.Context, tx pgx.Tx, t *domain.Transfer) error {
	if t.Status != domain.TransferNegotiation {
		return nil
	}
	pending, err := s.offerRepo.CountPendingByTransfer(ctx, tx, t.ID)
	if err != nil {
		return domain.ErrInternal("count pending offers", err)
	}
	if pending == 0 {
		if err := s.transferRepo.UpdateStatus(ctx, tx, t.ID, domain.TransferPending); err != nil {
			return domain.ErrInternal("revert transfer to pending", err)
		}
		t.Status = domain.TransferPending
	}
	return nil
}
