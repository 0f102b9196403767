package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/transfermarket/platform/internal/domain"
	"github.com/transfermarket/platform/internal/guard"
	"github.com/transfermarket/platform/internal/infra"
	"github.com/transfermarket/platform/internal/policy"
	"github.com/transfermarket/platform/internal/provider"
	"github.com/transfermarket/platform/internal/repository"
)

// FraudService runs the heuristics engine against listings and placed offers
// and manages the resulting alerts.
type FraudService struct {
	pool         *pgxpool.Pool
	playerRepo   repository.PlayerRepository
	transferRepo repository.TransferRepository
	offerRepo    repository.OfferRepository
	alertRepo    repository.FraudAlertRepository
	notifRepo    repository.NotificationRepository
	outbox       repository.OutboxRepository
	dedupe       *guard.DedupeGuard
	notifier     *provider.AdminNotifier
	metrics      *infra.Metrics
	logger       *slog.Logger

	now func() time.Time
}

// NewFraudService creates a FraudService.
func NewFraudService(pool *pgxpool.Pool, playerRepo repository.PlayerRepository, transferRepo repository.TransferRepository, offerRepo repository.OfferRepository, alertRepo repository.FraudAlertRepository, notifRepo repository.NotificationRepository, outbox repository.OutboxRepository, dedupe *guard.DedupeGuard, notifier *provider.AdminNotifier, metrics *infra.Metrics, logger *slog.Logger) *FraudService {
	return &FraudService{
		pool:         pool,
		playerRepo:   playerRepo,
		transferRepo: transferRepo,
		offerRepo:    offerRepo,
		alertRepo:    alertRepo,
		notifRepo:    notifRepo,
		outbox:       outbox,
		dedupe:       dedupe,
		notifier:     notifier,
		metrics:      metrics,
		logger:       logger,
		now:          time.Now,
	}
}

// EvaluateOffer runs all heuristics against a freshly committed offer.
// Detection is fail-open: any error is logged and swallowed so the market
// operation that triggered it never fails on its account.
func (s *FraudService) EvaluateOffer(ctx context.Context, o *domain.Offer, t *domain.Transfer) {
	eval, err := s.evaluate(ctx, o, t)
	if err != nil {
		s.logger.Error("fraud evaluation failed", "offer_id", o.ID, "transfer_id", t.ID, "error", err)
		return
	}

	s.metrics.RiskScore.Observe(float64(eval.RiskScore))

	if !eval.Suspicious() {
		return
	}

	if err := s.raiseAlert(ctx, o, t, eval); err != nil {
		s.logger.Error("fraud alert persistence failed", "offer_id", o.ID, "transfer_id", t.ID, "error", err)
	}
}

// EvaluateTransfer runs the heuristics against a freshly committed listing.
// No offer exists yet, so the listing amount stands in as the candidate
// amount and the buyer-side checks stay silent. Fail-open like EvaluateOffer.
func (s *FraudService) EvaluateTransfer(ctx context.Context, t *domain.Transfer) {
	eval, err := s.evaluate(ctx, nil, t)
	if err != nil {
		s.logger.Error("fraud evaluation failed", "transfer_id", t.ID, "error", err)
		return
	}

	s.metrics.RiskScore.Observe(float64(eval.RiskScore))

	if !eval.Suspicious() {
		return
	}

	if err := s.raiseAlert(ctx, nil, t, eval); err != nil {
		s.logger.Error("fraud alert persistence failed", "transfer_id", t.ID, "error", err)
	}
}

// evaluate builds the candidate snapshot for a listing (nil offer) or a bid
// and runs the pure scoring pass over it.
func (s *FraudService) evaluate(ctx context.Context, o *domain.Offer, t *domain.Transfer) (policy.Evaluation, error) {
	var eval policy.Evaluation

	player, err := s.playerRepo.FindByID(ctx, s.pool, t.PlayerID)
	if err != nil {
		return eval, fmt.Errorf("find player: %w", err)
	}
	if player == nil {
		return eval, fmt.Errorf("player %s vanished during evaluation", t.PlayerID)
	}

	now := s.now()

	dupes, err := s.playerRepo.CountDuplicateIdentity(ctx, s.pool, player.Name, player.Age, player.Nationality, player.ID)
	if err != nil {
		return eval, fmt.Errorf("count duplicate identities: %w", err)
	}

	amount := t.Amount
	buyerBids := 0
	if o != nil {
		amount = o.Amount
		buyerBids, err = s.offerRepo.CountRecentByBuyerForPlayer(ctx, s.pool, o.BuyerClubID, player.ID, now.Add(-24*time.Hour))
		if err != nil {
			return eval, fmt.Errorf("count buyer bids: %w", err)
		}
	}

	sellerTransfers := 0
	if t.SellerClubID != nil {
		sellerTransfers, err = s.transferRepo.CountRecentBySeller(ctx, s.pool, *t.SellerClubID, now.Add(-time.Hour))
		if err != nil {
			return eval, fmt.Errorf("count seller transfers: %w", err)
		}
	}

	candidate := policy.Candidate{
		PlayerName:             player.Name,
		PlayerAge:              player.Age,
		PlayerNationality:      player.Nationality,
		MarketValue:            player.MarketValue,
		OfferedAmount:          amount,
		DuplicateIdentityCount: dupes,
		BuyerBidCount24h:       buyerBids,
		SellerTransferCount1h:  sellerTransfers,
		EvaluatedAt:            now,
	}

	return policy.Evaluate(candidate), nil
}

func (s *FraudService) raiseAlert(ctx context.Context, o *domain.Offer, t *domain.Transfer, eval policy.Evaluation) error {
	var offerID, buyerClubID *uuid.UUID
	if o != nil {
		offerID = &o.ID
		buyerClubID = &o.BuyerClubID
	}

	fingerprint := domain.AlertFingerprint(t.ID, offerID, eval.Violations)

	if res := s.dedupe.Check(ctx, fingerprint); !res.Allowed {
		s.logger.Debug("fraud alert deduplicated in-process", "fingerprint", fingerprint)
		return nil
	}

	alert := &domain.FraudAlert{
		ID:           uuid.New(),
		TransferID:   t.ID,
		OfferID:      offerID,
		PlayerID:     t.PlayerID,
		BuyerClubID:  buyerClubID,
		SellerClubID: t.SellerClubID,
		RiskScore:    eval.RiskScore,
		Violations:   eval.Violations,
		Fingerprint:  fingerprint,
		Status:       domain.AlertPending,
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		s.dedupe.Remove(fingerprint)
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	inserted, err := s.alertRepo.Insert(ctx, tx, alert)
	if err != nil {
		s.dedupe.Remove(fingerprint)
		return fmt.Errorf("insert alert: %w", err)
	}
	if !inserted {
		// Another instance won the fingerprint; nothing more to do.
		return tx.Commit(ctx)
	}

	if err := s.outbox.Insert(ctx, tx, domain.NewFraudAlertEvent(alert)); err != nil {
		s.dedupe.Remove(fingerprint)
		return fmt.Errorf("outbox event: %w", err)
	}

	notify := eval.RiskScore >= policy.AlertThreshold
	if notify {
		details, _ := json.Marshal(map[string]interface{}{
			"alert_id":    alert.ID,
			"transfer_id": t.ID,
			"offer_id":    offerID,
			"risk_score":  eval.RiskScore,
		})
		subject := "listing"
		if o != nil {
			subject = "offer"
		}
		n := &domain.Notification{
			ID:      uuid.New(),
			Title:   "High-risk market activity",
			Message: fmt.Sprintf("%s on transfer %s scored %d risk points", subject, t.ID, eval.RiskScore),
			Details: details,
		}
		if err := s.notifRepo.Insert(ctx, tx, n); err != nil {
			s.dedupe.Remove(fingerprint)
			return fmt.Errorf("insert notification: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		s.dedupe.Remove(fingerprint)
		return fmt.Errorf("commit tx: %w", err)
	}

	s.metrics.FraudAlertsRaised.Inc()
	s.logger.Warn("fraud alert raised",
		"alert_id", alert.ID, "transfer_id", t.ID, "offer_id", offerID,
		"risk_score", eval.RiskScore, "violations", len(eval.Violations))

	if notify {
		s.notifier.Notify(ctx, "High-risk market activity",
			fmt.Sprintf("alert %s: risk score %d", alert.ID, eval.RiskScore),
			alert)
	}

	return nil
}

// ReviewInput holds an admin decision on a pending alert.
type ReviewInput struct {
	Status string  `json:"status"`
	Note   *string `json:"note,omitempty"`
}

// Review records the admin verdict on an alert. Only pending alerts can be
// reviewed, and only to resolved or false_positive.
func (s *FraudService) Review(ctx context.Context, reviewerID, alertID uuid.UUID, input ReviewInput) (*domain.FraudAlert, error) {
	if !domain.ValidFraudAlertStatus(input.Status) {
		return nil, domain.ErrValidation("review status must be resolved or false_positive")
	}

	alert, err := s.Get(ctx, alertID)
	if err != nil {
		return nil, err
	}
	if alert.Status != domain.AlertPending {
		return nil, domain.ErrConflict("alert has already been reviewed")
	}

	status := domain.FraudAlertStatus(input.Status)
	if err := s.alertRepo.Review(ctx, s.pool, alertID, status, reviewerID, input.Note); err != nil {
		return nil, domain.ErrInternal("review alert", err)
	}

	s.logger.Info("fraud alert reviewed", "alert_id", alertID, "status", status, "reviewer_id", reviewerID)

	now := s.now()
	alert.Status = status
	alert.ReviewedBy = &reviewerID
	alert.ReviewNote = input.Note
	alert.ReviewedAt = &now
	return alert, nil
}

// Get returns one alert.
func (s *FraudService) Get(ctx context.Context, id uuid.UUID) (*domain.FraudAlert, error) {
	alert, err := s.alertRepo.FindByID(ctx, s.pool, id)
	if err != nil {
		return nil, domain.ErrInternal("find alert", err)
	}
	if alert == nil {
		return nil, domain.ErrNotFound("fraud alert", id.String())
	}
	return alert, nil
}

// List returns alerts, optionally filtered by review status.
func (s *FraudService) List(ctx context.Context, status *domain.FraudAlertStatus, limit int) ([]domain.FraudAlert, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	alerts, err := s.alertRepo.List(ctx, s.pool, status, limit)
	if err != nil {
		return nil, domain.ErrInternal("list alerts", err)
	}
	return alerts, nil
}

// Statistics returns the aggregate fraud view for the admin dashboard.
func (s *FraudService) Statistics(ctx context.Context) (*domain.FraudStatistics, error) {
	stats, err := s.alertRepo.Statistics(ctx, s.pool)
	if err != nil {
		return nil, domain.ErrInternal("fraud statistics", err)
	}
	return stats, nil
}

// Notifications returns the broadcast admin notification feed.
func (s *FraudService) Notifications(ctx context.Context, limit int) ([]domain.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	items, err := s.notifRepo.ListForAdmins(ctx, s.pool, limit)
	if err != nil {
		return nil, domain.ErrInternal("list notifications", err)
	}
	return items, nil
}
