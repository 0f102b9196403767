package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/transfermarket/platform/internal/domain"
	"github.com/transfermarket/platform/internal/infra"
	"github.com/transfermarket/platform/internal/provider"
	"github.com/transfermarket/platform/internal/repository"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("outbox consumer failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := infra.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pool, err := infra.NewPostgresPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()
	logger.Info("outbox-consumer connected to postgres")

	producer := infra.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaEnabled, logger)
	defer producer.Close()

	docgen := provider.NewDocgenClient(cfg.DocgenBaseURL, logger)

	completer := &completionHandler{
		pool:         pool,
		transferRepo: repository.NewTransferRepository(),
		playerRepo:   repository.NewPlayerRepository(),
		clubRepo:     repository.NewClubRepository(),
		notifRepo:    repository.NewNotificationRepository(),
		docgen:       docgen,
		logger:       logger,
	}

	poller := infra.NewOutboxPoller(pool, repository.NewOutboxRepository(), producer, completer.handle, logger)
	if s := os.Getenv("OUTBOX_POLL_INTERVAL"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			poller.SetInterval(d)
		}
	}

	poller.Run(ctx)
	return nil
}

// completionHandler runs the side effects of a completed transfer: agreement
// generation and the admin notification. These run here, off the outbox,
// so the completing HTTP request never waits on external services.
type completionHandler struct {
	pool         *pgxpool.Pool
	transferRepo repository.TransferRepository
	playerRepo   repository.PlayerRepository
	clubRepo     repository.ClubRepository
	notifRepo    repository.NotificationRepository
	docgen       *provider.DocgenClient
	logger       *slog.Logger
}

func (h *completionHandler) handle(ctx context.Context, row repository.OutboxRow) error {
	if row.EventType != domain.EventTransferCompleted {
		return nil
	}

	var t domain.Transfer
	if err := json.Unmarshal(row.Payload, &t); err != nil {
		return fmt.Errorf("decode transfer payload: %w", err)
	}

	current, err := h.transferRepo.FindByID(ctx, h.pool, t.ID)
	if err != nil {
		return fmt.Errorf("find transfer: %w", err)
	}
	if current == nil || current.Status != domain.TransferCompleted {
		h.logger.Warn("skipping completion side effects for non-completed transfer", "transfer_id", t.ID)
		return nil
	}
	if current.AgreementRef != nil {
		// Already processed; a crash between SetAgreementRef and
		// MarkPublished replays the event.
		return nil
	}

	ref, err := h.docgen.GenerateAgreement(ctx, h.buildAgreementRequest(ctx, current, row.OccurredAt))
	if err != nil {
		return fmt.Errorf("generate agreement: %w", err)
	}
	if err := h.transferRepo.SetAgreementRef(ctx, h.pool, current.ID, ref); err != nil {
		return fmt.Errorf("set agreement ref: %w", err)
	}

	details, _ := json.Marshal(map[string]interface{}{
		"transfer_id":   current.ID,
		"agreement_ref": ref,
		"amount":        current.Amount,
	})
	n := &domain.Notification{
		ID:      uuid.New(),
		Title:   "Transfer completed",
		Message: fmt.Sprintf("transfer %s completed, agreement %s", current.ID, ref),
		Details: details,
	}
	if err := h.notifRepo.Insert(ctx, h.pool, n); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}

	h.logger.Info("transfer completion processed", "transfer_id", current.ID, "agreement_ref", ref)
	return nil
}

func (h *completionHandler) buildAgreementRequest(ctx context.Context, t *domain.Transfer, completedAt time.Time) provider.AgreementRequest {
	req := provider.AgreementRequest{
		TransferID:   t.ID,
		TransferType: string(t.Type),
		Amount:       t.Amount,
		CompletedAt:  completedAt,
	}

	if player, err := h.playerRepo.FindByID(ctx, h.pool, t.PlayerID); err == nil && player != nil {
		req.PlayerName = player.Name
	}
	if t.SellerClubID != nil {
		if club, err := h.clubRepo.FindByID(ctx, h.pool, *t.SellerClubID); err == nil && club != nil {
			req.SellerClub = club.Name
		}
	}
	if t.BuyerClubID != nil {
		if club, err := h.clubRepo.FindByID(ctx, h.pool, *t.BuyerClubID); err == nil && club != nil {
			req.BuyerClub = club.Name
		}
	}
	return req
}
