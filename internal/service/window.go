package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/transfermarket/platform/internal/domain"
	"github.com/transfermarket/platform/internal/policy"
	"github.com/transfermarket/platform/internal/repository"
)

// WindowService manages transfer windows and answers the market-open check.
type WindowService struct {
	pool       *pgxpool.Pool
	windowRepo repository.WindowRepository
	outbox     repository.OutboxRepository
	logger     *slog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewWindowService creates a WindowService.
func NewWindowService(pool *pgxpool.Pool, windowRepo repository.WindowRepository, outbox repository.OutboxRepository, logger *slog.Logger) *WindowService {
	return &WindowService{
		pool:       pool,
		windowRepo: windowRepo,
		outbox:     outbox,
		logger:     logger,
		now:        time.Now,
	}
}

// WindowInput holds the admin request to create or update a window.
type WindowInput struct {
	Name    string    `json:"name"`
	StartAt time.Time `json:"start_at"`
	EndAt   time.Time `json:"end_at"`
}

func (in WindowInput) validate() error {
	if in.Name == "" {
		return domain.ErrValidation("window name is required")
	}
	if !in.EndAt.After(in.StartAt) {
		return domain.ErrValidation("window end must be after its start")
	}
	return nil
}

// Create registers a new transfer window. New windows start closed.
func (s *WindowService) Create(ctx context.Context, input WindowInput) (*domain.TransferWindow, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	w := &domain.TransferWindow{
		ID:      uuid.New(),
		Name:    input.Name,
		StartAt: input.StartAt,
		EndAt:   input.EndAt,
		IsOpen:  false,
	}
	if err := s.windowRepo.Create(ctx, s.pool, w); err != nil {
		return nil, domain.ErrInternal("create window", err)
	}

	s.logger.Info("transfer window created", "window_id", w.ID, "name", w.Name)
	return w, nil
}

// Update changes a window's name and time range. Open windows may be edited;
// the admission check always reads the stored range.
func (s *WindowService) Update(ctx context.Context, id uuid.UUID, input WindowInput) (*domain.TransferWindow, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	w, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	w.Name = input.Name
	w.StartAt = input.StartAt
	w.EndAt = input.EndAt

	if err := s.windowRepo.Update(ctx, s.pool, w); err != nil {
		return nil, domain.ErrInternal("update window", err)
	}
	return w, nil
}

// Get returns one window.
func (s *WindowService) Get(ctx context.Context, id uuid.UUID) (*domain.TransferWindow, error) {
	w, err := s.windowRepo.FindByID(ctx, s.pool, id)
	if err != nil {
		return nil, domain.ErrInternal("find window", err)
	}
	if w == nil {
		return nil, domain.ErrNotFound("transfer window", id.String())
	}
	return w, nil
}

// List returns all windows.
func (s *WindowService) List(ctx context.Context) ([]domain.TransferWindow, error) {
	windows, err := s.windowRepo.List(ctx, s.pool)
	if err != nil {
		return nil, domain.ErrInternal("list windows", err)
	}
	return windows, nil
}

// Open flags a window open. At most one window is open at a time, so every
// other window is closed in the same transaction.
func (s *WindowService) Open(ctx context.Context, id uuid.UUID) (*domain.TransferWindow, error) {
	w, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	if err := s.windowRepo.CloseAll(ctx, tx); err != nil {
		return nil, domain.ErrInternal("close windows", err)
	}
	if err := s.windowRepo.SetOpen(ctx, tx, id, true); err != nil {
		return nil, domain.ErrInternal("open window", err)
	}

	w.IsOpen = true
	if err := s.outbox.Insert(ctx, tx, domain.NewWindowEvent(domain.EventWindowOpened, w)); err != nil {
		return nil, domain.ErrInternal("outbox event", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("transfer window opened", "window_id", id, "name", w.Name)
	return w, nil
}

// Close flags a window closed.
func (s *WindowService) Close(ctx context.Context, id uuid.UUID) (*domain.TransferWindow, error) {
	w, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !w.IsOpen {
		return nil, domain.ErrConflict("window is already closed")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	if err := s.windowRepo.SetOpen(ctx, tx, id, false); err != nil {
		return nil, domain.ErrInternal("close window", err)
	}

	w.IsOpen = false
	if err := s.outbox.Insert(ctx, tx, domain.NewWindowEvent(domain.EventWindowClosed, w)); err != nil {
		return nil, domain.ErrInternal("outbox event", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("transfer window closed", "window_id", id, "name", w.Name)
	return w, nil
}

// MarketOpen reports whether any open window covers the current time. The
// answer is derived per call from the stored windows; nothing is cached.
// Pass nil to read from the pool, or a transaction to read inside one.
func (s *WindowService) MarketOpen(ctx context.Context, db repository.DBTX) (bool, error) {
	if db == nil {
		db = s.pool
	}
	windows, err := s.windowRepo.ListOpen(ctx, db)
	if err != nil {
		return false, domain.ErrInternal("list open windows", err)
	}
	return policy.WindowOpen(windows, s.now()), nil
}
