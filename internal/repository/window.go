package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/transfermarket/platform/internal/domain"
)

type windowRepo struct{}

// NewWindowRepository returns a pgx-backed WindowRepository.
func NewWindowRepository() WindowRepository {
	return &windowRepo{}
}

const windowColumns = `id, name, start_at, end_at, is_open, created_at, updated_at`

func (r *windowRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.TransferWindow, error) {
	row := db.QueryRow(ctx, `
		SELECT `+windowColumns+`
		FROM transfer_windows WHERE id = $1`, id)
	return scanWindow(row)
}

func (r *windowRepo) Create(ctx context.Context, db DBTX, w *domain.TransferWindow) error {
	_, err := db.Exec(ctx, `
		INSERT INTO transfer_windows (id, name, start_at, end_at, is_open)
		VALUES ($1, $2, $3, $4, $5)`,
		w.ID, w.Name, w.StartAt, w.EndAt, w.IsOpen)
	if err != nil {
		return fmt.Errorf("insert transfer window: %w", err)
	}
	return nil
}

func (r *windowRepo) Update(ctx context.Context, db DBTX, w *domain.TransferWindow) error {
	_, err := db.Exec(ctx, `
		UPDATE transfer_windows
		SET name = $2, start_at = $3, end_at = $4, updated_at = now()
		WHERE id = $1`,
		w.ID, w.Name, w.StartAt, w.EndAt)
	if err != nil {
		return fmt.Errorf("update transfer window: %w", err)
	}
	return nil
}

func (r *windowRepo) List(ctx context.Context, db DBTX) ([]domain.TransferWindow, error) {
	rows, err := db.Query(ctx, `
		SELECT `+windowColumns+`
		FROM transfer_windows ORDER BY start_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list transfer windows: %w", err)
	}
	defer rows.Close()
	return collectWindows(rows)
}

func (r *windowRepo) ListOpen(ctx context.Context, db DBTX) ([]domain.TransferWindow, error) {
	rows, err := db.Query(ctx, `
		SELECT `+windowColumns+`
		FROM transfer_windows WHERE is_open = true`)
	if err != nil {
		return nil, fmt.Errorf("list open windows: %w", err)
	}
	defer rows.Close()
	return collectWindows(rows)
}

func (r *windowRepo) CloseAll(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		UPDATE transfer_windows SET is_open = false, updated_at = now()
		WHERE is_open = true`)
	if err != nil {
		return fmt.Errorf("close all windows: %w", err)
	}
	return nil
}

func (r *windowRepo) SetOpen(ctx context.Context, db DBTX, id uuid.UUID, open bool) error {
	_, err := db.Exec(ctx, `
		UPDATE transfer_windows SET is_open = $2, updated_at = now() WHERE id = $1`,
		id, open)
	if err != nil {
		return fmt.Errorf("set window open flag: %w", err)
	}
	return nil
}

func collectWindows(rows pgx.Rows) ([]domain.TransferWindow, error) {
	var windows []domain.TransferWindow
	for rows.Next() {
		var w domain.TransferWindow
		err := rows.Scan(&w.ID, &w.Name, &w.StartAt, &w.EndAt, &w.IsOpen,
			&w.CreatedAt, &w.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan window row: %w", err)
		}
		windows = append(windows, w)
	}
	return windows, rows.Err()
}

func scanWindow(row pgx.Row) (*domain.TransferWindow, error) {
	var w domain.TransferWindow
	err := row.Scan(&w.ID, &w.Name, &w.StartAt, &w.EndAt, &w.IsOpen,
		&w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan window: %w", err)
	}
	return &w, nil
}
