package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/transfermarket/platform/internal/domain"
)

type transferRepo struct{}

// NewTransferRepository returns a pgx-backed TransferRepository.
func NewTransferRepository() TransferRepository {
	return &transferRepo{}
}

const transferColumns = `id, player_id, seller_club_id, buyer_club_id, type,
	amount, status, agreement_ref, created_at, updated_at`

func (r *transferRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Transfer, error) {
	row := db.QueryRow(ctx, `
		SELECT `+transferColumns+`
		FROM transfers WHERE id = $1`, id)
	return scanTransfer(row)
}

func (r *transferRepo) LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Transfer, error) {
	row := tx.QueryRow(ctx, `
		SELECT `+transferColumns+`
		FROM transfers WHERE id = $1 FOR UPDATE`, id)
	return scanTransfer(row)
}

func (r *transferRepo) Create(ctx context.Context, db DBTX, t *domain.Transfer) error {
	_, err := db.Exec(ctx, `
		INSERT INTO transfers (id, player_id, seller_club_id, buyer_club_id, type, amount, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.PlayerID, t.SellerClubID, t.BuyerClubID, t.Type, t.Amount, t.Status)
	if err != nil {
		return fmt.Errorf("insert transfer: %w", err)
	}
	return nil
}

func (r *transferRepo) UpdateStatus(ctx context.Context, db DBTX, id uuid.UUID, status domain.TransferStatus) error {
	_, err := db.Exec(ctx, `
		UPDATE transfers SET status = $2, updated_at = now() WHERE id = $1`,
		id, status)
	if err != nil {
		return fmt.Errorf("update transfer status: %w", err)
	}
	return nil
}

func (r *transferRepo) SetBuyerAndAmount(ctx context.Context, db DBTX, id uuid.UUID, buyerClubID uuid.UUID, amount int64, status domain.TransferStatus) error {
	_, err := db.Exec(ctx, `
		UPDATE transfers
		SET buyer_club_id = $2, amount = $3, status = $4, updated_at = now()
		WHERE id = $1`,
		id, buyerClubID, amount, status)
	if err != nil {
		return fmt.Errorf("set transfer buyer: %w", err)
	}
	return nil
}

func (r *transferRepo) SetAgreementRef(ctx context.Context, db DBTX, id uuid.UUID, ref string) error {
	_, err := db.Exec(ctx, `
		UPDATE transfers SET agreement_ref = $2, updated_at = now() WHERE id = $1`,
		id, ref)
	if err != nil {
		return fmt.Errorf("set agreement ref: %w", err)
	}
	return nil
}

func (r *transferRepo) Delete(ctx context.Context, db DBTX, id uuid.UUID) error {
	_, err := db.Exec(ctx, `DELETE FROM transfers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete transfer: %w", err)
	}
	return nil
}

func (r *transferRepo) List(ctx context.Context, db DBTX, status *domain.TransferStatus, limit int) ([]domain.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers`
	args := []interface{}{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d`, limit)

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()

	var transfers []domain.Transfer
	for rows.Next() {
		var t domain.Transfer
		err := rows.Scan(&t.ID, &t.PlayerID, &t.SellerClubID, &t.BuyerClubID,
			&t.Type, &t.Amount, &t.Status, &t.AgreementRef, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan transfer row: %w", err)
		}
		transfers = append(transfers, t)
	}
	return transfers, rows.Err()
}

func (r *transferRepo) CountRecentBySeller(ctx context.Context, db DBTX, sellerClubID uuid.UUID, since time.Time) (int, error) {
	var count int
	err := db.QueryRow(ctx, `
		SELECT COUNT(*) FROM transfers
		WHERE seller_club_id = $1 AND created_at >= $2 AND status <> 'rejected'`,
		sellerClubID, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count recent seller transfers: %w", err)
	}
	return count, nil
}

func scanTransfer(row pgx.Row) (*domain.Transfer, error) {
	var t domain.Transfer
	err := row.Scan(&t.ID, &t.PlayerID, &t.SellerClubID, &t.BuyerClubID,
		&t.Type, &t.Amount, &t.Status, &t.AgreementRef, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan transfer: %w", err)
	}
	return &t, nil
}
