package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/transfermarket/platform/internal/domain"
)

type offerRepo struct{}

// NewOfferRepository returns a pgx-backed OfferRepository.
func NewOfferRepository() OfferRepository {
	return &offerRepo{}
}

const offerColumns = `id, transfer_id, buyer_club_id, amount, status, created_at, updated_at`

func (r *offerRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Offer, error) {
	row := db.QueryRow(ctx, `
		SELECT `+offerColumns+`
		FROM offers WHERE id = $1`, id)
	return scanOffer(row)
}

func (r *offerRepo) LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Offer, error) {
	row := tx.QueryRow(ctx, `
		SELECT `+offerColumns+`
		FROM offers WHERE id = $1 FOR UPDATE`, id)
	return scanOffer(row)
}

func (r *offerRepo) Create(ctx context.Context, db DBTX, o *domain.Offer) error {
	_, err := db.Exec(ctx, `
		INSERT INTO offers (id, transfer_id, buyer_club_id, amount, status)
		VALUES ($1, $2, $3, $4, $5)`,
		o.ID, o.TransferID, o.BuyerClubID, o.Amount, o.Status)
	if err != nil {
		return fmt.Errorf("insert offer: %w", err)
	}
	return nil
}

func (r *offerRepo) UpdateStatus(ctx context.Context, db DBTX, id uuid.UUID, status domain.OfferStatus) error {
	_, err := db.Exec(ctx, `
		UPDATE offers SET status = $2, updated_at = now() WHERE id = $1`,
		id, status)
	if err != nil {
		return fmt.Errorf("update offer status: %w", err)
	}
	return nil
}

func (r *offerRepo) UpdateAmount(ctx context.Context, db DBTX, id uuid.UUID, amount int64) error {
	_, err := db.Exec(ctx, `
		UPDATE offers SET amount = $2, updated_at = now() WHERE id = $1`,
		id, amount)
	if err != nil {
		return fmt.Errorf("update offer amount: %w", err)
	}
	return nil
}

func (r *offerRepo) Delete(ctx context.Context, db DBTX, id uuid.UUID) error {
	_, err := db.Exec(ctx, `DELETE FROM offers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete offer: %w", err)
	}
	return nil
}

func (r *offerRepo) ListByTransfer(ctx context.Context, db DBTX, transferID uuid.UUID) ([]domain.Offer, error) {
	rows, err := db.Query(ctx, `
		SELECT `+offerColumns+`
		FROM offers WHERE transfer_id = $1
		ORDER BY created_at DESC`, transferID)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	defer rows.Close()

	var offers []domain.Offer
	for rows.Next() {
		var o domain.Offer
		err := rows.Scan(&o.ID, &o.TransferID, &o.BuyerClubID, &o.Amount,
			&o.Status, &o.CreatedAt, &o.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan offer row: %w", err)
		}
		offers = append(offers, o)
	}
	return offers, rows.Err()
}

func (r *offerRepo) HasPendingByBuyer(ctx context.Context, db DBTX, transferID, buyerClubID uuid.UUID) (bool, error) {
	var exists bool
	err := db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM offers
			WHERE transfer_id = $1 AND buyer_club_id = $2 AND status = 'pending')`,
		transferID, buyerClubID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check pending offer: %w", err)
	}
	return exists, nil
}

func (r *offerRepo) CountPendingByTransfer(ctx context.Context, db DBTX, transferID uuid.UUID) (int, error) {
	var count int
	err := db.QueryRow(ctx, `
		SELECT COUNT(*) FROM offers
		WHERE transfer_id = $1 AND status = 'pending'`,
		transferID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count pending offers: %w", err)
	}
	return count, nil
}

func (r *offerRepo) RejectSiblings(ctx context.Context, tx pgx.Tx, transferID, exceptOfferID uuid.UUID) (int, error) {
	tag, err := tx.Exec(ctx, `
		UPDATE offers SET status = 'rejected', updated_at = now()
		WHERE transfer_id = $1 AND id <> $2 AND status = 'pending'`,
		transferID, exceptOfferID)
	if err != nil {
		return 0, fmt.Errorf("reject sibling offers: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *offerRepo) CountRecentByBuyerForPlayer(ctx context.Context, db DBTX, buyerClubID, playerID uuid.UUID, since time.Time) (int, error) {
	var count int
	err := db.QueryRow(ctx, `
		SELECT COUNT(*) FROM offers o
		JOIN transfers t ON t.id = o.transfer_id
		WHERE o.buyer_club_id = $1 AND t.player_id = $2 AND o.created_at >= $3`,
		buyerClubID, playerID, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count recent buyer offers: %w", err)
	}
	return count, nil
}

func scanOffer(row pgx.Row) (*domain.Offer, error) {
	var o domain.Offer
	err := row.Scan(&o.ID, &o.TransferID, &o.BuyerClubID, &o.Amount,
		&o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan offer: %w", err)
	}
	return &o, nil
}
