package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/transfermarket/platform/internal/domain"
)

// DBTX abstracts pgx.Tx and pgxpool.Pool so repositories work with both.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// UserRepository provides access to users.
type UserRepository interface {
	FindByEmail(ctx context.Context, db DBTX, email string) (*domain.User, error)
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.User, error)
	Create(ctx context.Context, db DBTX, user *domain.User) error
}

// ClubRepository provides access to clubs.
type ClubRepository interface {
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Club, error)
	FindByOwner(ctx context.Context, db DBTX, userID uuid.UUID) (*domain.Club, error)
	Create(ctx context.Context, db DBTX, club *domain.Club) error
	UpdateApproval(ctx context.Context, db DBTX, id uuid.UUID, approval domain.ClubApproval) error
	List(ctx context.Context, db DBTX, approval *domain.ClubApproval) ([]domain.Club, error)
}

// PlayerRepository provides access to players.
type PlayerRepository interface {
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Player, error)

	// LockForUpdate acquires a row-level lock (SELECT FOR UPDATE) and returns the player.
	LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Player, error)

	Create(ctx context.Context, db DBTX, player *domain.Player) error
	Update(ctx context.Context, db DBTX, player *domain.Player) error

	// AssignClub moves the player to a new club (nil releases to free agency).
	AssignClub(ctx context.Context, db DBTX, playerID uuid.UUID, clubID *uuid.UUID) error

	// SetStatus flips the lifecycle flag; players are never deleted.
	SetStatus(ctx context.Context, db DBTX, playerID uuid.UUID, status domain.PlayerStatus) error

	List(ctx context.Context, db DBTX, clubID *uuid.UUID) ([]domain.Player, error)

	// CountDuplicateIdentity counts other active players sharing the given
	// name, age and nationality.
	CountDuplicateIdentity(ctx context.Context, db DBTX, name string, age int, nationality string, excludeID uuid.UUID) (int, error)
}

// TransferRepository provides access to transfers.
type TransferRepository interface {
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Transfer, error)
	LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Transfer, error)
	Create(ctx context.Context, db DBTX, t *domain.Transfer) error
	UpdateStatus(ctx context.Context, db DBTX, id uuid.UUID, status domain.TransferStatus) error

	// SetBuyerAndAmount records the winning bid on offer acceptance.
	SetBuyerAndAmount(ctx context.Context, db DBTX, id uuid.UUID, buyerClubID uuid.UUID, amount int64, status domain.TransferStatus) error

	SetAgreementRef(ctx context.Context, db DBTX, id uuid.UUID, ref string) error
	Delete(ctx context.Context, db DBTX, id uuid.UUID) error
	List(ctx context.Context, db DBTX, status *domain.TransferStatus, limit int) ([]domain.Transfer, error)

	// CountRecentBySeller counts the seller club's non-rejected transfers
	// created after the cutoff.
	CountRecentBySeller(ctx context.Context, db DBTX, sellerClubID uuid.UUID, since time.Time) (int, error)
}

// OfferRepository provides access to offers.
type OfferRepository interface {
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Offer, error)
	LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Offer, error)
	Create(ctx context.Context, db DBTX, o *domain.Offer) error
	UpdateStatus(ctx context.Context, db DBTX, id uuid.UUID, status domain.OfferStatus) error
	UpdateAmount(ctx context.Context, db DBTX, id uuid.UUID, amount int64) error
	Delete(ctx context.Context, db DBTX, id uuid.UUID) error
	ListByTransfer(ctx context.Context, db DBTX, transferID uuid.UUID) ([]domain.Offer, error)

	// HasPendingByBuyer reports whether the buyer already has a pending
	// offer on the transfer.
	HasPendingByBuyer(ctx context.Context, db DBTX, transferID, buyerClubID uuid.UUID) (bool, error)

	// CountPendingByTransfer counts pending offers on the transfer.
	CountPendingByTransfer(ctx context.Context, db DBTX, transferID uuid.UUID) (int, error)

	// RejectSiblings marks every other pending offer on the transfer rejected.
	RejectSiblings(ctx context.Context, tx pgx.Tx, transferID, exceptOfferID uuid.UUID) (int, error)

	// CountRecentByBuyerForPlayer counts the buyer club's offers across all
	// transfers of the given player created after the cutoff.
	CountRecentByBuyerForPlayer(ctx context.Context, db DBTX, buyerClubID, playerID uuid.UUID, since time.Time) (int, error)
}

// WindowRepository provides access to transfer_windows.
type WindowRepository interface {
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.TransferWindow, error)
	Create(ctx context.Context, db DBTX, w *domain.TransferWindow) error
	Update(ctx context.Context, db DBTX, w *domain.TransferWindow) error
	List(ctx context.Context, db DBTX) ([]domain.TransferWindow, error)

	// ListOpen returns the rows currently flagged open.
	ListOpen(ctx context.Context, db DBTX) ([]domain.TransferWindow, error)

	// CloseAll clears the is_open flag everywhere; called inside the
	// open-window transaction to keep at most one row flagged open.
	CloseAll(ctx context.Context, tx pgx.Tx) error

	SetOpen(ctx context.Context, db DBTX, id uuid.UUID, open bool) error
}

// FraudAlertRepository provides access to fraud_alerts.
type FraudAlertRepository interface {
	// Insert persists an alert; duplicate fingerprints are dropped
	// (idempotent by design). Returns false when the row already existed.
	Insert(ctx context.Context, db DBTX, alert *domain.FraudAlert) (bool, error)

	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.FraudAlert, error)

	// Review records the admin decision and releases the alert from the
	// pending queue.
	Review(ctx context.Context, db DBTX, id uuid.UUID, status domain.FraudAlertStatus, reviewerID uuid.UUID, note *string) error

	List(ctx context.Context, db DBTX, status *domain.FraudAlertStatus, limit int) ([]domain.FraudAlert, error)
	Statistics(ctx context.Context, db DBTX) (*domain.FraudStatistics, error)
}

// NotificationRepository provides access to notifications.
type NotificationRepository interface {
	Insert(ctx context.Context, db DBTX, n *domain.Notification) error
	ListForAdmins(ctx context.Context, db DBTX, limit int) ([]domain.Notification, error)
}

// OutboxRow is one event_outbox row including its sequence id.
type OutboxRow struct {
	SeqID int64
	domain.OutboxDraft
}

// OutboxRepository provides access to the event_outbox table.
type OutboxRepository interface {
	// Insert writes an outbox event (within the same transaction as the
	// state change it describes).
	Insert(ctx context.Context, db DBTX, draft domain.OutboxDraft) error

	// FetchUnpublished returns unpublished events in commit order.
	FetchUnpublished(ctx context.Context, db DBTX, limit int) ([]OutboxRow, error)

	// MarkPublished flags events as published.
	MarkPublished(ctx context.Context, db DBTX, ids []int64) error
}
