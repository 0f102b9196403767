package domain

import (
	"time"

	"github.com/google/uuid"
)

// OfferStatus is the offer state machine: pending → accepted | rejected.
// Both outcomes are terminal; countering mutates the amount in place and
// leaves the status at pending.
type OfferStatus string

const (
	OfferPending  OfferStatus = "pending"
	OfferAccepted OfferStatus = "accepted"
	OfferRejected OfferStatus = "rejected"
)

// Offer is a bid by a buyer club against a specific transfer. At most one
// pending offer may exist per (transfer, buyer club) pair.
type Offer struct {
	ID          uuid.UUID   `json:"id"`
	TransferID  uuid.UUID   `json:"transfer_id"`
	BuyerClubID uuid.UUID   `json:"buyer_club_id"`
	Amount      int64       `json:"amount"` // minor units
	Status      OfferStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// IsTerminal reports whether the offer can no longer change state.
func (s OfferStatus) IsTerminal() bool {
	return s == OfferAccepted || s == OfferRejected
}
