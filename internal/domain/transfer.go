package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransferType classifies how a player changes hands.
type TransferType string

const (
	TransferPermanent TransferType = "Permanent"
	TransferLoan      TransferType = "Loan"
	TransferFree      TransferType = "Free"
)

// TransferStatus is the transfer state machine:
//
//	pending → negotiation → accepted → completed
//
// rejected is reachable from pending/negotiation, and pending is
// re-reachable from negotiation when the last pending offer is withdrawn.
// completed is terminal.
type TransferStatus string

const (
	TransferPending     TransferStatus = "pending"
	TransferNegotiation TransferStatus = "negotiation"
	TransferAccepted    TransferStatus = "accepted"
	TransferRejected    TransferStatus = "rejected"
	TransferCompleted   TransferStatus = "completed"
)

// Transfer represents a proposed, ongoing or completed move of one player
// from a seller club (nil when the player is a free agent) to a buyer club.
type Transfer struct {
	ID           uuid.UUID      `json:"id"`
	PlayerID     uuid.UUID      `json:"player_id"`
	SellerClubID *uuid.UUID     `json:"seller_club_id,omitempty"`
	BuyerClubID  *uuid.UUID     `json:"buyer_club_id,omitempty"`
	Type         TransferType   `json:"type"`
	Amount       int64          `json:"amount"` // minor units
	Status       TransferStatus `json:"status"`
	AgreementRef *string        `json:"agreement_ref,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// IsTerminal reports whether no further lifecycle transitions are allowed.
func (s TransferStatus) IsTerminal() bool {
	return s == TransferCompleted || s == TransferRejected
}

var transferTransitions = map[TransferStatus][]TransferStatus{
	TransferPending:     {TransferNegotiation, TransferAccepted, TransferRejected},
	TransferNegotiation: {TransferPending, TransferAccepted, TransferRejected},
	TransferAccepted:    {TransferCompleted, TransferRejected},
}

// CanTransition reports whether the status may move from s to next.
func (s TransferStatus) CanTransition(next TransferStatus) bool {
	for _, allowed := range transferTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// RequiresOpenWindow reports whether entering the status is gated by the
// transfer window admission check.
func (s TransferStatus) RequiresOpenWindow() bool {
	return s == TransferAccepted || s == TransferCompleted
}

// ValidTransferStatus reports whether the string names a known status.
func ValidTransferStatus(s string) bool {
	switch TransferStatus(s) {
	case TransferPending, TransferNegotiation, TransferAccepted, TransferRejected, TransferCompleted:
		return true
	}
	return false
}

// NormalizeTransferAmount applies the type-dependent amount rules:
// Permanent requires a positive amount, Free forces the amount to zero,
// and any other type clamps negative amounts to zero.
func NormalizeTransferAmount(t TransferType, amount int64) (int64, error) {
	switch t {
	case TransferPermanent:
		if amount <= 0 {
			return 0, ErrValidation("permanent transfers require a positive amount")
		}
		return amount, nil
	case TransferFree:
		return 0, nil
	default:
		if amount < 0 {
			return 0, nil
		}
		return amount, nil
	}
}

// ValidTransferType reports whether the string names a known type.
func ValidTransferType(t string) bool {
	switch TransferType(t) {
	case TransferPermanent, TransferLoan, TransferFree:
		return true
	}
	return false
}
