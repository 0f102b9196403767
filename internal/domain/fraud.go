package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Severity classifies how suspicious a single fraud violation is.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Violation types produced by the heuristics engine.
const (
	ViolationDuplicatePlayer = "duplicate_player"
	ViolationInflatedValue   = "inflated_value"
	ViolationMultipleBids    = "multiple_bids"
	ViolationUnusualPatterns = "unusual_patterns"
)

// Violation is one heuristic finding attached to a fraud alert.
type Violation struct {
	Type        string          `json:"type"`
	Severity    Severity        `json:"severity"`
	Description string          `json:"description"`
	Details     json.RawMessage `json:"details,omitempty"`
}

// FraudAlertStatus is the admin review status of an alert.
type FraudAlertStatus string

const (
	AlertPending       FraudAlertStatus = "pending"
	AlertResolved      FraudAlertStatus = "resolved"
	AlertFalsePositive FraudAlertStatus = "false_positive"
)

// ValidFraudAlertStatus reports whether the string names a review outcome
// an admin may set.
func ValidFraudAlertStatus(s string) bool {
	switch FraudAlertStatus(s) {
	case AlertResolved, AlertFalsePositive:
		return true
	}
	return false
}

// FraudAlert is a persisted record of heuristic-detected suspicious
// activity, pending admin review. Alerts are never auto-deleted.
type FraudAlert struct {
	ID           uuid.UUID        `json:"id"`
	TransferID   uuid.UUID        `json:"transfer_id"`
	OfferID      *uuid.UUID       `json:"offer_id,omitempty"`
	PlayerID     uuid.UUID        `json:"player_id"`
	BuyerClubID  *uuid.UUID       `json:"buyer_club_id,omitempty"`
	SellerClubID *uuid.UUID       `json:"seller_club_id,omitempty"`
	RiskScore    int              `json:"risk_score"`
	Violations   []Violation      `json:"violations"`
	Fingerprint  string           `json:"-"`
	Status       FraudAlertStatus `json:"status"`
	ReviewedBy   *uuid.UUID       `json:"reviewed_by,omitempty"`
	ReviewNote   *string          `json:"review_note,omitempty"`
	ReviewedAt   *time.Time       `json:"reviewed_at,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// AlertFingerprint derives the dedup key for an evaluation: concurrent
// evaluations of the same event produce the same fingerprint, so duplicate
// alert writes collapse into one row.
func AlertFingerprint(transferID uuid.UUID, offerID *uuid.UUID, violations []Violation) string {
	types := make([]string, 0, len(violations))
	for _, v := range violations {
		types = append(types, v.Type)
	}
	sort.Strings(types)

	var b strings.Builder
	b.WriteString(transferID.String())
	if offerID != nil {
		b.WriteString("|")
		b.WriteString(offerID.String())
	}
	for _, t := range types {
		b.WriteString("|")
		b.WriteString(t)
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// FraudStatistics is the aggregate view returned to admins.
type FraudStatistics struct {
	TotalAlerts    int            `json:"total_alerts"`
	PendingAlerts  int            `json:"pending_alerts"`
	ResolvedAlerts int            `json:"resolved_alerts"`
	FalsePositives int            `json:"false_positives"`
	AverageScore   float64        `json:"average_score"`
	HighRiskAlerts int            `json:"high_risk_alerts"` // score >= 20
	ByViolation    map[string]int `json:"by_violation"`
}
