package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Validator Tests ---

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid email", "owner@club.com", false},
		{"valid email with dots", "first.last@club.co.uk", false},
		{"empty string", "", true},
		{"no at sign", "ownerclub.com", true},
		{"no domain", "owner@", true},
		{"no tld", "owner@club", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidatePositiveAmount(t *testing.T) {
	assert.NoError(t, ValidatePositiveAmount(1))
	assert.Error(t, ValidatePositiveAmount(0))
	assert.Error(t, ValidatePositiveAmount(-500))
}

// --- Transfer state machine ---

func TestTransferTransitions(t *testing.T) {
	tests := []struct {
		from, to TransferStatus
		ok       bool
	}{
		{TransferPending, TransferNegotiation, true},
		{TransferPending, TransferAccepted, true},
		{TransferPending, TransferRejected, true},
		{TransferNegotiation, TransferPending, true},
		{TransferNegotiation, TransferAccepted, true},
		{TransferAccepted, TransferCompleted, true},
		{TransferAccepted, TransferRejected, true},
		{TransferCompleted, TransferPending, false},
		{TransferCompleted, TransferRejected, false},
		{TransferRejected, TransferAccepted, false},
		{TransferPending, TransferCompleted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.ok, tt.from.CanTransition(tt.to))
		})
	}
}

func TestTransferStatusTerminal(t *testing.T) {
	assert.True(t, TransferCompleted.IsTerminal())
	assert.True(t, TransferRejected.IsTerminal())
	assert.False(t, TransferAccepted.IsTerminal())
	assert.False(t, TransferNegotiation.IsTerminal())
}

func TestTransferStatusWindowGating(t *testing.T) {
	assert.True(t, TransferAccepted.RequiresOpenWindow())
	assert.True(t, TransferCompleted.RequiresOpenWindow())
	assert.False(t, TransferNegotiation.RequiresOpenWindow())
	assert.False(t, TransferRejected.RequiresOpenWindow())
}

func TestNormalizeTransferAmount(t *testing.T) {
	amount, err := NormalizeTransferAmount(TransferPermanent, 500_000)
	require.NoError(t, err)
	assert.Equal(t, int64(500_000), amount)

	_, err = NormalizeTransferAmount(TransferPermanent, 0)
	require.Error(t, err)

	amount, err = NormalizeTransferAmount(TransferFree, 999)
	require.NoError(t, err)
	assert.Equal(t, int64(0), amount)

	amount, err = NormalizeTransferAmount(TransferLoan, -100)
	require.NoError(t, err)
	assert.Equal(t, int64(0), amount)

	amount, err = NormalizeTransferAmount(TransferLoan, 250)
	require.NoError(t, err)
	assert.Equal(t, int64(250), amount)
}

// --- Window coverage ---

func TestWindowCoversBoundaries(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC)
	w := &TransferWindow{StartAt: start, EndAt: end}

	assert.True(t, w.Covers(start), "start boundary is inclusive")
	assert.True(t, w.Covers(end), "end boundary is inclusive")
	assert.True(t, w.Covers(start.Add(24*time.Hour)))
	assert.False(t, w.Covers(start.Add(-time.Second)))
	assert.False(t, w.Covers(end.Add(time.Second)))
}

// --- Fraud alert fingerprint ---

func TestAlertFingerprintDeterministic(t *testing.T) {
	transferID := uuid.New()
	offerID := uuid.New()
	a := []Violation{{Type: ViolationInflatedValue}, {Type: ViolationMultipleBids}}
	b := []Violation{{Type: ViolationMultipleBids}, {Type: ViolationInflatedValue}}

	assert.Equal(t,
		AlertFingerprint(transferID, &offerID, a),
		AlertFingerprint(transferID, &offerID, b),
		"fingerprint must be order-insensitive over violation types")
}

func TestAlertFingerprintDistinguishesEvents(t *testing.T) {
	transferID := uuid.New()
	v := []Violation{{Type: ViolationInflatedValue}}

	withNilOffer := AlertFingerprint(transferID, nil, v)
	offerID := uuid.New()
	withOffer := AlertFingerprint(transferID, &offerID, v)
	otherTransfer := AlertFingerprint(uuid.New(), nil, v)

	assert.NotEqual(t, withNilOffer, withOffer)
	assert.NotEqual(t, withNilOffer, otherTransfer)
}

func TestValidFraudAlertStatus(t *testing.T) {
	assert.True(t, ValidFraudAlertStatus("resolved"))
	assert.True(t, ValidFraudAlertStatus("false_positive"))
	assert.False(t, ValidFraudAlertStatus("pending"), "pending is the initial state, not a review outcome")
	assert.False(t, ValidFraudAlertStatus("bogus"))
}
