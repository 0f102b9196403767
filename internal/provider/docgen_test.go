package provider

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGenerateAgreementLocalFallback(t *testing.T) {
	c := NewDocgenClient("", discardLogger())

	transferID := uuid.New()
	ref, err := c.GenerateAgreement(context.Background(), AgreementRequest{TransferID: transferID})
	require.NoError(t, err)
	assert.Equal(t, "agreement://local/"+transferID.String(), ref)
}

func TestGenerateAgreementFromService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/agreements", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req AgreementRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Test Player", req.PlayerName)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"reference": "s3://agreements/" + req.TransferID.String() + ".pdf"})
	}))
	defer srv.Close()

	c := NewDocgenClient(srv.URL, discardLogger())

	transferID := uuid.New()
	ref, err := c.GenerateAgreement(context.Background(), AgreementRequest{
		TransferID:   transferID,
		PlayerName:   "Test Player",
		SellerClub:   "Seller FC",
		BuyerClub:    "Buyer FC",
		TransferType: "permanent",
		Amount:       5_000_000,
		CompletedAt:  time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, "s3://agreements/"+transferID.String()+".pdf", ref)
}

func TestGenerateAgreementServiceErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewDocgenClient(srv.URL, discardLogger())

	transferID := uuid.New()
	ref, err := c.GenerateAgreement(context.Background(), AgreementRequest{TransferID: transferID})
	require.NoError(t, err)
	assert.Equal(t, "agreement://local/"+transferID.String(), ref)
}

func TestAdminNotifierNoopWithoutURL(t *testing.T) {
	n := NewAdminNotifier("", discardLogger())
	// Must not panic or block.
	n.Notify(context.Background(), "title", "message", nil)
}

func TestAdminNotifierPostsPayload(t *testing.T) {
	received := make(chan map[string]interface{}, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		received <- payload
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := NewAdminNotifier(srv.URL, discardLogger())
	n.Notify(context.Background(), "High-risk offer", "risk score 25", map[string]int{"risk_score": 25})

	payload := <-received
	assert.Equal(t, "High-risk offer", payload["title"])
	assert.Equal(t, "risk score 25", payload["message"])
}
