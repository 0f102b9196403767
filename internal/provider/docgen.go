package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// DocgenClient talks to the document-generation service that renders
// transfer agreements. If no base URL is configured, a deterministic
// local reference is issued instead so completion never blocks on it.
type DocgenClient struct {
	baseURL string
	logger  *slog.Logger
	client  *http.Client
}

// NewDocgenClient creates a new document-generation client.
func NewDocgenClient(baseURL string, logger *slog.Logger) *DocgenClient {
	return &DocgenClient{
		baseURL: baseURL,
		logger:  logger,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// AgreementRequest is the snapshot of a completed transfer sent for rendering.
type AgreementRequest struct {
	TransferID   uuid.UUID `json:"transfer_id"`
	PlayerName   string    `json:"player_name"`
	SellerClub   string    `json:"seller_club"`
	BuyerClub    string    `json:"buyer_club"`
	TransferType string    `json:"transfer_type"`
	Amount       int64     `json:"amount"`
	CompletedAt  time.Time `json:"completed_at"`
}

// GenerateAgreement renders a transfer agreement and returns its artifact reference.
// Falls back to a local reference if the service is unavailable.
func (c *DocgenClient) GenerateAgreement(ctx context.Context, req AgreementRequest) (string, error) {
	if c.baseURL == "" {
		c.logger.Debug("docgen base url not set, issuing local reference", "transfer_id", req.TransferID)
		return localReference(req.TransferID), nil
	}

	ref, err := c.render(ctx, req)
	if err != nil {
		c.logger.Warn("docgen unavailable, issuing local reference", "transfer_id", req.TransferID, "error", err)
		return localReference(req.TransferID), nil
	}

	return ref, nil
}

func (c *DocgenClient) render(ctx context.Context, req AgreementRequest) (string, error) {
	body, _ := json.Marshal(req)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/agreements", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("docgen call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("docgen returned %d", resp.StatusCode)
	}

	var response struct {
		Reference string `json:"reference"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if response.Reference == "" {
		return "", fmt.Errorf("docgen returned empty reference")
	}

	return response.Reference, nil
}

func localReference(transferID uuid.UUID) string {
	return fmt.Sprintf("agreement://local/%s", transferID)
}
