package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/transfermarket/platform/internal/domain"
)

type fraudAlertRepo struct{}

// NewFraudAlertRepository returns a pgx-backed FraudAlertRepository.
func NewFraudAlertRepository() FraudAlertRepository {
	return &fraudAlertRepo{}
}

const alertColumns = `id, transfer_id, offer_id, player_id, buyer_club_id,
	seller_club_id, risk_score, violations, fingerprint, status,
	reviewed_by, review_note, reviewed_at, created_at`

// Insert writes an alert; the unique fingerprint index makes concurrent
// duplicate evaluations collapse into one row.
func (r *fraudAlertRepo) Insert(ctx context.Context, db DBTX, a *domain.FraudAlert) (bool, error) {
	violations, err := json.Marshal(a.Violations)
	if err != nil {
		return false, fmt.Errorf("marshal violations: %w", err)
	}

	tag, err := db.Exec(ctx, `
		INSERT INTO fraud_alerts
			(id, transfer_id, offer_id, player_id, buyer_club_id,
			 seller_club_id, risk_score, violations, fingerprint, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (fingerprint) DO NOTHING`,
		a.ID, a.TransferID, a.OfferID, a.PlayerID, a.BuyerClubID,
		a.SellerClubID, a.RiskScore, violations, a.Fingerprint, a.Status)
	if err != nil {
		return false, fmt.Errorf("insert fraud alert: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *fraudAlertRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.FraudAlert, error) {
	row := db.QueryRow(ctx, `
		SELECT `+alertColumns+`
		FROM fraud_alerts WHERE id = $1`, id)
	return scanFraudAlert(row)
}

func (r *fraudAlertRepo) Review(ctx context.Context, db DBTX, id uuid.UUID, status domain.FraudAlertStatus, reviewerID uuid.UUID, note *string) error {
	_, err := db.Exec(ctx, `
		UPDATE fraud_alerts
		SET status = $2, reviewed_by = $3, review_note = $4, reviewed_at = now()
		WHERE id = $1`,
		id, status, reviewerID, note)
	if err != nil {
		return fmt.Errorf("review fraud alert: %w", err)
	}
	return nil
}

func (r *fraudAlertRepo) List(ctx context.Context, db DBTX, status *domain.FraudAlertStatus, limit int) ([]domain.FraudAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM fraud_alerts`
	args := []interface{}{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d`, limit)

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list fraud alerts: %w", err)
	}
	defer rows.Close()

	var alerts []domain.FraudAlert
	for rows.Next() {
		a, err := scanFraudAlertRows(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, *a)
	}
	return alerts, rows.Err()
}

func (r *fraudAlertRepo) Statistics(ctx context.Context, db DBTX) (*domain.FraudStatistics, error) {
	stats := &domain.FraudStatistics{ByViolation: map[string]int{}}

	err := db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'pending'),
		       COUNT(*) FILTER (WHERE status = 'resolved'),
		       COUNT(*) FILTER (WHERE status = 'false_positive'),
		       COALESCE(AVG(risk_score), 0),
		       COUNT(*) FILTER (WHERE risk_score >= 20)
		FROM fraud_alerts`).Scan(
		&stats.TotalAlerts, &stats.PendingAlerts, &stats.ResolvedAlerts,
		&stats.FalsePositives, &stats.AverageScore, &stats.HighRiskAlerts)
	if err != nil {
		return nil, fmt.Errorf("fraud alert counts: %w", err)
	}

	rows, err := db.Query(ctx, `
		SELECT v->>'type', COUNT(*)
		FROM fraud_alerts, jsonb_array_elements(violations) v
		GROUP BY 1`)
	if err != nil {
		return nil, fmt.Errorf("fraud violation breakdown: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var typ string
		var count int
		if err := rows.Scan(&typ, &count); err != nil {
			return nil, fmt.Errorf("scan violation breakdown: %w", err)
		}
		stats.ByViolation[typ] = count
	}
	return stats, rows.Err()
}

func scanFraudAlert(row pgx.Row) (*domain.FraudAlert, error) {
	var a domain.FraudAlert
	var violations []byte
	err := row.Scan(&a.ID, &a.TransferID, &a.OfferID, &a.PlayerID,
		&a.BuyerClubID, &a.SellerClubID, &a.RiskScore, &violations,
		&a.Fingerprint, &a.Status, &a.ReviewedBy, &a.ReviewNote,
		&a.ReviewedAt, &a.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan fraud alert: %w", err)
	}
	if err := json.Unmarshal(violations, &a.Violations); err != nil {
		return nil, fmt.Errorf("unmarshal violations: %w", err)
	}
	return &a, nil
}

func scanFraudAlertRows(rows pgx.Rows) (*domain.FraudAlert, error) {
	var a domain.FraudAlert
	var violations []byte
	err := rows.Scan(&a.ID, &a.TransferID, &a.OfferID, &a.PlayerID,
		&a.BuyerClubID, &a.SellerClubID, &a.RiskScore, &violations,
		&a.Fingerprint, &a.Status, &a.ReviewedBy, &a.ReviewNote,
		&a.ReviewedAt, &a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("scan fraud alert row: %w", err)
	}
	if err := json.Unmarshal(violations, &a.Violations); err != nil {
		return nil, fmt.Errorf("unmarshal violations: %w", err)
	}
	return &a, nil
}
