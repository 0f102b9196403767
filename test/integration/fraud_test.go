//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/transfermarket/platform/test/integration/testutil"
)

type alertView struct {
	ID         uuid.UUID  `json:"id"`
	TransferID uuid.UUID  `json:"transfer_id"`
	OfferID    *uuid.UUID `json:"offer_id"`
	PlayerID   uuid.UUID  `json:"player_id"`
	RiskScore  int        `json:"risk_score"`
	Status     string     `json:"status"`
	Violations []struct {
		Type     string `json:"type"`
		Severity string `json:"severity"`
	} `json:"violations"`
	ReviewedBy *uuid.UUID `json:"reviewed_by"`
	ReviewNote *string    `json:"review_note"`
}

func (a alertView) hasViolation(violationType string) bool {
	for _, v := range a.Violations {
		if v.Type == violationType {
			return true
		}
	}
	return false
}

func listAlerts(t *testing.T, env *testutil.TestEnv, adminToken string) []alertView {
	t.Helper()

	resp := env.AuthGET(adminToken, "/admin/fraud/alerts")
	testutil.AssertStatus(t, resp, http.StatusOK)
	var alerts []alertView
	testutil.DecodeBody(t, resp, &alerts)
	return alerts
}

func TestInflatedOfferRaisesAlert(t *testing.T) {
	env := testutil.NewTestEnv(t)

	admin := env.RegisterAdmin()
	seller := env.RegisterClub("Honest FC")
	buyer := env.RegisterClub("Lavish FC")
	playerID := env.SeedPlayer(&seller.ClubID, "Felix Brandt", 1_000_000)
	env.OpenWindow()

	transferID := createListing(t, env, seller.Token, playerID, "Permanent", 1_200_000)

	// 600% over market value: well past the high-severity threshold.
	offerID := placeOffer(t, env, buyer.Token, transferID, 7_000_000)

	alerts := listAlerts(t, env, admin.Token)
	require.Len(t, alerts, 1)

	alert := alerts[0]
	require.Equal(t, transferID, alert.TransferID)
	require.NotNil(t, alert.OfferID)
	require.Equal(t, offerID, *alert.OfferID)
	require.Equal(t, playerID, alert.PlayerID)
	require.Equal(t, "pending", alert.Status)
	require.True(t, alert.hasViolation("inflated_value"))
	require.GreaterOrEqual(t, alert.RiskScore, 10)

	// A fair-priced bid on another listing raises nothing new.
	other := env.SeedPlayer(&seller.ClubID, "Theo Marsh", 4_000_000)
	otherTransfer := createListing(t, env, seller.Token, other, "Permanent", 4_200_000)
	placeOffer(t, env, buyer.Token, otherTransfer, 4_100_000)

	require.Len(t, listAlerts(t, env, admin.Token), 1)
}

func TestInflatedListingRaisesAlert(t *testing.T) {
	env := testutil.NewTestEnv(t)

	admin := env.RegisterAdmin()
	seller := env.RegisterClub("Ambitious FC")
	playerID := env.SeedPlayer(&seller.ClubID, "Marco Silva", 1_000_000)
	env.OpenWindow()

	// Asking 600% over market value flags the listing before any bid exists.
	transferID := createListing(t, env, seller.Token, playerID, "Permanent", 7_000_000)

	alerts := listAlerts(t, env, admin.Token)
	require.Len(t, alerts, 1)

	alert := alerts[0]
	require.Equal(t, transferID, alert.TransferID)
	require.Nil(t, alert.OfferID, "a listing alert carries no offer")
	require.Equal(t, playerID, alert.PlayerID)
	require.True(t, alert.hasViolation("inflated_value"))
	require.GreaterOrEqual(t, alert.RiskScore, 10)

	// A fairly priced listing by the same seller raises nothing new.
	other := env.SeedPlayer(&seller.ClubID, "Nils Berg", 2_000_000)
	createListing(t, env, seller.Token, other, "Permanent", 2_100_000)

	require.Len(t, listAlerts(t, env, admin.Token), 1)
}

func TestDuplicateIdentityScoresHighRisk(t *testing.T) {
	env := testutil.NewTestEnv(t)

	admin := env.RegisterAdmin()
	seller := env.RegisterClub("Mirror FC")
	buyer := env.RegisterClub("Gullible FC")

	// Two active players with the same name, age and nationality.
	playerID := env.SeedPlayerIdentity(&seller.ClubID, "Ivan Petrov", 27, "Bulgaria", 1_000_000)
	env.SeedPlayerIdentity(nil, "Ivan Petrov", 27, "Bulgaria", 900_000)
	env.OpenWindow()

	// The listing alone already trips the duplicate-identity check.
	transferID := createListing(t, env, seller.Token, playerID, "Permanent", 1_200_000)

	alerts := listAlerts(t, env, admin.Token)
	require.Len(t, alerts, 1)
	require.Nil(t, alerts[0].OfferID)
	require.True(t, alerts[0].hasViolation("duplicate_player"))

	// Duplicate identity plus heavy inflation on the bid pushes the score
	// to the notification threshold.
	placeOffer(t, env, buyer.Token, transferID, 8_000_000)

	alerts = listAlerts(t, env, admin.Token)
	require.Len(t, alerts, 2)

	var bidAlert *alertView
	for i := range alerts {
		if alerts[i].OfferID != nil {
			bidAlert = &alerts[i]
		}
	}
	require.NotNil(t, bidAlert)
	require.True(t, bidAlert.hasViolation("duplicate_player"))
	require.True(t, bidAlert.hasViolation("inflated_value"))
	require.GreaterOrEqual(t, bidAlert.RiskScore, 20)

	resp := env.AuthGET(admin.Token, "/admin/notifications")
	testutil.AssertStatus(t, resp, http.StatusOK)
	var notifications []struct {
		Title   string `json:"title"`
		Message string `json:"message"`
	}
	testutil.DecodeBody(t, resp, &notifications)
	require.NotEmpty(t, notifications)
	require.Equal(t, "High-risk market activity", notifications[0].Title)
}

func TestRepeatBidsFlagMultipleBids(t *testing.T) {
	env := testutil.NewTestEnv(t)

	admin := env.RegisterAdmin()
	seller := env.RegisterClub("Revolving FC")
	buyer := env.RegisterClub("Insistent FC")
	playerID := env.SeedPlayer(&seller.ClubID, "Samuel Okoro", 3_000_000)
	env.OpenWindow()

	transferID := createListing(t, env, seller.Token, playerID, "Permanent", 3_200_000)

	// Two bid-and-reject rounds, then a third bid. Rejected offers still
	// count toward the 24-hour total, so the third crosses the threshold.
	for i := 0; i < 2; i++ {
		offerID := placeOffer(t, env, buyer.Token, transferID, 3_100_000)
		resp := env.AuthPOST(seller.Token, fmt.Sprintf("/offers/%s/reject", offerID), nil)
		testutil.AssertStatus(t, resp, http.StatusOK)
		resp.Body.Close()
	}
	placeOffer(t, env, buyer.Token, transferID, 3_100_000)

	alerts := listAlerts(t, env, admin.Token)
	require.Len(t, alerts, 1)
	require.True(t, alerts[0].hasViolation("multiple_bids"))
}

func TestAlertReviewLifecycle(t *testing.T) {
	env := testutil.NewTestEnv(t)

	admin := env.RegisterAdmin()
	seller := env.RegisterClub("Audited FC")
	buyer := env.RegisterClub("Flagged FC")
	playerID := env.SeedPlayer(&seller.ClubID, "Diego Fuentes", 500_000)
	env.OpenWindow()

	transferID := createListing(t, env, seller.Token, playerID, "Permanent", 600_000)
	placeOffer(t, env, buyer.Token, transferID, 4_000_000)

	alerts := listAlerts(t, env, admin.Token)
	require.Len(t, alerts, 1)
	alertID := alerts[0].ID

	// pending is not a review verdict.
	resp := env.AuthPOST(admin.Token, fmt.Sprintf("/admin/fraud/alerts/%s/review", alertID),
		map[string]interface{}{"status": "pending"})
	testutil.AssertErrorCode(t, resp, http.StatusBadRequest, "VALIDATION_ERROR")

	resp = env.AuthPOST(admin.Token, fmt.Sprintf("/admin/fraud/alerts/%s/review", alertID),
		map[string]interface{}{"status": "false_positive", "note": "agreed price, checked with both clubs"})
	testutil.AssertStatus(t, resp, http.StatusOK)

	var reviewed alertView
	testutil.DecodeBody(t, resp, &reviewed)
	require.Equal(t, "false_positive", reviewed.Status)
	require.NotNil(t, reviewed.ReviewedBy)
	require.Equal(t, admin.UserID, *reviewed.ReviewedBy)
	require.NotNil(t, reviewed.ReviewNote)

	// Alerts are reviewed once.
	resp = env.AuthPOST(admin.Token, fmt.Sprintf("/admin/fraud/alerts/%s/review", alertID),
		map[string]interface{}{"status": "resolved"})
	testutil.AssertErrorCode(t, resp, http.StatusConflict, "CONFLICT")

	// Status filter on the list endpoint.
	resp = env.AuthGET(admin.Token, "/admin/fraud/alerts?status=pending")
	testutil.AssertStatus(t, resp, http.StatusOK)
	var pending []alertView
	testutil.DecodeBody(t, resp, &pending)
	require.Empty(t, pending)

	resp = env.AuthGET(admin.Token, "/admin/fraud/alerts?status=false_positive")
	testutil.AssertStatus(t, resp, http.StatusOK)
	var falsePositives []alertView
	testutil.DecodeBody(t, resp, &falsePositives)
	require.Len(t, falsePositives, 1)
}

func TestFraudStatistics(t *testing.T) {
	env := testutil.NewTestEnv(t)

	admin := env.RegisterAdmin()
	seller := env.RegisterClub("Sampled FC")
	buyer := env.RegisterClub("Counted FC")

	playerA := env.SeedPlayer(&seller.ClubID, "Stat Player A", 1_000_000)
	playerB := env.SeedPlayer(&seller.ClubID, "Stat Player B", 1_000_000)
	env.OpenWindow()

	transferA := createListing(t, env, seller.Token, playerA, "Permanent", 1_100_000)
	transferB := createListing(t, env, seller.Token, playerB, "Permanent", 1_100_000)

	placeOffer(t, env, buyer.Token, transferA, 7_000_000)
	placeOffer(t, env, buyer.Token, transferB, 7_000_000)

	alerts := listAlerts(t, env, admin.Token)
	require.Len(t, alerts, 2)

	resp := env.AuthPOST(admin.Token, fmt.Sprintf("/admin/fraud/alerts/%s/review", alerts[0].ID),
		map[string]interface{}{"status": "resolved"})
	testutil.AssertStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = env.AuthGET(admin.Token, "/admin/fraud/statistics")
	testutil.AssertStatus(t, resp, http.StatusOK)

	var stats struct {
		TotalAlerts    int            `json:"total_alerts"`
		PendingAlerts  int            `json:"pending_alerts"`
		ResolvedAlerts int            `json:"resolved_alerts"`
		FalsePositives int            `json:"false_positives"`
		AverageScore   float64        `json:"average_score"`
		ByViolation    map[string]int `json:"by_violation"`
	}
	testutil.DecodeBody(t, resp, &stats)
	require.Equal(t, 2, stats.TotalAlerts)
	require.Equal(t, 1, stats.PendingAlerts)
	require.Equal(t, 1, stats.ResolvedAlerts)
	require.Zero(t, stats.FalsePositives)
	require.Greater(t, stats.AverageScore, 0.0)
	require.GreaterOrEqual(t, stats.ByViolation["inflated_value"], 2)
}

func TestFraudEndpointsRequireAdmin(t *testing.T) {
	env := testutil.NewTestEnv(t)

	club := env.RegisterClub("Curious FC")

	resp := env.AuthGET(club.Token, "/admin/fraud/alerts")
	testutil.AssertStatus(t, resp, http.StatusUnauthorized)

	resp = env.GET("/admin/fraud/statistics")
	testutil.AssertStatus(t, resp, http.StatusUnauthorized)
}
