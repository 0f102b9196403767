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

func TestClubSignupAndLogin(t *testing.T) {
	env := testutil.NewTestEnv(t)

	email := "signup-flow@example.com"
	resp := env.POST("/auth/signup", map[string]interface{}{
		"email":     email,
		"password":  "test-password-1",
		"club_name": "Signup FC",
	})
	testutil.AssertStatus(t, resp, http.StatusCreated)

	var signup struct {
		UserID uuid.UUID `json:"user_id"`
		ClubID uuid.UUID `json:"club_id"`
		Status string    `json:"status"`
	}
	testutil.DecodeBody(t, resp, &signup)
	require.Equal(t, "pending", signup.Status)

	// Duplicate email is rejected.
	resp = env.POST("/auth/signup", map[string]interface{}{
		"email":     email,
		"password":  "test-password-1",
		"club_name": "Other FC",
	})
	testutil.AssertErrorCode(t, resp, http.StatusConflict, "CONFLICT")

	// A pending club cannot log in until an admin approves it.
	resp = env.POST("/auth/login", map[string]interface{}{
		"email":    email,
		"password": "test-password-1",
	})
	testutil.AssertErrorCode(t, resp, http.StatusForbidden, "FORBIDDEN")

	admin := env.RegisterAdmin()
	resp = env.AuthPOST(admin.Token, fmt.Sprintf("/admin/clubs/%s/review", signup.ClubID),
		map[string]interface{}{"approve": true})
	testutil.AssertStatus(t, resp, http.StatusOK)

	resp = env.POST("/auth/login", map[string]interface{}{
		"email":    email,
		"password": "test-password-1",
	})
	testutil.AssertStatus(t, resp, http.StatusOK)

	var login struct {
		Token  string     `json:"token"`
		ClubID *uuid.UUID `json:"club_id"`
	}
	testutil.DecodeBody(t, resp, &login)
	require.NotEmpty(t, login.Token)
	require.NotNil(t, login.ClubID)
	require.Equal(t, signup.ClubID, *login.ClubID)

	// Wrong password.
	resp = env.POST("/auth/login", map[string]interface{}{
		"email":    email,
		"password": "wrong-password",
	})
	testutil.AssertErrorCode(t, resp, http.StatusUnauthorized, "UNAUTHORIZED")
}

func TestTransferListingOwnership(t *testing.T) {
	env := testutil.NewTestEnv(t)

	seller := env.RegisterClub("Owner FC")
	rival := env.RegisterClub("Rival FC")
	playerID := env.SeedPlayer(&seller.ClubID, "Marco Reyes", 10_000_000)

	// Listing is window-gated.
	resp := env.AuthPOST(seller.Token, "/transfers", map[string]interface{}{
		"player_id": playerID,
		"type":      "Permanent",
		"amount":    12_000_000,
	})
	testutil.AssertErrorCode(t, resp, http.StatusUnprocessableEntity, "WINDOW_CLOSED")

	env.OpenWindow()

	// Only the holding club may list the player.
	resp = env.AuthPOST(rival.Token, "/transfers", map[string]interface{}{
		"player_id": playerID,
		"type":      "Permanent",
		"amount":    12_000_000,
	})
	testutil.AssertErrorCode(t, resp, http.StatusForbidden, "FORBIDDEN")

	// Permanent listings require a positive amount.
	resp = env.AuthPOST(seller.Token, "/transfers", map[string]interface{}{
		"player_id": playerID,
		"type":      "Permanent",
		"amount":    0,
	})
	testutil.AssertErrorCode(t, resp, http.StatusBadRequest, "VALIDATION_ERROR")

	// Unauthenticated listing is rejected.
	resp = env.POST("/transfers", map[string]interface{}{
		"player_id": playerID,
		"type":      "Permanent",
		"amount":    12_000_000,
	})
	testutil.AssertStatus(t, resp, http.StatusUnauthorized)

	resp = env.AuthPOST(seller.Token, "/transfers", map[string]interface{}{
		"player_id": playerID,
		"type":      "Permanent",
		"amount":    12_000_000,
	})
	testutil.AssertStatus(t, resp, http.StatusCreated)

	var transfer struct {
		ID           uuid.UUID  `json:"id"`
		SellerClubID *uuid.UUID `json:"seller_club_id"`
		Status       string     `json:"status"`
		Amount       int64      `json:"amount"`
	}
	testutil.DecodeBody(t, resp, &transfer)
	require.Equal(t, "pending", transfer.Status)
	require.NotNil(t, transfer.SellerClubID)
	require.Equal(t, seller.ClubID, *transfer.SellerClubID)
	require.Equal(t, int64(12_000_000), transfer.Amount)
}

func TestOfferNegotiationAndCompletion(t *testing.T) {
	env := testutil.NewTestEnv(t)

	seller := env.RegisterClub("Selling FC")
	buyer := env.RegisterClub("Buying FC")
	third := env.RegisterClub("Third FC")
	playerID := env.SeedPlayer(&seller.ClubID, "Jonas Weber", 10_000_000)
	env.OpenWindow()

	transferID := createListing(t, env, seller.Token, playerID, "Permanent", 12_000_000)

	// A club cannot bid on its own listing.
	resp := env.AuthPOST(seller.Token, fmt.Sprintf("/transfers/%s/offers", transferID),
		map[string]interface{}{"amount": 12_000_000})
	testutil.AssertErrorCode(t, resp, http.StatusConflict, "CONFLICT")

	// First bid moves the listing into negotiation.
	buyerOfferID := placeOffer(t, env, buyer.Token, transferID, 11_000_000)
	requireTransferStatus(t, env, transferID, "negotiation")

	// One live bid per buyer per listing.
	resp = env.AuthPOST(buyer.Token, fmt.Sprintf("/transfers/%s/offers", transferID),
		map[string]interface{}{"amount": 11_500_000})
	testutil.AssertErrorCode(t, resp, http.StatusConflict, "CONFLICT")

	thirdOfferID := placeOffer(t, env, third.Token, transferID, 10_500_000)

	// Only the seller may accept, and acceptance rejects every sibling bid.
	resp = env.AuthPOST(third.Token, fmt.Sprintf("/offers/%s/accept", buyerOfferID), nil)
	testutil.AssertErrorCode(t, resp, http.StatusForbidden, "FORBIDDEN")

	resp = env.AuthPOST(seller.Token, fmt.Sprintf("/offers/%s/accept", buyerOfferID), nil)
	testutil.AssertStatus(t, resp, http.StatusOK)

	var accepted struct {
		Status string `json:"status"`
	}
	testutil.DecodeBody(t, resp, &accepted)
	require.Equal(t, "accepted", accepted.Status)

	resp = env.GET(fmt.Sprintf("/transfers/%s", transferID))
	testutil.AssertStatus(t, resp, http.StatusOK)
	var tr struct {
		Status      string     `json:"status"`
		BuyerClubID *uuid.UUID `json:"buyer_club_id"`
		Amount      int64      `json:"amount"`
	}
	testutil.DecodeBody(t, resp, &tr)
	require.Equal(t, "accepted", tr.Status)
	require.NotNil(t, tr.BuyerClubID)
	require.Equal(t, buyer.ClubID, *tr.BuyerClubID)
	require.Equal(t, int64(11_000_000), tr.Amount)

	resp = env.GET(fmt.Sprintf("/transfers/%s/offers", transferID))
	testutil.AssertStatus(t, resp, http.StatusOK)
	var offers []struct {
		ID     uuid.UUID `json:"id"`
		Status string    `json:"status"`
	}
	testutil.DecodeBody(t, resp, &offers)
	statuses := map[uuid.UUID]string{}
	for _, o := range offers {
		statuses[o.ID] = o.Status
	}
	require.Equal(t, "accepted", statuses[buyerOfferID])
	require.Equal(t, "rejected", statuses[thirdOfferID])

	// Completion reassigns the player to the buying club.
	resp = env.AuthPATCH(seller.Token, fmt.Sprintf("/transfers/%s/status", transferID),
		map[string]interface{}{"status": "completed"})
	testutil.AssertStatus(t, resp, http.StatusOK)

	resp = env.GET(fmt.Sprintf("/players/%s", playerID))
	testutil.AssertStatus(t, resp, http.StatusOK)
	var player struct {
		ClubID *uuid.UUID `json:"club_id"`
	}
	testutil.DecodeBody(t, resp, &player)
	require.NotNil(t, player.ClubID)
	require.Equal(t, buyer.ClubID, *player.ClubID)

	// Completed transfers are immutable history.
	resp = env.AuthDELETE(seller.Token, fmt.Sprintf("/transfers/%s", transferID))
	testutil.AssertErrorCode(t, resp, http.StatusConflict, "CONFLICT")

	resp = env.AuthPATCH(seller.Token, fmt.Sprintf("/transfers/%s/status", transferID),
		map[string]interface{}{"status": "rejected"})
	testutil.AssertErrorCode(t, resp, http.StatusConflict, "CONFLICT")
}

func TestAcceptRequiresOpenWindow(t *testing.T) {
	env := testutil.NewTestEnv(t)

	seller := env.RegisterClub("Gated FC")
	buyer := env.RegisterClub("Eager FC")
	playerID := env.SeedPlayer(&seller.ClubID, "Luis Romero", 8_000_000)

	env.OpenWindow()
	transferID := createListing(t, env, seller.Token, playerID, "Permanent", 9_000_000)
	offerID := placeOffer(t, env, buyer.Token, transferID, 8_500_000)

	// Window closes mid-negotiation: acceptance is refused, the bid stays
	// pending.
	env.CloseAllWindows()
	resp := env.AuthPOST(seller.Token, fmt.Sprintf("/offers/%s/accept", offerID), nil)
	testutil.AssertErrorCode(t, resp, http.StatusUnprocessableEntity, "WINDOW_CLOSED")
	requireTransferStatus(t, env, transferID, "negotiation")

	// New bids are gated too.
	resp = env.AuthPOST(buyer.Token, fmt.Sprintf("/transfers/%s/offers", transferID),
		map[string]interface{}{"amount": 8_600_000})
	testutil.AssertErrorCode(t, resp, http.StatusUnprocessableEntity, "WINDOW_CLOSED")

	env.OpenWindow()
	resp = env.AuthPOST(seller.Token, fmt.Sprintf("/offers/%s/accept", offerID), nil)
	testutil.AssertStatus(t, resp, http.StatusOK)
	resp.Body.Close()
}

func TestWithdrawRevertsNegotiation(t *testing.T) {
	env := testutil.NewTestEnv(t)

	seller := env.RegisterClub("Patient FC")
	buyer := env.RegisterClub("Fickle FC")
	rival := env.RegisterClub("Bystander FC")
	playerID := env.SeedPlayer(&seller.ClubID, "Andre Costa", 5_000_000)

	env.OpenWindow()
	transferID := createListing(t, env, seller.Token, playerID, "Loan", 500_000)
	offerID := placeOffer(t, env, buyer.Token, transferID, 600_000)
	requireTransferStatus(t, env, transferID, "negotiation")

	// Only the bidding club may withdraw.
	resp := env.AuthDELETE(rival.Token, fmt.Sprintf("/offers/%s", offerID))
	testutil.AssertErrorCode(t, resp, http.StatusForbidden, "FORBIDDEN")

	// Withdrawing the last pending bid drops the listing back to pending.
	// Unlike bidding, withdrawal is not window-gated.
	env.CloseAllWindows()
	resp = env.AuthDELETE(buyer.Token, fmt.Sprintf("/offers/%s", offerID))
	testutil.AssertStatus(t, resp, http.StatusNoContent)
	resp.Body.Close()
	requireTransferStatus(t, env, transferID, "pending")
}

func TestRejectAndCounterOffers(t *testing.T) {
	env := testutil.NewTestEnv(t)

	seller := env.RegisterClub("Stubborn FC")
	buyer := env.RegisterClub("Persistent FC")
	playerID := env.SeedPlayer(&seller.ClubID, "Noah Laurent", 6_000_000)

	env.OpenWindow()
	transferID := createListing(t, env, seller.Token, playerID, "Permanent", 7_000_000)
	offerID := placeOffer(t, env, buyer.Token, transferID, 6_200_000)

	// Counter keeps the bid pending at the new amount.
	resp := env.AuthPOST(seller.Token, fmt.Sprintf("/offers/%s/counter", offerID),
		map[string]interface{}{"amount": 6_800_000})
	testutil.AssertStatus(t, resp, http.StatusOK)
	var countered struct {
		Status string `json:"status"`
		Amount int64  `json:"amount"`
	}
	testutil.DecodeBody(t, resp, &countered)
	require.Equal(t, "pending", countered.Status)
	require.Equal(t, int64(6_800_000), countered.Amount)
	requireTransferStatus(t, env, transferID, "negotiation")

	// Countering is window-gated.
	env.CloseAllWindows()
	resp = env.AuthPOST(seller.Token, fmt.Sprintf("/offers/%s/counter", offerID),
		map[string]interface{}{"amount": 6_900_000})
	testutil.AssertErrorCode(t, resp, http.StatusUnprocessableEntity, "WINDOW_CLOSED")

	// Rejecting is not, and rejecting the last pending bid reverts the
	// listing.
	resp = env.AuthPOST(seller.Token, fmt.Sprintf("/offers/%s/reject", offerID), nil)
	testutil.AssertStatus(t, resp, http.StatusOK)
	var rejected struct {
		Status string `json:"status"`
	}
	testutil.DecodeBody(t, resp, &rejected)
	require.Equal(t, "rejected", rejected.Status)
	requireTransferStatus(t, env, transferID, "pending")

	// A rejected offer is terminal.
	resp = env.AuthPOST(seller.Token, fmt.Sprintf("/offers/%s/reject", offerID), nil)
	testutil.AssertErrorCode(t, resp, http.StatusConflict, "CONFLICT")
}

func TestAdminListsFreeAgent(t *testing.T) {
	env := testutil.NewTestEnv(t)

	admin := env.RegisterAdmin()
	playerID := env.SeedPlayer(nil, "Free Agent", 2_000_000)
	env.OpenWindow()

	// Free transfers force the amount to zero.
	resp := env.AuthPOST(admin.Token, "/admin/transfers", map[string]interface{}{
		"player_id": playerID,
		"type":      "Free",
		"amount":    1_000_000,
	})
	testutil.AssertStatus(t, resp, http.StatusCreated)

	var tr struct {
		SellerClubID *uuid.UUID `json:"seller_club_id"`
		Status       string     `json:"status"`
		Amount       int64      `json:"amount"`
	}
	testutil.DecodeBody(t, resp, &tr)
	require.Nil(t, tr.SellerClubID)
	require.Equal(t, "pending", tr.Status)
	require.Zero(t, tr.Amount)

	// Club tokens do not open admin routes.
	club := env.RegisterClub("Ordinary FC")
	resp = env.AuthPOST(club.Token, "/admin/transfers", map[string]interface{}{
		"player_id": playerID,
		"type":      "Free",
	})
	testutil.AssertStatus(t, resp, http.StatusUnauthorized)
}

func TestRetiredPlayerCannotBeListed(t *testing.T) {
	env := testutil.NewTestEnv(t)

	admin := env.RegisterAdmin()
	seller := env.RegisterClub("History FC")
	playerID := env.SeedPlayer(&seller.ClubID, "Old Legend", 1_000_000)

	resp := env.AuthPOST(admin.Token, fmt.Sprintf("/admin/players/%s/retire", playerID), nil)
	testutil.AssertStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = env.AuthPOST(seller.Token, "/transfers", map[string]interface{}{
		"player_id": playerID,
		"type":      "Permanent",
		"amount":    1_500_000,
	})
	testutil.AssertErrorCode(t, resp, http.StatusConflict, "CONFLICT")

	// Retiring twice conflicts, editing a retired player conflicts.
	resp = env.AuthPOST(admin.Token, fmt.Sprintf("/admin/players/%s/retire", playerID), nil)
	testutil.AssertErrorCode(t, resp, http.StatusConflict, "CONFLICT")
}

func createListing(t *testing.T, env *testutil.TestEnv, token string, playerID uuid.UUID, transferType string, amount int64) uuid.UUID {
	t.Helper()

	resp := env.AuthPOST(token, "/transfers", map[string]interface{}{
		"player_id": playerID,
		"type":      transferType,
		"amount":    amount,
	})
	testutil.AssertStatus(t, resp, http.StatusCreated)

	var tr struct {
		ID uuid.UUID `json:"id"`
	}
	testutil.DecodeBody(t, resp, &tr)
	return tr.ID
}

func placeOffer(t *testing.T, env *testutil.TestEnv, token string, transferID uuid.UUID, amount int64) uuid.UUID {
	t.Helper()

	resp := env.AuthPOST(token, fmt.Sprintf("/transfers/%s/offers", transferID),
		map[string]interface{}{"amount": amount})
	testutil.AssertStatus(t, resp, http.StatusCreated)

	var o struct {
		ID uuid.UUID `json:"id"`
	}
	testutil.DecodeBody(t, resp, &o)
	return o.ID
}

func requireTransferStatus(t *testing.T, env *testutil.TestEnv, transferID uuid.UUID, want string) {
	t.Helper()

	resp := env.GET(fmt.Sprintf("/transfers/%s", transferID))
	testutil.AssertStatus(t, resp, http.StatusOK)
	var tr struct {
		Status string `json:"status"`
	}
	testutil.DecodeBody(t, resp, &tr)
	require.Equal(t, want, tr.Status)
}
