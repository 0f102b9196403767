package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *JWTManager {
	return NewJWTManager("test-secret-that-is-long-enough-123", time.Hour, 30*time.Minute)
}

func TestGenerateAndValidateToken(t *testing.T) {
	mgr := newTestManager()
	userID := uuid.New()
	clubID := uuid.New()

	token, err := mgr.GenerateToken(RealmClub, userID, "club@example.com", "club", clubID.String())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := mgr.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, RealmClub, claims.Realm)
	assert.Equal(t, "club@example.com", claims.Email)
	assert.Equal(t, clubID.String(), claims.ClubID)
}

func TestValidateTokenForRealm(t *testing.T) {
	mgr := newTestManager()
	userID := uuid.New()

	clubToken, err := mgr.GenerateToken(RealmClub, userID, "c@example.com", "club", "")
	require.NoError(t, err)
	adminToken, err := mgr.GenerateToken(RealmAdmin, userID, "a@example.com", "admin", "")
	require.NoError(t, err)

	_, err = mgr.ValidateTokenForRealm(clubToken, RealmClub)
	assert.NoError(t, err)

	_, err = mgr.ValidateTokenForRealm(clubToken, RealmAdmin)
	assert.Error(t, err, "club token must not pass admin realm check")

	_, err = mgr.ValidateTokenForRealm(adminToken, RealmClub)
	assert.Error(t, err)
}

func TestUnknownRealmRejected(t *testing.T) {
	mgr := newTestManager()

	_, err := mgr.GenerateToken(Realm("agent"), uuid.New(), "", "", "")
	assert.Error(t, err)
}

func TestTamperedTokenRejected(t *testing.T) {
	mgr := newTestManager()

	token, err := mgr.GenerateToken(RealmAdmin, uuid.New(), "a@example.com", "admin", "")
	require.NoError(t, err)

	_, err = mgr.ValidateToken(token + "x")
	assert.Error(t, err)
}

func TestWrongSecretRejected(t *testing.T) {
	mgr := newTestManager()
	other := NewJWTManager("completely-different-secret-456789", time.Hour, time.Hour)

	token, err := mgr.GenerateToken(RealmClub, uuid.New(), "", "club", "")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	mgr := NewJWTManager("test-secret-that-is-long-enough-123", -time.Minute, -time.Minute)

	token, err := mgr.GenerateToken(RealmClub, uuid.New(), "", "club", "")
	require.NoError(t, err)

	_, err = mgr.ValidateToken(token)
	assert.Error(t, err)
}
